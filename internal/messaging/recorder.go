package messaging

import (
	"context"
	"sync"
)

// SentMessage is one message captured by a Recorder.
type SentMessage struct {
	To     string
	Body   string
	Choice *Choice
}

// Recorder is a Sender that keeps everything in memory. It is used by tests
// and as the sender when no platform credentials are configured.
type Recorder struct {
	mu   sync.Mutex
	sent []SentMessage
	// Fail, when set, decides whether a send to the recipient errors.
	Fail func(to string) error
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SendText(_ context.Context, to, body string) error {
	return r.record(SentMessage{To: to, Body: body})
}

func (r *Recorder) SendChoice(_ context.Context, to, body string, choice Choice) error {
	c := choice
	return r.record(SentMessage{To: to, Body: body, Choice: &c})
}

func (r *Recorder) record(msg SentMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		if err := r.Fail(msg.To); err != nil {
			return err
		}
	}
	r.sent = append(r.sent, msg)
	return nil
}

// Sent returns a copy of everything delivered so far.
func (r *Recorder) Sent() []SentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SentMessage(nil), r.sent...)
}

// SentTo filters delivered messages by recipient.
func (r *Recorder) SentTo(to string) []SentMessage {
	var out []SentMessage
	for _, m := range r.Sent() {
		if m.To == to {
			out = append(out, m)
		}
	}
	return out
}

// Reset forgets delivered messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}
