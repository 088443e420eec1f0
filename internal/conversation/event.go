package conversation

import "strings"

// EventType classifies an inbound chat event.
type EventType string

const (
	EventText        EventType = "text"
	EventInteractive EventType = "interactive"
	// EventUnsupported covers media, stickers, locations and anything else
	// the flows cannot read.
	EventUnsupported EventType = "unsupported"
)

// DefaultDisplayName is used when the platform sends no profile name.
const DefaultDisplayName = "Student"

// Event is one inbound message from a user.
type Event struct {
	Type        EventType
	From        string
	Body        string
	ReplyID     string
	DisplayName string
	MessageID   string
}

// Name returns the display name or the default.
func (e Event) Name() string {
	if name := strings.TrimSpace(e.DisplayName); name != "" {
		return name
	}
	return DefaultDisplayName
}
