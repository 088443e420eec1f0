// Package session keeps per-user conversation state in process memory.
//
// Sessions are not persisted: a restart starts every user from the initial
// state. Each call is atomic with respect to other calls for the same user.
package session

import (
	"sync"
	"time"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
)

// Store is the session abstraction shared by the dispatcher and the workers.
type Store interface {
	Get(userID string) domain.Session
	SetState(userID string, state domain.State)
	SetField(userID, key, value string)
	Field(userID, key string) (string, bool)
	All(userID string) map[string]string
	Clear(userID string)
	SweepExpired(now time.Time, maxAge time.Duration) int
	Len() int
}

// Option configures a memory store.
type Option func(*memoryStore)

// WithClock overrides the time source used to stamp activity.
func WithClock(now func() time.Time) Option {
	return func(s *memoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	now      func() time.Time
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore(opts ...Option) Store {
	s := &memoryStore{
		sessions: make(map[string]*domain.Session),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a copy of the user's session, creating it on first use.
// Reading does not count as activity.
func (s *memoryStore) Get(userID string) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(userID).Clone()
}

func (s *memoryStore) SetState(userID string, state domain.State) {
	if !state.Valid() {
		state = domain.StateInitial
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.lookup(userID)
	sess.State = state
	sess.LastActivityAt = s.now()
}

func (s *memoryStore) SetField(userID, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.lookup(userID)
	sess.Data[key] = value
	sess.LastActivityAt = s.now()
}

func (s *memoryStore) Field(userID, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.lookup(userID).Data[key]
	return val, ok
}

func (s *memoryStore) All(userID string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(userID).Clone().Data
}

func (s *memoryStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// SweepExpired removes sessions idle for longer than maxAge and reports how
// many were dropped. Running it twice with the same arguments is a no-op the
// second time.
func (s *memoryStore) SweepExpired(now time.Time, maxAge time.Duration) int {
	cutoff := now.Add(-maxAge)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastActivityAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *memoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// lookup must be called with mu held.
func (s *memoryStore) lookup(userID string) *domain.Session {
	sess, ok := s.sessions[userID]
	if !ok {
		now := s.now()
		sess = &domain.Session{
			UserID:         userID,
			State:          domain.StateInitial,
			Data:           make(map[string]string),
			CreatedAt:      now,
			LastActivityAt: now,
		}
		s.sessions[userID] = sess
	}
	return sess
}
