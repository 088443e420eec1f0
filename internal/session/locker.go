package session

import "sync"

// Locker serializes work per user identifier. Entries are dropped once no
// goroutine holds or waits on them, so idle users cost nothing.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewLocker returns an empty keyed lock.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*keyLock)}
}

// Lock blocks until the caller owns userID and returns the matching unlock.
func (l *Locker) Lock(userID string) func() {
	l.mu.Lock()
	kl, ok := l.locks[userID]
	if !ok {
		kl = &keyLock{}
		l.locks[userID] = kl
	}
	kl.refs++
	l.mu.Unlock()

	kl.mu.Lock()
	return func() {
		kl.mu.Unlock()
		l.mu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
