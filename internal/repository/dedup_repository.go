package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// InboundDedup remembers platform message ids so redelivered webhooks are
// handled once.
type InboundDedup interface {
	// FirstSeen records id and reports whether it had not been seen before.
	FirstSeen(ctx context.Context, messageID string) (bool, error)
}

type redisDedup struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisDedup stores ids as keys with a TTL.
func NewRedisDedup(client *redis.Client, ttl time.Duration) InboundDedup {
	return &redisDedup{client: client, ttl: ttl, prefix: "helpdesk:inbound:"}
}

func (d *redisDedup) FirstSeen(ctx context.Context, messageID string) (bool, error) {
	return d.client.SetNX(ctx, d.prefix+messageID, 1, d.ttl).Result()
}

type memoryDedup struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

// NewMemoryDedup keeps ids in process memory, forgetting them after ttl.
func NewMemoryDedup(ttl time.Duration) InboundDedup {
	return &memoryDedup{ttl: ttl, seen: make(map[string]time.Time), now: time.Now}
}

func (d *memoryDedup) FirstSeen(_ context.Context, messageID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	for id, at := range d.seen {
		if now.Sub(at) > d.ttl {
			delete(d.seen, id)
		}
	}
	if _, ok := d.seen[messageID]; ok {
		return false, nil
	}
	d.seen[messageID] = now
	return true, nil
}
