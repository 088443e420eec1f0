package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/session"
)

// StartSessionSweeper drops sessions idle longer than maxAge every interval
// until ctx is cancelled. The returned channel closes when the loop exits.
func StartSessionSweeper(ctx context.Context, store session.Store, interval, maxAge time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if store == nil || interval <= 0 || maxAge <= 0 {
		close(done)
		return done
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if removed := store.SweepExpired(now, maxAge); removed > 0 {
					logger.Info("expired sessions removed", zap.Int("removed", removed), zap.Int("remaining", store.Len()))
				}
			}
		}
	}()
	return done
}
