package worker_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/session"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/worker"
)

var _ = Describe("StartSessionSweeper", func() {
	It("removes idle sessions and stops with the context", func() {
		past := time.Now().Add(-2 * time.Hour)
		store := session.NewMemoryStore(session.WithClock(func() time.Time { return past }))
		store.SetState("919000000001", domain.StateAnonymousInput)

		ctx, cancel := context.WithCancel(context.Background())
		done := worker.StartSessionSweeper(ctx, store, 10*time.Millisecond, time.Hour, zap.NewNop())

		Eventually(store.Len).Should(Equal(0))
		cancel()
		Eventually(done).Should(BeClosed())
	})

	It("keeps recent sessions", func() {
		store := session.NewMemoryStore()
		store.SetState("919000000001", domain.StateCounselorQ2)

		ctx, cancel := context.WithCancel(context.Background())
		DeferCleanup(cancel)
		worker.StartSessionSweeper(ctx, store, 10*time.Millisecond, time.Hour, zap.NewNop())

		Consistently(store.Len, 50*time.Millisecond).Should(Equal(1))
	})

	It("does nothing without a usable interval", func() {
		done := worker.StartSessionSweeper(context.Background(), session.NewMemoryStore(), 0, time.Hour, nil)
		Expect(done).To(BeClosed())
	})
})
