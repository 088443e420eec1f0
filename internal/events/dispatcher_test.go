package events_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/events"
)

var _ = Describe("InMemoryDispatcher", func() {
	It("runs every subscriber even when one fails", func() {
		d := events.NewInMemoryDispatcher()
		boom := errors.New("boom")
		var calls []string
		d.Subscribe(events.EventSubmissionCreated, func(context.Context, events.Event) error {
			calls = append(calls, "first")
			return boom
		})
		d.Subscribe(events.EventSubmissionCreated, func(_ context.Context, e events.Event) error {
			calls = append(calls, "second:"+e.Reference)
			return nil
		})
		d.Subscribe(events.EventSubmissionAcknowledged, func(context.Context, events.Event) error {
			calls = append(calls, "other")
			return nil
		})

		err := d.Publish(context.Background(), events.Event{Type: events.EventSubmissionCreated, Reference: "CS-1"})
		Expect(err).To(MatchError(boom))
		Expect(calls).To(Equal([]string{"first", "second:CS-1"}))
	})

	It("is a no-op without subscribers", func() {
		d := events.NewInMemoryDispatcher()
		Expect(d.Publish(context.Background(), events.Event{Type: events.EventSubmissionAcknowledged})).To(Succeed())
	})
})
