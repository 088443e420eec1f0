// Package acknowledgment handles the buttons staff tap on submission alerts.
package acknowledgment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/actionid"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/messaging"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/repository"
	apperrors "github.com/spec-kit/wellness-helpdesk-bot/pkg/util/errorutil"
)

// Records is the submission store as seen by staff actions.
type Records interface {
	GetByReference(ctx context.Context, reference string) (*domain.Submission, error)
	Acknowledge(ctx context.Context, reference, by string) (*domain.Submission, error)
}

// Coordinator turns staff action ids into record updates and messages.
type Coordinator struct {
	records      Records
	sender       messaging.Sender
	logger       *zap.Logger
	dashboardURL string
}

// NewCoordinator builds a coordinator. dashboardURL may be empty.
func NewCoordinator(records Records, sender messaging.Sender, logger *zap.Logger, dashboardURL string) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		records:      records,
		sender:       sender,
		logger:       logger,
		dashboardURL: strings.TrimRight(dashboardURL, "/"),
	}
}

// HandleAction reports false when raw is not a staff action id.
func (c *Coordinator) HandleAction(ctx context.Context, actor, raw string) bool {
	action, err := actionid.Decode(raw)
	if err != nil || !action.Known() {
		return false
	}

	switch action.Type {
	case actionid.TypeAcknowledge:
		ack, err := actionid.ParseAcknowledge(action)
		if err != nil {
			c.logger.Warn("malformed acknowledge action", zap.String("actor", actor), zap.Error(err))
			c.send(ctx, actor, "This button is no longer valid.")
			return true
		}
		c.acknowledge(ctx, actor, ack)
	case actionid.TypeOpen:
		c.open(ctx, actor, firstField(action))
	case actionid.TypeMessage:
		c.send(ctx, actor, messageText(firstField(action), fieldAt(action, 1)))
	case actionid.TypeCall:
		c.send(ctx, actor, callText(firstField(action)))
	}
	return true
}

func (c *Coordinator) acknowledge(ctx context.Context, actor string, ack actionid.Acknowledgement) {
	logger := c.logger.With(zap.String("reference", ack.Reference), zap.String("actor", actor))

	sub, err := c.records.GetByReference(ctx, ack.Reference)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.send(ctx, actor, notFoundText(ack.Reference))
		return
	case err != nil:
		logger.Error("load submission for acknowledgment", zap.Error(err))
		c.send(ctx, actor, "We couldn't load that request right now. Please try again shortly.")
		return
	}
	if sub.Status != domain.SubmissionStatusOpen {
		c.send(ctx, actor, alreadyAcknowledgedText(sub))
		return
	}

	updated, err := c.records.Acknowledge(ctx, ack.Reference, actor)
	switch {
	case apperrors.HasCode(err, apperrors.CodeConflict):
		// Another staff member won the race.
		c.send(ctx, actor, fmt.Sprintf("%s was already acknowledged.", ack.Reference))
		return
	case errors.Is(err, repository.ErrNotFound):
		c.send(ctx, actor, notFoundText(ack.Reference))
		return
	case err != nil:
		logger.Error("acknowledge submission", zap.Error(err))
		c.send(ctx, actor, "We couldn't record your acknowledgment. Please try again shortly.")
		return
	}

	if updated.SubjectPhone != "" {
		c.send(ctx, updated.SubjectPhone, subjectConfirmation(updated, ack.Name))
	}
	c.send(ctx, actor, fmt.Sprintf("Thanks! %s is marked as acknowledged.", ack.Reference))
	logger.Info("submission acknowledged", zap.String("kind", string(updated.Kind)))
}

func (c *Coordinator) open(ctx context.Context, actor, reference string) {
	if reference == "" {
		c.send(ctx, actor, "This button is no longer valid.")
		return
	}
	if c.dashboardURL != "" {
		c.send(ctx, actor, fmt.Sprintf("Details for %s:\n%s/submissions/%s", reference, c.dashboardURL, reference))
		return
	}
	sub, err := c.records.GetByReference(ctx, reference)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			c.logger.Error("load submission details", zap.String("reference", reference), zap.Error(err))
		}
		c.send(ctx, actor, notFoundText(reference))
		return
	}
	c.send(ctx, actor, detailsText(sub))
}

func (c *Coordinator) send(ctx context.Context, to, body string) {
	if err := c.sender.SendText(ctx, to, body); err != nil {
		c.logger.Warn("send staff action reply failed", zap.String("to", to), zap.Error(err))
	}
}

func firstField(a actionid.Action) string {
	return fieldAt(a, 0)
}

func fieldAt(a actionid.Action, i int) string {
	if i < len(a.Fields) {
		return strings.TrimSpace(a.Fields[i])
	}
	return ""
}
