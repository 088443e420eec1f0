package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/events"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/messaging"
)

// NotificationService reacts to submission events with logs and, when
// configured, an SMS alert to the responsible staff member. Department
// complaints go to the department head; everything else to the desk phone.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	sms        messaging.SMSSender
	alertTo    string
}

// NewNotificationService creates the service. sms may be nil.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, sms messaging.SMSSender, alertTo string) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		sms:        sms,
		alertTo:    alertTo,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSubmissionCreated, n.handleSubmissionCreated)
	n.dispatcher.Subscribe(events.EventSubmissionAcknowledged, n.handleSubmissionAcknowledged)
}

func (n *NotificationService) handleSubmissionCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("SubmissionCreated", zap.String("reference", event.Reference), zap.Any("payload", event.Payload))
	payload, ok := event.Payload.(events.SubmissionCreatedPayload)
	if !ok {
		return nil
	}
	body := fmt.Sprintf("New %s %s", payload.Kind.Label(), event.Reference)
	if payload.Department != "" {
		body += " for " + payload.Department
	}
	if payload.Urgency != "" {
		body += " (urgency: " + payload.Urgency + ")"
	}
	n.sendSMSAlert(ctx, event, alertRecipient(payload.HeadContact, n.alertTo), body)
	return nil
}

func (n *NotificationService) handleSubmissionAcknowledged(_ context.Context, event events.Event) error {
	n.logger.Info("SubmissionAcknowledged", zap.String("reference", event.Reference), zap.String("actor", event.Actor))
	return nil
}

func (n *NotificationService) sendSMSAlert(ctx context.Context, event events.Event, to, body string) {
	if n.sms == nil || to == "" {
		return
	}
	if err := n.sms.SendSMS(ctx, to, body); err != nil {
		n.logger.Warn("sms alert failed", zap.String("reference", event.Reference), zap.String("to", to), zap.Error(err))
	}
}

func alertRecipient(headContact, fallback string) string {
	if c := strings.TrimSpace(headContact); c != "" {
		return c
	}
	return fallback
}
