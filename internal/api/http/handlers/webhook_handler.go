package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/api/dto"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/conversation"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/observability"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/repository"
	apperrors "github.com/spec-kit/wellness-helpdesk-bot/pkg/util/errorutil"
)

// EventDispatcher consumes inbound chat events.
type EventDispatcher interface {
	Dispatch(ctx context.Context, ev conversation.Event)
}

// WebhookHandler receives WhatsApp Cloud API callbacks.
type WebhookHandler struct {
	verifyToken string
	dispatcher  EventDispatcher
	dedup       repository.InboundDedup
	logger      *zap.Logger
	metrics     *observability.Metrics
}

// NewWebhookHandler constructs handler. dedup and metrics may be nil.
func NewWebhookHandler(verifyToken string, dispatcher EventDispatcher, dedup repository.InboundDedup, logger *zap.Logger, metrics *observability.Metrics) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{
		verifyToken: verifyToken,
		dispatcher:  dispatcher,
		dedup:       dedup,
		logger:      logger,
		metrics:     metrics,
	}
}

// Verify GET /webhook.
func (h *WebhookHandler) Verify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")
	if mode == "" || token == "" {
		return apperrors.NewValidationError("hub.mode and hub.verify_token required", nil)
	}
	if mode != "subscribe" || h.verifyToken == "" || token != h.verifyToken {
		h.logger.Warn("webhook verification rejected", zap.String("mode", mode))
		return apperrors.NewForbidden("verification failed")
	}
	return c.Status(fiber.StatusOK).SendString(challenge)
}

// Receive POST /webhook. Messages are handled before responding so the
// per-user order matches delivery order.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	var payload dto.WebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if payload.Object != dto.ObjectWhatsApp {
		return apperrors.NewNotFound("webhook object", map[string]any{"object": payload.Object})
	}

	ctx := c.UserContext()
	processed := 0
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			names := contactNames(change.Value.Contacts)
			for _, msg := range change.Value.Messages {
				if h.isDuplicate(ctx, msg.ID) {
					h.record("duplicate")
					continue
				}
				ev := toEvent(msg, names[msg.From])
				h.record(string(ev.Type))
				h.dispatcher.Dispatch(ctx, ev)
				processed++
			}
		}
	}
	return c.JSON(fiber.Map{"status": "received", "processed": processed})
}

func (h *WebhookHandler) isDuplicate(ctx context.Context, messageID string) bool {
	if h.dedup == nil || messageID == "" {
		return false
	}
	first, err := h.dedup.FirstSeen(ctx, messageID)
	if err != nil {
		h.logger.Warn("dedup lookup failed, processing anyway", zap.String("message_id", messageID), zap.Error(err))
		return false
	}
	return !first
}

func (h *WebhookHandler) record(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordEvent(outcome)
	}
}

func contactNames(contacts []dto.Contact) map[string]string {
	names := make(map[string]string, len(contacts))
	for _, ct := range contacts {
		names[ct.WaID] = strings.TrimSpace(ct.Profile.Name)
	}
	return names
}

func toEvent(msg dto.InboundMessage, name string) conversation.Event {
	ev := conversation.Event{
		Type:        conversation.EventUnsupported,
		From:        msg.From,
		DisplayName: name,
		MessageID:   msg.ID,
	}
	switch msg.Type {
	case dto.MessageTypeText:
		if msg.Text != nil {
			ev.Type = conversation.EventText
			ev.Body = msg.Text.Body
		}
	case dto.MessageTypeInteractive, dto.MessageTypeButton:
		if id := msg.ReplyID(); id != "" {
			ev.Type = conversation.EventInteractive
			ev.ReplyID = id
		}
	}
	return ev
}
