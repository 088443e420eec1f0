package events

import (
	"time"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSubmissionCreated      EventType = "submission_created"
	EventSubmissionAcknowledged EventType = "submission_acknowledged"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Reference string      `json:"reference"`
	Actor     string      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SubmissionCreatedPayload payload.
type SubmissionCreatedPayload struct {
	Kind        domain.SubmissionKind `json:"kind"`
	Department  string                `json:"department,omitempty"`
	Urgency     string                `json:"urgency,omitempty"`
	Severity    string                `json:"severity,omitempty"`
	HeadContact string                `json:"head_contact,omitempty"`
}

// SubmissionAcknowledgedPayload payload.
type SubmissionAcknowledgedPayload struct {
	Kind           domain.SubmissionKind `json:"kind"`
	AcknowledgedBy string                `json:"acknowledged_by"`
}
