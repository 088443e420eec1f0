package domain

import "time"

// SubmissionKind enumerates the workflows that produce a record.
type SubmissionKind string

const (
	KindCounseling          SubmissionKind = "counseling"
	KindAnonymousComplaint  SubmissionKind = "anonymous_complaint"
	KindDepartmentComplaint SubmissionKind = "department_complaint"
)

// Label is the human readable name used in staff and student messages.
func (k SubmissionKind) Label() string {
	switch k {
	case KindCounseling:
		return "counseling request"
	case KindAnonymousComplaint:
		return "anonymous complaint"
	case KindDepartmentComplaint:
		return "department complaint"
	default:
		return string(k)
	}
}

// SubmissionStatus enumerates lifecycle states for submissions.
type SubmissionStatus string

const (
	SubmissionStatusOpen         SubmissionStatus = "open"
	SubmissionStatusAcknowledged SubmissionStatus = "acknowledged"
	SubmissionStatusResolved     SubmissionStatus = "resolved"
	SubmissionStatusClosed       SubmissionStatus = "closed"
)

// Field names shared between the conversation flows and the submission service.
const (
	FieldName           = "name"
	FieldPhone          = "phone"
	FieldDescription    = "description"
	FieldDepartment     = "department"
	FieldDepartmentCode = "department_code"
	FieldHeadContact    = "head_contact"
	FieldUrgency        = "urgency"
)

// SourceWhatsAppBot marks records created through the chat channel.
const SourceWhatsAppBot = "whatsapp_bot"

// Submission is the record handed to the store at the end of a workflow.
type Submission struct {
	ID             string
	Reference      string
	Kind           SubmissionKind
	SubjectName    string
	SubjectPhone   string
	PhoneHash      string
	Department     string
	DepartmentCode string
	Category       string
	Severity       string
	Urgency        string
	Description    string
	Answers        map[string]string
	HeadContact    string
	Status         SubmissionStatus
	Source         string
	AcknowledgedBy *string
	AcknowledgedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Receipt is what a workflow learns back after a successful submission.
type Receipt struct {
	Reference   string
	HeadContact string
}
