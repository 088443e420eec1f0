package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/events"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/questionnaire"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/repository"
	apperrors "github.com/spec-kit/wellness-helpdesk-bot/pkg/util/errorutil"
)

// Defaults applied to anonymous complaints.
const (
	anonymousCategory = "General"
	anonymousSeverity = "Medium"
	anonymousName     = "Anonymous"
	counselingLabel   = "Counseling"
)

// SubmissionService persists workflow records and tracks acknowledgment.
type SubmissionService struct {
	submissions     repository.SubmissionRepository
	departments     repository.DepartmentRepository
	dispatcher      events.Dispatcher
	hasher          *PhoneHasher
	fallbackContact string
	logger          *zap.Logger
	now             func() time.Time
}

// SubmissionDependencies bundles collaborators for the submission service.
type SubmissionDependencies struct {
	SubmissionRepo  repository.SubmissionRepository
	DepartmentRepo  repository.DepartmentRepository
	Dispatcher      events.Dispatcher
	Hasher          *PhoneHasher
	FallbackContact string
	Logger          *zap.Logger
	Now             func() time.Time
}

// NewSubmissionService constructs the service.
func NewSubmissionService(deps SubmissionDependencies) *SubmissionService {
	s := &SubmissionService{
		submissions:     deps.SubmissionRepo,
		departments:     deps.DepartmentRepo,
		dispatcher:      deps.Dispatcher,
		hasher:          deps.Hasher,
		fallbackContact: deps.FallbackContact,
		logger:          deps.Logger,
		now:             deps.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.hasher == nil {
		s.hasher = NewPhoneHasher("")
	}
	return s
}

// SubmitRecord builds a submission of kind from flattened session fields,
// stores it and returns its reference plus the staff contact to notify.
func (s *SubmissionService) SubmitRecord(ctx context.Context, kind domain.SubmissionKind, fields map[string]string) (domain.Receipt, error) {
	sub, err := s.build(ctx, kind, fields)
	if err != nil {
		return domain.Receipt{}, err
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		return domain.Receipt{}, fmt.Errorf("store %s: %w", kind, err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventSubmissionCreated,
		Reference: sub.Reference,
		Payload: events.SubmissionCreatedPayload{
			Kind:        sub.Kind,
			Department:  sub.Department,
			Urgency:     sub.Urgency,
			Severity:    sub.Severity,
			HeadContact: sub.HeadContact,
		},
	})
	return domain.Receipt{Reference: sub.Reference, HeadContact: sub.HeadContact}, nil
}

func (s *SubmissionService) build(ctx context.Context, kind domain.SubmissionKind, fields map[string]string) (*domain.Submission, error) {
	get := func(key string) string { return strings.TrimSpace(fields[key]) }
	sub := &domain.Submission{
		Reference: generateReference(kind),
		Kind:      kind,
		Status:    domain.SubmissionStatusOpen,
		Source:    domain.SourceWhatsAppBot,
	}

	switch kind {
	case domain.KindCounseling:
		answers := make(map[string]string)
		for _, key := range questionnaire.Counseling().Keys() {
			if v := get(key); v != "" {
				answers[key] = v
			}
		}
		if answers[questionnaire.KeyIssueDescription] == "" {
			return nil, apperrors.NewValidationError("issue description is required", map[string]any{"field": questionnaire.KeyIssueDescription})
		}
		sub.SubjectName = get(domain.FieldName)
		sub.SubjectPhone = get(domain.FieldPhone)
		sub.Description = answers[questionnaire.KeyIssueDescription]
		sub.Urgency = answers[questionnaire.KeyUrgencyLevel]
		sub.Category = counselingLabel
		sub.Answers = answers

	case domain.KindAnonymousComplaint:
		sub.Description = get(domain.FieldDescription)
		if sub.Description == "" {
			return nil, apperrors.NewValidationError("complaint text is required", map[string]any{"field": domain.FieldDescription})
		}
		if phone := get(domain.FieldPhone); phone != "" {
			sub.PhoneHash = s.hasher.Hash(phone)
		}
		sub.SubjectName = anonymousName
		sub.Category = anonymousCategory
		sub.Severity = anonymousSeverity

	case domain.KindDepartmentComplaint:
		sub.Description = get(domain.FieldDescription)
		if sub.Description == "" {
			return nil, apperrors.NewValidationError("complaint text is required", map[string]any{"field": domain.FieldDescription})
		}
		sub.SubjectName = get(domain.FieldName)
		sub.SubjectPhone = get(domain.FieldPhone)
		sub.Department = get(domain.FieldDepartment)
		sub.DepartmentCode = get(domain.FieldDepartmentCode)
		sub.Urgency = get(domain.FieldUrgency)
		sub.Severity = sub.Urgency
		sub.Category = sub.Department
		sub.HeadContact = s.resolveHeadContact(ctx, sub.DepartmentCode, get(domain.FieldHeadContact))
		sub.Answers = map[string]string{domain.FieldUrgency: sub.Urgency}

	default:
		return nil, apperrors.NewValidationError("unknown submission kind", map[string]any{"kind": string(kind)})
	}
	return sub, nil
}

// resolveHeadContact prefers the directory, then the contact captured in the
// conversation, then the configured fallback.
func (s *SubmissionService) resolveHeadContact(ctx context.Context, code, captured string) string {
	if code != "" && s.departments != nil {
		dept, err := s.departments.GetByCode(ctx, code)
		switch {
		case err == nil && dept.HeadContact != "":
			return dept.HeadContact
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			s.logger.Warn("department lookup failed", zap.String("code", code), zap.Error(err))
		}
	}
	if captured != "" {
		return captured
	}
	return s.fallbackContact
}

// LookupDepartments lists active departments for the selection step.
func (s *SubmissionService) LookupDepartments(ctx context.Context) ([]domain.Department, error) {
	if s.departments == nil {
		return nil, errors.New("department directory not configured")
	}
	depts, err := s.departments.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	for i := range depts {
		if depts[i].HeadContact == "" {
			depts[i].HeadContact = s.fallbackContact
		}
	}
	return depts, nil
}

// GetByReference loads a submission.
func (s *SubmissionService) GetByReference(ctx context.Context, reference string) (*domain.Submission, error) {
	return s.submissions.GetByReference(ctx, reference)
}

// Acknowledge marks an open submission as acknowledged by staff. It returns
// repository.ErrNotFound for an unknown reference and a conflict error when
// the submission is no longer open.
func (s *SubmissionService) Acknowledge(ctx context.Context, reference, by string) (*domain.Submission, error) {
	if err := s.submissions.MarkAcknowledged(ctx, reference, by, s.now().UTC()); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("acknowledge %s: %w", reference, err)
		}
		existing, getErr := s.submissions.GetByReference(ctx, reference)
		if getErr != nil {
			return nil, err
		}
		return nil, apperrors.NewConflict("submission is not open", map[string]any{
			"reference": reference,
			"status":    string(existing.Status),
		})
	}
	sub, err := s.submissions.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventSubmissionAcknowledged,
		Reference: reference,
		Actor:     by,
		Payload: events.SubmissionAcknowledgedPayload{
			Kind:           sub.Kind,
			AcknowledgedBy: by,
		},
	})
	return sub, nil
}

var referencePrefixes = map[domain.SubmissionKind]string{
	domain.KindCounseling:          "CS",
	domain.KindAnonymousComplaint:  "AC",
	domain.KindDepartmentComplaint: "DC",
}

func generateReference(kind domain.SubmissionKind) string {
	prefix, ok := referencePrefixes[kind]
	if !ok {
		prefix = "SUB"
	}
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}

func (s *SubmissionService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.String("reference", event.Reference), zap.Error(err))
	}
}
