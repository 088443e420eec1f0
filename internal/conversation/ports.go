package conversation

import (
	"context"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
)

// Submitter persists a finished workflow record.
type Submitter interface {
	SubmitRecord(ctx context.Context, kind domain.SubmissionKind, fields map[string]string) (domain.Receipt, error)
}

// DepartmentDirectory lists departments for the selection step.
type DepartmentDirectory interface {
	LookupDepartments(ctx context.Context) ([]domain.Department, error)
}

// ActionHandler handles staff button replies. It reports false when
// replyID is not a staff action so the dispatcher can fall back.
type ActionHandler interface {
	HandleAction(ctx context.Context, actor, replyID string) bool
}
