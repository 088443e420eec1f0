package conversation_test

import (
	"context"
	"sync"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
)

type submitCall struct {
	Kind   domain.SubmissionKind
	Fields map[string]string
}

type fakeSubmitter struct {
	mu     sync.Mutex
	calls  []submitCall
	submit func(kind domain.SubmissionKind, fields map[string]string) (domain.Receipt, error)
}

func (f *fakeSubmitter) SubmitRecord(_ context.Context, kind domain.SubmissionKind, fields map[string]string) (domain.Receipt, error) {
	f.mu.Lock()
	f.calls = append(f.calls, submitCall{Kind: kind, Fields: fields})
	f.mu.Unlock()
	if f.submit != nil {
		return f.submit(kind, fields)
	}
	return domain.Receipt{Reference: "REF-1"}, nil
}

func (f *fakeSubmitter) Calls() []submitCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]submitCall(nil), f.calls...)
}

type fakeDirectory struct {
	depts []domain.Department
	err   error
}

func (f fakeDirectory) LookupDepartments(context.Context) ([]domain.Department, error) {
	return f.depts, f.err
}

type fakeActions struct {
	handled []string
	accept  func(id string) bool
}

func (f *fakeActions) HandleAction(_ context.Context, actor, id string) bool {
	if f.accept != nil && f.accept(id) {
		f.handled = append(f.handled, actor+":"+id)
		return true
	}
	return false
}
