package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
)

// MemorySubmissionRepository keeps submissions in process memory. It backs
// the service when no database is configured and in tests.
type MemorySubmissionRepository struct {
	mu    sync.RWMutex
	byRef map[string]domain.Submission
}

// NewMemorySubmissionRepository returns an empty repository.
func NewMemorySubmissionRepository() *MemorySubmissionRepository {
	return &MemorySubmissionRepository{byRef: make(map[string]domain.Submission)}
}

func (r *MemorySubmissionRepository) Create(_ context.Context, sub *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	sub.ID = uuid.NewString()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	r.byRef[sub.Reference] = copySubmission(*sub)
	return nil
}

func (r *MemorySubmissionRepository) GetByReference(_ context.Context, reference string) (*domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.byRef[reference]
	if !ok {
		return nil, ErrNotFound
	}
	out := copySubmission(sub)
	return &out, nil
}

func (r *MemorySubmissionRepository) MarkAcknowledged(_ context.Context, reference, by string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.byRef[reference]
	if !ok || sub.Status != domain.SubmissionStatusOpen {
		return ErrNotFound
	}
	sub.Status = domain.SubmissionStatusAcknowledged
	sub.AcknowledgedBy = &by
	sub.AcknowledgedAt = &at
	sub.UpdatedAt = time.Now().UTC()
	r.byRef[reference] = sub
	return nil
}

// Len reports how many submissions are stored.
func (r *MemorySubmissionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byRef)
}

func copySubmission(s domain.Submission) domain.Submission {
	out := s
	if s.Answers != nil {
		out.Answers = make(map[string]string, len(s.Answers))
		for k, v := range s.Answers {
			out.Answers[k] = v
		}
	}
	return out
}

// MemoryDepartmentRepository serves a fixed department list.
type MemoryDepartmentRepository struct {
	departments []domain.Department
}

// NewMemoryDepartmentRepository returns a repository over departments.
func NewMemoryDepartmentRepository(departments ...domain.Department) *MemoryDepartmentRepository {
	sorted := append([]domain.Department(nil), departments...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })
	return &MemoryDepartmentRepository{departments: sorted}
}

func (r *MemoryDepartmentRepository) GetByCode(_ context.Context, code string) (*domain.Department, error) {
	for _, d := range r.departments {
		if d.Code == code {
			dept := d
			return &dept, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryDepartmentRepository) ListActive(_ context.Context) ([]domain.Department, error) {
	var out []domain.Department
	for _, d := range r.departments {
		if d.IsActive {
			out = append(out, d)
		}
	}
	return out, nil
}
