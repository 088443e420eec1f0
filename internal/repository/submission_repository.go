package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
)

// SubmissionRepository manages submission persistence.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *domain.Submission) error
	GetByReference(ctx context.Context, reference string) (*domain.Submission, error)
	// MarkAcknowledged moves an open submission to acknowledged. It returns
	// ErrNotFound when no open submission has the reference.
	MarkAcknowledged(ctx context.Context, reference, by string, at time.Time) error
}

type submissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository builds the Postgres repository.
func NewSubmissionRepository(pool *pgxpool.Pool) SubmissionRepository {
	return &submissionRepository{pool: pool}
}

const submissionColumns = `id, reference, kind, subject_name, subject_phone, phone_hash, department,
        department_code, category, severity, urgency, description, answers, head_contact, status,
        source, acknowledged_by, acknowledged_at, created_at, updated_at`

func (r *submissionRepository) Create(ctx context.Context, sub *domain.Submission) error {
	const query = `
        INSERT INTO submissions (reference, kind, subject_name, subject_phone, phone_hash, department,
            department_code, category, severity, urgency, description, answers, head_contact, status, source)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, created_at, updated_at`
	answers := sub.Answers
	if answers == nil {
		answers = map[string]string{}
	}
	return r.pool.QueryRow(ctx, query,
		sub.Reference,
		sub.Kind,
		sub.SubjectName,
		sub.SubjectPhone,
		sub.PhoneHash,
		sub.Department,
		sub.DepartmentCode,
		sub.Category,
		sub.Severity,
		sub.Urgency,
		sub.Description,
		answers,
		sub.HeadContact,
		sub.Status,
		sub.Source,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
}

func (r *submissionRepository) GetByReference(ctx context.Context, reference string) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE reference=$1`
	var sub domain.Submission
	if err := r.pool.QueryRow(ctx, query, reference).Scan(
		&sub.ID,
		&sub.Reference,
		&sub.Kind,
		&sub.SubjectName,
		&sub.SubjectPhone,
		&sub.PhoneHash,
		&sub.Department,
		&sub.DepartmentCode,
		&sub.Category,
		&sub.Severity,
		&sub.Urgency,
		&sub.Description,
		&sub.Answers,
		&sub.HeadContact,
		&sub.Status,
		&sub.Source,
		&sub.AcknowledgedBy,
		&sub.AcknowledgedAt,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

func (r *submissionRepository) MarkAcknowledged(ctx context.Context, reference, by string, at time.Time) error {
	const query = `
        UPDATE submissions SET status=$1, acknowledged_by=$2, acknowledged_at=$3, updated_at=NOW()
        WHERE reference=$4 AND status=$5`
	cmd, err := r.pool.Exec(ctx, query,
		domain.SubmissionStatusAcknowledged,
		by,
		at,
		reference,
		domain.SubmissionStatusOpen,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
