package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/domain"
)

type sqliteSubmissionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteSubmissionRepository builds the SQLite repository.
func NewSQLiteSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &sqliteSubmissionRepository{db: db, now: time.Now}
}

func (r *sqliteSubmissionRepository) Create(ctx context.Context, sub *domain.Submission) error {
	answers, err := json.Marshal(nonNil(sub.Answers))
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	now := r.now().UTC()
	id := uuid.NewString()
	const query = `
        INSERT INTO submissions (id, reference, kind, subject_name, subject_phone, phone_hash, department,
            department_code, category, severity, urgency, description, answers, head_contact, status, source,
            created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	if _, err := r.db.ExecContext(ctx, query,
		id,
		sub.Reference,
		string(sub.Kind),
		sub.SubjectName,
		sub.SubjectPhone,
		sub.PhoneHash,
		sub.Department,
		sub.DepartmentCode,
		sub.Category,
		sub.Severity,
		sub.Urgency,
		sub.Description,
		string(answers),
		sub.HeadContact,
		string(sub.Status),
		sub.Source,
		now,
		now,
	); err != nil {
		return err
	}
	sub.ID = id
	sub.CreatedAt = now
	sub.UpdatedAt = now
	return nil
}

func (r *sqliteSubmissionRepository) GetByReference(ctx context.Context, reference string) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE reference=?`
	var (
		sub            domain.Submission
		kind, status   string
		answers        string
		acknowledgedBy sql.NullString
		acknowledgedAt sql.NullTime
	)
	if err := r.db.QueryRowContext(ctx, query, reference).Scan(
		&sub.ID,
		&sub.Reference,
		&kind,
		&sub.SubjectName,
		&sub.SubjectPhone,
		&sub.PhoneHash,
		&sub.Department,
		&sub.DepartmentCode,
		&sub.Category,
		&sub.Severity,
		&sub.Urgency,
		&sub.Description,
		&answers,
		&sub.HeadContact,
		&status,
		&sub.Source,
		&acknowledgedBy,
		&acknowledgedAt,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	sub.Kind = domain.SubmissionKind(kind)
	sub.Status = domain.SubmissionStatus(status)
	if err := json.Unmarshal([]byte(answers), &sub.Answers); err != nil {
		return nil, fmt.Errorf("decode answers for %s: %w", reference, err)
	}
	if acknowledgedBy.Valid {
		by := acknowledgedBy.String
		sub.AcknowledgedBy = &by
	}
	if acknowledgedAt.Valid {
		at := acknowledgedAt.Time
		sub.AcknowledgedAt = &at
	}
	return &sub, nil
}

func (r *sqliteSubmissionRepository) MarkAcknowledged(ctx context.Context, reference, by string, at time.Time) error {
	const query = `
        UPDATE submissions SET status=?, acknowledged_by=?, acknowledged_at=?, updated_at=?
        WHERE reference=? AND status=?`
	res, err := r.db.ExecContext(ctx, query,
		string(domain.SubmissionStatusAcknowledged),
		by,
		at.UTC(),
		r.now().UTC(),
		reference,
		string(domain.SubmissionStatusOpen),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type sqliteDepartmentRepository struct {
	db *sql.DB
}

// NewSQLiteDepartmentRepository builds the SQLite department repository.
func NewSQLiteDepartmentRepository(db *sql.DB) DepartmentRepository {
	return &sqliteDepartmentRepository{db: db}
}

func (r *sqliteDepartmentRepository) GetByCode(ctx context.Context, code string) (*domain.Department, error) {
	const query = `
        SELECT code, name, head_contact, is_active, created_at, updated_at
        FROM departments WHERE code=?`
	var dept domain.Department
	if err := r.db.QueryRowContext(ctx, query, code).Scan(
		&dept.Code, &dept.Name, &dept.HeadContact, &dept.IsActive, &dept.CreatedAt, &dept.UpdatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	return &dept, nil
}

func (r *sqliteDepartmentRepository) ListActive(ctx context.Context) ([]domain.Department, error) {
	const query = `
        SELECT code, name, head_contact, is_active, created_at, updated_at
        FROM departments WHERE is_active = 1 ORDER BY code`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.Code, &dept.Name, &dept.HeadContact, &dept.IsActive, &dept.CreatedAt, &dept.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
