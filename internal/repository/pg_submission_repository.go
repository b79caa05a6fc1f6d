package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/58nights/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgSubmissionRepository is the PostgreSQL implementation of SubmissionRepository.
// Unlike the file log it is safe for concurrent writers across processes.
type PgSubmissionRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPgSubmissionRepository creates a PgSubmissionRepository backed by the given pool.
func NewPgSubmissionRepository(pool *pgxpool.Pool) *PgSubmissionRepository {
	return &PgSubmissionRepository{pool: pool, now: time.Now}
}

// Ensure PgSubmissionRepository implements SubmissionRepository at compile time.
var _ SubmissionRepository = (*PgSubmissionRepository)(nil)

// Append inserts a contact_submissions row. Inserts are serialised with a
// transaction-scoped advisory lock and created_at is clamped to the latest
// stored value, so timestamps never decrease in id order.
func (r *PgSubmissionRepository) Append(ctx context.Context, sub *model.Submission) error {
	ts := r.now().UTC().Truncate(time.Millisecond)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrPersist, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('contact_submissions'))`); err != nil {
		return fmt.Errorf("%w: lock: %w", ErrPersist, err)
	}

	var stored time.Time
	err = tx.QueryRow(ctx,
		`INSERT INTO contact_submissions (name, email, message, created_at)
		 VALUES ($1, $2, $3, GREATEST($4::timestamptz, COALESCE((SELECT MAX(created_at) FROM contact_submissions), $4::timestamptz)))
		 RETURNING created_at`,
		sub.Name, sub.Email, sub.Message, ts,
	).Scan(&stored)
	if err != nil {
		return fmt.Errorf("%w: insert: %w", ErrPersist, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrPersist, err)
	}

	sub.Timestamp = model.FormatTimestamp(stored)
	return nil
}

// List returns every submission in insertion order.
func (r *PgSubmissionRepository) List(ctx context.Context) ([]*model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name, email, message, created_at
		 FROM contact_submissions
		 ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("repository: list submissions: %w", err)
	}
	defer rows.Close()

	subs := []*model.Submission{}
	for rows.Next() {
		var (
			s         model.Submission
			createdAt time.Time
		)
		if err := rows.Scan(&s.Name, &s.Email, &s.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("repository: scan submission: %w", err)
		}
		s.Timestamp = model.FormatTimestamp(createdAt)
		subs = append(subs, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: list submissions: %w", err)
	}
	return subs, nil
}
