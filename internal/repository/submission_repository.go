package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carslab/funnel-api/internal/models"
)

// SubmissionRepository journals lead submissions in PostgreSQL
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{
		pool: pool,
	}
}

// Record appends one submission outcome to the journal
func (r *SubmissionRepository) Record(ctx context.Context, sub *models.Submission) error {
	start := time.Now()

	query := `
		INSERT INTO lead_submissions (visitor_id, name, email, phone, contact_type, user_type, status, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, now())
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		sub.VisitorID, sub.Name, sub.Email, sub.Phone, sub.ContactType, sub.UserType, sub.Status,
	).Scan(&sub.ID, &sub.CreatedAt)
	observeStorage("record_submission", start, err)
	if err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}
	return nil
}

// MarkQualified updates the latest submission of a visitor with the chosen
// user type. Touching only the newest row keeps the journal append-mostly.
func (r *SubmissionRepository) MarkQualified(ctx context.Context, visitorID, userType string) error {
	start := time.Now()

	query := `
		UPDATE lead_submissions
		SET user_type = $2, status = $3
		WHERE id = (
			SELECT id FROM lead_submissions
			WHERE visitor_id = $1
			ORDER BY created_at DESC
			LIMIT 1
		)
	`

	_, err := r.pool.Exec(ctx, query, visitorID, userType, models.SubmissionStatusQualified)
	observeStorage("mark_qualified", start, err)
	if err != nil {
		return fmt.Errorf("failed to mark submission qualified: %w", err)
	}
	return nil
}

// List returns the most recent submissions, newest first
func (r *SubmissionRepository) List(ctx context.Context, limit int) ([]*models.Submission, error) {
	start := time.Now()

	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT id, visitor_id, name, COALESCE(email, ''), COALESCE(phone, ''),
			contact_type, user_type, status, created_at
		FROM lead_submissions
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	observeStorage("list_submissions", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	submissions := make([]*models.Submission, 0, limit)
	for rows.Next() {
		sub := &models.Submission{}
		if err := rows.Scan(
			&sub.ID, &sub.VisitorID, &sub.Name, &sub.Email, &sub.Phone,
			&sub.ContactType, &sub.UserType, &sub.Status, &sub.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission row: %w", err)
		}
		submissions = append(submissions, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}

	return submissions, nil
}
