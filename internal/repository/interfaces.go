package repository

import (
	"context"

	"github.com/carslab/funnel-api/internal/models"
)

// VisitorContactStore defines persistence for visitor contact snapshots.
// Backed by PostgreSQL in production; nil in offline mode, where the
// in-memory cache is the only layer.
type VisitorContactStore interface {
	// SaveEmail upserts the email of a visitor
	SaveEmail(ctx context.Context, visitorID, email string) error

	// SavePhone upserts the digits-only phone of a visitor
	SavePhone(ctx context.Context, visitorID, phone string) error

	// SaveUserData upserts the full contact record of a visitor
	SaveUserData(ctx context.Context, visitorID string, record *models.ContactRecord) error

	// GetContact returns the stored record, or nil when the visitor is unknown
	GetContact(ctx context.Context, visitorID string) (*models.ContactRecord, error)
}

// SubmissionStore journals lead submissions for operational review
type SubmissionStore interface {
	// Record appends one submission outcome to the journal
	Record(ctx context.Context, sub *models.Submission) error

	// MarkQualified updates the journal after a qualification submission
	MarkQualified(ctx context.Context, visitorID, userType string) error

	// List returns the most recent submissions, newest first
	List(ctx context.Context, limit int) ([]*models.Submission, error)
}

// FragmentSource yields raw fragment HTML by name
type FragmentSource interface {
	// Fetch returns the fragment bytes for a relative file name
	Fetch(ctx context.Context, name string) ([]byte, error)
}
