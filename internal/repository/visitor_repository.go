package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carslab/funnel-api/internal/models"
	"github.com/carslab/funnel-api/pkg/metrics"
)

// VisitorRepository persists visitor contact snapshots in PostgreSQL
type VisitorRepository struct {
	pool *pgxpool.Pool
}

// NewVisitorRepository creates a new visitor repository
func NewVisitorRepository(pool *pgxpool.Pool) *VisitorRepository {
	return &VisitorRepository{
		pool: pool,
	}
}

// SaveEmail upserts the email of a visitor, leaving other fields untouched
func (r *VisitorRepository) SaveEmail(ctx context.Context, visitorID, email string) error {
	start := time.Now()

	query := `
		INSERT INTO visitor_contacts (visitor_id, email, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (visitor_id)
		DO UPDATE SET email = EXCLUDED.email, updated_at = now()
	`

	_, err := r.pool.Exec(ctx, query, visitorID, email)
	observeStorage("save_email", start, err)
	if err != nil {
		return fmt.Errorf("failed to save visitor email: %w", err)
	}
	return nil
}

// SavePhone upserts the digits-only phone of a visitor
func (r *VisitorRepository) SavePhone(ctx context.Context, visitorID, phone string) error {
	start := time.Now()

	query := `
		INSERT INTO visitor_contacts (visitor_id, phone, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (visitor_id)
		DO UPDATE SET phone = EXCLUDED.phone, updated_at = now()
	`

	_, err := r.pool.Exec(ctx, query, visitorID, phone)
	observeStorage("save_phone", start, err)
	if err != nil {
		return fmt.Errorf("failed to save visitor phone: %w", err)
	}
	return nil
}

// SaveUserData upserts the full contact record of a visitor
func (r *VisitorRepository) SaveUserData(ctx context.Context, visitorID string, record *models.ContactRecord) error {
	start := time.Now()

	query := `
		INSERT INTO visitor_contacts (visitor_id, contact, contact_type, user_type, email, phone, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), now())
		ON CONFLICT (visitor_id)
		DO UPDATE SET
			contact = EXCLUDED.contact,
			contact_type = EXCLUDED.contact_type,
			user_type = EXCLUDED.user_type,
			email = COALESCE(EXCLUDED.email, visitor_contacts.email),
			phone = COALESCE(EXCLUDED.phone, visitor_contacts.phone),
			updated_at = now()
	`

	_, err := r.pool.Exec(ctx, query,
		visitorID, record.Contact, record.ContactType, record.UserType, record.Email, record.Phone)
	observeStorage("save_user_data", start, err)
	if err != nil {
		return fmt.Errorf("failed to save visitor contact record: %w", err)
	}
	return nil
}

// GetContact returns the stored record for a visitor, or nil when unknown
func (r *VisitorRepository) GetContact(ctx context.Context, visitorID string) (*models.ContactRecord, error) {
	start := time.Now()

	query := `
		SELECT COALESCE(contact, ''), COALESCE(contact_type, ''), COALESCE(user_type, ''),
			COALESCE(email, ''), COALESCE(phone, '')
		FROM visitor_contacts
		WHERE visitor_id = $1
	`

	record := &models.ContactRecord{}
	err := r.pool.QueryRow(ctx, query, visitorID).Scan(
		&record.Contact, &record.ContactType, &record.UserType, &record.Email, &record.Phone)
	observeStorage("get_contact", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load visitor contact record: %w", err)
	}

	return record, nil
}

func observeStorage(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.StorageRequestDuration.WithLabelValues(operation, status).Observe(metrics.MeasureDuration(start))
	metrics.StorageRequestTotal.WithLabelValues(operation, status).Inc()
}
