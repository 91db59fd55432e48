package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/carslab/funnel-api/internal/cache"
	"github.com/carslab/funnel-api/internal/models"
	"github.com/carslab/funnel-api/internal/repository"
	"github.com/carslab/funnel-api/pkg/contact"
	"github.com/carslab/funnel-api/pkg/logger"
)

// ContactStoreService persists visitor contact data across visits. Writes
// are best effort: a storage failure is logged and swallowed, and reads
// treat failure as absence. Losing a prefill must never break the funnel.
type ContactStoreService struct {
	repo  repository.VisitorContactStore
	cache *cache.ContactCache
}

// NewContactStoreService creates a contact store. A nil repo means offline
// mode: the in-memory cache is the only persistence layer.
func NewContactStoreService(repo repository.VisitorContactStore, contactCache *cache.ContactCache) *ContactStoreService {
	return &ContactStoreService{
		repo:  repo,
		cache: contactCache,
	}
}

// SaveEmail stores a non-empty trimmed email for the visitor
func (s *ContactStoreService) SaveEmail(ctx context.Context, visitorID, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		return
	}

	s.cache.SetEmail(visitorID, email)

	if s.repo == nil {
		return
	}
	if err := s.repo.SaveEmail(ctx, visitorID, email); err != nil {
		logger.Warn("Failed to persist visitor email",
			zap.String("visitor_id", visitorID),
			zap.Error(err))
	}
}

// SavePhone stores the digits-only phone for the visitor. Partial numbers
// under 10 digits are ignored so an abandoned half-typed value never
// pollutes the prefill.
func (s *ContactStoreService) SavePhone(ctx context.Context, visitorID, phone string) {
	digits := contact.DigitsOnly(phone)
	if len(digits) < 10 {
		return
	}

	s.cache.SetPhone(visitorID, digits)

	if s.repo == nil {
		return
	}
	if err := s.repo.SavePhone(ctx, visitorID, digits); err != nil {
		logger.Warn("Failed to persist visitor phone",
			zap.String("visitor_id", visitorID),
			zap.Error(err))
	}
}

// SaveUserData stores the combined contact+classification record
func (s *ContactStoreService) SaveUserData(ctx context.Context, visitorID string, record *models.ContactRecord) {
	if record == nil || record.Contact == "" || record.ContactType == "" {
		logger.Warn("Incomplete contact record, not persisting",
			zap.String("visitor_id", visitorID))
		return
	}

	s.cache.SetUserData(visitorID, record)
	if record.Email != "" {
		s.cache.SetEmail(visitorID, record.Email)
	}
	if record.Phone != "" {
		s.cache.SetPhone(visitorID, record.Phone)
	}

	if s.repo == nil {
		return
	}
	if err := s.repo.SaveUserData(ctx, visitorID, record); err != nil {
		logger.Warn("Failed to persist visitor contact record",
			zap.String("visitor_id", visitorID),
			zap.Error(err))
	}
}

// GetEmail returns the stored email, empty when none exists
func (s *ContactStoreService) GetEmail(ctx context.Context, visitorID string) string {
	if email, ok := s.cache.GetEmail(visitorID); ok {
		return email
	}

	record := s.loadRecord(ctx, visitorID)
	if record == nil {
		return ""
	}
	if record.Email != "" {
		s.cache.SetEmail(visitorID, record.Email)
	}
	return record.Email
}

// GetPhone returns the stored digits-only phone, empty when none exists
func (s *ContactStoreService) GetPhone(ctx context.Context, visitorID string) string {
	if phone, ok := s.cache.GetPhone(visitorID); ok {
		return phone
	}

	record := s.loadRecord(ctx, visitorID)
	if record == nil {
		return ""
	}
	if record.Phone != "" {
		s.cache.SetPhone(visitorID, record.Phone)
	}
	return record.Phone
}

// GetContact returns the preferred contact channel for identifying the lead
// upstream: email when present, phone otherwise. An empty contact means the
// visitor never completed the capture form.
func (s *ContactStoreService) GetContact(ctx context.Context, visitorID string) (value, contactType string) {
	if email := s.GetEmail(ctx, visitorID); email != "" {
		return email, "email"
	}
	if phone := s.GetPhone(ctx, visitorID); phone != "" {
		return phone, "phone"
	}
	return "", ""
}

// GetPrefill returns the values used to pre-populate a freshly opened form.
// The phone comes back formatted the way the form displays it.
func (s *ContactStoreService) GetPrefill(ctx context.Context, visitorID string) *models.Prefill {
	email := s.GetEmail(ctx, visitorID)
	phone := s.GetPhone(ctx, visitorID)
	if email == "" && phone == "" {
		return nil
	}

	prefill := &models.Prefill{Email: email}
	if phone != "" {
		prefill.Phone = contact.FormatPhone(phone)
	}
	return prefill
}

func (s *ContactStoreService) loadRecord(ctx context.Context, visitorID string) *models.ContactRecord {
	if record, ok := s.cache.GetUserData(visitorID); ok {
		return record
	}
	if s.repo == nil {
		return nil
	}

	record, err := s.repo.GetContact(ctx, visitorID)
	if err != nil {
		logger.Warn("Failed to load visitor contact record, treating as absent",
			zap.String("visitor_id", visitorID),
			zap.Error(err))
		return nil
	}
	if record != nil {
		s.cache.SetUserData(visitorID, record)
	}
	return record
}
