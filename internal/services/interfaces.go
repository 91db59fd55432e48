package services

import (
	"context"

	"github.com/carslab/funnel-api/internal/models"
)

// CaptureServiceInterface defines the lead-capture dialog operations
type CaptureServiceInterface interface {
	Open(ctx context.Context, visitorID string) *models.DialogStateResponse
	Close(ctx context.Context, visitorID string) *models.DialogStateResponse
	SaveDraft(ctx context.Context, visitorID, email, phone string)
	Submit(ctx context.Context, visitorID string, req *models.CaptureLeadRequest) *models.CaptureLeadResponse
}

// QualificationServiceInterface defines the qualification dialog operations
type QualificationServiceInterface interface {
	Open(ctx context.Context, visitorID string) *models.DialogStateResponse
	OptOut(ctx context.Context, visitorID string) *models.DialogStateResponse
	Submit(ctx context.Context, visitorID string, req *models.QualificationRequest) *models.QualificationResponse
}

// FragmentServiceInterface defines fragment delivery operations
type FragmentServiceInterface interface {
	Load(ctx context.Context, name string) (*models.Fragment, error)
	LoadPage(ctx context.Context) *models.PageResponse
}

// SubmissionJournalInterface exposes the submissions journal for the
// internal review endpoint
type SubmissionJournalInterface interface {
	List(ctx context.Context, limit int) ([]*models.Submission, error)
}

// Ensure services implement their interfaces
var _ CaptureServiceInterface = (*CaptureService)(nil)
var _ QualificationServiceInterface = (*QualificationService)(nil)
var _ FragmentServiceInterface = (*FragmentService)(nil)
