package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/carslab/funnel-api/internal/models"
)

// MockCaptureService is a mock implementation of CaptureServiceInterface
type MockCaptureService struct {
	mock.Mock
}

func (m *MockCaptureService) Open(ctx context.Context, visitorID string) *models.DialogStateResponse {
	args := m.Called(ctx, visitorID)
	return args.Get(0).(*models.DialogStateResponse)
}

func (m *MockCaptureService) Close(ctx context.Context, visitorID string) *models.DialogStateResponse {
	args := m.Called(ctx, visitorID)
	return args.Get(0).(*models.DialogStateResponse)
}

func (m *MockCaptureService) SaveDraft(ctx context.Context, visitorID, email, phone string) {
	m.Called(ctx, visitorID, email, phone)
}

func (m *MockCaptureService) Submit(ctx context.Context, visitorID string, req *models.CaptureLeadRequest) *models.CaptureLeadResponse {
	args := m.Called(ctx, visitorID, req)
	return args.Get(0).(*models.CaptureLeadResponse)
}

// MockQualificationService is a mock implementation of QualificationServiceInterface
type MockQualificationService struct {
	mock.Mock
}

func (m *MockQualificationService) Open(ctx context.Context, visitorID string) *models.DialogStateResponse {
	args := m.Called(ctx, visitorID)
	return args.Get(0).(*models.DialogStateResponse)
}

func (m *MockQualificationService) OptOut(ctx context.Context, visitorID string) *models.DialogStateResponse {
	args := m.Called(ctx, visitorID)
	return args.Get(0).(*models.DialogStateResponse)
}

func (m *MockQualificationService) Submit(ctx context.Context, visitorID string, req *models.QualificationRequest) *models.QualificationResponse {
	args := m.Called(ctx, visitorID, req)
	return args.Get(0).(*models.QualificationResponse)
}

// MockFragmentService is a mock implementation of FragmentServiceInterface
type MockFragmentService struct {
	mock.Mock
}

func (m *MockFragmentService) Load(ctx context.Context, name string) (*models.Fragment, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Fragment), args.Error(1)
}

func (m *MockFragmentService) LoadPage(ctx context.Context) *models.PageResponse {
	args := m.Called(ctx)
	return args.Get(0).(*models.PageResponse)
}

// MockSubmissionJournal is a mock implementation of SubmissionJournalInterface
type MockSubmissionJournal struct {
	mock.Mock
}

func (m *MockSubmissionJournal) List(ctx context.Context, limit int) ([]*models.Submission, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Submission), args.Error(1)
}
