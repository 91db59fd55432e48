package services_test

import (
	"context"
	"io"
	"net/http"

	"github.com/stretchr/testify/mock"

	"github.com/carslab/funnel-api/internal/models"
)

// MockVisitorContactStore is a mock implementation of VisitorContactStore
type MockVisitorContactStore struct {
	mock.Mock
}

func (m *MockVisitorContactStore) SaveEmail(ctx context.Context, visitorID, email string) error {
	args := m.Called(ctx, visitorID, email)
	return args.Error(0)
}

func (m *MockVisitorContactStore) SavePhone(ctx context.Context, visitorID, phone string) error {
	args := m.Called(ctx, visitorID, phone)
	return args.Error(0)
}

func (m *MockVisitorContactStore) SaveUserData(ctx context.Context, visitorID string, record *models.ContactRecord) error {
	args := m.Called(ctx, visitorID, record)
	return args.Error(0)
}

func (m *MockVisitorContactStore) GetContact(ctx context.Context, visitorID string) (*models.ContactRecord, error) {
	args := m.Called(ctx, visitorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactRecord), args.Error(1)
}

// MockSubmissionStore is a mock implementation of SubmissionStore
type MockSubmissionStore struct {
	mock.Mock
}

func (m *MockSubmissionStore) Record(ctx context.Context, sub *models.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubmissionStore) MarkQualified(ctx context.Context, visitorID, userType string) error {
	args := m.Called(ctx, visitorID, userType)
	return args.Error(0)
}

func (m *MockSubmissionStore) List(ctx context.Context, limit int) ([]*models.Submission, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Submission), args.Error(1)
}

// MockFragmentSource is a mock implementation of FragmentSource
type MockFragmentSource struct {
	mock.Mock
}

func (m *MockFragmentSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockHTTPClient is a mock implementation of httpclient.Client
type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	args := m.Called(url, contentType, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func (m *MockHTTPClient) Get(url string) (*http.Response, error) {
	args := m.Called(url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}
