package leadsapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/carslab/funnel-api/pkg/errors"
	"github.com/carslab/funnel-api/pkg/httpclient"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		URL:           server.URL,
		Token:         "test-token",
		ProductID:     "prod-123",
		LandingSource: "check-lavagem-segura",
	}, httpclient.NewStandardClient())
	require.NoError(t, err)

	return client, server
}

func strPtr(s string) *string { return &s }

func TestNewRequiresConfiguration(t *testing.T) {
	_, err := New(Config{Token: "tok"}, httpclient.NewStandardClient())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)

	_, err = New(Config{URL: "https://api.example.com/leads"}, httpclient.NewStandardClient())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestCreateSuccess(t *testing.T) {
	var gotAuth string
	var gotMethod string
	var gotBody map[string]any

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success": true, "id": "lead-1"}`))
	})

	resp, err := client.Create(context.Background(), &Lead{
		Name:             "Maria Silva",
		Email:            strPtr("maria@example.com"),
		Phone:            nil,
		ContactType:      ContactTypeEmail,
		UserType:         UserTypeLead,
		ConsentMarketing: true,
		ConversionStatus: ConversionStatusNotConverted,
		ProductID:        strPtr("prod-123"),
		LandingSource:    "check-lavagem-segura",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "Maria Silva", gotBody["name"])
	assert.Equal(t, "email", gotBody["contact_type"])
	assert.Nil(t, gotBody["phone"])
	assert.Equal(t, "not_converted", gotBody["conversion_status"])
	assert.Equal(t, "lead-1", resp["id"])
}

func TestCreateDuplicate(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error": "lead already registered"}`))
	})

	_, err := client.Create(context.Background(), &Lead{
		Name:        "Maria Silva",
		Email:       strPtr("maria@example.com"),
		ContactType: ContactTypeEmail,
		UserType:    UserTypeLead,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateLead)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "lead already registered", apiErr.Message)
}

func TestUpdateUserTypeSuccess(t *testing.T) {
	var gotMethod string
	var gotBody map[string]any

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "data": {"user_type": "empreendedor"}}`))
	})

	result, err := client.UpdateUserType(context.Background(), UserTypeUpdate{
		UserType: UserTypeEmpreendedor,
		Email:    "maria@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "empreendedor", gotBody["user_type"])
	assert.Equal(t, "maria@example.com", gotBody["email"])
	_, hasPhone := gotBody["phone"]
	assert.False(t, hasPhone, "empty phone must be omitted")

	assert.True(t, result.Success)
	assert.Equal(t, "empreendedor", result.Data["user_type"])
}

func TestUpdateUserTypeRequiresContact(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.UpdateUserType(context.Background(), UserTypeUpdate{UserType: UserTypeHobby})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.False(t, called, "no request should be made without a contact")
}

func TestUpdateUserTypeClientErrorsAreNotRetried(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{"invalid token", http.StatusUnauthorized, `{"error": "invalid token"}`, ErrInvalidToken},
		{"lead not found", http.StatusNotFound, `{"error": "lead not found"}`, ErrLeadNotFound},
		{"validation error", http.StatusBadRequest, `{"error": "user_type must be hobby or empreendedor"}`, apperrors.ErrInvalidInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			requests := 0
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				requests++
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.UpdateUserType(context.Background(), UserTypeUpdate{
				UserType: UserTypeHobby,
				Phone:    "11987654321",
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.sentinel)
			assert.Equal(t, 1, requests, "4xx responses must not be retried")

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.StatusCode)
		})
	}
}

func TestUpdateUserTypeRetriesServerErrors(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true}`))
	})

	result, err := client.UpdateUserType(context.Background(), UserTypeUpdate{
		UserType: UserTypeEmpreendedor,
		Email:    "maria@example.com",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, requests)
}

func TestCreateNonJSONErrorBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("upstream exploded"))
	})

	_, err := client.Create(context.Background(), &Lead{
		Name:        "Maria Silva",
		Email:       strPtr("maria@example.com"),
		ContactType: ContactTypeEmail,
		UserType:    UserTypeLead,
	})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), apiErr.Message)
}

func TestCreateDuplicatesDoNotTripBreaker(t *testing.T) {
	var status atomic.Int64
	status.Store(http.StatusConflict)

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		code := int(status.Load())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if code == http.StatusConflict {
			_, _ = w.Write([]byte(`{"error": "lead already registered"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success": true, "id": "lead-9"}`))
	})

	lead := &Lead{
		Name:        "Maria Silva",
		Email:       strPtr("maria@example.com"),
		ContactType: ContactTypeEmail,
		UserType:    UserTypeLead,
	}

	// Enough duplicates to satisfy any failure-ratio trip condition.
	for i := 0; i < 5; i++ {
		_, err := client.Create(context.Background(), lead)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicateLead, "duplicate %d should still surface as a duplicate", i+1)
	}

	// The upstream is healthy, so a brand-new lead must still go through.
	status.Store(http.StatusCreated)
	resp, err := client.Create(context.Background(), lead)
	require.NoError(t, err)
	assert.Equal(t, "lead-9", resp["id"])
}

func TestCreateServerErrorsTripBreaker(t *testing.T) {
	var calls atomic.Int64

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "upstream down"}`))
	})

	lead := &Lead{
		Name:        "Maria Silva",
		Email:       strPtr("maria@example.com"),
		ContactType: ContactTypeEmail,
		UserType:    UserTypeLead,
	}

	for i := 0; i < 3; i++ {
		_, err := client.Create(context.Background(), lead)
		require.Error(t, err)
	}

	_, err := client.Create(context.Background(), lead)
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int64(3), calls.Load(), "an open breaker should not reach the backend")
}
