// Package leadsapi wraps the external Leads API: one configured endpoint
// base, bearer-token auth, a POST to create a lead and a PATCH to amend its
// classification. The contact fields (email or digits-only phone) double as
// the lookup key for the PATCH; no server-side id is retained between calls.
package leadsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/carslab/funnel-api/pkg/circuitbreaker"
	apperrors "github.com/carslab/funnel-api/pkg/errors"
	"github.com/carslab/funnel-api/pkg/httpclient"
	"github.com/carslab/funnel-api/pkg/logger"
	"github.com/carslab/funnel-api/pkg/metrics"
	"github.com/carslab/funnel-api/pkg/retry"
)

// Wire values accepted by the Leads API.
const (
	ContactTypeEmail = "email"
	ContactTypePhone = "phone"
	ContactTypeBoth  = "both"

	UserTypeLead         = "lead"
	UserTypeHobby        = "hobby"
	UserTypeEmpreendedor = "empreendedor"

	ConversionStatusNotConverted = "not_converted"
)

var (
	// ErrDuplicateLead maps HTTP 409: a lead with this contact already exists
	ErrDuplicateLead = errors.New("lead already exists")

	// ErrInvalidToken maps HTTP 401
	ErrInvalidToken = errors.New("invalid API token")

	// ErrLeadNotFound maps HTTP 404 on the classification update
	ErrLeadNotFound = errors.New("lead not found")
)

// Lead is the creation payload. Email and Phone are pointers so an unchecked
// contact channel serializes as null, the way the form submits it.
type Lead struct {
	Name             string  `json:"name"`
	Email            *string `json:"email"`
	Phone            *string `json:"phone"`
	ContactType      string  `json:"contact_type"`
	UserType         string  `json:"user_type"`
	ConsentMarketing bool    `json:"consent_marketing"`
	ConversionStatus string  `json:"conversion_status"`
	ProductID        *string `json:"product_id"`
	LandingSource    string  `json:"landing_source"`
}

// UserTypeUpdate is the PATCH payload. At least one of Email/Phone is
// required by the contract; the client guards this before any network call.
type UserTypeUpdate struct {
	UserType string `json:"user_type"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// UpdateResult is the success payload of the classification update.
type UpdateResult struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
}

// APIError carries the HTTP status and parsed body of a failed call so
// callers can branch on the status (409 duplicate gets a tailored message).
type APIError struct {
	StatusCode int
	Message    string
	Body       map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("leads api: status %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps well-known statuses to sentinel errors for errors.Is checks.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusConflict:
		return ErrDuplicateLead
	case http.StatusUnauthorized:
		return ErrInvalidToken
	case http.StatusNotFound:
		return ErrLeadNotFound
	case http.StatusBadRequest:
		return apperrors.ErrInvalidInput
	default:
		return apperrors.ErrUnavailable
	}
}

// Config identifies the Leads API endpoint and credentials.
type Config struct {
	URL           string
	Token         string
	ProductID     string
	LandingSource string
}

// Client is the Leads API client. Calls go through a shared circuit breaker;
// the classification update is additionally retried since PATCHing the same
// user type twice is harmless, while Create is never retried (no idempotency
// key upstream).
type Client struct {
	cfg     Config
	http    httpclient.Client
	breaker *gobreaker.CircuitBreaker
}

// New builds a client. A missing URL or token is a configuration error
// raised here, before any network call is attempted.
func New(cfg Config, httpClient httpclient.Client) (*Client, error) {
	if cfg.URL == "" {
		return nil, apperrors.ConfigurationError("leads API URL")
	}
	if cfg.Token == "" {
		return nil, apperrors.ConfigurationError("leads API token")
	}

	breakerCfg := circuitbreaker.DefaultConfig("leads-api")
	// A 4xx is a verdict about the request, not the service: a run of 409
	// duplicates must not open the breaker and block fresh leads. Only
	// transport failures and 5xx count against it.
	breakerCfg.IsSuccessful = func(err error) bool {
		if err == nil {
			return true
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return apiErr.StatusCode < 500
		}
		return false
	}

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		breaker: circuitbreaker.NewCircuitBreaker(breakerCfg),
	}, nil
}

// ProductID returns the configured product id, empty when none is set.
func (c *Client) ProductID() string { return c.cfg.ProductID }

// LandingSource returns the configured landing source tag.
func (c *Client) LandingSource() string { return c.cfg.LandingSource }

// Create submits a new lead. A 2xx returns the parsed response body as-is;
// any other status returns an *APIError (409 unwraps to ErrDuplicateLead).
func (c *Client) Create(ctx context.Context, lead *Lead) (map[string]any, error) {
	start := time.Now()

	body, err := c.call(ctx, http.MethodPost, lead)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.LeadsAPIRequestDuration.WithLabelValues("create", status).Observe(metrics.MeasureDuration(start))
	metrics.LeadsAPIRequestTotal.WithLabelValues("create", status).Inc()
	logger.LogAPICall("leads-api", "create", status, metrics.MeasureDuration(start))

	if err != nil {
		return nil, err
	}
	return body, nil
}

// UpdateUserType amends the classification of an existing lead, identified
// by email or digits-only phone.
func (c *Client) UpdateUserType(ctx context.Context, upd UserTypeUpdate) (*UpdateResult, error) {
	if upd.Email == "" && upd.Phone == "" {
		return nil, apperrors.InvalidInputError("contact", "email or phone is required to identify the lead")
	}

	start := time.Now()

	body, err := retry.DoWithResult(ctx, updateRetryConfig(), "leads-api.update_user_type", func() (map[string]any, error) {
		return c.call(ctx, http.MethodPatch, upd)
	})

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.LeadsAPIRequestDuration.WithLabelValues("update_user_type", status).Observe(metrics.MeasureDuration(start))
	metrics.LeadsAPIRequestTotal.WithLabelValues("update_user_type", status).Inc()
	logger.LogAPICall("leads-api", "update_user_type", status, metrics.MeasureDuration(start))

	if err != nil {
		return nil, err
	}

	result := &UpdateResult{}
	raw, marshalErr := json.Marshal(body)
	if marshalErr == nil {
		_ = json.Unmarshal(raw, result) //nolint:errcheck // tolerant re-decode of an already-parsed body
	}
	return result, nil
}

// updateRetryConfig retries transport failures and 5xx only. Client errors
// (401/404/400) are final verdicts and retrying them just burns the budget.
func updateRetryConfig() retry.Config {
	cfg := retry.LeadsAPIConfig()
	cfg.RetryableErrors = func(err error) bool {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return apiErr.StatusCode >= 500
		}
		return true
	}
	return cfg
}

// call performs one JSON request against the configured base through the
// circuit breaker and normalizes non-2xx statuses into *APIError.
func (c *Client) call(ctx context.Context, method string, payload any) (map[string]any, error) {
	return circuitbreaker.Execute(c.breaker, func() (map[string]any, error) {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode leads api payload: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.cfg.URL, bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to build leads api request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("leads api request failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read leads api response: %w", err)
		}

		parsed := map[string]any{}
		if len(respBody) > 0 {
			// A body that is not JSON still produces a usable APIError below.
			_ = json.Unmarshal(respBody, &parsed) //nolint:errcheck
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := &APIError{
				StatusCode: resp.StatusCode,
				Message:    errorMessage(parsed, resp.StatusCode),
				Body:       parsed,
			}
			logger.Warn("Leads API returned non-success status",
				zap.String("method", method),
				zap.Int("status_code", resp.StatusCode),
				zap.String("message", apiErr.Message))
			return nil, apiErr
		}

		return parsed, nil
	})
}

// errorMessage pulls the server-supplied error text when present.
func errorMessage(body map[string]any, status int) string {
	if msg, ok := body["error"].(string); ok && msg != "" {
		return msg
	}
	if msg, ok := body["message"].(string); ok && msg != "" {
		return msg
	}
	return http.StatusText(status)
}
