package services_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carslab/funnel-api/config"
	"github.com/carslab/funnel-api/internal/cache"
	"github.com/carslab/funnel-api/internal/services"
	"github.com/carslab/funnel-api/pkg/httpclient"
	"github.com/carslab/funnel-api/pkg/leadsapi"
	"github.com/carslab/funnel-api/pkg/logger"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Funnel: config.FunnelConfig{
			PostSubmitLink:   "https://pay.example.com/checkout",
			PostSubmitTarget: "_blank",
			PrivacyPolicyURL: "https://carslab.com.br/politica-privacidade",
			TermsOfUseURL:    "https://carslab.com.br/termos-uso",
		},
	}
}

// newLeadsBackend spins an httptest server acting as the external Leads API
// and returns a client pointed at it.
func newLeadsBackend(t *testing.T, handler http.HandlerFunc) *leadsapi.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := leadsapi.New(leadsapi.Config{
		URL:           server.URL,
		Token:         "test-token",
		ProductID:     "prod-1",
		LandingSource: "check-lavagem-segura",
	}, httpclient.NewStandardClient())
	require.NoError(t, err)

	return client
}

func newContactStore(repo *MockVisitorContactStore) *services.ContactStoreService {
	if repo == nil {
		return services.NewContactStoreService(nil, cache.NewContactCache(60))
	}
	return services.NewContactStoreService(repo, cache.NewContactCache(60))
}
