package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			BaseURL:        "https://carslab.com.br",
			AllowedOrigins: []string{"https://carslab.com.br"},
		},
		Database: DatabaseConfig{URL: "postgres://localhost/funnel"},
		LeadAPI: LeadAPIConfig{
			URL:   "https://api.example.com/leads",
			Token: "token",
		},
		Auth:           AuthConfig{InternalAPIToken: "internal-token"},
		VisitorSession: VisitorSessionConfig{JWTSecret: "secret"},
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name: "development environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "development"},
			},
			expected: true,
		},
		{
			name: "debug gin mode",
			config: &Config{
				Server: ServerConfig{GinMode: "debug"},
			},
			expected: true,
		},
		{
			name: "production environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "production"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.IsDevelopment())
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, (&Config{Server: ServerConfig{AppEnv: "production"}}).IsProduction())
	assert.False(t, (&Config{Server: ServerConfig{AppEnv: "development"}}).IsProduction())
	assert.False(t, (&Config{Server: ServerConfig{AppEnv: "staging"}}).IsProduction())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name: "valid offline config",
			mutate: func(c *Config) {
				c.Database.URL = ""
				c.Database.WorkOffline = true
			},
		},
		{
			name:     "missing leads API URL",
			mutate:   func(c *Config) { c.LeadAPI.URL = "" },
			errorMsg: "API_URL is required",
		},
		{
			name:     "missing leads API token",
			mutate:   func(c *Config) { c.LeadAPI.Token = "" },
			errorMsg: "API_TOKEN is required",
		},
		{
			name:     "missing database URL online",
			mutate:   func(c *Config) { c.Database.URL = "" },
			errorMsg: "DATABASE_URL is required",
		},
		{
			name:     "missing internal API token",
			mutate:   func(c *Config) { c.Auth.InternalAPIToken = "" },
			errorMsg: "INTERNAL_API_TOKEN is required",
		},
		{
			name:     "missing JWT secret",
			mutate:   func(c *Config) { c.VisitorSession.JWTSecret = "" },
			errorMsg: "JWT_SECRET is required",
		},
		{
			name:     "missing CORS origins",
			mutate:   func(c *Config) { c.Server.AllowedOrigins = nil },
			errorMsg: "ALLOWED_CORS_ORIGINS is required",
		},
		{
			name: "object storage without bucket",
			mutate: func(c *Config) {
				c.Funnel.UseObjectStorage = true
			},
			errorMsg: "STORAGE_BUCKET_NAME is required",
		},
		{
			name: "profiling without endpoint",
			mutate: func(c *Config) {
				c.Profiling.Enabled = true
			},
			errorMsg: "O11Y_PROFILING_ENDPOINT is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errorMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	os.Clearenv()

	os.Setenv("API_URL", "https://api.example.com/leads")
	os.Setenv("API_TOKEN", "token")
	os.Setenv("INTERNAL_API_TOKEN", "internal")
	os.Setenv("JWT_SECRET", "secret")
	os.Setenv("DB_WORK_OFFLINE", "true")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "check-lavagem-segura", cfg.LeadAPI.LandingSource)
	assert.Equal(t, "web/components", cfg.Funnel.FragmentsDir)
	assert.Equal(t, 300, cfg.Funnel.FragmentTTL)
	assert.Equal(t, 720, cfg.VisitorSession.TTLHours)
	assert.Equal(t, "funnel-api", cfg.VisitorSession.JWTIssuer)
}

func TestLoad_APIURLTypoFallback(t *testing.T) {
	os.Clearenv()

	// Older environment files shipped the endpoint under API_UR
	os.Setenv("API_UR", "https://api.example.com/leads")
	os.Setenv("API_TOKEN", "token")
	os.Setenv("INTERNAL_API_TOKEN", "internal")
	os.Setenv("JWT_SECRET", "secret")
	os.Setenv("DB_WORK_OFFLINE", "true")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "https://api.example.com/leads", cfg.LeadAPI.URL)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	os.Clearenv()

	os.Setenv("PORT", "9000")
	os.Setenv("GIN_MODE", "debug")
	os.Setenv("APP_ENV", "development")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("API_URL", "https://api.example.com/leads")
	os.Setenv("API_TOKEN", "lead-token")
	os.Setenv("PRODUCT_ID", "prod-42")
	os.Setenv("LANDING_SOURCE", "custom-landing")
	os.Setenv("INTERNAL_API_TOKEN", "internal-token-789")
	os.Setenv("JWT_SECRET", "jwt-secret")
	os.Setenv("DATABASE_URL", "postgres://localhost/funnel")
	os.Setenv("POST_SUBMIT_LINK", "https://pay.example.com/checkout")
	os.Setenv("POST_SUBMIT_TARGET", "_self")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, "development", cfg.Server.AppEnv)
	assert.Equal(t, "https://api.example.com/leads", cfg.LeadAPI.URL)
	assert.Equal(t, "lead-token", cfg.LeadAPI.Token)
	assert.Equal(t, "prod-42", cfg.LeadAPI.ProductID)
	assert.Equal(t, "custom-landing", cfg.LeadAPI.LandingSource)
	assert.Equal(t, "internal-token-789", cfg.Auth.InternalAPIToken)
	assert.Equal(t, "https://pay.example.com/checkout", cfg.Funnel.PostSubmitLink)
	assert.Equal(t, "_self", cfg.Funnel.PostSubmitTarget)
}

func TestLoad_ValidationFailure(t *testing.T) {
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)

	tempDir := t.TempDir()
	os.Chdir(tempDir)

	os.Clearenv()
	os.Setenv("DB_WORK_OFFLINE", "true")
	// Missing API_URL, API_TOKEN, INTERNAL_API_TOKEN, JWT_SECRET

	cfg, err := Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}
