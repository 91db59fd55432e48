package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server         ServerConfig
	Database       DatabaseConfig
	LeadAPI        LeadAPIConfig
	Funnel         FunnelConfig
	Storage        StorageConfig
	Auth           AuthConfig
	VisitorSession VisitorSessionConfig
	EventTriggers  EventTriggerFunctionsConfig
	Logging        LoggingConfig
	Observability  ObservabilityConfig
	Profiling      ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL         string
	MaxConns    int32
	MinConns    int32
	WorkOffline bool
}

// LeadAPIConfig points at the external Leads API that receives form
// submissions and qualification updates.
type LeadAPIConfig struct {
	URL           string
	Token         string
	ProductID     string
	LandingSource string
}

// FunnelConfig tunes the landing-page funnel itself: where fragments live,
// how long cached values survive, and the legal links injected into the
// consent copy.
type FunnelConfig struct {
	FragmentsDir     string
	FragmentTTL      int // seconds
	ContactTTL       int // seconds
	PrivacyPolicyURL string
	TermsOfUseURL    string
	PostSubmitLink   string
	PostSubmitTarget string
	UseObjectStorage bool
}

type StorageConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
	Prefix          string
}

type AuthConfig struct {
	InternalAPIToken string
}

type VisitorSessionConfig struct {
	JWTSecret    string
	JWTIssuer    string
	TTLHours     int
	CookieDomain string
	CookieSecure bool
}

type EventTriggerFunctionsConfig struct {
	LeadCreatedTriggerURL   string
	LeadQualifiedTriggerURL string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	OTLPEndpoint      string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "https://carslab.com.br")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://carslab.com.br,https://www.carslab.com.br")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("LANDING_SOURCE", "check-lavagem-segura")
	v.SetDefault("FRAGMENTS_DIR", "web/components")
	v.SetDefault("FRAGMENT_CACHE_TTL", 300)
	v.SetDefault("CONTACT_CACHE_TTL", 1800)
	v.SetDefault("POST_SUBMIT_TARGET", "_blank")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_BE_SERVICE_NAME", "funnel-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "carslab")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "funnel-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Visitor session defaults
	v.SetDefault("JWT_ISSUER", "funnel-api")
	v.SetDefault("SESSION_TTL_HOURS", 720) // visitors come back weeks later
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("COOKIE_SECURE", true)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	// Parse allowed CORS origins (comma-separated)
	allowedOrigins := []string{}
	originsStr := v.GetString("ALLOWED_CORS_ORIGINS")
	if originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins = append(allowedOrigins, origin)
			}
		}
	}

	// API_UR is a known deployment typo that shipped in older environment
	// files; honor it as a fallback so those environments keep working.
	apiURL := v.GetString("API_URL")
	if apiURL == "" {
		apiURL = v.GetString("API_UR")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        v.GetString("BASE_URL"),
			AllowedOrigins: allowedOrigins,
		},
		Database: DatabaseConfig{
			URL:         v.GetString("DATABASE_URL"),
			MaxConns:    20,
			MinConns:    2,
			WorkOffline: v.GetBool("DB_WORK_OFFLINE"),
		},
		LeadAPI: LeadAPIConfig{
			URL:           apiURL,
			Token:         v.GetString("API_TOKEN"),
			ProductID:     v.GetString("PRODUCT_ID"),
			LandingSource: v.GetString("LANDING_SOURCE"),
		},
		Funnel: FunnelConfig{
			FragmentsDir:     v.GetString("FRAGMENTS_DIR"),
			FragmentTTL:      v.GetInt("FRAGMENT_CACHE_TTL"),
			ContactTTL:       v.GetInt("CONTACT_CACHE_TTL"),
			PrivacyPolicyURL: v.GetString("PRIVACY_POLICY_URL"),
			TermsOfUseURL:    v.GetString("TERMS_OF_USE_URL"),
			PostSubmitLink:   v.GetString("POST_SUBMIT_LINK"),
			PostSubmitTarget: v.GetString("POST_SUBMIT_TARGET"),
			UseObjectStorage: v.GetBool("FRAGMENTS_USE_OBJECT_STORAGE"),
		},
		Storage: StorageConfig{
			AccessKeyID:     v.GetString("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("STORAGE_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("STORAGE_BUCKET_NAME"),
			Endpoint:        v.GetString("STORAGE_ENDPOINT"),
			Region:          v.GetString("STORAGE_REGION"),
			Prefix:          v.GetString("STORAGE_FRAGMENT_PREFIX"),
		},
		Auth: AuthConfig{
			InternalAPIToken: v.GetString("INTERNAL_API_TOKEN"),
		},
		VisitorSession: VisitorSessionConfig{
			JWTSecret:    v.GetString("JWT_SECRET"),
			JWTIssuer:    v.GetString("JWT_ISSUER"),
			TTLHours:     v.GetInt("SESSION_TTL_HOURS"),
			CookieDomain: v.GetString("COOKIE_DOMAIN"),
			CookieSecure: v.GetBool("COOKIE_SECURE"),
		},
		EventTriggers: EventTriggerFunctionsConfig{
			LeadCreatedTriggerURL:   v.GetString("LEAD_CREATED_TRIGGER_URL"),
			LeadQualifiedTriggerURL: v.GetString("LEAD_QUALIFIED_TRIGGER_URL"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			OTLPEndpoint:      v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	// Leads API credentials: better to die at startup than to discover a
	// broken submission path from a visitor report.
	if c.LeadAPI.URL == "" {
		return fmt.Errorf("API_URL is required")
	}
	if c.LeadAPI.Token == "" {
		return fmt.Errorf("API_TOKEN is required")
	}

	// Database configuration
	if !c.Database.WorkOffline && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when not in offline mode")
	}

	// Authentication tokens
	if c.Auth.InternalAPIToken == "" {
		return fmt.Errorf("INTERNAL_API_TOKEN is required")
	}
	if c.VisitorSession.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	// Server configuration
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	if c.Funnel.UseObjectStorage && c.Storage.BucketName == "" {
		return fmt.Errorf("STORAGE_BUCKET_NAME is required when fragments come from object storage")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
