package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENV" default:"production"`
	Port        string `envconfig:"PORT" default:"8080"`

	// IANA zone whose calendar day decides due dates, e.g. Asia/Jakarta
	Timezone string `envconfig:"TIMEZONE" default:"UTC"`
	location *time.Location

	// Database
	DBConnectionString string        `envconfig:"DB_CONNECTION_STRING" required:"true"`
	DBMaxConns         int32         `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMaxConnIdleTime  time.Duration `envconfig:"DB_MAX_CONN_IDLE_TIME" default:"5m"`

	// Sessions and sign-in
	JWTSecret      string        `envconfig:"JWT_SECRET" required:"true"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	GoogleClientID string        `envconfig:"GOOGLE_CLIENT_ID" required:"true"`

	// Object storage (any S3-compatible endpoint)
	S3URL          string `envconfig:"S3_URL" required:"true"`
	S3PublicURL    string `envconfig:"S3_PUBLIC_URL"`
	S3Bucket       string `envconfig:"S3_BUCKET" required:"true"`
	S3Region       string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey    string `envconfig:"S3_ACCESS_KEY" required:"true"`
	S3SecretKey    string `envconfig:"S3_SECRET_KEY" required:"true"`
	MaxUploadBytes int64  `envconfig:"MAX_UPLOAD_BYTES" default:"5242880"`

	// Billing events. Publishing is disabled when either is empty.
	GCPProjectID       string `envconfig:"GCP_PROJECT_ID"`
	PubSubBillingTopic string `envconfig:"PUBSUB_BILLING_TOPIC"`

	// Comma separated list of allowed CORS origins
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", cfg.MaxUploadBytes)
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc
	return &cfg, nil
}

// IsDevelopment reports whether the service runs against local tooling.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// PublicBaseURL is the prefix object URLs are built from.
func (c *Config) PublicBaseURL() string {
	if c.S3PublicURL != "" {
		return c.S3PublicURL
	}
	return c.S3URL
}

// EventsEnabled reports whether billing events should go to Pub/Sub.
func (c *Config) EventsEnabled() bool {
	return c.GCPProjectID != "" && c.PubSubBillingTopic != ""
}

// Location is the zone of TIMEZONE. UTC when the config was not loaded.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}
