// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// SessionConfig provides session credential settings for the codec and the
// authorization middleware.
type SessionConfig interface {
	GetSessionSecret() string
	GetSessionTTL() time.Duration
}

// WebhookConfig provides settings for verifying identity provider deliveries.
type WebhookConfig interface {
	GetWebhookSecret() string
	GetWebhookTolerance() time.Duration
}

// IdentityProviderConfig provides settings for verifying provider-issued
// identity assertions at the credential exchange endpoint.
type IdentityProviderConfig interface {
	GetIdentityIssuer() string
	GetIdentityAudience() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SchedulerConfig provides settings for the asynq scheduler process.
type SchedulerConfig interface {
	GetRedisURL() string
	GetDeliveryRetention() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env               string
	HTTPAddr          string
	DatabaseURL       string
	SessionSecret     string
	SessionTTL        time.Duration
	WebhookSecret     string
	WebhookTolerance  time.Duration
	IdentityIssuer    string
	IdentityAudience  string
	RedisURL          string
	DeliveryRetention time.Duration
	CORSAllowAll      bool
	CORSOrigins       []string
	CORSAllowCreds    bool
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// SessionConfig implementation
func (c *Config) GetSessionSecret() string     { return c.SessionSecret }
func (c *Config) GetSessionTTL() time.Duration { return c.SessionTTL }

// WebhookConfig implementation
func (c *Config) GetWebhookSecret() string           { return c.WebhookSecret }
func (c *Config) GetWebhookTolerance() time.Duration { return c.WebhookTolerance }

// IdentityProviderConfig implementation
func (c *Config) GetIdentityIssuer() string   { return c.IdentityIssuer }
func (c *Config) GetIdentityAudience() string { return c.IdentityAudience }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string                 { return c.RedisURL }
func (c *Config) GetDeliveryRetention() time.Duration { return c.DeliveryRetention }

// Load reads configuration from environment variables.
// Missing required secrets fail loading so the process never starts with
// credential or webhook verification silently disabled.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		SessionSecret:     getEnv("SESSION_JWT_SECRET", ""),
		SessionTTL:        mustDuration(getEnv("SESSION_TTL", "168h")),
		WebhookSecret:     getEnv("IDENTITY_WEBHOOK_SECRET", ""),
		WebhookTolerance:  mustDuration(getEnv("WEBHOOK_TOLERANCE", "5m")),
		IdentityIssuer:    getEnv("IDENTITY_ISSUER", ""),
		IdentityAudience:  getEnv("IDENTITY_AUDIENCE", ""),
		RedisURL:          getEnv("REDIS_URL", ""),
		DeliveryRetention: mustDuration(getEnv("WEBHOOK_DELIVERY_RETENTION", "720h")),
		CORSAllowAll:      corsAllowAll,
		CORSOrigins:       corsOrigins,
		CORSAllowCreds:    strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_JWT_SECRET is required")
	}
	if cfg.WebhookSecret == "" {
		return nil, fmt.Errorf("IDENTITY_WEBHOOK_SECRET is required")
	}
	if cfg.IdentityIssuer == "" {
		return nil, fmt.Errorf("IDENTITY_ISSUER is required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be a positive duration")
	}
	if cfg.WebhookTolerance <= 0 {
		return nil, fmt.Errorf("WEBHOOK_TOLERANCE must be a positive duration")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
