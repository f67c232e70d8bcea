// Package config assembles the process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"newsboard/internal/infra/fetcher"
	"newsboard/internal/usecase/resolve"
	"newsboard/internal/usecase/retention"
	"newsboard/pkg/config"
)

// minSecretLength is the shortest accepted session signing secret.
const minSecretLength = 32

// AppConfig is the configuration shared by the API server and the worker.
type AppConfig struct {
	DatabaseURL   string
	SessionSecret string
	AdminEmail    string

	RetentionDays int
	ResolvePolicy resolve.Policy
	SourcesFile   string
	Timezone      string
	Location      *time.Location

	HTTPAddr     string
	TokenTTL     time.Duration
	SecureCookie bool
	TrustProxy   bool

	// LoginPerMinute throttles /login and /register per client IP; 0 disables it.
	LoginPerMinute int

	LogLevel string
	Version  string

	Fetch fetcher.Config
}

// Load reads the environment and validates the result.
//
// Environment variables:
//   - DATABASE_URL (required)
//   - SESSION_SECRET, falling back to TOKEN (required, 32+ bytes)
//   - ADMIN_EMAIL: account created with this email is privileged
//   - RETENTION_DAYS (default: 4)
//   - RESOLVE_POLICY: once or always (default: once)
//   - SOURCES_FILE: YAML source definitions (default: embedded)
//   - TIMEZONE (default: Europe/Moscow)
//   - HTTP_ADDR (default: :8080)
//   - TOKEN_TTL (default: 24h)
//   - SECURE_COOKIE (default: false)
//   - TRUST_PROXY (default: false)
//   - LOGIN_RATE_PER_MIN (default: 10)
//   - LOG_LEVEL (default: info)
//   - FETCH_* and DENY_PRIVATE_IPS, see fetcher.LoadConfigFromEnv
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		DatabaseURL:    config.GetEnvString("DATABASE_URL", ""),
		SessionSecret:  config.GetEnvString("SESSION_SECRET", config.GetEnvString("TOKEN", "")),
		AdminEmail:     config.GetEnvString("ADMIN_EMAIL", ""),
		RetentionDays:  config.GetEnvInt("RETENTION_DAYS", retention.DefaultRetentionDays),
		SourcesFile:    config.GetEnvString("SOURCES_FILE", ""),
		Timezone:       config.GetEnvString("TIMEZONE", "Europe/Moscow"),
		HTTPAddr:       config.GetEnvString("HTTP_ADDR", ":8080"),
		TokenTTL:       config.GetEnvDuration("TOKEN_TTL", 24*time.Hour),
		SecureCookie:   config.GetEnvBool("SECURE_COOKIE", false),
		TrustProxy:     config.GetEnvBool("TRUST_PROXY", false),
		LoginPerMinute: config.GetEnvInt("LOGIN_RATE_PER_MIN", 10),
		LogLevel:       config.GetEnvString("LOG_LEVEL", "info"),
		Version:        config.GetEnvString("APP_VERSION", "dev"),
	}

	var errs []error

	policy, err := resolve.ParsePolicy(config.GetEnvString("RESOLVE_POLICY", ""))
	if err != nil {
		errs = append(errs, err)
	}
	cfg.ResolvePolicy = policy

	fetch, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		errs = append(errs, err)
	}
	cfg.Fetch = fetch

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %w", errors.Join(errs...))
	}

	cfg.Location, _ = time.LoadLocation(cfg.Timezone)
	return cfg, nil
}

// Validate checks required values and ranges.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if len(c.SessionSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSecretLength))
	}
	if err := config.ValidateRange(c.RetentionDays, 1, 365); err != nil {
		errs = append(errs, fmt.Errorf("RETENTION_DAYS: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}
	if err := config.ValidateRange(c.TokenTTL, time.Minute, 30*24*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("TOKEN_TTL: %w", err))
	}
	if c.LoginPerMinute < 0 {
		errs = append(errs, errors.New("LOGIN_RATE_PER_MIN must not be negative"))
	}
	return errors.Join(errs...)
}
