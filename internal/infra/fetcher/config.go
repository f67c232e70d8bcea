package fetcher

import (
	"fmt"
	"time"

	"newsboard/pkg/config"
)

// Config controls outbound page fetching.
type Config struct {
	// Timeout bounds a single request including redirects and body read.
	Timeout time.Duration

	// MaxBodySize is the largest accepted response body in bytes.
	MaxBodySize int64

	// MaxRedirects is the number of redirects followed before giving up.
	MaxRedirects int

	// DenyPrivateIPs rejects hosts that resolve to loopback, private or link-local addresses.
	DenyPrivateIPs bool

	// RatePerSecond and Burst bound requests per host.
	RatePerSecond float64
	Burst         int

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		RatePerSecond:  2,
		Burst:          4,
		UserAgent:      "NewsboardBot/1.0",
	}
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if err := config.ValidatePositive(c.Timeout); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}

	minBodySize := int64(1024)
	maxBodySize := int64(100 * 1024 * 1024)
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	if c.RatePerSecond <= 0 {
		return fmt.Errorf("rate per second must be positive, got %v", c.RatePerSecond)
	}
	if c.Burst < 1 {
		return fmt.Errorf("burst must be at least 1, got %d", c.Burst)
	}
	return nil
}

// LoadConfigFromEnv reads FETCH_* variables over the defaults and validates the result.
//
// Environment variables:
//   - FETCH_TIMEOUT: duration (default: 10s)
//   - FETCH_MAX_BODY: bytes (default: 10485760)
//   - FETCH_MAX_REDIRECTS: integer (default: 5)
//   - FETCH_RATE_PER_SEC: requests per second per host (default: 2)
//   - FETCH_BURST: integer (default: 4)
//   - DENY_PRIVATE_IPS: bool (default: true)
//   - FETCH_USER_AGENT: string
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.Timeout = config.GetEnvDuration("FETCH_TIMEOUT", cfg.Timeout)
	cfg.MaxBodySize = int64(config.GetEnvInt("FETCH_MAX_BODY", int(cfg.MaxBodySize)))
	cfg.MaxRedirects = config.GetEnvInt("FETCH_MAX_REDIRECTS", cfg.MaxRedirects)
	cfg.RatePerSecond = config.GetEnvFloat("FETCH_RATE_PER_SEC", cfg.RatePerSecond)
	cfg.Burst = config.GetEnvInt("FETCH_BURST", cfg.Burst)
	cfg.DenyPrivateIPs = config.GetEnvBool("DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)
	cfg.UserAgent = config.GetEnvString("FETCH_USER_AGENT", cfg.UserAgent)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("fetcher config: %w", err)
	}
	return cfg, nil
}
