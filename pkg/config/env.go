// Package config provides environment variable helpers shared by the binaries.
// Invalid values never fail startup: the default is used and a warning is logged.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvString returns the variable, or def when it is unset or empty.
func GetEnvString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetEnvInt parses the variable with strconv.Atoi.
func GetEnvInt(key string, def int) int {
	return parseEnv(key, def, strconv.Atoi)
}

// GetEnvFloat parses the variable as a float64.
func GetEnvFloat(key string, def float64) float64 {
	return parseEnv(key, def, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// GetEnvBool accepts the values of strconv.ParseBool.
func GetEnvBool(key string, def bool) bool {
	return parseEnv(key, def, strconv.ParseBool)
}

// GetEnvDuration accepts time.ParseDuration values such as "30s" or "1h30m".
func GetEnvDuration(key string, def time.Duration) time.Duration {
	return parseEnv(key, def, time.ParseDuration)
}

// parseEnv returns def for an unset variable, and def plus a warning for one
// that does not parse.
func parseEnv[T any](key string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		slog.Warn("invalid value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Any("default", def),
			slog.String("error", err.Error()))
		return def
	}
	return v
}
