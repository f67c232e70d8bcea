package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsboard/internal/usecase/resolve"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://news:pw@localhost:5432/news?sslmode=disable")
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.RetentionDays)
	assert.Equal(t, resolve.PolicyOnce, cfg.ResolvePolicy)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "Europe/Moscow", cfg.Location.String())
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.True(t, cfg.Fetch.DenyPrivateIPs)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("TOKEN", "legacy-token-secret-value-0123456789")
	t.Setenv("RETENTION_DAYS", "7")
	t.Setenv("RESOLVE_POLICY", "always")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("ADMIN_EMAIL", "root@example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy-token-secret-value-0123456789", cfg.SessionSecret)
	assert.Equal(t, 7, cfg.RetentionDays)
	assert.Equal(t, resolve.PolicyAlways, cfg.ResolvePolicy)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, "root@example.com", cfg.AdminEmail)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database", map[string]string{"DATABASE_URL": ""}},
		{"short secret", map[string]string{"SESSION_SECRET": "short"}},
		{"zero retention", map[string]string{"RETENTION_DAYS": "0"}},
		{"bad policy", map[string]string{"RESOLVE_POLICY": "sometimes"}},
		{"bad timezone", map[string]string{"TIMEZONE": "Nowhere/City"}},
		{"bad fetch body cap", map[string]string{"FETCH_MAX_BODY": "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadWorkerConfig(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "0 * * * *")
	t.Setenv("SWEEP_SCHEDULE", "not a schedule")
	t.Setenv("REFRESH_TIMEOUT", "1s")

	var buf bytes.Buffer
	cfg := LoadWorkerConfig(slog.New(slog.NewJSONHandler(&buf, nil)))

	assert.Equal(t, "0 * * * *", cfg.RefreshSchedule)
	assert.Equal(t, DefaultWorkerConfig().SweepSchedule, cfg.SweepSchedule)
	assert.Equal(t, DefaultWorkerConfig().RefreshTimeout, cfg.RefreshTimeout)
	assert.Contains(t, buf.String(), "SWEEP_SCHEDULE")
	assert.Contains(t, buf.String(), "REFRESH_TIMEOUT")
	assert.NoError(t, cfg.Validate())
}

func TestWorkerConfig_Validate(t *testing.T) {
	cfg := DefaultWorkerConfig()
	require.NoError(t, cfg.Validate())

	cfg.RefreshSchedule = ""
	cfg.RefreshTimeout = 0
	assert.Error(t, cfg.Validate())
}
