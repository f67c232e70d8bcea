package config

import (
	"fmt"
	"log/slog"
	"time"

	"newsboard/pkg/config"
)

// WorkerConfig controls the scheduled refresh and sweep process.
type WorkerConfig struct {
	// RefreshSchedule is the five-field cron expression for source refreshes.
	RefreshSchedule string
	// SweepSchedule is the cron expression for retention sweeps.
	SweepSchedule string
	// RefreshTimeout bounds one refresh of all sources.
	RefreshTimeout time.Duration
	// HealthAddr serves /health and /metrics for the worker.
	HealthAddr string
	// RunOnStart runs a refresh immediately instead of waiting for the first tick.
	RunOnStart bool
}

// DefaultWorkerConfig returns the production defaults.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		RefreshSchedule: "*/30 * * * *",
		SweepSchedule:   "0 3 * * *",
		RefreshTimeout:  5 * time.Minute,
		HealthAddr:      ":9091",
		RunOnStart:      true,
	}
}

// Validate reports every invalid field.
func (c *WorkerConfig) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.RefreshSchedule); err != nil {
		errs = append(errs, fmt.Errorf("refresh schedule: %w", err))
	}
	if err := config.ValidateCronSchedule(c.SweepSchedule); err != nil {
		errs = append(errs, fmt.Errorf("sweep schedule: %w", err))
	}
	if err := config.ValidateRange(c.RefreshTimeout, 10*time.Second, time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("refresh timeout: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadWorkerConfig reads the worker variables. An invalid value falls back to
// its default with a warning, so a typo never stops the worker.
//
// Environment variables:
//   - CRON_SCHEDULE (default: */30 * * * *)
//   - SWEEP_SCHEDULE (default: 0 3 * * *)
//   - REFRESH_TIMEOUT (default: 5m, range 10s-1h)
//   - WORKER_HEALTH_ADDR (default: :9091)
//   - WORKER_RUN_ON_START (default: true)
func LoadWorkerConfig(logger *slog.Logger) WorkerConfig {
	def := DefaultWorkerConfig()
	cfg := WorkerConfig{
		RefreshSchedule: config.GetEnvString("CRON_SCHEDULE", def.RefreshSchedule),
		SweepSchedule:   config.GetEnvString("SWEEP_SCHEDULE", def.SweepSchedule),
		RefreshTimeout:  config.GetEnvDuration("REFRESH_TIMEOUT", def.RefreshTimeout),
		HealthAddr:      config.GetEnvString("WORKER_HEALTH_ADDR", def.HealthAddr),
		RunOnStart:      config.GetEnvBool("WORKER_RUN_ON_START", def.RunOnStart),
	}

	fallback := func(field string, err error) {
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("error", err.Error()))
	}
	if err := config.ValidateCronSchedule(cfg.RefreshSchedule); err != nil {
		fallback("CRON_SCHEDULE", err)
		cfg.RefreshSchedule = def.RefreshSchedule
	}
	if err := config.ValidateCronSchedule(cfg.SweepSchedule); err != nil {
		fallback("SWEEP_SCHEDULE", err)
		cfg.SweepSchedule = def.SweepSchedule
	}
	if err := config.ValidateRange(cfg.RefreshTimeout, 10*time.Second, time.Hour); err != nil {
		fallback("REFRESH_TIMEOUT", err)
		cfg.RefreshTimeout = def.RefreshTimeout
	}
	return cfg
}
