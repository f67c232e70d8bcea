// Package worker runs the scheduled source refresh and retention sweep
// outside the request path, and serves the worker's probes and metrics.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"newsboard/internal/domain/entity"
	"newsboard/internal/resilience/retry"
	"newsboard/internal/usecase/ingest"
)

// ErrSkipped is returned when a refresh is still running from the previous tick.
var ErrSkipped = errors.New("previous run still in progress")

// Refresher refreshes tagged sources. *ingest.Service satisfies it.
type Refresher interface {
	RefreshAll(ctx context.Context) (map[entity.Tag]ingest.Stats, error)
	Refresh(ctx context.Context, tag entity.Tag) (ingest.Stats, []*entity.Article, error)
}

// Sweeper deletes expired articles. *retention.Sweeper satisfies it.
type Sweeper interface {
	Sweep(ctx context.Context, id entity.Identity, now time.Time) (int64, error)
}

// Runner executes the scheduled jobs.
type Runner struct {
	Refresher Refresher
	Sweeper   Sweeper
	// Tags lists every tagged source; tags missing from a RefreshAll result
	// are retried one by one.
	Tags           []entity.Tag
	Metrics        *Metrics
	Retry          retry.Config
	RefreshTimeout time.Duration
	Logger         *slog.Logger
	Now            func() time.Time

	refreshing sync.Mutex
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Refresh runs one refresh of every source. Sources that fail in the
// concurrent pass are retried with backoff. The returned error joins the
// sources that still failed.
func (r *Runner) Refresh(ctx context.Context) error {
	if !r.refreshing.TryLock() {
		r.logger().Warn("refresh skipped", slog.String("reason", ErrSkipped.Error()))
		return ErrSkipped
	}
	defer r.refreshing.Unlock()

	start := r.now()
	if r.RefreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.RefreshTimeout)
		defer cancel()
	}

	results, err := r.Refresher.RefreshAll(ctx)
	if results == nil {
		results = make(map[entity.Tag]ingest.Stats)
	}
	if err != nil {
		r.logger().Warn("refresh pass incomplete, retrying failed sources", slog.Any("error", err))
	}

	var errs []error
	for _, tag := range r.Tags {
		if _, ok := results[tag]; ok {
			continue
		}
		var stats ingest.Stats
		retryErr := retry.WithBackoff(ctx, r.Retry, func() error {
			var err error
			stats, _, err = r.Refresher.Refresh(ctx, tag)
			return err
		})
		if retryErr != nil {
			errs = append(errs, fmt.Errorf("refresh %s: %w", tag, retryErr))
			continue
		}
		results[tag] = stats
	}

	inserted := 0
	for _, stats := range results {
		inserted += stats.Inserted
	}
	finished := r.now()
	status := refreshStatus(len(results), len(errs))
	r.record(JobRefresh, status, finished.Sub(start), finished)
	if r.Metrics != nil {
		r.Metrics.RecordSources(len(results), len(errs))
	}

	r.logger().Info("refresh finished",
		slog.String("status", status),
		slog.Int("sources", len(results)),
		slog.Int("failed", len(errs)),
		slog.Int("inserted", inserted),
		slog.Duration("duration", finished.Sub(start)))

	return errors.Join(errs...)
}

func refreshStatus(succeeded, failed int) string {
	switch {
	case failed == 0:
		return StatusSuccess
	case succeeded > 0:
		return StatusPartial
	default:
		return StatusFailure
	}
}

// Sweep deletes expired articles on behalf of the system identity.
func (r *Runner) Sweep(ctx context.Context) error {
	start := r.now()
	deleted, err := r.Sweeper.Sweep(ctx, entity.System, start)
	finished := r.now()
	if err != nil {
		r.record(JobSweep, StatusFailure, finished.Sub(start), finished)
		r.logger().Error("retention sweep failed", slog.Any("error", err))
		return err
	}
	r.record(JobSweep, StatusSuccess, finished.Sub(start), finished)
	r.logger().Info("retention sweep finished", slog.Int64("deleted", deleted))
	return nil
}

func (r *Runner) record(job, status string, d time.Duration, finished time.Time) {
	if r.Metrics != nil {
		r.Metrics.RecordJob(job, status, d, finished)
	}
}

// Schedule registers the refresh and sweep jobs on c. Job errors are
// logged by the runner.
func (r *Runner) Schedule(ctx context.Context, c *cron.Cron, refreshSpec, sweepSpec string) error {
	if _, err := c.AddFunc(refreshSpec, func() { _ = r.Refresh(ctx) }); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	if _, err := c.AddFunc(sweepSpec, func() { _ = r.Sweep(ctx) }); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	return nil
}
