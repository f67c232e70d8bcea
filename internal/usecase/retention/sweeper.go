package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newsboard/internal/domain/entity"
	"newsboard/internal/observability/metrics"
	"newsboard/internal/repository"
)

// DefaultRetentionDays is how many days of articles are kept.
const DefaultRetentionDays = 4

// Sweeper is the retention sweeper.
type Sweeper struct {
	Articles      repository.ArticleRepository
	RetentionDays int
	loc           *time.Location
}

// NewSweeper creates a Sweeper. Dates are computed in loc; a nil loc means UTC.
// A non-positive retentionDays uses DefaultRetentionDays.
func NewSweeper(articles repository.ArticleRepository, retentionDays int, loc *time.Location) *Sweeper {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Sweeper{Articles: articles, RetentionDays: retentionDays, loc: loc}
}

// Cutoff returns the earliest publish date that survives a sweep at now.
func (s *Sweeper) Cutoff(now time.Time) time.Time {
	return entity.DateOf(now.In(s.loc)).AddDate(0, 0, -s.RetentionDays)
}

// Sweep deletes every article published before Cutoff(now).
// Articles exactly RetentionDays old are kept.
func (s *Sweeper) Sweep(ctx context.Context, id entity.Identity, now time.Time) (int64, error) {
	if !id.IsPrivileged() {
		metrics.RecordSweepDenied()
		slog.WarnContext(ctx, "sweep denied",
			slog.Int64("account_id", id.AccountID))
		return 0, ErrForbidden
	}

	cutoff := s.Cutoff(now)
	deleted, err := s.Articles.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete articles older than %s: %w", cutoff.Format(time.DateOnly), err)
	}

	metrics.RecordSweep(deleted)
	slog.InfoContext(ctx, "retention sweep completed",
		slog.String("cutoff", cutoff.Format(time.DateOnly)),
		slog.Int64("deleted", deleted),
		slog.Int64("account_id", id.AccountID))

	if count, err := s.Articles.Count(ctx); err == nil {
		metrics.UpdateArticlesStored(count)
	}
	return deleted, nil
}
