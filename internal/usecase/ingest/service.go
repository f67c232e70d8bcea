package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"newsboard/internal/domain/entity"
	"newsboard/internal/infra/scraper"
	"newsboard/internal/observability/metrics"
	"newsboard/internal/repository"

	"golang.org/x/sync/errgroup"
)

// refreshParallelism bounds concurrent source refreshes in RefreshAll.
const refreshParallelism = 4

// SourceRegistry resolves tags to source adapters. *scraper.Registry satisfies it.
type SourceRegistry interface {
	Lookup(tag entity.Tag) (scraper.Binding, bool)
	Tags() []entity.Tag
	Listing() (scraper.Binding, bool)
}

// Stats counts the outcome of one ingestion batch.
type Stats struct {
	Inserted   int
	Duplicated int
	Failed     int
	Invalid    int
}

// Service is the ingestion engine.
type Service struct {
	Articles repository.ArticleRepository
	Sources  SourceRegistry

	loc *time.Location
	now func() time.Time
}

// NewService creates an ingestion Service. Publish dates are computed in loc;
// a nil loc means UTC.
func NewService(articles repository.ArticleRepository, sources SourceRegistry, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		Articles: articles,
		Sources:  sources,
		loc:      loc,
		now:      time.Now,
	}
}

// WithClock replaces the clock used to stamp publish dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) today() time.Time {
	return entity.DateOf(s.now().In(s.loc))
}

// Ingest inserts stubs in order, tagged with tag and dated today.
// Duplicate, invalid and failed inserts are counted and skipped.
// Only context cancellation stops the batch early.
func (s *Service) Ingest(ctx context.Context, stubs []entity.Stub, tag entity.Tag) (Stats, error) {
	var stats Stats
	if _, err := entity.ParseTag(string(tag)); err != nil {
		return stats, err
	}

	today := s.today()
	for i, stub := range stubs {
		if err := ctx.Err(); err != nil {
			s.record(tag, stats)
			return stats, err
		}

		if err := stub.Validate(); err != nil {
			stats.Invalid++
			slog.DebugContext(ctx, "skipping invalid stub",
				slog.Int("index", i),
				slog.String("tag", string(tag)),
				slog.Any("error", err))
			continue
		}

		article := &entity.Article{
			Title:        stub.Title,
			Link:         stub.Link,
			ThumbnailURL: stub.ThumbnailURL,
			PublishedOn:  today,
			Tag:          tag,
		}
		err := s.Articles.Create(ctx, article)
		switch {
		case err == nil:
			stats.Inserted++
		case errors.Is(err, entity.ErrDuplicate):
			stats.Duplicated++
			slog.DebugContext(ctx, "duplicate article skipped",
				slog.String("tag", string(tag)),
				slog.String("link", stub.Link))
		default:
			stats.Failed++
			slog.WarnContext(ctx, "failed to insert article",
				slog.String("tag", string(tag)),
				slog.String("link", stub.Link),
				slog.Any("error", err))
		}
	}

	s.record(tag, stats)
	return stats, nil
}

func (s *Service) record(tag entity.Tag, stats Stats) {
	metrics.RecordIngest(string(tag), stats.Inserted, stats.Duplicated, stats.Failed, stats.Invalid)
}

// Refresh scrapes the source registered for tag, ingests the stubs and returns
// every stored article of the tag in insertion order.
// A failed fetch fails the whole call.
func (s *Service) Refresh(ctx context.Context, tag entity.Tag) (Stats, []*entity.Article, error) {
	b, ok := s.Sources.Lookup(tag)
	if !ok {
		return Stats{}, nil, fmt.Errorf("%w: %s", ErrUnknownTag, tag)
	}

	start := time.Now()
	stubs, err := b.Adapter.Fetch(ctx, b.Source.URL)
	if err != nil {
		return Stats{}, nil, fmt.Errorf("fetch source %s: %w", b.Source.Name, err)
	}

	stats, err := s.Ingest(ctx, stubs, tag)
	if err != nil {
		return stats, nil, fmt.Errorf("ingest %s: %w", tag, err)
	}

	articles, err := s.Articles.ListByTag(ctx, tag)
	if err != nil {
		return stats, nil, fmt.Errorf("list articles: %w", err)
	}

	slog.InfoContext(ctx, "source refreshed",
		slog.String("source", b.Source.Name),
		slog.String("tag", string(tag)),
		slog.Int("stubs", len(stubs)),
		slog.Int("inserted", stats.Inserted),
		slog.Int("duplicated", stats.Duplicated),
		slog.Int("failed", stats.Failed),
		slog.Duration("duration", time.Since(start)))

	return stats, articles, nil
}

// RefreshAll refreshes every tagged source concurrently. A failing source does
// not stop the others; the returned error joins every failure.
func (s *Service) RefreshAll(ctx context.Context) (map[entity.Tag]Stats, error) {
	var (
		mu      sync.Mutex
		results = make(map[entity.Tag]Stats)
		errs    []error
		g       errgroup.Group
	)
	g.SetLimit(refreshParallelism)

	for _, tag := range s.Sources.Tags() {
		g.Go(func() error {
			stats, _, err := s.Refresh(ctx, tag)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				slog.WarnContext(ctx, "source refresh failed",
					slog.String("tag", string(tag)),
					slog.Any("error", err))
				return nil
			}
			results[tag] = stats
			return nil
		})
	}
	_ = g.Wait()

	if count, err := s.Articles.Count(ctx); err == nil {
		metrics.UpdateArticlesStored(count)
	}

	return results, errors.Join(errs...)
}

// Listing scrapes the untagged listing source without storing anything.
// It returns no stubs when no listing source is configured.
func (s *Service) Listing(ctx context.Context) ([]entity.Stub, error) {
	b, ok := s.Sources.Listing()
	if !ok {
		return nil, nil
	}
	stubs, err := b.Adapter.Fetch(ctx, b.Source.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch listing %s: %w", b.Source.Name, err)
	}
	return stubs, nil
}
