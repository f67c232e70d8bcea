package news

import (
	"context"
	"log/slog"
	"net/http"

	"newsboard/internal/domain/entity"
	"newsboard/internal/observability/logging"
	"newsboard/internal/usecase/ingest"
)

// Feeds refreshes tagged sources and scrapes the listing. *ingest.Service satisfies it.
type Feeds interface {
	Refresh(ctx context.Context, tag entity.Tag) (ingest.Stats, []*entity.Article, error)
	Listing(ctx context.Context) ([]entity.Stub, error)
}

// FeedHandler refreshes one tag and returns its stored articles.
// With WithListing set the untagged listing is scraped as well.
type FeedHandler struct {
	Svc         Feeds
	Tag         entity.Tag
	WithListing bool
	Logger      *slog.Logger
}

func (h FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logging.WithRequestID(ctx, logger)

	stats, articles, err := h.Svc.Refresh(ctx, h.Tag)
	if err != nil {
		logger.Error("feed refresh failed",
			slog.String("tag", string(h.Tag)),
			slog.Any("error", err))
		writeError(w, err)
		return
	}

	out := feedResponse{Articles: articleDTOs(articles)}
	if h.WithListing {
		stubs, err := h.Svc.Listing(ctx)
		if err != nil {
			logger.Error("listing scrape failed",
				slog.Any("error", err))
			writeError(w, err)
			return
		}
		out.Feed = stubDTOs(stubs)
	}

	logger.Debug("feed served",
		slog.String("tag", string(h.Tag)),
		slog.Int("articles", len(out.Articles)),
		slog.Int("inserted", stats.Inserted))
	respondJSON(w, out)
}
