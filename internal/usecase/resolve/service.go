package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"newsboard/internal/domain/entity"
	"newsboard/internal/infra/extractor"
	"newsboard/internal/infra/fetcher"
	"newsboard/internal/observability/metrics"
	"newsboard/internal/repository"
)

// Policy decides when a stored body is refetched.
type Policy string

const (
	// PolicyOnce fetches only while the article has no body.
	PolicyOnce Policy = "once"
	// PolicyAlways refetches on every view. A failed extraction keeps the stored body.
	PolicyAlways Policy = "always"
)

// ParsePolicy maps a config value to a Policy. Empty means PolicyOnce.
func ParsePolicy(raw string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PolicyOnce:
		return PolicyOnce, nil
	case PolicyAlways:
		return PolicyAlways, nil
	default:
		return "", fmt.Errorf("%w: %q (must be once or always)", ErrInvalidPolicy, raw)
	}
}

// PageFetcher downloads an article page. *fetcher.PageFetcher satisfies it.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetcher.Page, error)
}

// Extractor turns a page into body text for a tag. *extractor.Registry satisfies it.
type Extractor interface {
	Extract(tag entity.Tag, page *fetcher.Page) (string, error)
}

// Resolution is the outcome of resolving one article.
type Resolution struct {
	Article *entity.Article
	// Body is empty when nothing could be extracted.
	Body     string
	Resolved bool
	// Failure holds extractor.ErrExtractionFailed when extraction matched nothing.
	Failure error
}

// Service is the content resolver.
type Service struct {
	Articles  repository.ArticleRepository
	Fetcher   PageFetcher
	Extractor Extractor
	Policy    Policy
}

// NewService creates a resolver. An empty policy means PolicyOnce.
func NewService(articles repository.ArticleRepository, f PageFetcher, x Extractor, policy Policy) *Service {
	if policy == "" {
		policy = PolicyOnce
	}
	return &Service{Articles: articles, Fetcher: f, Extractor: x, Policy: policy}
}

// ResolveBody returns the article with its body, fetching and storing it when needed.
// Extraction failures are reported in Resolution.Failure with a nil error.
// Transport failures are returned as errors wrapping fetcher.ErrTransport.
func (s *Service) ResolveBody(ctx context.Context, articleID int64) (Resolution, error) {
	article, err := s.Articles.Get(ctx, articleID)
	if err != nil {
		return Resolution{}, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return Resolution{}, ErrNotFound
	}
	tag := string(article.Tag)

	if article.Resolved() && s.Policy == PolicyOnce {
		metrics.RecordResolution(tag, metrics.OutcomeCached)
		return Resolution{Article: article, Body: article.Body, Resolved: true}, nil
	}

	page, err := s.Fetcher.Fetch(ctx, article.Link)
	if err != nil {
		metrics.RecordResolution(tag, metrics.OutcomeTransportError)
		return Resolution{}, fmt.Errorf("fetch article %d: %w", article.ID, err)
	}

	body, err := s.Extractor.Extract(article.Tag, page)
	if err != nil {
		if !errors.Is(err, extractor.ErrExtractionFailed) {
			slog.WarnContext(ctx, "body extraction error",
				slog.Int64("article_id", article.ID),
				slog.Any("error", err))
		}
		metrics.RecordResolution(tag, metrics.OutcomeExtractionFailed)
		if article.Resolved() {
			return Resolution{Article: article, Body: article.Body, Resolved: true, Failure: extractor.ErrExtractionFailed}, nil
		}
		return Resolution{Article: article, Failure: extractor.ErrExtractionFailed}, nil
	}

	if body != article.Body {
		if err := s.Articles.UpdateBody(ctx, article.ID, body); err != nil {
			return Resolution{}, fmt.Errorf("store body: %w", err)
		}
		article.Body = body
	}

	metrics.RecordResolution(tag, metrics.OutcomeResolved)
	return Resolution{Article: article, Body: body, Resolved: true}, nil
}
