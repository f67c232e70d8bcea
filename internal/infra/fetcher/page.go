package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"newsboard/internal/observability/metrics"
	"newsboard/internal/resilience/circuitbreaker"
	"newsboard/internal/resilience/retry"
)

// Page is a fetched HTML or XML document.
type Page struct {
	// URL is the final URL after redirects.
	URL  *url.URL
	Body []byte
}

// PageFetcher issues one GET per call, guarded by URL validation, a per-host
// rate limiter and a per-host circuit breaker. It never retries.
//
// Thread safety: PageFetcher is safe for concurrent use.
type PageFetcher struct {
	client   *http.Client
	resolver *net.Resolver
	breakers *circuitbreaker.Group
	config   Config

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New creates a PageFetcher with the given configuration.
func New(cfg Config) *PageFetcher {
	breakerCfg := circuitbreaker.PageFetchConfig()
	breakerCfg.IsSuccessful = siteHealthy
	f := &PageFetcher{
		resolver: net.DefaultResolver,
		config:   cfg,
		limiters: make(map[string]*rate.Limiter),
		breakers: circuitbreaker.NewGroup(breakerCfg,
			func(name string, _, to gobreaker.State) {
				metrics.SetCircuitOpen(name, to == gobreaker.StateOpen)
			}),
	}

	f.client = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if _, err := f.checkTarget(req.Context(), req.URL.String()); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	return f
}

// Fetch downloads rawURL. Every error wraps ErrTransport.
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	start := time.Now()
	page, err := f.fetch(ctx, rawURL)

	switch {
	case err == nil:
		metrics.RecordPageFetch("success", time.Since(start))
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordPageFetch("circuit_open", time.Since(start))
	default:
		metrics.RecordPageFetch("error", time.Since(start))
	}

	if err != nil {
		slog.WarnContext(ctx, "page fetch failed",
			slog.String("url", rawURL),
			slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return page, nil
}

func (f *PageFetcher) fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := f.checkTarget(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if err := f.limiter(u.Host).Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	result, err := f.breakers.Execute(u.Host, func() (any, error) {
		return f.doFetch(ctx, rawURL)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Page), nil
}

// siteHealthy reports whether err still shows a working site: a client-side
// status such as 404 for one pulled article, or a caller that went away.
// 408 and 429 count against the site.
func siteHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var httpErr *retry.HTTPError
	return errors.As(err, &httpErr) && !httpErr.Retryable()
}

func (f *PageFetcher) limiter(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()

	l, ok := f.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(f.config.RatePerSecond), f.config.Burst)
		f.limiters[host] = l
	}
	return l
}

func (f *PageFetcher) doFetch(ctx context.Context, rawURL string) (*Page, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: request exceeded %v: %w", ErrTimeout, f.config.Timeout, err)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return nil, urlErr.Err
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.config.MaxBodySize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrBodyTooLarge, f.config.MaxBodySize)
	}

	final := resp.Request.URL
	return &Page{URL: final, Body: body}, nil
}
