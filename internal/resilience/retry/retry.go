// Package retry re-runs failed source refreshes with exponential backoff and
// jitter. The request path never retries; a failed fetch fails the request.
package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/sony/gobreaker"
)

// Config shapes the backoff schedule.
type Config struct {
	// MaxAttempts counts the first call. Values below 1 mean a single call.
	MaxAttempts int
	// InitialDelay is the wait after the first failure.
	InitialDelay time.Duration
	// MaxDelay caps every wait; zero means no cap.
	MaxDelay time.Duration
	// Multiplier grows the wait per attempt; values below 1 keep it constant.
	Multiplier float64
	// JitterFraction adds up to this fraction of the wait at random (0 to 1).
	JitterFraction float64
}

// RefreshConfig returns the schedule used by the worker when a source refresh fails.
func RefreshConfig() Config {
	return Config{
		MaxAttempts:    4,
		InitialDelay:   2 * time.Second,
		MaxDelay:       30 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// Delay returns the wait after failed attempt n (1-based), before jitter.
func (c Config) Delay(n int) time.Duration {
	m := c.Multiplier
	if m < 1 {
		m = 1
	}
	d := float64(c.InitialDelay) * math.Pow(m, float64(n-1))
	if c.MaxDelay > 0 && d > float64(c.MaxDelay) {
		d = float64(c.MaxDelay)
	}
	return time.Duration(d)
}

// WithBackoff calls fn until it succeeds, fails permanently, or runs out of
// attempts. Waiting between attempts stops as soon as ctx is done.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	attempts := max(cfg.MaxAttempts, 1)

	for n := 1; ; n++ {
		err := fn()
		if err == nil {
			if n > 1 {
				slog.InfoContext(ctx, "succeeded after retry", slog.Int("attempt", n))
			}
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if n >= attempts {
			return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
		}

		wait := jitter(cfg.Delay(n), cfg.JitterFraction)
		slog.WarnContext(ctx, "attempt failed, retrying",
			slog.Int("attempt", n),
			slog.Int("max_attempts", attempts),
			slog.Duration("wait", wait),
			slog.Any("error", err))

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted: %w", errors.Join(ctx.Err(), err))
		}
	}
}

// IsRetryable reports whether err is transient: network timeouts, refused or
// reset connections, truncated bodies, and 5xx, 408 or 429 responses.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	// An open breaker already throttles the site.
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return false
	case errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ETIMEDOUT),
		errors.Is(err, syscall.ENETUNREACH):
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}
	return false
}

// HTTPError is returned by the page fetcher for a non-200 response.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether the status is worth another attempt.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode >= 500 ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode == http.StatusRequestTimeout
}

func jitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 || d <= 0 {
		return d
	}
	fraction = min(fraction, 1)
	// #nosec G404 -- jitter needs no cryptographic randomness.
	return d + time.Duration(rand.Float64()*float64(d)*fraction)
}
