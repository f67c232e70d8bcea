// Package circuitbreaker keeps one github.com/sony/gobreaker breaker per news
// site, so a site that keeps failing is skipped without blocking the others.
package circuitbreaker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// Config is applied to every breaker of a Group.
type Config struct {
	// Name prefixes each breaker name as "<Name>:<host>".
	Name string
	// MaxRequests is how many probes pass while half-open.
	MaxRequests uint32
	// Interval clears the closed-state counts; zero never clears them.
	Interval time.Duration
	// Timeout is how long a breaker stays open before probing again.
	Timeout time.Duration
	// FailureThreshold is the failure ratio that trips a breaker, e.g. 0.7.
	FailureThreshold float64
	// MinRequests is the sample size required before the ratio is checked.
	MinRequests uint32
	// IsSuccessful decides which errors leave the failure counts untouched.
	// Nil counts every error as a failure.
	IsSuccessful func(err error) bool
}

// PageFetchConfig returns the configuration used per news site.
// Front pages rarely change markup, so a short open period is enough.
func PageFetchConfig() Config {
	return Config{
		Name:             "page-fetch",
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.7,
		MinRequests:      5,
	}
}

func (c Config) settings(name string, onChange StateListener) gobreaker.Settings {
	return gobreaker.Settings{
		Name:         name,
		MaxRequests:  c.MaxRequests,
		Interval:     c.Interval,
		Timeout:      c.Timeout,
		IsSuccessful: c.IsSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < c.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= c.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
			if onChange != nil {
				onChange(name, from, to)
			}
		},
	}
}

// StateListener is notified after every state transition.
type StateListener func(name string, from, to gobreaker.State)

// Group lazily creates one breaker per host.
//
// Thread safety: Group is safe for concurrent use.
type Group struct {
	cfg      Config
	onChange StateListener

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewGroup creates an empty group. onChange may be nil.
func NewGroup(cfg Config, onChange StateListener) *Group {
	return &Group{
		cfg:      cfg,
		onChange: onChange,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

func (g *Group) get(host string) *gobreaker.CircuitBreaker {
	g.mu.Lock()
	defer g.mu.Unlock()

	cb, ok := g.breakers[host]
	if !ok {
		cb = gobreaker.NewCircuitBreaker(g.cfg.settings(g.cfg.Name+":"+host, g.onChange))
		g.breakers[host] = cb
	}
	return cb
}

// Execute runs fn through the breaker of host. While that breaker is open it
// returns gobreaker.ErrOpenState without calling fn.
func (g *Group) Execute(host string, fn func() (any, error)) (any, error) {
	return g.get(host).Execute(fn)
}

// State reports the breaker state of host; unseen hosts are closed.
func (g *Group) State(host string) gobreaker.State {
	g.mu.Lock()
	cb, ok := g.breakers[host]
	g.mu.Unlock()
	if !ok {
		return gobreaker.StateClosed
	}
	return cb.State()
}
