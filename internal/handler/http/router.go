package http

import (
	"log/slog"
	"net/http"

	"newsboard/internal/handler/http/auth"
	"newsboard/internal/handler/http/news"
	"newsboard/internal/handler/http/requestid"
	"newsboard/internal/observability/tracing"
)

// DefaultMaxBodyBytes caps inbound request bodies.
const DefaultMaxBodyBytes = 1 << 20

// RouterConfig carries everything the route table serves.
type RouterConfig struct {
	News    news.Services
	Auth    *auth.Handler
	Tokens  *auth.Tokens
	DB      Pinger
	Version string
	Logger  *slog.Logger

	// CredentialLimiter throttles /login and /register; nil disables it.
	CredentialLimiter *RateLimiter
	MaxBodyBytes      int64
}

// NewRouter builds the mux and wraps it in the middleware chain.
// Outermost first: request id, tracing, logging, recover, metrics, security
// headers, body limit, identity.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	mux := http.NewServeMux()
	news.Register(mux, cfg.News, logger)

	credentials := func(h http.HandlerFunc) http.Handler {
		if cfg.CredentialLimiter == nil {
			return h
		}
		return cfg.CredentialLimiter.Limit(h)
	}
	mux.Handle("POST /register", credentials(cfg.Auth.Register))
	mux.Handle("POST /login", credentials(cfg.Auth.Login))
	mux.HandleFunc("POST /logout", cfg.Auth.Logout)

	mux.Handle("GET /health", &HealthHandler{DB: cfg.DB, Version: cfg.Version})
	mux.Handle("GET /ready", &ReadyHandler{DB: cfg.DB})
	mux.Handle("GET /live", LiveHandler{})
	mux.Handle("GET /metrics", MetricsHandler())

	var h http.Handler = mux
	h = auth.Middleware(cfg.Tokens)(h)
	h = LimitRequestBody(maxBody)(h)
	h = SecurityHeaders(h)
	h = MetricsMiddleware(h)
	h = Recover(logger)(h)
	h = Logging(logger)(h)
	h = tracing.Middleware(h)
	h = requestid.Middleware(h)
	return h
}
