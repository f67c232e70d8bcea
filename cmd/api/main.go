package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsboard/internal/config"
	hhttp "newsboard/internal/handler/http"
	hauth "newsboard/internal/handler/http/auth"
	"newsboard/internal/handler/http/news"
	pgRepo "newsboard/internal/infra/adapter/persistence/postgres"
	"newsboard/internal/infra/db"
	"newsboard/internal/infra/extractor"
	"newsboard/internal/infra/fetcher"
	"newsboard/internal/infra/scraper"
	"newsboard/internal/observability/logging"
	"newsboard/internal/observability/tracing"
	"newsboard/internal/usecase/account"
	"newsboard/internal/usecase/comment"
	"newsboard/internal/usecase/ingest"
	"newsboard/internal/usecase/resolve"
	"newsboard/internal/usecase/retention"
	envconfig "newsboard/pkg/config"
)

func main() {
	if err := envconfig.LoadDotEnv(".env"); err != nil {
		slog.Error("failed to load .env", slog.Any("error", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := initLogger(cfg.LogLevel)
	shutdownTracing := tracing.Init()
	defer func() { _ = shutdownTracing(context.Background()) }()

	database := initDatabase(logger, cfg.DatabaseURL)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	handler := setupServer(logger, database, cfg)
	runServer(logger, handler, cfg)
}

// initLogger installs the JSON logger as the process default.
func initLogger(level string) *slog.Logger {
	logger := logging.NewLogger(os.Stdout, level)
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the pool and applies pending migrations.
func initDatabase(logger *slog.Logger, dsn string) *sql.DB {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.Open(ctx, dsn)
	if err != nil {
		logger.Error("failed to connect to database",
			slog.String("dsn", logging.MaskDSN(dsn)),
			slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

func setupServer(logger *slog.Logger, database *sql.DB, cfg *config.AppConfig) http.Handler {
	articles := pgRepo.NewArticleRepo(database)
	comments := pgRepo.NewCommentRepo(database)
	accounts := pgRepo.NewAccountRepo(database)

	sources, err := scraper.LoadSources(cfg.SourcesFile)
	if err != nil {
		logger.Error("failed to load sources", slog.Any("error", err))
		os.Exit(1)
	}
	pages := fetcher.New(cfg.Fetch)
	registry, err := scraper.NewRegistry(pages, sources)
	if err != nil {
		logger.Error("failed to build source registry", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("sources loaded",
		slog.Int("count", len(sources)),
		slog.Any("tags", registry.Tags()))

	tokens := hauth.NewTokens(cfg.SessionSecret, cfg.TokenTTL)

	var limiter *hhttp.RateLimiter
	if cfg.LoginPerMinute > 0 {
		limiter = hhttp.NewRateLimiter(cfg.LoginPerMinute, cfg.LoginPerMinute, cfg.TrustProxy)
	} else {
		logger.Warn("credential rate limiting is disabled")
	}

	return hhttp.NewRouter(hhttp.RouterConfig{
		News: news.Services{
			Feeds:    ingest.NewService(articles, registry, cfg.Location),
			Resolver: resolve.NewService(articles, pages, extractor.DefaultRegistry(), cfg.ResolvePolicy),
			Comments: comment.NewService(articles, comments),
			Sweeper:  retention.NewSweeper(articles, cfg.RetentionDays, cfg.Location),
		},
		Auth: &hauth.Handler{
			Accounts:     account.NewService(accounts, cfg.AdminEmail),
			Tokens:       tokens,
			SecureCookie: cfg.SecureCookie,
		},
		Tokens:            tokens,
		DB:                database,
		Version:           cfg.Version,
		Logger:            logger,
		CredentialLimiter: limiter,
	})
}

// runServer serves until SIGINT or SIGTERM, then drains in-flight requests.
func runServer(logger *slog.Logger, handler http.Handler, cfg *config.AppConfig) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Outlasts the synchronous source fetches of a feed request.
		WriteTimeout: cfg.Fetch.Timeout*3 + 30*time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	cancel()
	logger.Info("server stopped")
}
