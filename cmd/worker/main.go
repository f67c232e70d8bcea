package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"newsboard/internal/config"
	pgRepo "newsboard/internal/infra/adapter/persistence/postgres"
	"newsboard/internal/infra/db"
	"newsboard/internal/infra/fetcher"
	"newsboard/internal/infra/scraper"
	workerPkg "newsboard/internal/infra/worker"
	"newsboard/internal/observability/logging"
	"newsboard/internal/observability/tracing"
	"newsboard/internal/resilience/retry"
	"newsboard/internal/usecase/ingest"
	"newsboard/internal/usecase/retention"
	envconfig "newsboard/pkg/config"
)

// waitForMigrations polls until the API process has created the schema.
func waitForMigrations(logger *slog.Logger, database *sql.DB) {
	const probe = "SELECT 1 FROM articles LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

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

	logger := logging.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	shutdownTracing := tracing.Init()
	defer func() { _ = shutdownTracing(context.Background()) }()

	workerCfg := config.LoadWorkerConfig(logger)
	logger.Info("worker configuration loaded",
		slog.String("refresh_schedule", workerCfg.RefreshSchedule),
		slog.String("sweep_schedule", workerCfg.SweepSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Duration("refresh_timeout", workerCfg.RefreshTimeout),
		slog.String("health_addr", workerCfg.HealthAddr))

	database := initDatabase(logger, cfg.DatabaseURL)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	healthServer := workerPkg.NewHealthServer(workerCfg.HealthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	runner := setupRunner(logger, database, cfg, workerCfg)
	runCron(ctx, logger, runner, cfg, workerCfg, healthServer)
}

// initDatabase opens the pool and waits for the schema.
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
	waitForMigrations(logger, database)
	return database
}

func setupRunner(logger *slog.Logger, database *sql.DB, cfg *config.AppConfig, workerCfg config.WorkerConfig) *workerPkg.Runner {
	articles := pgRepo.NewArticleRepo(database)

	sources, err := scraper.LoadSources(cfg.SourcesFile)
	if err != nil {
		logger.Error("failed to load sources", slog.Any("error", err))
		os.Exit(1)
	}
	registry, err := scraper.NewRegistry(fetcher.New(cfg.Fetch), sources)
	if err != nil {
		logger.Error("failed to build source registry", slog.Any("error", err))
		os.Exit(1)
	}

	return &workerPkg.Runner{
		Refresher:      ingest.NewService(articles, registry, cfg.Location),
		Sweeper:        retention.NewSweeper(articles, cfg.RetentionDays, cfg.Location),
		Tags:           registry.Tags(),
		Metrics:        workerPkg.NewMetrics(prometheus.DefaultRegisterer),
		Retry:          retry.RefreshConfig(),
		RefreshTimeout: workerCfg.RefreshTimeout,
		Logger:         logger,
	}
}

// runCron schedules the jobs and blocks until ctx is cancelled.
func runCron(ctx context.Context, logger *slog.Logger, runner *workerPkg.Runner, cfg *config.AppConfig, workerCfg config.WorkerConfig, healthServer *workerPkg.HealthServer) {
	c := cron.New(cron.WithLocation(cfg.Location))
	if err := runner.Schedule(ctx, c, workerCfg.RefreshSchedule, workerCfg.SweepSchedule); err != nil {
		logger.Error("failed to schedule jobs", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()
	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("refresh_schedule", workerCfg.RefreshSchedule),
		slog.String("sweep_schedule", workerCfg.SweepSchedule))

	if workerCfg.RunOnStart {
		go func() { _ = runner.Refresh(ctx) }()
	}

	<-ctx.Done()
	healthServer.SetReady(false)
	logger.Info("shutting down worker...")

	// Wait for running jobs to return.
	<-c.Stop().Done()
	logger.Info("worker stopped")
}
