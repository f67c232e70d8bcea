package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"newsboard/pkg/config"
)

const pingTimeout = 5 * time.Second

// PoolConfig sizes the shared connection pool. The site and the worker each
// open one pool.
type PoolConfig struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

// DefaultPoolConfig suits a single site process behind a small Postgres.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpen:     25,
		MaxIdle:     10,
		MaxLifetime: time.Hour,
		MaxIdleTime: 30 * time.Minute,
	}
}

// PoolConfigFromEnv overrides the defaults from DB_MAX_OPEN_CONNS,
// DB_MAX_IDLE_CONNS, DB_CONN_MAX_LIFETIME and DB_CONN_MAX_IDLE_TIME.
// Non-positive values are ignored. MaxIdle never exceeds MaxOpen.
func PoolConfigFromEnv() PoolConfig {
	cfg := DefaultPoolConfig()
	cfg.MaxOpen = positive(config.GetEnvInt("DB_MAX_OPEN_CONNS", cfg.MaxOpen), cfg.MaxOpen)
	cfg.MaxIdle = positive(config.GetEnvInt("DB_MAX_IDLE_CONNS", cfg.MaxIdle), cfg.MaxIdle)
	cfg.MaxLifetime = positive(config.GetEnvDuration("DB_CONN_MAX_LIFETIME", cfg.MaxLifetime), cfg.MaxLifetime)
	cfg.MaxIdleTime = positive(config.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", cfg.MaxIdleTime), cfg.MaxIdleTime)
	cfg.MaxIdle = min(cfg.MaxIdle, cfg.MaxOpen)
	return cfg
}

func positive[T int | time.Duration](v, def T) T {
	if config.ValidatePositive(v) != nil {
		return def
	}
	return v
}

func (c PoolConfig) apply(db *sql.DB) {
	db.SetMaxOpenConns(c.MaxOpen)
	db.SetMaxIdleConns(c.MaxIdle)
	db.SetConnMaxLifetime(c.MaxLifetime)
	db.SetConnMaxIdleTime(c.MaxIdleTime)
}

// Open connects to Postgres through the pgx stdlib driver, sizes the pool
// from the environment and pings once before returning.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("db: DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}
	pool := PoolConfigFromEnv()
	pool.apply(db)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	slog.InfoContext(ctx, "database ready",
		slog.Int("max_open", pool.MaxOpen),
		slog.Int("max_idle", pool.MaxIdle),
		slog.Duration("max_lifetime", pool.MaxLifetime),
		slog.Duration("max_idle_time", pool.MaxIdleTime))
	return db, nil
}
