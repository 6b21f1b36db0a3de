package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/biblioteca-api/internal/config"
	"github.com/phrazzld/biblioteca-api/internal/redact"
	"github.com/sethvargo/go-retry"
)

const (
	connMaxLifetime  = 5 * time.Minute
	pingTimeout      = 5 * time.Second
	connectBaseDelay = 500 * time.Millisecond
)

// setupAppDatabase establishes a connection to the database and configures connection pools.
// The first ping is retried with exponential backoff up to
// cfg.Database.ConnectAttempts times so the server can start alongside its database.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := pingWithRetry(ctx, db, cfg.Database.ConnectAttempts, connectBaseDelay, logger); err != nil {
		closeDB(db, logger)
		return nil, err
	}

	logger.Info("Database connection established",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns)
	return db, nil
}

// pingWithRetry pings db until it answers, attempts runs out, or ctx ends.
func pingWithRetry(ctx context.Context, db *sql.DB, attempts int, base time.Duration, logger *slog.Logger) error {
	if attempts < 1 {
		attempts = 1
	}
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(base))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()

		if err := db.PingContext(pingCtx); err != nil {
			logger.Warn("Database ping failed",
				"attempt", attempt,
				"max_attempts", attempts,
				"error", redact.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to ping database after %d attempts: %w", attempt, err)
	}
	return nil
}

func closeDB(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("Error closing database connection", "error", err)
	}
}
