// Package main implements the entry point for the biblioteca API server,
// which keeps a digital library catalog of books, users and loans.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// main is the entry point for the biblioteca-api server.
// With -migrate it applies, rolls back or reports database migrations and
// exits; otherwise it serves HTTP until SIGINT or SIGTERM.
func main() {
	migrateCmd := flag.String("migrate", "", "run database migrations: up, down or status")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run(migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.Database.UsesPostgres() {
		db, err = setupAppDatabase(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to set up database: %w", err)
		}
	}

	if migrateCmd != "" {
		if db == nil {
			return errors.New("migrations require the postgres database driver")
		}
		defer closeDB(db, logger)
		return runMigrations(ctx, db, migrateCmd, logger)
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		if db != nil {
			closeDB(db, logger)
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
