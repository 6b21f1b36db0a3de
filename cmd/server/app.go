package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/biblioteca-api/internal/config"
	"github.com/phrazzld/biblioteca-api/internal/events"
	"github.com/phrazzld/biblioteca-api/internal/platform/memory"
	"github.com/phrazzld/biblioteca-api/internal/platform/postgres"
	"github.com/phrazzld/biblioteca-api/internal/service"
	"github.com/phrazzld/biblioteca-api/internal/store"
)

// catalog is a storage backend: plain stores plus units of work over them.
type catalog interface {
	store.Transactor
	Stores() store.Stores
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	// db is nil when the memory backend is in use.
	db *sql.DB

	catalog      catalog
	eventEmitter events.EventEmitter

	bookService service.BookService
	userService service.UserService
	loanService service.LoanService
}

// newApplication creates a new application instance with all dependencies initialized.
// A nil db selects the in-memory backend.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	if db != nil {
		app.catalog = postgres.NewDB(db, logger)
		logger.Info("Using postgres storage backend")
	} else {
		app.catalog = memory.NewDB(logger)
		logger.Info("Using in-memory storage backend")
	}
	stores := app.catalog.Stores()

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewLogHandler(logger))
	app.eventEmitter = emitter

	var err error
	app.bookService, err = service.NewBookService(stores.Books, service.SystemClock, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create book service: %w", err)
	}

	app.userService, err = service.NewUserService(stores.Users, service.SystemClock, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.loanService, err = service.NewLoanService(
		app.catalog,
		stores.Loans,
		app.eventEmitter,
		service.SystemClock,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create loan service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns when ctx is cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (app *application) greetingDelay() time.Duration {
	return time.Duration(app.config.Server.GreetingDelayMS) * time.Millisecond
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		closeDB(app.db, app.logger)
	}
	app.logger.Info("Application shutdown completed")
}
