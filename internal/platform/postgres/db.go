package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/biblioteca-api/internal/store"
)

// DB binds the PostgreSQL stores to one connection pool.
type DB struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewDB wraps an open connection pool.
// If logger is nil, a default logger will be used.
func NewDB(db *sql.DB, logger *slog.Logger) *DB {
	if db == nil {
		// ALLOW-PANIC: constructor misuse is a programming error
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &DB{db: db, logger: logger}
}

// Ensure DB implements store.Transactor interface
var _ store.Transactor = (*DB)(nil)

// Stores returns stores that run each statement on the pool.
func (d *DB) Stores() store.Stores {
	return d.storesFor(d.db, false)
}

// WithinTx runs fn in a database transaction. Book rows read through the
// stores passed to fn are locked with SELECT ... FOR UPDATE until commit.
func (d *DB) WithinTx(ctx context.Context, fn store.TxFunc) error {
	return store.RunInTransaction(ctx, d.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, d.storesFor(tx, true))
	})
}

func (d *DB) storesFor(conn store.DBTX, inTx bool) store.Stores {
	books := NewPostgresBookStore(conn, d.logger)
	books.lockRows = inTx

	return store.Stores{
		Books: books,
		Users: NewPostgresUserStore(conn, d.logger),
		Loans: NewPostgresLoanStore(conn, d.logger),
	}
}
