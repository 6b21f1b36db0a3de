package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the postgres dialect
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/phrazzld/biblioteca-api/internal/domain"
	"github.com/phrazzld/biblioteca-api/internal/platform/logger"
	"github.com/phrazzld/biblioteca-api/internal/store"
)

const (
	dialectPostgres = "postgres"

	tableBooks = "books"
)

var dialect = goqu.Dialect(dialectPostgres)

var bookColumns = []any{"id", "title", "author", "publication_year", "pages", "status", "created_at"}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgresBookStore implements the store.BookStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBookStore struct {
	db     store.DBTX
	logger *slog.Logger
	// lockRows makes single-book reads take a row lock. It is set for
	// stores bound to a transaction so status checks and updates serialize.
	lockRows bool
}

// NewPostgresBookStore creates a new PostgreSQL implementation of the BookStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresBookStore(db store.DBTX, logger *slog.Logger) *PostgresBookStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse is a programming error
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBookStore{
		db:     db,
		logger: logger.With(slog.String("component", "book_store")),
	}
}

// Ensure PostgresBookStore implements store.BookStore interface
var _ store.BookStore = (*PostgresBookStore)(nil)

// Create implements store.BookStore.Create
// The database assigns the ID; a case-insensitive title clash yields store.ErrTitleExists.
func (s *PostgresBookStore) Create(ctx context.Context, book *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := dialect.Insert(tableBooks).
		Rows(goqu.Record{
			"title":            book.Title,
			"author":           book.Author,
			"publication_year": book.PublicationYear,
			"pages":            book.Pages,
			"status":           string(book.Status),
			"created_at":       book.CreatedAt,
		}).
		Returning("id").
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build book insert: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&book.ID); err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrTitleExists) {
			log.Debug("duplicate book title", slog.String("title", book.Title))
			return mapped
		}
		log.Error("failed to create book",
			slog.String("error", err.Error()),
			slog.String("title", book.Title))
		return mapped
	}

	log.Debug("book stored", slog.Int64("book_id", book.ID))
	return nil
}

// GetByID implements store.BookStore.GetByID
// Inside a transaction the row stays locked until commit.
func (s *PostgresBookStore) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	ds := dialect.From(tableBooks).
		Select(bookColumns...).
		Where(goqu.C("id").Eq(id))
	if s.lockRows {
		ds = ds.ForUpdate(exp.Wait)
	}

	return s.getOne(ctx, ds)
}

// GetByTitle implements store.BookStore.GetByTitle
func (s *PostgresBookStore) GetByTitle(ctx context.Context, title string) (*domain.Book, error) {
	ds := dialect.From(tableBooks).
		Select(bookColumns...).
		Where(goqu.Func("lower", goqu.C("title")).Eq(strings.ToLower(strings.TrimSpace(title))))

	return s.getOne(ctx, ds)
}

// List implements store.BookStore.List
func (s *PostgresBookStore) List(ctx context.Context, filter store.BookFilter) ([]*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ds := dialect.From(tableBooks).
		Select(bookColumns...).
		Order(goqu.C("id").Asc())
	if filter.Status != "" {
		ds = ds.Where(goqu.C("status").Eq(string(filter.Status)))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build book list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list books", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	books := make([]*domain.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return books, nil
}

// UpdateStatus implements store.BookStore.UpdateStatus
func (s *PostgresBookStore) UpdateStatus(ctx context.Context, id int64, status domain.BookStatus) error {
	if !status.IsValid() {
		return store.NewStoreError("book", "update_status", "unknown status", domain.ErrInvalidBookStatus)
	}

	query, args, err := dialect.Update(tableBooks).
		Set(goqu.Record{"status": string(status)}).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build book status update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update book status",
			slog.String("error", err.Error()),
			slog.Int64("book_id", id))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrBookNotFound)
}

func (s *PostgresBookStore) getOne(ctx context.Context, ds *goqu.SelectDataset) (*domain.Book, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build book query: %w", err)
	}

	book, err := scanBook(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBookNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get book",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return book, nil
}

func scanBook(row rowScanner) (*domain.Book, error) {
	var (
		book   domain.Book
		status string
	)
	if err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.PublicationYear,
		&book.Pages,
		&status,
		&book.CreatedAt,
	); err != nil {
		return nil, err
	}
	book.Status = domain.BookStatus(status)
	return &book, nil
}
