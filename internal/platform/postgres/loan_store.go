package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/phrazzld/biblioteca-api/internal/domain"
	"github.com/phrazzld/biblioteca-api/internal/platform/logger"
	"github.com/phrazzld/biblioteca-api/internal/store"
)

const tableLoans = "loans"

var loanColumns = []any{"id", "book_id", "user_id", "loan_date", "return_date", "status", "created_at"}

// PostgresLoanStore implements the store.LoanStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLoanStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLoanStore creates a new PostgreSQL implementation of the LoanStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresLoanStore(db store.DBTX, logger *slog.Logger) *PostgresLoanStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse is a programming error
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLoanStore{
		db:     db,
		logger: logger.With(slog.String("component", "loan_store")),
	}
}

// Ensure PostgresLoanStore implements store.LoanStore interface
var _ store.LoanStore = (*PostgresLoanStore)(nil)

// Create implements store.LoanStore.Create
// A missing book or user is reported as store.ErrInvalidEntity, and a second
// active loan for the same book as store.ErrDuplicate.
func (s *PostgresLoanStore) Create(ctx context.Context, loan *domain.Loan) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := loan.Validate(); err != nil {
		log.Warn("loan validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query, args, err := dialect.Insert(tableLoans).
		Rows(goqu.Record{
			"book_id":     loan.BookID,
			"user_id":     loan.UserID,
			"loan_date":   loan.LoanDate,
			"return_date": nullableDate(loan.ReturnDate),
			"status":      string(loan.Status),
			"created_at":  loan.CreatedAt,
		}).
		Returning("id").
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build loan insert: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&loan.ID); err != nil {
		log.Error("failed to create loan",
			slog.String("error", err.Error()),
			slog.Int64("book_id", loan.BookID),
			slog.Int64("user_id", loan.UserID))
		return MapError(err)
	}

	log.Debug("loan stored",
		slog.Int64("loan_id", loan.ID),
		slog.Int64("book_id", loan.BookID))
	return nil
}

// GetByID implements store.LoanStore.GetByID
func (s *PostgresLoanStore) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	return s.getOne(ctx, goqu.C("id").Eq(id))
}

// GetActiveByBookID implements store.LoanStore.GetActiveByBookID
func (s *PostgresLoanStore) GetActiveByBookID(ctx context.Context, bookID int64) (*domain.Loan, error) {
	return s.getOne(ctx, goqu.Ex{
		"book_id": bookID,
		"status":  string(domain.LoanStatusActive),
	})
}

// Update implements store.LoanStore.Update
// Only the mutable fields of a loan are written: its status and return date.
func (s *PostgresLoanStore) Update(ctx context.Context, loan *domain.Loan) error {
	if err := loan.Validate(); err != nil {
		return err
	}

	query, args, err := dialect.Update(tableLoans).
		Set(goqu.Record{
			"status":      string(loan.Status),
			"return_date": nullableDate(loan.ReturnDate),
		}).
		Where(goqu.C("id").Eq(loan.ID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build loan update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update loan",
			slog.String("error", err.Error()),
			slog.Int64("loan_id", loan.ID))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrLoanNotFound)
}

// Delete implements store.LoanStore.Delete
func (s *PostgresLoanStore) Delete(ctx context.Context, id int64) error {
	query, args, err := dialect.Delete(tableLoans).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build loan delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete loan",
			slog.String("error", err.Error()),
			slog.Int64("loan_id", id))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrLoanNotFound)
}

// List implements store.LoanStore.List
func (s *PostgresLoanStore) List(ctx context.Context) ([]*domain.Loan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := dialect.From(tableLoans).
		Select(loanColumns...).
		Order(goqu.C("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build loan list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list loans", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	loans := make([]*domain.Loan, 0)
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return loans, nil
}

func (s *PostgresLoanStore) getOne(ctx context.Context, where goqu.Expression) (*domain.Loan, error) {
	query, args, err := dialect.From(tableLoans).
		Select(loanColumns...).
		Where(where).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build loan query: %w", err)
	}

	loan, err := scanLoan(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLoanNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get loan",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return loan, nil
}

// nullableDate turns a nil return date into an untyped nil so it is written as NULL.
func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func scanLoan(row rowScanner) (*domain.Loan, error) {
	var (
		loan       domain.Loan
		returnDate sql.NullTime
		status     string
	)
	if err := row.Scan(
		&loan.ID,
		&loan.BookID,
		&loan.UserID,
		&loan.LoanDate,
		&returnDate,
		&status,
		&loan.CreatedAt,
	); err != nil {
		return nil, err
	}

	loan.LoanDate = domain.DateOf(loan.LoanDate)
	if returnDate.Valid {
		d := domain.DateOf(returnDate.Time)
		loan.ReturnDate = &d
	}
	loan.Status = domain.LoanStatus(status)
	return &loan, nil
}
