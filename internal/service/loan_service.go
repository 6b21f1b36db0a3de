package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/biblioteca-api/internal/domain"
	"github.com/phrazzld/biblioteca-api/internal/events"
	"github.com/phrazzld/biblioteca-api/internal/platform/logger"
	"github.com/phrazzld/biblioteca-api/internal/store"
)

// CreateLoanParams carries the fields a client supplies for a new loan.
type CreateLoanParams struct {
	BookID int64
	UserID int64
	// LoanDate defaults to today when zero.
	LoanDate time.Time
}

// LoanService moves loans through their lifecycle: active, then returned or deleted.
type LoanService interface {
	// Create lends an available book to a user
	Create(ctx context.Context, params CreateLoanParams) (*domain.Loan, error)

	// Return closes an active loan and makes its book available again
	Return(ctx context.Context, loanID int64) (*domain.Loan, error)

	// Delete removes a loan, releasing its book if the loan was active.
	// The removed loan is returned.
	Delete(ctx context.Context, loanID int64) (*domain.Loan, error)

	// Get retrieves a loan by id
	Get(ctx context.Context, loanID int64) (*domain.Loan, error)

	// List returns every loan, ordered by id
	List(ctx context.Context) ([]*domain.Loan, error)
}

type loanServiceImpl struct {
	tx      store.Transactor
	loans   store.LoanStore
	emitter events.EventEmitter
	clock   Clock
	logger  *slog.Logger
}

// NewLoanService creates a new LoanService.
// loans serves reads outside a unit of work; every state change goes through tx.
// It returns an error if any of the required dependencies are nil.
func NewLoanService(
	tx store.Transactor,
	loans store.LoanStore,
	emitter events.EventEmitter,
	clock Clock,
	logger *slog.Logger,
) (LoanService, error) {
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	}
	if loans == nil {
		return nil, domain.NewValidationError("loans", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &loanServiceImpl{
		tx:      tx,
		loans:   loans,
		emitter: emitter,
		clock:   clock,
		logger:  logger.With(slog.String("component", "loan_service")),
	}, nil
}

// Create implements LoanService.Create
func (s *loanServiceImpl) Create(ctx context.Context, params CreateLoanParams) (*domain.Loan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.Int64("book_id", params.BookID),
		slog.Int64("user_id", params.UserID))
	now := s.clock()

	var loan *domain.Loan
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx store.Stores) error {
		book, err := tx.Books.GetByID(ctx, params.BookID)
		if err != nil {
			return err
		}
		if _, err := tx.Users.GetByID(ctx, params.UserID); err != nil {
			return err
		}

		if err := s.checkAvailable(ctx, log, tx, book); err != nil {
			return err
		}

		loan, err = domain.NewLoan(book.ID, params.UserID, params.LoanDate, now)
		if err != nil {
			return err
		}
		if err := tx.Loans.Create(ctx, loan); err != nil {
			if store.IsDuplicateError(err) {
				return ErrBookAlreadyLoaned
			}
			return err
		}

		return tx.Books.UpdateStatus(ctx, book.ID, domain.BookStatusLoaned)
	})
	if err != nil {
		return nil, s.fail(log, "create", err)
	}

	log.Info("loan created", slog.Int64("loan_id", loan.ID))
	s.emit(ctx, events.LoanCreated, loan, now)
	return loan, nil
}

// checkAvailable decides whether book can be lent. The loan store is the
// source of truth; a book status that disagrees with it is reported as an
// inconsistency and the book is treated as unavailable.
func (s *loanServiceImpl) checkAvailable(
	ctx context.Context,
	log *slog.Logger,
	tx store.Stores,
	book *domain.Book,
) error {
	active, err := tx.Loans.GetActiveByBookID(ctx, book.ID)
	switch {
	case err == nil:
		if book.IsAvailable() {
			log.Error("catalog inconsistency",
				slog.Int64("active_loan_id", active.ID),
				slog.String("book_status", string(book.Status)))
			return fmt.Errorf("%w: %w", ErrBookAlreadyLoaned, ErrInconsistentState)
		}
		return ErrBookAlreadyLoaned
	case !store.IsNotFoundError(err):
		return err
	}

	if !book.IsAvailable() {
		log.Error("catalog inconsistency",
			slog.String("book_status", string(book.Status)),
			slog.String("detail", "book marked loaned without an active loan"))
		return fmt.Errorf("%w: %w", ErrBookAlreadyLoaned, ErrInconsistentState)
	}
	return nil
}

// Return implements LoanService.Return
func (s *loanServiceImpl) Return(ctx context.Context, loanID int64) (*domain.Loan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.Int64("loan_id", loanID))
	now := s.clock()

	var loan *domain.Loan
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx store.Stores) error {
		var err error
		loan, err = tx.Loans.GetByID(ctx, loanID)
		if err != nil {
			return err
		}

		if err := loan.MarkReturned(now); err != nil {
			if errors.Is(err, domain.ErrLoanNotActive) {
				return ErrLoanAlreadyReturned
			}
			return err
		}
		if err := tx.Loans.Update(ctx, loan); err != nil {
			return err
		}

		return tx.Books.UpdateStatus(ctx, loan.BookID, domain.BookStatusAvailable)
	})
	if err != nil {
		return nil, s.fail(log, "return", err)
	}

	log.Info("loan returned", slog.Int64("book_id", loan.BookID))
	s.emit(ctx, events.LoanReturned, loan, now)
	return loan, nil
}

// Delete implements LoanService.Delete
func (s *loanServiceImpl) Delete(ctx context.Context, loanID int64) (*domain.Loan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.Int64("loan_id", loanID))

	var loan *domain.Loan
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx store.Stores) error {
		var err error
		loan, err = tx.Loans.GetByID(ctx, loanID)
		if err != nil {
			return err
		}

		if loan.IsActive() {
			if err := tx.Books.UpdateStatus(ctx, loan.BookID, domain.BookStatusAvailable); err != nil {
				return err
			}
		}

		return tx.Loans.Delete(ctx, loan.ID)
	})
	if err != nil {
		return nil, s.fail(log, "delete", err)
	}

	log.Info("loan deleted",
		slog.Int64("book_id", loan.BookID),
		slog.Bool("was_active", loan.IsActive()))
	s.emit(ctx, events.LoanDeleted, loan, s.clock())
	return loan, nil
}

// Get implements LoanService.Get
func (s *loanServiceImpl) Get(ctx context.Context, loanID int64) (*domain.Loan, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, s.fail(logger.FromContextOrDefault(ctx, s.logger), "get", err)
	}
	return loan, nil
}

// List implements LoanService.List
func (s *loanServiceImpl) List(ctx context.Context) ([]*domain.Loan, error) {
	loans, err := s.loans.List(ctx)
	if err != nil {
		return nil, s.fail(logger.FromContextOrDefault(ctx, s.logger), "list", err)
	}
	return loans, nil
}

// fail passes expected conditions through and wraps everything else.
func (s *loanServiceImpl) fail(log *slog.Logger, operation string, err error) error {
	if isExpected(err) {
		log.Debug("loan operation rejected",
			slog.String("operation", operation),
			slog.String("reason", err.Error()))
		return err
	}

	log.Error("loan operation failed",
		slog.String("operation", operation),
		slog.String("error", err.Error()))
	return NewServiceError("loan", operation, "unexpected failure", err)
}

// emit publishes a lifecycle event. The loan change is already committed, so
// a failed emission is only logged.
func (s *loanServiceImpl) emit(ctx context.Context, eventType string, loan *domain.Loan, now time.Time) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewEvent(eventType, events.LoanPayload{
		LoanID: loan.ID,
		BookID: loan.BookID,
		UserID: loan.UserID,
		Status: string(loan.Status),
	}, now)
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		log.Warn("failed to emit loan event",
			slog.String("event_type", eventType),
			slog.Int64("loan_id", loan.ID),
			slog.String("error", err.Error()))
	}
}

func isExpected(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		store.IsNotFoundError(err) ||
		errors.Is(err, ErrBookAlreadyLoaned) ||
		errors.Is(err, ErrLoanAlreadyReturned)
}
