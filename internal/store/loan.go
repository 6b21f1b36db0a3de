package store

import (
	"context"

	"github.com/phrazzld/biblioteca-api/internal/domain"
)

// LoanStore defines the interface for loan data persistence.
type LoanStore interface {
	// Create saves a new loan and assigns its ID.
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by its ID.
	// Returns ErrLoanNotFound if the loan does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Loan, error)

	// GetActiveByBookID retrieves the active loan for a book.
	// Returns ErrLoanNotFound if the book is not on loan.
	GetActiveByBookID(ctx context.Context, bookID int64) (*domain.Loan, error)

	// Update persists the status and return date of an existing loan.
	// Returns ErrLoanNotFound if the loan does not exist.
	Update(ctx context.Context, loan *domain.Loan) error

	// Delete removes a loan permanently.
	// Returns ErrLoanNotFound if the loan does not exist.
	Delete(ctx context.Context, id int64) error

	// List returns all loans ordered by ID.
	List(ctx context.Context) ([]*domain.Loan, error)
}
