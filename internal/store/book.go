package store

import (
	"context"

	"github.com/phrazzld/biblioteca-api/internal/domain"
)

// BookFilter narrows BookStore.List. A zero Status lists the whole catalog.
type BookFilter struct {
	Status domain.BookStatus
}

// BookStore defines the interface for book data persistence.
type BookStore interface {
	// Create saves a new book and assigns its ID.
	// Returns ErrTitleExists if another book has the same title, ignoring case.
	Create(ctx context.Context, book *domain.Book) error

	// GetByID retrieves a book by its ID.
	// Returns ErrBookNotFound if the book does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Book, error)

	// GetByTitle retrieves a book by title, ignoring case.
	// Returns ErrBookNotFound if the book does not exist.
	GetByTitle(ctx context.Context, title string) (*domain.Book, error)

	// List returns the books matching filter ordered by ID.
	List(ctx context.Context, filter BookFilter) ([]*domain.Book, error)

	// UpdateStatus sets the status of a book.
	// Returns ErrBookNotFound if the book does not exist.
	UpdateStatus(ctx context.Context, id int64, status domain.BookStatus) error
}
