package store

import (
	"context"

	"github.com/phrazzld/biblioteca-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
// Users are never updated or deleted once created.
type UserStore interface {
	// Create saves a new user and assigns its ID.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// List returns all users ordered by ID.
	List(ctx context.Context) ([]*domain.User, error)
}
