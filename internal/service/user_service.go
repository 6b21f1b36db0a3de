package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/biblioteca-api/internal/domain"
	"github.com/phrazzld/biblioteca-api/internal/platform/logger"
	"github.com/phrazzld/biblioteca-api/internal/store"
)

// UserService provides user registration and lookup
type UserService interface {
	// Register validates and stores a new user
	Register(ctx context.Context, name, email string) (*domain.User, error)

	// Get retrieves a user by id
	Get(ctx context.Context, id int64) (*domain.User, error)

	// List returns every user, ordered by id
	List(ctx context.Context) ([]*domain.User, error)
}

type userServiceImpl struct {
	users  store.UserStore
	clock  Clock
	logger *slog.Logger
}

// NewUserService creates a new UserService
// It returns an error if any of the required dependencies are nil.
func NewUserService(users store.UserStore, clock Clock, logger *slog.Logger) (UserService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		users:  users,
		clock:  clock,
		logger: logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.Register
func (s *userServiceImpl) Register(ctx context.Context, name, email string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(name, email, s.clock())
	if err != nil {
		log.Debug("user rejected", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("email already registered")
			return nil, err
		}
		log.Error("failed to store user", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "register", "failed to store user", err)
	}

	log.Info("user registered", slog.Int64("user_id", user.ID))
	return user, nil
}

// Get implements UserService.Get
func (s *userServiceImpl) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get user",
			slog.String("error", err.Error()),
			slog.Int64("user_id", id))
		return nil, NewServiceError("user", "get", "failed to get user", err)
	}
	return user, nil
}

// List implements UserService.List
func (s *userServiceImpl) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users",
			slog.String("error", err.Error()))
		return nil, NewServiceError("user", "list", "failed to list users", err)
	}
	return users, nil
}
