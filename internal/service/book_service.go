package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/biblioteca-api/internal/domain"
	"github.com/phrazzld/biblioteca-api/internal/platform/logger"
	"github.com/phrazzld/biblioteca-api/internal/store"
)

// RegisterBookParams carries the fields a client supplies for a new book.
type RegisterBookParams struct {
	Title           string
	Author          string
	PublicationYear int
	Pages           int
}

// BookService provides catalog operations
type BookService interface {
	// Register validates and stores a new, available book
	Register(ctx context.Context, params RegisterBookParams) (*domain.Book, error)

	// GetByTitle finds a book by title, ignoring case
	GetByTitle(ctx context.Context, title string) (*domain.Book, error)

	// List returns the books matching filter, ordered by id
	List(ctx context.Context, filter store.BookFilter) ([]*domain.Book, error)
}

type bookServiceImpl struct {
	books  store.BookStore
	clock  Clock
	logger *slog.Logger
}

// NewBookService creates a new BookService
// It returns an error if any of the required dependencies are nil.
func NewBookService(books store.BookStore, clock Clock, logger *slog.Logger) (BookService, error) {
	if books == nil {
		return nil, domain.NewValidationError("books", "cannot be nil", domain.ErrValidation)
	}
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &bookServiceImpl{
		books:  books,
		clock:  clock,
		logger: logger.With(slog.String("component", "book_service")),
	}, nil
}

// Register implements BookService.Register
func (s *bookServiceImpl) Register(ctx context.Context, params RegisterBookParams) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	book, err := domain.NewBook(params.Title, params.Author, params.PublicationYear, params.Pages, s.clock())
	if err != nil {
		log.Debug("book rejected", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.books.Create(ctx, book); err != nil {
		if errors.Is(err, store.ErrTitleExists) {
			log.Debug("book title already registered", slog.String("title", book.Title))
			return nil, err
		}
		log.Error("failed to store book", slog.String("error", err.Error()))
		return nil, NewServiceError("book", "register", "failed to store book", err)
	}

	log.Info("book registered",
		slog.Int64("book_id", book.ID),
		slog.String("title", book.Title))
	return book, nil
}

// GetByTitle implements BookService.GetByTitle
func (s *bookServiceImpl) GetByTitle(ctx context.Context, title string) (*domain.Book, error) {
	book, err := s.books.GetByTitle(ctx, title)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get book by title",
			slog.String("error", err.Error()))
		return nil, NewServiceError("book", "get_by_title", "failed to get book", err)
	}
	return book, nil
}

// List implements BookService.List
func (s *bookServiceImpl) List(ctx context.Context, filter store.BookFilter) ([]*domain.Book, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domain.NewValidationError("estado", "unknown book status", domain.ErrInvalidBookStatus)
	}

	books, err := s.books.List(ctx, filter)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list books",
			slog.String("error", err.Error()))
		return nil, NewServiceError("book", "list", "failed to list books", err)
	}
	return books, nil
}
