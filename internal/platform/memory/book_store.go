package memory

import (
	"context"
	"log/slog"

	"github.com/phrazzld/biblioteca-api/internal/domain"
	"github.com/phrazzld/biblioteca-api/internal/platform/logger"
	"github.com/phrazzld/biblioteca-api/internal/store"
)

// BookStore implements store.BookStore on top of a DB.
// Lookups are linear scans; the catalog is small and held in memory.
type BookStore struct {
	db   *DB
	inTx bool
	undo *undoLog
}

// Ensure BookStore implements store.BookStore interface
var _ store.BookStore = (*BookStore)(nil)

// Create implements store.BookStore.Create
func (s *BookStore) Create(ctx context.Context, book *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.db.logger)

	s.db.lock(s.inTx)
	defer s.db.unlock(s.inTx)

	if s.findByTitle(book.Title) != nil {
		log.Debug("duplicate book title", slog.String("title", book.Title))
		return store.ErrTitleExists
	}

	book.ID = s.db.bookSeq.Next()
	stored := *book
	s.db.books = append(s.db.books, &stored)
	s.undo.record(func() { s.remove(stored.ID) })

	log.Debug("book stored", slog.Int64("book_id", book.ID))
	return nil
}

// GetByID implements store.BookStore.GetByID
func (s *BookStore) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	s.db.rlock(s.inTx)
	defer s.db.runlock(s.inTx)

	book := s.findByID(id)
	if book == nil {
		return nil, store.ErrBookNotFound
	}
	clone := *book
	return &clone, nil
}

// GetByTitle implements store.BookStore.GetByTitle
func (s *BookStore) GetByTitle(ctx context.Context, title string) (*domain.Book, error) {
	s.db.rlock(s.inTx)
	defer s.db.runlock(s.inTx)

	book := s.findByTitle(title)
	if book == nil {
		return nil, store.ErrBookNotFound
	}
	clone := *book
	return &clone, nil
}

// List implements store.BookStore.List
func (s *BookStore) List(ctx context.Context, filter store.BookFilter) ([]*domain.Book, error) {
	s.db.rlock(s.inTx)
	defer s.db.runlock(s.inTx)

	books := make([]*domain.Book, 0, len(s.db.books))
	for _, book := range s.db.books {
		if filter.Status != "" && book.Status != filter.Status {
			continue
		}
		clone := *book
		books = append(books, &clone)
	}
	return books, nil
}

// UpdateStatus implements store.BookStore.UpdateStatus
func (s *BookStore) UpdateStatus(ctx context.Context, id int64, status domain.BookStatus) error {
	if !status.IsValid() {
		return store.NewStoreError("book", "update_status", "unknown status", domain.ErrInvalidBookStatus)
	}

	s.db.lock(s.inTx)
	defer s.db.unlock(s.inTx)

	book := s.findByID(id)
	if book == nil {
		return store.ErrBookNotFound
	}

	previous := book.Status
	book.Status = status
	s.undo.record(func() { book.Status = previous })
	return nil
}

func (s *BookStore) findByID(id int64) *domain.Book {
	for _, book := range s.db.books {
		if book.ID == id {
			return book
		}
	}
	return nil
}

func (s *BookStore) findByTitle(title string) *domain.Book {
	key := domain.NormalizeTitle(title)
	for _, book := range s.db.books {
		if domain.NormalizeTitle(book.Title) == key {
			return book
		}
	}
	return nil
}

func (s *BookStore) remove(id int64) {
	for i, book := range s.db.books {
		if book.ID == id {
			s.db.books = append(s.db.books[:i], s.db.books[i+1:]...)
			return
		}
	}
}
