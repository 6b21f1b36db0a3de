package mocks

import (
	"context"

	"github.com/phrazzld/biblioteca-api/internal/domain"
	"github.com/phrazzld/biblioteca-api/internal/store"
)

// MockBookStore implements store.BookStore for testing
type MockBookStore struct {
	CreateFn       func(ctx context.Context, book *domain.Book) error
	GetByIDFn      func(ctx context.Context, id int64) (*domain.Book, error)
	GetByTitleFn   func(ctx context.Context, title string) (*domain.Book, error)
	ListFn         func(ctx context.Context, filter store.BookFilter) ([]*domain.Book, error)
	UpdateStatusFn func(ctx context.Context, id int64, status domain.BookStatus) error
}

var _ store.BookStore = (*MockBookStore)(nil)

// Create implements store.BookStore
func (m *MockBookStore) Create(ctx context.Context, book *domain.Book) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, book)
	}
	return nil
}

// GetByID implements store.BookStore
func (m *MockBookStore) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrBookNotFound
}

// GetByTitle implements store.BookStore
func (m *MockBookStore) GetByTitle(ctx context.Context, title string) (*domain.Book, error) {
	if m.GetByTitleFn != nil {
		return m.GetByTitleFn(ctx, title)
	}
	return nil, store.ErrBookNotFound
}

// List implements store.BookStore
func (m *MockBookStore) List(ctx context.Context, filter store.BookFilter) ([]*domain.Book, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return []*domain.Book{}, nil
}

// UpdateStatus implements store.BookStore
func (m *MockBookStore) UpdateStatus(ctx context.Context, id int64, status domain.BookStatus) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, status)
	}
	return nil
}

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	CreateFn  func(ctx context.Context, user *domain.User) error
	GetByIDFn func(ctx context.Context, id int64) (*domain.User, error)
	ListFn    func(ctx context.Context) ([]*domain.User, error)
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements store.UserStore
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

// GetByID implements store.UserStore
func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

// List implements store.UserStore
func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return []*domain.User{}, nil
}

// MockLoanStore implements store.LoanStore for testing
type MockLoanStore struct {
	CreateFn            func(ctx context.Context, loan *domain.Loan) error
	GetByIDFn           func(ctx context.Context, id int64) (*domain.Loan, error)
	GetActiveByBookIDFn func(ctx context.Context, bookID int64) (*domain.Loan, error)
	UpdateFn            func(ctx context.Context, loan *domain.Loan) error
	DeleteFn            func(ctx context.Context, id int64) error
	ListFn              func(ctx context.Context) ([]*domain.Loan, error)
}

var _ store.LoanStore = (*MockLoanStore)(nil)

// Create implements store.LoanStore
func (m *MockLoanStore) Create(ctx context.Context, loan *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, loan)
	}
	return nil
}

// GetByID implements store.LoanStore
func (m *MockLoanStore) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrLoanNotFound
}

// GetActiveByBookID implements store.LoanStore
func (m *MockLoanStore) GetActiveByBookID(ctx context.Context, bookID int64) (*domain.Loan, error) {
	if m.GetActiveByBookIDFn != nil {
		return m.GetActiveByBookIDFn(ctx, bookID)
	}
	return nil, store.ErrLoanNotFound
}

// Update implements store.LoanStore
func (m *MockLoanStore) Update(ctx context.Context, loan *domain.Loan) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, loan)
	}
	return nil
}

// Delete implements store.LoanStore
func (m *MockLoanStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// List implements store.LoanStore
func (m *MockLoanStore) List(ctx context.Context) ([]*domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return []*domain.Loan{}, nil
}

// MockTransactor implements store.Transactor by running the unit of work
// directly against Stores.
type MockTransactor struct {
	Stores     store.Stores
	WithinTxFn func(ctx context.Context, fn store.TxFunc) error
	Calls      int
}

var _ store.Transactor = (*MockTransactor)(nil)

// WithinTx implements store.Transactor
func (m *MockTransactor) WithinTx(ctx context.Context, fn store.TxFunc) error {
	m.Calls++
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return fn(ctx, m.Stores)
}
