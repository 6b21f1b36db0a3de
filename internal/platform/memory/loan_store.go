package memory

import (
	"context"
	"log/slog"

	"github.com/phrazzld/biblioteca-api/internal/domain"
	"github.com/phrazzld/biblioteca-api/internal/platform/logger"
	"github.com/phrazzld/biblioteca-api/internal/store"
)

// LoanStore implements store.LoanStore on top of a DB.
type LoanStore struct {
	db   *DB
	inTx bool
	undo *undoLog
}

// Ensure LoanStore implements store.LoanStore interface
var _ store.LoanStore = (*LoanStore)(nil)

// Create implements store.LoanStore.Create
func (s *LoanStore) Create(ctx context.Context, loan *domain.Loan) error {
	if err := loan.Validate(); err != nil {
		return err
	}

	s.db.lock(s.inTx)
	defer s.db.unlock(s.inTx)

	loan.ID = s.db.loanSeq.Next()
	stored := cloneLoan(loan)
	s.db.loans = append(s.db.loans, stored)
	s.undo.record(func() { s.remove(stored.ID) })

	logger.FromContextOrDefault(ctx, s.db.logger).Debug("loan stored",
		slog.Int64("loan_id", loan.ID),
		slog.Int64("book_id", loan.BookID))
	return nil
}

// GetByID implements store.LoanStore.GetByID
func (s *LoanStore) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	s.db.rlock(s.inTx)
	defer s.db.runlock(s.inTx)

	_, loan := s.find(id)
	if loan == nil {
		return nil, store.ErrLoanNotFound
	}
	return cloneLoan(loan), nil
}

// GetActiveByBookID implements store.LoanStore.GetActiveByBookID
func (s *LoanStore) GetActiveByBookID(ctx context.Context, bookID int64) (*domain.Loan, error) {
	s.db.rlock(s.inTx)
	defer s.db.runlock(s.inTx)

	for _, loan := range s.db.loans {
		if loan.BookID == bookID && loan.IsActive() {
			return cloneLoan(loan), nil
		}
	}
	return nil, store.ErrLoanNotFound
}

// Update implements store.LoanStore.Update
func (s *LoanStore) Update(ctx context.Context, loan *domain.Loan) error {
	if err := loan.Validate(); err != nil {
		return err
	}

	s.db.lock(s.inTx)
	defer s.db.unlock(s.inTx)

	i, existing := s.find(loan.ID)
	if existing == nil {
		return store.ErrLoanNotFound
	}

	previous := existing
	s.db.loans[i] = cloneLoan(loan)
	s.undo.record(func() { s.replace(previous) })
	return nil
}

// Delete implements store.LoanStore.Delete
func (s *LoanStore) Delete(ctx context.Context, id int64) error {
	s.db.lock(s.inTx)
	defer s.db.unlock(s.inTx)

	i, existing := s.find(id)
	if existing == nil {
		return store.ErrLoanNotFound
	}

	s.db.loans = append(s.db.loans[:i], s.db.loans[i+1:]...)
	s.undo.record(func() { s.insert(existing) })
	return nil
}

// List implements store.LoanStore.List
func (s *LoanStore) List(ctx context.Context) ([]*domain.Loan, error) {
	s.db.rlock(s.inTx)
	defer s.db.runlock(s.inTx)

	loans := make([]*domain.Loan, 0, len(s.db.loans))
	for _, loan := range s.db.loans {
		loans = append(loans, cloneLoan(loan))
	}
	return loans, nil
}

func (s *LoanStore) find(id int64) (int, *domain.Loan) {
	for i, loan := range s.db.loans {
		if loan.ID == id {
			return i, loan
		}
	}
	return -1, nil
}

func (s *LoanStore) remove(id int64) {
	if i, loan := s.find(id); loan != nil {
		s.db.loans = append(s.db.loans[:i], s.db.loans[i+1:]...)
	}
}

func (s *LoanStore) replace(loan *domain.Loan) {
	if i, existing := s.find(loan.ID); existing != nil {
		s.db.loans[i] = loan
	}
}

// insert puts loan back at its ID position to keep the list ordered.
func (s *LoanStore) insert(loan *domain.Loan) {
	pos := len(s.db.loans)
	for i, existing := range s.db.loans {
		if existing.ID > loan.ID {
			pos = i
			break
		}
	}
	s.db.loans = append(s.db.loans, nil)
	copy(s.db.loans[pos+1:], s.db.loans[pos:])
	s.db.loans[pos] = loan
}

func cloneLoan(loan *domain.Loan) *domain.Loan {
	clone := *loan
	if loan.ReturnDate != nil {
		returnDate := *loan.ReturnDate
		clone.ReturnDate = &returnDate
	}
	return &clone
}
