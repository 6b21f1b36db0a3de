package domain

import (
	"time"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

// Valid loan statuses. Values are the ones exposed by the HTTP API.
const (
	LoanStatusActive   LoanStatus = "activo"
	LoanStatusReturned LoanStatus = "devuelto"
)

// IsValid reports whether s is a known loan status.
func (s LoanStatus) IsValid() bool {
	return s == LoanStatusActive || s == LoanStatusReturned
}

// Loan records a book lent to a user.
//
// A loan starts active and either moves to returned (terminal) or is deleted.
// ReturnDate is nil while the loan is active.
type Loan struct {
	ID         int64
	BookID     int64
	UserID     int64
	LoanDate   time.Time
	ReturnDate *time.Time
	Status     LoanStatus
	CreatedAt  time.Time
}

// NewLoan creates an active loan. A zero loanDate defaults to the date of now.
func NewLoan(bookID, userID int64, loanDate, now time.Time) (*Loan, error) {
	if loanDate.IsZero() {
		loanDate = now
	}

	loan := &Loan{
		BookID:    bookID,
		UserID:    userID,
		LoanDate:  DateOf(loanDate),
		Status:    LoanStatusActive,
		CreatedAt: now.UTC(),
	}

	if err := loan.Validate(); err != nil {
		return nil, err
	}

	return loan, nil
}

// Validate checks if the Loan has valid data.
func (l *Loan) Validate() error {
	if l.BookID <= 0 {
		return NewValidationError("book_id", "must be a positive integer", ErrInvalidID)
	}

	if l.UserID <= 0 {
		return NewValidationError("user_id", "must be a positive integer", ErrInvalidID)
	}

	if l.LoanDate.IsZero() {
		return NewValidationError("loan_date", "is required", ErrInvalidLoanDate)
	}

	if !l.Status.IsValid() {
		return NewValidationError("status", "must be activo or devuelto", ErrInvalidLoanStatus)
	}

	switch l.Status {
	case LoanStatusActive:
		if l.ReturnDate != nil {
			return NewValidationError("return_date", "must be empty while the loan is active", ErrInvalidLoanDate)
		}
	case LoanStatusReturned:
		if l.ReturnDate == nil {
			return NewValidationError("return_date", "is required once the loan is returned", ErrInvalidLoanDate)
		}
	}

	return nil
}

// IsActive reports whether the loan has not been returned yet.
func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

// MarkReturned moves an active loan to returned, stamping the return date
// with the date of now. Returns ErrLoanNotActive for returned loans.
func (l *Loan) MarkReturned(now time.Time) error {
	if !l.IsActive() {
		return ErrLoanNotActive
	}

	returnDate := DateOf(now)
	l.ReturnDate = &returnDate
	l.Status = LoanStatusReturned
	return nil
}

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
