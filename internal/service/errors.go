package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for expected conditions of the loan lifecycle.
// Callers check them with errors.Is; the API layer maps them to status codes.
var (
	// ErrBookAlreadyLoaned indicates the book already has an active loan.
	// API layer should map this to HTTP 409 Conflict.
	ErrBookAlreadyLoaned = errors.New("book is already on loan")

	// ErrLoanAlreadyReturned indicates a return was requested for a loan that is not active.
	// API layer should map this to HTTP 409 Conflict.
	ErrLoanAlreadyReturned = errors.New("loan has already been returned")

	// ErrInconsistentState indicates that a book's status disagrees with its loans.
	// It is always reported together with the conflict it caused.
	ErrInconsistentState = errors.New("catalog state is inconsistent")
)

// ServiceError wraps unexpected failures with the service and operation that hit them.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
