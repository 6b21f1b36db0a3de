package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Field-specific errors below wrap it, so errors.Is(err, ErrValidation)
	// holds for every validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is zero, negative or malformed.
	ErrInvalidID = fmt.Errorf("%w: invalid ID", ErrValidation)

	// ErrInvalidTitle is returned when a book title is blank or out of range.
	ErrInvalidTitle = fmt.Errorf("%w: invalid title", ErrValidation)

	// ErrInvalidAuthor is returned when a book author is out of range.
	ErrInvalidAuthor = fmt.Errorf("%w: invalid author", ErrValidation)

	// ErrInvalidPublicationYear is returned when a publication year is before
	// MinPublicationYear or after the current year.
	ErrInvalidPublicationYear = fmt.Errorf("%w: invalid publication year", ErrValidation)

	// ErrInvalidPageCount is returned when a book has fewer than MinPages pages.
	ErrInvalidPageCount = fmt.Errorf("%w: invalid page count", ErrValidation)

	// ErrInvalidBookStatus is returned for unknown book statuses.
	ErrInvalidBookStatus = fmt.Errorf("%w: invalid book status", ErrValidation)

	// ErrInvalidName is returned when a user name is out of range.
	ErrInvalidName = fmt.Errorf("%w: invalid name", ErrValidation)

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = fmt.Errorf("%w: invalid email format", ErrValidation)

	// ErrInvalidLoanStatus is returned for unknown loan statuses.
	ErrInvalidLoanStatus = fmt.Errorf("%w: invalid loan status", ErrValidation)

	// ErrInvalidLoanDate is returned when a loan date is missing or a return
	// date precedes the loan date.
	ErrInvalidLoanDate = fmt.Errorf("%w: invalid loan date", ErrValidation)

	// ErrLoanNotActive is returned when a transition requires an active loan
	// and the loan has already been returned.
	ErrLoanNotActive = errors.New("loan is not active")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
// A nil err defaults to ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
