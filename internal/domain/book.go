package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Book field limits.
const (
	MinTitleLength     = 2
	MaxTitleLength     = 100
	MinAuthorLength    = 3
	MaxAuthorLength    = 100
	MinPublicationYear = 1450
	MinPages           = 2
)

// BookStatus is the availability of a book in the catalog.
type BookStatus string

// Valid book statuses. Values are the ones exposed by the HTTP API.
const (
	BookStatusAvailable BookStatus = "disponible"
	BookStatusLoaned    BookStatus = "prestado"
)

// IsValid reports whether s is a known book status.
func (s BookStatus) IsValid() bool {
	return s == BookStatusAvailable || s == BookStatusLoaned
}

// Book is an entry in the library catalog.
// ID is zero until the book has been stored.
type Book struct {
	ID              int64
	Title           string
	Author          string
	PublicationYear int
	Pages           int
	Status          BookStatus
	CreatedAt       time.Time
}

// NewBook creates an available Book and validates it against now.
func NewBook(title, author string, publicationYear, pages int, now time.Time) (*Book, error) {
	book := &Book{
		Title:           strings.TrimSpace(title),
		Author:          strings.TrimSpace(author),
		PublicationYear: publicationYear,
		Pages:           pages,
		Status:          BookStatusAvailable,
		CreatedAt:       now.UTC(),
	}

	if err := book.Validate(now); err != nil {
		return nil, err
	}

	return book, nil
}

// Validate checks the book fields. The publication year upper bound is the
// year of now.
func (b *Book) Validate(now time.Time) error {
	titleLen := utf8.RuneCountInString(b.Title)
	if strings.TrimSpace(b.Title) == "" || titleLen < MinTitleLength || titleLen > MaxTitleLength {
		return NewValidationError("title",
			fmt.Sprintf("must be between %d and %d characters", MinTitleLength, MaxTitleLength),
			ErrInvalidTitle)
	}

	authorLen := utf8.RuneCountInString(b.Author)
	if authorLen < MinAuthorLength || authorLen > MaxAuthorLength {
		return NewValidationError("author",
			fmt.Sprintf("must be between %d and %d characters", MinAuthorLength, MaxAuthorLength),
			ErrInvalidAuthor)
	}

	if b.PublicationYear < MinPublicationYear || b.PublicationYear > now.Year() {
		return NewValidationError("publication_year",
			fmt.Sprintf("must be between %d and %d", MinPublicationYear, now.Year()),
			ErrInvalidPublicationYear)
	}

	if b.Pages < MinPages {
		return NewValidationError("pages", "must be greater than 1", ErrInvalidPageCount)
	}

	if !b.Status.IsValid() {
		return NewValidationError("status", "must be disponible or prestado", ErrInvalidBookStatus)
	}

	return nil
}

// IsAvailable reports whether the book can be lent.
func (b *Book) IsAvailable() bool {
	return b.Status == BookStatusAvailable
}

// MarkLoaned sets the book status to loaned.
func (b *Book) MarkLoaned() {
	b.Status = BookStatusLoaned
}

// MarkAvailable sets the book status back to available.
func (b *Book) MarkAvailable() {
	b.Status = BookStatusAvailable
}

// NormalizeTitle returns the key used for case-insensitive title uniqueness.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
