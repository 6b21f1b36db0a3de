package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// User field limits.
const (
	MinNameLength = 3
	MaxNameLength = 50
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// User is a registered library member. Users are immutable once stored.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

// NewUser creates a User with the given name and email.
// Returns an error if validation fails.
func NewUser(name, email string, now time.Time) (*User, error) {
	user := &User{
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		CreatedAt: now.UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	nameLen := utf8.RuneCountInString(u.Name)
	if nameLen < MinNameLength || nameLen > MaxNameLength {
		return NewValidationError("name",
			fmt.Sprintf("must be between %d and %d characters", MinNameLength, MaxNameLength),
			ErrInvalidName)
	}

	if !ValidEmail(u.Email) {
		return NewValidationError("email", "is not a valid address", ErrInvalidEmail)
	}

	return nil
}

// ValidEmail reports whether email looks like a deliverable address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
