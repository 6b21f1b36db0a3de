package api

import (
	"fmt"
	"strconv"
	"time"

	"github.com/phrazzld/biblioteca-api/internal/domain"
)

// dateLayout is the wire format of loan dates.
const dateLayout = "2006-01-02"

// Date is a calendar date encoded as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate wraps t, dropping its time of day.
func NewDate(t time.Time) Date {
	return Date{Time: domain.DateOf(t)}
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.Format(dateLayout))), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("date must be a string in %s format", dateLayout)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("date must use %s format: %w", dateLayout, err)
	}
	d.Time = t
	return nil
}

// CreateBookRequest is the body of POST /v1/libros/.
// Books always enter the catalog available; estado is checked but not stored.
type CreateBookRequest struct {
	Nombre          string `json:"nombre"`
	Autor           string `json:"autor"           validate:"required"`
	AnioPublicacion int    `json:"año_publicacion" validate:"required"`
	Paginas         int    `json:"paginas"         validate:"required"`
	Estado          string `json:"estado"          validate:"omitempty,oneof=disponible prestado"`
}

// BookResponse is the wire form of a book.
type BookResponse struct {
	ID              int64  `json:"id"`
	Nombre          string `json:"nombre"`
	Autor           string `json:"autor"`
	AnioPublicacion int    `json:"año_publicacion"`
	Paginas         int    `json:"paginas"`
	Estado          string `json:"estado"`
}

// BookEnvelope wraps a single book.
type BookEnvelope struct {
	Status  string        `json:"status"`
	Mensaje string        `json:"mensaje,omitempty"`
	Libro   *BookResponse `json:"libro"`
}

// BookListEnvelope wraps a list of books.
type BookListEnvelope struct {
	Status string         `json:"status"`
	Total  int            `json:"total"`
	Libros []BookResponse `json:"libros"`
}

// CreateUserRequest is the body of POST /v1/usuarios/.
type CreateUserRequest struct {
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

// UserResponse is the wire form of a user.
type UserResponse struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

// UserEnvelope wraps a single user.
type UserEnvelope struct {
	Status  string        `json:"status"`
	Mensaje string        `json:"mensaje,omitempty"`
	Usuario *UserResponse `json:"usuario"`
}

// UserListEnvelope wraps a list of users.
type UserListEnvelope struct {
	Status   string         `json:"status"`
	Total    int            `json:"total"`
	Usuarios []UserResponse `json:"usuarios"`
}

// CreateLoanRequest is the body of POST /v1/prestamos/.
// New loans are always active; estado is checked but not stored.
type CreateLoanRequest struct {
	LibroID       int64  `json:"libro_id"       validate:"required"`
	UsuarioID     int64  `json:"usuario_id"     validate:"required"`
	FechaPrestamo *Date  `json:"fecha_prestamo"`
	Estado        string `json:"estado"         validate:"omitempty,oneof=activo devuelto"`
}

// LoanResponse is the wire form of a loan.
type LoanResponse struct {
	ID              int64  `json:"id"`
	LibroID         int64  `json:"libro_id"`
	UsuarioID       int64  `json:"usuario_id"`
	FechaPrestamo   Date   `json:"fecha_prestamo"`
	FechaDevolucion *Date  `json:"fecha_devolucion"`
	Estado          string `json:"estado"`
}

// LoanEnvelope wraps a single loan.
type LoanEnvelope struct {
	Status   string        `json:"status"`
	Mensaje  string        `json:"mensaje,omitempty"`
	Prestamo *LoanResponse `json:"prestamo"`
}

// LoanListEnvelope wraps a list of loans.
type LoanListEnvelope struct {
	Status    string         `json:"status"`
	Total     int            `json:"total"`
	Prestamos []LoanResponse `json:"prestamos"`
}

// MessageResponse carries a message and nothing else.
type MessageResponse struct {
	Status  string `json:"status,omitempty"`
	Mensaje string `json:"mensaje"`
}

func statusText(code int) string {
	return strconv.Itoa(code)
}

func bookToResponse(book *domain.Book) BookResponse {
	return BookResponse{
		ID:              book.ID,
		Nombre:          book.Title,
		Autor:           book.Author,
		AnioPublicacion: book.PublicationYear,
		Paginas:         book.Pages,
		Estado:          string(book.Status),
	}
}

func booksToResponse(books []*domain.Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for _, book := range books {
		out = append(out, bookToResponse(book))
	}
	return out
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{ID: user.ID, Nombre: user.Name, Email: user.Email}
}

func usersToResponse(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, userToResponse(user))
	}
	return out
}

func loanToResponse(loan *domain.Loan) LoanResponse {
	resp := LoanResponse{
		ID:            loan.ID,
		LibroID:       loan.BookID,
		UsuarioID:     loan.UserID,
		FechaPrestamo: NewDate(loan.LoanDate),
		Estado:        string(loan.Status),
	}
	if loan.ReturnDate != nil {
		d := NewDate(*loan.ReturnDate)
		resp.FechaDevolucion = &d
	}
	return resp
}

func loansToResponse(loans []*domain.Loan) []LoanResponse {
	out := make([]LoanResponse, 0, len(loans))
	for _, loan := range loans {
		out = append(out, loanToResponse(loan))
	}
	return out
}
