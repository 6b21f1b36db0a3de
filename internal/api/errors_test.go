package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/biblioteca-api/internal/api/shared"
	"github.com/phrazzld/biblioteca-api/internal/domain"
	"github.com/phrazzld/biblioteca-api/internal/service"
	"github.com/phrazzld/biblioteca-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"book not found", store.ErrBookNotFound, http.StatusNotFound},
		{"wrapped loan not found", fmt.Errorf("return: %w", store.ErrLoanNotFound), http.StatusNotFound},
		{"duplicate title", store.ErrTitleExists, http.StatusConflict},
		{"duplicate email", store.ErrEmailExists, http.StatusBadRequest},
		{"book already loaned", service.ErrBookAlreadyLoaned, http.StatusConflict},
		{
			"inconsistent catalog",
			fmt.Errorf("%w: %w", service.ErrBookAlreadyLoaned, service.ErrInconsistentState),
			http.StatusConflict,
		},
		{"loan already returned", service.ErrLoanAlreadyReturned, http.StatusConflict},
		{"validation", domain.NewValidationError("title", "is blank", domain.ErrInvalidTitle), http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{
			"service error",
			service.NewServiceError("loan", "list", "unexpected failure", errors.New("boom")),
			http.StatusInternalServerError,
		},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "Error interno del servidor"},
		{"book not found", store.ErrBookNotFound, "Libro no encontrado"},
		{"user not found", store.ErrUserNotFound, "Usuario no encontrado"},
		{"loan not found", store.ErrLoanNotFound, "Préstamo no encontrado"},
		{"duplicate title", store.ErrTitleExists, "Ya existe un libro con ese nombre"},
		{"duplicate email", store.ErrEmailExists, "El email ya está registrado"},
		{"book already loaned", service.ErrBookAlreadyLoaned, "El libro ya está prestado"},
		{"loan already returned", service.ErrLoanAlreadyReturned, "El préstamo ya no está activo"},
		{
			"invalid title",
			domain.NewValidationError("title", "is blank", domain.ErrInvalidTitle),
			"El nombre del libro no es válido",
		},
		{
			"invalid author",
			domain.NewValidationError("author", "too short", domain.ErrInvalidAuthor),
			"El autor debe tener entre 3 y 100 caracteres",
		},
		{"bare validation", domain.ErrValidation, "Datos de entrada no válidos"},
		{
			"internal details stay hidden",
			service.NewServiceError("book", "list", "query failed", errors.New("pq: relation books does not exist")),
			"Error interno del servidor",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	type request struct {
		LibroID int64  `json:"libro_id" validate:"required"`
		Estado  string `json:"estado"   validate:"omitempty,oneof=activo devuelto"`
	}

	err := shared.ValidateRequest(request{Estado: "perdido"})
	require.Error(t, err)
	assert.Equal(t,
		"Datos no válidos: libro_id: campo obligatorio; estado: debe ser uno de activo, devuelto",
		SanitizeValidationError(err))

	assert.Equal(t, "Datos de entrada no válidos", SanitizeValidationError(errors.New("Field validation")))
}
