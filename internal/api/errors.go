package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/biblioteca-api/internal/api/shared"
	"github.com/phrazzld/biblioteca-api/internal/domain"
	"github.com/phrazzld/biblioteca-api/internal/service"
	"github.com/phrazzld/biblioteca-api/internal/store"
)

// Client-facing messages.
const (
	msgInternalError   = "Error interno del servidor"
	msgInvalidRequest  = "Formato de solicitud no válido"
	msgInvalidData     = "Datos de entrada no válidos"
	msgInvalidTitle    = "El nombre del libro no es válido"
	msgTitleExists     = "Ya existe un libro con ese nombre"
	msgEmailExists     = "El email ya está registrado"
	msgBookNotFound    = "Libro no encontrado"
	msgUserNotFound    = "Usuario no encontrado"
	msgLoanNotFound    = "Préstamo no encontrado"
	msgLoanMissing     = "El registro de préstamo no existe"
	msgBookLoaned      = "El libro ya está prestado"
	msgLoanNotActive   = "El préstamo ya no está activo"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrTitleExists),
		errors.Is(err, service.ErrBookAlreadyLoaned),
		errors.Is(err, service.ErrLoanAlreadyReturned):
		return http.StatusConflict

	// Bad request errors. A duplicate email is a client input problem.
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgInternalError
	}

	switch {
	case errors.Is(err, store.ErrBookNotFound):
		return msgBookNotFound
	case errors.Is(err, store.ErrUserNotFound):
		return msgUserNotFound
	case errors.Is(err, store.ErrLoanNotFound):
		return msgLoanNotFound

	case errors.Is(err, store.ErrTitleExists):
		return msgTitleExists
	case errors.Is(err, store.ErrEmailExists):
		return msgEmailExists
	case errors.Is(err, service.ErrBookAlreadyLoaned):
		return msgBookLoaned
	case errors.Is(err, service.ErrLoanAlreadyReturned):
		return msgLoanNotActive

	case errors.Is(err, domain.ErrValidation):
		return validationMessage(err)
	case errors.Is(err, store.ErrInvalidEntity):
		return msgInvalidData

	default:
		return msgInternalError
	}
}

// validationMessage describes a domain validation failure.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTitle):
		return msgInvalidTitle
	case errors.Is(err, domain.ErrInvalidAuthor):
		return fmt.Sprintf("El autor debe tener entre %d y %d caracteres",
			domain.MinAuthorLength, domain.MaxAuthorLength)
	case errors.Is(err, domain.ErrInvalidPublicationYear):
		return fmt.Sprintf("El año de publicación debe ser mayor a %d y no posterior al año actual",
			domain.MinPublicationYear)
	case errors.Is(err, domain.ErrInvalidPageCount):
		return fmt.Sprintf("El número de páginas debe ser mayor a %d", domain.MinPages-1)
	case errors.Is(err, domain.ErrInvalidBookStatus):
		return "El estado del libro debe ser 'disponible' o 'prestado'"
	case errors.Is(err, domain.ErrInvalidName):
		return fmt.Sprintf("El nombre debe tener entre %d y %d caracteres",
			domain.MinNameLength, domain.MaxNameLength)
	case errors.Is(err, domain.ErrInvalidEmail):
		return "El email no es un correo electrónico válido"
	case errors.Is(err, domain.ErrInvalidLoanStatus):
		return "El estado del préstamo debe ser 'activo' o 'devuelto'"
	case errors.Is(err, domain.ErrInvalidLoanDate):
		return "La fecha del préstamo no es válida"
	case errors.Is(err, domain.ErrInvalidID):
		return "El identificador debe ser un entero positivo"
	default:
		return msgInvalidData
	}
}

// SanitizeValidationError turns request validation failures into a message
// naming the offending field by its JSON key.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return msgInvalidData
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), getValidationTagMessage(fe)))
	}
	return "Datos no válidos: " + strings.Join(parts, "; ")
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obligatorio"
	case "oneof":
		return "debe ser uno de " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "email":
		return "formato de correo no válido"
	default:
		return "valor no válido"
	}
}

// HandleAPIError maps err to a status code and safe message, then writes and
// logs the response. fallbackMsg replaces the generic message of 5xx responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMsg != "" {
		msg = fallbackMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}

// handleDecodeError reports a body that could not be decoded or validated.
func handleDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgInvalidRequest, err)
}
