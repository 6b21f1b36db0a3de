package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/biblioteca-api/internal/api/shared"
	"github.com/phrazzld/biblioteca-api/internal/domain"
)

// getPathInt64 extracts an integer id from the URL path parameters.
//
// Returns:
//   - (id, nil): The parsed id if valid
//   - (0, error): A validation error wrapping domain.ErrInvalidID if the
//     parameter is missing or not an integer
func getPathInt64(r *http.Request, paramName string) (int64, error) {
	return parseID(chi.URLParam(r, paramName), paramName)
}

func parseID(raw, field string) (int64, error) {
	if raw == "" {
		return 0, domain.NewValidationError(field, "is required", domain.ErrInvalidID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(field, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// decodeAndValidate reads a JSON body into req and validates it.
func decodeAndValidate(r *http.Request, req any) error {
	if err := shared.DecodeJSON(r, req); err != nil {
		return err
	}
	return shared.ValidateRequest(req)
}
