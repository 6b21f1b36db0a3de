package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/biblioteca-api/internal/api/shared"
	"github.com/phrazzld/biblioteca-api/internal/platform/logger"
	"github.com/phrazzld/biblioteca-api/internal/service"
	"github.com/phrazzld/biblioteca-api/internal/store"
)

// LoanHandler handles loan-related HTTP requests
type LoanHandler struct {
	loanService service.LoanService
	logger      *slog.Logger
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService service.LoanService, logger *slog.Logger) *LoanHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoanHandler{
		loanService: loanService,
		logger:      logger.With(slog.String("component", "loan_handler")),
	}
}

// CreateLoan handles POST /v1/prestamos/ requests
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req CreateLoanRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleDecodeError(w, r, err)
		return
	}

	var loanDate time.Time
	if req.FechaPrestamo != nil {
		loanDate = req.FechaPrestamo.Time
	}

	loan, err := h.loanService.Create(r.Context(), service.CreateLoanParams{
		BookID:   req.LibroID,
		UserID:   req.UsuarioID,
		LoanDate: loanDate,
	})
	if err != nil {
		HandleAPIError(w, r, err, "No se pudo registrar el préstamo")
		return
	}

	resp := loanToResponse(loan)
	shared.RespondWithJSON(w, r, http.StatusCreated, LoanEnvelope{
		Status:   statusText(http.StatusCreated),
		Mensaje:  "Préstamo registrado exitosamente",
		Prestamo: &resp,
	})
}

// ListLoans handles GET /v1/prestamos/ requests
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loanService.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "No se pudieron listar los préstamos")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoanListEnvelope{
		Status:    statusText(http.StatusOK),
		Total:     len(loans),
		Prestamos: loansToResponse(loans),
	})
}

// ReturnLoan handles PUT /v1/prestamos/{id}/devolver requests
func (h *LoanHandler) ReturnLoan(w http.ResponseWriter, r *http.Request) {
	id, err := getPathInt64(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	loan, err := h.loanService.Return(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "No se pudo devolver el libro")
		return
	}

	resp := loanToResponse(loan)
	shared.RespondWithJSON(w, r, http.StatusOK, LoanEnvelope{
		Status:   statusText(http.StatusOK),
		Mensaje:  "Libro devuelto exitosamente",
		Prestamo: &resp,
	})
}

// DeleteLoan handles DELETE /v1/prestamos/{id} requests.
// An unknown loan is a conflict here, not a 404.
func (h *LoanHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	id, err := getPathInt64(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	loan, err := h.loanService.Delete(r.Context(), id)
	if err != nil {
		if store.IsNotFoundError(err) {
			logger.FromContextOrDefault(r.Context(), h.logger).Debug("delete of unknown loan",
				slog.Int64("loan_id", id))
			shared.RespondWithErrorAndLog(w, r, http.StatusConflict, msgLoanMissing, err)
			return
		}
		HandleAPIError(w, r, err, "No se pudo eliminar el préstamo")
		return
	}

	resp := loanToResponse(loan)
	shared.RespondWithJSON(w, r, http.StatusOK, LoanEnvelope{
		Status:   statusText(http.StatusOK),
		Mensaje:  "Préstamo eliminado exitosamente",
		Prestamo: &resp,
	})
}
