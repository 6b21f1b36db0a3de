package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/biblioteca-api/internal/api/shared"
	"github.com/phrazzld/biblioteca-api/internal/domain"
	"github.com/phrazzld/biblioteca-api/internal/platform/logger"
)

// WelcomeResponse is the body of GET /.
type WelcomeResponse struct {
	Mensaje       string `json:"mensaje"`
	Documentacion string `json:"documentacion"`
}

// ValidationRulesResponse is the body of GET /v1/validaciones/.
type ValidationRulesResponse struct {
	Mensaje      string                       `json:"mensaje"`
	Validaciones map[string]map[string]string `json:"validaciones"`
}

// GreetingResponse is the body of GET /HolaMundo.
type GreetingResponse struct {
	Mensaje string `json:"mensaje"`
	Estatus string `json:"estatus"`
}

// InfoHandler serves the informational endpoints.
type InfoHandler struct {
	greetingDelay time.Duration
	logger        *slog.Logger
}

// NewInfoHandler creates a new InfoHandler. greetingDelay is how long
// /HolaMundo waits before answering.
func NewInfoHandler(greetingDelay time.Duration, logger *slog.Logger) *InfoHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &InfoHandler{
		greetingDelay: greetingDelay,
		logger:        logger.With(slog.String("component", "info_handler")),
	}
}

// Welcome handles GET / requests
func (h *InfoHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, WelcomeResponse{
		Mensaje:       "¡Bienvenido a la API de Biblioteca Digital!",
		Documentacion: "/v1/validaciones/",
	})
}

// ValidationRules handles GET /v1/validaciones/ requests
func (h *InfoHandler) ValidationRules(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, ValidationRulesResponse{
		Mensaje: "Validaciones implementadas en la API",
		Validaciones: map[string]map[string]string{
			"libros": {
				"nombre": fmt.Sprintf("Longitud entre %d y %d caracteres",
					domain.MinTitleLength, domain.MaxTitleLength),
				"autor": fmt.Sprintf("Longitud entre %d y %d caracteres",
					domain.MinAuthorLength, domain.MaxAuthorLength),
				"año_publicacion": fmt.Sprintf("Mayor a %d y menor o igual al año actual",
					domain.MinPublicationYear),
				"paginas": fmt.Sprintf("Número entero positivo mayor a %d", domain.MinPages-1),
				"estado": fmt.Sprintf("Solo '%s' o '%s'",
					domain.BookStatusAvailable, domain.BookStatusLoaned),
			},
			"usuarios": {
				"nombre": fmt.Sprintf("Longitud entre %d y %d caracteres",
					domain.MinNameLength, domain.MaxNameLength),
				"email": "Debe ser un correo electrónico válido",
			},
			"prestamos": {
				"estado": fmt.Sprintf("Solo '%s' o '%s'",
					domain.LoanStatusActive, domain.LoanStatusReturned),
			},
		},
	})
}

// Greeting handles GET /HolaMundo requests. It answers after the configured
// delay, or not at all if the client goes away first.
func (h *InfoHandler) Greeting(w http.ResponseWriter, r *http.Request) {
	timer := time.NewTimer(h.greetingDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-r.Context().Done():
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("greeting abandoned",
			slog.String("reason", r.Context().Err().Error()))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GreetingResponse{
		Mensaje: "¡Hola Mundo!",
		Estatus: statusText(http.StatusOK),
	})
}

// Health handles GET /health requests
func (h *InfoHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Error("failed to write health response",
			slog.String("error", err.Error()))
	}
}
