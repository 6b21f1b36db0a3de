package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/biblioteca-api/internal/api/shared"
	"github.com/phrazzld/biblioteca-api/internal/platform/logger"
	"github.com/phrazzld/biblioteca-api/internal/service"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		userService: userService,
		logger:      logger.With(slog.String("component", "user_handler")),
	}
}

// RegisterUser handles POST /v1/usuarios/ requests
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleDecodeError(w, r, err)
		return
	}

	user, err := h.userService.Register(r.Context(), req.Nombre, req.Email)
	if err != nil {
		HandleAPIError(w, r, err, "No se pudo registrar el usuario")
		return
	}

	resp := userToResponse(user)
	shared.RespondWithJSON(w, r, http.StatusCreated, UserEnvelope{
		Status:  statusText(http.StatusCreated),
		Mensaje: "Usuario registrado exitosamente",
		Usuario: &resp,
	})
}

// ListUsers handles GET /v1/usuarios/ requests.
// With ?id=N it returns that single user instead of the list.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("id"); raw != "" {
		id, err := parseID(raw, "id")
		if err != nil {
			logger.FromContextOrDefault(r.Context(), h.logger).Debug("invalid user id filter",
				slog.String("value", raw))
			HandleAPIError(w, r, err, "")
			return
		}
		h.respondWithUser(w, r, id)
		return
	}

	users, err := h.userService.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "No se pudieron listar los usuarios")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UserListEnvelope{
		Status:   statusText(http.StatusOK),
		Total:    len(users),
		Usuarios: usersToResponse(users),
	})
}

// GetUser handles GET /v1/usuario/{id} requests
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := getPathInt64(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	h.respondWithUser(w, r, id)
}

func (h *UserHandler) respondWithUser(w http.ResponseWriter, r *http.Request, id int64) {
	user, err := h.userService.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "No se pudo obtener el usuario")
		return
	}

	resp := userToResponse(user)
	shared.RespondWithJSON(w, r, http.StatusOK, UserEnvelope{
		Status:  statusText(http.StatusOK),
		Mensaje: "Usuario encontrado",
		Usuario: &resp,
	})
}
