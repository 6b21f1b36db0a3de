package api

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/biblioteca-api/internal/api/shared"
	"github.com/phrazzld/biblioteca-api/internal/domain"
	"github.com/phrazzld/biblioteca-api/internal/platform/logger"
	"github.com/phrazzld/biblioteca-api/internal/service"
	"github.com/phrazzld/biblioteca-api/internal/store"
)

// estadoTodos lists the whole catalog regardless of status.
const estadoTodos = "todos"

// BookHandler handles book-related HTTP requests
type BookHandler struct {
	bookService service.BookService
	logger      *slog.Logger
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(bookService service.BookService, logger *slog.Logger) *BookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookHandler{
		bookService: bookService,
		logger:      logger.With(slog.String("component", "book_handler")),
	}
}

// RegisterBook handles POST /v1/libros/ requests
func (h *BookHandler) RegisterBook(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleDecodeError(w, r, err)
		return
	}

	book, err := h.bookService.Register(r.Context(), service.RegisterBookParams{
		Title:           req.Nombre,
		Author:          req.Autor,
		PublicationYear: req.AnioPublicacion,
		Pages:           req.Paginas,
	})
	if err != nil {
		HandleAPIError(w, r, err, "No se pudo registrar el libro")
		return
	}

	resp := bookToResponse(book)
	shared.RespondWithJSON(w, r, http.StatusCreated, BookEnvelope{
		Status:  statusText(http.StatusCreated),
		Mensaje: "Libro registrado exitosamente",
		Libro:   &resp,
	})
}

// ListBooks handles GET /v1/libros/ requests.
// Only available books are listed unless ?estado= asks otherwise.
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	filter := store.BookFilter{Status: domain.BookStatusAvailable}
	switch estado := r.URL.Query().Get("estado"); estado {
	case "":
	case estadoTodos:
		filter.Status = ""
	default:
		filter.Status = domain.BookStatus(estado)
	}

	books, err := h.bookService.List(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "No se pudieron listar los libros")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BookListEnvelope{
		Status: statusText(http.StatusOK),
		Total:  len(books),
		Libros: booksToResponse(books),
	})
}

// GetBook handles GET /v1/libros/{nombre} requests
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	title, err := url.PathUnescape(chi.URLParam(r, "nombre"))
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("undecodable book title",
			slog.String("value", chi.URLParam(r, "nombre")))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgInvalidTitle, err)
		return
	}

	book, err := h.bookService.GetByTitle(r.Context(), title)
	if err != nil {
		HandleAPIError(w, r, err, "No se pudo obtener el libro")
		return
	}

	resp := bookToResponse(book)
	shared.RespondWithJSON(w, r, http.StatusOK, BookEnvelope{
		Status:  statusText(http.StatusOK),
		Mensaje: "Libro encontrado",
		Libro:   &resp,
	})
}
