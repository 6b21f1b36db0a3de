package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/biblioteca-api/internal/api/shared"
	"github.com/phrazzld/biblioteca-api/internal/domain"
	"github.com/phrazzld/biblioteca-api/internal/events"
	"github.com/phrazzld/biblioteca-api/internal/mocks"
	"github.com/phrazzld/biblioteca-api/internal/platform/memory"
	"github.com/phrazzld/biblioteca-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)

// testLibrary is an HTTP front end over an in-memory catalog.
type testLibrary struct {
	handler http.Handler
	emitter *mocks.MockEventEmitter
}

func newTestLibrary(t *testing.T) *testLibrary {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := func() time.Time { return testNow }
	db := memory.NewDB(logger)
	stores := db.Stores()
	emitter := &mocks.MockEventEmitter{}

	books, err := service.NewBookService(stores.Books, clock, logger)
	require.NoError(t, err)
	users, err := service.NewUserService(stores.Users, clock, logger)
	require.NoError(t, err)
	loans, err := service.NewLoanService(db, stores.Loans, emitter, clock, logger)
	require.NoError(t, err)

	bookHandler := NewBookHandler(books, logger)
	userHandler := NewUserHandler(users, logger)
	loanHandler := NewLoanHandler(loans, logger)

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Post("/libros/", bookHandler.RegisterBook)
		r.Get("/libros/", bookHandler.ListBooks)
		r.Get("/libros/{nombre}", bookHandler.GetBook)
		r.Post("/usuarios/", userHandler.RegisterUser)
		r.Get("/usuarios/", userHandler.ListUsers)
		r.Get("/usuario/{id}", userHandler.GetUser)
		r.Post("/prestamos/", loanHandler.CreateLoan)
		r.Get("/prestamos/", loanHandler.ListLoans)
		r.Put("/prestamos/{id}/devolver", loanHandler.ReturnLoan)
		r.Delete("/prestamos/{id}", loanHandler.DeleteLoan)
	})

	return &testLibrary{handler: r, emitter: emitter}
}

func (l *testLibrary) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	l.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func assertError(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	assert.Equal(t, status, rr.Code, rr.Body.String())
	resp := decodeBody[shared.ErrorResponse](t, rr)
	assert.Equal(t, message, resp.Error)
}

const (
	duneBody = `{"nombre":"Dune","autor":"Frank Herbert","año_publicacion":1965,"paginas":412}`
	anaBody  = `{"nombre":"Ana","email":"a@x.com"}`
	loanBody = `{"libro_id":1,"usuario_id":1}`
)

func TestLoanLifecycleOverHTTP(t *testing.T) {
	lib := newTestLibrary(t)

	rr := lib.do(t, http.MethodPost, "/v1/libros/", duneBody)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	book := decodeBody[BookEnvelope](t, rr)
	assert.Equal(t, "201", book.Status)
	assert.Equal(t, "Libro registrado exitosamente", book.Mensaje)
	assert.Equal(t, int64(1), book.Libro.ID)
	assert.Equal(t, "disponible", book.Libro.Estado)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))

	rr = lib.do(t, http.MethodPost, "/v1/usuarios/", anaBody)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	user := decodeBody[UserEnvelope](t, rr)
	assert.Equal(t, int64(1), user.Usuario.ID)
	assert.Equal(t, "Usuario registrado exitosamente", user.Mensaje)

	rr = lib.do(t, http.MethodPost, "/v1/prestamos/", loanBody)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{
		"status": "201",
		"mensaje": "Préstamo registrado exitosamente",
		"prestamo": {
			"id": 1,
			"libro_id": 1,
			"usuario_id": 1,
			"fecha_prestamo": "2025-03-14",
			"fecha_devolucion": null,
			"estado": "activo"
		}
	}`, rr.Body.String())

	rr = lib.do(t, http.MethodGet, "/v1/libros/dune", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "prestado", decodeBody[BookEnvelope](t, rr).Libro.Estado)

	rr = lib.do(t, http.MethodPut, "/v1/prestamos/1/devolver", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	returned := decodeBody[LoanEnvelope](t, rr)
	assert.Equal(t, "Libro devuelto exitosamente", returned.Mensaje)
	assert.Equal(t, "devuelto", returned.Prestamo.Estado)
	require.NotNil(t, returned.Prestamo.FechaDevolucion)
	assert.Equal(t, "2025-03-14", returned.Prestamo.FechaDevolucion.Format(dateLayout))

	rr = lib.do(t, http.MethodGet, "/v1/libros/Dune", "")
	assert.Equal(t, "disponible", decodeBody[BookEnvelope](t, rr).Libro.Estado)

	rr = lib.do(t, http.MethodPut, "/v1/prestamos/1/devolver", "")
	assertError(t, rr, http.StatusConflict, "El préstamo ya no está activo")

	assert.Equal(t,
		[]string{events.LoanCreated, events.LoanReturned},
		lib.emitter.Types())
}

func TestBookHandler(t *testing.T) {
	t.Run("duplicate title ignoring case", func(t *testing.T) {
		lib := newTestLibrary(t)
		require.Equal(t, http.StatusCreated, lib.do(t, http.MethodPost, "/v1/libros/", duneBody).Code)

		rr := lib.do(t, http.MethodPost, "/v1/libros/",
			`{"nombre":"DUNE","autor":"Otro Autor","año_publicacion":1970,"paginas":300}`)
		assertError(t, rr, http.StatusConflict, "Ya existe un libro con ese nombre")
	})

	invalid := []struct {
		name    string
		body    string
		message string
	}{
		{
			name:    "blank title",
			body:    `{"nombre":"   ","autor":"Frank Herbert","año_publicacion":1965,"paginas":412}`,
			message: "El nombre del libro no es válido",
		},
		{
			name:    "year before printing",
			body:    `{"nombre":"Dune","autor":"Frank Herbert","año_publicacion":1400,"paginas":412}`,
			message: "El año de publicación debe ser mayor a 1450 y no posterior al año actual",
		},
		{
			name:    "single page",
			body:    `{"nombre":"Dune","autor":"Frank Herbert","año_publicacion":1965,"paginas":1}`,
			message: "El número de páginas debe ser mayor a 1",
		},
		{
			name:    "missing author",
			body:    `{"nombre":"Dune","año_publicacion":1965,"paginas":412}`,
			message: "Datos no válidos: autor: campo obligatorio",
		},
		{
			name:    "unknown status",
			body:    `{"nombre":"Dune","autor":"Frank Herbert","año_publicacion":1965,"paginas":412,"estado":"perdido"}`,
			message: "Datos no válidos: estado: debe ser uno de disponible, prestado",
		},
		{
			name:    "malformed json",
			body:    `{"nombre":`,
			message: "Formato de solicitud no válido",
		},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			lib := newTestLibrary(t)
			rr := lib.do(t, http.MethodPost, "/v1/libros/", tc.body)
			assertError(t, rr, http.StatusBadRequest, tc.message)
		})
	}

	t.Run("requested status is ignored on registration", func(t *testing.T) {
		lib := newTestLibrary(t)
		rr := lib.do(t, http.MethodPost, "/v1/libros/",
			`{"nombre":"Dune","autor":"Frank Herbert","año_publicacion":1965,"paginas":412,"estado":"prestado"}`)
		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "disponible", decodeBody[BookEnvelope](t, rr).Libro.Estado)
	})

	t.Run("get unknown title", func(t *testing.T) {
		lib := newTestLibrary(t)
		assertError(t, lib.do(t, http.MethodGet, "/v1/libros/Solaris", ""), http.StatusNotFound, "Libro no encontrado")
	})

	t.Run("get title with spaces", func(t *testing.T) {
		lib := newTestLibrary(t)
		require.Equal(t, http.StatusCreated, lib.do(t, http.MethodPost, "/v1/libros/",
			`{"nombre":"El Quijote","autor":"Miguel de Cervantes","año_publicacion":1605,"paginas":863}`).Code)

		rr := lib.do(t, http.MethodGet, "/v1/libros/el%20quijote", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "El Quijote", decodeBody[BookEnvelope](t, rr).Libro.Nombre)
	})
}

func TestBookHandler_ListBooks(t *testing.T) {
	lib := newTestLibrary(t)
	require.Equal(t, http.StatusCreated, lib.do(t, http.MethodPost, "/v1/libros/", duneBody).Code)
	require.Equal(t, http.StatusCreated, lib.do(t, http.MethodPost, "/v1/libros/",
		`{"nombre":"Solaris","autor":"Stanislaw Lem","año_publicacion":1961,"paginas":204}`).Code)
	require.Equal(t, http.StatusCreated, lib.do(t, http.MethodPost, "/v1/usuarios/", anaBody).Code)
	require.Equal(t, http.StatusCreated, lib.do(t, http.MethodPost, "/v1/prestamos/", loanBody).Code)

	tests := []struct {
		query  string
		titles []string
	}{
		{query: "", titles: []string{"Solaris"}},
		{query: "?estado=disponible", titles: []string{"Solaris"}},
		{query: "?estado=prestado", titles: []string{"Dune"}},
		{query: "?estado=todos", titles: []string{"Dune", "Solaris"}},
	}
	for _, tc := range tests {
		t.Run("estado"+tc.query, func(t *testing.T) {
			rr := lib.do(t, http.MethodGet, "/v1/libros/"+tc.query, "")
			require.Equal(t, http.StatusOK, rr.Code)

			list := decodeBody[BookListEnvelope](t, rr)
			assert.Equal(t, len(tc.titles), list.Total)
			titles := make([]string, 0, len(list.Libros))
			for _, b := range list.Libros {
				titles = append(titles, b.Nombre)
			}
			assert.Equal(t, tc.titles, titles)
		})
	}

	t.Run("unknown estado", func(t *testing.T) {
		rr := lib.do(t, http.MethodGet, "/v1/libros/?estado=perdido", "")
		assertError(t, rr, http.StatusBadRequest, "El estado del libro debe ser 'disponible' o 'prestado'")
	})
}

func TestUserHandler(t *testing.T) {
	lib := newTestLibrary(t)
	require.Equal(t, http.StatusCreated, lib.do(t, http.MethodPost, "/v1/usuarios/", anaBody).Code)

	t.Run("duplicate email is a bad request", func(t *testing.T) {
		rr := lib.do(t, http.MethodPost, "/v1/usuarios/", `{"nombre":"Ana Maria","email":"A@X.com"}`)
		assertError(t, rr, http.StatusBadRequest, "El email ya está registrado")
	})

	t.Run("invalid email", func(t *testing.T) {
		rr := lib.do(t, http.MethodPost, "/v1/usuarios/", `{"nombre":"Luis","email":"luis"}`)
		assertError(t, rr, http.StatusBadRequest, "El email no es un correo electrónico válido")
	})

	t.Run("short name", func(t *testing.T) {
		rr := lib.do(t, http.MethodPost, "/v1/usuarios/", `{"nombre":"Al","email":"al@x.com"}`)
		assertError(t, rr, http.StatusBadRequest, "El nombre debe tener entre 3 y 50 caracteres")
	})

	t.Run("list", func(t *testing.T) {
		rr := lib.do(t, http.MethodGet, "/v1/usuarios/", "")
		require.Equal(t, http.StatusOK, rr.Code)
		list := decodeBody[UserListEnvelope](t, rr)
		assert.Equal(t, 1, list.Total)
		assert.Equal(t, "a@x.com", list.Usuarios[0].Email)
	})

	t.Run("list filtered by id", func(t *testing.T) {
		rr := lib.do(t, http.MethodGet, "/v1/usuarios/?id=1", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Ana", decodeBody[UserEnvelope](t, rr).Usuario.Nombre)

		assertError(t, lib.do(t, http.MethodGet, "/v1/usuarios/?id=9", ""), http.StatusNotFound, "Usuario no encontrado")
		assertError(t, lib.do(t, http.MethodGet, "/v1/usuarios/?id=uno", ""),
			http.StatusBadRequest, "El identificador debe ser un entero positivo")
	})

	t.Run("get by path id", func(t *testing.T) {
		rr := lib.do(t, http.MethodGet, "/v1/usuario/1", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, int64(1), decodeBody[UserEnvelope](t, rr).Usuario.ID)

		assertError(t, lib.do(t, http.MethodGet, "/v1/usuario/2", ""), http.StatusNotFound, "Usuario no encontrado")
		assert.Equal(t, http.StatusBadRequest, lib.do(t, http.MethodGet, "/v1/usuario/abc", "").Code)
	})
}

func TestLoanHandler(t *testing.T) {
	setup := func(t *testing.T) *testLibrary {
		lib := newTestLibrary(t)
		require.Equal(t, http.StatusCreated, lib.do(t, http.MethodPost, "/v1/libros/", duneBody).Code)
		require.Equal(t, http.StatusCreated, lib.do(t, http.MethodPost, "/v1/usuarios/", anaBody).Code)
		return lib
	}

	t.Run("missing book", func(t *testing.T) {
		lib := setup(t)
		rr := lib.do(t, http.MethodPost, "/v1/prestamos/", `{"libro_id":7,"usuario_id":1}`)
		assertError(t, rr, http.StatusNotFound, "Libro no encontrado")
	})

	t.Run("missing user", func(t *testing.T) {
		lib := setup(t)
		rr := lib.do(t, http.MethodPost, "/v1/prestamos/", `{"libro_id":1,"usuario_id":7}`)
		assertError(t, rr, http.StatusNotFound, "Usuario no encontrado")
	})

	t.Run("book already loaned", func(t *testing.T) {
		lib := setup(t)
		require.Equal(t, http.StatusCreated, lib.do(t, http.MethodPost, "/v1/prestamos/", loanBody).Code)

		rr := lib.do(t, http.MethodPost, "/v1/prestamos/", loanBody)
		assertError(t, rr, http.StatusConflict, "El libro ya está prestado")

		list := decodeBody[LoanListEnvelope](t, lib.do(t, http.MethodGet, "/v1/prestamos/", ""))
		assert.Equal(t, 1, list.Total)
	})

	t.Run("explicit loan date", func(t *testing.T) {
		lib := setup(t)
		rr := lib.do(t, http.MethodPost, "/v1/prestamos/",
			`{"libro_id":1,"usuario_id":1,"fecha_prestamo":"2025-03-01"}`)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		assert.Equal(t, "2025-03-01", decodeBody[LoanEnvelope](t, rr).Prestamo.FechaPrestamo.Format(dateLayout))
	})

	t.Run("malformed loan date", func(t *testing.T) {
		lib := setup(t)
		rr := lib.do(t, http.MethodPost, "/v1/prestamos/",
			`{"libro_id":1,"usuario_id":1,"fecha_prestamo":"14/03/2025"}`)
		assertError(t, rr, http.StatusBadRequest, "Formato de solicitud no válido")
	})

	t.Run("missing ids", func(t *testing.T) {
		lib := setup(t)
		rr := lib.do(t, http.MethodPost, "/v1/prestamos/", `{"libro_id":1}`)
		assertError(t, rr, http.StatusBadRequest, "Datos no válidos: usuario_id: campo obligatorio")
	})

	t.Run("return unknown loan", func(t *testing.T) {
		lib := setup(t)
		assertError(t, lib.do(t, http.MethodPut, "/v1/prestamos/5/devolver", ""),
			http.StatusNotFound, "Préstamo no encontrado")
	})

	t.Run("delete active loan releases the book", func(t *testing.T) {
		lib := setup(t)
		require.Equal(t, http.StatusCreated, lib.do(t, http.MethodPost, "/v1/prestamos/", loanBody).Code)

		rr := lib.do(t, http.MethodDelete, "/v1/prestamos/1", "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "Préstamo eliminado exitosamente", decodeBody[LoanEnvelope](t, rr).Mensaje)

		book := decodeBody[BookEnvelope](t, lib.do(t, http.MethodGet, "/v1/libros/Dune", ""))
		assert.Equal(t, "disponible", book.Libro.Estado)

		list := decodeBody[LoanListEnvelope](t, lib.do(t, http.MethodGet, "/v1/prestamos/", ""))
		assert.Zero(t, list.Total)
		assert.Empty(t, list.Prestamos)
	})

	t.Run("delete returned loan keeps the book status", func(t *testing.T) {
		lib := setup(t)
		require.Equal(t, http.StatusCreated, lib.do(t, http.MethodPost, "/v1/prestamos/", loanBody).Code)
		require.Equal(t, http.StatusOK, lib.do(t, http.MethodPut, "/v1/prestamos/1/devolver", "").Code)
		require.Equal(t, http.StatusCreated, lib.do(t, http.MethodPost, "/v1/prestamos/", loanBody).Code)

		require.Equal(t, http.StatusOK, lib.do(t, http.MethodDelete, "/v1/prestamos/1", "").Code)

		book := decodeBody[BookEnvelope](t, lib.do(t, http.MethodGet, "/v1/libros/Dune", ""))
		assert.Equal(t, "prestado", book.Libro.Estado)
	})

	t.Run("delete unknown loan is a conflict", func(t *testing.T) {
		lib := setup(t)
		assertError(t, lib.do(t, http.MethodDelete, "/v1/prestamos/3", ""),
			http.StatusConflict, "El registro de préstamo no existe")
	})

	t.Run("non numeric id", func(t *testing.T) {
		lib := setup(t)
		assert.Equal(t, http.StatusBadRequest, lib.do(t, http.MethodPut, "/v1/prestamos/x/devolver", "").Code)
		assert.Equal(t, http.StatusBadRequest, lib.do(t, http.MethodDelete, "/v1/prestamos/x", "").Code)
	})
}

func TestLoanHandler_UnexpectedFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loans := &mocks.MockLoanStore{
		ListFn: func(ctx context.Context) ([]*domain.Loan, error) {
			return nil, errors.New("connection refused for postgres://admin:secret@db")
		},
	}
	loanService, err := service.NewLoanService(&mocks.MockTransactor{}, loans, &mocks.MockEventEmitter{}, nil, logger)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	NewLoanHandler(loanService, logger).ListLoans(rr, httptest.NewRequest(http.MethodGet, "/v1/prestamos/", nil))

	assertError(t, rr, http.StatusInternalServerError, "No se pudieron listar los préstamos")
	assert.NotContains(t, rr.Body.String(), "secret")
}
