package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/biblioteca-api/internal/api"
	apiMiddleware "github.com/phrazzld/biblioteca-api/internal/api/middleware"
)

// requestTimeout bounds every request, including the delayed greeting.
const requestTimeout = 60 * time.Second

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	bookHandler := api.NewBookHandler(app.bookService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	loanHandler := api.NewLoanHandler(app.loanService, app.logger)
	infoHandler := api.NewInfoHandler(app.greetingDelay(), app.logger)

	r.Get("/", infoHandler.Welcome)
	r.Get("/HolaMundo", infoHandler.Greeting)
	r.Get("/health", infoHandler.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/validaciones/", infoHandler.ValidationRules)

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

	return r
}
