// Package http provides the HTTP delivery layer of the shortener.
// It contains the router, the handlers and the request and response schemas
// used for validating input and formatting output.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vadimbarashkov/shortlink/docs"
	"github.com/vadimbarashkov/shortlink/pkg/middleware/recoverer"
)

// NewRouter initializes and returns a new Chi router configured with middleware
// and routes for the shortener API and the redirect endpoint.
func NewRouter(logger *httplog.Logger, urlUseCase urlUseCase) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.New(logger.Logger))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		w.Write(docs.SwaggerYML)
	})

	h := newURLHandler(urlUseCase, validator.New())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", handlePing)

		r.Post("/shorten", h.shortenURL)

		r.Route("/urls", func(r chi.Router) {
			r.Post("/", h.createURL)
			r.Get("/", h.listURLs)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getURL)
				r.Patch("/", h.modifyURL)
				r.Delete("/", h.deleteURL)
			})
		})
	})

	r.Get("/{code}", h.redirect)

	return r
}
