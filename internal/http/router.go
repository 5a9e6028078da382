package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/invoicer/internal/http/extract"
	"github.com/MrJamesThe3rd/invoicer/internal/http/session"
)

func New(
	allowedOrigins []string,
	sessionsV1 *session.Handler,
	extractV1 *extract.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/sessions", sessionsV1.Routes)

		r.Route("/extract", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			extractV1.Routes(r)
		})
	})

	return router
}
