package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router wires the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LatencyMiddleware(s.logger))
	r.Use(middleware.Recoverer)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Get("/healthz", s.HealthHandler)
	r.Post("/decks", s.DeckHandler)
	r.Get("/runs", s.RunsHandler)

	return r
}
