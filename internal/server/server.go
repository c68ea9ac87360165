// Package server is the thin HTTP surface: it maps query parameters to
// core calls and core errors to JSON bodies with stable shapes.
package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/steamseek/steamseek/internal/config"
)

// New builds the HTTP server around the given handlers.
func New(cfg config.ServerConfig, h *Handlers) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      Router(h),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// Router wires all routes. Split out from New so tests can mount the
// handlers on an httptest server.
func Router(h *Handlers) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", h.Status)
	r.Post("/refresh", h.Refresh)

	r.Route("/games", func(r chi.Router) {
		r.Get("/", h.ListGames)
		r.Get("/search", h.SearchGames)
		r.Get("/hot", h.HotGames)
		r.Get("/top", h.TopGames)
		r.Get("/{id}", h.GameByID)
		r.Get("/{id}/logos", h.GameLogos)
		r.Get("/{id}/heroes", h.GameHeroes)
	})

	return r
}
