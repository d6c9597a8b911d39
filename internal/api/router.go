package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/MLGBenProple/Deckle/internal/api/handlers"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	systemHandler := handlers.NewSystemHandler(s.db)

	// Health check endpoint (no versioning)
	s.router.Get("/health", systemHandler.Health)

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/version", systemHandler.Version)

		gameHandler := handlers.NewGameHandler(s.games)
		r.Route("/games", func(r chi.Router) {
			r.Get("/today/{mode}", gameHandler.GetTodayGame)
			r.Get("/{date}/{mode}", gameHandler.GetGame)
			r.Post("/{date}/{mode}/guess", gameHandler.CheckGuess)
		})

		adminHandler := handlers.NewAdminHandler(s.generator, s.adminPasswordHash)
		r.Route("/admin", func(r chi.Router) {
			r.Post("/generate", adminHandler.Generate)
		})
	})
}
