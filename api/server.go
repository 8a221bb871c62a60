/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:       Request logging
  2. Recoverer:    Panic recovery (500 instead of crash)
  3. RequestID:    Unique ID per request for tracing
  4. Authenticate: Resolves the session token into a principal

ROUTE GROUPS:
  /api/matrix/*   Client-list lifecycle (CORS-enabled)
  /api/trips      Trip submission and report
  /api/ping       Connectivity check
  /               Trip form page
  /clients        Client-list editing grid
  /trips          All-trips report page
  /admin          Administrative area (redirects restricted roles)

SEE ALSO:
  - handlers.go: Operation handler implementations
  - pages.go: Server-rendered surfaces
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.Authenticate)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
		}))

		// Client-list routes
		r.Route("/matrix", func(r chi.Router) {
			r.Get("/", h.ListActiveRows)
			r.Post("/", h.CreateMatrixRow)
			r.Get("/selectable", h.ListSelectableRows)
			r.Post("/{id}/rate", h.UpdateMatrixRate)
			r.Post("/{id}/delete", h.DeleteMatrixRow)
		})

		// Trip routes
		r.Route("/trips", func(r chi.Router) {
			r.Get("/", h.ListTrips)
			r.Post("/", h.SubmitTrip)
		})

		r.Get("/ping", h.Ping)
	})

	// Page routes
	r.Get("/", h.TripFormPage)
	r.Get("/clients", h.ClientListPage)
	r.Get("/trips", h.TripsReportPage)
	r.Get("/admin", h.AdminAreaPage)

	return r
}
