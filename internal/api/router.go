/**
 * @description
 * This file sets up the HTTP router for the cancellation-service using the
 * go-chi/chi router. It defines the webhook and informational routes and
 * applies middleware for logging, panic recovery, timeouts, and CORS.
 */
package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new Chi router and registers the cancellation-service routes.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Setup middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	r.Get("/", h.handleIndex)
	r.Get("/health", h.handleHealth)

	r.Post("/webhook/cancel-subscription", h.handleCancelSubscription)
	r.Post("/webhook/cancel-crm-subscription", h.handleCancelCRMSubscription)

	return r
}
