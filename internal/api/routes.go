package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zapponejosh/countdown-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /api/v1/rules                   catalog with next/last occurrence
//	GET    /api/v1/rules/{id}              ?date=YYYY-MM-DD
//	GET    /api/v1/easter/{year}           Easter and the feasts derived from it
//	GET    /api/v1/dst                     ?tz=Area/City resolves a region
//	GET    /api/v1/dst/{region}            ?date=
//	GET    /api/v1/countdown               ?to=YYYY-MM-DD&from=
//	GET    /api/v1/calendar.ics            ?years=N
//	GET    /api/v1/events
//	POST   /api/v1/events                  (API key)
//	GET    /api/v1/events/{id}
//	DELETE /api/v1/events/{id}             (API key)
//	GET    /api/v1/events/{id}/status      ?date=&lang=
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	authWrap := AuthMiddleware(cfg, logger)

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/rules", handlers.ListRules)
		r.Get("/rules/{id}", handlers.GetRule)
		r.Get("/easter/{year}", handlers.GetEaster)
		r.Get("/dst", handlers.GetDSTForTimezone)
		r.Get("/dst/{region}", handlers.GetDST)
		r.Get("/countdown", handlers.GetCountdown)
		r.Get("/calendar.ics", handlers.GetCalendarFeed)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", handlers.ListEvents)
			r.With(authWrap).Post("/", handlers.CreateEvent)
			r.Get("/{id}", handlers.GetEvent)
			r.With(authWrap).Delete("/{id}", handlers.DeleteEvent)
			r.Get("/{id}/status", handlers.GetEventStatus)
		})
	})

	return r
}
