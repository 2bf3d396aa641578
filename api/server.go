/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging through the logrus logger
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/shifts/*   Shift pay
  /api/days/*     Day pay
  /api/months/*   Month options, work days, month pay
  /api/events/*   Calendar events
  /api/rates      Rate schedules

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/warp/shift-pay/logger"
)

// DefaultAllowedOrigins are the dev frontends allowed when none are configured.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger.Log, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/shifts/pay", h.CalculateShift)
		r.Post("/days/pay", h.CalculateDay)

		// Month routes
		r.Route("/months", func(r chi.Router) {
			r.Get("/options", h.ListMonthOptions)
			r.Get("/{year}/{month}/workdays", h.GetWorkDays)
			r.Post("/{year}/{month}/pay", h.CalculateMonth)
		})

		// Event routes
		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Put("/{date}", h.SaveEvents)
			r.Delete("/{date}", h.DeleteEvents)
		})

		// Rate routes
		r.Route("/rates", func(r chi.Router) {
			r.Get("/", h.ListRates)
			r.Post("/", h.CreateRates)
		})
	})

	return r
}
