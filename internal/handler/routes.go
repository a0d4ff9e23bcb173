package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/eventflow/internal/telemetry"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Attendee  *AttendeeHandler
	Organiser *OrganiserHandler
	Health    *HealthHandler
}

// NewRouter builds the chi router with the global middleware stack.
func NewRouter(h Handlers, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(telemetry.Middleware)
	r.Use(Logger(log))
	r.Use(CORS)

	r.Get("/health", h.Health.Health)

	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.Attendee.ListEvents)
		r.Get("/{id}", h.Attendee.GetEvent)
		r.Post("/{id}/bookings", h.Attendee.SubmitBooking)
		r.Post("/{id}/views", h.Attendee.TrackView)
	})

	r.Route("/organiser", func(r chi.Router) {
		r.Get("/events", h.Organiser.Dashboard)
		r.Post("/events", h.Organiser.CreateDraft)
		r.Get("/events/{id}", h.Organiser.GetEvent)
		r.Put("/events/{id}", h.Organiser.UpdateEvent)
		r.Delete("/events/{id}", h.Organiser.DeleteEvent)
		r.Post("/events/{id}/publish", h.Organiser.PublishEvent)
		r.Get("/events/{id}/bookings", h.Organiser.EventBookings)
		r.Get("/bookings", h.Organiser.AllBookings)
	})

	return r
}
