// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/Shivanand-hulikatti/eventflow/internal/model"
	"github.com/Shivanand-hulikatti/eventflow/internal/service"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Catalog serves attendee listings.
type Catalog interface {
	Search(ctx context.Context, filter model.EventFilter) ([]model.EventListing, error)
	EventDetail(ctx context.Context, id string) (*model.EventDetail, error)
}

// Booker submits attendee bookings.
type Booker interface {
	SubmitBooking(ctx context.Context, eventID string, req model.BookingRequest) (*model.Confirmation, error)
}

// ViewTracker records page views.
type ViewTracker interface {
	TrackView(ctx context.Context, eventID string)
}

// EventManager is the organiser event surface.
type EventManager interface {
	CreateDraft(ctx context.Context) (*model.Event, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	UpdateEvent(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error)
	PublishEvent(ctx context.Context, id string) (*model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context) (*model.Dashboard, error)
}

// Reporter builds organiser booking reports.
type Reporter interface {
	EventBookings(ctx context.Context, eventID string) (*model.EventBookingReport, error)
	AllBookings(ctx context.Context) (*model.AllBookingsReport, error)
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// isForm reports whether the request carries an HTML form body.
func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return r.ParseMultipartForm(maxBodyBytes)
	}
	return r.ParseForm()
}

// writeServiceError maps a service error onto a status code. Unexpected
// errors are logged and hidden behind msg.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "event not found")
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInsufficient):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Error(msg, zap.Error(err))
		writeError(w, http.StatusInternalServerError, msg)
	}
}
