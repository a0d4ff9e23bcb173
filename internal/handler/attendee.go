package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/Shivanand-hulikatti/eventflow/internal/confirmation"
	"github.com/Shivanand-hulikatti/eventflow/internal/model"
	"github.com/Shivanand-hulikatti/eventflow/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AttendeeHandler serves the public event pages and bookings.
type AttendeeHandler struct {
	catalog       Catalog
	bookings      Booker
	views         ViewTracker
	confirmations confirmation.Store
	log           *zap.Logger
}

// NewAttendeeHandler constructs an AttendeeHandler. A nil store disables the
// confirmation hand-off.
func NewAttendeeHandler(catalog Catalog, bookings Booker, views ViewTracker, store confirmation.Store, log *zap.Logger) *AttendeeHandler {
	if store == nil {
		store = confirmation.NoopStore{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AttendeeHandler{catalog: catalog, bookings: bookings, views: views, confirmations: store, log: log}
}

// bookingResponse is the body of a successful booking.
type bookingResponse struct {
	*model.Confirmation
	Token string `json:"confirmation_token,omitempty"`
}

// ListEvents handles GET /events
// Supports ?category= and ?max_price= filters.
func (h *AttendeeHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	listings, err := h.catalog.Search(r.Context(), service.ParseFilter(q.Get("category"), q.Get("max_price")))
	if err != nil {
		writeServiceError(w, h.log, err, "failed to list events")
		return
	}
	if listings == nil {
		listings = []model.EventListing{}
	}
	writeJSON(w, http.StatusOK, listings)
}

// GetEvent handles GET /events/{id}
// A ?confirmation= token from a just-completed booking attaches its receipt.
func (h *AttendeeHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, err := h.catalog.EventDetail(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err, "failed to get event")
		return
	}

	if token := r.URL.Query().Get("confirmation"); token != "" {
		if conf, ok := h.confirmations.Load(r.Context(), token); ok && conf.EventID == detail.ID {
			detail.Confirmation = conf
		}
	}
	writeJSON(w, http.StatusOK, detail)
}

// SubmitBooking handles POST /events/{id}/bookings
// Accepts a JSON body or an HTML form.
func (h *AttendeeHandler) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, err := decodeBookingRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	conf, err := h.bookings.SubmitBooking(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, h.log, err, "failed to create booking")
		return
	}

	location := "/events/" + url.PathEscape(id)
	token, err := h.confirmations.Save(r.Context(), conf)
	if err != nil {
		h.log.Warn("save confirmation", zap.String("booking_id", conf.BookingID), zap.Error(err))
	} else if token != "" {
		location += "?confirmation=" + url.QueryEscape(token)
	}
	w.Header().Set("Location", location)
	writeJSON(w, http.StatusCreated, bookingResponse{Confirmation: conf, Token: token})
}

// TrackView handles POST /events/{id}/views
// Always accepted; recording is best-effort.
func (h *AttendeeHandler) TrackView(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "event id is required")
		return
	}
	h.views.TrackView(r.Context(), id)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func decodeBookingRequest(w http.ResponseWriter, r *http.Request) (model.BookingRequest, error) {
	var req model.BookingRequest
	if isForm(r) {
		if err := parseForm(w, r); err != nil {
			return req, err
		}
		req.AttendeeName = r.PostForm.Get("attendee_name")
		req.FullTickets = model.FormValue(r.PostForm.Get("full_tickets"))
		req.ConcessionTickets = model.FormValue(r.PostForm.Get("concession_tickets"))
		return req, nil
	}
	err := decodeJSON(w, r, &req)
	return req, err
}
