package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/eventflow/internal/model"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrganiserHandler serves event management and booking reports. Access
// control is applied in front of these routes.
type OrganiserHandler struct {
	events  EventManager
	reports Reporter
	log     *zap.Logger
}

// NewOrganiserHandler constructs an OrganiserHandler.
func NewOrganiserHandler(events EventManager, reports Reporter, log *zap.Logger) *OrganiserHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrganiserHandler{events: events, reports: reports, log: log}
}

// Dashboard handles GET /organiser/events
func (h *OrganiserHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.events.ListEvents(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "failed to list events")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// CreateDraft handles POST /organiser/events
func (h *OrganiserHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	e, err := h.events.CreateDraft(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "failed to create event")
		return
	}
	w.Header().Set("Location", "/organiser/events/"+e.ID)
	writeJSON(w, http.StatusCreated, e)
}

// GetEvent handles GET /organiser/events/{id}
func (h *OrganiserHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := h.events.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "failed to get event")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// UpdateEvent handles PUT /organiser/events/{id}
func (h *OrganiserHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	req, err := decodeUpdateRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	e, err := h.events.UpdateEvent(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, h.log, err, "failed to update event")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// PublishEvent handles POST /organiser/events/{id}/publish
func (h *OrganiserHandler) PublishEvent(w http.ResponseWriter, r *http.Request) {
	e, err := h.events.PublishEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "failed to publish event")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteEvent handles DELETE /organiser/events/{id}
func (h *OrganiserHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.events.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err, "failed to delete event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EventBookings handles GET /organiser/events/{id}/bookings
func (h *OrganiserHandler) EventBookings(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.EventBookings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "failed to list bookings")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// AllBookings handles GET /organiser/bookings
func (h *OrganiserHandler) AllBookings(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.AllBookings(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "failed to list bookings")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func decodeUpdateRequest(w http.ResponseWriter, r *http.Request) (model.UpdateEventRequest, error) {
	var req model.UpdateEventRequest
	if !isForm(r) {
		err := decodeJSON(w, r, &req)
		return req, err
	}
	if err := parseForm(w, r); err != nil {
		return req, err
	}
	f := r.PostForm
	req.Title = f.Get("title")
	req.Description = f.Get("description")
	req.Categories = f["categories"]
	req.EventDate = f.Get("event_date")
	req.FullPriceTickets = model.FormValue(f.Get("full_price_tickets"))
	req.FullPriceCost = model.FormValue(f.Get("full_price_cost"))
	req.ConcessionTickets = model.FormValue(f.Get("concession_tickets"))
	req.ConcessionCost = model.FormValue(f.Get("concession_cost"))
	return req, nil
}
