// Package model defines the core domain types for the event booking system.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
)

// DefaultCategory is present on every event.
const DefaultCategory = "General"

// TicketTier identifies one of the two inventory pools of an event.
type TicketTier string

const (
	TierFullPrice  TicketTier = "full-price"
	TierConcession TicketTier = "concession"
)

// Cents is a non-negative money amount in hundredths of the currency unit.
type Cents int64

// String renders the amount with exactly two decimal places, e.g. "60.00".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a decimal string so clients never see
// binary floating point artefacts.
func (c Cents) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts the decimal string written by MarshalJSON as well as
// a bare JSON number.
func (c *Cents) UnmarshalJSON(data []byte) error {
	lit := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if lit == "" || lit == "null" {
		*c = 0
		return nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return fmt.Errorf("invalid money amount %q", lit)
	}
	*c = Cents(math.Round(f * 100))
	return nil
}

// Event represents a bookable event created by an organiser.
type Event struct {
	ID                string      `json:"id"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	Categories        []string    `json:"categories"`
	Status            EventStatus `json:"status"`
	EventDate         *time.Time  `json:"event_date,omitempty"`
	FullPriceTickets  int         `json:"full_price_tickets"`
	FullPriceCost     Cents       `json:"full_price_cost"`
	ConcessionTickets int         `json:"concession_tickets"`
	ConcessionCost    Cents       `json:"concession_cost"`
	CreatedAt         time.Time   `json:"created_at"`
	PublishedAt       *time.Time  `json:"published_at,omitempty"`
	LastModified      time.Time   `json:"last_modified"`
}

// IsPublished reports whether attendees may see and book the event.
func (e *Event) IsPublished() bool {
	return e.Status == StatusPublished
}

// HasExtraCategory reports whether the event carries a category other than
// DefaultCategory.
func (e *Event) HasExtraCategory() bool {
	for _, c := range e.Categories {
		if c = strings.TrimSpace(c); c != "" && c != DefaultCategory {
			return true
		}
	}
	return false
}

// Booking is a persisted reservation of tickets by a named attendee.
type Booking struct {
	ID                string    `json:"id"`
	EventID           string    `json:"event_id"`
	AttendeeName      string    `json:"attendee_name"`
	FullTickets       int       `json:"full_tickets_booked"`
	ConcessionTickets int       `json:"concession_tickets_booked"`
	BookedAt          time.Time `json:"booking_date"`
}

// TotalTickets returns the number of tickets across both tiers.
func (b *Booking) TotalTickets() int {
	return b.FullTickets + b.ConcessionTickets
}

// BookingSums is the aggregate of all bookings held against one event.
type BookingSums struct {
	FullBooked       int `json:"full_booked"`
	ConcessionBooked int `json:"concession_booked"`
}

// Total returns the number of tickets booked across both tiers.
func (s BookingSums) Total() int {
	return s.FullBooked + s.ConcessionBooked
}

// Snapshot is the remaining capacity of an event at read time. It is never
// persisted.
type Snapshot struct {
	RemainingFull       int `json:"remaining_full"`
	RemainingConcession int `json:"remaining_concession"`
}

// EventWithSums pairs an event with the aggregate of its bookings.
type EventWithSums struct {
	Event Event
	Sums  BookingSums
}

// EventListing is a published event annotated with its availability.
type EventListing struct {
	Event
	Snapshot
	TotalBooked int `json:"total_booked"`
}

// EventDetail is the attendee view of a single event. Confirmation is set
// when the page is reached right after a successful booking.
type EventDetail struct {
	EventListing
	Confirmation *Confirmation `json:"confirmation,omitempty"`
}

// EventFilter narrows the published event listing.
type EventFilter struct {
	// Category matches as a case-insensitive substring. Empty or "all"
	// disables the filter.
	Category string
	// MaxFullPriceCost is an inclusive ceiling; nil means no ceiling.
	MaxFullPriceCost *Cents
}

// Confirmation carries everything needed to render a booking receipt
// without a further read.
type Confirmation struct {
	BookingID         string `json:"booking_id"`
	EventID           string `json:"event_id"`
	EventTitle        string `json:"event_title"`
	AttendeeName      string `json:"attendee_name"`
	FullTickets       int    `json:"full_tickets"`
	ConcessionTickets int    `json:"concession_tickets"`
	TotalCost         string `json:"total_cost"`
}

// FormValue is a raw, not yet coerced input value. It accepts JSON strings,
// numbers and null so that form posts and JSON clients share one path.
type FormValue string

// UnmarshalJSON keeps the literal text of numbers and strings.
func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	*v = FormValue(data)
	return nil
}

// BookingRequest is the attendee booking form.
type BookingRequest struct {
	AttendeeName      string    `json:"attendee_name"`
	FullTickets       FormValue `json:"full_tickets"`
	ConcessionTickets FormValue `json:"concession_tickets"`
}

// UpdateEventRequest is the organiser edit form.
type UpdateEventRequest struct {
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Categories        []string  `json:"categories"`
	EventDate         string    `json:"event_date"`
	FullPriceTickets  FormValue `json:"full_price_tickets"`
	FullPriceCost     FormValue `json:"full_price_cost"`
	ConcessionTickets FormValue `json:"concession_tickets"`
	ConcessionCost    FormValue `json:"concession_cost"`
}

// Dashboard groups the organiser's events by status.
type Dashboard struct {
	Published []Event `json:"published_events"`
	Drafts    []Event `json:"draft_events"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
