package model

import "time"

// BookingLine is one booking priced against its event.
type BookingLine struct {
	Booking
	FullCost       Cents `json:"full_cost"`
	ConcessionCost Cents `json:"concession_cost"`
	Total          Cents `json:"booking_total"`
	TicketCount    int   `json:"total_tickets"`
}

// EventBookingStats summarises sales for one event.
type EventBookingStats struct {
	TotalBookings          int    `json:"total_bookings"`
	TotalFullTickets       int    `json:"total_full_tickets"`
	TotalConcessionTickets int    `json:"total_concession_tickets"`
	TotalTicketsSold       int    `json:"total_tickets_sold"`
	TotalRevenue           Cents  `json:"total_revenue"`
	RemainingFull          int    `json:"remaining_full"`
	RemainingConcession    int    `json:"remaining_concession"`
	TotalTicketsAvailable  int    `json:"total_tickets_available"`
	SoldOutPercentage      string `json:"sold_out_percentage"`
	Views                  int64  `json:"views"`
}

// EventBookingReport is the organiser view of an event's bookings.
type EventBookingReport struct {
	Event    Event             `json:"event"`
	Bookings []BookingLine     `json:"bookings"`
	Stats    EventBookingStats `json:"stats"`
}

// BookingWithEvent is a booking joined with the pricing and title of its event.
type BookingWithEvent struct {
	Booking
	EventTitle     string     `json:"event_title"`
	EventDate      *time.Time `json:"event_date,omitempty"`
	FullPriceCost  Cents      `json:"full_price_cost"`
	ConcessionCost Cents      `json:"concession_cost"`
}

// AllBookingsLine is one row of the cross-event bookings summary.
type AllBookingsLine struct {
	BookingWithEvent
	Total       Cents `json:"booking_total"`
	TicketCount int   `json:"total_tickets"`
}

// AllBookingsReport lists every booking across all events.
type AllBookingsReport struct {
	Bookings         []AllBookingsLine `json:"bookings"`
	TotalBookings    int               `json:"total_bookings"`
	TotalRevenue     Cents             `json:"total_revenue"`
	TotalTicketsSold int               `json:"total_tickets_sold"`
}
