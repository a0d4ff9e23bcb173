package service

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/eventflow/internal/inventory"
	"github.com/Shivanand-hulikatti/eventflow/internal/model"
)

// BookingLister reads recorded bookings.
type BookingLister interface {
	ListByEvent(ctx context.Context, eventID string) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.BookingWithEvent, error)
}

// ViewCounter counts page views of an event.
type ViewCounter interface {
	CountForEvent(ctx context.Context, eventID string) (int64, error)
}

// ReportService builds organiser booking reports.
type ReportService struct {
	events   EventGetter
	bookings BookingLister
	views    ViewCounter
}

// NewReportService constructs a ReportService.
func NewReportService(events EventGetter, bookings BookingLister, views ViewCounter) *ReportService {
	return &ReportService{events: events, bookings: bookings, views: views}
}

// EventBookings prices every booking of one event and summarises its sales.
func (s *ReportService) EventBookings(ctx context.Context, eventID string) (*model.EventBookingReport, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if passthrough(err) {
			return nil, err
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	bookings, err := s.bookings.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	views, err := s.views.CountForEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count views: %w", err)
	}

	var (
		lines = make([]model.BookingLine, 0, len(bookings))
		stats = model.EventBookingStats{TotalBookings: len(bookings), Views: views}
		sums  model.BookingSums
	)
	for _, b := range bookings {
		line := model.BookingLine{
			Booking:        b,
			FullCost:       inventory.LineCost(b.FullTickets, event.FullPriceCost),
			ConcessionCost: inventory.LineCost(b.ConcessionTickets, event.ConcessionCost),
			TicketCount:    b.TotalTickets(),
		}
		line.Total = line.FullCost + line.ConcessionCost
		lines = append(lines, line)

		sums.FullBooked += b.FullTickets
		sums.ConcessionBooked += b.ConcessionTickets
		stats.TotalRevenue += line.Total
	}

	snap := inventory.ComputeAvailability(event, sums)
	stats.TotalFullTickets = sums.FullBooked
	stats.TotalConcessionTickets = sums.ConcessionBooked
	stats.TotalTicketsSold = sums.Total()
	stats.RemainingFull = snap.RemainingFull
	stats.RemainingConcession = snap.RemainingConcession
	stats.TotalTicketsAvailable = inventory.Capacity(event)
	stats.SoldOutPercentage = soldOutPercentage(stats.TotalTicketsSold, stats.TotalTicketsAvailable)

	return &model.EventBookingReport{Event: *event, Bookings: lines, Stats: stats}, nil
}

// AllBookings lists every booking across events, newest first.
func (s *ReportService) AllBookings(ctx context.Context) (*model.AllBookingsReport, error) {
	rows, err := s.bookings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all bookings: %w", err)
	}

	report := &model.AllBookingsReport{
		Bookings:      make([]model.AllBookingsLine, 0, len(rows)),
		TotalBookings: len(rows),
	}
	for _, row := range rows {
		line := model.AllBookingsLine{
			BookingWithEvent: row,
			Total:            inventory.TotalCost(row.FullTickets, row.FullPriceCost, row.ConcessionTickets, row.ConcessionCost),
			TicketCount:      row.TotalTickets(),
		}
		report.Bookings = append(report.Bookings, line)
		report.TotalRevenue += line.Total
		report.TotalTicketsSold += line.TicketCount
	}
	return report, nil
}

// soldOutPercentage renders sold/available to one decimal place.
func soldOutPercentage(sold, available int) string {
	if available <= 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(sold)/float64(available)*100)
}
