package service

import (
	"context"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/eventflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockBookingLister struct {
	ListByEventFunc func(ctx context.Context, eventID string) ([]model.Booking, error)
	ListAllFunc     func(ctx context.Context) ([]model.BookingWithEvent, error)
}

func (m *MockBookingLister) ListByEvent(ctx context.Context, eventID string) ([]model.Booking, error) {
	if m.ListByEventFunc != nil {
		return m.ListByEventFunc(ctx, eventID)
	}
	return nil, nil
}

func (m *MockBookingLister) ListAll(ctx context.Context) ([]model.BookingWithEvent, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

type viewCount int64

func (v viewCount) CountForEvent(context.Context, string) (int64, error) { return int64(v), nil }

func TestReportService_EventBookings(t *testing.T) {
	event := publishedEvent()
	bookings := &MockBookingLister{
		ListByEventFunc: func(context.Context, string) ([]model.Booking, error) {
			return []model.Booking{
				{ID: "b2", EventID: eventID, FullTickets: 2, ConcessionTickets: 1},
				{ID: "b1", EventID: eventID, FullTickets: 3},
			}, nil
		},
	}
	svc := NewReportService(storeWith(event), bookings, viewCount(42))

	r, err := svc.EventBookings(context.Background(), eventID)
	require.NoError(t, err)

	require.Len(t, r.Bookings, 2)
	assert.Equal(t, "40.00", r.Bookings[0].FullCost.String())
	assert.Equal(t, "12.50", r.Bookings[0].ConcessionCost.String())
	assert.Equal(t, "52.50", r.Bookings[0].Total.String())
	assert.Equal(t, 3, r.Bookings[0].TicketCount)

	s := r.Stats
	assert.Equal(t, 2, s.TotalBookings)
	assert.Equal(t, 5, s.TotalFullTickets)
	assert.Equal(t, 1, s.TotalConcessionTickets)
	assert.Equal(t, 6, s.TotalTicketsSold)
	assert.Equal(t, "112.50", s.TotalRevenue.String())
	assert.Equal(t, 5, s.RemainingFull)
	assert.Equal(t, 4, s.RemainingConcession)
	assert.Equal(t, 15, s.TotalTicketsAvailable)
	assert.Equal(t, "40.0", s.SoldOutPercentage)
	assert.Equal(t, int64(42), s.Views)
}

func TestReportService_EventBookingsNotFound(t *testing.T) {
	svc := NewReportService(&MockEventStore{}, &MockBookingLister{}, viewCount(0))
	_, err := svc.EventBookings(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportService_AllBookings(t *testing.T) {
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	bookings := &MockBookingLister{
		ListAllFunc: func(context.Context) ([]model.BookingWithEvent, error) {
			return []model.BookingWithEvent{
				{Booking: model.Booking{ID: "b1", FullTickets: 1, ConcessionTickets: 2}, EventTitle: "A", EventDate: &date, FullPriceCost: 1000, ConcessionCost: 500},
				{Booking: model.Booking{ID: "b2", FullTickets: 3}, EventTitle: "B", FullPriceCost: 999},
			}, nil
		},
	}
	r, err := NewReportService(&MockEventStore{}, bookings, viewCount(0)).AllBookings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, r.TotalBookings)
	assert.Equal(t, "20.00", r.Bookings[0].Total.String())
	assert.Equal(t, "29.97", r.Bookings[1].Total.String())
	assert.Equal(t, "49.97", r.TotalRevenue.String())
	assert.Equal(t, 6, r.TotalTicketsSold)
}

func TestSoldOutPercentage(t *testing.T) {
	assert.Equal(t, "0.0", soldOutPercentage(0, 0))
	assert.Equal(t, "33.3", soldOutPercentage(1, 3))
	assert.Equal(t, "100.0", soldOutPercentage(10, 10))
}
