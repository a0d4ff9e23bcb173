package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/eventflow/internal/inventory"
	"github.com/Shivanand-hulikatti/eventflow/internal/model"
)

// EventSearcher reads published events for attendees.
type EventSearcher interface {
	PublishedEventReader
	SearchPublished(ctx context.Context, filter model.EventFilter) ([]model.EventWithSums, error)
}

// BookingSummer aggregates the bookings of an event.
type BookingSummer interface {
	SumForEvent(ctx context.Context, eventID string) (model.BookingSums, error)
}

// CatalogService serves the attendee listing and detail views.
type CatalogService struct {
	events   EventSearcher
	bookings BookingSummer
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(events EventSearcher, bookings BookingSummer) *CatalogService {
	return &CatalogService{events: events, bookings: bookings}
}

// ParseFilter builds an EventFilter from raw query values. An empty or
// malformed price disables the ceiling.
func ParseFilter(category, maxPrice string) model.EventFilter {
	f := model.EventFilter{Category: strings.TrimSpace(category)}
	if c, ok := inventory.ParseCents(maxPrice); ok {
		f.MaxFullPriceCost = &c
	}
	return f
}

// Search lists published events matching filter with their availability.
func (s *CatalogService) Search(ctx context.Context, filter model.EventFilter) ([]model.EventListing, error) {
	rows, err := s.events.SearchPublished(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	listings := make([]model.EventListing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, inventory.Annotate(row))
	}
	return listings, nil
}

// EventDetail returns one published event with its availability.
func (s *CatalogService) EventDetail(ctx context.Context, id string) (*model.EventDetail, error) {
	event, err := s.events.GetPublished(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	sums, err := s.bookings.SumForEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("sum bookings: %w", err)
	}
	return &model.EventDetail{
		EventListing: inventory.Annotate(model.EventWithSums{Event: *event, Sums: sums}),
	}, nil
}
