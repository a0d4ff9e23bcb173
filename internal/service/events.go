package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/eventflow/internal/inventory"
	"github.com/Shivanand-hulikatti/eventflow/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	draftTitle       = "New Event"
	draftDescription = "Please add a description for your event..."
)

// eventDateLayouts are tried in order when parsing an organiser-supplied date.
var eventDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// EventGetter reads events of any status.
type EventGetter interface {
	GetByID(ctx context.Context, id string) (*model.Event, error)
}

// EventStore persists organiser events.
type EventStore interface {
	EventGetter
	Create(ctx context.Context, e *model.Event) error
	Update(ctx context.Context, e *model.Event) error
	Publish(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	ListByStatus(ctx context.Context, status model.EventStatus) ([]model.Event, error)
}

// EventService orchestrates organiser event management.
type EventService struct {
	events EventStore
	log    *zap.Logger
	now    func() time.Time
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(events EventStore, log *zap.Logger) *EventService {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventService{events: events, log: log, now: time.Now}
}

// CreateDraft stores a placeholder draft for the organiser to fill in.
func (s *EventService) CreateDraft(ctx context.Context) (*model.Event, error) {
	now := s.now().UTC()
	e := &model.Event{
		ID:           uuid.NewString(),
		Title:        draftTitle,
		Description:  draftDescription,
		Categories:   []string{model.DefaultCategory},
		Status:       model.StatusDraft,
		CreatedAt:    now,
		LastModified: now,
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}
	s.log.Info("draft created", zap.String("event_id", e.ID))
	return e, nil
}

// GetEvent returns an event of any status.
func (s *EventService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// UpdateEvent validates the edit form and overwrites the event's fields.
func (s *EventService) UpdateEvent(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error) {
	e, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid(ReasonTitleRequired)
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, invalid(ReasonDescriptionRequired)
	}
	categories := NormalizeCategories(req.Categories)
	if len(categories) < 2 {
		return nil, invalid(ReasonCategoryRequired)
	}
	date, err := parseEventDate(req.EventDate)
	if err != nil {
		return nil, err
	}

	e.Title = title
	e.Description = description
	e.Categories = categories
	e.EventDate = date
	e.FullPriceTickets = inventory.NonNegative(inventory.ParseCount(string(req.FullPriceTickets)))
	e.FullPriceCost = inventory.CostOrZero(string(req.FullPriceCost))
	e.ConcessionTickets = inventory.NonNegative(inventory.ParseCount(string(req.ConcessionTickets)))
	e.ConcessionCost = inventory.CostOrZero(string(req.ConcessionCost))
	e.LastModified = s.now().UTC()

	if err := s.events.Update(ctx, e); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return e, nil
}

// PublishEvent makes an event visible to attendees once it has a title, a
// description and a category beyond General. Republishing is a no-op.
func (s *EventService) PublishEvent(ctx context.Context, id string) (*model.Event, error) {
	e, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.IsPublished() {
		return e, nil
	}
	if err := checkPublishable(e); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.events.Publish(ctx, id, now); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("publish event: %w", err)
	}
	e.Status = model.StatusPublished
	e.PublishedAt = &now
	e.LastModified = now

	s.log.Info("event published", zap.String("event_id", id))
	return e, nil
}

// DeleteEvent removes an event with its bookings and views.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.log.Info("event deleted", zap.String("event_id", id))
	return nil
}

// ListEvents returns the organiser dashboard.
func (s *EventService) ListEvents(ctx context.Context) (*model.Dashboard, error) {
	published, err := s.events.ListByStatus(ctx, model.StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("list published events: %w", err)
	}
	drafts, err := s.events.ListByStatus(ctx, model.StatusDraft)
	if err != nil {
		return nil, fmt.Errorf("list draft events: %w", err)
	}
	if published == nil {
		published = []model.Event{}
	}
	if drafts == nil {
		drafts = []model.Event{}
	}
	return &model.Dashboard{Published: published, Drafts: drafts}, nil
}

// NormalizeCategories trims, drops blanks and duplicates, and guarantees
// General comes first.
func NormalizeCategories(in []string) []string {
	out := []string{model.DefaultCategory}
	seen := map[string]bool{model.DefaultCategory: true}
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func checkPublishable(e *model.Event) error {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return invalid(ReasonTitleRequired)
	case strings.TrimSpace(e.Description) == "":
		return invalid(ReasonDescriptionRequired)
	case !e.HasExtraCategory():
		return invalid(ReasonCategoryRequired)
	}
	return nil
}

func parseEventDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, invalid(ReasonInvalidDate)
}
