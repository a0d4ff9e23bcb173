package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/eventflow/internal/inventory"
	"github.com/Shivanand-hulikatti/eventflow/internal/model"
	"github.com/Shivanand-hulikatti/eventflow/internal/publisher"
	"github.com/Shivanand-hulikatti/eventflow/internal/repository"
	"github.com/Shivanand-hulikatti/eventflow/internal/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// PublishedEventReader reads attendee-visible events.
type PublishedEventReader interface {
	GetPublished(ctx context.Context, id string) (*model.Event, error)
}

// BookingLocker runs a booking attempt while holding the event's lock.
type BookingLocker interface {
	WithLockedEvent(ctx context.Context, eventID string, fn func(ctx context.Context, tx repository.BookingTx) error) error
}

// BookingService validates and records attendee bookings.
type BookingService struct {
	events    PublishedEventReader
	bookings  BookingLocker
	publisher publisher.Publisher
	log       *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewBookingService constructs a BookingService. A nil publisher disables
// notifications.
func NewBookingService(events PublishedEventReader, bookings BookingLocker, pub publisher.Publisher, log *zap.Logger) *BookingService {
	if pub == nil {
		pub = publisher.NoopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingService{
		events:    events,
		bookings:  bookings,
		publisher: pub,
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// SubmitBooking books tickets for a published event. Every rejection happens
// before anything is written; on success exactly one booking row exists.
func (s *BookingService) SubmitBooking(ctx context.Context, eventID string, req model.BookingRequest) (*model.Confirmation, error) {
	ctx, span := telemetry.StartSpan(ctx, "BookingService.SubmitBooking",
		trace.WithAttributes(attribute.String("event.id", eventID)))
	defer span.End()

	if _, err := s.events.GetPublished(ctx, eventID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("get event: %w", err)
	}

	name := strings.TrimSpace(req.AttendeeName)
	if name == "" {
		return nil, invalid(ReasonNameRequired)
	}

	full := inventory.ParseCount(string(req.FullTickets))
	concession := inventory.ParseCount(string(req.ConcessionTickets))
	if full <= 0 && concession <= 0 {
		return nil, invalid(ReasonNoTickets)
	}
	if full < 0 || concession < 0 {
		return nil, invalid(ReasonNegativeQuantity)
	}
	span.SetAttributes(
		attribute.Int("booking.full_tickets", full),
		attribute.Int("booking.concession_tickets", concession),
	)

	var (
		booking *model.Booking
		event   *model.Event
	)
	err := s.bookings.WithLockedEvent(ctx, eventID, func(ctx context.Context, tx repository.BookingTx) error {
		locked := tx.Event()
		sums, err := tx.SumBookings(ctx)
		if err != nil {
			return err
		}

		snap := inventory.ComputeAvailability(locked, sums)
		if full > snap.RemainingFull {
			return &InsufficientError{Tier: model.TierFullPrice, Requested: full, Remaining: snap.RemainingFull}
		}
		if concession > snap.RemainingConcession {
			return &InsufficientError{Tier: model.TierConcession, Requested: concession, Remaining: snap.RemainingConcession}
		}

		b := &model.Booking{
			ID:                s.newID(),
			EventID:           locked.ID,
			AttendeeName:      name,
			FullTickets:       full,
			ConcessionTickets: concession,
			BookedAt:          s.now().UTC(),
		}
		if err := tx.Insert(ctx, b); err != nil {
			return err
		}
		booking, event = b, locked
		return nil
	})
	if err != nil {
		if passthrough(err) {
			s.log.Info("booking rejected", zap.String("event_id", eventID), zap.Error(err))
			return nil, err
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("submit booking: %w", err)
	}

	total := inventory.TotalCost(full, event.FullPriceCost, concession, event.ConcessionCost)
	s.log.Info("booking created",
		zap.String("event_id", event.ID),
		zap.String("booking_id", booking.ID),
		zap.Int("full_tickets", full),
		zap.Int("concession_tickets", concession),
		zap.Stringer("total_cost", total),
	)

	// The booking is committed; a lost notification must not undo it.
	if err := s.publisher.PublishBookingCreated(ctx, booking, total); err != nil {
		s.log.Warn("publish booking created", zap.String("booking_id", booking.ID), zap.Error(err))
	}

	return &model.Confirmation{
		BookingID:         booking.ID,
		EventID:           event.ID,
		EventTitle:        event.Title,
		AttendeeName:      name,
		FullTickets:       full,
		ConcessionTickets: concession,
		TotalCost:         total.String(),
	}, nil
}
