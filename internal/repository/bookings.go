package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/eventflow/internal/inventory"
	"github.com/Shivanand-hulikatti/eventflow/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sumBookingsQuery = `SELECT COALESCE(SUM(full_tickets_booked), 0),
	       COALESCE(SUM(concession_tickets_booked), 0)
	FROM bookings WHERE event_id = $1`

// BookingRepository handles persistence for bookings.
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// BookingTx is the store as seen from inside a locked booking transaction.
// Reads observe every booking committed before the lock was granted; no
// other booking for the same event can commit until the transaction ends.
type BookingTx interface {
	// Event returns the locked, published event.
	Event() *model.Event
	// SumBookings aggregates the bookings of the locked event.
	SumBookings(ctx context.Context) (model.BookingSums, error)
	// Insert writes a booking for the locked event.
	Insert(ctx context.Context, b *model.Booking) error
}

// WithLockedEvent runs fn inside a transaction holding a row lock on a
// published event, and commits only if fn returns nil.
//
// ─────────────────────────────────────────────────────────────────────────────
// WHY THE LOCK
// ─────────────────────────────────────────────────────────────────────────────
//
// Availability is derived, not stored: remaining = capacity − SUM(bookings).
// Checking it and inserting a booking are two statements, so without
// coordination two requests can both read the same SUM and both insert:
//
//	A: SUM(full) = 4   (capacity 10, wants 6)  → OK
//	B: SUM(full) = 4   (capacity 10, wants 6)  → OK
//	A: INSERT 6, B: INSERT 6                    → 16 sold of 10. OVERSOLD.
//
// SELECT … FOR UPDATE on the event row serialises every booking of that
// event: B blocks on the lock until A commits, then re-reads SUM = 10 and is
// rejected. Bookings for different events lock different rows and proceed in
// parallel.
//
// ─────────────────────────────────────────────────────────────────────────────
func (r *BookingRepository) WithLockedEvent(ctx context.Context, eventID string, fn func(ctx context.Context, tx BookingTx) error) error {
	if !validID(eventID) {
		return ErrNotFound
	}
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		e, err := scanEvent(tx.QueryRow(ctx,
			`SELECT `+eventColumns+`
			 FROM events e
			 WHERE e.id = $1 AND e.status = 'published'
			 FOR UPDATE`,
			eventID,
		))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("lock event row: %w", err)
		}
		return fn(ctx, &lockedEvent{tx: tx, event: e})
	})
}

type lockedEvent struct {
	tx    pgx.Tx
	event *model.Event
}

func (l *lockedEvent) Event() *model.Event { return l.event }

func (l *lockedEvent) SumBookings(ctx context.Context) (model.BookingSums, error) {
	return sumFor(ctx, l.tx, l.event.ID)
}

func (l *lockedEvent) Insert(ctx context.Context, b *model.Booking) error {
	if b.EventID != l.event.ID {
		return fmt.Errorf("insert booking: event %s is not locked", b.EventID)
	}
	return insertBooking(ctx, l.tx, b)
}

// SumForEvent aggregates all bookings of an event. An event without
// bookings sums to zero.
func (r *BookingRepository) SumForEvent(ctx context.Context, eventID string) (model.BookingSums, error) {
	if !validID(eventID) {
		return model.BookingSums{}, nil
	}
	return sumFor(ctx, r.db, eventID)
}

// Insert writes a booking outside of any lock. Capacity is not checked; use
// WithLockedEvent for attendee bookings.
func (r *BookingRepository) Insert(ctx context.Context, b *model.Booking) error {
	return insertBooking(ctx, r.db, b)
}

// ListByEvent returns all bookings for an event, newest first.
func (r *BookingRepository) ListByEvent(ctx context.Context, eventID string) ([]model.Booking, error) {
	if !validID(eventID) {
		return nil, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, attendee_name, full_tickets_booked, concession_tickets_booked, booking_date
		 FROM bookings
		 WHERE event_id = $1
		 ORDER BY booking_date DESC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var (
			b          model.Booking
			full, conc *int64
		)
		if err := rows.Scan(&b.ID, &b.EventID, &b.AttendeeName, &full, &conc, &b.BookedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		b.FullTickets = inventory.CountOrZero(full)
		b.ConcessionTickets = inventory.CountOrZero(conc)
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// ListAll returns every booking joined with its event, newest first.
func (r *BookingRepository) ListAll(ctx context.Context) ([]model.BookingWithEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT b.id, b.event_id, b.attendee_name, b.full_tickets_booked, b.concession_tickets_booked,
		        b.booking_date, e.title, e.event_date,
		        (e.full_price_cost * 100)::BIGINT, (e.concession_cost * 100)::BIGINT
		 FROM bookings b
		 JOIN events e ON e.id = b.event_id
		 ORDER BY b.booking_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list all bookings: %w", err)
	}
	defer rows.Close()

	var out []model.BookingWithEvent
	for rows.Next() {
		var (
			bw                   model.BookingWithEvent
			full, conc           *int64
			fullCost, concession *int64
		)
		if err := rows.Scan(
			&bw.ID, &bw.EventID, &bw.AttendeeName, &full, &conc,
			&bw.BookedAt, &bw.EventTitle, &bw.EventDate, &fullCost, &concession,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bw.FullTickets = inventory.CountOrZero(full)
		bw.ConcessionTickets = inventory.CountOrZero(conc)
		bw.FullPriceCost = inventory.CentsOrZero(fullCost)
		bw.ConcessionCost = inventory.CentsOrZero(concession)
		out = append(out, bw)
	}
	return out, rows.Err()
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func sumFor(ctx context.Context, q querier, eventID string) (model.BookingSums, error) {
	var full, concession int64
	if err := q.QueryRow(ctx, sumBookingsQuery, eventID).Scan(&full, &concession); err != nil {
		return model.BookingSums{}, fmt.Errorf("sum bookings: %w", err)
	}
	return sums(&full, &concession), nil
}

func sums(full, concession *int64) model.BookingSums {
	return model.BookingSums{
		FullBooked:       inventory.CountOrZero(full),
		ConcessionBooked: inventory.CountOrZero(concession),
	}
}

func insertBooking(ctx context.Context, db execer, b *model.Booking) error {
	_, err := db.Exec(ctx,
		`INSERT INTO bookings (id, event_id, attendee_name, full_tickets_booked, concession_tickets_booked, booking_date)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.EventID, b.AttendeeName, b.FullTickets, b.ConcessionTickets, b.BookedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}
