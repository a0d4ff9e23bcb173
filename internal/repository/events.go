package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/eventflow/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event. The caller assigns the id and timestamps.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO events (id, title, description, categories, status, event_date,
		                     full_price_tickets, full_price_cost, concession_tickets, concession_cost,
		                     created_at, last_modified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric / 100, $9, $10::numeric / 100, $11, $12)`,
		e.ID, e.Title, e.Description, e.Categories, string(e.Status), e.EventDate,
		e.FullPriceTickets, int64(e.FullPriceCost), e.ConcessionTickets, int64(e.ConcessionCost),
		e.CreatedAt, e.LastModified,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetByID returns a single event of any status or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return r.get(ctx, id, false)
}

// GetPublished returns a published event or ErrNotFound. Drafts are
// indistinguishable from missing events.
func (r *EventRepository) GetPublished(ctx context.Context, id string) (*model.Event, error) {
	return r.get(ctx, id, true)
}

func (r *EventRepository) get(ctx context.Context, id string, publishedOnly bool) (*model.Event, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1`
	if publishedOnly {
		query += ` AND e.status = 'published'`
	}

	e, err := scanEvent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// Update overwrites the editable fields of an event.
func (r *EventRepository) Update(ctx context.Context, e *model.Event) error {
	if !validID(e.ID) {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE events SET
		     title = $2, description = $3, categories = $4, event_date = $5,
		     full_price_tickets = $6, full_price_cost = $7::numeric / 100,
		     concession_tickets = $8, concession_cost = $9::numeric / 100,
		     last_modified = $10
		 WHERE id = $1`,
		e.ID, e.Title, e.Description, e.Categories, e.EventDate,
		e.FullPriceTickets, int64(e.FullPriceCost),
		e.ConcessionTickets, int64(e.ConcessionCost),
		e.LastModified,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Publish moves an event to published. A republish keeps the original
// published_at.
func (r *EventRepository) Publish(ctx context.Context, id string, at time.Time) error {
	if !validID(id) {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE events
		 SET status = 'published', published_at = COALESCE(published_at, $2), last_modified = $2
		 WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an event together with its bookings and view records in a
// single transaction.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM bookings WHERE event_id = $1`, id); err != nil {
			return fmt.Errorf("delete bookings: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM event_views WHERE event_id = $1`, id); err != nil {
			return fmt.Errorf("delete event views: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListByStatus returns events of one status. Published events are ordered
// by event date (undated last), drafts by creation time descending.
func (r *EventRepository) ListByStatus(ctx context.Context, status model.EventStatus) ([]model.Event, error) {
	order := `e.created_at DESC`
	if status == model.StatusPublished {
		order = `e.event_date ASC NULLS LAST, e.created_at ASC`
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+` FROM events e WHERE e.status = $1 ORDER BY `+order,
		string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// SearchPublished returns published events matching filter together with the
// aggregate of their bookings, ordered by event date ascending.
func (r *EventRepository) SearchPublished(ctx context.Context, filter model.EventFilter) ([]model.EventWithSums, error) {
	var (
		where = []string{`e.status = 'published'`}
		args  []any
	)
	if c := strings.TrimSpace(filter.Category); c != "" && !strings.EqualFold(c, "all") {
		args = append(args, "%"+c+"%")
		where = append(where, fmt.Sprintf(`array_to_string(e.categories, ',') ILIKE $%d`, len(args)))
	}
	if filter.MaxFullPriceCost != nil {
		args = append(args, int64(*filter.MaxFullPriceCost))
		where = append(where, fmt.Sprintf(`COALESCE(e.full_price_cost, 0) * 100 <= $%d`, len(args)))
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+`,
		        COALESCE(SUM(b.full_tickets_booked), 0),
		        COALESCE(SUM(b.concession_tickets_booked), 0)
		 FROM events e
		 LEFT JOIN bookings b ON b.event_id = e.id
		 WHERE `+strings.Join(where, " AND ")+`
		 GROUP BY e.id
		 ORDER BY e.event_date ASC NULLS LAST, e.created_at ASC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	defer rows.Close()

	var out []model.EventWithSums
	for rows.Next() {
		var (
			row              eventRow
			full, concession int64
		)
		if err := rows.Scan(append(row.dest(), &full, &concession)...); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, model.EventWithSums{
			Event: row.event(),
			Sums:  sums(&full, &concession),
		})
	}
	return out, rows.Err()
}
