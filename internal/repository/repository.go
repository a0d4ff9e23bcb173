// Package repository implements all database queries for the event booking system.
// It uses pgx directly (no ORM) for transparency and performance.
//
// Rows are converted to typed model records here and nowhere else: nullable
// or malformed stored numbers are coerced once, through the inventory
// helpers, as they are scanned.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/eventflow/internal/inventory"
	"github.com/Shivanand-hulikatti/eventflow/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// eventColumns is the canonical projection of an events row aliased as e.
// Costs are read as whole cents.
const eventColumns = `e.id, e.title, e.description, e.categories, e.status, e.event_date,
	e.full_price_tickets, (e.full_price_cost * 100)::BIGINT,
	e.concession_tickets, (e.concession_cost * 100)::BIGINT,
	e.created_at, e.published_at, e.last_modified`

type scanner interface {
	Scan(dest ...any) error
}

// eventRow holds the raw, nullable column values of eventColumns.
type eventRow struct {
	id, title, description string
	categories             []string
	status                 string
	eventDate              *time.Time
	fullTickets, fullCost  *int64
	concTickets, concCost  *int64
	createdAt              time.Time
	publishedAt            *time.Time
	lastModified           time.Time
}

func (r *eventRow) dest() []any {
	return []any{
		&r.id, &r.title, &r.description, &r.categories, &r.status, &r.eventDate,
		&r.fullTickets, &r.fullCost, &r.concTickets, &r.concCost,
		&r.createdAt, &r.publishedAt, &r.lastModified,
	}
}

func (r *eventRow) event() model.Event {
	categories := r.categories
	if len(categories) == 0 {
		categories = []string{model.DefaultCategory}
	}
	return model.Event{
		ID:                r.id,
		Title:             r.title,
		Description:       r.description,
		Categories:        categories,
		Status:            model.EventStatus(r.status),
		EventDate:         r.eventDate,
		FullPriceTickets:  inventory.CountOrZero(r.fullTickets),
		FullPriceCost:     inventory.CentsOrZero(r.fullCost),
		ConcessionTickets: inventory.CountOrZero(r.concTickets),
		ConcessionCost:    inventory.CentsOrZero(r.concCost),
		CreatedAt:         r.createdAt,
		PublishedAt:       r.publishedAt,
		LastModified:      r.lastModified,
	}
}

func scanEvent(s scanner) (*model.Event, error) {
	var row eventRow
	if err := s.Scan(row.dest()...); err != nil {
		return nil, err
	}
	e := row.event()
	return &e, nil
}

// validID reports whether id can address a row. Ids are UUIDs; anything else
// cannot exist and is treated as not found rather than sent to Postgres.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// inTx runs fn in a transaction, committing when fn returns nil and rolling
// back otherwise. fn's error is returned unchanged.
func inTx(ctx context.Context, db *pgxpool.Pool, fn func(pgx.Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
