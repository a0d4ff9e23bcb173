package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ViewRepository records anonymous event page views.
type ViewRepository struct {
	db *pgxpool.Pool
}

// NewViewRepository constructs a ViewRepository.
func NewViewRepository(db *pgxpool.Pool) *ViewRepository {
	return &ViewRepository{db: db}
}

// Track inserts one view record for an event.
func (r *ViewRepository) Track(ctx context.Context, eventID string) error {
	if !validID(eventID) {
		return ErrNotFound
	}
	if _, err := r.db.Exec(ctx,
		`INSERT INTO event_views (event_id, viewed_at) VALUES ($1, $2)`,
		eventID, utcNow(),
	); err != nil {
		return fmt.Errorf("insert event view: %w", err)
	}
	return nil
}

// CountForEvent returns the number of recorded views of an event.
func (r *ViewRepository) CountForEvent(ctx context.Context, eventID string) (int64, error) {
	if !validID(eventID) {
		return 0, nil
	}
	var n int64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM event_views WHERE event_id = $1`, eventID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count event views: %w", err)
	}
	return n, nil
}
