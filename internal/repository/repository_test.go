package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/eventflow/internal/database"
	"github.com/Shivanand-hulikatti/eventflow/internal/inventory"
	"github.com/Shivanand-hulikatti/eventflow/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to TEST_POSTGRES_DSN and applies the schema. Tests are
// skipped when the variable is unset.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("Skipping integration test. Set TEST_POSTGRES_DSN to run.")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, database.Migrate(ctx, pool))
	return pool
}

func seedEvent(t *testing.T, repo *EventRepository, status model.EventStatus, full, concession int) *model.Event {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	e := &model.Event{
		ID:                uuid.NewString(),
		Title:             "Jazz Night",
		Description:       "Live music",
		Categories:        []string{model.DefaultCategory, "Music"},
		Status:            status,
		FullPriceTickets:  full,
		FullPriceCost:     2000,
		ConcessionTickets: concession,
		ConcessionCost:    1250,
		CreatedAt:         now,
		LastModified:      now,
	}
	require.NoError(t, repo.Create(context.Background(), e))
	t.Cleanup(func() { _ = repo.Delete(context.Background(), e.ID) })
	return e
}

func newBooking(eventID string, full, concession int) *model.Booking {
	return &model.Booking{
		ID:                uuid.NewString(),
		EventID:           eventID,
		AttendeeName:      "Ada",
		FullTickets:       full,
		ConcessionTickets: concession,
		BookedAt:          time.Now().UTC(),
	}
}

func TestEventRepository_GetPublishedHidesDrafts(t *testing.T) {
	pool := setupTestDB(t)
	events := NewEventRepository(pool)
	ctx := context.Background()

	draft := seedEvent(t, events, model.StatusDraft, 10, 0)

	_, err := events.GetPublished(ctx, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := events.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Cents(2000), got.FullPriceCost)
	assert.Equal(t, []string{"General", "Music"}, got.Categories)

	_, err = events.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventRepository_PublishKeepsFirstPublishedAt(t *testing.T) {
	pool := setupTestDB(t)
	events := NewEventRepository(pool)
	ctx := context.Background()

	e := seedEvent(t, events, model.StatusDraft, 10, 0)
	first := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, events.Publish(ctx, e.ID, first))
	require.NoError(t, events.Publish(ctx, e.ID, first.Add(time.Hour)))

	got, err := events.GetPublished(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, first.Equal(*got.PublishedAt))

	assert.ErrorIs(t, events.Publish(ctx, uuid.NewString(), first), ErrNotFound)
}

func TestEventRepository_DeleteCascades(t *testing.T) {
	pool := setupTestDB(t)
	events := NewEventRepository(pool)
	bookings := NewBookingRepository(pool)
	views := NewViewRepository(pool)
	ctx := context.Background()

	e := seedEvent(t, events, model.StatusPublished, 10, 0)
	require.NoError(t, bookings.Insert(ctx, newBooking(e.ID, 2, 0)))
	require.NoError(t, views.Track(ctx, e.ID))

	require.NoError(t, events.Delete(ctx, e.ID))

	sums, err := bookings.SumForEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Zero(t, sums.Total())
	n, err := views.CountForEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.ErrorIs(t, events.Delete(ctx, e.ID), ErrNotFound)
}

func TestEventRepository_SearchPublished(t *testing.T) {
	pool := setupTestDB(t)
	events := NewEventRepository(pool)
	bookings := NewBookingRepository(pool)
	ctx := context.Background()

	e := seedEvent(t, events, model.StatusPublished, 10, 5)
	require.NoError(t, bookings.Insert(ctx, newBooking(e.ID, 3, 1)))

	find := func(filter model.EventFilter) *model.EventWithSums {
		got, err := events.SearchPublished(ctx, filter)
		require.NoError(t, err)
		for i := range got {
			if got[i].Event.ID == e.ID {
				return &got[i]
			}
		}
		return nil
	}

	hit := find(model.EventFilter{Category: "mus"})
	require.NotNil(t, hit)
	assert.Equal(t, model.BookingSums{FullBooked: 3, ConcessionBooked: 1}, hit.Sums)

	assert.NotNil(t, find(model.EventFilter{Category: "all"}))
	assert.Nil(t, find(model.EventFilter{Category: "Theatre"}))

	ceiling := model.Cents(2000)
	assert.NotNil(t, find(model.EventFilter{MaxFullPriceCost: &ceiling}))
	ceiling = 1999
	assert.Nil(t, find(model.EventFilter{MaxFullPriceCost: &ceiling}))
}

func TestBookingRepository_WithLockedEventRejectsDrafts(t *testing.T) {
	pool := setupTestDB(t)
	events := NewEventRepository(pool)
	bookings := NewBookingRepository(pool)

	draft := seedEvent(t, events, model.StatusDraft, 10, 0)
	err := bookings.WithLockedEvent(context.Background(), draft.ID, func(context.Context, BookingTx) error {
		t.Fatal("callback must not run for a draft")
		return nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingRepository_WithLockedEventSerialisesBookings(t *testing.T) {
	pool := setupTestDB(t)
	events := NewEventRepository(pool)
	bookings := NewBookingRepository(pool)
	ctx := context.Background()

	e := seedEvent(t, events, model.StatusPublished, 10, 0)

	const want = 6
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		rejected []int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := bookings.WithLockedEvent(ctx, e.ID, func(ctx context.Context, tx BookingTx) error {
				sums, err := tx.SumBookings(ctx)
				if err != nil {
					return err
				}
				remaining := inventory.ComputeAvailability(tx.Event(), sums).RemainingFull
				if want > remaining {
					mu.Lock()
					rejected = append(rejected, remaining)
					mu.Unlock()
					return nil
				}
				mu.Lock()
				accepted++
				mu.Unlock()
				return tx.Insert(ctx, newBooking(e.ID, want, 0))
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, []int{4}, rejected)

	sums, err := bookings.SumForEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, sums.FullBooked)
}

func TestBookingRepository_Listings(t *testing.T) {
	pool := setupTestDB(t)
	events := NewEventRepository(pool)
	bookings := NewBookingRepository(pool)
	ctx := context.Background()

	e := seedEvent(t, events, model.StatusPublished, 10, 5)
	older := newBooking(e.ID, 1, 0)
	older.BookedAt = time.Now().UTC().Add(-time.Hour)
	newer := newBooking(e.ID, 0, 2)
	require.NoError(t, bookings.Insert(ctx, older))
	require.NoError(t, bookings.Insert(ctx, newer))

	list, err := bookings.ListByEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	all, err := bookings.ListAll(ctx)
	require.NoError(t, err)
	var found bool
	for _, b := range all {
		if b.ID == older.ID {
			found = true
			assert.Equal(t, "Jazz Night", b.EventTitle)
			assert.Equal(t, model.Cents(1250), b.ConcessionCost)
		}
	}
	assert.True(t, found)
}
