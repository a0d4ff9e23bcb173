package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/eventflow/internal/model"
	"github.com/Shivanand-hulikatti/eventflow/internal/repository"
)

// MockEventStore is a function-field implementation of the event store
// interfaces.
type MockEventStore struct {
	CreateFunc          func(ctx context.Context, e *model.Event) error
	GetByIDFunc         func(ctx context.Context, id string) (*model.Event, error)
	GetPublishedFunc    func(ctx context.Context, id string) (*model.Event, error)
	UpdateFunc          func(ctx context.Context, e *model.Event) error
	PublishFunc         func(ctx context.Context, id string, at time.Time) error
	DeleteFunc          func(ctx context.Context, id string) error
	ListByStatusFunc    func(ctx context.Context, status model.EventStatus) ([]model.Event, error)
	SearchPublishedFunc func(ctx context.Context, filter model.EventFilter) ([]model.EventWithSums, error)
}

func (m *MockEventStore) Create(ctx context.Context, e *model.Event) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, e)
	}
	return nil
}

func (m *MockEventStore) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *MockEventStore) GetPublished(ctx context.Context, id string) (*model.Event, error) {
	if m.GetPublishedFunc != nil {
		return m.GetPublishedFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *MockEventStore) Update(ctx context.Context, e *model.Event) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, e)
	}
	return nil
}

func (m *MockEventStore) Publish(ctx context.Context, id string, at time.Time) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, id, at)
	}
	return nil
}

func (m *MockEventStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockEventStore) ListByStatus(ctx context.Context, status model.EventStatus) ([]model.Event, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, status)
	}
	return nil, nil
}

func (m *MockEventStore) SearchPublished(ctx context.Context, filter model.EventFilter) ([]model.EventWithSums, error) {
	if m.SearchPublishedFunc != nil {
		return m.SearchPublishedFunc(ctx, filter)
	}
	return nil, nil
}

// memBookings is an in-memory booking store. WithLockedEvent serialises
// callers per event and discards inserts when the callback fails.
type memBookings struct {
	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	events map[string]*model.Event
	rows   []model.Booking

	sumErr    error
	insertErr error
	// beforeSum runs inside the lock, before the aggregate is read.
	beforeSum func()
}

func newMemBookings(events ...*model.Event) *memBookings {
	m := &memBookings{locks: map[string]*sync.Mutex{}, events: map[string]*model.Event{}}
	for _, e := range events {
		m.events[e.ID] = e
	}
	return m
}

// eventStore returns a MockEventStore serving the published events of m.
func (m *memBookings) eventStore() *MockEventStore {
	return &MockEventStore{
		GetPublishedFunc: func(_ context.Context, id string) (*model.Event, error) {
			if e, ok := m.events[id]; ok && e.IsPublished() {
				cp := *e
				return &cp, nil
			}
			return nil, repository.ErrNotFound
		},
	}
}

func (m *memBookings) lockFor(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

func (m *memBookings) WithLockedEvent(ctx context.Context, eventID string, fn func(context.Context, repository.BookingTx) error) error {
	e, ok := m.events[eventID]
	if !ok || !e.IsPublished() {
		return repository.ErrNotFound
	}
	l := m.lockFor(eventID)
	l.Lock()
	defer l.Unlock()

	tx := &memTx{store: m, event: e}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	m.mu.Lock()
	m.rows = append(m.rows, tx.pending...)
	m.mu.Unlock()
	return nil
}

func (m *memBookings) SumForEvent(_ context.Context, eventID string) (model.BookingSums, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s model.BookingSums
	for _, b := range m.rows {
		if b.EventID == eventID {
			s.FullBooked += b.FullTickets
			s.ConcessionBooked += b.ConcessionTickets
		}
	}
	return s, nil
}

func (m *memBookings) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type memTx struct {
	store   *memBookings
	event   *model.Event
	pending []model.Booking
}

func (t *memTx) Event() *model.Event { return t.event }

func (t *memTx) SumBookings(ctx context.Context) (model.BookingSums, error) {
	if t.store.beforeSum != nil {
		t.store.beforeSum()
	}
	if t.store.sumErr != nil {
		return model.BookingSums{}, t.store.sumErr
	}
	return t.store.SumForEvent(ctx, t.event.ID)
}

func (t *memTx) Insert(_ context.Context, b *model.Booking) error {
	if t.store.insertErr != nil {
		return t.store.insertErr
	}
	t.pending = append(t.pending, *b)
	return nil
}

// MockPublisher records booking notifications.
type MockPublisher struct {
	mu      sync.Mutex
	created []model.Booking
	totals  []model.Cents
	err     error
}

func (p *MockPublisher) PublishBookingCreated(_ context.Context, b *model.Booking, total model.Cents) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.created = append(p.created, *b)
	p.totals = append(p.totals, total)
	return nil
}

func (p *MockPublisher) Close() error { return nil }

var errStorage = errors.New("connection reset")
