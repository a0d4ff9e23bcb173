package inventory

import (
	"math"
	"testing"

	"github.com/Shivanand-hulikatti/eventflow/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"3", 3},
		{"  12 ", 12},
		{"+4", 4},
		{"-2", -2},
		{"3.7", 3},
		{"5 tickets", 5},
		{"abc", 0},
		{"", 0},
		{"-", 0},
		{"-0", 0},
		{"0x10", 0},
		{"99999999999999999999", math.MaxInt32},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCount(tt.in))
		})
	}
}

func TestCountOrZero(t *testing.T) {
	v := func(n int64) *int64 { return &n }

	assert.Equal(t, 0, CountOrZero(nil))
	assert.Equal(t, 0, CountOrZero(v(-5)))
	assert.Equal(t, 7, CountOrZero(v(7)))
	assert.Equal(t, math.MaxInt32, CountOrZero(v(math.MaxInt64)))
}

func TestParseCents(t *testing.T) {
	tests := []struct {
		in     string
		want   model.Cents
		wantOK bool
	}{
		{"20", 2000, true},
		{"20.00", 2000, true},
		{"19.5", 1950, true},
		{".5", 50, true},
		{"5.", 500, true},
		{"7.255", 726, true},
		{"0.295", 30, true},
		{"7.254", 725, true},
		{"-3.10", -310, true},
		{"1e2", 10000, true},
		{"12.5 GBP", 1250, true},
		{"free", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCents(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCostOrZero(t *testing.T) {
	assert.Equal(t, model.Cents(0), CostOrZero("n/a"))
	assert.Equal(t, model.Cents(0), CostOrZero("-4"))
	assert.Equal(t, model.Cents(450), CostOrZero("4.5"))
}

func TestComputeAvailability(t *testing.T) {
	event := &model.Event{FullPriceTickets: 10, ConcessionTickets: 5}

	t.Run("no bookings", func(t *testing.T) {
		snap := ComputeAvailability(event, model.BookingSums{})
		assert.Equal(t, model.Snapshot{RemainingFull: 10, RemainingConcession: 5}, snap)
	})

	t.Run("partially booked", func(t *testing.T) {
		snap := ComputeAvailability(event, model.BookingSums{FullBooked: 3, ConcessionBooked: 5})
		assert.Equal(t, model.Snapshot{RemainingFull: 7, RemainingConcession: 0}, snap)
	})

	t.Run("overbooked clamps at zero", func(t *testing.T) {
		snap := ComputeAvailability(event, model.BookingSums{FullBooked: 12, ConcessionBooked: 9})
		assert.Equal(t, 0, snap.RemainingFull)
		assert.Equal(t, 0, snap.RemainingConcession)
	})

	t.Run("malformed capacity counts as zero", func(t *testing.T) {
		bad := &model.Event{FullPriceTickets: -4, ConcessionTickets: 2}
		snap := ComputeAvailability(bad, model.BookingSums{ConcessionBooked: -1})
		assert.Equal(t, model.Snapshot{RemainingFull: 0, RemainingConcession: 2}, snap)
	})
}

func TestComputeAvailability_NeverNegativeAndIdempotent(t *testing.T) {
	for capacity := -3; capacity <= 6; capacity++ {
		for booked := -3; booked <= 9; booked++ {
			event := &model.Event{FullPriceTickets: capacity, ConcessionTickets: capacity}
			sums := model.BookingSums{FullBooked: booked, ConcessionBooked: booked}

			first := ComputeAvailability(event, sums)
			second := ComputeAvailability(event, sums)

			assert.GreaterOrEqual(t, first.RemainingFull, 0)
			assert.GreaterOrEqual(t, first.RemainingConcession, 0)
			assert.Equal(t, first, second)
		}
	}
}

func TestAnnotate(t *testing.T) {
	listing := Annotate(model.EventWithSums{
		Event: model.Event{ID: "e1", FullPriceTickets: 10, ConcessionTickets: 4},
		Sums:  model.BookingSums{FullBooked: 6, ConcessionBooked: 1},
	})

	assert.Equal(t, "e1", listing.ID)
	assert.Equal(t, 4, listing.RemainingFull)
	assert.Equal(t, 3, listing.RemainingConcession)
	assert.Equal(t, 7, listing.TotalBooked)
}

func TestTotalCost(t *testing.T) {
	assert.Equal(t, "60.00", TotalCost(3, 2000, 0, 1200).String())
	assert.Equal(t, "67.50", TotalCost(2, 2500, 2, 875).String())
	assert.Equal(t, "0.00", TotalCost(0, 2000, 0, 1000).String())
}

func TestCentsOrZero(t *testing.T) {
	v := func(n int64) *int64 { return &n }

	assert.Equal(t, model.Cents(0), CentsOrZero(nil))
	assert.Equal(t, model.Cents(0), CentsOrZero(v(-1)))
	assert.Equal(t, model.Cents(2000), CentsOrZero(v(2000)))
}
