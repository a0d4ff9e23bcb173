// Package inventory computes remaining ticket capacity and booking cost.
//
// Everything here is a pure function of its inputs, so it is safe to call
// concurrently and from any layer: the event detail page, bulk search
// annotation and the booking validation path all share it.
package inventory

import "github.com/Shivanand-hulikatti/eventflow/internal/model"

// Remaining returns max(0, capacity − booked). Negative inputs count as zero.
func Remaining(capacity, booked int) int {
	return NonNegative(NonNegative(capacity) - NonNegative(booked))
}

// ComputeAvailability derives the Snapshot of an event from its configured
// capacities and the aggregate of its bookings.
func ComputeAvailability(e *model.Event, sums model.BookingSums) model.Snapshot {
	return model.Snapshot{
		RemainingFull:       Remaining(e.FullPriceTickets, sums.FullBooked),
		RemainingConcession: Remaining(e.ConcessionTickets, sums.ConcessionBooked),
	}
}

// Annotate attaches availability and booked totals to an event.
func Annotate(ews model.EventWithSums) model.EventListing {
	return model.EventListing{
		Event:       ews.Event,
		Snapshot:    ComputeAvailability(&ews.Event, ews.Sums),
		TotalBooked: NonNegative(ews.Sums.FullBooked) + NonNegative(ews.Sums.ConcessionBooked),
	}
}

// LineCost prices a quantity of tickets at a unit cost.
func LineCost(quantity int, unit model.Cents) model.Cents {
	return model.Cents(int64(NonNegative(quantity)) * int64(unit))
}

// TotalCost prices a two-tier booking. Amounts are whole cents, so the result
// is already rounded to two decimal places.
func TotalCost(full int, fullCost model.Cents, concession int, concessionCost model.Cents) model.Cents {
	return LineCost(full, fullCost) + LineCost(concession, concessionCost)
}

// Capacity returns the total sellable tickets of an event.
func Capacity(e *model.Event) int {
	return NonNegative(e.FullPriceTickets) + NonNegative(e.ConcessionTickets)
}
