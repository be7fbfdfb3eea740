package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/staylytics/revpace/internal/booking/domain"
	eventsdomain "github.com/staylytics/revpace/internal/events/domain"
	"github.com/staylytics/revpace/internal/interval"
	listingdomain "github.com/staylytics/revpace/internal/listing/domain"
	"github.com/staylytics/revpace/internal/rates"
)

// PaceDataPeriod is one evaluation bucket at one pickup step. It is
// built fresh for every (pickup × bucket) pair, read by all extractors
// of that step and discarded afterwards; state that must survive the
// step travels through the orchestrator's accumulator, not the object.
type PaceDataPeriod struct {
	Interval interval.Interval

	// Start/End are the bucket bounds, half-open [Start, End).
	Start time.Time
	End   time.Time

	// Pickup is the as-of date of this step; WindowStart is the
	// previous pickup date (zero on the first step). Incremental
	// metrics count activity inside (WindowStart, Pickup].
	Pickup      time.Time
	WindowStart time.Time

	// Bookings intersect the bucket by stay dates; Cancellations by
	// cancellation timestamp. Both are restricted to bookings known at
	// the pickup date.
	Bookings      []bookingdomain.Booking
	Cancellations []bookingdomain.Booking

	Listings       map[snowflake.ID]listingdomain.Listing
	TotalInventory int
	Events         []eventsdomain.Event

	// Rates is the registry scoped to the same pickup/target window,
	// nil when no rate metric was requested.
	Rates *rates.Registry

	startingBookings  int
	newBookings       int
	cancelledBookings int
}

// PickupStartingBookings is the on-the-books count carried in from the
// previous pickup step. Registrations made during the current step do
// not show up here; they only shape the next step's starting value.
func (p *PaceDataPeriod) PickupStartingBookings() int {
	return p.startingBookings
}

// SetPickupStartingBookings seeds the pre-step accumulator value; the
// orchestrator calls it once while building the period.
func (p *PaceDataPeriod) SetPickupStartingBookings(v int) {
	p.startingBookings = v
}

// RegisterNewBooking records count new bookings for the following
// pickup step's starting value.
func (p *PaceDataPeriod) RegisterNewBooking(count int) {
	p.newBookings += count
}

// RegisterBookingCancellation records count cancellations for the
// following pickup step's starting value.
func (p *PaceDataPeriod) RegisterBookingCancellation(count int) {
	p.cancelledBookings += count
}

// AccumulatorDelta is the net on-the-books movement registered during
// this step; the orchestrator folds it into the next step.
func (p *PaceDataPeriod) AccumulatorDelta() int {
	return p.newBookings - p.cancelledBookings
}
