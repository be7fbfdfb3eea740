package extractors

import (
	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/staylytics/revpace/internal/booking/domain"
	pacedomain "github.com/staylytics/revpace/internal/pace/domain"
)

// BookingIDs lists the raw ids of bookings intersecting the period.
type BookingIDs struct{}

func (BookingIDs) ID() string          { return MetricBookingIDs }
func (BookingIDs) DependsOn() []string { return nil }

func (BookingIDs) Extract(p *pacedomain.PaceDataPeriod, _ pacedomain.MetricSet) (pacedomain.MetricValue, error) {
	ids := make([]snowflake.ID, 0, len(p.Bookings))
	for _, b := range p.Bookings {
		ids = append(ids, b.ID)
	}
	return pacedomain.BookingIDs(ids), nil
}

// NewBookings counts confirmed bookings picked up during this step and
// registers them toward the next step's on-the-books value.
type NewBookings struct{}

func (NewBookings) ID() string          { return MetricNewBookings }
func (NewBookings) DependsOn() []string { return nil }

func (NewBookings) Extract(p *pacedomain.PaceDataPeriod, _ pacedomain.MetricSet) (pacedomain.MetricValue, error) {
	count := 0
	for _, b := range p.Bookings {
		if !isConfirmed(b) {
			continue
		}
		if !inWindow(p, b.CreatedAt) {
			continue
		}
		count++
	}
	p.RegisterNewBooking(count)
	return pacedomain.Number(float64(count)), nil
}

// CancelledBookings re-filters the full booking snapshot by
// cancellation timestamp: a cancellation belongs to the bucket holding
// its cancellation date even when the stay dates never touch it. The
// count is registered toward the next step's on-the-books value.
type CancelledBookings struct {
	all []bookingdomain.Booking
}

func NewCancelledBookings(all []bookingdomain.Booking) CancelledBookings {
	return CancelledBookings{all: all}
}

func (CancelledBookings) ID() string          { return MetricCancelledBookings }
func (CancelledBookings) DependsOn() []string { return nil }

func (e CancelledBookings) Extract(p *pacedomain.PaceDataPeriod, _ pacedomain.MetricSet) (pacedomain.MetricValue, error) {
	cancelled := pacedomain.FilterPeriodBookings(p.Start, p.End, e.all, pacedomain.IntersectCancellation)
	count := 0
	for _, b := range cancelled {
		if b.CancelledAt == nil || !inWindow(p, *b.CancelledAt) {
			continue
		}
		count++
	}
	p.RegisterBookingCancellation(count)
	return pacedomain.Number(float64(count)), nil
}

// OnTheBooks surfaces the accumulator value carried in from the
// previous pickup step. It runs after the new/cancelled extractors so
// the step's own deltas are registered, but those deltas only appear
// at the next step.
type OnTheBooks struct{}

func (OnTheBooks) ID() string { return MetricOnTheBooks }

func (OnTheBooks) DependsOn() []string {
	return []string{MetricNewBookings, MetricCancelledBookings}
}

func (OnTheBooks) Extract(p *pacedomain.PaceDataPeriod, _ pacedomain.MetricSet) (pacedomain.MetricValue, error) {
	return pacedomain.Number(float64(p.PickupStartingBookings())), nil
}
