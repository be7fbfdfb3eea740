package extractors

import (
	"math"
	"time"

	bookingdomain "github.com/staylytics/revpace/internal/booking/domain"
	"github.com/staylytics/revpace/internal/interval"
	pacedomain "github.com/staylytics/revpace/internal/pace/domain"
)

func isConfirmed(b bookingdomain.Booking) bool {
	return b.Status == bookingdomain.StatusConfirmed
}

func roomCount(b bookingdomain.Booking) int {
	if b.RoomCount > 0 {
		return b.RoomCount
	}
	if len(b.Rooms) > 0 {
		return len(b.Rooms)
	}
	return 1
}

// clippedNights counts the stay nights falling inside the period, so
// the night at a bucket boundary is attributed to exactly one bucket.
func clippedNights(p *pacedomain.PaceDataPeriod, b bookingdomain.Booking) int {
	start := b.CheckIn
	if p.Start.After(start) {
		start = p.Start
	}
	end := b.CheckOut
	if p.End.Before(end) {
		end = p.End
	}
	return interval.Nights(start, end, false)
}

func stayNights(b bookingdomain.Booking) int {
	n := interval.Nights(b.CheckIn, b.CheckOut, false)
	if n < 1 {
		return 1
	}
	return n
}

// inWindow reports whether ts falls inside the step's incremental
// window (WindowStart, Pickup]. A zero WindowStart opens the lower
// bound; a zero Pickup opens the upper one.
func inWindow(p *pacedomain.PaceDataPeriod, ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	if !p.WindowStart.IsZero() && !ts.After(p.WindowStart) {
		return false
	}
	if !p.Pickup.IsZero() && ts.After(p.Pickup) {
		return false
	}
	return true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
