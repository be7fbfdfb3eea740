package domain

import (
	"time"

	bookingdomain "github.com/staylytics/revpace/internal/booking/domain"
	"github.com/staylytics/revpace/internal/interval"
)

// IntersectMode selects how a booking intersects an evaluation period.
type IntersectMode string

const (
	// IntersectStay keeps bookings whose stay range overlaps the
	// period.
	IntersectStay IntersectMode = "stay"
	// IntersectCancellation keeps cancelled bookings whose
	// cancellation timestamp falls inside the period.
	IntersectCancellation IntersectMode = "cancellation"
)

// FilterPeriodBookings returns the bookings intersecting the half-open
// period [periodStart, periodEnd) under the given mode. Stay mode is a
// pure interval test and ignores status; stay bounds are truncated to
// their calendar dates so a time-of-day component never leaks a
// checkout day into its bucket, and a booking checking in exactly at
// periodEnd belongs to the next bucket. Zero or missing timestamps
// never match.
func FilterPeriodBookings(periodStart, periodEnd time.Time, bookings []bookingdomain.Booking, mode IntersectMode) []bookingdomain.Booking {
	var matched []bookingdomain.Booking
	for _, b := range bookings {
		switch mode {
		case IntersectCancellation:
			if b.Status != bookingdomain.StatusCancelled || b.CancelledAt == nil {
				continue
			}
			at := *b.CancelledAt
			if at.IsZero() || at.Before(periodStart) || !at.Before(periodEnd) {
				continue
			}
		default:
			if b.CheckIn.IsZero() || b.CheckOut.IsZero() {
				continue
			}
			start := maxTime(periodStart, interval.DateOf(b.CheckIn))
			end := minTime(periodEnd, interval.DateOf(b.CheckOut))
			if !start.Before(end) {
				continue
			}
		}
		matched = append(matched, b)
	}
	return matched
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
