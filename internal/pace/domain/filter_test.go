package domain

import (
	"testing"
	"time"

	bookingdomain "github.com/staylytics/revpace/internal/booking/domain"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFilterPeriodBookings_Stay(t *testing.T) {
	periodStart := day(2026, 7, 10)
	periodEnd := day(2026, 7, 11)

	tests := []struct {
		name    string
		booking bookingdomain.Booking
		match   bool
	}{
		{
			name:    "stay covers the bucket",
			booking: bookingdomain.Booking{ID: 1, CheckIn: day(2026, 7, 9), CheckOut: day(2026, 7, 12)},
			match:   true,
		},
		{
			name:    "check-out on bucket start does not match",
			booking: bookingdomain.Booking{ID: 2, CheckIn: day(2026, 7, 8), CheckOut: day(2026, 7, 10)},
			match:   false,
		},
		{
			name:    "check-in on bucket end belongs to the next bucket",
			booking: bookingdomain.Booking{ID: 3, CheckIn: day(2026, 7, 11), CheckOut: day(2026, 7, 13)},
			match:   false,
		},
		{
			name:    "one-night stay inside the bucket",
			booking: bookingdomain.Booking{ID: 4, CheckIn: day(2026, 7, 10), CheckOut: day(2026, 7, 11)},
			match:   true,
		},
		{
			name: "cancelled stays still intersect by dates",
			booking: bookingdomain.Booking{
				ID: 5, Status: bookingdomain.StatusCancelled,
				CheckIn: day(2026, 7, 10), CheckOut: day(2026, 7, 12),
			},
			match: true,
		},
		{
			name:    "zero stay dates never match",
			booking: bookingdomain.Booking{ID: 6},
			match:   false,
		},
		{
			name: "intraday checkout time does not pull the checkout day in",
			booking: bookingdomain.Booking{
				ID:      7,
				CheckIn: day(2026, 7, 8).Add(14 * time.Hour), CheckOut: day(2026, 7, 10).Add(10 * time.Hour),
			},
			match: false,
		},
		{
			name: "intraday check-in still lands in its own day",
			booking: bookingdomain.Booking{
				ID:      8,
				CheckIn: day(2026, 7, 10).Add(14 * time.Hour), CheckOut: day(2026, 7, 12).Add(10 * time.Hour),
			},
			match: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterPeriodBookings(periodStart, periodEnd, []bookingdomain.Booking{tt.booking}, IntersectStay)
			if tt.match {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestFilterPeriodBookings_Cancellation(t *testing.T) {
	periodStart := day(2026, 7, 10)
	periodEnd := day(2026, 7, 11)
	inside := day(2026, 7, 10).Add(14 * time.Hour)
	atEnd := day(2026, 7, 11)

	tests := []struct {
		name    string
		booking bookingdomain.Booking
		match   bool
	}{
		{
			name: "cancellation timestamp inside the bucket",
			booking: bookingdomain.Booking{
				ID: 1, Status: bookingdomain.StatusCancelled, CancelledAt: &inside,
				CheckIn: day(2026, 9, 1), CheckOut: day(2026, 9, 3),
			},
			match: true,
		},
		{
			name: "cancellation at bucket end belongs to the next bucket",
			booking: bookingdomain.Booking{
				ID: 2, Status: bookingdomain.StatusCancelled, CancelledAt: &atEnd,
			},
			match: false,
		},
		{
			name: "confirmed booking never matches cancellation mode",
			booking: bookingdomain.Booking{
				ID: 3, Status: bookingdomain.StatusConfirmed, CancelledAt: &inside,
			},
			match: false,
		},
		{
			name:    "cancelled without timestamp never matches",
			booking: bookingdomain.Booking{ID: 4, Status: bookingdomain.StatusCancelled},
			match:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterPeriodBookings(periodStart, periodEnd, []bookingdomain.Booking{tt.booking}, IntersectCancellation)
			if tt.match {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestFilterPeriodBookings_CancellationBucketExclusive(t *testing.T) {
	// A cancellation timestamp lands in exactly one daily bucket.
	at := day(2026, 7, 10).Add(9 * time.Hour)
	b := bookingdomain.Booking{ID: 1, Status: bookingdomain.StatusCancelled, CancelledAt: &at}

	matched := 0
	for d := 9; d <= 12; d++ {
		start := day(2026, 7, d)
		got := FilterPeriodBookings(start, start.AddDate(0, 0, 1), []bookingdomain.Booking{b}, IntersectCancellation)
		matched += len(got)
	}
	assert.Equal(t, 1, matched)
}
