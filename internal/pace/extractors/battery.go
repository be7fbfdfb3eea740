// Package extractors implements the fixed battery of revenue
// management metrics computed per evaluation sub-period.
package extractors

import (
	bookingdomain "github.com/staylytics/revpace/internal/booking/domain"
	pacedomain "github.com/staylytics/revpace/internal/pace/domain"
)

// Metric identifiers, stable across the API surface.
const (
	MetricBookingIDs         = "booking_ids"
	MetricABRN               = "as_booked_room_nights"
	MetricADR                = "adr"
	MetricBookedRooms        = "booked_rooms"
	MetricMultiRoomBookings  = "multi_room_bookings"
	MetricGrossRevenue       = "gross_revenue"
	MetricRoomRevenue        = "room_revenue"
	MetricNewBookings        = "new_bookings"
	MetricCancelledBookings  = "cancelled_bookings"
	MetricOnTheBooks         = "on_the_books"
	MetricOccupancy          = "occupancy"
	MetricRevPAR             = "revpar"
	MetricHotEvents          = "hot_events"
	MetricNightlyRates       = "nightly_rates"
	MetricLastRateVariation  = "last_rate_variation"
	MetricRateVariationPlus  = "rate_variation_plus"
	MetricRateVariationMinus = "rate_variation_minus"
	MetricRoomRateVariation  = "room_rate_variation"
)

// Battery returns the full extractor battery. The cancelled-bookings
// extractor captures the complete booking snapshot because it searches
// cancellation dates of bookings whose stay never touches the period.
// Declaration order is not execution order; the pipeline builder
// resolves the declared dependencies.
func Battery(allBookings []bookingdomain.Booking) []pacedomain.Extractor {
	return []pacedomain.Extractor{
		BookingIDs{},
		AsBookedRoomNights{},
		ADR{},
		BookedRooms{},
		MultiRoomBookings{},
		GrossRevenue{},
		RoomRevenue{},
		NewBookings{},
		NewCancelledBookings(allBookings),
		OnTheBooks{},
		Occupancy{},
		RevPAR{},
		HotEvents{},
		NightlyRates{},
		LastRateVariation{},
		RateVariationPlus{},
		RateVariationMinus{},
		RoomRateVariation{},
	}
}
