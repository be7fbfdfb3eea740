package extractors

import (
	"testing"
	"time"

	bookingdomain "github.com/staylytics/revpace/internal/booking/domain"
	"github.com/staylytics/revpace/internal/interval"
	pacedomain "github.com/staylytics/revpace/internal/pace/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// twoNightBooking is a 2-night stay Jul 10-12, one room at 200 gross
// with 10% tax inside (18.18), so the net room cost is 181.82.
func twoNightBooking() bookingdomain.Booking {
	return bookingdomain.Booking{
		ID:        1,
		Status:    bookingdomain.StatusConfirmed,
		CheckIn:   day(2026, 7, 10),
		CheckOut:  day(2026, 7, 12),
		CreatedAt: day(2026, 6, 1),
		RoomCount: 1,
		Total:     200,
		Taxes:     18.18,
		Rooms: []bookingdomain.BookingRoom{
			{ID: 11, BookingID: 1, ListingID: 101, Cost: 200, Tax: 18.18},
		},
	}
}

func dailyPeriod(start time.Time, bookings ...bookingdomain.Booking) *pacedomain.PaceDataPeriod {
	end := start.AddDate(0, 0, 1)
	return &pacedomain.PaceDataPeriod{
		Interval:       interval.Day,
		Start:          start,
		End:            end,
		Pickup:         day(2026, 7, 1),
		TotalInventory: 4,
		Bookings:       pacedomain.FilterPeriodBookings(start, end, bookings, pacedomain.IntersectStay),
	}
}

func TestDailyMetrics_TwoNightStay(t *testing.T) {
	b := twoNightBooking()

	// The stay touches Jul 10 and Jul 11; Jul 12 is check-out day.
	for _, tt := range []struct {
		date time.Time
		abrn float64
		room float64
	}{
		{day(2026, 7, 10), 1, 90.91},
		{day(2026, 7, 11), 1, 90.91},
		{day(2026, 7, 12), 0, 0},
	} {
		p := dailyPeriod(tt.date, b)

		abrn, err := (AsBookedRoomNights{}).Extract(p, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.abrn, abrn.Number, "abrn on %s", tt.date.Format("2006-01-02"))

		room, err := (RoomRevenue{}).Extract(p, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.room, room.Number, "room revenue on %s", tt.date.Format("2006-01-02"))
	}
}

func TestMonthEqualsSumOfDays(t *testing.T) {
	b := twoNightBooking()

	var dailyABRN, dailyRoom float64
	for d := day(2026, 7, 1); d.Month() == time.July; d = d.AddDate(0, 0, 1) {
		p := dailyPeriod(d, b)
		abrn, err := (AsBookedRoomNights{}).Extract(p, nil)
		require.NoError(t, err)
		room, err := (RoomRevenue{}).Extract(p, nil)
		require.NoError(t, err)
		dailyABRN += abrn.Number
		dailyRoom += room.Number
	}

	start := day(2026, 7, 1)
	end := day(2026, 8, 1)
	monthly := &pacedomain.PaceDataPeriod{
		Interval: interval.Month,
		Start:    start,
		End:      end,
		Bookings: pacedomain.FilterPeriodBookings(start, end, []bookingdomain.Booking{b}, pacedomain.IntersectStay),
	}

	abrn, err := (AsBookedRoomNights{}).Extract(monthly, nil)
	require.NoError(t, err)
	room, err := (RoomRevenue{}).Extract(monthly, nil)
	require.NoError(t, err)

	assert.Equal(t, dailyABRN, abrn.Number)
	assert.Equal(t, dailyRoom, room.Number)
}

func TestDailyMetrics_IntradayStayTimes(t *testing.T) {
	// Real rows carry times of day; they must not shift the night
	// attribution of the date-based buckets.
	b := twoNightBooking()
	b.CheckIn = b.CheckIn.Add(14 * time.Hour)
	b.CheckOut = b.CheckOut.Add(10 * time.Hour)

	var sum float64
	for _, tt := range []struct {
		date time.Time
		abrn float64
	}{
		{day(2026, 7, 10), 1},
		{day(2026, 7, 11), 1},
		{day(2026, 7, 12), 0},
	} {
		p := dailyPeriod(tt.date, b)
		abrn, err := (AsBookedRoomNights{}).Extract(p, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.abrn, abrn.Number, "abrn on %s", tt.date.Format("2006-01-02"))
		sum += abrn.Number
	}

	start := day(2026, 7, 1)
	end := day(2026, 8, 1)
	monthly := &pacedomain.PaceDataPeriod{
		Interval: interval.Month,
		Start:    start,
		End:      end,
		Bookings: pacedomain.FilterPeriodBookings(start, end, []bookingdomain.Booking{b}, pacedomain.IntersectStay),
	}
	abrn, err := (AsBookedRoomNights{}).Extract(monthly, nil)
	require.NoError(t, err)
	assert.Equal(t, sum, abrn.Number)

	// The booking's gross value shows up only in the nights it covers.
	checkout := dailyPeriod(day(2026, 7, 12), b)
	gross, err := (GrossRevenue{}).Extract(checkout, nil)
	require.NoError(t, err)
	assert.Empty(t, gross.ByID)
}

func TestADR_WholeStayPerRoom(t *testing.T) {
	p := dailyPeriod(day(2026, 7, 10), twoNightBooking())
	v, err := (ADR{}).Extract(p, nil)
	require.NoError(t, err)
	assert.Equal(t, 181.82, v.Number)
}

func TestADR_NoRoomsIsMissing(t *testing.T) {
	p := dailyPeriod(day(2026, 7, 10))
	v, err := (ADR{}).Extract(p, nil)
	require.NoError(t, err)
	assert.True(t, v.Missing)
}

func TestGrossRevenue_PerBooking(t *testing.T) {
	b := twoNightBooking()
	cancelled := twoNightBooking()
	cancelled.ID = 2
	cancelled.Status = bookingdomain.StatusCancelled

	negative := twoNightBooking()
	negative.ID = 3
	negative.Total = 10
	negative.Taxes = 50

	p := dailyPeriod(day(2026, 7, 10), b, cancelled, negative)
	v, err := (GrossRevenue{}).Extract(p, nil)
	require.NoError(t, err)

	assert.Equal(t, 181.82, v.ByID[1])
	_, ok := v.ByID[2]
	assert.False(t, ok, "cancelled booking excluded")
	assert.Equal(t, 0.0, v.ByID[3], "negative value floors at 0")
}

func TestOccupancyAndRevPAR(t *testing.T) {
	p := dailyPeriod(day(2026, 7, 10), twoNightBooking())

	prior := pacedomain.MetricSet{}
	abrn, err := (AsBookedRoomNights{}).Extract(p, prior)
	require.NoError(t, err)
	prior[MetricABRN] = abrn
	room, err := (RoomRevenue{}).Extract(p, prior)
	require.NoError(t, err)
	prior[MetricRoomRevenue] = room

	occ, err := (Occupancy{}).Extract(p, prior)
	require.NoError(t, err)
	assert.Equal(t, 25.0, occ.Number)

	revpar, err := (RevPAR{}).Extract(p, prior)
	require.NoError(t, err)
	assert.Equal(t, 22.73, revpar.Number)
}

func TestOccupancyAndRevPAR_NoInventoryIsMissing(t *testing.T) {
	p := dailyPeriod(day(2026, 7, 10), twoNightBooking())
	p.TotalInventory = 0

	occ, err := (Occupancy{}).Extract(p, pacedomain.MetricSet{})
	require.NoError(t, err)
	assert.True(t, occ.Missing)
	assert.Equal(t, 0.0, occ.Number)

	revpar, err := (RevPAR{}).Extract(p, pacedomain.MetricSet{})
	require.NoError(t, err)
	assert.True(t, revpar.Missing)
}

func TestBookedRooms_RankedDescending(t *testing.T) {
	a := twoNightBooking()
	b := twoNightBooking()
	b.ID = 2
	b.Rooms = []bookingdomain.BookingRoom{
		{ID: 21, BookingID: 2, ListingID: 102, Cost: 100},
		{ID: 22, BookingID: 2, ListingID: 102, Cost: 100},
	}

	p := dailyPeriod(day(2026, 7, 10), a, b)
	v, err := (BookedRooms{}).Extract(p, nil)
	require.NoError(t, err)

	require.Len(t, v.Ranked, 2)
	assert.EqualValues(t, 102, v.Ranked[0].ListingID)
	assert.Equal(t, 2.0, v.Ranked[0].Value)
	assert.EqualValues(t, 101, v.Ranked[1].ListingID)
	assert.Equal(t, 1.0, v.Ranked[1].Value)
}

func TestMultiRoomBookings(t *testing.T) {
	single := twoNightBooking()
	multi := twoNightBooking()
	multi.ID = 2
	multi.RoomCount = 3

	p := dailyPeriod(day(2026, 7, 10), single, multi)
	v, err := (MultiRoomBookings{}).Extract(p, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Number)
}

func TestNewBookings_IncrementalWindow(t *testing.T) {
	early := twoNightBooking()
	early.CreatedAt = day(2026, 6, 1)

	recent := twoNightBooking()
	recent.ID = 2
	recent.CreatedAt = day(2026, 6, 20)

	p := dailyPeriod(day(2026, 7, 10), early, recent)
	p.Pickup = day(2026, 6, 25)
	p.WindowStart = day(2026, 6, 15)

	v, err := (NewBookings{}).Extract(p, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Number)
	assert.Equal(t, 1, p.AccumulatorDelta())
}

func TestCancelledBookings_OutOfPeriodStay(t *testing.T) {
	// The stay never touches the bucket; the cancellation date does.
	at := day(2026, 7, 10).Add(10 * time.Hour)
	b := bookingdomain.Booking{
		ID:          7,
		Status:      bookingdomain.StatusCancelled,
		CheckIn:     day(2026, 9, 1),
		CheckOut:    day(2026, 9, 5),
		CancelledAt: &at,
		CreatedAt:   day(2026, 6, 1),
	}

	p := dailyPeriod(day(2026, 7, 10))
	p.Pickup = day(2026, 7, 20)

	v, err := NewCancelledBookings([]bookingdomain.Booking{b}).Extract(p, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Number)
	assert.Equal(t, -1, p.AccumulatorDelta())
}

func TestOnTheBooks_ReportsPreStepValue(t *testing.T) {
	p := dailyPeriod(day(2026, 7, 10), twoNightBooking())
	p.SetPickupStartingBookings(4)

	nv, err := (NewBookings{}).Extract(p, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, nv.Number)

	otb, err := (OnTheBooks{}).Extract(p, nil)
	require.NoError(t, err)
	assert.Equal(t, 4.0, otb.Number)
}

func TestRateMetrics_NoRegistryIsMissing(t *testing.T) {
	p := dailyPeriod(day(2026, 7, 10), twoNightBooking())

	nr, err := (NightlyRates{}).Extract(p, nil)
	require.NoError(t, err)
	assert.True(t, nr.Missing)

	last, err := (LastRateVariation{}).Extract(p, nil)
	require.NoError(t, err)
	assert.True(t, last.Missing)

	prior := pacedomain.MetricSet{MetricLastRateVariation: last}
	plus, err := (RateVariationPlus{}).Extract(p, prior)
	require.NoError(t, err)
	assert.True(t, plus.Missing)

	minus, err := (RateVariationMinus{}).Extract(p, prior)
	require.NoError(t, err)
	assert.True(t, minus.Missing)
}
