package extractors

import (
	"sort"

	"github.com/bwmarrin/snowflake"
	"github.com/staylytics/revpace/internal/interval"
	pacedomain "github.com/staylytics/revpace/internal/pace/domain"
)

// AsBookedRoomNights sums the room-nights booked within the period.
// Day buckets count one night per room; longer buckets count the
// clipped night span per room, which keeps a month's value equal to
// the sum of its days.
type AsBookedRoomNights struct{}

func (AsBookedRoomNights) ID() string          { return MetricABRN }
func (AsBookedRoomNights) DependsOn() []string { return nil }

func (AsBookedRoomNights) Extract(p *pacedomain.PaceDataPeriod, _ pacedomain.MetricSet) (pacedomain.MetricValue, error) {
	total := 0
	for _, b := range p.Bookings {
		if !isConfirmed(b) {
			continue
		}
		if p.Interval == interval.Day {
			total += roomCount(b)
		} else {
			total += clippedNights(p, b) * roomCount(b)
		}
	}
	return pacedomain.Number(float64(total)), nil
}

// BookedRooms reports per-listing night counts, highest first.
type BookedRooms struct{}

func (BookedRooms) ID() string          { return MetricBookedRooms }
func (BookedRooms) DependsOn() []string { return nil }

func (BookedRooms) Extract(p *pacedomain.PaceDataPeriod, _ pacedomain.MetricSet) (pacedomain.MetricValue, error) {
	counts := make(map[snowflake.ID]float64)
	for _, b := range p.Bookings {
		if !isConfirmed(b) {
			continue
		}
		for _, room := range b.Rooms {
			if p.Interval == interval.Day {
				counts[room.ListingID]++
			} else {
				counts[room.ListingID] += float64(clippedNights(p, b))
			}
		}
	}

	ranked := make([]pacedomain.RankedValue, 0, len(counts))
	for id, count := range counts {
		ranked = append(ranked, pacedomain.RankedValue{ListingID: id, Value: count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].ListingID < ranked[j].ListingID
	})
	return pacedomain.Ranked(ranked), nil
}

// MultiRoomBookings counts bookings holding more than one room.
type MultiRoomBookings struct{}

func (MultiRoomBookings) ID() string          { return MetricMultiRoomBookings }
func (MultiRoomBookings) DependsOn() []string { return nil }

func (MultiRoomBookings) Extract(p *pacedomain.PaceDataPeriod, _ pacedomain.MetricSet) (pacedomain.MetricValue, error) {
	count := 0
	for _, b := range p.Bookings {
		if roomCount(b) > 1 {
			count++
		}
	}
	return pacedomain.Number(float64(count)), nil
}
