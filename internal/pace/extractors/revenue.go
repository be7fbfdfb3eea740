package extractors

import (
	"github.com/bwmarrin/snowflake"
	pacedomain "github.com/staylytics/revpace/internal/pace/domain"
)

// ADR is the mean per-room net rate across confirmed bookings' rooms
// in the period. The whole-stay per-room cost is used as-is, not
// prorated to the bucket; that matches how the rate was sold.
type ADR struct{}

func (ADR) ID() string          { return MetricADR }
func (ADR) DependsOn() []string { return nil }

func (ADR) Extract(p *pacedomain.PaceDataPeriod, _ pacedomain.MetricSet) (pacedomain.MetricValue, error) {
	var sum float64
	var rooms int
	for _, b := range p.Bookings {
		if !isConfirmed(b) {
			continue
		}
		for _, room := range b.Rooms {
			sum += room.NetCost()
			rooms++
		}
	}
	if rooms == 0 {
		return pacedomain.MissingNumber(), nil
	}
	return pacedomain.Number(round2(sum / float64(rooms))), nil
}

// GrossRevenue maps each confirmed booking in the period to its gross
// value net of taxes and city taxes, floored at 0.
type GrossRevenue struct{}

func (GrossRevenue) ID() string          { return MetricGrossRevenue }
func (GrossRevenue) DependsOn() []string { return nil }

func (GrossRevenue) Extract(p *pacedomain.PaceDataPeriod, _ pacedomain.MetricSet) (pacedomain.MetricValue, error) {
	revenue := make(map[snowflake.ID]float64, len(p.Bookings))
	for _, b := range p.Bookings {
		if !isConfirmed(b) {
			continue
		}
		value := b.Total - b.Taxes - b.CityTaxes
		if value < 0 {
			value = 0
		}
		revenue[b.ID] = round2(value)
	}
	return pacedomain.ByID(revenue), nil
}

// RoomRevenue sums confirmed bookings' per-room net cost, prorated per
// night and clipped to the bucket so a month equals the sum of its
// days.
type RoomRevenue struct{}

func (RoomRevenue) ID() string          { return MetricRoomRevenue }
func (RoomRevenue) DependsOn() []string { return nil }

func (RoomRevenue) Extract(p *pacedomain.PaceDataPeriod, _ pacedomain.MetricSet) (pacedomain.MetricValue, error) {
	var total float64
	for _, b := range p.Bookings {
		if !isConfirmed(b) {
			continue
		}
		clipped := clippedNights(p, b)
		if clipped == 0 {
			continue
		}
		share := float64(clipped) / float64(stayNights(b))
		for _, room := range b.Rooms {
			total += room.NetCost() * share
		}
	}
	return pacedomain.Number(round2(total)), nil
}

// Occupancy is ABRN over total inventory as a percentage. Zero
// inventory yields a missing 0 rather than a fake rate.
type Occupancy struct{}

func (Occupancy) ID() string          { return MetricOccupancy }
func (Occupancy) DependsOn() []string { return []string{MetricABRN} }

func (Occupancy) Extract(p *pacedomain.PaceDataPeriod, prior pacedomain.MetricSet) (pacedomain.MetricValue, error) {
	if p.TotalInventory <= 0 {
		return pacedomain.MissingNumber(), nil
	}
	abrn := prior.NumberOf(MetricABRN)
	return pacedomain.Number(round2(abrn / float64(p.TotalInventory) * 100)), nil
}

// RevPAR is room revenue over total inventory.
type RevPAR struct{}

func (RevPAR) ID() string          { return MetricRevPAR }
func (RevPAR) DependsOn() []string { return []string{MetricRoomRevenue} }

func (RevPAR) Extract(p *pacedomain.PaceDataPeriod, prior pacedomain.MetricSet) (pacedomain.MetricValue, error) {
	if p.TotalInventory <= 0 {
		return pacedomain.MissingNumber(), nil
	}
	revenue := prior.NumberOf(MetricRoomRevenue)
	return pacedomain.Number(round2(revenue / float64(p.TotalInventory))), nil
}
