package extractors

import (
	"github.com/bwmarrin/snowflake"
	pacedomain "github.com/staylytics/revpace/internal/pace/domain"
)

// NightlyRates resolves, per listing, the latest nightly rate in
// effect for the period as of the pickup cutoff.
type NightlyRates struct{}

func (NightlyRates) ID() string          { return MetricNightlyRates }
func (NightlyRates) DependsOn() []string { return nil }

func (NightlyRates) Extract(p *pacedomain.PaceDataPeriod, _ pacedomain.MetricSet) (pacedomain.MetricValue, error) {
	if p.Rates == nil {
		return pacedomain.MetricValue{Kind: pacedomain.KindByID, Missing: true}, nil
	}
	rates := make(map[snowflake.ID]float64)
	for id := range p.Listings {
		if rate := p.Rates.MatchPeriodLastNightlyRate(p.Start, p.Interval, id); rate != nil {
			rates[id] = *rate
		}
	}
	return pacedomain.ByID(rates), nil
}

// LastRateVariation is the created-on timestamp of the most recent
// rate change touching the period, across all listings.
type LastRateVariation struct{}

func (LastRateVariation) ID() string          { return MetricLastRateVariation }
func (LastRateVariation) DependsOn() []string { return nil }

func (LastRateVariation) Extract(p *pacedomain.PaceDataPeriod, _ pacedomain.MetricSet) (pacedomain.MetricValue, error) {
	if p.Rates == nil {
		return pacedomain.At(nil), nil
	}
	return pacedomain.At(p.Rates.MatchPeriodLastFlowDate(p.Start, p.Interval)), nil
}

// RateVariationPlus counts confirmed bookings created on or after the
// period's last rate variation.
type RateVariationPlus struct{}

func (RateVariationPlus) ID() string          { return MetricRateVariationPlus }
func (RateVariationPlus) DependsOn() []string { return []string{MetricLastRateVariation} }

func (RateVariationPlus) Extract(p *pacedomain.PaceDataPeriod, prior pacedomain.MetricSet) (pacedomain.MetricValue, error) {
	since := prior.TimeOf(MetricLastRateVariation)
	if since == nil {
		return pacedomain.MissingNumber(), nil
	}
	count := 0
	for _, b := range p.Bookings {
		if isConfirmed(b) && !b.CreatedAt.Before(*since) {
			count++
		}
	}
	return pacedomain.Number(float64(count)), nil
}

// RateVariationMinus counts cancellations on or after the period's
// last rate variation.
type RateVariationMinus struct{}

func (RateVariationMinus) ID() string          { return MetricRateVariationMinus }
func (RateVariationMinus) DependsOn() []string { return []string{MetricLastRateVariation} }

func (RateVariationMinus) Extract(p *pacedomain.PaceDataPeriod, prior pacedomain.MetricSet) (pacedomain.MetricValue, error) {
	since := prior.TimeOf(MetricLastRateVariation)
	if since == nil {
		return pacedomain.MissingNumber(), nil
	}
	count := 0
	for _, b := range p.Cancellations {
		if b.CancelledAt != nil && !b.CancelledAt.Before(*since) {
			count++
		}
	}
	return pacedomain.Number(float64(count)), nil
}

// RoomRateVariation reports, per listing, how many bookings arrived or
// cancelled since that listing's own last rate change. Listings with
// no movement are omitted.
type RoomRateVariation struct{}

func (RoomRateVariation) ID() string          { return MetricRoomRateVariation }
func (RoomRateVariation) DependsOn() []string { return nil }

func (RoomRateVariation) Extract(p *pacedomain.PaceDataPeriod, _ pacedomain.MetricSet) (pacedomain.MetricValue, error) {
	if p.Rates == nil {
		return pacedomain.MetricValue{Kind: pacedomain.KindVariations, Missing: true}, nil
	}

	variations := make(map[snowflake.ID]pacedomain.RateVariation)
	for id := range p.Listings {
		since := p.Rates.MatchPeriodLastFlowDate(p.Start, p.Interval, id)
		if since == nil {
			continue
		}

		var v pacedomain.RateVariation
		for _, b := range p.Bookings {
			if isConfirmed(b) && b.Occupies(id) && !b.CreatedAt.Before(*since) {
				v.New++
			}
		}
		for _, b := range p.Cancellations {
			if b.CancelledAt != nil && b.Occupies(id) && !b.CancelledAt.Before(*since) {
				v.Cancelled++
			}
		}
		if v.New == 0 && v.Cancelled == 0 {
			continue
		}
		variations[id] = v
	}
	return pacedomain.Variations(variations), nil
}
