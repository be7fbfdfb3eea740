// Package domain holds the value objects of the pace pipeline: metric
// values, the per-bucket evaluation period and the extractor contract.
package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	eventsdomain "github.com/staylytics/revpace/internal/events/domain"
)

type Kind string

const (
	KindNumber     Kind = "number"
	KindBookingIDs Kind = "booking_ids"
	KindByID       Kind = "by_id"
	KindRanked     Kind = "ranked"
	KindVariations Kind = "variations"
	KindEvents     Kind = "events"
	KindTime       Kind = "time"
)

// RankedValue is one entry of a descending-ordered per-listing metric.
type RankedValue struct {
	ListingID snowflake.ID `json:"listing_id"`
	Value     float64      `json:"value"`
}

// RateVariation counts booking movement since a listing's last rate
// change.
type RateVariation struct {
	New       int `json:"new"`
	Cancelled int `json:"cancelled"`
}

// MetricValue is the polymorphic result of one extractor. Missing
// distinguishes "could not compute" (no inventory, no rate plan, no
// registry) from a genuine zero; numeric payloads still default to 0
// so consumers of the legacy shape keep working.
type MetricValue struct {
	Kind       Kind
	Number     float64
	BookingIDs []snowflake.ID
	ByID       map[snowflake.ID]float64
	Ranked     []RankedValue
	Variations map[snowflake.ID]RateVariation
	Events     []eventsdomain.Event
	At         *time.Time
	Missing    bool
}

func Number(v float64) MetricValue {
	return MetricValue{Kind: KindNumber, Number: v}
}

func MissingNumber() MetricValue {
	return MetricValue{Kind: KindNumber, Missing: true}
}

func BookingIDs(ids []snowflake.ID) MetricValue {
	return MetricValue{Kind: KindBookingIDs, BookingIDs: ids}
}

func ByID(m map[snowflake.ID]float64) MetricValue {
	return MetricValue{Kind: KindByID, ByID: m}
}

func Ranked(values []RankedValue) MetricValue {
	return MetricValue{Kind: KindRanked, Ranked: values}
}

func Variations(m map[snowflake.ID]RateVariation) MetricValue {
	return MetricValue{Kind: KindVariations, Variations: m}
}

func Events(events []eventsdomain.Event) MetricValue {
	return MetricValue{Kind: KindEvents, Events: events}
}

func At(t *time.Time) MetricValue {
	if t == nil {
		return MetricValue{Kind: KindTime, Missing: true}
	}
	return MetricValue{Kind: KindTime, At: t}
}

// MarshalJSON emits only the payload matching the value's kind.
func (v MetricValue) MarshalJSON() ([]byte, error) {
	out := map[string]any{"kind": v.Kind}
	if v.Missing {
		out["missing"] = true
	}
	switch v.Kind {
	case KindBookingIDs:
		out["value"] = v.BookingIDs
	case KindByID:
		out["value"] = v.ByID
	case KindRanked:
		out["value"] = v.Ranked
	case KindVariations:
		out["value"] = v.Variations
	case KindEvents:
		out["value"] = v.Events
	case KindTime:
		out["value"] = v.At
	default:
		out["value"] = v.Number
	}
	return json.Marshal(out)
}

// MetricSet is the per-period result dictionary threaded through the
// extractor pass, keyed by metric ID.
type MetricSet map[string]MetricValue

// NumberOf returns the numeric value of a previously computed metric,
// or 0 when it is absent or missing.
func (m MetricSet) NumberOf(id string) float64 {
	v, ok := m[id]
	if !ok || v.Missing {
		return 0
	}
	return v.Number
}

// TimeOf returns the timestamp value of a previously computed metric,
// or nil.
func (m MetricSet) TimeOf(id string) *time.Time {
	v, ok := m[id]
	if !ok || v.Missing {
		return nil
	}
	return v.At
}
