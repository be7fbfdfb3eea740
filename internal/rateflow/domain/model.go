// Package domain defines rate/restriction flow records: the
// timestamped history of every price or restriction change pushed per
// listing, rate plan and channel.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ChannelWebsite is the direct-website pseudo channel.
const ChannelWebsite snowflake.ID = 0

// FlowRecord is one rate or restriction change. NightlyFee is nil for
// restriction-only updates that carry no price change.
type FlowRecord struct {
	ID           snowflake.ID   `gorm:"primaryKey" json:"id"`
	DayFrom      time.Time      `gorm:"not null;index" json:"day_from"`
	DayTo        time.Time      `gorm:"not null;index" json:"day_to"`
	ListingID    snowflake.ID   `gorm:"not null;index" json:"listing_id"`
	RatePlanID   snowflake.ID   `gorm:"not null;index" json:"rate_plan_id"`
	ChannelID    snowflake.ID   `gorm:"not null;default:0;index" json:"channel_id"`
	NightlyFee   *float64       `json:"nightly_fee,omitempty"`
	Restrictions datatypes.JSON `json:"restrictions,omitempty"`
	CreatedOn    time.Time      `gorm:"not null;index" json:"created_on"`
}

func (FlowRecord) TableName() string { return "rate_flow_records" }

// AppliesTo reports whether the record's inclusive day range
// intersects [from, to).
func (r FlowRecord) AppliesTo(from, to time.Time) bool {
	return r.DayFrom.Before(to) && !r.DayTo.Before(from)
}

// RatePlan is a sellable rate configuration; exactly one should be
// flagged Main per property.
type RatePlan struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	Name  string       `gorm:"type:text;not null" json:"name"`
	TaxID snowflake.ID `gorm:"index" json:"tax_id"`
	Main  bool         `gorm:"not null;default:false" json:"main"`
}

func (RatePlan) TableName() string { return "rate_plans" }

// Channel is a sales channel a rate flows to.
type Channel struct {
	ID   snowflake.ID `gorm:"primaryKey" json:"id"`
	Name string       `gorm:"type:text;not null" json:"name"`
}

func (Channel) TableName() string { return "channels" }

// ChannelFilter narrows channel record queries.
type ChannelFilter struct {
	ListingID  snowflake.ID
	RatePlanID snowflake.ID
	ChannelID  snowflake.ID
}

// Repository is the read-only flow record store.
type Repository interface {
	// MainRatePlan resolves the property's main rate plan, or nil when
	// none is configured.
	MainRatePlan(ctx context.Context) (*RatePlan, error)

	// ListRatePlans returns every rate plan keyed by ID.
	ListRatePlans(ctx context.Context) (map[snowflake.ID]RatePlan, error)

	// ListChannels returns every known channel keyed by ID.
	ListChannels(ctx context.Context) (map[snowflake.ID]Channel, error)

	// ListWebsiteRecords returns direct-website records for the given
	// rate plan created on or before cutoff whose day range intersects
	// [from, to), sorted created-on DESC then day-from ASC.
	ListWebsiteRecords(ctx context.Context, cutoff, from, to time.Time, ratePlanID snowflake.ID) ([]FlowRecord, error)

	// ListChannelRecords returns non-website records intersecting
	// [from, to) and matching the filter, in the same sort order.
	ListChannelRecords(ctx context.Context, from, to time.Time, filter ChannelFilter) ([]FlowRecord, error)
}
