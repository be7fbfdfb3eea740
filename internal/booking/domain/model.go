// Package domain contains the booking records the pace engine reads.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Booking is one reservation, confirmed or cancelled. CheckIn precedes
// CheckOut when both are set.
type Booking struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Status      Status       `gorm:"type:text;not null;index" json:"status"`
	CheckIn     time.Time    `gorm:"index" json:"check_in"`
	CheckOut    time.Time    `gorm:"index" json:"check_out"`
	CancelledAt *time.Time   `gorm:"index" json:"cancelled_at,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;index" json:"created_at"`
	RoomCount   int          `gorm:"not null;default:1" json:"room_count"`
	Total       float64      `gorm:"not null;default:0" json:"total"`
	Taxes       float64      `gorm:"not null;default:0" json:"taxes"`
	CityTaxes   float64      `gorm:"not null;default:0" json:"city_taxes"`

	Rooms []BookingRoom `gorm:"foreignKey:BookingID" json:"rooms"`
}

func (Booking) TableName() string { return "bookings" }

// BookingRoom is one room line of a booking with its cost breakdown.
// Cost is the gross whole-stay amount for the line; Tax is the tax
// portion contained in it.
type BookingRoom struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	BookingID     snowflake.ID `gorm:"not null;index" json:"booking_id"`
	ListingID     snowflake.ID `gorm:"not null;index" json:"listing_id"`
	Cost          float64      `gorm:"not null;default:0" json:"cost"`
	Tax           float64      `gorm:"not null;default:0" json:"tax"`
	RatePlanTaxID snowflake.ID `gorm:"index" json:"rate_plan_tax_id"`
}

func (BookingRoom) TableName() string { return "booking_rooms" }

// NetCost is the room cost with its tax portion removed, floored at 0.
func (r BookingRoom) NetCost() float64 {
	net := r.Cost - r.Tax
	if net < 0 {
		return 0
	}
	return net
}

// ListingIDs returns the distinct listings this booking occupies.
func (b Booking) ListingIDs() []snowflake.ID {
	seen := make(map[snowflake.ID]struct{}, len(b.Rooms))
	var ids []snowflake.ID
	for _, room := range b.Rooms {
		if _, ok := seen[room.ListingID]; ok {
			continue
		}
		seen[room.ListingID] = struct{}{}
		ids = append(ids, room.ListingID)
	}
	return ids
}

// Occupies reports whether any room line of the booking is on the
// given listing.
func (b Booking) Occupies(listingID snowflake.ID) bool {
	for _, room := range b.Rooms {
		if room.ListingID == listingID {
			return true
		}
	}
	return false
}

// Repository is the booking source consumed by the pace orchestrator.
type Repository interface {
	// ListIntersecting returns bookings (with room lines) created on
	// or before createdBefore whose stay range intersects [from, to),
	// or whose cancellation timestamp falls inside it.
	ListIntersecting(ctx context.Context, from, to, createdBefore time.Time) ([]Booking, error)
}
