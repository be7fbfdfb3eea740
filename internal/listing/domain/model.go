// Package domain contains listing metadata the pace engine reads for
// inventory totals.
package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Listing is one bookable room type.
type Listing struct {
	ID        snowflake.ID   `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:text;not null" json:"name"`
	Slug      string         `gorm:"type:text;uniqueIndex" json:"slug"`
	Units     int            `gorm:"not null;default:1" json:"units"`
	Amenities datatypes.JSON `json:"amenities,omitempty"`
}

func (Listing) TableName() string { return "listings" }

// Repository is the listing/inventory source consumed by the engine.
type Repository interface {
	List(ctx context.Context) (map[snowflake.ID]Listing, error)
	// TotalInventoryCount is the sum of units across all listings.
	TotalInventoryCount(ctx context.Context) (int, error)
}
