// Package domain defines calendar hot events (fairs, concerts, local
// holidays) that explain demand spikes in a stay period.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Event struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	Name     string       `gorm:"type:text;not null" json:"name"`
	StartsAt time.Time    `gorm:"not null;index" json:"starts_at"`
	EndsAt   time.Time    `gorm:"not null;index" json:"ends_at"`
}

func (Event) TableName() string { return "hot_events" }

// Repository matches events against an evaluation sub-period.
type Repository interface {
	// MatchPeriodEvents returns events overlapping [from, to).
	MatchPeriodEvents(ctx context.Context, from, to time.Time) ([]Event, error)
}
