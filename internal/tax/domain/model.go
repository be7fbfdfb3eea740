// Package domain defines rate-plan tax records and the tax helper the
// rates registry uses to normalize channel prices.
package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// RatePlanTax is a percentage tax attached to a rate plan.
type RatePlanTax struct {
	ID      snowflake.ID `gorm:"primaryKey" json:"id"`
	Name    string       `gorm:"type:text;not null" json:"name"`
	Percent float64      `gorm:"not null" json:"percent"`
}

func (RatePlanTax) TableName() string { return "rate_plan_taxes" }

// Service converts amounts between gross and net of a rate plan's tax.
// An unknown tax ID is a passthrough, not an error: metrics built on
// an unconfigured tax must still complete with neutral values.
type Service interface {
	NetOfTax(ctx context.Context, amount float64, taxID snowflake.ID) float64
	ApplyTax(ctx context.Context, amount float64, taxID snowflake.ID) float64
}

type Repository interface {
	Get(ctx context.Context, id snowflake.ID) (*RatePlanTax, error)
}
