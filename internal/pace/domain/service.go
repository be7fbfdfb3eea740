package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/staylytics/revpace/internal/interval"
)

var (
	ErrNoPickupDates   = errors.New("pace: no pickup dates")
	ErrInvalidInterval = errors.New("pace: invalid interval")
	ErrInvalidRange    = errors.New("pace: target range end precedes start")
	ErrUnknownMetric   = errors.New("pace: unknown metric id")
	ErrMetricCycle     = errors.New("pace: metric dependency cycle")
)

// ComputeRequest describes one pace pipeline run.
type ComputeRequest struct {
	// PickupDates are the as-of evaluation dates; they are processed
	// oldest first regardless of input order.
	PickupDates []time.Time

	// From/To bound the target stay window (inclusive dates).
	From time.Time
	To   time.Time

	Interval interval.Interval

	// MetricIDs selects the metrics to compute; empty means the full
	// battery. Dependencies of a requested metric are computed (and
	// returned) even when not requested themselves.
	MetricIDs []string

	// ListingIDs optionally restricts the run to bookings touching
	// these listings.
	ListingIDs []snowflake.ID
}

type Service interface {
	ComputePace(ctx context.Context, req ComputeRequest) (*PaceResult, error)
}
