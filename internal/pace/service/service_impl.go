package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	bookingdomain "github.com/staylytics/revpace/internal/booking/domain"
	eventsdomain "github.com/staylytics/revpace/internal/events/domain"
	"github.com/staylytics/revpace/internal/interval"
	listingdomain "github.com/staylytics/revpace/internal/listing/domain"
	"github.com/staylytics/revpace/internal/observability"
	pacedomain "github.com/staylytics/revpace/internal/pace/domain"
	"github.com/staylytics/revpace/internal/pace/extractors"
	"github.com/staylytics/revpace/internal/rates"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// rateMetrics are the extractors that consult the rates registry; a
// registry is only built and preloaded when one of them is in the
// resolved pipeline.
var rateMetrics = map[string]bool{
	extractors.MetricNightlyRates:      true,
	extractors.MetricLastRateVariation: true,
	extractors.MetricRoomRateVariation: true,
}

type Service struct {
	log *zap.Logger

	bookings bookingdomain.Repository
	listings listingdomain.Repository
	events   eventsdomain.Repository
	rates    *rates.Factory
	metrics  *observability.Metrics
}

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	Bookings bookingdomain.Repository
	Listings listingdomain.Repository
	Events   eventsdomain.Repository
	Rates    *rates.Factory
	Metrics  *observability.Metrics `optional:"true"`
}

func NewService(p ServiceParam) pacedomain.Service {
	return &Service{
		log:      p.Log.Named("pace.service"),
		bookings: p.Bookings,
		listings: p.Listings,
		events:   p.Events,
		rates:    p.Rates,
		metrics:  p.Metrics,
	}
}

// ComputePace runs the metric battery over every (pickup × sub-period)
// pair. Pickup dates are folded oldest first: each step's registered
// new-booking/cancellation deltas become the next step's on-the-books
// starting value for the same bucket. A single extractor failure is
// fatal to the run and propagates.
func (s *Service) ComputePace(ctx context.Context, req pacedomain.ComputeRequest) (*pacedomain.PaceResult, error) {
	started := time.Now()
	result, err := s.computePace(ctx, req)
	if s.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.metrics.PaceRuns.WithLabelValues(status).Inc()
		s.metrics.PaceRunDuration.Observe(time.Since(started).Seconds())
	}
	return result, err
}

func (s *Service) computePace(ctx context.Context, req pacedomain.ComputeRequest) (*pacedomain.PaceResult, error) {
	if len(req.PickupDates) == 0 {
		return nil, pacedomain.ErrNoPickupDates
	}
	if !interval.Valid(req.Interval) {
		return nil, pacedomain.ErrInvalidInterval
	}
	if req.To.Before(req.From) {
		return nil, pacedomain.ErrInvalidRange
	}

	// Resolve the metric pipeline once: unknown metrics and dependency
	// cycles fail before any data is loaded, and every pickup step
	// reuses the resolved execution order.
	resolved, err := buildPipeline(extractors.Battery(nil), req.MetricIDs)
	if err != nil {
		return nil, err
	}
	order := make([]string, len(resolved))
	needsRates := false
	for i, ex := range resolved {
		order[i] = ex.ID()
		if rateMetrics[ex.ID()] {
			needsRates = true
		}
	}

	pickups := append([]time.Time(nil), req.PickupDates...)
	sort.Slice(pickups, func(i, j int) bool { return pickups[i].Before(pickups[j]) })

	buckets := interval.DatePeriod(req.From, req.To, req.Interval)
	if len(buckets) == 0 {
		return nil, pacedomain.ErrInvalidRange
	}
	windowStart := buckets[0]
	windowEnd := interval.BucketEnd(buckets[len(buckets)-1], req.Interval)

	snapshot, err := s.bookings.ListIntersecting(ctx, windowStart, windowEnd, pickups[len(pickups)-1])
	if err != nil {
		return nil, fmt.Errorf("pace: booking load: %w", err)
	}
	snapshot = restrictToListings(snapshot, req.ListingIDs)

	listings, err := s.listings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("pace: listing load: %w", err)
	}
	listings = filterListings(listings, req.ListingIDs)

	inventory, err := s.listings.TotalInventoryCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("pace: inventory load: %w", err)
	}

	bucketEvents := make(map[time.Time][]eventsdomain.Event, len(buckets))
	for _, bucket := range buckets {
		matched, err := s.events.MatchPeriodEvents(ctx, bucket, interval.BucketEnd(bucket, req.Interval))
		if err != nil {
			// Passive enrichment: a failed event lookup must not
			// abort the run.
			s.log.Warn("event match failed", zap.Time("bucket", bucket), zap.Error(err))
			continue
		}
		bucketEvents[bucket] = matched
	}

	accumulator := make(map[time.Time]int, len(buckets))
	series := make([]pacedomain.PickupSeries, 0, len(pickups))

	var prevPickup time.Time
	for _, pickup := range pickups {
		stepBookings := bookingsKnownAt(snapshot, pickup)

		var registry *rates.Registry
		if needsRates {
			registry = s.rates.New(pickup, windowStart, windowEnd)
			registry.PreloadFlowRecords(ctx)
		}

		pipeline := orderedPipeline(extractors.Battery(stepBookings), order)

		periods := make([]pacedomain.PeriodMetrics, 0, len(buckets))
		for _, bucket := range buckets {
			bucketEnd := interval.BucketEnd(bucket, req.Interval)

			period := &pacedomain.PaceDataPeriod{
				Interval:       req.Interval,
				Start:          bucket,
				End:            bucketEnd,
				Pickup:         pickup,
				WindowStart:    prevPickup,
				Bookings:       pacedomain.FilterPeriodBookings(bucket, bucketEnd, stepBookings, pacedomain.IntersectStay),
				Cancellations:  cancellationsKnownAt(bucket, bucketEnd, stepBookings, pickup),
				Listings:       listings,
				TotalInventory: inventory,
				Events:         bucketEvents[bucket],
				Rates:          registry,
			}
			period.SetPickupStartingBookings(accumulator[bucket])

			values := make(pacedomain.MetricSet, len(pipeline))
			for _, ex := range pipeline {
				value, err := ex.Extract(period, values)
				if err != nil {
					return nil, fmt.Errorf("pace: metric %s at %s: %w", ex.ID(), bucket.Format("2006-01-02"), err)
				}
				values[ex.ID()] = value
			}

			accumulator[bucket] += period.AccumulatorDelta()
			periods = append(periods, pacedomain.PeriodMetrics{
				Start:  bucket,
				End:    bucketEnd,
				Values: values,
			})
		}

		series = append(series, pacedomain.PickupSeries{Pickup: pickup, Periods: periods})
		prevPickup = pickup
	}

	result := &pacedomain.PaceResult{
		RunID:    ulid.Make().String(),
		Interval: string(req.Interval),
		Series:   series,
	}
	s.log.Info("pace run complete",
		zap.String("run_id", result.RunID),
		zap.Int("pickups", len(pickups)),
		zap.Int("buckets", len(buckets)),
	)
	return result, nil
}

// bookingsKnownAt simulates the pickup date: bookings created later do
// not exist yet.
func bookingsKnownAt(bookings []bookingdomain.Booking, pickup time.Time) []bookingdomain.Booking {
	known := make([]bookingdomain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.CreatedAt.After(pickup) {
			continue
		}
		known = append(known, b)
	}
	return known
}

func cancellationsKnownAt(bucket, bucketEnd time.Time, bookings []bookingdomain.Booking, pickup time.Time) []bookingdomain.Booking {
	cancelled := pacedomain.FilterPeriodBookings(bucket, bucketEnd, bookings, pacedomain.IntersectCancellation)
	known := make([]bookingdomain.Booking, 0, len(cancelled))
	for _, b := range cancelled {
		if b.CancelledAt != nil && b.CancelledAt.After(pickup) {
			continue
		}
		known = append(known, b)
	}
	return known
}

func restrictToListings(bookings []bookingdomain.Booking, listingIDs []snowflake.ID) []bookingdomain.Booking {
	if len(listingIDs) == 0 {
		return bookings
	}
	kept := make([]bookingdomain.Booking, 0, len(bookings))
	for _, b := range bookings {
		for _, id := range listingIDs {
			if b.Occupies(id) {
				kept = append(kept, b)
				break
			}
		}
	}
	return kept
}

func filterListings(listings map[snowflake.ID]listingdomain.Listing, listingIDs []snowflake.ID) map[snowflake.ID]listingdomain.Listing {
	if len(listingIDs) == 0 {
		return listings
	}
	kept := make(map[snowflake.ID]listingdomain.Listing, len(listingIDs))
	for _, id := range listingIDs {
		if l, ok := listings[id]; ok {
			kept[id] = l
		}
	}
	return kept
}
