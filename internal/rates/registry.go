// Package rates implements the rates registry: for any date, listing
// and channel it resolves the most recent rate or restriction record
// in effect as of a pickup cutoff, normalized to the property's price
// comparison basis.
package rates

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/staylytics/revpace/internal/config"
	"github.com/staylytics/revpace/internal/interval"
	rateflowdomain "github.com/staylytics/revpace/internal/rateflow/domain"
	taxdomain "github.com/staylytics/revpace/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Factory builds per-run registries. Each pipeline run owns one
// Registry instance; the preloaded record cache is never shared.
type Factory struct {
	log     *zap.Logger
	flows   rateflowdomain.Repository
	taxes   taxdomain.Service
	cache   *Cache
	pricing config.PricingConfig
}

type FactoryParam struct {
	fx.In

	Log   *zap.Logger
	Flows rateflowdomain.Repository
	Taxes taxdomain.Service
	Cache *Cache `optional:"true"`
	Cfg   config.Config
}

func NewFactory(p FactoryParam) *Factory {
	return &Factory{
		log:     p.Log.Named("rates.registry"),
		flows:   p.Flows,
		taxes:   p.Taxes,
		cache:   p.Cache,
		pricing: p.Cfg.Pricing,
	}
}

// New scopes a registry to a pickup cutoff and a target stay window
// [from, to).
func (f *Factory) New(pickup, from, to time.Time) *Registry {
	return &Registry{
		log:     f.log,
		flows:   f.flows,
		taxes:   f.taxes,
		cache:   f.cache,
		pricing: f.pricing,
		pickup:  pickup,
		from:    from,
		to:      to,
	}
}

type Registry struct {
	log     *zap.Logger
	flows   rateflowdomain.Repository
	taxes   taxdomain.Service
	cache   *Cache
	pricing config.PricingConfig

	pickup time.Time
	from   time.Time
	to     time.Time

	mainPlan *rateflowdomain.RatePlan
	records  []rateflowdomain.FlowRecord
}

// PreloadFlowRecords loads the direct-website records for the main
// rate plan created on or before the pickup cutoff. Load failures are
// swallowed: this path feeds passive background metrics and must never
// abort a pipeline run, so the registry just ends up empty. The record
// cache is written once here and treated as read-only afterwards.
func (r *Registry) PreloadFlowRecords(ctx context.Context) {
	plan, err := r.flows.MainRatePlan(ctx)
	if err != nil {
		r.log.Warn("main rate plan lookup failed, registry stays empty", zap.Error(err))
		return
	}
	if plan == nil {
		r.log.Warn("no main rate plan configured, registry stays empty")
		return
	}
	r.mainPlan = plan

	records, err := r.flows.ListWebsiteRecords(ctx, r.pickup, r.from, r.to, plan.ID)
	if err != nil {
		r.log.Warn("flow record preload failed, registry stays empty", zap.Error(err))
		return
	}
	sortFlowRecords(records)
	r.records = records
}

// MainPlan returns the resolved main rate plan, or nil before a
// successful preload.
func (r *Registry) MainPlan() *rateflowdomain.RatePlan { return r.mainPlan }

// MatchPeriodLastFlowDate returns the created-on timestamp of the most
// recent preloaded record intersecting the bucket that starts at
// periodStart, optionally restricted to the given listings. Nil means
// no record matched.
func (r *Registry) MatchPeriodLastFlowDate(periodStart time.Time, iv interval.Interval, listingIDs ...snowflake.ID) *time.Time {
	rec := MatchPeriodLastFlowRecord(r.records, periodStart, iv, 0, func(fr rateflowdomain.FlowRecord) bool {
		if len(listingIDs) == 0 {
			return true
		}
		for _, id := range listingIDs {
			if fr.ListingID == id {
				return true
			}
		}
		return false
	})
	if rec == nil {
		return nil
	}
	created := rec.CreatedOn
	return &created
}

// MatchPeriodLastNightlyRate returns the nightly fee of the most
// recent preloaded record carrying a price for the listing in the
// bucket. Restriction-only records (nil fee) are skipped.
func (r *Registry) MatchPeriodLastNightlyRate(periodStart time.Time, iv interval.Interval, listingID snowflake.ID) *float64 {
	rec := MatchPeriodLastFlowRecord(r.records, periodStart, iv, listingID, func(fr rateflowdomain.FlowRecord) bool {
		return fr.NightlyFee != nil
	})
	if rec == nil {
		return nil
	}
	fee := *rec.NightlyFee
	return &fee
}

// MatchPeriodLastFlowRecord is the generalized matcher, usable against
// externally supplied record sets (e.g. OTA channel records). Records
// must already be in created-on DESC, day-from ASC order; the first
// record whose inclusive day range intersects the bucket wins. A zero
// listingID matches any listing; pred, when non-nil, adds an extra
// filter (channel, rate plan).
func MatchPeriodLastFlowRecord(
	records []rateflowdomain.FlowRecord,
	periodStart time.Time,
	iv interval.Interval,
	listingID snowflake.ID,
	pred func(rateflowdomain.FlowRecord) bool,
) *rateflowdomain.FlowRecord {
	bucketFrom, bucketTo := bucketBounds(periodStart, iv)
	for i := range records {
		rec := records[i]
		if !rec.AppliesTo(bucketFrom, bucketTo) {
			continue
		}
		if listingID != 0 && rec.ListingID != listingID {
			continue
		}
		if pred != nil && !pred(rec) {
			continue
		}
		return &rec
	}
	return nil
}

// NormalizeChannelRate converts a channel's quoted nightly rate onto
// the property's comparison basis. Net-rate channels quote exclusive
// of tax: under tax-inclusive pricing their rate gains the plan's tax,
// and under tax-exclusive pricing a gross-quoting channel loses it.
func (r *Registry) NormalizeChannelRate(ctx context.Context, fee float64, channelName string, plan rateflowdomain.RatePlan) float64 {
	net := r.isNetRateChannel(channelName)
	switch {
	case r.pricing.TaxInclusive && net:
		return r.taxes.ApplyTax(ctx, fee, plan.TaxID)
	case !r.pricing.TaxInclusive && !net:
		return r.taxes.NetOfTax(ctx, fee, plan.TaxID)
	default:
		return fee
	}
}

func (r *Registry) isNetRateChannel(name string) bool {
	for _, c := range r.pricing.NetRateChannels {
		if c == normalizeChannelName(name) {
			return true
		}
	}
	return false
}

func bucketBounds(periodStart time.Time, iv interval.Interval) (time.Time, time.Time) {
	starts := interval.DatePeriod(periodStart, periodStart, iv)
	if len(starts) == 0 {
		return periodStart, periodStart
	}
	return starts[0], interval.BucketEnd(starts[0], iv)
}

func sortFlowRecords(records []rateflowdomain.FlowRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].CreatedOn.Equal(records[j].CreatedOn) {
			return records[i].CreatedOn.After(records[j].CreatedOn)
		}
		return records[i].DayFrom.Before(records[j].DayFrom)
	})
}
