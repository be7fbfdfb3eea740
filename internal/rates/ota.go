package rates

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/staylytics/revpace/internal/interval"
	rateflowdomain "github.com/staylytics/revpace/internal/rateflow/domain"
	"go.uber.org/zap"
)

// OtaRequest describes an interactive OTA rate-series query.
type OtaRequest struct {
	From   time.Time
	To     time.Time
	Filter rateflowdomain.ChannelFilter
}

// ChannelMeta identifies one channel in an OTA series response.
type ChannelMeta struct {
	ID   snowflake.ID `json:"id"`
	Name string       `json:"name"`
}

// ListingSeries is the per-day nightly rate series of one
// (listing, rate plan, channel) combination. Rates are keyed by
// calendar date (2006-01-02) and already normalized to the property's
// comparison basis.
type ListingSeries struct {
	ListingID  snowflake.ID       `json:"listing_id"`
	RatePlanID snowflake.ID       `json:"rate_plan_id"`
	ChannelID  snowflake.ID       `json:"channel_id"`
	Rates      map[string]float64 `json:"rates"`
}

type OtaRateSeries struct {
	Channels []ChannelMeta   `json:"channels"`
	Series   []ListingSeries `json:"series"`
}

// LoadOtaFlowRecords builds a per-day nightly-rate series for every
// (listing, rate plan, channel) combination observed in the channel
// record set over [req.From, req.To]. Unlike the passive preload path,
// load failures here propagate: this endpoint is interactive and the
// caller reports errors to the user. Combinations with no priced match
// across the whole span are omitted.
func (r *Registry) LoadOtaFlowRecords(ctx context.Context, req OtaRequest) (*OtaRateSeries, error) {
	if req.To.Before(req.From) {
		return nil, fmt.Errorf("rates: invalid date span %s..%s", req.From.Format("2006-01-02"), req.To.Format("2006-01-02"))
	}

	key := otaCacheKey(req)
	if r.cache != nil {
		var cached OtaRateSeries
		if r.cache.Get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	channels, err := r.flows.ListChannels(ctx)
	if err != nil {
		return nil, fmt.Errorf("rates: channel list: %w", err)
	}
	plans, err := r.flows.ListRatePlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("rates: rate plan list: %w", err)
	}

	spanEnd := interval.BucketEnd(req.To, interval.Day)
	records, err := r.flows.ListChannelRecords(ctx, req.From, spanEnd, req.Filter)
	if err != nil {
		return nil, fmt.Errorf("rates: channel record load: %w", err)
	}
	sortFlowRecords(records)

	type comboKey struct {
		listing snowflake.ID
		plan    snowflake.ID
		channel snowflake.ID
	}
	combos := make(map[comboKey]struct{})
	var order []comboKey
	for _, rec := range records {
		ck := comboKey{rec.ListingID, rec.RatePlanID, rec.ChannelID}
		if _, ok := combos[ck]; !ok {
			combos[ck] = struct{}{}
			order = append(order, ck)
		}
	}

	days := interval.DatePeriod(req.From, req.To, interval.Day)
	usedChannels := make(map[snowflake.ID]struct{})

	var series []ListingSeries
	for _, combo := range order {
		plan := plans[combo.plan]
		channelName := channels[combo.channel].Name

		rates := make(map[string]float64, len(days))
		for _, day := range days {
			rec := MatchPeriodLastFlowRecord(records, day, interval.Day, combo.listing, func(fr rateflowdomain.FlowRecord) bool {
				return fr.ChannelID == combo.channel && fr.RatePlanID == combo.plan && fr.NightlyFee != nil
			})
			if rec == nil {
				continue
			}
			rate := r.NormalizeChannelRate(ctx, *rec.NightlyFee, channelName, plan)
			rates[day.Format("2006-01-02")] = round2(rate)
		}
		if len(rates) == 0 {
			continue
		}

		usedChannels[combo.channel] = struct{}{}
		series = append(series, ListingSeries{
			ListingID:  combo.listing,
			RatePlanID: combo.plan,
			ChannelID:  combo.channel,
			Rates:      rates,
		})
	}

	sort.SliceStable(series, func(i, j int) bool {
		if series[i].ListingID != series[j].ListingID {
			return series[i].ListingID < series[j].ListingID
		}
		if series[i].RatePlanID != series[j].RatePlanID {
			return series[i].RatePlanID < series[j].RatePlanID
		}
		return series[i].ChannelID < series[j].ChannelID
	})

	result := &OtaRateSeries{
		Channels: r.orderChannels(channels, usedChannels),
		Series:   series,
	}

	if r.cache != nil {
		r.cache.Set(ctx, key, result)
	}
	r.log.Debug("ota rate series loaded",
		zap.Int("records", len(records)),
		zap.Int("series", len(series)),
	)
	return result, nil
}

// orderChannels lists the channels present in the result, major
// channels first (in configured order), the rest alphabetical.
func (r *Registry) orderChannels(all map[snowflake.ID]rateflowdomain.Channel, used map[snowflake.ID]struct{}) []ChannelMeta {
	var metas []ChannelMeta
	for id := range used {
		metas = append(metas, ChannelMeta{ID: id, Name: all[id].Name})
	}

	rank := func(name string) int {
		for i, major := range r.pricing.MajorChannels {
			if normalizeChannelName(name) == major {
				return i
			}
		}
		return len(r.pricing.MajorChannels)
	}
	sort.SliceStable(metas, func(i, j int) bool {
		ri, rj := rank(metas[i].Name), rank(metas[j].Name)
		if ri != rj {
			return ri < rj
		}
		return strings.ToLower(metas[i].Name) < strings.ToLower(metas[j].Name)
	})
	return metas
}

func normalizeChannelName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
