package rates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/staylytics/revpace/internal/config"
	"github.com/staylytics/revpace/internal/interval"
	rateflowdomain "github.com/staylytics/revpace/internal/rateflow/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fee(v float64) *float64 { return &v }

type flowsStub struct {
	mainPlan    *rateflowdomain.RatePlan
	mainPlanErr error
	website     []rateflowdomain.FlowRecord
	websiteErr  error
	channel     []rateflowdomain.FlowRecord
	channels    map[snowflake.ID]rateflowdomain.Channel
	plans       map[snowflake.ID]rateflowdomain.RatePlan
}

func (s flowsStub) MainRatePlan(context.Context) (*rateflowdomain.RatePlan, error) {
	return s.mainPlan, s.mainPlanErr
}

func (s flowsStub) ListRatePlans(context.Context) (map[snowflake.ID]rateflowdomain.RatePlan, error) {
	return s.plans, nil
}

func (s flowsStub) ListChannels(context.Context) (map[snowflake.ID]rateflowdomain.Channel, error) {
	return s.channels, nil
}

func (s flowsStub) ListWebsiteRecords(context.Context, time.Time, time.Time, time.Time, snowflake.ID) ([]rateflowdomain.FlowRecord, error) {
	return s.website, s.websiteErr
}

func (s flowsStub) ListChannelRecords(context.Context, time.Time, time.Time, rateflowdomain.ChannelFilter) ([]rateflowdomain.FlowRecord, error) {
	return s.channel, nil
}

// taxStub applies a flat 10% regardless of the tax id.
type taxStub struct{}

func (taxStub) NetOfTax(_ context.Context, amount float64, _ snowflake.ID) float64 {
	return amount / 1.1
}

func (taxStub) ApplyTax(_ context.Context, amount float64, _ snowflake.ID) float64 {
	return amount * 1.1
}

func newTestRegistry(flows flowsStub, pricing config.PricingConfig) *Registry {
	return &Registry{
		log:     zap.NewNop(),
		flows:   flows,
		taxes:   taxStub{},
		pricing: pricing,
		pickup:  day(2026, 6, 15),
		from:    day(2026, 7, 1),
		to:      day(2026, 8, 1),
	}
}

func TestSortFlowRecords(t *testing.T) {
	records := []rateflowdomain.FlowRecord{
		{ID: 1, CreatedOn: day(2026, 6, 1), DayFrom: day(2026, 7, 5)},
		{ID: 2, CreatedOn: day(2026, 6, 10), DayFrom: day(2026, 7, 3)},
		{ID: 3, CreatedOn: day(2026, 6, 10), DayFrom: day(2026, 7, 1)},
	}
	sortFlowRecords(records)

	assert.EqualValues(t, 3, records[0].ID)
	assert.EqualValues(t, 2, records[1].ID)
	assert.EqualValues(t, 1, records[2].ID)
}

func TestMatchPeriodLastFlowRecord(t *testing.T) {
	records := []rateflowdomain.FlowRecord{
		// Newest first, per the required sort order.
		{ID: 1, ListingID: 101, CreatedOn: day(2026, 6, 10), DayFrom: day(2026, 7, 10), DayTo: day(2026, 7, 20), NightlyFee: fee(120)},
		{ID: 2, ListingID: 101, CreatedOn: day(2026, 6, 5), DayFrom: day(2026, 7, 1), DayTo: day(2026, 7, 31), NightlyFee: fee(100)},
		{ID: 3, ListingID: 202, CreatedOn: day(2026, 6, 1), DayFrom: day(2026, 7, 1), DayTo: day(2026, 7, 31), NightlyFee: fee(90)},
	}

	// Inside the newer record's window the newer record wins.
	rec := MatchPeriodLastFlowRecord(records, day(2026, 7, 15), interval.Day, 101, nil)
	require.NotNil(t, rec)
	assert.EqualValues(t, 1, rec.ID)

	// Outside it the older record still applies.
	rec = MatchPeriodLastFlowRecord(records, day(2026, 7, 5), interval.Day, 101, nil)
	require.NotNil(t, rec)
	assert.EqualValues(t, 2, rec.ID)

	// DayTo is inclusive.
	rec = MatchPeriodLastFlowRecord(records, day(2026, 7, 20), interval.Day, 101, nil)
	require.NotNil(t, rec)
	assert.EqualValues(t, 1, rec.ID)

	// No record covers August.
	rec = MatchPeriodLastFlowRecord(records, day(2026, 8, 2), interval.Day, 101, nil)
	assert.Nil(t, rec)

	// Listing restriction.
	rec = MatchPeriodLastFlowRecord(records, day(2026, 7, 15), interval.Day, 202, nil)
	require.NotNil(t, rec)
	assert.EqualValues(t, 3, rec.ID)

	// Predicate filters.
	rec = MatchPeriodLastFlowRecord(records, day(2026, 7, 15), interval.Day, 101, func(fr rateflowdomain.FlowRecord) bool {
		return *fr.NightlyFee < 110
	})
	require.NotNil(t, rec)
	assert.EqualValues(t, 2, rec.ID)
}

func TestRegistry_NightlyRateSkipsRestrictionOnlyRecords(t *testing.T) {
	flows := flowsStub{
		mainPlan: &rateflowdomain.RatePlan{ID: 7, Main: true},
		website: []rateflowdomain.FlowRecord{
			{ID: 1, ListingID: 101, CreatedOn: day(2026, 6, 12), DayFrom: day(2026, 7, 1), DayTo: day(2026, 7, 31)},
			{ID: 2, ListingID: 101, CreatedOn: day(2026, 6, 5), DayFrom: day(2026, 7, 1), DayTo: day(2026, 7, 31), NightlyFee: fee(100)},
		},
	}
	r := newTestRegistry(flows, config.PricingConfig{})
	r.PreloadFlowRecords(context.Background())

	rate := r.MatchPeriodLastNightlyRate(day(2026, 7, 10), interval.Day, 101)
	require.NotNil(t, rate)
	assert.Equal(t, 100.0, *rate)

	// The restriction-only record still counts as the last variation.
	last := r.MatchPeriodLastFlowDate(day(2026, 7, 10), interval.Day, 101)
	require.NotNil(t, last)
	assert.Equal(t, day(2026, 6, 12), *last)
}

func TestRegistry_PreloadFailuresLeaveRegistryEmpty(t *testing.T) {
	for name, flows := range map[string]flowsStub{
		"plan lookup error": {mainPlanErr: errors.New("db down")},
		"no main plan":      {},
		"record load error": {mainPlan: &rateflowdomain.RatePlan{ID: 7}, websiteErr: errors.New("db down")},
	} {
		t.Run(name, func(t *testing.T) {
			r := newTestRegistry(flows, config.PricingConfig{})
			r.PreloadFlowRecords(context.Background())
			assert.Nil(t, r.MatchPeriodLastFlowDate(day(2026, 7, 10), interval.Day))
			assert.Nil(t, r.MatchPeriodLastNightlyRate(day(2026, 7, 10), interval.Day, 101))
		})
	}
}

func TestNormalizeChannelRate(t *testing.T) {
	plan := rateflowdomain.RatePlan{ID: 7, TaxID: 3}

	tests := []struct {
		name     string
		pricing  config.PricingConfig
		channel  string
		expected float64
	}{
		{
			name:     "tax inclusive, net channel gains tax",
			pricing:  config.PricingConfig{TaxInclusive: true, NetRateChannels: []string{"booking"}},
			channel:  "Booking",
			expected: 110,
		},
		{
			name:     "tax inclusive, gross channel passthrough",
			pricing:  config.PricingConfig{TaxInclusive: true, NetRateChannels: []string{"booking"}},
			channel:  "Airbnb",
			expected: 100,
		},
		{
			name:     "tax exclusive, gross channel loses tax",
			pricing:  config.PricingConfig{TaxInclusive: false, NetRateChannels: []string{"booking"}},
			channel:  "Airbnb",
			expected: 100 / 1.1,
		},
		{
			name:     "tax exclusive, net channel passthrough",
			pricing:  config.PricingConfig{TaxInclusive: false, NetRateChannels: []string{"booking"}},
			channel:  "Booking",
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(flowsStub{}, tt.pricing)
			got := r.NormalizeChannelRate(context.Background(), 100, tt.channel, plan)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}
