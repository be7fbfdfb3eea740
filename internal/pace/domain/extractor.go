package domain

import "time"

// Extractor computes one metric for one evaluation period. Extractors
// are stateless except where a constructor captures a fixed booking
// snapshot for cross-period lookups. Dependencies are declared, not
// implied: the pipeline builder orders extractors by DependsOn before
// a run, so a later extractor can read its dependencies from prior.
type Extractor interface {
	ID() string
	DependsOn() []string
	Extract(p *PaceDataPeriod, prior MetricSet) (MetricValue, error)
}

// PaceResult is the assembled time series of one pipeline run, keyed
// by pickup date then sub-period.
type PaceResult struct {
	RunID    string         `json:"run_id"`
	Interval string         `json:"interval"`
	Series   []PickupSeries `json:"series"`
}

type PickupSeries struct {
	Pickup  time.Time       `json:"pickup"`
	Periods []PeriodMetrics `json:"periods"`
}

type PeriodMetrics struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Values MetricSet `json:"values"`
}
