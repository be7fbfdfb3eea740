package extractors

import (
	pacedomain "github.com/staylytics/revpace/internal/pace/domain"
)

// HotEvents surfaces the calendar events matched against the period.
type HotEvents struct{}

func (HotEvents) ID() string          { return MetricHotEvents }
func (HotEvents) DependsOn() []string { return nil }

func (HotEvents) Extract(p *pacedomain.PaceDataPeriod, _ pacedomain.MetricSet) (pacedomain.MetricValue, error) {
	return pacedomain.Events(p.Events), nil
}
