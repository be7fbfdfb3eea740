// Package observability wires the zap logger and the prometheus
// registry shared by every service.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/staylytics/revpace/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("observability",
	fx.Provide(NewLogger),
	fx.Provide(NewRegistry),
	fx.Provide(NewMetrics),
)

func NewLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Env == "dev" || cfg.Env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Metrics holds the engine-level instruments.
type Metrics struct {
	PaceRuns        *prometheus.CounterVec
	PaceRunDuration prometheus.Histogram
	OtaLoads        *prometheus.CounterVec
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		PaceRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "revpace_pace_runs_total",
			Help: "Pace pipeline runs by outcome.",
		}, []string{"status"}),
		PaceRunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "revpace_pace_run_duration_seconds",
			Help:    "Wall time of a full pace pipeline run.",
			Buckets: prometheus.DefBuckets,
		}),
		OtaLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "revpace_ota_loads_total",
			Help: "OTA rate-series loads by outcome.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.PaceRuns, m.PaceRunDuration, m.OtaLoads)
	return m
}
