package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the Prometheus collectors for the aggregation pipeline.
// A nil *Registry is valid and records nothing.
type Registry struct {
	Refreshes           prometheus.Counter
	SourceFailures      *prometheus.CounterVec
	AggregationDuration prometheus.Histogram
	HistoryLength       prometheus.Gauge
	StaleSnapshots      prometheus.Counter
}

// NewRegistry creates the collectors and registers them with reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		Refreshes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "weather_refreshes_total",
				Help: "Number of accepted refreshes",
			},
		),
		SourceFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_source_failures_total",
				Help: "Source adapter failures by source and kind",
			},
			[]string{"source", "kind"},
		),
		AggregationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "weather_aggregation_duration_seconds",
				Help:    "Wall time of one aggregation across all sources",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		HistoryLength: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "weather_history_length",
				Help: "Snapshots currently retained",
			},
		),
		StaleSnapshots: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "weather_stale_snapshots_total",
				Help: "Snapshots discarded because a newer one was already stored",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(r.Refreshes, r.SourceFailures, r.AggregationDuration, r.HistoryLength, r.StaleSnapshots)
	}
	return r
}

func (r *Registry) ObserveRefresh(d time.Duration, historyLen int) {
	if r == nil {
		return
	}
	r.Refreshes.Inc()
	r.AggregationDuration.Observe(d.Seconds())
	r.HistoryLength.Set(float64(historyLen))
}

func (r *Registry) SourceFailed(source, kind string) {
	if r == nil {
		return
	}
	r.SourceFailures.WithLabelValues(source, kind).Inc()
}

func (r *Registry) StaleDiscarded() {
	if r == nil {
		return
	}
	r.StaleSnapshots.Inc()
}
