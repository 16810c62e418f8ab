package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline instrumentation counters.
type Metrics struct {
	RunsTotal    *prometheus.CounterVec
	RunDuration  prometheus.Histogram
	QueueDepth   prometheus.Gauge
	DispatchFail prometheus.Counter
}

// New registers the pipeline metrics on the given registerer. Pass
// prometheus.DefaultRegisterer in production, a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dealpipe_runs_total",
			Help: "Pipeline runs by outcome and failure stage.",
		}, []string{"outcome", "stage"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dealpipe_run_duration_seconds",
			Help:    "End to end duration of one pipeline run.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dealpipe_dispatch_queue_depth",
			Help: "Deals waiting in the dispatch queue.",
		}),
		DispatchFail: factory.NewCounter(prometheus.CounterOpts{
			Name: "dealpipe_dispatch_failures_total",
			Help: "Dispatch attempts rejected because the queue was full or closed.",
		}),
	}
}

// ObserveRun records one finished run.
func (m *Metrics) ObserveRun(outcome, stage string, elapsed time.Duration) {
	m.RunsTotal.WithLabelValues(outcome, stage).Inc()
	m.RunDuration.Observe(elapsed.Seconds())
}
