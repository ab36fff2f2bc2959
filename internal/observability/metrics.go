package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// index pipeline.
type Metrics struct {
	BundlesConsumed prometheus.Counter
	ReportsProduced prometheus.Counter
	TransformErrors prometheus.Counter
	PipelineRunning prometheus.Gauge

	// Per-index computation metrics.
	IndicesComputed *prometheus.CounterVec   // label: index
	ComputeDuration *prometheus.HistogramVec // label: index

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		BundlesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climdex",
			Name:      "bundles_consumed_total",
			Help:      "Total observation bundles read from the source topic.",
		}),
		ReportsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climdex",
			Name:      "reports_produced_total",
			Help:      "Total index reports written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climdex",
			Name:      "transform_errors_total",
			Help:      "Total bundle transformation failures.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climdex",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		IndicesComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climdex",
			Name:      "indices_computed_total",
			Help:      "Index computations by index name.",
		}, []string{"index"}),
		ComputeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "climdex",
			Name:      "compute_duration_seconds",
			Help:      "Duration of a single index computation.",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"index"}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climdex",
			Name:      "batch_size",
			Help:      "Number of bundles per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climdex",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.BundlesConsumed,
		m.ReportsProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.IndicesComputed,
		m.ComputeDuration,
		m.BatchSize,
		m.BatchProcessingDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		BundlesConsumed:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climdex", Name: "bundles_consumed_total"}),
		ReportsProduced:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climdex", Name: "reports_produced_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climdex", Name: "transform_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "climdex", Name: "pipeline_running"}),
		IndicesComputed:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climdex", Name: "indices_computed_total"}, []string{"index"}),
		ComputeDuration:         prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "climdex", Name: "compute_duration_seconds"}, []string{"index"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "climdex", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "climdex", Name: "batch_processing_duration_seconds"}),
	}
}
