package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Probe metrics
	ProbesTotal   *prometheus.CounterVec
	ProbeDuration prometheus.Histogram

	// Sweep metrics
	SweepsTotal   prometheus.Counter
	SweepDuration prometheus.Histogram

	// Registry metrics
	PathsRegistered prometheus.Gauge
	PathsByStatus   *prometheus.GaugeVec
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pathkeeper_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pathkeeper_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		ProbesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pathkeeper_storage_probes_total",
				Help: "Total number of path probes by resulting status",
			},
			[]string{"status"},
		),
		ProbeDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pathkeeper_storage_probe_duration_seconds",
				Help:    "Duration of individual path probes",
				Buckets: []float64{.005, .025, .1, .5, 1, 2.5, 5, 10},
			},
		),
		SweepsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pathkeeper_storage_sweeps_total",
				Help: "Total number of full health sweeps",
			},
		),
		SweepDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pathkeeper_storage_sweep_duration_seconds",
				Help:    "Duration of full health sweeps",
				Buckets: []float64{.01, .05, .25, 1, 5, 15, 30},
			},
		),
		PathsRegistered: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pathkeeper_storage_paths_registered",
				Help: "Number of registered storage paths",
			},
		),
		PathsByStatus: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pathkeeper_storage_paths_by_status",
				Help: "Number of storage paths per health status",
			},
			[]string{"status"},
		),
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordProbe records a single path probe
func (m *Metrics) RecordProbe(status string, duration time.Duration) {
	m.ProbesTotal.WithLabelValues(status).Inc()
	m.ProbeDuration.Observe(duration.Seconds())
}

// RecordSweep records a completed full health sweep
func (m *Metrics) RecordSweep(duration time.Duration) {
	m.SweepsTotal.Inc()
	m.SweepDuration.Observe(duration.Seconds())
}

// SetPathCounts updates the registry gauges
func (m *Metrics) SetPathCounts(total, healthy, degraded, unavailable int) {
	m.PathsRegistered.Set(float64(total))
	m.PathsByStatus.WithLabelValues("healthy").Set(float64(healthy))
	m.PathsByStatus.WithLabelValues("degraded").Set(float64(degraded))
	m.PathsByStatus.WithLabelValues("unavailable").Set(float64(unavailable))
}
