package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Terminal session metrics
	TerminalsActive  prometheus.Gauge
	TerminalsCreated prometheus.Counter

	// Cwd resolution metrics
	ResolutionsTotal   *prometheus.CounterVec
	ResolutionDuration prometheus.Histogram
	CandidatesProbed   prometheus.Histogram

	startTime time.Time
}

// NewMetrics creates a metrics collector on its own registry. Using a
// dedicated registry keeps repeated construction in tests from
// panicking on duplicate registration.
func NewMetrics() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termlens_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termlens_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "termlens_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		TerminalsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "termlens_terminals_active",
				Help: "Number of active terminal sessions",
			},
		),
		TerminalsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "termlens_terminals_created_total",
				Help: "Total number of terminal sessions created",
			},
		),

		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "termlens_cwd_resolutions_total",
				Help: "Total number of cwd resolution attempts by outcome",
			},
			[]string{"outcome"},
		),
		ResolutionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "termlens_cwd_resolution_duration_seconds",
				Help:    "End-to-end cwd resolution duration in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 15},
			},
		),
		CandidatesProbed: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "termlens_cwd_candidates_probed",
				Help:    "Number of candidate processes collected per resolution",
				Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
			},
		),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.ResponseSize,
		m.TerminalsActive,
		m.TerminalsCreated,
		m.ResolutionsTotal,
		m.ResolutionDuration,
		m.CandidatesProbed,
	)

	return m, reg
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	if respSize >= 0 {
		m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
	}
}

// RecordResolution records one cwd resolution attempt.
func (m *Metrics) RecordResolution(found bool, candidates int, duration time.Duration) {
	outcome := "found"
	if !found {
		outcome = "not_found"
	}
	m.ResolutionsTotal.WithLabelValues(outcome).Inc()
	m.ResolutionDuration.Observe(duration.Seconds())
	m.CandidatesProbed.Observe(float64(candidates))
}

// Uptime reports how long this collector has been alive.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}
