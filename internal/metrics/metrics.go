package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for the intake service.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP requests by method, route and status
	RequestsTotal *prometheus.CounterVec

	// HTTP request latency by method and route
	RequestDuration *prometheus.HistogramVec

	// Form submissions by step and outcome
	SubmissionsTotal *prometheus.CounterVec

	// Size of stored marksheet uploads
	UploadBytes prometheus.Histogram
}

// New creates a Metrics instance registered on its own registry, together
// with the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scholarship_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scholarship_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method and route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),

		SubmissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scholarship_submissions_total",
			Help: "Total application form submissions by step and outcome",
		}, []string{"step", "outcome"}), // step: "verify", "personal", "family", "track"

		UploadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scholarship_marksheet_upload_bytes",
			Help:    "Size of stored marksheet uploads in bytes",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 6),
		}),
	}
}

// Handler returns the HTTP handler exposing this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	if m != nil {
		m.RequestsTotal.WithLabelValues(method, route, status).Inc()
		m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
	}
}

// IncrementSubmission records the outcome of a workflow step.
func (m *Metrics) IncrementSubmission(step, outcome string) {
	if m != nil {
		m.SubmissionsTotal.WithLabelValues(step, outcome).Inc()
	}
}

// ObserveUpload records the size of a stored marksheet.
func (m *Metrics) ObserveUpload(size int64) {
	if m != nil {
		m.UploadBytes.Observe(float64(size))
	}
}
