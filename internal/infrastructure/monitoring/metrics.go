package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the preview service.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Preview metrics
	PanelsCreated      prometheus.Counter
	PanelsActive       prometheus.Gauge
	GenerationDuration prometheus.Histogram
	DocumentsOpen      prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge

	startTime time.Time
}

// NewMetrics creates a metrics collector registered on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mappreview_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mappreview_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),

		PanelsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mappreview_panels_created_total",
			Help: "Preview panels created since startup",
		}),
		PanelsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mappreview_panels_active",
			Help: "Currently open preview panels",
		}),
		GenerationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mappreview_content_generation_duration_seconds",
			Help:    "Preview document generation duration",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
		}),
		DocumentsOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mappreview_documents_open",
			Help: "Documents held in the workspace registry",
		}),

		WSConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mappreview_ws_connections",
			Help: "Active change notification stream connections",
		}),
	}
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordPanelCreated records a panel creation and its generation time.
func (m *Metrics) RecordPanelCreated(generation time.Duration) {
	m.PanelsCreated.Inc()
	m.GenerationDuration.Observe(generation.Seconds())
}

// Uptime returns time since metrics creation.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}
