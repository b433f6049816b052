package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-level HTTP metrics. Module-specific metrics live
// next to their modules.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
}

// New creates and registers the HTTP metrics.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sigilo_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "status"}),

		RequestsInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sigilo_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		}),
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, status).Observe(d.Seconds())
	}
}
