// Package metrics exposes Prometheus instruments for the disclosure
// pipeline. All methods are nil-safe so tests can pass a nil *Metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SearchDuration   *prometheus.HistogramVec
	VerdictTotal     *prometheus.CounterVec
	DisclosureTotal  *prometheus.CounterVec
	AuditSinkFailure prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		SearchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sigilo_search_duration_seconds",
			Help:    "Patient search latency by search type.",
			Buckets: prometheus.DefBuckets,
		}, []string{"search_type"}),
		VerdictTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sigilo_consent_verdicts_total",
			Help: "Consent verdicts by status.",
		}, []string{"status"}),
		DisclosureTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sigilo_disclosures_total",
			Help: "Disclosure responses by role and granted access level.",
		}, []string{"role", "access_level"}),
		AuditSinkFailure: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sigilo_audit_sink_failures_total",
			Help: "Audit entries that could not be persisted synchronously.",
		}),
	}
}

func (m *Metrics) ObserveSearch(searchType string, d time.Duration) {
	if m == nil {
		return
	}
	m.SearchDuration.WithLabelValues(searchType).Observe(d.Seconds())
}

func (m *Metrics) CountVerdict(status string) {
	if m == nil {
		return
	}
	m.VerdictTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) CountDisclosure(role, accessLevel string) {
	if m == nil {
		return
	}
	m.DisclosureTotal.WithLabelValues(role, accessLevel).Inc()
}

func (m *Metrics) CountAuditFailure() {
	if m == nil {
		return
	}
	m.AuditSinkFailure.Inc()
}
