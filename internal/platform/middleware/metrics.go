package middleware

import (
	"net/http"
	"strconv"
	"time"

	"sigilo/internal/platform/metrics"
)

// Latency records per-request duration and in-flight gauge updates.
func Latency(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}

			m.RequestsInFlight.Inc()
			defer m.RequestsInFlight.Dec()

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			m.ObserveRequest(r.URL.Path, strconv.Itoa(rec.status), time.Since(start))
		})
	}
}
