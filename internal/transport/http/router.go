// Package httptransport assembles the HTTP surface: middleware chain,
// health and metrics endpoints, and the authenticated disclosure routes.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sigilo/internal/platform/metrics"
	"sigilo/internal/platform/middleware"
)

// Registrar mounts a module's routes on the router.
type Registrar interface {
	Register(r chi.Router)
}

// Deps carries everything the router needs.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	TokenValidator middleware.TokenValidator
	RequestTimeout time.Duration
	Handlers       []Registrar
}

// NewRouter builds the full middleware chain and mounts all routes.
// Disclosure routes sit behind the clinic-context guard; health and
// metrics do not.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Latency(deps.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireClinicContext(deps.TokenValidator, deps.Logger))
		for _, h := range deps.Handlers {
			h.Register(r)
		}
	})

	return r
}
