package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	dErrors "sigilo/pkg/domain-errors"
	"sigilo/pkg/platform/httputil"
	"sigilo/pkg/requestcontext"
)

// Recovery converts panics into 500 responses so a single bad request cannot
// take the process down.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "panic recovered",
						"request_id", requestcontext.RequestID(r.Context()),
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "internal error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
