package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"sigilo/pkg/requestcontext"
)

// RequestIDHeader carries the correlation ID in and out of the service.
const RequestIDHeader = "X-Request-Id"

// RequestID assigns a correlation ID to each request, honoring an inbound
// header when the caller already has one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID set by this middleware.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
