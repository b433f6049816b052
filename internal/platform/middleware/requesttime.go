package middleware

import (
	"net/http"
	"time"

	"sigilo/pkg/requestcontext"
)

// RequestTime pins the request's wall-clock instant in the context so
// every consent evaluation and audit timestamp within one request agrees.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
