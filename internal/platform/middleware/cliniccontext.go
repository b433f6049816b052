package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	id "sigilo/pkg/domain"
	dErrors "sigilo/pkg/domain-errors"
	"sigilo/pkg/platform/httputil"
	"sigilo/pkg/requestcontext"
)

// ClinicClaims are the values the clinic context provider asserts about a
// request. The engine trusts them; it does not re-validate requester roles
// against any directory.
type ClinicClaims struct {
	TenantID    string
	RequesterID string
	Role        string
}

// TokenValidator validates a clinic-context token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*ClinicClaims, error)
}

// RequireClinicContext authenticates the request and injects tenant,
// requester, and role into the request context. Requests without a valid
// clinic context never reach the disclosure pipeline.
func RequireClinicContext(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "clinic context token required"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestID,
					"error", err,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			tenantID, err := id.ParseTenantID(claims.TenantID)
			if err != nil {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "token carries no valid tenant"))
				return
			}
			requesterID, err := id.ParseRequesterID(claims.RequesterID)
			if err != nil {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "token carries no valid requester"))
				return
			}
			role, err := id.ParseRole(claims.Role)
			if err != nil {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "token carries no valid role"))
				return
			}

			ctx = requestcontext.WithTenantID(ctx, tenantID)
			ctx = requestcontext.WithRequesterID(ctx, requesterID)
			ctx = requestcontext.WithRole(ctx, role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
