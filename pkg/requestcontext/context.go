// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Values are set by middleware (clinic context, request ID) and consumed by
// services. Keeping this package free of net/http lets services import only
// what they need.
//
// Usage in services (read values):
//
//	tenantID := requestcontext.TenantID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithTenantID(ctx, tenantID)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "sigilo/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	tenantIDKey    struct{}
	requesterIDKey struct{}
	roleKey        struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyTenantID    = tenantIDKey{}
	ContextKeyRequesterID = requesterIDKey{}
	ContextKeyRole        = roleKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// TenantID retrieves the clinic tenant from the context.
// Returns the zero value (nil UUID) if not set.
func TenantID(ctx context.Context) id.TenantID {
	if tenantID, ok := ctx.Value(ContextKeyTenantID).(id.TenantID); ok {
		return tenantID
	}
	return id.TenantID{}
}

// WithTenantID injects a tenant ID into the context.
func WithTenantID(ctx context.Context, tenantID id.TenantID) context.Context {
	return context.WithValue(ctx, ContextKeyTenantID, tenantID)
}

// RequesterID retrieves the authenticated requester from the context.
// Returns the zero value (nil UUID) if not set.
func RequesterID(ctx context.Context) id.RequesterID {
	if requesterID, ok := ctx.Value(ContextKeyRequesterID).(id.RequesterID); ok {
		return requesterID
	}
	return id.RequesterID{}
}

// WithRequesterID injects a requester ID into the context.
func WithRequesterID(ctx context.Context, requesterID id.RequesterID) context.Context {
	return context.WithValue(ctx, ContextKeyRequesterID, requesterID)
}

// Role retrieves the requester's asserted role from the context.
// Returns the empty string if not set.
func Role(ctx context.Context) id.Role {
	if role, ok := ctx.Value(ContextKeyRole).(id.Role); ok {
		return role
	}
	return ""
}

// WithRole injects a requester role into the context.
func WithRole(ctx context.Context, role id.Role) context.Context {
	return context.WithValue(ctx, ContextKeyRole, role)
}

// RequestID retrieves the request correlation ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() for non-HTTP contexts (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the full HTTP middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
