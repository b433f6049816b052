package testutil

import (
	"context"
	"net/http"

	id "sigilo/pkg/domain"
	"sigilo/pkg/requestcontext"
)

// WithClinicContext adds tenant, requester, and role to the request context.
// This simulates what the clinic-context middleware would do for an
// authenticated request. Invalid IDs are silently ignored.
func WithClinicContext(req *http.Request, tenantID, requesterID string, role id.Role) *http.Request {
	ctx := req.Context()
	if parsed, err := id.ParseTenantID(tenantID); err == nil {
		ctx = requestcontext.WithTenantID(ctx, parsed)
	}
	if parsed, err := id.ParseRequesterID(requesterID); err == nil {
		ctx = requestcontext.WithRequesterID(ctx, parsed)
	}
	if role != "" {
		ctx = requestcontext.WithRole(ctx, role)
	}
	return req.WithContext(ctx)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
