package audit

import (
	"context"

	id "sigilo/pkg/domain"
)

// Sink accepts audit entries. Append-only: the interface deliberately
// exposes no update or delete.
type Sink interface {
	Append(ctx context.Context, entry Entry) error
}

// Store is a Sink that can also be queried for compliance review.
type Store interface {
	Sink
	ListByTenant(ctx context.Context, tenantID id.TenantID, limit int) ([]Entry, error)
}
