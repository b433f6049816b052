package patient

import (
	"context"

	id "sigilo/pkg/domain"
)

// Repository finds patient candidates for a lookup. Implementations are
// always tenant-scoped: a record from another tenant must never match.
//
// The term is the already-validated search value: normalized digits for
// cpf and cns, the raw query for name.
type Repository interface {
	FindCandidates(ctx context.Context, tenantID id.TenantID, searchType SearchType, term string) ([]Record, error)
}

// Writer extends Repository for stores that also persist records. The
// lookup pipeline only needs Repository; seeding and admin tooling use
// Writer.
type Writer interface {
	Repository
	Save(ctx context.Context, rec Record) error
}
