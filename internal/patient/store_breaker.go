package patient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	id "sigilo/pkg/domain"
	"sigilo/pkg/platform/circuit"
	"sigilo/pkg/platform/sentinel"
)

// BreakerRepository guards a Repository with a circuit breaker. A run of
// infrastructure failures opens the circuit, and lookups then fail fast
// with the unavailable sentinel instead of piling onto a struggling
// database. Validation-style errors do not trip the breaker.
type BreakerRepository struct {
	inner   Repository
	breaker *circuit.Breaker
	logger  *slog.Logger

	// fastFails counts rejections while open; every probeEvery-th call is
	// let through so the circuit can close once the source recovers.
	fastFails atomic.Int64
}

// probeEvery controls how often an open circuit lets a probe call through.
const probeEvery = 10

func NewBreakerRepository(inner Repository, breaker *circuit.Breaker, logger *slog.Logger) *BreakerRepository {
	return &BreakerRepository{inner: inner, breaker: breaker, logger: logger}
}

func (r *BreakerRepository) FindCandidates(ctx context.Context, tenantID id.TenantID, searchType SearchType, term string) ([]Record, error) {
	if r.breaker.IsOpen() && r.fastFails.Add(1)%probeEvery != 0 {
		return nil, fmt.Errorf("patient repository circuit open: %w", sentinel.ErrUnavailable)
	}

	records, err := r.inner.FindCandidates(ctx, tenantID, searchType, term)
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			if _, change := r.breaker.RecordFailure(); change.Opened {
				r.logger.WarnContext(ctx, "patient repository circuit opened",
					"breaker", r.breaker.Name(),
				)
			}
		}
		return nil, err
	}

	if _, change := r.breaker.RecordSuccess(); change.Closed {
		r.logger.InfoContext(ctx, "patient repository circuit closed",
			"breaker", r.breaker.Name(),
		)
	}
	return records, nil
}
