package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"sigilo/internal/consent"
	"sigilo/internal/disclosure"
	id "sigilo/pkg/domain"
	"sigilo/pkg/platform/sentinel"
)

// PostgresStore persists audit entries in PostgreSQL. The table carries no
// update or delete path from this engine; retention is an external policy.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_entries (
			audit_id, action_timestamp, tenant_id, requester_id, requester_role,
			purpose, search_term_hash, result_count, legal_basis,
			consent_verdict_status, access_level_granted, request_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		entry.AuditID.String(), entry.ActionTimestamp, entry.TenantID.String(),
		entry.RequesterID.String(), string(entry.RequesterRole), string(entry.Purpose),
		entry.SearchTermHash, entry.ResultCount, string(entry.LegalBasis),
		string(entry.ConsentStatus), string(entry.AccessGranted), entry.RequestID,
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT audit_id, action_timestamp, tenant_id, requester_id, requester_role,
		       purpose, search_term_hash, result_count, legal_basis,
		       consent_verdict_status, access_level_granted, request_id
		FROM audit_entries
		WHERE tenant_id = $1
		ORDER BY action_timestamp DESC
		LIMIT $2`,
		tenantID.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			entry                                    Entry
			auditID, tenant, requester               string
			role, purpose, basis, consentSt, granted string
		)
		err := rows.Scan(
			&auditID, &entry.ActionTimestamp, &tenant, &requester, &role,
			&purpose, &entry.SearchTermHash, &entry.ResultCount, &basis,
			&consentSt, &granted, &entry.RequestID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if entry.AuditID, err = id.ParseAuditID(auditID); err != nil {
			return nil, fmt.Errorf("stored audit id: %w", err)
		}
		if entry.TenantID, err = id.ParseTenantID(tenant); err != nil {
			return nil, fmt.Errorf("stored tenant id: %w", err)
		}
		if entry.RequesterID, err = id.ParseRequesterID(requester); err != nil {
			return nil, fmt.Errorf("stored requester id: %w", err)
		}
		entry.RequesterRole = id.Role(role)
		entry.Purpose = id.Purpose(purpose)
		entry.LegalBasis = LegalBasis(basis)
		entry.ConsentStatus = consent.VerdictStatus(consentSt)
		entry.AccessGranted = disclosure.AccessLevel(granted)
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w: %w", sentinel.ErrUnavailable, err)
	}
	return out, nil
}
