//go:build integration

package containers

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance with the
// service schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
	URL       string
}

const schema = `
CREATE TABLE IF NOT EXISTS patients (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL,
	full_name TEXT NOT NULL,
	birth_date TIMESTAMPTZ NOT NULL,
	gender TEXT NOT NULL DEFAULT '',
	cpf TEXT NOT NULL DEFAULT '',
	cns TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	emergency_contact TEXT NOT NULL DEFAULT '',
	emergency_phone TEXT NOT NULL DEFAULT '',
	last_visit_at TIMESTAMPTZ,
	consent_given BOOLEAN NOT NULL DEFAULT FALSE,
	consent_status TEXT NOT NULL DEFAULT 'unknown',
	retention_until TIMESTAMPTZ,
	active_treatments INT NOT NULL DEFAULT 0,
	allergy_count INT NOT NULL DEFAULT 0,
	chronic_condition_count INT NOT NULL DEFAULT 0,
	insurance_active BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_patients_tenant_cpf ON patients (tenant_id, cpf);
CREATE INDEX IF NOT EXISTS idx_patients_tenant_cns ON patients (tenant_id, cns);

CREATE TABLE IF NOT EXISTS audit_entries (
	audit_id UUID PRIMARY KEY,
	action_timestamp TIMESTAMPTZ NOT NULL,
	tenant_id UUID NOT NULL,
	requester_id UUID NOT NULL,
	requester_role TEXT NOT NULL,
	purpose TEXT NOT NULL,
	search_term_hash TEXT NOT NULL,
	result_count INT NOT NULL,
	legal_basis TEXT NOT NULL,
	consent_verdict_status TEXT NOT NULL,
	access_level_granted TEXT NOT NULL,
	request_id TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_audit_tenant_ts ON audit_entries (tenant_id, action_timestamp DESC);
`

// NewPostgresContainer starts a PostgreSQL container and applies the
// schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("sigilo_test"),
		tcpostgres.WithUsername("sigilo"),
		tcpostgres.WithPassword("sigilo"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	pc := &PostgresContainer{Container: container, Pool: pool, URL: url}
	t.Cleanup(func() {
		pc.Pool.Close()
		_ = pc.Container.Terminate(context.Background())
	})
	return pc
}

// TruncateTables clears the given tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE %s", strings.Join(tables, ", ")))
	return err
}
