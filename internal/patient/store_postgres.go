package patient

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sigilo/internal/consent"
	id "sigilo/pkg/domain"
	"sigilo/pkg/platform/sentinel"
)

const patientColumns = `
	id, tenant_id, full_name, birth_date, gender, cpf, cns,
	phone, email, emergency_contact, emergency_phone, last_visit_at,
	consent_given, consent_status, retention_until,
	active_treatments, allergy_count, chronic_condition_count, insurance_active,
	created_at, updated_at`

// PostgresStore is the production patient repository backed by pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) FindCandidates(ctx context.Context, tenantID id.TenantID, searchType SearchType, term string) ([]Record, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE tenant_id = $1 AND `
	arg := term
	switch searchType {
	case SearchByCPF:
		query += `cpf = $2`
	case SearchByCNS:
		query += `cns = $2`
	case SearchByName:
		query += `full_name ILIKE $2`
		arg = "%" + term + "%"
	default:
		return nil, fmt.Errorf("unknown search type %q", searchType)
	}
	query += ` ORDER BY full_name`

	rows, err := s.pool.Query(ctx, query, tenantID.String(), arg)
	if err != nil {
		return nil, fmt.Errorf("find patient candidates: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patient candidates: %w: %w", sentinel.ErrUnavailable, err)
	}
	return out, nil
}

func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO patients (`+patientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			birth_date = EXCLUDED.birth_date,
			gender = EXCLUDED.gender,
			cpf = EXCLUDED.cpf,
			cns = EXCLUDED.cns,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			emergency_contact = EXCLUDED.emergency_contact,
			emergency_phone = EXCLUDED.emergency_phone,
			last_visit_at = EXCLUDED.last_visit_at,
			consent_given = EXCLUDED.consent_given,
			consent_status = EXCLUDED.consent_status,
			retention_until = EXCLUDED.retention_until,
			active_treatments = EXCLUDED.active_treatments,
			allergy_count = EXCLUDED.allergy_count,
			chronic_condition_count = EXCLUDED.chronic_condition_count,
			insurance_active = EXCLUDED.insurance_active,
			updated_at = EXCLUDED.updated_at`,
		rec.ID.String(), rec.TenantID.String(), rec.FullName, rec.BirthDate, rec.Gender,
		rec.CPF, rec.CNS, rec.Phone, rec.Email, rec.EmergencyContact, rec.EmergencyPhone,
		rec.LastVisitAt, rec.Consent.Given, string(rec.Consent.Status), rec.Consent.RetentionUntil,
		rec.ActiveTreatments, rec.AllergyCount, rec.ChronicConditionCount, rec.InsuranceActive,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save patient: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec           Record
		patientID     string
		tenantID      string
		consentStatus string
	)
	err := row.Scan(
		&patientID, &tenantID, &rec.FullName, &rec.BirthDate, &rec.Gender,
		&rec.CPF, &rec.CNS, &rec.Phone, &rec.Email, &rec.EmergencyContact,
		&rec.EmergencyPhone, &rec.LastVisitAt,
		&rec.Consent.Given, &consentStatus, &rec.Consent.RetentionUntil,
		&rec.ActiveTreatments, &rec.AllergyCount, &rec.ChronicConditionCount,
		&rec.InsuranceActive, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return Record{}, err
	}

	if rec.ID, err = id.ParsePatientID(patientID); err != nil {
		return Record{}, fmt.Errorf("stored patient id: %w", err)
	}
	if rec.TenantID, err = id.ParseTenantID(tenantID); err != nil {
		return Record{}, fmt.Errorf("stored tenant id: %w", err)
	}
	rec.Consent.Status = consent.Status(consentStatus)
	return rec, nil
}
