// Package patient holds the patient record model and its repositories.
// Records carry raw demographic and contact data; nothing in this package
// redacts. Redaction happens downstream and raw records never leave the
// service layer.
package patient

import (
	"time"

	"sigilo/internal/consent"
	id "sigilo/pkg/domain"
	dErrors "sigilo/pkg/domain-errors"
)

// SearchType selects which field a lookup matches against.
type SearchType string

const (
	SearchByCPF  SearchType = "cpf"
	SearchByCNS  SearchType = "cns"
	SearchByName SearchType = "name"
)

var validSearchTypes = map[SearchType]struct{}{
	SearchByCPF:  {},
	SearchByCNS:  {},
	SearchByName: {},
}

func ParseSearchType(raw string) (SearchType, error) {
	st := SearchType(raw)
	if _, ok := validSearchTypes[st]; !ok {
		return "", dErrors.New(dErrors.CodeValidation, "unknown search type")
	}
	return st, nil
}

// Record is a stored patient. CPF and CNS hold validated digit strings;
// they are matched exactly, never fuzzily.
type Record struct {
	ID       id.PatientID
	TenantID id.TenantID

	FullName  string
	BirthDate time.Time
	Gender    string

	CPF string
	CNS string

	Phone            string
	Email            string
	EmergencyContact string
	EmergencyPhone   string

	LastVisitAt *time.Time
	Consent     consent.State

	ActiveTreatments      int
	AllergyCount          int
	ChronicConditionCount int
	InsuranceActive       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
