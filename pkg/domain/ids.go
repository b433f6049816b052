package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "sigilo/pkg/domain-errors"
)

// Typed IDs prevent cross-type assignment at compile time. A requester ID can
// never be passed where a tenant ID is expected, which keeps tenant isolation
// explicit in every signature.
//
// Invariant: IDs must be valid, non-nil UUIDs. Construct via the Parse
// functions at trust boundaries; direct casting bypasses validation.
type (
	// TenantID identifies a clinic. Every repository and audit call is
	// scoped by it.
	TenantID uuid.UUID

	// RequesterID identifies the authenticated professional making a
	// disclosure request.
	RequesterID uuid.UUID

	// PatientID identifies a patient record inside a tenant.
	PatientID uuid.UUID

	// AuditID identifies an immutable audit entry.
	AuditID uuid.UUID
)

func parseID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be empty")
	}
	if len(raw) > 64 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is too long")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return parsed, nil
}

// ParseTenantID constructs a TenantID from external input.
func ParseTenantID(raw string) (TenantID, error) {
	parsed, err := parseID(raw)
	if err != nil {
		return TenantID{}, err
	}
	return TenantID(parsed), nil
}

// ParseRequesterID constructs a RequesterID from external input.
func ParseRequesterID(raw string) (RequesterID, error) {
	parsed, err := parseID(raw)
	if err != nil {
		return RequesterID{}, err
	}
	return RequesterID(parsed), nil
}

// ParsePatientID constructs a PatientID from external input.
func ParsePatientID(raw string) (PatientID, error) {
	parsed, err := parseID(raw)
	if err != nil {
		return PatientID{}, err
	}
	return PatientID(parsed), nil
}

// ParseAuditID constructs an AuditID from stored or external input.
func ParseAuditID(raw string) (AuditID, error) {
	parsed, err := parseID(raw)
	if err != nil {
		return AuditID{}, err
	}
	return AuditID(parsed), nil
}

// NewAuditID generates a fresh audit entry ID.
func NewAuditID() AuditID { return AuditID(uuid.New()) }

func (id TenantID) String() string    { return uuid.UUID(id).String() }
func (id RequesterID) String() string { return uuid.UUID(id).String() }
func (id PatientID) String() string   { return uuid.UUID(id).String() }
func (id AuditID) String() string     { return uuid.UUID(id).String() }

// The defined types do not inherit uuid.UUID's text marshalling, so without
// these json.Marshal would emit the raw 16-byte array. Every JSON surface
// (API responses, Kafka payloads, cache entries) must carry the canonical
// string form.
func (id TenantID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id RequesterID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id PatientID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }
func (id AuditID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }

func (id *TenantID) UnmarshalText(data []byte) error    { return (*uuid.UUID)(id).UnmarshalText(data) }
func (id *RequesterID) UnmarshalText(data []byte) error { return (*uuid.UUID)(id).UnmarshalText(data) }
func (id *PatientID) UnmarshalText(data []byte) error   { return (*uuid.UUID)(id).UnmarshalText(data) }
func (id *AuditID) UnmarshalText(data []byte) error     { return (*uuid.UUID)(id).UnmarshalText(data) }

func (id TenantID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id RequesterID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id PatientID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id AuditID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
