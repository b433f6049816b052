// Package audit records one immutable entry per disclosure request.
// Entries carry a one-way hash of the search term, never the plaintext,
// and are append-only: nothing in this engine updates or deletes them.
package audit

import (
	"time"

	"sigilo/internal/consent"
	"sigilo/internal/disclosure"
	id "sigilo/pkg/domain"
)

// LegalBasis is the data-protection justification recorded for a
// disclosure.
type LegalBasis string

const (
	BasisLegitimateInterests LegalBasis = "legitimate_interests"
	BasisVitalInterests      LegalBasis = "vital_interests"
)

// Entry is one audit record. Immutable once written.
type Entry struct {
	AuditID         id.AuditID             `json:"audit_id"`
	ActionTimestamp time.Time              `json:"action_timestamp"`
	TenantID        id.TenantID            `json:"tenant_id"`
	RequesterID     id.RequesterID         `json:"requester_id"`
	RequesterRole   id.Role                `json:"requester_role"`
	Purpose         id.Purpose             `json:"purpose"`
	SearchTermHash  string                 `json:"search_term_hash"`
	ResultCount     int                    `json:"result_count"`
	LegalBasis      LegalBasis             `json:"legal_basis"`
	ConsentStatus   consent.VerdictStatus  `json:"consent_verdict_status"`
	AccessGranted   disclosure.AccessLevel `json:"access_level_granted"`
	RequestID       string                 `json:"request_id"`
}
