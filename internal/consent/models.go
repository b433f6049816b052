// Package consent evaluates whether a patient's recorded consent permits
// disclosure for a given purpose at a given instant. Evaluation is pure:
// same state, purpose, and clock always produce the same verdict.
package consent

import "time"

// Status is the consent lifecycle state recorded against a patient.
type Status string

const (
	StatusGiven   Status = "given"
	StatusRevoked Status = "revoked"
	StatusPending Status = "pending"
	StatusUnknown Status = "unknown"
)

// State is the consent snapshot stored on a patient record.
type State struct {
	Given          bool
	Status         Status
	RetentionUntil *time.Time
}

// VerdictStatus classifies the outcome of a consent evaluation.
type VerdictStatus string

const (
	VerdictValid             VerdictStatus = "valid"
	VerdictConsentNotGiven   VerdictStatus = "consent_not_given"
	VerdictRetentionExpired  VerdictStatus = "retention_expired"
	VerdictEmergencyOverride VerdictStatus = "emergency_override"

	// VerdictNotFound is an aggregate-level status: it is never produced by
	// evaluating a record, only reported when a search matched nothing.
	VerdictNotFound VerdictStatus = "not_found"
)

// Verdict is the result of evaluating one patient's consent state.
type Verdict struct {
	Status    VerdictStatus
	IsValid   bool
	ExpiresAt *time.Time
}
