package domain

import (
	"strings"

	dErrors "sigilo/pkg/domain-errors"
)

// Purpose labels why patient data is being requested. Purpose binding drives
// consent evaluation, field policy selection, and the legal basis recorded in
// the audit trail.
type Purpose string

const (
	PurposeConsultation   Purpose = "consultation"
	PurposeEmergency      Purpose = "emergency"
	PurposeAdministrative Purpose = "administrative"
	PurposeAudit          Purpose = "audit"
)

// validPurposes is the single source of truth for accepted purposes.
var validPurposes = map[Purpose]bool{
	PurposeConsultation:   true,
	PurposeEmergency:      true,
	PurposeAdministrative: true,
	PurposeAudit:          true,
}

// ParsePurpose constructs a Purpose from external input.
func ParsePurpose(raw string) (Purpose, error) {
	purpose := Purpose(strings.ToLower(strings.TrimSpace(raw)))
	if !validPurposes[purpose] {
		return "", dErrors.New(dErrors.CodeValidation, "unsupported access purpose")
	}
	return purpose, nil
}
