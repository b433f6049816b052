package disclosure

import "time"

// MetadataFlags are derived boolean summaries attached to every view.
// They carry no identifying detail and are safe at any access level.
type MetadataFlags struct {
	HasActiveTreatment   bool   `json:"has_active_treatment"`
	HasAllergies         bool   `json:"has_allergies"`
	HasChronicConditions bool   `json:"has_chronic_conditions"`
	InsuranceStatus      string `json:"insurance_status"`
}

// RedactedView is a patient record after field policy application. It is
// the only patient representation that leaves the engine. Withheld fields
// serialize as absent, not empty.
type RedactedView struct {
	PatientID string `json:"patient_id"`

	FullName  string `json:"full_name,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`
	Gender    string `json:"gender,omitempty"`

	Phone            string `json:"phone,omitempty"`
	Email            string `json:"email,omitempty"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
	EmergencyPhone   string `json:"emergency_phone,omitempty"`

	LastVisitAt    *time.Time `json:"last_visit_at,omitempty"`
	RetentionUntil *time.Time `json:"retention_until,omitempty"`

	AccessLevel AccessLevel   `json:"access_level"`
	Metadata    MetadataFlags `json:"metadata"`
}
