package disclosure

import (
	"sigilo/internal/consent"
	"sigilo/internal/patient"
	id "sigilo/pkg/domain"
)

// Engine applies field policies to raw patient records.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Apply redacts one record for the given requester and verdict. The second
// return value is false when the record must be excluded from the result
// set entirely: an invalid verdict outside an emergency.
func (e *Engine) Apply(rec patient.Record, role id.Role, purpose id.Purpose, verdict consent.Verdict) (RedactedView, bool) {
	if purpose != id.PurposeEmergency && !verdict.IsValid {
		return RedactedView{}, false
	}

	policy := PolicyFor(role, purpose, verdict)

	view := RedactedView{
		PatientID:   rec.ID.String(),
		AccessLevel: policy.Level,
		Metadata: MetadataFlags{
			HasActiveTreatment:   rec.ActiveTreatments > 0,
			HasAllergies:         rec.AllergyCount > 0,
			HasChronicConditions: rec.ChronicConditionCount > 0,
			InsuranceStatus:      insuranceStatus(rec.InsuranceActive),
		},
	}

	if policy.Grants(FieldFullName) {
		view.FullName = rec.FullName
	}
	if policy.Grants(FieldBirthDate) && !rec.BirthDate.IsZero() {
		view.BirthDate = rec.BirthDate.Format("2006-01-02")
	}
	if policy.Grants(FieldGender) {
		view.Gender = rec.Gender
	}
	view.Phone = applyField(policy, FieldPhone, rec.Phone)
	view.Email = applyField(policy, FieldEmail, rec.Email)
	view.EmergencyContact = applyField(policy, FieldEmergencyContact, rec.EmergencyContact)
	view.EmergencyPhone = applyField(policy, FieldEmergencyPhone, rec.EmergencyPhone)

	if policy.Grants(FieldLastVisit) {
		view.LastVisitAt = rec.LastVisitAt
	}
	if policy.Grants(FieldRetentionUntil) {
		view.RetentionUntil = rec.Consent.RetentionUntil
	}

	return view, true
}

// applyField returns the raw value, the masked value, or empty, depending
// on what the policy grants for the field.
func applyField(policy FieldPolicy, f Field, raw string) string {
	if _, ok := policy.Unmasked[f]; ok {
		return raw
	}
	if mask, ok := policy.Masked[f]; ok {
		return mask(raw)
	}
	return ""
}

func insuranceStatus(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
