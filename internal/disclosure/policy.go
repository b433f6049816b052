// Package disclosure decides which fields of a patient record each
// requester may see, and in what form. Policy is a static table keyed by
// role and purpose; nothing here consults the network or the clock.
package disclosure

import (
	"sigilo/internal/consent"
	id "sigilo/pkg/domain"
)

// Field names one disclosable attribute of a patient record.
type Field string

const (
	FieldFullName         Field = "full_name"
	FieldBirthDate        Field = "birth_date"
	FieldGender           Field = "gender"
	FieldPhone            Field = "phone"
	FieldEmail            Field = "email"
	FieldEmergencyContact Field = "emergency_contact"
	FieldEmergencyPhone   Field = "emergency_phone"
	FieldLastVisit        Field = "last_visit"
	FieldRetentionUntil   Field = "retention_until"
)

// AccessLevel summarizes how much of the record a response carried. It is
// reported to the requester and written to the audit trail.
type AccessLevel string

const (
	AccessFull          AccessLevel = "full"
	AccessLimited       AccessLevel = "limited"
	AccessEmergencyOnly AccessLevel = "emergency_only"
)

// MaskFunc transforms a raw field value into its masked form.
type MaskFunc func(string) string

// FieldPolicy lists the fields a requester receives. Fields in Masked are
// disclosed after passing through their mask; everything absent from both
// sets is withheld entirely.
type FieldPolicy struct {
	Level    AccessLevel
	Unmasked map[Field]struct{}
	Masked   map[Field]MaskFunc
}

// Grants reports whether the policy discloses the field at all.
func (p FieldPolicy) Grants(f Field) bool {
	if _, ok := p.Unmasked[f]; ok {
		return true
	}
	_, ok := p.Masked[f]
	return ok
}

type policyKey struct {
	role    id.Role
	purpose id.Purpose
}

func fields(fs ...Field) map[Field]struct{} {
	m := make(map[Field]struct{}, len(fs))
	for _, f := range fs {
		m[f] = struct{}{}
	}
	return m
}

var (
	// doctorPolicy covers identity, demographics, unmasked contact, and the
	// last visit. The field set is fixed; only the access level downgrades
	// when the consent verdict is anything but plain valid.
	doctorPolicy = FieldPolicy{
		Level: AccessFull,
		Unmasked: fields(FieldFullName, FieldBirthDate, FieldGender, FieldPhone,
			FieldEmail, FieldLastVisit),
	}

	// nursePolicy exposes identity, demographics, and an unmasked phone.
	// No email.
	nursePolicy = FieldPolicy{
		Level:    AccessLimited,
		Unmasked: fields(FieldFullName, FieldBirthDate, FieldGender, FieldPhone),
	}

	// receptionistPolicy exposes identity plus masked contact channels and
	// withholds demographics entirely.
	receptionistPolicy = FieldPolicy{
		Level:    AccessLimited,
		Unmasked: fields(FieldFullName, FieldBirthDate),
		Masked: map[Field]MaskFunc{
			FieldPhone: MaskPhone,
			FieldEmail: MaskEmail,
		},
	}

	// adminAuditPolicy serves compliance reviews: identity, demographics,
	// and retention metadata, never contact channels.
	adminAuditPolicy = FieldPolicy{
		Level:    AccessFull,
		Unmasked: fields(FieldFullName, FieldBirthDate, FieldGender, FieldRetentionUntil),
	}

	// adminDefaultPolicy is identity only.
	adminDefaultPolicy = FieldPolicy{
		Level:    AccessLimited,
		Unmasked: fields(FieldFullName, FieldBirthDate),
	}

	// emergencyPolicy applies to every role when the purpose is emergency:
	// identity, contact, emergency contact, and retention metadata. The
	// emergency_only level flags the override on every such disclosure.
	emergencyPolicy = FieldPolicy{
		Level: AccessEmergencyOnly,
		Unmasked: fields(FieldFullName, FieldBirthDate, FieldPhone, FieldEmail,
			FieldEmergencyContact, FieldEmergencyPhone, FieldRetentionUntil),
	}
)

var policyTable = map[policyKey]FieldPolicy{
	{id.RoleDoctor, id.PurposeConsultation}:         doctorPolicy,
	{id.RoleDoctor, id.PurposeAdministrative}:       doctorPolicy,
	{id.RoleDoctor, id.PurposeAudit}:                doctorPolicy,
	{id.RoleNurse, id.PurposeConsultation}:          nursePolicy,
	{id.RoleNurse, id.PurposeAdministrative}:        nursePolicy,
	{id.RoleNurse, id.PurposeAudit}:                 nursePolicy,
	{id.RoleReceptionist, id.PurposeConsultation}:   receptionistPolicy,
	{id.RoleReceptionist, id.PurposeAdministrative}: receptionistPolicy,
	{id.RoleReceptionist, id.PurposeAudit}:          receptionistPolicy,
	{id.RoleAdmin, id.PurposeAudit}:                 adminAuditPolicy,
	{id.RoleAdmin, id.PurposeConsultation}:          adminDefaultPolicy,
	{id.RoleAdmin, id.PurposeAdministrative}:        adminDefaultPolicy,
}

// PolicyFor resolves the field policy for one disclosure. Emergency
// purpose selects the emergency policy for every role; otherwise the
// (role, purpose) table decides, with a doctor's full access level
// downgrading to limited when the verdict is not plain valid.
func PolicyFor(role id.Role, purpose id.Purpose, verdict consent.Verdict) FieldPolicy {
	if purpose == id.PurposeEmergency {
		return emergencyPolicy
	}

	policy, ok := policyTable[policyKey{role, purpose}]
	if !ok {
		return adminDefaultPolicy
	}

	if role == id.RoleDoctor && verdict.Status != consent.VerdictValid {
		policy.Level = AccessLimited
	}
	return policy
}
