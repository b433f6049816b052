package handler

import (
	"sigilo/internal/audit"
	"sigilo/internal/disclosure"
	"sigilo/internal/lookup"
)

// SearchResponse is the disclosure search reply.
type SearchResponse struct {
	Patients      []disclosure.RedactedView `json:"patients"`
	TotalCount    int                       `json:"total_count"`
	ConsentStatus string                    `json:"consent_status"`
	AuditEntryID  string                    `json:"audit_entry_id"`
	Compliance    lookup.Compliance         `json:"compliance"`
}

func toSearchResponse(result lookup.SearchResult) SearchResponse {
	patients := result.Patients
	if patients == nil {
		patients = []disclosure.RedactedView{}
	}
	return SearchResponse{
		Patients:      patients,
		TotalCount:    result.TotalCount,
		ConsentStatus: string(result.ConsentStatus),
		AuditEntryID:  result.AuditEntryID.String(),
		Compliance:    result.Compliance,
	}
}

// AuditListResponse is the compliance review reply.
type AuditListResponse struct {
	Entries []audit.Entry `json:"entries"`
	Count   int           `json:"count"`
}
