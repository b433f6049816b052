package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"sigilo/internal/consent"
	"sigilo/internal/disclosure"
	id "sigilo/pkg/domain"
	dErrors "sigilo/pkg/domain-errors"
	"sigilo/pkg/requestcontext"
)

// HashSearchTerm is the only form in which a search term may persist.
func HashSearchTerm(term string) string {
	sum := sha256.Sum256([]byte(term))
	return hex.EncodeToString(sum[:])
}

// RequestInfo carries everything the recorder needs about one disclosure
// request. The raw search term is hashed immediately on entry.
type RequestInfo struct {
	TenantID      id.TenantID
	RequesterID   id.RequesterID
	Role          id.Role
	Purpose       id.Purpose
	SearchTerm    string
	ResultCount   int
	ConsentStatus consent.VerdictStatus
	AccessGranted disclosure.AccessLevel
}

// Recorder builds and persists one audit entry per request.
type Recorder struct {
	sink Sink
}

func NewRecorder(sink Sink) *Recorder {
	return &Recorder{sink: sink}
}

// Record writes the audit entry for a completed request. A sink failure is
// wrapped with the audit-write code but the built entry is still returned:
// the caller decides whether the failure blocks the response.
func (r *Recorder) Record(ctx context.Context, info RequestInfo) (Entry, error) {
	basis := BasisLegitimateInterests
	if info.Purpose == id.PurposeEmergency {
		basis = BasisVitalInterests
	}

	entry := Entry{
		AuditID:         id.NewAuditID(),
		ActionTimestamp: requestcontext.Now(ctx),
		TenantID:        info.TenantID,
		RequesterID:     info.RequesterID,
		RequesterRole:   info.Role,
		Purpose:         info.Purpose,
		SearchTermHash:  HashSearchTerm(info.SearchTerm),
		ResultCount:     info.ResultCount,
		LegalBasis:      basis,
		ConsentStatus:   info.ConsentStatus,
		AccessGranted:   info.AccessGranted,
		RequestID:       requestcontext.RequestID(ctx),
	}

	if err := r.sink.Append(ctx, entry); err != nil {
		return entry, dErrors.Wrap(dErrors.CodeAuditWrite, "append audit entry", err)
	}
	return entry, nil
}
