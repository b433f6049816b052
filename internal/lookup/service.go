// Package lookup orchestrates the disclosure pipeline: candidate search,
// per-record consent evaluation, policy redaction, and the single audit
// entry each request leaves behind.
package lookup

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"sigilo/internal/audit"
	"sigilo/internal/consent"
	"sigilo/internal/disclosure"
	"sigilo/internal/lookup/metrics"
	"sigilo/internal/patient"
	id "sigilo/pkg/domain"
	dErrors "sigilo/pkg/domain-errors"
	"sigilo/pkg/platform/sentinel"
	"sigilo/pkg/requestcontext"
)

// evalConcurrency bounds per-candidate evaluation goroutines.
const evalConcurrency = 4

// DisclosureContext carries the trusted per-request facts. Created fresh
// for every request; never cached.
type DisclosureContext struct {
	TenantID        id.TenantID
	RequesterID     id.RequesterID
	Role            id.Role
	Purpose         id.Purpose
	ConsentRequired bool
}

// Compliance summarizes the regulatory posture of one response.
type Compliance struct {
	LegalBasis   audit.LegalBasis       `json:"legal_basis"`
	AuditPending bool                   `json:"audit_pending"`
	AccessLevel  disclosure.AccessLevel `json:"access_level"`
}

// SearchResult is the outcome of one disclosure request.
type SearchResult struct {
	Patients      []disclosure.RedactedView
	TotalCount    int
	ConsentStatus consent.VerdictStatus
	AuditEntryID  id.AuditID
	Compliance    Compliance
}

// Service runs the disclosure pipeline.
type Service struct {
	repo            patient.Repository
	evaluator       *consent.Evaluator
	engine          *disclosure.Engine
	recorder        *audit.Recorder
	auditStore      audit.Store
	logger          *slog.Logger
	metrics         *metrics.Metrics
	tracer          trace.Tracer
	auditFailClosed bool
}

func NewService(
	repo patient.Repository,
	recorder *audit.Recorder,
	auditStore audit.Store,
	logger *slog.Logger,
	m *metrics.Metrics,
	auditFailClosed bool,
) *Service {
	return &Service{
		repo:            repo,
		evaluator:       consent.NewEvaluator(),
		engine:          disclosure.NewEngine(),
		recorder:        recorder,
		auditStore:      auditStore,
		logger:          logger,
		metrics:         m,
		tracer:          otel.Tracer("sigilo/lookup"),
		auditFailClosed: auditFailClosed,
	}
}

// Search resolves candidates for the term, evaluates consent per record,
// redacts each included record, and writes exactly one audit entry.
//
// An audit sink failure normally does not block the response; it is
// surfaced through Compliance.AuditPending. When the service is configured
// fail-closed, emergency requests are the exception and do fail.
func (s *Service) Search(ctx context.Context, dc DisclosureContext, searchType patient.SearchType, term string) (SearchResult, error) {
	ctx, span := s.tracer.Start(ctx, "lookup.Search",
		trace.WithAttributes(
			attribute.String("search.type", string(searchType)),
			attribute.String("request.role", string(dc.Role)),
			attribute.String("request.purpose", string(dc.Purpose)),
		),
	)
	defer span.End()

	start := time.Now()
	candidates, err := s.repo.FindCandidates(ctx, dc.TenantID, searchType, term)
	s.metrics.ObserveSearch(string(searchType), time.Since(start))
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			return SearchResult{}, dErrors.Wrap(dErrors.CodeRepository, "patient repository unavailable", err)
		}
		return SearchResult{}, dErrors.Wrap(dErrors.CodeInternal, "patient lookup failed", err)
	}

	now := requestcontext.Now(ctx)
	verdicts := make([]consent.Verdict, len(candidates))
	views := make([]disclosure.RedactedView, len(candidates))
	included := make([]bool, len(candidates))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(evalConcurrency)
	for i, rec := range candidates {
		g.Go(func() error {
			verdicts[i] = s.evaluator.Evaluate(rec.Consent, dc.Purpose, now)
			views[i], included[i] = s.redact(rec, dc, verdicts[i])
			return nil
		})
	}
	// Evaluation goroutines never return errors; the group is only a
	// bounded scheduler here.
	_ = g.Wait()

	result := SearchResult{TotalCount: len(candidates)}
	for i := range candidates {
		s.metrics.CountVerdict(string(verdicts[i].Status))
		if included[i] {
			result.Patients = append(result.Patients, views[i])
		}
	}
	result.ConsentStatus = aggregateStatus(dc.Purpose, verdicts)

	accessLevel := disclosure.PolicyFor(dc.Role, dc.Purpose, consent.Verdict{Status: result.ConsentStatus}).Level
	result.Compliance.AccessLevel = accessLevel
	s.metrics.CountDisclosure(string(dc.Role), string(accessLevel))

	entry, auditErr := s.recorder.Record(ctx, audit.RequestInfo{
		TenantID:      dc.TenantID,
		RequesterID:   dc.RequesterID,
		Role:          dc.Role,
		Purpose:       dc.Purpose,
		SearchTerm:    term,
		ResultCount:   len(result.Patients),
		ConsentStatus: result.ConsentStatus,
		AccessGranted: accessLevel,
	})
	result.AuditEntryID = entry.AuditID
	result.Compliance.LegalBasis = entry.LegalBasis

	if auditErr != nil {
		s.metrics.CountAuditFailure()
		if s.auditFailClosed && dc.Purpose == id.PurposeEmergency {
			return SearchResult{}, auditErr
		}
		s.logger.ErrorContext(ctx, "audit write failed, returning results anyway",
			"request_id", requestcontext.RequestID(ctx),
			"audit_id", entry.AuditID.String(),
			"error", auditErr,
		)
		result.Compliance.AuditPending = true
	}

	s.logger.InfoContext(ctx, "disclosure request served",
		"request_id", requestcontext.RequestID(ctx),
		"search_type", string(searchType),
		"role", string(dc.Role),
		"purpose", string(dc.Purpose),
		"candidates", len(candidates),
		"disclosed", len(result.Patients),
		"consent_status", string(result.ConsentStatus),
	)
	return result, nil
}

// redact applies the disclosure engine to one candidate. When the caller
// declared consentRequired=false, an invalid verdict no longer excludes
// the record; the verdict itself is still reported and audited.
func (s *Service) redact(rec patient.Record, dc DisclosureContext, verdict consent.Verdict) (disclosure.RedactedView, bool) {
	view, ok := s.engine.Apply(rec, dc.Role, dc.Purpose, verdict)
	if ok || dc.ConsentRequired {
		return view, ok
	}

	bypass := verdict
	bypass.IsValid = true
	return s.engine.Apply(rec, dc.Role, dc.Purpose, bypass)
}

// aggregateStatus folds per-record verdicts into the single status the
// response reports. Emergency overrides dominate, then any valid record,
// then the first blocking status; an empty candidate set is not_found.
func aggregateStatus(purpose id.Purpose, verdicts []consent.Verdict) consent.VerdictStatus {
	if len(verdicts) == 0 {
		return consent.VerdictNotFound
	}
	if purpose == id.PurposeEmergency {
		return consent.VerdictEmergencyOverride
	}
	for _, v := range verdicts {
		if v.Status == consent.VerdictValid {
			return consent.VerdictValid
		}
	}
	return verdicts[0].Status
}

// ListAuditEntries serves the compliance review endpoint.
func (s *Service) ListAuditEntries(ctx context.Context, tenantID id.TenantID, limit int) ([]audit.Entry, error) {
	entries, err := s.auditStore.ListByTenant(ctx, tenantID, limit)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeRepository, "list audit entries", err)
	}
	return entries, nil
}
