package handler

import (
	"context"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"sigilo/internal/audit"
	"sigilo/internal/lookup"
	"sigilo/internal/patient"
	id "sigilo/pkg/domain"
	dErrors "sigilo/pkg/domain-errors"
	"sigilo/pkg/platform/httputil"
	"sigilo/pkg/requestcontext"
)

// Service defines the lookup operations the handler needs.
type Service interface {
	Search(ctx context.Context, dc lookup.DisclosureContext, searchType patient.SearchType, term string) (lookup.SearchResult, error)
	ListAuditEntries(ctx context.Context, tenantID id.TenantID, limit int) ([]audit.Entry, error)
}

// Handler wires disclosure endpoints to the lookup service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts disclosure endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/disclosure/search", h.HandleSearch)
	r.Get("/disclosure/audit", h.HandleListAudit)
}

// HandleSearch handles POST /disclosure/search requests.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	dc, ok := clinicContext(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "clinic context required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[SearchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	dc.Purpose = req.ParsedPurpose
	dc.ConsentRequired = req.ParsedConsentRequired

	result, err := h.service.Search(ctx, dc, req.ParsedType, req.ParsedTerm)
	if err != nil {
		h.logger.ErrorContext(ctx, "disclosure search failed",
			"request_id", requestID,
			"search_type", req.SearchType,
			"purpose", req.Purpose,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toSearchResponse(result))
}

// HandleListAudit handles GET /disclosure/audit requests. Admin only.
func (h *Handler) HandleListAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	dc, ok := clinicContext(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "clinic context required"))
		return
	}
	if dc.Role != id.RoleAdmin {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "audit review is admin only"))
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 1000 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be between 1 and 1000"))
			return
		}
		limit = parsed
	}

	entries, err := h.service.ListAuditEntries(ctx, dc.TenantID, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit listing failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}

	httputil.WriteJSON(w, http.StatusOK, AuditListResponse{Entries: entries, Count: len(entries)})
}

// clinicContext collects the trusted per-request identity values. All
// three must be present; the middleware guarantees this on mounted routes.
func clinicContext(ctx context.Context) (lookup.DisclosureContext, bool) {
	dc := lookup.DisclosureContext{
		TenantID:    requestcontext.TenantID(ctx),
		RequesterID: requestcontext.RequesterID(ctx),
		Role:        requestcontext.Role(ctx),
	}
	if dc.TenantID.IsNil() || dc.RequesterID.IsNil() || dc.Role == "" {
		return lookup.DisclosureContext{}, false
	}
	return dc, true
}
