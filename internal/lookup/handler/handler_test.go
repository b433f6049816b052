package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigilo/internal/audit"
	"sigilo/internal/consent"
	"sigilo/internal/lookup"
	"sigilo/internal/patient"
	id "sigilo/pkg/domain"
	"sigilo/pkg/testutil"
)

const (
	testTenantID    = "0b8f1c6e-1111-4f60-9a2b-3d4e5f607182"
	testRequesterID = "9d7c2a4b-2222-4f60-9a2b-3d4e5f607182"
)

func newTestHandler(t *testing.T) (*Handler, *patient.MemoryStore, *audit.MemoryStore) {
	t.Helper()
	store := patient.NewMemoryStore()
	auditStore := audit.NewMemoryStore()
	logger := slog.New(slog.DiscardHandler)
	service := lookup.NewService(store, audit.NewRecorder(auditStore), auditStore, logger, nil, false)
	return New(service, logger), store, auditStore
}

func newRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func seedPatient(t *testing.T, store *patient.MemoryStore) {
	t.Helper()
	tenantID, err := id.ParseTenantID(testTenantID)
	require.NoError(t, err)
	patientID, err := id.ParsePatientID("4fa2b1c0-0000-4000-8000-111444777350")
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), patient.Record{
		ID:        patientID,
		TenantID:  tenantID,
		FullName:  "Ana Clara Souza",
		BirthDate: time.Date(1985, 4, 12, 0, 0, 0, 0, time.UTC),
		Gender:    "female",
		CPF:       "11144477735",
		Phone:     "11912345678",
		Email:     "ana.souza@example.com",
		Consent:   consent.State{Given: true, Status: consent.StatusGiven},
	}))
}

func TestHandleSearch_Success(t *testing.T) {
	h, store, _ := newTestHandler(t)
	seedPatient(t, store)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/disclosure/search", map[string]any{
		"search_type":  "cpf",
		"search_value": "111.444.777-35",
		"purpose":      "consultation",
	})
	req = testutil.WithClinicContext(req, testTenantID, testRequesterID, id.RoleDoctor)

	rr := testutil.DoRequest(newRouter(h), req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[SearchResponse](t, rr)
	require.Len(t, resp.Patients, 1)
	assert.Equal(t, "Ana Clara Souza", resp.Patients[0].FullName)
	assert.Equal(t, "valid", resp.ConsentStatus)
	assert.NotEmpty(t, resp.AuditEntryID)
}

func TestHandleSearch_InvalidCPFRejectedBeforeLookup(t *testing.T) {
	h, store, auditStore := newTestHandler(t)
	seedPatient(t, store)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/disclosure/search", map[string]any{
		"search_type":  "cpf",
		"search_value": "12345678900",
		"purpose":      "consultation",
	})
	req = testutil.WithClinicContext(req, testTenantID, testRequesterID, id.RoleDoctor)

	rr := testutil.DoRequest(newRouter(h), req)
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_identifier")
	assert.Empty(t, auditStore.All(), "rejected requests never reach the repository or the audit trail")
}

func TestHandleSearch_ValidationFailures(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := newRouter(h)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"unknown search type", map[string]any{"search_type": "rg", "search_value": "123", "purpose": "consultation"}},
		{"short name search", map[string]any{"search_type": "name", "search_value": "ab", "purpose": "consultation"}},
		{"unknown purpose", map[string]any{"search_type": "name", "search_value": "souza", "purpose": "marketing"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/disclosure/search", tc.body)
			req = testutil.WithClinicContext(req, testTenantID, testRequesterID, id.RoleDoctor)

			rr := testutil.DoRequest(router, req)
			testutil.AssertStatus(t, rr, http.StatusBadRequest)
		})
	}
}

func TestHandleSearch_MissingClinicContext(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/disclosure/search", map[string]any{
		"search_type":  "name",
		"search_value": "souza",
		"purpose":      "consultation",
	})

	rr := testutil.DoRequest(newRouter(h), req)
	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
}

func TestHandleSearch_EmptyResult(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/disclosure/search", map[string]any{
		"search_type":  "name",
		"search_value": "nonexistent",
		"purpose":      "consultation",
	})
	req = testutil.WithClinicContext(req, testTenantID, testRequesterID, id.RoleDoctor)

	rr := testutil.DoRequest(newRouter(h), req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[SearchResponse](t, rr)
	assert.Empty(t, resp.Patients)
	assert.Equal(t, "not_found", resp.ConsentStatus)
}

func TestHandleListAudit_AdminOnly(t *testing.T) {
	h, store, _ := newTestHandler(t)
	seedPatient(t, store)
	router := newRouter(h)

	for _, role := range []id.Role{id.RoleDoctor, id.RoleNurse, id.RoleReceptionist} {
		t.Run(string(role), func(t *testing.T) {
			req := testutil.NewRequest(t, http.MethodGet, "/disclosure/audit")
			req = testutil.WithClinicContext(req, testTenantID, testRequesterID, role)

			rr := testutil.DoRequest(router, req)
			testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
		})
	}
}

func TestHandleListAudit_ReturnsTenantEntries(t *testing.T) {
	h, store, _ := newTestHandler(t)
	seedPatient(t, store)
	router := newRouter(h)

	search := testutil.NewJSONRequest(t, http.MethodPost, "/disclosure/search", map[string]any{
		"search_type":  "cpf",
		"search_value": "11144477735",
		"purpose":      "consultation",
	})
	search = testutil.WithClinicContext(search, testTenantID, testRequesterID, id.RoleDoctor)
	testutil.AssertStatus(t, testutil.DoRequest(router, search), http.StatusOK)

	req := testutil.NewRequest(t, http.MethodGet, "/disclosure/audit")
	req = testutil.WithClinicContext(req, testTenantID, testRequesterID, id.RoleAdmin)

	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[AuditListResponse](t, rr)
	require.Equal(t, 1, resp.Count)
	assert.NotEmpty(t, resp.Entries[0].SearchTermHash)

	// The wire format carries IDs as UUID strings, not raw byte arrays.
	var raw struct {
		Entries []map[string]any `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	require.Len(t, raw.Entries, 1)
	assert.Equal(t, testTenantID, raw.Entries[0]["tenant_id"])
	assert.Equal(t, testRequesterID, raw.Entries[0]["requester_id"])
	assert.Equal(t, resp.Entries[0].AuditID.String(), raw.Entries[0]["audit_id"])
}

func TestHandleListAudit_LimitValidation(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := testutil.NewRequest(t, http.MethodGet, "/disclosure/audit?limit=5000")
	req = testutil.WithClinicContext(req, testTenantID, testRequesterID, id.RoleAdmin)

	rr := testutil.DoRequest(newRouter(h), req)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}
