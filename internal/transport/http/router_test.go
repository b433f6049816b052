package httptransport_test

import (
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigilo/internal/audit"
	jwttoken "sigilo/internal/jwt_token"
	"sigilo/internal/lookup"
	lookuphandler "sigilo/internal/lookup/handler"
	"sigilo/internal/patient"
	httptransport "sigilo/internal/transport/http"
	"sigilo/pkg/testutil"
)

func newTestRouter(t *testing.T) (http.Handler, *jwttoken.JWTService) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	auditStore := audit.NewMemoryStore()
	service := lookup.NewService(patient.NewMemoryStore(), audit.NewRecorder(auditStore), auditStore, logger, nil, false)
	svc := jwttoken.NewJWTService("router-test-key", "sigilo-test")

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         logger,
		Metrics:        nil,
		TokenValidator: svc,
		RequestTimeout: 5 * time.Second,
		Handlers:       []httptransport.Registrar{lookuphandler.New(service, logger)},
	})
	return router, svc
}

func TestRouter_HealthzIsPublic(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestRouter_DisclosureRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/disclosure/search", map[string]any{
		"search_type":  "name",
		"search_value": "souza",
		"purpose":      "consultation",
	})

	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
}

func TestRouter_AuthenticatedSearchFlow(t *testing.T) {
	router, svc := newTestRouter(t)

	token, err := svc.GenerateToken(uuid.New(), uuid.New(), "doctor", time.Hour)
	require.NoError(t, err)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/disclosure/search", map[string]any{
		"search_type":  "name",
		"search_value": "souza",
		"purpose":      "consultation",
	})
	req.Header.Set("Authorization", "Bearer "+token)

	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}
