package jwttoken

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "sigilo/pkg/domain-errors"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-signing-key", "sigilo-test")
	tenantID := uuid.New()
	requesterID := uuid.New()

	token, err := svc.GenerateToken(tenantID, requesterID, "doctor", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.Equal(t, requesterID.String(), claims.RequesterID)
	assert.Equal(t, "doctor", claims.Role)
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	svc := NewJWTService("test-signing-key", "sigilo-test")

	token, err := svc.GenerateToken(uuid.New(), uuid.New(), "nurse", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func TestJWTService_ValidateToken_WrongKey(t *testing.T) {
	issuer := NewJWTService("key-one", "sigilo-test")
	verifier := NewJWTService("key-two", "sigilo-test")

	token, err := issuer.GenerateToken(uuid.New(), uuid.New(), "admin", time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestJWTService_ValidateToken_Garbage(t *testing.T) {
	svc := NewJWTService("test-signing-key", "sigilo-test")

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.ValidateToken(tok)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	}
}
