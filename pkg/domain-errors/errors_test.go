package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct code", func(t *testing.T) {
		err := New(CodeConsentDenied, "consent not granted")
		assert.True(t, HasCode(err, CodeConsentDenied))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("matches through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("search failed: %w", New(CodeRepository, "query timeout"))
		assert.True(t, HasCode(err, CodeRepository))
	})

	t.Run("matches wrapped domain error", func(t *testing.T) {
		cause := New(CodeNotFound, "no record")
		err := Wrap(CodeRepository, "lookup failed", cause)
		assert.True(t, HasCode(err, CodeRepository))
		assert.True(t, HasCode(err, CodeNotFound))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
	})
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeRepository, "repository unavailable", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, CodeRepository, CodeOf(err))
}

func TestCodeOf_DefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("unclassified")))
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeBadRequest, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeInvalidIdentifier, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeConsentDenied, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeRepository, http.StatusServiceUnavailable},
		{CodeAuditWrite, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
		{Code("unknown"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.code))
		})
	}
}
