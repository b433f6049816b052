// Package domainerrors provides coded errors for the disclosure engine.
//
// Services and domain logic return these so transport layers can translate
// them into consistent HTTP responses without string matching. Stores return
// sentinel errors (pkg/platform/sentinel) for infrastructure facts; services
// wrap those into coded errors at the boundary.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the class of a domain error.
type Code string

const (
	CodeBadRequest        Code = "bad_request"
	CodeValidation        Code = "validation_error"
	CodeInvalidInput      Code = "invalid_input"
	CodeInvalidIdentifier Code = "invalid_identifier"
	CodeUnauthorized      Code = "unauthorized"
	CodeForbidden         Code = "forbidden"
	CodeNotFound          Code = "not_found"
	CodeConsentDenied     Code = "consent_denied"
	CodeRepository        Code = "repository_error"
	CodeAuditWrite        Code = "audit_write_failure"
	CodeInternal          Code = "internal_error"
)

// Error is a coded domain error. Message is safe to surface to callers except
// for CodeInternal, where transport layers must omit it.
type Error struct {
	Code    Code
	Message string
	wrapped error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.wrapped }

// New creates a coded error with a caller-facing message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a coded error that preserves the underlying cause for
// errors.Is/errors.As chains.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, wrapped: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var domainErr *Error
	for errors.As(err, &domainErr) {
		if domainErr.Code == code {
			return true
		}
		err = domainErr.wrapped
		if err == nil {
			return false
		}
	}
	return false
}

// Is is shorthand for HasCode, matching the call sites in handlers.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from err, defaulting to CodeInternal for
// uncoded errors.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain error code to an HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation, CodeInvalidInput, CodeInvalidIdentifier:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodeConsentDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRepository, CodeAuditWrite:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
