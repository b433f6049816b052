package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and collaborators return
// these (optionally wrapped) so services can translate them into domain
// errors at the boundary.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrConflict: write collided with an existing entity
// - ErrUnavailable: backend temporarily unreachable; callers may retry
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
