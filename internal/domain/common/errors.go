package common

import "errors"

// Domain errors shared across services and handlers. Handlers map these to
// HTTP statuses in the response package.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("invalid state")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrConflict         = errors.New("conflict")
	ErrForbidden        = errors.New("forbidden")
)
