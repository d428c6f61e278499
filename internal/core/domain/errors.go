package domain

import "errors"

// Error kinds. Every service error wraps exactly one of these so handlers
// can map to an HTTP status with a single errors.Is chain.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidState    = errors.New("operation not allowed in current state")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
	ErrUnauthorized    = errors.New("unauthorized")
)
