package domain

import "errors"

// Business-rule failures returned by the core. Everything else coming out of a
// service is a storage fault.
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrInvalidReference = errors.New("invalid reference")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidRating    = errors.New("invalid rating")
	ErrNotEligible      = errors.New("not eligible")
	ErrConflict         = errors.New("conflict")

	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)
