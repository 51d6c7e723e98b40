// Package common defines sentinel errors and constants shared by the
// snippets server packages. Callers should match errors with errors.Is:
// operations wrap a failure kind together with a more specific cause, so a
// single error can match both, e.g. ErrorForbidden and ErrOwnershipMismatch.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level failure kinds. These are the values the request pipeline
	// maps to transport statuses.
	ErrorInternal          = errors.New("internal error")
	ErrorValidation        = errors.New("validation error")
	ErrorUnauthorized      = errors.New("authentication failed")
	ErrorForbidden         = errors.New("access forbidden")
	ErrorDuplicateUsername = errors.New("username is already taken")

	// Causes behind ErrorUnauthorized.
	ErrUnknownUser = errors.New("unknown user")
	ErrBadPassword = errors.New("bad password")

	// Causes behind ErrorForbidden.
	ErrMalformedAuthHeader = errors.New("malformed authorization header")
	ErrInvalidToken        = errors.New("invalid token")
	ErrOwnershipMismatch   = errors.New("owner mismatch")
)
