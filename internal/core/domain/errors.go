package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Authorization Errors.

	// ErrUnauthorized indicates a missing or unverifiable credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates a verified identity that is not allowed
	// to use the requested capability.
	ErrForbidden = errors.New("forbidden")

	// ErrCodeConsumed indicates an authorization code was already
	// exchanged. Codes are strictly single-use.
	ErrCodeConsumed = errors.New("authorization code already used")

	// ErrCodeExpired indicates an authorization code outlived its
	// validity window.
	ErrCodeExpired = errors.New("authorization code expired")

	// Connector Errors.

	// ErrRateLimited indicates the upstream API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
