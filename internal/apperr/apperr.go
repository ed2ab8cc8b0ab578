// Package apperr contains sentinel errors used across layers for stable error mapping.
package apperr

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation.
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized indicates a missing, invalid, expired or revoked token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidGrant indicates a failed OAuth grant exchange (bad credentials,
	// unknown code, expired refresh token). Deliberately coarse so the token
	// endpoint never leaks which part of the grant failed.
	ErrInvalidGrant = errors.New("invalid grant")

	// ErrInvalidClient indicates client authentication failed.
	ErrInvalidClient = errors.New("invalid client")
)
