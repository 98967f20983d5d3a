// Package common defines shared constants and sentinel errors used across
// the store, service and transport layers of flava. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// ErrConflict is the client-facing form of a uniqueness violation.
	ErrConflict = errors.New("email or username already exists")

	// ErrInvalidCredentials is returned by login for an unknown email and
	// for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Auth errors (invalid, expired or wrongly scoped token).
	ErrInvalidToken = errors.New("invalid or expired token")

	// Collaborator errors. Never surfaced as request failures by the cache
	// or the mail notifier.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrFeatureDisabled is returned when an optional collaborator is not configured.
	ErrFeatureDisabled = errors.New("feature disabled")
)
