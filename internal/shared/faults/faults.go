// Package faults defines the error taxonomy shared by all services.
// Services wrap these sentinels with fmt.Errorf("%w: ...") and handlers
// translate them into HTTP responses via respond.Failure.
package faults

import "errors"

var (
	// ErrInvalidInput marks a malformed or missing required field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized marks a missing, invalid, or expired credential.
	// Verification failures collapse into this single class so callers
	// cannot tell which check failed.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks a valid credential presented by a disallowed principal.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound marks a token or record that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrGone marks a token of valid shape that is no longer usable,
	// either expired or already consumed.
	ErrGone = errors.New("gone")
	// ErrRateLimited marks a request rejected by the resend interval check.
	ErrRateLimited = errors.New("rate limited")
	// ErrUpstream marks a storage or mail backend failure.
	ErrUpstream = errors.New("upstream failure")
)
