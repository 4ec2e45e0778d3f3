package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for classifying API failures. Callers use errors.Is;
// the wrapped error carries the operation and HTTP status.
var (
	// ErrUnauthorized covers both a missing credential (detected before any
	// request) and a 401/403 response.
	ErrUnauthorized = errors.New("not authorized")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrServerError is returned for 5xx responses.
	ErrServerError = errors.New("server error")
)

// statusError maps an unexpected HTTP status to a sentinel-wrapped error.
func statusError(op string, status int) error {
	switch {
	case status == 401 || status == 403:
		return fmt.Errorf("%s: status %d: %w", op, status, ErrUnauthorized)
	case status == 404:
		return fmt.Errorf("%s: status %d: %w", op, status, ErrNotFound)
	case status >= 500:
		return fmt.Errorf("%s: status %d: %w", op, status, ErrServerError)
	default:
		return fmt.Errorf("%s: unexpected status %d", op, status)
	}
}
