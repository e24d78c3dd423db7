package store

import (
	"errors"
	"fmt"
)

// Common errors returned by store implementations.
var (
	// ErrNotFound indicates the entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrAuth indicates an authentication error (missing/invalid token).
	ErrAuth = errors.New("store authentication error")

	// ErrUnavailable indicates the store could not be reached.
	ErrUnavailable = errors.New("store unavailable")
)

// APIError represents an error response from the store API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("store API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether the error indicates a missing entity.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// IsUnavailable reports whether the error indicates the store could not be
// reached or answered with a server error. The match engine degrades to
// partial results on these.
func IsUnavailable(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= 500
}
