package api

import (
	"errors"
	"fmt"
)

// Error sentinels for client operations.
var (
	// ErrSessionExpired indicates the access token expired and the
	// refresh attempt did not recover it. The stored session has been
	// cleared; the user must authenticate again.
	ErrSessionExpired = errors.New("session expired")

	// ErrNotAuthenticated indicates an operation that requires a session
	// was called without one.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	// Status is the HTTP status code.
	Status int

	// Code is the machine-readable error code, when the backend sent one.
	Code string

	// Message is the human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
	}

	return fmt.Sprintf("backend returned status %d", e.Status)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == status
	}

	return false
}
