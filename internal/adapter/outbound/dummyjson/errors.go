package dummyjson

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrInvalidCredentials is returned when the identity endpoint rejects
	// a login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is returned when a privileged endpoint rejects the
	// bearer token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
)

// APIError is returned for non-2xx responses from the remote API.
type APIError struct {
	// Code is a machine-readable error code, e.g. "HTTP_404".
	Code string
	// Status is the HTTP status code of the response.
	Status int
	// Err carries the response detail.
	Err error
}

// Error returns the error message.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dummyjson [%s]: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("dummyjson [%s]", e.Code)
}

// Unwrap returns the underlying error.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target sentinel.
// It supports errors.Is(err, ErrUnauthorized) and errors.Is(err, ErrNotFound).
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == 401 || e.Status == 403
	case ErrNotFound:
		return e.Status == 404
	}
	return false
}
