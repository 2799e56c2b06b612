package commerce

import "errors"

var (
	// ErrInvalidRequest is returned when the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNetworkError is returned when the backend is unreachable
	ErrNetworkError = errors.New("network error")

	// ErrUnauthorized is returned when the caller's token is rejected
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrBackendFailure is returned for any other non-success response
	ErrBackendFailure = errors.New("commerce backend failure")
)
