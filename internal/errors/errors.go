package errors

import "errors"

// This package defines the sentinel errors shared by the service and API layers.
// Services wrap them with %w and the API maps them to HTTP status codes with errors.Is,
// so business logic never deals in status codes.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// Mapped to 404 Not Found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data provided by a client failed validation.
	// Mapped to 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that an operation conflicts with existing state, e.g.
	// registering an email that is already taken. Mapped to 400 Bad Request.
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized signifies that the supplied credentials did not match.
	// Mapped to 401 Unauthorized.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable signifies that a dependency (usually the model) cannot serve
	// the request right now. Mapped to 503 Service Unavailable.
	ErrUnavailable = errors.New("service unavailable")
)
