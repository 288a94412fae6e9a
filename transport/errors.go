package transport

import "errors"

// Request failures are classified into these kinds so callers can
// distinguish connectivity problems from the two HTTP error classes
// without re-inspecting status codes. Match with errors.Is.
var (
	// ErrConnection indicates the request never produced an HTTP response.
	ErrConnection = errors.New("connection failed")

	// ErrBadRequest indicates an HTTP 4xx response.
	ErrBadRequest = errors.New("client error")

	// ErrServerError indicates an HTTP 5xx response.
	ErrServerError = errors.New("server error")

	// ErrHTTP indicates a non-success status outside the 4xx/5xx classes.
	ErrHTTP = errors.New("http error")
)
