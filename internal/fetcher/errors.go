package fetcher

import (
	"fmt"
	"net/http"
)

// HTTPStatusError indicates the target site answered with a non-2xx status.
type HTTPStatusError struct {
	Status int
}

// Error returns the status line, e.g. "404 Not Found".
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
}

// NetworkError indicates a DNS, connection, or timeout failure before any
// HTTP status was received.
type NetworkError struct {
	Err error
}

// Error returns the underlying cause.
func (e *NetworkError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *NetworkError) Unwrap() error {
	return e.Err
}
