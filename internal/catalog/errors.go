package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTimeout is returned when a request loses the race against the
	// configured timeout.
	ErrTimeout = errors.New("request took too long")
	// ErrNotFound is returned when the catalog answers without the expected data.
	ErrNotFound = errors.New("no data found")
)

// HTTPError is a non-success catalog response.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// Is lets a 404 match ErrNotFound.
func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// NetworkError is a transport-level failure.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
