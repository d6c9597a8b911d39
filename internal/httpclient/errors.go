package httpclient

import (
	"errors"
	"fmt"
)

// ExhaustedError reports that every attempt to reach an upstream endpoint
// failed. Callers recover with a longer outer backoff or surface a
// generation failure.
type ExhaustedError struct {
	Endpoint string
	Attempts int
	Last     error
}

// Error implements the error interface for ExhaustedError.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("request to %s failed after %d attempts: %v", e.Endpoint, e.Attempts, e.Last)
}

// Unwrap exposes the last underlying error.
func (e *ExhaustedError) Unwrap() error { return e.Last }

// DecodeError reports that the upstream returned a 2xx response whose body
// was not valid JSON. It is never retried.
type DecodeError struct {
	Endpoint string
	Body     string
}

// Error implements the error interface for DecodeError.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed response from %s: %s", e.Endpoint, e.Body)
}

// IsExhausted returns true if err is an ExhaustedError.
func IsExhausted(err error) bool {
	var e *ExhaustedError
	return errors.As(err, &e)
}
