package endpoint

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrMissingURL indicates an endpoint definition without a URL.
var ErrMissingURL = errors.New("endpoint URL is required")

// ConfigError indicates an invalid endpoint configuration. It is
// returned synchronously at construction or when building a request.
type ConfigError struct {
	// Field is the configuration field at fault (e.g. "url").
	Field string
	// Err is the underlying error.
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("endpoint config: %s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TransportError indicates a network-level failure while issuing a
// request: connection refused, DNS failure, or timeout. HTTP status
// codes are never a TransportError.
type TransportError struct {
	// URL is the request target.
	URL string
	// Err is the underlying transport error.
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a timeout, including a
// caller-imposed context deadline.
func (e *TransportError) Timeout() bool {
	var netErr net.Error
	if errors.As(e.Err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(e.Err, context.DeadlineExceeded)
}
