package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrBodyTooLarge is wrapped by Error when a response exceeds the body limit.
var ErrBodyTooLarge = errors.New("response body too large")

// Error reports a failure at the HTTP layer: connection refused, timeout,
// malformed response or an unreadable body. No status code is available.
type Error struct {
	Method string
	URL    string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a deadline being exceeded.
func (e *Error) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// IsTransportError reports whether err is (or wraps) a transport Error.
func IsTransportError(err error) bool {
	var te *Error
	return errors.As(err, &te)
}
