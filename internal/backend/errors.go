package backend

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors surfaced to callers.
type ErrorCategory string

const (
	// ErrorBackendUnavailable: the transport failed and the strategy escalates.
	ErrorBackendUnavailable ErrorCategory = "backend_unavailable"

	// ErrorIllegalResponse: a 5xx or undecodable body and the strategy escalates.
	ErrorIllegalResponse ErrorCategory = "illegal_response"

	// ErrorClientLogic: 4xx or another unexpected status. Never degraded.
	ErrorClientLogic ErrorCategory = "client_logic"

	// ErrorInvalidRequest: the call was rejected before dispatch.
	ErrorInvalidRequest ErrorCategory = "invalid_request"
)

// MessageIllegalResponse is the message of escalated backend failures.
const MessageIllegalResponse = "illegal backend response"

// FatalError is an error that must reach the caller instead of being degraded.
type FatalError struct {
	Category ErrorCategory
	Message  string
	Err      error
}

func (e *FatalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("riskclient [%s]: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("riskclient [%s]: %s", e.Category, e.Message)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func newFatal(category ErrorCategory, message string, err error) *FatalError {
	return &FatalError{Category: category, Message: message, Err: err}
}

// IsFatal reports whether err is (or wraps) a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// GetCategory extracts the category of a FatalError, or "" for anything else.
func GetCategory(err error) ErrorCategory {
	var fe *FatalError
	if errors.As(err, &fe) {
		return fe.Category
	}
	return ""
}

// StatusError is a response whose status code the flow does not accept.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, e.Status)
}
