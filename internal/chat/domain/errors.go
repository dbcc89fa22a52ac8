package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy for chat operations. Validation and authorization failures
// are policy violations and must not be retried; TransportError wraps network
// failures and leaves retry to the caller.
var (
	// ErrValidation draft has neither body nor attachment
	ErrValidation = errors.New("message must have a body or an attachment")
	// ErrTooLarge attachment exceeds the size limit
	ErrTooLarge = errors.New("attachment exceeds size limit")
	// ErrUnsupportedType attachment content type is neither image nor video
	ErrUnsupportedType = errors.New("attachment content type not supported")
	// ErrAuthorization caller may not perform this operation
	ErrAuthorization = errors.New("not authorized")
	// ErrNotFound conversation or message does not exist
	ErrNotFound = errors.New("not found")
	// ErrSessionNotReady session is not in the Ready state
	ErrSessionNotReady = errors.New("chat session not ready")
)

// TransportError a network-layer failure of one named operation
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

// Unwrap expose the wrapped error for errors.Is / errors.As
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wrap err as a TransportError for operation op
func NewTransportError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Err: err}
}
