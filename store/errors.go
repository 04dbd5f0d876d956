package store

import "errors"

var (
	// ErrPayloadType is returned when a payload does not match the action's payload type.
	ErrPayloadType = errors.New("payload type mismatch")

	// ErrHandlerPanic wraps a panic raised by an action handler.
	ErrHandlerPanic = errors.New("action handler panicked")

	// ErrUnexpectedSuspend is returned when an action not flagged Suspends returns a deferred result.
	ErrUnexpectedSuspend = errors.New("non-suspending action returned a deferred result")

	// ErrNoResult is returned when a handler returns neither a result nor an error.
	ErrNoResult = errors.New("action handler returned no result")
)
