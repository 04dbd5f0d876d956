package scope

import (
	"errors"
	"fmt"
)

var (
	// ErrDisposed is matched by every *DisposedError.
	ErrDisposed = errors.New("context disposed")

	// ErrNoValue is returned when no layer provides a requested key.
	ErrNoValue = errors.New("no provided value")

	// ErrNotMergeable is returned by Merge when the states are not record shaped.
	ErrNotMergeable = errors.New("state is not mergeable")

	// ErrNoSelection is returned by SelectAsync when the selector fails on the
	// current state.
	ErrNoSelection = errors.New("selector produced no value")
)

// DisposedError reports an operation attempted on a disposed scope.
type DisposedError struct {
	Op string
	ID string
}

func (e *DisposedError) Error() string {
	return fmt.Sprintf("%s: %s on %s", ErrDisposed, e.Op, e.ID)
}

// Unwrap lets errors.Is match ErrDisposed.
func (e *DisposedError) Unwrap() error { return ErrDisposed }

// SubscriberError wraps a panic raised by a subscriber callback.
type SubscriberError struct {
	ContextID string
	Panic     any
}

func (e *SubscriberError) Error() string {
	return fmt.Sprintf("subscriber of context %s panicked: %v", e.ContextID, e.Panic)
}
