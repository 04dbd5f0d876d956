package helper

import (
	"errors"
	"fmt"
)

// ErrUnexpectedType is returned when a dynamically stored value does not hold
// the requested static type.
var ErrUnexpectedType = errors.New("unexpected type")

// TypedValueOf asserts raw to T. An untyped nil converts to the zero value of
// T so that omitted payloads behave like empty ones.
func TypedValueOf[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	val, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T, want %T", ErrUnexpectedType, raw, zero)
	}
	return val, nil
}

// GetTypedValueOf runs getFn and asserts its result to T.
func GetTypedValueOf[T any](getFn func() (any, error)) (T, error) {
	var zero T
	res, err := getFn()
	if err != nil {
		return zero, err
	}
	return TypedValueOf[T](res)
}

// GetTypedValueOf2 is the comma-ok variant of GetTypedValueOf. A nil result
// is reported as missing.
func GetTypedValueOf2[T any](getFn func() (any, bool)) (T, bool) {
	raw, ok := getFn()
	if !ok || raw == nil {
		var zero T
		return zero, false
	}
	v, err := TypedValueOf[T](raw)
	return v, err == nil
}

// MustGetTypedValue panics where GetTypedValueOf would return an error.
func MustGetTypedValue[T any](getFn func() (any, error)) T {
	v, err := GetTypedValueOf[T](getFn)
	if err != nil {
		panic(fmt.Errorf("must get typed value: %w", err))
	}
	return v
}
