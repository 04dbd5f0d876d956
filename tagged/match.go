package tagged

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnhandledVariant is returned by Match when no case handles the tag, and
// by Exhaustive when an enum variant has no case.
var ErrUnhandledVariant = errors.New("unhandled variant")

// Cases maps a tag to the branch handling it.
type Cases[T Tagged, R any] map[string]func(T) R

// Match runs the case registered for v's tag.
func Match[T Tagged, R any](v T, cases Cases[T, R]) (R, error) {
	fn, ok := cases[TagOf(v)]
	if !ok {
		var zero R
		return zero, fmt.Errorf("%w: %q", ErrUnhandledVariant, TagOf(v))
	}
	return fn(v), nil
}

// Exhaustive checks that cases handles every variant of e.
func Exhaustive[T Tagged, R any](e *Enum, cases Cases[T, R]) error {
	handled := make([]string, 0, len(cases))
	for tag := range cases {
		handled = append(handled, tag)
	}
	sort.Strings(handled)
	missing := e.Missing(handled)
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s is missing %s", ErrUnhandledVariant, e.Name(), strings.Join(missing, ", "))
}
