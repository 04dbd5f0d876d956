package selector

import (
	"reflect"
	"strings"
)

// Getter is implemented by records that expose fields by name, such as
// tagged.Value.
type Getter interface {
	Get(key string) (any, bool)
}

// Select returns m[key].
func Select[V any](m map[string]V, key string) (V, bool) {
	v, ok := m[key]
	return v, ok
}

// Field returns the field key of obj. obj may be a Getter or any map keyed by
// strings; anything else has no fields.
func Field(obj any, key string) (any, bool) {
	switch o := obj.(type) {
	case nil:
		return nil, false
	case Getter:
		return o.Get(key)
	case map[string]any:
		v, ok := o[key]
		return v, ok
	}
	// named map types such as tagged.Fields
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

// Pluck returns a selector reading path from its input. Dotted paths such as
// "user.name" descend through nested records and stop at the first missing
// segment.
func Pluck(path string) func(any) (any, bool) {
	segments := strings.Split(path, ".")
	return func(obj any) (any, bool) {
		cur := obj
		for _, seg := range segments {
			next, ok := Field(cur, seg)
			if !ok {
				return nil, false
			}
			cur = next
		}
		return cur, true
	}
}

// PluckAs is Pluck with the result asserted to T.
func PluckAs[T any](path string) func(any) (T, bool) {
	pluck := Pluck(path)
	return func(obj any) (T, bool) {
		raw, ok := pluck(obj)
		if !ok {
			var zero T
			return zero, false
		}
		v, ok := raw.(T)
		return v, ok
	}
}
