package tagged

// Tagged is anything carrying a discriminant.
type Tagged interface {
	Tag() string
}

// TagOf returns the discriminant of v, or "" for a nil v.
func TagOf(v Tagged) string {
	if v == nil {
		return ""
	}
	return v.Tag()
}

// HasTag reports whether v carries tag.
func HasTag(v Tagged, tag string) bool {
	return v != nil && v.Tag() == tag
}

// When returns a predicate matching values tagged tag.
func When(tag string) func(Tagged) bool {
	return func(v Tagged) bool {
		return HasTag(v, tag)
	}
}

// On returns a function applying fn to values tagged tag. For any other tag
// it returns the zero R and false without calling fn.
func On[T Tagged, R any](tag string, fn func(T) R) func(T) (R, bool) {
	return func(v T) (R, bool) {
		if !HasTag(v, tag) {
			var zero R
			return zero, false
		}
		return fn(v), true
	}
}

// WithState is the uncurried form of On.
func WithState[T Tagged, R any](v T, tag string, fn func(T) R) (R, bool) {
	return On(tag, fn)(v)
}

// AsVariant returns v when it is tagged tag.
func AsVariant[T Tagged](v T, tag string) (T, bool) {
	if !HasTag(v, tag) {
		var zero T
		return zero, false
	}
	return v, true
}

// Narrow converts v to the concrete variant type V when v is tagged tag and
// holds a V. It is the guard for enums modelled as one Go type per variant.
func Narrow[V Tagged](v Tagged, tag string) (V, bool) {
	if !HasTag(v, tag) {
		var zero V
		return zero, false
	}
	n, ok := v.(V)
	return n, ok
}
