package selector

import "maps"

// Patch returns a function producing a copy of base overridden by partial.
// base is never modified, and results can be patched again.
func Patch[M ~map[K]V, K comparable, V any](base M) func(partial M) M {
	return func(partial M) M {
		merged := make(M, len(base)+len(partial))
		maps.Copy(merged, base)
		maps.Copy(merged, partial)
		return merged
	}
}

// OrDefault maps an absent (v, false) result to def and passes present
// values through.
func OrDefault[T any](def T) func(v T, ok bool) T {
	return func(v T, ok bool) T {
		if !ok {
			return def
		}
		return v
	}
}
