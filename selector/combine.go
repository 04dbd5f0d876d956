package selector

// Combine applies every selector to the same input and returns the results in
// selector order.
func Combine[I any](selectors ...func(I) any) func(I) []any {
	return func(in I) []any {
		out := make([]any, len(selectors))
		for i, sel := range selectors {
			out[i] = sel(in)
		}
		return out
	}
}

// Combine2 is the typed two-selector form of Combine.
func Combine2[I, A, B any](a func(I) A, b func(I) B) func(I) (A, B) {
	return func(in I) (A, B) {
		return a(in), b(in)
	}
}

// Combine3 is the typed three-selector form of Combine.
func Combine3[I, A, B, C any](a func(I) A, b func(I) B, c func(I) C) func(I) (A, B, C) {
	return func(in I) (A, B, C) {
		return a(in), b(in), c(in)
	}
}
