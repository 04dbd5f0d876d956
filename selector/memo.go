package selector

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/cespare/xxhash/v2"
	ristretto "github.com/dgraph-io/ristretto/v2"
)

// Memoize caches the most recent result of fn. An input identical to the
// previous one returns the cached result without calling fn.
//
// Identity follows ==, except that maps, slices and channels compare by
// reference and functions never match. Inputs such as tagged.Value, which
// == rejects, are therefore memoizable: copies of one value hit, while an
// equal value built separately misses.
func Memoize[I, O any](fn func(I) O) func(I) O {
	var (
		mu      sync.Mutex
		primed  bool
		lastIn  I
		lastOut O
	)
	return func(in I) O {
		mu.Lock()
		if primed && identical(in, lastIn) {
			out := lastOut
			mu.Unlock()
			return out
		}
		mu.Unlock()

		out := fn(in)

		mu.Lock()
		primed, lastIn, lastOut = true, in, out
		mu.Unlock()
		return out
	}
}

func identical[I any](a, b I) bool {
	return sameValue(reflect.ValueOf(&a).Elem(), reflect.ValueOf(&b).Elem())
}

// sameValue never panics: it only reads values through reflect accessors
// that accept unexported fields.
func sameValue(a, b reflect.Value) bool {
	if a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Map, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return a.UnsafePointer() == b.UnsafePointer()
	case reflect.Slice:
		return a.UnsafePointer() == b.UnsafePointer() && a.Len() == b.Len()
	case reflect.Func:
		return false
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		return sameValue(a.Elem(), b.Elem())
	case reflect.Struct:
		for i := range a.NumField() {
			if !sameValue(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Array:
		for i := range a.Len() {
			if !sameValue(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	}
	return a.Equal(b)
}

type tableEntry[O any] struct {
	key string
	out O
}

// Table is a bounded memo table for a pure function. Entries are admitted and
// evicted by a ristretto cache, so a hit is likely but never guaranteed.
type Table[I, O any] struct {
	pureFn func(I) O
	cache  *ristretto.Cache[uint64, tableEntry[O]]
}

// Tableize wraps pureFn in a Table holding at most maxEntries results.
// Inputs are keyed by their String method when they have one, and by their
// Go-syntax representation otherwise.
func Tableize[I, O any](pureFn func(I) O, maxEntries int64) (*Table[I, O], error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("tableize: maxEntries should be greater than 0, got %d", maxEntries)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, tableEntry[O]]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
		// Every entry costs 1; maxEntries is a count, not a byte budget.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("tableize: %w", err)
	}
	return &Table[I, O]{pureFn: pureFn, cache: cache}, nil
}

// Call returns pureFn(in), from the table when present.
func (t *Table[I, O]) Call(in I) O {
	key := tableKey(in)
	hash := xxhash.Sum64String(key)
	if e, ok := t.cache.Get(hash); ok && e.key == key {
		return e.out
	}
	out := t.pureFn(in)
	if t.cache.Set(hash, tableEntry[O]{key: key, out: out}, 1) {
		t.cache.Wait()
	}
	return out
}

// Func returns Call as a plain selector.
func (t *Table[I, O]) Func() func(I) O {
	return t.Call
}

// Close releases the table's background goroutines.
func (t *Table[I, O]) Close() {
	t.cache.Close()
}

func tableKey(in any) string {
	if stringer, ok := in.(fmt.Stringer); ok {
		return stringer.String()
	}
	return fmt.Sprintf("%T:%#v", in, in)
}
