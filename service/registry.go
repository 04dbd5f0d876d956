package service

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/on-the-ground/effect_ive_store/internal/helper"
)

// ErrMissingService is returned when no registry in a chain provides a tag.
var ErrMissingService = errors.New("service not provided")

// Registry holds implementations keyed by Token, falling back to its parent.
type Registry struct {
	mu     sync.RWMutex
	parent *Registry
	impls  map[Token]any
}

// NewRegistry returns an empty registry whose lookups fall back to parent.
// parent may be nil.
func NewRegistry(parent *Registry) *Registry {
	return &Registry{parent: parent, impls: make(map[Token]any)}
}

// Provide registers impl for key in r, replacing a previous local entry.
// Ancestors are never modified.
func (r *Registry) Provide(key Key, impl any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.impls[key.Token()] = impl
}

// Lookup finds key in r or the nearest ancestor providing it.
func (r *Registry) Lookup(key Key) (any, bool) {
	tok := key.Token()
	for cur := r; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		impl, ok := cur.impls[tok]
		cur.mu.RUnlock()
		if ok {
			return impl, true
		}
	}
	return nil, false
}

// Clone copies r's local entries into a new registry with the same parent.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Registry{parent: r.parent, impls: maps.Clone(r.impls)}
}

// Service implements Locator.
func (r *Registry) Service(key Key) (any, error) {
	impl, ok := r.Lookup(key)
	if !ok {
		return nil, missing(key)
	}
	return impl, nil
}

// ServiceOptional implements Locator.
func (r *Registry) ServiceOptional(key Key) (any, bool) {
	return r.Lookup(key)
}

// Locator resolves services for action handlers.
type Locator interface {
	Service(key Key) (any, error)
	ServiceOptional(key Key) (any, bool)
}

type none struct{}

func (none) Service(key Key) (any, error)        { return nil, missing(key) }
func (none) ServiceOptional(key Key) (any, bool) { return nil, false }

// None provides no services.
var None Locator = none{}

// Get resolves tag from l as a T.
func Get[T any](l Locator, tag Tag[T]) (T, error) {
	return helper.GetTypedValueOf[T](func() (any, error) {
		return l.Service(tag)
	})
}

// GetOptional resolves tag from l as a T, reporting false when it is absent
// or holds another type.
func GetOptional[T any](l Locator, tag Tag[T]) (T, bool) {
	return helper.GetTypedValueOf2[T](func() (any, bool) {
		return l.ServiceOptional(tag)
	})
}

// MustGet is Get that panics on failure.
func MustGet[T any](l Locator, tag Tag[T]) T {
	return helper.MustGetTypedValue[T](func() (any, error) {
		return l.Service(tag)
	})
}

func missing(key Key) error {
	return fmt.Errorf("%w: %s", ErrMissingService, key.Token().Name())
}
