package scope

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/effect_ive_store/internal/helper"
	"github.com/on-the-ground/effect_ive_store/service"
)

// Derived is a scope layering one provided key/value pair over a Context or
// over another Derived. Lookups walk the layers innermost first.
type Derived[S any] struct {
	id     string
	key    string
	value  any
	owner  *Context[S]
	parent *Derived[S]

	mu       sync.Mutex
	disposed bool
	derived  []*Derived[S]
	release  func()
}

func noValue(key string) error {
	return fmt.Errorf("%w: %q", ErrNoValue, key)
}

// Provide creates a derived scope owned by c in which key resolves to value.
func (c *Context[S]) Provide(key string, value any) (*Derived[S], error) {
	d := &Derived[S]{id: uuid.NewString(), key: key, value: value, owner: c}
	release, ok := adopt(&c.mu, &c.disposed, &c.derived, d)
	if !ok {
		return nil, c.disposedErr("Provide")
	}
	d.release = release
	c.logger.Debug("value provided", zap.String("id", d.id), zap.String("key", key))
	return d, nil
}

// ProvideFunc is Provide with the value computed from the current state of
// c. fn runs once, when the scope is created.
func (c *Context[S]) ProvideFunc(key string, fn func(S) any) (*Derived[S], error) {
	cur, err := c.Current()
	if err != nil {
		return nil, &DisposedError{Op: "Provide", ID: c.id}
	}
	return c.Provide(key, fn(cur))
}

// ID returns the unique id of d.
func (d *Derived[S]) ID() string { return d.id }

// Key returns the key d provides.
func (d *Derived[S]) Key() string { return d.key }

// Context returns the context whose state d observes.
func (d *Derived[S]) Context() *Context[S] { return d.owner }

// Disposed reports whether d has been disposed.
func (d *Derived[S]) Disposed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disposed
}

func (d *Derived[S]) disposedErr(op string) error {
	return &DisposedError{Op: op, ID: d.id}
}

// Value returns the value provided for key by d or one of its outer layers.
func (d *Derived[S]) Value(key string) (any, error) {
	if d.Disposed() {
		return nil, d.disposedErr("Value")
	}
	for layer := d; layer != nil; layer = layer.parent {
		if layer.key == key {
			return layer.value, nil
		}
	}
	return nil, noValue(key)
}

// Current returns the cached state of the underlying context.
func (d *Derived[S]) Current() (S, error) {
	if d.Disposed() {
		var zero S
		return zero, d.disposedErr("Current")
	}
	return d.owner.Current()
}

// Service resolves key through the underlying context.
func (d *Derived[S]) Service(key service.Key) (any, error) {
	if d.Disposed() {
		return nil, d.disposedErr("Service")
	}
	return d.owner.Service(key)
}

// ServiceOptional resolves key through the underlying context.
func (d *Derived[S]) ServiceOptional(key service.Key) (any, bool) {
	if d.Disposed() {
		return nil, false
	}
	return d.owner.ServiceOptional(key)
}

// Provide layers another key/value pair over d. The new scope is owned by d.
func (d *Derived[S]) Provide(key string, value any) (*Derived[S], error) {
	inner := &Derived[S]{id: uuid.NewString(), key: key, value: value, owner: d.owner, parent: d}
	release, ok := adopt(&d.mu, &d.disposed, &d.derived, inner)
	if !ok {
		return nil, d.disposedErr("Provide")
	}
	inner.release = release
	return inner, nil
}

// ProvideFunc is Provide with the value computed once from the current state.
func (d *Derived[S]) ProvideFunc(key string, fn func(S) any) (*Derived[S], error) {
	cur, err := d.Current()
	if err != nil {
		return nil, err
	}
	return d.Provide(key, fn(cur))
}

// Dispose releases d and every scope layered over it. It is idempotent.
func (d *Derived[S]) Dispose() {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		return
	}
	d.disposed = true
	inner, release := d.derived, d.release
	d.derived = nil
	d.mu.Unlock()

	for _, x := range inner {
		x.Dispose()
	}
	if release != nil {
		release()
	}
}

// Valuer is implemented by Context and Derived.
type Valuer interface {
	Value(key string) (any, error)
}

// ValueOf returns the value provided for key as a T.
func ValueOf[T any](v Valuer, key string) (T, error) {
	return helper.GetTypedValueOf[T](func() (any, error) { return v.Value(key) })
}
