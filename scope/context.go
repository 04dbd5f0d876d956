package scope

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/effect_ive_store/service"
	"github.com/on-the-ground/effect_ive_store/store"
	"github.com/on-the-ground/effect_ive_store/tagged"
)

type subscription[S any] struct {
	id     uint64
	fn     func(S)
	active *atomic.Bool
}

// Context is a node of the context tree over a store.
type Context[S any] struct {
	id      string
	name    string
	store   *store.Store[S]
	logger  *zap.Logger
	onError func(error)
	merge   func(cur, other S) (S, bool)

	services *service.Registry

	mu         sync.Mutex
	current    S
	disposed   bool
	subs       []subscription[S]
	nextSub    uint64
	children   []*Context[S]
	forks      []*Context[S]
	derived    []*Derived[S]
	unsubStore func()
	release    func()
}

// New creates a context over st. With cfg.Parent set the context becomes a
// child of that parent; New fails if the parent is already disposed.
func New[S any](st *store.Store[S], cfg Config[S]) (*Context[S], error) {
	cfg = normalizeConfig(cfg)

	var parentServices *service.Registry
	if cfg.Parent != nil {
		parentServices = cfg.Parent.services
	}
	c := newContext(st, cfg, service.NewRegistry(parentServices))

	if p := cfg.Parent; p != nil {
		release, ok := adopt(&p.mu, &p.disposed, &p.children, c)
		if !ok {
			return nil, p.disposedErr("Child")
		}
		c.release = release
		// The parent already forwards every commit of a shared store.
		if p.store != st {
			c.listen()
		}
	} else {
		c.listen()
	}

	c.logger.Debug("context created", zap.String("id", c.id), zap.String("name", c.name))
	return c, nil
}

func newContext[S any](st *store.Store[S], cfg Config[S], services *service.Registry) *Context[S] {
	return &Context[S]{
		id:       uuid.NewString(),
		name:     cfg.Name,
		store:    st,
		logger:   cfg.Logger.Named(cfg.Name),
		onError:  cfg.OnError,
		merge:    cfg.Merge,
		services: services,
		current:  st.State(),
	}
}

func (c *Context[S]) listen() {
	unsub := c.store.Subscribe(c.notifyChange)
	c.mu.Lock()
	c.unsubStore = unsub
	c.mu.Unlock()
}

// adopt appends child to one of owner's ownership lists and returns a
// function detaching it again. It fails when owner is disposed.
func adopt[T comparable](mu *sync.Mutex, disposed *bool, list *[]T, child T) (func(), bool) {
	mu.Lock()
	defer mu.Unlock()
	if *disposed {
		return nil, false
	}
	*list = append(*list, child)
	return func() {
		mu.Lock()
		defer mu.Unlock()
		*list = slices.DeleteFunc(*list, func(x T) bool { return x == child })
	}, true
}

// ID returns the unique id of c.
func (c *Context[S]) ID() string { return c.id }

// Name returns the configured name of c.
func (c *Context[S]) Name() string { return c.name }

// Store returns the store c observes.
func (c *Context[S]) Store() *store.Store[S] { return c.store }

// Disposed reports whether Dispose was called on c or an owner of c.
func (c *Context[S]) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

func (c *Context[S]) disposedErr(op string) error {
	return &DisposedError{Op: op, ID: c.id}
}

// Current returns the cached state of c.
func (c *Context[S]) Current() (S, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		var zero S
		return zero, c.disposedErr("Current")
	}
	return c.current, nil
}

// Use returns the cached state of c. It is Current under the name used by
// the selector helpers.
func (c *Context[S]) Use() (S, error) { return c.Current() }

// Subscribe registers fn for every subsequent state change of c. fn is not
// called immediately.
func (c *Context[S]) Subscribe(fn func(S)) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return func() {}, c.disposedErr("Subscribe")
	}
	sub := c.addSubscription(fn)
	return func() { c.unsubscribe(sub) }, nil
}

// addSubscription must be called with c.mu held.
func (c *Context[S]) addSubscription(fn func(S)) subscription[S] {
	sub := subscription[S]{id: c.nextSub, fn: fn, active: &atomic.Bool{}}
	sub.active.Store(true)
	c.nextSub++
	c.subs = append(c.subs, sub)
	return sub
}

func (c *Context[S]) unsubscribe(sub subscription[S]) {
	sub.active.Store(false)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = slices.DeleteFunc(c.subs, func(other subscription[S]) bool { return other.id == sub.id })
}

// notifyChange caches state, runs the local subscribers in registration
// order and then forwards state to the children, depth first.
func (c *Context[S]) notifyChange(state S) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.current = state
	subs := slices.Clone(c.subs)
	children := slices.Clone(c.children)
	c.mu.Unlock()

	for _, sub := range subs {
		if sub.active.Load() {
			c.deliver(sub.fn, state)
		}
	}
	for _, child := range children {
		child.notifyChange(state)
	}
}

func (c *Context[S]) deliver(fn func(S), state S) {
	defer func() {
		if r := recover(); r != nil {
			c.fail(&SubscriberError{ContextID: c.id, Panic: r})
		}
	}()
	fn(state)
}

func (c *Context[S]) fail(err error) {
	if c.onError != nil {
		c.onError(err)
		return
	}
	c.logger.Warn("subscriber failed", zap.String("id", c.id), zap.Error(err))
}

// Dispatch runs the action registered under name on the store, with c as
// the service locator of the handler.
func (c *Context[S]) Dispatch(ctx context.Context, name string, payload any) (S, error) {
	if c.Disposed() {
		var zero S
		return zero, c.disposedErr("Dispatch")
	}
	return c.store.DispatchWith(ctx, c, name, payload)
}

// DispatchAction dispatches a directly, registering it on the store first
// when no action of that name is registered.
func DispatchAction[S, P any](ctx context.Context, c *Context[S], a store.Action[S, P], payload P) (S, error) {
	if c.Disposed() {
		var zero S
		return zero, c.disposedErr("Dispatch")
	}
	if !c.store.Has(a.Name) {
		c.store.RegisterAction(a)
	}
	return c.store.DispatchWith(ctx, c, a.Name, payload)
}

// ProvideService binds impl to key in the local registry of c. Ancestors
// are never modified. On a disposed context the call is ignored.
func (c *Context[S]) ProvideService(key service.Key, impl any) *Context[S] {
	if c.Disposed() {
		c.logger.Warn("service provided to disposed context",
			zap.String("id", c.id),
			zap.String("service", key.Token().Name()),
		)
		return c
	}
	c.services.Provide(key, impl)
	return c
}

// Service resolves key locally, then through the ancestors.
func (c *Context[S]) Service(key service.Key) (any, error) {
	if c.Disposed() {
		return nil, c.disposedErr("Service")
	}
	return c.services.Service(key)
}

// ServiceOptional is Service without the error. A disposed context has no
// services.
func (c *Context[S]) ServiceOptional(key service.Key) (any, bool) {
	if c.Disposed() {
		return nil, false
	}
	return c.services.ServiceOptional(key)
}

// Value reports ErrNoValue for every key: values live in Derived layers.
func (c *Context[S]) Value(key string) (any, error) {
	if c.Disposed() {
		return nil, c.disposedErr("Value")
	}
	return nil, noValue(key)
}

// Child creates a context owned by c over the same store.
func (c *Context[S]) Child(name string) (*Context[S], error) {
	return New(c.store, Config[S]{
		Name:    name,
		Parent:  c,
		OnError: c.onError,
		Logger:  c.logger,
		Merge:   c.merge,
	})
}

// Fork creates a context over the same store that resolves services through
// c but receives state from the store directly. It is owned by c.
func (c *Context[S]) Fork() (*Context[S], error) {
	f := newContext(c.store, Config[S]{
		Name:    "fork",
		OnError: c.onError,
		Logger:  c.logger,
		Merge:   c.merge,
	}, service.NewRegistry(c.services))
	release, ok := adopt(&c.mu, &c.disposed, &c.forks, f)
	if !ok {
		return nil, c.disposedErr("Fork")
	}
	f.release = release
	f.listen()
	return f, nil
}

// Clone creates an unowned root context over the same store carrying a copy
// of the services provided to c.
func (c *Context[S]) Clone() (*Context[S], error) {
	if c.Disposed() {
		return nil, c.disposedErr("Clone")
	}
	cl := newContext(c.store, Config[S]{
		Name:    "clone",
		OnError: c.onError,
		Logger:  c.logger,
		Merge:   c.merge,
	}, c.services.Clone())
	cl.listen()
	return cl, nil
}

// Merge combines the state of other into the cached state of c and notifies
// the subtree of c. The store itself is not modified.
func (c *Context[S]) Merge(other *Context[S]) error {
	cur, err := c.Current()
	if err != nil {
		return err
	}
	theirs, err := other.Current()
	if err != nil {
		return err
	}
	merged, ok := c.merge(cur, theirs)
	if !ok {
		return ErrNotMergeable
	}
	c.notifyChange(merged)
	return nil
}

// Children returns the live children of c.
func (c *Context[S]) Children() []*Context[S] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.children)
}

// Dispose releases c, its children, forks and derived scopes, and detaches c
// from its owner. Calling it again is a no-op.
func (c *Context[S]) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	children, forks, derived := c.children, c.forks, c.derived
	c.children, c.forks, c.derived, c.subs = nil, nil, nil, nil
	unsubStore, release := c.unsubStore, c.release
	c.mu.Unlock()

	if unsubStore != nil {
		unsubStore()
	}
	for _, child := range children {
		child.Dispose()
	}
	for _, f := range forks {
		f.Dispose()
	}
	for _, d := range derived {
		d.Dispose()
	}
	if release != nil {
		release()
	}
	c.logger.Debug("context disposed", zap.String("id", c.id))
}

// IsInState reports whether the cached state of c is tagged tag. A disposed
// context is in no state.
func IsInState[S tagged.Tagged](c *Context[S], tag string) bool {
	cur, err := c.Current()
	if err != nil {
		return false
	}
	return tagged.HasTag(cur, tag)
}
