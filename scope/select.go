package scope

import (
	"sync"
	"sync/atomic"
)

// Select calls cb with sel applied to the current state of c, then again on
// every subsequent change. It returns a function removing the subscription.
func Select[S, R any](c *Context[S], sel func(S) R, cb func(R)) (func(), error) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return func() {}, c.disposedErr("Select")
	}
	cur := c.current
	c.mu.Unlock()

	fn := func(s S) { cb(sel(s)) }
	c.deliver(fn, cur)

	unsubscribe, err := c.Subscribe(fn)
	if err != nil {
		return func() {}, &DisposedError{Op: "Select", ID: c.id}
	}
	return unsubscribe, nil
}

// SelectAsync resolves the returned channel with the first selected value.
// The subscription is released once that value is delivered; the returned
// function releases it early. If sel fails on the current state the channel
// is closed and ErrNoSelection returned.
func SelectAsync[S, R any](c *Context[S], sel func(S) R) (<-chan R, func(), error) {
	out := make(chan R, 1)
	var (
		once      sync.Once
		delivered atomic.Bool
	)
	unsubscribe, err := Select(c, sel, func(r R) {
		once.Do(func() {
			out <- r
			delivered.Store(true)
		})
	})
	if err != nil {
		return nil, unsubscribe, err
	}
	unsubscribe()
	once.Do(func() { close(out) })
	if !delivered.Load() {
		return out, unsubscribe, ErrNoSelection
	}
	return out, unsubscribe, nil
}

// Use returns sel applied to the current state of c. It is the value a
// Select callback would receive first.
func Use[S, R any](c *Context[S], sel func(S) R) (R, error) {
	cur, err := c.Current()
	if err != nil {
		var zero R
		return zero, &DisposedError{Op: "Use", ID: c.id}
	}
	return sel(cur), nil
}
