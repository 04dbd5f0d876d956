package store

import (
	"context"
	"fmt"
)

// Result is what an action handler hands back to the store: either
// Immediate or Deferred.
type Result[S any] interface {
	// result prevents external packages from adding variants.
	result()
}

// Immediate carries a state computed synchronously.
type Immediate[S any] struct {
	Value S
}

func (Immediate[S]) result() {}

// Deferred carries a state that becomes available later.
type Deferred[S any] struct {
	await func(context.Context) (S, error)
}

func (Deferred[S]) result() {}

// Await blocks until the deferred state is available or ctx is done.
// A Deferred is awaited at most once.
func (d Deferred[S]) Await(ctx context.Context) (S, error) {
	if d.await == nil {
		var zero S
		return zero, ErrNoResult
	}
	return d.await(ctx)
}

// Now returns an Immediate result.
func Now[S any](v S) Result[S] {
	return Immediate[S]{Value: v}
}

// Later returns a Deferred result computed by fn when the store awaits it.
func Later[S any](fn func(context.Context) (S, error)) Result[S] {
	return Deferred[S]{await: fn}
}

type outcome[S any] struct {
	value S
	err   error
}

// Go starts fn in its own goroutine right away and returns a Deferred result
// resolving to its outcome.
func Go[S any](ctx context.Context, fn func(context.Context) (S, error)) Result[S] {
	done := make(chan outcome[S], 1)
	ready := make(chan struct{})
	go func() {
		close(ready)
		var o outcome[S]
		defer func() {
			if r := recover(); r != nil {
				o.err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
			}
			done <- o
		}()
		o.value, o.err = fn(ctx)
	}()
	<-ready

	return Deferred[S]{await: func(awaitCtx context.Context) (S, error) {
		select {
		case o := <-done:
			return o.value, o.err
		case <-awaitCtx.Done():
			var zero S
			return zero, awaitCtx.Err()
		}
	}}
}

func matchResult[S, T any](
	res Result[S],
	immediate func(Immediate[S]) T,
	deferred func(Deferred[S]) T,
) T {
	switch r := res.(type) {
	case Immediate[S]:
		return immediate(r)
	case Deferred[S]:
		return deferred(r)
	}
	panic(fmt.Sprintf("exhaustive match fallback, result type: %T", res))
}
