package store

import (
	"context"
	"fmt"

	"github.com/on-the-ground/effect_ive_store/internal/helper"
	"github.com/on-the-ground/effect_ive_store/service"
)

// Handler computes the next state from the current one and a payload.
// It must not mutate state in place; side effects go through services.
type Handler[S, P any] func(ctx context.Context, state S, payload P, services service.Locator) (Result[S], error)

// Action is a named, typed operation on a Store. Suspends marks handlers that
// may return a Deferred result.
type Action[S, P any] struct {
	Name     string
	Suspends bool
	Handler  Handler[S, P]
}

// Registrant is implemented by every Action[S, P] and lets stores hold
// actions of different payload types.
type Registrant[S any] interface {
	ActionName() string
	entry() entry[S]
}

var _ Registrant[int] = Action[int, string]{}

// ActionName returns a.Name.
func (a Action[S, P]) ActionName() string { return a.Name }

func (a Action[S, P]) entry() entry[S] {
	return entry[S]{
		suspends: a.Suspends,
		invoke: func(ctx context.Context, state S, raw any, services service.Locator) (Result[S], error) {
			payload, err := helper.TypedValueOf[P](raw)
			if err != nil {
				return nil, fmt.Errorf("%w: action %q: %w", ErrPayloadType, a.Name, err)
			}
			return a.Handler(ctx, state, payload, services)
		},
	}
}

type entry[S any] struct {
	suspends bool
	invoke   func(ctx context.Context, state S, payload any, services service.Locator) (Result[S], error)
}

// Pure returns an action whose handler is a plain state transition.
func Pure[S, P any](name string, fn func(S, P) S) Action[S, P] {
	return Action[S, P]{
		Name: name,
		Handler: func(_ context.Context, state S, payload P, _ service.Locator) (Result[S], error) {
			return Now(fn(state, payload)), nil
		},
	}
}

// Effectful returns a synchronous action that may use services and fail.
func Effectful[S, P any](name string, fn func(context.Context, S, P, service.Locator) (S, error)) Action[S, P] {
	return Action[S, P]{
		Name: name,
		Handler: func(ctx context.Context, state S, payload P, services service.Locator) (Result[S], error) {
			next, err := fn(ctx, state, payload, services)
			if err != nil {
				return nil, err
			}
			return Now(next), nil
		},
	}
}

// Async returns an action allowed to suspend.
func Async[S, P any](name string, h Handler[S, P]) Action[S, P] {
	return Action[S, P]{Name: name, Suspends: true, Handler: h}
}
