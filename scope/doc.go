// Package scope wraps a store.Store in a tree of contexts adding dependency
// injection, provided values, scoped subscriptions and deterministic disposal.
//
// A Context caches the store's current state and fans every committed state
// out to its own subscribers, then to its children, depth first. A child
// therefore observes every change its parent observes. Subscriber panics are
// recovered per callback and handed to Config.OnError.
//
// Ownership runs strictly from parent to child: a context owns its children,
// forks and derived scopes, and disposing it disposes all of them. A disposed
// context rejects every operation with a *DisposedError, except
// ServiceOptional, which quietly reports no service, and Dispose itself,
// which is idempotent.
//
// Services are looked up in the context's own registry first, then along the
// chain of ancestors. ProvideService never writes to an ancestor.
package scope
