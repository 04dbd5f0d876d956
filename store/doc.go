// Package store holds one current state value, a registry of named actions
// and an ordered list of subscribers.
//
// State changes only through Dispatch. A dispatch looks up the action by
// name, runs its handler with the current state, the payload and a service
// Locator, and commits the returned state. Subscribers are then notified
// synchronously, in registration order, before Dispatch returns.
//
// Handlers return a Result: Now for a value computed in place, Later or Go for
// a deferred value the store awaits before committing. A handler error or
// panic leaves the state untouched and notifies nobody.
//
// Dispatch is not re-entrant. A dispatch issued while another one is running
// waits until the in-flight dispatch and everything queued before it have
// committed, then returns its own result. A handler that dispatches with the
// ctx it was given stages the new dispatch behind its own commit instead and
// gets the current state back at once.
//
// Subscribers run on the goroutine of the dispatch being committed. A
// subscriber that dispatches must hand the call to another goroutine.
//
// Example:
//
//	st := store.New(initial)
//	st.RegisterAction(store.Pure("Increment", func(s tagged.Value, p Amount) tagged.Value {
//	    n, _ := tagged.FieldOf[int](s, "value")
//	    return s.With(tagged.Fields{"value": n + p.Amount})
//	}))
//	next, err := st.Dispatch(ctx, "Increment", Amount{Amount: 5})
package store
