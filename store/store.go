package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"

	"github.com/on-the-ground/effect_ive_store/internal/logging"
	"github.com/on-the-ground/effect_ive_store/service"
	"github.com/on-the-ground/effect_ive_store/tagged"
)

// Commit describes one committed dispatch. Span runs from the handler call to
// the state replacement.
type Commit[S any] struct {
	Action string
	Prev   S
	Next   S
	Span   timespan.TimeSpan
}

// Option configures a Store.
type Option func(*options)

type options struct {
	name   string
	logger *zap.Logger
}

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithName labels the store in log output.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

type subscriber[S any] struct {
	id     uint64
	fn     func(S)
	active *atomic.Bool
}

type job[S any] struct {
	ctx      context.Context
	services service.Locator
	name     string
	payload  any
	staged   []*job[S]

	// done is set for callers waiting behind another dispatch.
	done      chan outcome[S]
	abandoned bool
}

type runningKey[S any] struct {
	store *Store[S]
}

// Store owns a current state, an action registry and subscribers.
// The zero Store is not usable; call New.
type Store[S any] struct {
	mu      sync.Mutex
	state   S
	actions map[string]entry[S]
	subs    []subscriber[S]
	hooks   []subscriber[Commit[S]]
	nextID  uint64
	running *job[S]
	queue   []*job[S]

	logger *zap.Logger
}

// New returns a store holding initial.
func New[S any](initial S, opts ...Option) *Store[S] {
	o := options{name: "store"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[S]{
		state:   initial,
		actions: make(map[string]entry[S]),
		logger:  logging.OrNop(o.logger).Named(o.name),
	}
}

// State returns the current state.
func (s *Store[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Register stores a's handler under name, replacing any previous handler.
func (s *Store[S]) Register(name string, a Registrant[S]) *Store[S] {
	s.mu.Lock()
	_, replaced := s.actions[name]
	s.actions[name] = a.entry()
	s.mu.Unlock()
	if replaced {
		s.logger.Debug("action handler replaced", zap.String("action", name))
	}
	return s
}

// RegisterAction registers a under its own name.
func (s *Store[S]) RegisterAction(a Registrant[S]) *Store[S] {
	return s.Register(a.ActionName(), a)
}

// Unregister removes the handler registered under name.
func (s *Store[S]) Unregister(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.actions[name]
	delete(s.actions, name)
	return ok
}

// Has reports whether an action is registered under name.
func (s *Store[S]) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.actions[name]
	return ok
}

// Actions returns the registered action names, sorted.
func (s *Store[S]) Actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.actions))
	for name := range s.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Subscribe appends fn to the subscribers and returns a function removing
// exactly that subscription. fn is not called until the next commit.
func (s *Store[S]) Subscribe(fn func(S)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := s.newSubscriber(fn)
	s.subs = append(s.subs, sub)
	return func() { s.unsubscribe(sub) }
}

// OnCommit registers fn to receive every Commit after subscribers ran.
func (s *Store[S]) OnCommit(fn func(Commit[S])) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	hook := subscriber[Commit[S]]{id: s.nextID, fn: fn, active: &atomic.Bool{}}
	hook.active.Store(true)
	s.nextID++
	s.hooks = append(s.hooks, hook)
	return func() {
		hook.active.Store(false)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.hooks = slices.DeleteFunc(s.hooks, func(h subscriber[Commit[S]]) bool { return h.id == hook.id })
	}
}

func (s *Store[S]) newSubscriber(fn func(S)) subscriber[S] {
	sub := subscriber[S]{id: s.nextID, fn: fn, active: &atomic.Bool{}}
	sub.active.Store(true)
	s.nextID++
	return sub
}

func (s *Store[S]) unsubscribe(sub subscriber[S]) {
	sub.active.Store(false)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = slices.DeleteFunc(s.subs, func(other subscriber[S]) bool { return other.id == sub.id })
}

// Dispatch runs the action registered under name without services.
func (s *Store[S]) Dispatch(ctx context.Context, name string, payload any) (S, error) {
	return s.DispatchWith(ctx, service.None, name, payload)
}

// DispatchWith runs the action registered under name, handing services to
// its handler.
//
// An unregistered name is a no-op returning the current state. A handler
// failure is returned as is, with the state left unchanged.
//
// While another dispatch is in flight the call waits for its turn and
// returns its own outcome; ctx bounds that wait. Dispatches issued by a
// running handler with the ctx it was given are staged instead: they run
// once that handler has committed, are dropped if it fails, and return the
// current state at once. Staged failures are logged, not returned.
func (s *Store[S]) DispatchWith(ctx context.Context, services service.Locator, name string, payload any) (S, error) {
	if services == nil {
		services = service.None
	}
	j := &job[S]{ctx: ctx, services: services, name: name, payload: payload}

	s.mu.Lock()
	if s.running != nil {
		if parent, ok := ctx.Value(runningKey[S]{s}).(*job[S]); ok && parent == s.running {
			parent.staged = append(parent.staged, j)
			cur := s.state
			s.mu.Unlock()
			s.logger.Debug("dispatch staged", zap.String("action", name), zap.String("by", parent.name))
			return cur, nil
		}
		j.done = make(chan outcome[S], 1)
		s.queue = append(s.queue, j)
		s.mu.Unlock()
		s.logger.Debug("dispatch queued", zap.String("action", name))
		return s.await(j)
	}
	s.running = j
	s.mu.Unlock()

	state, err := s.run(j)
	s.drain()
	if err == nil {
		state = s.State()
	}
	return state, err
}

// drain runs queued jobs until the queue is empty, handing each waiting
// caller its own outcome. Staged jobs have no caller; their failures are
// only logged.
func (s *Store[S]) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.running = nil
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		if next.abandoned {
			s.mu.Unlock()
			continue
		}
		s.running = next
		s.mu.Unlock()

		state, err := s.run(next)
		if next.done != nil {
			next.done <- outcome[S]{value: state, err: err}
		} else if err != nil {
			s.logger.Warn("staged dispatch failed", zap.String("action", next.name), zap.Error(err))
		}
	}
}

// await blocks until the queued job j has run. When j.ctx ends first, j is
// abandoned unless it already started.
func (s *Store[S]) await(j *job[S]) (S, error) {
	select {
	case o := <-j.done:
		return o.value, o.err
	case <-j.ctx.Done():
		s.mu.Lock()
		j.abandoned = true
		cur := s.state
		s.mu.Unlock()
		select {
		case o := <-j.done:
			return o.value, o.err
		default:
		}
		return cur, j.ctx.Err()
	}
}

func (s *Store[S]) run(j *job[S]) (S, error) {
	s.mu.Lock()
	e, ok := s.actions[j.name]
	prev := s.state
	s.mu.Unlock()

	if !ok {
		s.logger.Debug("dispatch of unregistered action ignored", zap.String("action", j.name))
		return prev, nil
	}

	started := time.Now()
	ctx := context.WithValue(j.ctx, runningKey[S]{s}, j)
	next, err := s.resolve(ctx, j.name, e, prev, j.payload, j.services)

	s.mu.Lock()
	staged := j.staged
	j.staged = nil
	if err == nil {
		s.queue = append(s.queue, staged...)
	}
	s.mu.Unlock()

	if err != nil {
		if len(staged) > 0 {
			s.logger.Debug("dropping dispatches staged by failed action",
				zap.String("action", j.name), zap.Int("dropped", len(staged)))
		}
		s.logger.Debug("dispatch failed", zap.String("action", j.name), zap.Error(err))
		return prev, err
	}
	s.commit(j.name, prev, next, started)
	return next, nil
}

func (s *Store[S]) resolve(ctx context.Context, name string, e entry[S], prev S, payload any, services service.Locator) (next S, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: action %q: %v", ErrHandlerPanic, name, r)
		}
	}()

	res, err := e.invoke(ctx, prev, payload, services)
	if err != nil {
		return next, err
	}
	if res == nil {
		return next, fmt.Errorf("%w: action %q", ErrNoResult, name)
	}

	type resolved struct {
		value S
		err   error
	}
	r := matchResult(res,
		func(imm Immediate[S]) resolved {
			return resolved{value: imm.Value}
		},
		func(def Deferred[S]) resolved {
			if !e.suspends {
				return resolved{err: fmt.Errorf("%w: action %q", ErrUnexpectedSuspend, name)}
			}
			v, err := def.Await(ctx)
			return resolved{value: v, err: err}
		},
	)
	return r.value, r.err
}

func (s *Store[S]) commit(name string, prev, next S, started time.Time) {
	s.mu.Lock()
	s.state = next
	subs := slices.Clone(s.subs)
	hooks := slices.Clone(s.hooks)
	s.mu.Unlock()

	for _, sub := range subs {
		if sub.active.Load() {
			s.notify(name, sub.fn, next)
		}
	}

	c := Commit[S]{Action: name, Prev: prev, Next: next, Span: timespan.BetweenTimes(started, time.Now())}
	for _, hook := range hooks {
		if hook.active.Load() {
			s.notify(name, func(S) { hook.fn(c) }, next)
		}
	}
	s.logger.Debug("state committed",
		zap.String("action", name),
		zap.Duration("took", c.Span.Duration()),
		zap.Int("subscribers", len(subs)),
	)
}

func (s *Store[S]) notify(name string, fn func(S), state S) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("subscriber panicked", zap.String("action", name), zap.Any("panic", r))
		}
	}()
	fn(state)
}

// IsInState reports whether the current state of s is tagged tag.
func IsInState[S tagged.Tagged](s *Store[S], tag string) bool {
	return tagged.HasTag(s.State(), tag)
}
