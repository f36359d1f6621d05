package state

import (
	"context"
	"sync"
	"sync/atomic"
)

// Store is an atomic, observable single-value state container.
//
// All mutation goes through Apply, which serializes writers so that no update
// is ever lost. Reads through CurrentState never block on writers.
type Store[S any] struct {
	mu     sync.Mutex // serializes commits and subscriber registration
	cur    atomic.Pointer[S]
	subs   map[*Subscription[S]]struct{}
	closed bool
	equal  func(a, b S) bool
}

// Option configures a Store.
type Option[S any] func(*Store[S])

// WithEqual suppresses notifications for commits that eq reports as equal to
// the previous value. The value is still committed.
func WithEqual[S any](eq func(a, b S) bool) Option[S] {
	return func(s *Store[S]) {
		s.equal = eq
	}
}

// NewStore creates a Store holding initial.
func NewStore[S any](initial S, opts ...Option[S]) *Store[S] {
	s := &Store[S]{
		subs: make(map[*Subscription[S]]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cur.Store(&initial)
	return s
}

// CurrentState returns the most recently committed value.
func (s *Store[S]) CurrentState() S {
	return *s.cur.Load()
}

// Apply commits action(current) as the new current value.
// Concurrent calls are serialized; each action sees every previously
// committed value. Apply on a closed Store does nothing.
//
// A panicking action is a programming error: the panic propagates to the
// caller and the state is left unchanged.
func (s *Store[S]) Apply(action Action[S]) {
	_ = s.TryApply(action)
}

// ApplyAll applies actions as a single atomic step. Subscribers never see
// the intermediate values.
func (s *Store[S]) ApplyAll(actions ...Action[S]) {
	_ = s.TryApply(Compose(actions...))
}

// TryApply is Apply that reports ErrStoreClosed instead of silently
// dropping the action.
func (s *Store[S]) TryApply(action Action[S]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	prev := *s.cur.Load()
	next := action(prev)
	s.cur.Store(&next)

	if s.equal != nil && s.equal(prev, next) {
		return nil
	}
	// Pushing under mu gives every subscriber the same commit order.
	for sub := range s.subs {
		sub.push(next)
	}
	return nil
}

// Observe subscribes to the Store. The subscription first delivers the value
// current at subscribe time, then every later commit in order. It ends when
// ctx is done, when the subscription is closed, or when the Store is closed.
func (s *Store[S]) Observe(ctx context.Context) *Subscription[S] {
	sub := newSubscription(s)

	s.mu.Lock()
	if s.closed {
		sub.terminate()
	} else {
		sub.push(*s.cur.Load())
		s.subs[sub] = struct{}{}
	}
	s.mu.Unlock()

	go sub.pump(ctx)
	return sub
}

// Close tears the Store down. Every subscription ends and later applies are
// ignored. Close is idempotent.
func (s *Store[S]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for sub := range s.subs {
		sub.terminate()
		delete(s.subs, sub)
	}
}

// Closed reports whether Close has been called.
func (s *Store[S]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Subscribers returns the number of live subscriptions.
func (s *Store[S]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Store[S]) unsubscribe(sub *Subscription[S]) {
	s.mu.Lock()
	delete(s.subs, sub)
	s.mu.Unlock()
}
