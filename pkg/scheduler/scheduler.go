package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/axiom/pkg/log"
	"github.com/bft-labs/axiom/pkg/scope"
	"github.com/bft-labs/axiom/pkg/state"
)

// Option configures optional behavior of a Scheduler.
type Option func(*options)

type options struct {
	logger          log.Logger
	eventHandler    EventHandler
	shutdownTimeout time.Duration
	faultHandler    scope.FaultHandler
	scopeEmitter    scope.EventEmitter
}

func defaultOptions() options {
	return options{
		logger:          log.NewNoopLogger(),
		shutdownTimeout: scope.ShutdownTimeout,
	}
}

// WithLogger sets a logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = log.OrNoop(logger)
	}
}

// WithEventHandler sets a handler for command events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithShutdownTimeout bounds how long Close waits for jobs.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.shutdownTimeout = timeout
		}
	}
}

// WithFaultHandler receives jobs that faulted.
func WithFaultHandler(handler scope.FaultHandler) Option {
	return func(o *options) {
		o.faultHandler = handler
	}
}

// WithScopeEmitter receives the scope's state changes.
func WithScopeEmitter(emitter scope.EventEmitter) Option {
	return func(o *options) {
		o.scopeEmitter = emitter
	}
}

// Scheduler drives commands against one Store.
type Scheduler[S any] struct {
	store           *state.Store[S]
	scope           *scope.Scope
	logger          log.Logger
	events          EventHandler
	shutdownTimeout time.Duration

	stopAfter func() bool
	closeOnce sync.Once
	closeErr  error
}

// New creates a Scheduler for store. Its jobs live until ctx is done or
// Close is called. When ctx is done the scheduler closes itself, which also
// closes the Store.
func New[S any](ctx context.Context, store *state.Store[S], opts ...Option) *Scheduler[S] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	scopeOpts := []scope.Option{scope.WithLogger(o.logger)}
	if o.faultHandler != nil {
		scopeOpts = append(scopeOpts, scope.WithFaultHandler(o.faultHandler))
	}
	if o.scopeEmitter != nil {
		scopeOpts = append(scopeOpts, scope.WithEventEmitter(o.scopeEmitter))
	}

	s := &Scheduler[S]{
		store:           store,
		scope:           scope.New(ctx, scopeOpts...),
		logger:          o.logger,
		events:          o.eventHandler,
		shutdownTimeout: o.shutdownTimeout,
	}
	s.stopAfter = context.AfterFunc(ctx, func() {
		if err := s.Close(); err != nil {
			s.logger.Warn("scheduler shutdown after context done", log.Err(err))
		}
	})
	return s
}

// Store returns the Store this scheduler applies actions to.
func (s *Scheduler[S]) Store() *state.Store[S] {
	return s.store
}

// Scope returns the scope bounding the scheduler's jobs.
func (s *Scheduler[S]) Scope() *scope.Scope {
	return s.scope
}

// Close cancels every job, waits for them up to the shutdown timeout, and
// closes the Store. It returns scope.ErrShutdownTimeout if jobs did not stop
// in time. Close is idempotent.
func (s *Scheduler[S]) Close() error {
	s.closeOnce.Do(func() {
		s.stopAfter()
		s.closeErr = s.scope.Close(s.shutdownTimeout)
		s.store.Close()
	})
	return s.closeErr
}
