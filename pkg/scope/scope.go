package scope

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"time"

	"github.com/bft-labs/axiom/pkg/log"
)

// ShutdownTimeout is the default maximum time Close waits for jobs.
const ShutdownTimeout = 30 * time.Second

// State represents the lifecycle state of a scope.
type State int

const (
	StateOpen State = iota
	StateClosing
	StateClosed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateOpen:
		return "Open"
	case StateClosing:
		return "Closing"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// EventEmitter is called when the scope state changes.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
}

// FaultHandler receives jobs that ended with a fault.
type FaultHandler func(job *Job, err error)

// Option configures a Scope.
type Option func(*Scope)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger log.Logger) Option {
	return func(s *Scope) {
		s.logger = log.OrNoop(logger)
	}
}

// WithEventEmitter registers a state change listener.
func WithEventEmitter(emitter EventEmitter) Option {
	return func(s *Scope) {
		s.emitter = emitter
	}
}

// WithFaultHandler sets the handler for faulted jobs. Faults are always
// logged at error level; the handler runs after that and before the job's
// Done channel is closed.
func WithFaultHandler(handler FaultHandler) Option {
	return func(s *Scope) {
		s.onFault = handler
	}
}

// Scope bounds the lifetime of a group of jobs.
type Scope struct {
	mu      sync.RWMutex
	state   State
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	jobs    map[string]*Job
	closed  chan struct{}
	logger  log.Logger
	emitter EventEmitter
	onFault FaultHandler
}

// New creates an open scope whose jobs are cancelled when parent is done or
// when the scope is closed.
func New(parent context.Context, opts ...Option) *Scope {
	ctx, cancel := context.WithCancel(parent)
	s := &Scope{
		state:  StateOpen,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]*Job),
		closed: make(chan struct{}),
		logger: log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Context returns the scope context. It is cancelled on Close.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// State returns the current lifecycle state.
func (s *Scope) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Active returns the number of jobs that have not finished.
func (s *Scope) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// Go starts fn as a job. On a scope that is no longer open the returned job
// has already finished with ErrClosed.
func (s *Scope) Go(name string, fn func(ctx context.Context) error) *Job {
	s.mu.Lock()
	if s.state != StateOpen {
		s.mu.Unlock()
		job := newJob(context.Background(), name)
		job.finish(StatusCanceled, ErrClosed)
		return job
	}
	job := newJob(s.ctx, name)
	s.jobs[job.id] = job
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Debug("job started", log.String("job", job.id), log.String("name", name))

	go s.run(job, fn)
	return job
}

func (s *Scope) run(job *Job, fn func(ctx context.Context) error) {
	defer s.wg.Done()

	err := s.call(job, fn)

	status := StatusCompleted
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		status = StatusCanceled
	case job.ctx.Err() != nil:
		// Work aborted by cancellation often reports its own error.
		status = StatusCanceled
		err = job.ctx.Err()
	default:
		status = StatusFaulted
	}

	s.mu.Lock()
	delete(s.jobs, job.id)
	s.mu.Unlock()

	fields := []log.Field{
		log.String("job", job.id),
		log.String("name", job.name),
		log.Stringer("status", status),
		log.Duration("duration", time.Since(job.started)),
	}
	if status == StatusFaulted {
		s.logger.Error("job faulted", append(fields, log.Err(err))...)
		// The handler runs before Done is closed.
		if s.onFault != nil {
			s.onFault(job, err)
		}
	} else {
		s.logger.Debug("job finished", fields...)
	}

	job.finish(status, err)
}

// call runs fn and turns a panic into a FaultError.
func (s *Scope) call(job *Job, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &FaultError{Job: job.id, Value: r, Stack: debug.Stack()}
		}
	}()
	return fn(job.ctx)
}

// transitionTo attempts to transition to a new state.
func (s *Scope) transitionTo(newState State, reason string) error {
	s.mu.Lock()
	oldState := s.state

	switch oldState {
	case StateOpen:
		if newState != StateClosing {
			s.mu.Unlock()
			return ErrClosed
		}
	case StateClosing:
		if newState != StateClosed {
			s.mu.Unlock()
			return ErrClosed
		}
	default:
		s.mu.Unlock()
		return ErrClosed
	}

	s.state = newState
	s.mu.Unlock()

	// Emit event outside of lock
	if s.emitter != nil {
		s.emitter.OnStateChange(oldState, newState, reason)
	}

	s.logger.Debug("scope state transition",
		log.Stringer("from", oldState),
		log.Stringer("to", newState),
		log.String("reason", reason),
	)
	return nil
}

// Close cancels every job and waits up to timeout for them to return.
// Returns ErrShutdownTimeout if the timeout expires. Calls after the first
// wait for the first to finish and return nil.
func (s *Scope) Close(timeout time.Duration) error {
	if err := s.transitionTo(StateClosing, "Close() called"); err != nil {
		<-s.closed
		return nil
	}
	defer close(s.closed)

	s.cancel()
	err := s.waitWithTimeout(timeout)

	_ = s.transitionTo(StateClosed, "jobs drained")
	return err
}

// Closed is closed once Close has finished.
func (s *Scope) Closed() <-chan struct{} {
	return s.closed
}

// waitWithTimeout waits for all jobs to finish with a timeout.
func (s *Scope) waitWithTimeout(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		s.logger.Warn("shutdown timeout, abandoning jobs",
			log.Duration("timeout", timeout),
			log.Int("active", s.Active()),
		)
		return ErrShutdownTimeout
	}
}
