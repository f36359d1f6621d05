package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/axiom/pkg/command"
	"github.com/bft-labs/axiom/pkg/log"
	"github.com/bft-labs/axiom/pkg/scope"
	"github.com/bft-labs/axiom/pkg/state"
	"github.com/bft-labs/axiom/pkg/stream"
)

// Run starts cmd.Invoke(input) as a job and applies every emitted action to
// the Store in order.
func Run[S, I any](s *Scheduler[S], cmd command.Command[S, I], input I) *scope.Job {
	name := command.NameOf(cmd)
	return s.scope.Go("run "+name, func(ctx context.Context) error {
		inv := s.invocation(ctx, name, OneShot, 1)
		return s.drive(ctx, inv, cmd.Invoke(input), s.applyWhile(ctx))
	})
}

// RunOn derives inputs by applying selector to the Store's observed values
// and invokes cmd for each one under mode. The job ends when the selector's
// output closes and the last invocation has finished.
func RunOn[S, I any](s *Scheduler[S], selector stream.Selector[S, I], cmd command.Command[S, I], mode Mode) *scope.Job {
	name := command.NameOf(cmd)
	return s.scope.Go(mode.String()+" "+name, func(ctx context.Context) error {
		ctx, stop := context.WithCancel(ctx)
		defer stop()

		sub := s.store.Observe(ctx)
		defer sub.Close()
		inputs := selector(ctx, sub.C())

		switch mode {
		case Sequential:
			return runSequential(ctx, s, name, inputs, cmd)
		case Latest:
			return runLatest(ctx, s, name, inputs, cmd)
		default:
			return ErrUnknownMode
		}
	})
}

// RunLatestOn is RunOn in Latest mode.
func RunLatestOn[S, I any](s *Scheduler[S], selector stream.Selector[S, I], cmd command.Command[S, I]) *scope.Job {
	return RunOn(s, selector, cmd, Latest)
}

// RunSequentialOn is RunOn in Sequential mode.
func RunSequentialOn[S, I any](s *Scheduler[S], selector stream.Selector[S, I], cmd command.Command[S, I]) *scope.Job {
	return RunOn(s, selector, cmd, Sequential)
}

// ReduceInto folds every value from src into the Store through reducer as a
// job. The job completes when src is closed.
func ReduceInto[S, T any](s *Scheduler[S], src <-chan T, reducer state.Reducer[S, T]) *scope.Job {
	return s.scope.Go("reduce", func(ctx context.Context) error {
		return state.ReduceInto(ctx, src, s.store, reducer)
	})
}

func runSequential[S, I any](ctx context.Context, s *Scheduler[S], name string, inputs <-chan I, cmd command.Command[S, I]) error {
	q := newQueue[I]()
	go q.fill(ctx, inputs)

	apply := s.applyWhile(ctx)
	var seq uint64
	for {
		input, ok := q.pop(ctx)
		if !ok {
			return ctx.Err()
		}
		seq++
		s.logger.Debug("sequential input dequeued",
			log.String("command", name),
			log.Uint64("seq", seq),
			log.Int("pending", q.len()),
		)
		err := s.drive(ctx, s.invocation(ctx, name, Sequential, seq), cmd.Invoke(input), apply)
		if err == nil {
			continue
		}
		// An invocation that cancelled itself does not stop the queue.
		if command.IsCancellation(ctx, err) && ctx.Err() == nil {
			continue
		}
		return err
	}
}

func runLatest[S, I any](ctx context.Context, s *Scheduler[S], name string, inputs <-chan I, cmd command.Command[S, I]) error {
	ctx, fault := context.WithCancelCause(ctx)
	defer fault(nil)

	var (
		mu            sync.Mutex // guards current and cancelCurrent
		current       uint64
		cancelCurrent context.CancelFunc = func() {}
		wg            sync.WaitGroup
	)

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case input, ok := <-inputs:
			if !ok {
				break loop
			}

			mu.Lock()
			cancelCurrent()
			current++
			seq := current
			invCtx, cancel := context.WithCancel(ctx)
			cancelCurrent = cancel
			mu.Unlock()

			// Checking seq under mu keeps a superseded invocation from
			// applying anything once a newer one has started.
			apply := func(a state.Action[S]) error {
				mu.Lock()
				defer mu.Unlock()
				if seq != current || invCtx.Err() != nil {
					return context.Canceled
				}
				s.store.Apply(a)
				return nil
			}

			inv := s.invocation(ctx, name, Latest, seq)
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer cancel()
				err := s.drive(invCtx, inv, cmd.Invoke(input), apply)
				if err != nil && !command.IsCancellation(invCtx, err) {
					fault(err)
				}
			}()
		}
	}

	wg.Wait()
	return context.Cause(ctx)
}

// applyWhile applies actions to the Store until ctx is done.
func (s *Scheduler[S]) applyWhile(ctx context.Context) command.Emit[S] {
	return func(a state.Action[S]) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.store.Apply(a)
		return nil
	}
}

func (s *Scheduler[S]) invocation(ctx context.Context, name string, mode Mode, seq uint64) Invocation {
	inv := Invocation{Command: name, Mode: mode, Seq: seq}
	if job := scope.FromContext(ctx); job != nil {
		inv.JobID = job.ID()
	}
	return inv
}

// drive runs seq, handing each action to apply, and reports the outcome.
func (s *Scheduler[S]) drive(ctx context.Context, inv Invocation, seq command.Sequence[S], apply command.Emit[S]) error {
	logger := s.logger.With(
		log.String("job", inv.JobID),
		log.String("command", inv.Command),
		log.Uint64("seq", inv.Seq),
	)
	logger.Debug("command started", log.Stringer("mode", inv.Mode))
	if s.events != nil {
		s.events.OnCommandStart(inv)
	}

	start := time.Now()
	applied := 0
	err := seq(ctx, func(a state.Action[S]) error {
		if err := apply(a); err != nil {
			return err
		}
		applied++
		if s.events != nil {
			s.events.OnActionApplied(inv)
		}
		return nil
	})
	duration := time.Since(start)

	outcome := OutcomeCompleted
	switch {
	case err == nil:
	case command.IsCancellation(ctx, err):
		outcome = OutcomeCanceled
	default:
		outcome = OutcomeFaulted
	}

	fields := []log.Field{
		log.Stringer("outcome", outcome),
		log.Int("actions", applied),
		log.Duration("duration", duration),
	}
	if outcome == OutcomeFaulted {
		logger.Error("command failed", append(fields, log.Err(err))...)
	} else {
		logger.Debug("command finished", fields...)
	}

	if s.events != nil {
		s.events.OnCommandFinish(inv, outcome, duration, err)
	}
	return err
}
