package command

import (
	"context"
	"errors"

	"github.com/bft-labs/axiom/pkg/state"
)

// Emit delivers one action to whoever drives a Sequence. A non-nil error
// tells the producer to stop and return that error.
type Emit[S any] func(state.Action[S]) error

// Sequence is a lazy, cancellable producer of actions. Calling it runs the
// work on the caller's goroutine, emitting actions in order. It returns nil
// on completion, a cancellation error when ctx is done, or a fault.
type Sequence[S any] func(ctx context.Context, emit Emit[S]) error

// Command produces a Sequence of actions for an input. Implementations must
// be safe to invoke concurrently.
type Command[S, I any] interface {
	Invoke(input I) Sequence[S]
}

// Func adapts a function to the Command interface.
type Func[S, I any] func(input I) Sequence[S]

// Invoke calls f(input).
func (f Func[S, I]) Invoke(input I) Sequence[S] {
	return f(input)
}

// Just returns a Sequence that emits actions and completes.
func Just[S any](actions ...state.Action[S]) Sequence[S] {
	return func(ctx context.Context, emit Emit[S]) error {
		for _, a := range actions {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := emit(a); err != nil {
				return err
			}
		}
		return nil
	}
}

// Empty returns a Sequence that completes without emitting.
func Empty[S any]() Sequence[S] {
	return Just[S]()
}

// Concat runs seqs one after another. It stops at the first error.
func Concat[S any](seqs ...Sequence[S]) Sequence[S] {
	return func(ctx context.Context, emit Emit[S]) error {
		for _, seq := range seqs {
			if err := seq(ctx, emit); err != nil {
				return err
			}
		}
		return nil
	}
}

// IsCancellation reports whether err ends a sequence driven by ctx because
// of cancellation rather than failure.
func IsCancellation(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	return ctx != nil && ctx.Err() != nil
}
