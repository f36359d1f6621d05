// Package command models long-running work that produces state transitions
// over time.
//
// A [Command] is invoked with an input and returns a [Sequence]: a lazy
// producer of [state.Action] values. Nothing runs until the sequence is
// driven, and the sequence ends when the work completes, fails, or its
// context is cancelled. Commands never touch a Store; they only emit actions,
// so they can be tested by folding what they emit.
//
// # Load
//
// [Load] covers the common "fetch data and report progress" pattern:
//
//	cmd := command.NewLoad(
//	    func(ctx context.Context, id int) (User, error) { return api.User(ctx, id) },
//	    func(s Screen, ls loading.State) Screen { s.Load = ls; return s },
//	    func(s Screen, u User) Screen { s.User = u; return s },
//	)
//
// It emits Loading, then either one action applying Success together with
// the data, or an Error action. Cancellation is control flow, not a result:
// a cancelled load returns the cancellation error without emitting.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package command
