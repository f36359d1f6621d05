// Package scheduler binds a Store to Commands.
//
// A [Scheduler] owns a [scope.Scope] derived from the context its host
// supplies. Every command it drives runs as a job in that scope, and every
// action the command emits is applied to the Store in emission order.
// Closing the scheduler (or cancelling the host context) cancels all jobs and
// ends the Store's subscriptions.
//
// # One-shot
//
//	job := scheduler.Run(sch, loadUser, userID)
//	err := job.Wait(ctx)
//
// # Driven by state
//
// [RunOn] derives command inputs from the Store itself. The selector receives
// the Store's observed values and returns the inputs:
//
//	scheduler.RunLatestOn(sch,
//	    stream.Pipe2(
//	        stream.MapBy(func(s Screen) string { return s.Query }),
//	        stream.DistinctValues[string](),
//	    ),
//	    search,
//	)
//
// In [Latest] mode a new input cancels the invocation in flight; only the
// newest invocation's actions reach the Store. In [Sequential] mode inputs
// wait in an unbounded queue and each invocation is drained before the next
// starts.
//
// # Errors
//
// A command that fails with anything other than cancellation faults its job.
// The scheduler does not convert failures into state; commands that want
// failures in state (like [command.Load]) do that themselves.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package scheduler
