// Package scope provides the owner-bound scheduling scope that bounds the
// lifetime of all background work attached to a Store.
//
// A Scope is created from a parent context supplied by the host (a UI
// screen, a session, a request). Work started with [Scope.Go] runs on its own
// goroutine as a [Job] whose context derives from the scope. Closing the
// scope cancels every job and waits for them to finish.
//
// # Usage
//
//	sc := scope.New(ctx, scope.WithLogger(logger))
//
//	job := sc.Go("refresh", func(ctx context.Context) error {
//	    return refresh(ctx)
//	})
//
//	// ... later, on teardown ...
//	if err := sc.Close(scope.ShutdownTimeout); err != nil {
//	    return err
//	}
//
// # State Machine
//
// Valid state transitions:
//   - Open -> Closing
//   - Closing -> Closed
//
// # Faults
//
// A job that returns a non-cancellation error, or panics, is Faulted. The
// fault is recorded on the job and passed to the scope's fault handler; it
// never affects other jobs.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package scope
