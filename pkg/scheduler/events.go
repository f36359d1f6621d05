package scheduler

import "time"

// Mode selects how RunOn handles inputs that arrive while a command runs.
type Mode int

const (
	// Sequential queues inputs and drains each invocation before the next.
	Sequential Mode = iota
	// Latest cancels the running invocation when a new input arrives.
	Latest
	// OneShot marks invocations started by Run.
	OneShot
)

// String returns a human-readable representation of the mode.
func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Latest:
		return "latest"
	case OneShot:
		return "oneshot"
	default:
		return "unknown"
	}
}

// Outcome is how one command invocation ended.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeCanceled
	OutcomeFaulted
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeCanceled:
		return "canceled"
	case OutcomeFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Invocation identifies one run of a command's sequence.
type Invocation struct {
	JobID   string
	Command string
	Mode    Mode
	// Seq counts invocations within a job, starting at 1.
	Seq uint64
}

// EventHandler receives scheduler events. Calls are made synchronously from
// the goroutine driving the command and must return quickly.
type EventHandler interface {
	OnCommandStart(inv Invocation)
	OnActionApplied(inv Invocation)
	OnCommandFinish(inv Invocation, outcome Outcome, duration time.Duration, err error)
}
