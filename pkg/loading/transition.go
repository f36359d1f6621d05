package loading

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned by Transition for moves outside the
// load state machine.
var ErrInvalidTransition = errors.New("invalid load state transition")

// CanTransition reports whether from -> to is a valid move.
func CanTransition(from, to Kind) bool {
	switch from {
	case KindInitial, KindSuccess, KindError:
		return to == KindLoading
	case KindLoading:
		return to == KindSuccess || to == KindError
	default:
		return false
	}
}

// Transition validates from -> to and returns to on success.
// On failure it returns from unchanged together with ErrInvalidTransition.
func Transition(from, to State) (State, error) {
	if !CanTransition(from.Kind, to.Kind) {
		return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from.Kind, to.Kind)
	}
	return to, nil
}
