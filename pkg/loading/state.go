package loading

import (
	"errors"
	"fmt"
)

// Kind identifies the variant of a State.
type Kind int

const (
	KindInitial Kind = iota
	KindLoading
	KindSuccess
	KindError
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindInitial:
		return "Initial"
	case KindLoading:
		return "Loading"
	case KindSuccess:
		return "Success"
	case KindError:
		return "Error"
	default:
		return "Unknown"
	}
}

// State is the lifecycle status of a load. The zero value is Initial.
// Err is set only for the Error variant.
type State struct {
	Kind Kind
	Err  error
}

// Initial returns the Initial variant.
func Initial() State { return State{Kind: KindInitial} }

// Loading returns the Loading variant.
func Loading() State { return State{Kind: KindLoading} }

// Success returns the Success variant.
func Success() State { return State{Kind: KindSuccess} }

// Failed returns the Error variant carrying cause.
func Failed(cause error) State { return State{Kind: KindError, Err: cause} }

func (s State) IsInitial() bool { return s.Kind == KindInitial }
func (s State) IsLoading() bool { return s.Kind == KindLoading }
func (s State) IsSuccess() bool { return s.Kind == KindSuccess }
func (s State) IsError() bool   { return s.Kind == KindError }

// Cause returns the failure cause, or nil for variants other than Error.
func (s State) Cause() error {
	if s.Kind != KindError {
		return nil
	}
	return s.Err
}

// Equal reports whether s and other are the same variant. Error variants
// are equal when either cause matches the other under errors.Is.
func (s State) Equal(other State) bool {
	if s.Kind != other.Kind {
		return false
	}
	if s.Kind != KindError {
		return true
	}
	return s.Err == other.Err || errors.Is(s.Err, other.Err) || errors.Is(other.Err, s.Err)
}

// String returns a human-readable representation of the state.
func (s State) String() string {
	if s.Kind == KindError && s.Err != nil {
		return fmt.Sprintf("Error(%v)", s.Err)
	}
	return s.Kind.String()
}
