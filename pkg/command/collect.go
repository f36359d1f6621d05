package command

import (
	"context"

	"github.com/bft-labs/axiom/pkg/state"
)

// Collect drives seq to completion and returns the emitted actions.
// On error the actions emitted so far are returned alongside it.
func Collect[S any](ctx context.Context, seq Sequence[S]) ([]state.Action[S], error) {
	var actions []state.Action[S]
	err := seq(ctx, func(a state.Action[S]) error {
		actions = append(actions, a)
		return nil
	})
	return actions, err
}

// Scan drives seq and returns the running fold of its actions over initial,
// starting with initial itself.
func Scan[S any](ctx context.Context, seq Sequence[S], initial S) ([]S, error) {
	states := []S{initial}
	cur := initial
	err := seq(ctx, func(a state.Action[S]) error {
		cur = a(cur)
		states = append(states, cur)
		return nil
	})
	return states, err
}
