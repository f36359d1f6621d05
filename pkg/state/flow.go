package state

import "context"

// ReduceInto folds every value received from src into store through reducer.
// It returns nil when src is closed and ctx.Err() when ctx is done first.
func ReduceInto[S, T any](ctx context.Context, src <-chan T, store *Store[S], reducer Reducer[S, T]) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case item, ok := <-src:
			if !ok {
				return nil
			}
			store.Apply(Bind(reducer, item))
		}
	}
}

// CollectInto applies every action received from src to store.
// It returns nil when src is closed and ctx.Err() when ctx is done first.
func CollectInto[S any](ctx context.Context, src <-chan Action[S], store *Store[S]) error {
	return ReduceInto(ctx, src, store, func(s S, action Action[S]) S {
		return action(s)
	})
}
