package command

import (
	"context"

	"github.com/bft-labs/axiom/pkg/loading"
	"github.com/bft-labs/axiom/pkg/state"
)

// Load is a Command that loads data and reports the load lifecycle.
//
// Per invocation it emits Loading, calls LoadData, and then emits exactly
// one terminal action: Success combined with DataReducer on success, or
// Error(cause) on failure. If LoadData fails because the sequence was
// cancelled, the error is returned and nothing more is emitted.
type Load[S, I, D any] struct {
	LoadData         func(ctx context.Context, input I) (D, error)
	LoadStateReducer state.Reducer[S, loading.State]
	DataReducer      state.Reducer[S, D]
}

// NewLoad creates a Load command.
func NewLoad[S, I, D any](
	loadData func(ctx context.Context, input I) (D, error),
	loadStateReducer state.Reducer[S, loading.State],
	dataReducer state.Reducer[S, D],
) *Load[S, I, D] {
	return &Load[S, I, D]{
		LoadData:         loadData,
		LoadStateReducer: loadStateReducer,
		DataReducer:      dataReducer,
	}
}

// Invoke returns the load sequence for input.
func (l *Load[S, I, D]) Invoke(input I) Sequence[S] {
	return func(ctx context.Context, emit Emit[S]) error {
		if err := emit(state.Bind(l.LoadStateReducer, loading.Loading())); err != nil {
			return err
		}

		data, err := l.LoadData(ctx, input)
		if err != nil {
			if IsCancellation(ctx, err) {
				return err
			}
			return emit(state.Bind(l.LoadStateReducer, loading.Failed(err)))
		}

		// Success and data land in one action so no observer sees Success
		// next to stale data.
		return emit(func(s S) S {
			return l.DataReducer(l.LoadStateReducer(s, loading.Success()), data)
		})
	}
}

var _ Command[struct{}, int] = (*Load[struct{}, int, int])(nil)
