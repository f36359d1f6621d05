package state

// Action is a pure state transition. It must not mutate its argument or
// perform side effects, and it must return the same result for the same
// input.
type Action[S any] func(S) S

// Reducer is a pure state transition parameterized by an input value.
type Reducer[S, I any] func(S, I) S

// Compose folds actions left to right into a single Action.
// Compose(a1, a2, a3)(s) == a3(a2(a1(s))); Compose() is the identity.
func Compose[S any](actions ...Action[S]) Action[S] {
	if len(actions) == 0 {
		return Identity[S]()
	}
	// Copy so later changes to the caller's slice do not leak in.
	fns := make([]Action[S], len(actions))
	copy(fns, actions)
	return func(s S) S {
		for _, fn := range fns {
			s = fn(s)
		}
		return s
	}
}

// Identity returns the Action that leaves state unchanged.
func Identity[S any]() Action[S] {
	return func(s S) S { return s }
}

// Bind partially applies reducer to input.
func Bind[S, I any](reducer Reducer[S, I], input I) Action[S] {
	return func(s S) S { return reducer(s, input) }
}
