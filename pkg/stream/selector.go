package stream

import "context"

// MapBy returns a Selector form of Map.
func MapBy[In, Out any](fn func(In) Out) Selector[In, Out] {
	return func(ctx context.Context, in <-chan In) <-chan Out {
		return Map(ctx, in, fn)
	}
}

// FilterBy returns a Selector form of Filter.
func FilterBy[T any](keep func(T) bool) Selector[T, T] {
	return func(ctx context.Context, in <-chan T) <-chan T {
		return Filter(ctx, in, keep)
	}
}

// DistinctBy returns a Selector form of DistinctFunc.
func DistinctBy[T any](eq func(a, b T) bool) Selector[T, T] {
	return func(ctx context.Context, in <-chan T) <-chan T {
		return DistinctFunc(ctx, in, eq)
	}
}

// DistinctValues returns a Selector form of Distinct.
func DistinctValues[T comparable]() Selector[T, T] {
	return func(ctx context.Context, in <-chan T) <-chan T {
		return Distinct(ctx, in)
	}
}

// First returns a Selector form of Take.
func First[T any](n int) Selector[T, T] {
	return func(ctx context.Context, in <-chan T) <-chan T {
		return Take(ctx, in, n)
	}
}

// Pipe2 chains two selectors.
func Pipe2[A, B, C any](first Selector[A, B], second Selector[B, C]) Selector[A, C] {
	return func(ctx context.Context, in <-chan A) <-chan C {
		return second(ctx, first(ctx, in))
	}
}

// Pipe3 chains three selectors.
func Pipe3[A, B, C, D any](first Selector[A, B], second Selector[B, C], third Selector[C, D]) Selector[A, D] {
	return Pipe2(Pipe2(first, second), third)
}
