package stream

import "context"

// Selector derives a channel of inputs from a channel of values.
type Selector[In, Out any] func(ctx context.Context, in <-chan In) <-chan Out

// send delivers v unless ctx is done first.
func send[T any](ctx context.Context, out chan<- T, v T) bool {
	select {
	case out <- v:
		return true
	case <-ctx.Done():
		return false
	}
}

// Map applies fn to every value.
func Map[In, Out any](ctx context.Context, in <-chan In, fn func(In) Out) <-chan Out {
	out := make(chan Out)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok || !send(ctx, out, fn(v)) {
					return
				}
			}
		}
	}()
	return out
}

// Filter forwards values for which keep returns true.
func Filter[T any](ctx context.Context, in <-chan T, keep func(T) bool) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				if keep(v) && !send(ctx, out, v) {
					return
				}
			}
		}
	}()
	return out
}

// DistinctFunc drops values that eq reports equal to the previous
// forwarded value.
func DistinctFunc[T any](ctx context.Context, in <-chan T, eq func(a, b T) bool) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		var last T
		first := true
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				if !first && eq(last, v) {
					continue
				}
				first = false
				last = v
				if !send(ctx, out, v) {
					return
				}
			}
		}
	}()
	return out
}

// Distinct drops consecutive duplicates.
func Distinct[T comparable](ctx context.Context, in <-chan T) <-chan T {
	return DistinctFunc(ctx, in, func(a, b T) bool { return a == b })
}

// Take forwards the first n values and then closes its output.
// The input is not drained further.
func Take[T any](ctx context.Context, in <-chan T, n int) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok || !send(ctx, out, v) {
					return
				}
			}
		}
	}()
	return out
}

// FromSlice emits values in order and closes.
func FromSlice[T any](ctx context.Context, values ...T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for _, v := range values {
			if !send(ctx, out, v) {
				return
			}
		}
	}()
	return out
}
