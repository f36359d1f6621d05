package stream

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain[T any](t *testing.T, ch <-chan T) []T {
	t.Helper()
	var got []T
	timeout := time.After(2 * time.Second)
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				return got
			}
			got = append(got, v)
		case <-timeout:
			t.Fatal("channel not closed")
		}
	}
}

func TestMap(t *testing.T) {
	ctx := context.Background()
	out := Map(ctx, FromSlice(ctx, 1, 2, 3), strconv.Itoa)
	assert.Equal(t, []string{"1", "2", "3"}, drain(t, out))
}

func TestFilter(t *testing.T) {
	ctx := context.Background()
	out := Filter(ctx, FromSlice(ctx, 1, 2, 3, 4), func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{2, 4}, drain(t, out))
}

func TestDistinct(t *testing.T) {
	ctx := context.Background()
	out := Distinct(ctx, FromSlice(ctx, 1, 1, 2, 2, 2, 1, 3, 3))
	assert.Equal(t, []int{1, 2, 1, 3}, drain(t, out))
}

func TestDistinctFunc(t *testing.T) {
	ctx := context.Background()
	sameParity := func(a, b int) bool { return a%2 == b%2 }
	out := DistinctFunc(ctx, FromSlice(ctx, 1, 3, 2, 4, 5), sameParity)
	assert.Equal(t, []int{1, 2, 5}, drain(t, out))
}

func TestTake(t *testing.T) {
	ctx := context.Background()
	in := make(chan int)
	go func() {
		for i := 0; ; i++ {
			select {
			case in <- i:
			case <-time.After(time.Second):
				return
			}
		}
	}()

	assert.Equal(t, []int{0, 1}, drain(t, Take(ctx, in, 2)))
}

func TestTake_Zero(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, drain(t, Take(ctx, make(chan int), 0)))
}

func TestOperators_StopOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan int)

	outs := []<-chan int{
		Map(ctx, in, func(n int) int { return n }),
		Filter(ctx, in, func(int) bool { return true }),
		Distinct(ctx, in),
		Take(ctx, in, 5),
	}
	cancel()

	for _, out := range outs {
		assert.Empty(t, drain(t, out))
	}
}

func TestPipe(t *testing.T) {
	ctx := context.Background()
	selector := Pipe3(
		MapBy(func(n int) int { return n / 10 }),
		DistinctValues[int](),
		First[int](2),
	)

	got := drain(t, selector(ctx, FromSlice(ctx, 1, 5, 12, 19, 25, 30)))
	assert.Equal(t, []int{0, 1}, got)

	evens := Pipe2(FilterBy(func(n int) bool { return n%2 == 0 }), DistinctBy(func(a, b int) bool { return a == b }))
	require.Equal(t, []int{2, 4, 2}, drain(t, evens(ctx, FromSlice(ctx, 2, 2, 3, 4, 4, 2))))
}
