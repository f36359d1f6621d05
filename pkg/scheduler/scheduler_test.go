package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/axiom/pkg/command"
	"github.com/bft-labs/axiom/pkg/loading"
	"github.com/bft-labs/axiom/pkg/scope"
	"github.com/bft-labs/axiom/pkg/state"
	"github.com/bft-labs/axiom/pkg/stream"
)

type testState struct {
	LoadState loading.State
	Completed []string
	Counter   int
}

func appendToCompleted(loadData func(ctx context.Context, name string) (string, error)) command.Command[testState, string] {
	return command.Named[testState, string]("append", command.NewLoad[testState, string, string](
		loadData,
		func(s testState, ls loading.State) testState {
			s.LoadState = ls
			return s
		},
		func(s testState, name string) testState {
			s.Completed = append(append([]string{}, s.Completed...), name)
			return s
		},
	))
}

func echo(_ context.Context, name string) (string, error) { return name, nil }

func bump(s testState) testState {
	s.Counter++
	return s
}

// commandNames maps the counter to "command-N", once per distinct value, n times.
func commandNames(n int) stream.Selector[testState, string] {
	return stream.Pipe3(
		stream.MapBy(func(s testState) int { return s.Counter }),
		stream.DistinctValues[int](),
		stream.Pipe2(
			stream.MapBy(func(c int) string { return fmt.Sprintf("command-%d", c) }),
			stream.First[string](n),
		),
	)
}

// constant emits v once and then stays open.
func constant(v string) stream.Selector[testState, string] {
	return stream.Pipe2(
		stream.MapBy(func(testState) string { return v }),
		stream.DistinctValues[string](),
	)
}

func newScheduler(t *testing.T, initial testState, opts ...Option) *Scheduler[testState] {
	t.Helper()
	sch := New(context.Background(), state.NewStore(initial), opts...)
	t.Cleanup(func() { _ = sch.Close() })
	return sch
}

func waitJob(t *testing.T, job *scope.Job) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	select {
	case <-job.Done():
		return job.Err()
	case <-ctx.Done():
		t.Fatal("job did not finish")
		return nil
	}
}

func TestRun(t *testing.T) {
	sch := newScheduler(t, testState{})

	job := Run(sch, appendToCompleted(echo), "command-1")
	require.NoError(t, waitJob(t, job))

	got := sch.Store().CurrentState()
	assert.Equal(t, []string{"command-1"}, got.Completed)
	assert.True(t, got.LoadState.IsSuccess())
}

func TestRun_ObserverSeesEveryStep(t *testing.T) {
	sch := newScheduler(t, testState{})
	sub := sch.Store().Observe(context.Background())
	defer sub.Close()

	require.NoError(t, waitJob(t, Run(sch, appendToCompleted(echo), "a")))

	var kinds []loading.Kind
	for i := 0; i < 3; i++ {
		kinds = append(kinds, (<-sub.C()).LoadState.Kind)
	}
	assert.Equal(t, []loading.Kind{loading.KindInitial, loading.KindLoading, loading.KindSuccess}, kinds)
}

func TestRunLatestOn_CancelsPreviousAndAppliesLatest(t *testing.T) {
	started := make(chan struct{})
	cmd := appendToCompleted(func(ctx context.Context, name string) (string, error) {
		if name == "command-1" {
			close(started)
			<-ctx.Done()
			return "", ctx.Err()
		}
		return name, nil
	})

	sch := newScheduler(t, testState{Counter: 1})
	job := RunLatestOn(sch, commandNames(2), cmd)

	<-started
	sch.Store().Apply(bump)

	require.NoError(t, waitJob(t, job))
	assert.Equal(t, scope.StatusCompleted, job.Status())

	got := sch.Store().CurrentState()
	assert.Equal(t, []string{"command-2"}, got.Completed)
	assert.True(t, got.LoadState.IsSuccess())
}

func TestRunLatestOn_SupersededResultIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	cmd := appendToCompleted(func(ctx context.Context, name string) (string, error) {
		if name == "command-1" {
			close(started)
			<-release // ignores cancellation on purpose
			return name, nil
		}
		return name, nil
	})

	var faults atomic.Int32
	sch := newScheduler(t, testState{Counter: 1}, WithFaultHandler(func(*scope.Job, error) { faults.Add(1) }))
	job := RunLatestOn(sch, commandNames(2), cmd)

	<-started
	sch.Store().Apply(bump)
	require.Eventually(t, func() bool {
		return len(sch.Store().CurrentState().Completed) == 1
	}, 2*time.Second, 5*time.Millisecond)
	close(release)

	require.NoError(t, waitJob(t, job))
	assert.Equal(t, []string{"command-2"}, sch.Store().CurrentState().Completed)
	assert.Zero(t, faults.Load())
}

func TestRunSequentialOn_DrainsInArrivalOrder(t *testing.T) {
	var active, maxActive atomic.Int32
	started := make(chan string, 3)
	release := make(chan struct{})

	cmd := appendToCompleted(func(ctx context.Context, name string) (string, error) {
		n := active.Add(1)
		defer active.Add(-1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		started <- name
		if name == "command-1" {
			<-release
		}
		return name, nil
	})

	sch := newScheduler(t, testState{Counter: 1})
	job := RunSequentialOn(sch, commandNames(3), cmd)

	assert.Equal(t, "command-1", <-started)
	sch.Store().Apply(bump)
	sch.Store().Apply(bump)
	close(release)

	require.NoError(t, waitJob(t, job))
	assert.Equal(t, []string{"command-1", "command-2", "command-3"}, sch.Store().CurrentState().Completed)
	assert.Equal(t, int32(1), maxActive.Load(), "invocations must not overlap")
}

func TestRunOn_FaultEndsJobOnly(t *testing.T) {
	boom := errors.New("boom")
	failing := command.Func[testState, string](func(string) command.Sequence[testState] {
		return func(ctx context.Context, emit command.Emit[testState]) error {
			return boom
		}
	})

	var mu sync.Mutex
	var faults []error
	sch := newScheduler(t, testState{}, WithFaultHandler(func(job *scope.Job, err error) {
		mu.Lock()
		defer mu.Unlock()
		faults = append(faults, err)
	}))

	for _, mode := range []Mode{Sequential, Latest} {
		job := RunOn(sch, commandNames(1), failing, mode)
		assert.ErrorIs(t, waitJob(t, job), boom, mode.String())
		assert.Equal(t, scope.StatusFaulted, job.Status(), mode.String())
	}

	require.NoError(t, waitJob(t, Run(sch, appendToCompleted(echo), "after")))
	assert.Equal(t, []string{"after"}, sch.Store().CurrentState().Completed)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, faults, 2)
}

func TestRunOn_UnknownMode(t *testing.T) {
	sch := newScheduler(t, testState{})
	job := RunOn(sch, commandNames(1), appendToCompleted(echo), Mode(42))
	assert.ErrorIs(t, waitJob(t, job), ErrUnknownMode)
}

func TestRunSequentialOn_SelfCancelledInvocationDoesNotStopQueue(t *testing.T) {
	cmd := appendToCompleted(func(ctx context.Context, name string) (string, error) {
		if name == "command-1" {
			return "", context.Canceled
		}
		return name, nil
	})

	sch := newScheduler(t, testState{Counter: 1})
	job := RunSequentialOn(sch, commandNames(2), cmd)

	require.Eventually(t, func() bool { return sch.Store().CurrentState().LoadState.IsLoading() }, 2*time.Second, 5*time.Millisecond)
	sch.Store().Apply(bump)

	require.NoError(t, waitJob(t, job))
	assert.Equal(t, []string{"command-2"}, sch.Store().CurrentState().Completed)
}

func TestClose_CancelsJobsAndStore(t *testing.T) {
	started := make(chan struct{})
	cmd := appendToCompleted(func(ctx context.Context, name string) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	})

	sch := New(context.Background(), state.NewStore(testState{Counter: 1}))
	job := RunLatestOn(sch, constant("forever"), cmd)
	sub := sch.Store().Observe(context.Background())
	<-started

	require.NoError(t, sch.Close())
	require.NoError(t, sch.Close())

	assert.ErrorIs(t, job.Err(), context.Canceled)
	assert.Equal(t, scope.StatusCanceled, job.Status())
	assert.True(t, sch.Store().Closed())
	assert.Equal(t, scope.StateClosed, sch.Scope().State())
	assert.True(t, sch.Store().CurrentState().LoadState.IsLoading(), "cancellation never becomes an Error state")

	for range sub.C() {
	}
}

func TestParentContextCancelsJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := state.NewStore(testState{})
	sch := New(ctx, store)
	defer sch.Close()

	sub := store.Observe(context.Background())
	job := RunSequentialOn(sch, constant("x"), appendToCompleted(echo))
	cancel()

	assert.ErrorIs(t, waitJob(t, job), context.Canceled)

	require.Eventually(t, store.Closed, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, scope.StateClosed, sch.Scope().State())

	closed := make(chan struct{})
	go func() {
		for range sub.C() {
		}
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription still open after host context was cancelled")
	}

	before := store.CurrentState()
	store.Apply(bump)
	assert.Equal(t, before, store.CurrentState())
	assert.ErrorIs(t, store.TryApply(bump), state.ErrStoreClosed)
}

func TestReduceInto(t *testing.T) {
	sch := newScheduler(t, testState{})

	src := make(chan int, 3)
	src <- 1
	src <- 2
	src <- 3
	close(src)

	job := ReduceInto[testState, int](sch, src, func(s testState, n int) testState {
		s.Counter += n
		return s
	})
	require.NoError(t, waitJob(t, job))
	assert.Equal(t, 6, sch.Store().CurrentState().Counter)
}

type recordingHandler struct {
	mu       sync.Mutex
	started  []Invocation
	applied  int
	finished []Outcome
}

func (h *recordingHandler) OnCommandStart(inv Invocation) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = append(h.started, inv)
}

func (h *recordingHandler) OnActionApplied(Invocation) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.applied++
}

func (h *recordingHandler) OnCommandFinish(_ Invocation, outcome Outcome, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.finished = append(h.finished, outcome)
}

func TestEventHandler(t *testing.T) {
	h := &recordingHandler{}
	sch := newScheduler(t, testState{}, WithEventHandler(h))

	job := Run(sch, appendToCompleted(echo), "x")
	require.NoError(t, waitJob(t, job))

	h.mu.Lock()
	defer h.mu.Unlock()
	require.Len(t, h.started, 1)
	assert.Equal(t, Invocation{JobID: job.ID(), Command: "append", Mode: OneShot, Seq: 1}, h.started[0])
	assert.Equal(t, 2, h.applied)
	assert.Equal(t, []Outcome{OutcomeCompleted}, h.finished)
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "sequential", Sequential.String())
	assert.Equal(t, "latest", Latest.String())
	assert.Equal(t, "oneshot", OneShot.String())
	assert.Equal(t, "unknown", Mode(9).String())
	assert.Equal(t, "canceled", OutcomeCanceled.String())
}
