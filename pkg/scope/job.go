package scope

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the outcome of a job.
type Status int

const (
	StatusRunning Status = iota
	StatusCompleted
	StatusCanceled
	StatusFaulted
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusCompleted:
		return "Completed"
	case StatusCanceled:
		return "Canceled"
	case StatusFaulted:
		return "Faulted"
	default:
		return "Unknown"
	}
}

// Job is a handle to work started in a Scope.
type Job struct {
	id      string
	name    string
	ctx     context.Context
	cancel  context.CancelFunc
	started time.Time
	done    chan struct{}

	mu       sync.RWMutex
	status   Status
	err      error
	finished time.Time
}

type jobKey struct{}

func newJob(parent context.Context, name string) *Job {
	ctx, cancel := context.WithCancel(parent)
	j := &Job{
		id:      uuid.Must(uuid.NewV7()).String(),
		name:    name,
		cancel:  cancel,
		started: time.Now(),
		done:    make(chan struct{}),
		status:  StatusRunning,
	}
	j.ctx = context.WithValue(ctx, jobKey{}, j)
	return j
}

// FromContext returns the job whose context is ctx, or nil.
func FromContext(ctx context.Context) *Job {
	j, _ := ctx.Value(jobKey{}).(*Job)
	return j
}

func (j *Job) finish(status Status, err error) {
	j.mu.Lock()
	j.status = status
	j.err = err
	j.finished = time.Now()
	j.mu.Unlock()

	j.cancel()
	close(j.done)
}

// ID returns the job identifier (a UUIDv7, sortable by start time).
func (j *Job) ID() string { return j.id }

// Name returns the name given to Go.
func (j *Job) Name() string { return j.name }

// Cancel requests cancellation. It does not wait.
func (j *Job) Cancel() { j.cancel() }

// Done is closed when the job has finished.
func (j *Job) Done() <-chan struct{} { return j.done }

// Status returns the job status.
func (j *Job) Status() Status {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}

// Err returns the error the job ended with: nil when it completed, the
// cancellation error when it was cancelled, or its fault.
func (j *Job) Err() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.err
}

// Wait blocks until the job finishes or ctx is done, and returns Err or
// ctx.Err respectively.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return j.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Duration returns how long the job ran, or has been running.
func (j *Job) Duration() time.Duration {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.finished.IsZero() {
		return time.Since(j.started)
	}
	return j.finished.Sub(j.started)
}
