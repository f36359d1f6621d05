package state

import (
	"context"
	"sync"
)

// Subscription is one observer's view of a Store.
//
// Values are queued per subscriber without bound, so a subscriber that stops
// reading grows its own queue rather than stalling writers. Close it when it
// is no longer needed.
type Subscription[S any] struct {
	store *Store[S]
	out   chan S

	mu    sync.Mutex
	queue []S
	wake  chan struct{}

	done     chan struct{}
	doneOnce sync.Once
}

func newSubscription[S any](store *Store[S]) *Subscription[S] {
	return &Subscription[S]{
		store: store,
		out:   make(chan S),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// C returns the channel of observed values. It is closed when the
// subscription ends.
func (sub *Subscription[S]) C() <-chan S {
	return sub.out
}

// Done is closed when the subscription has been asked to end.
func (sub *Subscription[S]) Done() <-chan struct{} {
	return sub.done
}

// Close ends the subscription and detaches it from the Store.
func (sub *Subscription[S]) Close() {
	sub.store.unsubscribe(sub)
	sub.terminate()
}

func (sub *Subscription[S]) terminate() {
	sub.doneOnce.Do(func() { close(sub.done) })
}

func (sub *Subscription[S]) push(v S) {
	sub.mu.Lock()
	sub.queue = append(sub.queue, v)
	sub.mu.Unlock()

	select {
	case sub.wake <- struct{}{}:
	default:
	}
}

func (sub *Subscription[S]) pop() (S, bool) {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	var zero S
	if len(sub.queue) == 0 {
		return zero, false
	}
	v := sub.queue[0]
	sub.queue[0] = zero
	sub.queue = sub.queue[1:]
	return v, true
}

// pump moves queued values to the output channel until the subscription ends.
func (sub *Subscription[S]) pump(ctx context.Context) {
	defer close(sub.out)

	for {
		select {
		case <-sub.done:
			return
		default:
		}

		v, ok := sub.pop()
		if !ok {
			select {
			case <-sub.wake:
				continue
			case <-sub.done:
				return
			case <-ctx.Done():
				sub.Close()
				return
			}
		}

		select {
		case sub.out <- v:
		case <-sub.done:
			return
		case <-ctx.Done():
			sub.Close()
			return
		}
	}
}
