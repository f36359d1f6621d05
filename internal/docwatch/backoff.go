package docwatch

import (
	"context"
	"errors"
	"io/fs"
	"math/rand"
	"os"
	"time"
)

// Read retry settings. A file replaced on save can be missing for a moment.
const (
	readAttempts       = 4
	readBackoffInitial = 20 * time.Millisecond
	readBackoffMax     = 200 * time.Millisecond
)

// backoff implements exponential backoff with jitter.
type backoff struct {
	max     time.Duration
	current time.Duration
}

func newBackoff(initial, max time.Duration) *backoff {
	return &backoff{
		max:     max,
		current: initial,
	}
}

// Wait sleeps for the current duration (±20%) or until ctx is done, then
// doubles the duration up to max.
func (b *backoff) Wait(ctx context.Context) error {
	jitter := float64(b.current) * 0.2 * (rand.Float64()*2 - 1)
	timer := time.NewTimer(time.Duration(float64(b.current) + jitter))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
	return nil
}

// readFile reads path, retrying while it does not exist.
func readFile(ctx context.Context, path string) ([]byte, error) {
	b := newBackoff(readBackoffInitial, readBackoffMax)
	for attempt := 1; ; attempt++ {
		data, err := os.ReadFile(path)
		if err == nil || !errors.Is(err, fs.ErrNotExist) || attempt == readAttempts {
			return data, err
		}
		if err := b.Wait(ctx); err != nil {
			return nil, err
		}
	}
}
