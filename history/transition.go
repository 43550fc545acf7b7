package history

import (
	"context"
	"sync"
	"time"
)

// Transition is the interval between a navigation updating the location and the
// host reporting, through History.CompleteTransition, that its UI has caught up.
type Transition struct {
	To      string
	Action  Action
	Started time.Time

	once     sync.Once
	done     chan struct{}
	finished time.Time
}

func newTransition(to string, action Action) *Transition {
	return &Transition{
		To:      to,
		Action:  action,
		Started: time.Now(),
		done:    make(chan struct{}),
	}
}

// Done returns a channel that is closed when the transition completes.
func (t *Transition) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the transition completes or ctx is done.
func (t *Transition) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Duration returns how long the transition took, or 0 while it is in flight.
func (t *Transition) Duration() time.Duration {
	select {
	case <-t.done:
		return t.finished.Sub(t.Started)
	default:
		return 0
	}
}

func (t *Transition) complete() {
	t.once.Do(func() {
		t.finished = time.Now()
		close(t.done)
	})
}
