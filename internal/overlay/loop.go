package overlay

import (
	"context"
	"sync"
)

// Loop runs queued functions one at a time on the goroutine that calls Run.
// It keeps host mutations and the trackers they drive on one goroutine when
// events arrive from elsewhere, such as a file watcher.
type Loop struct {
	queue    chan func()
	done     chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a loop whose queue holds size pending functions.
func NewLoop(size int) *Loop {
	return &Loop{
		queue: make(chan func(), max(size, 1)),
		done:  make(chan struct{}),
	}
}

// QueueUpdate schedules fn. It blocks while the queue is full and reports
// false once the loop has stopped.
func (l *Loop) QueueUpdate(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run executes queued functions until ctx is done and returns ctx.Err().
// Functions still queued at that point are dropped.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stopOnce.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}
