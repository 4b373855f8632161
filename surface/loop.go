package surface

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a pending callback that can be cancelled
type Timer interface {
	// Stop cancels the callback. It reports false if the callback already
	// ran or was stopped.
	Stop() bool
}

// Loop serializes all surface work onto one goroutine
type Loop interface {
	Post(fn func())
	AfterFunc(d time.Duration, fn func()) Timer
}

// EventLoop is a Loop backed by a goroutine running Run
type EventLoop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

var _ Loop = (*EventLoop)(nil)

func NewEventLoop() *EventLoop {
	return &EventLoop{wake: make(chan struct{}, 1)}
}

// Post queues fn to run on the loop goroutine. Safe from any goroutine.
func (l *EventLoop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	// Non-blocking: one pending wake is enough
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// AfterFunc runs fn on the loop after d
func (l *EventLoop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.fired.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return t
}

// Run executes posted work until ctx is cancelled (blocking - run in goroutine)
func (l *EventLoop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}

		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, fn := range batch {
			fn()
		}
	}
}

// loopTimer guards against a callback that was already queued on the loop
// when Stop was called.
type loopTimer struct {
	timer *time.Timer
	fired atomic.Bool
}

func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	return t.fired.CompareAndSwap(false, true)
}
