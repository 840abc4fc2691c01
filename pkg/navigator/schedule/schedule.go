// Package schedule provides the single execution context that navigation
// state is confined to.
//
// A Scheduler runs posted functions one at a time, in posting order, on one
// logical context. Delayed work is expressed as a Timer whose callback is
// posted back onto the same context when it fires, so nothing ever mutates
// navigation state in parallel.
//
// MainLoop is the production implementation. Tests use the manual clock in
// the navtest package.
package schedule

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Scheduler confines work to a single execution context.
type Scheduler interface {
	// Post queues fn to run on the scheduler's context.
	// Safe to call from any goroutine, including from inside fn.
	Post(fn func())

	// After runs fn on the scheduler's context once d has elapsed.
	After(d time.Duration, fn func()) Timer
}

// Timer is a pending delayed callback.
type Timer interface {
	// Stop prevents the callback from running.
	// Returns false if the callback already ran or was already stopped.
	Stop() bool
}

// ErrLoopStopped is returned by Run when the loop was stopped explicitly.
var ErrLoopStopped = errors.New("main loop stopped")

// MainLoop is a Scheduler backed by one goroutine draining an unbounded
// queue of functions. Call Run from the goroutine that owns the UI.
type MainLoop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped chan struct{}
	stop    sync.Once
	running atomic.Bool
}

// NewMainLoop creates a main loop. Nothing runs until Run is called.
func NewMainLoop() *MainLoop {
	return &MainLoop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

// Post implements Scheduler.
// Functions posted after Stop are dropped.
func (l *MainLoop) Post(fn func()) {
	if fn == nil {
		return
	}
	select {
	case <-l.stopped:
		return
	default:
	}

	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// After implements Scheduler.
func (l *MainLoop) After(d time.Duration, fn func()) Timer {
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

// Run drains the queue until ctx is cancelled or Stop is called.
// Returns ctx.Err() or ErrLoopStopped.
func (l *MainLoop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("main loop already running")
	}
	defer l.running.Store(false)

	for {
		l.drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stopped:
			return ErrLoopStopped
		case <-l.wake:
		}
	}
}

// Stop ends Run and drops any queued functions.
func (l *MainLoop) Stop() {
	l.stop.Do(func() {
		close(l.stopped)
		l.mu.Lock()
		l.queue = nil
		l.mu.Unlock()
	})
}

// Running reports whether Run is active.
func (l *MainLoop) Running() bool {
	return l.running.Load()
}

func (l *MainLoop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		select {
		case <-l.stopped:
			return
		default:
		}
		fn()
	}
}

// loopTimer wraps time.Timer so a callback already posted to the queue
// still honours Stop.
type loopTimer struct {
	timer *time.Timer
	fired atomic.Bool
}

func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	return t.fired.CompareAndSwap(false, true)
}
