// Package navtest provides utilities for testing code built on navigator.
//
// Scheduler is a manual-clock schedule.Scheduler: posted functions run only
// when the test calls Flush, and timers fire only when the test advances the
// clock. The goroutine driving the Scheduler plays the role of the UI
// context.
package navtest

import (
	"sort"
	"sync"
	"time"

	"github.com/randalmurphal/navigator/pkg/navigator/schedule"
)

// Scheduler is a deterministic schedule.Scheduler for tests.
type Scheduler struct {
	mu     sync.Mutex
	now    time.Duration
	queue  []func()
	timers []*timer
	seq    int
	posted chan struct{}
}

// Compile-time interface check.
var _ schedule.Scheduler = (*Scheduler)(nil)

// NewScheduler creates a scheduler whose clock starts at zero.
func NewScheduler() *Scheduler {
	return &Scheduler{
		posted: make(chan struct{}, 1),
	}
}

type timer struct {
	s       *Scheduler
	due     time.Duration
	seq     int
	fn      func()
	stopped bool
}

func (t *timer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Post queues fn until the next Flush. Safe from any goroutine.
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()

	select {
	case s.posted <- struct{}{}:
	default:
	}
}

// After registers fn to run once the clock has advanced by d.
func (s *Scheduler) After(d time.Duration, fn func()) schedule.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &timer{s: s, due: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Flush runs queued functions, including ones they post, until the queue is
// empty. Returns how many functions ran.
func (s *Scheduler) Flush() int {
	ran := 0
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return ran
		}
		fn := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		fn()
		ran++
	}
}

// Advance moves the clock forward by d, firing due timers in deadline order
// and flushing posted work after each one.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	s.Flush()
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		t.fn()
		s.Flush()
	}

	s.mu.Lock()
	s.now = target
	s.mu.Unlock()
}

// nextDue pops the earliest live timer due at or before target and moves the
// clock to its deadline.
func (s *Scheduler) nextDue(target time.Duration) *timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	s.timers = live
	if len(s.timers) == 0 {
		return nil
	}

	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].due == s.timers[j].due {
			return s.timers[i].seq < s.timers[j].seq
		}
		return s.timers[i].due < s.timers[j].due
	})
	t := s.timers[0]
	if t.due > target {
		return nil
	}
	s.timers = s.timers[1:]
	t.stopped = true
	s.now = t.due
	return t
}

// AwaitPost blocks until something has been posted since the last call, or
// until timeout. Use it when another goroutine (a gate, a timer) hops back
// onto the scheduler.
func (s *Scheduler) AwaitPost(timeout time.Duration) bool {
	s.mu.Lock()
	pending := len(s.queue) > 0
	s.mu.Unlock()
	if pending {
		return true
	}

	select {
	case <-s.posted:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Now returns the elapsed manual time.
func (s *Scheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// PendingTimers returns the number of timers that have not fired or been
// stopped.
func (s *Scheduler) PendingTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Queued returns the number of posted functions waiting for Flush.
func (s *Scheduler) Queued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
