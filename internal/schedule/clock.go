// Package schedule provides the timing primitives the inspector rate-limits
// itself with: debouncing for resize/layout bursts, throttling for pointer
// movement and a per-frame batcher for visual refreshes. Timers come from an
// injected Clock so tests advance virtual time instead of sleeping.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// Timer is a stoppable pending callback.
type Timer interface {
	// Stop cancels the callback if it has not fired yet and reports whether
	// it was still pending.
	Stop() bool
}

// Clock abstracts timer creation.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// WallClock is the production Clock backed by the time package.
type WallClock struct{}

// Now implements Clock.
func (WallClock) Now() time.Time { return time.Now() }

// AfterFunc implements Clock.
func (WallClock) AfterFunc(d time.Duration, fn func()) Timer {
	return wallTimer{t: time.AfterFunc(d, fn)}
}

type wallTimer struct{ t *time.Timer }

func (w wallTimer) Stop() bool { return w.t.Stop() }

// LoopClock wraps a Clock so timer callbacks are handed to a dispatch
// function instead of running on the timer goroutine. Hosts with a
// single-threaded update loop use the dispatch to marshal the callback
// back onto that loop; everything downstream then stays lock-free.
type LoopClock struct {
	Inner    Clock
	Dispatch func(func())
}

// Now implements Clock.
func (c LoopClock) Now() time.Time { return c.Inner.Now() }

// AfterFunc implements Clock.
func (c LoopClock) AfterFunc(d time.Duration, fn func()) Timer {
	return c.Inner.AfterFunc(d, func() { c.Dispatch(fn) })
}

// ManualClock is a deterministic Clock for tests. Time only moves when
// Advance is called; due callbacks fire synchronously inside Advance, in
// deadline order.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*manualTimer
}

// NewManualClock creates a manual clock starting at an arbitrary fixed time.
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Unix(1_700_000_000, 0)}
}

// Now implements Clock.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc implements Clock.
func (c *ManualClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, when: c.now.Add(d), fn: fn}
	c.pending = append(c.pending, t)
	return t
}

// Advance moves the clock forward and fires every callback that came due.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	deadline := c.now
	var due []*manualTimer
	var rest []*manualTimer
	for _, t := range c.pending {
		if !t.stopped && !t.when.After(deadline) {
			due = append(due, t)
		} else if !t.stopped {
			rest = append(rest, t)
		}
	}
	c.pending = rest
	sort.SliceStable(due, func(i, j int) bool { return due[i].when.Before(due[j].when) })
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

type manualTimer struct {
	clock   *ManualClock
	when    time.Time
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped {
		return false
	}
	for i, p := range t.clock.pending {
		if p == t {
			t.clock.pending = append(t.clock.pending[:i], t.clock.pending[i+1:]...)
			t.stopped = true
			return true
		}
	}
	return false
}
