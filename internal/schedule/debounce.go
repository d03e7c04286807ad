package schedule

import (
	"sync"
	"time"
)

// Debouncer delays a callback until the burst of calls feeding it has gone
// quiet. A newer call supersedes the pending one; a superseded callback is
// never invoked.
type Debouncer struct {
	mu       sync.Mutex
	clock    Clock
	timer    Timer
	duration time.Duration
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(clock Clock, duration time.Duration) *Debouncer {
	if clock == nil {
		clock = WallClock{}
	}
	return &Debouncer{clock: clock, duration: duration}
}

// Debounce schedules fn after the quiet period, replacing any pending call.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.duration, fn)
}

// Cancel drops any pending call. Safe to call repeatedly.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Immediate cancels any pending call and runs fn now.
func (d *Debouncer) Immediate(fn func()) {
	d.Cancel()
	fn()
}

// Throttler invokes at most one callback per interval. The first call in an
// idle period fires immediately; calls arriving inside the interval replace
// each other and only the latest fires on the trailing edge.
type Throttler struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration
	last     time.Time
	timer    Timer
	trailing func()
}

// NewThrottler creates a throttler with the given minimum interval.
func NewThrottler(clock Clock, interval time.Duration) *Throttler {
	if clock == nil {
		clock = WallClock{}
	}
	return &Throttler{clock: clock, interval: interval}
}

// Call runs fn now if the interval has elapsed since the last invocation,
// otherwise parks it as the trailing call for the end of the interval.
func (t *Throttler) Call(fn func()) {
	t.mu.Lock()
	now := t.clock.Now()
	if elapsed := now.Sub(t.last); elapsed >= t.interval {
		t.last = now
		t.mu.Unlock()
		fn()
		return
	}
	t.trailing = fn
	if t.timer == nil {
		remaining := t.interval - now.Sub(t.last)
		t.timer = t.clock.AfterFunc(remaining, t.fireTrailing)
	}
	t.mu.Unlock()
}

func (t *Throttler) fireTrailing() {
	t.mu.Lock()
	fn := t.trailing
	t.trailing = nil
	t.timer = nil
	t.last = t.clock.Now()
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Cancel drops a parked trailing call.
func (t *Throttler) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.trailing = nil
}

// FrameBatcher coalesces visual-refresh requests to at most one per frame
// tick. Producers mark it dirty; the render loop consumes the flag once per
// tick.
type FrameBatcher struct {
	mu    sync.Mutex
	dirty bool
}

// Mark requests a refresh on the next frame.
func (b *FrameBatcher) Mark() {
	b.mu.Lock()
	b.dirty = true
	b.mu.Unlock()
}

// Consume reports whether a refresh is due and clears the flag.
func (b *FrameBatcher) Consume() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.dirty
	b.dirty = false
	return d
}
