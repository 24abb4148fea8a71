// Package debounce coalesces bursts of triggers into a single delayed call.
package debounce

import (
	"sync"
	"time"
)

// afterFunc is swapped out in tests to drive timers by hand.
var afterFunc = time.AfterFunc

// Debouncer runs fn once per burst of Trigger calls, delay after the last one.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64
	fn    func()
}

// New creates a debouncer. fn runs on a timer goroutine.
func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger schedules fn, restarting the delay. A timer callback that already
// fired but lost the race to a newer Trigger or a Stop is ignored.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = afterFunc(d.delay, func() {
		d.mu.Lock()
		stale := gen != d.gen
		if !stale {
			d.timer = nil
		}
		d.mu.Unlock()
		if !stale {
			d.fn()
		}
	})
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Ensure returns *d, first allocating a new debouncer into it when nil. The
// existing debouncer keeps its original fn.
func Ensure(d **Debouncer, delay time.Duration, fn func()) *Debouncer {
	if *d == nil {
		*d = New(delay, fn)
	}
	return *d
}
