package schedule

import (
	"sync"
	"time"
)

// Debouncer runs the most recently triggered callback once the delay has
// elapsed without another trigger. A zero delay runs callbacks synchronously.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func()
	seq     uint64
	stopped bool
}

// NewDebouncer creates a debouncer with the given delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer{delay: delay}
}

// Trigger replaces any pending callback with fn and restarts the delay.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.delay == 0 {
		d.clearLocked()
		d.mu.Unlock()
		fn()
		return
	}
	d.clearLocked()
	d.seq++
	seq := d.seq
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.stopped || d.seq != seq || d.pending == nil {
			d.mu.Unlock()
			return
		}
		run := d.pending
		d.pending = nil
		d.timer = nil
		d.mu.Unlock()
		run()
	})
	d.mu.Unlock()
}

// Flush runs the pending callback now, if any. It reports whether a callback
// ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	run := d.pending
	d.clearLocked()
	d.mu.Unlock()
	if run == nil {
		return false
	}
	run()
	return true
}

// HasPending reports whether a callback is waiting for the delay.
func (d *Debouncer) HasPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Cancel drops the pending callback. Later triggers still work.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clearLocked()
}

// Stop drops the pending callback and ignores later triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.clearLocked()
}

func (d *Debouncer) clearLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.seq++
}
