// Package debounce coalesces bursts of calls into a single trailing call.
package debounce

import (
	"sync"
	"time"

	"github.com/grovetools/deck/pkg/clock"
)

// Debouncer runs the most recent function passed to Call once wait has
// elapsed without another Call. A zero wait runs every call synchronously.
type Debouncer struct {
	clock clock.Clock
	wait  time.Duration

	mu    sync.Mutex
	timer clock.Timer
	fn    func()
	gen   uint64
}

// New creates a Debouncer. A nil clock uses the system clock.
func New(c clock.Clock, wait time.Duration) *Debouncer {
	if c == nil {
		c = clock.RealClock{}
	}
	if wait < 0 {
		wait = 0
	}
	return &Debouncer{clock: c, wait: wait}
}

// Wait returns the debounce window.
func (d *Debouncer) Wait() time.Duration {
	return d.wait
}

// Call schedules fn to run wait after this call, replacing any function
// scheduled by an earlier call that has not run yet.
func (d *Debouncer) Call(fn func()) {
	if d.wait == 0 {
		fn()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.fn = fn
	d.timer = d.clock.AfterFunc(d.wait, func() { d.fire(gen) })
}

// fire runs the pending function if no later Call, Flush or Stop superseded
// the timer that triggered it.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.fn == nil {
		d.mu.Unlock()
		return
	}
	fn := d.fn
	d.fn = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Flush runs the pending function immediately, if any. It reports whether a
// function ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.take()
	d.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Stop drops the pending function without running it. It reports whether a
// function was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.take() != nil
}

// Pending reports whether a function is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fn != nil
}

func (d *Debouncer) take() func() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	fn := d.fn
	d.fn = nil
	return fn
}
