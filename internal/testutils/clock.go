package testutils

import (
	"sort"
	"sync"
	"time"

	"github.com/aretw0/mootcourt/pkg/ports"
)

// ManualClock is a ports.Clock whose time only moves when Advance is called.
// Callbacks run synchronously inside Advance, in deadline order, so tests can
// step through thinking delays without sleeping.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	seq     int
	timers  []*manualTimer
	stopped []*manualTimer
}

type manualTimer struct {
	clock    *ManualClock
	seq      int
	deadline time.Time
	f        func()
	stopped  bool
	fired    bool
}

// NewManualClock returns a clock frozen at a fixed instant.
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Date(2007, time.March, 1, 9, 0, 0, 0, time.UTC)}
}

var _ ports.Clock = (*ManualClock)(nil)

// Now returns the current fake time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc registers f to run once the clock has been advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &manualTimer{clock: c, seq: c.seq, deadline: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Stop implements ports.Timer.
func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.clock.stopped = append(t.clock.stopped, t)
	return true
}

// Advance moves the clock forward by d, firing every due callback.
// Callbacks scheduled by a firing callback fire too if they fall due within d.
// The clock lock is never held while a callback runs.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDue(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		if next.deadline.After(c.now) {
			c.now = next.deadline
		}
		c.mu.Unlock()

		next.f()
	}
}

// nextDue returns the earliest live timer due at or before target. Caller holds c.mu.
func (c *ManualClock) nextDue(target time.Time) *manualTimer {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	c.timers = live

	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].deadline.Equal(c.timers[j].deadline) {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].deadline.Before(c.timers[j].deadline)
	})

	if len(c.timers) == 0 || c.timers[0].deadline.After(target) {
		return nil
	}
	return c.timers[0]
}

// Pending returns the number of callbacks that have neither fired nor been stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// FireStopped runs the callbacks of timers that were stopped, simulating a
// timer that fired concurrently with its cancellation.
func (c *ManualClock) FireStopped() int {
	c.mu.Lock()
	stopped := append([]*manualTimer(nil), c.stopped...)
	c.mu.Unlock()

	for _, t := range stopped {
		t.f()
	}
	return len(stopped)
}
