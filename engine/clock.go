package engine

import (
	"sort"
	"time"
)

type (
	// Scheduler runs callbacks after a delay. Callbacks always run on the
	// engine goroutine, never concurrently with each other or with message
	// handling.
	Scheduler interface {
		AfterFunc(d time.Duration, f func()) Timer
		// Now returns the time elapsed since the scheduler was created.
		Now() time.Duration
	}

	// Timer is a pending callback. Stop returns false if the callback has
	// already run or the timer was already stopped.
	Timer interface {
		Stop() bool
	}

	// ManualClock is a Scheduler where time only moves when Advance is
	// called. Callbacks run inside Advance, in order of their due time; ties
	// run in the order they were scheduled.
	ManualClock struct {
		now     time.Duration
		seq     uint64
		pending []*manualTimer
	}

	manualTimer struct {
		clock *ManualClock
		at    time.Duration
		seq   uint64
		f     func()
	}

	// RealClock is a Scheduler backed by time.AfterFunc. Fired callbacks are
	// posted to the broker and run by Engine.Run.
	RealClock struct {
		broker *Broker
		start  time.Time
	}

	realTimer struct {
		timer   *time.Timer
		stopped bool
		fired   bool
	}

	// timerFired is posted to the engine goroutine by RealClock.
	timerFired struct {
		timer *realTimer
		f     func()
	}
)

func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (c *ManualClock) Now() time.Duration { return c.now }

func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &manualTimer{clock: c, at: c.now + d, seq: c.seq, f: f}
	c.pending = append(c.pending, t)
	return t
}

// Advance moves the clock forward by d, running every callback that becomes
// due. Callbacks scheduled by callbacks run too, if they fall within d.
func (c *ManualClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		t := c.next()
		if t == nil || t.at > target {
			break
		}
		c.remove(t)
		c.now = t.at
		t.f()
	}
	c.now = target
}

// AdvanceToNext runs the earliest pending callback (and any others due at
// the same time), returning false if nothing is pending.
func (c *ManualClock) AdvanceToNext() bool {
	t := c.next()
	if t == nil {
		return false
	}
	c.Advance(t.at - c.now)
	return true
}

// Next returns the due time of the earliest pending callback.
func (c *ManualClock) Next() (at time.Duration, ok bool) {
	t := c.next()
	if t == nil {
		return 0, false
	}
	return t.at, true
}

// Pending returns the number of callbacks that have not yet run.
func (c *ManualClock) Pending() int { return len(c.pending) }

func (c *ManualClock) next() *manualTimer {
	if len(c.pending) == 0 {
		return nil
	}
	sort.SliceStable(c.pending, func(i, j int) bool {
		a, b := c.pending[i], c.pending[j]
		if a.at != b.at {
			return a.at < b.at
		}
		return a.seq < b.seq
	})
	return c.pending[0]
}

func (c *ManualClock) remove(t *manualTimer) bool {
	for i, p := range c.pending {
		if p == t {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return true
		}
	}
	return false
}

func (t *manualTimer) Stop() bool {
	return t.clock.remove(t)
}

func NewRealClock(broker *Broker) *RealClock {
	return &RealClock{broker: broker, start: time.Now()}
}

func (c *RealClock) Now() time.Duration { return time.Since(c.start) }

// AfterFunc must be called on the engine goroutine, as must Stop of the
// returned timer.
func (c *RealClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &realTimer{}
	t.timer = time.AfterFunc(d, func() {
		select {
		case c.broker.ToEngine <- timerFired{timer: t, f: f}:
		case <-c.broker.FinishedEngine:
		}
	})
	return t
}

// Stop also works on a timer whose callback is already queued in the
// broker but has not run yet: the queued callback is then skipped.
func (t *realTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}

func (m timerFired) run() {
	if m.timer.stopped || m.timer.fired {
		return
	}
	m.timer.fired = true
	m.f()
}
