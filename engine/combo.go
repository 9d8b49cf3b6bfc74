package engine

import "time"

// Combo detects a condition held continuously for a fixed duration, e.g. two
// keys pressed down together for three seconds. The condition is sampled
// whenever Update is called; the combo arms on a false to true transition,
// fires once when the duration elapses, and is cancelled by a true to false
// transition. After firing, the condition has to become false and true again
// before the combo can fire again.
type Combo struct {
	name      string
	duration  time.Duration
	scheduler Scheduler
	condition func() bool
	action    func()

	holding bool // last sampled value of the condition
	timer   Timer
	fired   int
}

func NewCombo(name string, duration time.Duration, s Scheduler, condition func() bool, action func()) *Combo {
	return &Combo{name: name, duration: duration, scheduler: s, condition: condition, action: action}
}

// Update samples the condition and arms or cancels the combo accordingly.
func (c *Combo) Update() {
	v := c.condition()
	switch {
	case v && !c.holding:
		c.timer = c.scheduler.AfterFunc(c.duration, c.fire)
	case !v && c.holding:
		c.cancel()
	}
	c.holding = v
}

func (c *Combo) fire() {
	c.timer = nil
	c.fired++
	c.action()
}

func (c *Combo) cancel() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Armed reports whether the combo is waiting for its duration to elapse.
func (c *Combo) Armed() bool { return c.timer != nil }

// Fired returns how many times the combo has fired.
func (c *Combo) Fired() int { return c.fired }

func (c *Combo) String() string { return c.name }
