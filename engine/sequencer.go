package engine

import "time"

type (
	// Step is one action of a Sequencer. After is measured from the previous
	// step, or from the start of the sequence for the first step.
	Step struct {
		After time.Duration
		Do    func()
	}

	// Sequencer runs steps strictly one after another on a Scheduler. Only
	// one sequence plays at a time.
	Sequencer struct {
		scheduler Scheduler
		steps     []Step
		next      int
		timer     Timer
		gen       int
	}
)

func NewSequencer(s Scheduler) *Sequencer {
	return &Sequencer{scheduler: s}
}

// Play stops any sequence in progress and starts the given one.
func (q *Sequencer) Play(steps []Step) {
	q.Stop()
	q.steps = steps
	q.next = 0
	q.schedule()
}

// Stop cancels the remaining steps. The step currently running, if any, is
// allowed to finish.
func (q *Sequencer) Stop() {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.gen++
	q.steps = nil
	q.next = 0
}

// Running reports whether steps remain to be run.
func (q *Sequencer) Running() bool {
	return q.next < len(q.steps)
}

// Remaining returns the number of steps not yet run.
func (q *Sequencer) Remaining() int {
	return len(q.steps) - q.next
}

func (q *Sequencer) schedule() {
	if q.next >= len(q.steps) {
		q.timer = nil
		return
	}
	gen := q.gen
	q.timer = q.scheduler.AfterFunc(q.steps[q.next].After, func() {
		if gen != q.gen {
			return
		}
		step := q.steps[q.next]
		q.next++
		if step.Do != nil {
			step.Do()
		}
		if gen == q.gen { // Do may have stopped or replaced the sequence
			q.schedule()
		}
	})
}
