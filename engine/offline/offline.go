// Package offline plays a round without an audio device or a window: the
// engine runs on a ManualClock and the synth is rendered in lockstep with
// it, so every gain change lands on the exact audio frame it was scheduled
// for.
package offline

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/echokeys/echokeys"
	"github.com/echokeys/echokeys/engine"
	"github.com/echokeys/echokeys/synth"
)

type (
	Options struct {
		Config echokeys.Config // zero value means echokeys.DefaultConfig()
		Seed   int64
		// Answer is played back through the key map after the melody has
		// been cued, one note per cue slot. If empty, the round is left
		// waiting for input.
		Answer []echokeys.Note
		Logger *slog.Logger
	}

	// Recording is the outcome of a rendered round.
	Recording struct {
		Audio  echokeys.AudioBuffer
		Melody echokeys.Melody
		Notes  []NoteEvent      // every highlighted note, in order of start
		Result *echokeys.Result // nil if the round was not scored
	}

	// NoteEvent is a note highlighted from Start until End.
	NoteEvent struct {
		Note       echokeys.Note
		Start, End time.Duration
	}

	round struct {
		clock  *engine.ManualClock
		synth  *synth.Synth
		engine *engine.Engine
		audio  echokeys.AudioBuffer
		notes  []NoteEvent
		open   map[echokeys.Note]int
		result *echokeys.Result
	}

	// recorder is the presenter of an offline round.
	recorder struct {
		engine.NullPresenter
		r *round
	}
)

var errNoBinding = errors.New("no input is bound to the note")

// Render plays one round: the seeded melody is cued, the answer (if any) is
// played back and the audio is rendered until every voice has faded out.
func Render(opts Options) (Recording, error) {
	r := &round{
		clock: engine.NewManualClock(),
		synth: synth.New(),
		open:  make(map[echokeys.Note]int),
	}
	e, err := engine.New(engine.Options{
		Config:    opts.Config,
		Sink:      r.synth,
		Scheduler: r.clock,
		Presenter: recorder{r: r},
		Rand:      rand.New(rand.NewSource(opts.Seed)),
		Logger:    opts.Logger,
	})
	if err != nil {
		return Recording{}, fmt.Errorf("could not create engine: %w", err)
	}
	r.engine = e
	if !e.StartGame() {
		return Recording{}, errors.New("could not start a round")
	}
	for e.Phase() == engine.Listening {
		if err := r.step(); err != nil {
			return Recording{}, err
		}
	}
	game := e.Config().Game
	for _, n := range opts.Answer {
		ins := e.KeyMap().InputsFor(n)
		if len(ins) == 0 {
			return Recording{}, fmt.Errorf("answer %v: %w", n, errNoBinding)
		}
		e.Press(ins[0])
		if err := r.advance(game.CueHold); err != nil {
			return Recording{}, err
		}
		e.ReleaseInput(ins[0])
		if err := r.advance(game.CueGap); err != nil {
			return Recording{}, err
		}
	}
	for r.clock.Pending() > 0 {
		if err := r.step(); err != nil {
			return Recording{}, err
		}
	}
	synthConfig := e.Config().Synth
	if err := r.renderTo(r.clock.Now() + synthConfig.Release + synthConfig.StopTail); err != nil {
		return Recording{}, err
	}
	sort.SliceStable(r.notes, func(i, j int) bool { return r.notes[i].Start < r.notes[j].Start })
	return Recording{Audio: r.audio, Melody: e.Melody(), Notes: r.notes, Result: r.result}, nil
}

// step renders audio up to the next pending callback and runs it.
func (r *round) step() error {
	at, ok := r.clock.Next()
	if !ok {
		return errors.New("round stalled: nothing scheduled")
	}
	if err := r.renderTo(at); err != nil {
		return err
	}
	r.clock.AdvanceToNext()
	return nil
}

// advance moves the clock forward by d, running callbacks on their frames.
func (r *round) advance(d time.Duration) error {
	target := r.clock.Now() + d
	for {
		at, ok := r.clock.Next()
		if !ok || at > target {
			break
		}
		if err := r.step(); err != nil {
			return err
		}
	}
	if err := r.renderTo(target); err != nil {
		return err
	}
	r.clock.Advance(target - r.clock.Now())
	return nil
}

func (r *round) renderTo(t time.Duration) error {
	n := echokeys.Frames(t) - int(r.synth.Frame())
	if n <= 0 {
		return nil
	}
	buf := make(echokeys.AudioBuffer, n)
	if err := r.synth.Render(buf); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	r.audio = append(r.audio, buf...)
	return nil
}

func (p recorder) Highlight(n echokeys.Note) {
	r := p.r
	if _, ok := r.open[n]; ok {
		return
	}
	r.open[n] = len(r.notes)
	r.notes = append(r.notes, NoteEvent{Note: n, Start: r.clock.Now(), End: -1})
}

func (p recorder) Unhighlight(n echokeys.Note) {
	r := p.r
	if i, ok := r.open[n]; ok {
		r.notes[i].End = r.clock.Now()
		delete(r.open, n)
	}
}

func (p recorder) ShowResults(res echokeys.Result) {
	p.r.result = &res
}
