package engine

import (
	"fmt"

	"github.com/echokeys/echokeys"
	"github.com/google/uuid"
)

type (
	// Phase is the phase of the melody game.
	Phase int

	gameState struct {
		phase  Phase
		melody echokeys.Melody
		played []echokeys.Note
		cue    int // index of the note being cued, Listening only
		active bool
		round  uuid.UUID
		latest *echokeys.Result
	}
)

const (
	Idle Phase = iota
	Listening
	AwaitingInput
	Scored
)

var phaseNames = [...]string{"idle", "listening", "awaiting-input", "scored"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// StartGame starts a new round: a fresh random melody is cued after the
// lead-in, after which the player is expected to play it back. A round in
// AwaitingInput is discarded without scoring. Starting while the melody is
// still being cued is ignored; StartGame returns false in that case.
func (e *Engine) StartGame() bool {
	if e.game.phase == Listening {
		e.log.Debug("start ignored while the melody is cued")
		return false
	}
	e.sequencer.Stop()
	e.game = gameState{
		phase:  Listening,
		melody: echokeys.RandomMelody(e.rng, echokeys.MelodyLength),
		played: make([]echokeys.Note, 0, echokeys.MelodyLength),
		active: true,
		round:  uuid.New(),
		latest: e.game.latest,
	}
	e.log.Info("round started", "round", e.game.round)
	e.log.Debug("melody", "round", e.game.round, "notes", e.game.melody)
	e.presenter.ShowPrompt(ListenPrompt)
	e.sequencer.Play(e.cueSteps())
	return true
}

// cueSteps builds the cue playback of the current melody: lead-in, then for
// every note a hold and a gap, then the prompt to play back, which is hidden
// again after a while.
func (e *Engine) cueSteps() []Step {
	g := e.config.Game
	steps := make([]Step, 0, 2*len(e.game.melody)+2)
	wait := g.LeadIn
	for i, n := range e.game.melody {
		steps = append(steps,
			Step{After: wait, Do: func() { e.cueOn(i, n) }},
			Step{After: g.CueHold, Do: func() { e.cueOff(n) }},
		)
		wait = g.CueGap
	}
	return append(steps,
		Step{After: g.CueGap, Do: e.finishListening},
		Step{After: g.PromptHide, Do: e.presenter.HidePrompt},
	)
}

func (e *Engine) cueOn(i int, n echokeys.Note) {
	e.game.cue = i
	e.presenter.Highlight(n)
	e.Trigger(n)
}

func (e *Engine) cueOff(n echokeys.Note) {
	e.Release(n)
	e.presenter.Unhighlight(n)
}

func (e *Engine) finishListening() {
	e.game.phase = AwaitingInput
	e.presenter.ShowPrompt(PlayBackPrompt)
}

// HandleInput records a note played by the player. Notes are only recorded
// while a round is waiting for input; at other times HandleInput does
// nothing and returns false. The round is scored as soon as the melody
// length is reached.
func (e *Engine) HandleInput(n echokeys.Note) bool {
	if !e.game.active || e.game.phase != AwaitingInput {
		return false
	}
	if !n.Valid() {
		e.log.Debug("played invalid note ignored", "note", int(n))
		return false
	}
	e.game.played = append(e.game.played, n)
	if len(e.game.played) >= len(e.game.melody) {
		e.finishRound()
	}
	return true
}

func (e *Engine) finishRound() {
	r := echokeys.Score(e.game.melody, e.game.played)
	r.Round = e.game.round
	e.game.phase = Scored
	e.game.active = false
	e.game.latest = &r
	e.log.Info("round scored", "round", r.Round, "correct", r.Correct, "total", r.Total, "percent", r.Percent())
	e.presenter.ShowResults(r.Copy())
}

// AbandonRound drops a round waiting for input, without scoring it. It does
// nothing and returns false in any other phase.
func (e *Engine) AbandonRound() bool {
	if e.game.phase != AwaitingInput {
		return false
	}
	e.sequencer.Stop()
	e.game.phase = Idle
	e.game.active = false
	e.presenter.HidePrompt()
	e.log.Info("round abandoned", "round", e.game.round, "played", len(e.game.played))
	return true
}

func (e *Engine) Phase() Phase { return e.game.phase }

// Active reports whether a round is in progress.
func (e *Engine) Active() bool { return e.game.active }

// Round returns the ID of the current or last round; uuid.Nil before the
// first round.
func (e *Engine) Round() uuid.UUID { return e.game.round }

// Melody returns a copy of the melody of the current or last round.
func (e *Engine) Melody() echokeys.Melody { return e.game.melody.Copy() }

// PlayerInput returns a copy of the notes played so far in this round.
func (e *Engine) PlayerInput() []echokeys.Note {
	ret := make([]echokeys.Note, len(e.game.played))
	copy(ret, e.game.played)
	return ret
}

// CueIndex returns the index of the note most recently cued.
func (e *Engine) CueIndex() int { return e.game.cue }

// LatestScore returns the result of the most recently scored round.
func (e *Engine) LatestScore() (echokeys.Result, bool) {
	if e.game.latest == nil {
		return echokeys.Result{}, false
	}
	return e.game.latest.Copy(), true
}
