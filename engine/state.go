package engine

import (
	"github.com/echokeys/echokeys"
	"github.com/google/uuid"
)

// State is a snapshot of the engine, safe to hand to other goroutines.
type State struct {
	Phase        Phase             `json:"phase"`
	Active       bool              `json:"active"`
	Round        uuid.UUID         `json:"round"`
	CueIndex     int               `json:"cueIndex"`
	MelodyLength int               `json:"melodyLength"`
	PlayerInput  []echokeys.Note   `json:"playerInput"`
	Waveform     echokeys.Waveform `json:"waveform"`
	ActiveNotes  []echokeys.Note   `json:"activeNotes"`
	HeldInputs   []echokeys.Input  `json:"heldInputs"`
	HasScore     bool              `json:"hasScore"`
}

// State takes a snapshot of the engine. The melody itself is left out while
// a round is in progress.
func (e *Engine) State() State {
	_, hasScore := e.LatestScore()
	return State{
		Phase:        e.game.phase,
		Active:       e.game.active,
		Round:        e.game.round,
		CueIndex:     e.game.cue,
		MelodyLength: len(e.game.melody),
		PlayerInput:  e.PlayerInput(),
		Waveform:     e.waveform,
		ActiveNotes:  e.ActiveNotes(),
		HeldInputs:   e.HeldInputs(),
		HasScore:     hasScore,
	}
}
