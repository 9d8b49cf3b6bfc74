package engine

import "github.com/echokeys/echokeys"

// Messages accepted by Engine.Handle. Besides these, a func(*Engine) or a
// func() is run on the engine goroutine as is.
type (
	// InputMsg is a physical input going down or up.
	InputMsg struct {
		Input   echokeys.Input
		Pressed bool
	}

	// NoteMsg triggers or releases a note directly, bypassing the key map and
	// the game.
	NoteMsg struct {
		Note echokeys.Note
		On   bool
	}

	StartGameMsg struct{}

	// PlayedNoteMsg feeds a note to the game without sounding it.
	PlayedNoteMsg struct {
		Note echokeys.Note
	}

	AbandonRoundMsg struct{}

	SetWaveformMsg struct {
		Waveform echokeys.Waveform
	}
)
