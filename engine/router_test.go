package engine_test

import (
	"testing"
	"time"

	"github.com/echokeys/echokeys"
	"github.com/echokeys/echokeys/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPressTriggersMappedNote(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.engine.Press(echokeys.KeyInput("=")))
	assert.Equal(t, []echokeys.Note{echokeys.C4}, f.engine.ActiveNotes())
	assert.True(t, f.engine.Held(echokeys.KeyInput("=")))
	assert.Equal(t, []string{"highlight C4"}, f.presenter.events)
	assert.True(t, f.engine.ReleaseInput(echokeys.KeyInput("=")))
	assert.Empty(t, f.engine.ActiveNotes())
	assert.False(t, f.engine.Held(echokeys.KeyInput("=")))
	assert.Equal(t, []string{"highlight C4", "unhighlight C4"}, f.presenter.events)
}

func TestPressRepeatIgnored(t *testing.T) {
	f := newFixture(t)
	f.engine.Press(echokeys.MouseInput(0))
	assert.False(t, f.engine.Press(echokeys.MouseInput(0)), "auto repeat must not retrigger")
	assert.Len(t, f.sink.voices, 1)
	assert.Equal(t, 1, f.presenter.count("highlight A#4"))
}

func TestUnmappedInputIgnored(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.engine.Press(echokeys.KeyInput("q")))
	assert.False(t, f.engine.ReleaseInput(echokeys.MouseInput(1)))
	assert.Empty(t, f.sink.voices)
	assert.Empty(t, f.presenter.events)
	assert.Empty(t, f.engine.HeldInputs())
}

func TestAllDevicesShareOnePath(t *testing.T) {
	for _, in := range []echokeys.Input{echokeys.KeyInput("arrowleft"), echokeys.MouseInput(2), echokeys.MIDIInput(69)} {
		f := newFixture(t)
		assert.True(t, f.engine.Press(in), in.String())
		assert.Len(t, f.engine.ActiveNotes(), 1, in.String())
		f.engine.ReleaseInput(in)
		assert.Empty(t, f.engine.ActiveNotes(), in.String())
	}
}

func TestGameModeCombo(t *testing.T) {
	f := newFixture(t)
	f.engine.Press(echokeys.KeyInput("ArrowLeft"))
	f.engine.Press(echokeys.MouseInput(2))
	f.clock.Advance(2999 * time.Millisecond)
	assert.Zero(t, f.presenter.count("menu"))
	f.clock.Advance(time.Millisecond)
	assert.Equal(t, 1, f.presenter.count("menu"))
	f.clock.Advance(time.Minute)
	assert.Equal(t, 1, f.presenter.count("menu"))
	// the combo inputs play notes like any other input
	assert.Equal(t, []echokeys.Note{echokeys.A4, echokeys.B4}, f.engine.ActiveNotes())
}

func TestGameModeComboCancelledByRelease(t *testing.T) {
	f := newFixture(t)
	f.engine.Press(echokeys.KeyInput("arrowleft"))
	f.engine.Press(echokeys.MouseInput(2))
	f.clock.Advance(time.Second)
	f.engine.ReleaseInput(echokeys.MouseInput(2))
	f.clock.Advance(time.Minute)
	assert.Zero(t, f.presenter.count("menu"))
}

func TestGameModeComboIgnoredDuringRound(t *testing.T) {
	f := newFixture(t)
	f.engine.StartGame()
	f.engine.Press(echokeys.KeyInput("arrowleft"))
	f.engine.Press(echokeys.MouseInput(2))
	f.clock.Advance(4 * time.Second)
	assert.Zero(t, f.presenter.count("menu"))
}

func TestNoteHeldByTwoInputs(t *testing.T) {
	f := newFixture(t)
	f.engine.Press(echokeys.KeyInput("="))
	f.engine.Press(echokeys.MIDIInput(60))
	assert.Len(t, f.sink.voices, 1)
	assert.True(t, f.engine.ReleaseInput(echokeys.KeyInput("=")))
	assert.Equal(t, []echokeys.Note{echokeys.C4}, f.engine.ActiveNotes(), "midi:60 still holds C4")
	assert.Zero(t, f.presenter.count("unhighlight C4"))
	assert.Equal(t, []string{"set 0.00", "ramp 0.80 10ms", "start"}, f.sink.voices[0].calls)
	f.engine.ReleaseInput(echokeys.MIDIInput(60))
	assert.Empty(t, f.engine.ActiveNotes())
	assert.Equal(t, 1, f.presenter.count("unhighlight C4"))
	assert.Equal(t, []string{"set 0.00", "ramp 0.80 10ms", "start", "ramp 0.00 50ms", "stop 60ms"}, f.sink.voices[0].calls)
}

func TestGameModeComboHeldThroughRound(t *testing.T) {
	f := newFixture(t)
	f.engine.StartGame()
	f.clock.Advance(cueLength)
	require.Equal(t, engine.AwaitingInput, f.engine.Phase())
	f.engine.Press(echokeys.KeyInput("arrowleft"))
	f.engine.Press(echokeys.MouseInput(2))
	f.clock.Advance(4 * time.Second)
	for _, in := range []string{"=", "[", "`"} {
		f.engine.Press(echokeys.KeyInput(in))
		f.engine.ReleaseInput(echokeys.KeyInput(in))
	}
	require.Equal(t, engine.Scored, f.engine.Phase())
	f.clock.Advance(time.Minute)
	assert.Zero(t, f.presenter.count("menu"), "the end of a round is not a fresh press")
	f.engine.ReleaseInput(echokeys.MouseInput(2))
	f.engine.Press(echokeys.MouseInput(2))
	f.clock.Advance(3 * time.Second)
	assert.Equal(t, 1, f.presenter.count("menu"))
}
