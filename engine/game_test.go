package engine_test

import (
	"testing"
	"time"

	"github.com/echokeys/echokeys"
	"github.com/echokeys/echokeys/engine"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// full cue playback of a five note melody: 1500 ms lead-in and five times a
// 500 ms hold plus a 200 ms gap
const cueLength = 5000 * time.Millisecond

func TestStartGame(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, engine.Idle, f.engine.Phase())
	assert.Equal(t, uuid.Nil, f.engine.Round())
	assert.True(t, f.engine.StartGame())
	assert.Equal(t, engine.Listening, f.engine.Phase())
	assert.True(t, f.engine.Active())
	assert.NotEqual(t, uuid.Nil, f.engine.Round())
	m := f.engine.Melody()
	require.Len(t, m, echokeys.MelodyLength)
	for _, n := range m {
		assert.True(t, n.Valid())
	}
	assert.Empty(t, f.engine.PlayerInput())
	assert.Equal(t, []string{"prompt Listen carefully to the melody..."}, f.presenter.events)
}

func TestCuePlayback(t *testing.T) {
	f := newFixture(t)
	f.engine.StartGame()
	m := f.engine.Melody()
	f.clock.Advance(1499 * time.Millisecond)
	assert.Empty(t, f.engine.ActiveNotes(), "nothing plays during the lead-in")
	f.clock.Advance(time.Millisecond)
	assert.Equal(t, []echokeys.Note{m[0]}, f.engine.ActiveNotes())
	assert.Equal(t, 0, f.engine.CueIndex())
	f.clock.Advance(500 * time.Millisecond)
	assert.Empty(t, f.engine.ActiveNotes())
	f.clock.Advance(200 * time.Millisecond)
	assert.Equal(t, []echokeys.Note{m[1]}, f.engine.ActiveNotes())
	assert.Equal(t, 1, f.engine.CueIndex())
}

func TestCueNotesNeverOverlap(t *testing.T) {
	f := newFixture(t)
	f.engine.StartGame()
	m := f.engine.Melody()
	for f.engine.Phase() == engine.Listening {
		require.True(t, f.clock.AdvanceToNext())
		assert.LessOrEqual(t, len(f.engine.ActiveNotes()), 1)
	}
	require.Len(t, f.sink.voices, len(m))
	for i, v := range f.sink.voices {
		assert.Equal(t, m[i].Frequency(), v.frequency)
		assert.Contains(t, v.calls, "stop 60ms")
	}
	var highlights []string
	for _, e := range f.presenter.events {
		if len(e) > 9 && e[:9] == "highlight" {
			highlights = append(highlights, e)
		}
	}
	assert.Len(t, highlights, len(m))
}

func TestAwaitingInputAfterLastGap(t *testing.T) {
	f := newFixture(t)
	f.engine.StartGame()
	f.clock.Advance(cueLength - time.Millisecond)
	assert.Equal(t, engine.Listening, f.engine.Phase())
	assert.Empty(t, f.engine.ActiveNotes())
	f.clock.Advance(time.Millisecond)
	assert.Equal(t, engine.AwaitingInput, f.engine.Phase())
	assert.Equal(t, 1, f.presenter.count("prompt Now play it back!"))
	f.clock.Advance(1999 * time.Millisecond)
	assert.Zero(t, f.presenter.count("hide prompt"))
	f.clock.Advance(time.Millisecond)
	assert.Equal(t, 1, f.presenter.count("hide prompt"))
	assert.Zero(t, f.clock.Pending())
}

func TestInputIgnoredOutsideAwaitingInput(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.engine.HandleInput(echokeys.C4), "idle")
	f.engine.StartGame()
	assert.False(t, f.engine.HandleInput(echokeys.C4), "listening")
	f.engine.Press(echokeys.KeyInput("="))
	f.engine.ReleaseInput(echokeys.KeyInput("="))
	assert.Empty(t, f.engine.PlayerInput())
}

func TestStartGameIgnoredWhileListening(t *testing.T) {
	f := newFixture(t)
	f.engine.StartGame()
	round := f.engine.Round()
	m := f.engine.Melody()
	f.clock.Advance(2 * time.Second)
	assert.False(t, f.engine.StartGame())
	assert.Equal(t, round, f.engine.Round())
	assert.Equal(t, m, f.engine.Melody())
}

func playBack(f *fixture, notes []echokeys.Note) {
	for _, n := range notes {
		f.engine.HandleInput(n)
	}
}

func TestPerfectRound(t *testing.T) {
	f := newFixture(t)
	f.engine.StartGame()
	f.clock.Advance(cueLength)
	m := f.engine.Melody()
	playBack(f, m)
	assert.Equal(t, engine.Scored, f.engine.Phase())
	assert.False(t, f.engine.Active())
	r, ok := f.engine.LatestScore()
	require.True(t, ok)
	assert.Equal(t, 5, r.Correct)
	assert.Equal(t, 5, r.Total)
	assert.Equal(t, 100, r.Percent())
	assert.Equal(t, f.engine.Round(), r.Round)
	assert.Equal(t, 1, f.presenter.count("results 5/5"))
}

func TestPartialRound(t *testing.T) {
	f := newFixture(t)
	f.engine.StartGame()
	f.clock.Advance(cueLength)
	m := f.engine.Melody()
	playBack(f, []echokeys.Note{m[0], m[1], other(m[2]), m[3], other(m[4])})
	r, ok := f.engine.LatestScore()
	require.True(t, ok)
	assert.Equal(t, 3, r.Correct)
	assert.Equal(t, 60, r.Percent())
	assert.False(t, r.Records[2].Correct)
	assert.Equal(t, other(m[2]), r.Records[2].Played)
	assert.False(t, f.engine.HandleInput(echokeys.C4), "a scored round takes no more input")
	assert.Len(t, f.engine.PlayerInput(), 5)
}

func TestPlayingThroughKeys(t *testing.T) {
	f := newFixture(t)
	f.engine.StartGame()
	f.clock.Advance(cueLength)
	for _, n := range f.engine.Melody() {
		in := f.engine.KeyMap().InputsFor(n)[0]
		f.engine.Press(in)
		f.engine.ReleaseInput(in)
	}
	r, ok := f.engine.LatestScore()
	require.True(t, ok)
	assert.True(t, r.Perfect())
}

func TestRestartFromAwaitingInput(t *testing.T) {
	f := newFixture(t)
	f.engine.StartGame()
	first := f.engine.Round()
	f.clock.Advance(cueLength)
	f.engine.HandleInput(echokeys.C4)
	assert.True(t, f.engine.StartGame())
	assert.NotEqual(t, first, f.engine.Round())
	assert.Equal(t, engine.Listening, f.engine.Phase())
	assert.Empty(t, f.engine.PlayerInput())
	_, ok := f.engine.LatestScore()
	assert.False(t, ok, "the discarded round is not scored")
	// the hide step of the discarded round must not hide the new prompt
	f.clock.Advance(2 * time.Second)
	assert.Zero(t, f.presenter.count("hide prompt"))
}

func TestPlayAgainKeepsLatestScore(t *testing.T) {
	f := newFixture(t)
	f.engine.StartGame()
	f.clock.Advance(cueLength)
	playBack(f, f.engine.Melody())
	assert.True(t, f.engine.StartGame())
	r, ok := f.engine.LatestScore()
	assert.True(t, ok)
	assert.Equal(t, 5, r.Correct)
}

func TestAbandonRound(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.engine.AbandonRound())
	f.engine.StartGame()
	assert.False(t, f.engine.AbandonRound(), "cannot abandon while listening")
	f.clock.Advance(cueLength)
	f.engine.HandleInput(echokeys.C4)
	assert.True(t, f.engine.AbandonRound())
	assert.Equal(t, engine.Idle, f.engine.Phase())
	assert.False(t, f.engine.Active())
	assert.Equal(t, 1, f.presenter.count("hide prompt"))
	assert.Zero(t, f.clock.Pending())
	_, ok := f.engine.LatestScore()
	assert.False(t, ok)
}

func TestStateSnapshot(t *testing.T) {
	f := newFixture(t)
	f.engine.Press(echokeys.MIDIInput(60))
	s := f.engine.State()
	assert.Equal(t, engine.Idle, s.Phase)
	assert.Equal(t, []echokeys.Note{echokeys.C4}, s.ActiveNotes)
	assert.Equal(t, []echokeys.Input{echokeys.MIDIInput(60)}, s.HeldInputs)
	assert.False(t, s.HasScore)
}
