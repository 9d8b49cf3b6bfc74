package echokeys_test

import (
	"math/rand"
	"testing"

	"github.com/echokeys/echokeys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	notes := echokeys.Notes()
	require.Len(t, notes, echokeys.NumNotes)
	assert.Equal(t, echokeys.C4, notes[0])
	assert.Equal(t, echokeys.B4, notes[len(notes)-1])
	assert.Equal(t, 261.63, echokeys.C4.Frequency())
	assert.Equal(t, 440.0, echokeys.A4.Frequency())
	assert.Equal(t, 493.88, echokeys.B4.Frequency())
	assert.Equal(t, 0.0, echokeys.NoteMissed.Frequency())
	assert.False(t, echokeys.NoteMissed.Valid())
}

func TestNoteNames(t *testing.T) {
	for _, n := range echokeys.Notes() {
		parsed, err := echokeys.ParseNote(n.String())
		require.NoError(t, err)
		assert.Equal(t, n, parsed)
	}
	assert.Equal(t, "C#4", echokeys.Cs4.String())
	_, err := echokeys.ParseNote("H4")
	assert.Error(t, err)
}

func TestNoteMIDI(t *testing.T) {
	assert.Equal(t, uint8(60), echokeys.C4.MIDI())
	assert.Equal(t, uint8(71), echokeys.B4.MIDI())
	n, ok := echokeys.NoteFromMIDI(69)
	assert.True(t, ok)
	assert.Equal(t, echokeys.A4, n)
	_, ok = echokeys.NoteFromMIDI(59)
	assert.False(t, ok)
	_, ok = echokeys.NoteFromMIDI(72)
	assert.False(t, ok)
}

func TestRandomMelody(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		m := echokeys.RandomMelody(rng, echokeys.MelodyLength)
		require.Len(t, m, echokeys.MelodyLength)
		for _, n := range m {
			if !n.Valid() {
				t.Fatalf("melody %v contains a note outside the catalog", m)
			}
		}
	}
	a := echokeys.RandomMelody(rand.New(rand.NewSource(42)), 5)
	b := echokeys.RandomMelody(rand.New(rand.NewSource(42)), 5)
	assert.Equal(t, a, b, "the same seed should give the same melody")
}

func TestWaveform(t *testing.T) {
	assert.Equal(t, echokeys.Square, echokeys.Sine.Toggled())
	assert.Equal(t, echokeys.Sine, echokeys.Square.Toggled())
	assert.Equal(t, float32(1), echokeys.Square.Sample(0.25))
	assert.Equal(t, float32(-1), echokeys.Square.Sample(0.75))
	assert.InDelta(t, 1, echokeys.Sine.Sample(0.25), 1e-6)
	w, err := echokeys.ParseWaveform("square")
	require.NoError(t, err)
	assert.Equal(t, echokeys.Square, w)
	_, err = echokeys.ParseWaveform("sawtooth")
	assert.Error(t, err)
}
