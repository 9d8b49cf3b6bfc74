package offline_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/echokeys/echokeys"
	"github.com/echokeys/echokeys/engine/offline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestRenderCuesMelody(t *testing.T) {
	rec, err := offline.Render(offline.Options{Seed: 1})
	require.NoError(t, err)
	require.Len(t, rec.Melody, echokeys.MelodyLength)
	assert.Nil(t, rec.Result, "nobody answered, the round must not be scored")
	require.Len(t, rec.Notes, echokeys.MelodyLength)
	for i, ev := range rec.Notes {
		start := 1500*time.Millisecond + time.Duration(i)*700*time.Millisecond
		assert.Equal(t, rec.Melody[i], ev.Note)
		assert.Equal(t, start, ev.Start, "note %d", i)
		assert.Equal(t, start+500*time.Millisecond, ev.End, "note %d", i)
	}
	// prompt hidden at 7 s, plus release and stop tail
	assert.Equal(t, echokeys.Frames(7060*time.Millisecond), len(rec.Audio))
}

func TestRenderIsDeterministic(t *testing.T) {
	a, err := offline.Render(offline.Options{Seed: 42})
	require.NoError(t, err)
	b, err := offline.Render(offline.Options{Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, a.Melody, b.Melody)
	assert.Equal(t, a.Audio, b.Audio)
}

func TestRenderAudioFollowsCues(t *testing.T) {
	rec, err := offline.Render(offline.Options{Seed: 3})
	require.NoError(t, err)
	peak := func(from, to time.Duration) float32 {
		var p float32
		for _, f := range rec.Audio[echokeys.Frames(from):echokeys.Frames(to)] {
			p = max(p, f[0], -f[0])
		}
		return p
	}
	assert.Equal(t, float32(0), peak(0, 1500*time.Millisecond), "lead-in must be silent")
	assert.Greater(t, peak(1600*time.Millisecond, 1900*time.Millisecond), float32(0.1))
	assert.Equal(t, float32(0), peak(2100*time.Millisecond, 2200*time.Millisecond), "gap after the released cue must be silent")
}

func TestRenderPerfectAnswer(t *testing.T) {
	cue, err := offline.Render(offline.Options{Seed: 5})
	require.NoError(t, err)
	rec, err := offline.Render(offline.Options{Seed: 5, Answer: cue.Melody})
	require.NoError(t, err)
	require.NotNil(t, rec.Result)
	assert.True(t, rec.Result.Perfect())
	assert.Len(t, rec.Notes, 2*echokeys.MelodyLength)
}

func TestRenderPartialAnswer(t *testing.T) {
	cue, err := offline.Render(offline.Options{Seed: 5})
	require.NoError(t, err)
	answer := cue.Melody.Copy()
	if answer[2] == echokeys.C4 {
		answer[2] = echokeys.D4
	} else {
		answer[2] = echokeys.C4
	}
	rec, err := offline.Render(offline.Options{Seed: 5, Answer: answer})
	require.NoError(t, err)
	require.NotNil(t, rec.Result)
	assert.Equal(t, 4, rec.Result.Correct)
	assert.False(t, rec.Result.Records[2].Correct)
	assert.Equal(t, answer[2], rec.Result.Records[2].Played)
}

func TestWriteMIDI(t *testing.T) {
	rec, err := offline.Render(offline.Options{Seed: 9})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, rec.WriteMIDI(&buf))
	s, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, s.Tracks, 2)
	var keys []uint8
	for _, ev := range s.Tracks[1] {
		var ch, key, vel uint8
		if ev.Message.GetNoteOn(&ch, &key, &vel) {
			keys = append(keys, key)
		}
	}
	want := make([]uint8, len(rec.Melody))
	for i, n := range rec.Melody {
		want[i] = n.MIDI()
	}
	assert.Equal(t, want, keys)
}
