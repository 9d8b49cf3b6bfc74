package gomidi_test

import (
	"testing"

	"github.com/echokeys/echokeys"
	"github.com/echokeys/echokeys/engine"
	"github.com/echokeys/echokeys/engine/gomidi"
	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2"
)

func TestInputEvent(t *testing.T) {
	cases := []struct {
		name     string
		msg      midi.Message
		expected engine.InputMsg
		ok       bool
	}{
		{"note on", midi.NoteOn(0, 60, 100), engine.InputMsg{Input: echokeys.MIDIInput(60), Pressed: true}, true},
		{"note on other channel", midi.NoteOn(9, 71, 1), engine.InputMsg{Input: echokeys.MIDIInput(71), Pressed: true}, true},
		{"zero velocity", midi.NoteOn(0, 64, 0), engine.InputMsg{Input: echokeys.MIDIInput(64), Pressed: false}, true},
		{"note off", midi.NoteOff(0, 62), engine.InputMsg{Input: echokeys.MIDIInput(62), Pressed: false}, true},
		{"control change", midi.ControlChange(0, 7, 100), engine.InputMsg{}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, ok := gomidi.InputEvent(c.msg)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.expected, e)
		})
	}
}
