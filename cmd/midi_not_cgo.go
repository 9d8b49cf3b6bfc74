//go:build !cgo

package cmd

import (
	"github.com/echokeys/echokeys/engine"
)

func NewMidiContext(broker *engine.Broker) engine.MIDIContext {
	// with no cgo, we cannot use MIDI, so return a null context
	return engine.NullMIDIContext{}
}
