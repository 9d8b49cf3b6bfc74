//go:build cgo

package cmd

import (
	"github.com/echokeys/echokeys/engine"
	"github.com/echokeys/echokeys/engine/gomidi"
)

func NewMidiContext(broker *engine.Broker) engine.MIDIContext {
	return gomidi.NewContext(broker)
}
