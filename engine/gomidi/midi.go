// Package gomidi connects MIDI keyboards to the engine using the rtmidi
// driver. Note on and note off messages become key presses and releases of
// "midi:<key>" inputs, so the key map decides which notes they play.
package gomidi

import (
	"errors"
	"fmt"

	"github.com/echokeys/echokeys"
	"github.com/echokeys/echokeys/engine"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type (
	RTMIDIContext struct {
		driver *rtmididrv.Driver
		broker *engine.Broker
	}

	RTMIDIDevice struct {
		context *RTMIDIContext
		in      drivers.In
		stop    func()
	}
)

// NewContext opens the rtmidi driver. If that fails, the context has no
// devices and Support reports MIDISupportNoDriver.
func NewContext(broker *engine.Broker) *RTMIDIContext {
	m := RTMIDIContext{broker: broker}
	// there's not much we can do if this fails, so just use m.driver = nil to
	// indicate no driver available
	m.driver, _ = rtmididrv.New()
	return &m
}

func (m *RTMIDIContext) Inputs(yield func(engine.MIDIInputDevice) bool) {
	if m.driver == nil {
		return
	}
	ins, err := m.driver.Ins()
	if err != nil {
		return
	}
	for i := 0; i < len(ins); i++ {
		if !yield(&RTMIDIDevice{context: m, in: ins[i]}) {
			break
		}
	}
}

func (m *RTMIDIContext) Support() engine.MIDISupport {
	if m.driver == nil {
		return engine.MIDISupportNoDriver
	}
	return engine.MIDISupported
}

func (m *RTMIDIContext) Close() {
	if m.driver == nil {
		return
	}
	m.driver.Close()
}

// Open starts listening to the device.
func (d *RTMIDIDevice) Open() error {
	if d.context.driver == nil {
		return errors.New("no driver available")
	}
	if d.in.IsOpen() {
		return nil
	}
	if err := d.in.Open(); err != nil {
		return fmt.Errorf("opening MIDI input failed: %w", err)
	}
	stop, err := midi.ListenTo(d.in, d.handleMessage)
	if err != nil {
		d.in.Close()
		return fmt.Errorf("listening to MIDI input failed: %w", err)
	}
	d.stop = stop
	return nil
}

func (d *RTMIDIDevice) Close() error {
	if d.stop != nil {
		d.stop()
		d.stop = nil
	}
	if !d.in.IsOpen() {
		return nil
	}
	if err := d.in.Close(); err != nil {
		return fmt.Errorf("closing MIDI input failed: %w", err)
	}
	return nil
}

func (d *RTMIDIDevice) IsOpen() bool {
	return d.in.IsOpen()
}

func (d *RTMIDIDevice) String() string {
	return d.in.String()
}

func (d *RTMIDIDevice) handleMessage(msg midi.Message, timestampms int32) {
	if e, ok := InputEvent(msg); ok {
		engine.TrySend(d.context.broker.ToEngine, any(e)) // if the channel is full, just drop the message
	}
}

// InputEvent converts a note on or note off message into an input message
// for the engine. A note on with zero velocity is a note off.
func InputEvent(msg midi.Message) (engine.InputMsg, bool) {
	var channel, key, velocity uint8
	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		return engine.InputMsg{Input: echokeys.MIDIInput(key), Pressed: true}, true
	case msg.GetNoteEnd(&channel, &key):
		return engine.InputMsg{Input: echokeys.MIDIInput(key), Pressed: false}, true
	}
	return engine.InputMsg{}, false
}
