package engine

import "strings"

type (
	// MIDIContext lists the MIDI input devices of a driver. Opened devices
	// post InputMsg values for their note on and note off messages to the
	// broker.
	MIDIContext interface {
		Inputs(yield func(input MIDIInputDevice) bool)
		Close()
		Support() MIDISupport
	}

	MIDIInputDevice interface {
		Open() error
		Close() error
		IsOpen() bool
		String() string
	}

	MIDISupport int
)

const (
	MIDISupportNotCompiled MIDISupport = iota
	MIDISupportNoDriver
	MIDISupported
)

func (s MIDISupport) String() string {
	switch s {
	case MIDISupportNotCompiled:
		return "not compiled"
	case MIDISupportNoDriver:
		return "no driver"
	default:
		return "supported"
	}
}

// FindMIDIDeviceByPrefix returns the first input device whose name starts
// with prefix. An empty prefix matches the first device.
func FindMIDIDeviceByPrefix(c MIDIContext, prefix string) (input MIDIInputDevice, ok bool) {
	for i := range c.Inputs {
		if strings.HasPrefix(i.String(), prefix) {
			return i, true
		}
	}
	return nil, false
}

// NullMIDIContext is a mockup MIDIContext if you don't want to create a real
// one.
type NullMIDIContext struct{}

func (m NullMIDIContext) Inputs(yield func(input MIDIInputDevice) bool) {}
func (m NullMIDIContext) Close()                                        {}
func (m NullMIDIContext) Support() MIDISupport                          { return MIDISupportNotCompiled }
