package echokeys

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type (
	// Device is the kind of physical input an Input comes from.
	Device int

	// Input identifies a single physical input: a key on the computer
	// keyboard, a mouse button or a key on a MIDI keyboard. Codes are
	// lower-case key names ("arrowleft", "="), mouse button numbers ("0" is
	// the primary and "2" the secondary button) or MIDI key numbers ("60").
	Input struct {
		Device Device
		Code   string
	}

	// Binding maps one physical input to a note.
	Binding struct {
		Input Input `yaml:"input"`
		Note  Note  `yaml:"note"`
	}

	// KeyMap is a validated, immutable table from inputs to notes.
	KeyMap struct {
		bindings []Binding
		lookup   map[Input]Note
	}
)

const (
	Keyboard Device = iota
	Mouse
	MIDIKey
)

var deviceNames = map[Device]string{Keyboard: "key", Mouse: "mouse", MIDIKey: "midi"}

func KeyInput(name string) Input {
	return Input{Device: Keyboard, Code: strings.ToLower(name)}
}

func MouseInput(button int) Input {
	return Input{Device: Mouse, Code: strconv.Itoa(button)}
}

func MIDIInput(key uint8) Input {
	return Input{Device: MIDIKey, Code: strconv.Itoa(int(key))}
}

func (d Device) String() string {
	if s, ok := deviceNames[d]; ok {
		return s
	}
	return fmt.Sprintf("Device(%d)", int(d))
}

func (i Input) String() string { return i.Device.String() + ":" + i.Code }

func (i Input) IsZero() bool { return i == Input{} }

func (i Input) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// ParseInput parses the "device:code" form, e.g. "key:arrowleft", "mouse:2"
// or "midi:60". The code may itself contain colons, e.g. "key:;".
func ParseInput(s string) (Input, error) {
	dev, code, ok := strings.Cut(s, ":")
	if !ok || code == "" {
		return Input{}, fmt.Errorf("malformed input %q (expected device:code)", s)
	}
	switch dev {
	case "key":
		return KeyInput(code), nil
	case "mouse":
		b, err := strconv.Atoi(code)
		if err != nil || b < 0 {
			return Input{}, fmt.Errorf("malformed mouse button in %q", s)
		}
		return MouseInput(b), nil
	case "midi":
		k, err := strconv.Atoi(code)
		if err != nil || k < 0 || k > 127 {
			return Input{}, fmt.Errorf("malformed MIDI key in %q", s)
		}
		return MIDIInput(uint8(k)), nil
	}
	return Input{}, fmt.Errorf("unknown input device %q in %q", dev, s)
}

func (i *Input) UnmarshalText(text []byte) error {
	v, err := ParseInput(string(text))
	if err != nil {
		return err
	}
	*i = v
	return nil
}

var errEmptyKeyMap = errors.New("key map has no bindings")

// NewKeyMap validates the bindings and builds the lookup table. Every binding
// needs a well-formed input and a catalog note, and no input may be bound
// twice.
func NewKeyMap(bindings []Binding) (*KeyMap, error) {
	if len(bindings) == 0 {
		return nil, errEmptyKeyMap
	}
	km := &KeyMap{bindings: make([]Binding, len(bindings)), lookup: make(map[Input]Note, len(bindings))}
	copy(km.bindings, bindings)
	for i, b := range bindings {
		if b.Input.IsZero() || b.Input.Code == "" {
			return nil, fmt.Errorf("binding %d: missing input", i)
		}
		if _, ok := deviceNames[b.Input.Device]; !ok {
			return nil, fmt.Errorf("binding %d: unknown device %d", i, int(b.Input.Device))
		}
		if !b.Note.Valid() {
			return nil, fmt.Errorf("binding %d (%v): note %v is not in the catalog", i, b.Input, b.Note)
		}
		if prev, ok := km.lookup[b.Input]; ok {
			return nil, fmt.Errorf("binding %d: input %v already bound to %v", i, b.Input, prev)
		}
		km.lookup[b.Input] = b.Note
	}
	return km, nil
}

// Note resolves an input; ok is false for unmapped inputs.
func (k *KeyMap) Note(in Input) (n Note, ok bool) {
	n, ok = k.lookup[in]
	return
}

// Bindings returns a copy of the bindings in their original order.
func (k *KeyMap) Bindings() []Binding {
	ret := make([]Binding, len(k.bindings))
	copy(ret, k.bindings)
	return ret
}

// InputsFor lists the inputs bound to the note, in binding order.
func (k *KeyMap) InputsFor(n Note) []Input {
	var ret []Input
	for _, b := range k.bindings {
		if b.Note == n {
			ret = append(ret, b.Input)
		}
	}
	return ret
}
