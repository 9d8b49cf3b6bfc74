package echokeys

import (
	"fmt"
	"math"
)

// Waveform is the oscillator shape used for newly created voices.
type Waveform int

const (
	Sine Waveform = iota
	Square
)

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Square:
		return "square"
	}
	return fmt.Sprintf("Waveform(%d)", int(w))
}

// Toggled returns the other waveform.
func (w Waveform) Toggled() Waveform {
	if w == Square {
		return Sine
	}
	return Square
}

// Sample evaluates the waveform at phase, given in cycles [0,1).
func (w Waveform) Sample(phase float64) float32 {
	s := math.Sin(2 * math.Pi * phase)
	if w == Square {
		if s >= 0 {
			return 1
		}
		return -1
	}
	return float32(s)
}

func ParseWaveform(s string) (Waveform, error) {
	switch s {
	case "sine":
		return Sine, nil
	case "square":
		return Square, nil
	}
	return Sine, fmt.Errorf("unknown waveform %q (expected sine or square)", s)
}

func (w Waveform) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Waveform) UnmarshalText(text []byte) error {
	v, err := ParseWaveform(string(text))
	if err != nil {
		return err
	}
	*w = v
	return nil
}
