package echokeys

import (
	"fmt"
	"math/rand"
)

// Note identifies one of the twelve semitones of the fourth octave. The zero
// value, NoteMissed, is not part of the catalog; it marks a melody position
// the player never played.
type Note int

const (
	NoteMissed Note = iota
	C4
	Cs4
	D4
	Ds4
	E4
	F4
	Fs4
	G4
	Gs4
	A4
	As4
	B4
)

// NumNotes is the size of the note catalog.
const NumNotes = 12

var noteNames = [NumNotes + 1]string{"missed", "C4", "C#4", "D4", "D#4", "E4", "F4", "F#4", "G4", "G#4", "A4", "A#4", "B4"}

// catalog holds the synthesis frequencies in Hz, indexed by Note.
var catalog = [NumNotes + 1]float64{0, 261.63, 277.18, 293.66, 311.13, 329.63, 349.23, 369.99, 392.00, 415.30, 440.00, 466.16, 493.88}

func init() {
	// the table is hand written; make sure it is strictly ascending and named
	for n := C4; n <= B4; n++ {
		if catalog[n] <= catalog[n-1] {
			panic(fmt.Errorf("note catalog is not ascending at %v", noteNames[n]))
		}
		if noteNames[n] == "" {
			panic(fmt.Errorf("note %d has no name", int(n)))
		}
	}
}

// Notes returns all catalog notes in ascending order.
func Notes() []Note {
	ret := make([]Note, 0, NumNotes)
	for n := C4; n <= B4; n++ {
		ret = append(ret, n)
	}
	return ret
}

// Valid reports whether n is a member of the catalog.
func (n Note) Valid() bool {
	return n >= C4 && n <= B4
}

// Frequency returns the synthesis frequency of the note in Hz, or 0 for notes
// outside the catalog.
func (n Note) Frequency() float64 {
	if n < NoteMissed || n > B4 {
		return 0
	}
	return catalog[n]
}

// MIDI returns the MIDI key number of the note; C4 is 60.
func (n Note) MIDI() uint8 {
	if !n.Valid() {
		return 0
	}
	return uint8(59 + int(n))
}

// NoteFromMIDI maps a MIDI key number back to a catalog note.
func NoteFromMIDI(key uint8) (Note, bool) {
	n := Note(int(key) - 59)
	return n, n.Valid()
}

func (n Note) String() string {
	if n < NoteMissed || n > B4 {
		return fmt.Sprintf("Note(%d)", int(n))
	}
	return noteNames[n]
}

// ParseNote parses a note name such as "C#4". "missed" parses to NoteMissed.
func ParseNote(s string) (Note, error) {
	for i, name := range noteNames {
		if name == s {
			return Note(i), nil
		}
	}
	return NoteMissed, fmt.Errorf("unknown note %q", s)
}

func (n Note) MarshalText() ([]byte, error) {
	if n < NoteMissed || n > B4 {
		return nil, fmt.Errorf("cannot marshal invalid note %d", int(n))
	}
	return []byte(noteNames[n]), nil
}

func (n *Note) UnmarshalText(text []byte) error {
	v, err := ParseNote(string(text))
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// Melody is an ordered sequence of notes to be memorized and played back.
type Melody []Note

// MelodyLength is the fixed number of notes in every game melody.
const MelodyLength = 5

// RandomMelody draws length notes independently and uniformly from the
// catalog; repetitions are allowed.
func RandomMelody(rng *rand.Rand, length int) Melody {
	ret := make(Melody, length)
	for i := range ret {
		ret[i] = C4 + Note(rng.Intn(NumNotes))
	}
	return ret
}

// Copy makes a copy of the melody.
func (m Melody) Copy() Melody {
	ret := make(Melody, len(m))
	copy(ret, m)
	return ret
}
