package offline

import (
	"fmt"
	"io"
	"sort"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	midiTempo    = 120.0
	midiVelocity = 100
)

var midiResolution = smf.MetricTicks(960)

type midiEvent struct {
	at  time.Duration
	msg midi.Message
}

// SMF converts the highlighted notes into a standard MIDI file with a tempo
// track and one note track.
func (r Recording) SMF() (*smf.SMF, error) {
	s := smf.New()
	s.TimeFormat = midiResolution

	var tempo smf.Track
	tempo.Add(0, smf.MetaMeter(4, 4))
	tempo.Add(0, smf.MetaTempo(midiTempo))
	tempo.Close(0)
	if err := s.Add(tempo); err != nil {
		return nil, fmt.Errorf("error adding tempo track: %w", err)
	}

	events := make([]midiEvent, 0, 2*len(r.Notes))
	end := r.Audio.Duration()
	for _, n := range r.Notes {
		off := n.End
		if off < 0 {
			off = end
		}
		events = append(events,
			midiEvent{at: n.Start, msg: midi.NoteOn(0, n.Note.MIDI(), midiVelocity)},
			midiEvent{at: off, msg: midi.NoteOff(0, n.Note.MIDI())},
		)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].at < events[j].at })

	var track smf.Track
	var last uint32
	for _, ev := range events {
		t := midiResolution.Ticks(midiTempo, ev.at)
		track.Add(t-last, ev.msg)
		last = t
	}
	track.Close(midiResolution.Ticks(midiTempo, end) - min(last, midiResolution.Ticks(midiTempo, end)))
	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("error adding note track: %w", err)
	}
	return s, nil
}

// WriteMIDI writes the notes as a standard MIDI file.
func (r Recording) WriteMIDI(w io.Writer) error {
	s, err := r.SMF()
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("error writing MIDI file: %w", err)
	}
	return nil
}
