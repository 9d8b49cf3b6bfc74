// Package synth implements a small polyphonic software synthesizer: every
// voice is one oscillator with a linearly automated gain. The synth is both an
// echokeys.VoiceSink, for the engine to create voices on, and an
// echokeys.AudioSource, for an audio output to pull frames from.
package synth

import (
	"math"
	"sync"
	"time"

	"github.com/echokeys/echokeys"
	"github.com/viterin/vek/vek32"
)

type (
	// Synth mixes all live voices. The frame counter advances only when audio
	// is rendered, so all gain automation is measured in rendered audio time,
	// not wall clock time.
	Synth struct {
		mutex  sync.Mutex
		frame  int64
		voices []*Voice
		master float32
		peak   float32

		mix, osc, env []float32
	}
)

// DefaultMasterGain keeps a full chord of voices at peak gain from clipping
// most of the time.
const DefaultMasterGain = 0.3

func New() *Synth {
	return &Synth{master: DefaultMasterGain}
}

// SetMasterGain sets the gain applied to the mix of all voices.
func (s *Synth) SetMasterGain(gain float32) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.master = gain
}

// NewVoice creates a silent, not yet started voice.
func (s *Synth) NewVoice(frequency float64, waveform echokeys.Waveform) echokeys.VoiceHandle {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return &Voice{synth: s, frequency: frequency, waveform: waveform, stopFrame: -1}
}

// Frame returns the number of frames rendered so far.
func (s *Synth) Frame() int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.frame
}

// NumVoices returns the number of started voices that have not yet stopped.
func (s *Synth) NumVoices() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.voices)
}

// Peak returns the absolute peak level of the most recently rendered buffer,
// before the master gain.
func (s *Synth) Peak() float32 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.peak
}

// Render fills the buffer with the mix of all voices. Render has the
// signature of an echokeys.AudioSource, so the method value s.Render can be
// played directly.
func (s *Synth) Render(buf echokeys.AudioBuffer) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	n := len(buf)
	if n == 0 {
		return nil
	}
	s.mix = vek32.Zeros_Into(grow(s.mix, n), n)
	s.osc = grow(s.osc, n)
	s.env = grow(s.env, n)
	alive := s.voices[:0]
	for _, v := range s.voices {
		v.oscillate(s.osc)
		v.envelope(s.env, s.frame)
		vek32.Mul_Inplace(s.osc, s.env)
		vek32.Add_Inplace(s.mix, s.osc)
		if v.stopFrame < 0 || v.stopFrame > s.frame+int64(n) {
			alive = append(alive, v)
		} else {
			v.stopped = true
		}
	}
	for i := len(alive); i < len(s.voices); i++ {
		s.voices[i] = nil
	}
	s.voices = alive
	s.frame += int64(n)
	copy(s.osc, s.mix)
	vek32.Abs_Inplace(s.osc)
	s.peak = vek32.Max(s.osc)
	vek32.MulNumber_Inplace(s.mix, s.master)
	for i, x := range s.mix {
		x = min(max(x, -1), 1)
		buf[i] = [2]float32{x, x}
	}
	return nil
}

func grow(b []float32, n int) []float32 {
	if cap(b) < n {
		return make([]float32, n)
	}
	return b[:n]
}

func frames(d time.Duration) int64 {
	return int64(math.Round(d.Seconds() * echokeys.SampleRate))
}
