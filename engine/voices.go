package engine

import (
	"slices"

	"github.com/echokeys/echokeys"
)

// voice is a sounding note. The waveform is fixed when the voice is created;
// changing the engine waveform only affects voices created afterwards.
type voice struct {
	note     echokeys.Note
	handle   echokeys.VoiceHandle
	waveform echokeys.Waveform
}

// Trigger starts a voice for the note, unless one is already sounding. It
// reports whether a new voice was created.
func (e *Engine) Trigger(n echokeys.Note) bool {
	if !n.Valid() {
		e.log.Debug("trigger of invalid note ignored", "note", int(n))
		return false
	}
	if _, ok := e.voices[n]; ok {
		return false
	}
	e.resumeAudio()
	s := e.config.Synth
	h := e.sink.NewVoice(n.Frequency(), e.waveform)
	h.SetGain(0)
	h.RampGain(s.PeakGain, s.Attack)
	h.Start()
	e.voices[n] = &voice{note: n, handle: h, waveform: e.waveform}
	e.toneToggleCombo.Update()
	return true
}

// Release fades out the voice of the note. The voice leaves the registry
// immediately, so the note can be triggered again while the old voice is
// still fading. It reports whether there was a voice to release.
func (e *Engine) Release(n echokeys.Note) bool {
	v, ok := e.voices[n]
	if !ok {
		return false
	}
	s := e.config.Synth
	v.handle.RampGain(0, s.Release)
	v.handle.Stop(s.Release + s.StopTail)
	delete(e.voices, n)
	e.toneToggleCombo.Update()
	return true
}

// ReleaseAll releases every sounding note.
func (e *Engine) ReleaseAll() {
	for _, n := range e.ActiveNotes() {
		e.Release(n)
	}
}

// ActiveNotes returns the notes with a live voice, in ascending order.
func (e *Engine) ActiveNotes() []echokeys.Note {
	ret := make([]echokeys.Note, 0, len(e.voices))
	for n := range e.voices {
		ret = append(ret, n)
	}
	slices.Sort(ret)
	return ret
}

// Sounding reports whether the note has a live voice.
func (e *Engine) Sounding(n echokeys.Note) bool {
	_, ok := e.voices[n]
	return ok
}

// VoiceWaveform returns the waveform the live voice of the note was created
// with.
func (e *Engine) VoiceWaveform(n echokeys.Note) (echokeys.Waveform, bool) {
	v, ok := e.voices[n]
	if !ok {
		return echokeys.Sine, false
	}
	return v.waveform, true
}

// Waveform returns the waveform used for new voices.
func (e *Engine) Waveform() echokeys.Waveform { return e.waveform }

// SetWaveform changes the waveform of voices created from now on.
func (e *Engine) SetWaveform(w echokeys.Waveform) {
	if w == e.waveform {
		return
	}
	e.waveform = w
	e.log.Info("waveform changed", "waveform", w)
	e.presenter.WaveformChanged(w)
}

// ToggleWaveform flips between sine and square.
func (e *Engine) ToggleWaveform() {
	e.SetWaveform(e.waveform.Toggled())
}

func (e *Engine) toneToggleSounding() bool {
	for _, n := range e.config.Combos.ToneToggle {
		if _, ok := e.voices[n]; !ok {
			return false
		}
	}
	return true
}

// resumeAudio resumes the audio context once, on the first trigger. Some
// platforms keep the output suspended until the first user gesture.
func (e *Engine) resumeAudio() {
	if e.audioResumed || e.audio == nil {
		return
	}
	e.audioResumed = true
	if err := e.audio.Resume(); err != nil {
		e.log.Warn("could not resume audio", "err", err)
	}
}
