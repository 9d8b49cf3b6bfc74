package synth

import (
	"time"

	"github.com/echokeys/echokeys"
)

type (
	// Voice is a handle to one oscillator of a Synth. All methods are safe to
	// call concurrently with rendering.
	Voice struct {
		synth     *Synth
		frequency float64
		waveform  echokeys.Waveform
		phase     float64

		// the gain follows a line from (fromFrame, from) to (toFrame, to) and
		// stays constant outside of it
		from, to           float32
		fromFrame, toFrame int64

		started   bool
		stopped   bool
		stopFrame int64 // -1 until Stop is called
	}
)

// gainAt evaluates the gain automation at the given frame.
func (v *Voice) gainAt(frame int64) float32 {
	if frame >= v.toFrame {
		return v.to
	}
	if frame <= v.fromFrame {
		return v.from
	}
	t := float32(frame-v.fromFrame) / float32(v.toFrame-v.fromFrame)
	return v.from + (v.to-v.from)*t
}

func (v *Voice) SetGain(value float32) {
	v.synth.mutex.Lock()
	defer v.synth.mutex.Unlock()
	now := v.synth.frame
	v.from, v.to = value, value
	v.fromFrame, v.toFrame = now, now
}

// RampGain anchors the ramp at the gain the voice has right now, so a ramp
// started in the middle of another ramp continues smoothly from wherever the
// first one got to.
func (v *Voice) RampGain(target float32, after time.Duration) {
	v.synth.mutex.Lock()
	defer v.synth.mutex.Unlock()
	now := v.synth.frame
	v.from = v.gainAt(now)
	v.fromFrame = now
	v.to = target
	v.toFrame = now + max(frames(after), 0)
}

func (v *Voice) Start() {
	v.synth.mutex.Lock()
	defer v.synth.mutex.Unlock()
	if v.started {
		return
	}
	v.started = true
	v.synth.voices = append(v.synth.voices, v)
}

func (v *Voice) Stop(after time.Duration) {
	v.synth.mutex.Lock()
	defer v.synth.mutex.Unlock()
	stop := v.synth.frame + max(frames(after), 0)
	if v.stopFrame < 0 || stop < v.stopFrame {
		v.stopFrame = stop
	}
}

// Gain returns the gain of the voice at the current audio time.
func (v *Voice) Gain() float32 {
	v.synth.mutex.Lock()
	defer v.synth.mutex.Unlock()
	return v.gainAt(v.synth.frame)
}

// Stopped reports whether the voice has been discarded by the synth.
func (v *Voice) Stopped() bool {
	v.synth.mutex.Lock()
	defer v.synth.mutex.Unlock()
	return v.stopped
}

// oscillate writes len(out) samples of the waveform and advances the phase.
func (v *Voice) oscillate(out []float32) {
	inc := v.frequency / echokeys.SampleRate
	for i := range out {
		out[i] = v.waveform.Sample(v.phase)
		v.phase += inc
		if v.phase >= 1 {
			v.phase -= 1
		}
	}
}

// envelope writes the gain of the voice for the frames starting at frame.
// Frames at or after the stop frame are silent.
func (v *Voice) envelope(out []float32, frame int64) {
	for i := range out {
		f := frame + int64(i)
		if v.stopFrame >= 0 && f >= v.stopFrame {
			out[i] = 0
			continue
		}
		out[i] = v.gainAt(f)
	}
}
