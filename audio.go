package echokeys

import "time"

type (
	// AudioBuffer is a buffer of stereo frames, left and right channel.
	AudioBuffer [][2]float32

	// AudioSource is a function that fills the given buffer completely.
	AudioSource func(buf AudioBuffer) error

	// AudioContext plays audio sources on an output device.
	AudioContext interface {
		Play(source AudioSource) CloserWaiter
		Resume() error
		Close() error
	}

	// CloserWaiter is returned by AudioContext.Play. Close stops the playback;
	// Wait blocks until the playback has stopped.
	CloserWaiter interface {
		Close() error
		Wait()
	}

	// VoiceSink creates voices on the audio output. Times given to the voice
	// handles are relative to the moment of the call, measured in audio time.
	VoiceSink interface {
		NewVoice(frequency float64, waveform Waveform) VoiceHandle
	}

	// VoiceHandle controls one oscillator and its gain.
	VoiceHandle interface {
		// SetGain sets the gain immediately, discarding any pending ramps.
		SetGain(value float32)
		// RampGain ramps the gain linearly from its current value to target,
		// reaching it after the given time.
		RampGain(target float32, after time.Duration)
		// Start makes the voice audible.
		Start()
		// Stop silences and discards the voice after the given time.
		Stop(after time.Duration)
	}
)

// SampleRate is the sample rate of all rendered audio.
const SampleRate = 44100

// Frames converts a duration into a number of frames at SampleRate.
func Frames(d time.Duration) int {
	return int(d * SampleRate / time.Second)
}

// Duration returns the length of the buffer in audio time.
func (b AudioBuffer) Duration() time.Duration {
	return time.Duration(len(b)) * time.Second / SampleRate
}

// Render allocates a buffer of the given length and fills it from source.
func Render(source AudioSource, length time.Duration) (AudioBuffer, error) {
	buf := make(AudioBuffer, Frames(length))
	if err := source(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
