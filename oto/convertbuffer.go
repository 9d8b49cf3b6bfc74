package oto

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/echokeys/echokeys"
)

// FloatBufferTo16BitLE converts the stereo float frames to interleaved 16-bit
// little-endian integers, appending them to out. Samples outside [-1,1] are
// clipped.
func FloatBufferTo16BitLE(buff echokeys.AudioBuffer, out []byte) []byte {
	for _, frame := range buff {
		for _, v := range frame {
			var uv int16
			if v < -1.0 {
				uv = -math.MaxInt16
			} else if v > 1.0 {
				uv = math.MaxInt16
			} else {
				uv = int16(v * math.MaxInt16)
			}
			out = binary.LittleEndian.AppendUint16(out, uint16(uv))
		}
	}
	return out
}

// bufferDuration converts a buffer size in bytes of 16-bit stereo audio to
// the duration oto expects.
func bufferDuration(bytes int) time.Duration {
	return time.Duration(bytes/4) * time.Second / echokeys.SampleRate
}
