package oto

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/echokeys/echokeys"
)

type (
	// OtoContext is an echokeys.AudioContext playing on the default audio
	// device. Only one OtoContext can be created per process.
	OtoContext oto.Context

	// OtoPlayer pulls audio from an echokeys.AudioSource, converts it to
	// 16-bit integers and feeds it to an oto player.
	OtoPlayer struct {
		player    *oto.Player
		reader    *sourceReader
		closeOnce sync.Once
		doneOnce  sync.Once
		done      chan struct{}
	}

	sourceReader struct {
		source echokeys.AudioSource
		buffer echokeys.AudioBuffer
		failed func() // called once when the source returns an error

		mutex sync.Mutex
		err   error
	}
)

const otoBufferSize = 2048 // in bytes; 512 stereo frames keeps the latency of a key press low

// NewContext creates the oto context and waits for the audio device to become
// ready.
func NewContext() (*OtoContext, error) {
	op := &oto.NewContextOptions{
		SampleRate:   echokeys.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   bufferDuration(otoBufferSize),
	}
	context, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return (*OtoContext)(context), nil
}

// Play starts pulling audio from the source until the returned CloserWaiter
// is closed or the source returns an error.
func (c *OtoContext) Play(source echokeys.AudioSource) echokeys.CloserWaiter {
	p := newPlayer(source)
	p.player = (*oto.Context)(c).NewPlayer(p.reader)
	p.player.Play()
	return p
}

// Resume resumes a suspended audio device. Some platforms start the device
// suspended until the first user gesture.
func (c *OtoContext) Resume() error {
	if err := (*oto.Context)(c).Resume(); err != nil {
		return fmt.Errorf("cannot resume oto context: %w", err)
	}
	return nil
}

// Close suspends the audio device; oto contexts cannot be destroyed.
func (c *OtoContext) Close() error {
	if err := (*oto.Context)(c).Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func newPlayer(source echokeys.AudioSource) *OtoPlayer {
	p := &OtoPlayer{done: make(chan struct{})}
	p.reader = &sourceReader{source: source, failed: p.finish}
	return p
}

func (p *OtoPlayer) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = p.player.Close()
	})
	p.finish()
	if err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

// Wait blocks until the player is closed or the source has failed.
func (p *OtoPlayer) Wait() {
	<-p.done
}

func (p *OtoPlayer) finish() {
	p.doneOnce.Do(func() { close(p.done) })
}

// Err returns the error returned by the source, if any.
func (p *OtoPlayer) Err() error {
	err := p.reader.failure()
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// NewSourceReader adapts an AudioSource to an io.Reader of 16-bit stereo
// little-endian samples. Only whole frames are ever read; once the source
// fails, every further Read returns the same error.
func NewSourceReader(source echokeys.AudioSource) io.Reader {
	return &sourceReader{source: source}
}

func (r *sourceReader) Read(b []byte) (int, error) {
	if err := r.failure(); err != nil {
		return 0, err
	}
	frames := len(b) / 4
	if frames == 0 {
		return 0, nil
	}
	if cap(r.buffer) < frames {
		r.buffer = make(echokeys.AudioBuffer, frames)
	}
	r.buffer = r.buffer[:frames]
	if err := r.source(r.buffer); err != nil {
		r.mutex.Lock()
		r.err = err
		r.mutex.Unlock()
		if r.failed != nil {
			r.failed()
		}
		return 0, err
	}
	out := FloatBufferTo16BitLE(r.buffer, b[:0])
	return len(out), nil
}

func (r *sourceReader) failure() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.err
}
