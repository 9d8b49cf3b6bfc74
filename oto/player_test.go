package oto

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/echokeys/echokeys"
	"github.com/stretchr/testify/assert"
)

func TestPlayerDoneWhenSourceFails(t *testing.T) {
	fail := errors.New("device lost")
	p := newPlayer(func(echokeys.AudioBuffer) error { return fail })
	waited := make(chan struct{})
	go func() {
		p.Wait()
		close(waited)
	}()
	_, err := p.reader.Read(make([]byte, 64))
	assert.ErrorIs(t, err, fail)
	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after the source failed")
	}
	assert.ErrorIs(t, p.Err(), fail)
}

func TestPlayerEOFIsNotAnError(t *testing.T) {
	p := newPlayer(func(echokeys.AudioBuffer) error { return io.EOF })
	p.reader.Read(make([]byte, 64))
	p.Wait()
	assert.NoError(t, p.Err())
}
