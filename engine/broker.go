package engine

import (
	"sync/atomic"
	"time"
)

type (
	// Broker is the message hub between the engine goroutine and the rest of
	// the application. Everything that wants to change the engine state sends
	// a message to ToEngine; the GUI receives its updates from ToGUI.
	//
	// For closing goroutines, the broker has two channels for each goroutine:
	// CloseXXX and FinishedXXX. The CloseXXX channel has a capacity of 1, so
	// you can always send an empty message (struct{}{}) to it without
	// blocking. If the channel is already full, someone else has already
	// requested the closure and dropping the message is fine. FinishedXXX is
	// never sent to, only closed, when the goroutine has cleaned up. Wait for
	// it with a timeout:
	//    select {
	//      case <-FinishedXXX:
	//      case <-time.After(3 * time.Second):
	//    }
	Broker struct {
		ToEngine chan any
		ToGUI    chan any

		CloseEngine chan struct{}
		CloseGUI    chan struct{}

		FinishedEngine chan struct{}
		FinishedGUI    chan struct{}
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToEngine:       make(chan any, 1024),
		ToGUI:          make(chan any, 1024),
		CloseEngine:    make(chan struct{}, 1),
		CloseGUI:       make(chan struct{}, 1),
		FinishedEngine: make(chan struct{}),
		FinishedGUI:    make(chan struct{}),
	}
}

const (
	doPending int32 = iota
	doStarted
	doAbandoned
)

// Do runs f on the engine goroutine and waits until it has returned, or
// until the timeout. ok is false if the message could not be delivered or
// the engine did not start f in time; f is then never run, even if the
// engine gets to the message later. Once f has started, Do waits for it to
// return.
func (b *Broker) Do(f func(e *Engine), timeout time.Duration) (ok bool) {
	var state atomic.Int32
	done := make(chan struct{}, 1)
	if !TrySend(b.ToEngine, any(func(e *Engine) {
		if !state.CompareAndSwap(doPending, doStarted) {
			return
		}
		f(e)
		done <- struct{}{}
	})) {
		return false
	}
	if _, ok = TimeoutReceive(done, timeout); ok {
		return true
	}
	if state.CompareAndSwap(doPending, doAbandoned) {
		return false
	}
	<-done
	return true
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from a
// channel, or timing out after t. ok will be false if the timeout occurred or
// if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
