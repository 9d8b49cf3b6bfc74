/*
Package engine contains the interactive core of echokeys: the voice registry
that turns note triggers and releases into synth voices, the input router, the
long-press combo detectors and the melody memory game.

The Engine is not safe for concurrent use. In an application it is owned by a
single goroutine running Engine.Run, which drains the ToEngine channel of a
Broker. The GUI, the MIDI driver, the HTTP API and the real time clock never
call the Engine directly; they post messages or closures to the broker
instead. All waiting is done through a Scheduler: RealClock posts fired timers
back into the same channel, while ManualClock advances virtual time so that
tests and offline rendering are deterministic.

The Engine never touches widgets; everything that should become visible is
reported to a Presenter.
*/
package engine
