package engine

import (
	"slices"

	"github.com/echokeys/echokeys"
)

// Press handles a physical input going down. Unmapped inputs and repeats of
// an input that is already held are ignored. Keyboard keys, mouse buttons and
// MIDI keys all take the same path. It reports whether the press was handled.
func (e *Engine) Press(in echokeys.Input) bool {
	n, ok := e.keyMap.Note(in)
	if !ok {
		e.log.Debug("unmapped input ignored", "input", in)
		return false
	}
	if _, held := e.held[in]; held {
		return false
	}
	e.held[in] = struct{}{}
	e.Trigger(n)
	e.presenter.Highlight(n)
	e.HandleInput(n)
	e.gameModeCombo.Update()
	return true
}

// ReleaseInput handles a physical input going up. The note keeps sounding as
// long as another held input maps to it; otherwise it is released, even if
// the input itself was not held.
func (e *Engine) ReleaseInput(in echokeys.Input) bool {
	n, ok := e.keyMap.Note(in)
	if !ok {
		e.log.Debug("unmapped input ignored", "input", in)
		return false
	}
	delete(e.held, in)
	if !e.noteHeld(n) {
		e.Release(n)
		e.presenter.Unhighlight(n)
	}
	e.gameModeCombo.Update()
	return true
}

// noteHeld reports whether any held input maps to n.
func (e *Engine) noteHeld(n echokeys.Note) bool {
	for in := range e.held {
		if m, _ := e.keyMap.Note(in); m == n {
			return true
		}
	}
	return false
}

// Held reports whether the input is currently pressed.
func (e *Engine) Held(in echokeys.Input) bool {
	_, ok := e.held[in]
	return ok
}

// HeldInputs returns the pressed inputs, sorted by their text form.
func (e *Engine) HeldInputs() []echokeys.Input {
	ret := make([]echokeys.Input, 0, len(e.held))
	for in := range e.held {
		ret = append(ret, in)
	}
	slices.SortFunc(ret, func(a, b echokeys.Input) int {
		if a.String() < b.String() {
			return -1
		}
		if a.String() > b.String() {
			return 1
		}
		return 0
	})
	return ret
}

func (e *Engine) gameModeHeld() bool {
	for _, in := range e.config.Combos.GameMode {
		if _, ok := e.held[in]; !ok {
			return false
		}
	}
	return true
}
