package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/echokeys/echokeys"
	"github.com/echokeys/echokeys/engine"
)

// Meter reports the current output level, e.g. a *synth.Synth.
type Meter interface {
	Peak() float32
}

const meterWidth = 20

// RunCommand runs one line typed in the headless mode, returning true on
// quit. meter may be nil.
func RunCommand(broker *engine.Broker, meter Meter, line string, out io.Writer) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	switch {
	case name == "start" && len(args) == 0:
		engine.TrySend(broker.ToEngine, any(engine.StartGameMsg{}))
	case name == "abandon" && len(args) == 0:
		engine.TrySend(broker.ToEngine, any(engine.AbandonRoundMsg{}))
	case name == "tone" && len(args) == 0:
		engine.TrySend(broker.ToEngine, any(func(e *engine.Engine) { e.ToggleWaveform() }))
	case name == "tone" && len(args) == 1:
		w, err := echokeys.ParseWaveform(strings.ToLower(args[0]))
		if err != nil {
			fmt.Fprintln(out, err)
			return false
		}
		engine.TrySend(broker.ToEngine, any(engine.SetWaveformMsg{Waveform: w}))
	case (name == "on" || name == "off" || name == "answer") && len(args) == 1:
		n, err := echokeys.ParseNote(args[0])
		if err != nil {
			fmt.Fprintln(out, err)
			return false
		}
		if name == "answer" {
			engine.TrySend(broker.ToEngine, any(engine.PlayedNoteMsg{Note: n}))
		} else {
			engine.TrySend(broker.ToEngine, any(engine.NoteMsg{Note: n, On: name == "on"}))
		}
	case name == "level" && len(args) == 0:
		if meter == nil {
			fmt.Fprintln(out, "no level meter")
			return false
		}
		fmt.Fprintln(out, LevelBar(meter.Peak(), meterWidth))
	case name == "state" && len(args) == 0:
		var state engine.State
		if !broker.Do(func(e *engine.Engine) { state = e.State() }, time.Second) {
			fmt.Fprintln(out, "engine busy")
			return false
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.Encode(state)
	case (name == "quit" || name == "exit") && len(args) == 0:
		return true
	default:
		fmt.Fprintf(out, "unknown command %q\n", line)
	}
	return false
}

// LevelBar draws a peak level as a bar of width characters. Levels above 1
// clip and are marked with a trailing '!'.
func LevelBar(peak float32, width int) string {
	filled := int(min(max(peak, 0), 1)*float32(width) + 0.5)
	bar := strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
	if peak > 1 {
		return fmt.Sprintf("[%s]! %.2f", bar, peak)
	}
	return fmt.Sprintf("[%s] %.2f", bar, peak)
}
