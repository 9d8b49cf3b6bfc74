package engine_test

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/echokeys/echokeys"
	"github.com/echokeys/echokeys/engine"
	"github.com/stretchr/testify/require"
)

type (
	fakeVoice struct {
		frequency float64
		waveform  echokeys.Waveform
		calls     []string
	}

	fakeSink struct {
		voices []*fakeVoice
	}

	recordingPresenter struct {
		events []string
	}

	fakeAudio struct {
		resumed int
	}
)

func (v *fakeVoice) SetGain(value float32) {
	v.calls = append(v.calls, fmt.Sprintf("set %.2f", value))
}

func (v *fakeVoice) RampGain(target float32, after time.Duration) {
	v.calls = append(v.calls, fmt.Sprintf("ramp %.2f %v", target, after))
}

func (v *fakeVoice) Start() { v.calls = append(v.calls, "start") }

func (v *fakeVoice) Stop(after time.Duration) {
	v.calls = append(v.calls, fmt.Sprintf("stop %v", after))
}

func (s *fakeSink) NewVoice(frequency float64, waveform echokeys.Waveform) echokeys.VoiceHandle {
	v := &fakeVoice{frequency: frequency, waveform: waveform}
	s.voices = append(s.voices, v)
	return v
}

func (p *recordingPresenter) add(format string, args ...any) {
	p.events = append(p.events, fmt.Sprintf(format, args...))
}

func (p *recordingPresenter) Highlight(n echokeys.Note)   { p.add("highlight %v", n) }
func (p *recordingPresenter) Unhighlight(n echokeys.Note) { p.add("unhighlight %v", n) }
func (p *recordingPresenter) ShowPrompt(pr engine.Prompt) { p.add("prompt %s", pr.Text) }
func (p *recordingPresenter) HidePrompt()                 { p.add("hide prompt") }
func (p *recordingPresenter) ShowGameMenu()               { p.add("menu") }
func (p *recordingPresenter) ShowResults(r echokeys.Result) {
	p.add("results %d/%d", r.Correct, r.Total)
}
func (p *recordingPresenter) WaveformChanged(w echokeys.Waveform) { p.add("waveform %v", w) }

func (p *recordingPresenter) count(event string) int {
	n := 0
	for _, e := range p.events {
		if e == event {
			n++
		}
	}
	return n
}

func (a *fakeAudio) Play(echokeys.AudioSource) echokeys.CloserWaiter { return nil }
func (a *fakeAudio) Close() error                                    { return nil }

func (a *fakeAudio) Resume() error {
	a.resumed++
	return nil
}

type fixture struct {
	engine    *engine.Engine
	clock     *engine.ManualClock
	sink      *fakeSink
	presenter *recordingPresenter
	audio     *fakeAudio
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock:     engine.NewManualClock(),
		sink:      &fakeSink{},
		presenter: &recordingPresenter{},
		audio:     &fakeAudio{},
	}
	e, err := engine.New(engine.Options{
		Sink:      f.sink,
		Scheduler: f.clock,
		Presenter: f.presenter,
		Audio:     f.audio,
		Rand:      rand.New(rand.NewSource(7)),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	f.engine = e
	return f
}

// other returns a catalog note different from n.
func other(n echokeys.Note) echokeys.Note {
	if n == echokeys.C4 {
		return echokeys.D4
	}
	return echokeys.C4
}
