package gioui

import (
	"github.com/echokeys/echokeys"
	"github.com/echokeys/echokeys/engine"
)

type (
	// Presenter forwards the engine's presentation calls to the GUI goroutine
	// through the broker. It never blocks: if the GUI falls behind, updates
	// are dropped.
	Presenter struct {
		broker *engine.Broker
	}

	highlightMsg struct {
		note echokeys.Note
		on   bool
	}

	promptMsg struct {
		prompt  engine.Prompt
		visible bool
	}

	gameMenuMsg struct{}
	resultsMsg  struct{ result echokeys.Result }
	waveformMsg struct{ waveform echokeys.Waveform }
)

func NewPresenter(broker *engine.Broker) *Presenter {
	return &Presenter{broker: broker}
}

func (p *Presenter) send(msg any) {
	engine.TrySend(p.broker.ToGUI, msg)
}

func (p *Presenter) Highlight(n echokeys.Note)   { p.send(highlightMsg{note: n, on: true}) }
func (p *Presenter) Unhighlight(n echokeys.Note) { p.send(highlightMsg{note: n}) }

func (p *Presenter) ShowPrompt(prompt engine.Prompt) {
	p.send(promptMsg{prompt: prompt, visible: true})
}

func (p *Presenter) HidePrompt()   { p.send(promptMsg{}) }
func (p *Presenter) ShowGameMenu() { p.send(gameMenuMsg{}) }

func (p *Presenter) ShowResults(r echokeys.Result) {
	p.send(resultsMsg{result: r.Copy()})
}

func (p *Presenter) WaveformChanged(w echokeys.Waveform) {
	p.send(waveformMsg{waveform: w})
}
