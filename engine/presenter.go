package engine

import (
	"image/color"

	"github.com/echokeys/echokeys"
)

type (
	// Presenter receives everything the engine wants to show to the player.
	// All methods are called on the engine goroutine and must not block;
	// implementations that draw elsewhere should hand the update over to
	// their own goroutine.
	Presenter interface {
		Highlight(n echokeys.Note)
		Unhighlight(n echokeys.Note)
		ShowPrompt(p Prompt)
		HidePrompt()
		ShowGameMenu()
		ShowResults(r echokeys.Result)
		WaveformChanged(w echokeys.Waveform)
	}

	// Prompt is a short instruction shown over the keyboard.
	Prompt struct {
		Text  string
		Color color.NRGBA
	}

	// NullPresenter discards everything.
	NullPresenter struct{}

	// MultiPresenter forwards every call to all of its presenters, in order.
	MultiPresenter []Presenter
)

var (
	ListenPrompt   = Prompt{Text: "Listen carefully to the melody...", Color: color.NRGBA{R: 0xff, G: 0xe8, B: 0xa0, A: 0xff}}
	PlayBackPrompt = Prompt{Text: "Now play it back!", Color: color.NRGBA{R: 0x70, G: 0xf4, B: 0x70, A: 0xff}}
)

func (NullPresenter) Highlight(echokeys.Note)           {}
func (NullPresenter) Unhighlight(echokeys.Note)         {}
func (NullPresenter) ShowPrompt(Prompt)                 {}
func (NullPresenter) HidePrompt()                       {}
func (NullPresenter) ShowGameMenu()                     {}
func (NullPresenter) ShowResults(echokeys.Result)       {}
func (NullPresenter) WaveformChanged(echokeys.Waveform) {}

func (m MultiPresenter) Highlight(n echokeys.Note) {
	for _, p := range m {
		p.Highlight(n)
	}
}

func (m MultiPresenter) Unhighlight(n echokeys.Note) {
	for _, p := range m {
		p.Unhighlight(n)
	}
}

func (m MultiPresenter) ShowPrompt(prompt Prompt) {
	for _, p := range m {
		p.ShowPrompt(prompt)
	}
}

func (m MultiPresenter) HidePrompt() {
	for _, p := range m {
		p.HidePrompt()
	}
}

func (m MultiPresenter) ShowGameMenu() {
	for _, p := range m {
		p.ShowGameMenu()
	}
}

func (m MultiPresenter) ShowResults(r echokeys.Result) {
	for _, p := range m {
		p.ShowResults(r.Copy())
	}
}

func (m MultiPresenter) WaveformChanged(w echokeys.Waveform) {
	for _, p := range m {
		p.WaveformChanged(w)
	}
}
