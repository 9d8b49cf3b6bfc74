package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/echokeys/echokeys"
	"github.com/echokeys/echokeys/engine"
	"github.com/echokeys/echokeys/report"
)

// TerminalPresenter shows the instrument as lines of text. Highlight changes
// arrive in bursts (a chord, a cue), so the line of lit keys is printed
// once the burst has settled.
type TerminalPresenter struct {
	mutex     sync.Mutex
	out       io.Writer
	reporter  *report.Reporter
	ansi      bool
	lit       map[echokeys.Note]bool
	shown     string
	debounced func(f func())
}

// NewTerminalPresenter prints to out; the lit keys are printed once no
// highlight has changed for the settle time.
func NewTerminalPresenter(out io.Writer, reporter *report.Reporter, ansi bool, settle time.Duration) *TerminalPresenter {
	return &TerminalPresenter{
		out:       out,
		reporter:  reporter,
		ansi:      ansi,
		lit:       make(map[echokeys.Note]bool),
		debounced: debounce.New(settle),
	}
}

func (p *TerminalPresenter) Highlight(n echokeys.Note) {
	p.mutex.Lock()
	p.lit[n] = true
	p.mutex.Unlock()
	p.debounced(p.printKeys)
}

func (p *TerminalPresenter) Unhighlight(n echokeys.Note) {
	p.mutex.Lock()
	delete(p.lit, n)
	p.mutex.Unlock()
	p.debounced(p.printKeys)
}

func (p *TerminalPresenter) printKeys() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	notes := make([]echokeys.Note, 0, len(p.lit))
	for n := range p.lit {
		notes = append(notes, n)
	}
	slices.Sort(notes)
	names := make([]string, len(notes))
	for i, n := range notes {
		names[i] = n.String()
	}
	line := strings.Join(names, " ")
	if line == p.shown {
		return
	}
	p.shown = line
	if line == "" {
		line = "-"
	}
	fmt.Fprintf(p.out, "keys: %s\n", line)
}

func (p *TerminalPresenter) println(s string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	fmt.Fprintln(p.out, s)
}

func (p *TerminalPresenter) ShowPrompt(prompt engine.Prompt) {
	if p.ansi {
		c := prompt.Color
		p.println(fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", c.R, c.G, c.B, prompt.Text))
		return
	}
	p.println(prompt.Text)
}

func (p *TerminalPresenter) HidePrompt() {}

func (p *TerminalPresenter) ShowGameMenu() {
	p.println(`Game mode unlocked: type "start" to play Listen & Play.`)
}

func (p *TerminalPresenter) ShowResults(r echokeys.Result) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	var err error
	if p.ansi {
		err = p.reporter.ANSI(p.out, r)
	} else {
		err = p.reporter.Text(p.out, r)
	}
	if err != nil {
		fmt.Fprintln(p.out, report.Summary(r))
	}
	fmt.Fprintln(p.out, `Type "start" to play again.`)
}

func (p *TerminalPresenter) WaveformChanged(w echokeys.Waveform) {
	p.println("waveform: " + p.reporter.Label(w))
}
