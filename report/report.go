// Package report formats round results as text, for the terminal, the HTTP
// API and the results modal.
package report

import (
	"embed"
	"fmt"
	"image/color"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/echokeys/echokeys"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	CorrectColor = color.NRGBA{R: 0x70, G: 0xf4, B: 0x70, A: 0xff}
	WrongColor   = color.NRGBA{R: 0xff, G: 0x55, B: 0x55, A: 0xff}
)

// Reporter renders results with the embedded templates.
type Reporter struct {
	tmpl  *template.Template
	caser cases.Caser
}

func New() (*Reporter, error) {
	r := &Reporter{caser: cases.Title(language.English)}
	funcs := sprig.TxtFuncMap()
	funcs["status"] = r.Status
	funcs["statusColor"] = StatusColor
	funcs["colored"] = ansiColored
	funcs["bold"] = func(s string) string { return "\x1b[1m" + s + "\x1b[0m" }
	tmpl, err := template.New("report").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf(`could not parse report templates: %w`, err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Text writes the plain text report:
//
//	Score: 3/5 (60%)
//	Correct Note 1: Expected C4, You played C4
//	Wrong Note 2: Expected E4, You played D4
//	...
func (r *Reporter) Text(w io.Writer, res echokeys.Result) error {
	return r.execute(w, "text", res)
}

// ANSI writes the report with terminal colors.
func (r *Reporter) ANSI(w io.Writer, res echokeys.Result) error {
	return r.execute(w, "ansi", res)
}

// String returns the plain text report.
func (r *Reporter) String(res echokeys.Result) (string, error) {
	var b strings.Builder
	if err := r.Text(&b, res); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (r *Reporter) execute(w io.Writer, name string, res echokeys.Result) error {
	if err := r.tmpl.ExecuteTemplate(w, name, res); err != nil {
		return fmt.Errorf("could not execute template %q: %w", name, err)
	}
	return nil
}

// Status returns "Correct" or "Wrong".
func (r *Reporter) Status(rec echokeys.ScoreRecord) string {
	if rec.Correct {
		return r.caser.String("correct")
	}
	return r.caser.String("wrong")
}

// Summary returns the first line of the report, e.g. "Score: 3/5 (60%)".
func Summary(res echokeys.Result) string {
	return fmt.Sprintf("Score: %d/%d (%d%%)", res.Correct, res.Total, res.Percent())
}

// Label returns a title cased label for a waveform, e.g. "Square".
func (r *Reporter) Label(w echokeys.Waveform) string {
	return r.caser.String(w.String())
}

func StatusColor(rec echokeys.ScoreRecord) color.NRGBA {
	if rec.Correct {
		return CorrectColor
	}
	return WrongColor
}

func ansiColored(s string, c color.NRGBA) string {
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", c.R, c.G, c.B, s)
}
