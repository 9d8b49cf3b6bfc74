// Package gioui is the window of the instrument: a strip of keys lit by the
// notes that sound, the game prompts and the game menu and results modals.
// Key and mouse button presses anywhere in the window are forwarded to the
// engine as raw inputs.
package gioui

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/echokeys/echokeys"
	"github.com/echokeys/echokeys/engine"
	"github.com/echokeys/echokeys/report"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

type (
	GUI struct {
		Theme *material.Theme
		Meter func() float32 // output level for the toolbar meter, optional

		broker      *engine.Broker
		reporter    *report.Reporter
		log         *slog.Logger
		preferences Preferences

		highlighted map[echokeys.Note]bool
		hints       map[echokeys.Note]string
		prompt      *engine.Prompt
		menuVisible bool
		results     *echokeys.Result
		waveform    echokeys.Waveform
		buttons     pointer.Buttons
		held        map[echokeys.Input]bool
		level       float32

		StartBtn        widget.Clickable
		ToneBtn         widget.Clickable
		MenuStartBtn    widget.Clickable
		MenuCloseBtn    widget.Clickable
		PlayAgainBtn    widget.Clickable
		ResultsCloseBtn widget.Clickable
	}
)

func New(broker *engine.Broker, keyMap *echokeys.KeyMap, waveform echokeys.Waveform, reporter *report.Reporter, log *slog.Logger) *GUI {
	if log == nil {
		log = slog.Default()
	}
	g := &GUI{
		Theme:       newTheme(),
		broker:      broker,
		reporter:    reporter,
		log:         log,
		preferences: MakePreferences(),
		highlighted: make(map[echokeys.Note]bool),
		hints:       keyHints(keyMap),
		waveform:    waveform,
		held:        make(map[echokeys.Input]bool),
	}
	if err := g.preferences.YmlError; err != nil {
		log.Warn("could not read preferences.yml", "err", err)
	}
	return g
}

// Main runs the window until it is closed or CloseGUI is signaled, and closes
// FinishedGUI when done. It needs to run on the main goroutine on some
// platforms.
func (g *GUI) Main() {
	var ops op.Ops
	w := g.newWindow()
	acks := make(chan struct{})
	events := make(chan event.Event)
	go func() {
		for {
			ev := w.Event()
			events <- ev
			<-acks
			if _, ok := ev.(app.DestroyEvent); ok {
				return
			}
		}
	}()
F:
	for {
		select {
		case msg := <-g.broker.ToGUI:
			g.update(msg)
			w.Invalidate()
		case <-g.broker.CloseGUI:
			w.Perform(system.ActionClose)
		case e := <-events:
			switch e := e.(type) {
			case app.DestroyEvent:
				if e.Err != nil {
					g.log.Error("window destroyed", "err", e.Err)
				}
				g.releaseAll()
				acks <- struct{}{}
				break F
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				g.Layout(gtx)
				e.Frame(gtx.Ops)
			}
			acks <- struct{}{}
		}
	}
	close(g.broker.FinishedGUI)
}

func (g *GUI) newWindow() *app.Window {
	w := new(app.Window)
	w.Option(app.Title("EchoKeys"), app.Size(g.preferences.WindowSize()))
	if g.preferences.Window.Maximized {
		w.Option(app.Maximized.Option())
	}
	return w
}

// update applies one message from the presenter.
func (g *GUI) update(msg any) {
	switch m := msg.(type) {
	case highlightMsg:
		if m.on {
			g.highlighted[m.note] = true
		} else {
			delete(g.highlighted, m.note)
		}
	case promptMsg:
		if m.visible {
			p := m.prompt
			g.prompt = &p
		} else {
			g.prompt = nil
		}
	case gameMenuMsg:
		g.results = nil
		g.menuVisible = true
	case resultsMsg:
		r := m.result
		g.menuVisible = false
		g.results = &r
	case waveformMsg:
		g.waveform = m.waveform
	default:
		g.log.Debug("unknown GUI message", "type", fmt.Sprintf("%T", msg))
	}
}

func (g *GUI) send(msg any) {
	if !engine.TrySend(g.broker.ToEngine, msg) {
		g.log.Warn("engine queue full, dropping message", "type", fmt.Sprintf("%T", msg))
	}
}

func (g *GUI) input(in echokeys.Input, pressed bool) {
	if pressed {
		g.held[in] = true
	} else {
		delete(g.held, in)
	}
	g.send(engine.InputMsg{Input: in, Pressed: pressed})
}

// releaseAll releases every input that is still down, e.g. when the window
// loses its pointer grab or closes.
func (g *GUI) releaseAll() {
	for in := range g.held {
		g.input(in, false)
	}
	g.buttons = 0
}

func (g *GUI) modalVisible() bool {
	return g.menuVisible || g.results != nil
}

func (g *GUI) Layout(gtx C) {
	defer clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, g.Theme.Palette.Bg)
	// mouse buttons are captured in a sibling area below everything else,
	// so buttons and modals drawn on top of it swallow their own clicks
	area := clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops)
	event.Op(gtx.Ops, g)
	area.Pop()

	g.handleButtons(gtx)
	layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(g.layoutToolbar),
		layout.Flexed(1, func(gtx C) D {
			return layout.UniformInset(unit.Dp(12)).Layout(gtx, KeyboardStyle{Theme: g.Theme, Highlighted: g.highlighted, Hints: g.hints}.Layout)
		}),
	)
	if g.prompt != nil {
		g.layoutPrompt(gtx)
	}
	if g.menuVisible {
		g.layoutMenu(gtx)
	}
	if g.results != nil {
		g.layoutResults(gtx)
	}
	// this is the top level input handler for the whole window; it sees
	// every key the focused widgets do not claim
	for {
		ev, ok := gtx.Event(
			key.Filter{Name: "", Optional: key.ModAlt | key.ModCommand | key.ModShift | key.ModShortcut | key.ModSuper},
			pointer.Filter{Target: g, Kinds: pointer.Press | pointer.Release | pointer.Cancel},
		)
		if !ok {
			break
		}
		switch e := ev.(type) {
		case key.Event:
			g.keyEvent(e)
		case pointer.Event:
			if e.Kind == pointer.Cancel {
				for _, b := range mouseButtons {
					if g.buttons&b.button != 0 {
						g.input(echokeys.MouseInput(b.number), false)
					}
				}
				g.buttons = 0
				continue
			}
			prev := g.buttons
			g.buttons = e.Buttons
			buttonChanges(prev, e.Buttons, g.input)
		}
	}
}

func (g *GUI) keyEvent(e key.Event) {
	if e.Name == key.NameEscape && e.State == key.Press && g.modalVisible() {
		g.menuVisible = false
		g.results = nil
		return
	}
	in := keyInput(e.Name)
	pressed := e.State == key.Press
	if pressed == g.held[in] {
		return // key repeat, or a release of a key pressed before the window had focus
	}
	g.input(in, pressed)
}

func (g *GUI) handleButtons(gtx C) {
	if g.StartBtn.Clicked(gtx) || g.MenuStartBtn.Clicked(gtx) || g.PlayAgainBtn.Clicked(gtx) {
		g.menuVisible = false
		g.results = nil
		g.send(engine.StartGameMsg{})
	}
	if g.ToneBtn.Clicked(gtx) {
		g.send(func(e *engine.Engine) { e.ToggleWaveform() })
	}
	if g.MenuCloseBtn.Clicked(gtx) {
		g.menuVisible = false
	}
	if g.ResultsCloseBtn.Clicked(gtx) {
		g.results = nil
	}
}

func (g *GUI) layoutToolbar(gtx C) D {
	return layout.Inset{Left: unit.Dp(12), Right: unit.Dp(6), Top: unit.Dp(6)}.Layout(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Flexed(1, Label("EchoKeys", highEmphasisTextColor, g.Theme.Shaper)),
			layout.Rigid(g.layoutMeter),
			layout.Rigid(Label(g.reporter.Label(g.waveform), secondaryColor, g.Theme.Shaper)),
			layout.Rigid(ToolButton(g.Theme, &g.ToneBtn, icons.ImageMusicNote, "Toggle waveform").Layout),
			layout.Rigid(ToolButton(g.Theme, &g.StartBtn, icons.AVPlayArrow, "Listen & Play").Layout),
		)
	})
}

const meterRefresh = time.Second / 30

// layoutMeter draws the output level as a horizontal bar, red when the mix
// clips. The window is redrawn while there is anything to show.
func (g *GUI) layoutMeter(gtx C) D {
	if g.Meter == nil {
		return D{}
	}
	level := g.Meter()
	if level > 0 || g.level > 0 {
		gtx.Execute(op.InvalidateCmd{At: gtx.Now.Add(meterRefresh)})
	}
	g.level = level
	w, h := gtx.Dp(unit.Dp(80)), gtx.Dp(unit.Dp(6))
	margin := gtx.Dp(unit.Dp(12))
	defer op.Offset(image.Pt(0, -h/2)).Push(gtx.Ops).Pop()
	paint.FillShape(gtx.Ops, keyBorderColor, clip.Rect{Max: image.Pt(w, h)}.Op())
	c := meterColor
	if level > 1 {
		c = meterClipColor
	}
	filled := int(min(level, 1) * float32(w))
	paint.FillShape(gtx.Ops, c, clip.Rect{Max: image.Pt(filled, h)}.Op())
	return D{Size: image.Pt(w+margin, 0)}
}

func (g *GUI) layoutPrompt(gtx C) D {
	return layout.N.Layout(gtx, func(gtx C) D {
		return layout.Inset{Top: unit.Dp(64)}.Layout(gtx, func(gtx C) D {
			macro := op.Record(gtx.Ops)
			dims := layout.UniformInset(unit.Dp(16)).Layout(gtx, LabelStyle{Text: g.prompt.Text, Color: g.prompt.Color, ShadeColor: black, Font: labelDefaultFont, FontSize: unit.Sp(24), Shaper: g.Theme.Shaper}.Layout)
			call := macro.Stop()
			rrect := clip.UniformRRect(image.Rectangle{Max: dims.Size}, gtx.Dp(unit.Dp(8)))
			paint.FillShape(gtx.Ops, overlayBgColor, rrect.Op(gtx.Ops))
			call.Add(gtx.Ops)
			return dims
		})
	})
}

func (g *GUI) layoutMenu(gtx C) D {
	m := Modal(g.Theme, "Game Mode")
	m.Body = []layout.Widget{
		Label("Listen to a melody of five notes, then play it back.", mediumEmphasisTextColor, g.Theme.Shaper),
	}
	m.Buttons = []material.ButtonStyle{
		ModalButton(g.Theme, &g.MenuStartBtn, "Start Listen & Play"),
		ModalButton(g.Theme, &g.MenuCloseBtn, "Close"),
	}
	return m.Layout(gtx)
}

func (g *GUI) layoutResults(gtx C) D {
	res := *g.results
	m := Modal(g.Theme, report.Summary(res))
	for _, rec := range res.Records {
		m.Body = append(m.Body, g.recordRow(rec))
	}
	m.Buttons = []material.ButtonStyle{
		ModalButton(g.Theme, &g.PlayAgainBtn, "Play Again"),
		ModalButton(g.Theme, &g.ResultsCloseBtn, "Close"),
	}
	return m.Layout(gtx)
}

// recordRow draws one score record on a surface with a colored left edge.
func (g *GUI) recordRow(rec echokeys.ScoreRecord) layout.Widget {
	c := report.StatusColor(rec)
	text := fmt.Sprintf("Note %d: Expected %s, You played %s", rec.Position, rec.Expected, rec.Played)
	return func(gtx C) D {
		return layout.Inset{Top: unit.Dp(3), Bottom: unit.Dp(3)}.Layout(gtx, func(gtx C) D {
			macro := op.Record(gtx.Ops)
			dims := layout.Inset{Top: unit.Dp(6), Bottom: unit.Dp(6), Left: unit.Dp(12), Right: unit.Dp(12)}.Layout(gtx, func(gtx C) D {
				return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
					layout.Rigid(func(gtx C) D {
						return layout.Inset{Right: unit.Dp(8)}.Layout(gtx, Label(g.reporter.Status(rec), c, g.Theme.Shaper))
					}),
					layout.Rigid(Label(text, highEmphasisTextColor, g.Theme.Shaper)),
				)
			})
			call := macro.Stop()
			rrect := clip.UniformRRect(image.Rectangle{Max: dims.Size}, gtx.Dp(unit.Dp(6)))
			paint.FillShape(gtx.Ops, recordSurfaceColor, rrect.Op(gtx.Ops))
			edge := image.Rectangle{Max: image.Pt(gtx.Dp(unit.Dp(4)), dims.Size.Y)}
			paint.FillShape(gtx.Ops, c, clip.Rect(edge).Op())
			call.Add(gtx.Ops)
			return dims
		})
	}
}
