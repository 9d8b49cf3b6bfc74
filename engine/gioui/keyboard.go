package gioui

import (
	"image"
	"strings"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/echokeys/echokeys"
)

type (
	// KeyboardStyle draws one key per note, left to right, with the note name
	// and the computer key or mouse button bound to it.
	KeyboardStyle struct {
		Theme       *material.Theme
		Highlighted map[echokeys.Note]bool
		Hints       map[echokeys.Note]string
	}
)

// keyHints returns, for each note, the first keyboard or mouse input bound
// to it.
func keyHints(k *echokeys.KeyMap) map[echokeys.Note]string {
	ret := make(map[echokeys.Note]string)
	for _, n := range echokeys.Notes() {
		for _, in := range k.InputsFor(n) {
			if in.Device == echokeys.MIDIKey {
				continue
			}
			ret[n] = hintFor(in)
			break
		}
	}
	return ret
}

func hintFor(in echokeys.Input) string {
	switch in.Device {
	case echokeys.Mouse:
		switch in.Code {
		case "0":
			return "LMB"
		case "1":
			return "MMB"
		case "2":
			return "RMB"
		}
		return "mouse " + in.Code
	default:
		switch in.Code {
		case "arrowleft":
			return "←"
		case "arrowright":
			return "→"
		case "arrowup":
			return "↑"
		case "arrowdown":
			return "↓"
		case " ":
			return "space"
		}
		return in.Code
	}
}

func isSharp(n echokeys.Note) bool {
	return strings.Contains(n.String(), "#")
}

func (k KeyboardStyle) Layout(gtx C) D {
	notes := echokeys.Notes()
	size := gtx.Constraints.Max
	if size.X <= 0 || size.Y <= 0 || len(notes) == 0 {
		return D{Size: size}
	}
	width := size.X / len(notes)
	gap := gtx.Dp(unit.Dp(2))
	for i, n := range notes {
		rect := image.Rect(i*width+gap, 0, (i+1)*width-gap, size.Y)
		if isSharp(n) {
			rect.Max.Y = size.Y * 2 / 3
		}
		k.layoutKey(gtx, n, rect)
	}
	return D{Size: size}
}

func (k KeyboardStyle) layoutKey(gtx C, n echokeys.Note, rect image.Rectangle) {
	keyColor, textColor := whiteKeyColor, black
	if isSharp(n) {
		keyColor, textColor = blackKeyColor, highEmphasisTextColor
	}
	if k.Highlighted[n] {
		keyColor, textColor = activeKeyColor, black
	}
	r := gtx.Dp(unit.Dp(4))
	border := clip.UniformRRect(rect, r)
	paint.FillShape(gtx.Ops, keyBorderColor, border.Op(gtx.Ops))
	inner := clip.UniformRRect(rect.Inset(gtx.Dp(unit.Dp(1))), r)
	paint.FillShape(gtx.Ops, keyColor, inner.Op(gtx.Ops))

	defer op.Offset(rect.Min).Push(gtx.Ops).Pop()
	gtx.Constraints = layout.Exact(rect.Size())
	layout.S.Layout(gtx, func(gtx C) D {
		return layout.Inset{Bottom: unit.Dp(8)}.Layout(gtx, func(gtx C) D {
			return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(LabelStyle{Text: n.String(), Color: textColor, ShadeColor: transparent, Font: labelDefaultFont, FontSize: unit.Sp(14), Alignment: layout.Center, Shaper: k.Theme.Shaper}.Layout),
				layout.Rigid(LabelStyle{Text: k.Hints[n], Color: mediumEmphasisTextColor, ShadeColor: transparent, Font: labelDefaultFont, FontSize: unit.Sp(12), Alignment: layout.Center, Shaper: k.Theme.Shaper}.Layout),
			)
		})
	})
}
