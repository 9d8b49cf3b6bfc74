package gioui

import (
	"image"
	"image/color"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
)

type (
	C = layout.Context
	D = layout.Dimensions

	// LabelStyle draws a single line of text with a drop shadow.
	LabelStyle struct {
		Text       string
		Color      color.NRGBA
		ShadeColor color.NRGBA
		Alignment  layout.Direction
		Font       font.Font
		FontSize   unit.Sp
		Shaper     *text.Shaper
	}
)

func Label(str string, color color.NRGBA, shaper *text.Shaper) layout.Widget {
	return LabelStyle{Text: str, Color: color, ShadeColor: black, Font: labelDefaultFont, FontSize: labelDefaultFontSize, Alignment: layout.W, Shaper: shaper}.Layout
}

func (l LabelStyle) Layout(gtx C) D {
	return l.Alignment.Layout(gtx, func(gtx C) D {
		gtx.Constraints.Min = image.Point{}
		lbl := widget.Label{Alignment: text.Start, MaxLines: 1}
		paint.ColorOp{Color: l.ShadeColor}.Add(gtx.Ops)
		offs := op.Offset(image.Pt(2, 2)).Push(gtx.Ops)
		lbl.Layout(gtx, l.Shaper, l.Font, l.FontSize, l.Text, op.CallOp{})
		offs.Pop()
		paint.ColorOp{Color: l.Color}.Add(gtx.Ops)
		dims := lbl.Layout(gtx, l.Shaper, l.Font, l.FontSize, l.Text, op.CallOp{})
		return D{Size: dims.Size, Baseline: dims.Baseline}
	})
}
