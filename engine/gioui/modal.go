package gioui

import (
	"image"

	"gioui.org/io/event"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
)

type (
	// ModalStyle draws a card in the middle of a dimmed window. The dimmed
	// area swallows all pointer events, so clicks around the card never reach
	// the instrument below.
	ModalStyle struct {
		Title   string
		Inset   layout.Inset
		Theme   *material.Theme
		Body    []layout.Widget
		Buttons []material.ButtonStyle
	}
)

var modalTag bool

func Modal(th *material.Theme, title string) ModalStyle {
	return ModalStyle{
		Title: title,
		Theme: th,
		Inset: layout.Inset{Top: unit.Dp(16), Bottom: unit.Dp(16), Left: unit.Dp(24), Right: unit.Dp(24)},
	}
}

func ModalButton(th *material.Theme, w *widget.Clickable, text string) material.ButtonStyle {
	ret := material.Button(th, w, text)
	ret.Background = primaryColor
	ret.Color = black
	return ret
}

// ToolButton returns a transparent icon button for the toolbar.
func ToolButton(th *material.Theme, w *widget.Clickable, icon []byte, description string) material.IconButtonStyle {
	ret := material.IconButton(th, w, widgetForIcon(icon), description)
	ret.Background = transparent
	ret.Color = primaryColor
	ret.Inset = layout.UniformInset(unit.Dp(6))
	return ret
}

func (m ModalStyle) Layout(gtx C) D {
	area := clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops)
	paint.Fill(gtx.Ops, dialogBgColor)
	event.Op(gtx.Ops, &modalTag)
	area.Pop()
	return layout.Center.Layout(gtx, func(gtx C) D {
		return card(gtx, func(gtx C) D {
			return m.Inset.Layout(gtx, func(gtx C) D {
				children := make([]layout.FlexChild, 0, len(m.Body)+2)
				children = append(children, layout.Rigid(func(gtx C) D {
					return layout.Inset{Bottom: unit.Dp(12)}.Layout(gtx, Label(m.Title, highEmphasisTextColor, m.Theme.Shaper))
				}))
				for _, w := range m.Body {
					children = append(children, layout.Rigid(w))
				}
				children = append(children, layout.Rigid(m.layoutButtons))
				return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
			})
		})
	})
}

func (m ModalStyle) layoutButtons(gtx C) D {
	children := make([]layout.FlexChild, 0, len(m.Buttons))
	for _, b := range m.Buttons {
		children = append(children, layout.Rigid(func(gtx C) D {
			return layout.Inset{Left: unit.Dp(8)}.Layout(gtx, b.Layout)
		}))
	}
	return layout.Inset{Top: unit.Dp(16)}.Layout(gtx, func(gtx C) D {
		return layout.E.Layout(gtx, func(gtx C) D {
			return layout.Flex{Axis: layout.Horizontal}.Layout(gtx, children...)
		})
	})
}

// card lays out contents on a rounded surface with a shadow.
func card(gtx C, contents layout.Widget) D {
	bg := func(gtx C) D {
		rrect := clip.UniformRRect(image.Rectangle{Max: gtx.Constraints.Min}, gtx.Dp(6))
		shadow := rrect
		s := gtx.Dp(2)
		shadow.Rect.Min = shadow.Rect.Min.Sub(image.Pt(s, s))
		shadow.Rect.Max = shadow.Rect.Max.Add(image.Pt(s, s))
		paint.FillShape(gtx.Ops, popupShadowColor, shadow.Op(gtx.Ops))
		paint.FillShape(gtx.Ops, popupSurfaceColor, rrect.Op(gtx.Ops))
		return D{Size: gtx.Constraints.Min}
	}
	return layout.Stack{}.Layout(gtx,
		layout.Expanded(bg),
		layout.Stacked(contents),
	)
}
