package gioui

import (
	"image/color"

	"gioui.org/font/gofont"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

var fontCollection []text.FontFace = gofont.Collection()

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
var black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
var transparent = color.NRGBA{A: 0}

var primaryColor = color.NRGBA{R: 206, G: 147, B: 216, A: 255}
var secondaryColor = color.NRGBA{R: 128, G: 222, B: 234, A: 255}

var highEmphasisTextColor = color.NRGBA{R: 222, G: 222, B: 222, A: 222}
var mediumEmphasisTextColor = color.NRGBA{R: 153, G: 153, B: 153, A: 153}

var backgroundColor = color.NRGBA{R: 18, G: 18, B: 18, A: 255}

var labelDefaultFont = fontCollection[6].Font
var labelDefaultFontSize = unit.Sp(18)

var whiteKeyColor = color.NRGBA{R: 230, G: 230, B: 230, A: 255}
var blackKeyColor = color.NRGBA{R: 37, G: 37, B: 38, A: 255}
var activeKeyColor = primaryColor
var keyBorderColor = color.NRGBA{R: 60, G: 60, B: 62, A: 255}

var popupSurfaceColor = color.NRGBA{R: 50, G: 50, B: 51, A: 255}
var popupShadowColor = color.NRGBA{R: 0, G: 0, B: 0, A: 192}
var dialogBgColor = color.NRGBA{R: 0, G: 0, B: 0, A: 224}
var overlayBgColor = color.NRGBA{R: 0, G: 0, B: 0, A: 160}
var meterColor = secondaryColor
var meterClipColor = color.NRGBA{R: 255, G: 80, B: 80, A: 255}
var recordSurfaceColor = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255}

func newTheme() *material.Theme {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(fontCollection))
	th.Palette.Fg = highEmphasisTextColor
	th.Palette.Bg = backgroundColor
	th.Palette.ContrastBg = primaryColor
	th.Palette.ContrastFg = black
	return th
}
