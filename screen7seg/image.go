// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package screen7seg

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/GermanBionicSystems/segdisplay/sevenseg"
)

// Digit geometry, in pixels.
const (
	digitW    = 48
	digitH    = 84
	thickness = 8
	margin    = 12
	captionH  = 20
)

type bar struct {
	mask       byte
	x, y, w, h float64
}

var bars = []bar{
	{sevenseg.SegA, thickness, 0, digitW - 2*thickness, thickness},
	{sevenseg.SegB, digitW - thickness, thickness, thickness, digitH/2 - thickness},
	{sevenseg.SegC, digitW - thickness, digitH / 2, thickness, digitH/2 - thickness},
	{sevenseg.SegD, thickness, digitH - thickness, digitW - 2*thickness, thickness},
	{sevenseg.SegE, 0, digitH / 2, thickness, digitH/2 - thickness},
	{sevenseg.SegF, 0, thickness, thickness, digitH/2 - thickness},
	{sevenseg.SegG, thickness, digitH/2 - thickness/2, digitW - 2*thickness, thickness},
}

// Image renders segs, leftmost digit first, as a picture of the display.
// intensity (0-15) dims the lit segments. A non-empty caption is printed
// below the digits.
func Image(segs [NumDigits]byte, intensity byte, caption string) image.Image {
	width := margin + NumDigits*(digitW+margin+thickness)
	height := 2*margin + digitH
	if caption != "" {
		height += captionH
	}
	dc := gg.NewContext(width, height)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	lit := scale(color.NRGBA{255, 0, 0, 255}, intensity&0x0f)
	unlit := color.NRGBA{48, 0, 0, 255}
	for ix, seg := range segs {
		x0 := float64(margin + ix*(digitW+margin+thickness))
		y0 := float64(margin)
		for _, b := range bars {
			setColor(dc, unlit, lit, seg&b.mask != 0)
			dc.DrawRoundedRectangle(x0+b.x, y0+b.y, b.w, b.h, thickness/3)
			dc.Fill()
		}
		setColor(dc, unlit, lit, seg&sevenseg.DecimalPoint != 0)
		dc.DrawCircle(x0+digitW+thickness, y0+digitH-thickness/2, thickness/2)
		dc.Fill()
	}

	if caption != "" {
		dc.SetFontFace(basicfont.Face7x13)
		dc.SetRGB(0.8, 0.8, 0.8)
		dc.DrawStringAnchored(caption, float64(width)/2, float64(height-captionH/2-margin/2), 0.5, 0.5)
	}
	return dc.Image()
}

// SavePNG writes Image(segs, intensity, caption) to path.
func SavePNG(path string, segs [NumDigits]byte, intensity byte, caption string) error {
	return gg.SavePNG(path, Image(segs, intensity, caption))
}

func setColor(dc *gg.Context, unlit, lit color.NRGBA, on bool) {
	if on {
		dc.SetColor(lit)
	} else {
		dc.SetColor(unlit)
	}
}
