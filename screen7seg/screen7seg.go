// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen7seg emulates an 8 digit 7-segment display on the terminal
// (stdout) using ANSI color codes, and renders snapshots of it as images.
//
// Useful while you are waiting for your MAX7219 module to come by mail.
package screen7seg

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"

	"github.com/GermanBionicSystems/segdisplay/sevenseg"
)

// NumDigits is the number of digits shown.
const NumDigits = 8

// Each digit is drawn as a grid of blocks; a cell lights when any of its
// segment bits is set. The last column holds the decimal point.
var cells = [5][5]byte{
	{0, sevenseg.SegA, sevenseg.SegA, 0, 0},
	{sevenseg.SegF, 0, 0, sevenseg.SegB, 0},
	{0, sevenseg.SegG, sevenseg.SegG, 0, 0},
	{sevenseg.SegE, 0, 0, sevenseg.SegC, 0},
	{0, sevenseg.SegD, sevenseg.SegD, 0, sevenseg.DecimalPoint},
}

var background = color.NRGBA{0, 0, 0, 255}

// Opts represents the options available for this display.
type Opts struct {
	// W receives the output. Defaults to a colorable stdout.
	W       io.Writer
	Palette *ansi256.Palette
	// Lit and Unlit are the segment colors. Lit defaults to red, Unlit to a
	// dim red.
	Lit   color.NRGBA
	Unlit color.NRGBA

	_ struct{}
}

// Dev is a 7-segment display emulator that outputs to the console.
type Dev struct {
	w         io.Writer
	palette   ansi256.Palette
	lit       color.NRGBA
	unlit     color.NRGBA
	intensity byte
	drawn     bool

	segs [NumDigits]byte
	buf  bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	d := &Dev{
		w:         w,
		palette:   *p,
		lit:       opts.Lit,
		unlit:     opts.Unlit,
		intensity: 0x0f,
	}
	if d.lit == (color.NRGBA{}) {
		d.lit = color.NRGBA{255, 0, 0, 255}
	}
	if d.unlit == (color.NRGBA{}) {
		d.unlit = color.NRGBA{48, 0, 0, 255}
	}
	return d
}

func (d *Dev) String() string {
	return "Screen7Seg"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so it is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// SetIntensity dims lit segments, from 0 (dimmest) to 15.
func (d *Dev) SetIntensity(intensity byte) {
	d.intensity = intensity & 0x0f
}

// Write shows segment bytes, leftmost digit first, in the MAX7219 no-decode
// bit layout.
func (d *Dev) Write(segs [NumDigits]byte) error {
	d.segs = segs
	return d.refresh()
}

// Segments returns what is currently shown.
func (d *Dev) Segments() [NumDigits]byte {
	return d.segs
}

func (d *Dev) refresh() error {
	// Redraw in place over the previous frame.
	d.buf.Reset()
	if d.drawn {
		fmt.Fprintf(&d.buf, "\033[%dA", len(cells))
	}
	lit := scale(d.lit, d.intensity)
	for _, row := range cells {
		_, _ = d.buf.WriteString("\r\033[0m")
		for _, seg := range d.segs {
			for _, mask := range row {
				c := background
				if mask != 0 {
					c = d.unlit
					if seg&mask != 0 {
						c = lit
					}
				}
				_, _ = io.WriteString(&d.buf, d.palette.Block(c))
			}
			_, _ = io.WriteString(&d.buf, d.palette.Block(background))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	d.drawn = err == nil
	return err
}

// scale dims c in 16 steps, matching the MAX7219 intensity register.
func scale(c color.NRGBA, intensity byte) color.NRGBA {
	f := func(v uint8) uint8 {
		return uint8(uint16(v) * uint16(intensity+1) / 16)
	}
	return color.NRGBA{f(c.R), f(c.G), f(c.B), c.A}
}

var _ fmt.Stringer = &Dev{}
