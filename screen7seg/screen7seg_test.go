// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package screen7seg

import (
	"bytes"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maruel/ansi256"
	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	d := New(&Opts{W: &buf})
	assert.Equal(t, d.String(), "Screen7Seg")

	all := [NumDigits]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	assert.NilError(t, d.Write(all))
	first := buf.String()
	assert.Equal(t, strings.Count(first, "\n"), len(cells))
	assert.Assert(t, !strings.Contains(first, "\033[5A"))
	assert.Assert(t, is.Contains(first, ansi256.Default.Block(color.NRGBA{255, 0, 0, 255})))
	assert.Equal(t, d.Segments(), all)

	buf.Reset()
	assert.NilError(t, d.Write([NumDigits]byte{}))
	second := buf.String()
	assert.Assert(t, strings.HasPrefix(second, "\033[5A"))
	assert.Assert(t, !strings.Contains(second, ansi256.Default.Block(color.NRGBA{255, 0, 0, 255})))
	assert.Assert(t, is.Contains(second, ansi256.Default.Block(color.NRGBA{48, 0, 0, 255})))

	buf.Reset()
	assert.NilError(t, d.Halt())
	assert.Equal(t, buf.String(), "\n\033[0m")
}

func TestSetIntensity(t *testing.T) {
	var bright, dim bytes.Buffer
	a := New(&Opts{W: &bright, Lit: color.NRGBA{0, 255, 0, 255}})
	b := New(&Opts{W: &dim, Lit: color.NRGBA{0, 255, 0, 255}})
	b.SetIntensity(0)
	segs := [NumDigits]byte{0x7f}
	assert.NilError(t, a.Write(segs))
	assert.NilError(t, b.Write(segs))
	assert.Assert(t, bright.String() != dim.String())
}

func TestScale(t *testing.T) {
	c := color.NRGBA{255, 32, 0, 255}
	assert.Equal(t, scale(c, 15), c)
	assert.Equal(t, scale(c, 0), color.NRGBA{15, 2, 0, 255})
	assert.Equal(t, scale(c, 7), color.NRGBA{127, 16, 0, 255})
}

func TestImage(t *testing.T) {
	segs := [NumDigits]byte{0x40, 0, 0, 0, 0, 0, 0, 0x80}
	img := Image(segs, 15, "")
	b := img.Bounds()
	assert.Equal(t, b.Dx(), margin+NumDigits*(digitW+margin+thickness))
	assert.Equal(t, b.Dy(), 2*margin+digitH)

	red := func(x, y int) uint8 {
		return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA).R
	}
	// Middle of segment A of the leftmost digit.
	assert.Equal(t, red(margin+digitW/2, margin+thickness/2), uint8(255))
	// Segment A of the second digit is unlit.
	assert.Equal(t, red(2*margin+thickness+digitW+digitW/2, margin+thickness/2), uint8(48))
	// Background between digits.
	assert.Equal(t, red(margin/2, margin/2), uint8(0))
	// Decimal point of the rightmost digit.
	x0 := margin + (NumDigits-1)*(digitW+margin+thickness)
	assert.Equal(t, red(x0+digitW+thickness, margin+digitH-thickness/2), uint8(255))

	captioned := Image(segs, 0, "HELP8765")
	assert.Equal(t, captioned.Bounds().Dy(), 2*margin+digitH+captionH)
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "display.png")
	assert.NilError(t, SavePNG(path, [NumDigits]byte{0x7f}, 8, "8"))
	assert.Assert(t, SavePNG(filepath.Join(t.TempDir(), "missing", "x.png"), [NumDigits]byte{}, 0, "") != nil)
}
