// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sevenseg converts digits and ASCII text into raw 7-segment
// patterns.
//
// Patterns use the bit layout of the MAX7219 in no-decode mode:
//
//	bit:   7  6  5  4  3  2  1  0
//	seg:  DP  A  B  C  D  E  F  G
//
//	   AAA
//	  F   B
//	   GGG
//	  E   C
//	   DDD  DP
//
// A character that has no sensible 7-segment rendering is drawn blank. The
// decimal point is carried alongside the character in a Char, and only
// becomes bit 7 when the character is encoded.
package sevenseg

import (
	"fmt"
	"unicode/utf8"
)

// Segment bits.
const (
	SegG         byte = 0x01
	SegF         byte = 0x02
	SegE         byte = 0x04
	SegD         byte = 0x08
	SegC         byte = 0x10
	SegB         byte = 0x20
	SegA         byte = 0x40
	DecimalPoint byte = 0x80

	// Segments masks the seven segment bits, excluding the decimal point.
	Segments byte = 0x7f
)

// Char is a single display position: a 7-bit ASCII character and whether
// the decimal point of that position is lit.
type Char struct {
	C  byte
	DP bool
}

func (c Char) String() string {
	s := string(rune(c.C & Segments))
	if c.DP {
		s += "."
	}
	return s
}

// Blank is an unlit position.
var Blank = Char{C: ' '}

// Font maps digits and 7-bit ASCII codes to segment patterns. A Font is
// immutable once created.
type Font struct {
	digits [10]byte
	ascii  [128]byte
}

// NewFont returns a Font built from the given tables. Bit 7 of every entry
// is dropped; decimal points are never part of a glyph.
func NewFont(digits [10]byte, ascii [128]byte) *Font {
	f := &Font{}
	for ix, v := range digits {
		f.digits[ix] = v & Segments
	}
	for ix, v := range ascii {
		f.ascii[ix] = v & Segments
	}
	return f
}

// Standard returns a copy of the built-in font. Changing it has no effect
// on the built-in font.
func Standard() *Font {
	f := standard
	return &f
}

// Digit returns the pattern for d. Values outside 0-9 are blank.
func (f *Font) Digit(d int) byte {
	if d < 0 || d >= len(f.digits) {
		return 0
	}
	return f.digits[d]
}

// Byte encodes code. The low 7 bits select the glyph and bit 7 is passed
// through as the decimal point.
func (f *Font) Byte(code byte) byte {
	return (code & DecimalPoint) | f.ascii[code&Segments]
}

// Char encodes c, including its decimal point.
func (f *Font) Char(c Char) byte {
	code := c.C & Segments
	if c.DP {
		code |= DecimalPoint
	}
	return f.Byte(code)
}

// Lookup is the reverse of Char. It returns the first character whose
// glyph matches the low 7 bits of seg, checking space, digits, upper case,
// lower case and then punctuation in that order. ok is false when nothing
// in the font renders to seg.
func (f *Font) Lookup(seg byte) (c Char, ok bool) {
	c.DP = seg&DecimalPoint != 0
	pattern := seg & Segments
	if pattern == 0 {
		c.C = ' '
		return c, true
	}
	for _, code := range lookupOrder {
		if f.ascii[code] == pattern {
			c.C = code
			return c, true
		}
	}
	return c, false
}

func (f *Font) String() string {
	mapped := 0
	for _, v := range f.ascii {
		if v != 0 {
			mapped++
		}
	}
	return fmt.Sprintf("sevenseg.Font{%d glyphs}", mapped)
}

// EncodeDigit returns the standard pattern for d, blank when d is outside
// 0-9.
func EncodeDigit(d int) byte {
	return standard.Digit(d)
}

// EncodeByte encodes code with the standard font. The result keeps bit 7
// of code as the decimal point: (code & 0x80) | font[code & 0x7f].
func EncodeByte(code byte) byte {
	return standard.Byte(code)
}

// Parse converts text into display positions. A '.' that follows a
// character without a decimal point lights that character's decimal point
// instead of taking a position of its own. Characters outside 7-bit ASCII
// are blank.
func Parse(text string) []Char {
	chars := make([]Char, 0, len(text))
	for len(text) > 0 {
		r, size := utf8.DecodeRuneInString(text)
		text = text[size:]
		if r == '.' {
			if n := len(chars); n > 0 && !chars[n-1].DP {
				chars[n-1].DP = true
			} else {
				chars = append(chars, Char{C: ' ', DP: true})
			}
			continue
		}
		if r > 0x7f {
			chars = append(chars, Blank)
			continue
		}
		chars = append(chars, Char{C: byte(r)})
	}
	return chars
}

var lookupOrder = func() []byte {
	order := make([]byte, 0, 128)
	add := func(from, to byte) {
		for c := from; c <= to; c++ {
			order = append(order, c)
		}
	}
	add('0', '9')
	add('A', 'Z')
	add('a', 'z')
	add('!', '/')
	add(':', '@')
	add('[', '`')
	add('{', '~')
	return order
}()
