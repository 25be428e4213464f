// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package max7219

import "github.com/GermanBionicSystems/segdisplay/sevenseg"

// codeB converts a character into its Code B representation. Refer to the
// datasheet. Characters the Code B font cannot show are blank.
func codeB(c sevenseg.Char) byte {
	var b byte
	switch ch := c.C & sevenseg.Segments; {
	case ch >= '0' && ch <= '9':
		b = ch - '0'
	case ch == '-':
		b = MinusSign
	case ch == 'E' || ch == 'e':
		b = 0xb
	case ch == 'H' || ch == 'h':
		b = 0xc
	case ch == 'L' || ch == 'l':
		b = 0xd
	case ch == 'P' || ch == 'p':
		b = 0xe
	default:
		b = ClearDigit
	}
	if c.DP {
		b |= DecimalPoint
	}
	return b
}
