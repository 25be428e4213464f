// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sevenseg

var standard = Font{
	digits: [10]byte{
		0x7e, // 0
		0x30, // 1
		0x6d, // 2
		0x79, // 3
		0x33, // 4
		0x5b, // 5
		0x5f, // 6
		0x70, // 7
		0x7f, // 8
		0x7b, // 9
	},
	// Letters without a readable rendering (K, M, V, W, X) are left blank
	// rather than drawn as something ambiguous. Where only one case can be
	// drawn, both cases share the glyph.
	ascii: [128]byte{
		' ':  0x00,
		'"':  0x22,
		'\'': 0x02,
		'(':  0x4e,
		')':  0x78,
		'-':  0x01,
		'0':  0x7e,
		'1':  0x30,
		'2':  0x6d,
		'3':  0x79,
		'4':  0x33,
		'5':  0x5b,
		'6':  0x5f,
		'7':  0x70,
		'8':  0x7f,
		'9':  0x7b,
		'=':  0x09,
		'?':  0x65,
		'A':  0x77,
		'B':  0x1f,
		'C':  0x4e,
		'D':  0x3d,
		'E':  0x4f,
		'F':  0x47,
		'G':  0x5e,
		'H':  0x37,
		'I':  0x06,
		'J':  0x3c,
		'L':  0x0e,
		'N':  0x15,
		'O':  0x7e,
		'P':  0x67,
		'Q':  0x73,
		'R':  0x05,
		'S':  0x5b,
		'T':  0x0f,
		'U':  0x3e,
		'Y':  0x3b,
		'Z':  0x6d,
		'[':  0x4e,
		']':  0x78,
		'^':  0x62,
		'_':  0x08,
		'`':  0x20,
		'a':  0x7d,
		'b':  0x1f,
		'c':  0x0d,
		'd':  0x3d,
		'e':  0x6f,
		'f':  0x47,
		'g':  0x7b,
		'h':  0x17,
		'i':  0x10,
		'j':  0x38,
		'l':  0x06,
		'n':  0x15,
		'o':  0x1d,
		'p':  0x67,
		'q':  0x73,
		'r':  0x05,
		's':  0x5b,
		't':  0x0f,
		'u':  0x1c,
		'y':  0x3b,
		'z':  0x6d,
		'|':  0x06,
	},
}
