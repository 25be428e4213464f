// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package segdisplay is a container for the MAX7219 8 digit 7-segment
// display driver and its supporting packages.
//
// The driver itself is in max7219. sevenseg holds the segment fonts,
// bitbang the 3-wire serial link over GPIO pins, rpiogpio a go-rpio pin
// backend and screen7seg a terminal and image emulation of the display.
// cmd/segdisplay is a command line front end.
package segdisplay
