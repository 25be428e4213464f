// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package screen7seg_test

import (
	"log"

	"github.com/GermanBionicSystems/segdisplay/max7219"
	"github.com/GermanBionicSystems/segdisplay/max7219/max7219test"
	"github.com/GermanBionicSystems/segdisplay/screen7seg"
)

// Drive an emulated MAX7219 and mirror it on the terminal.
func Example() {
	screen := screen7seg.New(&screen7seg.Opts{})
	defer screen.Halt()

	chip := max7219test.New()
	chip.OnLatch = func(max7219test.Write) {
		screen.SetIntensity(chip.Intensity())
		_ = screen.Write(chip.Segments())
	}
	dev, err := max7219.NewGPIO(chip.DIN(), chip.CLK(), chip.LOAD(), nil)
	if err != nil {
		log.Fatal(err)
	}
	_ = dev.DisplayText("HELLO")
	if err := screen7seg.SavePNG("hello.png", chip.Segments(), chip.Intensity(), "HELLO"); err != nil {
		log.Fatal(err)
	}
}
