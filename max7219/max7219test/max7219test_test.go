// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package max7219test

import (
	"testing"

	"gotest.tools/assert"
	"periph.io/x/conn/v3/gpio"
)

// send drives one frame of n bits of v, MSB first, directly on the pins.
func send(c *Chip, v uint32, n int) {
	din, clk, load := c.DIN(), c.CLK(), c.LOAD()
	_ = load.Out(gpio.Low)
	for i := n - 1; i >= 0; i-- {
		_ = din.Out(v&(1<<i) != 0)
		_ = clk.Out(gpio.High)
		_ = clk.Out(gpio.Low)
	}
	_ = load.Out(gpio.High)
}

func TestLatch(t *testing.T) {
	c := New()
	assert.Assert(t, c.Shutdown())
	send(c, 0x0a07, 16)
	assert.Equal(t, c.Intensity(), byte(7))
	assert.DeepEqual(t, c.Writes(), []Write{{Register: 0x0a, Data: 0x07}})
	assert.Equal(t, c.Pulses(), 16)
	assert.Equal(t, c.ShortFrames(), 0)
}

func TestShortAndLongFrames(t *testing.T) {
	c := New()
	send(c, 0x0a07, 12)
	assert.Equal(t, c.ShortFrames(), 1)
	assert.Equal(t, len(c.Writes()), 0)
	assert.Equal(t, c.Intensity(), byte(0))

	// Only the last 16 bits are latched.
	send(c, 0xff0c01, 24)
	assert.Assert(t, !c.Shutdown())
	assert.DeepEqual(t, c.Writes(), []Write{{Register: 0x0c, Data: 0x01}})
}

func TestClockIgnoredWhileIdle(t *testing.T) {
	c := New()
	clk := c.CLK()
	for range 5 {
		_ = clk.Out(gpio.High)
		_ = clk.Out(gpio.Low)
	}
	send(c, 0x0b07, 16)
	assert.Equal(t, c.ScanLimit(), 8)
	assert.Equal(t, c.Pulses(), 21)
	c.Reset()
	assert.Equal(t, c.Pulses(), 0)
	assert.Equal(t, len(c.Writes()), 0)
	assert.Equal(t, c.ScanLimit(), 8)
}

func TestText(t *testing.T) {
	c := New()
	send(c, 0x0837, 16) // H
	send(c, 0x07cf, 16) // E.
	send(c, 0x0649, 16) // no character
	assert.Equal(t, c.Text(), "HE.?     ")

	send(c, 0x09ff, 16)
	send(c, 0x0801, 16)
	send(c, 0x078a, 16)
	send(c, 0x060f, 16)
	send(c, 0x050e, 16)
	assert.Equal(t, c.DecodeMode(), byte(0xff))
	assert.Equal(t, c.Text(), "1-. P0000")
}

func TestOnLatch(t *testing.T) {
	c := New()
	var got []Write
	c.OnLatch = func(w Write) {
		got = append(got, w)
		// The chip is unlocked during the callback.
		_ = c.Register(w.Register)
	}
	send(c, 0x0f01, 16)
	assert.Assert(t, c.DisplayTest())
	assert.DeepEqual(t, got, []Write{{Register: 0x0f, Data: 0x01}})
	assert.Equal(t, got[0].String(), "0x0f=0x01")
}

func TestPin(t *testing.T) {
	c := New()
	p := c.LOAD()
	assert.Equal(t, p.Name(), "MAX7219_LOAD")
	assert.Equal(t, p.String(), "MAX7219_LOAD")
	assert.Equal(t, p.Number(), lineLOAD)
	assert.Equal(t, p.Function(), "Out")
	assert.NilError(t, p.Halt())
	assert.Assert(t, p.PWM(gpio.DutyHalf, 0) != nil)
}

func TestSegments(t *testing.T) {
	c := New()
	send(c, 0x0837, 16)
	assert.Equal(t, c.Segments(), [8]byte{}, "shutdown")

	send(c, 0x0c01, 16)
	send(c, 0x0b07, 16)
	assert.Equal(t, c.Segments(), [8]byte{0x37})

	send(c, 0x0f01, 16)
	assert.Equal(t, c.Segments(), [8]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	send(c, 0x0f00, 16)

	// Code B digits are rendered, the decimal point is kept.
	send(c, 0x09ff, 16)
	send(c, 0x0885, 16)
	send(c, 0x070c, 16)
	send(c, 0x060f, 16)
	assert.Equal(t, c.Segments(), [8]byte{0xdb, 0x37, 0, 0x7e, 0x7e, 0x7e, 0x7e, 0x7e})

	// Digits past the scan limit are dark.
	send(c, 0x0b03, 16)
	assert.Equal(t, c.Segments(), [8]byte{0, 0, 0, 0, 0x7e, 0x7e, 0x7e, 0x7e})
}
