// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package max7219test emulates a MAX7219 at the pin level.
//
// A Chip exposes its DIN, CLK and LOAD inputs as gpio.PinOut. It decodes
// the waveform driven on them the way the real part does: DIN is sampled on
// every rising edge of CLK while LOAD is low, and the last 16 bits shifted
// in are latched into the register file on the rising edge of LOAD. It is
// meant for tests and for running display code without hardware.
package max7219test

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/segdisplay/sevenseg"
)

const (
	regDecodeMode  = 0x9
	regIntensity   = 0xa
	regScanLimit   = 0xb
	regShutdown    = 0xc
	regDisplayTest = 0xf

	frameBits = 16
)

const (
	lineDIN = iota
	lineCLK
	lineLOAD
)

// codeB is the controller's built-in font for decoded digit registers.
var codeB = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '-', 'E', 'H', 'L', 'P', ' '}

// Write is one latched register write.
type Write struct {
	Register byte
	Data     byte
}

func (w Write) String() string {
	return fmt.Sprintf("0x%02x=0x%02x", w.Register, w.Data)
}

// Chip is an emulated MAX7219.
type Chip struct {
	// OnLatch, when set, is called after every latched write. It is called
	// without the chip lock held, so it may call back into the Chip.
	OnLatch func(w Write)

	mu     sync.Mutex
	regs   [16]byte
	din    gpio.Level
	clk    gpio.Level
	load   gpio.Level
	shift  uint16
	bits   int
	pulses int
	short  int
	writes []Write
}

// New returns a Chip in its power-on state: shutdown, no decode, and all
// registers zero. LOAD starts high (idle).
func New() *Chip {
	return &Chip{load: gpio.High}
}

// DIN returns the serial data input pin.
func (c *Chip) DIN() gpio.PinOut {
	return &Pin{chip: c, name: "MAX7219_DIN", number: lineDIN}
}

// CLK returns the serial clock input pin.
func (c *Chip) CLK() gpio.PinOut {
	return &Pin{chip: c, name: "MAX7219_CLK", number: lineCLK}
}

// LOAD returns the load (chip-select) input pin.
func (c *Chip) LOAD() gpio.PinOut {
	return &Pin{chip: c, name: "MAX7219_LOAD", number: lineLOAD}
}

func (c *Chip) drive(line int, l gpio.Level) {
	var latched *Write
	c.mu.Lock()
	switch line {
	case lineDIN:
		c.din = l
	case lineCLK:
		if l && !c.clk {
			c.pulses++
			if !c.load {
				c.shift <<= 1
				if c.din {
					c.shift |= 1
				}
				c.bits++
			}
		}
		c.clk = l
	case lineLOAD:
		if !l && c.load {
			c.shift, c.bits = 0, 0
		}
		if l && !c.load {
			if c.bits >= frameBits {
				w := Write{Register: byte(c.shift >> 8), Data: byte(c.shift)}
				c.regs[w.Register&0x0f] = w.Data
				c.writes = append(c.writes, w)
				latched = &w
			} else {
				c.short++
			}
		}
		c.load = l
	}
	cb := c.OnLatch
	c.mu.Unlock()
	if latched != nil && cb != nil {
		cb(*latched)
	}
}

// Writes returns a copy of every write latched since New or the last
// Reset.
func (c *Chip) Writes() []Write {
	c.mu.Lock()
	defer c.mu.Unlock()
	w := make([]Write, len(c.writes))
	copy(w, c.writes)
	return w
}

// Reset forgets the write log, short frame count and clock pulse count.
// The register file is kept.
func (c *Chip) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = nil
	c.short = 0
	c.pulses = 0
}

// Register returns the current content of register addr.
func (c *Chip) Register(addr byte) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[addr&0x0f]
}

// Digits returns the digit registers from the leftmost (0x08) to the
// rightmost (0x01).
func (c *Chip) Digits() [8]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	var d [8]byte
	for ix := range d {
		d[ix] = c.regs[8-ix]
	}
	return d
}

// Intensity returns the intensity register, 0-15.
func (c *Chip) Intensity() byte {
	return c.Register(regIntensity) & 0x0f
}

// DecodeMode returns the decode-mode register.
func (c *Chip) DecodeMode() byte {
	return c.Register(regDecodeMode)
}

// ScanLimit returns the number of digits being scanned, 1-8.
func (c *Chip) ScanLimit() int {
	return int(c.Register(regScanLimit)&0x07) + 1
}

// Shutdown reports whether the chip is in shutdown mode.
func (c *Chip) Shutdown() bool {
	return c.Register(regShutdown)&0x01 == 0
}

// DisplayTest reports whether display-test mode is on.
func (c *Chip) DisplayTest() bool {
	return c.Register(regDisplayTest)&0x01 != 0
}

// ShortFrames returns how many times LOAD rose with fewer than 16 bits
// shifted in.
func (c *Chip) ShortFrames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.short
}

// Pulses returns the number of rising CLK edges seen.
func (c *Chip) Pulses() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pulses
}

// Text reads the digits back as text, leftmost first. Decoded digits use
// the Code B font, raw digits are matched against the standard 7-segment
// font and render as '?' when no character matches. A lit decimal point
// adds a '.' after its digit.
func (c *Chip) Text() string {
	digits := c.Digits()
	decode := c.DecodeMode()
	font := sevenseg.Standard()
	var sb strings.Builder
	for ix, v := range digits {
		reg := 8 - ix
		ch := byte('?')
		if decode&(1<<(reg-1)) != 0 {
			ch = codeB[v&0x0f]
		} else if got, ok := font.Lookup(v); ok {
			ch = got.C
		}
		sb.WriteByte(ch)
		if v&sevenseg.DecimalPoint != 0 {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// Segments returns the segments that are lit, leftmost digit first, in the
// no-decode bit layout. It accounts for the decode mode, shutdown, display
// test and scan limit, so it is what an LED module would show.
func (c *Chip) Segments() [8]byte {
	var segs [8]byte
	if c.DisplayTest() {
		for ix := range segs {
			segs[ix] = 0xff
		}
		return segs
	}
	if c.Shutdown() {
		return segs
	}
	digits := c.Digits()
	decode := c.DecodeMode()
	limit := c.ScanLimit()
	font := sevenseg.Standard()
	for ix, v := range digits {
		reg := 8 - ix
		if reg > limit {
			continue
		}
		if decode&(1<<(reg-1)) != 0 {
			segs[ix] = font.Byte(codeB[v&0x0f]) | v&sevenseg.DecimalPoint
		} else {
			segs[ix] = v
		}
	}
	return segs
}

func (c *Chip) String() string {
	return fmt.Sprintf("max7219test.Chip{%q}", c.Text())
}

// Pin is one input line of a Chip.
type Pin struct {
	chip   *Chip
	name   string
	number int
}

// Halt implements conn.Resource.
func (p *Pin) Halt() error {
	return nil
}

// Name returns the name of the pin.
func (p *Pin) Name() string {
	return p.name
}

// Number returns the line number of the pin on the chip.
func (p *Pin) Number() int {
	return p.number
}

// Deprecated: returns "Out"
func (p *Pin) Function() string {
	return "Out"
}

// Out drives the chip input to l.
func (p *Pin) Out(l gpio.Level) error {
	p.chip.drive(p.number, l)
	return nil
}

// PWM is not supported.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("max7219test: PWM is not supported")
}

func (p *Pin) String() string {
	return p.name
}

var _ gpio.PinOut = &Pin{}
