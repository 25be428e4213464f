// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bitbang drives a write-only 3-wire serial link (data, clock, and
// chip-select) from plain GPIO output pins.
//
// Conn implements spi.Port and spi.Conn so that SPI device drivers can be
// used on boards without a free hardware SPI controller. Data is set up
// while the clock is low and latched by the device on the rising edge
// (spi.Mode0). No delay is inserted between pin writes; the speed passed to
// Connect is ignored and the bus runs as fast as the pins can be toggled.
package bitbang

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// BitOrder is the order in which the bits of a byte are shifted out.
type BitOrder int

const (
	MSBFirst BitOrder = iota
	LSBFirst
)

func (o BitOrder) String() string {
	if o == LSBFirst {
		return "LSBFirst"
	}
	return "MSBFirst"
}

var (
	// ErrReadUnsupported is returned when a transaction asks for data to be
	// read back. The link has no input line.
	ErrReadUnsupported = errors.New("bitbang: reading is not supported")
)

// ShiftOut clocks v out on data, one clock pulse per bit. For each bit the
// data line is set, then the clock is driven high and low again.
func ShiftOut(data, clock gpio.PinOut, order BitOrder, v byte) error {
	for i := range 8 {
		var bit byte
		if order == LSBFirst {
			bit = (v >> i) & 1
		} else {
			bit = (v >> (7 - i)) & 1
		}
		if err := data.Out(gpio.Level(bit == 1)); err != nil {
			return err
		}
		if err := clock.Out(gpio.High); err != nil {
			return err
		}
		if err := clock.Out(gpio.Low); err != nil {
			return err
		}
	}
	return nil
}

// Conn is a bit-banged serial connection.
type Conn struct {
	mu    sync.Mutex
	data  gpio.PinOut
	clock gpio.PinOut
	cs    gpio.PinOut
	order BitOrder
}

// New returns a Conn on the given pins. Chip-select is driven high (idle)
// and the clock low before New returns.
func New(data, clock, cs gpio.PinOut) (*Conn, error) {
	if data == nil || clock == nil || cs == nil {
		return nil, errors.New("bitbang: data, clock and chip-select pins are required")
	}
	c := &Conn{data: data, clock: clock, cs: cs}
	if err := cs.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("bitbang: %w", err)
	}
	if err := clock.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("bitbang: %w", err)
	}
	return c, nil
}

func (c *Conn) String() string {
	return fmt.Sprintf("bitbang{data: %s, clock: %s, cs: %s}", c.data, c.clock, c.cs)
}

// Connect implements spi.Port. Only 8 bit words and spi.Mode0 clocking are
// supported. spi.LSBFirst may be or'd into mode to reverse the bit order.
func (c *Conn) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if bits != 8 {
		return nil, fmt.Errorf("bitbang: %d bits per word is not supported", bits)
	}
	if mode&spi.Mode3 != spi.Mode0 {
		return nil, fmt.Errorf("bitbang: only spi.Mode0 is supported, got mode %d", mode&spi.Mode3)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = MSBFirst
	if mode&spi.LSBFirst != 0 {
		c.order = LSBFirst
	}
	return c, nil
}

// Tx implements conn.Conn. Chip-select is held low while all of w is
// shifted out, then released. r must be empty.
func (c *Conn) Tx(w, r []byte) error {
	if len(r) != 0 {
		return ErrReadUnsupported
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame(w, false)
}

// TxPackets implements spi.Conn. A packet with KeepCS set leaves
// chip-select low so the next packet continues the same transaction.
// Chip-select is always released after the last packet.
func (c *Conn) TxPackets(p []spi.Packet) error {
	for _, pkt := range p {
		if len(pkt.R) != 0 {
			return ErrReadUnsupported
		}
		if pkt.BitsPerWord != 0 && pkt.BitsPerWord != 8 {
			return fmt.Errorf("bitbang: %d bits per word is not supported", pkt.BitsPerWord)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for ix, pkt := range p {
		keep := pkt.KeepCS && ix != len(p)-1
		if err := c.frame(pkt.W, keep); err != nil {
			return err
		}
	}
	return nil
}

// Duplex implements conn.Conn.
func (c *Conn) Duplex() conn.Duplex {
	return conn.Half
}

func (c *Conn) frame(w []byte, keepCS bool) error {
	if err := c.cs.Out(gpio.Low); err != nil {
		return fmt.Errorf("bitbang: %w", err)
	}
	for _, b := range w {
		if err := ShiftOut(c.data, c.clock, c.order, b); err != nil {
			// Leave the link idle.
			_ = c.cs.Out(gpio.High)
			return fmt.Errorf("bitbang: %w", err)
		}
	}
	if keepCS {
		return nil
	}
	if err := c.cs.Out(gpio.High); err != nil {
		return fmt.Errorf("bitbang: %w", err)
	}
	return nil
}

var _ spi.Port = &Conn{}
var _ spi.Conn = &Conn{}
