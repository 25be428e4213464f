// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rpiogpio exposes Raspberry Pi GPIO lines driven through
// /dev/gpiomem by go-rpio as periph gpio.PinOut values, so a display can be
// driven without the periph host drivers.
//
// Open must be called once before any Pin is used.
package rpiogpio

import (
	"errors"
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// ErrNotImplemented is returned by PWM.
var ErrNotImplemented = errors.New("rpiogpio: not implemented")

// Open maps the GPIO registers.
func Open() error {
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("rpiogpio: %w", err)
	}
	return nil
}

// Close unmaps the GPIO registers.
func Close() error {
	return rpio.Close()
}

// line is the subset of rpio.Pin used by Pin.
type line interface {
	Output()
	High()
	Low()
}

// Pin is one BCM numbered GPIO line in output mode.
type Pin struct {
	line   line
	number int
}

// New returns the line with the BCM number bcm, switched to output.
func New(bcm int) *Pin {
	l := rpio.Pin(bcm)
	l.Output()
	return &Pin{line: l, number: bcm}
}

// Halt implements conn.Resource.
func (pin *Pin) Halt() error {
	return nil
}

// Name returns the name of the GPIO pin.
func (pin *Pin) Name() string {
	return fmt.Sprintf("GPIO%d", pin.number)
}

// Number returns the BCM number of the GPIO pin.
func (pin *Pin) Number() int {
	return pin.number
}

// Deprecated: returns "Out"
func (pin *Pin) Function() string {
	return "Out"
}

// Out sets the line to l.
func (pin *Pin) Out(l gpio.Level) error {
	if l {
		pin.line.High()
	} else {
		pin.line.Low()
	}
	return nil
}

// Not implemented.
func (pin *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return ErrNotImplemented
}

func (pin *Pin) String() string {
	return pin.Name()
}

var _ gpio.PinOut = &Pin{}
