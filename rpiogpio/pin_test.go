// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rpiogpio

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"
)

type fakeLine struct {
	output bool
	levels []gpio.Level
}

func (f *fakeLine) Output() { f.output = true }
func (f *fakeLine) High()   { f.levels = append(f.levels, gpio.High) }
func (f *fakeLine) Low()    { f.levels = append(f.levels, gpio.Low) }

func TestPin(t *testing.T) {
	f := &fakeLine{}
	p := &Pin{line: f, number: 10}
	if p.Name() != "GPIO10" || p.String() != "GPIO10" {
		t.Errorf("unexpected name %q", p.Name())
	}
	if p.Number() != 10 {
		t.Errorf("expected number 10, got %d", p.Number())
	}
	if p.Function() != "Out" {
		t.Errorf("unexpected function %q", p.Function())
	}
	for _, l := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		if err := p.Out(l); err != nil {
			t.Fatal(err)
		}
	}
	if len(f.levels) != 3 || !f.levels[0] || f.levels[1] || !f.levels[2] {
		t.Errorf("unexpected levels %v", f.levels)
	}
	if err := p.PWM(gpio.DutyHalf, 0); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("expected ErrNotImplemented, got %v", err)
	}
	if err := p.Halt(); err != nil {
		t.Error(err)
	}
}
