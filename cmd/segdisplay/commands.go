// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/GermanBionicSystems/segdisplay/max7219"
)

type command struct {
	args int
	help string
	fn   func(ctx context.Context, a *app, cfg config, args []string) error
}

var commands = map[string]command{
	"init": {0, "write the configuration registers", func(ctx context.Context, a *app, cfg config, args []string) error {
		return a.dev.Init()
	}},
	"clear": {0, "blank all digits", func(ctx context.Context, a *app, cfg config, args []string) error {
		return a.dev.Clear()
	}},
	"halt": {0, "put the controller in shutdown mode", func(ctx context.Context, a *app, cfg config, args []string) error {
		return a.dev.Halt()
	}},
	"test": {0, "show the HELP8765 wiring check pattern", func(ctx context.Context, a *app, cfg config, args []string) error {
		return a.dev.Test()
	}},
	"text": {1, "TEXT: show TEXT left aligned", func(ctx context.Context, a *app, cfg config, args []string) error {
		return a.dev.DisplayText(args[0])
	}},
	"scroll": {1, "TEXT: scroll TEXT once, or until interrupted with -follow", runScroll},
	"int": {1, "N: show the integer N right aligned", func(ctx context.Context, a *app, cfg config, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		return a.dev.WriteInt(n)
	}},
	"brightness": {1, "N: set the intensity, 0-15; other values are ignored", func(ctx context.Context, a *app, cfg config, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		if n < 0 || n > max7219.MaxIntensity {
			log.Printf("brightness %d is out of range 0-%d, ignored", n, max7219.MaxIntensity)
		}
		return a.dev.SetBrightness(n)
	}},
	"time": {0, "show the time as hh.mm.ss.cc; -follow keeps it running", runTime},
	"date": {0, "show today as dd.mm.yyyy", func(ctx context.Context, a *app, cfg config, args []string) error {
		t := a.clock.Now()
		return a.dev.DisplayDate(t.Day(), int(t.Month()), t.Year())
	}},
	"coord": {2, "LABEL VALUE: show a coordinate, e.g. coord N 52.3731", func(ctx context.Context, a *app, cfg config, args []string) error {
		if len(args[0]) != 1 {
			return fmt.Errorf("label %q must be a single character", args[0])
		}
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return err
		}
		return a.dev.DisplayCoordinate(args[0][0], v)
	}},
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func showTime(a *app) error {
	t := a.clock.Now()
	return a.dev.DisplayTime(t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/int(10*time.Millisecond))
}

func runTime(ctx context.Context, a *app, cfg config, args []string) error {
	if err := showTime(a); err != nil || !cfg.follow {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.clock.After(cfg.interval):
			if err := showTime(a); err != nil {
				return err
			}
		}
	}
}

func runScroll(ctx context.Context, a *app, cfg config, args []string) error {
	for {
		err := a.dev.ScrollTextContext(ctx, args[0], 1, cfg.interval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil || !cfg.follow {
			return err
		}
	}
}
