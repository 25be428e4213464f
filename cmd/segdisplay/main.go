// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// segdisplay drives an 8 digit MAX7219 7-segment module wired to three GPIO
// pins.
//
//	segdisplay [flags] <command> [args]
//
// The pins are driven through the periph host drivers, through go-rpio, or
// are emulated and the display is drawn on the terminal:
//
//	segdisplay -backend emulate text "HELLO"
//	segdisplay -backend rpio -din 10 -clk 11 -cs 8 -follow time
//	segdisplay -backend emulate -snapshot coord.png coord N 52.3731
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jonboulle/clockwork"
	"gopkg.in/natefinch/lumberjack.v2"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/segdisplay/max7219"
	"github.com/GermanBionicSystems/segdisplay/max7219/max7219test"
	"github.com/GermanBionicSystems/segdisplay/rpiogpio"
	"github.com/GermanBionicSystems/segdisplay/screen7seg"
)

// app is an opened display and what is needed to close it.
type app struct {
	dev    *max7219.Dev
	clock  clockwork.Clock
	chip   *max7219test.Chip
	screen *screen7seg.Dev
	close  func() error
}

// open connects to the display on the configured backend. out receives the
// emulated display.
func open(cfg config, clock clockwork.Clock, out io.Writer) (*app, error) {
	mode, err := cfg.decodeMode()
	if err != nil {
		return nil, err
	}
	a := &app{clock: clock, close: func() error { return nil }}
	var din, clk, cs gpio.PinOut
	switch cfg.backend {
	case "periph":
		if _, err := host.Init(); err != nil {
			return nil, err
		}
		if din, clk, cs = gpioreg.ByName(cfg.din), gpioreg.ByName(cfg.clk), gpioreg.ByName(cfg.cs); din == nil || clk == nil || cs == nil {
			return nil, fmt.Errorf("failed to find pins %s, %s and %s", cfg.din, cfg.clk, cfg.cs)
		}
	case "rpio":
		var n [3]int
		for ix, s := range []string{cfg.din, cfg.clk, cfg.cs} {
			if n[ix], err = strconv.Atoi(s); err != nil {
				return nil, fmt.Errorf("rpio pins are BCM numbers: %w", err)
			}
		}
		if err := rpiogpio.Open(); err != nil {
			return nil, err
		}
		a.close = rpiogpio.Close
		din, clk, cs = rpiogpio.New(n[0]), rpiogpio.New(n[1]), rpiogpio.New(n[2])
	case "emulate":
		a.chip = max7219test.New()
		a.screen = screen7seg.New(&screen7seg.Opts{W: out})
		a.chip.OnLatch = func(max7219test.Write) {
			a.screen.SetIntensity(a.chip.Intensity())
			if err := a.screen.Write(a.chip.Segments()); err != nil {
				log.Printf("screen: %v", err)
			}
		}
		a.close = a.screen.Halt
		din, clk, cs = a.chip.DIN(), a.chip.CLK(), a.chip.LOAD()
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.backend)
	}

	a.dev, err = max7219.NewGPIO(din, clk, cs, &max7219.Opts{Mode: mode, Clock: clock})
	if err != nil {
		_ = a.close()
		return nil, err
	}
	if cfg.brightness >= 0 {
		if err := a.dev.SetBrightness(cfg.brightness); err != nil {
			_ = a.close()
			return nil, err
		}
	}
	log.Printf("opened %s on %s", a.dev, cfg.backend)
	return a, nil
}

// snapshot saves the emulated display to path.
func (a *app) snapshot(path, caption string) error {
	if a.chip == nil {
		return errors.New("-snapshot requires -backend emulate")
	}
	return screen7seg.SavePNG(path, a.chip.Segments(), a.chip.Intensity(), caption)
}

func run(ctx context.Context, args []string, clock clockwork.Clock, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("segdisplay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: segdisplay [flags] <command> [args]\n\ncommands:\n")
		for _, name := range commandNames() {
			fmt.Fprintf(stderr, "  %-10s %s\n", name, commands[name].help)
		}
		fmt.Fprintf(stderr, "\nflags:\n")
		fs.PrintDefaults()
	}
	cfg, rest, err := parseConfig(fs, args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("missing command")
	}
	name, rest := rest[0], rest[1:]
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	if len(rest) != cmd.args {
		return fmt.Errorf("%s: expected %d arguments, got %d", name, cmd.args, len(rest))
	}

	if cfg.logfile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.logfile,
			MaxSize:    1,
			MaxBackups: 3,
			MaxAge:     28,
		})
	}

	a, err := open(cfg, clock, stdout)
	if err != nil {
		return err
	}
	err = cmd.fn(ctx, a, cfg, rest)
	if err == nil && cfg.snapshot != "" {
		err = a.snapshot(cfg.snapshot, name)
	}
	if err2 := a.close(); err == nil {
		err = err2
	}
	return err
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], clockwork.NewRealClock(), os.Stdout, os.Stderr)
	stop()
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintf(os.Stderr, "segdisplay: %s.\n", err)
		os.Exit(1)
	}
}
