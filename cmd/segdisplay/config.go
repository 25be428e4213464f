// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/buger/jsonparser"

	"github.com/GermanBionicSystems/segdisplay/max7219"
)

// config is the merged result of the defaults, the JSON config file and the
// command line, in increasing order of precedence.
type config struct {
	path       string
	backend    string
	din        string
	clk        string
	cs         string
	mode       string
	logfile    string
	brightness int
	interval   time.Duration
	follow     bool
	snapshot   string
}

func defaultConfig() config {
	return config{
		backend:    "periph",
		din:        "GPIO10",
		clk:        "GPIO11",
		cs:         "GPIO8",
		mode:       "none",
		brightness: -1,
		interval:   250 * time.Millisecond,
	}
}

func (c *config) register(fs *flag.FlagSet) {
	fs.StringVar(&c.path, "config", c.path, "JSON config file path")
	fs.StringVar(&c.backend, "backend", c.backend, "pin backend: periph, rpio or emulate")
	fs.StringVar(&c.din, "din", c.din, "DIN pin; a periph name, or a BCM number with -backend rpio")
	fs.StringVar(&c.clk, "clk", c.clk, "CLK pin")
	fs.StringVar(&c.cs, "cs", c.cs, "LOAD/CS pin")
	fs.StringVar(&c.mode, "mode", c.mode, "decode mode: none or codeb")
	fs.StringVar(&c.logfile, "logfile", c.logfile, "log to this file, with rotation, instead of stderr")
	fs.IntVar(&c.brightness, "brightness", c.brightness, "intensity 0-15 applied after init; -1 keeps the maximum")
	fs.DurationVar(&c.interval, "interval", c.interval, "scroll step, and refresh period with -follow")
	fs.BoolVar(&c.follow, "follow", c.follow, "keep updating the time until interrupted")
	fs.StringVar(&c.snapshot, "snapshot", c.snapshot, "with -backend emulate, save a PNG of the display to this file")
}

// parseConfig parses args. Flags given explicitly on the command line win
// over the config file.
func parseConfig(fs *flag.FlagSet, args []string) (config, []string, error) {
	c := defaultConfig()
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return c, nil, err
	}
	if c.path == "" {
		return c, fs.Args(), c.validate()
	}
	explicit := map[string]string{}
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})
	data, err := os.ReadFile(c.path)
	if err != nil {
		return c, nil, fmt.Errorf("config: %w", err)
	}
	if err := c.overlayJSON(data); err != nil {
		return c, nil, err
	}
	for name, value := range explicit {
		if err := fs.Set(name, value); err != nil {
			return c, nil, err
		}
	}
	return c, fs.Args(), c.validate()
}

func (c *config) validate() error {
	if c.interval <= 0 {
		return fmt.Errorf("config: interval must be positive, got %s", c.interval)
	}
	return nil
}

// overlayJSON replaces the fields present in data. Missing keys are
// skipped.
func (c *config) overlayJSON(data []byte) error {
	strs := []struct {
		key string
		v   *string
	}{
		{"backend", &c.backend},
		{"din", &c.din},
		{"clk", &c.clk},
		{"cs", &c.cs},
		{"mode", &c.mode},
		{"logfile", &c.logfile},
	}
	for _, s := range strs {
		v, err := jsonparser.GetString(data, s.key)
		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			continue
		}
		if err != nil {
			return fmt.Errorf("config: %s: %w", s.key, err)
		}
		*s.v = v
	}

	b, err := jsonparser.GetInt(data, "brightness")
	switch {
	case err == nil:
		c.brightness = int(b)
	case !errors.Is(err, jsonparser.KeyPathNotFoundError):
		return fmt.Errorf("config: brightness: %w", err)
	}

	d, err := jsonparser.GetString(data, "interval")
	switch {
	case err == nil:
		if c.interval, err = time.ParseDuration(d); err != nil {
			return fmt.Errorf("config: interval: %w", err)
		}
	case !errors.Is(err, jsonparser.KeyPathNotFoundError):
		return fmt.Errorf("config: interval: %w", err)
	}
	return nil
}

func (c *config) decodeMode() (max7219.DecodeMode, error) {
	switch c.mode {
	case "none", "":
		return max7219.DecodeNone, nil
	case "codeb":
		return max7219.DecodeB, nil
	default:
		return 0, fmt.Errorf("config: unknown decode mode %q", c.mode)
	}
}
