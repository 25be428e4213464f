// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.
//
// The max7219 package drives an 8 digit, 7-segment LED module built on a
// Maxim MAX7219. The module can be on a hardware SPI port, or on any three
// GPIO output pins (DIN, CLK and LOAD/CS) in which case the serial link is
// bit-banged.
//
// Text, times, dates and coordinates are rendered by the driver using the
// fonts in package sevenseg. This requires the controller to run with
// DecodeNone, which is the default. DecodeB can be selected at construction
// time instead, in which case the controller's built-in Code B font is used
// and only digits, space, '-', 'E', 'H', 'L' and 'P' can be shown.
//
// # Datasheet
//
// https://www.analog.com/media/en/technical-documentation/data-sheets/MAX7219-MAX7221.pdf
package max7219

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/GermanBionicSystems/segdisplay/bitbang"
	"github.com/GermanBionicSystems/segdisplay/sevenseg"
)

// DecodeMode is the mode for handling data. Refer to the datasheet for
// more information.
type DecodeMode byte

const (
	_REGISTER_NOOP         byte = 0x0
	_REGISTER_DIGIT0       byte = 0x1
	_REGISTER_DIGIT7       byte = 0x8
	_REGISTER_DECODE_MODE  byte = 0x9
	_REGISTER_INTENSITY    byte = 0xa
	_REGISTER_SCAN_LIMIT   byte = 0xb
	_REGISTER_SHUTDOWN     byte = 0xc
	_REGISTER_DISPLAY_TEST byte = 0xf

	// NumDigits is the number of digit positions on the module.
	NumDigits = 8
	// MaxIntensity is the brightest intensity setting.
	MaxIntensity = 0x0f

	// Value to write to a Code B Font decoded register to blank out the
	// digit.
	ClearDigit byte = 0x0f
	// Value to write for a minus sign symbol
	MinusSign byte = 0x0a
	// To turn the decimal point on for a digit, OR the value of the
	// digit with DecimalPoint. This holds for both decode modes.
	DecimalPoint byte = 0x80

	// DecodeB is used for numeric segment displays. E.G. given a binary 0,
	// it would turn on the appropriate segments to display the character 0.
	DecodeB DecodeMode = 0xff
	// DecodeNone is RAW mode, or not decoded. Each bit of a digit register
	// drives one segment directly.
	DecodeNone DecodeMode = 0
)

// coordinatePoint is the text position that carries the decimal point of a
// coordinate, leaving three decimals after it.
const coordinatePoint = 4

// testPattern reads "HELP8765". It is written as-is, bypassing the encoder.
var testPattern = map[DecodeMode][NumDigits]byte{
	DecodeB:    {0x0c, 0x0b, 0x0d, 0x0e, 0x08, 0x07, 0x06, 0x05},
	DecodeNone: {0x37, 0x4f, 0x0e, 0x67, 0x7f, 0x70, 0x5f, 0x5b},
}

var (
	// ErrInvalidOpts is returned by the constructors for unusable options.
	ErrInvalidOpts = errors.New("max7219: invalid options")
)

func (m DecodeMode) String() string {
	switch m {
	case DecodeB:
		return "DecodeB"
	case DecodeNone:
		return "DecodeNone"
	default:
		return fmt.Sprintf("DecodeMode(0x%02x)", byte(m))
	}
}

// Opts holds the configuration of a Dev.
type Opts struct {
	// Mode is the decode mode, fixed for the life of the Dev.
	Mode DecodeMode
	// Font renders characters in DecodeNone. Nil selects sevenseg.Standard().
	Font *sevenseg.Font
	// Clock paces ScrollText. Nil selects the wall clock.
	Clock clockwork.Clock
}

// DefaultOpts drives the display in DecodeNone with the standard font.
var DefaultOpts = Opts{Mode: DecodeNone}

// Dev is a handle to an 8 digit MAX7219 7-segment module.
type Dev struct {
	mu   sync.Mutex
	conn spi.Conn
	// decode mode for all data registers
	decode DecodeMode
	font   *sevenseg.Font
	clock  clockwork.Clock
}

// NewSPI creates a new Dev using the specified spi.Port and initializes
// the controller. opts may be nil for DefaultOpts.
func NewSPI(p spi.Port, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Mode != DecodeB && opts.Mode != DecodeNone {
		return nil, fmt.Errorf("%w: unsupported decode mode %s", ErrInvalidOpts, opts.Mode)
	}
	// It works in Mode0, Mode2 and Mode3.
	c, err := p.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("max7219: %w", err)
	}
	d := &Dev{conn: c, decode: opts.Mode, font: opts.Font, clock: opts.Clock}
	if d.font == nil {
		d.font = sevenseg.Standard()
	}
	if d.clock == nil {
		d.clock = clockwork.NewRealClock()
	}
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewGPIO creates a new Dev on three GPIO output pins, bit-banging the
// serial link, and initializes the controller. opts may be nil for
// DefaultOpts.
func NewGPIO(din, clk, cs gpio.PinOut, opts *Opts) (*Dev, error) {
	c, err := bitbang.New(din, clk, cs)
	if err != nil {
		return nil, fmt.Errorf("max7219: %w", err)
	}
	return NewSPI(c, opts)
}

// Init writes the fixed configuration sequence: display test off, normal
// operation, all 8 digits scanned, maximum intensity and the decode mode.
// Digit registers are not touched. Calling Init again always produces the
// same writes and leaves the controller in the same state.
func (d *Dev) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.configure()
}

func (d *Dev) configure() error {
	var initCommands = [][]byte{
		{_REGISTER_DISPLAY_TEST, 0x0},
		{_REGISTER_SHUTDOWN, 0x01},
		{_REGISTER_SCAN_LIMIT, NumDigits - 1},
		{_REGISTER_INTENSITY, MaxIntensity},
		{_REGISTER_DECODE_MODE, byte(d.decode)}}

	for _, cmd := range initCommands {
		if err := d.sendCommand(cmd[0], cmd[1]); err != nil {
			return err
		}
	}
	return nil
}

// sendCommand writes to a data register or command register as one 16 bit
// transaction. Data registers are 1-8, and command registers are > 8.
func (d *Dev) sendCommand(register, data byte) error {
	if err := d.conn.Tx([]byte{register, data}, nil); err != nil {
		return fmt.Errorf("max7219: %w", err)
	}
	return nil
}

// writeDigits writes segs[0] to the leftmost digit through segs[7] to the
// rightmost.
func (d *Dev) writeDigits(segs [NumDigits]byte) error {
	for ix, val := range segs {
		if err := d.sendCommand(_REGISTER_DIGIT7-byte(ix), val); err != nil {
			return err
		}
	}
	return nil
}

// encode returns the register value for c in the current decode mode.
func (d *Dev) encode(c sevenseg.Char) byte {
	if d.decode == DecodeB {
		return codeB(c)
	}
	return d.font.Char(c)
}

// digit returns the register value for the digit v, blank when v is not
// 0-9.
func (d *Dev) digit(v int, dp bool) byte {
	var b byte
	if d.decode == DecodeB {
		b = ClearDigit
		if v >= 0 && v <= 9 {
			b = byte(v)
		}
	} else {
		b = d.font.Digit(v)
	}
	if dp {
		b |= DecimalPoint
	}
	return b
}

func (d *Dev) chars(chars []sevenseg.Char) [NumDigits]byte {
	var segs [NumDigits]byte
	for ix := range segs {
		c := sevenseg.Blank
		if ix < len(chars) {
			c = chars[ix]
		}
		segs[ix] = d.encode(c)
	}
	return segs
}

// Display writes eight register values as-is, segs[0] to the leftmost
// digit (register 0x08) through segs[7] to the rightmost (register 0x01).
func (d *Dev) Display(segs [NumDigits]byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeDigits(segs)
}

// DisplayChars writes up to eight characters, left aligned. Positions past
// the end of chars are blank, and characters past the eighth are ignored.
func (d *Dev) DisplayChars(chars []sevenseg.Char) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeDigits(d.chars(chars))
}

// DisplayText shows text left aligned in the 8 digit window. Position i
// takes byte i of text, or a space past its end; bytes past the eighth are
// never read. Bit 7 of a byte lights the decimal point of its position, so
// add DecimalPoint to a character code: "\xb314" reads "3.14".
//
// In DecodeB a '.' lights the decimal point of the preceding digit instead,
// the way the Code B conversion has always worked. To get that folding in
// DecodeNone, use DisplayChars(sevenseg.Parse(text)).
func (d *Dev) DisplayText(text string) error {
	if d.decode == DecodeB {
		return d.DisplayChars(sevenseg.Parse(text))
	}
	var segs [NumDigits]byte
	for ix := range segs {
		c := byte(' ')
		if ix < len(text) {
			c = text[ix]
		}
		segs[ix] = d.font.Byte(c)
	}
	return d.Display(segs)
}

// DisplayTime shows hh.mm.ss.cc, with the decimal point lit after the
// hours, minutes and seconds. Values are not range checked; each field is
// split into tens and units independently, and a tens value above 9 is
// shown blank.
func (d *Dev) DisplayTime(hours, minutes, seconds, hundredths int) error {
	segs := [NumDigits]byte{
		d.digit(hours/10, false), d.digit(hours%10, true),
		d.digit(minutes/10, false), d.digit(minutes%10, true),
		d.digit(seconds/10, false), d.digit(seconds%10, true),
		d.digit(hundredths/10, false), d.digit(hundredths%10, false),
	}
	return d.Display(segs)
}

// DisplayDate shows dd.mm.yyyy, with the decimal point lit after the day
// and the month. Values are not range checked.
func (d *Dev) DisplayDate(day, month, year int) error {
	segs := [NumDigits]byte{
		d.digit(day/10, false), d.digit(day%10, true),
		d.digit(month/10, false), d.digit(month%10, true),
		d.digit(year/1000, false), d.digit(year/100%10, false),
		d.digit(year/10%10, false), d.digit(year%10, false),
	}
	return d.Display(segs)
}

// DisplayCoordinate shows one label character followed by value with three
// decimals, right aligned, e.g. 'N' and 52.3731 read "N  52.373".
//
// value*1000 is rounded to an integer and must fit with the label into 8
// positions, which holds for -999.9995 < value < 9999.9995. Larger values
// are not rejected; they overflow the window and are cut off on the right.
func (d *Dev) DisplayCoordinate(label byte, value float64) error {
	digits := strconv.Itoa(int(math.Round(value * 1000)))
	padding := NumDigits - 1 - len(digits)
	if padding < 0 {
		padding = 0
	}
	chars := make([]sevenseg.Char, 0, 1+padding+len(digits))
	chars = append(chars, sevenseg.Char{C: label})
	for range padding {
		chars = append(chars, sevenseg.Blank)
	}
	for ix := range len(digits) {
		chars = append(chars, sevenseg.Char{C: digits[ix]})
	}
	if len(chars) > coordinatePoint {
		chars[coordinatePoint].DP = true
	}
	return d.DisplayChars(chars)
}

// SetBrightness sets the intensity of the display. The allowed range is
// 0-15. Any other value is ignored and nothing is written. Keep in mind that
// the brighter the display, the more current drawn.
func (d *Dev) SetBrightness(level int) error {
	if level < 0 || level > MaxIntensity {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sendCommand(_REGISTER_INTENSITY, byte(level))
}

// Test re-applies the configuration at maximum intensity and shows the
// fixed pattern "HELP8765", to check the wiring.
func (d *Dev) Test() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.configure(); err != nil {
		return err
	}
	return d.writeDigits(testPattern[d.decode])
}

// TestDisplay turns the 7219 display-test mode, which lights all segments at
// maximum intensity, on or off.
func (d *Dev) TestDisplay(on bool) error {
	var v byte
	if on {
		v = 1
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sendCommand(_REGISTER_DISPLAY_TEST, v)
}

// Clear blanks all digits.
func (d *Dev) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeDigits(d.chars(nil))
}

// Halt implements conn.Resource. It puts the controller in shutdown mode;
// register contents are kept and Init brings the display back.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sendCommand(_REGISTER_SHUTDOWN, 0x00)
}

// Mode returns the decode mode the Dev was created with.
func (d *Dev) Mode() DecodeMode {
	return d.decode
}

// Write implements io.Writer. p is displayed as with DisplayText.
func (d *Dev) Write(p []byte) (int, error) {
	if err := d.DisplayText(string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteInt displays value right aligned.
func (d *Dev) WriteInt(value int) error {
	return d.DisplayText(fmt.Sprintf("%*d", NumDigits, value))
}

// ScrollText scrolls text from right-to-left, one digit at a time, looping
// scrollCount times with a blank between repetitions. A '.' lights the
// decimal point of the preceding character, as with sevenseg.Parse. If the
// text fits on the display, it is written directly without scrolling and
// held for as long as the scroll would have taken.
func (d *Dev) ScrollText(text string, scrollCount int, updateInterval time.Duration) error {
	return d.ScrollTextContext(context.Background(), text, scrollCount, updateInterval)
}

// ScrollTextContext is ScrollText that stops early, returning ctx.Err(),
// when ctx is done.
func (d *Dev) ScrollTextContext(ctx context.Context, text string, scrollCount int, updateInterval time.Duration) error {
	data := sevenseg.Parse(text)
	if len(data) <= NumDigits {
		if err := d.DisplayChars(data); err != nil {
			return err
		}
		return d.sleep(ctx, time.Duration(scrollCount*len(data))*updateInterval)
	}

	displayData := make([]sevenseg.Char, 0, 2*len(data)+1)
	displayData = append(displayData, data...)
	displayData = append(displayData, sevenseg.Blank)
	displayData = append(displayData, data...)

	var pos int
	for shifts := scrollCount * len(data); shifts > 0; shifts-- {
		if err := d.DisplayChars(displayData[pos : pos+NumDigits]); err != nil {
			return err
		}
		pos = pos + 1
		if pos >= (len(data) + 1) {
			pos = 0
		}
		if err := d.sleep(ctx, updateInterval); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dev) sleep(ctx context.Context, t time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-d.clock.After(t):
		return nil
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("max7219{%s, %s}", d.conn, d.decode)
}
