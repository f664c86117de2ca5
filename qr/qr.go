// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr generates QR code images from text.

An Encoder is configured once with a version, error correction level,
box size, border and colours.  Generate encodes a string and writes
the image to a file:

	enc, err := qr.NewEncoder(qr.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}
	if err := enc.Generate("https://example.com/", "example.png"); err != nil {
		log.Fatal(err)
	}
*/
package qr // import "github.com/unixdj/imagealchemy/qr"

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"rsc.io/qr/coding"
)

var (
	ErrArgs       = errors.New("qr: invalid arguments")
	ErrTooLong    = errors.New("qr: text too long to encode as QR")
	ErrLargeImage = errors.New("qr: image too large")
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 7% of codewords recoverable
	M              // 15%
	Q              // 25%
	H              // 30%
)

func (l Level) String() string {
	if L <= l && l <= H {
		return "LMQH"[l : l+1]
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel parses one of "l", "m", "q", "h", in either case.
func ParseLevel(s string) (Level, error) {
	if len(s) == 1 {
		if i := strings.IndexByte("lmqhLMQH", s[0]); i >= 0 {
			return Level(i & 3), nil
		}
	}
	return 0, fmt.Errorf("%w: %q: bad level", ErrArgs, s)
}

// Version limits.
const (
	MinVersion = int(coding.MinVersion)
	MaxVersion = int(coding.MaxVersion)
)

// maxPixels limits the side of the generated image.
const maxPixels = 1 << 16

// Config holds Encoder parameters.
type Config struct {
	Version    int          // QR version, 1 to 40; the minimum with Fit
	Level      Level        // error correction level
	BoxSize    int          // image pixels per module
	Border     int          // quiet zone width in modules
	Fill       color.Color  // dark modules; nil means black
	Background color.Color  // light modules and border; nil means white
	Fit        bool         // grow the version until the data fits
	Latin1     bool         // convert byte mode data to Latin-1 if possible
	Logger     *slog.Logger // nil means slog.Default()
}

// DefaultConfig returns version 1, level L, 10 pixels per module,
// 4 module border, black on white, growing the version as needed.
func DefaultConfig() Config {
	return Config{
		Version:    1,
		Level:      L,
		BoxSize:    10,
		Border:     4,
		Fill:       color.Black,
		Background: color.White,
		Fit:        true,
	}
}

func (c *Config) check() error {
	switch {
	case c.Version < MinVersion || c.Version > MaxVersion:
		return fmt.Errorf("%w: version %d", ErrArgs, c.Version)
	case c.Level < L || c.Level > H:
		return fmt.Errorf("%w: level %v", ErrArgs, c.Level)
	case c.BoxSize < 1 || c.BoxSize > maxPixels:
		return fmt.Errorf("%w: box size %d", ErrArgs, c.BoxSize)
	case c.Border < 0 || c.Border > maxPixels:
		return fmt.Errorf("%w: border %d", ErrArgs, c.Border)
	}
	return nil
}

// An Encoder encodes staged text into QR codes.  Its Config is fixed
// at creation.  An Encoder is not safe for concurrent use.
type Encoder struct {
	cfg  Config
	data []coding.Encoding
}

// NewEncoder returns an Encoder for cfg.
func NewEncoder(cfg Config) (*Encoder, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}
	if cfg.Fill == nil {
		cfg.Fill = color.Black
	}
	if cfg.Background == nil {
		cfg.Background = color.White
	}
	return &Encoder{cfg: cfg}, nil
}

// Config returns the configuration of e.
func (e *Encoder) Config() Config { return e.cfg }

func (e *Encoder) logger() *slog.Logger {
	if e.cfg.Logger != nil {
		return e.cfg.Logger
	}
	return slog.Default()
}

// Clear discards staged data.
func (e *Encoder) Clear() { e.data = e.data[:0] }

// AddData stages text to be encoded as the next segment, in numeric,
// alphanumeric or byte mode, whichever fits the text best.
func (e *Encoder) AddData(text string) {
	e.data = append(e.data, segment(text, e.cfg.Latin1))
}

func segment(text string, latin1 bool) coding.Encoding {
	switch {
	case coding.Num(text).Check() == nil:
		return coding.Num(text)
	case coding.Alpha(text).Check() == nil:
		return coding.Alpha(text)
	}
	if latin1 {
		if s, err := charmap.ISO8859_1.NewEncoder().String(text); err == nil {
			text = s
		}
	}
	return coding.String(text)
}

func (e *Encoder) bits(v coding.Version) int {
	n := 0
	for _, d := range e.data {
		n += d.Bits(v)
	}
	return n
}

// Make encodes staged data.  It uses the configured version, or with
// Fit, the smallest version from there up that holds the data.
func (e *Encoder) Make() (*Code, error) {
	l := coding.Level(e.cfg.Level)
	v := coding.Version(e.cfg.Version)
	for e.bits(v) > v.DataBytes(l)*8 {
		if !e.cfg.Fit || v == coding.MaxVersion {
			return nil, fmt.Errorf("%w: %d bits, version %v-%v holds %d",
				ErrTooLong, e.bits(v), v, l, v.DataBytes(l)*8)
		}
		v++
	}
	p, err := coding.NewPlan(v, l, 0)
	if err != nil {
		return nil, err
	}
	cc, err := p.Encode(e.data...)
	if err != nil {
		return nil, err
	}
	c := &Code{
		Bitmap:  cc.Bitmap,
		Size:    cc.Size,
		Stride:  cc.Stride,
		Version: int(v),
		Scale:   e.cfg.BoxSize,
		Border:  e.cfg.Border,
		Palette: [2]color.Color{e.cfg.Background, e.cfg.Fill},
	}
	if c.Pixels() > maxPixels {
		return nil, ErrLargeImage
	}
	return c, nil
}

// Generate encodes text and writes the image to filename, as PBM if
// the name ends in ".pbm", otherwise in the format implied by the
// extension, PNG if there is none.  Previously staged data is
// discarded.
func (e *Encoder) Generate(text, filename string) error {
	e.Clear()
	e.AddData(text)
	c, err := e.Make()
	if err != nil {
		return err
	}
	if err := c.WriteFile(filename); err != nil {
		return err
	}
	e.logger().Info("QR code saved", "file", filename,
		"version", c.Version, "level", e.cfg.Level)
	return nil
}
