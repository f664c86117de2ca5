// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Alchemy applies pixel-wise arithmetic and intensity transforms to
// images, and generates QR codes.
//
//	alchemy [-h] [-o dir] [-1 image] [-2 image] [op ...]
//	alchemy qr [-hLx] [-v ver] [-l l|m|q|h] [-s box] [-m border]
//		[-F colour] [-B colour] [-o file] [string ...]
//
// Operations are add, sub, mul, div, log, exp, sqrt, invert, or all
// (the default).  Each result is shown on the terminal and, with -o,
// saved to dir/<title>.png.
//
// Defaults are read from the environment and a .env file; see
// ALCHEMY_* in config.go.
package main

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/pborman/getopt/v2"

	"github.com/unixdj/imagealchemy/arith"
	"github.com/unixdj/imagealchemy/display"
	"github.com/unixdj/imagealchemy/qr"
)

// errUsage reports a command line error after usage has been printed.
var errUsage = errors.New("usage error")

// An op is an arithmetic operation with the title of its figure.
type op struct {
	name  string
	title string
	run   func(*arith.Operations) (*arith.Image, error)
}

var ops = []op{
	{"add", "Addition", (*arith.Operations).Add},
	{"sub", "Subtraction", (*arith.Operations).Subtract},
	{"mul", "Multiplication", (*arith.Operations).Multiply},
	{"div", "Division", (*arith.Operations).Divide},
	{"log", "Logarithmic", (*arith.Operations).LogTransform},
	{"exp", "Exponential", (*arith.Operations).ExpTransform},
	{"sqrt", "Square Root", (*arith.Operations).SqrtTransform},
	{"invert", "Invert", (*arith.Operations).Invert},
}

func findOp(name string) (op, bool) {
	for _, o := range ops {
		if o.name == name {
			return o, true
		}
	}
	return op{}, false
}

// parse parses args with s.  On error or -h it prints usage to w
// and returns errUsage, or io.EOF for -h.
func parse(s *getopt.Set, help *bool, args []string, w io.Writer) error {
	if err := s.Getopt(args, nil); err != nil {
		fmt.Fprintln(w, err)
		s.PrintUsage(w)
		return errUsage
	}
	if *help {
		s.PrintUsage(w)
		return io.EOF
	}
	return nil
}

// runArith runs the arithmetic command.
func runArith(cfg config, args []string, stdout, stderr io.Writer) error {
	var (
		help       bool
		dir        = cfg.OutputDir
		img1, img2 string
	)
	s := getopt.New()
	s.SetProgram("alchemy")
	s.SetParameters("[op ...]")
	s.Flag(&help, 'h', "show this help")
	s.Flag(&dir, 'o', "save figures to this directory", "dir")
	s.Flag(&img1, '1', "primary image", "image")
	s.Flag(&img2, '2', "secondary image, for add, sub, mul and div", "image")
	if err := parse(s, &help, args, stderr); err != nil {
		return err
	}

	names := s.Args()
	if len(names) == 0 || len(names) == 1 && names[0] == "all" {
		names = nil
		for _, o := range ops {
			names = append(names, o.name)
		}
	}
	run := make([]op, 0, len(names))
	for _, n := range names {
		o, ok := findOp(n)
		if !ok {
			fmt.Fprintf(stderr, "%s: unknown operation\n", n)
			s.PrintUsage(stderr)
			return errUsage
		}
		run = append(run, o)
	}

	o := arith.Operations{Viewer: &display.Viewer{Out: stdout}}
	// Secondary first, as the demonstration always did.
	if img2 != "" {
		if err := o.SetSecondary(arith.Path(img2)); err != nil {
			return err
		}
	}
	if img1 != "" {
		if err := o.SetPrimary(arith.Path(img1)); err != nil {
			return err
		}
	}
	for _, r := range run {
		m, err := r.run(&o)
		if err != nil {
			return err
		}
		if _, err := o.DisplayAndSave(m, r.title, dir); err != nil {
			return err
		}
	}
	return nil
}

// colour is a getopt.Value holding a colour.
type colour struct {
	c color.Color
	s string
}

func (c *colour) String() string { return c.s }

func (c *colour) Set(s string, _ getopt.Option) error {
	v, err := qr.ParseColor(s)
	if err != nil {
		return err
	}
	c.c, c.s = v, s
	return nil
}

// runQR runs the qr command.  Data is read from stdin if there are no
// arguments.
func runQR(cfg config, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var (
		help   bool
		latin1 bool
		exact  bool
		border = cfg.QRBorder
		file   string
		fg, bg colour
	)
	if err := fg.Set(cfg.QRFill, nil); err != nil {
		return err
	}
	if err := bg.Set(cfg.QRBack, nil); err != nil {
		return err
	}
	lev, err := qr.ParseLevel(cfg.QRLevel)
	if err != nil {
		return err
	}
	s := getopt.New()
	s.SetProgram("alchemy qr")
	s.SetParameters("[string ...]")
	s.Flag(&help, 'h', "show this help")
	s.Flag(&latin1, 'L', "convert byte mode data to Latin-1")
	s.Flag(&exact, 'x', "fail rather than grow past the version given by -v")
	ver := s.Unsigned('v', cfg.QRVersion,
		&getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 1, Max: 40},
		"QR code version, minimum unless -x", "ver")
	levs := s.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, lev.String(),
		"error correction level, lowest to highest", "l|m|q|h")
	box := s.Unsigned('s', cfg.QRBoxSize,
		&getopt.UnsignedLimit{Base: 0, Bits: 16, Min: 1, Max: 1 << 12},
		"image pixels per QR module", "box")
	s.Flag(&border, 'm', "quiet zone modules", "border")
	s.FlagLong(&fg, "foreground", 'F',
		"module colour as 3, 4, 6 or 8 hex digits or SVG colour name",
		"colour")
	s.FlagLong(&bg, "background", 'B', "background colour; see -F",
		"colour")
	fo := s.Flag(&file, 'o', `output file, default `+cfg.QROutput+
		`; if not given and standard output is a terminal, `+
		`the code is printed as text`, "file")
	if err := parse(s, &help, args, stderr); err != nil {
		return err
	}

	var text string
	if a := s.Args(); len(a) != 0 {
		text = strings.Join(a, " ")
	} else {
		var b strings.Builder
		if _, err := io.Copy(&b, stdin); err != nil {
			return err
		}
		text, _ = strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	}

	q := qr.DefaultConfig()
	q.Version = int(*ver)
	q.Level, _ = qr.ParseLevel(*levs)
	q.BoxSize = int(*box)
	q.Border = border
	q.Fill, q.Background = fg.c, bg.c
	q.Fit = !exact
	q.Latin1 = latin1
	enc, err := qr.NewEncoder(q)
	if err != nil {
		return err
	}
	if !fo.Seen() && display.IsTerminal(stdout) {
		enc.AddData(text)
		c, err := enc.Make()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(stdout, c)
		return err
	}
	if file == "" {
		file = cfg.QROutput
	}
	return enc.Generate(text, file)
}

func main() {
	log.SetFlags(0)
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalln(err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: cfg.LogLevel})))

	if len(os.Args) > 1 && os.Args[1] == "qr" {
		err = runQR(cfg, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	} else {
		err = runArith(cfg, os.Args, os.Stdout, os.Stderr)
	}
	switch err {
	case nil, io.EOF:
	case errUsage:
		os.Exit(2)
	default:
		log.Fatalln(err)
	}
}
