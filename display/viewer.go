// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package display

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"github.com/disintegration/imaging"
	"github.com/mattn/go-isatty"
)

// ErrNoDisplay reports that a figure could not be shown.  It is never
// fatal.
var ErrNoDisplay = errors.New("display: no display surface")

// Default terminal area in character cells.
const (
	DefaultCols = 80
	DefaultRows = 40
)

// Result is the outcome of DisplayAndSave.
type Result struct {
	Path    string // file written, empty if not saved
	Display error  // why the figure was not shown, nil if it was
}

// A Viewer shows figures on a terminal using 24-bit colour and
// half-block glyphs, two image rows per line of text.
type Viewer struct {
	Out    io.Writer    // terminal; nil disables display
	Logger *slog.Logger // nil means slog.Default()
	Cols   int          // maximum width in cells, 0 means DefaultCols
	Rows   int          // maximum height in cells, 0 means DefaultRows
	Force  bool         // render even if Out is not a terminal
}

// Default returns a Viewer on standard output.
func Default() *Viewer {
	return &Viewer{Out: os.Stdout}
}

func (v *Viewer) logger() *slog.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return slog.Default()
}

// IsTerminal returns true if w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Show writes title and fig to the terminal.  It returns an error
// wrapping ErrNoDisplay if v.Out is not a terminal or writing fails.
func (v *Viewer) Show(fig image.Image, title string) error {
	if v.Out == nil || !v.Force && !IsTerminal(v.Out) {
		return ErrNoDisplay
	}
	cols, rows := v.Cols, v.Rows
	if cols <= 0 {
		cols = DefaultCols
	}
	if rows <= 0 {
		rows = DefaultRows
	}
	m := imaging.Fit(fig, cols, rows*2, imaging.Box)
	w := bufio.NewWriter(v.Out)
	if title != "" {
		fmt.Fprintln(w, title)
	}
	siz := m.Bounds().Size()
	for y := 0; y < siz.Y; y += 2 {
		for x := 0; x < siz.X; x++ {
			c := m.NRGBAAt(x, y)
			fmt.Fprintf(w, "\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
			if y+1 < siz.Y {
				c = m.NRGBAAt(x, y+1)
				fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm", c.R, c.G, c.B)
			} else {
				w.WriteString("\x1b[49m")
			}
			w.WriteString("▀")
		}
		w.WriteString("\x1b[0m\n")
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrNoDisplay, err)
	}
	return nil
}

// DisplayAndSave renders img as a figure titled title, saves it under
// dir unless dir is empty, and shows it.  Only a failure to save is
// returned as an error; a failure to show is logged and recorded in
// Result.Display.
func (v *Viewer) DisplayAndSave(img image.Image, title, dir string) (Result, error) {
	var res Result
	fig := Figure(img, title)
	if dir != "" {
		p, err := Save(fig, dir, title)
		if err != nil {
			return res, err
		}
		res.Path = p
		v.logger().Info("figure saved", "path", p)
	}
	if err := v.Show(fig, title); err != nil {
		res.Display = err
		v.logger().Warn("failed to display figure; save it to a file instead",
			"title", title, "error", err)
	}
	return res, nil
}
