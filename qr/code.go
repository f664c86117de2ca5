// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"errors"
	"image"
	"image/color"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// A Code is a square grid of QR modules.
type Code struct {
	Bitmap  []byte         // 1 is dark, 0 is light, rows of Stride bytes
	Size    int            // number of modules on a side
	Stride  int            // number of bytes per row
	Version int            // QR version
	Scale   int            // number of image pixels per module
	Border  int            // quiet zone width in modules
	Palette [2]color.Color // light and dark colours; nil means white, black
}

// Black returns true if the module at (x, y) is dark.  Modules
// outside the grid are light.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7-x&7)) != 0
}

// Pixels returns the image side in pixels, border included.
func (c *Code) Pixels() int {
	return (c.Size + 2*c.Border) * c.Scale
}

func (c *Code) isValid() bool {
	return c.Scale > 0 && c.Border >= 0 && c.Size >= 0 &&
		len(c.Bitmap) >= c.Size*c.Stride
}

// Image returns a paletted image displaying the code, light modules
// at index 0 and dark at index 1.
func (c *Code) Image() image.PalettedImage {
	pal := color.Palette{color.White, color.Black}
	for i, v := range c.Palette {
		if v != nil {
			pal[i] = v
		}
	}
	return &codeImage{c, pal}
}

// codeImage implements image.PalettedImage
type codeImage struct {
	*Code
	pal color.Palette
}

func (c *codeImage) Bounds() image.Rectangle {
	d := c.Pixels()
	return image.Rect(0, 0, d, d)
}

func (c *codeImage) ColorIndexAt(x, y int) uint8 {
	if x < 0 || y < 0 {
		return 0
	}
	if c.Black(x/c.Scale-c.Border, y/c.Scale-c.Border) {
		return 1
	}
	return 0
}

func (c *codeImage) At(x, y int) color.Color {
	return c.pal[c.ColorIndexAt(x, y)]
}

func (c *codeImage) ColorModel() color.Model {
	return c.pal
}

// WriteFile writes the code to filename: as PBM if the name ends in
// ".pbm", otherwise in the image format implied by the extension, or
// PNG if there is none.  Errors are of type *fs.PathError.
func (c *Code) WriteFile(filename string) error {
	if !c.isValid() {
		return ErrArgs
	}
	enc := c.EncodePBM
	if ext := filepath.Ext(filename); !strings.EqualFold(ext, ".pbm") {
		format := imaging.PNG
		if ext != "" {
			var err error
			if format, err = imaging.FormatFromExtension(ext); err != nil {
				return &fs.PathError{Op: "encode", Path: filename, Err: err}
			}
		}
		enc = func(w io.Writer) error {
			return imaging.Encode(w, c.Image(), format)
		}
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	err = enc(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		var pe *fs.PathError
		if !errors.As(err, &pe) {
			err = &fs.PathError{Op: "write", Path: filename, Err: err}
		}
	}
	return err
}

// Half-block glyphs indexed by light top << 1 | light bottom.
var blocks = [4]string{" ", "▄", "▀", "█"}

// String renders the code as text, light modules as blocks, two
// module rows per line, for display in a terminal with a dark
// background.  The border is included; the scale is ignored.
func (c *Code) String() string {
	var b strings.Builder
	end := c.Size + c.Border
	for y := -c.Border; y < end; y += 2 {
		for x := -c.Border; x < end; x++ {
			i := 0
			if !c.Black(x, y) {
				i |= 2
			}
			if y+1 < end && !c.Black(x, y+1) {
				i |= 1
			}
			b.WriteString(blocks[i])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
