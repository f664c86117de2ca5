// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package arith performs pixel-wise arithmetic and intensity transforms
on 8-bit images.

Package functions take their operands explicitly and never modify
them.  Operations holds a primary and a secondary image and exposes
the same operations reading from its slots.
*/
package arith // import "github.com/unixdj/imagealchemy/arith"

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrPrecondition reports a missing or mismatched operand.
var ErrPrecondition = errors.New("arith: precondition failed")

// A ChannelOrder is the sample order of a colour image.
type ChannelOrder int

const (
	RGB ChannelOrder = iota // red, green, blue
	BGR                     // blue, green, red, as used by OpenCV
)

func (o ChannelOrder) String() string {
	if o == BGR {
		return "BGR"
	}
	return "RGB"
}

// An Image is a grid of 8-bit samples, one or three per pixel,
// stored row by row with channels interleaved.
type Image struct {
	Pix      []uint8      // Width*Height*Channels samples
	Width    int          // pixels per row
	Height   int          // number of rows
	Channels int          // 1 for grayscale, 3 for colour
	Order    ChannelOrder // channel order, colour images only
}

// A Shape describes the dimensions of an Image.
type Shape struct {
	Width, Height, Channels int
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Width, s.Height, s.Channels)
}

// NewGray returns a black grayscale image.
func NewGray(w, h int) *Image {
	return &Image{Pix: make([]uint8, w*h), Width: w, Height: h, Channels: 1}
}

// NewColor returns a black colour image with the given channel order.
func NewColor(w, h int, order ChannelOrder) *Image {
	return &Image{Pix: make([]uint8, w*h*3), Width: w, Height: h,
		Channels: 3, Order: order}
}

// Shape returns the dimensions of m.
func (m *Image) Shape() Shape {
	return Shape{m.Width, m.Height, m.Channels}
}

// IsGray returns true if m has one channel.
func (m *Image) IsGray() bool { return m.Channels == 1 }

// At returns sample c of the pixel at (x, y).
func (m *Image) At(x, y, c int) uint8 {
	return m.Pix[(y*m.Width+x)*m.Channels+c]
}

// Set sets sample c of the pixel at (x, y).
func (m *Image) Set(x, y, c int, v uint8) {
	m.Pix[(y*m.Width+x)*m.Channels+c] = v
}

// Clone returns a deep copy of m.
func (m *Image) Clone() *Image {
	c := *m
	c.Pix = append([]uint8(nil), m.Pix...)
	return &c
}

// empty returns an image of the same shape and order as m.
func (m *Image) empty() *Image {
	c := *m
	c.Pix = make([]uint8, len(m.Pix))
	return &c
}

func (m *Image) valid() bool {
	return m != nil && (m.Channels == 1 || m.Channels == 3) &&
		m.Width >= 0 && m.Height >= 0 &&
		len(m.Pix) == m.Width*m.Height*m.Channels
}

// FromImage converts img into an Image.  Gray images keep one
// channel; all others become RGB with alpha discarded.
func FromImage(img image.Image) *Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	switch src := img.(type) {
	case *image.Gray:
		m := NewGray(w, h)
		for y := 0; y < h; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(m.Pix[y*w:(y+1)*w], src.Pix[i:i+w])
		}
		return m
	case *image.Gray16:
		m := NewGray(w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				m.Pix[y*w+x] = uint8(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y >> 8)
			}
		}
		return m
	}
	m := NewColor(w, h, RGB)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			m.Pix[i], m.Pix[i+1], m.Pix[i+2] = c.R, c.G, c.B
			i += 3
		}
	}
	return m
}

// Image returns m as a standard library image: *image.Gray for
// grayscale, *image.RGBA in RGB order for colour.
func (m *Image) Image() image.Image {
	r := image.Rect(0, 0, m.Width, m.Height)
	if m.IsGray() {
		g := image.NewGray(r)
		copy(g.Pix, m.Pix)
		return g
	}
	ri, bi := 0, 2
	if m.Order == BGR {
		ri, bi = 2, 0
	}
	rgba := image.NewRGBA(r)
	for i, j := 0, 0; i < len(m.Pix); i, j = i+3, j+4 {
		rgba.Pix[j] = m.Pix[i+ri]
		rgba.Pix[j+1] = m.Pix[i+1]
		rgba.Pix[j+2] = m.Pix[i+bi]
		rgba.Pix[j+3] = 0xff
	}
	return rgba
}

// Load reads an image file.  The format is detected from content.
// Errors are of type *fs.PathError.
func Load(path string) (*Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		var pe *fs.PathError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, &fs.PathError{Op: "decode", Path: path, Err: err}
	}
	return FromImage(img), nil
}
