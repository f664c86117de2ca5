// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package display renders images as titled figures, saves them as PNG
files and shows them on a terminal.

A figure is a 600x600 white canvas with the title centred at the top
and the image scaled to fit below it.  Grayscale images are drawn
through a gray colormap normalised to their own range.
*/
package display // import "github.com/unixdj/imagealchemy/display"

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Figure geometry in pixels.
const (
	FigureSize  = 600 // width and height
	titleHeight = 36  // band above the image
	margin      = 6   // left, right and bottom padding
)

// DefaultName is the file name stem of a figure with an empty title.
const DefaultName = "figure"

// Figure renders img below title on a white canvas.
func Figure(img image.Image, title string) *image.NRGBA {
	fig := imaging.New(FigureSize, FigureSize, color.White)
	if g, ok := img.(*image.Gray); ok {
		img = grayColormap(g)
	}
	aw, ah := FigureSize-2*margin, FigureSize-titleHeight-margin
	if b := img.Bounds(); !b.Empty() {
		w, h := fit(b.Dx(), b.Dy(), aw, ah)
		filter := imaging.Lanczos
		if w >= b.Dx() {
			filter = imaging.NearestNeighbor // keep pixels sharp
		}
		m := imaging.Resize(img, w, h, filter)
		fig = imaging.Paste(fig, m,
			image.Pt(margin+(aw-w)/2, titleHeight+(ah-h)/2))
	}
	drawTitle(fig, title)
	return fig
}

// fit returns the largest size with the aspect ratio of w x h that
// fits in maxw x maxh.
func fit(w, h, maxw, maxh int) (int, int) {
	if w*maxh > h*maxw {
		return maxw, max(h*maxw/w, 1)
	}
	return max(w*maxh/h, 1), maxh
}

func drawTitle(dst *image.NRGBA, title string) {
	face := basicfont.Face7x13
	d := font.Drawer{Dst: dst, Src: image.Black, Face: face}
	x := (fixed.I(FigureSize) - d.MeasureString(title)) / 2
	d.Dot = fixed.Point26_6{
		X: max(x, 0),
		Y: fixed.I((titleHeight + face.Ascent - face.Descent) / 2),
	}
	d.DrawString(title)
}

// grayColormap stretches g to the full gray range.  A constant image
// maps to black.
func grayColormap(g *image.Gray) *image.Gray {
	b := g.Bounds()
	lo, hi := uint8(0xff), uint8(0)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for _, v := range g.Pix[g.PixOffset(b.Min.X, y):g.PixOffset(b.Max.X, y)] {
			lo, hi = min(lo, v), max(hi, v)
		}
	}
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if hi <= lo {
		return dst
	}
	span := int(hi - lo)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for _, v := range g.Pix[g.PixOffset(b.Min.X, y):g.PixOffset(b.Max.X, y)] {
			dst.Pix[i] = uint8(int(v-lo) * 0xff / span)
			i++
		}
	}
	return dst
}

// FileName returns the name of the file a figure titled title is
// saved to.  Path separators in title are replaced with '_'.  An
// empty title gives DefaultName.
func FileName(title string) string {
	if title == "" {
		title = DefaultName
	}
	return strings.Map(func(r rune) rune {
		if r == '/' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, title) + ".png"
}

// Save writes fig to dir/FileName(title) as PNG, creating dir and its
// parents if needed.  It returns the path written.
func Save(fig image.Image, dir, title string) (string, error) {
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return "", err
	}
	p := filepath.Join(dir, FileName(title))
	if err := imaging.Save(fig, p); err != nil {
		return "", err
	}
	return p, nil
}
