// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arith

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// flat is the sample value of a transform of a constant image.
const flat = 0x80

// binary applies f to each pair of corresponding samples of a and b.
func binary(name string, a, b *Image, f func(x, y int) int) (*Image, error) {
	if !a.valid() || !b.valid() {
		return nil, fmt.Errorf("%w: %s: invalid image", ErrPrecondition, name)
	}
	if a.Shape() != b.Shape() {
		return nil, fmt.Errorf("%w: %s: shape %v differs from %v",
			ErrPrecondition, name, b.Shape(), a.Shape())
	}
	if !a.IsGray() && a.Order != b.Order {
		return nil, fmt.Errorf("%w: %s: channel order %v differs from %v",
			ErrPrecondition, name, b.Order, a.Order)
	}
	dst := a.empty()
	for i, x := range a.Pix {
		dst.Pix[i] = uint8(min(max(f(int(x), int(b.Pix[i])), 0), 0xff))
	}
	return dst, nil
}

// Add returns the saturated sum a+b.
func Add(a, b *Image) (*Image, error) {
	return binary("add", a, b, func(x, y int) int { return x + y })
}

// Subtract returns the saturated difference a-b.
func Subtract(a, b *Image) (*Image, error) {
	return binary("subtract", a, b, func(x, y int) int { return x - y })
}

// Multiply returns the saturated product a*b.
func Multiply(a, b *Image) (*Image, error) {
	return binary("multiply", a, b, func(x, y int) int { return x * y })
}

// Divide returns a/(b+1), rounded half to even.  The divisor is never
// zero, so a 255 sample in b divides by 256.
func Divide(a, b *Image) (*Image, error) {
	return binary("divide", a, b, func(x, y int) int {
		return int(math.RoundToEven(float64(x) / float64(y+1)))
	})
}

// unary applies f to each sample of src.
func unary(name string, src *Image, f func(x uint8) uint8) (*Image, error) {
	if !src.valid() {
		return nil, fmt.Errorf("%w: %s: invalid image", ErrPrecondition, name)
	}
	dst := src.empty()
	for i, x := range src.Pix {
		dst.Pix[i] = f(x)
	}
	return dst, nil
}

// Invert returns the complement 255-x of each sample of src.
func Invert(src *Image) (*Image, error) {
	return unary("invert", src, func(x uint8) uint8 { return ^x })
}

// transform applies f to the samples of src in floating point and
// stretches the result linearly so that its minimum maps to 0 and
// maximum to 255.  A constant result maps to flat.
func transform(name string, src *Image, f func(float64) float64) (*Image, error) {
	if !src.valid() {
		return nil, fmt.Errorf("%w: %s: invalid image", ErrPrecondition, name)
	}
	dst := src.empty()
	if len(src.Pix) == 0 {
		return dst, nil
	}
	v := make([]float64, len(src.Pix))
	for i, x := range src.Pix {
		v[i] = f(float64(x))
	}
	lo, hi := floats.Min(v), floats.Max(v)
	if !(hi > lo) {
		for i := range dst.Pix {
			dst.Pix[i] = flat
		}
		return dst, nil
	}
	floats.AddConst(-lo, v)
	span := hi - lo
	for i, x := range v {
		dst.Pix[i] = uint8(x / span * 0xff)
	}
	return dst, nil
}

// LogTransform returns log(x+1) of src stretched to [0,255].
func LogTransform(src *Image) (*Image, error) {
	return transform("log", src, func(x float64) float64 { return math.Log(x + 1) })
}

// ExpTransform returns exp(x/255) of src stretched to [0,255].
func ExpTransform(src *Image) (*Image, error) {
	return transform("exp", src, func(x float64) float64 { return math.Exp(x / 0xff) })
}

// SqrtTransform returns sqrt(x) of src stretched to [0,255].
func SqrtTransform(src *Image) (*Image, error) {
	return transform("sqrt", src, math.Sqrt)
}
