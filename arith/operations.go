// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arith

import (
	"fmt"

	"github.com/unixdj/imagealchemy/display"
)

// A Source supplies an image to Operations: either a Path to load or
// an already decoded *Image.
type Source interface {
	resolve() (*Image, error)
}

// A Path is a Source naming an image file.
type Path string

func (p Path) resolve() (*Image, error) { return Load(string(p)) }

func (m *Image) resolve() (*Image, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: invalid image", ErrPrecondition)
	}
	return m, nil
}

// Operations holds two image slots and applies operations to them.
// Operations is not safe for concurrent use.
type Operations struct {
	primary   *Image
	secondary *Image

	// Viewer renders, saves and displays results.
	// If nil, a Viewer on standard output is used.
	Viewer *display.Viewer
}

// SetPrimary stores src in the primary slot.  On error the slot is
// left unchanged.
func (o *Operations) SetPrimary(src Source) error {
	m, err := src.resolve()
	if err == nil {
		o.primary = m
	}
	return err
}

// SetSecondary stores src in the secondary slot.  On error the slot
// is left unchanged.
func (o *Operations) SetSecondary(src Source) error {
	m, err := src.resolve()
	if err == nil {
		o.secondary = m
	}
	return err
}

// Primary returns the primary image, or nil.
func (o *Operations) Primary() *Image { return o.primary }

// Secondary returns the secondary image, or nil.
func (o *Operations) Secondary() *Image { return o.secondary }

func (o *Operations) pair(name string) (*Image, *Image, error) {
	if o.primary == nil || o.secondary == nil {
		return nil, nil, fmt.Errorf("%w: %s: both images must be set",
			ErrPrecondition, name)
	}
	return o.primary, o.secondary, nil
}

func (o *Operations) image(name string) (*Image, error) {
	if o.primary == nil {
		return nil, fmt.Errorf("%w: %s: primary image must be set",
			ErrPrecondition, name)
	}
	return o.primary, nil
}

// Add returns primary+secondary, saturated.
func (o *Operations) Add() (*Image, error) {
	a, b, err := o.pair("add")
	if err != nil {
		return nil, err
	}
	return Add(a, b)
}

// Subtract returns primary-secondary, saturated.
func (o *Operations) Subtract() (*Image, error) {
	a, b, err := o.pair("subtract")
	if err != nil {
		return nil, err
	}
	return Subtract(a, b)
}

// Multiply returns primary*secondary, saturated.
func (o *Operations) Multiply() (*Image, error) {
	a, b, err := o.pair("multiply")
	if err != nil {
		return nil, err
	}
	return Multiply(a, b)
}

// Divide returns primary/(secondary+1).
func (o *Operations) Divide() (*Image, error) {
	a, b, err := o.pair("divide")
	if err != nil {
		return nil, err
	}
	return Divide(a, b)
}

// unary applies f to the primary image.
func (o *Operations) unary(name string, f func(*Image) (*Image, error)) (*Image, error) {
	m, err := o.image(name)
	if err != nil {
		return nil, err
	}
	return f(m)
}

// LogTransform applies LogTransform to the primary image.
func (o *Operations) LogTransform() (*Image, error) {
	return o.unary("log", LogTransform)
}

// ExpTransform applies ExpTransform to the primary image.
func (o *Operations) ExpTransform() (*Image, error) {
	return o.unary("exp", ExpTransform)
}

// SqrtTransform applies SqrtTransform to the primary image.
func (o *Operations) SqrtTransform() (*Image, error) {
	return o.unary("sqrt", SqrtTransform)
}

// Invert applies Invert to the primary image.
func (o *Operations) Invert() (*Image, error) {
	return o.unary("invert", Invert)
}

// DisplayAndSave renders m with the given title.  If outputDir is not
// empty, the figure is written to outputDir/<title>.png, creating the
// directory if needed.  The figure is then shown on the terminal if
// there is one.  The returned error reports save failures only;
// display failures are logged and reported in the Result.
func (o *Operations) DisplayAndSave(m *Image, title, outputDir string) (display.Result, error) {
	if !m.valid() {
		return display.Result{}, fmt.Errorf("%w: display: invalid image",
			ErrPrecondition)
	}
	v := o.Viewer
	if v == nil {
		v = display.Default()
	}
	return v.DisplayAndSave(m.Image(), title, outputDir)
}
