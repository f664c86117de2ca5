// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor parses an SVG 1.1 colour name such as "darkblue", or
// 3, 4, 6 or 8 hex digits (RGB, RGBA, RRGGBB, RRGGBBAA), optionally
// preceded by '#'.
func ParseColor(s string) (color.RGBA, error) {
	name := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	h := strings.TrimPrefix(s, "#")
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q: bad colour", ErrArgs, s)
	}
	switch len(h) {
	case 3:
		n = n<<4 | 0xf
		fallthrough
	case 4:
		// Expand each digit to two.
		var nn uint64
		for i := 12; i >= 0; i -= 4 {
			nn = nn<<8 | (n>>uint(i)&0xf)*0x11
		}
		n = nn
	case 6:
		n = n<<8 | 0xff
	case 8:
	default:
		return color.RGBA{}, fmt.Errorf("%w: %q: bad colour", ErrArgs, s)
	}
	return color.RGBA{uint8(n >> 24), uint8(n >> 16), uint8(n >> 8), uint8(n)}, nil
}
