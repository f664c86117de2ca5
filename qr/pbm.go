// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"io"
	"strconv"
)

// EncodePBM writes a Portable Bit Map image displaying the code to w,
// for use with netpbm.  EncodePBM disregards c.Palette, as other PNM
// formats are not supported.
func (c *Code) EncodePBM(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	b := bufio.NewWriter(w)
	length := c.Pixels()
	ls := strconv.Itoa(length)
	if _, err := b.WriteString("P4\n" + ls + " " + ls + "\n"); err != nil {
		return err
	}
	row := make([]byte, (length+7)/8)
	for y := 0; y < length; y++ {
		if y%c.Scale == 0 {
			pbmRow(row, c, y/c.Scale-c.Border)
		}
		if _, err := b.Write(row); err != nil {
			return err
		}
	}
	return b.Flush()
}

// pbmRow encodes module row my of c, border included, into row.
func pbmRow(row []byte, c *Code, my int) {
	for i := range row {
		row[i] = 0
	}
	for x := 0; x < len(row)*8 && x < c.Pixels(); x++ {
		if c.Black(x/c.Scale-c.Border, my) {
			row[x>>3] |= 0x80 >> (x & 7)
		}
	}
}
