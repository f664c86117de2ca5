// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr_test

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unixdj/imagealchemy/qr"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEncoder(t *testing.T, f func(*qr.Config)) *qr.Encoder {
	t.Helper()
	cfg := qr.DefaultConfig()
	cfg.Logger = quiet()
	if f != nil {
		f(&cfg)
	}
	enc, err := qr.NewEncoder(cfg)
	require.NoError(t, err)
	return enc
}

func decode(t *testing.T, img image.Image) string {
	t.Helper()
	bmp, err := gozxing.NewBinaryBitmap(
		gozxing.NewHybridBinarizer(gozxing.NewLuminanceSourceFromImage(img)))
	require.NoError(t, err)
	res, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	return res.GetText()
}

func TestGenerateRoundTrip(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	enc := newEncoder(t, func(c *qr.Config) {
		c.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	})
	fn := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, enc.Generate("https://example.com", fn))
	img, err := imaging.Open(fn)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", decode(t, img))
	assert.Contains(t, logs.String(), "QR code saved")
	assert.Contains(t, logs.String(), fn)

	// Version 2 is the smallest holding 19 bytes at level L.
	assert.Equal(t, (25+8)*10, img.Bounds().Dx())
}

func TestGenerateCustom(t *testing.T) {
	t.Parallel()
	blue, err := qr.ParseColor("darkblue")
	require.NoError(t, err)
	yellow, err := qr.ParseColor("lightyellow")
	require.NoError(t, err)
	enc := newEncoder(t, func(c *qr.Config) {
		c.Version = 5
		c.BoxSize = 12
		c.Fill = blue
		c.Background = yellow
	})
	fn := filepath.Join(t.TempDir(), "custom.png")
	require.NoError(t, enc.Generate("https://www.python.org/", fn))
	img, err := imaging.Open(fn)
	require.NoError(t, err)
	assert.Equal(t, (37+8)*12, img.Bounds().Dx())
	assert.Equal(t, "https://www.python.org/", decode(t, img))

	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xe0e0}, [3]uint32{r, g, b})
}

func TestGenerateReusesEncoder(t *testing.T) {
	t.Parallel()
	enc := newEncoder(t, nil)
	dir := t.TempDir()
	for _, s := range []string{"first", "HELLO WORLD", "0123456789"} {
		fn := filepath.Join(dir, s+".png")
		require.NoError(t, enc.Generate(s, fn))
		img, err := imaging.Open(fn)
		require.NoError(t, err)
		assert.Equal(t, s, decode(t, img))
	}
}

func TestTooLong(t *testing.T) {
	t.Parallel()
	enc := newEncoder(t, func(c *qr.Config) { c.Fit = false })
	fn := filepath.Join(t.TempDir(), "x.png")
	err := enc.Generate("https://example.com", fn)
	assert.ErrorIs(t, err, qr.ErrTooLong)
	assert.NoFileExists(t, fn)

	enc = newEncoder(t, func(c *qr.Config) { c.Level = qr.H })
	err = enc.Generate(strings.Repeat("x", 1300), fn)
	assert.ErrorIs(t, err, qr.ErrTooLong)

	enc = newEncoder(t, func(c *qr.Config) { c.Level = qr.L; c.BoxSize = 1 })
	require.NoError(t, enc.Generate(strings.Repeat("x", 2900), fn))
}

func TestMakeGrowsVersion(t *testing.T) {
	t.Parallel()
	enc := newEncoder(t, nil)
	enc.AddData("12345")
	c, err := enc.Make()
	require.NoError(t, err)
	assert.Equal(t, 1, c.Version)
	assert.Equal(t, 21, c.Size)

	enc.Clear()
	enc.AddData(strings.Repeat("a", 100))
	c, err = enc.Make()
	require.NoError(t, err)
	assert.Equal(t, 5, c.Version)

	enc = newEncoder(t, func(c *qr.Config) { c.Version = 3 })
	enc.AddData("1")
	c, err = enc.Make()
	require.NoError(t, err)
	assert.Equal(t, 3, c.Version)
	assert.Equal(t, 29, c.Size)
}

func TestMultipleSegments(t *testing.T) {
	t.Parallel()
	enc := newEncoder(t, nil)
	enc.AddData("ABC")
	enc.AddData("123")
	enc.AddData("xyz")
	c, err := enc.Make()
	require.NoError(t, err)
	assert.Equal(t, "ABC123xyz", decode(t, c.Image()))
}

func TestLatin1(t *testing.T) {
	t.Parallel()
	enc := newEncoder(t, func(c *qr.Config) { c.Latin1 = true })
	enc.AddData("café")
	c, err := enc.Make()
	require.NoError(t, err)
	assert.Equal(t, "café", decode(t, c.Image()))
}

func TestNewEncoderErrors(t *testing.T) {
	t.Parallel()
	for _, f := range []func(*qr.Config){
		func(c *qr.Config) { c.Version = 0 },
		func(c *qr.Config) { c.Version = 41 },
		func(c *qr.Config) { c.Level = 4 },
		func(c *qr.Config) { c.BoxSize = 0 },
		func(c *qr.Config) { c.Border = -1 },
		func(c *qr.Config) { c.Border = 1 << 20 },
		func(c *qr.Config) { c.BoxSize = 1 << 20 },
	} {
		cfg := qr.DefaultConfig()
		f(&cfg)
		_, err := qr.NewEncoder(cfg)
		assert.ErrorIs(t, err, qr.ErrArgs)
	}
	enc, err := qr.NewEncoder(qr.Config{Version: 1, BoxSize: 1})
	require.NoError(t, err)
	assert.Equal(t, color.Black, enc.Config().Fill)
	assert.Equal(t, color.White, enc.Config().Background)
}

func TestWriteErrors(t *testing.T) {
	t.Parallel()
	enc := newEncoder(t, nil)
	var pe *fs.PathError
	err := enc.Generate("x", filepath.Join(t.TempDir(), "missing", "x.png"))
	require.ErrorAs(t, err, &pe)
	err = enc.Generate("x", filepath.Join(t.TempDir(), "x.unknown"))
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "encode", pe.Op)
}

func TestWriteFileFormats(t *testing.T) {
	t.Parallel()
	enc := newEncoder(t, nil)
	dir := t.TempDir()
	noext := filepath.Join(dir, "qrcode")
	require.NoError(t, enc.Generate("HELLO", noext))
	img, err := imaging.Open(noext)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", decode(t, img))

	gif := filepath.Join(dir, "qrcode.gif")
	require.NoError(t, enc.Generate("HELLO", gif))
	img, err = imaging.Open(gif)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", decode(t, img))
}

func TestEncodePBM(t *testing.T) {
	t.Parallel()
	enc := newEncoder(t, func(c *qr.Config) { c.BoxSize = 3; c.Border = 2 })
	enc.AddData("1")
	c, err := enc.Make()
	require.NoError(t, err)
	var b bytes.Buffer
	require.NoError(t, c.EncodePBM(&b))
	r := bufio.NewReader(&b)
	var w, h int
	_, err = fmt.Fscanf(r, "P4\n%d %d\n", &w, &h)
	require.NoError(t, err)
	assert.Equal(t, (21+4)*3, w)
	assert.Equal(t, w, h)
	body, err := io.ReadAll(r)
	require.NoError(t, err)
	stride := (w + 7) / 8
	require.Len(t, body, stride*h)
	// Border rows are white, the finder pattern's corner is black.
	assert.Equal(t, make([]byte, stride), body[:stride])
	row := body[6*stride:]
	assert.Equal(t, byte(0x03), row[0], "six border pixels, two dark")

	fn := filepath.Join(t.TempDir(), "x.pbm")
	require.NoError(t, c.WriteFile(fn))
	data, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("P4\n75 75\n")))
}

func TestString(t *testing.T) {
	t.Parallel()
	enc := newEncoder(t, func(c *qr.Config) { c.Border = 1 })
	enc.AddData("1")
	c, err := enc.Make()
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	require.Len(t, lines, 12) // 23 module rows, two per line
	assert.Equal(t, 23, len([]rune(lines[0])))
	// Border row over the finder pattern's top edge.
	assert.Equal(t, "█▀▀▀▀▀▀▀█", string([]rune(lines[0])[:9]))
}

func TestParseColor(t *testing.T) {
	t.Parallel()
	for s, want := range map[string]color.RGBA{
		"black":      {0, 0, 0, 0xff},
		"DarkBlue":   {0, 0, 0x8b, 0xff},
		"light gray": {0xd3, 0xd3, 0xd3, 0xff},
		"f00":        {0xff, 0, 0, 0xff},
		"#f008":      {0xff, 0, 0, 0x88},
		"#123456":    {0x12, 0x34, 0x56, 0xff},
		"12345678":   {0x12, 0x34, 0x56, 0x78},
	} {
		c, err := qr.ParseColor(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, c, s)
	}
	for _, s := range []string{"", "nocolour", "#12", "12345", "#ggg"} {
		_, err := qr.ParseColor(s)
		assert.ErrorIs(t, err, qr.ErrArgs, s)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	for i, s := range []string{"l", "M", "q", "H"} {
		l, err := qr.ParseLevel(s)
		require.NoError(t, err)
		assert.Equal(t, qr.Level(i), l)
		assert.Equal(t, strings.ToUpper(s), l.String())
	}
	_, err := qr.ParseLevel("x")
	assert.ErrorIs(t, err, qr.ErrArgs)
}
