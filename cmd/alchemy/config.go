// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// config holds defaults read from the environment.  Flags override.
type config struct {
	OutputDir string     `env:"ALCHEMY_OUTPUT_DIR"`
	LogLevel  slog.Level `env:"ALCHEMY_LOG_LEVEL" envDefault:"info"`

	QRVersion uint64 `env:"ALCHEMY_QR_VERSION" envDefault:"1"`
	QRLevel   string `env:"ALCHEMY_QR_LEVEL" envDefault:"l"`
	QRBoxSize uint64 `env:"ALCHEMY_QR_BOX_SIZE" envDefault:"10"`
	QRBorder  int    `env:"ALCHEMY_QR_BORDER" envDefault:"4"`
	QRFill    string `env:"ALCHEMY_QR_FILL" envDefault:"black"`
	QRBack    string `env:"ALCHEMY_QR_BACK" envDefault:"white"`
	QROutput  string `env:"ALCHEMY_QR_OUTPUT" envDefault:"qrcode.png"`
}

// loadConfig loads .env from the working directory, if present, and
// parses the environment.
func loadConfig() (config, error) {
	var c config
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c, err
	}
	err := env.Parse(&c)
	return c, err
}
