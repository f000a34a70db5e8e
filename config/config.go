// Copyright 2025 Martin Keller. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the assembler configuration from a TOML file.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultFile is the configuration file looked up in the working
// directory when no explicit path is given.
const DefaultFile = "gbasm.toml"

// Config holds the tool configuration.
type Config struct {
	Assembler struct {
		// StdlibRoot is the directory (include :std "...") paths
		// resolve against.
		StdlibRoot string `toml:"stdlib_root"`
		// Out is the default output path of the assemble command.
		Out string `toml:"out"`
		// Verbose enables assembly logging.
		Verbose bool `toml:"verbose"`
	} `toml:"assembler"`

	Monitor struct {
		// BytesPerLine controls the width of section hex dumps.
		BytesPerLine int `toml:"bytes_per_line"`
	} `toml:"monitor"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Assembler.StdlibRoot = "stdlib"
	cfg.Assembler.Out = "a.out"
	cfg.Assembler.Verbose = false
	cfg.Monitor.BytesPerLine = 16
	return cfg
}

// Load reads the configuration file at path, layered over the
// defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
