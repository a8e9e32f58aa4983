// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package config loads the TOML configuration file the CLI reads node
// addresses from, layered under whatever the caller's CLI flags
// override: file values are defaults, flags win.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dusk-network/dusk-deploy-cli/internal/walleterr"
)

// defaultRuskAddress and defaultProverAddress are used whenever the
// config file omits a field and no flag overrides it.
const (
	defaultRuskAddress   = "http://127.0.0.1:8080"
	defaultProverAddress = "http://127.0.0.1:8081"
)

// File is the on-disk TOML shape: `rusk_address`/`prover_address`.
type File struct {
	RuskAddress   string `toml:"rusk_address"`
	ProverAddress string `toml:"prover_address"`
}

// Config is the fully resolved configuration the engine is built from,
// after the file has been loaded and any flag overrides applied.
type Config struct {
	RuskAddress   string
	ProverAddress string
}

// Load reads and parses the TOML file at path. A missing file is not
// an error: Load returns the zero File, letting the caller fall back
// to defaults and flags alone.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return File{}, nil
	}
	if err != nil {
		return File{}, walleterr.Wrap(walleterr.ConfigIO, "reading config file", err)
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return File{}, walleterr.Wrap(walleterr.ConfigIO, "parsing config file", err)
	}
	return f, nil
}

// Resolve layers file values under defaults, then flag overrides (each
// non-empty override string wins over the file's corresponding
// field), producing the final Config.
func Resolve(f File, ruskAddrFlag, proverAddrFlag string) Config {
	cfg := Config{
		RuskAddress:   defaultRuskAddress,
		ProverAddress: defaultProverAddress,
	}
	if f.RuskAddress != "" {
		cfg.RuskAddress = f.RuskAddress
	}
	if f.ProverAddress != "" {
		cfg.ProverAddress = f.ProverAddress
	}
	if ruskAddrFlag != "" {
		cfg.RuskAddress = ruskAddrFlag
	}
	if proverAddrFlag != "" {
		cfg.ProverAddress = proverAddrFlag
	}
	return cfg
}
