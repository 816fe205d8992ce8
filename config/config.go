/*
 * config.go, part of gostruct.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package config reads the TOML settings used by the chemconv program.
package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/pelletier/go-toml"
	chem "github.com/rmera/gostruct"
	"github.com/rmera/gostruct/chemfile"
)

// Bonds are the bond detection settings.
type Bonds struct {
	Tolerance     float64 `toml:"tolerance"`
	DefaultRadius float64 `toml:"default_radius"`
}

// Files are the settings passed to the codecs.
type Files struct {
	SymmetryTolerance float64 `toml:"symmetry_tolerance"`
	Quiet             bool    `toml:"quiet"` //do not log skipped lines
}

// Convert are the defaults of the converter.
type Convert struct {
	Format string `toml:"format"` //output format, if none is given
	Jobs   int    `toml:"jobs"`   //files converted in parallel
	Bins   int    `toml:"bins"`   //bins of the bond length plots
}

// Config is the whole configuration file.
type Config struct {
	Bonds   Bonds   `toml:"bonds"`
	Files   Files   `toml:"files"`
	Convert Convert `toml:"convert"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Bonds:   Bonds{Tolerance: chem.DefaultBondTolerance, DefaultRadius: chem.DefaultCovalentRadius},
		Files:   Files{SymmetryTolerance: chemfile.DefaultSymmetryTolerance},
		Convert: Convert{Format: "extxyz", Jobs: runtime.NumCPU(), Bins: 20},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	C, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return C, nil
}

// Decode reads a TOML configuration from r on top of the defaults, and validates it.
func Decode(r io.Reader) (Config, error) {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return Config{}, err
	}
	var F Config
	if err := tree.Unmarshal(&F); err != nil {
		return Config{}, err
	}
	C := Default()
	//only the keys present in the file replace the defaults.
	for key, set := range map[string]func(){
		"bonds.tolerance":          func() { C.Bonds.Tolerance = F.Bonds.Tolerance },
		"bonds.default_radius":     func() { C.Bonds.DefaultRadius = F.Bonds.DefaultRadius },
		"files.symmetry_tolerance": func() { C.Files.SymmetryTolerance = F.Files.SymmetryTolerance },
		"files.quiet":              func() { C.Files.Quiet = F.Files.Quiet },
		"convert.format":           func() { C.Convert.Format = F.Convert.Format },
		"convert.jobs":             func() { C.Convert.Jobs = F.Convert.Jobs },
		"convert.bins":             func() { C.Convert.Bins = F.Convert.Bins },
	} {
		if tree.Has(key) {
			set()
		}
	}
	if err := C.Validate(); err != nil {
		return Config{}, err
	}
	return C, nil
}

// Encode writes C to w in TOML.
func (C Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(C)
}

// Validate returns an error if any setting is out of range.
func (C Config) Validate() error {
	if C.Bonds.Tolerance <= 0 {
		return fmt.Errorf("bonds.tolerance must be positive, got %g", C.Bonds.Tolerance)
	}
	if C.Bonds.DefaultRadius <= 0 {
		return fmt.Errorf("bonds.default_radius must be positive, got %g", C.Bonds.DefaultRadius)
	}
	if C.Files.SymmetryTolerance < 0 {
		return fmt.Errorf("files.symmetry_tolerance can't be negative, got %g", C.Files.SymmetryTolerance)
	}
	if C.Convert.Jobs < 1 {
		return fmt.Errorf("convert.jobs must be at least 1, got %d", C.Convert.Jobs)
	}
	if C.Convert.Bins < 1 {
		return fmt.Errorf("convert.bins must be at least 1, got %d", C.Convert.Bins)
	}
	f, err := chemfile.ParseFormat(C.Convert.Format)
	if err != nil {
		return fmt.Errorf("convert.format: %w", err)
	}
	if !f.CanWrite() {
		return fmt.Errorf("convert.format %q can't be written", C.Convert.Format)
	}
	return nil
}

// BondOptions returns the bond detection options.
func (C Config) BondOptions() chem.BondOptions {
	return chem.BondOptions{Tolerance: C.Bonds.Tolerance, DefaultRadius: C.Bonds.DefaultRadius}
}

// FileOptions returns the codec options. Skipped lines go to logger unless Files.Quiet is set.
func (C Config) FileOptions(logger *log.Logger) chemfile.Options {
	O := chemfile.DefaultOptions()
	if C.Files.Quiet {
		O = chemfile.Quiet()
	} else {
		O.Logger = logger
	}
	O.SymmetryTolerance = C.Files.SymmetryTolerance
	return O
}
