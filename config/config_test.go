/*
 * config_test.go, part of gostruct.
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

package config

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	chem "github.com/rmera/gostruct"
)

func TestDecode(Te *testing.T) {
	in := `
[bonds]
tolerance = 1.2

[files]
quiet = true

[convert]
format = "cif"
jobs = 3
`
	C, err := Decode(strings.NewReader(in))
	if err != nil {
		Te.Fatal(err)
	}
	if C.Bonds.Tolerance != 1.2 || C.Bonds.DefaultRadius != chem.DefaultCovalentRadius {
		Te.Errorf("unexpected bond settings %+v", C.Bonds)
	}
	if C.Convert.Format != "cif" || C.Convert.Jobs != 3 || C.Convert.Bins != 20 {
		Te.Errorf("unexpected convert settings %+v", C.Convert)
	}
	if O := C.BondOptions(); O.Tolerance != 1.2 {
		Te.Errorf("bond options not taken from the file: %+v", O)
	}
	if O := C.FileOptions(nil); O.Logger == nil {
		Te.Error("quiet file options should discard the log")
	}
}

func TestDecodeInvalid(Te *testing.T) {
	for _, in := range []string{
		"[bonds]\ntolerance = -1\n",
		"[convert]\njobs = 0\n",
		"[convert]\nformat = \"outcar\"\n",
		"[convert]\nformat = \"nope\"\n",
		"[files\n",
	} {
		if _, err := Decode(strings.NewReader(in)); err == nil {
			Te.Errorf("expected an error for %q", in)
		}
	}
}

func TestEncode(Te *testing.T) {
	C := Default()
	C.Convert.Format = "poscar"
	var b bytes.Buffer
	if err := C.Encode(&b); err != nil {
		Te.Fatal(err)
	}
	D, err := Decode(&b)
	if err != nil {
		Te.Fatal(err)
	}
	if D != C {
		Te.Errorf("configuration changed after encoding: %+v vs %+v", D, C)
	}
}

func TestLoadMissing(Te *testing.T) {
	_, err := Load("does/not/exist.toml")
	if err == nil || errors.Is(err, chem.ErrStructuralParse) {
		Te.Errorf("expected a file error, got %v", err)
	}
}
