/*
 * atomicdata_test.go, part of gostruct.
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

package chem

import (
	"errors"
	"testing"
)

func TestNormalizeSymbol(Te *testing.T) {
	for in, out := range map[string]string{
		"Fe1":           "Fe",
		"O2-":           "O",
		"fe":            "Fe",
		"CL":            "Cl",
		"8":             "O",
		"C(Fragment=1)": "C",
		"Fe_pv":         "Fe",
		"H":             "H",
		" Na ":          "Na",
	} {
		s, err := NormalizeSymbol(in)
		if err != nil {
			Te.Errorf("%q: %v", in, err)
			continue
		}
		if s != out {
			Te.Errorf("%q gave %q, expected %q", in, s, out)
		}
	}
	for _, in := range []string{"", "Xx", "200", "*"} {
		if _, err := NormalizeSymbol(in); !errors.Is(err, ErrUnknownElement) {
			Te.Errorf("%q should not be an element, got %v", in, err)
		}
	}
}

func TestElementTable(Te *testing.T) {
	if SymbolFromNumber(26) != "Fe" || AtomicNumber("Fe") != 26 {
		Te.Error("iron lookup failed")
	}
	if CovalentRadius("O") != 0.66 || CovalentRadius("Og") != DefaultCovalentRadius {
		Te.Errorf("unexpected radii O %f Og %f", CovalentRadius("O"), CovalentRadius("Og"))
	}
	if SymbolFromNumber(119) != "" || SymbolFromNumber(0) != "" {
		Te.Error("numbers out of the table should give an empty symbol")
	}
}
