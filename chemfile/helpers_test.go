/*
 * helpers_test.go, part of gostruct.
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

package chemfile

import (
	"math"
	"testing"

	chem "github.com/rmera/gostruct"
	"gonum.org/v1/gonum/spatial/r3"
)

// collecting returns options that store every warning in the returned slice.
func collecting() (Options, *[]*chem.LineWarning) {
	w := new([]*chem.LineWarning)
	O := DefaultOptions()
	O.Warn = func(l *chem.LineWarning) { *w = append(*w, l) }
	return O, w
}

func codec(Te *testing.T, f Format, O Options) Codec {
	c, err := NewCodec(f, O)
	if err != nil {
		Te.Fatal(err)
	}
	return c
}

// triclinic returns a 3-atom crystal in a cell with no right angles.
func triclinic(Te *testing.T) *chem.Structure {
	cell, err := chem.NewUnitCell(4.1, 5.2, 6.3, 80, 95, 100)
	if err != nil {
		Te.Fatal(err)
	}
	S := chem.NewStructure("test crystal")
	S.SetCell(cell)
	for i, f := range []r3.Vec{{X: 0.1, Y: 0.2, Z: 0.3}, {X: 0.5, Y: 0.5, Z: 0.5}, {X: 0.9, Y: 0.05, Z: 0.7}} {
		sym := []string{"Na", "Cl", "O"}[i]
		if _, err := S.AddAtom(sym, cell.FractionalToCartesian(f), i == 2); err != nil {
			Te.Fatal(err)
		}
	}
	return S
}

func water(Te *testing.T) *chem.Structure {
	S := chem.NewStructure("water")
	for i, p := range []r3.Vec{{}, {X: 0.96}, {X: -0.24, Y: 0.93}} {
		sym := []string{"O", "H", "H"}[i]
		if _, err := S.AddAtom(sym, p, false); err != nil {
			Te.Fatal(err)
		}
	}
	return S
}

// sameAtoms checks that B has the elements of A, in the same order, within tol A.
func sameAtoms(Te *testing.T, A, B *chem.Structure, tol float64) {
	Te.Helper()
	if A.Len() != B.Len() {
		Te.Fatalf("expected %d atoms, got %d", A.Len(), B.Len())
	}
	for i := 0; i < A.Len(); i++ {
		a, b := A.Atom(i), B.Atom(i)
		if a.Symbol != b.Symbol {
			Te.Errorf("atom %d: expected %s, got %s", i, a.Symbol, b.Symbol)
		}
		if d := chem.Distance(a.Position, b.Position); d > tol {
			Te.Errorf("atom %d moved %g A: %v vs %v", i, d, a.Position, b.Position)
		}
	}
}

func sameCell(Te *testing.T, A, B *chem.Structure, tol float64) {
	Te.Helper()
	ca, oka := A.Cell()
	cb, okb := B.Cell()
	if oka != okb {
		Te.Fatalf("cell presence differs: %t vs %t", oka, okb)
	}
	if !oka {
		return
	}
	va, vb := ca.LatticeVectors(), cb.LatticeVectors()
	for k := range va {
		if chem.Distance(va[k], vb[k]) > tol {
			Te.Errorf("lattice vector %d: %v vs %v", k, va[k], vb[k])
		}
	}
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
