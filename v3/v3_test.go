/*
 * v3_test.go, part of gostruct.
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

package v3

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewMatrix(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 2 {
		Te.Errorf("expected 2 vectors, got %d", A.NVecs())
	}
	if _, err := NewMatrix([]float64{1, 2}); err == nil {
		Te.Error("a slice not divisible by 3 should fail")
	}
	View := A.VecView(1)
	View.Set(0, 0, 100)
	if A.At(1, 0) != 100 {
		Te.Error("changes in a VecView should be seen in the original matrix")
	}
}

func TestDet(Te *testing.T) {
	A := FromVecs([]r3.Vec{{X: 2}, {Y: 3}, {X: 1, Z: 4}})
	if d := A.Det(); math.Abs(d-24) > 1e-12 {
		Te.Errorf("expected determinant 24, got %f", d)
	}
}

func TestMulAndAdd(Te *testing.T) {
	frac := FromVecs([]r3.Vec{{X: 0.5, Y: 0.5, Z: 0.5}, {X: 1}})
	lat := FromVecs([]r3.Vec{{X: 2}, {Y: 4}, {Z: 6}})
	cart := Zeros(2)
	cart.Mul(frac, lat)
	if v := cart.Vec(0); v != (r3.Vec{X: 1, Y: 2, Z: 3}) {
		Te.Errorf("unexpected product %v", v)
	}
	cart.AddVec(cart, r3.Vec{X: 1})
	if v := cart.Vec(1); v != (r3.Vec{X: 3}) {
		Te.Errorf("unexpected sum %v", v)
	}
	var _ mat.Matrix = cart
}
