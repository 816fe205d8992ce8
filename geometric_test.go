/*
 * geometric_test.go, part of gostruct.
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
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestAngle(Te *testing.T) {
	for _, c := range []struct {
		a, b     r3.Vec
		expected float64
	}{
		{r3.Vec{X: 1}, r3.Vec{Y: 2}, math.Pi / 2},
		{r3.Vec{X: 1}, r3.Vec{X: 3}, 0},
		{r3.Vec{X: 1}, r3.Vec{X: -1}, math.Pi},
		{r3.Vec{X: 1, Y: 1}, r3.Vec{X: 1}, math.Pi / 4},
	} {
		if a := Angle(c.a, c.b); math.Abs(a-c.expected) > 1e-9 {
			Te.Errorf("Angle(%v, %v) = %f, expected %f", c.a, c.b, a, c.expected)
		}
	}
}

func TestDihedral(Te *testing.T) {
	a := r3.Vec{X: 1}
	b := r3.Vec{}
	c := r3.Vec{Z: 1}
	if d := Dihedral(a, b, c, r3.Vec{X: 1, Z: 1}); math.Abs(d) > 1e-9 {
		Te.Errorf("cis dihedral should be 0, got %f", d)
	}
	if d := Dihedral(a, b, c, r3.Vec{X: -1, Z: 1}); math.Abs(math.Abs(d)-math.Pi) > 1e-9 {
		Te.Errorf("trans dihedral should be 180, got %f", Rad2Deg(d))
	}
	if d := Dihedral(a, b, c, r3.Vec{Y: 1, Z: 1}); math.Abs(math.Abs(d)-math.Pi/2) > 1e-9 {
		Te.Errorf("expected a 90 degree dihedral, got %f", Rad2Deg(d))
	}
}

func TestCenterOfMass(Te *testing.T) {
	S := NewStructure("HF")
	S.AddAtom("H", r3.Vec{}, false)
	S.AddAtom("F", r3.Vec{X: 1}, false)
	com := CenterOfMass(S)
	expected := Mass("F") / (Mass("F") + Mass("H"))
	if math.Abs(com.X-expected) > 1e-9 || com.Y != 0 || com.Z != 0 {
		Te.Errorf("unexpected center of mass %v, expected x=%f", com, expected)
	}
	if CenterOfMass(NewStructure("")) != (r3.Vec{}) {
		Te.Error("the center of an empty structure should be the origin")
	}
}
