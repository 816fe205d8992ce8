/*
 * geometric.go, part of gostruct.
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

	"gonum.org/v1/gonum/spatial/r3"
)

// used to correct floating point errors. Everything equal or less than this is considered zero.
const appzero float64 = 1e-7

// Angle takes 2 vectors and calculates the angle in radians between them.
// It does not check for correctness or return errors!
func Angle(v1, v2 r3.Vec) float64 {
	argument := r3.Dot(v1, v2) / (r3.Norm(v1) * r3.Norm(v2))
	//Take care of floating point math errors
	if math.Abs(argument-1) <= appzero {
		argument = 1
	} else if math.Abs(argument+1) <= appzero {
		argument = -1
	}
	angle := math.Acos(argument)
	if math.Abs(angle) <= appzero {
		return 0.00
	}
	return angle
}

// Dihedral calculates the dihedral, in radians, between the points a, b, c, d,
// where the first plane is defined by abc and the second by bcd.
func Dihedral(a, b, c, d r3.Vec) float64 {
	//bma=b minus a
	bma := r3.Sub(b, a)
	cmb := r3.Sub(c, b)
	dmc := r3.Sub(d, c)
	first := r3.Dot(r3.Scale(r3.Norm(cmb), bma), r3.Cross(cmb, dmc))
	second := r3.Dot(r3.Cross(bma, cmb), r3.Cross(cmb, dmc))
	return math.Atan2(first, second)
}

// CenterOfMass returns the center of mass of the atoms in A. Elements without
// a tabulated mass weigh 1. It returns the zero vector for an empty set.
func CenterOfMass(A Atomer) r3.Vec {
	var ret r3.Vec
	total := 0.0
	for i := 0; i < A.Len(); i++ {
		at := A.Atom(i)
		m := Mass(at.Symbol)
		if m <= 0 {
			m = 1
		}
		ret = r3.Add(ret, r3.Scale(m, at.Position))
		total += m
	}
	if total == 0 {
		return ret
	}
	return r3.Scale(1/total, ret)
}
