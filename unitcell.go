/*
 * unitcell.go, part of gostruct.
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
	"fmt"
	"math"

	v3 "github.com/rmera/gostruct/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Below this absolute determinant a cell is considered degenerate.
const degenerateDet = 1e-12

// UnitCell is the geometry of a periodic cell, stored as its six parameters.
// Lengths are in A, angles in degrees. A UnitCell is a value: to change a cell,
// build a new one.
type UnitCell struct {
	a, b, c            float64
	alpha, beta, gamma float64
}

// NewUnitCell returns the cell with the given parameters, or a DegenerateGeometry
// error if they don't describe a cell with positive volume.
func NewUnitCell(a, b, c, alpha, beta, gamma float64) (UnitCell, error) {
	U := UnitCell{a: a, b: b, c: c, alpha: alpha, beta: beta, gamma: gamma}
	if a <= 0 || b <= 0 || c <= 0 || math.IsNaN(a+b+c) {
		return UnitCell{}, NewError(KindDegenerateGeometry, "non-positive cell length(s) %g %g %g", a, b, c)
	}
	for _, v := range []float64{alpha, beta, gamma} {
		if v <= 0 || v >= 180 || math.IsNaN(v) {
			return UnitCell{}, NewError(KindDegenerateGeometry, "cell angle %g out of (0,180)", v)
		}
	}
	if _, err := U.vectors(); err != nil {
		return UnitCell{}, errDecorate(err, "NewUnitCell")
	}
	return U, nil
}

// CellFromVectors obtains the cell parameters from three lattice vectors in
// any orientation. The returned cell uses the canonical orientation, so its
// LatticeVectors are in general a rotation of va, vb, vc.
func CellFromVectors(va, vb, vc r3.Vec) (UnitCell, error) {
	a := r3.Norm(va)
	b := r3.Norm(vb)
	c := r3.Norm(vc)
	if a == 0 || b == 0 || c == 0 {
		return UnitCell{}, NewError(KindDegenerateGeometry, "zero-length lattice vector")
	}
	cell, err := NewUnitCell(a, b, c, Rad2Deg(Angle(vb, vc)), Rad2Deg(Angle(va, vc)), Rad2Deg(Angle(va, vb)))
	return cell, errDecorate(err, "CellFromVectors")
}

// Lengths returns a, b and c.
func (U UnitCell) Lengths() (float64, float64, float64) { return U.a, U.b, U.c }

// Angles returns alpha, beta and gamma, in degrees.
func (U UnitCell) Angles() (float64, float64, float64) { return U.alpha, U.beta, U.gamma }

// IsZero is true for the zero value, which is not a valid cell.
func (U UnitCell) IsZero() bool { return U.a == 0 && U.b == 0 && U.c == 0 }

func (U UnitCell) String() string {
	return fmt.Sprintf("a=%.6f b=%.6f c=%.6f alpha=%.4f beta=%.4f gamma=%.4f", U.a, U.b, U.c, U.alpha, U.beta, U.gamma)
}

//vectors builds the lattice vectors: a along +x, b in the xy plane,
//c completing the basis with positive z.
func (U UnitCell) vectors() ([3]r3.Vec, error) {
	var ret [3]r3.Vec
	al := Deg2Rad(U.alpha)
	be := Deg2Rad(U.beta)
	ga := Deg2Rad(U.gamma)
	sg := math.Sin(ga)
	cg := math.Cos(ga)
	if math.Abs(sg) < degenerateDet {
		return ret, NewError(KindDegenerateGeometry, "sin(gamma) is zero for gamma=%g", U.gamma)
	}
	ret[0] = r3.Vec{X: U.a}
	ret[1] = r3.Vec{X: U.b * cg, Y: U.b * sg}
	cx := U.c * math.Cos(be)
	cy := U.c * (math.Cos(al) - math.Cos(be)*cg) / sg
	rad := U.c*U.c - cx*cx - cy*cy
	if rad <= 0 {
		return ret, NewError(KindDegenerateGeometry, "angles %g %g %g give no valid cell", U.alpha, U.beta, U.gamma)
	}
	ret[2] = r3.Vec{X: cx, Y: cy, Z: math.Sqrt(rad)}
	return ret, nil
}

// LatticeVectors returns the three lattice vectors in the canonical orientation.
// It panics on the zero UnitCell, since valid cells can only be built with NewUnitCell
// or CellFromVectors.
func (U UnitCell) LatticeVectors() [3]r3.Vec {
	v, err := U.vectors()
	if err != nil {
		panic("LatticeVectors called on an invalid UnitCell: " + err.Error())
	}
	return v
}

// LatticeMatrix returns a 3x3 matrix whose rows are the lattice vectors.
func (U UnitCell) LatticeMatrix() *v3.Matrix {
	v := U.LatticeVectors()
	return v3.FromVecs(v[:])
}

// FractionalToCartesian returns the Cartesian position, in A, of the fractional coordinates f.
func (U UnitCell) FractionalToCartesian(f r3.Vec) r3.Vec {
	return U.FractionalToCartesianAll([]r3.Vec{f})[0]
}

// FractionalToCartesianAll converts a set of fractional coordinates at once.
// With one point per row, P = F M, where the rows of M are the lattice vectors.
func (U UnitCell) FractionalToCartesianAll(f []r3.Vec) []r3.Vec {
	if len(f) == 0 {
		return nil
	}
	F := v3.FromVecs(f)
	P := v3.Zeros(len(f))
	P.Mul(F, U.LatticeMatrix())
	return P.Vecs()
}

// CartesianToFractional returns the fractional coordinates of the Cartesian point p.
func (U UnitCell) CartesianToFractional(p r3.Vec) (r3.Vec, error) {
	f, err := U.CartesianToFractionalAll([]r3.Vec{p})
	if err != nil {
		return r3.Vec{}, errDecorate(err, "CartesianToFractional")
	}
	return f[0], nil
}

// CartesianToFractionalAll converts a set of Cartesian points at once, as
// F = P M^-1. The lattice matrix is inverted by cofactor expansion.
func (U UnitCell) CartesianToFractionalAll(p []r3.Vec) ([]r3.Vec, error) {
	v, err := U.vectors()
	if err != nil {
		return nil, errDecorate(err, "CartesianToFractionalAll")
	}
	inv, err := invert3(v)
	if err != nil {
		return nil, errDecorate(err, "CartesianToFractionalAll")
	}
	return mulVecs(p, inv), nil
}

// mulVecs returns the rows of P M, where the rows of P are the vectors p.
func mulVecs(p []r3.Vec, M *v3.Matrix) []r3.Vec {
	if len(p) == 0 {
		return nil
	}
	P := v3.FromVecs(p)
	R := v3.Zeros(len(p))
	R.Mul(P, M)
	return R.Vecs()
}

// Volume returns the cell volume in A^3.
func (U UnitCell) Volume() float64 {
	ca := math.Cos(Deg2Rad(U.alpha))
	cb := math.Cos(Deg2Rad(U.beta))
	cg := math.Cos(Deg2Rad(U.gamma))
	r := 1 - ca*ca - cb*cb - cg*cg + 2*ca*cb*cg
	if r < 0 {
		return 0
	}
	return U.a * U.b * U.c * math.Sqrt(r)
}

// WrapFractional maps each component of f into [0,1).
func WrapFractional(f r3.Vec) r3.Vec {
	w := func(x float64) float64 {
		x -= math.Floor(x)
		if x >= 1 { //-1e-17 - floor(-1e-17) rounds to 1
			x = 0
		}
		return x
	}
	return r3.Vec{X: w(f.X), Y: w(f.Y), Z: w(f.Z)}
}

// Det3 returns the determinant of the matrix with rows v[0], v[1], v[2].
func Det3(v [3]r3.Vec) float64 {
	return r3.Dot(v[0], r3.Cross(v[1], v[2]))
}

//invert3 inverts the matrix with rows v by the closed-form cofactor expansion.
//Returns a DegenerateGeometry error if |det| < 1e-12.
func invert3(v [3]r3.Vec) (*v3.Matrix, error) {
	var inv [3][3]float64
	m := [3][3]float64{
		{v[0].X, v[0].Y, v[0].Z},
		{v[1].X, v[1].Y, v[1].Z},
		{v[2].X, v[2].Y, v[2].Z},
	}
	c00 := m[1][1]*m[2][2] - m[1][2]*m[2][1]
	c01 := m[1][2]*m[2][0] - m[1][0]*m[2][2]
	c02 := m[1][0]*m[2][1] - m[1][1]*m[2][0]
	det := m[0][0]*c00 + m[0][1]*c01 + m[0][2]*c02
	if math.Abs(det) < degenerateDet {
		return nil, NewError(KindDegenerateGeometry, "lattice matrix determinant %g", det)
	}
	id := 1 / det
	inv[0][0] = c00 * id
	inv[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * id
	inv[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * id
	inv[1][0] = c01 * id
	inv[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * id
	inv[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * id
	inv[2][0] = c02 * id
	inv[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * id
	inv[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * id
	return v3.FromVecs([]r3.Vec{
		{X: inv[0][0], Y: inv[0][1], Z: inv[0][2]},
		{X: inv[1][0], Y: inv[1][1], Z: inv[1][2]},
		{X: inv[2][0], Y: inv[2][1], Z: inv[2][2]},
	}), nil
}

// LatticeFrame converts coordinates given with respect to an arbitrary set
// of lattice vectors, as found in files, into the canonical orientation of
// the corresponding UnitCell.
type LatticeFrame struct {
	Cell UnitCell
	raw  [3]r3.Vec
	inv  *v3.Matrix
}

// NewLatticeFrame builds a frame for the lattice vectors va, vb, vc.
func NewLatticeFrame(va, vb, vc r3.Vec) (*LatticeFrame, error) {
	raw := [3]r3.Vec{va, vb, vc}
	inv, err := invert3(raw)
	if err != nil {
		return nil, errDecorate(err, "NewLatticeFrame")
	}
	cell, err := CellFromVectors(va, vb, vc)
	if err != nil {
		return nil, errDecorate(err, "NewLatticeFrame")
	}
	return &LatticeFrame{Cell: cell, raw: raw, inv: inv}, nil
}

// Raw returns the lattice vectors as given.
func (L *LatticeFrame) Raw() [3]r3.Vec { return L.raw }

// FromFractional returns the canonical Cartesian position for fractional coordinates f.
func (L *LatticeFrame) FromFractional(f r3.Vec) r3.Vec {
	return L.Cell.FractionalToCartesian(f)
}

// FromCartesian takes a Cartesian point in the frame of the raw vectors
// and returns it in the canonical frame.
func (L *LatticeFrame) FromCartesian(p r3.Vec) r3.Vec {
	return L.FromCartesianAll([]r3.Vec{p})[0]
}

// FromCartesianAll is FromCartesian for a set of points.
func (L *LatticeFrame) FromCartesianAll(p []r3.Vec) []r3.Vec {
	return L.Cell.FractionalToCartesianAll(mulVecs(p, L.inv))
}
