/*
 * supercell.go, part of gostruct.
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

	v3 "github.com/rmera/gostruct/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// ImageAtom is one copy of an atom in a supercell.
type ImageAtom struct {
	Atom
	BaseID  string //ID of the atom in the home cell
	Offset  [3]int //in lattice vectors
	Primary bool   //true only for the home-cell copy
}

// ImageID returns the ID given to the copy of the atom base translated by offset.
// The home-cell copy keeps the original ID.
func ImageID(base string, offset [3]int) string {
	if offset == [3]int{} {
		return base
	}
	return fmt.Sprintf("%s@%d,%d,%d", base, offset[0], offset[1], offset[2])
}

// SupercellAtoms returns nx*ny*nz copies of every atom, translated by the integer
// combinations of the lattice vectors given by the supercell multipliers.
// The offsets run over x in the outer loop, then y, then z, and the atoms in the
// innermost loop, so the first Len() elements are the home cell. It requires a cell.
func (S *Structure) SupercellAtoms() ([]ImageAtom, error) {
	if !S.isCrystal {
		return nil, errDecorate(PreconditionError("supercell", "structure has no unit cell"), "SupercellAtoms")
	}
	n := S.supercell
	ret := make([]ImageAtom, 0, n[0]*n[1]*n[2]*len(S.atoms))
	if len(S.atoms) == 0 {
		return ret, nil
	}
	var offsets [][3]int
	var fracoff []r3.Vec
	for i := 0; i < n[0]; i++ {
		for j := 0; j < n[1]; j++ {
			for k := 0; k < n[2]; k++ {
				offsets = append(offsets, [3]int{i, j, k})
				fracoff = append(fracoff, r3.Vec{X: float64(i), Y: float64(j), Z: float64(k)})
			}
		}
	}
	//one translation per offset, all obtained in a single product with the lattice matrix.
	trans := S.cell.FractionalToCartesianAll(fracoff)
	home := S.Coords()
	img := v3.Zeros(len(S.atoms))
	for o, off := range offsets {
		img.AddVec(home, trans[o])
		for i, at := range S.atoms {
			c := ImageAtom{Atom: *at, BaseID: at.ID, Offset: off, Primary: off == [3]int{}}
			c.ID = ImageID(at.ID, off)
			c.Position = img.Vec(i)
			ret = append(ret, c)
		}
	}
	return ret, nil
}

// SupercellStructure returns a new Structure holding every
// supercell copy, with the cell enlarged by the multipliers. Bond overrides are
// not carried over.
func (S *Structure) SupercellStructure() (*Structure, error) {
	images, err := S.SupercellAtoms()
	if err != nil {
		return nil, errDecorate(err, "SupercellStructure")
	}
	a, b, c := S.cell.Lengths()
	al, be, ga := S.cell.Angles()
	n := S.supercell
	cell, err := NewUnitCell(a*float64(n[0]), b*float64(n[1]), c*float64(n[2]), al, be, ga)
	if err != nil {
		return nil, errDecorate(err, "SupercellStructure")
	}
	N := NewStructure(S.Name)
	N.charge = S.charge * n[0] * n[1] * n[2]
	N.multi = S.multi
	N.SetCell(cell)
	for _, v := range images {
		if _, err := N.AddAtom(v.Symbol, v.Position, v.Fixed); err != nil {
			return nil, errDecorate(err, "SupercellStructure")
		}
	}
	return N, nil
}
