/*
 * bonds.go, part of gostruct.
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
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultBondTolerance multiplies the sum of covalent radii to get the bonding distance.
const DefaultBondTolerance = 1.10

// BondOptions controls the distance-based bond detection.
type BondOptions struct {
	Tolerance     float64 //bond if d < (r1+r2)*Tolerance
	DefaultRadius float64 //covalent radius for elements without data
}

// DefaultBondOptions returns a tolerance of 1.10 and a default radius of 1.5 A.
func DefaultBondOptions() BondOptions {
	return BondOptions{Tolerance: DefaultBondTolerance, DefaultRadius: DefaultCovalentRadius}
}

func (O BondOptions) radius(symbol string) float64 {
	e, ok := LookupElement(symbol)
	if !ok || e.Covrad == 0 {
		return O.DefaultRadius
	}
	return e.Covrad
}

// Pair is an unordered pair of atom IDs, normalized so that A < B.
type Pair struct {
	A, B string
}

// NormalizePair returns the Pair for the atoms a and b.
func NormalizePair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Bond is a bond between the atoms with indexes I and J. J is bonded to
// the image of I's partner translated by Image lattice vectors. Image is
// always zero for non-periodic structures and for manual bonds.
type Bond struct {
	I, J     int
	A, B     string //IDs of atoms I and J
	Image    [3]int
	Distance float64
	Manual   bool //true if the bond comes from a manual override
}

// Pair returns the normalized pair of atom IDs for the bond.
func (B Bond) Pair() Pair {
	return NormalizePair(B.A, B.B)
}

//the 27 image offsets, in the order they are scanned.
var imageOffsets = func() [][3]int {
	ret := make([][3]int, 0, 27)
	for ox := -1; ox <= 1; ox++ {
		for oy := -1; oy <= 1; oy++ {
			for oz := -1; oz <= 1; oz++ {
				ret = append(ret, [3]int{ox, oy, oz})
			}
		}
	}
	return ret
}()

// canonicalOffset implements the tie-break that makes each periodic contact
// appear once: the contact (i, j, o) is the same as (j, i, -o), and only
// one of them is accepted.
func canonicalOffset(i, j int, o [3]int) bool {
	if o == [3]int{} {
		return j > i
	}
	return o[0] > 0 || (o[0] == 0 && o[1] > 0) || (o[0] == 0 && o[1] == 0 && o[2] > 0)
}

func shift(v [3]r3.Vec, o [3]int) r3.Vec {
	return r3.Add(r3.Add(r3.Scale(float64(o[0]), v[0]), r3.Scale(float64(o[1]), v[1])), r3.Scale(float64(o[2]), v[2]))
}

// Bonds returns all bonds of the structure using the default options.
func (S *Structure) Bonds() []Bond {
	return S.BondsWith(DefaultBondOptions())
}

// BondsWith returns the bonds of the structure: every pair closer than the
// scaled sum of covalent radii, minus the suppressed pairs, plus the manual
// bonds. If the structure has a cell, contacts with the 26 neighbor images are
// also considered, and each periodic contact is reported once. The scan is O(N^2).
func (S *Structure) BondsWith(O BondOptions) []Bond {
	n := len(S.atoms)
	bonds := make([]Bond, 0, n)
	offsets := [][3]int{{0, 0, 0}}
	var lat [3]r3.Vec
	if S.isCrystal {
		offsets = imageOffsets
		lat = S.cell.LatticeVectors()
	}
	for i := 0; i < n; i++ {
		at1 := S.atoms[i]
		r1 := O.radius(at1.Symbol)
		for j := 0; j < n; j++ {
			at2 := S.atoms[j]
			p := NormalizePair(at1.ID, at2.ID)
			r2 := O.radius(at2.Symbol)
			for _, o := range offsets {
				if !canonicalOffset(i, j, o) {
					continue
				}
				pos2 := at2.Position
				if o != [3]int{} {
					pos2 = r3.Add(pos2, shift(lat, o))
				}
				d := Distance(at1.Position, pos2)
				if o == [3]int{} && S.manual[p] {
					bonds = append(bonds, Bond{I: i, J: j, A: at1.ID, B: at2.ID, Distance: d, Manual: true})
					continue
				}
				if S.suppress[p] || d >= (r1+r2)*O.Tolerance {
					continue
				}
				bonds = append(bonds, Bond{I: i, J: j, A: at1.ID, B: at2.ID, Image: o, Distance: d})
			}
		}
	}
	return bonds
}

// autoQualifies returns true if the atoms in p are closer than the bonding
// distance in any image.
func (S *Structure) autoQualifies(p Pair, O BondOptions) bool {
	at1, at2 := S.AtomByID(p.A), S.AtomByID(p.B)
	if at1 == nil || at2 == nil {
		return false
	}
	limit := (O.radius(at1.Symbol) + O.radius(at2.Symbol)) * O.Tolerance
	if !S.isCrystal {
		return Distance(at1.Position, at2.Position) < limit
	}
	lat := S.cell.LatticeVectors()
	for _, o := range imageOffsets {
		if Distance(at1.Position, r3.Add(at2.Position, shift(lat, o))) < limit {
			return true
		}
	}
	return false
}

// AddManualBond bonds the atoms a and b regardless of their distance.
// Any suppression of the pair is cleared.
func (S *Structure) AddManualBond(a, b string) error {
	if a == b {
		return errDecorate(NewError(KindOther, "can't bond atom %q to itself", a), "AddManualBond")
	}
	for _, id := range []string{a, b} {
		if _, err := S.mustFind(id, "AddManualBond"); err != nil {
			return err
		}
	}
	p := NormalizePair(a, b)
	S.manual[p] = true
	delete(S.suppress, p)
	return nil
}

// RemoveBond removes the bond between a and b, using the default bond options
// to decide whether the pair must be suppressed. See RemoveBondWith.
func (S *Structure) RemoveBond(a, b string) error {
	return S.RemoveBondWith(a, b, DefaultBondOptions())
}

// RemoveBondWith removes the bond between a and b. If the pair would still be
// detected by distance with the options O, it is suppressed so it doesn't come
// back. A manual bond between atoms that are not within bonding distance is just
// removed. O should be the options later passed to BondsWith.
func (S *Structure) RemoveBondWith(a, b string, O BondOptions) error {
	for _, id := range []string{a, b} {
		if _, err := S.mustFind(id, "RemoveBondWith"); err != nil {
			return err
		}
	}
	p := NormalizePair(a, b)
	wasManual := S.manual[p]
	delete(S.manual, p)
	if !wasManual || S.autoQualifies(p, O) {
		S.suppress[p] = true
	}
	return nil
}

// SuppressBond marks the pair a, b as never bonded, whatever their distance,
// and clears any manual bond between them.
func (S *Structure) SuppressBond(a, b string) error {
	if a == b {
		return errDecorate(NewError(KindOther, "can't suppress a bond of atom %q to itself", a), "SuppressBond")
	}
	for _, id := range []string{a, b} {
		if _, err := S.mustFind(id, "SuppressBond"); err != nil {
			return err
		}
	}
	p := NormalizePair(a, b)
	delete(S.manual, p)
	S.suppress[p] = true
	return nil
}

// RecalculateBonds clears all manual and suppressed bonds, so bonds are purely distance-based again.
func (S *Structure) RecalculateBonds() {
	S.manual = make(map[Pair]bool)
	S.suppress = make(map[Pair]bool)
}

// IsManualBond returns true if a and b are bonded by a manual override.
func (S *Structure) IsManualBond(a, b string) bool {
	return S.manual[NormalizePair(a, b)]
}

// IsSuppressed returns true if the automatic bond between a and b was removed.
func (S *Structure) IsSuppressed(a, b string) bool {
	return S.suppress[NormalizePair(a, b)]
}

// ManualBonds returns the manually added pairs, sorted.
func (S *Structure) ManualBonds() []Pair {
	return sortedPairs(S.manual)
}

// SuppressedBonds returns the suppressed pairs, sorted.
func (S *Structure) SuppressedBonds() []Pair {
	return sortedPairs(S.suppress)
}

func sortedPairs(m map[Pair]bool) []Pair {
	ret := make([]Pair, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].A != ret[j].A {
			return ret[i].A < ret[j].A
		}
		return ret[i].B < ret[j].B
	})
	return ret
}
