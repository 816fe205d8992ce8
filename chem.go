/*
 * chem.go, part of gostruct.
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
	"strconv"

	v3 "github.com/rmera/gostruct/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

/**Note: Some functions here panic instead of returning errors. This is because they are "fundamental"
 * functions. If something goes wrong here, the program is most likely wrong and should
 * crash. The panics are related to accessing out-of-bounds atoms**/

// Atom is a single atom of a Structure.
type Atom struct {
	ID       string //unique within the owning Structure
	Symbol   string
	Position r3.Vec //Cartesian, in A
	Fixed    bool   //from selective dynamics, move flags or freeze codes
}

// Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	ret := *A
	return &ret
}

/*****Structure type***/

// Structure is a set of atoms, optionally in a periodic cell, plus the
// manual overrides of the automatic bond detection.
type Structure struct {
	Name      string
	atoms     []*Atom
	index     map[string]int //ID -> position in atoms
	nextid    int
	cell      UnitCell
	isCrystal bool
	supercell [3]int
	charge    int
	multi     int
	manual    map[Pair]bool //manually added bonds
	suppress  map[Pair]bool //automatic bonds removed by the user
}

// NewStructure returns an empty structure with multiplicity 1 and a 1x1x1 supercell.
func NewStructure(name string) *Structure {
	return &Structure{
		Name:      name,
		index:     make(map[string]int),
		supercell: [3]int{1, 1, 1},
		multi:     1,
		manual:    make(map[Pair]bool),
		suppress:  make(map[Pair]bool),
	}
}

// AddAtom appends a new atom at the end of the structure and returns it.
// It returns an UnknownElement error if symbol is not a periodic table symbol.
func (S *Structure) AddAtom(symbol string, pos r3.Vec, fixed bool) (*Atom, error) {
	if !IsElement(symbol) {
		return nil, errDecorate(UnknownElementError(symbol), "AddAtom")
	}
	S.nextid++
	at := &Atom{ID: "a" + strconv.Itoa(S.nextid), Symbol: symbol, Position: pos, Fixed: fixed}
	S.index[at.ID] = len(S.atoms)
	S.atoms = append(S.atoms, at)
	return at, nil
}

// Atom returns the Atom corresponding to the index i. Panics if
// out of range.
func (S *Structure) Atom(i int) *Atom {
	if i < 0 || i >= len(S.atoms) {
		panic(fmt.Sprintf("Structure: Requested Atom %d out of bounds (%d)", i, len(S.atoms)))
	}
	return S.atoms[i]
}

// Len returns the number of atoms.
func (S *Structure) Len() int {
	return len(S.atoms)
}

// Atoms returns the atoms of the structure. The slice is a copy, the atoms are not.
func (S *Structure) Atoms() []*Atom {
	ret := make([]*Atom, len(S.atoms))
	copy(ret, S.atoms)
	return ret
}

// Index returns the position of the atom with the given ID, or -1.
func (S *Structure) Index(id string) int {
	i, ok := S.index[id]
	if !ok {
		return -1
	}
	return i
}

// AtomByID returns the atom with the given ID, or nil.
func (S *Structure) AtomByID(id string) *Atom {
	i := S.Index(id)
	if i < 0 {
		return nil
	}
	return S.atoms[i]
}

func (S *Structure) mustFind(id, caller string) (*Atom, error) {
	at := S.AtomByID(id)
	if at == nil {
		return nil, errDecorate(NewError(KindOther, "no atom with ID %q", id), caller)
	}
	return at, nil
}

// RemoveAtom deletes the atom with the given ID, and every bond override involving it.
func (S *Structure) RemoveAtom(id string) error {
	i := S.Index(id)
	if i < 0 {
		return errDecorate(NewError(KindOther, "no atom with ID %q", id), "RemoveAtom")
	}
	S.atoms = append(S.atoms[:i], S.atoms[i+1:]...)
	delete(S.index, id)
	for k := i; k < len(S.atoms); k++ {
		S.index[S.atoms[k].ID] = k
	}
	for _, set := range []map[Pair]bool{S.manual, S.suppress} {
		for p := range set {
			if p.A == id || p.B == id {
				delete(set, p)
			}
		}
	}
	return nil
}

// SetElement changes the element of an atom. Unknown symbols are rejected.
func (S *Structure) SetElement(id, symbol string) error {
	at, err := S.mustFind(id, "SetElement")
	if err != nil {
		return err
	}
	if !IsElement(symbol) {
		return errDecorate(UnknownElementError(symbol), "SetElement")
	}
	at.Symbol = symbol
	return nil
}

// MoveAtom sets the position of an atom.
func (S *Structure) MoveAtom(id string, pos r3.Vec) error {
	at, err := S.mustFind(id, "MoveAtom")
	if err != nil {
		return err
	}
	at.Position = pos
	return nil
}

// SetFixed sets the fixed flag of an atom.
func (S *Structure) SetFixed(id string, fixed bool) error {
	at, err := S.mustFind(id, "SetFixed")
	if err != nil {
		return err
	}
	at.Fixed = fixed
	return nil
}

// Cell returns the unit cell and true, or a zero cell and false if the structure is not periodic.
func (S *Structure) Cell() (UnitCell, bool) {
	return S.cell, S.isCrystal
}

// SetCell sets the unit cell and marks the structure as a crystal.
func (S *Structure) SetCell(cell UnitCell) {
	S.cell = cell
	S.isCrystal = !cell.IsZero()
}

// ClearCell removes the unit cell. The supercell is reset to 1x1x1.
func (S *Structure) ClearCell() {
	S.cell = UnitCell{}
	S.isCrystal = false
	S.supercell = [3]int{1, 1, 1}
}

// IsCrystal returns true if the structure has a unit cell.
func (S *Structure) IsCrystal() bool {
	return S.isCrystal
}

// Supercell returns the supercell multipliers.
func (S *Structure) Supercell() [3]int {
	return S.supercell
}

// SetSupercell sets the supercell multipliers, which must be at least 1.
func (S *Structure) SetSupercell(nx, ny, nz int) error {
	if nx < 1 || ny < 1 || nz < 1 {
		return errDecorate(NewError(KindOther, "supercell multipliers must be >= 1, got %d %d %d", nx, ny, nz), "SetSupercell")
	}
	S.supercell = [3]int{nx, ny, nz}
	return nil
}

// Charge gets the total charge of the structure
func (S *Structure) Charge() int {
	return S.charge
}

// Multi returns the multiplicity of the structure
func (S *Structure) Multi() int {
	return S.multi
}

// SetCharge sets the total charge of the structure to i
func (S *Structure) SetCharge(i int) {
	S.charge = i
}

// SetMulti sets the multiplicity of the structure to i
func (S *Structure) SetMulti(i int) {
	S.multi = i
}

// Clone returns a deep copy of the structure, including atoms (with their IDs),
// bond overrides, cell and supercell.
func (S *Structure) Clone() *Structure {
	N := NewStructure(S.Name)
	N.atoms = make([]*Atom, len(S.atoms))
	for key, val := range S.atoms {
		N.atoms[key] = val.Copy()
		N.index[val.ID] = key
	}
	N.nextid = S.nextid
	N.cell = S.cell
	N.isCrystal = S.isCrystal
	N.supercell = S.supercell
	N.charge = S.charge
	N.multi = S.multi
	for k, v := range S.manual {
		N.manual[k] = v
	}
	for k, v := range S.suppress {
		N.suppress[k] = v
	}
	return N
}

// Formula returns the Hill formula of the structure.
func (S *Structure) Formula() string {
	return Formula(S)
}

// Coords returns a matrix with the positions of all atoms, one per row.
// It returns nil for an empty structure.
func (S *Structure) Coords() *v3.Matrix {
	if len(S.atoms) == 0 {
		return nil
	}
	vecs := make([]r3.Vec, len(S.atoms))
	for i, v := range S.atoms {
		vecs[i] = v.Position
	}
	return v3.FromVecs(vecs)
}

// Symbols returns the element of each atom, in order.
func (S *Structure) Symbols() []string {
	ret := make([]string, len(S.atoms))
	for i, v := range S.atoms {
		ret[i] = v.Symbol
	}
	return ret
}

// Fractional returns the fractional coordinates of every atom. It requires a cell.
func (S *Structure) Fractional() ([]r3.Vec, error) {
	if !S.isCrystal {
		return nil, errDecorate(NewError(KindPrecondition, "structure %q has no unit cell", S.Name), "Fractional")
	}
	if len(S.atoms) == 0 {
		return []r3.Vec{}, nil
	}
	ret, err := S.cell.CartesianToFractionalAll(S.Coords().Vecs())
	return ret, errDecorate(err, "Fractional")
}
