/*
 * gjf.go, part of gostruct.
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
	"fmt"
	"strconv"
	"strings"

	chem "github.com/rmera/gostruct"
	"gonum.org/v1/gonum/spatial/r3"
)

// gjfCodec reads and writes Gaussian input files with Cartesian coordinates.
type gjfCodec struct {
	opts Options
}

// Parse reads the first molecule specification of a Gaussian input. TV lines
// give the lattice vectors; only a full set of 3 is used as a cell.
func (G *gjfCodec) Parse(content string) (*chem.Structure, error) {
	lines := splitLines(content)
	i := nextNonBlank(lines, 0)
	for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "%") {
		i++
	}
	if i >= len(lines) || !strings.HasPrefix(strings.TrimSpace(lines[i]), "#") {
		return nil, errDecorate(chem.StructuralParseError("gjf", "route section"), "gjfCodec.Parse")
	}
	for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
		i++
	}
	i = nextNonBlank(lines, i)
	var title []string
	for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
		title = append(title, strings.TrimSpace(lines[i]))
		i++
	}
	i = nextNonBlank(lines, i)
	if i >= len(lines) {
		return nil, errDecorate(chem.StructuralParseError("gjf", "charge and multiplicity line"), "gjfCodec.Parse")
	}
	cm, err := parseInts(strings.Fields(strings.ReplaceAll(lines[i], ",", " ")))
	if err != nil || len(cm) < 2 {
		return nil, errDecorate(chem.StructuralParseError("gjf", "charge and multiplicity line"), "gjfCodec.Parse")
	}
	S := chem.NewStructure(strings.Join(title, " "))
	S.SetCharge(cm[0])
	S.SetMulti(cm[1])
	type atom struct {
		sym    string
		pos    r3.Vec
		fixed  bool
		lineno int
	}
	var atoms []atom
	var tv []r3.Vec
	for i++; i < len(lines) && strings.TrimSpace(lines[i]) != ""; i++ {
		line := lines[i]
		f := strings.Fields(strings.ReplaceAll(line, ",", " "))
		if len(f) < 4 {
			G.opts.malformed("gjf", i+1, line, fmt.Errorf("not a Cartesian atom line"))
			continue
		}
		pos, fixed, err := gjfCoords(f)
		if err != nil {
			G.opts.malformed("gjf", i+1, line, err)
			continue
		}
		if strings.EqualFold(f[0], "TV") {
			tv = append(tv, pos)
			continue
		}
		atoms = append(atoms, atom{f[0], pos, fixed, i + 1})
	}
	var frame *chem.LatticeFrame
	switch len(tv) {
	case 0:
	case 3:
		frame, err = chem.NewLatticeFrame(tv[0], tv[1], tv[2])
		if err != nil {
			return nil, errDecorate(err, "gjfCodec.Parse")
		}
		S.SetCell(frame.Cell)
	default:
		G.opts.malformed("gjf", 0, "TV", fmt.Errorf("%d translation vectors, only 3 make a cell, ignored", len(tv)))
	}
	for _, a := range atoms {
		pos := a.pos
		if frame != nil {
			pos = frame.FromCartesian(pos)
		}
		G.opts.addAtom(S, "gjf", a.sym, pos, a.fixed, a.lineno, lines[a.lineno-1])
	}
	return S, nil
}

// gjfCoords reads "Sym [freeze] x y z". A freeze code of -1 means fixed.
func gjfCoords(f []string) (r3.Vec, bool, error) {
	if len(f) >= 5 && isInt(f[1]) {
		if p, err := parseVec(f[2:]); err == nil {
			code, _ := strconv.Atoi(f[1])
			return p, code == -1, nil
		}
	}
	p, err := parseVec(f[1:])
	return p, false, err
}

// Serialize writes a Gaussian input. Freeze codes are written only if some atom is fixed.
func (G *gjfCodec) Serialize(S *chem.Structure) (string, error) {
	var b strings.Builder
	name := strings.Join(strings.Fields(S.Name), "_")
	if name == "" {
		name = "gostruct"
	}
	fmt.Fprintf(&b, "%%chk=%s.chk\n", name)
	b.WriteString("# B3LYP/6-31G(d)\n\n")
	title := singleLine(S.Name)
	if title == "" {
		title = S.Formula()
	}
	if title == "" {
		title = "untitled"
	}
	fmt.Fprintf(&b, "%s\n\n%d %d\n", title, S.Charge(), S.Multi())
	fixed := false
	for _, at := range S.Atoms() {
		fixed = fixed || at.Fixed
	}
	for _, at := range S.Atoms() {
		p := at.Position
		if fixed {
			code := 0
			if at.Fixed {
				code = -1
			}
			fmt.Fprintf(&b, " %-2s %3d %14.8f %14.8f %14.8f\n", at.Symbol, code, p.X, p.Y, p.Z)
			continue
		}
		fmt.Fprintf(&b, " %-2s %14.8f %14.8f %14.8f\n", at.Symbol, p.X, p.Y, p.Z)
	}
	if cell, ok := S.Cell(); ok {
		for _, v := range cell.LatticeVectors() {
			fmt.Fprintf(&b, " TV %14.8f %14.8f %14.8f\n", v.X, v.Y, v.Z)
		}
	}
	b.WriteString("\n")
	return b.String(), nil
}
