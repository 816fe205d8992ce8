/*
 * pdb.go, part of gostruct.
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
)

// pdbCodec reads and writes PDB files. Each MODEL is a frame.
type pdbCodec struct {
	opts Options
}

// Parse returns the first model.
func (P *pdbCodec) Parse(content string) (*chem.Structure, error) {
	frames, err := P.ParseTrajectory(content)
	if err != nil {
		return nil, errDecorate(err, "pdbCodec.Parse")
	}
	return frames[0], nil
}

// symbolFromName guesses an element from the atom name columns (13-16) when
// the element columns are empty. Names whose first column is blank or a digit
// are one-letter elements, as in " CA " or "1HB ". Otherwise a few common
// two-letter names are recognized, and the rest is taken as a one-letter element.
func symbolFromName(raw string) (string, error) {
	if len(raw) < 2 {
		return chem.NormalizeSymbol(raw)
	}
	if raw[0] == ' ' || (raw[0] >= '0' && raw[0] <= '9') {
		return chem.NormalizeSymbol(raw[1:2])
	}
	name := strings.ToUpper(strings.TrimSpace(raw))
	if len(name) == 4 && name[0] == 'H' {
		return "H", nil
	}
	switch {
	case strings.HasPrefix(name, "CL"):
		return "Cl", nil
	case strings.HasPrefix(name, "CU"):
		return "Cu", nil
	case strings.HasPrefix(name, "ZN"):
		return "Zn", nil
	case strings.HasPrefix(name, "FE"):
		return "Fe", nil
	case strings.HasPrefix(name, "MG"):
		return "Mg", nil
	case strings.HasPrefix(name, "NA"):
		return "Na", nil
	case strings.HasPrefix(name, "SE"):
		return "Se", nil
	case strings.HasPrefix(name, "BR"):
		return "Br", nil
	}
	return chem.NormalizeSymbol(name[:1])
}

func pdbField(line string, from, to int) string {
	if from >= len(line) {
		return ""
	}
	if to > len(line) {
		to = len(line)
	}
	return strings.TrimSpace(line[from:to])
}

// pdbCell reads a CRYST1 record. The 1 1 1 90 90 90 placeholder means no cell.
func pdbCell(line string) (chem.UnitCell, bool, error) {
	var p [6]float64
	cols := [][2]int{{6, 15}, {15, 24}, {24, 33}, {33, 40}, {40, 47}, {47, 54}}
	for i, c := range cols {
		v, err := strconv.ParseFloat(pdbField(line, c[0], c[1]), 64)
		if err != nil {
			return chem.UnitCell{}, false, err
		}
		p[i] = v
	}
	if p == [6]float64{1, 1, 1, 90, 90, 90} {
		return chem.UnitCell{}, false, nil
	}
	cell, err := chem.NewUnitCell(p[0], p[1], p[2], p[3], p[4], p[5])
	return cell, err == nil, err
}

// ParseTrajectory returns one structure per MODEL, or a single one if the
// file has no MODEL records.
func (P *pdbCodec) ParseTrajectory(content string) ([]*chem.Structure, error) {
	lines := splitLines(content)
	var frames []*chem.Structure
	var cell chem.UnitCell
	crystal := false
	title := ""
	var cur *chem.Structure
	open := func() {
		cur = chem.NewStructure(title)
		if crystal {
			cur.SetCell(cell)
		}
	}
	atoms := 0
records:
	for i, line := range lines {
		rec := strings.ToUpper(pdbField(line, 0, 6))
		switch rec {
		case "TITLE":
			title = strings.TrimSpace(title + " " + pdbField(line, 10, 80))
		case "CRYST1":
			c, ok, err := pdbCell(line)
			if err != nil {
				P.opts.malformed("pdb", i+1, line, err)
				continue
			}
			cell, crystal = c, ok
		case "MODEL":
			if cur != nil && cur.Len() > 0 {
				frames = append(frames, cur)
			}
			open()
		case "ENDMDL":
			if cur != nil {
				frames = append(frames, cur)
				cur = nil
			}
		case "ATOM", "HETATM":
			atoms++
			if cur == nil {
				open()
			}
			if len(line) < 54 {
				P.opts.malformed("pdb", i+1, line, fmt.Errorf("record shorter than 54 columns"))
				continue
			}
			pos, err := parseVec([]string{pdbField(line, 30, 38), pdbField(line, 38, 46), pdbField(line, 46, 54)})
			if err != nil {
				P.opts.malformed("pdb", i+1, line, err)
				continue
			}
			sym := pdbField(line, 76, 78)
			if _, err := chem.NormalizeSymbol(sym); sym == "" || err != nil {
				if s, err := symbolFromName(line[12:16]); err == nil {
					sym = s
				}
			}
			P.opts.addAtom(cur, "pdb", sym, pos, false, i+1, line)
		case "END":
			break records
		}
	}
	if cur != nil && (cur.Len() > 0 || len(frames) == 0) {
		frames = append(frames, cur)
	}
	if atoms == 0 || len(frames) == 0 {
		return nil, errDecorate(chem.StructuralParseError("pdb", "ATOM or HETATM records"), "pdbCodec.ParseTrajectory")
	}
	//TITLE may come after MODEL 1 in hand-written files.
	for _, f := range frames {
		if f.Name == "" {
			f.Name = title
		}
	}
	return frames, nil
}

// Serialize writes a single model, without MODEL records.
func (P *pdbCodec) Serialize(S *chem.Structure) (string, error) {
	var b strings.Builder
	pdbHeader(&b, S)
	if err := pdbAtoms(&b, S); err != nil {
		return "", errDecorate(err, "pdbCodec.Serialize")
	}
	b.WriteString("END\n")
	return b.String(), nil
}

// SerializeTrajectory writes each structure as a MODEL. The header is taken
// from the first one.
func (P *pdbCodec) SerializeTrajectory(frames []*chem.Structure) (string, error) {
	if len(frames) == 0 {
		return "", chem.PreconditionError("pdb", "no frames to write")
	}
	var b strings.Builder
	pdbHeader(&b, frames[0])
	for i, S := range frames {
		fmt.Fprintf(&b, "MODEL     %4d\n", i+1)
		if err := pdbAtoms(&b, S); err != nil {
			return "", errDecorate(err, "pdbCodec.SerializeTrajectory")
		}
		b.WriteString("ENDMDL\n")
	}
	b.WriteString("END\n")
	return b.String(), nil
}

func pdbHeader(b *strings.Builder, S *chem.Structure) {
	if t := singleLine(S.Name); t != "" {
		fmt.Fprintf(b, "TITLE     %s\n", t)
	}
	if cell, ok := S.Cell(); ok {
		a, bl, c := cell.Lengths()
		al, be, ga := cell.Angles()
		fmt.Fprintf(b, "CRYST1%9.3f%9.3f%9.3f%7.2f%7.2f%7.2f P 1           1\n", a, bl, c, al, be, ga)
	}
}

func pdbAtoms(b *strings.Builder, S *chem.Structure) error {
	for i, at := range S.Atoms() {
		p := at.Position
		if !fitsPDB(p.X) || !fitsPDB(p.Y) || !fitsPDB(p.Z) {
			return chem.PreconditionError("pdb", fmt.Sprintf("coordinates of atom %s (%.3f, %.3f, %.3f) do not fit in the 8.3f columns", at.ID, p.X, p.Y, p.Z))
		}
		name := at.Symbol
		if len(name) == 1 {
			name = " " + name
		}
		fmt.Fprintf(b, "HETATM%5d %-4s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n",
			(i+1)%100000, name, "UNL", "A", 1, p.X, p.Y, p.Z, 1.0, 0.0, strings.ToUpper(at.Symbol))
	}
	return nil
}

// fitsPDB reports whether x can be written in 8 columns with 3 decimals.
func fitsPDB(x float64) bool {
	return x > -999.9995 && x < 9999.9995
}
