/*
 * qe.go, part of gostruct.
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
	"math"
	"regexp"
	"strconv"
	"strings"

	chem "github.com/rmera/gostruct"
	"gonum.org/v1/gonum/spatial/r3"
)

// Quantum ESPRESSO uses three length units: bohr, angstrom and alat, a
// multiple of the lattice constant. The alat in force can be set by celldm(1),
// by A, or by a CELL_PARAMETERS (alat= X) card, so it is tracked while reading.

var qeCards = map[string]bool{
	"ATOMIC_SPECIES":      true,
	"ATOMIC_POSITIONS":    true,
	"K_POINTS":            true,
	"CELL_PARAMETERS":     true,
	"CONSTRAINTS":         true,
	"OCCUPATIONS":         true,
	"ATOMIC_VELOCITIES":   true,
	"ATOMIC_FORCES":       true,
	"ADDITIONAL_K_POINTS": true,
	"SOLVENTS":            true,
	"HUBBARD":             true,
}

func qeCardName(line string) string {
	f := strings.Fields(line)
	if len(f) == 0 {
		return ""
	}
	n := strings.ToUpper(f[0])
	if i := strings.IndexAny(n, "({"); i >= 0 {
		n = n[:i]
	}
	if qeCards[n] {
		return n
	}
	return ""
}

// qeCardOption returns the lowercase option of a card line, without braces or
// parentheses, and the number in an "alat= X" option, or 0.
func qeCardOption(line string) (string, float64) {
	f := strings.Fields(stripComment(line, "!", "#"))
	if len(f) == 0 {
		return "", 0
	}
	opt := strings.Join(f[1:], " ")
	if i := strings.IndexAny(f[0], "({"); i >= 0 {
		opt = f[0][i:] + " " + opt
	}
	opt = strings.ToLower(strings.Trim(strings.TrimSpace(opt), "(){}"))
	opt = strings.TrimSpace(strings.Trim(opt, "(){}"))
	if strings.HasPrefix(opt, "alat") {
		if _, v, ok := strings.Cut(opt, "="); ok {
			a, err := parseFloat(strings.TrimSpace(strings.Trim(v, "(){} ")))
			if err == nil {
				return "alat", a
			}
		}
		return "alat", 0
	}
	return opt, 0
}

var qeKeyValue = regexp.MustCompile(`(?i)([a-z_][a-z0-9_]*(?:\(\s*\d+\s*\))?)\s*=\s*('[^']*'|"[^"]*"|[^,\s]+)`)

// qeNamelists collects every key=value pair of the namelists. Keys are lowercase,
// without spaces, so celldm( 1) becomes celldm(1).
func qeNamelists(lines []string) map[string]string {
	ret := make(map[string]string)
	in := false
	for _, l := range lines {
		l = stripComment(l, "!")
		t := strings.TrimSpace(l)
		if strings.HasPrefix(t, "&") {
			in = true
			t = strings.TrimLeft(t, "&")
			if f := strings.Fields(t); len(f) > 0 {
				t = strings.TrimPrefix(t, f[0])
			}
		}
		if !in {
			continue
		}
		if t == "/" || strings.HasSuffix(t, "/") && !strings.Contains(t, "'") {
			t = strings.TrimSuffix(t, "/")
			in = false
		}
		for _, m := range qeKeyValue.FindAllStringSubmatch(t, -1) {
			key := strings.ToLower(strings.ReplaceAll(m[1], " ", ""))
			ret[key] = strings.Trim(m[2], "'\"")
		}
	}
	return ret
}

// qeUnits converts a length in the given unit to A.
type qeUnits struct {
	alat float64 //in A, 0 if unknown
}

func (u qeUnits) factor(unit, format string) (float64, error) {
	switch unit {
	case "angstrom":
		return 1, nil
	case "bohr":
		return chem.Bohr2A, nil
	case "alat", "":
		if u.alat <= 0 {
			return 0, chem.StructuralParseError(format, "lattice constant (celldm(1) or A) for alat units")
		}
		return u.alat, nil
	}
	return 0, chem.NewError(chem.KindStructuralParse, "%s: unknown units %q", format, unit)
}

// readQEVectors reads 3 lattice vectors from the lines after i.
func readQEVectors(lines []string, i int, format string) ([3]r3.Vec, error) {
	var lat [3]r3.Vec
	k := 0
	for j := i + 1; j < len(lines) && k < 3; j++ {
		if strings.TrimSpace(lines[j]) == "" {
			continue
		}
		v, err := parseVec(strings.Fields(lines[j]))
		if err != nil {
			return lat, chem.StructuralParseError(format, "CELL_PARAMETERS vectors")
		}
		lat[k] = v
		k++
	}
	if k < 3 {
		return lat, chem.StructuralParseError(format, "CELL_PARAMETERS vectors")
	}
	return lat, nil
}

// qeBravais builds the lattice, in A, for the supported ibrav values.
func qeBravais(ibrav int, nl map[string]string, alat float64) ([3]r3.Vec, error) {
	var lat [3]r3.Vec
	get := func(keys ...string) float64 {
		for _, k := range keys {
			if v, ok := nl[k]; ok {
				if f, err := parseFloat(v); err == nil {
					return f
				}
			}
		}
		return 0
	}
	ba := get("celldm(2)")
	ca := get("celldm(3)")
	if A := get("a"); A > 0 {
		if B := get("b"); B > 0 {
			ba = B / A
		}
		if C := get("c"); C > 0 {
			ca = C / A
		}
	}
	switch ibrav {
	case 1:
		lat = [3]r3.Vec{{X: 1}, {Y: 1}, {Z: 1}}
	case 2:
		lat = [3]r3.Vec{{X: -0.5, Z: 0.5}, {Y: 0.5, Z: 0.5}, {X: -0.5, Y: 0.5}}
	case 3:
		lat = [3]r3.Vec{{X: 0.5, Y: 0.5, Z: 0.5}, {X: -0.5, Y: 0.5, Z: 0.5}, {X: -0.5, Y: -0.5, Z: 0.5}}
	case 4:
		if ca <= 0 {
			return lat, chem.StructuralParseError("qe-in", "celldm(3) or C for ibrav=4")
		}
		lat = [3]r3.Vec{{X: 1}, {X: -0.5, Y: math.Sqrt(3) / 2}, {Z: ca}}
	case 6:
		if ca <= 0 {
			return lat, chem.StructuralParseError("qe-in", "celldm(3) or C for ibrav=6")
		}
		lat = [3]r3.Vec{{X: 1}, {Y: 1}, {Z: ca}}
	case 8:
		if ba <= 0 || ca <= 0 {
			return lat, chem.StructuralParseError("qe-in", "celldm(2), celldm(3) or B, C for ibrav=8")
		}
		lat = [3]r3.Vec{{X: 1}, {Y: ba}, {Z: ca}}
	default:
		return lat, chem.NewError(chem.KindStructuralParse, "qe-in: ibrav=%d is not supported", ibrav)
	}
	return scaleVecs(lat, alat), nil
}

// qeAtomLine parses "Symbol x y z [if_pos(1) if_pos(2) if_pos(3)]".
func qeAtomLine(f []string) (string, r3.Vec, bool, error) {
	if len(f) < 4 {
		return "", r3.Vec{}, false, fmt.Errorf("expected a symbol and 3 coordinates")
	}
	v, err := parseVec(f[1:])
	if err != nil {
		return "", v, false, err
	}
	fixed := false
	if len(f) >= 7 {
		fl, err := parseInts(f[4:7])
		fixed = err == nil && fl[0] == 0 && fl[1] == 0 && fl[2] == 0
	}
	return f[0], v, fixed, nil
}

// qePositions reads the atom lines after the ATOMIC_POSITIONS card at lines[i],
// stopping at the next card, a namelist, a blank line after some atoms, or after
// max atoms if max > 0. It returns the index of the last line read.
func qePositions(O Options, format string, lines []string, i, max int, unit string, units qeUnits, frame *chem.LatticeFrame, S *chem.Structure) (int, error) {
	var scale float64
	if unit != "crystal" {
		var err error
		scale, err = units.factor(unit, format)
		if err != nil {
			return i, err
		}
	} else if frame == nil {
		return i, chem.StructuralParseError(format, "cell for crystal coordinates")
	}
	read := 0
	j := i + 1
	for ; j < len(lines); j++ {
		line := stripComment(lines[j], "!", "#")
		t := strings.TrimSpace(line)
		if t == "" {
			if read > 0 {
				break
			}
			continue
		}
		if qeCardName(t) != "" || strings.HasPrefix(t, "&") || strings.HasPrefix(t, "End") || (max > 0 && read >= max) {
			break
		}
		sym, v, fixed, err := qeAtomLine(strings.Fields(t))
		read++
		if err != nil {
			O.malformed(format, j+1, lines[j], err)
			continue
		}
		var pos r3.Vec
		switch {
		case unit == "crystal":
			pos = frame.FromFractional(v)
		case frame != nil:
			pos = frame.FromCartesian(r3.Scale(scale, v))
		default:
			pos = r3.Scale(scale, v)
		}
		O.addAtom(S, format, sym, pos, fixed, j+1, lines[j])
	}
	return j - 1, nil
}

type qeInputCodec struct {
	opts Options
}

// Parse reads a pw.x input file.
func (Q *qeInputCodec) Parse(content string) (*chem.Structure, error) {
	lines := splitLines(content)
	nl := qeNamelists(lines)
	var units qeUnits
	if v, ok := nl["celldm(1)"]; ok {
		if a, err := parseFloat(v); err == nil {
			units.alat = a * chem.Bohr2A
		}
	} else if v, ok := nl["a"]; ok {
		if a, err := parseFloat(v); err == nil {
			units.alat = a
		}
	}
	ibrav := -1
	if v, ok := nl["ibrav"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errDecorate(chem.StructuralParseError("qe-in", "ibrav"), "qeInputCodec.Parse")
		}
		ibrav = n
	}
	nat := 0
	if v, ok := nl["nat"]; ok {
		nat, _ = strconv.Atoi(v)
	}
	S := chem.NewStructure(nl["prefix"])
	if v, ok := nl["tot_charge"]; ok {
		if c, err := parseFloat(v); err == nil {
			S.SetCharge(int(math.Round(c)))
		}
	}
	var frame *chem.LatticeFrame
	nlUnits := units
	var posUnits qeUnits
	posLine := -1
	//the alat in force changes with CELL_PARAMETERS (alat= X) in file order.
	for i, l := range lines {
		switch qeCardName(l) {
		case "CELL_PARAMETERS":
			unit, a := qeCardOption(l)
			if a > 0 {
				units.alat = a * chem.Bohr2A
			}
			if unit == "" && units.alat <= 0 {
				unit = "bohr"
			}
			f, err := units.factor(unit, "qe-in")
			if err != nil {
				return nil, errDecorate(err, "qeInputCodec.Parse")
			}
			lat, err := readQEVectors(lines, i, "qe-in")
			if err != nil {
				return nil, errDecorate(err, "qeInputCodec.Parse")
			}
			lat = scaleVecs(lat, f)
			if frame, err = chem.NewLatticeFrame(lat[0], lat[1], lat[2]); err != nil {
				return nil, errDecorate(err, "qeInputCodec.Parse")
			}
			if ibrav < 0 {
				ibrav = 0
			}
		case "ATOMIC_POSITIONS":
			posLine = i
			posUnits = units
		}
	}
	switch {
	case ibrav > 0:
		if nlUnits.alat <= 0 {
			return nil, errDecorate(chem.StructuralParseError("qe-in", "celldm(1) or A"), "qeInputCodec.Parse")
		}
		lat, err := qeBravais(ibrav, nl, nlUnits.alat)
		if err != nil {
			return nil, errDecorate(err, "qeInputCodec.Parse")
		}
		if frame, err = chem.NewLatticeFrame(lat[0], lat[1], lat[2]); err != nil {
			return nil, errDecorate(err, "qeInputCodec.Parse")
		}
	case frame == nil:
		return nil, errDecorate(chem.StructuralParseError("qe-in", "CELL_PARAMETERS"), "qeInputCodec.Parse")
	}
	S.SetCell(frame.Cell)
	if posLine < 0 {
		return nil, errDecorate(chem.StructuralParseError("qe-in", "ATOMIC_POSITIONS"), "qeInputCodec.Parse")
	}
	unit, _ := qeCardOption(lines[posLine])
	if _, err := qePositions(Q.opts, "qe-in", lines, posLine, nat, unit, posUnits, frame, S); err != nil {
		return nil, errDecorate(err, "qeInputCodec.Parse")
	}
	return S, nil
}

// Serialize writes a pw.x scf input with ibrav=0, the cell in angstrom and
// crystal coordinates. It requires a cell.
func (Q *qeInputCodec) Serialize(S *chem.Structure) (string, error) {
	cell, err := needCell(S, "qe-in")
	if err != nil {
		return "", errDecorate(err, "qeInputCodec.Serialize")
	}
	frac, err := S.Fractional()
	if err != nil {
		return "", errDecorate(err, "qeInputCodec.Serialize")
	}
	var species []string
	seen := make(map[string]bool)
	fixed := false
	for _, at := range S.Atoms() {
		fixed = fixed || at.Fixed
		if !seen[at.Symbol] {
			seen[at.Symbol] = true
			species = append(species, at.Symbol)
		}
	}
	prefix := strings.Join(strings.Fields(S.Name), "_")
	if prefix == "" {
		prefix = "pwscf"
	}
	var b strings.Builder
	b.WriteString("&CONTROL\n  calculation = 'scf'\n")
	fmt.Fprintf(&b, "  prefix = '%s'\n/\n", strings.ReplaceAll(prefix, "'", ""))
	fmt.Fprintf(&b, "&SYSTEM\n  ibrav = 0\n  nat = %d\n  ntyp = %d\n  ecutwfc = 30.0\n", S.Len(), len(species))
	if S.Charge() != 0 {
		fmt.Fprintf(&b, "  tot_charge = %d\n", S.Charge())
	}
	b.WriteString("/\n&ELECTRONS\n/\n")
	b.WriteString("ATOMIC_SPECIES\n")
	for _, s := range species {
		fmt.Fprintf(&b, "  %-3s %10.4f  %s.UPF\n", s, chem.Mass(s), s)
	}
	b.WriteString("CELL_PARAMETERS angstrom\n")
	for _, v := range cell.LatticeVectors() {
		fmt.Fprintf(&b, "  %20.14f %20.14f %20.14f\n", v.X, v.Y, v.Z)
	}
	b.WriteString("ATOMIC_POSITIONS crystal\n")
	for i, at := range S.Atoms() {
		f := frac[i]
		fmt.Fprintf(&b, "  %-3s %18.14f %18.14f %18.14f", at.Symbol, f.X, f.Y, f.Z)
		if fixed {
			if at.Fixed {
				b.WriteString(" 0 0 0")
			} else {
				b.WriteString(" 1 1 1")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("K_POINTS gamma\n")
	return b.String(), nil
}
