/*
 * poscar.go, part of gostruct.
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
	"strings"

	chem "github.com/rmera/gostruct"
	"gonum.org/v1/gonum/spatial/r3"
)

// vaspHeader is the part shared by POSCAR and XDATCAR files: title, scale,
// lattice and species.
type vaspHeader struct {
	title   string
	frame   *chem.LatticeFrame
	scale   r3.Vec   //applied to Cartesian coordinates
	symbols []string //one per species, as written in the file
	counts  []int
}

func (h *vaspHeader) total() int {
	n := 0
	for _, v := range h.counts {
		n += v
	}
	return n
}

// species returns the element token of every atom, in order.
func (h *vaspHeader) species() []string {
	ret := make([]string, 0, h.total())
	for i, n := range h.counts {
		for j := 0; j < n; j++ {
			ret = append(ret, h.symbols[i])
		}
	}
	return ret
}

// symbolsFromTitle finds element symbols in a title such as "Fe2O3 hematite",
// in order and without repetitions. It is a heuristic, used only for files
// without a symbols line.
func symbolsFromTitle(title string) []string {
	var ret []string
	seen := make(map[string]bool)
	for i := 0; i < len(title); i++ {
		c := title[i]
		if c < 'A' || c > 'Z' {
			continue
		}
		s := ""
		if i+1 < len(title) && title[i+1] >= 'a' && title[i+1] <= 'z' && chem.IsElement(title[i:i+2]) {
			s = title[i : i+2]
		} else if chem.IsElement(title[i : i+1]) {
			s = title[i : i+1]
		}
		if s != "" && !seen[s] {
			seen[s] = true
			ret = append(ret, s)
		}
	}
	return ret
}

// parseVaspHeader reads a header starting at lines[i] and returns it with the
// index of the first line after the atom counts.
func parseVaspHeader(lines []string, i int, format string) (*vaspHeader, int, error) {
	if i+6 > len(lines) {
		return nil, i, chem.StructuralParseError(format, "header")
	}
	h := &vaspHeader{title: strings.TrimSpace(lines[i])}
	sc, err := parseFloats(strings.Fields(lines[i+1]))
	if err != nil || (len(sc) != 1 && len(sc) != 3) || (len(sc) == 3 && (sc[0] <= 0 || sc[1] <= 0 || sc[2] <= 0)) || sc[0] == 0 {
		return nil, i, chem.StructuralParseError(format, "scale factor")
	}
	var lat [3]r3.Vec
	for k := 0; k < 3; k++ {
		lat[k], err = parseVec(strings.Fields(lines[i+2+k]))
		if err != nil {
			return nil, i, chem.StructuralParseError(format, "lattice vectors")
		}
	}
	switch {
	case len(sc) == 3:
		h.scale = r3.Vec{X: sc[0], Y: sc[1], Z: sc[2]}
		for k := range lat {
			lat[k] = r3.Vec{X: lat[k].X * sc[0], Y: lat[k].Y * sc[1], Z: lat[k].Z * sc[2]}
		}
	case sc[0] < 0:
		det := math.Abs(chem.Det3(lat))
		if det < 1e-12 {
			return nil, i, chem.NewError(chem.KindDegenerateGeometry, "%s: lattice with zero volume", format)
		}
		s := math.Cbrt(-sc[0] / det)
		h.scale = r3.Vec{X: s, Y: s, Z: s}
		lat = scaleVecs(lat, s)
	default:
		h.scale = r3.Vec{X: sc[0], Y: sc[0], Z: sc[0]}
		lat = scaleVecs(lat, sc[0])
	}
	h.frame, err = chem.NewLatticeFrame(lat[0], lat[1], lat[2])
	if err != nil {
		return nil, i, errDecorate(err, "parseVaspHeader")
	}
	j := i + 5
	f := strings.Fields(lines[j])
	if len(f) > 0 && !isInt(f[0]) {
		h.symbols = f
		j++
		if j >= len(lines) {
			return nil, i, chem.StructuralParseError(format, "atom counts")
		}
		f = strings.Fields(lines[j])
	}
	h.counts, err = parseInts(f)
	if err != nil || len(h.counts) == 0 {
		return nil, i, chem.StructuralParseError(format, "atom counts")
	}
	if h.symbols == nil {
		inferred := symbolsFromTitle(h.title)
		if len(inferred) < len(h.counts) {
			return nil, i, chem.StructuralParseError(format, "element symbols")
		}
		h.symbols = inferred[:len(h.counts)]
	}
	if len(h.symbols) != len(h.counts) {
		return nil, i, chem.StructuralParseError(format, "atom counts matching the element symbols")
	}
	return h, j + 1, nil
}

type poscarCodec struct {
	opts Options
}

// Parse reads a POSCAR/CONTCAR file.
func (P *poscarCodec) Parse(content string) (*chem.Structure, error) {
	lines := splitLines(content)
	h, i, err := parseVaspHeader(lines, 0, "poscar")
	if err != nil {
		return nil, errDecorate(err, "poscarCodec.Parse")
	}
	if i >= len(lines) {
		return nil, errDecorate(chem.StructuralParseError("poscar", "coordinate mode line"), "poscarCodec.Parse")
	}
	selective := false
	if m := strings.TrimSpace(lines[i]); m != "" && (m[0] == 's' || m[0] == 'S') {
		selective = true
		i++
	}
	if i >= len(lines) {
		return nil, errDecorate(chem.StructuralParseError("poscar", "coordinate mode line"), "poscarCodec.Parse")
	}
	direct := false
	switch m := strings.TrimSpace(lines[i]); {
	case m != "" && strings.ContainsRune("dD", rune(m[0])):
		direct = true
	case m != "" && strings.ContainsRune("cCkK", rune(m[0])):
	default:
		return nil, errDecorate(chem.StructuralParseError("poscar", "coordinate mode line"), "poscarCodec.Parse")
	}
	i++
	species := h.species()
	if i+len(species) > len(lines) {
		return nil, errDecorate(chem.StructuralParseError("poscar", "coordinates"), "poscarCodec.Parse")
	}
	S := chem.NewStructure(h.title)
	S.SetCell(h.frame.Cell)
	for k, sym := range species {
		line := lines[i+k]
		f := strings.Fields(line)
		v, err := parseVec(f)
		if err != nil {
			P.opts.malformed("poscar", i+k+1, line, err)
			continue
		}
		var pos r3.Vec
		if direct {
			pos = h.frame.FromFractional(v)
		} else {
			pos = h.frame.FromCartesian(r3.Vec{X: v.X * h.scale.X, Y: v.Y * h.scale.Y, Z: v.Z * h.scale.Z})
		}
		fixed := false
		if selective && len(f) >= 6 {
			fixed = isFalseFlag(f[3]) && isFalseFlag(f[4]) && isFalseFlag(f[5])
		}
		P.opts.addAtom(S, "poscar", sym, pos, fixed, i+k+1, line)
	}
	return S, nil
}

func isFalseFlag(s string) bool {
	return strings.EqualFold(s, "F") || strings.EqualFold(s, ".false.")
}

// speciesRuns groups consecutive atoms with the same element, which keeps the
// atom order when written as the symbols and counts lines: O H H O becomes
// "O H O" and "1 2 1".
func speciesRuns(S *chem.Structure) ([]string, []int) {
	var syms []string
	var counts []int
	for _, at := range S.Atoms() {
		if n := len(syms); n > 0 && syms[n-1] == at.Symbol {
			counts[n-1]++
			continue
		}
		syms = append(syms, at.Symbol)
		counts = append(counts, 1)
	}
	return syms, counts
}

// writeVaspHeader writes title, scale, lattice, symbols and counts.
func writeVaspHeader(b *strings.Builder, S *chem.Structure, cell chem.UnitCell) {
	title := singleLine(S.Name)
	if title == "" {
		title = S.Formula()
	}
	fmt.Fprintf(b, "%s\n%19.14f\n", title, 1.0)
	for _, v := range cell.LatticeVectors() {
		fmt.Fprintf(b, " %22.16f %22.16f %22.16f\n", v.X, v.Y, v.Z)
	}
	syms, counts := speciesRuns(S)
	for _, s := range syms {
		fmt.Fprintf(b, " %4s", s)
	}
	b.WriteString("\n")
	for _, c := range counts {
		fmt.Fprintf(b, " %4d", c)
	}
	b.WriteString("\n")
}

// Serialize writes a POSCAR with direct coordinates. It requires a cell.
func (P *poscarCodec) Serialize(S *chem.Structure) (string, error) {
	cell, err := needCell(S, "poscar")
	if err != nil {
		return "", errDecorate(err, "poscarCodec.Serialize")
	}
	if S.Len() == 0 {
		return "", errDecorate(chem.PreconditionError("poscar", "structure has no atoms"), "poscarCodec.Serialize")
	}
	frac, err := S.Fractional()
	if err != nil {
		return "", errDecorate(err, "poscarCodec.Serialize")
	}
	var b strings.Builder
	writeVaspHeader(&b, S, cell)
	selective := false
	for _, at := range S.Atoms() {
		selective = selective || at.Fixed
	}
	if selective {
		b.WriteString("Selective dynamics\n")
	}
	b.WriteString("Direct\n")
	for i, at := range S.Atoms() {
		f := frac[i]
		fmt.Fprintf(&b, " %19.16f %19.16f %19.16f", f.X, f.Y, f.Z)
		if selective {
			flag := "T"
			if at.Fixed {
				flag = "F"
			}
			fmt.Fprintf(&b, " %s %s %s", flag, flag, flag)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
