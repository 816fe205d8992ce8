/*
 * stru.go, part of gostruct.
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

// struCodec reads and writes ABACUS STRU files.
type struCodec struct {
	opts Options
}

// struLatticeConstant is 1 A in bohr. Written files use it so that the
// lattice vectors are in A.
const struLatticeConstant = 1.8897261246

var struSections = map[string]bool{
	"ATOMIC_SPECIES":       true,
	"NUMERICAL_ORBITAL":    true,
	"LATTICE_CONSTANT":     true,
	"LATTICE_VECTORS":      true,
	"LATTICE_PARAMETERS":   true,
	"ATOMIC_POSITIONS":     true,
	"NUMERICAL_DESCRIPTOR": true,
	"ABFS_ORBITAL":         true,
}

// struKeywords are the per-atom keywords other than the move flags, with the
// maximum number of values each one takes.
var struKeywords = map[string]int{
	"v": 3, "vel": 3, "velocity": 3,
	"mag": 3, "magmom": 3,
	"angle1": 1, "angle2": 1,
	"lambda": 3, "sc": 3,
}

// struLines returns the lines without comments or blank lines, with their
// original line numbers.
func struLines(content string) ([]string, []int) {
	var out []string
	var nums []int
	for i, l := range splitLines(content) {
		t := strings.TrimSpace(stripComment(l, "#", "//"))
		if t == "" {
			continue
		}
		out = append(out, t)
		nums = append(nums, i+1)
	}
	return out, nums
}

func struSection(line string) string {
	f := strings.Fields(line)
	if len(f) > 0 && struSections[strings.ToUpper(f[0])] {
		return strings.ToUpper(f[0])
	}
	return ""
}

// struMoveFlags reads the tokens after the coordinates. It returns true
// if the atom has move flags 0 0 0.
func struMoveFlags(f []string) (bool, error) {
	fixed := false
	for k := 0; k < len(f); {
		tok := strings.ToLower(f[k])
		switch {
		case tok == "m":
			if k+3 >= len(f) {
				return false, fmt.Errorf("m needs 3 flags")
			}
			fl, err := parseInts(f[k+1 : k+4])
			if err != nil {
				return false, err
			}
			fixed = fl[0] == 0 && fl[1] == 0 && fl[2] == 0
			k += 4
		case k == 0 && isInt(tok):
			if len(f) < 3 {
				return false, fmt.Errorf("bare move flags need 3 values")
			}
			fl, err := parseInts(f[0:3])
			if err != nil {
				return false, err
			}
			fixed = fl[0] == 0 && fl[1] == 0 && fl[2] == 0
			k += 3
		default:
			n, ok := struKeywords[tok]
			if !ok {
				return false, fmt.Errorf("unknown keyword %q", f[k])
			}
			k++
			for j := 0; j < n && k < len(f) && isFloat(f[k]); j++ {
				k++
			}
		}
	}
	return fixed, nil
}

// struCenter gives the fractional offset added to Cartesian_angstrom_center_* coordinates.
var struCenter = map[string]r3.Vec{
	"cartesian_angstrom_center_xyz": {X: 0.5, Y: 0.5, Z: 0.5},
	"cartesian_angstrom_center_xy":  {X: 0.5, Y: 0.5},
	"cartesian_angstrom_center_xz":  {X: 0.5, Z: 0.5},
	"cartesian_angstrom_center_yz":  {Y: 0.5, Z: 0.5},
}

// Parse reads a STRU file.
func (T *struCodec) Parse(content string) (*chem.Structure, error) {
	lines, nums := struLines(content)
	sec := make(map[string]int)
	for i, l := range lines {
		if s := struSection(l); s != "" {
			sec[s] = i
		}
	}
	lcIdx, ok := sec["LATTICE_CONSTANT"]
	if !ok || lcIdx+1 >= len(lines) {
		return nil, errDecorate(chem.StructuralParseError("stru", "LATTICE_CONSTANT"), "struCodec.Parse")
	}
	lc, err := parseFloat(strings.Fields(lines[lcIdx+1])[0])
	if err != nil || lc <= 0 {
		return nil, errDecorate(chem.StructuralParseError("stru", "LATTICE_CONSTANT value"), "struCodec.Parse")
	}
	lcA := lc * chem.Bohr2A
	lvIdx, ok := sec["LATTICE_VECTORS"]
	if !ok || lvIdx+3 >= len(lines) {
		return nil, errDecorate(chem.StructuralParseError("stru", "LATTICE_VECTORS"), "struCodec.Parse")
	}
	var lat [3]r3.Vec
	for k := 0; k < 3; k++ {
		lat[k], err = parseVec(strings.Fields(lines[lvIdx+1+k]))
		if err != nil {
			return nil, errDecorate(chem.StructuralParseError("stru", "LATTICE_VECTORS"), "struCodec.Parse")
		}
	}
	lat = scaleVecs(lat, lcA)
	frame, err := chem.NewLatticeFrame(lat[0], lat[1], lat[2])
	if err != nil {
		return nil, errDecorate(err, "struCodec.Parse")
	}
	apIdx, ok := sec["ATOMIC_POSITIONS"]
	if !ok || apIdx+1 >= len(lines) {
		return nil, errDecorate(chem.StructuralParseError("stru", "ATOMIC_POSITIONS"), "struCodec.Parse")
	}
	mode := strings.ToLower(strings.Fields(lines[apIdx+1])[0])
	var center r3.Vec
	switch {
	case mode == "direct", mode == "cartesian", mode == "cartesian_au", mode == "cartesian_angstrom":
	case strings.HasPrefix(mode, "cartesian_angstrom_center_"):
		c, ok := struCenter[mode]
		if !ok {
			return nil, errDecorate(chem.NewError(chem.KindStructuralParse, "stru: unknown coordinate mode %q", mode), "struCodec.Parse")
		}
		center = c
	default:
		return nil, errDecorate(chem.NewError(chem.KindStructuralParse, "stru: unknown coordinate mode %q", mode), "struCodec.Parse")
	}
	raw := frame.Raw()
	toCart := func(v r3.Vec) r3.Vec {
		switch mode {
		case "direct":
			return frame.FromFractional(v)
		case "cartesian":
			return frame.FromCartesian(r3.Scale(lcA, v))
		case "cartesian_au":
			return frame.FromCartesian(r3.Scale(chem.Bohr2A, v))
		}
		c := r3.Add(r3.Add(r3.Scale(center.X, raw[0]), r3.Scale(center.Y, raw[1])), r3.Scale(center.Z, raw[2]))
		return frame.FromCartesian(r3.Add(v, c))
	}
	S := chem.NewStructure("")
	S.SetCell(frame.Cell)
	i := apIdx + 2
	for i < len(lines) && struSection(lines[i]) == "" {
		//species block: label, magnetism, count, atoms
		label := strings.Fields(lines[i])[0]
		if i+2 >= len(lines) {
			return nil, errDecorate(chem.StructuralParseError("stru", "species block for "+label), "struCodec.Parse")
		}
		n, err := strconv.Atoi(strings.Fields(lines[i+2])[0])
		if err != nil || n < 0 {
			return nil, errDecorate(chem.StructuralParseError("stru", "atom count for "+label), "struCodec.Parse")
		}
		i += 3
		for k := 0; k < n; k, i = k+1, i+1 {
			if i >= len(lines) || struSection(lines[i]) != "" {
				return nil, errDecorate(chem.StructuralParseError("stru", "atom lines for "+label), "struCodec.Parse")
			}
			f := strings.Fields(lines[i])
			v, err := parseVec(f)
			if err != nil {
				T.opts.malformed("stru", nums[i], lines[i], err)
				continue
			}
			fixed, err := struMoveFlags(f[3:])
			if err != nil {
				T.opts.malformed("stru", nums[i], lines[i], err)
				continue
			}
			T.opts.addAtom(S, "stru", label, toCart(v), fixed, nums[i], lines[i])
		}
	}
	return S, nil
}

// Serialize writes the atoms grouped by species, in order of first appearance,
// with direct coordinates. It requires a cell.
func (T *struCodec) Serialize(S *chem.Structure) (string, error) {
	cell, err := needCell(S, "stru")
	if err != nil {
		return "", errDecorate(err, "struCodec.Serialize")
	}
	frac, err := S.Fractional()
	if err != nil {
		return "", errDecorate(err, "struCodec.Serialize")
	}
	var species []string
	groups := make(map[string][]int)
	for i, at := range S.Atoms() {
		if _, ok := groups[at.Symbol]; !ok {
			species = append(species, at.Symbol)
		}
		groups[at.Symbol] = append(groups[at.Symbol], i)
	}
	var b strings.Builder
	b.WriteString("ATOMIC_SPECIES\n")
	for _, s := range species {
		fmt.Fprintf(&b, "%-3s %10.4f %s.upf\n", s, chem.Mass(s), s)
	}
	fmt.Fprintf(&b, "\nLATTICE_CONSTANT\n%.10f\n\nLATTICE_VECTORS\n", struLatticeConstant)
	for _, v := range cell.LatticeVectors() {
		fmt.Fprintf(&b, " %20.14f %20.14f %20.14f\n", v.X, v.Y, v.Z)
	}
	b.WriteString("\nATOMIC_POSITIONS\nDirect\n")
	atoms := S.Atoms()
	for _, s := range species {
		fmt.Fprintf(&b, "\n%s\n0.0\n%d\n", s, len(groups[s]))
		for _, i := range groups[s] {
			f := frac[i]
			flag := 1
			if atoms[i].Fixed {
				flag = 0
			}
			fmt.Fprintf(&b, " %18.14f %18.14f %18.14f m %d %d %d\n", f.X, f.Y, f.Z, flag, flag, flag)
		}
	}
	return b.String(), nil
}
