/*
 * orca.go, part of gostruct.
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
	"regexp"
	"strconv"
	"strings"

	chem "github.com/rmera/gostruct"
	"gonum.org/v1/gonum/spatial/r3"
)

// orcaCodec reads and writes ORCA inputs with an inline "* xyz" geometry.
type orcaCodec struct {
	opts Options
}

var orcaCConstraint = regexp.MustCompile(`(?i)\{\s*C\s+(\d+)\s+C\s*\}`)

// Parse reads the "* xyz charge mult" block. Coordinates are in A unless
// the keyword lines have Bohrs. Cartesian constraints in %geom mark atoms as fixed.
func (O *orcaCodec) Parse(content string) (*chem.Structure, error) {
	lines := splitLines(content)
	scale := 1.0
	start := -1
	var cm []int
	for i, l := range lines {
		t := strings.TrimSpace(stripComment(l, "#"))
		if strings.HasPrefix(t, "!") {
			for _, k := range strings.Fields(t[1:]) {
				if strings.EqualFold(k, "bohrs") {
					scale = chem.Bohr2A
				}
			}
			continue
		}
		if !strings.HasPrefix(t, "*") {
			continue
		}
		f := strings.Fields(strings.TrimPrefix(t, "*"))
		if len(f) < 3 || !strings.EqualFold(f[0], "xyz") {
			return nil, errDecorate(chem.StructuralParseError("orca", "inline * xyz block"), "orcaCodec.Parse")
		}
		var err error
		cm, err = parseInts(f[1:3])
		if err != nil {
			return nil, errDecorate(chem.StructuralParseError("orca", "charge and multiplicity"), "orcaCodec.Parse")
		}
		start = i
		break
	}
	if start < 0 {
		return nil, errDecorate(chem.StructuralParseError("orca", "* xyz block"), "orcaCodec.Parse")
	}
	S := chem.NewStructure("")
	S.SetCharge(cm[0])
	S.SetMulti(cm[1])
	var ids []string //ID for each line of the block, "" if it was dropped
	closed := false
	for i := start + 1; i < len(lines); i++ {
		line := lines[i]
		t := strings.TrimSpace(stripComment(line, "#"))
		if t == "" {
			continue
		}
		if strings.HasPrefix(t, "*") {
			closed = true
			break
		}
		f := strings.Fields(t)
		pos, err := parseVec(f[1:])
		if err != nil {
			O.opts.malformed("orca", i+1, line, err)
			ids = append(ids, "")
			continue
		}
		n := S.Len()
		if O.opts.addAtom(S, "orca", f[0], r3.Scale(scale, pos), false, i+1, line) {
			ids = append(ids, S.Atom(n).ID)
		} else {
			ids = append(ids, "")
		}
	}
	if !closed {
		return nil, errDecorate(chem.StructuralParseError("orca", "closing * of the xyz block"), "orcaCodec.Parse")
	}
	if g := strings.Index(strings.ToLower(content), "%geom"); g >= 0 {
		for _, m := range orcaCConstraint.FindAllStringSubmatch(content[g:], -1) {
			k, _ := strconv.Atoi(m[1])
			if k < len(ids) && ids[k] != "" {
				S.SetFixed(ids[k], true)
			}
		}
	}
	for _, l := range lines[:start] {
		if t := strings.TrimSpace(l); strings.HasPrefix(t, "#") {
			S.Name = strings.TrimSpace(strings.TrimPrefix(t, "#"))
			break
		}
	}
	return S, nil
}

// buildCConstraints writes the fixed atoms as ORCA Cartesian constraints.
func buildCConstraints(S *chem.Structure) string {
	var C []int
	for i, at := range S.Atoms() {
		if at.Fixed {
			C = append(C, i)
		}
	}
	if C == nil {
		return ""
	}
	constraints := make([]string, len(C)+3)
	constraints[0] = "%geom Constraints\n"
	for key, val := range C {
		constraints[key+1] = fmt.Sprintf("         {C %d C}\n", val)
	}
	last := len(constraints) - 1
	constraints[last-1] = "         end\n"
	constraints[last] = " end\n"
	return strings.Join(constraints, "")
}

// Serialize writes an ORCA input. Fixed atoms become Cartesian constraints, and
// then the input asks for an optimization.
func (O *orcaCodec) Serialize(S *chem.Structure) (string, error) {
	var b strings.Builder
	if t := singleLine(S.Name); t != "" {
		fmt.Fprintf(&b, "# %s\n", t)
	}
	constraints := buildCConstraints(S)
	if constraints != "" {
		b.WriteString("! BLYP def2-SVP Opt\n")
		b.WriteString(constraints)
	} else {
		b.WriteString("! BLYP def2-SVP\n")
	}
	fmt.Fprintf(&b, "\n* xyz %d %d\n", S.Charge(), S.Multi())
	for _, at := range S.Atoms() {
		p := at.Position
		fmt.Fprintf(&b, "%-2s  %14.8f %14.8f %14.8f\n", at.Symbol, p.X, p.Y, p.Z)
	}
	b.WriteString("*\n")
	return b.String(), nil
}
