/*
 * outcar.go, part of gostruct.
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
	"strings"

	chem "github.com/rmera/gostruct"
	"gonum.org/v1/gonum/spatial/r3"
)

// outcarCodec reads VASP OUTCAR files. They can't be written.
type outcarCodec struct {
	opts Options
}

// Parse returns the last ionic step.
func (O *outcarCodec) Parse(content string) (*chem.Structure, error) {
	S, err := lastFrame(O, content)
	return S, errDecorate(err, "outcarCodec.Parse")
}

// outcarSpecies picks the species list from the sources found in the file,
// in order of preference: TITEL, VRHFIN, POTCAR. The POTCAR lines are printed
// twice in most OUTCARs, so a list made of two equal halves is halved.
func outcarSpecies(titel, vrhfin, potcar []string) []string {
	switch {
	case len(titel) > 0:
		return titel
	case len(vrhfin) > 0:
		return vrhfin
	}
	if n := len(potcar); n > 0 && n%2 == 0 && sameStrings(potcar[:n/2], potcar[n/2:]) {
		return potcar[:n/2]
	}
	return potcar
}

// potcarSymbol extracts the element from a pseudopotential name such as
// "PAW_PBE Fe_pv 06Sep2000".
func potcarSymbol(s string) string {
	f := strings.Fields(s)
	switch len(f) {
	case 0:
		return ""
	case 1:
		return f[0]
	}
	return f[1]
}

// ParseTrajectory returns one frame per POSITION/TOTAL-FORCE block, each
// with the last lattice printed before it.
func (O *outcarCodec) ParseTrajectory(content string) ([]*chem.Structure, error) {
	lines := splitLines(content)
	var titel, vrhfin, potcar []string
	var counts []int
	var frame *chem.LatticeFrame
	var frames []*chem.Structure
	var species []string
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch {
		case strings.Contains(line, "TITEL"):
			if _, v, ok := strings.Cut(line, "="); ok {
				titel = append(titel, potcarSymbol(v))
			}
		case strings.Contains(line, "VRHFIN"):
			if _, v, ok := strings.Cut(line, "="); ok {
				v, _, _ = strings.Cut(v, ":")
				vrhfin = append(vrhfin, strings.TrimSpace(v))
			}
		case strings.HasPrefix(strings.TrimSpace(line), "POTCAR:"):
			_, v, _ := strings.Cut(line, ":")
			potcar = append(potcar, potcarSymbol(v))
		case strings.Contains(line, "ions per type"):
			_, v, _ := strings.Cut(line, "=")
			c, err := parseInts(strings.Fields(v))
			if err != nil {
				return nil, errDecorate(chem.WrapError(chem.KindStructuralParse, err, "outcar: invalid ions per type line"), "outcarCodec.ParseTrajectory")
			}
			counts = c
		case strings.Contains(line, "direct lattice vectors"):
			if i+3 >= len(lines) {
				return nil, errDecorate(chem.StructuralParseError("outcar", "direct lattice vectors"), "outcarCodec.ParseTrajectory")
			}
			var lat [3]r3.Vec
			var err error
			for k := 0; k < 3; k++ {
				lat[k], err = parseVec(strings.Fields(lines[i+1+k]))
				if err != nil {
					return nil, errDecorate(chem.StructuralParseError("outcar", "direct lattice vectors"), "outcarCodec.ParseTrajectory")
				}
			}
			frame, err = chem.NewLatticeFrame(lat[0], lat[1], lat[2])
			if err != nil {
				return nil, errDecorate(err, "outcarCodec.ParseTrajectory")
			}
			i += 3
		case strings.Contains(line, "POSITION") && strings.Contains(line, "TOTAL-FORCE"):
			if species == nil {
				var err error
				species, err = outcarAtoms(outcarSpecies(titel, vrhfin, potcar), counts)
				if err != nil {
					return nil, errDecorate(err, "outcarCodec.ParseTrajectory")
				}
			}
			S := chem.NewStructure("")
			if frame != nil {
				S.SetCell(frame.Cell)
			}
			i++ //the dashed line
			k := 0
			for i+1 < len(lines) && k < len(species) {
				i++
				l := lines[i]
				if strings.HasPrefix(strings.TrimSpace(l), "---") {
					break
				}
				pos, err := parseVec(strings.Fields(l))
				if err != nil {
					O.opts.malformed("outcar", i+1, l, err)
					k++
					continue
				}
				if frame != nil {
					pos = frame.FromCartesian(pos)
				}
				O.opts.addAtom(S, "outcar", species[k], pos, false, i+1, l)
				k++
			}
			if k < len(species) {
				O.opts.malformed("outcar", i+1, lines[i], fmt.Errorf("POSITION block with %d of %d atoms", k, len(species)))
			}
			frames = append(frames, S)
		}
	}
	if len(frames) == 0 {
		return nil, errDecorate(chem.StructuralParseError("outcar", "POSITION/TOTAL-FORCE block"), "outcarCodec.ParseTrajectory")
	}
	return frames, nil
}

// outcarAtoms expands the species list into one element per atom.
func outcarAtoms(species []string, counts []int) ([]string, error) {
	if len(counts) == 0 {
		return nil, chem.StructuralParseError("outcar", "ions per type line")
	}
	if len(species) != len(counts) {
		return nil, chem.NewError(chem.KindStructuralParse, "outcar: %d species but %d entries in ions per type", len(species), len(counts))
	}
	var ret []string
	for i, n := range counts {
		for j := 0; j < n; j++ {
			ret = append(ret, species[i])
		}
	}
	return ret, nil
}

// Serialize always fails, OUTCAR is an output-only format.
func (O *outcarCodec) Serialize(S *chem.Structure) (string, error) {
	return "", chem.UnsupportedExportError("outcar")
}
