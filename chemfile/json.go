/*
 * json.go, part of gostruct.
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
	"encoding/json"
	"strings"

	chem "github.com/rmera/gostruct"
	"gonum.org/v1/gonum/spatial/r3"
)

// jsonCodec reads and writes the JSON representation of structures, including
// the bond overrides, which no other format keeps. A trajectory is a JSON array.
type jsonCodec struct {
	opts Options
}

// A ready-to-serialize container for an atom.
type jsonAtom struct {
	ID       string     `json:"id"`
	Symbol   string     `json:"symbol"`
	Position [3]float64 `json:"position"`
	Fixed    bool       `json:"fixed,omitempty"`
}

type jsonCell struct {
	Lengths [3]float64 `json:"lengths"`
	Angles  [3]float64 `json:"angles"`
}

type jsonStructure struct {
	Name            string      `json:"name"`
	Charge          int         `json:"charge"`
	Multiplicity    int         `json:"multiplicity"`
	Cell            *jsonCell   `json:"cell,omitempty"`
	Supercell       *[3]int     `json:"supercell,omitempty"`
	Atoms           []jsonAtom  `json:"atoms"`
	ManualBonds     [][2]string `json:"manual_bonds,omitempty"`
	SuppressedBonds [][2]string `json:"suppressed_bonds,omitempty"`
}

func toJSON(S *chem.Structure) jsonStructure {
	J := jsonStructure{Name: S.Name, Charge: S.Charge(), Multiplicity: S.Multi()}
	if cell, ok := S.Cell(); ok {
		a, b, c := cell.Lengths()
		al, be, ga := cell.Angles()
		J.Cell = &jsonCell{Lengths: [3]float64{a, b, c}, Angles: [3]float64{al, be, ga}}
		if sc := S.Supercell(); sc != [3]int{1, 1, 1} {
			J.Supercell = &sc
		}
	}
	J.Atoms = make([]jsonAtom, 0, S.Len())
	for _, at := range S.Atoms() {
		p := at.Position
		J.Atoms = append(J.Atoms, jsonAtom{ID: at.ID, Symbol: at.Symbol, Position: [3]float64{p.X, p.Y, p.Z}, Fixed: at.Fixed})
	}
	for _, p := range S.ManualBonds() {
		J.ManualBonds = append(J.ManualBonds, [2]string{p.A, p.B})
	}
	for _, p := range S.SuppressedBonds() {
		J.SuppressedBonds = append(J.SuppressedBonds, [2]string{p.A, p.B})
	}
	return J
}

// fromJSON builds the structure. Atoms get new IDs, and the bond overrides
// are translated to them. Overrides naming unknown atoms are reported and dropped.
func (T *jsonCodec) fromJSON(J jsonStructure) (*chem.Structure, error) {
	S := chem.NewStructure(J.Name)
	S.SetCharge(J.Charge)
	if J.Multiplicity != 0 {
		S.SetMulti(J.Multiplicity)
	}
	if J.Cell != nil {
		l, a := J.Cell.Lengths, J.Cell.Angles
		cell, err := chem.NewUnitCell(l[0], l[1], l[2], a[0], a[1], a[2])
		if err != nil {
			return nil, err
		}
		S.SetCell(cell)
		if J.Supercell != nil {
			sc := *J.Supercell
			if err := S.SetSupercell(sc[0], sc[1], sc[2]); err != nil {
				return nil, err
			}
		}
	}
	ids := make(map[string]string, len(J.Atoms))
	for i, ja := range J.Atoms {
		pos := r3.Vec{X: ja.Position[0], Y: ja.Position[1], Z: ja.Position[2]}
		sym, err := chem.NormalizeSymbol(ja.Symbol)
		var at *chem.Atom
		if err == nil {
			at, err = S.AddAtom(sym, pos, ja.Fixed)
		}
		if err != nil {
			T.opts.report(&chem.LineWarning{Format: "json", Line: i + 1, Text: ja.Symbol, Kind: chem.KindUnknownElement, Cause: err})
			continue
		}
		if ja.ID != "" {
			ids[ja.ID] = at.ID
		}
	}
	apply := func(pairs [][2]string, f func(a, b string) error) {
		for i, p := range pairs {
			a, aok := ids[p[0]]
			b, bok := ids[p[1]]
			var err error
			if !aok || !bok {
				err = chem.NewError(chem.KindMalformedLine, "bond between unknown atoms %q and %q", p[0], p[1])
			} else {
				err = f(a, b)
			}
			if err != nil {
				T.opts.malformed("json", i+1, p[0]+"-"+p[1], err)
			}
		}
	}
	apply(J.SuppressedBonds, S.SuppressBond)
	apply(J.ManualBonds, S.AddManualBond)
	return S, nil
}

// Parse reads a single structure. If content holds an array, the last element is returned.
func (T *jsonCodec) Parse(content string) (*chem.Structure, error) {
	if !isJSONArray(content) {
		var J jsonStructure
		if err := json.Unmarshal([]byte(content), &J); err != nil {
			return nil, errDecorate(chem.WrapError(chem.KindStructuralParse, err, "json"), "jsonCodec.Parse")
		}
		S, err := T.fromJSON(J)
		return S, errDecorate(err, "jsonCodec.Parse")
	}
	S, err := lastFrame(T, content)
	return S, errDecorate(err, "jsonCodec.Parse")
}

func isJSONArray(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), "[")
}

// ParseTrajectory reads either one object or an array of them.
func (T *jsonCodec) ParseTrajectory(content string) ([]*chem.Structure, error) {
	if !isJSONArray(content) {
		S, err := T.Parse(content)
		if err != nil {
			return nil, errDecorate(err, "jsonCodec.ParseTrajectory")
		}
		return []*chem.Structure{S}, nil
	}
	var Js []jsonStructure
	if err := json.Unmarshal([]byte(content), &Js); err != nil {
		return nil, errDecorate(chem.WrapError(chem.KindStructuralParse, err, "json"), "jsonCodec.ParseTrajectory")
	}
	if len(Js) == 0 {
		return nil, errDecorate(chem.StructuralParseError("json", "at least one structure"), "jsonCodec.ParseTrajectory")
	}
	ret := make([]*chem.Structure, 0, len(Js))
	for _, J := range Js {
		S, err := T.fromJSON(J)
		if err != nil {
			return nil, errDecorate(err, "jsonCodec.ParseTrajectory")
		}
		ret = append(ret, S)
	}
	return ret, nil
}

// Serialize writes S as an indented JSON object.
func (T *jsonCodec) Serialize(S *chem.Structure) (string, error) {
	b, err := json.MarshalIndent(toJSON(S), "", "  ")
	if err != nil {
		return "", errDecorate(err, "jsonCodec.Serialize")
	}
	return string(b) + "\n", nil
}

// SerializeTrajectory writes the frames as a JSON array.
func (T *jsonCodec) SerializeTrajectory(frames []*chem.Structure) (string, error) {
	Js := make([]jsonStructure, 0, len(frames))
	for _, S := range frames {
		Js = append(Js, toJSON(S))
	}
	b, err := json.MarshalIndent(Js, "", "  ")
	if err != nil {
		return "", errDecorate(err, "jsonCodec.SerializeTrajectory")
	}
	return string(b) + "\n", nil
}
