/*
 * xdatcar.go, part of gostruct.
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
	"strings"

	chem "github.com/rmera/gostruct"
	"gonum.org/v1/gonum/spatial/r3"
)

type xdatcarCodec struct {
	opts Options
}

var xdatcarMarker = regexp.MustCompile(`(?i)^\s*(direct|cartesian)\s+configuration`)

func isConfigMarker(line string) bool {
	return xdatcarMarker.MatchString(line)
}

// Parse returns the last frame.
func (X *xdatcarCodec) Parse(content string) (*chem.Structure, error) {
	S, err := lastFrame(X, content)
	return S, errDecorate(err, "xdatcarCodec.Parse")
}

// ParseTrajectory reads every "Direct configuration" or "Cartesian configuration" frame. A header found between
// frames, as written for variable-cell runs, replaces the current one.
func (X *xdatcarCodec) ParseTrajectory(content string) ([]*chem.Structure, error) {
	lines := splitLines(content)
	h, i, err := parseVaspHeader(lines, 0, "xdatcar")
	if err != nil {
		return nil, errDecorate(err, "xdatcarCodec.ParseTrajectory")
	}
	var frames []*chem.Structure
	for i < len(lines) {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			i++
			continue
		}
		if !isConfigMarker(line) {
			nh, next, err := parseVaspHeader(lines, i, "xdatcar")
			if err != nil {
				X.opts.malformed("xdatcar", i+1, line, fmt.Errorf("neither a configuration marker nor a header"))
				i++
				continue
			}
			h, i = nh, next
			continue
		}
		cartesian := strings.EqualFold(xdatcarMarker.FindStringSubmatch(line)[1], "cartesian")
		species := h.species()
		S := chem.NewStructure(h.title)
		S.SetCell(h.frame.Cell)
		i++
		k := 0
		for ; k < len(species) && i < len(lines) && !isConfigMarker(lines[i]); k, i = k+1, i+1 {
			v, err := parseVec(strings.Fields(lines[i]))
			if err != nil {
				X.opts.malformed("xdatcar", i+1, lines[i], err)
				continue
			}
			pos := h.frame.FromFractional(v)
			if cartesian {
				pos = h.frame.FromCartesian(r3.Vec{X: v.X * h.scale.X, Y: v.Y * h.scale.Y, Z: v.Z * h.scale.Z})
			}
			X.opts.addAtom(S, "xdatcar", species[k], pos, false, i+1, lines[i])
		}
		if k < len(species) {
			X.opts.malformed("xdatcar", i, line, fmt.Errorf("frame with %d of %d atoms dropped", k, len(species)))
			continue
		}
		frames = append(frames, S)
	}
	if len(frames) == 0 {
		return nil, errDecorate(chem.StructuralParseError("xdatcar", "complete Direct configuration frame"), "xdatcarCodec.ParseTrajectory")
	}
	return frames, nil
}

// Serialize writes a single frame.
func (X *xdatcarCodec) Serialize(S *chem.Structure) (string, error) {
	out, err := X.SerializeTrajectory([]*chem.Structure{S})
	return out, errDecorate(err, "xdatcarCodec.Serialize")
}

// SerializeTrajectory writes the frames, with a new header every time the cell
// changes. All frames must have the same elements in the same order.
func (X *xdatcarCodec) SerializeTrajectory(frames []*chem.Structure) (string, error) {
	if len(frames) == 0 {
		return "", chem.PreconditionError("xdatcar", "no frames to write")
	}
	var b strings.Builder
	ref := frames[0].Symbols()
	var prev chem.UnitCell
	for n, S := range frames {
		cell, err := needCell(S, "xdatcar")
		if err != nil {
			return "", errDecorate(err, "xdatcarCodec.SerializeTrajectory")
		}
		if !sameStrings(ref, S.Symbols()) {
			return "", chem.PreconditionError("xdatcar", fmt.Sprintf("frame %d has different elements than frame 1", n+1))
		}
		if n == 0 || cell != prev {
			writeVaspHeader(&b, S, cell)
			prev = cell
		}
		frac, err := S.Fractional()
		if err != nil {
			return "", errDecorate(err, "xdatcarCodec.SerializeTrajectory")
		}
		fmt.Fprintf(&b, "Direct configuration=%6d\n", n+1)
		for _, f := range frac {
			fmt.Fprintf(&b, " %12.8f %12.8f %12.8f\n", f.X, f.Y, f.Z)
		}
	}
	return b.String(), nil
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
