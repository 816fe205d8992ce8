/*
 * xyz.go, part of gostruct.
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

// xyzCodec reads and writes XYZ and extended XYZ. Both share the reader, which
// understands the Lattice and Properties keys of the comment line.
type xyzCodec struct {
	opts     Options
	extended bool
}

func (X *xyzCodec) name() string {
	if X.extended {
		return "extxyz"
	}
	return "xyz"
}

// Parse returns the last frame.
func (X *xyzCodec) Parse(content string) (*chem.Structure, error) {
	S, err := lastFrame(X, content)
	return S, errDecorate(err, "xyzCodec.Parse")
}

// ParseTrajectory reads every frame in the file.
func (X *xyzCodec) ParseTrajectory(content string) ([]*chem.Structure, error) {
	lines := splitLines(content)
	frames := make([]*chem.Structure, 0, 1)
	for i := nextNonBlank(lines, 0); i < len(lines); i = nextNonBlank(lines, i) {
		f := strings.Fields(lines[i])
		n, err := strconv.Atoi(f[0])
		if err != nil || n < 0 {
			if len(frames) == 0 {
				return nil, errDecorate(chem.StructuralParseError(X.name(), "atom count line"), "xyzCodec.ParseTrajectory")
			}
			X.opts.malformed(X.name(), i+1, lines[i], fmt.Errorf("expected an atom count, reading stopped"))
			break
		}
		comment := ""
		if i+1 < len(lines) {
			comment = lines[i+1]
		}
		end := i + 2 + n
		if end > len(lines) {
			if len(frames) > 0 {
				X.opts.malformed(X.name(), i+1, lines[i], fmt.Errorf("truncated frame with %d of %d atoms dropped", len(lines)-i-2, n))
				break
			}
			end = len(lines)
		}
		S, err := X.frame(lines, i+2, end, comment)
		if err != nil {
			return nil, errDecorate(err, "xyzCodec.ParseTrajectory")
		}
		frames = append(frames, S)
		i = end
	}
	if len(frames) == 0 {
		return nil, errDecorate(chem.StructuralParseError(X.name(), "atom count line"), "xyzCodec.ParseTrajectory")
	}
	return frames, nil
}

//xyzColumns tells where to find each property in an atom line.
type xyzColumns struct {
	species int
	pos     int
	mask    int //move_mask, 3 logical columns, -1 if absent
	fixed   int //fixed, 1 logical column, -1 if absent
	min     int //minimum number of fields in a line
}

var defaultXYZColumns = xyzColumns{species: 0, pos: 1, mask: -1, fixed: -1, min: 4}

// parseProperties reads an extended XYZ Properties value, such as
// species:S:1:pos:R:3:move_mask:L:3
func parseProperties(p string) (xyzColumns, error) {
	c := xyzColumns{species: -1, pos: -1, mask: -1, fixed: -1}
	f := strings.Split(p, ":")
	if len(f)%3 != 0 {
		return c, fmt.Errorf("Properties %q is not a list of name:type:count triplets", p)
	}
	col := 0
	for i := 0; i < len(f); i += 3 {
		n, err := strconv.Atoi(f[i+2])
		if err != nil || n < 1 {
			return c, fmt.Errorf("bad column count in Properties %q", p)
		}
		switch strings.ToLower(f[i]) {
		case "species", "element", "symbol":
			c.species = col
		case "pos", "positions":
			if n != 3 {
				return c, fmt.Errorf("pos must have 3 columns")
			}
			c.pos = col
		case "move_mask":
			if n == 3 {
				c.mask = col
			}
		case "fixed":
			if n == 1 {
				c.fixed = col
			}
		}
		col += n
	}
	if c.species < 0 || c.pos < 0 {
		return c, fmt.Errorf("Properties %q lacks species or pos", p)
	}
	c.min = col
	return c, nil
}

// parseKeyValues parses the key=value pairs of an extended XYZ comment line.
// Values may be quoted with double quotes. Keys are returned in lowercase.
func parseKeyValues(s string) map[string]string {
	ret := make(map[string]string)
	i := 0
	for i < len(s) {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		start := i
		for i < len(s) && s[i] != '=' && s[i] != ' ' && s[i] != '\t' {
			i++
		}
		key := strings.ToLower(s[start:i])
		if i >= len(s) || s[i] != '=' {
			if key != "" {
				ret[key] = ""
			}
			continue
		}
		i++ //the '='
		var val string
		if i < len(s) && s[i] == '"' {
			end := strings.IndexByte(s[i+1:], '"')
			if end < 0 {
				val = s[i+1:]
				i = len(s)
			} else {
				val = s[i+1 : i+1+end]
				i += end + 2
			}
		} else {
			start = i
			for i < len(s) && s[i] != ' ' && s[i] != '\t' {
				i++
			}
			val = s[start:i]
		}
		if key != "" {
			ret[key] = val
		}
	}
	return ret
}

func xyzLogical(s string) bool {
	switch strings.ToLower(s) {
	case "t", "true", "1":
		return true
	}
	return false
}

func (X *xyzCodec) frame(lines []string, start, end int, comment string) (*chem.Structure, error) {
	kv := parseKeyValues(comment)
	cols := defaultXYZColumns
	S := chem.NewStructure("")
	var frame *chem.LatticeFrame
	if p, ok := kv["properties"]; ok {
		c, err := parseProperties(p)
		if err != nil {
			X.opts.malformed(X.name(), start, comment, err)
		} else {
			cols = c
		}
	}
	if l, ok := kv["lattice"]; ok {
		v, err := parseFloats(strings.Fields(l))
		if err != nil || len(v) != 9 {
			X.opts.malformed(X.name(), start, comment, fmt.Errorf("Lattice needs 9 numbers"))
		} else {
			frame, err = chem.NewLatticeFrame(r3.Vec{X: v[0], Y: v[1], Z: v[2]}, r3.Vec{X: v[3], Y: v[4], Z: v[5]}, r3.Vec{X: v[6], Y: v[7], Z: v[8]})
			if err != nil {
				return nil, errDecorate(err, "frame")
			}
			S.SetCell(frame.Cell)
		}
	}
	if n, ok := kv["name"]; ok {
		S.Name = n
	} else if _, ok := kv["lattice"]; !ok {
		if _, ok := kv["properties"]; !ok {
			S.Name = strings.TrimSpace(comment)
		}
	}
	for i := start; i < end; i++ {
		f := strings.Fields(lines[i])
		if len(f) < cols.min {
			X.opts.malformed(X.name(), i+1, lines[i], fmt.Errorf("expected at least %d fields", cols.min))
			continue
		}
		pos, err := parseVec(f[cols.pos:])
		if err != nil {
			X.opts.malformed(X.name(), i+1, lines[i], err)
			continue
		}
		if frame != nil {
			pos = frame.FromCartesian(pos)
		}
		fixed := false
		if cols.mask >= 0 {
			fixed = !xyzLogical(f[cols.mask]) && !xyzLogical(f[cols.mask+1]) && !xyzLogical(f[cols.mask+2])
		} else if cols.fixed >= 0 {
			fixed = xyzLogical(f[cols.fixed])
		}
		X.opts.addAtom(S, X.name(), f[cols.species], pos, fixed, i+1, lines[i])
	}
	return S, nil
}

// Serialize writes one frame.
func (X *xyzCodec) Serialize(S *chem.Structure) (string, error) {
	var b strings.Builder
	X.write(&b, S)
	return b.String(), nil
}

// SerializeTrajectory writes the frames one after the other.
func (X *xyzCodec) SerializeTrajectory(frames []*chem.Structure) (string, error) {
	if len(frames) == 0 {
		return "", chem.PreconditionError(X.name(), "no frames to write")
	}
	var b strings.Builder
	for _, S := range frames {
		X.write(&b, S)
	}
	return b.String(), nil
}

func (X *xyzCodec) write(b *strings.Builder, S *chem.Structure) {
	fixed := false
	for _, at := range S.Atoms() {
		fixed = fixed || at.Fixed
	}
	masks := X.extended && fixed
	cell, crystal := S.Cell()
	fmt.Fprintf(b, "%d\n", S.Len())
	if crystal || X.extended {
		if crystal {
			v := cell.LatticeVectors()
			fmt.Fprintf(b, "Lattice=\"%.10f %.10f %.10f %.10f %.10f %.10f %.10f %.10f %.10f\" ",
				v[0].X, v[0].Y, v[0].Z, v[1].X, v[1].Y, v[1].Z, v[2].X, v[2].Y, v[2].Z)
		}
		b.WriteString("Properties=species:S:1:pos:R:3")
		if masks {
			b.WriteString(":move_mask:L:3")
		}
		if crystal {
			b.WriteString(" pbc=\"T T T\"")
		}
		if S.Name != "" {
			fmt.Fprintf(b, " name=%q", singleLine(strings.ReplaceAll(S.Name, "\"", "'")))
		}
		b.WriteString("\n")
	} else {
		b.WriteString(singleLine(S.Name) + "\n")
	}
	for _, at := range S.Atoms() {
		p := at.Position
		fmt.Fprintf(b, "%-2s %15.10f %15.10f %15.10f", at.Symbol, p.X, p.Y, p.Z)
		if masks {
			m := "T"
			if at.Fixed {
				m = "F"
			}
			fmt.Fprintf(b, " %s %s %s", m, m, m)
		}
		b.WriteString("\n")
	}
}
