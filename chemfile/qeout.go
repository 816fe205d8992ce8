/*
 * qeout.go, part of gostruct.
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
	"regexp"
	"strconv"
	"strings"

	chem "github.com/rmera/gostruct"
	"gonum.org/v1/gonum/spatial/r3"
)

// qeOutputCodec reads pw.x output. It can't write.
type qeOutputCodec struct {
	opts Options
}

var (
	qeTauLine  = regexp.MustCompile(`^\s*\d+\s+(\S+)\s+tau\(\s*\d+\s*\)\s*=\s*\(\s*(\S+)\s+(\S+)\s+(\S+)`)
	qeAxisLine = regexp.MustCompile(`a\(\d\)\s*=\s*\(\s*(\S+)\s+(\S+)\s+(\S+)`)
	qeAlatLine = regexp.MustCompile(`lattice parameter \(alat\)\s*=\s*(\S+)`)
	qeCelldm1  = regexp.MustCompile(`celldm\(1\)\s*=\s*(\S+)`)
	qeNatLine  = regexp.MustCompile(`number of atoms/cell\s*=\s*(\d+)`)
)

// Parse returns the last structure in the output.
func (Q *qeOutputCodec) Parse(content string) (*chem.Structure, error) {
	S, err := lastFrame(Q, content)
	return S, errDecorate(err, "qeOutputCodec.Parse")
}

// ParseTrajectory returns a frame for every ATOMIC_POSITIONS block and every
// run of tau lines in alat units. The listing in crystal coordinates that
// follows the first one repeats the same structure and is skipped. Each frame
// gets the latest lattice seen.
func (Q *qeOutputCodec) ParseTrajectory(content string) ([]*chem.Structure, error) {
	lines := splitLines(content)
	var units qeUnits
	var lat [3]r3.Vec
	var frame *chem.LatticeFrame
	var frames []*chem.Structure
	nat := 0
	tauCrystal := false
	//frame is rebuilt lazily after every lattice change.
	newFrame := func() (*chem.Structure, error) {
		S := chem.NewStructure("")
		if frame == nil && lat != ([3]r3.Vec{}) {
			var err error
			if frame, err = chem.NewLatticeFrame(lat[0], lat[1], lat[2]); err != nil {
				return nil, err
			}
		}
		if frame != nil {
			S.SetCell(frame.Cell)
		}
		return S, nil
	}
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if m := qeAlatLine.FindStringSubmatch(line); m != nil {
			if a, err := parseFloat(m[1]); err == nil {
				units.alat = a * chem.Bohr2A
			}
			continue
		}
		if m := qeCelldm1.FindStringSubmatch(line); m != nil {
			if a, err := parseFloat(m[1]); err == nil && a > 0 {
				units.alat = a * chem.Bohr2A
			}
			continue
		}
		if m := qeNatLine.FindStringSubmatch(line); m != nil {
			nat, _ = strconv.Atoi(m[1])
			continue
		}
		if strings.Contains(line, "crystal axes:") {
			var axes [3]r3.Vec
			k := 0
			for j := i + 1; j < len(lines) && k < 3; j++ {
				m := qeAxisLine.FindStringSubmatch(lines[j])
				if m == nil {
					break
				}
				v, err := parseVec(m[1:])
				if err != nil {
					break
				}
				axes[k] = v
				k++
				i = j
			}
			if k < 3 || units.alat <= 0 {
				Q.opts.malformed("qe-out", i+1, line, chem.StructuralParseError("qe-out", "crystal axes in alat units"))
				continue
			}
			lat = scaleVecs(axes, units.alat)
			frame = nil
			continue
		}
		if strings.Contains(line, "positions (") {
			tauCrystal = strings.Contains(line, "cryst. coord.")
			continue
		}
		switch qeCardName(line) {
		case "CELL_PARAMETERS":
			unit, a := qeCardOption(line)
			if a > 0 {
				units.alat = a * chem.Bohr2A
			}
			f, err := units.factor(unit, "qe-out")
			if err != nil {
				return nil, errDecorate(err, "qeOutputCodec.ParseTrajectory")
			}
			v, err := readQEVectors(lines, i, "qe-out")
			if err != nil {
				return nil, errDecorate(err, "qeOutputCodec.ParseTrajectory")
			}
			lat = scaleVecs(v, f)
			frame = nil
			i += 3
			continue
		case "ATOMIC_POSITIONS":
			S, err := newFrame()
			if err != nil {
				return nil, errDecorate(err, "qeOutputCodec.ParseTrajectory")
			}
			unit, _ := qeCardOption(line)
			last, err := qePositions(Q.opts, "qe-out", lines, i, nat, unit, units, frame, S)
			if err != nil {
				return nil, errDecorate(err, "qeOutputCodec.ParseTrajectory")
			}
			frames = append(frames, S)
			i = last
			continue
		}
		if qeTauLine.MatchString(line) {
			j := i
			for j < len(lines) && qeTauLine.MatchString(lines[j]) {
				j++
			}
			if !tauCrystal {
				S, err := newFrame()
				if err != nil {
					return nil, errDecorate(err, "qeOutputCodec.ParseTrajectory")
				}
				err = Q.tauFrame(S, lines[i:j], i, units, frame)
				if err != nil {
					return nil, errDecorate(err, "qeOutputCodec.ParseTrajectory")
				}
				frames = append(frames, S)
			}
			i = j - 1
		}
	}
	if len(frames) == 0 {
		return nil, errDecorate(chem.StructuralParseError("qe-out", "ATOMIC_POSITIONS or tau positions"), "qeOutputCodec.ParseTrajectory")
	}
	return frames, nil
}

// tauFrame adds to S the atoms in a run of tau lines, in alat units. first is
// the index of the first line in the file.
func (Q *qeOutputCodec) tauFrame(S *chem.Structure, run []string, first int, units qeUnits, frame *chem.LatticeFrame) error {
	scale, err := units.factor("alat", "qe-out")
	if err != nil {
		return err
	}
	for k, l := range run {
		m := qeTauLine.FindStringSubmatch(l)
		v, err := parseVec(m[2:])
		if err != nil {
			Q.opts.malformed("qe-out", first+k+1, l, err)
			continue
		}
		pos := r3.Scale(scale, v)
		if frame != nil {
			pos = frame.FromCartesian(pos)
		}
		Q.opts.addAtom(S, "qe-out", m[1], pos, false, first+k+1, l)
	}
	return nil
}

// Serialize always fails, pw.x output can't be written.
func (Q *qeOutputCodec) Serialize(S *chem.Structure) (string, error) {
	return "", chem.UnsupportedExportError("qe-out")
}
