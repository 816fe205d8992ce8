/*
 * format.go, part of gostruct.
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
	"strings"

	chem "github.com/rmera/gostruct"
)

// Format identifies one of the supported file formats.
type Format int

const (
	XYZ Format = iota
	ExtXYZ
	CIF
	POSCAR
	XDATCAR
	OUTCAR
	QEInput
	QEOutput
	PDB
	GJF
	ORCA
	STRU
	JSON
	numFormats
)

// Unknown is returned by ResolveFormat when nothing matches and no other fallback is given.
const Unknown Format = -1

type formatInfo struct {
	id        string
	exts      []string
	write     bool //has a serializer
	traj      bool //has a trajectory parser
	trajWrite bool //has a trajectory serializer
}

var formatTable = [numFormats]formatInfo{
	XYZ:      {"xyz", []string{".xyz"}, true, true, true},
	ExtXYZ:   {"extxyz", []string{".extxyz"}, true, true, true},
	CIF:      {"cif", []string{".cif"}, true, false, false},
	POSCAR:   {"poscar", []string{".vasp", ".poscar"}, true, false, false},
	XDATCAR:  {"xdatcar", []string{".xdatcar"}, true, true, true},
	OUTCAR:   {"outcar", []string{".outcar"}, false, true, false},
	QEInput:  {"qe-in", []string{".pwi", ".in"}, true, false, false},
	QEOutput: {"qe-out", []string{".pwo", ".out"}, false, true, false},
	PDB:      {"pdb", []string{".pdb", ".ent"}, true, true, true},
	GJF:      {"gjf", []string{".gjf", ".com"}, true, false, false},
	ORCA:     {"orca", []string{".inp"}, true, false, false},
	STRU:     {"stru", []string{".stru"}, true, false, false},
	JSON:     {"json", []string{".json"}, true, true, true},
}

//alternative names accepted by ParseFormat.
var formatAliases = map[string]Format{
	"vasp":     POSCAR,
	"contcar":  POSCAR,
	"pwi":      QEInput,
	"pwo":      QEOutput,
	"espresso": QEInput,
	"gaussian": GJF,
	"com":      GJF,
	"abacus":   STRU,
	"ent":      PDB,
}

func (f Format) valid() bool {
	return f >= 0 && f < numFormats
}

// ID returns the short, lowercase name of the format.
func (f Format) ID() string {
	if !f.valid() {
		return "unknown"
	}
	return formatTable[f].id
}

func (f Format) String() string { return f.ID() }

// Extensions returns the file extensions, with the leading dot, associated with the format.
func (f Format) Extensions() []string {
	if !f.valid() {
		return nil
	}
	return append([]string(nil), formatTable[f].exts...)
}

// CanWrite is false for the read-only formats.
func (f Format) CanWrite() bool {
	return f.valid() && formatTable[f].write
}

// IsTrajectory is true for formats that can hold several frames.
func (f Format) IsTrajectory() bool {
	return f.valid() && formatTable[f].traj
}

// CanWriteTrajectory is true for formats that can be written with several frames.
func (f Format) CanWriteTrajectory() bool {
	return f.valid() && formatTable[f].trajWrite
}

// Formats returns all supported formats, in a fixed order.
func Formats() []Format {
	ret := make([]Format, 0, numFormats)
	for f := Format(0); f < numFormats; f++ {
		ret = append(ret, f)
	}
	return ret
}

// ParseFormat returns the format with the given ID or alias, ignoring case.
func ParseFormat(id string) (Format, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for f := Format(0); f < numFormats; f++ {
		if formatTable[f].id == id {
			return f, nil
		}
	}
	if f, ok := formatAliases[id]; ok {
		return f, nil
	}
	return Unknown, chem.NewError(chem.KindUnknownFormat, "no format with ID %q", id)
}
