/*
 * manager.go, part of gostruct.
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
	"path/filepath"
	"strings"

	chem "github.com/rmera/gostruct"
)

// Manager resolves formats and runs the codecs with a fixed set of options.
// It holds no mutable state and can be used from several goroutines.
type Manager struct {
	opts Options
}

// NewManager returns a Manager whose codecs use the options O.
func NewManager(O Options) *Manager {
	return &Manager{opts: O}
}

// Options returns the options of the manager.
func (M *Manager) Options() Options {
	return M.opts
}

// conventionalName returns the format for the extensionless names VASP and
// ABACUS use, and false if base is not one of them.
func conventionalName(base string) (Format, bool) {
	up := strings.ToUpper(base)
	switch {
	case strings.HasPrefix(up, "POSCAR"), strings.HasPrefix(up, "CONTCAR"):
		return POSCAR, true
	case strings.HasPrefix(up, "XDATCAR"):
		return XDATCAR, true
	case strings.HasPrefix(up, "OUTCAR"):
		return OUTCAR, true
	case up == "STRU", strings.HasPrefix(up, "STRU_"), strings.HasPrefix(up, "STRU-"), strings.HasPrefix(up, "STRU."):
		return STRU, true
	}
	return Unknown, false
}

// ResolveFormat returns the format for pathOrID. pathOrID can be a format ID
// or alias, a conventional file name such as POSCAR, CONTCAR_1 or STRU, or a
// path with a known extension. A conventional name with a known extension,
// such as OUTCAR.json, goes by the extension. Compression suffixes are
// ignored. If nothing matches, fallback is returned.
func (M *Manager) ResolveFormat(pathOrID string, fallback Format) Format {
	if f, err := ParseFormat(pathOrID); err == nil {
		return f
	}
	p, _ := stripCompression(strings.TrimSpace(pathOrID))
	base := filepath.Base(p)
	ext := strings.ToLower(filepath.Ext(base))
	byExt, known := extensionFormat(ext)
	if f, ok := conventionalName(base); ok && !known {
		return f
	}
	if known {
		return byExt
	}
	return fallback
}

func extensionFormat(ext string) (Format, bool) {
	if ext == "" {
		return Unknown, false
	}
	for f := Format(0); f < numFormats; f++ {
		for _, e := range formatTable[f].exts {
			if e == ext {
				return f, true
			}
		}
	}
	return Unknown, false
}

// displayName is the file name without directories, compression suffix or extension.
func displayName(path string) string {
	p, _ := stripCompression(path)
	base := filepath.Base(p)
	if _, ok := conventionalName(base); ok {
		return base
	}
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// LoadStructures parses content, the contents of the file at path. The
// format is resolved from path, and gzip or zstd content is decompressed
// first. Trajectory formats return every frame. Structures without a name
// are named after the file.
func (M *Manager) LoadStructures(path, content string) ([]*chem.Structure, error) {
	f := M.ResolveFormat(path, Unknown)
	if f == Unknown {
		return nil, errDecorate(chem.NewError(chem.KindUnknownFormat, "can't tell the format of %q", path), "LoadStructures")
	}
	raw, err := Decompress([]byte(content))
	if err != nil {
		return nil, errDecorate(err, "LoadStructures")
	}
	frames, err := M.Parse(string(raw), f)
	if err != nil {
		return nil, errDecorate(err, "LoadStructures")
	}
	name := displayName(path)
	for _, S := range frames {
		if S.Name == "" {
			S.Name = name
		}
	}
	return frames, nil
}

// Parse reads content in the format f. Trajectory formats return every
// frame, the others a single structure.
func (M *Manager) Parse(content string, f Format) ([]*chem.Structure, error) {
	c, err := NewCodec(f, M.opts)
	if err != nil {
		return nil, errDecorate(err, "Parse")
	}
	if tp, ok := c.(TrajectoryParser); ok && f.IsTrajectory() {
		frames, err := tp.ParseTrajectory(content)
		return frames, errDecorate(err, "Parse")
	}
	S, err := c.Parse(content)
	if err != nil {
		return nil, errDecorate(err, "Parse")
	}
	return []*chem.Structure{S}, nil
}

// SaveStructure writes S in the format f.
func (M *Manager) SaveStructure(S *chem.Structure, f Format) (string, error) {
	c, err := NewCodec(f, M.opts)
	if err != nil {
		return "", errDecorate(err, "SaveStructure")
	}
	if !f.CanWrite() {
		return "", errDecorate(chem.UnsupportedExportError(f.ID()), "SaveStructure")
	}
	out, err := c.Serialize(S)
	return out, errDecorate(err, "SaveStructure")
}

// SaveStructures writes several frames in the format f, which must be able to
// hold them. A single structure is written with SaveStructure.
func (M *Manager) SaveStructures(frames []*chem.Structure, f Format) (string, error) {
	if len(frames) == 0 {
		return "", errDecorate(chem.PreconditionError(f.ID(), "no structures to write"), "SaveStructures")
	}
	if len(frames) == 1 {
		return M.SaveStructure(frames[0], f)
	}
	c, err := NewCodec(f, M.opts)
	if err != nil {
		return "", errDecorate(err, "SaveStructures")
	}
	ts, ok := c.(TrajectorySerializer)
	if !ok || !f.CanWriteTrajectory() {
		return "", errDecorate(chem.UnsupportedExportError(f.ID()+" trajectories"), "SaveStructures")
	}
	out, err := ts.SerializeTrajectory(frames)
	return out, errDecorate(err, "SaveStructures")
}

// DefaultFrame returns the frame that Parse would return for content in the
// format f: the first model of a PDB file, the last frame otherwise.
func DefaultFrame(frames []*chem.Structure, f Format) *chem.Structure {
	if len(frames) == 0 {
		return nil
	}
	if f == PDB {
		return frames[0]
	}
	return frames[len(frames)-1]
}

var defaultManager = NewManager(DefaultOptions())

// ResolveFormat calls ResolveFormat on a Manager with the default options.
func ResolveFormat(pathOrID string, fallback Format) Format {
	return defaultManager.ResolveFormat(pathOrID, fallback)
}

// LoadStructures calls LoadStructures on a Manager with the default options.
func LoadStructures(path, content string) ([]*chem.Structure, error) {
	return defaultManager.LoadStructures(path, content)
}

// SaveStructure calls SaveStructure on a Manager with the default options.
func SaveStructure(S *chem.Structure, f Format) (string, error) {
	return defaultManager.SaveStructure(S, f)
}

// SaveStructures calls SaveStructures on a Manager with the default options.
func SaveStructures(frames []*chem.Structure, f Format) (string, error) {
	return defaultManager.SaveStructures(frames, f)
}
