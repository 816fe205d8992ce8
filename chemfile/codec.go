/*
 * codec.go, part of gostruct.
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
	chem "github.com/rmera/gostruct"
)

// Parser reads a structure from the contents of a file. For formats that
// can hold several frames, it returns the default one.
type Parser interface {
	Parse(content string) (*chem.Structure, error)
}

// Serializer writes a structure in some format.
type Serializer interface {
	Serialize(S *chem.Structure) (string, error)
}

// Codec reads and writes one format.
type Codec interface {
	Parser
	Serializer
}

// TrajectoryParser is implemented by codecs for multi-frame formats.
// Frames are returned in file order.
type TrajectoryParser interface {
	ParseTrajectory(content string) ([]*chem.Structure, error)
}

// TrajectorySerializer is implemented by codecs that can write several frames.
type TrajectorySerializer interface {
	SerializeTrajectory(frames []*chem.Structure) (string, error)
}

var codecs = [numFormats]func(Options) Codec{
	XYZ:      func(o Options) Codec { return &xyzCodec{opts: o} },
	ExtXYZ:   func(o Options) Codec { return &xyzCodec{opts: o, extended: true} },
	CIF:      func(o Options) Codec { return &cifCodec{opts: o} },
	POSCAR:   func(o Options) Codec { return &poscarCodec{opts: o} },
	XDATCAR:  func(o Options) Codec { return &xdatcarCodec{opts: o} },
	OUTCAR:   func(o Options) Codec { return &outcarCodec{opts: o} },
	QEInput:  func(o Options) Codec { return &qeInputCodec{opts: o} },
	QEOutput: func(o Options) Codec { return &qeOutputCodec{opts: o} },
	PDB:      func(o Options) Codec { return &pdbCodec{opts: o} },
	GJF:      func(o Options) Codec { return &gjfCodec{opts: o} },
	ORCA:     func(o Options) Codec { return &orcaCodec{opts: o} },
	STRU:     func(o Options) Codec { return &struCodec{opts: o} },
	JSON:     func(o Options) Codec { return &jsonCodec{opts: o} },
}

// NewCodec returns the codec for the format f.
func NewCodec(f Format, o Options) (Codec, error) {
	if !f.valid() || codecs[f] == nil {
		return nil, chem.NewError(chem.KindUnknownFormat, "no codec for format %d", int(f))
	}
	return codecs[f](o), nil
}

// lastFrame is the Parse of formats whose default frame is the last one.
func lastFrame(T TrajectoryParser, content string) (*chem.Structure, error) {
	frames, err := T.ParseTrajectory(content)
	if err != nil {
		return nil, err
	}
	return frames[len(frames)-1], nil
}

func needCell(S *chem.Structure, format string) (chem.UnitCell, error) {
	cell, ok := S.Cell()
	if !ok {
		return cell, chem.PreconditionError(format, "structure has no unit cell")
	}
	return cell, nil
}

// errDecorate decorates err with the caller's name if it implements chem.Error.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if err2, ok := err.(chem.Error); ok {
		err2.Decorate(caller)
		return err2
	}
	return err
}
