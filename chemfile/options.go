/*
 * options.go, part of gostruct.
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
	"io"
	"log"

	chem "github.com/rmera/gostruct"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultSymmetryTolerance is the distance, in A, under which two atoms of the
// same element produced by CIF symmetry operators are considered the same.
const DefaultSymmetryTolerance = 1e-6

// Options holds the settings shared by all codecs.
type Options struct {
	//CIF duplicate detection after symmetry expansion, in A.
	SymmetryTolerance float64

	//Skipped lines are passed to Warn. If Warn is nil they are
	//logged with Logger, or with log.Default() if Logger is nil too.
	Warn   func(*chem.LineWarning)
	Logger *log.Logger
}

// DefaultOptions returns the options used by the package-level functions.
func DefaultOptions() Options {
	return Options{SymmetryTolerance: DefaultSymmetryTolerance}
}

// Quiet returns the default options, but skipped lines are not reported anywhere.
func Quiet() Options {
	O := DefaultOptions()
	O.Logger = log.New(io.Discard, "", 0)
	return O
}

func (O Options) symtol() float64 {
	if O.SymmetryTolerance <= 0 {
		return DefaultSymmetryTolerance
	}
	return O.SymmetryTolerance
}

func (O Options) report(w *chem.LineWarning) {
	if O.Warn != nil {
		O.Warn(w)
		return
	}
	l := O.Logger
	if l == nil {
		l = log.Default()
	}
	l.Printf("chemfile: %v", w)
}

// malformed reports a data line that was skipped.
func (O Options) malformed(format string, lineno int, line string, cause error) {
	O.report(&chem.LineWarning{Format: format, Line: lineno, Text: line, Kind: chem.KindMalformedLine, Cause: cause})
}

// addAtom resolves token to an element and adds the atom to S. Unknown
// elements are reported and the atom is dropped.
func (O Options) addAtom(S *chem.Structure, format, token string, pos r3.Vec, fixed bool, lineno int, line string) bool {
	sym, err := chem.NormalizeSymbol(token)
	if err == nil {
		_, err = S.AddAtom(sym, pos, fixed)
	}
	if err != nil {
		O.report(&chem.LineWarning{Format: format, Line: lineno, Text: line, Kind: chem.KindUnknownElement, Cause: err})
		return false
	}
	return true
}
