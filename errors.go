/*
 * errors.go, part of gostruct.
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

package chem

import (
	"fmt"
	"strings"
)

// ErrorKind classifies the errors produced by this library.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	//A required section (atom count, lattice block, marker line) is missing.
	KindStructuralParse
	//A single data line failed validation. Never aborts a parse.
	KindMalformedLine
	KindUnknownElement
	KindDegenerateGeometry
	//The format has no writer.
	KindUnsupportedExport
	//A writer lacks data it needs, e.g. a cell.
	KindPrecondition
	KindUnknownFormat
)

func (k ErrorKind) String() string {
	switch k {
	case KindStructuralParse:
		return "structural parse error"
	case KindMalformedLine:
		return "malformed line"
	case KindUnknownElement:
		return "unknown element"
	case KindDegenerateGeometry:
		return "degenerate geometry"
	case KindUnsupportedExport:
		return "unsupported export"
	case KindPrecondition:
		return "precondition failed"
	case KindUnknownFormat:
		return "unknown format"
	}
	return "error"
}

// CError is the error type of the chem package. It fulfills the Error interface,
// and errors.Is compares it against the Err* sentinels by kind.
type CError struct {
	msg  string
	deco []string
	kind ErrorKind
	err  error //wrapped cause, may be nil
}

// NewError returns a CError of the given kind. The message is built with fmt.Sprintf.
func NewError(kind ErrorKind, format string, a ...interface{}) *CError {
	return &CError{msg: fmt.Sprintf(format, a...), kind: kind}
}

// WrapError returns a CError of the given kind that wraps cause.
func WrapError(kind ErrorKind, cause error, format string, a ...interface{}) *CError {
	return &CError{msg: fmt.Sprintf(format, a...), kind: kind, err: cause}
}

// Error returns a string with an error message.
func (err *CError) Error() string {
	s := err.kind.String() + ": " + err.msg
	if err.err != nil {
		s += ": " + err.err.Error()
	}
	if len(err.deco) > 0 {
		s += " [" + strings.Join(err.deco, " <- ") + "]"
	}
	return s
}

// Decorate adds dec to the decoration slice of the error and returns the result.
// An empty dec just returns the current decoration.
func (err *CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Kind returns the class of the error.
func (err *CError) Kind() ErrorKind { return err.kind }

func (err *CError) Unwrap() error { return err.err }

// Is reports whether target is a CError of the same kind.
func (err *CError) Is(target error) bool {
	t, ok := target.(*CError)
	if !ok {
		return false
	}
	return t.msg == "" && t.kind == err.kind
}

// Sentinels, meant to be used with errors.Is.
var (
	ErrStructuralParse    = &CError{kind: KindStructuralParse}
	ErrMalformedLine      = &CError{kind: KindMalformedLine}
	ErrUnknownElement     = &CError{kind: KindUnknownElement}
	ErrDegenerateGeometry = &CError{kind: KindDegenerateGeometry}
	ErrUnsupportedExport  = &CError{kind: KindUnsupportedExport}
	ErrPrecondition       = &CError{kind: KindPrecondition}
	ErrUnknownFormat      = &CError{kind: KindUnknownFormat}
)

// StructuralParseError reports that format lacks the required section. The whole parse is aborted.
func StructuralParseError(format, section string) *CError {
	return NewError(KindStructuralParse, "%s: missing or invalid %s", format, section)
}

// UnknownElementError reports a token that does not resolve to an element symbol.
func UnknownElementError(token string) *CError {
	return NewError(KindUnknownElement, "%q is not an element symbol", token)
}

// PreconditionError reports that a writer for format can't work with the given structure.
func PreconditionError(format, reason string) *CError {
	return NewError(KindPrecondition, "%s: %s", format, reason)
}

// UnsupportedExportError reports that format can only be read.
func UnsupportedExportError(format string) *CError {
	return NewError(KindUnsupportedExport, "%s can't be written", format)
}

// LineWarning describes a data line that was skipped. It is an error value
// of kind KindMalformedLine or KindUnknownElement but it never aborts a parse.
type LineWarning struct {
	Format string
	Line   int //1-based, 0 if unknown
	Text   string
	Kind   ErrorKind
	Cause  error
}

func (w *LineWarning) Error() string {
	s := fmt.Sprintf("%s line %d skipped (%s): %q", w.Format, w.Line, w.Kind, strings.TrimSpace(w.Text))
	if w.Cause != nil {
		s += ": " + w.Cause.Error()
	}
	return s
}

func (w *LineWarning) Unwrap() error { return w.Cause }

// Is lets errors.Is match a warning against ErrMalformedLine or ErrUnknownElement.
func (w *LineWarning) Is(target error) bool {
	t, ok := target.(*CError)
	return ok && t.msg == "" && t.kind == w.Kind
}

// errDecorate decorates err with the caller's name if it implements
// Error. Other errors are returned unchanged.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if err2, ok := err.(Error); ok {
		err2.Decorate(caller)
		return err2
	}
	return err
}
