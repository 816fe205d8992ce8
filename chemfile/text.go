/*
 * text.go, part of gostruct.
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

	"gonum.org/v1/gonum/spatial/r3"
)

// splitLines splits content in lines, dropping carriage returns.
// A final newline does not produce an empty last line.
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// parseFloat parses a float, accepting Fortran exponents (1.0d-3).
func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && strings.ContainsAny(s, "dD") {
		return strconv.ParseFloat(strings.NewReplacer("d", "e", "D", "E").Replace(s), 64)
	}
	return f, err
}

// parseVec parses the first three tokens of f as a vector.
func parseVec(f []string) (r3.Vec, error) {
	if len(f) < 3 {
		return r3.Vec{}, fmt.Errorf("expected 3 numbers, got %d fields", len(f))
	}
	var v [3]float64
	for i := 0; i < 3; i++ {
		var err error
		v[i], err = parseFloat(f[i])
		if err != nil {
			return r3.Vec{}, err
		}
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}

// parseFloats parses every token of f.
func parseFloats(f []string) ([]float64, error) {
	ret := make([]float64, len(f))
	for i, v := range f {
		var err error
		ret[i], err = parseFloat(v)
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// parseInts parses every token of f.
func parseInts(f []string) ([]int, error) {
	ret := make([]int, len(f))
	for i, v := range f {
		var err error
		ret[i], err = strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func isInt(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func isFloat(s string) bool {
	_, err := parseFloat(s)
	return err == nil
}

// stripComment removes everything after the first of the given markers.
func stripComment(line string, markers ...string) string {
	for _, m := range markers {
		if i := strings.Index(line, m); i >= 0 {
			line = line[:i]
		}
	}
	return line
}

// nextNonBlank returns the index of the first non-blank line at or after i, or len(lines).
func nextNonBlank(lines []string, i int) int {
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	return i
}

// scaleVecs multiplies every vector by s.
func scaleVecs(v [3]r3.Vec, s float64) [3]r3.Vec {
	for i := range v {
		v[i] = r3.Scale(s, v[i])
	}
	return v
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
