/*
 * symop.go, part of gostruct.
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

// symOp is a crystallographic symmetry operation acting on fractional
// coordinates: f' = rot*f + trans.
type symOp struct {
	rot   [3][3]float64
	trans [3]float64
}

// apply returns the transformed fractional coordinates.
func (s symOp) apply(f r3.Vec) r3.Vec {
	in := [3]float64{f.X, f.Y, f.Z}
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = s.trans[i]
		for j := 0; j < 3; j++ {
			out[i] += s.rot[i][j] * in[j]
		}
	}
	return r3.Vec{X: out[0], Y: out[1], Z: out[2]}
}

func identityOp() symOp {
	var op symOp
	for i := 0; i < 3; i++ {
		op.rot[i][i] = 1
	}
	return op
}

// isIdentity reports whether s is x,y,z.
func (s symOp) isIdentity() bool {
	for i := 0; i < 3; i++ {
		if s.trans[i] != 0 {
			return false
		}
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if s.rot[i][j] != want {
				return false
			}
		}
	}
	return true
}

// parseSymOp parses an operator such as "-x+1/2, y, -z" or "x-y,x,z+0.25".
func parseSymOp(s string) (symOp, error) {
	var op symOp
	s = strings.Trim(strings.TrimSpace(s), "'\"")
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return op, fmt.Errorf("symmetry operator %q doesn't have 3 components", s)
	}
	for i, p := range parts {
		row, t, err := parseAffine(p)
		if err != nil {
			return op, fmt.Errorf("symmetry operator %q: %w", s, err)
		}
		op.rot[i] = row
		op.trans[i] = t
	}
	return op, nil
}

// parseAffine parses one component of an operator: a sum of terms, each one
// a rational constant, a variable, or a constant times a variable.
func parseAffine(expr string) ([3]float64, float64, error) {
	var row [3]float64
	var trans float64
	e := strings.ToLower(strings.ReplaceAll(expr, " ", ""))
	if e == "" {
		return row, 0, fmt.Errorf("empty component")
	}
	i := 0
	for i < len(e) {
		sign := 1.0
		if e[i] == '+' || e[i] == '-' {
			if e[i] == '-' {
				sign = -1
			}
			i++
		}
		start := i
		for i < len(e) && (e[i] >= '0' && e[i] <= '9' || e[i] == '.' || e[i] == '/') {
			i++
		}
		coef := 1.0
		hasNum := i > start
		if hasNum {
			v, err := parseRational(e[start:i])
			if err != nil {
				return row, 0, err
			}
			coef = v
			if i < len(e) && e[i] == '*' {
				i++
			}
		}
		if i < len(e) && e[i] >= 'x' && e[i] <= 'z' {
			row[e[i]-'x'] += sign * coef
			i++
			//constants written after the variable, as in "x/2"
			if i < len(e) && e[i] == '/' {
				j := i + 1
				for j < len(e) && e[j] >= '0' && e[j] <= '9' {
					j++
				}
				d, err := strconv.ParseFloat(e[i+1:j], 64)
				if err != nil || d == 0 {
					return row, 0, fmt.Errorf("bad divisor in %q", expr)
				}
				row[e[i-1]-'x'] /= d
				i = j
			}
			continue
		}
		if !hasNum {
			return row, 0, fmt.Errorf("unexpected %q in %q", e[i:], expr)
		}
		trans += sign * coef
	}
	return row, trans, nil
}

func parseRational(s string) (float64, error) {
	if n, d, ok := strings.Cut(s, "/"); ok {
		num, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, err
		}
		den, err := strconv.ParseFloat(d, 64)
		if err != nil || den == 0 {
			return 0, fmt.Errorf("bad fraction %q", s)
		}
		return num / den, nil
	}
	return strconv.ParseFloat(s, 64)
}
