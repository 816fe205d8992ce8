/*
 * matrix.go, part of gostruct.
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

package histo

import (
	"encoding/json"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Matrix is a matrix of histograms, all with the same dividers.
type Matrix struct {
	rows, cols int
	d          []*Data //row-major
	dividers   []float64
}

// NewMatrix returns an r x c matrix of empty histograms with the given dividers.
func NewMatrix(r, c int, dividers []float64) *Matrix {
	M := &Matrix{rows: r, cols: c, d: make([]*Data, r*c), dividers: append([]float64(nil), dividers...)}
	for i := range M.d {
		M.d[i] = NewData(M.dividers, nil, i)
	}
	return M
}

func (M *Matrix) Dims() (int, int) {
	return M.rows, M.cols
}

// Dividers returns a copy of the dividers shared by all histograms.
func (M *Matrix) Dividers() []float64 {
	return append([]float64(nil), M.dividers...)
}

func (M *Matrix) String() string {
	ret := fmt.Sprintf("rows:%d cols:%d | Data:\n", M.rows, M.cols)
	t := make([]string, 0, len(M.d))
	for _, v := range M.d {
		t = append(t, v.String())
	}
	return ret + strings.Join(t, "\n\n")
}

type jsonMatrix struct {
	Rows     int       `json:"rows"`
	Cols     int       `json:"cols"`
	D        []*Data   `json:"data"`
	Dividers []float64 `json:"dividers"`
}

func (M *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonMatrix{Rows: M.rows, Cols: M.cols, D: M.d, Dividers: M.dividers})
}

func (M *Matrix) UnmarshalJSON(b []byte) error {
	var a jsonMatrix
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	if len(a.D) != a.Rows*a.Cols {
		return fmt.Errorf("histo: %d histograms for a %dx%d matrix", len(a.D), a.Rows, a.Cols)
	}
	for i, v := range a.D {
		if v == nil || !floats.Equal(v.dividers, a.Dividers) {
			return fmt.Errorf("histo: histogram %d doesn't match the matrix dividers", i)
		}
	}
	M.rows, M.cols, M.d, M.dividers = a.Rows, a.Cols, a.D, a.Dividers
	return nil
}

// rc2i returns the index in M.d of the r,c element. It panics if either is out of range.
func (M *Matrix) rc2i(r, c int) int {
	if r < 0 || r >= M.rows || c < 0 || c >= M.cols {
		panic(fmt.Sprintf("histo.Matrix: element %d,%d out of range in a %dx%d matrix", r, c, M.rows, M.cols))
	}
	return M.cols*r + c
}

// View returns the histogram in the r,c position.
func (M *Matrix) View(r, c int) *Data {
	return M.d[M.rc2i(r, c)]
}

// AddData adds one or more values to the histogram in the r,c position.
func (M *Matrix) AddData(r, c int, point ...float64) {
	M.d[M.rc2i(r, c)].AddData(point...)
}

// NormalizeAll normalizes all the histograms in the matrix
func (M *Matrix) NormalizeAll() {
	for _, v := range M.d {
		v.Normalize()
	}
}

// FromAll applies f to each histogram and returns the results as a matrix.
func (M *Matrix) FromAll(f func(D *Data) (float64, error)) ([][]float64, error) {
	r := make([][]float64, M.rows)
	for i := 0; i < M.rows; i++ {
		r[i] = make([]float64, M.cols)
		for j := 0; j < M.cols; j++ {
			var err error
			r[i][j], err = f(M.d[M.rc2i(i, j)])
			if err != nil {
				return nil, fmt.Errorf("histo.Matrix.FromAll: error at %d, %d: %w", i, j, err)
			}
		}
	}
	return r, nil
}
