/*
 * bondplot.go, part of gostruct.
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

// Package chemplot computes bond-length statistics of structures and plots
// them with gonum/plot.
package chemplot

import (
	"fmt"
	"math"
	"sort"

	chem "github.com/rmera/gostruct"
	"github.com/rmera/gostruct/histo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PairLabel returns the label of a bond between elements a and b, such as
// "C-H", with the symbols in alphabetical order.
func PairLabel(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "-" + b
}

// BondStats summarizes the lengths of the bonds between one pair of elements.
type BondStats struct {
	Label    string
	N        int
	Mean     float64
	StdDev   float64 //0 for a single bond
	Min, Max float64
}

func (B BondStats) String() string {
	return fmt.Sprintf("%-6s n=%-4d mean=%.4f sd=%.4f min=%.4f max=%.4f", B.Label, B.N, B.Mean, B.StdDev, B.Min, B.Max)
}

// BondLengths returns the bond lengths of S grouped by element pair.
func BondLengths(S *chem.Structure, O chem.BondOptions) map[string][]float64 {
	ret := make(map[string][]float64)
	for _, b := range S.BondsWith(O) {
		l := PairLabel(S.Atom(b.I).Symbol, S.Atom(b.J).Symbol)
		ret[l] = append(ret[l], b.Distance)
	}
	return ret
}

func sortedLabels(m map[string][]float64) []string {
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Stats returns the bond statistics of S for each element pair, sorted by label.
func Stats(S *chem.Structure, O chem.BondOptions) []BondStats {
	lengths := BondLengths(S, O)
	ret := make([]BondStats, 0, len(lengths))
	for _, l := range sortedLabels(lengths) {
		d := lengths[l]
		B := BondStats{Label: l, N: len(d), Min: floats.Min(d), Max: floats.Max(d)}
		B.Mean, B.StdDev = stat.MeanStdDev(d, nil)
		if len(d) < 2 {
			B.StdDev = 0
		}
		ret = append(ret, B)
	}
	return ret
}

// Histograms bins the bond lengths of S. Row i, column j of the returned matrix
// holds the bonds between elements symbols[i] and symbols[j], and the matrix is
// symmetric.
func Histograms(S *chem.Structure, O chem.BondOptions, dividers []float64) (*histo.Matrix, []string) {
	seen := make(map[string]int)
	var symbols []string
	for _, s := range S.Symbols() {
		if _, ok := seen[s]; !ok {
			seen[s] = len(symbols)
			symbols = append(symbols, s)
		}
	}
	M := histo.NewMatrix(len(symbols), len(symbols), dividers)
	for _, b := range S.BondsWith(O) {
		i, j := seen[S.Atom(b.I).Symbol], seen[S.Atom(b.J).Symbol]
		M.AddData(i, j, b.Distance)
		if i != j {
			M.AddData(j, i, b.Distance)
		}
	}
	return M, symbols
}

// BondHistogram plots a histogram of the bond lengths of S, one series per
// element pair, and saves it to filename. The format is taken from the file
// extension (png, svg, pdf...).
func BondHistogram(S *chem.Structure, O chem.BondOptions, bins int, title, filename string) error {
	lengths := BondLengths(S, O)
	if len(lengths) == 0 {
		return fmt.Errorf("chemplot: structure %q has no bonds to plot", S.Name)
	}
	if bins < 1 {
		bins = 20
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Bond length (A)"
	p.Y.Label.Text = "Count"
	p.Add(plotter.NewGrid())
	min, max := math.Inf(1), math.Inf(-1)
	for _, d := range lengths {
		min = math.Min(min, floats.Min(d))
		max = math.Max(max, floats.Max(d))
	}
	for i, l := range sortedLabels(lengths) {
		h, err := plotter.NewHist(plotter.Values(lengths[l]), bins)
		if err != nil {
			return fmt.Errorf("chemplot: %s histogram: %w", l, err)
		}
		h.FillColor = plotutil.Color(i)
		p.Add(h)
		p.Legend.Add(l, h)
	}
	p.X.Min = min - 0.1
	p.X.Max = max + 0.1
	if err := p.Save(5*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("chemplot: %w", err)
	}
	return nil
}
