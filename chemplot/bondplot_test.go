/*
 * bondplot_test.go, part of gostruct.
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

package chemplot

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	chem "github.com/rmera/gostruct"
	"github.com/rmera/gostruct/histo"
	"gonum.org/v1/gonum/spatial/r3"
)

func water(Te *testing.T) *chem.Structure {
	S := chem.NewStructure("water")
	for i, p := range []r3.Vec{{}, {X: 0.96}, {X: -0.24, Y: 0.93}} {
		if _, err := S.AddAtom([]string{"O", "H", "H"}[i], p, false); err != nil {
			Te.Fatal(err)
		}
	}
	return S
}

func TestStats(Te *testing.T) {
	st := Stats(water(Te), chem.DefaultBondOptions())
	if len(st) != 1 || st[0].Label != "H-O" || st[0].N != 2 {
		Te.Fatalf("expected 2 H-O bonds, got %v", st)
	}
	d2 := math.Hypot(0.24, 0.93)
	if math.Abs(st[0].Mean-(0.96+d2)/2) > 1e-9 || math.Abs(st[0].Min-0.96) > 1e-12 || math.Abs(st[0].Max-d2) > 1e-12 {
		Te.Errorf("unexpected statistics %v", st[0])
	}
}

func TestHistograms(Te *testing.T) {
	M, symbols := Histograms(water(Te), chem.DefaultBondOptions(), histo.Dividers(0.5, 1.5, 10))
	if len(symbols) != 2 || symbols[0] != "O" || symbols[1] != "H" {
		Te.Fatalf("unexpected symbols %v", symbols)
	}
	if M.View(0, 1).Total() != 2 || M.View(1, 0).Total() != 2 || M.View(1, 1).Total() != 0 {
		Te.Errorf("unexpected histograms\n%v", M)
	}
}

func TestBondHistogram(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "water.png")
	if err := BondHistogram(water(Te), chem.DefaultBondOptions(), 5, "Water", name); err != nil {
		Te.Fatal(err)
	}
	if fi, err := os.Stat(name); err != nil || fi.Size() == 0 {
		Te.Errorf("plot not written: %v", err)
	}
	lone := chem.NewStructure("He")
	lone.AddAtom("He", r3.Vec{}, false)
	if err := BondHistogram(lone, chem.DefaultBondOptions(), 5, "", filepath.Join(Te.TempDir(), "x.png")); err == nil {
		Te.Error("a structure without bonds should not be plotted")
	}
}
