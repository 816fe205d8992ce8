/*
 * bonds_test.go, part of gostruct.
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
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestWaterBonds(Te *testing.T) {
	S := water(Te)
	bonds := S.Bonds()
	if len(bonds) != 2 {
		Te.Fatalf("expected 2 bonds, got %d: %v", len(bonds), bonds)
	}
	for _, b := range bonds {
		if b.I != 0 || b.Manual || b.Image != [3]int{} {
			Te.Errorf("unexpected bond %+v", b)
		}
		if b.Distance > (0.66+0.31)*1.10 {
			Te.Errorf("bond %+v is longer than the threshold", b)
		}
	}
}

func TestManualAndSuppressed(Te *testing.T) {
	S := water(Te)
	if err := S.RemoveBond("a2", "a1"); err != nil {
		Te.Fatal(err)
	}
	if !S.IsSuppressed("a1", "a2") || len(S.Bonds()) != 1 {
		Te.Error("removed bond still reported")
	}
	S.RecalculateBonds()
	if len(S.Bonds()) != 2 || len(S.SuppressedBonds()) != 0 {
		Te.Error("RecalculateBonds should restore the removed bond")
	}
	if err := S.AddManualBond("a3", "a2"); err != nil {
		Te.Fatal(err)
	}
	S.MoveAtom("a3", r3.Vec{X: 10})
	bonds := S.Bonds()
	var manual int
	for _, b := range bonds {
		if b.Manual {
			manual++
			if b.Pair() != (Pair{A: "a2", B: "a3"}) {
				Te.Errorf("unexpected manual bond %+v", b)
			}
		}
	}
	if manual != 1 || len(bonds) != 2 {
		Te.Errorf("expected the manual bond to survive the move once, got %v", bonds)
	}
	if err := S.RemoveBond("a2", "a3"); err != nil {
		Te.Fatal(err)
	}
	if S.IsManualBond("a2", "a3") || S.IsSuppressed("a2", "a3") {
		Te.Error("removing a manual-only bond should leave no override")
	}
	//Manual bond over a pair that also qualifies by distance.
	S.AddManualBond("a1", "a2")
	S.RemoveBond("a1", "a2")
	if S.IsManualBond("a1", "a2") || !S.IsSuppressed("a1", "a2") {
		Te.Error("removing a manual bond that qualifies by distance should suppress it")
	}
	S.AddManualBond("a1", "a2")
	if S.IsSuppressed("a1", "a2") {
		Te.Error("a pair can't be both manual and suppressed")
	}
	if err := S.AddManualBond("a1", "a1"); err == nil {
		Te.Error("bonding an atom to itself should fail")
	}
	if err := S.AddManualBond("a1", "zz"); err == nil {
		Te.Error("bonding to a missing atom should fail")
	}
}

func TestPeriodicBondsSelf(Te *testing.T) {
	S := NewStructure("H chain")
	S.AddAtom("H", r3.Vec{X: 0.1, Y: 0.1, Z: 0.1}, false)
	cell, err := NewUnitCell(0.6, 0.6, 0.6, 90, 90, 90)
	if err != nil {
		Te.Fatal(err)
	}
	S.SetCell(cell)
	bonds := S.Bonds()
	if len(bonds) != 3 {
		Te.Fatalf("expected 3 bonds, got %d: %v", len(bonds), bonds)
	}
	want := [][3]int{{0, 0, 1}, {0, 1, 0}, {1, 0, 0}}
	for i, b := range bonds {
		if b.Image != want[i] {
			Te.Errorf("bond %d has image %v, expected %v", i, b.Image, want[i])
		}
	}
}

func TestPeriodicBondsUnique(Te *testing.T) {
	S := NewStructure("C2")
	cell, _ := NewUnitCell(3, 3, 3, 90, 90, 90)
	S.SetCell(cell)
	S.AddAtom("C", r3.Vec{X: 0.15}, false)
	S.AddAtom("C", r3.Vec{X: 2.85}, false)
	bonds := S.Bonds()
	if len(bonds) != 1 {
		Te.Fatalf("expected a single periodic bond, got %v", bonds)
	}
	b := bonds[0]
	if b.I != 1 || b.J != 0 || b.Image != [3]int{1, 0, 0} {
		Te.Errorf("unexpected representative bond %+v", b)
	}
	if b.Distance < 0.3-1e-9 || b.Distance > 0.3+1e-9 {
		Te.Errorf("expected a distance of 0.3, got %f", b.Distance)
	}
	type key struct {
		p Pair
		o [3]int
	}
	seen := make(map[key]bool)
	for _, b := range bonds {
		k := key{b.Pair(), b.Image}
		m := key{b.Pair(), [3]int{-b.Image[0], -b.Image[1], -b.Image[2]}}
		if seen[k] || (b.Image != [3]int{} && seen[m]) {
			Te.Errorf("bond %+v reported twice", b)
		}
		seen[k] = true
	}
	S.RemoveBond("a1", "a2")
	if len(S.Bonds()) != 0 || !S.IsSuppressed("a1", "a2") {
		Te.Error("a periodic bond should be suppressed when removed")
	}
}

func TestRemoveBondWith(Te *testing.T) {
	loose := BondOptions{Tolerance: 1.3, DefaultRadius: DefaultCovalentRadius}
	S := NewStructure("C2")
	S.AddAtom("C", r3.Vec{}, false)
	S.AddAtom("C", r3.Vec{X: 1.8}, false)
	if len(S.Bonds()) != 0 || len(S.BondsWith(loose)) != 1 {
		Te.Fatal("the pair should only bond with the loose tolerance")
	}
	if err := S.AddManualBond("a1", "a2"); err != nil {
		Te.Fatal(err)
	}
	if err := S.RemoveBondWith("a1", "a2", loose); err != nil {
		Te.Fatal(err)
	}
	if !S.IsSuppressed("a1", "a2") || len(S.BondsWith(loose)) != 0 {
		Te.Error("a removed bond came back with the options it was removed with")
	}
	S.AddManualBond("a1", "a2")
	S.RemoveBond("a1", "a2")
	if S.IsSuppressed("a1", "a2") || len(S.Bonds()) != 0 {
		Te.Error("with the default options the pair is not within bonding distance")
	}
	if err := S.SuppressBond("a1", "a2"); err != nil || !S.IsSuppressed("a1", "a2") {
		Te.Errorf("SuppressBond should always suppress: %v", err)
	}
	if err := S.SuppressBond("a1", "a1"); err == nil {
		Te.Error("suppressing a bond of an atom with itself should fail")
	}
}

func TestNormalizePair(Te *testing.T) {
	if NormalizePair("b", "a") != NormalizePair("a", "b") {
		Te.Error("pairs should not depend on order")
	}
	if p := NormalizePair("a10", "a9"); p.A != "a10" {
		Te.Errorf("pairs are ordered lexicographically, got %v", p)
	}
}
