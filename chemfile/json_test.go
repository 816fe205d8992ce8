/*
 * json_test.go, part of gostruct.
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
	"testing"

	chem "github.com/rmera/gostruct"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestJSONOverrides(Te *testing.T) {
	//the He atom shifts the IDs, so they must be remapped on reading.
	S := chem.NewStructure("water")
	extra, err := S.AddAtom("He", r3.Vec{X: 10}, false)
	if err != nil {
		Te.Fatal(err)
	}
	for _, at := range water(Te).Atoms() {
		if _, err := S.AddAtom(at.Symbol, at.Position, false); err != nil {
			Te.Fatal(err)
		}
	}
	if err := S.RemoveAtom(extra.ID); err != nil {
		Te.Fatal(err)
	}
	S.SetCharge(1)
	S.SetMulti(2)
	a, b, c := S.Atom(0).ID, S.Atom(1).ID, S.Atom(2).ID
	if err := S.AddManualBond(b, c); err != nil {
		Te.Fatal(err)
	}
	if err := S.RemoveBond(a, b); err != nil {
		Te.Fatal(err)
	}
	cd := codec(Te, JSON, Quiet())
	out, err := cd.Serialize(S)
	if err != nil {
		Te.Fatal(err)
	}
	B, err := cd.Parse(out)
	if err != nil {
		Te.Fatal(err)
	}
	sameAtoms(Te, S, B, 1e-12)
	if B.Charge() != 1 || B.Multi() != 2 || B.Name != "water" {
		Te.Errorf("unexpected charge %d, multiplicity %d or name %q", B.Charge(), B.Multi(), B.Name)
	}
	ba, bb, bc := B.Atom(0).ID, B.Atom(1).ID, B.Atom(2).ID
	if !B.IsManualBond(bb, bc) {
		Te.Error("manual bond lost")
	}
	if !B.IsSuppressed(ba, bb) {
		Te.Error("suppressed bond lost")
	}
	if n := len(B.Bonds()); n != len(S.Bonds()) {
		Te.Errorf("expected %d bonds, got %d", len(S.Bonds()), n)
	}
}

func TestJSONTrajectory(Te *testing.T) {
	S := triclinic(Te)
	if err := S.SetSupercell(2, 1, 3); err != nil {
		Te.Fatal(err)
	}
	frames := []*chem.Structure{water(Te), S}
	cd := codec(Te, JSON, Quiet())
	out, err := cd.(TrajectorySerializer).SerializeTrajectory(frames)
	if err != nil {
		Te.Fatal(err)
	}
	again, err := cd.(TrajectoryParser).ParseTrajectory(out)
	if err != nil {
		Te.Fatal(err)
	}
	if len(again) != 2 {
		Te.Fatalf("expected 2 structures, got %d", len(again))
	}
	sameAtoms(Te, S, again[1], 1e-9)
	sameCell(Te, S, again[1], 1e-9)
	if again[1].Supercell() != [3]int{2, 1, 3} {
		Te.Errorf("supercell lost: %v", again[1].Supercell())
	}
	last, err := cd.Parse(out)
	if err != nil || last.Len() != S.Len() {
		Te.Errorf("Parse should return the last element of an array, %v", err)
	}
	if _, err := cd.Parse("{\"atoms\": ["); err == nil {
		Te.Error("broken JSON should fail")
	}
}
