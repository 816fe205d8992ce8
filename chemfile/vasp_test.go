/*
 * vasp_test.go, part of gostruct.
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
	"errors"
	"strings"
	"testing"

	chem "github.com/rmera/gostruct"
)

func TestPOSCARVolumeScale(Te *testing.T) {
	in := "cube\n-8\n1 0 0\n0 1 0\n0 0 1\nSi\n1\nDirect\n0.5 0.5 0.5\n"
	S, err := codec(Te, POSCAR, Quiet()).Parse(in)
	if err != nil {
		Te.Fatal(err)
	}
	cell, ok := S.Cell()
	if !ok {
		Te.Fatal("POSCAR without cell")
	}
	for i, v := range cell.LatticeVectors() {
		l := []float64{v.X, v.Y, v.Z}[i]
		if !near(l, 2, 1e-9) {
			Te.Errorf("lattice vector %d should be scaled by 2: %v", i, v)
		}
	}
	p := S.Atom(0).Position
	if !near(p.X, 1, 1e-9) || !near(p.Y, 1, 1e-9) || !near(p.Z, 1, 1e-9) {
		Te.Errorf("unexpected position %v", p)
	}
}

func TestPOSCARSelective(Te *testing.T) {
	in := `Fe O from the title
1.0
3.0 0 0
0 3.0 0
0 0 3.0
1 2
Selective dynamics
Cartesian
0 0 0 F F F
1.5 0 0 T T T
0 1.5 0 T F T
`
	S, err := codec(Te, POSCAR, Quiet()).Parse(in)
	if err != nil {
		Te.Fatal(err)
	}
	syms := S.Symbols()
	if len(syms) != 3 || syms[0] != "Fe" || syms[1] != "O" || syms[2] != "O" {
		Te.Fatalf("expected the elements from the title, got %v", syms)
	}
	if !S.Atom(0).Fixed || S.Atom(1).Fixed || S.Atom(2).Fixed {
		Te.Error("only the atom with all flags F should be fixed")
	}
	if _, err := codec(Te, POSCAR, Quiet()).Parse("no elements here\n1.0\n1 0 0\n0 1 0\n0 0 1\n1\nDirect\n0 0 0\n"); !errors.Is(err, chem.ErrStructuralParse) {
		Te.Errorf("expected a StructuralParse error without symbols, got %v", err)
	}
}

func TestPOSCARRoundTrip(Te *testing.T) {
	S := triclinic(Te)
	c := codec(Te, POSCAR, Quiet())
	out, err := c.Serialize(S)
	if err != nil {
		Te.Fatal(err)
	}
	B, err := c.Parse(out)
	if err != nil {
		Te.Fatal(err)
	}
	sameAtoms(Te, S, B, 1e-6)
	sameCell(Te, S, B, 1e-6)
	if !B.Atom(2).Fixed || B.Atom(0).Fixed {
		Te.Error("selective dynamics flags were lost")
	}
	if _, err := c.Serialize(water(Te)); !errors.Is(err, chem.ErrPrecondition) {
		Te.Errorf("a POSCAR needs a cell, got %v", err)
	}
}

const xdatcar = `SiO2
1.0
5.0 0 0
0 5.0 0
0 0 5.0
Si O
1 2
Direct configuration=     1
0.0 0.0 0.0
0.3 0.0 0.0
0.0 0.3 0.0
Direct configuration=     2
0.0 0.0 0.1
0.3 0.0 0.1
0.0 0.3 0.1
Direct configuration=     3
0.0 0.0 0.2
`

// xdatcarVariableCell has a second header, with a longer a vector and a title
// that mentions a configuration, before its second frame.
const xdatcarVariableCell = `SiO2
1.0
5.0 0 0
0 5.0 0
0 0 5.0
Si O
1 2
Direct configuration=     1
0.0 0.0 0.0
0.3 0.0 0.0
0.0 0.3 0.0
SiO2 configuration after expansion
1.0
6.0 0 0
0 5.0 0
0 0 5.0
Si O
1 2
Direct configuration=     2
0.0 0.0 0.0
0.5 0.0 0.0
0.0 0.3 0.0
`

func TestXDATCARNewHeader(Te *testing.T) {
	O, warns := collecting()
	c := codec(Te, XDATCAR, O)
	frames, err := c.(TrajectoryParser).ParseTrajectory(xdatcarVariableCell)
	if err != nil {
		Te.Fatal(err)
	}
	if len(frames) != 2 || len(*warns) != 0 {
		Te.Fatalf("expected 2 frames and no warnings, got %d frames, %d warnings", len(frames), len(*warns))
	}
	cell, _ := frames[1].Cell()
	if a, _, _ := cell.Lengths(); !near(a, 6, 1e-9) {
		Te.Errorf("the second header was not applied, a=%f", a)
	}
	if frames[1].Name != "SiO2 configuration after expansion" {
		Te.Errorf("unexpected title %q", frames[1].Name)
	}
	if x := frames[1].Atom(1).Position.X; !near(x, 3, 1e-9) {
		Te.Errorf("expected x=3 in the expanded cell, got %f", x)
	}
	cart := strings.Replace(xdatcarVariableCell, "Direct configuration=     2\n0.0 0.0 0.0\n0.5", "Cartesian configuration=     2\n0.0 0.0 0.0\n2.5", 1)
	frames, err = c.(TrajectoryParser).ParseTrajectory(cart)
	if err != nil || len(frames) != 2 {
		Te.Fatalf("expected 2 frames with a Cartesian configuration, got %d, %v", len(frames), err)
	}
	if x := frames[1].Atom(1).Position.X; !near(x, 2.5, 1e-9) {
		Te.Errorf("expected Cartesian x=2.5, got %f", x)
	}
}

func TestXDATCAR(Te *testing.T) {
	O, warns := collecting()
	c := codec(Te, XDATCAR, O)
	frames, err := c.(TrajectoryParser).ParseTrajectory(xdatcar)
	if err != nil {
		Te.Fatal(err)
	}
	if len(frames) != 2 {
		Te.Fatalf("expected 2 complete frames, got %d", len(frames))
	}
	if len(*warns) == 0 {
		Te.Error("the truncated frame should be reported")
	}
	if z := frames[1].Atom(2).Position.Z; !near(z, 0.5, 1e-9) {
		Te.Errorf("unexpected z %f in the second frame", z)
	}
	out, err := c.(TrajectorySerializer).SerializeTrajectory(frames)
	if err != nil {
		Te.Fatal(err)
	}
	again, err := c.(TrajectoryParser).ParseTrajectory(out)
	if err != nil || len(again) != 2 {
		Te.Fatalf("expected 2 frames back, got %d, %v", len(again), err)
	}
	sameAtoms(Te, frames[1], again[1], 1e-6)
	mixed := []*chem.Structure{frames[0], triclinic(Te)}
	if _, err := c.(TrajectorySerializer).SerializeTrajectory(mixed); !errors.Is(err, chem.ErrPrecondition) {
		Te.Errorf("frames with different elements should be rejected, got %v", err)
	}
}

const outcar = ` POTCAR:    PAW_PBE Si 05Jan2001
 POTCAR:    PAW_PBE O 08Apr2002
 POTCAR:    PAW_PBE Si 05Jan2001
 POTCAR:    PAW_PBE O 08Apr2002
   VRHFIN =Si: s2p2
   TITEL  = PAW_PBE Si 05Jan2001
   VRHFIN =O: s2p4
   TITEL  = PAW_PBE O 08Apr2002
   ions per type =               1   2
      direct lattice vectors                 reciprocal lattice vectors
     5.000000000  0.000000000  0.000000000     0.200000000  0.000000000  0.000000000
     0.000000000  5.000000000  0.000000000     0.000000000  0.200000000  0.000000000
     0.000000000  0.000000000  5.000000000     0.000000000  0.000000000  0.200000000

 POSITION                                       TOTAL-FORCE (eV/Angst)
 -----------------------------------------------------------------------------------
      0.00000      0.00000      0.00000         0.000000      0.000000      0.000000
      1.60000      0.00000      0.00000         0.000000      0.000000      0.000000
      0.00000      1.60000      0.00000         0.000000      0.000000      0.000000
 -----------------------------------------------------------------------------------

 POSITION                                       TOTAL-FORCE (eV/Angst)
 -----------------------------------------------------------------------------------
      0.00000      0.00000      0.00000         0.000000      0.000000      0.000000
      1.55000      0.00000      0.00000         0.000000      0.000000      0.000000
      0.00000      1.55000      0.00000         0.000000      0.000000      0.000000
 -----------------------------------------------------------------------------------
`

func TestOUTCAR(Te *testing.T) {
	c := codec(Te, OUTCAR, Quiet())
	frames, err := c.(TrajectoryParser).ParseTrajectory(outcar)
	if err != nil {
		Te.Fatal(err)
	}
	if len(frames) != 2 {
		Te.Fatalf("expected 2 ionic steps, got %d", len(frames))
	}
	S, err := c.Parse(outcar)
	if err != nil {
		Te.Fatal(err)
	}
	if f := S.Formula(); f != "O2Si" {
		Te.Errorf("unexpected formula %s", f)
	}
	if x := S.Atom(1).Position.X; !near(x, 1.55, 1e-9) {
		Te.Errorf("Parse should return the last step, got x=%f", x)
	}
	if !S.IsCrystal() {
		Te.Error("OUTCAR frames should have the cell")
	}
	if _, err := c.Serialize(S); !errors.Is(err, chem.ErrUnsupportedExport) {
		Te.Errorf("OUTCAR can't be written, got %v", err)
	}
}

func TestOUTCARSpecies(Te *testing.T) {
	sp := outcarSpecies(nil, nil, []string{"Si", "O", "Si", "O"})
	if len(sp) != 2 || sp[0] != "Si" || sp[1] != "O" {
		Te.Errorf("repeated POTCAR lines should be halved, got %v", sp)
	}
	sp = outcarSpecies(nil, []string{"Fe"}, []string{"Si"})
	if len(sp) != 1 || sp[0] != "Fe" {
		Te.Errorf("VRHFIN should win over POTCAR, got %v", sp)
	}
}
