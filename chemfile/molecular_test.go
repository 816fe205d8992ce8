/*
 * molecular_test.go, part of gostruct.
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
	"fmt"
	"strings"
	"testing"

	chem "github.com/rmera/gostruct"
	"gonum.org/v1/gonum/spatial/r3"
)

func pdbLine(rec string, serial int, name, elem string, x, y, z float64) string {
	return fmt.Sprintf("%-6s%5d %-4s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s", rec, serial, name, "HOH", "A", 1, x, y, z, 1.0, 0.0, elem)
}

func TestPDBModels(Te *testing.T) {
	lines := []string{
		"TITLE     two waters",
		"CRYST1   10.000   10.000   10.000  90.00  90.00  90.00 P 1           1",
		"MODEL        1",
		pdbLine("ATOM", 1, " OW", "O", 0, 0, 0),
		pdbLine("ATOM", 2, " HW1", "H", 0.96, 0, 0),
		pdbLine("ATOM", 3, " HW2", "", -0.24, 0.93, 0), //no element column
		"ENDMDL",
		"MODEL        2",
		pdbLine("HETATM", 1, " OW", "O", 0, 0, 1),
		pdbLine("HETATM", 2, " HW1", "H", 0.96, 0, 1),
		pdbLine("HETATM", 3, "CL", "", -0.24, 0.93, 1),
		"ENDMDL",
		"END",
		pdbLine("ATOM", 1, " C", "C", 5, 5, 5),
	}
	content := strings.Join(lines, "\n") + "\n"
	c := codec(Te, PDB, Quiet())
	frames, err := c.(TrajectoryParser).ParseTrajectory(content)
	if err != nil {
		Te.Fatal(err)
	}
	if len(frames) != 2 {
		Te.Fatalf("expected 2 models, got %d", len(frames))
	}
	if f := frames[0].Formula(); f != "H2O" {
		Te.Errorf("unexpected formula for model 1: %s", f)
	}
	if f := frames[1].Formula(); f != "ClHO" {
		Te.Errorf("unexpected formula for model 2: %s", f)
	}
	S, err := c.Parse(content)
	if err != nil {
		Te.Fatal(err)
	}
	if S.Name != "two waters" || S.Atom(0).Position.Z != 0 || !S.IsCrystal() {
		Te.Errorf("Parse should return the first model with title and cell, got %q", S.Name)
	}
	out, err := c.(TrajectorySerializer).SerializeTrajectory(frames)
	if err != nil {
		Te.Fatal(err)
	}
	again, err := c.(TrajectoryParser).ParseTrajectory(out)
	if err != nil || len(again) != 2 {
		Te.Fatalf("expected 2 models back, got %d, %v", len(again), err)
	}
	sameAtoms(Te, frames[1], again[1], 1e-3)
	sameCell(Te, frames[1], again[1], 1e-3)
}

func TestPDBOverflow(Te *testing.T) {
	c := codec(Te, PDB, Quiet())
	S := water(Te)
	if _, err := S.AddAtom("C", r3.Vec{X: 9999.99, Y: -999.99}, false); err != nil {
		Te.Fatal(err)
	}
	if _, err := c.Serialize(S); err != nil {
		Te.Fatalf("coordinates at the edge of the columns should be written, got %v", err)
	}
	if _, err := S.AddAtom("C", r3.Vec{Z: -1000.5}, false); err != nil {
		Te.Fatal(err)
	}
	if _, err := c.Serialize(S); !errors.Is(err, chem.ErrPrecondition) {
		Te.Errorf("a coordinate wider than 8 columns should fail, got %v", err)
	}
	if _, err := c.(TrajectorySerializer).SerializeTrajectory([]*chem.Structure{water(Te), S}); !errors.Is(err, chem.ErrPrecondition) {
		Te.Errorf("the trajectory writer should fail too, got %v", err)
	}
}

func TestSymbolFromName(Te *testing.T) {
	for raw, expected := range map[string]string{" CA ": "C", "CL1 ": "Cl", "1HB ": "H", "HD21": "H", "FE  ": "Fe", " N  ": "N"} {
		s, err := symbolFromName(raw)
		if err != nil || s != expected {
			Te.Errorf("symbolFromName(%q) = %q, %v, expected %s", raw, s, err, expected)
		}
	}
}

const waterGJF = `%chk=water.chk
%mem=1GB
# B3LYP/6-31G(d) opt

water
molecule

-1 2
O  0.0 0.0 0.0
H -1 0.96 0.0 0.0
H  -0.24 0.93 0.0

`

func TestGJF(Te *testing.T) {
	c := codec(Te, GJF, Quiet())
	S, err := c.Parse(waterGJF)
	if err != nil {
		Te.Fatal(err)
	}
	if S.Len() != 3 || S.Charge() != -1 || S.Multi() != 2 {
		Te.Fatalf("unexpected atoms %d, charge %d or multiplicity %d", S.Len(), S.Charge(), S.Multi())
	}
	if S.Name != "water molecule" {
		Te.Errorf("unexpected title %q", S.Name)
	}
	if !S.Atom(1).Fixed || S.Atom(0).Fixed {
		Te.Error("the freeze code was not read")
	}
	out, err := c.Serialize(S)
	if err != nil {
		Te.Fatal(err)
	}
	B, err := c.Parse(out)
	if err != nil {
		Te.Fatal(err)
	}
	sameAtoms(Te, S, B, 1e-6)
	if !B.Atom(1).Fixed || B.Charge() != -1 {
		Te.Error("freeze codes or charge lost in the round trip")
	}
	if _, err := c.Parse("water\n\n0 1\nO 0 0 0\n"); err == nil {
		Te.Error("a file without route section should fail")
	}
}

func TestGJFCell(Te *testing.T) {
	S := triclinic(Te)
	c := codec(Te, GJF, Quiet())
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
}

const waterORCA = `# water
! BLYP def2-SVP Bohrs Opt
%geom Constraints
  {C 0 C}
  end
end

* xyz 0 1
O 0 0 0
H 1.8 0 0
H -0.45 1.75 0
*
`

func TestORCA(Te *testing.T) {
	c := codec(Te, ORCA, Quiet())
	S, err := c.Parse(waterORCA)
	if err != nil {
		Te.Fatal(err)
	}
	if S.Len() != 3 || S.Name != "water" {
		Te.Fatalf("expected 3 atoms named water, got %d named %q", S.Len(), S.Name)
	}
	if x := S.Atom(1).Position.X; !near(x, 1.8*0.529177210903, 1e-9) {
		Te.Errorf("bohr coordinates were not converted: %f", x)
	}
	if !S.Atom(0).Fixed || S.Atom(1).Fixed {
		Te.Error("the Cartesian constraint was not read")
	}
	out, err := c.Serialize(S)
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(out, "{C 0 C}") {
		Te.Errorf("constraint missing in\n%s", out)
	}
	B, err := c.Parse(out)
	if err != nil {
		Te.Fatal(err)
	}
	sameAtoms(Te, S, B, 1e-6)
	if !B.Atom(0).Fixed {
		Te.Error("constraint lost in the round trip")
	}
	if _, err := c.Parse("! BLYP\n* xyz 0 1\nH 0 0 0\n"); err == nil {
		Te.Error("an unclosed xyz block should fail")
	}
}
