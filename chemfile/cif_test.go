/*
 * cif_test.go, part of gostruct.
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
	"testing"

	chem "github.com/rmera/gostruct"
	"gonum.org/v1/gonum/spatial/r3"
)

const cifHeader = `data_test
_cell_length_a 5.0
_cell_length_b 6.0
_cell_length_c 7.0
_cell_angle_alpha 90
_cell_angle_beta 90
_cell_angle_gamma 90
`

func cifWith(ops string, sites string) string {
	return cifHeader + "loop_\n_symmetry_equiv_pos_as_xyz\n" + ops +
		"loop_\n_atom_site_label\n_atom_site_type_symbol\n_atom_site_fract_x\n_atom_site_fract_y\n_atom_site_fract_z\n" + sites
}

func TestCIFSymmetry(Te *testing.T) {
	sites := "Si1 Si 0.1 0.2 0.3\nO1 O 0.25(2) 0.15 0.35\n"
	c := codec(Te, CIF, Quiet())
	S, err := c.Parse(cifWith("'x, y, z'\n", sites))
	if err != nil {
		Te.Fatal(err)
	}
	if S.Len() != 2 {
		Te.Errorf("one operator should not expand the sites, got %d atoms", S.Len())
	}
	if S.Name != "test" {
		Te.Errorf("expected the block name, got %q", S.Name)
	}
	S, err = c.Parse(cifWith("'x, y, z'\n'-x, -y, -z'\n", sites))
	if err != nil {
		Te.Fatal(err)
	}
	if S.Len() != 4 {
		Te.Fatalf("expected 4 atoms, got %d", S.Len())
	}
	f, err := S.Fractional()
	if err != nil {
		Te.Fatal(err)
	}
	if !near(f[1].X, 0.9, 1e-9) || !near(f[1].Y, 0.8, 1e-9) || !near(f[1].Z, 0.7, 1e-9) {
		Te.Errorf("unexpected inverted position %v", f[1])
	}
	//the origin maps onto itself
	S, err = c.Parse(cifWith("'x, y, z'\n'-x, -y, -z'\n", "Si1 Si 0 0 0\nO1 O 0.25 0.15 0.35\n"))
	if err != nil {
		Te.Fatal(err)
	}
	if S.Len() != 3 {
		Te.Errorf("expected 3 atoms after removing the duplicate, got %d", S.Len())
	}
}

func TestCIFLoneOperator(Te *testing.T) {
	c := codec(Te, CIF, Quiet())
	S, err := c.Parse(cifWith("'-x, -y, -z'\n", "Si1 Si 0.1 0.2 0.3\n"))
	if err != nil {
		Te.Fatal(err)
	}
	if S.Len() != 2 {
		Te.Fatalf("an inversion-only list should give 2 atoms, got %d", S.Len())
	}
	f, err := S.Fractional()
	if err != nil {
		Te.Fatal(err)
	}
	if !near(f[0].X, 0.1, 1e-9) || !near(f[0].Y, 0.2, 1e-9) || !near(f[0].Z, 0.3, 1e-9) {
		Te.Errorf("the original site should come first, got %v", f[0])
	}
	if !near(f[1].X, 0.9, 1e-9) || !near(f[1].Y, 0.8, 1e-9) || !near(f[1].Z, 0.7, 1e-9) {
		Te.Errorf("unexpected inverted position %v", f[1])
	}
	op, err := parseSymOp("x, y, z")
	if err != nil {
		Te.Fatal(err)
	}
	if !op.isIdentity() || !identityOp().isIdentity() {
		Te.Error("x,y,z should be the identity")
	}
	if op, _ = parseSymOp("-x, -y, -z"); op.isIdentity() {
		Te.Error("-x,-y,-z is not the identity")
	}
}

func TestCIFRoundTrip(Te *testing.T) {
	S := triclinic(Te)
	c := codec(Te, CIF, Quiet())
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
	if _, err := c.Serialize(water(Te)); !errors.Is(err, chem.ErrPrecondition) {
		Te.Errorf("writing a CIF without cell should fail, got %v", err)
	}
}

func TestCIFErrors(Te *testing.T) {
	c := codec(Te, CIF, Quiet())
	if _, err := c.Parse(cifHeader); !errors.Is(err, chem.ErrStructuralParse) {
		Te.Errorf("a CIF without atoms should fail, got %v", err)
	}
	noCell := "data_x\nloop_\n_atom_site_label\n_atom_site_fract_x\n_atom_site_fract_y\n_atom_site_fract_z\nC1 0 0 0\n"
	if _, err := c.Parse(noCell); !errors.Is(err, chem.ErrStructuralParse) {
		Te.Errorf("fractional coordinates without cell should fail, got %v", err)
	}
}

func TestSymOp(Te *testing.T) {
	op, err := parseSymOp("-y+1/2, x-y, z+0.25")
	if err != nil {
		Te.Fatal(err)
	}
	v := op.apply(r3.Vec{X: 0.1, Y: 0.2, Z: 0.3})
	if !near(v.X, 0.3, 1e-12) || !near(v.Y, -0.1, 1e-12) || !near(v.Z, 0.55, 1e-12) {
		Te.Errorf("unexpected result %v", v)
	}
	if _, err := parseSymOp("x, y"); err == nil {
		Te.Error("an operator with 2 components should fail")
	}
}
