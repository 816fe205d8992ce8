/*
 * main_test.go, part of gostruct.
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

package main

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/gostruct/chemfile"
	"github.com/rmera/gostruct/config"
)

const waterXYZ = `3
water
O 0.0 0.0 0.0
H 0.96 0.0 0.0
H -0.24 0.93 0.0
`

func TestPlan(Te *testing.T) {
	jobs, err := plan([]string{"a/POSCAR", "b/si.cif.gz"}, "", "", "out", "extxyz")
	if err != nil {
		Te.Fatal(err)
	}
	if jobs[0].out != filepath.Join("out", "POSCAR.extxyz") || jobs[1].out != filepath.Join("out", "si.extxyz") {
		Te.Errorf("unexpected outputs %v", jobs)
	}
	jobs, err = plan([]string{"w.xyz"}, "", "w.cif", "", "extxyz")
	if err != nil || jobs[0].to != chemfile.CIF {
		Te.Errorf("output format should come from -o, got %v %v", jobs, err)
	}
	if _, err := plan([]string{"w.xyz"}, "xyz", "", "", "extxyz"); err == nil {
		Te.Error("converting a file onto itself should fail")
	}
	if _, err := plan([]string{"w.xyz"}, "nope", "", "", "extxyz"); err == nil {
		Te.Error("expected an error for an unknown format")
	}
}

func TestRun(Te *testing.T) {
	dir := Te.TempDir()
	in := filepath.Join(dir, "water.xyz")
	if err := os.WriteFile(in, []byte(waterXYZ), 0o644); err != nil {
		Te.Fatal(err)
	}
	out := filepath.Join(dir, "water.json.gz")
	cfg := config.Default()
	C := &converter{cfg: cfg, man: chemfile.NewManager(chemfile.Quiet()), logger: log.New(io.Discard, "", 0)}
	S, err := C.run(context.Background(), []job{{in: in, out: out, to: chemfile.JSON}})
	if err != nil {
		Te.Fatal(err)
	}
	if S.Formula() != "H2O" {
		Te.Errorf("unexpected structure %s", S.Formula())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		Te.Fatal(err)
	}
	back, err := chemfile.LoadStructures(out, string(data))
	if err != nil || len(back) != 1 || back[0].Len() != 3 {
		Te.Errorf("could not read the converted file back: %v", err)
	}
}
