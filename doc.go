/*
 * doc.go, part of gostruct.
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

/*
Package chem is the main package of gostruct. It provides the in-memory model
for molecules and crystals: atoms, an optional periodic unit cell, bond detection
with manual overrides, and supercell generation.

	**Capabilities**

	Builds the lattice vectors of a cell from its six parameters, in a fixed
	orientation (a along x, b in the xy plane), and converts between
	fractional and Cartesian coordinates.

	Detects bonds from covalent radii, including bonds across the periodic
	boundary. Each periodic contact is reported only once.

	Keeps manual and suppressed bonds, so user edits survive re-detection.

	Replicates a cell into a supercell.

	Provides a periodic table with masses and covalent radii.

The file formats are in the chemfile subpackage, which reads and writes
XYZ/EXTXYZ, CIF, POSCAR, XDATCAR, OUTCAR, Quantum ESPRESSO, PDB, Gaussian,
ORCA and ABACUS files.

Nothing in this package locks. A Structure belongs to one goroutine at a time;
use Clone to take a snapshot before changing it.
*/
package chem
