/*
 * atomicdata.go, part of gostruct.
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
	"strings"
	"unicode"
)

// DefaultCovalentRadius is used for elements without a tabulated radius.
const DefaultCovalentRadius = 1.5

// Element holds the read-only data for one element.
type Element struct {
	Number int
	Symbol string
	Name   string
	Mass   float64
	Covrad float64 //covalent radius in A, 0 means unknown.
}

//Masses are standard atomic weights. Covalent radii from Cordero et al., 2008
//(DOI:10.1039/B801115J), low spin values for Mn, Fe and Co.
//The table is indexed by atomic number minus one.
var elements = [...]Element{
	{1, "H", "Hydrogen", 1.008, 0.31},
	{2, "He", "Helium", 4.0026, 0.28},
	{3, "Li", "Lithium", 6.94, 1.28},
	{4, "Be", "Beryllium", 9.0122, 0.96},
	{5, "B", "Boron", 10.81, 0.84},
	{6, "C", "Carbon", 12.011, 0.76},
	{7, "N", "Nitrogen", 14.007, 0.71},
	{8, "O", "Oxygen", 15.999, 0.66},
	{9, "F", "Fluorine", 18.998, 0.57},
	{10, "Ne", "Neon", 20.180, 0.58},
	{11, "Na", "Sodium", 22.990, 1.66},
	{12, "Mg", "Magnesium", 24.305, 1.41},
	{13, "Al", "Aluminium", 26.982, 1.21},
	{14, "Si", "Silicon", 28.085, 1.11},
	{15, "P", "Phosphorus", 30.974, 1.07},
	{16, "S", "Sulfur", 32.06, 1.05},
	{17, "Cl", "Chlorine", 35.45, 1.02},
	{18, "Ar", "Argon", 39.948, 1.06},
	{19, "K", "Potassium", 39.098, 2.03},
	{20, "Ca", "Calcium", 40.078, 1.76},
	{21, "Sc", "Scandium", 44.956, 1.70},
	{22, "Ti", "Titanium", 47.867, 1.60},
	{23, "V", "Vanadium", 50.942, 1.53},
	{24, "Cr", "Chromium", 51.996, 1.39},
	{25, "Mn", "Manganese", 54.938, 1.39},
	{26, "Fe", "Iron", 55.845, 1.32},
	{27, "Co", "Cobalt", 58.933, 1.26},
	{28, "Ni", "Nickel", 58.693, 1.24},
	{29, "Cu", "Copper", 63.546, 1.32},
	{30, "Zn", "Zinc", 65.38, 1.22},
	{31, "Ga", "Gallium", 69.723, 1.22},
	{32, "Ge", "Germanium", 72.630, 1.20},
	{33, "As", "Arsenic", 74.922, 1.19},
	{34, "Se", "Selenium", 78.971, 1.20},
	{35, "Br", "Bromine", 79.904, 1.20},
	{36, "Kr", "Krypton", 83.798, 1.16},
	{37, "Rb", "Rubidium", 85.468, 2.20},
	{38, "Sr", "Strontium", 87.62, 1.95},
	{39, "Y", "Yttrium", 88.906, 1.90},
	{40, "Zr", "Zirconium", 91.224, 1.75},
	{41, "Nb", "Niobium", 92.906, 1.64},
	{42, "Mo", "Molybdenum", 95.95, 1.54},
	{43, "Tc", "Technetium", 98, 1.47},
	{44, "Ru", "Ruthenium", 101.07, 1.46},
	{45, "Rh", "Rhodium", 102.91, 1.42},
	{46, "Pd", "Palladium", 106.42, 1.39},
	{47, "Ag", "Silver", 107.87, 1.45},
	{48, "Cd", "Cadmium", 112.41, 1.44},
	{49, "In", "Indium", 114.82, 1.42},
	{50, "Sn", "Tin", 118.71, 1.39},
	{51, "Sb", "Antimony", 121.76, 1.39},
	{52, "Te", "Tellurium", 127.60, 1.38},
	{53, "I", "Iodine", 126.90, 1.39},
	{54, "Xe", "Xenon", 131.29, 1.40},
	{55, "Cs", "Caesium", 132.91, 2.44},
	{56, "Ba", "Barium", 137.33, 2.15},
	{57, "La", "Lanthanum", 138.91, 2.07},
	{58, "Ce", "Cerium", 140.12, 2.04},
	{59, "Pr", "Praseodymium", 140.91, 2.03},
	{60, "Nd", "Neodymium", 144.24, 2.01},
	{61, "Pm", "Promethium", 145, 1.99},
	{62, "Sm", "Samarium", 150.36, 1.98},
	{63, "Eu", "Europium", 151.96, 1.98},
	{64, "Gd", "Gadolinium", 157.25, 1.96},
	{65, "Tb", "Terbium", 158.93, 1.94},
	{66, "Dy", "Dysprosium", 162.50, 1.92},
	{67, "Ho", "Holmium", 164.93, 1.92},
	{68, "Er", "Erbium", 167.26, 1.89},
	{69, "Tm", "Thulium", 168.93, 1.90},
	{70, "Yb", "Ytterbium", 173.05, 1.87},
	{71, "Lu", "Lutetium", 174.97, 1.87},
	{72, "Hf", "Hafnium", 178.49, 1.75},
	{73, "Ta", "Tantalum", 180.95, 1.70},
	{74, "W", "Tungsten", 183.84, 1.62},
	{75, "Re", "Rhenium", 186.21, 1.51},
	{76, "Os", "Osmium", 190.23, 1.44},
	{77, "Ir", "Iridium", 192.22, 1.41},
	{78, "Pt", "Platinum", 195.08, 1.36},
	{79, "Au", "Gold", 196.97, 1.36},
	{80, "Hg", "Mercury", 200.59, 1.32},
	{81, "Tl", "Thallium", 204.38, 1.45},
	{82, "Pb", "Lead", 207.2, 1.46},
	{83, "Bi", "Bismuth", 208.98, 1.48},
	{84, "Po", "Polonium", 209, 1.40},
	{85, "At", "Astatine", 210, 1.50},
	{86, "Rn", "Radon", 222, 1.50},
	{87, "Fr", "Francium", 223, 2.60},
	{88, "Ra", "Radium", 226, 2.21},
	{89, "Ac", "Actinium", 227, 2.15},
	{90, "Th", "Thorium", 232.04, 2.06},
	{91, "Pa", "Protactinium", 231.04, 2.00},
	{92, "U", "Uranium", 238.03, 1.96},
	{93, "Np", "Neptunium", 237, 1.90},
	{94, "Pu", "Plutonium", 244, 1.87},
	{95, "Am", "Americium", 243, 1.80},
	{96, "Cm", "Curium", 247, 1.69},
	{97, "Bk", "Berkelium", 247, 0},
	{98, "Cf", "Californium", 251, 0},
	{99, "Es", "Einsteinium", 252, 0},
	{100, "Fm", "Fermium", 257, 0},
	{101, "Md", "Mendelevium", 258, 0},
	{102, "No", "Nobelium", 259, 0},
	{103, "Lr", "Lawrencium", 266, 0},
	{104, "Rf", "Rutherfordium", 267, 0},
	{105, "Db", "Dubnium", 268, 0},
	{106, "Sg", "Seaborgium", 269, 0},
	{107, "Bh", "Bohrium", 270, 0},
	{108, "Hs", "Hassium", 277, 0},
	{109, "Mt", "Meitnerium", 278, 0},
	{110, "Ds", "Darmstadtium", 281, 0},
	{111, "Rg", "Roentgenium", 282, 0},
	{112, "Cn", "Copernicium", 285, 0},
	{113, "Nh", "Nihonium", 286, 0},
	{114, "Fl", "Flerovium", 289, 0},
	{115, "Mc", "Moscovium", 290, 0},
	{116, "Lv", "Livermorium", 293, 0},
	{117, "Ts", "Tennessine", 294, 0},
	{118, "Og", "Oganesson", 294, 0},
}

//symbol -> index in elements. Built once, never written afterwards.
var symbolIndex = func() map[string]int {
	m := make(map[string]int, len(elements))
	for i, v := range elements {
		m[v.Symbol] = i
	}
	return m
}()

// LookupElement returns the data for the element with the given symbol.
// The symbol must be correctly capitalized.
func LookupElement(symbol string) (Element, bool) {
	i, ok := symbolIndex[symbol]
	if !ok {
		return Element{}, false
	}
	return elements[i], true
}

// IsElement returns true if symbol is a periodic table symbol.
func IsElement(symbol string) bool {
	_, ok := symbolIndex[symbol]
	return ok
}

// SymbolFromNumber returns the symbol for atomic number z, or "" if z is out of range.
func SymbolFromNumber(z int) string {
	if z < 1 || z > len(elements) {
		return ""
	}
	return elements[z-1].Symbol
}

// AtomicNumber returns the atomic number of symbol, or 0 if symbol is not an element.
func AtomicNumber(symbol string) int {
	e, ok := LookupElement(symbol)
	if !ok {
		return 0
	}
	return e.Number
}

// Mass returns the standard atomic weight of symbol, or 0 if unknown.
func Mass(symbol string) float64 {
	e, _ := LookupElement(symbol)
	return e.Mass
}

// CovalentRadius returns the covalent radius of symbol, or DefaultCovalentRadius
// for unknown elements and elements without data.
func CovalentRadius(symbol string) float64 {
	e, ok := LookupElement(symbol)
	if !ok || e.Covrad == 0 {
		return DefaultCovalentRadius
	}
	return e.Covrad
}

// NormalizeSymbol tries to get an element symbol from a label as found in
// files: "fe", "FE", "Fe1", "O2-", "Fe_pv", "Fe/PAW", "C(Fragment=1)" or an
// atomic number. It returns an UnknownElement error if nothing matches.
func NormalizeSymbol(token string) (string, error) {
	t := strings.TrimSpace(token)
	if t == "" {
		return "", UnknownElementError(token)
	}
	if z, ok := atoiOK(t); ok {
		if s := SymbolFromNumber(z); s != "" {
			return s, nil
		}
		return "", UnknownElementError(token)
	}
	letters := make([]rune, 0, 2)
	for _, r := range t {
		if !unicode.IsLetter(r) || len(letters) == 2 {
			break
		}
		letters = append(letters, r)
	}
	if len(letters) == 0 {
		return "", UnknownElementError(token)
	}
	first := strings.ToUpper(string(letters[0]))
	if len(letters) == 2 {
		two := first + strings.ToLower(string(letters[1]))
		if IsElement(two) {
			//"CA" style labels are ambiguous, but a label that is exactly
			//two letters long is taken as the two-letter element.
			return two, nil
		}
	}
	if IsElement(first) {
		return first, nil
	}
	return "", UnknownElementError(token)
}

// atoiOK parses a plain non-negative integer without allocating an error.
func atoiOK(s string) (int, bool) {
	if s == "" || len(s) > 3 {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
