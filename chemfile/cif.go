/*
 * cif.go, part of gostruct.
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
	"fmt"
	"math"
	"strings"

	chem "github.com/rmera/gostruct"
	"gonum.org/v1/gonum/spatial/r3"
)

type cifCodec struct {
	opts Options
}

type cifToken struct {
	text   string
	line   int  //1-based
	quoted bool //quoted strings and text fields are never tags or keywords
}

// cifTokenize splits a CIF file in tokens. It understands quoted strings,
// semicolon-delimited text fields and comments.
func cifTokenize(content string) []cifToken {
	lines := splitLines(content)
	toks := make([]cifToken, 0, 8*len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, ";") {
			text := []string{line[1:]}
			start := i
			for i++; i < len(lines) && !strings.HasPrefix(lines[i], ";"); i++ {
				text = append(text, lines[i])
			}
			toks = append(toks, cifToken{text: strings.TrimSpace(strings.Join(text, "\n")), line: start + 1, quoted: true})
			continue
		}
		j := 0
		for j < len(line) {
			c := line[j]
			if c == ' ' || c == '\t' {
				j++
				continue
			}
			if c == '#' {
				break
			}
			if c == '\'' || c == '"' {
				//a quote only closes when followed by whitespace or the end of the line.
				k := j + 1
				for k < len(line) && !(line[k] == c && (k+1 == len(line) || line[k+1] == ' ' || line[k+1] == '\t')) {
					k++
				}
				toks = append(toks, cifToken{text: line[j+1 : k], line: i + 1, quoted: true})
				j = k + 1
				continue
			}
			k := j
			for k < len(line) && line[k] != ' ' && line[k] != '\t' {
				k++
			}
			toks = append(toks, cifToken{text: line[j:k], line: i + 1})
			j = k
		}
	}
	return toks
}

// cifTag lowercases a tag and turns the mmCIF dotted spelling into the
// underscore one: _atom_site.fract_x becomes _atom_site_fract_x.
func cifTag(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), ".", "_")
}

func (t cifToken) isTag() bool {
	return !t.quoted && strings.HasPrefix(t.text, "_")
}

func (t cifToken) isKeyword() bool {
	if t.quoted {
		return false
	}
	l := strings.ToLower(t.text)
	return l == "loop_" || strings.HasPrefix(l, "data_") || strings.HasPrefix(l, "save_") || l == "global_" || l == "stop_"
}

type cifLoop struct {
	tags []string
	cols map[string]int
	rows [][]cifToken
}

func (L *cifLoop) col(tag string) int {
	if c, ok := L.cols[tag]; ok {
		return c
	}
	return -1
}

type cifBlock struct {
	name  string
	items map[string]cifToken
	loops []*cifLoop
}

// loopWith returns the first loop that has any of the tags.
func (B *cifBlock) loopWith(tags ...string) *cifLoop {
	for _, l := range B.loops {
		for _, t := range tags {
			if l.col(t) >= 0 {
				return l
			}
		}
	}
	return nil
}

// cifFirstBlock parses the tokens of the first data block.
func (C *cifCodec) cifFirstBlock(toks []cifToken) *cifBlock {
	B := &cifBlock{items: make(map[string]cifToken)}
	i := 0
	for i < len(toks) && !strings.HasPrefix(strings.ToLower(toks[i].text), "data_") {
		i++
	}
	if i < len(toks) {
		B.name = toks[i].text[5:]
		i++
	}
	for i < len(toks) {
		t := toks[i]
		l := strings.ToLower(t.text)
		switch {
		case !t.quoted && strings.HasPrefix(l, "data_"):
			return B
		case !t.quoted && l == "loop_":
			L := &cifLoop{cols: make(map[string]int)}
			i++
			for i < len(toks) && toks[i].isTag() {
				tag := cifTag(toks[i].text)
				L.cols[tag] = len(L.tags)
				L.tags = append(L.tags, tag)
				i++
			}
			var row []cifToken
			for i < len(toks) && !toks[i].isTag() && !toks[i].isKeyword() {
				row = append(row, toks[i])
				if len(row) == len(L.tags) {
					L.rows = append(L.rows, row)
					row = nil
				}
				i++
			}
			if len(row) > 0 {
				C.opts.malformed("cif", row[0].line, row[0].text, fmt.Errorf("incomplete loop row with %d of %d values", len(row), len(L.tags)))
			}
			if len(L.tags) > 0 {
				B.loops = append(B.loops, L)
			}
		case t.isTag():
			if i+1 < len(toks) && !toks[i+1].isTag() && !toks[i+1].isKeyword() {
				B.items[cifTag(t.text)] = toks[i+1]
				i += 2
				continue
			}
			i++
		default:
			i++
		}
	}
	return B
}

// cifNumber parses a CIF number, dropping the standard uncertainty: 1.234(5) is 1.234.
func cifNumber(s string) (float64, error) {
	if k := strings.IndexByte(s, '('); k >= 0 {
		s = s[:k]
	}
	return parseFloat(s)
}

func cifMissing(s string) bool {
	return s == "?" || s == "."
}

func (C *cifCodec) cell(B *cifBlock) (chem.UnitCell, bool, error) {
	names := []string{"_cell_length_a", "_cell_length_b", "_cell_length_c", "_cell_angle_alpha", "_cell_angle_beta", "_cell_angle_gamma"}
	var p [6]float64
	found := 0
	for i, n := range names {
		t, ok := B.items[n]
		if !ok {
			continue
		}
		v, err := cifNumber(t.text)
		if err != nil {
			return chem.UnitCell{}, false, chem.WrapError(chem.KindStructuralParse, err, "cif: invalid %s", n)
		}
		p[i] = v
		found++
	}
	if found == 0 {
		return chem.UnitCell{}, false, nil
	}
	if found < 6 {
		return chem.UnitCell{}, false, chem.StructuralParseError("cif", "cell parameters")
	}
	cell, err := chem.NewUnitCell(p[0], p[1], p[2], p[3], p[4], p[5])
	return cell, err == nil, err
}

// symops returns the symmetry operators of the block, from a loop or a single item.
func (C *cifCodec) symops(B *cifBlock) []symOp {
	isOpTag := func(t string) bool {
		return t == "_symmetry_equiv_pos_as_xyz" || (strings.HasPrefix(t, "_space_group_symop") && strings.HasSuffix(t, "operation_xyz"))
	}
	var ops []symOp
	add := func(t cifToken) {
		op, err := parseSymOp(t.text)
		if err != nil {
			C.opts.malformed("cif", t.line, t.text, err)
			return
		}
		ops = append(ops, op)
	}
	for _, L := range B.loops {
		for c, tag := range L.tags {
			if !isOpTag(tag) {
				continue
			}
			for _, r := range L.rows {
				add(r[c])
			}
			return ops
		}
	}
	for tag, t := range B.items {
		if isOpTag(tag) {
			add(t)
			break
		}
	}
	return ops
}

// Parse reads the first data block of a CIF file. If the file has more than one
// symmetry operator, each one is applied to every atom, and the results are wrapped
// into the cell and deduplicated.
func (C *cifCodec) Parse(content string) (*chem.Structure, error) {
	B := C.cifFirstBlock(cifTokenize(content))
	S := chem.NewStructure(B.name)
	cell, crystal, err := C.cell(B)
	if err != nil {
		return nil, errDecorate(err, "cifCodec.Parse")
	}
	if crystal {
		S.SetCell(cell)
	}
	L := B.loopWith("_atom_site_fract_x", "_atom_site_cartn_x")
	if L == nil {
		return nil, errDecorate(chem.StructuralParseError("cif", "_atom_site loop"), "cifCodec.Parse")
	}
	fract := L.col("_atom_site_fract_x") >= 0
	prefix := "_atom_site_cartn_"
	if fract {
		prefix = "_atom_site_fract_"
		if !crystal {
			return nil, errDecorate(chem.StructuralParseError("cif", "cell parameters"), "cifCodec.Parse")
		}
	}
	xc, yc, zc := L.col(prefix+"x"), L.col(prefix+"y"), L.col(prefix+"z")
	if xc < 0 || yc < 0 || zc < 0 {
		return nil, errDecorate(chem.StructuralParseError("cif", prefix+"x/y/z columns"), "cifCodec.Parse")
	}
	symcol := L.col("_atom_site_type_symbol")
	labcol := L.col("_atom_site_label")
	if symcol < 0 && labcol < 0 {
		return nil, errDecorate(chem.StructuralParseError("cif", "_atom_site_type_symbol or _atom_site_label"), "cifCodec.Parse")
	}
	type site struct {
		symbol string
		v      r3.Vec
		line   int
	}
	sites := make([]site, 0, len(L.rows))
	for _, r := range L.rows {
		line := r[0].line
		text := rowText(r)
		var v [3]float64
		bad := false
		for i, c := range []int{xc, yc, zc} {
			f, err := cifNumber(r[c].text)
			if err != nil {
				C.opts.malformed("cif", line, text, err)
				bad = true
				break
			}
			v[i] = f
		}
		if bad {
			continue
		}
		tok := ""
		if symcol >= 0 && !cifMissing(r[symcol].text) {
			tok = r[symcol].text
		} else if labcol >= 0 {
			tok = r[labcol].text
		}
		sym, err := chem.NormalizeSymbol(tok)
		if err != nil {
			C.opts.report(&chem.LineWarning{Format: "cif", Line: line, Text: text, Kind: chem.KindUnknownElement, Cause: err})
			continue
		}
		sites = append(sites, site{symbol: sym, v: r3.Vec{X: v[0], Y: v[1], Z: v[2]}, line: line})
	}
	ops := C.symops(B)
	if !fract || len(ops) == 0 || (len(ops) == 1 && ops[0].isIdentity()) {
		for _, s := range sites {
			pos := s.v
			if fract {
				pos = cell.FractionalToCartesian(s.v)
			}
			if _, err := S.AddAtom(s.symbol, pos, false); err != nil {
				return nil, errDecorate(err, "cifCodec.Parse")
			}
		}
		return S, nil
	}
	type key struct {
		symbol  string
		x, y, z int64
	}
	hasIdentity := false
	for _, op := range ops {
		hasIdentity = hasIdentity || op.isIdentity()
	}
	if !hasIdentity {
		//the asymmetric unit itself is always part of the structure
		ops = append([]symOp{identityOp()}, ops...)
	}
	tol := C.opts.symtol()
	seen := make(map[key]bool)
	for _, s := range sites {
		for _, op := range ops {
			f := snapOne(chem.WrapFractional(op.apply(s.v)))
			pos := cell.FractionalToCartesian(f)
			k := key{s.symbol, int64(math.Round(pos.X / tol)), int64(math.Round(pos.Y / tol)), int64(math.Round(pos.Z / tol))}
			if seen[k] {
				continue
			}
			seen[k] = true
			if _, err := S.AddAtom(s.symbol, pos, false); err != nil {
				return nil, errDecorate(err, "cifCodec.Parse")
			}
		}
	}
	return S, nil
}

// snapOne maps components that are 1 within rounding error to 0, so atoms
// on cell faces deduplicate.
func snapOne(f r3.Vec) r3.Vec {
	s := func(x float64) float64 {
		if 1-x < 1e-9 {
			return 0
		}
		return x
	}
	return r3.Vec{X: s(f.X), Y: s(f.Y), Z: s(f.Z)}
}

func rowText(r []cifToken) string {
	t := make([]string, len(r))
	for i, v := range r {
		t[i] = v.text
	}
	return strings.Join(t, " ")
}

// cifQuote quotes a value if it has spaces or starts with a reserved character.
func cifQuote(s string) string {
	if s == "" {
		return "?"
	}
	if strings.ContainsAny(s, " \t'\"") || strings.ContainsAny(s[:1], "_#$;[]") {
		return "'" + strings.ReplaceAll(s, "'", "") + "'"
	}
	return s
}

// Serialize writes the structure in P1, with fractional coordinates. It requires a cell.
func (C *cifCodec) Serialize(S *chem.Structure) (string, error) {
	cell, err := needCell(S, "cif")
	if err != nil {
		return "", errDecorate(err, "cifCodec.Serialize")
	}
	frac, err := S.Fractional()
	if err != nil {
		return "", errDecorate(err, "cifCodec.Serialize")
	}
	name := strings.Join(strings.Fields(S.Name), "_")
	if name == "" {
		name = "structure"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "data_%s\n", name)
	fmt.Fprintf(&b, "_chemical_formula_sum %s\n", cifQuote(hillSpaced(S)))
	a, bl, c := cell.Lengths()
	al, be, ga := cell.Angles()
	fmt.Fprintf(&b, "_cell_length_a %.10f\n_cell_length_b %.10f\n_cell_length_c %.10f\n", a, bl, c)
	fmt.Fprintf(&b, "_cell_angle_alpha %.10f\n_cell_angle_beta %.10f\n_cell_angle_gamma %.10f\n", al, be, ga)
	fmt.Fprintf(&b, "_cell_volume %.6f\n", cell.Volume())
	b.WriteString("_symmetry_space_group_name_H-M 'P 1'\n_symmetry_Int_Tables_number 1\n")
	b.WriteString("loop_\n_symmetry_equiv_pos_as_xyz\n'x, y, z'\n")
	b.WriteString("loop_\n_atom_site_label\n_atom_site_type_symbol\n_atom_site_fract_x\n_atom_site_fract_y\n_atom_site_fract_z\n_atom_site_occupancy\n")
	count := make(map[string]int)
	for i, at := range S.Atoms() {
		count[at.Symbol]++
		f := frac[i]
		fmt.Fprintf(&b, "%s%d %s %.10f %.10f %.10f 1.0\n", at.Symbol, count[at.Symbol], at.Symbol, f.X, f.Y, f.Z)
	}
	return b.String(), nil
}

// hillSpaced returns the Hill formula with spaces between elements, as CIF wants it: C2 H6 O.
func hillSpaced(S *chem.Structure) string {
	f := S.Formula()
	var b strings.Builder
	for i, r := range f {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
