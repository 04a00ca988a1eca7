// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import "strings"

// shiftFunc maps an old (col, row) 1-based coordinate to its new position
// after a structural edit (§4.7).
type shiftFunc func(col, row int) (int, int)

func insertRowsShift(start, count int) shiftFunc {
	return func(c, r int) (int, int) {
		if r >= start {
			return c, r + count
		}
		return c, r
	}
}

func removeRowShift(row int) shiftFunc {
	return func(c, r int) (int, int) {
		if r > row {
			return c, r - 1
		}
		return c, r
	}
}

func insertColsShift(col, count int) shiftFunc {
	return func(c, r int) (int, int) {
		if c >= col {
			return c + count, r
		}
		return c, r
	}
}

func removeColShift(col int) shiftFunc {
	return func(c, r int) (int, int) {
		if c > col {
			return c - 1, r
		}
		return c, r
	}
}

// isRefAlnum reports whether b can be part of an identifier, used to check
// that a candidate ref token isn't a suffix of a longer name.
func isRefAlnum(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '_'
}

// shiftRefString rewrites every A1 reference token in s via fn, preserving
// string literals, sheet qualifiers, absolute ($) markers, and range colons,
// per §4.7's lexical tokenizer contract.
func shiftRefString(s string, fn shiftFunc) string {
	var b strings.Builder
	i := 0
	n := len(s)
	for i < n {
		c := s[i]
		if c == '"' {
			j := i + 1
			for j < n && s[j] != '"' {
				j++
			}
			if j < n {
				j++
			}
			b.WriteString(s[i:j])
			i = j
			continue
		}
		if precededByIdent := i > 0 && isRefAlnum(s[i-1]); !precededByIdent {
			if tok, consumed, ok := scanRefToken(s[i:]); ok {
				b.WriteString(shiftOneRef(tok, fn))
				i += consumed
				continue
			}
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

// scanRefToken attempts to match a ref token (optional $, 1-3 letters,
// optional $, 1-7 digits) at the start of s.
func scanRefToken(s string) (tok string, consumed int, ok bool) {
	i := 0
	n := len(s)
	if i < n && s[i] == '$' {
		i++
	}
	letterStart := i
	for i < n && i-letterStart < 3 && ((s[i] >= 'A' && s[i] <= 'Z') || (s[i] >= 'a' && s[i] <= 'z')) {
		i++
	}
	if i == letterStart {
		return "", 0, false
	}
	if i < n && s[i] == '$' {
		i++
	}
	digitStart := i
	for i < n && i-digitStart < 7 && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digitStart {
		return "", 0, false
	}
	if i < n && isRefAlnum(s[i]) {
		return "", 0, false
	}
	return s[:i], i, true
}

func shiftOneRef(tok string, fn shiftFunc) string {
	colAbs, rowAbs := false, false
	i := 0
	if tok[i] == '$' {
		colAbs = true
		i++
	}
	letterStart := i
	for i < len(tok) && ((tok[i] >= 'A' && tok[i] <= 'Z') || (tok[i] >= 'a' && tok[i] <= 'z')) {
		i++
	}
	colStr := tok[letterStart:i]
	if i < len(tok) && tok[i] == '$' {
		rowAbs = true
		i++
	}
	rowStr := tok[i:]

	col, err := ColumnNameToNumber(colStr)
	if err != nil {
		return tok
	}
	row := 0
	for _, d := range rowStr {
		row = row*10 + int(d-'0')
	}
	newCol, newRow := fn(col, row)
	if newCol < 1 || newRow < 1 {
		return tok
	}
	newColStr, _ := ColumnNumberToName(newCol)
	var b strings.Builder
	if colAbs {
		b.WriteByte('$')
	}
	b.WriteString(newColStr)
	if rowAbs {
		b.WriteByte('$')
	}
	b.WriteString(itoa(newRow))
	return b.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [12]byte
	i := len(buf)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// applyShift rewrites every reference-bearing structure on sheet via fn,
// per §4.7: formulas, merges, auto-filter, data validations, hyperlinks,
// panes, conditional formats, drawing anchors (via shiftAnchor), tables,
// comments, form controls and sparklines. Deferred categories are hydrated
// first so their references are shifted too.
func applyShift(s *Sheet, fn shiftFunc) {
	s.ensureDrawingsHydrated()
	s.ensureCommentsHydrated()
	s.ensureTablesHydrated()
	s.ensureFormControlsHydrated()
	for _, row := range s.rows {
		for _, c := range row.Cells {
			if c.Value.Type == CellTypeFormulaString && c.Value.Formula != nil {
				c.Value.Formula.Expr = shiftRefString(c.Value.Formula.Expr, fn)
			}
		}
	}
	for i := range s.Merges {
		s.Merges[i].From = shiftRefString(s.Merges[i].From, fn)
		s.Merges[i].To = shiftRefString(s.Merges[i].To, fn)
	}
	if s.Filter != nil {
		s.Filter.Range = shiftRefString(s.Filter.Range, fn)
	}
	for i := range s.Validations {
		s.Validations[i].Range = shiftRefString(s.Validations[i].Range, fn)
		s.Validations[i].Formula1 = shiftRefString(s.Validations[i].Formula1, fn)
		s.Validations[i].Formula2 = shiftRefString(s.Validations[i].Formula2, fn)
	}
	for i := range s.Hyperlinks {
		s.Hyperlinks[i].Cell = shiftRefString(s.Hyperlinks[i].Cell, fn)
		if s.Hyperlinks[i].Internal {
			s.Hyperlinks[i].Location = shiftRefString(s.Hyperlinks[i].Location, fn)
		}
	}
	if s.Panes != nil && s.Panes.TopLeftCell != "" {
		s.Panes.TopLeftCell = shiftRefString(s.Panes.TopLeftCell, fn)
	}
	for i := range s.ConditionalFormats {
		s.ConditionalFormats[i].Range = shiftRefString(s.ConditionalFormats[i].Range, fn)
		for j := range s.ConditionalFormats[i].Rules {
			formulas := s.ConditionalFormats[i].Rules[j].Formula
			for k, f := range formulas {
				formulas[k] = shiftRefString(f, fn)
			}
		}
	}
	for i := range s.Images {
		s.Images[i].Anchor = shiftAnchor(s.Images[i].Anchor, fn)
	}
	for i := range s.Charts {
		s.Charts[i].Anchor = shiftAnchor(s.Charts[i].Anchor, fn)
	}
	for i := range s.Shapes {
		s.Shapes[i].Anchor = shiftAnchor(s.Shapes[i].Anchor, fn)
	}
	for i := range s.Tables {
		s.Tables[i].Range = shiftRefString(s.Tables[i].Range, fn)
	}
	for i := range s.Comments {
		s.Comments[i].Cell = shiftRefString(s.Comments[i].Cell, fn)
	}
	for i := range s.FormControls {
		s.FormControls[i].Cell = shiftRefString(s.FormControls[i].Cell, fn)
		if s.FormControls[i].LinkedCell != "" {
			s.FormControls[i].LinkedCell = shiftRefString(s.FormControls[i].LinkedCell, fn)
		}
	}
	for i := range s.Sparklines {
		for j, r := range s.Sparklines[i].DataRanges {
			s.Sparklines[i].DataRanges[j] = shiftRefString(r, fn)
		}
		for j, l := range s.Sparklines[i].Locations {
			s.Sparklines[i].Locations[j] = shiftRefString(l, fn)
		}
	}
}

// shiftAnchor rewrites a drawing anchor's cell coordinates under fn. Anchors
// are stored 0-based on disk; the shift engine operates on 1-based
// coordinates, so 1 is added before and subtracted after (§4.7).
func shiftAnchor(a Anchor, fn shiftFunc) Anchor {
	fc, fr := fn(a.FromCol+1, a.FromRow+1)
	a.FromCol, a.FromRow = fc-1, fr-1
	if a.TwoCell {
		tc, tr := fn(a.ToCol+1, a.ToRow+1)
		a.ToCol, a.ToRow = tc-1, tr-1
	}
	return a
}

// rebuildRows rewrites s.rows under the new row numbering produced by fn,
// moving each occupied row's cells (with shifted column numbers) to its
// new row index. Cells whose new row is < 1 are dropped.
func rebuildRows(s *Sheet, fn shiftFunc) {
	newRows := map[int]*Row{}
	for rowNum, row := range s.rows {
		for colNum, cell := range row.Cells {
			newCol, newRow := fn(colNum, rowNum)
			if newCol < 1 || newRow < 1 {
				continue
			}
			dst, ok := newRows[newRow]
			if !ok {
				dst = newRow2(row)
				newRows[newRow] = dst
			}
			dst.Cells[newCol] = cell
		}
		if nr := fnRowOnly(fn, rowNum); nr >= 1 {
			if _, ok := newRows[nr]; !ok {
				// preserve row-level metadata (height etc.) even if no cells moved here
				newRows[nr] = newRow2(row)
			}
		}
	}
	s.rows = newRows
}

func fnRowOnly(fn shiftFunc, row int) int {
	_, r := fn(1, row)
	return r
}

func newRow2(src *Row) *Row {
	r := newRow()
	r.Height = src.Height
	r.Hidden = src.Hidden
	r.Custom = src.Custom
	r.OutlineLevel = src.OutlineLevel
	r.StyleID = src.StyleID
	return r
}
