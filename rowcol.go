// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

// InsertRows inserts count blank rows starting at the 1-based row start,
// pushing start and everything below it down by count and rewriting every
// reference-bearing structure on the sheet (§4.7).
func (s *Sheet) InsertRows(start, count int) error {
	if start < 1 || count < 1 {
		return wrapf(ErrInvalidCellReference, "insert_rows: start and count must be positive")
	}
	fn := insertRowsShift(start, count)
	rebuildRows(s, fn)
	applyShift(s, fn)
	return nil
}

// RemoveRow deletes the 1-based row, pulling every row below it up by one
// and rewriting every reference-bearing structure (§4.7).
func (s *Sheet) RemoveRow(row int) error {
	if row < 1 {
		return wrapf(ErrInvalidCellReference, "remove_row: row must be positive")
	}
	delete(s.rows, row)
	fn := removeRowShift(row)
	rebuildRows(s, fn)
	applyShift(s, fn)
	return nil
}

// DuplicateRow copies row's cell values, styles, and row metadata into a
// newly inserted row immediately below it (§4.7).
func (s *Sheet) DuplicateRow(row int) error {
	if row < 1 {
		return wrapf(ErrInvalidCellReference, "duplicate_row: row must be positive")
	}
	src, ok := s.rows[row]
	if !ok {
		src = newRow()
	}
	snapshot := make(map[int]*Cell, len(src.Cells))
	for col, c := range src.Cells {
		cp := *c
		snapshot[col] = &cp
	}
	height, hidden, custom := src.Height, src.Hidden, src.Custom

	fn := insertRowsShift(row+1, 1)
	rebuildRows(s, fn)
	applyShift(s, fn)

	dst := newRow()
	dst.Height, dst.Hidden, dst.Custom = height, hidden, custom
	dst.Cells = snapshot
	s.rows[row+1] = dst
	return nil
}

// InsertCols inserts count blank columns starting at the 1-based col number
// given by the column letters colName, shifting colName and everything to
// its right rightward and rewriting every reference-bearing structure
// (§4.7).
func (s *Sheet) InsertCols(colName string, count int) error {
	col, err := ColumnNameToNumber(colName)
	if err != nil {
		return err
	}
	if count < 1 {
		return wrapf(ErrInvalidCellReference, "insert_cols: count must be positive")
	}
	fn := insertColsShift(col, count)
	rebuildRows(s, fn)
	applyShift(s, fn)

	shiftColMaps(s, fn)
	return nil
}

// RemoveCol deletes the column given by its letters, pulling every column to
// its right leftward by one and rewriting every reference-bearing structure
// (§4.7).
func (s *Sheet) RemoveCol(colName string) error {
	col, err := ColumnNameToNumber(colName)
	if err != nil {
		return err
	}
	fn := removeColShift(col)
	rebuildRows(s, fn)
	applyShift(s, fn)

	delete(s.colWidths, col)
	delete(s.colHidden, col)
	delete(s.colStyle, col)
	delete(s.colOutline, col)
	shiftColMaps(s, fn)
	return nil
}

// shiftColMaps rewrites the sheet's per-column metadata maps (width, hidden,
// style) under fn, run on a column index basis (row is irrelevant here).
func shiftColMaps(s *Sheet, fn shiftFunc) {
	rewriteFloat := func(m map[int]float64) map[int]float64 {
		out := map[int]float64{}
		for c, v := range m {
			nc, _ := fn(c, 1)
			if nc >= 1 {
				out[nc] = v
			}
		}
		return out
	}
	rewriteBool := func(m map[int]bool) map[int]bool {
		out := map[int]bool{}
		for c, v := range m {
			nc, _ := fn(c, 1)
			if nc >= 1 {
				out[nc] = v
			}
		}
		return out
	}
	rewriteInt := func(m map[int]int) map[int]int {
		out := map[int]int{}
		for c, v := range m {
			nc, _ := fn(c, 1)
			if nc >= 1 {
				out[nc] = v
			}
		}
		return out
	}
	rewriteU8 := func(m map[int]uint8) map[int]uint8 {
		out := map[int]uint8{}
		for c, v := range m {
			nc, _ := fn(c, 1)
			if nc >= 1 {
				out[nc] = v
			}
		}
		return out
	}
	s.colWidths = rewriteFloat(s.colWidths)
	s.colHidden = rewriteBool(s.colHidden)
	s.colStyle = rewriteInt(s.colStyle)
	s.colOutline = rewriteU8(s.colOutline)
}
