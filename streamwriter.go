// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"sort"

	"github.com/mohae/deepcopy"
)

// StreamWriter is an append-only construction path for a new sheet (§4.10):
// rows must be written in strictly ascending row order, and cells within a
// row in strictly ascending column order. Shared strings are interned into a
// local table and remapped into the workbook's table at Apply time.
type StreamWriter struct {
	sheetName string
	rows      []*Row
	rowNums   []int
	lastRow   int
	local     *SharedStrings
}

// NewStreamWriter returns a StreamWriter that will build a new sheet named
// sheetName once ApplyStreamWriter is called.
func NewStreamWriter(sheetName string) *StreamWriter {
	return &StreamWriter{sheetName: sheetName, local: NewSharedStrings()}
}

// WriteRow appends one row's cell values at rowNum, which must be strictly
// greater than every previously written row number. values holds 1-based
// column -> value pairs.
func (w *StreamWriter) WriteRow(rowNum int, values map[int]CellValue) error {
	if rowNum <= w.lastRow {
		return wrapf(ErrInvalidArgument, "stream writer: row %d is not after last written row %d", rowNum, w.lastRow)
	}
	cols := make([]int, 0, len(values))
	for c := range values {
		cols = append(cols, c)
	}
	sort.Ints(cols)

	r := newRow()
	for _, col := range cols {
		v := values[col]
		if v.Type == CellTypeSharedString {
			if len(v.Rich) > 0 {
				v.Num = float64(w.local.AddRichText(v.Rich))
			} else {
				v.Num = float64(w.local.Add(v.Str))
			}
		}
		r.Cells[col] = &Cell{Value: v}
	}
	w.rows = append(w.rows, r)
	w.rowNums = append(w.rowNums, rowNum)
	w.lastRow = rowNum
	return nil
}

// ApplyStreamWriter merges w's local SST into wb's shared-string table,
// remapping every shared-string cell's index, then adds the accumulated
// rows as a new sheet named w.sheetName (§4.10's merge/rewrite/add contract).
func ApplyStreamWriter(wb *Workbook, w *StreamWriter) error {
	remap := make([]int, w.local.Len())
	for i := 0; i < w.local.Len(); i++ {
		str, _ := w.local.Get(i)
		if runs, ok := w.local.GetRichText(i); ok {
			remap[i] = wb.SharedStrings.AddRichText(runs)
		} else {
			remap[i] = wb.SharedStrings.Add(str)
		}
	}

	if err := wb.AddSheet(w.sheetName); err != nil {
		return err
	}
	s, _ := wb.Sheet(w.sheetName)
	for i, r := range w.rows {
		cloned := deepcopy.Copy(r).(*Row)
		for _, cell := range cloned.Cells {
			if cell.Value.Type == CellTypeSharedString {
				cell.Value.Num = float64(remap[int(cell.Value.Num)])
			}
		}
		s.rows[w.rowNums[i]] = cloned
	}
	return nil
}
