// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"strconv"
	"strings"
)

const (
	// MaxColumn is the maximum column index supported by SpreadsheetML (XFD).
	MaxColumn = 16384
	// MaxRow is the maximum row index supported by SpreadsheetML.
	MaxRow = 1048576
)

// ColumnNameToNumber converts a column letter reference (case-insensitive,
// e.g. "A", "Z", "AA", "XFD") to its 1-based column number.
func ColumnNameToNumber(name string) (int, error) {
	if len(name) == 0 {
		return 0, wrapf(ErrInvalidCellReference, "empty column name")
	}
	col := 0
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			col = col*26 + int(r-'A') + 1
		case r >= 'a' && r <= 'z':
			col = col*26 + int(r-'a') + 1
		default:
			return 0, wrapf(ErrInvalidCellReference, "invalid column name %q", name)
		}
	}
	if col < 1 || col > MaxColumn {
		return 0, wrapf(ErrInvalidCellReference, "column %q out of range", name)
	}
	return col, nil
}

// ColumnNumberToName converts a 1-based column number to its upper-case
// letter reference.
func ColumnNumberToName(col int) (string, error) {
	if col < 1 || col > MaxColumn {
		return "", wrapf(ErrInvalidCellReference, "column %d out of range", col)
	}
	var buf [8]byte
	i := len(buf)
	for col > 0 {
		col--
		i--
		buf[i] = byte('A' + col%26)
		col /= 26
	}
	return string(buf[i:]), nil
}

// splitCellName separates the column-letter prefix from the row-digit
// suffix of an (optionally $-prefixed) A1 reference, ignoring $ markers.
func splitCellName(ref string) (col, row string, ok bool) {
	i := 0
	for i < len(ref) && ref[i] == '$' {
		i++
	}
	start := i
	for i < len(ref) && ((ref[i] >= 'A' && ref[i] <= 'Z') || (ref[i] >= 'a' && ref[i] <= 'z')) {
		i++
	}
	col = ref[start:i]
	if i < len(ref) && ref[i] == '$' {
		i++
	}
	start = i
	for i < len(ref) && ref[i] >= '0' && ref[i] <= '9' {
		i++
	}
	row = ref[start:i]
	ok = i == len(ref) && col != "" && row != ""
	return
}

// CellNameToCoordinates parses an A1-style cell reference (case-insensitive
// column letters, 1-based row, optional $ absolute markers which are
// ignored here) into 1-based (col, row) coordinates.
func CellNameToCoordinates(ref string) (col, row int, err error) {
	colStr, rowStr, ok := splitCellName(ref)
	if !ok {
		return 0, 0, wrapf(ErrInvalidCellReference, "malformed cell reference %q", ref)
	}
	col, err = ColumnNameToNumber(colStr)
	if err != nil {
		return 0, 0, err
	}
	row, err = strconv.Atoi(rowStr)
	if err != nil || row < 1 || row > MaxRow {
		return 0, 0, wrapf(ErrInvalidCellReference, "invalid row in %q", ref)
	}
	return col, row, nil
}

// CoordinatesToCellName renders 1-based (col, row) coordinates as an A1
// reference, uppercase, no $ markers.
func CoordinatesToCellName(col, row int) (string, error) {
	colName, err := ColumnNumberToName(col)
	if err != nil {
		return "", err
	}
	if row < 1 || row > MaxRow {
		return "", wrapf(ErrInvalidCellReference, "row %d out of range", row)
	}
	return colName + strconv.Itoa(row), nil
}

// splitCellRange splits "A1:C5" into its two endpoints; a single-cell range
// "A1" yields the same reference on both sides.
func splitCellRange(rangeRef string) (from, to string) {
	parts := strings.SplitN(rangeRef, ":", 2)
	from = parts[0]
	if len(parts) == 2 {
		to = parts[1]
	} else {
		to = parts[0]
	}
	return
}

// trimSheetName returns the sheet-name part of a "'Sheet Name'!A1" or
// "Sheet!A1" style reference, quotes removed, for lookups keyed purely by
// sheet name; a string with no '!' is returned unchanged.
func trimSheetName(sheet string) string {
	if i := strings.LastIndex(sheet, "!"); i >= 0 {
		name := sheet[:i]
		name = strings.TrimPrefix(name, "'")
		name = strings.TrimSuffix(name, "'")
		return name
	}
	return sheet
}
