// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

// Cell is one occupied grid position: a logical value plus its style id.
// Unoccupied positions hold no Cell at all (§3: sparse row storage).
type Cell struct {
	Value   CellValue
	StyleID int
}

// Row is the sparse, column-ordered set of cells sharing one row index.
// Cells are kept in a map so that random-access set/get is O(1); ordered
// traversal (GetRows, marshalling) sorts columns on demand.
type Row struct {
	Cells        map[int]*Cell
	Height       float64
	Hidden       bool
	Custom       bool // explicit row height set by the user, not inherited from sheet default
	OutlineLevel uint8
	StyleID      int
}

func newRow() *Row {
	return &Row{Cells: map[int]*Cell{}}
}
