// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import "encoding/xml"

// TableColumn is one column header of a structured table.
type TableColumn struct {
	Name string
}

// Table is a structured table (xl/tables/tableN.xml): a named range with a
// header row and typed columns, addressable by formulas via its name.
type Table struct {
	Name    string
	Range   string
	Columns []TableColumn
	ShowHeaderRow bool
}

// xlsxTable directly maps xl/tables/tableN.xml.
type xlsxTable struct {
	XMLName     xml.Name           `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main table"`
	ID          int                `xml:"id,attr"`
	Name        string             `xml:"name,attr"`
	DisplayName string             `xml:"displayName,attr"`
	Ref         string             `xml:"ref,attr"`
	HeaderRowCount *int            `xml:"headerRowCount,attr,omitempty"`
	TableColumns xlsxTableColumns  `xml:"tableColumns"`
}

type xlsxTableColumns struct {
	Count         int                `xml:"count,attr,omitempty"`
	TableColumn []xlsxTableColumn  `xml:"tableColumn"`
}

type xlsxTableColumn struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

// AddTable appends a structured table to the sheet.
func (s *Sheet) AddTable(t Table) {
	s.ensureTablesHydrated()
	s.Tables = append(s.Tables, t)
}

// GetTables returns every structured table on the sheet.
func (s *Sheet) GetTables() []Table {
	s.ensureTablesHydrated()
	return s.Tables
}

// ensureTablesHydrated lifts every table part referenced by the sheet out
// of the deferred-parts index into s.Tables, exactly once (§4.2).
func (s *Sheet) ensureTablesHydrated() {
	if s.tablesHydrated {
		return
	}
	s.tablesHydrated = true
	for _, p := range s.pendingTablePaths {
		data, ok := s.wb.parts.take(CategoryTables, p)
		if !ok {
			continue
		}
		s.wb.parts.markHydrated(CategoryTables)
		var xt xlsxTable
		if decodeXML(data, &xt) != nil {
			continue
		}
		t := Table{Name: xt.Name, Range: xt.Ref, ShowHeaderRow: xt.HeaderRowCount == nil || *xt.HeaderRowCount > 0}
		for _, c := range xt.TableColumns.TableColumn {
			t.Columns = append(t.Columns, TableColumn{Name: c.Name})
		}
		s.Tables = append(s.Tables, t)
	}
}

// marshalTable renders one Table into its xl/tables/tableN.xml model.
func marshalTable(id int, t Table) *xlsxTable {
	xt := &xlsxTable{ID: id, Name: t.Name, DisplayName: t.Name, Ref: t.Range}
	for i, c := range t.Columns {
		xt.TableColumns.TableColumn = append(xt.TableColumns.TableColumn, xlsxTableColumn{ID: i + 1, Name: c.Name})
	}
	xt.TableColumns.Count = len(t.Columns)
	if !t.ShowHeaderRow {
		zero := 0
		xt.HeaderRowCount = &zero
	}
	return xt
}
