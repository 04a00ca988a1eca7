// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import "sort"

// maxCellTextLength is the 32,767-character ceiling on a cell's stored text
// content (§4.6).
const maxCellTextLength = 32767

// MergeCell is one merged rectangular range, stored as its two A1 corners.
type MergeCell struct {
	From, To string
}

// Hyperlink is a cell's external or internal link target.
type Hyperlink struct {
	Cell     string
	Target   string
	Location string
	Display  string
	Tooltip  string
	Internal bool
}

// DataValidationType enumerates the supported validation kinds.
type DataValidationType int

const (
	ValidationNone DataValidationType = iota
	ValidationList
	ValidationWhole
	ValidationDecimal
	ValidationDate
	ValidationTextLength
	ValidationCustom
)

// DataValidation is one validation rule applied to a cell range.
type DataValidation struct {
	Type             DataValidationType
	Range            string
	Operator         string
	Formula1         string
	Formula2         string
	AllowBlank       bool
	ShowErrorMessage bool
	ErrorTitle       string
	ErrorBody        string
}

// AutoFilter is a sheet's single auto-filter range. Per-column filter
// criteria are not modelled.
type AutoFilter struct {
	Range string
}

// Pane describes a frozen or split pane (§4.6 host surface).
type Pane struct {
	XSplit      float64
	YSplit      float64
	TopLeftCell string
	ActivePane  string
	State       string // "frozen", "split", or ""
}

// SheetProtection mirrors the worksheet-level protection flags.
type SheetProtection struct {
	Enabled            bool
	PasswordHash       string
	EditObjects        bool
	EditScenarios      bool
	SelectLockedCells  bool
	SelectUnlockedCells bool
}

// Sheet is one worksheet: its grid of rows plus the auxiliary structures
// that reference cell coordinates (§3, §4.6).
type Sheet struct {
	Name         string
	rows         map[int]*Row
	colWidths    map[int]float64
	colHidden    map[int]bool
	colStyle     map[int]int
	colOutline   map[int]uint8
	DefaultRowHeight float64
	DefaultColWidth  float64
	Merges       []MergeCell
	Hyperlinks   []Hyperlink
	Validations  []DataValidation
	Filter       *AutoFilter
	Panes        *Pane
	TabColor     *Color
	Protection   SheetProtection
	Hidden       bool

	ConditionalFormats []ConditionalFormat
	Comments           []Comment
	FormControls       []FormControl
	Sparklines         []SparklineGroup
	Tables             []Table
	Images             []Image
	Charts             []Chart
	Shapes             []Shape
	DrawingID          int // 1 once the sheet has a drawing layer; 0 = none

	pendingDrawingPath  string // xl/drawings/drawingN.xml target, set on open, consumed on first hydration
	drawingsHydrated    bool
	pendingCommentsPath string
	commentsHydrated    bool
	pendingTablePaths   []string
	tablesHydrated      bool
	pendingVMLPath      string
	formControlsHydrated bool

	rawExtLst string // worksheet extLst remainder after sparkline extraction

	wb *Workbook
}

func newSheet(name string, wb *Workbook) *Sheet {
	return &Sheet{
		Name:      name,
		rows:      map[int]*Row{},
		colWidths: map[int]float64{},
		colHidden: map[int]bool{},
		colStyle:  map[int]int{},
		colOutline: map[int]uint8{},
		wb:        wb,
	}
}

func (s *Sheet) row(row int, create bool) *Row {
	r, ok := s.rows[row]
	if !ok && create {
		r = newRow()
		s.rows[row] = r
	}
	return r
}

// SetCellValue sets the logical value of the cell at ref, interning plain
// and rich strings into the workbook's shared-string table (§4.6).
func (s *Sheet) SetCellValue(ref string, value CellValue) error {
	col, row, err := CellNameToCoordinates(ref)
	if err != nil {
		return err
	}
	if len(value.PlainText()) > maxCellTextLength {
		return wrapf(ErrCellValueTooLong, "cell %s exceeds %d characters", ref, maxCellTextLength)
	}
	if value.Type == CellTypeSharedString {
		if len(value.Rich) > 0 {
			value.Num = float64(s.wb.SharedStrings.AddRichText(value.Rich))
		} else {
			value.Num = float64(s.wb.SharedStrings.Add(value.Str))
		}
	}
	if value.Type == CellTypeEmpty {
		if r, ok := s.rows[row]; ok {
			delete(r.Cells, col)
		}
		return nil
	}
	r := s.row(row, true)
	c, ok := r.Cells[col]
	if !ok {
		c = &Cell{}
		r.Cells[col] = c
	}
	c.Value = value
	return nil
}

// GetCellValue returns the logical value at ref, or Empty if unoccupied.
func (s *Sheet) GetCellValue(ref string) (CellValue, error) {
	col, row, err := CellNameToCoordinates(ref)
	if err != nil {
		return CellValue{}, err
	}
	r := s.row(row, false)
	if r == nil {
		return Empty(), nil
	}
	c, ok := r.Cells[col]
	if !ok {
		return Empty(), nil
	}
	return s.resolvedValue(c.Value), nil
}

// SetCellStyle assigns a style id (from Workbook.Styles.AddStyle) to every
// cell in the rectangular range from/to.
func (s *Sheet) SetCellStyle(from, to string, styleID int) error {
	fc, fr, err := CellNameToCoordinates(from)
	if err != nil {
		return err
	}
	tc, tr, err := CellNameToCoordinates(to)
	if err != nil {
		return err
	}
	if fc > tc {
		fc, tc = tc, fc
	}
	if fr > tr {
		fr, tr = tr, fr
	}
	for row := fr; row <= tr; row++ {
		r := s.row(row, true)
		for col := fc; col <= tc; col++ {
			c, ok := r.Cells[col]
			if !ok {
				c = &Cell{Value: Empty()}
				r.Cells[col] = c
			}
			c.StyleID = styleID
		}
	}
	return nil
}

// GetCellStyle returns the style id at ref (0 if unset).
func (s *Sheet) GetCellStyle(ref string) (int, error) {
	col, row, err := CellNameToCoordinates(ref)
	if err != nil {
		return 0, err
	}
	r := s.row(row, false)
	if r == nil {
		return 0, nil
	}
	c, ok := r.Cells[col]
	if !ok {
		return 0, nil
	}
	return c.StyleID, nil
}

// Excel's hard limits on column width and row height.
const (
	maxColWidth  = 255
	maxRowHeight = 409
)

// SetColWidth sets the width of columns [from, to] (1-based, inclusive).
func (s *Sheet) SetColWidth(from, to int, width float64) error {
	if width > maxColWidth {
		return wrapf(ErrColumnWidthExceeded, "width %g exceeds %d", width, maxColWidth)
	}
	for c := from; c <= to; c++ {
		s.colWidths[c] = width
	}
	return nil
}

// GetColWidth returns the width of a column, or the sheet default (or 0)
// when unset.
func (s *Sheet) GetColWidth(col int) float64 {
	if w, ok := s.colWidths[col]; ok {
		return w
	}
	return s.DefaultColWidth
}

// SetColStyle sets the default style id for columns [from, to].
func (s *Sheet) SetColStyle(from, to int, styleID int) {
	for c := from; c <= to; c++ {
		s.colStyle[c] = styleID
	}
}

// SetRowHeight sets the height of a single 1-based row index.
func (s *Sheet) SetRowHeight(row int, height float64) error {
	if height > maxRowHeight {
		return wrapf(ErrRowHeightExceeded, "height %g exceeds %d", height, maxRowHeight)
	}
	r := s.row(row, true)
	r.Height = height
	r.Custom = true
	return nil
}

// GetRowHeight returns the height of a row, or the sheet default (or 0)
// when no custom height is set.
func (s *Sheet) GetRowHeight(row int) float64 {
	if r, ok := s.rows[row]; ok && r.Custom {
		return r.Height
	}
	return s.DefaultRowHeight
}

// SetCellFormula stores a formula expression at ref without evaluating it;
// any previously cached result is discarded.
func (s *Sheet) SetCellFormula(ref, expr string) error {
	return s.SetCellValue(ref, FormulaValue(expr))
}

// CellEntry is one occupied cell within a RowEntry/ColEntry, holding its
// 1-based row-or-column-relative coordinate and resolved logical value.
type CellEntry struct {
	Index int
	Value CellValue
}

// RowEntry is one occupied row's sparse cell list, per §4.6's
// get_rows(sheet) -> Vec<(row_num, Vec<(col_num, CellValue)>)> contract.
type RowEntry struct {
	Row   int
	Cells []CellEntry
}

// resolvedValue fills in a shared-string/rich-text cell's Str/Rich field
// from the shared-string table; other cell types pass through unchanged.
func (s *Sheet) resolvedValue(v CellValue) CellValue {
	if v.Type == CellTypeSharedString {
		idx := int(v.Num)
		if runs, ok := s.wb.SharedStrings.GetRichText(idx); ok {
			v.Rich = runs
		} else if str, ok := s.wb.SharedStrings.Get(idx); ok {
			v.Str = str
		} else {
			v = Empty()
		}
	}
	return v
}

// GetRows returns every occupied row in ascending row-number order, each
// with its occupied cells in ascending column order (§4.6: sparse,
// row-major traversal for bulk readers).
func (s *Sheet) GetRows() []RowEntry {
	rowIdx := s.occupiedRowIndices()
	out := make([]RowEntry, 0, len(rowIdx))
	for _, row := range rowIdx {
		r := s.rows[row]
		if len(r.Cells) == 0 {
			continue
		}
		colIdx := make([]int, 0, len(r.Cells))
		for col := range r.Cells {
			colIdx = append(colIdx, col)
		}
		sort.Ints(colIdx)
		cells := make([]CellEntry, 0, len(colIdx))
		for _, col := range colIdx {
			cells = append(cells, CellEntry{Index: col, Value: s.resolvedValue(r.Cells[col].Value)})
		}
		out = append(out, RowEntry{Row: row, Cells: cells})
	}
	return out
}

// GetCols returns the column-major dual of GetRows: every occupied column
// in ascending column-number order, each with its occupied cells in
// ascending row order.
func (s *Sheet) GetCols() []RowEntry {
	byCol := map[int][]CellEntry{}
	for _, row := range s.occupiedRowIndices() {
		r := s.rows[row]
		colIdx := make([]int, 0, len(r.Cells))
		for col := range r.Cells {
			colIdx = append(colIdx, col)
		}
		sort.Ints(colIdx)
		for _, col := range colIdx {
			byCol[col] = append(byCol[col], CellEntry{Index: row, Value: s.resolvedValue(r.Cells[col].Value)})
		}
	}
	colIdx := make([]int, 0, len(byCol))
	for col := range byCol {
		colIdx = append(colIdx, col)
	}
	sort.Ints(colIdx)
	out := make([]RowEntry, 0, len(colIdx))
	for _, col := range colIdx {
		out = append(out, RowEntry{Row: col, Cells: byCol[col]})
	}
	return out
}

// occupiedRowIndices returns the sheet's occupied row numbers in ascending
// order, used by the reference-shift engine and raw binary codec.
func (s *Sheet) occupiedRowIndices() []int {
	idx := make([]int, 0, len(s.rows))
	for row := range s.rows {
		idx = append(idx, row)
	}
	sort.Ints(idx)
	return idx
}

// AddMergeCell merges the rectangular range spanning from:to.
func (s *Sheet) AddMergeCell(from, to string) {
	s.Merges = append(s.Merges, MergeCell{From: from, To: to})
}

// GetMergeCells returns every merged range on the sheet.
func (s *Sheet) GetMergeCells() []MergeCell {
	return s.Merges
}

// AddHyperlink attaches a hyperlink to a single cell.
func (s *Sheet) AddHyperlink(h Hyperlink) {
	s.Hyperlinks = append(s.Hyperlinks, h)
}

// GetHyperlinks returns every hyperlink on the sheet.
func (s *Sheet) GetHyperlinks() []Hyperlink {
	return s.Hyperlinks
}

// AddDataValidation appends a validation rule.
func (s *Sheet) AddDataValidation(dv DataValidation) {
	s.Validations = append(s.Validations, dv)
}

// GetDataValidations returns every validation rule on the sheet.
func (s *Sheet) GetDataValidations() []DataValidation {
	return s.Validations
}

// SetAutoFilter sets the sheet's single auto-filter range.
func (s *Sheet) SetAutoFilter(rangeRef string) {
	s.Filter = &AutoFilter{Range: rangeRef}
}

// SetPanes sets the sheet's frozen/split pane configuration.
func (s *Sheet) SetPanes(p Pane) {
	s.Panes = &p
}

// clone returns a deep copy of the sheet under name, owned by wb. The
// source's deferred categories are hydrated first so the copy carries
// typed data instead of aliasing raw parts still in the deferred index.
func (s *Sheet) clone(wb *Workbook, name string) *Sheet {
	s.ensureDrawingsHydrated()
	s.ensureCommentsHydrated()
	s.ensureTablesHydrated()
	s.ensureFormControlsHydrated()

	c := newSheet(name, wb)
	for rn, r := range s.rows {
		nr := newRow()
		nr.Height = r.Height
		nr.Hidden = r.Hidden
		nr.Custom = r.Custom
		nr.OutlineLevel = r.OutlineLevel
		nr.StyleID = r.StyleID
		for col, cell := range r.Cells {
			nr.Cells[col] = &Cell{Value: cloneCellValue(cell.Value), StyleID: cell.StyleID}
		}
		c.rows[rn] = nr
	}
	for k, v := range s.colWidths {
		c.colWidths[k] = v
	}
	for k, v := range s.colHidden {
		c.colHidden[k] = v
	}
	for k, v := range s.colStyle {
		c.colStyle[k] = v
	}
	for k, v := range s.colOutline {
		c.colOutline[k] = v
	}
	c.DefaultRowHeight = s.DefaultRowHeight
	c.DefaultColWidth = s.DefaultColWidth
	c.Merges = append([]MergeCell(nil), s.Merges...)
	c.Hyperlinks = append([]Hyperlink(nil), s.Hyperlinks...)
	c.Validations = append([]DataValidation(nil), s.Validations...)
	if s.Filter != nil {
		f := *s.Filter
		c.Filter = &f
	}
	if s.Panes != nil {
		p := *s.Panes
		c.Panes = &p
	}
	if s.TabColor != nil {
		tc := *s.TabColor
		c.TabColor = &tc
	}
	c.Protection = s.Protection
	c.Hidden = s.Hidden
	for _, cf := range s.ConditionalFormats {
		ncf := ConditionalFormat{Range: cf.Range}
		for _, rule := range cf.Rules {
			rule.Formula = append([]string(nil), rule.Formula...)
			ncf.Rules = append(ncf.Rules, rule)
		}
		c.ConditionalFormats = append(c.ConditionalFormats, ncf)
	}
	c.Comments = append([]Comment(nil), s.Comments...)
	c.FormControls = append([]FormControl(nil), s.FormControls...)
	for _, g := range s.Sparklines {
		g.DataRanges = append([]string(nil), g.DataRanges...)
		g.Locations = append([]string(nil), g.Locations...)
		c.Sparklines = append(c.Sparklines, g)
	}
	for _, t := range s.Tables {
		t.Columns = append([]TableColumn(nil), t.Columns...)
		c.Tables = append(c.Tables, t)
	}
	for _, img := range s.Images {
		img.Data = append([]byte(nil), img.Data...)
		c.Images = append(c.Images, img)
	}
	for _, ch := range s.Charts {
		ch.Series = append([]ChartSeries(nil), ch.Series...)
		ch.RawXML = append([]byte(nil), ch.RawXML...)
		c.Charts = append(c.Charts, ch)
	}
	c.Shapes = append([]Shape(nil), s.Shapes...)
	c.DrawingID = s.DrawingID
	c.rawExtLst = s.rawExtLst
	c.drawingsHydrated = true
	c.commentsHydrated = true
	c.tablesHydrated = true
	c.formControlsHydrated = true
	return c
}
