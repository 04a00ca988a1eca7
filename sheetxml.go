// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"fmt"
	"sort"
	"strconv"
)

// marshalWorksheet renders a Sheet's grid and auxiliary structures into its
// xl/worksheets/sheetN.xml model.
func marshalWorksheet(s *Sheet) *xlsxWorksheet {
	x := newEmptyWorksheet()
	if s.DefaultRowHeight != 0 {
		x.SheetFormatPr.DefaultRowHeight = s.DefaultRowHeight
	}
	if s.DefaultColWidth != 0 {
		x.SheetFormatPr.DefaultColWidth = s.DefaultColWidth
	}

	rowIdx := s.occupiedRowIndices()
	for _, rn := range rowIdx {
		r := s.rows[rn]
		xr := xlsxRow{R: rn}
		if r.Custom {
			xr.Ht = r.Height
			xr.CustomHeight = true
		}
		xr.Hidden = r.Hidden
		xr.OutlineLevel = r.OutlineLevel
		if r.StyleID != 0 {
			xr.S = r.StyleID
			xr.CustomFormat = true
		}
		cols := make([]int, 0, len(r.Cells))
		for c := range r.Cells {
			cols = append(cols, c)
		}
		sort.Ints(cols)
		for _, c := range cols {
			cell := r.Cells[c]
			ref, _ := CoordinatesToCellName(c, rn)
			xc := xlsxC{R: ref, S: cell.StyleID}
			marshalCellValue(&xc, cell.Value)
			xr.C = append(xr.C, xc)
		}
		x.SheetData.Row = append(x.SheetData.Row, xr)
	}

	if len(s.colWidths) > 0 || len(s.colHidden) > 0 || len(s.colStyle) > 0 {
		x.Cols = &xlsxCols{Col: marshalCols(s)}
	}
	if len(s.Merges) > 0 {
		mc := &xlsxMergeCells{Count: len(s.Merges)}
		for _, m := range s.Merges {
			mc.Cells = append(mc.Cells, xlsxMergeCell{Ref: m.From + ":" + m.To})
		}
		x.MergeCells = mc
	}
	if s.Filter != nil {
		x.AutoFilter = &xlsxAutoFilter{Ref: s.Filter.Range}
	}
	if len(s.Hyperlinks) > 0 {
		hl := &xlsxHyperlinks{}
		for _, h := range s.Hyperlinks {
			hl.Hyperlink = append(hl.Hyperlink, xlsxHyperlink{
				Ref: h.Cell, Location: h.Location, Display: h.Display, Tooltip: h.Tooltip,
			})
		}
		x.Hyperlinks = hl
	}
	if len(s.Validations) > 0 {
		dv := &xlsxDataValidations{Count: len(s.Validations)}
		for _, v := range s.Validations {
			dv.Validations = append(dv.Validations, xlsxDataValidation{
				Type: dataValidationTypeName(v.Type), Operator: v.Operator,
				AllowBlank: v.AllowBlank, ShowErrorMessage: v.ShowErrorMessage,
				ErrorTitle: v.ErrorTitle, Error: v.ErrorBody,
				SQRef: v.Range, Formula1: v.Formula1, Formula2: v.Formula2,
			})
		}
		x.DataValidations = dv
	}
	if s.TabColor != nil {
		x.SheetPr = &xlsxSheetPr{TabColor: &xlsxTabColor{RGB: s.TabColor.RGB}}
	}
	if s.Protection.Enabled {
		x.SheetProtection = &xlsxSheetProtection{
			Sheet: true, Password: s.Protection.PasswordHash,
			Objects: s.Protection.EditObjects, Scenarios: s.Protection.EditScenarios,
			SelectLockedCells: s.Protection.SelectLockedCells,
		}
	}
	if s.Panes != nil {
		x.SheetViews.SheetView[0].Pane = &xlsxPane{
			XSplit: s.Panes.XSplit, YSplit: s.Panes.YSplit,
			TopLeftCell: s.Panes.TopLeftCell, ActivePane: s.Panes.ActivePane, State: s.Panes.State,
		}
	}
	for _, cf := range s.ConditionalFormats {
		xcf := xlsxConditionalFormatting{SQRef: cf.Range}
		for _, rule := range cf.Rules {
			xr := xlsxCFRule{
				Type: rule.Type.xmlName(), Operator: rule.Operator,
				Priority: rule.Priority, Formula: rule.Formula,
			}
			if rule.StyleID != 0 {
				id := rule.StyleID
				xr.DxfID = &id
			}
			xcf.Rules = append(xcf.Rules, xr)
		}
		x.ConditionalFormatting = append(x.ConditionalFormatting, xcf)
	}
	if s.DrawingID != 0 {
		x.Drawing = &xlsxDrawingRef{RID: fmt.Sprintf("rId%d", s.DrawingID)}
	}
	if ext := s.rawExtLst; ext != "" || len(s.Sparklines) > 0 {
		if len(s.Sparklines) > 0 {
			ext += marshalSparklines(s.Sparklines)
		}
		x.ExtLst = &xlsxExtLst{Ext: ext}
	}
	return x
}

func marshalCols(s *Sheet) []xlsxCol {
	cols := map[int]bool{}
	for c := range s.colWidths {
		cols[c] = true
	}
	for c := range s.colHidden {
		cols[c] = true
	}
	for c := range s.colStyle {
		cols[c] = true
	}
	for c := range s.colOutline {
		cols[c] = true
	}
	idx := make([]int, 0, len(cols))
	for c := range cols {
		idx = append(idx, c)
	}
	sort.Ints(idx)
	out := make([]xlsxCol, 0, len(idx))
	for _, c := range idx {
		out = append(out, xlsxCol{
			Min: c, Max: c, Width: s.colWidths[c],
			Hidden: s.colHidden[c], Style: s.colStyle[c], OutlineLevel: s.colOutline[c],
		})
	}
	return out
}

func dataValidationTypeName(t DataValidationType) string {
	switch t {
	case ValidationList:
		return "list"
	case ValidationWhole:
		return "whole"
	case ValidationDecimal:
		return "decimal"
	case ValidationDate:
		return "date"
	case ValidationTextLength:
		return "textLength"
	case ValidationCustom:
		return "custom"
	}
	return ""
}

func dataValidationTypeFromName(s string) DataValidationType {
	switch s {
	case "list":
		return ValidationList
	case "whole":
		return ValidationWhole
	case "decimal":
		return ValidationDecimal
	case "date":
		return ValidationDate
	case "textLength":
		return ValidationTextLength
	case "custom":
		return ValidationCustom
	}
	return ValidationNone
}

func marshalCellValue(xc *xlsxC, v CellValue) {
	switch v.Type {
	case CellTypeEmpty:
	case CellTypeNumber:
		xc.V = strconv.FormatFloat(v.Num, 'g', -1, 64)
	case CellTypeDate:
		xc.V = strconv.FormatFloat(v.Date, 'g', -1, 64)
	case CellTypeSharedString:
		xc.T = "s"
		xc.V = strconv.Itoa(int(v.Num))
	case CellTypeBool:
		xc.T = "b"
		if v.Bool {
			xc.V = "1"
		} else {
			xc.V = "0"
		}
	case CellTypeError:
		xc.T = "e"
		xc.V = v.ErrCode
	case CellTypeInlineString:
		xc.T = "inlineStr"
		xc.IS = &xlsxIS{T: v.Str}
	case CellTypeFormulaString:
		xc.T = "str"
		if v.Formula != nil {
			xc.F = &xlsxF{Content: v.Formula.Expr}
			xc.V = v.Formula.CachedResult
			if v.Formula.SharedGroupID != nil {
				xc.F.T = "shared"
				xc.F.Si = v.Formula.SharedGroupID
			}
		}
	}
}

// unmarshalWorksheet rebuilds a Sheet from its parsed xl/worksheets/sheetN.xml
// model, wiring shared-string cell values back to the workbook's SST.
func unmarshalWorksheet(name string, x *xlsxWorksheet, wb *Workbook) *Sheet {
	s := newSheet(name, wb)
	if x.SheetFormatPr != nil {
		s.DefaultRowHeight = x.SheetFormatPr.DefaultRowHeight
		s.DefaultColWidth = x.SheetFormatPr.DefaultColWidth
	}
	for _, xr := range x.SheetData.Row {
		r := s.row(xr.R, true)
		r.Height = xr.Ht
		r.Custom = xr.CustomHeight
		r.Hidden = xr.Hidden
		r.OutlineLevel = xr.OutlineLevel
		r.StyleID = xr.S
		for _, xc := range xr.C {
			col, _, err := CellNameToCoordinates(xc.R)
			if err != nil {
				continue
			}
			r.Cells[col] = &Cell{StyleID: xc.S, Value: unmarshalCellValue(xc)}
		}
	}
	if x.Cols != nil {
		for _, c := range x.Cols.Col {
			for col := c.Min; col <= c.Max; col++ {
				if c.Width != 0 {
					s.colWidths[col] = c.Width
				}
				if c.Hidden {
					s.colHidden[col] = true
				}
				if c.Style != 0 {
					s.colStyle[col] = c.Style
				}
				if c.OutlineLevel != 0 {
					s.colOutline[col] = c.OutlineLevel
				}
			}
		}
	}
	if x.MergeCells != nil {
		for _, m := range x.MergeCells.Cells {
			from, to := splitCellRange(m.Ref)
			s.Merges = append(s.Merges, MergeCell{From: from, To: to})
		}
	}
	if x.AutoFilter != nil {
		s.Filter = &AutoFilter{Range: x.AutoFilter.Ref}
	}
	if x.Hyperlinks != nil {
		for _, h := range x.Hyperlinks.Hyperlink {
			s.Hyperlinks = append(s.Hyperlinks, Hyperlink{
				Cell: h.Ref, Location: h.Location, Display: h.Display, Tooltip: h.Tooltip,
				Internal: h.Location != "",
			})
		}
	}
	if x.DataValidations != nil {
		for _, v := range x.DataValidations.Validations {
			s.Validations = append(s.Validations, DataValidation{
				Type: dataValidationTypeFromName(v.Type), Operator: v.Operator,
				Range: v.SQRef, Formula1: v.Formula1, Formula2: v.Formula2,
				AllowBlank: v.AllowBlank, ShowErrorMessage: v.ShowErrorMessage,
				ErrorTitle: v.ErrorTitle, ErrorBody: v.Error,
			})
		}
	}
	if x.SheetPr != nil && x.SheetPr.TabColor != nil {
		c := RGBColor(x.SheetPr.TabColor.RGB)
		s.TabColor = &c
	}
	if x.SheetProtection != nil {
		s.Protection = SheetProtection{
			Enabled: x.SheetProtection.Sheet, PasswordHash: x.SheetProtection.Password,
			EditObjects: x.SheetProtection.Objects, EditScenarios: x.SheetProtection.Scenarios,
			SelectLockedCells: x.SheetProtection.SelectLockedCells,
		}
	}
	if x.SheetViews != nil && len(x.SheetViews.SheetView) > 0 && x.SheetViews.SheetView[0].Pane != nil {
		p := x.SheetViews.SheetView[0].Pane
		s.Panes = &Pane{XSplit: p.XSplit, YSplit: p.YSplit, TopLeftCell: p.TopLeftCell, ActivePane: p.ActivePane, State: p.State}
	}
	for _, xcf := range x.ConditionalFormatting {
		cf := ConditionalFormat{Range: xcf.SQRef}
		for _, r := range xcf.Rules {
			rule := ConditionalFormatRule{
				Type: cfRuleTypeFromXMLName(r.Type), Operator: r.Operator,
				Formula: r.Formula, Priority: r.Priority,
			}
			if r.DxfID != nil {
				rule.StyleID = *r.DxfID
			}
			cf.Rules = append(cf.Rules, rule)
		}
		s.ConditionalFormats = append(s.ConditionalFormats, cf)
	}
	if x.ExtLst != nil {
		s.Sparklines, s.rawExtLst = unmarshalSparklines(x.ExtLst.Ext)
	}
	return s
}

func unmarshalCellValue(xc xlsxC) CellValue {
	switch xc.T {
	case "s":
		idx, err := strconv.Atoi(xc.V)
		if err != nil || idx < 0 {
			// §4.3 edge case: a shared-string cell whose value fails to
			// parse as a non-negative integer is treated as Empty.
			return Empty()
		}
		return CellValue{Type: CellTypeSharedString, Num: float64(idx)}
	case "b":
		return CellValue{Type: CellTypeBool, Bool: xc.V == "1"}
	case "e":
		return CellValue{Type: CellTypeError, ErrCode: xc.V}
	case "inlineStr":
		if xc.IS != nil {
			return CellValue{Type: CellTypeInlineString, Str: xc.IS.T}
		}
		return Empty()
	case "str":
		f := &Formula{CachedResult: xc.V}
		if xc.F != nil {
			f.Expr = xc.F.Content
			f.SharedGroupID = xc.F.Si
		}
		return CellValue{Type: CellTypeFormulaString, Formula: f}
	default:
		if xc.V == "" {
			return Empty()
		}
		n, err := strconv.ParseFloat(xc.V, 64)
		if err != nil {
			return Empty()
		}
		return CellValue{Type: CellTypeNumber, Num: n}
	}
}
