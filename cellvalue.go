// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import "fmt"

// CellType tags the logical shape of a cell's stored value.
type CellType int

const (
	CellTypeEmpty CellType = iota
	CellTypeNumber
	CellTypeSharedString
	CellTypeBool
	CellTypeError
	CellTypeInlineString
	CellTypeFormulaString
	CellTypeDate
)

// RichTextRun is a run of text sharing one set of font properties.
type RichTextRun struct {
	Font *Font
	Text string
}

// Formula carries a formula expression together with its cached result, if
// any. On write the expression is re-serialized unchanged; the cached result
// passes through verbatim (the engine never recomputes it).
type Formula struct {
	Expr          string
	SharedGroupID *int
	CachedResult  string
}

// CellValue is the tagged-variant logical value of a cell. Exactly one of
// the typed accessors is meaningful for a given Type.
type CellValue struct {
	Type    CellType
	Num     float64
	Str     string
	Bool    bool
	Date    float64 // Excel epoch serial
	ErrCode string
	Formula *Formula
	Rich    []RichTextRun
}

// cloneCellValue deep-copies a CellValue's pointer-backed parts (formula,
// shared-group id, rich runs and their fonts) so that the copy never
// aliases the original.
func cloneCellValue(v CellValue) CellValue {
	if v.Formula != nil {
		f := *v.Formula
		if f.SharedGroupID != nil {
			id := *f.SharedGroupID
			f.SharedGroupID = &id
		}
		v.Formula = &f
	}
	if v.Rich != nil {
		runs := make([]RichTextRun, len(v.Rich))
		for i, r := range v.Rich {
			if r.Font != nil {
				fnt := *r.Font
				if fnt.Color != nil {
					col := *fnt.Color
					fnt.Color = &col
				}
				r.Font = &fnt
			}
			runs[i] = r
		}
		v.Rich = runs
	}
	return v
}

// Empty returns the Empty CellValue.
func Empty() CellValue { return CellValue{Type: CellTypeEmpty} }

// NumberValue constructs a Number CellValue.
func NumberValue(v float64) CellValue { return CellValue{Type: CellTypeNumber, Num: v} }

// StringValue constructs a String CellValue (interned into the SST on set).
func StringValue(v string) CellValue { return CellValue{Type: CellTypeSharedString, Str: v} }

// BoolValue constructs a Bool CellValue.
func BoolValue(v bool) CellValue { return CellValue{Type: CellTypeBool, Bool: v} }

// DateValue constructs a Date CellValue from an Excel-epoch serial number.
func DateValue(serial float64) CellValue { return CellValue{Type: CellTypeDate, Date: serial} }

// ErrorValue constructs an Error CellValue, e.g. "#DIV/0!".
func ErrorValue(code string) CellValue { return CellValue{Type: CellTypeError, ErrCode: code} }

// FormulaValue constructs a Formula CellValue.
func FormulaValue(expr string) CellValue {
	return CellValue{Type: CellTypeFormulaString, Formula: &Formula{Expr: expr}}
}

// RichStringValue constructs a RichString CellValue from text runs.
func RichStringValue(runs []RichTextRun) CellValue {
	return CellValue{Type: CellTypeSharedString, Rich: runs}
}

// PlainText projects a CellValue down to its plain-text representation,
// used by the raw binary transfer codec's string table and by the SVG
// renderer's text layer.
func (v CellValue) PlainText() string {
	switch v.Type {
	case CellTypeEmpty:
		return ""
	case CellTypeNumber, CellTypeDate:
		n := v.Num
		if v.Type == CellTypeDate {
			n = v.Date
		}
		return formatGeneral(n)
	case CellTypeSharedString:
		if len(v.Rich) > 0 {
			s := ""
			for _, r := range v.Rich {
				s += r.Text
			}
			return s
		}
		return v.Str
	case CellTypeBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case CellTypeError:
		return v.ErrCode
	case CellTypeFormulaString:
		if v.Formula != nil {
			if v.Formula.CachedResult != "" {
				return v.Formula.CachedResult
			}
			return v.Formula.Expr
		}
	}
	return ""
}

func (v CellValue) String() string {
	return fmt.Sprintf("CellValue{%v %q}", v.Type, v.PlainText())
}
