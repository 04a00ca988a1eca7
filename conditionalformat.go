// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

// ConditionalFormatRuleType enumerates the cfRule "type" attribute values
// this engine round-trips (a representative subset of OOXML's full rule
// vocabulary, sufficient for the reference-shift and render surfaces).
type ConditionalFormatRuleType int

const (
	CFTypeCellIs ConditionalFormatRuleType = iota
	CFTypeExpression
	CFTypeColorScale
	CFTypeDataBar
	CFTypeTop10
	CFTypeContainsText
)

func (t ConditionalFormatRuleType) xmlName() string {
	switch t {
	case CFTypeExpression:
		return "expression"
	case CFTypeColorScale:
		return "colorScale"
	case CFTypeDataBar:
		return "dataBar"
	case CFTypeTop10:
		return "top10"
	case CFTypeContainsText:
		return "containsText"
	default:
		return "cellIs"
	}
}

func cfRuleTypeFromXMLName(s string) ConditionalFormatRuleType {
	switch s {
	case "expression":
		return CFTypeExpression
	case "colorScale":
		return CFTypeColorScale
	case "dataBar":
		return CFTypeDataBar
	case "top10":
		return CFTypeTop10
	case "containsText":
		return CFTypeContainsText
	default:
		return CFTypeCellIs
	}
}

// ConditionalFormatRule is one cfRule entry: a predicate plus the style it
// applies when the predicate holds. DxfID references an entry in the
// stylesheet's differential-format list; sheetkit stores it as a plain
// style id interned the same way a cell style is (§4.4's add_style covers
// dxf records identically to cellXfs for this engine's purposes).
type ConditionalFormatRule struct {
	Type     ConditionalFormatRuleType
	Operator string // "greaterThan", "lessThan", "between", "equal", ... (cellIs only)
	Formula  []string
	Priority int
	StyleID  int
}

// ConditionalFormat is one conditionalFormatting element: a cell range
// (sqref) plus an ordered list of rules evaluated in priority order.
type ConditionalFormat struct {
	Range string
	Rules []ConditionalFormatRule
}

// AddConditionalFormat appends a conditional-format block to the sheet.
func (s *Sheet) AddConditionalFormat(cf ConditionalFormat) {
	s.ConditionalFormats = append(s.ConditionalFormats, cf)
}

// GetConditionalFormats returns every conditional-format block on the sheet.
func (s *Sheet) GetConditionalFormats() []ConditionalFormat {
	return s.ConditionalFormats
}
