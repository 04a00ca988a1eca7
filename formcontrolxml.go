// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Form controls are stored in a legacy VML drawing part referenced from the
// worksheet's legacyDrawing element. Encode-side structs carry literal v:/o:/x:
// prefixes; decode-side structs use bare local names.

type vmlDrawing struct {
	XMLName     xml.Name        `xml:"xml"`
	XMLNSv      string          `xml:"xmlns:v,attr"`
	XMLNSo      string          `xml:"xmlns:o,attr"`
	XMLNSx      string          `xml:"xmlns:x,attr"`
	ShapeLayout *vmlShapeLayout `xml:"o:shapelayout"`
	ShapeType   *vmlShapeType   `xml:"v:shapetype"`
	Shape       []vmlShape      `xml:"v:shape"`
}

type vmlShapeLayout struct {
	Ext   string     `xml:"v:ext,attr"`
	IDmap *vmlIDmap  `xml:"o:idmap"`
}

type vmlIDmap struct {
	Ext  string `xml:"v:ext,attr"`
	Data int    `xml:"data,attr"`
}

type vmlShapeType struct {
	ID        string `xml:"id,attr"`
	CoordSize string `xml:"coordsize,attr"`
	Spt       int    `xml:"o:spt,attr"`
	Path      string `xml:"path,attr"`
}

type vmlShape struct {
	ID         string         `xml:"id,attr"`
	Type       string         `xml:"type,attr"`
	Style      string         `xml:"style,attr"`
	FillColor  string         `xml:"fillcolor,attr,omitempty"`
	Stroked    string         `xml:"stroked,attr,omitempty"`
	TextBox    *vmlTextBox    `xml:"v:textbox"`
	ClientData *vmlClientData `xml:"x:ClientData"`
}

type vmlTextBox struct {
	Style string `xml:"style,attr,omitempty"`
	Div   vmlDiv `xml:"div"`
}

type vmlDiv struct {
	Style string `xml:"style,attr,omitempty"`
	Font  string `xml:"font"`
}

type vmlClientData struct {
	ObjectType string  `xml:"ObjectType,attr"`
	Anchor     string  `xml:"x:Anchor"`
	AutoFill   string  `xml:"x:AutoFill,omitempty"`
	TextVAlign string  `xml:"x:TextVAlign,omitempty"`
	Row        int     `xml:"x:Row"`
	Column     int     `xml:"x:Column"`
	Checked    int     `xml:"x:Checked,omitempty"`
	FmlaLink   string  `xml:"x:FmlaLink,omitempty"`
	Val        int     `xml:"x:Val,omitempty"`
	Min        int     `xml:"x:Min,omitempty"`
	Max        int     `xml:"x:Max,omitempty"`
	Inc        int     `xml:"x:Inc,omitempty"`
	NoThreeD   *string `xml:"x:NoThreeD,omitempty"`
}

type decodeVmlDrawing struct {
	XMLName xml.Name         `xml:"xml"`
	Shape   []decodeVmlShape `xml:"shape"`
}

type decodeVmlShape struct {
	Type       string                `xml:"type,attr"`
	TextBox    *decodeVmlTextBox     `xml:"textbox"`
	ClientData *decodeVmlClientData  `xml:"ClientData"`
}

type decodeVmlTextBox struct {
	Div decodeVmlDiv `xml:"div"`
}

type decodeVmlDiv struct {
	Font string `xml:"font"`
}

type decodeVmlClientData struct {
	ObjectType string `xml:"ObjectType,attr"`
	Anchor     string `xml:"Anchor"`
	Checked    int    `xml:"Checked"`
	FmlaLink   string `xml:"FmlaLink"`
	Val        int    `xml:"Val"`
	Min        int    `xml:"Min"`
	Max        int    `xml:"Max"`
}

func formControlObjectType(t FormControlType) string {
	switch t {
	case FormControlCheckbox:
		return "Checkbox"
	case FormControlRadio:
		return "Radio"
	case FormControlDropdown:
		return "Drop"
	case FormControlSpinner:
		return "Spin"
	}
	return ""
}

func formControlTypeFromObject(objectType string) (FormControlType, bool) {
	switch objectType {
	case "Checkbox":
		return FormControlCheckbox, true
	case "Radio":
		return FormControlRadio, true
	case "Drop":
		return FormControlDropdown, true
	case "Spin":
		return FormControlSpinner, true
	}
	return 0, false
}

// marshalVMLDrawing renders a sheet's form controls into the body of an
// xl/drawings/vmlDrawingN.vml part.
func marshalVMLDrawing(s *Sheet) ([]byte, error) {
	vml := &vmlDrawing{
		XMLNSv: "urn:schemas-microsoft-com:vml",
		XMLNSo: "urn:schemas-microsoft-com:office:office",
		XMLNSx: "urn:schemas-microsoft-com:office:excel",
		ShapeLayout: &vmlShapeLayout{
			Ext: "edit", IDmap: &vmlIDmap{Ext: "edit", Data: 1},
		},
		ShapeType: &vmlShapeType{
			ID:        "_x0000_t201",
			CoordSize: "21600,21600",
			Spt:       201,
			Path:      "m,l,21600r21600,l21600,xe",
		},
	}
	for i, fc := range s.FormControls {
		col, row, err := CellNameToCoordinates(fc.Cell)
		if err != nil {
			return nil, err
		}
		cd := &vmlClientData{
			ObjectType: formControlObjectType(fc.Type),
			// LeftColumn, LeftOffset, TopRow, TopOffset, RightColumn,
			// RightOffset, BottomRow, BottomOffset; all cell indices 0-based.
			Anchor:   fmt.Sprintf("%d, 15, %d, 2, %d, 50, %d, 12", col-1, row-1, col, row),
			AutoFill: "False",
			Row:      row - 1,
			Column:   col - 1,
			FmlaLink: fc.LinkedCell,
		}
		switch fc.Type {
		case FormControlCheckbox, FormControlRadio:
			cd.TextVAlign = "Center"
			empty := ""
			cd.NoThreeD = &empty
			if fc.Checked {
				cd.Checked = 1
			}
		case FormControlSpinner:
			cd.Val = fc.CurrentVal
			cd.Min = fc.MinVal
			cd.Max = fc.MaxVal
			cd.Inc = 1
		}
		sp := vmlShape{
			ID:         fmt.Sprintf("_x0000_s%d", 1025+i),
			Type:       "#_x0000_t201",
			Style:      "position:absolute;z-index:1;mso-wrap-style:tight",
			FillColor:  "window [65]",
			Stroked:    "f",
			ClientData: cd,
		}
		if fc.Caption != "" {
			sp.TextBox = &vmlTextBox{
				Style: "mso-direction-alt:auto",
				Div:   vmlDiv{Style: "text-align:left", Font: fc.Caption},
			}
		}
		vml.Shape = append(vml.Shape, sp)
	}
	return xml.Marshal(vml)
}

// unmarshalVMLDrawing recovers typed form controls from a raw VML part.
// Note shapes without a recognized ObjectType (comment notes, free shapes)
// are skipped.
func unmarshalVMLDrawing(data []byte) []FormControl {
	var d decodeVmlDrawing
	if decodeXML(data, &d) != nil {
		return nil
	}
	var out []FormControl
	for _, sp := range d.Shape {
		if sp.ClientData == nil {
			continue
		}
		t, ok := formControlTypeFromObject(sp.ClientData.ObjectType)
		if !ok {
			continue
		}
		col, row, ok := extractVMLAnchorCell(sp.ClientData.Anchor)
		if !ok {
			continue
		}
		cell, err := CoordinatesToCellName(col+1, row+1)
		if err != nil {
			continue
		}
		fc := FormControl{
			Type:       t,
			Cell:       cell,
			LinkedCell: sp.ClientData.FmlaLink,
			Checked:    sp.ClientData.Checked != 0,
			CurrentVal: sp.ClientData.Val,
			MinVal:     sp.ClientData.Min,
			MaxVal:     sp.ClientData.Max,
		}
		if sp.TextBox != nil {
			fc.Caption = strings.TrimSpace(sp.TextBox.Div.Font)
		}
		out = append(out, fc)
	}
	return out
}

// extractVMLAnchorCell pulls the 0-based left column and top row out of a
// VML anchor's comma-separated value list.
func extractVMLAnchorCell(anchor string) (int, int, bool) {
	pos := strings.Split(anchor, ",")
	if len(pos) != 8 {
		return 0, 0, false
	}
	col, err := strconv.Atoi(strings.TrimSpace(pos[0]))
	if err != nil {
		return 0, 0, false
	}
	row, err := strconv.Atoi(strings.TrimSpace(pos[2]))
	if err != nil {
		return 0, 0, false
	}
	return col, row, true
}

// ensureFormControlsHydrated lifts the sheet's legacy VML part (if any) out
// of the deferred-parts index into typed FormControls, exactly once.
func (s *Sheet) ensureFormControlsHydrated() {
	if s.formControlsHydrated {
		return
	}
	s.formControlsHydrated = true
	if s.pendingVMLPath == "" {
		return
	}
	data, ok := s.wb.parts.take(CategoryVML, s.pendingVMLPath)
	if !ok {
		return
	}
	s.wb.parts.markHydrated(CategoryVML)
	s.FormControls = append(s.FormControls, unmarshalVMLDrawing(data)...)
}
