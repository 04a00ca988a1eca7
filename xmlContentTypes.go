// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// xlsxTypes directly maps the [Content_Types].xml part.
type xlsxTypes struct {
	XMLName   xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []xlsxDefault  `xml:"Default"`
	Overrides []xlsxOverride `xml:"Override"`
}

type xlsxDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xlsxOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// Canonical OOXML content-type strings (§6).
const (
	ContentTypeWorkbook        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ContentTypeWorksheet       = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	ContentTypeStyles          = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	ContentTypeSharedStrings   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	ContentTypeCoreProps       = "application/vnd.openxmlformats-package.core-properties+xml"
	ContentTypeAppProps        = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ContentTypeDrawing         = "application/vnd.openxmlformats-officedocument.drawing+xml"
	ContentTypeChart           = "application/vnd.openxmlformats-officedocument.drawingml.chart+xml"
	ContentTypeComments       = "application/vnd.openxmlformats-officedocument.spreadsheetml.comments+xml"
	ContentTypeVMLDrawing      = "application/vnd.openxmlformats-officedocument.vmlDrawing"
	ContentTypeTable           = "application/vnd.openxmlformats-officedocument.spreadsheetml.table+xml"
	ContentTypeVBA             = "application/vnd.ms-office.vbaProject"
	ContentTypeMacroWorkbook   = "application/vnd.ms-excel.sheet.macroEnabled.main+xml"
	ContentTypeCustomProps     = "application/vnd.openxmlformats-officedocument.custom-properties+xml"
)

func defaultContentTypes() *xlsxTypes {
	return &xlsxTypes{
		Defaults: []xlsxDefault{
			{Extension: "rels", ContentType: "application/vnd.openxmlformats-package.relationships+xml"},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []xlsxOverride{
			{PartName: "/xl/workbook.xml", ContentType: ContentTypeWorkbook},
			{PartName: "/xl/styles.xml", ContentType: ContentTypeStyles},
			{PartName: "/xl/sharedStrings.xml", ContentType: ContentTypeSharedStrings},
			{PartName: "/docProps/core.xml", ContentType: ContentTypeCoreProps},
			{PartName: "/docProps/app.xml", ContentType: ContentTypeAppProps},
		},
	}
}

// xlsxRelationships directly maps a .rels part.
type xlsxRelationships struct {
	XMLName       xml.Name           `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Relationships []xlsxRelationship `xml:"Relationship"`
}

type xlsxRelationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

const relationshipsNamespace = "http://schemas.openxmlformats.org/package/2006/relationships"

// Relationship type URIs used on write.
const (
	RelTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeWorksheet      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	RelTypeStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelTypeSharedStrings  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings"
	RelTypeCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	RelTypeAppProps       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	RelTypeDrawing        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/drawing"
	RelTypeComments       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments"
	RelTypeVMLDrawing     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/vmlDrawing"
	RelTypeHyperlink      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	RelTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelTypeChart          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart"
	RelTypeVBAProject     = "http://schemas.microsoft.com/office/2006/relationships/vbaProject"
	RelTypeTable          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/table"
	RelTypeCustomProps    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/custom-properties"
)

// addRelationship appends a relationship and returns its rId, the way the
// teacher's addRels helper computes the next free numeric suffix.
func addRelationship(rels *xlsxRelationships, relType, target, targetMode string) string {
	maxID := 0
	for _, r := range rels.Relationships {
		if n, err := strconv.Atoi(strings.TrimPrefix(r.ID, "rId")); err == nil && n > maxID {
			maxID = n
		}
	}
	id := "rId" + strconv.Itoa(maxID+1)
	rels.Relationships = append(rels.Relationships, xlsxRelationship{
		ID: id, Type: relType, Target: target, TargetMode: targetMode,
	})
	return id
}
