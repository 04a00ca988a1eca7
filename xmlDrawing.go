// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import "encoding/xml"

// Drawing-related namespace and relationship-type constants (§6, §4.12's
// sibling drawing plumbing), trimmed to only what this engine's marshal/unmarshal paths emit or recognize.
const (
	nsDrawingMLMain        = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsDrawingMLSpreadsheet = "http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing"
	nsOfficeDocRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// xlsxWsDr is the root element of xl/drawings/drawingN.xml: the container
// for every one-cell and two-cell anchor on a sheet's drawing layer.
type xlsxWsDr struct {
	XMLName       xml.Name          `xml:"xdr:wsDr"`
	Xdr           string            `xml:"xmlns:xdr,attr"`
	A             string            `xml:"xmlns:a,attr"`
	R             string            `xml:"xmlns:r,attr"`
	OneCellAnchor []xlsxCellAnchor  `xml:"xdr:oneCellAnchor"`
	TwoCellAnchor []xlsxCellAnchor  `xml:"xdr:twoCellAnchor"`
}

// xlsxCellAnchor covers both the oneCellAnchor and twoCellAnchor shapes;
// From is always present, To only on two-cell anchors, Ext only on one-cell.
type xlsxCellAnchor struct {
	EditAs     string            `xml:"editAs,attr,omitempty"`
	From       xlsxMarker        `xml:"xdr:from"`
	To         *xlsxMarker       `xml:"xdr:to,omitempty"`
	Ext        *xlsxExt          `xml:"xdr:ext,omitempty"`
	Pic        *xlsxPic          `xml:"xdr:pic,omitempty"`
	GraphicFrame *xlsxGraphicFrame `xml:"xdr:graphicFrame,omitempty"`
	Sp         *xlsxSp           `xml:"xdr:sp,omitempty"`
	ClientData xlsxClientData    `xml:"xdr:clientData"`
}

// xlsxMarker is a 0-based (col, row) anchor point with sub-cell EMU offsets.
type xlsxMarker struct {
	Col    int `xml:"xdr:col"`
	ColOff int `xml:"xdr:colOff"`
	Row    int `xml:"xdr:row"`
	RowOff int `xml:"xdr:rowOff"`
}

// xlsxExt is a width/height extent in EMUs.
type xlsxExt struct {
	Cx int `xml:"cx,attr"`
	Cy int `xml:"cy,attr"`
}

type xlsxClientData struct {
	FLocksWithSheet  bool `xml:"fLocksWithSheet,attr"`
	FPrintsWithSheet bool `xml:"fPrintsWithSheet,attr"`
}

// xlsxPic is a picture anchor's payload: non-visual properties plus the
// blip reference that resolves (via the drawing's _rels file) to a media
// part.
type xlsxPic struct {
	NvPicPr  xlsxNvPicPr  `xml:"xdr:nvPicPr"`
	BlipFill xlsxBlipFill `xml:"xdr:blipFill"`
	SpPr     xlsxDrawingSpPr `xml:"xdr:spPr"`
}

type xlsxNvPicPr struct {
	CNvPr xlsxCNvPr `xml:"xdr:cNvPr"`
}

type xlsxCNvPr struct {
	ID    int    `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr,omitempty"`
}

type xlsxBlipFill struct {
	Blip xlsxBlip `xml:"a:blip"`
}

type xlsxBlip struct {
	REmbed string `xml:"r:embed,attr"`
}

type xlsxDrawingSpPr struct {
	Xfrm xlsxXfrm `xml:"a:xfrm"`
}

type xlsxXfrm struct {
	Off xlsxOff `xml:"a:off"`
	Ext xlsxExt `xml:"a:ext"`
}

type xlsxOff struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

// xlsxGraphicFrame anchors a chart: the graphicData's uri identifies the
// payload as a chart, and the nested c:chart element's r:id resolves to the
// chart part through the drawing's _rels file.
type xlsxGraphicFrame struct {
	NvGraphicFramePr xlsxNvGraphicFramePr `xml:"xdr:nvGraphicFramePr"`
	Xfrm             xlsxXfrm             `xml:"xdr:xfrm"`
	Graphic          xlsxGraphic          `xml:"a:graphic"`
}

type xlsxNvGraphicFramePr struct {
	CNvPr xlsxCNvPr `xml:"xdr:cNvPr"`
}

type xlsxGraphic struct {
	GraphicData xlsxGraphicData `xml:"a:graphicData"`
}

type xlsxGraphicData struct {
	URI   string    `xml:"uri,attr"`
	Chart xlsxChartRef `xml:"c:chart"`
}

type xlsxChartRef struct {
	RID string `xml:"r:id,attr"`
}

// xlsxSp anchors a free-floating shape (textbox, auto-shape).
type xlsxSp struct {
	NvSpPr xlsxNvSpPr       `xml:"xdr:nvSpPr"`
	SpPr   xlsxDrawingSpPr  `xml:"xdr:spPr"`
	TxBody *xlsxShapeTxBody `xml:"xdr:txBody,omitempty"`
}

type xlsxNvSpPr struct {
	CNvPr xlsxCNvPr `xml:"xdr:cNvPr"`
}

type xlsxShapeTxBody struct {
	P []xlsxShapeParagraph `xml:"a:p"`
}

type xlsxShapeParagraph struct {
	R []xlsxShapeRun `xml:"a:r"`
}

type xlsxShapeRun struct {
	T string `xml:"a:t"`
}

func newWsDr() *xlsxWsDr {
	return &xlsxWsDr{Xdr: nsDrawingMLSpreadsheet, A: nsDrawingMLMain, R: nsOfficeDocRelationships}
}
