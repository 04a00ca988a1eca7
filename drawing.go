// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"fmt"
	"strings"
)

// Anchor places a drawing object (image, chart, shape) on a sheet. Cell
// coordinates are stored 0-based, matching the on-disk xdr:from/xdr:to
// markers; the reference-shift engine adds 1 before and subtracts 1 after
// running its 1-based shift function over them (§4.7).
type Anchor struct {
	TwoCell                bool
	FromCol, FromRow       int
	FromColOff, FromRowOff int
	ToCol, ToRow           int
	ToColOff, ToRowOff     int
	ExtCx, ExtCy           int // one-cell anchor extent, in EMUs
}

// Image is a raster picture anchored to a sheet. Data is the raw file
// bytes; Ext is its lowercase extension (".png", ".jpeg", ".gif", ".bmp",
// ".tiff", ...) used to pick the xl/media/imageN<ext> part name. Image data
// is not decoded: the one-cell anchor extent is the one passed to AddImage.
type Image struct {
	Name   string
	Ext    string
	Data   []byte
	Anchor Anchor
}

// ChartSeries is one data series of a chart: a name cell plus A1 ranges for
// categories and values. The engine stores chart definitions typed enough
// to round-trip through the reference-shift engine; it does not render or
// validate chart semantics.
type ChartSeries struct {
	NameRef       string
	CategoriesRef string
	ValuesRef     string
}

// ChartType enumerates the chart kinds this engine can emit.
type ChartType int

const (
	ChartTypeLine ChartType = iota
	ChartTypeBar
	ChartTypePie
	ChartTypeScatter
	ChartTypeArea
)

// Chart is a graphicFrame-anchored chart object.
type Chart struct {
	Title  string
	Type   ChartType
	Series []ChartSeries
	Anchor Anchor

	// RawXML holds the original xl/charts/chartN.xml bytes for a chart
	// hydrated from an opened package whose chart definition sheetkit did
	// not itself create. It is written back verbatim on save; Title/Type/
	// Series are left zero for such charts since the engine does not parse
	// chart-specific DrawingML (only anchors and rIds, per §4.2's drawing
	// hydration contract).
	RawXML []byte
}

// Shape is a free-floating text box or auto-shape anchored to a sheet.
type Shape struct {
	Text      string
	FillColor string
	Anchor    Anchor
}

// oneCellAnchor builds a default one-cell Anchor at col,row (0-based) with
// the given EMU extent.
func oneCellAnchor(col, row, cx, cy int) Anchor {
	return Anchor{FromCol: col, FromRow: row, ExtCx: cx, ExtCy: cy}
}

// AddImage anchors a raster image at the top-left cell ref. ext must be one
// of the recognized image extensions (".png", ".jpeg", ".jpg", ".gif",
// ".bmp", ".tiff", ".tif"); width/height are in EMUs (914400 per inch).
func (s *Sheet) AddImage(ref string, ext string, data []byte, widthEMU, heightEMU int) error {
	s.ensureDrawingsHydrated()
	col, row, err := CellNameToCoordinates(ref)
	if err != nil {
		return err
	}
	s.Images = append(s.Images, Image{
		Ext: ext, Data: data,
		Anchor: oneCellAnchor(col-1, row-1, widthEMU, heightEMU),
	})
	s.ensureDrawing()
	return nil
}

// GetImages returns every image anchored to the sheet.
func (s *Sheet) GetImages() []Image {
	s.ensureDrawingsHydrated()
	return s.Images
}

// AddChart anchors a chart spanning the rectangular range from:to.
func (s *Sheet) AddChart(chart Chart, from, to string) error {
	s.ensureDrawingsHydrated()
	fc, fr, err := CellNameToCoordinates(from)
	if err != nil {
		return err
	}
	tc, tr, err := CellNameToCoordinates(to)
	if err != nil {
		return err
	}
	chart.Anchor = Anchor{TwoCell: true, FromCol: fc - 1, FromRow: fr - 1, ToCol: tc - 1, ToRow: tr - 1}
	s.Charts = append(s.Charts, chart)
	s.ensureDrawing()
	return nil
}

// GetCharts returns every chart anchored to the sheet.
func (s *Sheet) GetCharts() []Chart {
	s.ensureDrawingsHydrated()
	return s.Charts
}

// AddShape anchors a text box or auto-shape spanning the rectangular range
// from:to.
func (s *Sheet) AddShape(shape Shape, from, to string) error {
	s.ensureDrawingsHydrated()
	fc, fr, err := CellNameToCoordinates(from)
	if err != nil {
		return err
	}
	tc, tr, err := CellNameToCoordinates(to)
	if err != nil {
		return err
	}
	shape.Anchor = Anchor{TwoCell: true, FromCol: fc - 1, FromRow: fr - 1, ToCol: tc - 1, ToRow: tr - 1}
	s.Shapes = append(s.Shapes, shape)
	s.ensureDrawing()
	return nil
}

// GetShapes returns every shape anchored to the sheet.
func (s *Sheet) GetShapes() []Shape {
	s.ensureDrawingsHydrated()
	return s.Shapes
}

// ensureDrawing marks the sheet as owning a drawing part so save emits a
// <drawing r:id="..."/> reference, if it doesn't have one already. The
// integer id is assigned at save time (relationship ids are per-sheet); any
// positive placeholder here just flags "has a drawing".
func (s *Sheet) ensureDrawing() {
	if s.DrawingID == 0 {
		s.DrawingID = 1
	}
}

// marshalDrawing renders a sheet's images/charts/shapes into the
// xl/drawings/drawingN.xml model plus the parallel list of (rId, target,
// type) entries its _rels file needs, in the same order the anchors are
// emitted (image rIds first, then chart rIds).
func marshalDrawing(s *Sheet, imageNameFor func(int) string, chartNameFor func(int) string) (*xlsxWsDr, []xlsxRelationship) {
	wsDr := newWsDr()
	var rels []xlsxRelationship
	nextID := 1
	emuPerCol := 609600 // ~64px default column width, in EMUs

	for i, img := range s.Images {
		rid := fmt.Sprintf("rId%d", nextID)
		nextID++
		rels = append(rels, xlsxRelationship{ID: rid, Type: RelTypeImage, Target: "../media/" + imageNameFor(i)})
		a := img.Anchor
		wsDr.OneCellAnchor = append(wsDr.OneCellAnchor, xlsxCellAnchor{
			From: xlsxMarker{Col: a.FromCol, Row: a.FromRow},
			Ext:  &xlsxExt{Cx: a.ExtCx, Cy: a.ExtCy},
			Pic: &xlsxPic{
				NvPicPr:  xlsxNvPicPr{CNvPr: xlsxCNvPr{ID: i + 1, Name: fmt.Sprintf("Picture %d", i+1)}},
				BlipFill: xlsxBlipFill{Blip: xlsxBlip{REmbed: rid}},
				SpPr:     xlsxDrawingSpPr{Xfrm: xlsxXfrm{Ext: xlsxExt{Cx: a.ExtCx, Cy: a.ExtCy}}},
			},
			ClientData: xlsxClientData{FPrintsWithSheet: true},
		})
	}
	_ = emuPerCol

	for i, c := range s.Charts {
		rid := fmt.Sprintf("rId%d", nextID)
		nextID++
		rels = append(rels, xlsxRelationship{ID: rid, Type: RelTypeChart, Target: "../charts/" + chartNameFor(i)})
		a := c.Anchor
		wsDr.TwoCellAnchor = append(wsDr.TwoCellAnchor, xlsxCellAnchor{
			From: xlsxMarker{Col: a.FromCol, Row: a.FromRow},
			To:   &xlsxMarker{Col: a.ToCol, Row: a.ToRow},
			GraphicFrame: &xlsxGraphicFrame{
				NvGraphicFramePr: xlsxNvGraphicFramePr{CNvPr: xlsxCNvPr{ID: 1000 + i, Name: fmt.Sprintf("Chart %d", i+1)}},
				Graphic: xlsxGraphic{GraphicData: xlsxGraphicData{
					URI:   nsDrawingMLChartURI,
					Chart: xlsxChartRef{RID: rid},
				}},
			},
			ClientData: xlsxClientData{FPrintsWithSheet: true},
		})
	}

	for i, sh := range s.Shapes {
		a := sh.Anchor
		txBody := &xlsxShapeTxBody{}
		if sh.Text != "" {
			txBody.P = []xlsxShapeParagraph{{R: []xlsxShapeRun{{T: sh.Text}}}}
		}
		wsDr.TwoCellAnchor = append(wsDr.TwoCellAnchor, xlsxCellAnchor{
			From: xlsxMarker{Col: a.FromCol, Row: a.FromRow},
			To:   &xlsxMarker{Col: a.ToCol, Row: a.ToRow},
			Sp: &xlsxSp{
				NvSpPr: xlsxNvSpPr{CNvPr: xlsxCNvPr{ID: 2000 + i, Name: fmt.Sprintf("Shape %d", i+1)}},
				TxBody: txBody,
			},
			ClientData: xlsxClientData{FPrintsWithSheet: true},
		})
	}

	return wsDr, rels
}

const nsDrawingMLChartURI = "http://schemas.openxmlformats.org/drawingml/2006/chart"

// normalizeImageExt returns ext with a leading dot, lowercased, defaulting
// to ".png" if ext is empty.
func normalizeImageExt(ext string) string {
	if ext == "" {
		return ".png"
	}
	ext = strings.ToLower(ext)
	if ext[0] != '.' {
		return "." + ext
	}
	return ext
}

// imageContentType maps an image extension to its package content type
// (§6), covering the formats AddImage accepts.
func imageContentType(ext string) string {
	switch normalizeImageExt(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	default:
		return "image/png"
	}
}
