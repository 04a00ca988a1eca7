// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"path"
	"strings"
)

// ensureDrawingsHydrated lifts a sheet's drawing part (if any) out of the
// workbook's deferred-parts index into typed Images/Charts/Shapes, exactly
// once. It is the per-sheet, per-category hydration routine described in
// §4.2: idempotent, triggered by the first mutating or reading call that
// touches the category.
func (s *Sheet) ensureDrawingsHydrated() {
	if s.drawingsHydrated {
		return
	}
	s.drawingsHydrated = true
	if s.pendingDrawingPath == "" {
		return
	}
	drawingPath := s.pendingDrawingPath
	data, ok := s.wb.parts.take(CategoryDrawings, drawingPath)
	if !ok {
		return
	}
	s.wb.parts.markHydrated(CategoryDrawings)

	var wsDr xlsxWsDr
	if decodeXML(data, &wsDr) != nil {
		return
	}

	relsPath := relsPathFor(drawingPath)
	relByID := map[string]string{}
	if relsData, ok := s.wb.parts.take(CategoryDrawingRels, relsPath); ok {
		s.wb.parts.markHydrated(CategoryDrawingRels)
		var rels xlsxRelationships
		if decodeXML(relsData, &rels) == nil {
			for _, r := range rels.Relationships {
				relByID[r.ID] = resolveRelationshipTarget(drawingPath, r.Target)
			}
		}
	}

	hydrateAnchor := func(a xlsxCellAnchor) {
		anchor := Anchor{FromCol: a.From.Col, FromRow: a.From.Row, FromColOff: a.From.ColOff, FromRowOff: a.From.RowOff}
		if a.To != nil {
			anchor.TwoCell = true
			anchor.ToCol, anchor.ToRow = a.To.Col, a.To.Row
			anchor.ToColOff, anchor.ToRowOff = a.To.ColOff, a.To.RowOff
		}
		if a.Ext != nil {
			anchor.ExtCx, anchor.ExtCy = a.Ext.Cx, a.Ext.Cy
		}
		switch {
		case a.Pic != nil:
			target := relByID[a.Pic.BlipFill.Blip.REmbed]
			if target == "" {
				return
			}
			imgData, _ := s.wb.parts.take(CategoryImages, target)
			s.wb.parts.markHydrated(CategoryImages)
			s.Images = append(s.Images, Image{
				Name:   path.Base(target),
				Ext:    strings.ToLower(path.Ext(target)),
				Data:   imgData,
				Anchor: anchor,
			})
		case a.GraphicFrame != nil:
			target := relByID[a.GraphicFrame.Graphic.GraphicData.Chart.RID]
			if target == "" {
				return
			}
			chartData, _ := s.wb.parts.take(CategoryCharts, target)
			s.wb.parts.markHydrated(CategoryCharts)
			s.Charts = append(s.Charts, Chart{RawXML: chartData, Anchor: anchor})
		case a.Sp != nil:
			shape := Shape{Anchor: anchor}
			if a.Sp.TxBody != nil {
				var b strings.Builder
				for _, p := range a.Sp.TxBody.P {
					for _, r := range p.R {
						b.WriteString(r.T)
					}
				}
				shape.Text = b.String()
			}
			s.Shapes = append(s.Shapes, shape)
		}
	}

	for _, a := range wsDr.OneCellAnchor {
		hydrateAnchor(a)
	}
	for _, a := range wsDr.TwoCellAnchor {
		hydrateAnchor(a)
	}
	if len(s.Images)+len(s.Charts)+len(s.Shapes) > 0 {
		s.DrawingID = 1
	}
}
