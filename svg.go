// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderOptions configures RenderToSVG (§4.13).
type RenderOptions struct {
	Range         string // e.g. "A1:F20"; empty means the sheet's used range
	ShowGridLines bool
	ShowHeaders   bool
	Scale         float64
}

const (
	svgHeaderWidth   = 40
	svgHeaderHeight  = 20
	svgDefaultColPx  = 64
	svgDefaultRowPx  = 20
	svgGridlineColor = "#D0D0D0"
)

// RenderToSVG renders the rectangular region of sheet described by opts (or
// its used range, if opts.Range is empty) as a standalone SVG document.
func RenderToSVG(sheet *Sheet, opts RenderOptions) (string, error) {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	if scale <= 0 {
		return "", wrapf(ErrInvalidArgument, "render scale must be positive, got %v", scale)
	}

	fromCol, fromRow, toCol, toRow, err := resolveRenderRange(sheet, opts.Range)
	if err != nil {
		return "", err
	}

	colWidthPx := func(col int) float64 {
		if w, ok := sheet.colWidths[col]; ok {
			return w*7 + 5
		}
		if sheet.DefaultColWidth != 0 {
			return sheet.DefaultColWidth*7 + 5
		}
		return svgDefaultColPx
	}
	rowHeightPx := func(row int) float64 {
		if r, ok := sheet.rows[row]; ok && r.Custom && r.Height != 0 {
			return r.Height * 4 / 3
		}
		if sheet.DefaultRowHeight != 0 {
			return sheet.DefaultRowHeight * 4 / 3
		}
		return svgDefaultRowPx
	}

	headerX, headerY := 0.0, 0.0
	if opts.ShowHeaders {
		headerX, headerY = svgHeaderWidth, svgHeaderHeight
	}

	colX := map[int]float64{}
	x := headerX
	for c := fromCol; c <= toCol; c++ {
		colX[c] = x
		x += colWidthPx(c)
	}
	totalWidth := x

	rowY := map[int]float64{}
	y := headerY
	for r := fromRow; r <= toRow; r++ {
		rowY[r] = y
		y += rowHeightPx(r)
	}
	totalHeight := y

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`,
		trimFloat(totalWidth), trimFloat(totalHeight), trimFloat(totalWidth*scale), trimFloat(totalHeight*scale))
	fmt.Fprintf(&b, `<rect x="0" y="0" width="%s" height="%s" fill="#FFFFFF"/>`, trimFloat(totalWidth), trimFloat(totalHeight))

	if opts.ShowHeaders {
		fmt.Fprintf(&b, `<rect x="0" y="0" width="%s" height="%s" fill="#F0F0F0"/>`, trimFloat(totalWidth), trimFloat(headerY))
		fmt.Fprintf(&b, `<rect x="0" y="0" width="%s" height="%s" fill="#F0F0F0"/>`, trimFloat(headerX), trimFloat(totalHeight))
		for c := fromCol; c <= toCol; c++ {
			name, _ := ColumnNumberToName(c)
			cx := colX[c] + colWidthPx(c)/2
			fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-size="11">%s</text>`,
				trimFloat(cx), trimFloat(headerY/2), escapeXMLText(name))
		}
		for r := fromRow; r <= toRow; r++ {
			cy := rowY[r] + rowHeightPx(r)/2
			fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-size="11">%d</text>`,
				trimFloat(headerX/2), trimFloat(cy), r)
		}
	}

	for r := fromRow; r <= toRow; r++ {
		row, hasRow := sheet.rows[r]
		for c := fromCol; c <= toCol; c++ {
			cx, cy := colX[c], rowY[r]
			cw, ch := colWidthPx(c), rowHeightPx(r)
			var cell *Cell
			if hasRow {
				cell = row.Cells[c]
			}
			if cell == nil {
				continue
			}
			style, _ := sheet.wb.Styles.Style(cell.StyleID)
			if style.Fill.Pattern == FillSolid && style.Fill.Foreground != nil {
				fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
					trimFloat(cx), trimFloat(cy), trimFloat(cw), trimFloat(ch), cssColor(style.Fill.Foreground.RGB))
			}
		}
	}

	if opts.ShowGridLines {
		for c := fromCol; c <= toCol+1; c++ {
			gx := headerX
			if c <= toCol {
				gx = colX[c]
			} else {
				gx = colX[toCol] + colWidthPx(toCol)
			}
			fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="0.5"/>`,
				trimFloat(gx), trimFloat(headerY), trimFloat(gx), trimFloat(totalHeight), svgGridlineColor)
		}
		for r := fromRow; r <= toRow+1; r++ {
			gy := headerY
			if r <= toRow {
				gy = rowY[r]
			} else {
				gy = rowY[toRow] + rowHeightPx(toRow)
			}
			fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="0.5"/>`,
				trimFloat(headerX), trimFloat(gy), trimFloat(totalWidth), trimFloat(gy), svgGridlineColor)
		}
	}

	for r := fromRow; r <= toRow; r++ {
		row, hasRow := sheet.rows[r]
		if !hasRow {
			continue
		}
		for c := fromCol; c <= toCol; c++ {
			cell, ok := row.Cells[c]
			if !ok {
				continue
			}
			cx, cy := colX[c], rowY[r]
			cw, ch := colWidthPx(c), rowHeightPx(r)
			style, _ := sheet.wb.Styles.Style(cell.StyleID)
			pattern := sheet.wb.Styles.NumFmtPattern(cell.StyleID)
			renderCellBorders(&b, style.Border, cx, cy, cw, ch)
			renderCellText(&b, sheet, cell, style, pattern, cx, cy, cw, ch)
		}
	}

	b.WriteString(`</svg>`)
	return b.String(), nil
}

func resolveRenderRange(sheet *Sheet, rangeRef string) (fromCol, fromRow, toCol, toRow int, err error) {
	if rangeRef != "" {
		from, to := splitCellRange(rangeRef)
		fromCol, fromRow, err = CellNameToCoordinates(from)
		if err != nil {
			return
		}
		toCol, toRow, err = CellNameToCoordinates(to)
		return
	}
	fromCol, fromRow = 1, 1
	toCol, toRow = 1, 1
	for rn, row := range sheet.rows {
		if rn > toRow {
			toRow = rn
		}
		for cn := range row.Cells {
			if cn > toCol {
				toCol = cn
			}
		}
	}
	return
}

func renderCellBorders(b *strings.Builder, border Border, x, y, w, h float64) {
	line := func(side *BorderSide, x1, y1, x2, y2 float64) {
		if side == nil || side.Style == LineNone {
			return
		}
		width := borderLineWidth(side.Style)
		color := "#000000"
		if side.Color != nil {
			color = cssColor(side.Color.RGB)
		}
		fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%d"/>`,
			trimFloat(x1), trimFloat(y1), trimFloat(x2), trimFloat(y2), color, width)
	}
	line(border.Top, x, y, x+w, y)
	line(border.Bottom, x, y+h, x+w, y+h)
	line(border.Left, x, y, x, y+h)
	line(border.Right, x+w, y, x+w, y+h)
}

func borderLineWidth(s LineStyle) int {
	switch s {
	case LineMedium, LineMediumDashed, LineMediumDashDot, LineMediumDashDotDot:
		return 2
	case LineThick:
		return 3
	default:
		return 1
	}
}

func renderCellText(b *strings.Builder, sheet *Sheet, cell *Cell, style Style, numFmtPattern string, x, y, w, h float64) {
	text := plainTextForRender(sheet, cell.Value, numFmtPattern)
	if text == "" {
		return
	}
	anchor, tx := "start", x+2
	switch style.Alignment.Horizontal {
	case HAlignCenter, HAlignCenterContinuous:
		anchor, tx = "middle", x+w/2
	case HAlignRight:
		anchor, tx = "end", x+w-2
	}
	ty := y + h/2
	switch style.Alignment.Vertical {
	case VAlignTop:
		ty = y + 10
	case VAlignBottom:
		ty = y + h - 4
	}

	fontSize := style.Font.Size
	if fontSize == 0 {
		fontSize = 11
	}
	fontFamily := style.Font.Name
	if fontFamily == "" {
		fontFamily = "Calibri"
	}
	color := "#000000"
	if style.Font.Color != nil {
		color = cssColor(style.Font.Color.RGB)
	}
	weight := ""
	if style.Font.Bold {
		weight = ` font-weight="bold"`
	}
	styleAttr := ""
	if style.Font.Italic {
		styleAttr = ` font-style="italic"`
	}
	decoration := ""
	if style.Font.Underline && style.Font.Strikethrough {
		decoration = ` text-decoration="underline line-through"`
	} else if style.Font.Underline {
		decoration = ` text-decoration="underline"`
	} else if style.Font.Strikethrough {
		decoration = ` text-decoration="line-through"`
	}

	fmt.Fprintf(b, `<text x="%s" y="%s" text-anchor="%s" dominant-baseline="middle" font-family="%s" font-size="%s" fill="%s"%s%s%s>%s</text>`,
		trimFloat(tx), trimFloat(ty), anchor, escapeXMLText(fontFamily), trimFloat(fontSize), color, weight, styleAttr, decoration, escapeXMLText(text))
}

func plainTextForRender(sheet *Sheet, v CellValue, numFmtPattern string) string {
	if v.Type == CellTypeSharedString {
		idx := int(v.Num)
		if runs, ok := sheet.wb.SharedStrings.GetRichText(idx); ok {
			s := ""
			for _, r := range runs {
				s += r.Text
			}
			return s
		}
		if s, ok := sheet.wb.SharedStrings.Get(idx); ok {
			return s
		}
	}
	if v.Type == CellTypeNumber || v.Type == CellTypeDate {
		n := v.Num
		if v.Type == CellTypeDate {
			n = v.Date
		}
		return FormatNumber(n, numFmtPattern)
	}
	return v.PlainText()
}

// cssColor normalizes an OOXML color hex string (8-char ARGB, 6-char RGB, or
// already "#"-prefixed) into a CSS color value (§4.13).
func cssColor(hex string) string {
	if hex == "" {
		return "#000000"
	}
	if strings.HasPrefix(hex, "#") {
		return hex
	}
	if len(hex) == 8 {
		return "#" + hex[2:]
	}
	return "#" + hex
}

// escapeXMLText escapes the five XML predefined entities.
func escapeXMLText(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
