// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"encoding/xml"
	"strconv"
)

// xlsxStyleSheet is the root element of xl/styles.xml.
type xlsxStyleSheet struct {
	XMLName      xml.Name          `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main styleSheet"`
	NumFmts      *xlsxNumFmtsXML   `xml:"numFmts,omitempty"`
	Fonts        xlsxFontsXML      `xml:"fonts"`
	Fills        xlsxFillsXML      `xml:"fills"`
	Borders      xlsxBordersXML    `xml:"borders"`
	CellStyleXfs *xlsxXfsXML       `xml:"cellStyleXfs,omitempty"`
	CellXfs      xlsxXfsXML        `xml:"cellXfs"`
}

type xlsxNumFmtsXML struct {
	Count  int             `xml:"count,attr"`
	NumFmt []xlsxNumFmtXML `xml:"numFmt"`
}

type xlsxNumFmtXML struct {
	NumFmtID   int    `xml:"numFmtId,attr"`
	FormatCode string `xml:"formatCode,attr"`
}

type xlsxFontsXML struct {
	Count int            `xml:"count,attr"`
	Font  []xlsxFontXML  `xml:"font"`
}

type xlsxFontXML struct {
	B      *struct{}        `xml:"b,omitempty"`
	I      *struct{}        `xml:"i,omitempty"`
	Strike *struct{}        `xml:"strike,omitempty"`
	U      *xlsxAttrValXML  `xml:"u,omitempty"`
	Sz     *xlsxAttrValXML  `xml:"sz,omitempty"`
	Color  *xlsxColorXML    `xml:"color,omitempty"`
	Name   *xlsxAttrValXML  `xml:"name,omitempty"`
}

type xlsxAttrValXML struct {
	Val string `xml:"val,attr"`
}

type xlsxColorXML struct {
	RGB     string `xml:"rgb,attr,omitempty"`
	Theme   *int   `xml:"theme,attr"`
	Indexed *int   `xml:"indexed,attr"`
}

type xlsxFillsXML struct {
	Count int           `xml:"count,attr"`
	Fill  []xlsxFillXML `xml:"fill"`
}

type xlsxFillXML struct {
	PatternFill *xlsxPatternFillXML `xml:"patternFill,omitempty"`
}

type xlsxPatternFillXML struct {
	PatternType string        `xml:"patternType,attr,omitempty"`
	FgColor     *xlsxColorXML `xml:"fgColor,omitempty"`
	BgColor     *xlsxColorXML `xml:"bgColor,omitempty"`
}

type xlsxBordersXML struct {
	Count  int             `xml:"count,attr"`
	Border []xlsxBorderXML `xml:"border"`
}

type xlsxBorderXML struct {
	DiagonalUp   bool          `xml:"diagonalUp,attr,omitempty"`
	DiagonalDown bool          `xml:"diagonalDown,attr,omitempty"`
	Left         xlsxLineXML   `xml:"left"`
	Right        xlsxLineXML   `xml:"right"`
	Top          xlsxLineXML   `xml:"top"`
	Bottom       xlsxLineXML   `xml:"bottom"`
	Diagonal     xlsxLineXML   `xml:"diagonal"`
}

type xlsxLineXML struct {
	Style string        `xml:"style,attr,omitempty"`
	Color *xlsxColorXML `xml:"color,omitempty"`
}

type xlsxXfsXML struct {
	Count int         `xml:"count,attr"`
	Xf    []xlsxXfXML `xml:"xf"`
}

type xlsxXfXML struct {
	NumFmtID   int                `xml:"numFmtId,attr"`
	FontID     int                `xml:"fontId,attr"`
	FillID     int                `xml:"fillId,attr"`
	BorderID   int                `xml:"borderId,attr"`
	Alignment  *xlsxAlignmentXML  `xml:"alignment,omitempty"`
	Protection *xlsxProtectionXML `xml:"protection,omitempty"`
}

type xlsxAlignmentXML struct {
	Horizontal  string `xml:"horizontal,attr,omitempty"`
	Vertical    string `xml:"vertical,attr,omitempty"`
	WrapText    bool   `xml:"wrapText,attr,omitempty"`
	TextRotation int   `xml:"textRotation,attr,omitempty"`
	Indent      int    `xml:"indent,attr,omitempty"`
	ShrinkToFit bool   `xml:"shrinkToFit,attr,omitempty"`
}

type xlsxProtectionXML struct {
	Locked *bool `xml:"locked,attr"`
	Hidden *bool `xml:"hidden,attr"`
}

func colorToXML(c *Color) *xlsxColorXML {
	if c == nil {
		return nil
	}
	switch c.Kind {
	case ColorTheme:
		t := int(c.ThemeID)
		return &xlsxColorXML{Theme: &t}
	case ColorIndexed:
		i := int(c.Index)
		return &xlsxColorXML{Indexed: &i}
	default:
		return &xlsxColorXML{RGB: c.RGB}
	}
}

func colorFromXML(c *xlsxColorXML) *Color {
	if c == nil {
		return nil
	}
	if c.Theme != nil {
		return &Color{Kind: ColorTheme, ThemeID: uint32(*c.Theme)}
	}
	if c.Indexed != nil {
		return &Color{Kind: ColorIndexed, Index: uint32(*c.Indexed)}
	}
	return &Color{Kind: ColorRGB, RGB: c.RGB}
}

// marshalStylesheet builds the xl/styles.xml model of the Stylesheet.
func marshalStylesheet(s *Stylesheet) *xlsxStyleSheet {
	out := &xlsxStyleSheet{}
	for _, f := range s.fonts {
		fx := xlsxFontXML{Name: &xlsxAttrValXML{Val: f.Name}}
		if f.Size != 0 {
			fx.Sz = &xlsxAttrValXML{Val: strconv.FormatFloat(f.Size, 'g', -1, 64)}
		}
		if f.Bold {
			fx.B = &struct{}{}
		}
		if f.Italic {
			fx.I = &struct{}{}
		}
		if f.Strikethrough {
			fx.Strike = &struct{}{}
		}
		if f.Underline {
			fx.U = &xlsxAttrValXML{Val: "single"}
		}
		fx.Color = colorToXML(f.Color)
		out.Fonts.Font = append(out.Fonts.Font, fx)
	}
	out.Fonts.Count = len(out.Fonts.Font)

	for _, fl := range s.fills {
		pf := &xlsxPatternFillXML{PatternType: fillPatternNames[fl.Pattern]}
		pf.FgColor = colorToXML(fl.Foreground)
		pf.BgColor = colorToXML(fl.Background)
		out.Fills.Fill = append(out.Fills.Fill, xlsxFillXML{PatternFill: pf})
	}
	out.Fills.Count = len(out.Fills.Fill)

	sideToXML := func(s *BorderSide) xlsxLineXML {
		if s == nil {
			return xlsxLineXML{}
		}
		return xlsxLineXML{Style: lineStyleNames[s.Style], Color: colorToXML(s.Color)}
	}
	for _, b := range s.borders {
		out.Borders.Border = append(out.Borders.Border, xlsxBorderXML{
			DiagonalUp: b.DiagonalUp, DiagonalDown: b.DiagonalDown,
			Left: sideToXML(b.Left), Right: sideToXML(b.Right),
			Top: sideToXML(b.Top), Bottom: sideToXML(b.Bottom),
			Diagonal: sideToXML(b.Diagonal),
		})
	}
	out.Borders.Count = len(out.Borders.Border)

	if len(s.numFmts) > 0 {
		nf := &xlsxNumFmtsXML{}
		for id, pat := range s.numFmts {
			nf.NumFmt = append(nf.NumFmt, xlsxNumFmtXML{NumFmtID: id, FormatCode: pat})
		}
		nf.Count = len(nf.NumFmt)
		out.NumFmts = nf
	}

	hAlignName := func(h HAlign) string {
		if h == HAlignGeneral {
			return ""
		}
		return hAlignNames[h]
	}
	vAlignName := func(v VAlign, has bool) string {
		if !has {
			return ""
		}
		return vAlignNames[v]
	}
	for _, x := range s.xfs {
		xfx := xlsxXfXML{NumFmtID: x.NumFmtID, FontID: x.FontID, FillID: x.FillID, BorderID: x.BorderID}
		al := x.Alignment
		if al != (Alignment{}) {
			xfx.Alignment = &xlsxAlignmentXML{
				Horizontal: hAlignName(al.Horizontal), Vertical: vAlignName(al.Vertical, true),
				WrapText: al.WrapText, TextRotation: al.Rotation, Indent: al.Indent, ShrinkToFit: al.ShrinkToFit,
			}
		}
		locked, hidden := x.Protection.Locked, x.Protection.Hidden
		xfx.Protection = &xlsxProtectionXML{Locked: &locked, Hidden: &hidden}
		out.CellXfs.Xf = append(out.CellXfs.Xf, xfx)
	}
	out.CellXfs.Count = len(out.CellXfs.Xf)
	return out
}

// unmarshalStylesheet rebuilds a Stylesheet from parsed xl/styles.xml.
func unmarshalStylesheet(x *xlsxStyleSheet) *Stylesheet {
	s := &Stylesheet{numFmts: map[int]string{}, nextNumFmtID: 164}
	if x.NumFmts != nil {
		for _, nf := range x.NumFmts.NumFmt {
			s.numFmts[nf.NumFmtID] = nf.FormatCode
			if nf.NumFmtID >= s.nextNumFmtID {
				s.nextNumFmtID = nf.NumFmtID + 1
			}
		}
	}
	for _, f := range x.Fonts.Font {
		font := Font{}
		if f.Name != nil {
			font.Name = f.Name.Val
		}
		if f.Sz != nil {
			font.Size, _ = strconv.ParseFloat(f.Sz.Val, 64)
		}
		font.Bold = f.B != nil
		font.Italic = f.I != nil
		font.Strikethrough = f.Strike != nil
		font.Underline = f.U != nil
		font.Color = colorFromXML(f.Color)
		s.fonts = append(s.fonts, font)
	}
	if len(s.fonts) == 0 {
		s.fonts = []Font{{Name: "Calibri", Size: 11}}
	}
	for _, fl := range x.Fills.Fill {
		fill := Fill{}
		if fl.PatternFill != nil {
			fill.Pattern = fillPatternByName[fl.PatternFill.PatternType]
			fill.Foreground = colorFromXML(fl.PatternFill.FgColor)
			fill.Background = colorFromXML(fl.PatternFill.BgColor)
		}
		s.fills = append(s.fills, fill)
	}
	if len(s.fills) == 0 {
		s.fills = []Fill{{Pattern: FillNone}, {Pattern: FillGray125}}
	}
	sideFromXML := func(l xlsxLineXML) *BorderSide {
		if l.Style == "" {
			return nil
		}
		return &BorderSide{Style: lineStyleByName[l.Style], Color: colorFromXML(l.Color)}
	}
	for _, b := range x.Borders.Border {
		s.borders = append(s.borders, Border{
			DiagonalUp: b.DiagonalUp, DiagonalDown: b.DiagonalDown,
			Left: sideFromXML(b.Left), Right: sideFromXML(b.Right),
			Top: sideFromXML(b.Top), Bottom: sideFromXML(b.Bottom),
			Diagonal: sideFromXML(b.Diagonal),
		})
	}
	if len(s.borders) == 0 {
		s.borders = []Border{{}}
	}
	for _, xfx := range x.CellXfs.Xf {
		rec := xf{FontID: xfx.FontID, FillID: xfx.FillID, BorderID: xfx.BorderID, NumFmtID: xfx.NumFmtID}
		if pat, ok := s.numFmts[xfx.NumFmtID]; ok {
			rec.NumFmtCustom = pat
		}
		if xfx.Alignment != nil {
			rec.Alignment = Alignment{
				Horizontal: hAlignByName[xfx.Alignment.Horizontal], Vertical: vAlignByName[xfx.Alignment.Vertical],
				WrapText: xfx.Alignment.WrapText, Rotation: xfx.Alignment.TextRotation,
				Indent: xfx.Alignment.Indent, ShrinkToFit: xfx.Alignment.ShrinkToFit,
			}
		}
		rec.Protection = Protection{Locked: true}
		if xfx.Protection != nil {
			if xfx.Protection.Locked != nil {
				rec.Protection.Locked = *xfx.Protection.Locked
			}
			if xfx.Protection.Hidden != nil {
				rec.Protection.Hidden = *xfx.Protection.Hidden
			}
		}
		s.xfs = append(s.xfs, rec)
	}
	if len(s.xfs) == 0 {
		s.xfs = []xf{{Protection: Protection{Locked: true}}}
	}
	return s
}
