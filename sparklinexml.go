// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Sparkline groups live in the worksheet's extLst under the x14 extension
// URI rather than in their own package part.
const (
	extURISparklineGroups = "{05C60535-1F16-4fd2-B633-F4F36F0B64E0}"
	nsSpreadsheetX14      = "http://schemas.microsoft.com/office/spreadsheetml/2009/9/main"
	nsSpreadsheetXM       = "http://schemas.microsoft.com/office/excel/2006/main"
)

// xlsxExtLst holds a worksheet's extension list verbatim; sparkline groups
// are spliced in and out of it by marshalSparklines/unmarshalSparklines and
// any other extension passes through untouched.
type xlsxExtLst struct {
	Ext string `xml:",innerxml"`
}

// Encode-side structs carry literal x14:/xm: prefixes since encoding/xml
// cannot emit bound prefixes on its own.
type xlsxX14SparklineGroups struct {
	XMLName         xml.Name                `xml:"x14:sparklineGroups"`
	XMLNSXM         string                  `xml:"xmlns:xm,attr"`
	SparklineGroups []xlsxX14SparklineGroup `xml:"x14:sparklineGroup"`
}

type xlsxX14SparklineGroup struct {
	Type        string             `xml:"type,attr,omitempty"`
	Markers     bool               `xml:"markers,attr,omitempty"`
	High        bool               `xml:"high,attr,omitempty"`
	Low         bool               `xml:"low,attr,omitempty"`
	Negative    bool               `xml:"negative,attr,omitempty"`
	ColorSeries *xlsxX14Color      `xml:"x14:colorSeries"`
	Sparklines  xlsxX14Sparklines  `xml:"x14:sparklines"`
}

type xlsxX14Color struct {
	RGB string `xml:"rgb,attr,omitempty"`
}

type xlsxX14Sparklines struct {
	Sparkline []xlsxX14Sparkline `xml:"x14:sparkline"`
}

type xlsxX14Sparkline struct {
	F     string `xml:"xm:f"`
	Sqref string `xml:"xm:sqref"`
}

// Decode-side structs use bare local names: the decoder leaves the unbound
// x14:/xm: prefixes as namespace strings, and a space-less tag matches any.
type decodeExtLst struct {
	XMLName xml.Name    `xml:"extLst"`
	Ext     []decodeExt `xml:"ext"`
}

type decodeExt struct {
	URI     string `xml:"uri,attr"`
	Content string `xml:",innerxml"`
}

type decodeX14SparklineGroups struct {
	XMLName         xml.Name                  `xml:"sparklineGroups"`
	SparklineGroups []decodeX14SparklineGroup `xml:"sparklineGroup"`
}

type decodeX14SparklineGroup struct {
	Type        string              `xml:"type,attr"`
	Markers     bool                `xml:"markers,attr"`
	High        bool                `xml:"high,attr"`
	Low         bool                `xml:"low,attr"`
	Negative    bool                `xml:"negative,attr"`
	ColorSeries *decodeX14Color     `xml:"colorSeries"`
	Sparklines  decodeX14Sparklines `xml:"sparklines"`
}

type decodeX14Color struct {
	RGB string `xml:"rgb,attr"`
}

type decodeX14Sparklines struct {
	Sparkline []decodeX14Sparkline `xml:"sparkline"`
}

type decodeX14Sparkline struct {
	F     string `xml:"f"`
	Sqref string `xml:"sqref"`
}

func sparklineTypeName(t SparklineType) string {
	switch t {
	case SparklineColumn:
		return "column"
	case SparklineWinLoss:
		return "stacked"
	}
	return ""
}

func sparklineTypeFromName(name string) SparklineType {
	switch name {
	case "column":
		return SparklineColumn
	case "stacked":
		return SparklineWinLoss
	}
	return SparklineLine
}

// marshalSparklines renders a sheet's sparkline groups as one <ext> element
// ready to be spliced into the worksheet's extLst.
func marshalSparklines(groups []SparklineGroup) string {
	x := xlsxX14SparklineGroups{XMLNSXM: nsSpreadsheetXM}
	for _, g := range groups {
		xg := xlsxX14SparklineGroup{
			Type:     sparklineTypeName(g.Type),
			Markers:  g.Markers,
			High:     g.High,
			Low:      g.Low,
			Negative: g.Negative,
		}
		if g.ColorSeries.Kind == ColorRGB && g.ColorSeries.RGB != "" {
			xg.ColorSeries = &xlsxX14Color{RGB: g.ColorSeries.RGB}
		}
		for i, f := range g.DataRanges {
			sqref := ""
			if i < len(g.Locations) {
				sqref = g.Locations[i]
			}
			xg.Sparklines.Sparkline = append(xg.Sparklines.Sparkline, xlsxX14Sparkline{F: f, Sqref: sqref})
		}
		x.SparklineGroups = append(x.SparklineGroups, xg)
	}
	body, err := xml.Marshal(&x)
	if err != nil {
		return ""
	}
	var b bytes.Buffer
	b.WriteString(`<ext uri="` + extURISparklineGroups + `" xmlns:x14="` + nsSpreadsheetX14 + `">`)
	b.Write(body)
	b.WriteString(`</ext>`)
	return b.String()
}

// unmarshalSparklines extracts sparkline groups from a worksheet's raw
// extLst content, returning them alongside the remaining extensions so
// non-sparkline entries survive a round trip untouched.
func unmarshalSparklines(extContent string) ([]SparklineGroup, string) {
	var lst decodeExtLst
	if decodeXML([]byte("<extLst>"+extContent+"</extLst>"), &lst) != nil {
		return nil, extContent
	}
	var groups []SparklineGroup
	var passthrough strings.Builder
	for _, ext := range lst.Ext {
		if ext.URI != extURISparklineGroups {
			passthrough.WriteString(`<ext uri="` + ext.URI + `">` + ext.Content + `</ext>`)
			continue
		}
		var x decodeX14SparklineGroups
		if decodeXML([]byte(ext.Content), &x) != nil {
			continue
		}
		for _, xg := range x.SparklineGroups {
			g := SparklineGroup{
				Type:     sparklineTypeFromName(xg.Type),
				Markers:  xg.Markers,
				High:     xg.High,
				Low:      xg.Low,
				Negative: xg.Negative,
			}
			if xg.ColorSeries != nil && xg.ColorSeries.RGB != "" {
				g.ColorSeries = RGBColor(xg.ColorSeries.RGB)
			}
			for _, sp := range xg.Sparklines.Sparkline {
				g.DataRanges = append(g.DataRanges, sp.F)
				g.Locations = append(g.Locations, sp.Sqref)
			}
			groups = append(groups, g)
		}
	}
	return groups, passthrough.String()
}
