// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import "encoding/xml"

// The chart part model below is intentionally minimal: this engine does not
// render charts, it only emits a structurally valid xl/charts/chartN.xml for
// a chart created through AddChart, and writes back RawXML verbatim for one
// hydrated from an opened package (§4.2, §4.12).

type xlsxChartSpace struct {
	XMLName xml.Name      `xml:"http://schemas.openxmlformats.org/drawingml/2006/chart c:chartSpace"`
	C       string        `xml:"xmlns:c,attr"`
	A       string        `xml:"xmlns:a,attr"`
	R       string        `xml:"xmlns:r,attr"`
	Chart   xlsxChartElem `xml:"c:chart"`
}

type xlsxChartElem struct {
	Title    *xlsxChartTitle `xml:"c:title,omitempty"`
	PlotArea xlsxPlotArea    `xml:"c:plotArea"`
}

type xlsxChartTitle struct {
	Tx xlsxChartTx `xml:"c:tx"`
}

type xlsxChartTx struct {
	Rich xlsxChartRich `xml:"c:rich"`
}

type xlsxChartRich struct {
	P xlsxChartTitleP `xml:"a:p"`
}

type xlsxChartTitleP struct {
	R xlsxChartTitleR `xml:"a:r"`
}

type xlsxChartTitleR struct {
	T string `xml:"a:t"`
}

type xlsxPlotArea struct {
	BarChart    *xlsxBarChart    `xml:"c:barChart,omitempty"`
	LineChart   *xlsxLineChart   `xml:"c:lineChart,omitempty"`
	PieChart    *xlsxPieChart    `xml:"c:pieChart,omitempty"`
	AreaChart   *xlsxAreaChart   `xml:"c:areaChart,omitempty"`
	ScatterChart *xlsxScatterChart `xml:"c:scatterChart,omitempty"`
}

type xlsxBarChart struct {
	Ser []xlsxChartSer `xml:"c:ser"`
}

type xlsxLineChart struct {
	Ser []xlsxChartSer `xml:"c:ser"`
}

type xlsxPieChart struct {
	Ser []xlsxChartSer `xml:"c:ser"`
}

type xlsxAreaChart struct {
	Ser []xlsxChartSer `xml:"c:ser"`
}

type xlsxScatterChart struct {
	Ser []xlsxChartSer `xml:"c:ser"`
}

type xlsxChartSer struct {
	Idx int           `xml:"c:idx"`
	Order int         `xml:"c:order"`
	Tx    *xlsxChartStrRef `xml:"c:tx,omitempty"`
	Cat   *xlsxChartStrRef `xml:"c:cat,omitempty"`
	Val   *xlsxChartNumRef `xml:"c:val,omitempty"`
}

type xlsxChartStrRef struct {
	F string `xml:"c:strRef>c:f"`
}

type xlsxChartNumRef struct {
	F string `xml:"c:numRef>c:f"`
}

// marshalChartSpace renders a Chart into its xl/charts/chartN.xml model.
func marshalChartSpace(c Chart) *xlsxChartSpace {
	cs := &xlsxChartSpace{
		C: "http://schemas.openxmlformats.org/drawingml/2006/chart",
		A: nsDrawingMLMain,
		R: nsOfficeDocRelationships,
	}
	if c.Title != "" {
		cs.Chart.Title = &xlsxChartTitle{Tx: xlsxChartTx{Rich: xlsxChartRich{P: xlsxChartTitleP{R: xlsxChartTitleR{T: c.Title}}}}}
	}
	var sers []xlsxChartSer
	for i, sr := range c.Series {
		ser := xlsxChartSer{Idx: i, Order: i}
		if sr.NameRef != "" {
			ser.Tx = &xlsxChartStrRef{F: sr.NameRef}
		}
		if sr.CategoriesRef != "" {
			ser.Cat = &xlsxChartStrRef{F: sr.CategoriesRef}
		}
		if sr.ValuesRef != "" {
			ser.Val = &xlsxChartNumRef{F: sr.ValuesRef}
		}
		sers = append(sers, ser)
	}
	switch c.Type {
	case ChartTypeBar:
		cs.Chart.PlotArea.BarChart = &xlsxBarChart{Ser: sers}
	case ChartTypePie:
		cs.Chart.PlotArea.PieChart = &xlsxPieChart{Ser: sers}
	case ChartTypeArea:
		cs.Chart.PlotArea.AreaChart = &xlsxAreaChart{Ser: sers}
	case ChartTypeScatter:
		cs.Chart.PlotArea.ScatterChart = &xlsxScatterChart{Ser: sers}
	default:
		cs.Chart.PlotArea.LineChart = &xlsxLineChart{Ser: sers}
	}
	return cs
}
