// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import "encoding/xml"

// xlsxSST directly maps the sst element of xl/sharedStrings.xml (§4.3).
type xlsxSST struct {
	XMLName     xml.Name `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main sst"`
	Count       int      `xml:"count,attr"`
	UniqueCount int      `xml:"uniqueCount,attr"`
	SI          []xlsxSI `xml:"si"`
}

// xlsxSI (String Item) is one shared-string entry: either a plain <t> or a
// sequence of rich-text <r> runs.
type xlsxSI struct {
	T *xlsxTNode `xml:"t"`
	R []xlsxR    `xml:"r"`
}

type xlsxTNode struct {
	Space string `xml:"http://www.w3.org/XML/1998/namespace space,attr,omitempty"`
	Val   string `xml:",chardata"`
}

type xlsxR struct {
	RPr *xlsxRPr   `xml:"rPr,omitempty"`
	T   xlsxTNode  `xml:"t"`
}

type xlsxRPr struct {
	B     *struct{}       `xml:"b,omitempty"`
	I     *struct{}       `xml:"i,omitempty"`
	Sz    *xlsxAttrValXML `xml:"sz,omitempty"`
	Color *xlsxColorXML   `xml:"color,omitempty"`
	RFont *xlsxAttrValXML `xml:"rFont,omitempty"`
}

// String extracts the plain-text projection of a string item, preferring
// the concatenation of rich-text runs when present.
func (si xlsxSI) String() string {
	if len(si.R) > 0 {
		s := ""
		for _, r := range si.R {
			s += r.T.Val
		}
		return s
	}
	if si.T != nil {
		return si.T.Val
	}
	return ""
}
