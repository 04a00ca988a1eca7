// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import "encoding/xml"

// xlsxCoreProperties directly maps docProps/core.xml.
type xlsxCoreProperties struct {
	XMLName        xml.Name `xml:"http://schemas.openxmlformats.org/package/2006/metadata/core-properties cp:coreProperties"`
	CP             string   `xml:"xmlns:cp,attr"`
	DC             string   `xml:"xmlns:dc,attr"`
	DCTerms        string   `xml:"xmlns:dcterms,attr"`
	XSI            string   `xml:"xmlns:xsi,attr"`
	Title          string   `xml:"dc:title,omitempty"`
	Subject        string   `xml:"dc:subject,omitempty"`
	Creator        string   `xml:"dc:creator,omitempty"`
	Keywords       string   `xml:"cp:keywords,omitempty"`
	Description    string   `xml:"dc:description,omitempty"`
	LastModifiedBy string   `xml:"cp:lastModifiedBy,omitempty"`
	Category       string   `xml:"cp:category,omitempty"`
}

// xlsxAppProperties directly maps docProps/app.xml.
type xlsxAppProperties struct {
	XMLName xml.Name `xml:"http://schemas.openxmlformats.org/officeDocument/2006/extended-properties Properties"`
	Xmlns   string   `xml:"xmlns,attr,omitempty"`
	Company string   `xml:"Company,omitempty"`
}

const (
	nsCoreProperties = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDublinCore     = "http://purl.org/dc/elements/1.1/"
	nsDublinCoreTerms = "http://purl.org/dc/terms/"
	nsXSI            = "http://www.w3.org/2001/XMLSchema-instance"
	nsExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
)

func marshalCoreProperties(p DocProperties) *xlsxCoreProperties {
	return &xlsxCoreProperties{
		CP: nsCoreProperties, DC: nsDublinCore, DCTerms: nsDublinCoreTerms, XSI: nsXSI,
		Title: p.Title, Subject: p.Subject, Creator: p.Creator, Keywords: p.Keywords,
		Description: p.Description, LastModifiedBy: p.LastModifiedBy, Category: p.Category,
	}
}

func unmarshalCoreProperties(data []byte) (DocProperties, error) {
	var xc xlsxCoreProperties
	if err := decodeXML(data, &xc); err != nil {
		return DocProperties{}, wrapf(ErrXMLParse, "docProps/core.xml: %v", err)
	}
	return DocProperties{
		Title: xc.Title, Subject: xc.Subject, Creator: xc.Creator, Keywords: xc.Keywords,
		Description: xc.Description, LastModifiedBy: xc.LastModifiedBy, Category: xc.Category,
	}, nil
}

func marshalAppProperties(p DocProperties) *xlsxAppProperties {
	return &xlsxAppProperties{Xmlns: nsExtendedProps, Company: p.Company}
}

func unmarshalAppProperties(data []byte) (company string, err error) {
	var xa xlsxAppProperties
	if err := decodeXML(data, &xa); err != nil {
		return "", wrapf(ErrXMLParse, "docProps/app.xml: %v", err)
	}
	return xa.Company, nil
}

// xlsxCustomProperties directly maps docProps/custom.xml.
type xlsxCustomProperties struct {
	XMLName  xml.Name               `xml:"http://schemas.openxmlformats.org/officeDocument/2006/custom-properties Properties"`
	Property []xlsxCustomProperty `xml:"property"`
}

type xlsxCustomProperty struct {
	FmtID string `xml:"fmtid,attr"`
	PID   int    `xml:"pid,attr"`
	Name  string `xml:"name,attr"`
	Lpwstr string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes lpwstr"`
}

const customPropertyFmtID = "{D5CDD505-2E9C-101B-9397-08002B2CF9AE}"

func marshalCustomProperties(props map[string]string) *xlsxCustomProperties {
	if len(props) == 0 {
		return nil
	}
	xc := &xlsxCustomProperties{}
	pid := 2
	for name, val := range props {
		xc.Property = append(xc.Property, xlsxCustomProperty{FmtID: customPropertyFmtID, PID: pid, Name: name, Lpwstr: val})
		pid++
	}
	return xc
}

func unmarshalCustomProperties(data []byte) (map[string]string, error) {
	var xc xlsxCustomProperties
	if err := decodeXML(data, &xc); err != nil {
		return nil, wrapf(ErrXMLParse, "docProps/custom.xml: %v", err)
	}
	out := map[string]string{}
	for _, p := range xc.Property {
		out[p.Name] = p.Lpwstr
	}
	return out, nil
}
