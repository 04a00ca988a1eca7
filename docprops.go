// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

// GetDocProperties returns the workbook's docProps/core.xml + app.xml
// summary fields.
func (wb *Workbook) GetDocProperties() DocProperties {
	return wb.Properties
}

// SetDocProperties replaces the workbook's document properties wholesale.
func (wb *Workbook) SetDocProperties(p DocProperties) {
	wb.Properties = p
}

// GetCustomProperty returns a docProps/custom.xml named value.
func (wb *Workbook) GetCustomProperty(name string) (string, bool) {
	v, ok := wb.CustomProperties[name]
	return v, ok
}

// SetCustomProperty sets a docProps/custom.xml named value.
func (wb *Workbook) SetCustomProperty(name, value string) {
	if wb.CustomProperties == nil {
		wb.CustomProperties = map[string]string{}
	}
	wb.CustomProperties[name] = value
}
