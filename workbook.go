// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

// DocProperties mirrors the docProps/core.xml and docProps/app.xml summary
// fields exposed to hosts.
type DocProperties struct {
	Title          string
	Subject        string
	Creator        string
	Keywords       string
	Description    string
	LastModifiedBy string
	Category       string
	Company        string
}

// Workbook is the in-memory model of one .xlsx package: its ordered sheets,
// shared-string table, stylesheet, and the deferred-parts index holding
// everything else untouched until first hydration (§3, §4.2).
type Workbook struct {
	sheetOrder    []string
	sheets        map[string]*Sheet
	activeSheet   string
	SharedStrings *SharedStrings
	Styles        *Stylesheet
	DefinedNames  map[string]string
	Properties    DocProperties
	CustomProperties map[string]string
	parts         *PartIndex
	vba           []byte
	encryptionInfo *agileEncryptionInfo

	// origContentTypes is the catalog parsed on open, consulted at save so
	// parts passing through raw keep their content-type declarations.
	origContentTypes *xlsxTypes
}

// NewWorkbook returns an empty workbook with one default sheet, "Sheet1",
// the conventional starting point for a blank workbook.
func NewWorkbook() *Workbook {
	wb := &Workbook{
		sheets:        map[string]*Sheet{},
		SharedStrings: NewSharedStrings(),
		Styles:        NewStylesheet(),
		DefinedNames:  map[string]string{},
		CustomProperties: map[string]string{},
		parts:         newPartIndex(),
	}
	_ = wb.AddSheet("Sheet1")
	wb.activeSheet = "Sheet1"
	return wb
}

// SheetNames returns sheet names in workbook tab order.
func (wb *Workbook) SheetNames() []string {
	out := make([]string, len(wb.sheetOrder))
	copy(out, wb.sheetOrder)
	return out
}

// Sheet returns the named sheet, or ErrSheetNotFound.
func (wb *Workbook) Sheet(name string) (*Sheet, error) {
	s, ok := wb.sheets[trimSheetName(name)]
	if !ok {
		return nil, wrapf(ErrSheetNotFound, "sheet %q", name)
	}
	return s, nil
}

// AddSheet appends a new empty sheet named name.
func (wb *Workbook) AddSheet(name string) error {
	if name == "" || len(name) > 31 {
		return wrapf(ErrInvalidSheetName, "%q", name)
	}
	if _, exists := wb.sheets[name]; exists {
		return wrapf(ErrSheetAlreadyExists, "%q", name)
	}
	wb.sheets[name] = newSheet(name, wb)
	wb.sheetOrder = append(wb.sheetOrder, name)
	if wb.activeSheet == "" {
		wb.activeSheet = name
	}
	return nil
}

// DeleteSheet removes a sheet by name. The last remaining sheet cannot be
// deleted (§4.6 edge case: a workbook must always have at least one sheet).
func (wb *Workbook) DeleteSheet(name string) error {
	if _, ok := wb.sheets[name]; !ok {
		return wrapf(ErrSheetNotFound, "%q", name)
	}
	if len(wb.sheetOrder) <= 1 {
		return wrapf(ErrLastSheet, "cannot delete the only remaining sheet %q", name)
	}
	delete(wb.sheets, name)
	for i, n := range wb.sheetOrder {
		if n == name {
			wb.sheetOrder = append(wb.sheetOrder[:i], wb.sheetOrder[i+1:]...)
			break
		}
	}
	if wb.activeSheet == name {
		wb.activeSheet = wb.sheetOrder[0]
	}
	return nil
}

// RenameSheet renames a sheet in place, preserving its tab position.
func (wb *Workbook) RenameSheet(oldName, newName string) error {
	s, ok := wb.sheets[oldName]
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", oldName)
	}
	if _, exists := wb.sheets[newName]; exists {
		return wrapf(ErrSheetAlreadyExists, "%q", newName)
	}
	if newName == "" || len(newName) > 31 {
		return wrapf(ErrInvalidSheetName, "%q", newName)
	}
	delete(wb.sheets, oldName)
	s.Name = newName
	wb.sheets[newName] = s
	for i, n := range wb.sheetOrder {
		if n == oldName {
			wb.sheetOrder[i] = newName
			break
		}
	}
	if wb.activeSheet == oldName {
		wb.activeSheet = newName
	}
	return nil
}

// CopySheet duplicates srcName's full grid, merges, and auxiliary
// structures under dstName, deep-copying so that edits to either sheet
// never alias the other.
func (wb *Workbook) CopySheet(srcName, dstName string) error {
	src, ok := wb.sheets[srcName]
	if !ok {
		return wrapf(ErrSheetNotFound, "%q", srcName)
	}
	if _, exists := wb.sheets[dstName]; exists {
		return wrapf(ErrSheetAlreadyExists, "%q", dstName)
	}
	cloned := src.clone(wb, dstName)
	wb.sheets[dstName] = cloned
	wb.sheetOrder = append(wb.sheetOrder, dstName)
	return nil
}

// ActiveSheet returns the name of the currently active sheet.
func (wb *Workbook) ActiveSheet() string { return wb.activeSheet }

// SetActiveSheet marks name as the active sheet.
func (wb *Workbook) SetActiveSheet(name string) error {
	if _, ok := wb.sheets[name]; !ok {
		return wrapf(ErrSheetNotFound, "%q", name)
	}
	wb.activeSheet = name
	return nil
}

// SetDefinedName registers a workbook-scoped defined name.
func (wb *Workbook) SetDefinedName(name, ref string) {
	wb.DefinedNames[name] = ref
}

// VBAProject returns the raw vbaProject.bin payload, if one was read at open
// or attached with SetVBAProject.
func (wb *Workbook) VBAProject() ([]byte, bool) {
	if wb.vba == nil {
		return nil, false
	}
	return wb.vba, true
}

// SetVBAProject attaches a raw vbaProject.bin payload, marking the workbook
// macro-enabled on save.
func (wb *Workbook) SetVBAProject(data []byte) {
	wb.vba = data
}

// VBAModules parses the attached vbaProject.bin (if any) into its
// constituent modules (§4.12, §6's get_vba_modules).
func (wb *Workbook) VBAModules() (*VBAProject, error) {
	if wb.vba == nil {
		return nil, nil
	}
	return ExtractVBAProject(wb.vba)
}
