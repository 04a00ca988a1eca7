// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

// FormControlType enumerates the legacy (VML-backed) form controls this
// engine models, recovered from the Rust source's control.rs (see
// SPEC_FULL.md's supplemented-features list).
type FormControlType int

const (
	FormControlCheckbox FormControlType = iota
	FormControlRadio
	FormControlDropdown
	FormControlSpinner
)

// FormControl is one legacy form control anchored to a cell range, with an
// optional linked-cell reference the control writes its state into.
type FormControl struct {
	Type       FormControlType
	Cell       string
	LinkedCell string
	Caption    string
	Checked    bool
	CurrentVal int
	MinVal     int
	MaxVal     int
}

// AddFormControl attaches a form control to the sheet.
func (s *Sheet) AddFormControl(fc FormControl) {
	s.ensureFormControlsHydrated()
	s.FormControls = append(s.FormControls, fc)
}

// GetFormControls returns every form control on the sheet.
func (s *Sheet) GetFormControls() []FormControl {
	s.ensureFormControlsHydrated()
	return s.FormControls
}

// DeleteFormControl removes the form control anchored at cell, if any.
func (s *Sheet) DeleteFormControl(cell string) {
	s.ensureFormControlsHydrated()
	for i, fc := range s.FormControls {
		if fc.Cell == cell {
			s.FormControls = append(s.FormControls[:i], s.FormControls[i+1:]...)
			return
		}
	}
}
