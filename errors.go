// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import "fmt"

// Sentinel errors usable with errors.Is. Every public API that fails returns
// one of these, optionally wrapped with fmt.Errorf("...: %w", ...) to carry
// the offending value.
var (
	ErrSheetNotFound        = fmt.Errorf("sheet not found")
	ErrSheetAlreadyExists   = fmt.Errorf("sheet already exists")
	ErrInvalidSheetName     = fmt.Errorf("invalid sheet name")
	ErrInvalidCellReference = fmt.Errorf("invalid cell reference")
	ErrStyleNotFound        = fmt.Errorf("style not found")
	ErrCellValueTooLong     = fmt.Errorf("cell value too long")
	ErrColumnWidthExceeded  = fmt.Errorf("column width exceeded")
	ErrRowHeightExceeded    = fmt.Errorf("row height exceeded")
	ErrInvalidArgument      = fmt.Errorf("invalid argument")
	ErrIncorrectPassword    = fmt.Errorf("incorrect password")
	ErrXMLParse             = fmt.Errorf("xml parse error")
	ErrXMLDeserialize       = fmt.Errorf("xml deserialize error")
	ErrZip                  = fmt.Errorf("zip error")
	ErrIO                   = fmt.Errorf("io error")
	ErrInternal             = fmt.Errorf("internal error")
	ErrLastSheet            = fmt.Errorf("cannot delete the last remaining sheet")
)

// wrapf wraps a sentinel error with additional formatted context, keeping the
// sentinel matchable via errors.Is.
func wrapf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}

// Warning is a non-fatal condition accumulated during hydration (VBA stream
// read failures, codepage fallbacks, unparseable modules) rather than
// surfaced as an error.
type Warning struct {
	Part    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Part, w.Message)
}
