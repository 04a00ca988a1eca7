// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

// SharedStrings is the insertion-ordered, deduplicated shared-string table
// of §4.3. Indices are dense, 0-based, stable for the workbook's lifetime.
type SharedStrings struct {
	strings []string
	index   map[string]int
	rich    map[int][]RichTextRun
}

// NewSharedStrings returns an empty table.
func NewSharedStrings() *SharedStrings {
	return &SharedStrings{index: map[string]int{}, rich: map[int][]RichTextRun{}}
}

// Add interns a plain string, returning its existing index if already
// present or a freshly assigned len-before index otherwise.
func (t *SharedStrings) Add(s string) int {
	if idx, ok := t.index[s]; ok {
		return idx
	}
	idx := len(t.strings)
	t.strings = append(t.strings, s)
	t.index[s] = idx
	return idx
}

// AddRichText interns a rich-text run sequence. Rich strings are never
// deduplicated against plain strings of matching text.
func (t *SharedStrings) AddRichText(runs []RichTextRun) int {
	idx := len(t.strings)
	plain := ""
	for _, r := range runs {
		plain += r.Text
	}
	t.strings = append(t.strings, plain)
	t.rich[idx] = runs
	return idx
}

// Get returns the plain-text projection of the string at idx.
func (t *SharedStrings) Get(idx int) (string, bool) {
	if idx < 0 || idx >= len(t.strings) {
		return "", false
	}
	return t.strings[idx], true
}

// GetRichText returns the rich-text runs at idx, if the entry is rich.
func (t *SharedStrings) GetRichText(idx int) ([]RichTextRun, bool) {
	runs, ok := t.rich[idx]
	return runs, ok
}

// Len returns the number of entries (including duplicates preserved from
// disk on ill-formed input).
func (t *SharedStrings) Len() int { return len(t.strings) }

// loadSharedStringsFromXML rebuilds the table from a parsed xl/sharedStrings.xml,
// preserving every entry's original index (§4.3: reading from disk
// preserves duplicates and their indices).
func loadSharedStringsFromXML(x *xlsxSST) *SharedStrings {
	t := NewSharedStrings()
	for i, si := range x.SI {
		plain := si.String()
		t.strings = append(t.strings, plain)
		if _, ok := t.index[plain]; !ok {
			t.index[plain] = i
		}
		if len(si.R) > 0 {
			runs := make([]RichTextRun, 0, len(si.R))
			for _, r := range si.R {
				f := &Font{}
				if r.RPr != nil {
					f.Bold = r.RPr.B != nil
					f.Italic = r.RPr.I != nil
					if r.RPr.RFont != nil {
						f.Name = r.RPr.RFont.Val
					}
					if r.RPr.Color != nil {
						if c := colorFromXML(r.RPr.Color); c != nil {
							f.Color = c
						}
					}
				}
				runs = append(runs, RichTextRun{Font: f, Text: r.T.Val})
			}
			t.rich[i] = runs
		}
	}
	return t
}

// marshalSharedStrings renders the table to its xl/sharedStrings.xml form.
func marshalSharedStrings(t *SharedStrings) *xlsxSST {
	out := &xlsxSST{Count: len(t.strings), UniqueCount: len(t.index)}
	for i, s := range t.strings {
		if runs, ok := t.rich[i]; ok {
			si := xlsxSI{}
			for _, r := range runs {
				rx := xlsxR{T: xlsxTNode{Val: r.Text}}
				if r.Font != nil {
					rpr := &xlsxRPr{}
					if r.Font.Bold {
						rpr.B = &struct{}{}
					}
					if r.Font.Italic {
						rpr.I = &struct{}{}
					}
					if r.Font.Name != "" {
						rpr.RFont = &xlsxAttrValXML{Val: r.Font.Name}
					}
					rx.RPr = rpr
				}
				si.R = append(si.R, rx)
			}
			out.SI = append(out.SI, si)
			continue
		}
		out.SI = append(out.SI, xlsxSI{T: &xlsxTNode{Val: s, Space: preserveSpace(s)}})
	}
	return out
}

func preserveSpace(s string) string {
	if len(s) == 0 {
		return ""
	}
	if s[0] == ' ' || s[len(s)-1] == ' ' || s[0] == '\t' || s[len(s)-1] == '\t' {
		return "preserve"
	}
	return ""
}
