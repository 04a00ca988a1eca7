// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

// ColorKind discriminates the three ways a style color can be expressed.
type ColorKind int

const (
	ColorRGB ColorKind = iota
	ColorTheme
	ColorIndexed
)

// Color is one of Rgb(hex, optionally "FF"-alpha prefixed), Theme(id), or
// Indexed(id).
type Color struct {
	Kind    ColorKind
	RGB     string
	ThemeID uint32
	Index   uint32
}

func RGBColor(hex string) Color    { return Color{Kind: ColorRGB, RGB: hex} }
func ThemeColor(id uint32) Color   { return Color{Kind: ColorTheme, ThemeID: id} }
func IndexedColor(id uint32) Color { return Color{Kind: ColorIndexed, Index: id} }

// Font is a style's typeface description.
type Font struct {
	Name          string
	Size          float64
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Color         *Color
}

// FillPattern enumerates the supported patternFill types.
type FillPattern int

const (
	FillNone FillPattern = iota
	FillSolid
	FillGray125
	FillDarkGray
	FillMediumGray
	FillLightGray
)

var fillPatternNames = map[FillPattern]string{
	FillNone:       "none",
	FillSolid:      "solid",
	FillGray125:    "gray125",
	FillDarkGray:   "darkGray",
	FillMediumGray: "mediumGray",
	FillLightGray:  "lightGray",
}

var fillPatternByName = func() map[string]FillPattern {
	m := map[string]FillPattern{}
	for k, v := range fillPatternNames {
		m[v] = k
	}
	return m
}()

// GradientStop is one stop of an optional gradient fill.
type GradientStop struct {
	Position float64
	Color    Color
}

// Fill is a cell's background fill description.
type Fill struct {
	Pattern    FillPattern
	Foreground *Color
	Background *Color
	Gradient   []GradientStop
}

// LineStyle enumerates the 13 border line-style variants.
type LineStyle int

const (
	LineNone LineStyle = iota
	LineThin
	LineMedium
	LineThick
	LineDashed
	LineDotted
	LineDouble
	LineHair
	LineMediumDashed
	LineDashDot
	LineMediumDashDot
	LineDashDotDot
	LineMediumDashDotDot
	LineSlantDashDot
)

var lineStyleNames = map[LineStyle]string{
	LineNone:             "",
	LineThin:             "thin",
	LineMedium:           "medium",
	LineThick:            "thick",
	LineDashed:           "dashed",
	LineDotted:           "dotted",
	LineDouble:           "double",
	LineHair:             "hair",
	LineMediumDashed:     "mediumDashed",
	LineDashDot:          "dashDot",
	LineMediumDashDot:    "mediumDashDot",
	LineDashDotDot:       "dashDotDot",
	LineMediumDashDotDot: "mediumDashDotDot",
	LineSlantDashDot:     "slantDashDot",
}

var lineStyleByName = func() map[string]LineStyle {
	m := map[string]LineStyle{}
	for k, v := range lineStyleNames {
		m[v] = k
	}
	return m
}()

// BorderSide is one side (left/right/top/bottom/diagonal) of a Border.
type BorderSide struct {
	Style LineStyle
	Color *Color
}

// Border groups the optional sides of a cell border.
type Border struct {
	Left, Right, Top, Bottom, Diagonal *BorderSide
	DiagonalUp, DiagonalDown           bool
}

// HAlign / VAlign enumerate cell alignment.
type HAlign int

const (
	HAlignGeneral HAlign = iota
	HAlignLeft
	HAlignCenter
	HAlignRight
	HAlignFill
	HAlignJustify
	HAlignCenterContinuous
	HAlignDistributed
)

var hAlignNames = map[HAlign]string{
	HAlignGeneral: "general", HAlignLeft: "left", HAlignCenter: "center",
	HAlignRight: "right", HAlignFill: "fill", HAlignJustify: "justify",
	HAlignCenterContinuous: "centerContinuous", HAlignDistributed: "distributed",
}
var hAlignByName = func() map[string]HAlign {
	m := map[string]HAlign{}
	for k, v := range hAlignNames {
		m[v] = k
	}
	return m
}()

type VAlign int

const (
	VAlignTop VAlign = iota
	VAlignCenter
	VAlignBottom
	VAlignJustify
	VAlignDistributed
)

var vAlignNames = map[VAlign]string{
	VAlignTop: "top", VAlignCenter: "center", VAlignBottom: "bottom",
	VAlignJustify: "justify", VAlignDistributed: "distributed",
}
var vAlignByName = func() map[string]VAlign {
	m := map[string]VAlign{}
	for k, v := range vAlignNames {
		m[v] = k
	}
	return m
}()

// Alignment is a cell's alignment sub-record.
type Alignment struct {
	Horizontal  HAlign
	Vertical    VAlign
	WrapText    bool
	Rotation    int
	Indent      int
	ShrinkToFit bool
}

// NumberFormat is either a built-in id (0-49) or a custom pattern string.
type NumberFormat struct {
	BuiltinID *int
	Custom    *string
}

// Protection is a cell's lock/hide sub-record. Locked defaults true.
type Protection struct {
	Locked bool
	Hidden bool
}

// Style is the user-facing, fully-spelled-out style builder record (§9: no
// optional-field config structs — every field has an explicit default).
type Style struct {
	Font         Font
	Fill         Fill
	Border       Border
	Alignment    Alignment
	NumberFormat NumberFormat
	Protection   Protection
}

// DefaultStyle returns the Style record of the stylesheet's default xf (id 0).
func DefaultStyle() Style {
	return Style{
		Font:       Font{Name: "Calibri", Size: 11},
		Protection: Protection{Locked: true},
	}
}

// xf is the interned, fully-resolved cell-format record: indices into the
// parallel font/fill/border/numFmt lists plus the inline alignment and
// protection sub-records.
type xf struct {
	FontID     int
	FillID     int
	BorderID   int
	NumFmtID   int
	NumFmtCustom string
	Alignment  Alignment
	Protection Protection
}

// Stylesheet is the parallel-list style index of §4.4. add_style interns by
// structural equality across all sub-records.
type Stylesheet struct {
	fonts   []Font
	fills   []Fill
	borders []Border
	xfs     []xf
	numFmts map[int]string // custom number format id -> pattern, ids start at 164
	nextNumFmtID int
}

// NewStylesheet returns a Stylesheet pre-populated with the default xf (id 0).
func NewStylesheet() *Stylesheet {
	s := &Stylesheet{
		fonts:        []Font{{Name: "Calibri", Size: 11}},
		fills:        []Fill{{Pattern: FillNone}, {Pattern: FillGray125}},
		borders:      []Border{{}},
		numFmts:      map[int]string{},
		nextNumFmtID: 164,
	}
	s.xfs = []xf{{Protection: Protection{Locked: true}}}
	return s
}

func fontEqual(a, b Font) bool {
	if a.Name != b.Name || a.Size != b.Size || a.Bold != b.Bold ||
		a.Italic != b.Italic || a.Underline != b.Underline ||
		a.Strikethrough != b.Strikethrough {
		return false
	}
	if a.Color == nil || b.Color == nil {
		return a.Color == b.Color
	}
	return *a.Color == *b.Color
}

func internFont(list []Font, f Font) (int, []Font) {
	for i, e := range list {
		if fontEqual(e, f) {
			return i, list
		}
	}
	return len(list), append(list, f)
}

func fillEqual(a, b Fill) bool {
	if a.Pattern != b.Pattern || len(a.Gradient) != len(b.Gradient) {
		return false
	}
	colorEqual := func(x, y *Color) bool {
		if x == nil || y == nil {
			return x == y
		}
		return *x == *y
	}
	if !colorEqual(a.Foreground, b.Foreground) || !colorEqual(a.Background, b.Background) {
		return false
	}
	for i := range a.Gradient {
		if a.Gradient[i] != b.Gradient[i] {
			return false
		}
	}
	return true
}

func internFill(list []Fill, f Fill) (int, []Fill) {
	for i, e := range list {
		if fillEqual(e, f) {
			return i, list
		}
	}
	return len(list), append(list, f)
}

func borderSideEqual(a, b *BorderSide) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Style != b.Style {
		return false
	}
	if a.Color == nil || b.Color == nil {
		return a.Color == b.Color
	}
	return *a.Color == *b.Color
}

func borderEqual(a, b Border) bool {
	return borderSideEqual(a.Left, b.Left) && borderSideEqual(a.Right, b.Right) &&
		borderSideEqual(a.Top, b.Top) && borderSideEqual(a.Bottom, b.Bottom) &&
		borderSideEqual(a.Diagonal, b.Diagonal) &&
		a.DiagonalUp == b.DiagonalUp && a.DiagonalDown == b.DiagonalDown
}

func internBorder(list []Border, b Border) (int, []Border) {
	for i, e := range list {
		if borderEqual(e, b) {
			return i, list
		}
	}
	return len(list), append(list, b)
}

// AddStyle interns s across fonts/fills/borders/number-formats/alignment/
// protection by structural equality and returns a stable xf id, starting at
// 0 for the default style.
func (s *Stylesheet) AddStyle(style Style) int {
	fontID, fonts := internFont(s.fonts, style.Font)
	s.fonts = fonts
	fillID, fills := internFill(s.fills, style.Fill)
	s.fills = fills
	borderID, borders := internBorder(s.borders, style.Border)
	s.borders = borders

	numFmtID := 0
	numFmtCustom := ""
	if style.NumberFormat.Custom != nil {
		numFmtCustom = *style.NumberFormat.Custom
		found := false
		for id, pat := range s.numFmts {
			if pat == numFmtCustom {
				numFmtID = id
				found = true
				break
			}
		}
		if !found {
			numFmtID = s.nextNumFmtID
			s.nextNumFmtID++
			s.numFmts[numFmtID] = numFmtCustom
		}
	} else if style.NumberFormat.BuiltinID != nil {
		numFmtID = *style.NumberFormat.BuiltinID
	}

	candidate := xf{
		FontID: fontID, FillID: fillID, BorderID: borderID,
		NumFmtID: numFmtID, NumFmtCustom: numFmtCustom,
		Alignment: style.Alignment, Protection: style.Protection,
	}
	for i, e := range s.xfs {
		if e == candidate {
			return i
		}
	}
	s.xfs = append(s.xfs, candidate)
	return len(s.xfs) - 1
}

// Style resolves an xf id back into a full Style record.
func (s *Stylesheet) Style(id int) (Style, error) {
	if id < 0 || id >= len(s.xfs) {
		return Style{}, wrapf(ErrStyleNotFound, "xf id %d", id)
	}
	x := s.xfs[id]
	nf := NumberFormat{}
	if x.NumFmtCustom != "" {
		c := x.NumFmtCustom
		nf.Custom = &c
	} else {
		b := x.NumFmtID
		nf.BuiltinID = &b
	}
	return Style{
		Font:         s.fonts[x.FontID],
		Fill:         s.fills[x.FillID],
		Border:       s.borders[x.BorderID],
		Alignment:    x.Alignment,
		NumberFormat: nf,
		Protection:   x.Protection,
	}, nil
}

// NumFmtPattern returns the effective format-code string for a style id,
// resolving built-in ids through BuiltinNumFmts.
func (s *Stylesheet) NumFmtPattern(id int) string {
	if id < 0 || id >= len(s.xfs) {
		return "General"
	}
	x := s.xfs[id]
	if x.NumFmtCustom != "" {
		return x.NumFmtCustom
	}
	if pat, ok := BuiltinNumFmts[x.NumFmtID]; ok {
		return pat
	}
	return "General"
}
