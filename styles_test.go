package sheetkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddStyleInternsByStructuralEquality(t *testing.T) {
	sh := NewStylesheet()

	style := Style{
		Font:       Font{Name: "Arial", Size: 12, Bold: true},
		Fill:       Fill{Pattern: FillSolid, Foreground: &Color{Kind: ColorRGB, RGB: "FFFF0000"}},
		Protection: Protection{Locked: true},
	}

	id1 := sh.AddStyle(style)
	id2 := sh.AddStyle(style)
	assert.Equal(t, id1, id2, "identical styles intern to the same xf id")

	other := style
	other.Font.Bold = false
	id3 := sh.AddStyle(other)
	assert.NotEqual(t, id1, id3)
}

func TestAddStyleInternsFontColorStructurally(t *testing.T) {
	sh := NewStylesheet()

	// Two independently constructed colors: equal values, distinct pointers.
	a := Style{Font: Font{Name: "Arial", Size: 12, Color: &Color{Kind: ColorRGB, RGB: "FF336699"}}}
	b := Style{Font: Font{Name: "Arial", Size: 12, Color: &Color{Kind: ColorRGB, RGB: "FF336699"}}}

	assert.Equal(t, sh.AddStyle(a), sh.AddStyle(b))

	c := Style{Font: Font{Name: "Arial", Size: 12, Color: &Color{Kind: ColorRGB, RGB: "FF000000"}}}
	assert.NotEqual(t, sh.AddStyle(a), sh.AddStyle(c))
}

func TestAddStyleDefaultIsID0(t *testing.T) {
	sh := NewStylesheet()
	id := sh.AddStyle(DefaultStyle())
	assert.Equal(t, 0, id)
}

func TestStyleResolvesBackToRecord(t *testing.T) {
	sh := NewStylesheet()
	custom := "0.0%"
	style := Style{
		Font:         Font{Name: "Calibri", Size: 11},
		NumberFormat: NumberFormat{Custom: &custom},
		Protection:   Protection{Locked: true},
	}
	id := sh.AddStyle(style)

	resolved, err := sh.Style(id)
	require.NoError(t, err)
	require.NotNil(t, resolved.NumberFormat.Custom)
	assert.Equal(t, custom, *resolved.NumberFormat.Custom)
	assert.Equal(t, custom, sh.NumFmtPattern(id))
}

func TestStyleNotFound(t *testing.T) {
	sh := NewStylesheet()
	_, err := sh.Style(999)
	assert.ErrorIs(t, err, ErrStyleNotFound)
}

func TestNumFmtPatternBuiltinFallback(t *testing.T) {
	sh := NewStylesheet()
	builtinID := 14
	id := sh.AddStyle(Style{NumberFormat: NumberFormat{BuiltinID: &builtinID}})
	assert.Equal(t, "m/d/yyyy", sh.NumFmtPattern(id))
}

func TestBordersInternByStructuralEquality(t *testing.T) {
	sh := NewStylesheet()
	b := Border{Left: &BorderSide{Style: LineThin, Color: &Color{Kind: ColorRGB, RGB: "FF000000"}}}

	id1 := sh.AddStyle(Style{Border: b})
	id2 := sh.AddStyle(Style{Border: b})
	assert.Equal(t, id1, id2)

	diff := b
	diff.Left = &BorderSide{Style: LineThick, Color: b.Left.Color}
	id3 := sh.AddStyle(Style{Border: diff})
	assert.NotEqual(t, id1, id3)
}
