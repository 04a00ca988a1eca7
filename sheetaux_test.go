package sheetkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabColor(t *testing.T) {
	wb := NewWorkbook()
	s, _ := wb.Sheet("Sheet1")

	_, ok := s.GetTabColor()
	assert.False(t, ok)

	s.SetTabColor(RGBColor("FF0000"))
	c, ok := s.GetTabColor()
	require.True(t, ok)
	assert.Equal(t, "FF0000", c.RGB)
}

func TestSheetProtection(t *testing.T) {
	wb := NewWorkbook()
	s, _ := wb.Sheet("Sheet1")

	assert.False(t, s.IsSheetProtected())
	s.ProtectSheet(SheetProtection{PasswordHash: "ABCD"})
	assert.True(t, s.IsSheetProtected())
	assert.Equal(t, "ABCD", s.Protection.PasswordHash)

	s.UnprotectSheet()
	assert.False(t, s.IsSheetProtected())
}

func TestPanes(t *testing.T) {
	wb := NewWorkbook()
	s, _ := wb.Sheet("Sheet1")

	_, ok := s.GetPanes()
	assert.False(t, ok)

	s.SetPanes(Pane{XSplit: 1, TopLeftCell: "B1", State: "frozen"})
	p, ok := s.GetPanes()
	require.True(t, ok)
	assert.Equal(t, "frozen", p.State)

	s.UnsetPanes()
	_, ok = s.GetPanes()
	assert.False(t, ok)
}

func TestDefaultSizing(t *testing.T) {
	wb := NewWorkbook()
	s, _ := wb.Sheet("Sheet1")

	s.SetDefaultRowHeight(18)
	s.SetDefaultColWidth(12)
	assert.Equal(t, float64(18), s.DefaultRowHeight)
	assert.Equal(t, float64(12), s.DefaultColWidth)
}

func TestRowColVisibilityAndOutline(t *testing.T) {
	wb := NewWorkbook()
	s, _ := wb.Sheet("Sheet1")

	assert.True(t, s.GetRowVisible(5))
	s.SetRowVisible(5, false)
	assert.False(t, s.GetRowVisible(5))

	assert.Equal(t, uint8(0), s.GetRowOutlineLevel(5))
	s.SetRowOutlineLevel(5, 3)
	assert.Equal(t, uint8(3), s.GetRowOutlineLevel(5))

	assert.True(t, s.GetColVisible(2))
	s.SetColVisible(2, 4, false)
	assert.False(t, s.GetColVisible(2))
	assert.False(t, s.GetColVisible(4))

	assert.Equal(t, uint8(0), s.GetColOutlineLevel(2))
	s.SetColOutlineLevel(2, 4, 2)
	assert.Equal(t, uint8(2), s.GetColOutlineLevel(3))
}
