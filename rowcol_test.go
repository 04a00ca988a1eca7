package sheetkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertRows(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	require.NoError(t, s.SetCellValue("A1", NumberValue(1)))
	require.NoError(t, s.SetCellValue("A2", NumberValue(2)))
	require.NoError(t, s.SetCellValue("A3", NumberValue(3)))

	require.NoError(t, s.InsertRows(2, 1))

	v1, err := s.GetCellValue("A1")
	require.NoError(t, err)
	assert.Equal(t, float64(1), v1.Num)

	v2, err := s.GetCellValue("A2")
	require.NoError(t, err)
	assert.Equal(t, CellTypeEmpty, v2.Type)

	v3, err := s.GetCellValue("A3")
	require.NoError(t, err)
	assert.Equal(t, float64(2), v3.Num)

	v4, err := s.GetCellValue("A4")
	require.NoError(t, err)
	assert.Equal(t, float64(3), v4.Num)

	assert.EqualError(t, s.InsertRows(0, 1), "insert_rows: start and count must be positive: invalid cell reference")
}

func TestRemoveRow(t *testing.T) {
	wb := NewWorkbook()
	s, _ := wb.Sheet("Sheet1")

	require.NoError(t, s.SetCellValue("A1", NumberValue(1)))
	require.NoError(t, s.SetCellValue("A2", NumberValue(2)))
	require.NoError(t, s.SetCellValue("A3", NumberValue(3)))

	require.NoError(t, s.RemoveRow(2))

	v2, _ := s.GetCellValue("A2")
	assert.Equal(t, float64(3), v2.Num)

	v3, _ := s.GetCellValue("A3")
	assert.Equal(t, CellTypeEmpty, v3.Type)

	assert.EqualError(t, s.RemoveRow(0), "remove_row: row must be positive: invalid cell reference")
}

func TestDuplicateRow(t *testing.T) {
	wb := NewWorkbook()
	s, _ := wb.Sheet("Sheet1")

	require.NoError(t, s.SetCellValue("A1", StringValue("hello")))
	s.SetRowHeight(1, 30)

	require.NoError(t, s.DuplicateRow(1))

	v, err := s.GetCellValue("A2")
	require.NoError(t, err)
	assert.Equal(t, "hello", v.PlainText())

	r := s.row(2, false)
	require.NotNil(t, r)
	assert.Equal(t, float64(30), r.Height)
	assert.True(t, r.Custom)
}

func TestInsertAndRemoveCol(t *testing.T) {
	wb := NewWorkbook()
	s, _ := wb.Sheet("Sheet1")

	require.NoError(t, s.SetCellValue("A1", NumberValue(1)))
	require.NoError(t, s.SetCellValue("B1", NumberValue(2)))
	s.SetColWidth(2, 2, 20)

	require.NoError(t, s.InsertCols("B", 1))

	vb, _ := s.GetCellValue("B1")
	assert.Equal(t, CellTypeEmpty, vb.Type)
	vc, _ := s.GetCellValue("C1")
	assert.Equal(t, float64(2), vc.Num)
	assert.Equal(t, float64(20), s.colWidths[3])

	require.NoError(t, s.RemoveCol("A"))
	va, _ := s.GetCellValue("A1")
	assert.Equal(t, CellTypeEmpty, va.Type)
	vb2, _ := s.GetCellValue("B1")
	assert.Equal(t, float64(2), vb2.Num)

	assert.Error(t, s.InsertCols("*", 1))
	assert.Error(t, s.RemoveCol("*"))
}
