package sheetkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetRowsSparse checks §4.6's sparse, row-major contract: only
// occupied rows appear, in ascending row order, each with only its
// occupied cells in ascending column order and resolved logical values.
func TestGetRowsSparse(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	require.NoError(t, s.SetCellValue("B2", StringValue("x")))
	require.NoError(t, s.SetCellValue("A5", NumberValue(3.5)))
	require.NoError(t, s.SetCellValue("C5", NumberValue(7)))

	rows := s.GetRows()
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Row)
	require.Len(t, rows[0].Cells, 1)
	assert.Equal(t, 2, rows[0].Cells[0].Index)
	assert.Equal(t, "x", rows[0].Cells[0].Value.PlainText())

	assert.Equal(t, 5, rows[1].Row)
	require.Len(t, rows[1].Cells, 2)
	assert.Equal(t, 1, rows[1].Cells[0].Index)
	assert.Equal(t, float64(3.5), rows[1].Cells[0].Value.Num)
	assert.Equal(t, 3, rows[1].Cells[1].Index)
	assert.Equal(t, float64(7), rows[1].Cells[1].Value.Num)
}

// TestGetColsIsColumnMajorDual checks that GetCols groups the same cells
// by column instead of row, each column's cells ordered by row.
func TestGetColsIsColumnMajorDual(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	require.NoError(t, s.SetCellValue("A1", NumberValue(1)))
	require.NoError(t, s.SetCellValue("A2", NumberValue(2)))
	require.NoError(t, s.SetCellValue("B1", NumberValue(10)))

	cols := s.GetCols()
	require.Len(t, cols, 2)

	assert.Equal(t, 1, cols[0].Row) // column A
	require.Len(t, cols[0].Cells, 2)
	assert.Equal(t, 1, cols[0].Cells[0].Index) // row 1
	assert.Equal(t, float64(1), cols[0].Cells[0].Value.Num)
	assert.Equal(t, 2, cols[0].Cells[1].Index) // row 2
	assert.Equal(t, float64(2), cols[0].Cells[1].Value.Num)

	assert.Equal(t, 2, cols[1].Row) // column B
	require.Len(t, cols[1].Cells, 1)
	assert.Equal(t, 1, cols[1].Cells[0].Index)
	assert.Equal(t, float64(10), cols[1].Cells[0].Value.Num)
}

// TestSetCellValueEmptyRemovesCell checks that setting Empty removes the
// cell from its row entirely, per §4.6.
func TestSetCellValueEmptyRemovesCell(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	require.NoError(t, s.SetCellValue("A1", StringValue("gone")))
	require.NoError(t, s.SetCellValue("A1", Empty()))

	v, err := s.GetCellValue("A1")
	require.NoError(t, err)
	assert.Equal(t, CellTypeEmpty, v.Type)
	assert.Empty(t, s.GetRows())
}

// TestSetCellValueTooLongFails checks the 32,767-character ceiling.
func TestSetCellValueTooLongFails(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	huge := make([]byte, maxCellTextLength+1)
	for i := range huge {
		huge[i] = 'x'
	}
	err = s.SetCellValue("A1", StringValue(string(huge)))
	assert.ErrorIs(t, err, ErrCellValueTooLong)
}
