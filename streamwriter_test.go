package sheetkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamWriterRejectsNonAscendingRows(t *testing.T) {
	w := NewStreamWriter("Stream")
	require.NoError(t, w.WriteRow(2, map[int]CellValue{1: NumberValue(1)}))
	err := w.WriteRow(2, map[int]CellValue{1: NumberValue(2)})
	assert.Error(t, err)
	err = w.WriteRow(1, map[int]CellValue{1: NumberValue(2)})
	assert.Error(t, err)
}

// TestApplyStreamWriterRemapsSharedStrings builds a sheet through the
// streaming path with strings that already exist in the workbook's table
// (at a different index) plus a new one, and checks the new sheet's cells
// read back correctly despite the remap.
func TestApplyStreamWriterRemapsSharedStrings(t *testing.T) {
	wb := NewWorkbook()
	s1, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	// Seed the workbook's shared-string table so "shared" lands at a
	// different index locally than in wb.
	require.NoError(t, s1.SetCellValue("A1", StringValue("filler")))
	require.NoError(t, s1.SetCellValue("A2", StringValue("shared")))

	w := NewStreamWriter("Streamed")
	require.NoError(t, w.WriteRow(1, map[int]CellValue{
		1: StringValue("shared"),
		2: NumberValue(10),
	}))
	require.NoError(t, w.WriteRow(3, map[int]CellValue{
		1: StringValue("only-in-stream"),
	}))

	require.NoError(t, ApplyStreamWriter(wb, w))

	out, err := wb.Sheet("Streamed")
	require.NoError(t, err)

	a1, err := out.GetCellValue("A1")
	require.NoError(t, err)
	assert.Equal(t, "shared", a1.PlainText())

	b1, err := out.GetCellValue("B1")
	require.NoError(t, err)
	assert.Equal(t, float64(10), b1.Num)

	a3, err := out.GetCellValue("A3")
	require.NoError(t, err)
	assert.Equal(t, "only-in-stream", a3.PlainText())

	a2, err := out.GetCellValue("A2")
	require.NoError(t, err)
	assert.Empty(t, a2.PlainText())
}

func TestApplyStreamWriterRejectsDuplicateSheetName(t *testing.T) {
	wb := NewWorkbook()
	w := NewStreamWriter("Sheet1")
	require.NoError(t, w.WriteRow(1, map[int]CellValue{1: NumberValue(1)}))
	err := ApplyStreamWriter(wb, w)
	assert.ErrorIs(t, err, ErrSheetAlreadyExists)
}
