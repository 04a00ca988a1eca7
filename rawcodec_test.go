package sheetkit

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawRowsEqual(t *testing.T, want, got []RawRow) {
	t.Helper()
	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.Equal(t, want[i].Row, got[i].Row)
		require.Equal(t, len(want[i].Cells), len(got[i].Cells), "row %d cell count", want[i].Row)
		for j := range want[i].Cells {
			assert.Equal(t, want[i].Cells[j].Col, got[i].Cells[j].Col)
			assert.Equal(t, want[i].Cells[j].Value.Type, got[i].Cells[j].Value.Type)
			assert.Equal(t, want[i].Cells[j].Value.PlainText(), got[i].Cells[j].Value.PlainText())
		}
	}
}

func TestRawCodecSparseRoundTrip(t *testing.T) {
	var rows []RawRow
	for r := 1; r <= 10; r++ {
		rows = append(rows, RawRow{Row: r, Cells: []RawCell{{Col: 100, Value: NumberValue(float64(r))}}})
	}

	buf := cellsToRawBuffer(rows)

	flags := binary.LittleEndian.Uint32(buf[12:16])
	assert.Equal(t, uint32(1), flags&1, "low density data should select the sparse layout")

	decoded, err := rawBufferToRows(buf)
	require.NoError(t, err)
	rawRowsEqual(t, rows, decoded)
}

func TestRawCodecDenseRoundTrip(t *testing.T) {
	var rows []RawRow
	for r := 1; r <= 4; r++ {
		var cells []RawCell
		for c := 1; c <= 4; c++ {
			cells = append(cells, RawCell{Col: c, Value: NumberValue(float64(r*10 + c))})
		}
		rows = append(rows, RawRow{Row: r, Cells: cells})
	}

	buf := cellsToRawBuffer(rows)
	flags := binary.LittleEndian.Uint32(buf[12:16])
	assert.Equal(t, uint32(0), flags&1, "fully populated data should select the dense layout")

	decoded, err := rawBufferToRows(buf)
	require.NoError(t, err)
	rawRowsEqual(t, rows, decoded)
}

func TestRawCodecMixedTypesRoundTrip(t *testing.T) {
	rows := []RawRow{
		{Row: 1, Cells: []RawCell{
			{Col: 1, Value: StringValue("hello")},
			{Col: 2, Value: BoolValue(true)},
			{Col: 3, Value: ErrorValue("#DIV/0!")},
			{Col: 4, Value: FormulaValue("SUM(A1:A3)")},
			{Col: 5, Value: DateValue(45306)},
		}},
		{Row: 2, Cells: []RawCell{
			{Col: 1, Value: StringValue("hello")}, // repeated string dedups in the table
		}},
	}

	buf := cellsToRawBuffer(rows)
	decoded, err := rawBufferToRows(buf)
	require.NoError(t, err)
	rawRowsEqual(t, rows, decoded)
}

func TestRawCodecEmptyBuffer(t *testing.T) {
	buf := cellsToRawBuffer(nil)
	assert.Len(t, buf, 16)
	magic := binary.LittleEndian.Uint32(buf[0:4])
	assert.Equal(t, rawCodecMagic, magic)

	decoded, err := rawBufferToRows(buf)
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestSheetToRawBufferDecodesOccupiedRows(t *testing.T) {
	wb := NewWorkbook()
	s, _ := wb.Sheet("Sheet1")
	require.NoError(t, s.SetCellValue("A1", NumberValue(1)))
	require.NoError(t, s.SetCellValue("B1", StringValue("hi")))
	require.NoError(t, s.SetCellValue("A2", BoolValue(false)))

	buf := sheetToRawBuffer(s)
	decoded, err := rawBufferToRows(buf)
	require.NoError(t, err)

	require.Len(t, decoded, 2)
	assert.Equal(t, 1, decoded[0].Row)
	assert.Equal(t, 2, decoded[1].Row)
}

func TestRawCodecBadMagicErrors(t *testing.T) {
	buf := make([]byte, 16)
	_, err := rawBufferToRows(buf)
	assert.Error(t, err)
}
