package sheetkit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWriteReadBackReopen exercises the write/read-back/reopen cycle: a
// sheet carrying a string, a number, and a bool survives a Save/Open round
// trip with each value's type and content intact.
func TestWriteReadBackReopen(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	require.NoError(t, s.SetCellValue("A1", StringValue("Hello")))
	require.NoError(t, s.SetCellValue("B1", NumberValue(42)))
	require.NoError(t, s.SetCellValue("C1", BoolValue(true)))

	var buf bytes.Buffer
	require.NoError(t, Save(wb, &buf))

	wb2, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	s2, err := wb2.Sheet("Sheet1")
	require.NoError(t, err)

	a1, err := s2.GetCellValue("A1")
	require.NoError(t, err)
	assert.Equal(t, CellTypeSharedString, a1.Type)
	assert.Equal(t, "Hello", a1.PlainText())

	b1, err := s2.GetCellValue("B1")
	require.NoError(t, err)
	assert.Equal(t, CellTypeNumber, b1.Type)
	assert.Equal(t, float64(42), b1.Num)

	c1, err := s2.GetCellValue("C1")
	require.NoError(t, err)
	assert.Equal(t, CellTypeBool, c1.Type)
	assert.True(t, c1.Bool)
}

// TestInsertRowsShiftsFormulaAndStructures covers a single row insertion
// touching four distinct reference-bearing structures at once: a formula,
// a data validation, an auto-filter, and a merged range.
func TestInsertRowsShiftsFormulaAndStructures(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	require.NoError(t, s.SetCellValue("C1", FormulaValue("SUM(A2:B2)")))
	s.AddDataValidation(DataValidation{
		Type:     ValidationWhole,
		Range:    "A2:A5",
		Operator: "between",
		Formula1: "1",
		Formula2: "9",
	})
	s.SetAutoFilter("A2:B10")
	s.AddMergeCell("A2", "B3")

	require.NoError(t, s.InsertRows(2, 1))

	c1, err := s.GetCellValue("C1")
	require.NoError(t, err)
	require.NotNil(t, c1.Formula)
	assert.Equal(t, "SUM(A3:B3)", c1.Formula.Expr)

	require.Len(t, s.Validations, 1)
	assert.Equal(t, "A3:A6", s.Validations[0].Range)

	require.NotNil(t, s.Filter)
	assert.Equal(t, "A3:B11", s.Filter.Range)

	require.Len(t, s.Merges, 1)
	assert.Equal(t, "A3", s.Merges[0].From)
	assert.Equal(t, "B4", s.Merges[0].To)
}

func TestDeleteSheetRefusesLastSheet(t *testing.T) {
	wb := NewWorkbook()
	err := wb.DeleteSheet("Sheet1")
	assert.ErrorIs(t, err, ErrLastSheet)
}

func TestAddSheetThenDeleteOriginal(t *testing.T) {
	wb := NewWorkbook()
	require.NoError(t, wb.AddSheet("Data"))
	require.NoError(t, wb.DeleteSheet("Sheet1"))

	names := wb.SheetNames()
	assert.Equal(t, []string{"Data"}, names)
}

func TestCopySheetIsIndependent(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	require.NoError(t, s.SetCellValue("A1", NumberValue(1)))

	require.NoError(t, wb.CopySheet("Sheet1", "Copy"))
	cp, err := wb.Sheet("Copy")
	require.NoError(t, err)

	require.NoError(t, cp.SetCellValue("A1", NumberValue(2)))

	orig, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	v, err := orig.GetCellValue("A1")
	require.NoError(t, err)
	assert.Equal(t, float64(1), v.Num)
}

func TestCopySheetCarriesGridAndAuxiliaries(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	require.NoError(t, s.SetCellValue("A1", StringValue("keep")))
	require.NoError(t, s.SetCellValue("B2", FormulaValue("SUM(A1:A3)")))
	require.NoError(t, s.SetColWidth(1, 1, 17))
	require.NoError(t, s.SetRowHeight(2, 28))
	s.AddMergeCell("C1", "D2")

	require.NoError(t, wb.CopySheet("Sheet1", "Copy"))
	cp, err := wb.Sheet("Copy")
	require.NoError(t, err)

	v, err := cp.GetCellValue("A1")
	require.NoError(t, err)
	assert.Equal(t, "keep", v.PlainText())
	f, err := cp.GetCellValue("B2")
	require.NoError(t, err)
	require.NotNil(t, f.Formula)
	assert.Equal(t, "SUM(A1:A3)", f.Formula.Expr)
	assert.Equal(t, float64(17), cp.GetColWidth(1))
	assert.Equal(t, float64(28), cp.GetRowHeight(2))
	require.Len(t, cp.GetMergeCells(), 1)

	// Mutating the copy's formula must not reach back into the source.
	require.NoError(t, cp.SetCellFormula("B2", "SUM(A1:A9)"))
	sf, err := s.GetCellValue("B2")
	require.NoError(t, err)
	assert.Equal(t, "SUM(A1:A3)", sf.Formula.Expr)
}
