package sheetkit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVMLDrawingRoundTrip(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	s.AddFormControl(FormControl{
		Type: FormControlCheckbox, Cell: "B2", Caption: "Enable audit", Checked: true,
		LinkedCell: "D2",
	})
	s.AddFormControl(FormControl{
		Type: FormControlSpinner, Cell: "C4",
		LinkedCell: "D4", CurrentVal: 7, MinVal: 5, MaxVal: 10,
	})

	data, err := marshalVMLDrawing(s)
	require.NoError(t, err)

	got := unmarshalVMLDrawing(data)
	require.Len(t, got, 2)

	assert.Equal(t, FormControlCheckbox, got[0].Type)
	assert.Equal(t, "B2", got[0].Cell)
	assert.Equal(t, "Enable audit", got[0].Caption)
	assert.True(t, got[0].Checked)
	assert.Equal(t, "D2", got[0].LinkedCell)

	assert.Equal(t, FormControlSpinner, got[1].Type)
	assert.Equal(t, "C4", got[1].Cell)
	assert.Equal(t, 7, got[1].CurrentVal)
	assert.Equal(t, 5, got[1].MinVal)
	assert.Equal(t, 10, got[1].MaxVal)
}

func TestFormControlsSurviveSaveReopen(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	s.AddFormControl(FormControl{Type: FormControlRadio, Cell: "A1", Caption: "Option 1", Checked: true})
	s.AddFormControl(FormControl{Type: FormControlDropdown, Cell: "B3", LinkedCell: "C3"})

	var buf bytes.Buffer
	require.NoError(t, Save(wb, &buf))

	wb2, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	s2, err := wb2.Sheet("Sheet1")
	require.NoError(t, err)

	got := s2.GetFormControls()
	require.Len(t, got, 2)
	assert.Equal(t, FormControlRadio, got[0].Type)
	assert.Equal(t, "A1", got[0].Cell)
	assert.Equal(t, "Option 1", got[0].Caption)
	assert.True(t, got[0].Checked)
	assert.Equal(t, FormControlDropdown, got[1].Type)
	assert.Equal(t, "B3", got[1].Cell)
	assert.Equal(t, "C3", got[1].LinkedCell)
}

// An untouched VML part opened lazily must pass through verbatim, with the
// rewritten worksheet still pointing a legacyDrawing relationship at it.
func TestUntouchedVMLPassesThrough(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	s.AddFormControl(FormControl{Type: FormControlCheckbox, Cell: "A1", Caption: "keep me"})

	var buf bytes.Buffer
	require.NoError(t, Save(wb, &buf))

	wb2, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	s2, err := wb2.Sheet("Sheet1")
	require.NoError(t, err)
	require.NoError(t, s2.SetCellValue("Z9", StringValue("edit")))

	var buf2 bytes.Buffer
	require.NoError(t, Save(wb2, &buf2))

	wb3, err := Open(bytes.NewReader(buf2.Bytes()), int64(buf2.Len()))
	require.NoError(t, err)
	s3, err := wb3.Sheet("Sheet1")
	require.NoError(t, err)
	got := s3.GetFormControls()
	require.Len(t, got, 1)
	assert.Equal(t, "keep me", got[0].Caption)
}

func TestInsertRowsShiftsFormControlAnchors(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	s.AddFormControl(FormControl{Type: FormControlCheckbox, Cell: "B5", LinkedCell: "C5"})

	require.NoError(t, s.InsertRows(2, 3))

	got := s.GetFormControls()
	require.Len(t, got, 1)
	assert.Equal(t, "B8", got[0].Cell)
	assert.Equal(t, "C8", got[0].LinkedCell)
}
