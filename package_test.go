package sheetkit

import (
	"archive/zip"
	"bytes"
	"io"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveToBytes(t *testing.T, wb *Workbook) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Save(wb, &buf))
	return buf.Bytes()
}

func readZipEntries(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	entries := map[string][]byte{}
	for _, zf := range zr.File {
		rc, err := zf.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		entries[zf.Name] = b
	}
	return entries
}

func writeZipEntries(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		fw, err := zw.Create(name)
		require.NoError(t, err)
		_, err = fw.Write(entries[name])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestOpenOptionsSheetRowsTruncates(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	for row := 1; row <= 10; row++ {
		ref, _ := CoordinatesToCellName(1, row)
		require.NoError(t, s.SetCellValue(ref, NumberValue(float64(row))))
	}
	data := saveToBytes(t, wb)

	wb2, err := Open(bytes.NewReader(data), int64(len(data)), OpenOptions{SheetRows: 3})
	require.NoError(t, err)
	s2, err := wb2.Sheet("Sheet1")
	require.NoError(t, err)

	rows := s2.GetRows()
	require.Len(t, rows, 3)
	assert.Equal(t, 3, rows[len(rows)-1].Row)
}

func TestOpenOptionsSheetsFilter(t *testing.T) {
	wb := NewWorkbook()
	require.NoError(t, wb.AddSheet("Data"))
	require.NoError(t, wb.AddSheet("Scratch"))
	data := saveToBytes(t, wb)

	wb2, err := Open(bytes.NewReader(data), int64(len(data)), OpenOptions{Sheets: []string{"Data"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Data"}, wb2.SheetNames())
	_, err = wb2.Sheet("Scratch")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestColWidthAndRowHeightCaps(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetColWidth(1, 1, 256), ErrColumnWidthExceeded)
	assert.ErrorIs(t, s.SetRowHeight(1, 410), ErrRowHeightExceeded)

	require.NoError(t, s.SetColWidth(1, 1, 12.5))
	require.NoError(t, s.SetRowHeight(1, 22))
	assert.Equal(t, 12.5, s.GetColWidth(1))
	assert.Equal(t, float64(22), s.GetRowHeight(1))
}

func TestRawContentTypesSurvivePassthrough(t *testing.T) {
	// A pivot-table part the engine never hydrates must keep both its bytes
	// and its [Content_Types].xml override across a lazy open/save cycle.
	wb := NewWorkbook()
	data := saveToBytes(t, wb)

	entries := readZipEntries(t, data)
	entries["xl/pivotTables/pivotTable1.xml"] = []byte(`<?xml version="1.0"?><pivotTableDefinition/>`)
	ct := string(entries["[Content_Types].xml"])
	ct = ct[:len(ct)-len("</Types>")] +
		`<Override PartName="/xl/pivotTables/pivotTable1.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.pivotTable+xml"/></Types>`
	entries["[Content_Types].xml"] = []byte(ct)
	data = writeZipEntries(t, entries)

	wb2, err := Open(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := saveToBytes(t, wb2)

	outEntries := readZipEntries(t, out)
	assert.Equal(t, []byte(`<?xml version="1.0"?><pivotTableDefinition/>`), outEntries["xl/pivotTables/pivotTable1.xml"])
	assert.Contains(t, string(outEntries["[Content_Types].xml"]), "/xl/pivotTables/pivotTable1.xml")
}
