package sheetkit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalPNG is a 1x1 transparent PNG, small enough to embed inline.
var minimalPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestAddImageChartShape(t *testing.T) {
	wb := NewWorkbook()
	s, _ := wb.Sheet("Sheet1")

	require.NoError(t, s.AddImage("B2", ".png", minimalPNG, 0, 0))
	require.NoError(t, s.AddChart(Chart{
		Title: "Sales",
		Type:  ChartTypeBar,
		Series: []ChartSeries{
			{NameRef: "Sheet1!$A$1", CategoriesRef: "Sheet1!$A$2:$A$5", ValuesRef: "Sheet1!$B$2:$B$5"},
		},
	}, "D2", "H10"))
	require.NoError(t, s.AddShape(Shape{Text: "Note", FillColor: "FFFF00"}, "B12", "D14"))

	assert.Len(t, s.GetImages(), 1)
	assert.Len(t, s.GetCharts(), 1)
	assert.Len(t, s.GetShapes(), 1)

	var buf bytes.Buffer
	require.NoError(t, Save(wb, &buf))

	reopened, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	rs, err := reopened.Sheet("Sheet1")
	require.NoError(t, err)

	assert.Len(t, rs.GetImages(), 1)
	assert.Len(t, rs.GetCharts(), 1)
	assert.Len(t, rs.GetShapes(), 1)
}

func TestCommentsRoundTrip(t *testing.T) {
	wb := NewWorkbook()
	s, _ := wb.Sheet("Sheet1")
	s.AddComment(Comment{Cell: "A1", Author: "reviewer", Text: "check this"})

	assert.Len(t, s.GetComments(), 1)

	var buf bytes.Buffer
	require.NoError(t, Save(wb, &buf))

	reopened, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	rs, _ := reopened.Sheet("Sheet1")
	comments := rs.GetComments()
	require.Len(t, comments, 1)
	assert.Equal(t, "A1", comments[0].Cell)
	assert.Equal(t, "check this", comments[0].Text)

	s.DeleteComment("A1")
	assert.Len(t, s.GetComments(), 0)
}

func TestTablesRoundTrip(t *testing.T) {
	wb := NewWorkbook()
	s, _ := wb.Sheet("Sheet1")
	s.AddTable(Table{
		Name:          "SalesTable",
		Range:         "A1:C5",
		ShowHeaderRow: true,
		Columns:       []TableColumn{{Name: "Date"}, {Name: "Region"}, {Name: "Amount"}},
	})

	var buf bytes.Buffer
	require.NoError(t, Save(wb, &buf))

	reopened, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	rs, _ := reopened.Sheet("Sheet1")
	tables := rs.GetTables()
	require.Len(t, tables, 1)
	assert.Equal(t, "SalesTable", tables[0].Name)
	assert.Len(t, tables[0].Columns, 3)
}

func TestConditionalFormats(t *testing.T) {
	wb := NewWorkbook()
	s, _ := wb.Sheet("Sheet1")
	s.AddConditionalFormat(ConditionalFormat{
		Range: "A1:A10",
		Rules: []ConditionalFormatRule{
			{Type: CFTypeCellIs, Operator: "greaterThan", Formula: []string{"5"}, Priority: 1},
		},
	})

	cfs := s.GetConditionalFormats()
	require.Len(t, cfs, 1)
	assert.Equal(t, "A1:A10", cfs[0].Range)
	assert.Equal(t, "greaterThan", cfs[0].Rules[0].Operator)
}
