package sheetkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTableAndGetTables(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	s.AddTable(Table{
		Name:          "SalesTable",
		Range:         "A1:C10",
		Columns:       []TableColumn{{Name: "Region"}, {Name: "Amount"}},
		ShowHeaderRow: true,
	})

	tables := s.GetTables()
	require.Len(t, tables, 1)
	assert.Equal(t, "SalesTable", tables[0].Name)
	assert.Equal(t, "A1:C10", tables[0].Range)
	require.Len(t, tables[0].Columns, 2)
	assert.Equal(t, "Amount", tables[0].Columns[1].Name)
}

func TestMarshalTableOmitsHeaderRowCountWhenShown(t *testing.T) {
	xt := marshalTable(1, Table{Name: "T", Range: "A1:B2", ShowHeaderRow: true})
	assert.Nil(t, xt.HeaderRowCount)
	assert.Equal(t, "T", xt.DisplayName)

	xt2 := marshalTable(2, Table{Name: "T2", Range: "A1:B2", ShowHeaderRow: false})
	require.NotNil(t, xt2.HeaderRowCount)
	assert.Equal(t, 0, *xt2.HeaderRowCount)
}
