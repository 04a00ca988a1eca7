package sheetkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionalFormatRuleTypeXMLNameRoundTrip(t *testing.T) {
	types := []ConditionalFormatRuleType{
		CFTypeCellIs, CFTypeExpression, CFTypeColorScale, CFTypeDataBar, CFTypeTop10, CFTypeContainsText,
	}
	for _, typ := range types {
		name := typ.xmlName()
		assert.Equal(t, typ, cfRuleTypeFromXMLName(name))
	}
}

func TestAddConditionalFormatShiftsOnInsertRows(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	s.AddConditionalFormat(ConditionalFormat{
		Range: "A2:A10",
		Rules: []ConditionalFormatRule{
			{Type: CFTypeCellIs, Operator: "greaterThan", Formula: []string{"5"}, Priority: 1},
		},
	})

	require.NoError(t, s.InsertRows(2, 1))

	cfs := s.GetConditionalFormats()
	require.Len(t, cfs, 1)
	assert.Equal(t, "A3:A11", cfs[0].Range)
}
