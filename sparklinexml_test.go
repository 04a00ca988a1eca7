package sheetkit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSparklineExtRoundTrip(t *testing.T) {
	groups := []SparklineGroup{
		{
			Type:        SparklineColumn,
			DataRanges:  []string{"Sheet1!A1:E1", "Sheet1!A2:E2"},
			Locations:   []string{"F1", "F2"},
			ColorSeries: RGBColor("FF376092"),
			Markers:     true,
			High:        true,
		},
		{
			Type:       SparklineWinLoss,
			DataRanges: []string{"Sheet1!A3:E3"},
			Locations:  []string{"F3"},
			Negative:   true,
		},
	}

	ext := marshalSparklines(groups)
	require.True(t, strings.Contains(ext, extURISparklineGroups))

	got, rest := unmarshalSparklines(ext)
	assert.Empty(t, rest)
	require.Len(t, got, 2)

	assert.Equal(t, SparklineColumn, got[0].Type)
	assert.Equal(t, []string{"Sheet1!A1:E1", "Sheet1!A2:E2"}, got[0].DataRanges)
	assert.Equal(t, []string{"F1", "F2"}, got[0].Locations)
	assert.Equal(t, "FF376092", got[0].ColorSeries.RGB)
	assert.True(t, got[0].Markers)
	assert.True(t, got[0].High)

	assert.Equal(t, SparklineWinLoss, got[1].Type)
	assert.True(t, got[1].Negative)
}

func TestUnmarshalSparklinesKeepsForeignExtensions(t *testing.T) {
	ext := `<ext uri="{DEADBEEF-0000-0000-0000-000000000000}"><custom>stay</custom></ext>` +
		marshalSparklines([]SparklineGroup{{DataRanges: []string{"A1:C1"}, Locations: []string{"D1"}}})

	got, rest := unmarshalSparklines(ext)
	require.Len(t, got, 1)
	assert.Equal(t, SparklineLine, got[0].Type)
	assert.Contains(t, rest, "{DEADBEEF-0000-0000-0000-000000000000}")
	assert.Contains(t, rest, "<custom>stay</custom>")
}

func TestSparklinesSurviveSaveReopen(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	for col := 'A'; col <= 'E'; col++ {
		require.NoError(t, s.SetCellValue(string(col)+"1", NumberValue(float64(col-'A'+1))))
	}
	s.AddSparkline(SparklineGroup{
		Type:        SparklineLine,
		DataRanges:  []string{"Sheet1!A1:E1"},
		Locations:   []string{"F1"},
		ColorSeries: RGBColor("FF376092"),
	})

	var buf bytes.Buffer
	require.NoError(t, Save(wb, &buf))

	wb2, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	s2, err := wb2.Sheet("Sheet1")
	require.NoError(t, err)

	got := s2.GetSparklines()
	require.Len(t, got, 1)
	assert.Equal(t, SparklineLine, got[0].Type)
	assert.Equal(t, []string{"Sheet1!A1:E1"}, got[0].DataRanges)
	assert.Equal(t, []string{"F1"}, got[0].Locations)
	assert.Equal(t, "FF376092", got[0].ColorSeries.RGB)
}

func TestInsertRowsShiftsSparklineRanges(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	s.AddSparkline(SparklineGroup{
		DataRanges: []string{"A5:E5"},
		Locations:  []string{"F5"},
	})

	require.NoError(t, s.InsertRows(2, 2))

	got := s.GetSparklines()
	require.Len(t, got, 1)
	assert.Equal(t, []string{"A7:E7"}, got[0].DataRanges)
	assert.Equal(t, []string{"F7"}, got[0].Locations)
}
