package sheetkit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumberGeneral(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0, "General"))
	assert.Equal(t, "42", FormatNumber(42, "General"))
	assert.Equal(t, "1.5", FormatNumber(1.5, "General"))
}

func TestFormatNumberTwoSectionUsesAbsForNegative(t *testing.T) {
	// Two-section format: positive/zero, negative; negative section renders
	// against the absolute value (§4.5 rule 3, property 9).
	assert.Equal(t, "1,234.00", FormatNumber(-1234, "#,##0.00;#,##0.00"))
}

func TestFormatNumberThousandsAndDecimals(t *testing.T) {
	assert.Equal(t, "1,234", FormatNumber(1234, "#,##0"))
	assert.Equal(t, "1,234,567", FormatNumber(1234567, "#,##0"))
	assert.Equal(t, "1,234.56", FormatNumber(1234.56, "#,##0.00"))
}

func TestFormatNumberPercent(t *testing.T) {
	assert.Equal(t, "75.34%", FormatNumber(0.7534, "0.00%"))
}

func TestFormatNumberScientific(t *testing.T) {
	assert.Equal(t, "1.23E+03", FormatNumber(1234.5, "0.00E+00"))
}

func TestFormatNumberDatePatterns(t *testing.T) {
	serial := TimeToSerial(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "1/15/2024", FormatNumber(serial, "m/d/yyyy"))
	assert.Equal(t, "15-Jan-24", FormatNumber(serial, "d-mmm-yy"))

	dt := TimeToSerial(time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC))
	assert.Equal(t, "2:30 PM", FormatNumber(dt, "h:mm AM/PM"))
}

func TestFormatNumberFraction(t *testing.T) {
	// 0.5 as a single-digit fraction is exactly 1/2.
	assert.Equal(t, "1/2", FormatNumber(0.5, "# ?/?"))
	assert.Equal(t, "1 1/2", FormatNumber(1.5, "# ?/?"))
}

func TestFormatNumberConditionalSections(t *testing.T) {
	pat := "[>100]\"big\";[<0]\"neg\";\"small\""
	assert.Equal(t, "big", FormatNumber(200, pat))
	assert.Equal(t, "neg", FormatNumber(-5, pat))
	assert.Equal(t, "small", FormatNumber(5, pat))
}

func TestFormatNumberTextOnly(t *testing.T) {
	assert.Equal(t, "7", FormatNumber(7, "@"))
}

func TestFormatWithBuiltinAllIDsHaveAPattern(t *testing.T) {
	for _, id := range []int{0, 1, 2, 3, 4, 9, 10, 11, 14, 18, 37, 41, 49} {
		pat, ok := BuiltinNumFmts[id]
		assert.True(t, ok, "builtin id %d should map to a pattern", id)
		assert.NotEmpty(t, pat)
	}
}

func TestFormatWithBuiltinUnknownID(t *testing.T) {
	_, ok := FormatWithBuiltin(42, 9999)
	assert.False(t, ok)
}

func TestFormatWithBuiltinDelegatesToFormatNumber(t *testing.T) {
	s, ok := FormatWithBuiltin(0.5, 9)
	assert.True(t, ok)
	assert.Equal(t, "50%", s)
}

func TestSplitFormatSectionsRespectsQuotesAndEscapes(t *testing.T) {
	sections := splitFormatSections(`0.00;[Red]-0.00;"zero: ;";\;0`)
	assert.Len(t, sections, 4)
	assert.Equal(t, `"zero: ;"`, sections[2])
}

func TestSerialTimeRoundTrip(t *testing.T) {
	now := time.Date(2023, 6, 15, 8, 45, 30, 0, time.UTC)
	serial := TimeToSerial(now)
	back := SerialToTime(serial)
	assert.Equal(t, now.Year(), back.Year())
	assert.Equal(t, now.Month(), back.Month())
	assert.Equal(t, now.Day(), back.Day())
	assert.Equal(t, now.Hour(), back.Hour())
	assert.Equal(t, now.Minute(), back.Minute())
}
