package sheetkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalNum(t *testing.T, expr string) string {
	t.Helper()
	s, err := EvalFormula(expr)
	require.NoError(t, err)
	return s
}

func TestBaseConversionSignedRoundTrip(t *testing.T) {
	for n := -512; n <= 511; n += 37 {
		bin := evalNum(t, fmtCall("DEC2BIN", n))
		back := evalNum(t, fmtCall1Str("BIN2DEC", bin))
		assert.Equal(t, fmtNum(float64(n)), back)
	}
}

func TestBaseConversionScenarioE(t *testing.T) {
	assert.Equal(t, "-1", evalNum(t, `BIN2DEC("1111111111")`))
	assert.Equal(t, "1110011100", evalNum(t, "DEC2BIN(-100)"))
	assert.Equal(t, "7777777777", evalNum(t, "DEC2OCT(-1)"))
	assert.Equal(t, "-536870912", evalNum(t, `OCT2DEC("4000000000")`))
	assert.Equal(t, "-1", evalNum(t, `HEX2DEC("FFFFFFFFFF")`))
}

func TestBaseConversionDomainErrors(t *testing.T) {
	v, err := EvalFormula("DEC2BIN(1000)")
	require.NoError(t, err)
	assert.Equal(t, "#NUM!", v)

	v, err = EvalFormula(`BIN2DEC("12345678901")`)
	require.NoError(t, err)
	assert.Equal(t, "#NUM!", v)
}

func TestBaseConversionCrossBase(t *testing.T) {
	assert.Equal(t, "FF", evalNum(t, `BIN2HEX("11111111")`))
	assert.Equal(t, "11111111", evalNum(t, `HEX2BIN("FF")`))
}

func TestBaseConversionPlaces(t *testing.T) {
	assert.Equal(t, "00001010", evalNum(t, "DEC2BIN(10, 8)"))
}

func TestComplexNumberArithmetic(t *testing.T) {
	assert.Equal(t, "5+10i", evalNum(t, `IMSUM("3+4i","2+6i")`))
	assert.Equal(t, "5", evalNum(t, `IMABS("3+4i")`))
	assert.Equal(t, "3-4i", evalNum(t, `IMCONJUGATE("3+4i")`))
}

func TestConvertMassUnits(t *testing.T) {
	v, err := EvalFormula(`CONVERT(1,"kg","g")`)
	require.NoError(t, err)
	assert.Equal(t, "1000", v)
}

func TestConvertCrossCategoryErrors(t *testing.T) {
	v, err := EvalFormula(`CONVERT(1,"kg","m")`)
	require.NoError(t, err)
	assert.Equal(t, "#N/A", v)
}

func fmtCall(name string, n int) string {
	return name + "(" + itoa(n) + ")"
}

func fmtCall1Str(name, s string) string {
	return name + `("` + s + `")`
}
