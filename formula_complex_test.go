package sheetkit

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeltaAndGestep(t *testing.T) {
	assert.Equal(t, "1", evalNum(t, "DELTA(5,5)"))
	assert.Equal(t, "0", evalNum(t, "DELTA(5,6)"))
	assert.Equal(t, "1", evalNum(t, "DELTA(0)"))

	assert.Equal(t, "1", evalNum(t, "GESTEP(5,4)"))
	assert.Equal(t, "0", evalNum(t, "GESTEP(3,4)"))
	assert.Equal(t, "1", evalNum(t, "GESTEP(0)"))
}

func TestErfAndErfc(t *testing.T) {
	v, err := EvalFormula("ERF(1)")
	require.NoError(t, err)
	assert.InDelta(t, 0.8427008, mustParseFloat(t, v), 1e-5)

	v, err = EvalFormula("ERFC(0)")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mustParseFloat(t, v), 1e-6)
}

func TestComplexConstructionAndSuffix(t *testing.T) {
	assert.Equal(t, "3+4i", evalNum(t, "COMPLEX(3,4)"))
	assert.Equal(t, "3+4j", evalNum(t, `COMPLEX(3,4,"j")`))
	assert.Equal(t, "4", evalNum(t, "COMPLEX(4,0)"))
	assert.Equal(t, "i", evalNum(t, "COMPLEX(0,1)"))

	v, err := EvalFormula(`COMPLEX(1,2,"x")`)
	require.NoError(t, err)
	assert.Equal(t, "#VALUE!", v)
}

func TestImRealImaginaryAndArgument(t *testing.T) {
	assert.Equal(t, "3", evalNum(t, `IMREAL("3+4i")`))
	assert.Equal(t, "4", evalNum(t, `IMAGINARY("3+4i")`))

	v, err := EvalFormula(`IMARGUMENT("0")`)
	require.NoError(t, err)
	assert.Equal(t, "#DIV/0!", v)
}

func TestImDivAndImPower(t *testing.T) {
	assert.Equal(t, "2i", evalNum(t, `IMDIV("-2+2i","1+1i")`))

	v, err := EvalFormula(`IMDIV("1+1i","0")`)
	require.NoError(t, err)
	assert.Equal(t, "#NUM!", v)

	assert.Equal(t, "-4", evalNum(t, `IMPOWER("2i",2)`))
}

func TestImsqrtOfNegativeOne(t *testing.T) {
	assert.Equal(t, "i", evalNum(t, `IMSQRT("-1")`))
}

func TestConvertTemperature(t *testing.T) {
	v, err := EvalFormula(`CONVERT(100,"C","F")`)
	require.NoError(t, err)
	assert.InDelta(t, 212.0, mustParseFloat(t, v), 1e-9)

	v, err = EvalFormula(`CONVERT(0,"C","K")`)
	require.NoError(t, err)
	assert.InDelta(t, 273.15, mustParseFloat(t, v), 1e-9)
}

func TestConvertLength(t *testing.T) {
	v, err := EvalFormula(`CONVERT(1,"in","cm")`)
	require.NoError(t, err)
	assert.InDelta(t, 2.54, mustParseFloat(t, v), 1e-9)
}

func TestBesselDomainErrors(t *testing.T) {
	v, err := EvalFormula("BESSELY(0,1)")
	require.NoError(t, err)
	assert.Equal(t, "#NUM!", v)

	v, err = EvalFormula("BESSELK(0,1)")
	require.NoError(t, err)
	assert.Equal(t, "#NUM!", v)

	v, err = EvalFormula("BESSELJ(1,-1)")
	require.NoError(t, err)
	assert.Equal(t, "#NUM!", v)
}

func TestBesselJKnownValue(t *testing.T) {
	v, err := EvalFormula("BESSELJ(0,0)")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mustParseFloat(t, v), 1e-9)
}

func mustParseFloat(t *testing.T, s string) float64 {
	t.Helper()
	f, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err)
	return f
}
