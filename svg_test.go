package sheetkit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderToSVGBasicRange(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	require.NoError(t, s.SetCellValue("A1", StringValue("Hello")))
	require.NoError(t, s.SetCellValue("B1", NumberValue(42)))

	out, err := RenderToSVG(s, RenderOptions{Range: "A1:B1", ShowHeaders: true, ShowGridLines: true})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.True(t, strings.HasSuffix(out, "</svg>"))
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, svgGridlineColor)
}

func TestRenderToSVGRejectsNonPositiveScale(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	_, err = RenderToSVG(s, RenderOptions{Range: "A1:A1", Scale: -1})
	assert.Error(t, err)
}

func TestCssColorNormalizesARGBAndRGB(t *testing.T) {
	assert.Equal(t, "#FF0000", cssColor("FFFF0000")) // 8-char ARGB, alpha dropped
	assert.Equal(t, "#00FF00", cssColor("00FF00"))   // 6-char RGB
	assert.Equal(t, "#000000", cssColor(""))
	assert.Equal(t, "#ABCDEF", cssColor("#ABCDEF"))
}

func TestEscapeXMLTextEscapesPredefinedEntities(t *testing.T) {
	assert.Equal(t, "a &amp; b &lt;c&gt; &quot;d&quot; &apos;e&apos;", escapeXMLText(`a & b <c> "d" 'e'`))
}
