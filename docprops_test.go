package sheetkit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocPropertiesRoundTrip(t *testing.T) {
	wb := NewWorkbook()
	wb.SetDocProperties(DocProperties{
		Title:   "Quarterly Report",
		Creator: "sheetkit",
		Company: "Acme",
	})
	wb.SetCustomProperty("Reviewed", "true")

	var buf bytes.Buffer
	require.NoError(t, Save(wb, &buf))

	reopened, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	props := reopened.GetDocProperties()
	assert.Equal(t, "Quarterly Report", props.Title)
	assert.Equal(t, "sheetkit", props.Creator)
	assert.Equal(t, "Acme", props.Company)

	v, ok := reopened.GetCustomProperty("Reviewed")
	require.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestCustomPropertyMissing(t *testing.T) {
	wb := NewWorkbook()
	_, ok := wb.GetCustomProperty("Nope")
	assert.False(t, ok)
}
