package sheetkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedStringsAddDedup(t *testing.T) {
	sst := NewSharedStrings()

	i1 := sst.Add("hello")
	i2 := sst.Add("world")
	i3 := sst.Add("hello")

	assert.Equal(t, 0, i1)
	assert.Equal(t, 1, i2)
	assert.Equal(t, i1, i3, "re-adding an existing string returns its original index")
	assert.Equal(t, 2, sst.Len())

	s, ok := sst.Get(0)
	require.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = sst.Get(99)
	assert.False(t, ok)
}

func TestSharedStringsDistinctIndices(t *testing.T) {
	sst := NewSharedStrings()
	before := sst.Len()
	idx := sst.Add("a fresh string")
	assert.Equal(t, before, idx)
	idx2 := sst.Add("a different fresh string")
	assert.NotEqual(t, idx, idx2)
}

func TestSharedStringsRichTextNotDeduped(t *testing.T) {
	sst := NewSharedStrings()
	plainIdx := sst.Add("styled")
	richIdx := sst.AddRichText([]RichTextRun{{Text: "styled", Font: &Font{Bold: true}}})

	assert.NotEqual(t, plainIdx, richIdx, "rich strings never dedup against plain strings of matching text")

	runs, ok := sst.GetRichText(richIdx)
	require.True(t, ok)
	require.Len(t, runs, 1)
	assert.Equal(t, "styled", runs[0].Text)
	assert.True(t, runs[0].Font.Bold)

	_, ok = sst.GetRichText(plainIdx)
	assert.False(t, ok, "a plain entry has no rich-text runs")
}

func TestSharedStringsRoundTripFromXML(t *testing.T) {
	sst := NewSharedStrings()
	sst.Add("one")
	sst.Add("two")

	x := marshalSharedStrings(sst)
	reloaded := loadSharedStringsFromXML(x)

	assert.Equal(t, sst.Len(), reloaded.Len())
	for i := 0; i < sst.Len(); i++ {
		orig, _ := sst.Get(i)
		got, _ := reloaded.Get(i)
		assert.Equal(t, orig, got)
	}
}

func TestSharedStringsLoadPreservesDuplicateIndices(t *testing.T) {
	// Ill-formed input may repeat a string across multiple <si> entries;
	// loading from disk preserves every entry and its original index rather
	// than deduplicating (§4.3).
	x := &xlsxSST{SI: []xlsxSI{
		{T: &xlsxTNode{Val: "dup"}},
		{T: &xlsxTNode{Val: "other"}},
		{T: &xlsxTNode{Val: "dup"}},
	}}
	sst := loadSharedStringsFromXML(x)

	require.Equal(t, 3, sst.Len())
	s0, _ := sst.Get(0)
	s2, _ := sst.Get(2)
	assert.Equal(t, "dup", s0)
	assert.Equal(t, "dup", s2)

	// The index map keeps the first occurrence's index for future Add calls.
	assert.Equal(t, 0, sst.index["dup"])
}
