package sheetkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommentReplacesExistingOnSameCell(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	s.AddComment(Comment{Cell: "A1", Author: "Alice", Text: "first"})
	s.AddComment(Comment{Cell: "A1", Author: "Bob", Text: "second"})

	comments := s.GetComments()
	require.Len(t, comments, 1)
	assert.Equal(t, "Bob", comments[0].Author)
	assert.Equal(t, "second", comments[0].Text)
}

func TestDeleteCommentRemovesOnlyMatchingCell(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	s.AddComment(Comment{Cell: "A1", Author: "Alice", Text: "keep"})
	s.AddComment(Comment{Cell: "B2", Author: "Bob", Text: "drop"})

	s.DeleteComment("B2")

	comments := s.GetComments()
	require.Len(t, comments, 1)
	assert.Equal(t, "A1", comments[0].Cell)
}

func TestMarshalCommentsGroupsByAuthor(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	s.AddComment(Comment{Cell: "A1", Author: "Alice", Text: "one"})
	s.AddComment(Comment{Cell: "B1", Author: "Alice", Text: "two"})
	s.AddComment(Comment{Cell: "C1", Author: "Bob", Text: "three"})

	xc := marshalComments(s)
	require.NotNil(t, xc)
	require.Len(t, xc.Authors.Author, 2)
	assert.Equal(t, "Alice", xc.Authors.Author[0])
	assert.Equal(t, "Bob", xc.Authors.Author[1])
	require.Len(t, xc.CommentList.Comment, 3)
	assert.Equal(t, 0, xc.CommentList.Comment[0].AuthorID)
	assert.Equal(t, 1, xc.CommentList.Comment[2].AuthorID)
}

func TestMarshalCommentsNilWhenEmpty(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	assert.Nil(t, marshalComments(s))
}
