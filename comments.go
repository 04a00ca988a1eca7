// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import "encoding/xml"

// Comment is a cell-attached note (xl/comments*.xml); Author and Text are
// the plain-text projection of the comment's rich-text run list.
type Comment struct {
	Cell   string
	Author string
	Text   string
}

// xlsxComments directly maps xl/comments{N}.xml.
type xlsxComments struct {
	XMLName  xml.Name          `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main comments"`
	Authors  xlsxCommentAuthors `xml:"authors"`
	CommentList xlsxCommentList `xml:"commentList"`
}

type xlsxCommentAuthors struct {
	Author []string `xml:"author"`
}

type xlsxCommentList struct {
	Comment []xlsxComment `xml:"comment"`
}

type xlsxComment struct {
	Ref      string        `xml:"ref,attr"`
	AuthorID int           `xml:"authorId,attr"`
	Text     xlsxCommentText `xml:"text"`
}

type xlsxCommentText struct {
	R []xlsxCommentRun `xml:"r"`
	T string           `xml:"t"`
}

type xlsxCommentRun struct {
	T string `xml:"t"`
}

// AddComment attaches (or replaces) a comment on ref.
func (s *Sheet) AddComment(c Comment) {
	s.ensureCommentsHydrated()
	for i, existing := range s.Comments {
		if existing.Cell == c.Cell {
			s.Comments[i] = c
			return
		}
	}
	s.Comments = append(s.Comments, c)
}

// GetComments returns every comment on the sheet.
func (s *Sheet) GetComments() []Comment {
	s.ensureCommentsHydrated()
	return s.Comments
}

// DeleteComment removes the comment attached to ref, if any.
func (s *Sheet) DeleteComment(ref string) {
	s.ensureCommentsHydrated()
	for i, c := range s.Comments {
		if c.Cell == ref {
			s.Comments = append(s.Comments[:i], s.Comments[i+1:]...)
			return
		}
	}
}

// ensureCommentsHydrated lifts a sheet's comments part out of the
// deferred-parts index into s.Comments, exactly once (§4.2).
func (s *Sheet) ensureCommentsHydrated() {
	if s.commentsHydrated {
		return
	}
	s.commentsHydrated = true
	if s.pendingCommentsPath == "" {
		return
	}
	data, ok := s.wb.parts.take(CategoryComments, s.pendingCommentsPath)
	if !ok {
		return
	}
	s.wb.parts.markHydrated(CategoryComments)
	var xc xlsxComments
	if decodeXML(data, &xc) != nil {
		return
	}
	for _, c := range xc.CommentList.Comment {
		author := ""
		if c.AuthorID >= 0 && c.AuthorID < len(xc.Authors.Author) {
			author = xc.Authors.Author[c.AuthorID]
		}
		text := c.Text.T
		if text == "" {
			for _, r := range c.Text.R {
				text += r.T
			}
		}
		s.Comments = append(s.Comments, Comment{Cell: c.Ref, Author: author, Text: text})
	}
}

// marshalComments renders a sheet's comments into its xl/commentsN.xml
// model. Returns nil if the sheet has none.
func marshalComments(s *Sheet) *xlsxComments {
	if len(s.Comments) == 0 {
		return nil
	}
	xc := &xlsxComments{}
	authorIdx := map[string]int{}
	for _, c := range s.Comments {
		if _, ok := authorIdx[c.Author]; !ok {
			authorIdx[c.Author] = len(xc.Authors.Author)
			xc.Authors.Author = append(xc.Authors.Author, c.Author)
		}
		xc.CommentList.Comment = append(xc.CommentList.Comment, xlsxComment{
			Ref: c.Cell, AuthorID: authorIdx[c.Author],
			Text: xlsxCommentText{T: c.Text},
		})
	}
	return xc
}
