// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

// SparklineType enumerates the sparkline render styles.
type SparklineType int

const (
	SparklineLine SparklineType = iota
	SparklineColumn
	SparklineWinLoss
)

// SparklineGroup is one x14:sparklineGroup: a shared style applied to one
// sparkline per row/column, each reading its data from DataRange and
// rendering into its own Location cell.
type SparklineGroup struct {
	Type          SparklineType
	DataRanges    []string
	Locations     []string
	ColorSeries   Color
	Markers       bool
	Negative      bool
	High          bool
	Low           bool
}

// AddSparkline appends a sparkline group to the sheet.
func (s *Sheet) AddSparkline(g SparklineGroup) {
	s.Sparklines = append(s.Sparklines, g)
}

// GetSparklines returns every sparkline group on the sheet.
func (s *Sheet) GetSparklines() []SparklineGroup {
	return s.Sparklines
}
