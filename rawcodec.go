// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"encoding/binary"
	"math"
	"sort"
)

// rawCodecMagic is the "SKRD" magic number opening a raw transfer buffer
// (§4.8).
const rawCodecMagic uint32 = 0x534B5244

const (
	rawCodecVersion    = 1
	rawCodecSparseFlag = 1 << 0
	rawSparseDensity   = 0.30
)

// rawCellTag is a type_tag byte in the raw binary transfer codec.
type rawCellTag byte

const (
	rawTagEmpty rawCellTag = iota
	rawTagNumber
	rawTagString
	rawTagBool
	rawTagDate
	rawTagError
	rawTagFormula
	rawTagRichString
)

// RawCell is one decoded (col, value) pair from raw_buffer_to_cells.
type RawCell struct {
	Col   int
	Value CellValue
}

// RawRow is one decoded row from raw_buffer_to_cells, in ascending row order.
type RawRow struct {
	Row   int
	Cells []RawCell
}

// rawStringTable accumulates deduplicated strings and serializes them per
// §4.8's string-table section.
type rawStringTable struct {
	index map[string]uint32
	order []string
}

func newRawStringTable() *rawStringTable {
	return &rawStringTable{index: map[string]uint32{}}
}

func (t *rawStringTable) intern(s string) uint32 {
	if idx, ok := t.index[s]; ok {
		return idx
	}
	idx := uint32(len(t.order))
	t.index[s] = idx
	t.order = append(t.order, s)
	return idx
}

func (t *rawStringTable) encode() []byte {
	offsets := make([]uint32, len(t.order))
	var blob []byte
	for i, s := range t.order {
		offsets[i] = uint32(len(blob))
		blob = append(blob, s...)
	}
	out := make([]byte, 8+4*len(offsets))
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(t.order)))
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(blob)))
	for i, off := range offsets {
		binary.LittleEndian.PutUint32(out[8+4*i:], off)
	}
	out = append(out, blob...)
	return out
}

func decodeRawStringTable(b []byte) (strs []string, consumed int, err error) {
	if len(b) < 8 {
		return nil, 0, wrapf(ErrInternal, "raw codec: truncated string table header")
	}
	count := binary.LittleEndian.Uint32(b[0:4])
	blobSize := binary.LittleEndian.Uint32(b[4:8])
	offsetsEnd := 8 + int(count)*4
	if len(b) < offsetsEnd {
		return nil, 0, wrapf(ErrInternal, "raw codec: truncated string table offsets")
	}
	offsets := make([]uint32, count)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(b[8+4*i:])
	}
	blobStart := offsetsEnd
	blobEnd := blobStart + int(blobSize)
	if len(b) < blobEnd {
		return nil, 0, wrapf(ErrInternal, "raw codec: truncated string blob")
	}
	blob := b[blobStart:blobEnd]
	strs = make([]string, count)
	for i := range offsets {
		start := offsets[i]
		var end uint32
		if i+1 < len(offsets) {
			end = offsets[i+1]
		} else {
			end = blobSize
		}
		strs[i] = string(blob[start:end])
	}
	return strs, blobEnd, nil
}

// rawCellPayload resolves a CellValue's type_tag and 8-byte payload,
// interning any string content into strTab.
func rawCellPayload(v CellValue, strTab *rawStringTable) (rawCellTag, [8]byte) {
	var payload [8]byte
	switch v.Type {
	case CellTypeNumber:
		binary.LittleEndian.PutUint64(payload[:], math.Float64bits(v.Num))
		return rawTagNumber, payload
	case CellTypeDate:
		binary.LittleEndian.PutUint64(payload[:], math.Float64bits(v.Date))
		return rawTagDate, payload
	case CellTypeSharedString:
		idx := strTab.intern(v.PlainText())
		binary.LittleEndian.PutUint32(payload[:4], idx)
		if len(v.Rich) > 0 {
			return rawTagRichString, payload
		}
		return rawTagString, payload
	case CellTypeBool:
		if v.Bool {
			payload[0] = 1
		}
		return rawTagBool, payload
	case CellTypeError:
		idx := strTab.intern(v.ErrCode)
		binary.LittleEndian.PutUint32(payload[:4], idx)
		return rawTagError, payload
	case CellTypeFormulaString:
		expr := ""
		if v.Formula != nil {
			expr = v.Formula.Expr
		}
		idx := strTab.intern(expr)
		binary.LittleEndian.PutUint32(payload[:4], idx)
		return rawTagFormula, payload
	default:
		return rawTagEmpty, payload
	}
}

func rawCellFromPayload(tag rawCellTag, payload []byte, strs []string) CellValue {
	switch tag {
	case rawTagNumber:
		return NumberValue(math.Float64frombits(binary.LittleEndian.Uint64(payload)))
	case rawTagDate:
		return DateValue(math.Float64frombits(binary.LittleEndian.Uint64(payload)))
	case rawTagString:
		idx := binary.LittleEndian.Uint32(payload[:4])
		return StringValue(rawStringAt(strs, idx))
	case rawTagRichString:
		idx := binary.LittleEndian.Uint32(payload[:4])
		return StringValue(rawStringAt(strs, idx))
	case rawTagBool:
		return BoolValue(payload[0] != 0)
	case rawTagError:
		idx := binary.LittleEndian.Uint32(payload[:4])
		return ErrorValue(rawStringAt(strs, idx))
	case rawTagFormula:
		idx := binary.LittleEndian.Uint32(payload[:4])
		return FormulaValue(rawStringAt(strs, idx))
	default:
		return Empty()
	}
}

func rawStringAt(strs []string, idx uint32) string {
	if int(idx) < len(strs) {
		return strs[idx]
	}
	return ""
}

// SheetToRawBuffer encodes a sheet's occupied rows into the raw binary
// transfer format (§4.8) for moving cell contents across an FFI or IPC
// boundary as a single buffer.
func SheetToRawBuffer(s *Sheet) []byte {
	return sheetToRawBuffer(s)
}

// sheetToRawBuffer encodes a sheet's occupied rows into the raw binary
// transfer format (§4.8). Cells are read through GetCellValue, so string
// cells already carry their text resolved from the shared-string table.
func sheetToRawBuffer(s *Sheet) []byte {
	rowIdx := s.occupiedRowIndices()
	if len(rowIdx) == 0 {
		return rawEmptyBuffer()
	}

	maxCol := 0
	for _, rn := range rowIdx {
		for c := range s.rows[rn].Cells {
			if c > maxCol {
				maxCol = c
			}
		}
	}
	if maxCol == 0 {
		return rawEmptyBuffer()
	}
	// Columns are stored relative to column 1, not the lowest occupied column:
	// the header carries no min_col field, so 1 is the only origin decode can
	// assume.
	minCol := 1

	minRow, maxRow := rowIdx[0], rowIdx[len(rowIdx)-1]
	rowSpan := maxRow - minRow + 1
	colSpan := maxCol - minCol + 1

	cellsWritten := 0
	for _, rn := range rowIdx {
		cellsWritten += len(s.rows[rn].Cells)
	}
	density := float64(cellsWritten) / float64(rowSpan*colSpan)
	sparse := density < rawSparseDensity

	strTab := newRawStringTable()
	type resolvedCell struct {
		col     int
		tag     rawCellTag
		payload [8]byte
	}
	rowCells := make(map[int][]resolvedCell, len(rowIdx))
	for _, rn := range rowIdx {
		r := s.rows[rn]
		cols := make([]int, 0, len(r.Cells))
		for c := range r.Cells {
			cols = append(cols, c)
		}
		sort.Ints(cols)
		out := make([]resolvedCell, 0, len(cols))
		for _, c := range cols {
			v, _ := s.GetCellValue(mustCellName(c, rn))
			tag, payload := rawCellPayload(v, strTab)
			out = append(out, resolvedCell{col: c, tag: tag, payload: payload})
		}
		rowCells[rn] = out
	}

	header := make([]byte, 16)
	binary.LittleEndian.PutUint32(header[0:4], rawCodecMagic)
	binary.LittleEndian.PutUint16(header[4:6], rawCodecVersion)
	binary.LittleEndian.PutUint32(header[6:10], uint32(rowSpan))
	binary.LittleEndian.PutUint16(header[10:12], uint16(colSpan))
	if sparse {
		binary.LittleEndian.PutUint32(header[12:16], rawCodecSparseFlag)
	}

	rowIndex := make([]byte, rowSpan*8)
	var cellData []byte

	if !sparse {
		cellData = make([]byte, rowSpan*colSpan*9)
		for i := 0; i < rowSpan; i++ {
			rn := minRow + i
			binary.LittleEndian.PutUint32(rowIndex[i*8:], uint32(rn))
			cells, ok := rowCells[rn]
			if !ok {
				binary.LittleEndian.PutUint32(rowIndex[i*8+4:], 0xFFFFFFFF)
				continue
			}
			offset := uint32(i * colSpan * 9)
			binary.LittleEndian.PutUint32(rowIndex[i*8+4:], offset)
			for _, rc := range cells {
				pos := int(offset) + (rc.col-minCol)*9
				cellData[pos] = byte(rc.tag)
				copy(cellData[pos+1:pos+9], rc.payload[:])
			}
		}
	} else {
		var buf []byte
		for i := 0; i < rowSpan; i++ {
			rn := minRow + i
			binary.LittleEndian.PutUint32(rowIndex[i*8:], uint32(rn))
			cells, ok := rowCells[rn]
			if !ok || len(cells) == 0 {
				binary.LittleEndian.PutUint32(rowIndex[i*8+4:], 0xFFFFFFFF)
				continue
			}
			binary.LittleEndian.PutUint32(rowIndex[i*8+4:], uint32(len(buf)))
			cnt := make([]byte, 2)
			binary.LittleEndian.PutUint16(cnt, uint16(len(cells)))
			buf = append(buf, cnt...)
			for _, rc := range cells {
				entry := make([]byte, 11)
				binary.LittleEndian.PutUint16(entry[0:2], uint16(rc.col-minCol))
				entry[2] = byte(rc.tag)
				copy(entry[3:11], rc.payload[:])
				buf = append(buf, entry...)
			}
		}
		cellData = buf
	}

	out := append([]byte{}, header...)
	out = append(out, rowIndex...)
	out = append(out, strTab.encode()...)
	out = append(out, cellData...)
	return out
}

// rawEmptyBuffer is the 16-byte header for an empty worksheet: a valid
// magic/version with zeroed row_count/col_count/flags (§4.8).
func rawEmptyBuffer() []byte {
	out := make([]byte, 16)
	binary.LittleEndian.PutUint32(out[0:4], rawCodecMagic)
	binary.LittleEndian.PutUint16(out[4:6], rawCodecVersion)
	return out
}

func mustCellName(col, row int) string {
	name, _ := CoordinatesToCellName(col, row)
	return name
}

// RawBufferToCells decodes a raw transfer buffer produced by
// SheetToRawBuffer or CellsToRawBuffer back into rows (§4.8).
func RawBufferToCells(buf []byte) ([]RawRow, error) {
	return rawBufferToRows(buf)
}

// rawBufferToRows decodes a raw transfer buffer produced by sheetToRawBuffer
// or cellsToRawBuffer back into rows (§4.8).
func rawBufferToRows(buf []byte) ([]RawRow, error) {
	if len(buf) < 16 {
		return nil, wrapf(ErrInternal, "raw codec: truncated header")
	}
	magic := binary.LittleEndian.Uint32(buf[0:4])
	if magic != rawCodecMagic {
		return nil, wrapf(ErrInternal, "raw codec: bad magic")
	}
	rowCount := binary.LittleEndian.Uint32(buf[6:10])
	colCount := binary.LittleEndian.Uint16(buf[10:12])
	flags := binary.LittleEndian.Uint32(buf[12:16])
	sparse := flags&rawCodecSparseFlag != 0

	if rowCount == 0 || colCount == 0 {
		return nil, nil
	}

	pos := 16
	rowIndexEnd := pos + int(rowCount)*8
	if len(buf) < rowIndexEnd {
		return nil, wrapf(ErrInternal, "raw codec: truncated row index")
	}
	type rowEntry struct {
		rowNumber uint32
		offset    uint32
	}
	entries := make([]rowEntry, rowCount)
	for i := range entries {
		off := pos + i*8
		entries[i].rowNumber = binary.LittleEndian.Uint32(buf[off:])
		entries[i].offset = binary.LittleEndian.Uint32(buf[off+4:])
	}
	pos = rowIndexEnd

	strs, consumed, err := decodeRawStringTable(buf[pos:])
	if err != nil {
		return nil, err
	}
	pos += consumed
	cellData := buf[pos:]

	var rows []RawRow
	for _, e := range entries {
		if e.offset == 0xFFFFFFFF {
			continue
		}
		var cells []RawCell
		if !sparse {
			base := int(e.offset)
			for c := 0; c < int(colCount); c++ {
				cpos := base + c*9
				if cpos+9 > len(cellData) {
					break
				}
				tag := rawCellTag(cellData[cpos])
				if tag == rawTagEmpty {
					continue
				}
				v := rawCellFromPayload(tag, cellData[cpos+1:cpos+9], strs)
				cells = append(cells, RawCell{Col: c + 1, Value: v})
			}
		} else {
			base := int(e.offset)
			if base+2 > len(cellData) {
				continue
			}
			cnt := binary.LittleEndian.Uint16(cellData[base:])
			base += 2
			for i := 0; i < int(cnt); i++ {
				cpos := base + i*11
				if cpos+11 > len(cellData) {
					break
				}
				col := binary.LittleEndian.Uint16(cellData[cpos:])
				tag := rawCellTag(cellData[cpos+2])
				v := rawCellFromPayload(tag, cellData[cpos+3:cpos+11], strs)
				cells = append(cells, RawCell{Col: int(col) + 1, Value: v})
			}
		}
		rows = append(rows, RawRow{Row: int(e.rowNumber), Cells: cells})
	}
	return rows, nil
}

// CellsToRawBuffer encodes an explicit (row, cells) list into the same
// raw binary transfer format decoded by RawBufferToCells, independent of
// any live Sheet (§4.8's dual encode direction).
func CellsToRawBuffer(rows []RawRow) []byte {
	return cellsToRawBuffer(rows)
}

// cellsToRawBuffer encodes an explicit (row, cells) list into the same
// format decoded by rawBufferToRows, independent of any live Sheet.
func cellsToRawBuffer(rows []RawRow) []byte {
	if len(rows) == 0 {
		return rawEmptyBuffer()
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Row < rows[j].Row })

	minRow, maxRow := rows[0].Row, rows[len(rows)-1].Row
	maxCol := 0
	cellsWritten := 0
	for _, r := range rows {
		for _, c := range r.Cells {
			if c.Col > maxCol {
				maxCol = c.Col
			}
		}
		cellsWritten += len(r.Cells)
	}
	if maxCol == 0 {
		return rawEmptyBuffer()
	}
	minCol := 1
	rowSpan := maxRow - minRow + 1
	colSpan := maxCol - minCol + 1
	density := float64(cellsWritten) / float64(rowSpan*colSpan)
	sparse := density < rawSparseDensity

	byRow := map[int][]RawCell{}
	for _, r := range rows {
		sorted := append([]RawCell{}, r.Cells...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Col < sorted[j].Col })
		byRow[r.Row] = sorted
	}

	strTab := newRawStringTable()
	header := make([]byte, 16)
	binary.LittleEndian.PutUint32(header[0:4], rawCodecMagic)
	binary.LittleEndian.PutUint16(header[4:6], rawCodecVersion)
	binary.LittleEndian.PutUint32(header[6:10], uint32(rowSpan))
	binary.LittleEndian.PutUint16(header[10:12], uint16(colSpan))
	if sparse {
		binary.LittleEndian.PutUint32(header[12:16], rawCodecSparseFlag)
	}

	rowIndex := make([]byte, rowSpan*8)
	var cellData []byte

	if !sparse {
		cellData = make([]byte, rowSpan*colSpan*9)
		for i := 0; i < rowSpan; i++ {
			rn := minRow + i
			binary.LittleEndian.PutUint32(rowIndex[i*8:], uint32(rn))
			cells, ok := byRow[rn]
			if !ok {
				binary.LittleEndian.PutUint32(rowIndex[i*8+4:], 0xFFFFFFFF)
				continue
			}
			offset := uint32(i * colSpan * 9)
			binary.LittleEndian.PutUint32(rowIndex[i*8+4:], offset)
			for _, c := range cells {
				tag, payload := rawCellPayload(c.Value, strTab)
				pos := int(offset) + (c.Col-minCol)*9
				cellData[pos] = byte(tag)
				copy(cellData[pos+1:pos+9], payload[:])
			}
		}
	} else {
		var buf []byte
		for i := 0; i < rowSpan; i++ {
			rn := minRow + i
			binary.LittleEndian.PutUint32(rowIndex[i*8:], uint32(rn))
			cells, ok := byRow[rn]
			if !ok || len(cells) == 0 {
				binary.LittleEndian.PutUint32(rowIndex[i*8+4:], 0xFFFFFFFF)
				continue
			}
			binary.LittleEndian.PutUint32(rowIndex[i*8+4:], uint32(len(buf)))
			cnt := make([]byte, 2)
			binary.LittleEndian.PutUint16(cnt, uint16(len(cells)))
			buf = append(buf, cnt...)
			for _, c := range cells {
				tag, payload := rawCellPayload(c.Value, strTab)
				entry := make([]byte, 11)
				binary.LittleEndian.PutUint16(entry[0:2], uint16(c.Col-minCol))
				entry[2] = byte(tag)
				copy(entry[3:11], payload[:])
				buf = append(buf, entry...)
			}
		}
		cellData = buf
	}

	out := append([]byte{}, header...)
	out = append(out, rowIndex...)
	out = append(out, strTab.encode()...)
	out = append(out, cellData...)
	return out
}
