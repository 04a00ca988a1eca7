// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// VBAModuleType classifies a VBA module per its dir-stream MODULETYPE
// record, refined by module name for non-procedural modules (§4.12).
type VBAModuleType int

const (
	VBAModuleStandard VBAModuleType = iota
	VBAModuleClass
	VBAModuleDocument
	VBAModuleThisWorkbook
)

// VBAModule is one extracted macro module: its decompressed, codepage-
// decoded source text.
type VBAModule struct {
	Name       string
	StreamName string
	Type       VBAModuleType
	Source     string
}

// VBAProject is the result of walking and decompressing a vbaProject.bin
// OLE2 compound file (§4.12).
type VBAProject struct {
	CodePage int
	Modules  []VBAModule
	Warnings []Warning
}

// dirModule accumulates the per-module dir-stream fields while scanning.
type dirModule struct {
	name        string
	streamName  string
	textOffset  uint32
	moduleType  VBAModuleType
	haveType    bool
}

// ExtractVBAProject parses a raw vbaProject.bin blob into its constituent
// modules, per §4.12's compound-file walk + MS-OVBA decompression.
func ExtractVBAProject(blob []byte) (*VBAProject, error) {
	doc, err := mscfb.New(bytes.NewReader(blob))
	if err != nil {
		return nil, wrapf(ErrInternal, "vba compound file: %v", err)
	}

	streams := map[string][]byte{}
	for entry, rerr := doc.Next(); rerr == nil; entry, rerr = doc.Next() {
		buf := make([]byte, entry.Size)
		if _, err := io.ReadFull(doc, buf); err != nil && err != io.EOF {
			continue
		}
		path := append(append([]string{}, entry.Path...), entry.Name)
		streams[strings.Join(path, "/")] = buf
	}

	dirRaw, ok := streams[findStream(streams, "dir")]
	if !ok {
		return nil, wrapf(ErrInternal, "vba project: missing dir stream")
	}
	dirDecompressed, err := decompressOVBA(dirRaw)
	if err != nil {
		return nil, wrapf(ErrInternal, "vba project: dir stream: %v", err)
	}

	proj := &VBAProject{CodePage: 1252}
	modules, codepage := parseDirStream(dirDecompressed)
	if codepage != 0 {
		proj.CodePage = codepage
	}

	for _, m := range modules {
		streamKey := findStream(streams, m.streamName)
		raw, ok := streams[streamKey]
		if !ok || int(m.textOffset) > len(raw) {
			proj.Warnings = append(proj.Warnings, Warning{Part: m.streamName, Message: "module stream missing or offset out of range"})
			continue
		}
		src, err := decompressOVBA(raw[m.textOffset:])
		if err != nil {
			proj.Warnings = append(proj.Warnings, Warning{Part: m.streamName, Message: err.Error()})
			continue
		}
		text, warn := decodeVBASource(src, proj.CodePage)
		if warn != "" {
			proj.Warnings = append(proj.Warnings, Warning{Part: m.streamName, Message: warn})
		}
		modType := m.moduleType
		lname := strings.ToLower(m.name)
		if modType == VBAModuleClass {
			switch {
			case lname == "thisworkbook":
				modType = VBAModuleThisWorkbook
			case strings.HasPrefix(lname, "sheet"):
				modType = VBAModuleDocument
			}
		}
		proj.Modules = append(proj.Modules, VBAModule{
			Name:       m.name,
			StreamName: m.streamName,
			Type:       modType,
			Source:     text,
		})
	}
	return proj, nil
}

// findStream locates a stream whose base name matches name, tolerating the
// storage path prefix mscfb reports entries under (e.g. "VBA/dir").
func findStream(streams map[string][]byte, name string) string {
	if _, ok := streams[name]; ok {
		return name
	}
	for k := range streams {
		if strings.HasSuffix(k, "/"+name) {
			return k
		}
	}
	return name
}

// parseDirStream walks the decompressed dir-stream record-id/size/payload
// triples of §4.12, returning the discovered modules and project codepage.
func parseDirStream(data []byte) ([]dirModule, int) {
	var modules []dirModule
	var cur dirModule
	codepage := 0
	i := 0
	flush := func() {
		if cur.name != "" {
			modules = append(modules, cur)
		}
		cur = dirModule{}
	}
	for i+6 <= len(data) {
		id := binary.LittleEndian.Uint16(data[i:])
		size := binary.LittleEndian.Uint32(data[i+2:])
		i += 6
		if i+int(size) > len(data) {
			break
		}
		payload := data[i : i+int(size)]
		i += int(size)
		switch id {
		case 0x0003: // PROJECTCODEPAGE
			if len(payload) >= 2 {
				codepage = int(binary.LittleEndian.Uint16(payload))
			}
		case 0x0019: // MODULENAME
			cur.name = string(payload)
		case 0x0047: // MODULENAMEUNICODE
			cur.name = decodeUTF16LE(payload)
		case 0x001A: // MODULESTREAMNAME
			cur.streamName = string(payload)
		case 0x0031: // MODULEOFFSET
			if len(payload) >= 4 {
				cur.textOffset = binary.LittleEndian.Uint32(payload)
			}
		case 0x0021: // MODULETYPE procedural
			cur.moduleType = VBAModuleStandard
			cur.haveType = true
		case 0x0022: // MODULETYPE non-procedural
			cur.moduleType = VBAModuleClass
			cur.haveType = true
		case 0x002B: // module terminator
			flush()
		case 0x0010: // global terminator
			flush()
			return modules, codepage
		}
	}
	flush()
	return modules, codepage
}

func decodeUTF16LE(b []byte) string {
	if len(b)%2 != 0 {
		b = b[:len(b)-1]
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	var sb strings.Builder
	for _, r := range decodeUTF16Units(units) {
		sb.WriteRune(r)
	}
	return sb.String()
}

func decodeUTF16Units(units []uint16) []rune {
	out := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u >= 0xD800 && u <= 0xDBFF && i+1 < len(units) {
			u2 := units[i+1]
			if u2 >= 0xDC00 && u2 <= 0xDFFF {
				out = append(out, ((rune(u)-0xD800)<<10|(rune(u2)-0xDC00))+0x10000)
				i++
				continue
			}
		}
		out = append(out, rune(u))
	}
	return out
}

// decodeVBASource decodes module source bytes per §4.12's codepage table,
// returning a non-empty warning when it falls back to lossy UTF-8.
func decodeVBASource(b []byte, codepage int) (string, string) {
	switch codepage {
	case 65001, 0:
		return string(b), ""
	case 1252:
		dec := charmap.Windows1252.NewDecoder()
		out, err := dec.Bytes(b)
		if err != nil {
			return string(b), "windows-1252 decode error, falling back to raw bytes"
		}
		return string(out), ""
	case 936:
		dec := simplifiedchinese.GBK.NewDecoder()
		out, err := dec.Bytes(b)
		if err != nil {
			return string(b), "gbk decode error, falling back to raw bytes"
		}
		return string(out), ""
	case 932:
		dec := japanese.ShiftJIS.NewDecoder()
		out, err := dec.Bytes(b)
		if err != nil {
			return string(b), "shift-jis decode error, falling back to raw bytes"
		}
		return string(out), ""
	case 949:
		dec := korean.EUCKR.NewDecoder()
		out, err := dec.Bytes(b)
		if err != nil {
			return string(b), "euc-kr decode error, falling back to raw bytes"
		}
		return string(out), ""
	default:
		return string(b), "unrecognized codepage, decoded as UTF-8 lossy"
	}
}

// decompressOVBA implements the MS-OVBA run-length compression format of
// §4.12: a 0x01 signature byte followed by chunks, each either 4096 bytes
// of literal data or a token-stream of literal bytes and copy tokens.
func decompressOVBA(data []byte) ([]byte, error) {
	if len(data) == 0 || data[0] != 0x01 {
		return nil, wrapf(ErrInternal, "ovba: missing signature byte")
	}
	data = data[1:]
	var out bytes.Buffer
	for len(data) >= 2 {
		header := binary.LittleEndian.Uint16(data)
		chunkSize := int(header&0x0FFF) + 3
		compressed := header&0x8000 != 0
		end := 2 + (chunkSize - 2)
		if end > len(data) {
			end = len(data)
		}
		chunk := data[2:end]
		data = data[end:]
		if !compressed {
			out.Write(chunk)
			continue
		}
		if err := decompressOVBAChunk(chunk, &out); err != nil {
			return nil, err
		}
	}
	return out.Bytes(), nil
}

func ovbaBitCount(chunkLen int) uint {
	switch {
	case chunkLen <= 16:
		return 12
	case chunkLen <= 32:
		return 11
	case chunkLen <= 64:
		return 10
	case chunkLen <= 128:
		return 9
	case chunkLen <= 256:
		return 8
	case chunkLen <= 512:
		return 7
	case chunkLen <= 1024:
		return 6
	case chunkLen <= 2048:
		return 5
	default:
		return 4
	}
}

func decompressOVBAChunk(chunk []byte, out *bytes.Buffer) error {
	chunkStart := out.Len()
	i := 0
	for i < len(chunk) {
		flags := chunk[i]
		i++
		for bit := 0; bit < 8 && i <= len(chunk); bit++ {
			if flags&(1<<uint(bit)) == 0 {
				if i >= len(chunk) {
					break
				}
				out.WriteByte(chunk[i])
				i++
				continue
			}
			if i+2 > len(chunk) {
				break
			}
			token := binary.LittleEndian.Uint16(chunk[i:])
			i += 2
			produced := out.Len() - chunkStart
			bitCount := ovbaBitCount(produced)
			lengthMask := uint16(0xFFFF) >> bitCount
			offsetMask := ^lengthMask
			length := int(token&lengthMask) + 3
			offset := int((token&offsetMask)>>(16-bitCount)) + 1

			buf := out.Bytes()
			copyStart := len(buf) - offset
			if copyStart < 0 {
				return wrapf(ErrInternal, "ovba: copy token offset out of range")
			}
			for k := 0; k < length; k++ {
				out.WriteByte(buf[copyStart+k])
				buf = out.Bytes()
			}
		}
	}
	return nil
}
