// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"encoding/binary"
	"io"
	"unicode/utf16"
)

// writeCompoundFile emits a minimal two-stream OLE2 compound file holding
// "EncryptionInfo" and "EncryptedPackage" at the root storage, the layout
// MS-OFFCRYPTO expects for an Agile-encrypted package (§4.11). mscfb (the
// teacher's compound-file dependency) is read-only, so the write direction
// is a small hand-rolled CFB encoder grounded directly on [MS-CFB].
const (
	cfbSectorSize = 512
	cfbFreeSect   = 0xFFFFFFFF
	cfbEndOfChain = 0xFFFFFFFE
	cfbFatSect    = 0xFFFFFFFD
)

func cfbDirName(name string) [64]byte {
	var buf [64]byte
	units := utf16.Encode([]rune(name))
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[i*2:], u)
	}
	return buf
}

func writeCompoundFile(w io.Writer, encryptionInfo, encryptedPackage []byte) error {
	numSectors := func(n int) int { return (n + cfbSectorSize - 1) / cfbSectorSize }
	numA := numSectors(len(encryptionInfo))
	numB := numSectors(len(encryptedPackage))
	other := 1 + numA + numB // 1 directory sector + data sectors
	numFat := (other + 126) / 127

	dirSector := numFat
	startA := dirSector + 1
	startB := startA + numA
	totalSectors := numFat + other

	fat := make([]uint32, numFat*128)
	for i := range fat {
		fat[i] = cfbFreeSect
	}
	for i := 0; i < numFat; i++ {
		fat[i] = cfbFatSect
	}
	fat[dirSector] = cfbEndOfChain
	chainSectors := func(start, count int) {
		for i := 0; i < count; i++ {
			if i == count-1 {
				fat[start+i] = cfbEndOfChain
			} else {
				fat[start+i] = uint32(start + i + 1)
			}
		}
	}
	if numA > 0 {
		chainSectors(startA, numA)
	}
	if numB > 0 {
		chainSectors(startB, numB)
	}

	header := make([]byte, 512)
	copy(header[0:8], []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	binary.LittleEndian.PutUint16(header[24:26], 0x003E) // minor version
	binary.LittleEndian.PutUint16(header[26:28], 0x0003) // major version 3
	binary.LittleEndian.PutUint16(header[28:30], 0xFFFE) // byte order
	binary.LittleEndian.PutUint16(header[30:32], 0x0009) // sector shift: 512
	binary.LittleEndian.PutUint16(header[32:34], 0x0006) // mini sector shift: 64
	binary.LittleEndian.PutUint32(header[40:44], uint32(numFat))
	binary.LittleEndian.PutUint32(header[44:48], uint32(dirSector))
	binary.LittleEndian.PutUint32(header[56:60], 0) // mini stream cutoff: 0, no mini stream used
	binary.LittleEndian.PutUint32(header[60:64], cfbEndOfChain)
	binary.LittleEndian.PutUint32(header[64:68], 0) // number of mini FAT sectors
	binary.LittleEndian.PutUint32(header[68:72], cfbEndOfChain)
	binary.LittleEndian.PutUint32(header[72:76], 0) // number of DIFAT sectors
	for i := 0; i < 109; i++ {
		off := 76 + i*4
		if i < numFat {
			binary.LittleEndian.PutUint32(header[off:off+4], uint32(i))
		} else {
			binary.LittleEndian.PutUint32(header[off:off+4], cfbFreeSect)
		}
	}

	if _, err := w.Write(header); err != nil {
		return wrapf(ErrIO, "compound file header: %v", err)
	}

	fatBytes := make([]byte, numFat*cfbSectorSize)
	for i, v := range fat {
		binary.LittleEndian.PutUint32(fatBytes[i*4:], v)
	}
	if _, err := w.Write(fatBytes); err != nil {
		return wrapf(ErrIO, "compound file FAT: %v", err)
	}

	dir := make([]byte, cfbSectorSize)
	writeEntry := func(idx int, name string, objType byte, left, right, child uint32, start uint32, size uint64) {
		off := idx * 128
		nameBytes := cfbDirName(name)
		copy(dir[off:off+64], nameBytes[:])
		binary.LittleEndian.PutUint16(dir[off+64:off+66], uint16((len(name)+1)*2))
		dir[off+66] = objType
		dir[off+67] = 1 // color: black
		binary.LittleEndian.PutUint32(dir[off+68:off+72], left)
		binary.LittleEndian.PutUint32(dir[off+72:off+76], right)
		binary.LittleEndian.PutUint32(dir[off+76:off+80], child)
		binary.LittleEndian.PutUint32(dir[off+116:off+120], start)
		binary.LittleEndian.PutUint64(dir[off+120:off+128], size)
	}
	writeEntry(0, "Root Entry", 5, cfbFreeSect, cfbFreeSect, 1, cfbEndOfChain, 0)
	writeEntry(1, "EncryptionInfo", 2, cfbFreeSect, 2, cfbFreeSect, uint32(startA), uint64(len(encryptionInfo)))
	writeEntry(2, "EncryptedPackage", 2, cfbFreeSect, cfbFreeSect, cfbFreeSect, uint32(startB), uint64(len(encryptedPackage)))
	if _, err := w.Write(dir); err != nil {
		return wrapf(ErrIO, "compound file directory: %v", err)
	}

	writePadded := func(data []byte, sectors int) error {
		if _, err := w.Write(data); err != nil {
			return wrapf(ErrIO, "compound file stream: %v", err)
		}
		pad := sectors*cfbSectorSize - len(data)
		if pad > 0 {
			if _, err := w.Write(make([]byte, pad)); err != nil {
				return wrapf(ErrIO, "compound file stream padding: %v", err)
			}
		}
		return nil
	}
	if err := writePadded(encryptionInfo, numA); err != nil {
		return err
	}
	if err := writePadded(encryptedPackage, numB); err != nil {
		return err
	}

	_ = totalSectors
	return nil
}
