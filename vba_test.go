package sheetkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDecompressOVBAUncompressedChunk covers a chunk whose compressed flag
// (header bit 15) is clear: the chunk body is copied through verbatim.
func TestDecompressOVBAUncompressedChunk(t *testing.T) {
	payload := []byte("hello vba source")
	chunkSize := len(payload) + 2
	header := uint16(chunkSize - 3) // bit 15 clear: not compressed

	data := []byte{0x01, byte(header), byte(header >> 8)}
	data = append(data, payload...)

	out, err := decompressOVBA(data)
	require.NoError(t, err)
	assert.Equal(t, payload, out)
}

// TestDecompressOVBACompressedChunk covers a compressed chunk's token
// stream: three literal bytes ("ABC") followed by a copy token that repeats
// them twice more, producing "ABCABCABC".
func TestDecompressOVBACompressedChunk(t *testing.T) {
	// flags: bits 0-2 literal (A, B, C), bit 3 a copy token.
	flags := byte(0x08)
	// length=6 (field 3), offset=3 (field 2); bitCount=12 at 3 bytes produced
	// so length occupies the low 4 bits and offset the 12 above: (2<<4)|3 = 0x23.
	tokenLow, tokenHigh := byte(0x23), byte(0x00)
	chunkBody := []byte{flags, 'A', 'B', 'C', tokenLow, tokenHigh}

	chunkSize := len(chunkBody) + 2
	header := uint16(0x8000) | uint16(chunkSize-3) // bit 15 set: compressed

	data := []byte{0x01, byte(header), byte(header >> 8)}
	data = append(data, chunkBody...)

	out, err := decompressOVBA(data)
	require.NoError(t, err)
	assert.Equal(t, []byte("ABCABCABC"), out)
}

func TestDecompressOVBARejectsMissingSignature(t *testing.T) {
	_, err := decompressOVBA([]byte{0x02, 0x00, 0x00})
	assert.Error(t, err)
}

func TestDecodeUTF16LEHandlesBMPAndSurrogatePairs(t *testing.T) {
	// "Hi" followed by U+1F600 (surrogate pair D83D DE00) as little-endian UTF-16.
	b := []byte{'H', 0, 'i', 0, 0x3D, 0xD8, 0x00, 0xDE}
	assert.Equal(t, "Hi\U0001F600", decodeUTF16LE(b))
}

func TestParseDirStreamExtractsModuleAndCodepage(t *testing.T) {
	var data []byte
	writeRecord := func(id uint16, payload []byte) {
		data = append(data, byte(id), byte(id>>8))
		n := uint32(len(payload))
		data = append(data, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
		data = append(data, payload...)
	}

	writeRecord(0x0003, []byte{0xE4, 0x04}) // PROJECTCODEPAGE = 1252
	writeRecord(0x0019, []byte("Module1"))  // MODULENAME
	writeRecord(0x001A, []byte("Module1"))  // MODULESTREAMNAME
	writeRecord(0x0031, []byte{0x10, 0x00, 0x00, 0x00}) // MODULEOFFSET = 16
	writeRecord(0x0021, nil)                // MODULETYPE procedural
	writeRecord(0x002B, nil)                // module terminator
	writeRecord(0x0010, nil)                // global terminator

	modules, codepage := parseDirStream(data)
	assert.Equal(t, 1252, codepage)
	require.Len(t, modules, 1)
	assert.Equal(t, "Module1", modules[0].name)
	assert.Equal(t, "Module1", modules[0].streamName)
	assert.Equal(t, uint32(16), modules[0].textOffset)
	assert.Equal(t, VBAModuleStandard, modules[0].moduleType)
}
