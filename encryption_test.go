package sheetkit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgilePackageRoundTrip(t *testing.T) {
	plain := []byte("the quick brown fox jumps over the lazy dog, repeated enough to span more than one 4096-byte segment: " +
		string(make([]byte, 5000)))

	info, ciphertext, err := NewAgileEncryptedPackage(plain, "correct horse battery staple")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeCompoundFile(&buf, marshalAgileEncryptionInfo(info), ciphertext))

	decoded, err := readEncryptedPackage(bytes.NewReader(buf.Bytes()), int64(buf.Len()), "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, plain, decoded)
}

func TestAgilePackageWrongPasswordFails(t *testing.T) {
	plain := []byte("secret contents")
	info, ciphertext, err := NewAgileEncryptedPackage(plain, "hunter2")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeCompoundFile(&buf, marshalAgileEncryptionInfo(info), ciphertext))

	_, err = readEncryptedPackage(bytes.NewReader(buf.Bytes()), int64(buf.Len()), "wrong password")
	assert.ErrorIs(t, err, ErrIncorrectPassword)
}

func TestIsEncryptedPackageDetectsCompoundFileMagic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCompoundFile(&buf, []byte("info"), []byte("package")))
	assert.True(t, isEncryptedPackage(bytes.NewReader(buf.Bytes())))

	assert.False(t, isEncryptedPackage(bytes.NewReader([]byte("PK\x03\x04rest of a zip"))))
}

func TestSaveEncryptedOpenRoundTrip(t *testing.T) {
	wb := NewWorkbook()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	require.NoError(t, s.SetCellValue("A1", StringValue("protected")))
	require.NoError(t, s.SetCellValue("B1", NumberValue(42)))

	var buf bytes.Buffer
	require.NoError(t, SaveEncrypted(wb, &buf, "s3cr3t"))

	reopened, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()), OpenOptions{Password: "s3cr3t"})
	require.NoError(t, err)

	rs, err := reopened.Sheet("Sheet1")
	require.NoError(t, err)
	v, err := rs.GetCellValue("A1")
	require.NoError(t, err)
	assert.Equal(t, "protected", v.PlainText())

	_, err = Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()), OpenOptions{Password: "nope"})
	assert.Error(t, err)
}

func TestDeriveAgileKeyIsDeterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	k1 := deriveAgileKey(salt, "password", 100, blockKeyVerifierInput, 32)
	k2 := deriveAgileKey(salt, "password", 100, blockKeyVerifierInput, 32)
	assert.Equal(t, k1, k2)

	k3 := deriveAgileKey(salt, "different", 100, blockKeyVerifierInput, 32)
	assert.NotEqual(t, k1, k3)
}
