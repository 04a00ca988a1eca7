// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"encoding/binary"
	"io"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
)

// agileEncryptionInfo is the parsed EncryptionInfo descriptor of §4.11:
// enough of the MS-OFFCRYPTO Agile schema to re-derive the package key.
type agileEncryptionInfo struct {
	SpinCount     uint32
	KeyBits       uint32
	HashSize      uint32
	BlockSize     uint32
	SaltValue     []byte // password key-encryptor salt
	VerifierInput []byte // encryptedVerifierHashInput
	VerifierValue []byte // encryptedVerifierHashValue
	EncryptedKey  []byte // encryptedKeyValue
	KeyDataSalt   []byte // keyData salt, used for segment IVs
	HMACKey       []byte // encryptedHmacKey
	HMACValue     []byte // encryptedHmacValue
}

var (
	blockKeyVerifierInput = []byte{0xfe, 0xa7, 0xd2, 0x76, 0x3b, 0x4b, 0x9e, 0x79}
	blockKeyVerifierValue = []byte{0xd7, 0xaa, 0x0f, 0x6d, 0x30, 0x61, 0x34, 0x4e}
	blockKeyKeyValue      = []byte{0x14, 0x6e, 0x0b, 0xe7, 0xab, 0xac, 0xd0, 0xd6}
	blockKeyHMACKey       = []byte{0x5f, 0xb2, 0xad, 0x01, 0x0c, 0xb9, 0xe1, 0xf6}
	blockKeyHMACValue     = []byte{0xa0, 0x67, 0x7f, 0x02, 0xb2, 0x2c, 0x84, 0x33}
)

// passwordUTF16LE encodes a password as UTF-16LE, the form the agile KDF
// hashes alongside the salt.
func passwordUTF16LE(password string) []byte {
	units := utf16.Encode([]rune(password))
	buf := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[i*2:], u)
	}
	return buf
}

// deriveAgileKey implements the per-block-key derivation of §4.11: H0 over
// salt+password, spin_count rounds of Hi = SHA512(i || Hi-1), a final round
// folding in blockKey, truncated/padded to keyBytes.
func deriveAgileKey(salt []byte, password string, spinCount uint32, blockKey []byte, keyBytes int) []byte {
	h := sha512.New()
	h.Write(salt)
	h.Write(passwordUTF16LE(password))
	hVal := h.Sum(nil)

	var iBuf [4]byte
	for i := uint32(0); i < spinCount; i++ {
		binary.LittleEndian.PutUint32(iBuf[:], i)
		h.Reset()
		h.Write(iBuf[:])
		h.Write(hVal)
		hVal = h.Sum(nil)
	}

	h.Reset()
	h.Write(hVal)
	h.Write(blockKey)
	final := h.Sum(nil)

	out := make([]byte, keyBytes)
	n := copy(out, final)
	for i := n; i < keyBytes; i++ {
		out[i] = 0x36
	}
	return out
}

func aesCBCDecrypt(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, wrapf(ErrInternal, "aes cipher: %v", err)
	}
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, wrapf(ErrInternal, "ciphertext not block-aligned")
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return out, nil
}

func aesCBCEncrypt(key, iv, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, wrapf(ErrInternal, "aes cipher: %v", err)
	}
	padded := make([]byte, len(plaintext))
	copy(padded, plaintext)
	if rem := len(padded) % aes.BlockSize; rem != 0 {
		padded = append(padded, make([]byte, aes.BlockSize-rem)...)
	}
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

// verifyAgilePassword implements §4.11's password-verification dance,
// returning the derived 32-byte package key on success.
func verifyAgilePassword(info *agileEncryptionInfo, password string) ([]byte, error) {
	keyBytes := int(info.KeyBits / 8)
	verifierInputKey := deriveAgileKey(info.SaltValue, password, info.SpinCount, blockKeyVerifierInput, keyBytes)
	decryptedInput, err := aesCBCDecrypt(verifierInputKey, info.SaltValue, info.VerifierInput)
	if err != nil {
		return nil, err
	}
	decryptedInput = decryptedInput[:16]

	verifierValueKey := deriveAgileKey(info.SaltValue, password, info.SpinCount, blockKeyVerifierValue, keyBytes)
	decryptedHash, err := aesCBCDecrypt(verifierValueKey, info.SaltValue, info.VerifierValue)
	if err != nil {
		return nil, err
	}
	decryptedHash = decryptedHash[:info.HashSize]

	sum := sha512.Sum512(decryptedInput)
	if !hmac.Equal(sum[:info.HashSize], decryptedHash) {
		return nil, wrapf(ErrIncorrectPassword, "password verification failed")
	}

	keyValueKey := deriveAgileKey(info.SaltValue, password, info.SpinCount, blockKeyKeyValue, keyBytes)
	decryptedKey, err := aesCBCDecrypt(keyValueKey, info.SaltValue, info.EncryptedKey)
	if err != nil {
		return nil, err
	}
	return decryptedKey[:keyBytes], nil
}

const agileSegmentSize = 4096

// segmentIV derives the IV for ciphertext segment i: SHA512(keyDataSalt ||
// i-as-u32-LE), truncated to blockSize bytes.
func segmentIV(keyDataSalt []byte, i uint32, blockSize int) []byte {
	var iBuf [4]byte
	binary.LittleEndian.PutUint32(iBuf[:], i)
	h := sha512.New()
	h.Write(keyDataSalt)
	h.Write(iBuf[:])
	sum := h.Sum(nil)
	return sum[:blockSize]
}

// decryptAgilePackage implements §4.11's package-decryption direction:
// the first 8 bytes of ciphertext are the plaintext size (u64 LE), the
// remainder is segmented AES-256-CBC ciphertext.
func decryptAgilePackage(info *agileEncryptionInfo, key, encryptedPackage []byte) ([]byte, error) {
	if len(encryptedPackage) < 8 {
		return nil, wrapf(ErrInternal, "encrypted package too short")
	}
	plainSize := binary.LittleEndian.Uint64(encryptedPackage[:8])
	ciphertext := encryptedPackage[8:]

	blockSize := int(info.BlockSize)
	if blockSize == 0 {
		blockSize = 16
	}
	var out bytes.Buffer
	for i := uint32(0); i*agileSegmentSize < uint32(len(ciphertext)); i++ {
		start := i * agileSegmentSize
		end := start + agileSegmentSize
		if end > uint32(len(ciphertext)) {
			end = uint32(len(ciphertext))
		}
		iv := segmentIV(info.KeyDataSalt, i, blockSize)
		plain, err := aesCBCDecrypt(key, iv, ciphertext[start:end])
		if err != nil {
			return nil, err
		}
		out.Write(plain)
	}
	plain := out.Bytes()
	if uint64(len(plain)) > plainSize {
		plain = plain[:plainSize]
	}
	return plain, nil
}

// encryptAgilePackage implements §4.11's package-encryption direction,
// returning the segmented ciphertext with its 8-byte size prefix.
func encryptAgilePackage(info *agileEncryptionInfo, key, plaintext []byte) []byte {
	blockSize := int(info.BlockSize)
	if blockSize == 0 {
		blockSize = 16
	}
	var out bytes.Buffer
	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], uint64(len(plaintext)))
	out.Write(sizeBuf[:])

	for i := uint32(0); int(i)*agileSegmentSize < len(plaintext); i++ {
		start := int(i) * agileSegmentSize
		end := start + agileSegmentSize
		if end > len(plaintext) {
			end = len(plaintext)
		}
		iv := segmentIV(info.KeyDataSalt, i, blockSize)
		seg, _ := aesCBCEncrypt(key, iv, plaintext[start:end])
		out.Write(seg)
	}
	return out.Bytes()
}

// randomBytes returns n cryptographically random bytes, panicking only if
// the system CSPRNG itself is unavailable (treated as unrecoverable,
// since a broken CSPRNG cannot be worked around).
func randomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// NewAgileEncryptedPackage encrypts plaintext (a fully serialized .xlsx
// package) under password, returning an EncryptionInfo descriptor and the
// EncryptedPackage ciphertext ready to be wrapped in a compound file.
func NewAgileEncryptedPackage(plaintext []byte, password string) (*agileEncryptionInfo, []byte, error) {
	const keyBits = 256
	const hashSize = 64
	const blockSize = 16
	const spinCount = 100000

	info := &agileEncryptionInfo{
		SpinCount:   spinCount,
		KeyBits:     keyBits,
		HashSize:    hashSize,
		BlockSize:   blockSize,
		SaltValue:   randomBytes(16),
		KeyDataSalt: randomBytes(16),
	}

	verifierInput := randomBytes(16)
	verifierInputKey := deriveAgileKey(info.SaltValue, password, spinCount, blockKeyVerifierInput, keyBits/8)
	encVerifierInput, err := aesCBCEncrypt(verifierInputKey, info.SaltValue, verifierInput)
	if err != nil {
		return nil, nil, err
	}
	info.VerifierInput = encVerifierInput

	hashVal := sha512.Sum512(verifierInput)
	verifierValueKey := deriveAgileKey(info.SaltValue, password, spinCount, blockKeyVerifierValue, keyBits/8)
	encVerifierValue, err := aesCBCEncrypt(verifierValueKey, info.SaltValue, hashVal[:hashSize])
	if err != nil {
		return nil, nil, err
	}
	info.VerifierValue = encVerifierValue

	secretKey := randomBytes(keyBits / 8)
	keyValueKey := deriveAgileKey(info.SaltValue, password, spinCount, blockKeyKeyValue, keyBits/8)
	encKey, err := aesCBCEncrypt(keyValueKey, info.SaltValue, secretKey)
	if err != nil {
		return nil, nil, err
	}
	info.EncryptedKey = encKey

	ciphertext := encryptAgilePackage(info, secretKey, plaintext)

	hmacKey := randomBytes(64)
	mac := hmac.New(sha512.New, hmacKey)
	mac.Write(ciphertext)
	hmacValue := mac.Sum(nil)

	hmacKeyKey := deriveAgileKey(info.KeyDataSalt, password, spinCount, blockKeyHMACKey, keyBits/8)
	encHMACKey, err := aesCBCEncrypt(hmacKeyKey, info.KeyDataSalt, hmacKey)
	if err != nil {
		return nil, nil, err
	}
	info.HMACKey = encHMACKey

	hmacValueKey := deriveAgileKey(info.KeyDataSalt, password, spinCount, blockKeyHMACValue, keyBits/8)
	encHMACValue, err := aesCBCEncrypt(hmacValueKey, info.KeyDataSalt, hmacValue)
	if err != nil {
		return nil, nil, err
	}
	info.HMACValue = encHMACValue

	return info, ciphertext, nil
}

// isEncryptedPackage reports whether r begins with a compound-file magic
// number rather than a ZIP local-file-header signature.
func isEncryptedPackage(r io.ReaderAt) bool {
	var sig [4]byte
	if _, err := r.ReadAt(sig[:], 0); err != nil {
		return false
	}
	return sig[0] == 0xd0 && sig[1] == 0xcf && sig[2] == 0x11 && sig[3] == 0xe0
}

// readEncryptedPackage walks the OLE2 compound-file container (via mscfb) for
// its EncryptionInfo and EncryptedPackage streams, and returns the decrypted
// ZIP bytes.
func readEncryptedPackage(r io.ReaderAt, size int64, password string) ([]byte, error) {
	doc, err := mscfb.New(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, wrapf(ErrInternal, "compound file: %v", err)
	}
	var encryptionInfo, encryptedPackage []byte
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		buf := make([]byte, entry.Size)
		if _, rerr := io.ReadFull(doc, buf); rerr != nil && rerr != io.EOF {
			continue
		}
		switch entry.Name {
		case "EncryptionInfo":
			encryptionInfo = buf
		case "EncryptedPackage":
			encryptedPackage = buf
		}
	}
	if encryptionInfo == nil || encryptedPackage == nil {
		return nil, wrapf(ErrInternal, "encrypted package missing required streams")
	}
	info, err := parseAgileEncryptionInfo(encryptionInfo)
	if err != nil {
		return nil, err
	}
	key, err := verifyAgilePassword(info, password)
	if err != nil {
		return nil, err
	}
	return decryptAgilePackage(info, key, encryptedPackage)
}
