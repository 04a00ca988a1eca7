// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/xml"
)

// xlsxEncryption maps the MS-OFFCRYPTO Agile EncryptionInfo XML descriptor
// that follows the stream's 8-byte version header.
type xlsxEncryption struct {
	XMLName       xml.Name             `xml:"encryption"`
	KeyData       xlsxEncKeyData       `xml:"keyData"`
	DataIntegrity xlsxEncDataIntegrity `xml:"dataIntegrity"`
	KeyEncryptors xlsxEncKeyEncryptors `xml:"keyEncryptors"`
}

type xlsxEncKeyData struct {
	SaltSize  uint32 `xml:"saltSize,attr"`
	BlockSize uint32 `xml:"blockSize,attr"`
	KeyBits   uint32 `xml:"keyBits,attr"`
	HashSize  uint32 `xml:"hashSize,attr"`
	SaltValue string `xml:"saltValue,attr"`
}

type xlsxEncDataIntegrity struct {
	EncryptedHmacKey   string `xml:"encryptedHmacKey,attr"`
	EncryptedHmacValue string `xml:"encryptedHmacValue,attr"`
}

type xlsxEncKeyEncryptors struct {
	KeyEncryptor []xlsxEncKeyEncryptor `xml:"keyEncryptor"`
}

type xlsxEncKeyEncryptor struct {
	EncryptedKey xlsxEncEncryptedKey `xml:"encryptedKey"`
}

type xlsxEncEncryptedKey struct {
	SpinCount                     uint32 `xml:"spinCount,attr"`
	KeyBits                       uint32 `xml:"keyBits,attr"`
	HashSize                      uint32 `xml:"hashSize,attr"`
	SaltSize                      uint32 `xml:"saltSize,attr"`
	SaltValue                     string `xml:"saltValue,attr"`
	EncryptedVerifierHashInput    string `xml:"encryptedVerifierHashInput,attr"`
	EncryptedVerifierHashValue    string `xml:"encryptedVerifierHashValue,attr"`
	EncryptedKeyValue             string `xml:"encryptedKeyValue,attr"`
}

// parseAgileEncryptionInfo strips the 8-byte version/reserved header and
// unmarshals the remaining XML into an agileEncryptionInfo.
func parseAgileEncryptionInfo(raw []byte) (*agileEncryptionInfo, error) {
	if len(raw) < 8 {
		return nil, wrapf(ErrInternal, "EncryptionInfo stream too short")
	}
	var enc xlsxEncryption
	if err := xml.Unmarshal(raw[8:], &enc); err != nil {
		return nil, wrapf(ErrXMLParse, "EncryptionInfo: %v", err)
	}
	if len(enc.KeyEncryptors.KeyEncryptor) == 0 {
		return nil, wrapf(ErrInternal, "EncryptionInfo: no key encryptors")
	}
	ek := enc.KeyEncryptors.KeyEncryptor[0].EncryptedKey

	decode := func(s string) []byte {
		b, _ := base64.StdEncoding.DecodeString(s)
		return b
	}

	return &agileEncryptionInfo{
		SpinCount:     ek.SpinCount,
		KeyBits:       ek.KeyBits,
		HashSize:      ek.HashSize,
		BlockSize:     enc.KeyData.BlockSize,
		SaltValue:     decode(ek.SaltValue),
		VerifierInput: decode(ek.EncryptedVerifierHashInput),
		VerifierValue: decode(ek.EncryptedVerifierHashValue),
		EncryptedKey:  decode(ek.EncryptedKeyValue),
		KeyDataSalt:   decode(enc.KeyData.SaltValue),
		HMACKey:       decode(enc.DataIntegrity.EncryptedHmacKey),
		HMACValue:     decode(enc.DataIntegrity.EncryptedHmacValue),
	}, nil
}

// marshalAgileEncryptionInfo renders info back into the EncryptionInfo
// stream format: an 8-byte version/reserved header followed by the XML
// descriptor.
func marshalAgileEncryptionInfo(info *agileEncryptionInfo) []byte {
	enc := xlsxEncryption{
		KeyData: xlsxEncKeyData{
			SaltSize:  uint32(len(info.KeyDataSalt)),
			BlockSize: info.BlockSize,
			KeyBits:   info.KeyBits,
			HashSize:  info.HashSize,
			SaltValue: base64.StdEncoding.EncodeToString(info.KeyDataSalt),
		},
		DataIntegrity: xlsxEncDataIntegrity{
			EncryptedHmacKey:   base64.StdEncoding.EncodeToString(info.HMACKey),
			EncryptedHmacValue: base64.StdEncoding.EncodeToString(info.HMACValue),
		},
		KeyEncryptors: xlsxEncKeyEncryptors{
			KeyEncryptor: []xlsxEncKeyEncryptor{{
				EncryptedKey: xlsxEncEncryptedKey{
					SpinCount:                  info.SpinCount,
					KeyBits:                    info.KeyBits,
					HashSize:                   info.HashSize,
					SaltSize:                   uint32(len(info.SaltValue)),
					SaltValue:                  base64.StdEncoding.EncodeToString(info.SaltValue),
					EncryptedVerifierHashInput: base64.StdEncoding.EncodeToString(info.VerifierInput),
					EncryptedVerifierHashValue: base64.StdEncoding.EncodeToString(info.VerifierValue),
					EncryptedKeyValue:          base64.StdEncoding.EncodeToString(info.EncryptedKey),
				},
			}},
		},
	}
	body, _ := xml.Marshal(enc)
	header := make([]byte, 8)
	binary.LittleEndian.PutUint16(header[0:2], 4) // version major: Agile
	binary.LittleEndian.PutUint16(header[2:4], 4) // version minor
	binary.LittleEndian.PutUint32(header[4:8], 0x40)
	return append(header, body...)
}
