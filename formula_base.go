// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import "strings"

// baseSpec describes one of BIN/OCT/HEX's native width and validation rules
// per §4.9's base-conversion contracts.
type baseSpec struct {
	base       int64
	digits     string
	nativeBits uint
	signMask   int64 // value above which the unsigned reading is negative
	negOffset  int64 // subtracted to recover the signed value
	decMin     int64
	decMax     int64
}

var (
	binSpec = baseSpec{base: 2, digits: "01", nativeBits: 10, signMask: 1<<9 - 1, negOffset: 1 << 10, decMin: -512, decMax: 511}
	octSpec = baseSpec{base: 8, digits: "01234567", nativeBits: 30, signMask: 0x1FFFFFFF, negOffset: 0x40000000, decMin: -536870912, decMax: 536870911}
	hexSpec = baseSpec{base: 16, digits: "0123456789ABCDEF", nativeBits: 40, signMask: 0x7FFFFFFFFF, negOffset: 0x10000000000, decMin: -549755813888, decMax: 549755813887}
)

func validDigits(s, alphabet string) bool {
	for _, r := range strings.ToUpper(s) {
		if !strings.ContainsRune(alphabet, r) {
			return false
		}
	}
	return true
}

// parseBaseInt parses a trimmed digit string of the given base into its
// two's-complement signed native-width value, per §4.9.
func parseBaseInt(s string, spec baseSpec) (int64, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 10 {
		return 0, wrapf(ErrInvalidArgument, "#NUM!")
	}
	if !validDigits(s, spec.digits) {
		return 0, wrapf(ErrInvalidArgument, "#NUM!")
	}
	var unsigned int64
	for _, r := range strings.ToUpper(s) {
		unsigned = unsigned*spec.base + int64(strings.IndexRune(spec.digits, r))
	}
	if unsigned > spec.signMask {
		return unsigned - spec.negOffset, nil
	}
	return unsigned, nil
}

// formatBaseInt renders a signed value in the given base, negative values
// always as a 10-digit two's-complement form, positive values optionally
// padded to places with leading zeros.
func formatBaseInt(v int64, spec baseSpec, places int, havePlaces bool) (string, error) {
	if v < 0 {
		unsigned := v + spec.negOffset
		return toBaseDigits(unsigned, spec, 10), nil
	}
	s := toBaseDigits(v, spec, 0)
	if havePlaces {
		if places < len(s) {
			return "", wrapf(ErrInvalidArgument, "#NUM!")
		}
		s = strings.Repeat("0", places-len(s)) + s
	}
	return s, nil
}

func toBaseDigits(v int64, spec baseSpec, minLen int) string {
	if v == 0 {
		return strings.Repeat("0", max(1, minLen))
	}
	var b strings.Builder
	var digits []byte
	for v > 0 {
		digits = append(digits, spec.digits[v%spec.base])
		v /= spec.base
	}
	for i := len(digits) - 1; i >= 0; i-- {
		b.WriteByte(digits[i])
	}
	s := b.String()
	if len(s) < minLen {
		s = strings.Repeat("0", minLen-len(s)) + s
	}
	return s
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func baseToDecimal(name string, args []string) (evalResult, error) {
	if len(args) < 1 {
		return evalResult{}, wrapf(ErrInvalidArgument, "missing argument")
	}
	spec := baseSpecFor(name[:3])
	v, err := parseBaseInt(parseArgStr(args[0]), spec)
	if err != nil {
		return errResult("#NUM!"), nil
	}
	return numResult(float64(v)), nil
}

func decimalToBase(name string, args []string) (evalResult, error) {
	if len(args) < 1 {
		return evalResult{}, wrapf(ErrInvalidArgument, "missing argument")
	}
	spec := baseSpecFor(name[4:])
	n, err := parseArgNum(args[0])
	if err != nil {
		return errResult("#NUM!"), nil
	}
	v := int64(n)
	if v < spec.decMin || v > spec.decMax {
		return errResult("#NUM!"), nil
	}
	havePlaces := false
	places := 0
	if len(args) >= 2 {
		p, err := parseArgNum(args[1])
		if err != nil {
			return errResult("#NUM!"), nil
		}
		places = int(p)
		havePlaces = true
	}
	s, err := formatBaseInt(v, spec, places, havePlaces)
	if err != nil {
		return errResult("#NUM!"), nil
	}
	return strResult(s), nil
}

func baseToBase(name string, args []string) (evalResult, error) {
	if len(args) < 1 {
		return evalResult{}, wrapf(ErrInvalidArgument, "missing argument")
	}
	fromSpec := baseSpecFor(name[:3])
	toSpec := baseSpecFor(name[4:])
	v, err := parseBaseInt(parseArgStr(args[0]), fromSpec)
	if err != nil {
		return errResult("#NUM!"), nil
	}
	if v < toSpec.decMin || v > toSpec.decMax {
		return errResult("#NUM!"), nil
	}
	havePlaces := false
	places := 0
	if len(args) >= 2 {
		p, err := parseArgNum(args[1])
		if err != nil {
			return errResult("#NUM!"), nil
		}
		places = int(p)
		havePlaces = true
	}
	s, err := formatBaseInt(v, toSpec, places, havePlaces)
	if err != nil {
		return errResult("#NUM!"), nil
	}
	return strResult(s), nil
}

func baseSpecFor(tok string) baseSpec {
	switch strings.ToUpper(tok) {
	case "BIN":
		return binSpec
	case "OCT":
		return octSpec
	case "HEX":
		return hexSpec
	}
	return binSpec
}
