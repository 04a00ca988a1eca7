// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

func splitIntFrac(v float64, decimals int) (int64, int64) {
	scale := math.Pow(10, float64(decimals))
	scaled := int64(math.Round(v * scale))
	pow := int64(scale)
	if pow == 0 {
		pow = 1
	}
	return scaled / pow, scaled % pow
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}

func countDecimalPlacesAfterDot(pattern string) int {
	dotIdx := unquotedIndex(pattern, '.')
	if dotIdx < 0 {
		return 0
	}
	count := 0
	for i := dotIdx + 1; i < len(pattern) && (pattern[i] == '0' || pattern[i] == '#'); i++ {
		count++
	}
	return count
}

func lastUnquotedDigitPlaceholder(pattern string) int {
	last := -1
	inQuote, escaped := false, false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			inQuote = !inQuote
		case '0', '#':
			if !inQuote {
				last = i
			}
		}
	}
	return last
}

func unquotedIndex(pattern string, target byte) int {
	inQuote, escaped := false, false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			inQuote = !inQuote
		default:
			if !inQuote && c == target {
				return i
			}
		}
	}
	return -1
}

func countLeadingZeroDigits(pattern string) int {
	dotIdx := unquotedIndex(pattern, '.')
	end := dotIdx
	if end < 0 {
		end = lastUnquotedDigitPlaceholder(pattern) + 1
	}
	count := 0
	for i := 0; i < end; i++ {
		if pattern[i] == '0' {
			count++
		}
	}
	return count
}

func trailingScaleCommas(pattern string, lastDigitIdx int) int {
	if lastDigitIdx < 0 {
		return 0
	}
	count := 0
	for j := lastDigitIdx + 1; j < len(pattern) && pattern[j] == ','; j++ {
		count++
	}
	return count
}

func hasGroupingComma(pattern string, lastDigitIdx int) bool {
	end := lastDigitIdx + 1
	if end > len(pattern) {
		end = len(pattern)
	}
	if end < 0 {
		return false
	}
	return strings.Contains(pattern[:end], ",")
}

// renderNumeric implements §4.5 rule 9.
func renderNumeric(value float64, pattern string) string {
	percent := false
	scanUnquoted(pattern, func(i int, r byte) {
		if r == '%' {
			percent = true
		}
	})
	lastDigitIdx := lastUnquotedDigitPlaceholder(pattern)
	commaCount := trailingScaleCommas(pattern, lastDigitIdx)

	v := value
	if percent {
		v *= 100
	}
	for k := 0; k < commaCount; k++ {
		v /= 1000
	}

	decimals := countDecimalPlacesAfterDot(pattern)
	minIntDigits := countLeadingZeroDigits(pattern)
	grouping := hasGroupingComma(pattern, lastDigitIdx)

	neg := v < 0
	av := math.Abs(v)
	rounded := roundTo(av, decimals)
	intPart, fracPart := splitIntFrac(rounded, decimals)
	intStr := strconv.FormatInt(intPart, 10)
	for len(intStr) < minIntDigits {
		intStr = "0" + intStr
	}
	if grouping {
		intStr = groupThousands(intStr)
	}
	var numStr string
	if decimals > 0 {
		fracStr := strconv.FormatInt(fracPart, 10)
		for len(fracStr) < decimals {
			fracStr = "0" + fracStr
		}
		numStr = intStr + "." + fracStr
	} else {
		numStr = intStr
	}
	if neg && rounded != 0 {
		numStr = "-" + numStr
	}
	return assembleNumericOutput(pattern, numStr)
}

func assembleNumericOutput(pattern, numStr string) string {
	var b strings.Builder
	escaped := false
	placed := false
	i := 0
	n := len(pattern)
	for i < n {
		c := pattern[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			i++
			continue
		}
		switch {
		case c == '\\':
			escaped = true
			i++
		case c == '"':
			j := strings.IndexByte(pattern[i+1:], '"')
			if j < 0 {
				b.WriteString(pattern[i+1:])
				i = n
			} else {
				b.WriteString(pattern[i+1 : i+1+j])
				i = i + 1 + j + 1
			}
		case c == '_':
			b.WriteByte(' ')
			i += 2
		case c == '*':
			i += 2
		case c == '0' || c == '#' || c == '?' || c == ',' || c == '.':
			if !placed {
				b.WriteString(numStr)
				placed = true
			}
			i++
			for i < n && (pattern[i] == '0' || pattern[i] == '#' || pattern[i] == '?' || pattern[i] == ',' || pattern[i] == '.') {
				i++
			}
		case c == '%':
			b.WriteByte('%')
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	if !placed && strings.ContainsAny(pattern, "0#") {
		// A pattern with no literal placeholder position but a digit token
		// somewhere unusual still gets the number; a pure-literal pattern
		// (e.g. a conditional section's bare "text") never does.
		b.WriteString(numStr)
	}
	return b.String()
}

// renderFraction implements §4.5 rule 7.
func renderFraction(value float64, pattern string) string {
	slashIdx := strings.IndexByte(pattern, '/')
	if slashIdx < 0 {
		return renderNumeric(value, pattern)
	}
	j := slashIdx + 1
	qCount := 0
	for j < len(pattern) && pattern[j] == '?' {
		qCount++
		j++
	}
	maxDen := 9
	switch qCount {
	case 2:
		maxDen = 99
	case 3:
		maxDen = 999
	case 4:
		maxDen = 9999
	}
	mixed := strings.ContainsAny(pattern[:slashIdx], "#0")

	sign := ""
	v := value
	if v < 0 {
		sign = "-"
		v = -v
	}
	var intPart, frac float64
	if mixed {
		intPart = math.Trunc(v)
		frac = v - intPart
	} else {
		frac = v
	}

	bestNum, bestDen := 0, 1
	bestDiff := math.Inf(1)
	for den := 1; den <= maxDen; den++ {
		num := math.Round(frac * float64(den))
		diff := math.Abs(frac - num/float64(den))
		if diff < bestDiff {
			bestDiff, bestNum, bestDen = diff, int(num), den
			if diff == 0 {
				break
			}
		}
	}
	if bestNum == bestDen && bestDen != 0 {
		intPart++
		bestNum = 0
	}
	if bestNum == 0 {
		return sign + strconv.FormatFloat(intPart, 'f', 0, 64)
	}
	if intPart != 0 {
		return fmt.Sprintf("%s%s %d/%d", sign, strconv.FormatFloat(intPart, 'f', 0, 64), bestNum, bestDen)
	}
	return fmt.Sprintf("%s%d/%d", sign, bestNum, bestDen)
}

// renderScientific implements §4.5 rule 8.
func renderScientific(value float64, pattern string) string {
	idx := -1
	var echar byte
	scanUnquoted(pattern, func(i int, r byte) {
		if (r == 'E' || r == 'e') && idx == -1 {
			idx = i
			echar = r
		}
	})
	if idx < 0 {
		return renderNumeric(value, pattern)
	}
	mantissaPat := pattern[:idx]
	rest := pattern[idx+1:]
	sign := ""
	if len(rest) > 0 && (rest[0] == '+' || rest[0] == '-') {
		sign = string(rest[0])
		rest = rest[1:]
	}
	zeros := 0
	for zeros < len(rest) && rest[zeros] == '0' {
		zeros++
	}
	width := zeros
	if width < 2 {
		width = 2
	}
	neg := value < 0
	av := math.Abs(value)
	decimals := countDecimalPlacesAfterDot(mantissaPat)

	exp := 0
	mantissa := av
	if av != 0 {
		exp = int(math.Floor(math.Log10(av)))
		mantissa = av / math.Pow(10, float64(exp))
	}
	mantissaRounded := roundTo(mantissa, decimals)
	if mantissaRounded >= 10 {
		mantissaRounded /= 10
		exp++
	}
	mantissaStr := strconv.FormatFloat(mantissaRounded, 'f', decimals, 64)
	if neg {
		mantissaStr = "-" + mantissaStr
	}
	expSign := ""
	if exp < 0 {
		expSign = "-"
	} else if sign == "+" {
		expSign = "+"
	}
	expAbs := exp
	if expAbs < 0 {
		expAbs = -expAbs
	}
	expStr := fmt.Sprintf("%0*d", width, expAbs)
	return fmt.Sprintf("%s%c%s%s", mantissaStr, echar, expSign, expStr)
}
