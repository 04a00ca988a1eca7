// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// excelEpoch is the Excel-epoch zero point: 1899-12-30. Per §3, the 1900
// leap-year bug is accepted rather than emulated: serials are converted
// through a plain day-count offset from this epoch.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// SerialToTime converts an Excel-epoch serial number to a UTC time.Time.
func SerialToTime(serial float64) time.Time {
	days := math.Floor(serial)
	frac := serial - days
	secs := math.Round(frac * 86400)
	return excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(secs) * time.Second)
}

// TimeToSerial converts a time.Time to its Excel-epoch serial number.
func TimeToSerial(t time.Time) float64 {
	d := t.UTC().Sub(excelEpoch)
	return d.Hours() / 24
}

// formatGeneral renders a numeric value the way an unformatted "General"
// cell would display it (§4.5 rule 11).
func formatGeneral(v float64) string {
	if v == 0 {
		return "0"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	av := math.Abs(v)
	if av < 1e-4 || av >= 1e15 {
		s := strconv.FormatFloat(v, 'e', 6, 64)
		return normalizeExp(s)
	}
	s := strconv.FormatFloat(v, 'f', 10, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}

func normalizeExp(s string) string {
	// Go renders 1.234500e+05; this returns 1.2345E+5: upper-case E, with
	// trailing mantissa zeros and leading exponent zeros dropped.
	s = strings.ToUpper(s)
	parts := strings.SplitN(s, "E", 2)
	if len(parts) != 2 {
		return s
	}
	mantissa := strings.TrimRight(parts[0], "0")
	mantissa = strings.TrimSuffix(mantissa, ".")
	exp := parts[1]
	sign := "+"
	if exp[0] == '+' || exp[0] == '-' {
		sign = string(exp[0])
		exp = exp[1:]
	}
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + "E" + sign + exp
}

// formatSection is one ;-separated clause with its leading directives
// extracted.
type formatSection struct {
	hasCond bool
	condOp  string
	condVal float64
	cleaned string // remaining text, leading color/cond/locale brackets stripped
}

var colorNames = map[string]bool{
	"red": true, "blue": true, "green": true, "yellow": true, "cyan": true,
	"magenta": true, "white": true, "black": true,
}

func isColorBracket(content string) bool {
	lc := strings.ToLower(content)
	if colorNames[lc] {
		return true
	}
	if strings.HasPrefix(lc, "color") {
		n := strings.TrimPrefix(lc, "color")
		if idx, err := strconv.Atoi(n); err == nil && idx >= 1 && idx <= 10 {
			return true
		}
	}
	return false
}

func isLocaleBracket(content string) bool {
	lc := strings.ToLower(content)
	return strings.HasPrefix(lc, "dbnum") || strings.HasPrefix(lc, "natnum") || strings.HasPrefix(content, "$")
}

var condOperators = []string{"<=", ">=", "<>", "!=", "<", ">", "="}

func parseConditionBracket(content string) (op string, val float64, ok bool) {
	for _, o := range condOperators {
		if strings.HasPrefix(content, o) {
			rest := strings.TrimPrefix(content, o)
			v, err := strconv.ParseFloat(rest, 64)
			if err != nil {
				return "", 0, false
			}
			if o == "!=" {
				o = "<>"
			}
			return o, v, true
		}
	}
	return "", 0, false
}

// stripLeadingDirectives peels off leading [color]/[condition]/[locale]
// bracket groups, leaving embedded elapsed-time brackets ([h],[mm],[ss])
// untouched (§4.5 rule 2, 4).
func stripLeadingDirectives(section string) formatSection {
	fs := formatSection{}
	for strings.HasPrefix(section, "[") {
		end := strings.IndexByte(section, ']')
		if end < 0 {
			break
		}
		content := section[1:end]
		switch {
		case isColorBracket(content):
			section = section[end+1:]
		case !fs.hasCond:
			if op, val, ok := parseConditionBracket(content); ok {
				fs.hasCond, fs.condOp, fs.condVal = true, op, val
				section = section[end+1:]
				continue
			}
			if isLocaleBracket(content) {
				section = section[end+1:]
				continue
			}
			goto done
		case isLocaleBracket(content):
			section = section[end+1:]
		default:
			goto done
		}
	}
done:
	fs.cleaned = section
	return fs
}

// splitFormatSections splits on top-level ';' (not inside "..." or after a
// backslash escape) into at most 4 sections (§4.5 rule 1).
func splitFormatSections(pattern string) []string {
	var sections []string
	var cur strings.Builder
	inQuote := false
	escaped := false
	for _, r := range pattern {
		if escaped {
			cur.WriteRune(r)
			escaped = false
			continue
		}
		switch r {
		case '\\':
			cur.WriteRune(r)
			escaped = true
		case '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case ';':
			if inQuote {
				cur.WriteRune(r)
			} else {
				sections = append(sections, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	sections = append(sections, cur.String())
	if len(sections) > 4 {
		sections = sections[:4]
	}
	return sections
}

func compareCond(value float64, op string, cond float64) bool {
	switch op {
	case "<":
		return value < cond
	case "<=":
		return value <= cond
	case ">":
		return value > cond
	case ">=":
		return value >= cond
	case "=":
		return value == cond
	case "<>":
		return value != cond
	}
	return false
}

// selectSection implements §4.5 rule 3.
func selectSection(value float64, sections []formatSection) (formatSection, bool) {
	anyCond := false
	for _, s := range sections {
		if s.hasCond {
			anyCond = true
			break
		}
	}
	if anyCond {
		for _, s := range sections {
			if s.hasCond && compareCond(value, s.condOp, s.condVal) {
				return s, false
			}
		}
		for _, s := range sections {
			if !s.hasCond {
				return s, false
			}
		}
		return sections[len(sections)-1], false
	}
	switch len(sections) {
	case 0:
		return formatSection{cleaned: "General"}, false
	case 1:
		return sections[0], false
	case 2:
		if value >= 0 {
			return sections[0], false
		}
		return sections[1], true
	default:
		if value > 0 {
			return sections[0], false
		}
		if value < 0 {
			return sections[1], true
		}
		return sections[2], false
	}
}

// FormatNumber renders value per the number-format pattern grammar of §4.5.
func FormatNumber(value float64, pattern string) string {
	if pattern == "@" || pattern == "General" || pattern == "" {
		return formatGeneral(value)
	}
	rawSections := splitFormatSections(pattern)
	sections := make([]formatSection, len(rawSections))
	for i, s := range rawSections {
		sections[i] = stripLeadingDirectives(s)
	}
	sec, useAbs := selectSection(value, sections)
	v := value
	if useAbs {
		v = math.Abs(v)
	}
	if sec.cleaned == "@" {
		return formatGeneral(v)
	}
	if isDateTimeFormat(sec.cleaned) {
		return renderDateTime(v, sec.cleaned)
	}
	if strings.Contains(sec.cleaned, "?") && strings.Contains(sec.cleaned, "/") {
		return renderFraction(v, sec.cleaned)
	}
	if hasUnquotedExp(sec.cleaned) {
		return renderScientific(v, sec.cleaned)
	}
	return renderNumeric(v, sec.cleaned)
}

// FormatWithBuiltin renders value using a built-in format id (0-49).
func FormatWithBuiltin(value float64, id uint32) (string, bool) {
	pat, ok := BuiltinNumFmts[int(id)]
	if !ok {
		return "", false
	}
	return FormatNumber(value, pat), true
}

// scanUnquoted walks s, invoking visit(i, c) with the byte offset and byte
// of each non-quoted, non-escaped character; used by the date/scientific
// detectors.
func scanUnquoted(s string, visit func(i int, r byte)) {
	inQuote := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
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
			if !inQuote {
				visit(i, c)
			}
		}
	}
}

func isDateTimeFormat(s string) bool {
	found := false
	scanUnquoted(s, func(i int, r byte) {
		switch r {
		case 'y', 'd', 'h', 's', 'm', 'Y', 'D', 'H', 'S', 'M':
			found = true
		}
	})
	return found
}

func hasUnquotedExp(s string) bool {
	found := false
	scanUnquoted(s, func(i int, r byte) {
		if r == 'E' || r == 'e' {
			found = true
		}
	})
	return found
}
