// Copyright 2016 - 2021 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sheetkit

import (
	"fmt"
	"math"
	"strings"
)

type dtTokenKind int

const (
	dtLit dtTokenKind = iota
	dtYear
	dtMonthOrMinuteAmbiguous
	dtMonth
	dtMinute
	dtDay
	dtHour
	dtSecond
	dtAMPM
	dtFrac
	dtElapsedH
	dtElapsedM
	dtElapsedS
)

type dtToken struct {
	kind  dtTokenKind
	text  string // for dtLit
	count int    // run length, or AM/PM form length (5 or 3)
}

var monthShort = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
var monthFull = []string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
var dayShort = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
var dayFull = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func isRuneIn(c byte, set string) bool { return strings.IndexByte(set, c) >= 0 }

func tokenizeDateFormat(s string) []dtToken {
	var toks []dtToken
	i := 0
	n := len(s)
	for i < n {
		c := s[i]
		switch {
		case c == '"':
			j := strings.IndexByte(s[i+1:], '"')
			if j < 0 {
				toks = append(toks, dtToken{kind: dtLit, text: s[i+1:]})
				i = n
				continue
			}
			toks = append(toks, dtToken{kind: dtLit, text: s[i+1 : i+1+j]})
			i = i + 1 + j + 1
		case c == '\\':
			if i+1 < n {
				toks = append(toks, dtToken{kind: dtLit, text: string(s[i+1])})
				i += 2
			} else {
				i++
			}
		case c == '_':
			toks = append(toks, dtToken{kind: dtLit, text: " "})
			i += 2
			if i > n {
				i = n
			}
		case c == '*':
			i += 2
			if i > n {
				i = n
			}
		case c == '[':
			j := strings.IndexByte(s[i:], ']')
			if j < 0 {
				toks = append(toks, dtToken{kind: dtLit, text: s[i:]})
				i = n
				continue
			}
			content := strings.ToLower(s[i+1 : i+j])
			switch content {
			case "h", "hh":
				toks = append(toks, dtToken{kind: dtElapsedH, count: len(content)})
			case "m", "mm":
				toks = append(toks, dtToken{kind: dtElapsedM, count: len(content)})
			case "s", "ss":
				toks = append(toks, dtToken{kind: dtElapsedS, count: len(content)})
			}
			i += j + 1
		case len(s)-i >= 5 && strings.EqualFold(s[i:i+5], "am/pm"):
			toks = append(toks, dtToken{kind: dtAMPM, count: 5})
			i += 5
		case len(s)-i >= 3 && strings.EqualFold(s[i:i+3], "a/p"):
			toks = append(toks, dtToken{kind: dtAMPM, count: 3})
			i += 3
		case c == 'y' || c == 'Y':
			j := i
			for j < n && (s[j] == 'y' || s[j] == 'Y') {
				j++
			}
			toks = append(toks, dtToken{kind: dtYear, count: j - i})
			i = j
		case c == 'm' || c == 'M':
			j := i
			for j < n && (s[j] == 'm' || s[j] == 'M') {
				j++
			}
			toks = append(toks, dtToken{kind: dtMonthOrMinuteAmbiguous, count: j - i})
			i = j
		case c == 'd' || c == 'D':
			j := i
			for j < n && (s[j] == 'd' || s[j] == 'D') {
				j++
			}
			toks = append(toks, dtToken{kind: dtDay, count: j - i})
			i = j
		case c == 'h' || c == 'H':
			j := i
			for j < n && (s[j] == 'h' || s[j] == 'H') {
				j++
			}
			toks = append(toks, dtToken{kind: dtHour, count: j - i})
			i = j
		case c == 's' || c == 'S':
			j := i
			for j < n && (s[j] == 's' || s[j] == 'S') {
				j++
			}
			toks = append(toks, dtToken{kind: dtSecond, count: j - i})
			i = j
		case c == '.':
			j := i + 1
			for j < n && s[j] == '0' {
				j++
			}
			if j > i+1 && len(toks) > 0 && toks[len(toks)-1].kind == dtSecond {
				toks = append(toks, dtToken{kind: dtFrac, count: j - i - 1})
				i = j
			} else {
				toks = append(toks, dtToken{kind: dtLit, text: "."})
				i++
			}
		default:
			toks = append(toks, dtToken{kind: dtLit, text: string(c)})
			i++
		}
	}
	return resolveMinutes(toks)
}

// resolveMinutes disambiguates dtMonthOrMinuteAmbiguous per §4.5 rule 5: an
// m token is minutes iff preceded by h (skipping :, space, [, ]) or followed
// by s (skipping :, space, 0, .).
func resolveMinutes(toks []dtToken) []dtToken {
	isSkippableBefore := func(t dtToken) bool {
		return t.kind == dtLit && (t.text == ":" || t.text == " " || t.text == "[" || t.text == "]")
	}
	isSkippableAfter := func(t dtToken) bool {
		return t.kind == dtLit && (t.text == ":" || t.text == " " || t.text == "0" || t.text == ".")
	}
	for i, t := range toks {
		if t.kind != dtMonthOrMinuteAmbiguous {
			continue
		}
		isMinute := false
		for j := i - 1; j >= 0; j-- {
			if isSkippableBefore(toks[j]) {
				continue
			}
			if toks[j].kind == dtHour {
				isMinute = true
			}
			break
		}
		if !isMinute {
			for j := i + 1; j < len(toks); j++ {
				if isSkippableAfter(toks[j]) {
					continue
				}
				if toks[j].kind == dtSecond {
					isMinute = true
				}
				break
			}
		}
		if isMinute {
			toks[i].kind = dtMinute
		} else {
			toks[i].kind = dtMonth
		}
	}
	return toks
}

func hasAMPM(toks []dtToken) bool {
	for _, t := range toks {
		if t.kind == dtAMPM {
			return true
		}
	}
	return false
}

// renderDateTime implements §4.5 rules 5-6.
func renderDateTime(value float64, pattern string) string {
	toks := tokenizeDateFormat(pattern)
	t := SerialToTime(value)
	twelveHour := hasAMPM(toks)

	var b strings.Builder
	for _, tok := range toks {
		switch tok.kind {
		case dtLit:
			b.WriteString(tok.text)
		case dtYear:
			if tok.count >= 4 {
				fmt.Fprintf(&b, "%04d", t.Year())
			} else {
				fmt.Fprintf(&b, "%02d", t.Year()%100)
			}
		case dtMonth:
			switch {
			case tok.count == 1:
				fmt.Fprintf(&b, "%d", int(t.Month()))
			case tok.count == 2:
				fmt.Fprintf(&b, "%02d", int(t.Month()))
			case tok.count == 3:
				b.WriteString(monthShort[t.Month()-1])
			default:
				b.WriteString(monthFull[t.Month()-1])
			}
		case dtDay:
			switch {
			case tok.count == 1:
				fmt.Fprintf(&b, "%d", t.Day())
			case tok.count == 2:
				fmt.Fprintf(&b, "%02d", t.Day())
			case tok.count == 3:
				b.WriteString(dayShort[int(t.Weekday())])
			default:
				b.WriteString(dayFull[int(t.Weekday())])
			}
		case dtHour:
			h := t.Hour()
			if twelveHour {
				h = h % 12
				if h == 0 {
					h = 12
				}
			}
			if tok.count >= 2 {
				fmt.Fprintf(&b, "%02d", h)
			} else {
				fmt.Fprintf(&b, "%d", h)
			}
		case dtMinute:
			if tok.count >= 2 {
				fmt.Fprintf(&b, "%02d", t.Minute())
			} else {
				fmt.Fprintf(&b, "%d", t.Minute())
			}
		case dtSecond:
			if tok.count >= 2 {
				fmt.Fprintf(&b, "%02d", t.Second())
			} else {
				fmt.Fprintf(&b, "%d", t.Second())
			}
		case dtAMPM:
			pm := t.Hour() >= 12
			if tok.count == 5 {
				if pm {
					b.WriteString("PM")
				} else {
					b.WriteString("AM")
				}
			} else {
				if pm {
					b.WriteString("P")
				} else {
					b.WriteString("A")
				}
			}
		case dtFrac:
			frac := value - math.Floor(value)
			secFrac := frac*86400 - math.Floor(frac*86400)
			scale := math.Pow(10, float64(tok.count))
			digits := int(math.Round(secFrac * scale))
			fmt.Fprintf(&b, "%0*d", tok.count, digits)
		case dtElapsedH:
			total := int(math.Floor(value * 24))
			if tok.count >= 2 {
				fmt.Fprintf(&b, "%02d", total)
			} else {
				fmt.Fprintf(&b, "%d", total)
			}
		case dtElapsedM:
			total := int(math.Floor(value * 24 * 60))
			if tok.count >= 2 {
				fmt.Fprintf(&b, "%02d", total)
			} else {
				fmt.Fprintf(&b, "%d", total)
			}
		case dtElapsedS:
			total := int(math.Floor(value * 86400))
			if tok.count >= 2 {
				fmt.Fprintf(&b, "%02d", total)
			} else {
				fmt.Fprintf(&b, "%d", total)
			}
		}
	}
	return b.String()
}
