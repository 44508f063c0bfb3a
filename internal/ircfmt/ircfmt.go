// Package ircfmt builds reply text with IRC control codes.
package ircfmt

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	boldCode      = "\x02"
	underlineCode = "\x1f"
	colorCode     = "\x03"
	resetCode     = "\x0f"
)

// mIRC colour numbers.
var colors = map[string]int{
	"white":       0,
	"black":       1,
	"blue":        2,
	"green":       3,
	"red":         4,
	"brown":       5,
	"purple":      6,
	"orange":      7,
	"yellow":      8,
	"light green": 9,
	"teal":        10,
	"light blue":  11,
	"dark blue":   12,
	"pink":        13,
	"dark grey":   14,
	"light grey":  15,
}

func Bold(s string) string {
	return boldCode + s + boldCode
}

func Underline(s string) string {
	return underlineCode + s + underlineCode
}

// Color wraps s in a foreground colour. Unknown colour names leave s as is.
func Color(s, name string) string {
	n, ok := colors[name]
	if !ok {
		return s
	}
	return fmt.Sprintf("%s%02d%s%s", colorCode, n, s, colorCode)
}

var colorSeq = regexp.MustCompile(`\x03(\d{1,2}(,\d{1,2})?)?`)

// Strip removes all formatting codes.
func Strip(s string) string {
	s = colorSeq.ReplaceAllString(s, "")
	return strings.NewReplacer(boldCode, "", underlineCode, "", resetCode, "").Replace(s)
}

// Join separates items with " | ".
func Join(items []string) string {
	return strings.Join(items, " | ")
}

// SmartTruncate cuts text on a word boundary as close to length runes as it
// can, then appends suffix. Text that already fits is returned unchanged.
func SmartTruncate(text string, length int, suffix string) string {
	if utf8.RuneCountInString(text) <= length {
		return text
	}
	slen := utf8.RuneCountInString(suffix)
	limit := length - slen - 1
	if limit < 0 {
		return text
	}

	re, err := regexp.Compile(fmt.Sprintf(`^(.{0,%d}\S)\s+\S+`, limit))
	if err != nil {
		return text
	}
	m := re.FindStringSubmatchIndex(text)
	if m == nil {
		return text
	}

	whole := text[:m[1]]
	first := text[:m[3]]
	l0 := utf8.RuneCountInString(whole)
	l1 := utf8.RuneCountInString(first)
	if abs(l0+slen-length) < abs(l1+slen-length) {
		return whole + suffix
	}
	return first + suffix
}

// Millify renders n with a k/M/B/T suffix and one decimal, e.g. 1.5M.
func Millify(n float64) string {
	units := []string{"", "k", "M", "B", "T"}
	for i, u := range units {
		if n < 1000 || i == len(units)-1 {
			return fmt.Sprintf("%3.1f%s", n, u)
		}
		n /= 1000
	}
	return ""
}

// Batch splits items into groups of at most size.
func Batch(items []string, size int) [][]string {
	if size <= 0 {
		return [][]string{items}
	}
	var out [][]string
	for len(items) > 0 {
		n := min(size, len(items))
		out = append(out, items[:n:n])
		items = items[n:]
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
