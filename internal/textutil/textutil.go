// Package textutil provides text normalization helpers shared by the layout
// and assembly passes: anchor slug generation, roman numeral rendering, and
// hyphenated line-wrap repair.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransform decomposes characters and strips combining marks so that
// accented heading text produces plain-ASCII slugs ("Élan" -> "elan").
var foldTransform = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify normalizes heading text into an anchor slug: diacritics folded,
// lowercased, non-alphanumeric runs collapsed to single hyphens.
func Slugify(title string) string {
	folded, _, err := transform.String(foldTransform, title)
	if err != nil {
		folded = title
	}

	var sb strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				sb.WriteRune('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.Trim(sb.String(), "-")
	if slug == "" {
		return "section"
	}
	return slug
}

var romanValues = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// RomanUpper renders n as an uppercase roman numeral. Values below 1
// return the empty string.
func RomanUpper(n int) string {
	if n < 1 {
		return ""
	}

	var sb strings.Builder
	for _, rv := range romanValues {
		for n >= rv.value {
			sb.WriteString(rv.symbol)
			n -= rv.value
		}
	}
	return sb.String()
}

// softHyphen is emitted by some extractors in place of a visible hyphen
const softHyphen = '­'

// IsWrapHyphen reports whether prev ends with a hyphen that exists only
// because the word was wrapped at a line break: the following text must
// start immediately (no space) with a lowercase letter, as in
// "speciali-" + "zation".
func IsWrapHyphen(prev, next string) bool {
	if prev == "" || next == "" {
		return false
	}

	runes := []rune(prev)
	last := runes[len(runes)-1]
	if last != '-' && last != softHyphen {
		return false
	}
	// A hyphen after whitespace is a dash, not a word break
	if len(runes) < 2 || unicode.IsSpace(runes[len(runes)-2]) {
		return false
	}
	// A double hyphen is an em-dash, not a word break
	if runes[len(runes)-2] == '-' || runes[len(runes)-2] == softHyphen {
		return false
	}

	first := []rune(next)[0]
	return unicode.IsLower(first)
}

// TrimWrapHyphen removes the single trailing wrap hyphen from s
func TrimWrapHyphen(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	if last := runes[len(runes)-1]; last == '-' || last == softHyphen {
		return string(runes[:len(runes)-1])
	}
	return s
}
