package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// lamAlefLigatures maps Arabic presentation-form ligatures back to their
// base letter pairs. OCR output and some PDF text layers emit these.
var lamAlefLigatures = map[rune]string{
	'ﻻ': "لا", // لا
	'ﻼ': "لا",
	'ﻷ': "لأ", // لأ
	'ﻸ': "لأ",
	'ﻵ': "لآ", // لآ
	'ﻶ': "لآ",
	'ﻹ': "لإ", // لإ
	'ﻺ': "لإ",
}

func isZeroWidthOrBidi(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\u200E', '\u200F',
		'\u202A', '\u202B', '\u202C', '\u202D', '\u202E',
		'\u2060', '\uFEFF', '\u061C':
		return true
	}
	return false
}

func isArabicRune(r rune) bool {
	return (r >= 0x0600 && r <= 0x06FF) ||
		(r >= 0x0750 && r <= 0x077F) ||
		(r >= 0x08A0 && r <= 0x08FF) ||
		(r >= 0xFB50 && r <= 0xFDFF) ||
		(r >= 0xFE70 && r <= 0xFEFF)
}

const arabicPunct = "،؛؟"

// NormalizeText cleans up extracted document text: ligature remapping,
// zero-width and bidi control stripping, whitespace collapse, spacing
// between digit runs and following words, punctuation spacing, and NFC
// composition.
func NormalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isZeroWidthOrBidi(r) {
			continue
		}
		if mapped, ok := lamAlefLigatures[r]; ok {
			b.WriteString(mapped)
			continue
		}
		b.WriteRune(r)
	}

	runes := []rune(b.String())
	var out []rune
	prevSpace := false
	for i, r := range runes {
		if unicode.IsSpace(r) {
			if !prevSpace && len(out) > 0 {
				out = append(out, ' ')
			}
			prevSpace = true
			continue
		}
		if isPunct(r) {
			// no space before punctuation
			for len(out) > 0 && out[len(out)-1] == ' ' {
				out = out[:len(out)-1]
			}
			out = append(out, r)
			// one space after, unless the next rune is more punctuation
			if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) && !isPunct(runes[i+1]) {
				out = append(out, ' ')
			}
			prevSpace = false
			continue
		}
		if len(out) > 0 && unicode.IsDigit(out[len(out)-1]) && !unicode.IsDigit(r) && r != ' ' {
			out = append(out, ' ')
		}
		out = append(out, r)
		prevSpace = false
	}

	return norm.NFC.String(strings.TrimSpace(string(out)))
}

func isPunct(r rune) bool {
	switch r {
	case '.', ',', '!', '?', ':', ';':
		return true
	}
	return strings.ContainsRune(arabicPunct, r)
}

// IsValidArabicText reports whether the Arabic-block share of the
// non-whitespace characters exceeds 30%.
func IsValidArabicText(s string) bool {
	total := 0
	arabic := 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if isArabicRune(r) {
			arabic++
		}
	}
	if total == 0 {
		return false
	}
	return float64(arabic)/float64(total) > 0.30
}
