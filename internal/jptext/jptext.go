// Package jptext holds the text primitives shared by the heuristics:
// domain-script detection, normalization of extracted text, and
// width-aware truncation for report cells.
package jptext

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// IsScript reports whether r belongs to the domain script
// (hiragana, katakana, CJK ideographs and the usual iteration marks).
func IsScript(r rune) bool {
	switch {
	case r >= 0x3041 && r <= 0x309F: // hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // katakana
		return true
	case r >= 0x4E00 && r <= 0x9FFF: // CJK unified ideographs
		return true
	case r == '々' || r == '〆' || r == '〇' || r == 'ヶ' || r == 'ー':
		return true
	}
	return false
}

// CountScript returns the number of domain-script runes in s.
func CountScript(s string) int {
	n := 0
	for _, r := range s {
		if IsScript(r) {
			n++
		}
	}
	return n
}

// ScriptRatio returns script runes / non-space runes, 0 for empty input.
func ScriptRatio(s string) float64 {
	total, script := 0, 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if IsScript(r) {
			script++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(script) / float64(total)
}

// Normalize canonicalizes extracted text: line endings to LF, halfwidth
// katakana and fullwidth ASCII folded (NFKC). Heuristic patterns assume
// this form.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return norm.NFKC.String(width.Fold.String(s))
}

// CollapseSpaces removes the run-on spaces layout extraction inserts
// between script characters and squeezes remaining whitespace runs.
func CollapseSpaces(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range runes {
		if r == ' ' || r == '　' || r == '\t' {
			prevScript := i > 0 && IsScript(runes[i-1])
			nextScript := i+1 < len(runes) && IsScript(runes[i+1])
			if prevScript && nextScript {
				continue
			}
			if b.Len() > 0 && strings.HasSuffix(b.String(), " ") {
				continue
			}
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// Truncate cuts s to at most budget runes, appending the ellipsis when a
// cut happens. The result is therefore at most budget+1 runes.
func Truncate(s string, budget int) string {
	if budget <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	return string(runes[:budget]) + "…"
}

// TruncateWidth cuts s to the given display width (CJK runes count as 2),
// for spreadsheet and guide cells.
func TruncateWidth(s string, w int) string {
	return runewidth.Truncate(s, w, "…")
}

// StripForCompare removes whitespace and punctuation so two variants of
// the same phrase compare equal by containment.
func StripForCompare(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
