package classify

import (
	"strings"
	"unicode"

	"github.com/noticekit/noticeforge/internal/jptext"
)

// defaultTitleMaxRunes is the cap applied when the caller does not
// supply one.
const defaultTitleMaxRunes = 120

// legitimateLeads are single script characters that genuinely begin
// titles and must not be mistaken for stray OCR noise.
var legitimateLeads = map[rune]struct{}{
	'新': {}, '旧': {}, '改': {}, '再': {}, '続': {},
}

// openingMarks may legitimately precede script at the start of a title.
var openingMarks = map[rune]struct{}{
	'「': {}, '『': {}, '(': {}, '（': {}, '【': {}, '〔': {},
}

// IsGarbledTitle is the shared rejection predicate for title candidates
// at the default length cap.
func IsGarbledTitle(s string) bool {
	return isGarbled(s, defaultTitleMaxRunes)
}

// isGarbled recognizes the typical OCR substitution and stray-character
// artifacts of scanned official letters.
func isGarbled(s string, maxRunes int) bool {
	if maxRunes <= 0 {
		maxRunes = defaultTitleMaxRunes
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	runes := []rune(s)

	if len(runes) > maxRunes {
		return true
	}

	// 1-2 stray symbols or Latin letters glued onto the real first
	// script character ("K消防法の..." style noise).
	lead := 0
	for lead < len(runes) && lead < 2 && isNoiseRune(runes[lead]) {
		lead++
	}
	if lead >= 1 && lead < len(runes) && jptext.IsScript(runes[lead]) {
		return true
	}

	// A stray script character split off the real title. The lead must
	// be visually detached (separator or Latin debris after it): a
	// script lead glued straight onto a suffix-matching body is the
	// normal shape of a title, not an artifact.
	if len(runes) >= 10 && jptext.IsScript(runes[0]) {
		if _, ok := legitimateLeads[runes[0]]; !ok {
			if runes[1] == ' ' || runes[1] == '　' || unicode.Is(unicode.Latin, runes[1]) {
				rest := strings.TrimLeft(string(runes[1:]), " 　")
				if MatchesTitleSuffix(rest) {
					return true
				}
			}
		}
	}

	// OCR substitution artifact: isolated uppercase Latin letters
	// directly adjacent to script characters, twice or more.
	if countLatinScriptJoints(runes) >= 2 {
		return true
	}
	return false
}

// isNoiseRune matches the characters OCR typically hallucinates in front
// of a title. Opening quotes and brackets are legitimate.
func isNoiseRune(r rune) bool {
	if _, ok := openingMarks[r]; ok {
		return false
	}
	if unicode.Is(unicode.Latin, r) {
		return true
	}
	return unicode.IsSymbol(r) || unicode.IsPunct(r)
}

func countLatinScriptJoints(runes []rune) int {
	count := 0
	for i, r := range runes {
		if r < 'A' || r > 'Z' {
			continue
		}
		// single letter only: Latin neighbors mean a real word
		if i > 0 && unicode.Is(unicode.Latin, runes[i-1]) {
			continue
		}
		if i+1 < len(runes) && unicode.Is(unicode.Latin, runes[i+1]) {
			continue
		}
		if (i > 0 && jptext.IsScript(runes[i-1])) || (i+1 < len(runes) && jptext.IsScript(runes[i+1])) {
			count++
		}
	}
	return count
}
