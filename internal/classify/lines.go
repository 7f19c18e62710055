// Package classify derives best-effort metadata from extracted text:
// document type, title, date, issuer, and facility/work tags. Every
// decision is deterministic and rule-ordered; nothing here is a claim of
// correctness on unseen content.
package classify

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/noticekit/noticeforge/internal/jptext"
)

var (
	docNumberRe = regexp.MustCompile(`(消防危|消防予|消防特|消防庁告示|消防庁)第?\s*[0-9]+号`)
	dateOnlyRe  = regexp.MustCompile(`^(令和|平成|昭和)?\s*([0-9]+|元)\s*年\s*[0-9]{1,2}\s*月\s*[0-9]{1,2}\s*日\s*(付け?)?$`)
	addresseeRe = regexp.MustCompile(`(殿|様|御中)$`)
	pageNoRe    = regexp.MustCompile(`^[-− ]*[0-9]+[-− ]*$`)

	enumMarkerRe = regexp.MustCompile(`^([0-9]+[.)、．]|\([0-9]+\)|\([ア-ン一二三四五六七八九十]\)|[①-⑳]|[ア-ン][.)、．]|・|○|●)`)

	punctDigitsRe = regexp.MustCompile(`^[0-9()\[\]（）【】.,、。\- ]+$`)
)

// minTitleScriptRatio is the "meaningful" floor for title candidates.
const minTitleScriptRatio = 0.15

// IsHeaderFooter recognizes the boilerplate of official letters: document
// numbers, bare dates, addressee lines, page numbers.
func IsHeaderFooter(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}
	if docNumberRe.MatchString(s) {
		return true
	}
	if dateOnlyRe.MatchString(s) {
		return true
	}
	if addresseeRe.MatchString(s) || strings.HasPrefix(s, "各") {
		return true
	}
	return pageNoRe.MatchString(s)
}

// IsEnumMarker reports whether the line starts with a list/enumeration
// marker.
func IsEnumMarker(line string) bool {
	return enumMarkerRe.MatchString(strings.TrimSpace(line))
}

// isPunctDigitsOnly reports lines made of punctuation and digits only.
func isPunctDigitsOnly(line string) bool {
	return punctDigitsRe.MatchString(strings.TrimSpace(line))
}

// isMeaningfulTitle requires enough domain script for a human title.
func isMeaningfulTitle(line string) bool {
	return jptext.ScriptRatio(line) >= minTitleScriptRatio
}

// startsMidSentence guesses that a line is the continuation of a broken
// sentence: it opens with hiragana or closing punctuation.
func startsMidSentence(line string) bool {
	for _, r := range strings.TrimSpace(line) {
		if r >= 0x3041 && r <= 0x309F {
			return true
		}
		if r == '、' || r == '。' || r == '）' || r == ')' || r == '」' {
			return true
		}
		return false
	}
	return true
}

// splitLines normalizes and splits text once for the guessers.
func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

func isPureNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && !unicode.IsSpace(r) && r != '-' && r != '.' {
			return false
		}
	}
	return true
}
