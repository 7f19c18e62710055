// Package ocrscore estimates how trustworthy recognized text is.
// Non-OCR extraction methods are exempt and implicitly score 1.0.
package ocrscore

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/noticekit/noticeforge/internal/jptext"
)

// Weights of the quality components. Empirically tuned.
const (
	weightScript     = 0.35
	weightNotGarbage = 0.25
	weightMeaningful = 0.20
	weightLineLen    = 0.20
)

// symbolOnlyPatterns match ruled lines and separator rows that OCR tends
// to emit for tables and borders.
var symbolOnlyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[-ー―−=_~〜・.。、,*※#|/\\ ]+$`),
	regexp.MustCompile(`^[- ]*[0-9]+[- ]*$`), // bare page number
	regexp.MustCompile(`^[()\[\]（）【】〔〕 ]+$`),
}

var upperRun = regexp.MustCompile(`[A-Z]{4,}`)

// meaningfulKeywords is the regulatory vocabulary a genuinely recognized
// line of this corpus almost always carries at least one of.
var meaningfulKeywords = []string{
	"危険物", "消防", "貯蔵", "取扱", "基準", "設備", "許可", "届出",
	"検査", "通知", "条例", "規則", "政令", "省令", "施行", "防火", "保安", "第",
}

// IsGarbageLine reports whether a single line is OCR garbage. The clauses
// are ordered cheapest first; any hit is final.
func IsGarbageLine(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false // blank lines are structure, not garbage
	}
	runes := []rune(s)
	script := jptext.CountScript(s)

	nonSpace := 0
	for _, r := range runes {
		if !unicode.IsSpace(r) {
			nonSpace++
		}
	}

	if len(runes) <= 2 && script == 0 {
		return true
	}
	for _, p := range symbolOnlyPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	if nonSpace >= 6 && script == 0 {
		return true
	}
	if nonSpace >= 10 && float64(script)/float64(nonSpace) < 0.10 {
		return true
	}
	if m := upperRun.FindString(s); m != "" && len([]rune(m))*2 > len(runes) {
		return true
	}
	return false
}

// IsMeaningfulLine reports whether the line carries domain vocabulary.
func IsMeaningfulLine(line string) bool {
	for _, kw := range meaningfulKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}

// Score rates recognized text in [0,1], rounded to two decimals.
// maxLineLenNorm caps the average-line-length component (0 -> 25).
func Score(text string, maxLineLenNorm int) float64 {
	if maxLineLenNorm <= 0 {
		maxLineLenNorm = 25
	}
	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		return 0
	}

	garbage, meaningful, lenSum := 0, 0, 0
	for _, l := range lines {
		if IsGarbageLine(l) {
			garbage++
		}
		if IsMeaningfulLine(l) {
			meaningful++
		}
		lenSum += len([]rune(l))
	}
	n := float64(len(lines))

	avgLen := float64(lenSum) / n
	if avgLen > float64(maxLineLenNorm) {
		avgLen = float64(maxLineLenNorm)
	}

	s := weightScript*jptext.ScriptRatio(text) +
		weightNotGarbage*(1-float64(garbage)/n) +
		weightMeaningful*(float64(meaningful)/n) +
		weightLineLen*(avgLen/float64(maxLineLenNorm))
	return math.Round(s*100) / 100
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, strings.TrimSpace(l))
		}
	}
	return out
}
