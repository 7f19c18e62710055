package classify

import (
	"regexp"
	"strings"

	"github.com/noticekit/noticeforge/constants"
	"github.com/noticekit/noticeforge/internal/jptext"
)

// titleSuffixes are the closing phrases of official notice titles.
var titleSuffixes = []string{
	"について",
	"に関する件",
	"の件",
	"に関する事項",
}

// parentheticalTailRe strips a short trailing qualifier such as （通知）
// or （依頼） before suffix matching.
var parentheticalTailRe = regexp.MustCompile(`[(（][^()（）]{1,8}[)）]$`)

// knownLawNames is checked in order; longer names first so containment
// prefers the most specific match.
var knownLawNames = []string{
	"危険物の規制に関する政令",
	"危険物の規制に関する規則",
	"石油コンビナート等災害防止法",
	"消防法施行令",
	"消防法施行規則",
	"消防法",
}

var (
	chapterHeadingRe = regexp.MustCompile(`^第[0-9一二三四五六七八九十百]+章`)
	amendVerbRe      = regexp.MustCompile(`(の一部を改正|を改正する|改正する法律|改正する政令|改正する省令)`)
)

// Title-scan windows per document type.
const (
	noticeTitleScanLines  = 100
	lawNameScanLines      = 30
	lawChapterScanLines   = 50
	lawFallbackScanLines  = 20
	manualTitleScanLines  = 30
	connectableMinRunes   = 5
	noticeTitleMinRunes   = 10
	lawTitleMinRunes      = 4
	lawTitleMaxRunes      = 80
	manualTitleMinRunes   = 4
	maxConnectablePrepend = 2
)

// MatchesTitleSuffix reports whether s ends like a notice title
// ("...について", "...の件" and variants, optionally with a short
// parenthetical qualifier).
func MatchesTitleSuffix(s string) bool {
	s = strings.TrimRight(strings.TrimSpace(s), "。 　")
	s = strings.TrimSpace(parentheticalTailRe.ReplaceAllString(s, ""))
	for _, suf := range titleSuffixes {
		if strings.HasSuffix(s, suf) && runeLen(s) > runeLen(suf) {
			return true
		}
	}
	return false
}

// GuessTitle picks a title for the classified document, capped at
// maxRunes (<=0 means the default cap). The returned value never
// satisfies the garble predicate; an empty string means no acceptable
// candidate was found.
func GuessTitle(docType constants.DocType, text string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = defaultTitleMaxRunes
	}
	lines := splitLines(text)
	var title string
	switch docType {
	case constants.DocTypeLaw:
		title = guessLawTitle(lines, maxRunes)
	case constants.DocTypeManual:
		title = guessManualTitle(lines, maxRunes)
	default:
		title = guessNoticeTitle(lines, maxRunes)
	}
	title = strings.TrimSpace(title)
	if title == "" || isGarbled(title, maxRunes) {
		return ""
	}
	return title
}

func guessNoticeTitle(lines []string, maxRunes int) string {
	limit := min(noticeTitleScanLines, len(lines))
	for i := 0; i < limit; i++ {
		s := jptext.CollapseSpaces(lines[i])
		if s == "" || !MatchesTitleSuffix(s) {
			continue
		}
		if n := runeLen(s); n < noticeTitleMinRunes || n > maxRunes {
			continue
		}
		if isGarbled(s, maxRunes) || IsEnumMarker(s) || !isMeaningfulTitle(s) {
			continue
		}
		return prependConnectable(lines, i, s, maxRunes)
	}
	return noticeTitleFallback(lines, limit, maxRunes)
}

// prependConnectable merges up to two preceding lines that read like the
// leading half of a wrapped title, re-validating the combination.
func prependConnectable(lines []string, idx int, title string, maxRunes int) string {
	for k := idx - 1; k >= 0 && k >= idx-maxConnectablePrepend; k-- {
		p := jptext.CollapseSpaces(lines[k])
		if !isConnectable(p, maxRunes) {
			break
		}
		combined := p + title
		if runeLen(combined) > maxRunes || isGarbled(combined, maxRunes) {
			break
		}
		title = combined
	}
	return title
}

func isConnectable(p string, maxRunes int) bool {
	n := runeLen(p)
	if n < connectableMinRunes || n > maxRunes {
		return false
	}
	if IsHeaderFooter(p) || startsMidSentence(p) || IsEnumMarker(p) {
		return false
	}
	if !isMeaningfulTitle(p) || isGarbled(p, maxRunes) {
		return false
	}
	return !MatchesTitleSuffix(p)
}

func noticeTitleFallback(lines []string, limit, maxRunes int) string {
	for i := 0; i < limit; i++ {
		s := jptext.CollapseSpaces(lines[i])
		if s == "" || runeLen(s) > maxRunes {
			continue
		}
		if IsHeaderFooter(s) || isPunctDigitsOnly(s) || !isMeaningfulTitle(s) || isGarbled(s, maxRunes) {
			continue
		}
		// a wrapped title: merge with the next line when the pair reads
		// like a suffixed title
		if i+1 < len(lines) {
			next := jptext.CollapseSpaces(lines[i+1])
			combined := s + next
			if next != "" && MatchesTitleSuffix(combined) &&
				runeLen(combined) <= maxRunes && !isGarbled(combined, maxRunes) {
				return combined
			}
		}
		return s
	}
	return ""
}

func guessLawTitle(lines []string, maxRunes int) string {
	limit := min(lawNameScanLines, len(lines))
	for i := 0; i < limit; i++ {
		s := jptext.CollapseSpaces(lines[i])
		for _, name := range knownLawNames {
			if !strings.Contains(s, name) {
				continue
			}
			// an amended-title sentence names the law it changes; keep
			// the plain law name in that case
			if amendVerbRe.MatchString(s) {
				return name
			}
			if n := runeLen(s); n >= lawTitleMinRunes && n <= lawTitleMaxRunes {
				return s
			}
			return name
		}
	}

	if title := lawTitleFromChapter(lines, maxRunes); title != "" {
		return title
	}

	limit = min(lawFallbackScanLines, len(lines))
	for i := 0; i < limit; i++ {
		s := jptext.CollapseSpaces(lines[i])
		n := runeLen(s)
		if n < lawTitleMinRunes || n > lawTitleMaxRunes {
			continue
		}
		if !isMeaningfulTitle(s) || isGarbled(s, maxRunes) {
			continue
		}
		return s
	}
	return ""
}

// lawTitleFromChapter walks backward from the first chapter heading to
// the nearest plausible title line.
func lawTitleFromChapter(lines []string, maxRunes int) string {
	limit := min(lawChapterScanLines, len(lines))
	chapter := -1
	for i := 0; i < limit; i++ {
		if chapterHeadingRe.MatchString(strings.TrimSpace(lines[i])) {
			chapter = i
			break
		}
	}
	if chapter <= 0 {
		return ""
	}
	for k := chapter - 1; k >= 0; k-- {
		s := jptext.CollapseSpaces(lines[k])
		if s == "" || isPureNumeric(s) {
			continue
		}
		if n := runeLen(s); n < lawTitleMinRunes || n > lawTitleMaxRunes {
			continue
		}
		if isGarbled(s, maxRunes) {
			continue
		}
		return s
	}
	return ""
}

// guessManualTitle: manuals are internal documents without official-letter
// headers, so no header/footer filtering applies.
func guessManualTitle(lines []string, maxRunes int) string {
	limit := min(manualTitleScanLines, len(lines))
	for i := 0; i < limit; i++ {
		s := jptext.CollapseSpaces(lines[i])
		n := runeLen(s)
		if n < manualTitleMinRunes || n > maxRunes {
			continue
		}
		if isPunctDigitsOnly(s) || !isMeaningfulTitle(s) || isGarbled(s, maxRunes) {
			continue
		}
		return s
	}
	return ""
}
