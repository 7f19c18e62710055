package summarize

import (
	"regexp"
	"strings"

	"github.com/noticekit/noticeforge/internal/jptext"
	"github.com/noticekit/noticeforge/internal/ocrscore"
)

const (
	purposeFollowLines = 10
	maxOutlineLines    = 15
	outlineScanLines   = 200
)

var (
	purposeHeadingRe = regexp.MustCompile(`(目的|概要|趣旨|適用範囲)`)
	outlineHeadingRe = regexp.MustCompile(`^([0-9]+[.．]|第[0-9一二三四五六七八九十百]+[章節]|[(（][0-9]+[)）])`)
)

// manualSummary pulls the purpose paragraph and a heading outline out of
// internal manuals, which lack the official-letter structure of notices.
func manualSummary(text string, opts Options) string {
	lines := strings.Split(text, "\n")

	purpose := manualPurpose(lines, opts.IntentCapChars)
	outline := manualOutline(lines)

	if purpose == "" && len(outline) == 0 {
		return ""
	}

	var b strings.Builder
	if purpose != "" {
		b.WriteString("【目的】")
		b.WriteString(purpose)
	}
	if len(outline) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("【構成】")
		b.WriteString(strings.Join(outline, "/"))
	}
	return jptext.Truncate(b.String(), opts.BudgetChars)
}

// manualPurpose collects the lines following the first purpose-like
// heading.
func manualPurpose(lines []string, capChars int) string {
	start := -1
	for i, line := range lines {
		s := jptext.CollapseSpaces(line)
		if s == "" {
			continue
		}
		if outlineHeadingRe.MatchString(s) && purposeHeadingRe.MatchString(s) ||
			(purposeHeadingRe.MatchString(s) && len([]rune(s)) <= 12) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}
	var b strings.Builder
	taken := 0
	for _, line := range lines[start:] {
		s := jptext.CollapseSpaces(line)
		if s == "" {
			if taken > 0 {
				break
			}
			continue
		}
		if outlineHeadingRe.MatchString(s) || ocrscore.IsGarbageLine(s) {
			break
		}
		b.WriteString(s)
		taken++
		if taken >= purposeFollowLines || len([]rune(b.String())) >= capChars {
			break
		}
	}
	return jptext.Truncate(b.String(), capChars)
}

func manualOutline(lines []string) []string {
	var out []string
	limit := min(outlineScanLines, len(lines))
	for i := 0; i < limit; i++ {
		s := jptext.CollapseSpaces(lines[i])
		if s == "" || !outlineHeadingRe.MatchString(s) {
			continue
		}
		if len([]rune(s)) > 40 {
			s = jptext.Truncate(s, 40)
		}
		out = append(out, s)
		if len(out) >= maxOutlineLines {
			break
		}
	}
	return out
}
