package summarize

import (
	"regexp"
	"strings"

	"github.com/noticekit/noticeforge/internal/jptext"
)

const (
	maxChapterLines = 15
	maxArticleHeads = 20
)

var (
	firstArticleRe   = regexp.MustCompile(`第[1一]条`)
	articleStartRe   = regexp.MustCompile(`^第[0-9一二三四五六七八九十百千]+条`)
	chapterLineRe    = regexp.MustCompile(`^第[0-9一二三四五六七八九十百]+章`)
	bracketedTitleRe = regexp.MustCompile(`^[(（][^()（）]{1,20}[)）]$`)
)

// lawSummary composes purpose clause, chapter table of contents (or
// article headings), and the enforcement date. Text without any of these
// structural signals falls back to the plain formatter.
func lawSummary(text string, opts Options) string {
	purpose := firstArticleText(text, opts.PurposeCapChars)
	chapters := chapterTOC(text)
	var articles []string
	if len(chapters) == 0 {
		articles = articleHeadings(text)
	}

	if purpose == "" && len(chapters) == 0 && len(articles) == 0 {
		return ""
	}

	var b strings.Builder
	if purpose != "" {
		b.WriteString("【目的】")
		b.WriteString(purpose)
	}
	if len(chapters) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("【章構成】")
		b.WriteString(strings.Join(chapters, "/"))
	} else if len(articles) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("【条見出し】")
		b.WriteString(strings.Join(articles, "/"))
	}
	composed := jptext.Truncate(b.String(), opts.BudgetChars)
	return appendEnforcement(composed, text, opts.BudgetChars)
}

// firstArticleText returns the first article's body up to the next
// article boundary.
func firstArticleText(text string, capChars int) string {
	loc := firstArticleRe.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	rest := text[loc[0]:]
	end := len(rest)
	// next article boundary, searching after the opening marker
	for _, line := range strings.Split(rest, "\n")[1:] {
		if articleStartRe.MatchString(strings.TrimSpace(line)) {
			if idx := strings.Index(rest, line); idx > 0 {
				end = idx
			}
			break
		}
	}
	return jptext.Truncate(jptext.CollapseSpaces(strings.ReplaceAll(rest[:end], "\n", " ")), capChars)
}

func chapterTOC(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		s := jptext.CollapseSpaces(line)
		if chapterLineRe.MatchString(s) {
			out = append(out, s)
			if len(out) >= maxChapterLines {
				break
			}
		}
	}
	return out
}

// articleHeadings lists 「（見出し）第N条」 pairs for statutes laid out
// without chapters.
func articleHeadings(text string) []string {
	lines := strings.Split(text, "\n")
	var out []string
	prev := ""
	for _, line := range lines {
		s := jptext.CollapseSpaces(line)
		if articleStartRe.MatchString(s) {
			num := articleStartRe.FindString(s)
			head := num
			if bracketedTitleRe.MatchString(prev) {
				head = prev + num
			}
			out = append(out, head)
			if len(out) >= maxArticleHeads {
				break
			}
		}
		prev = s
	}
	return out
}
