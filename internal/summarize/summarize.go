// Package summarize builds the structured per-type summaries that go
// into reports and export bundles. The output is plain text, never
// longer than the configured budget (plus the truncation mark).
package summarize

import (
	"strings"

	"github.com/noticekit/noticeforge/constants"
	"github.com/noticekit/noticeforge/internal/jptext"
	"github.com/noticekit/noticeforge/internal/ocrscore"
)

// SuppressedMessage replaces the summary when recognized text is too
// unreliable to summarize at all.
const SuppressedMessage = "(OCR品質が低いため概要生成を省略。原本の確認が必要)"

// Options holds the summary budgets.
type Options struct {
	BudgetChars       int
	IntentCapChars    int
	PurposeCapChars   int
	ShortLineMergeLen int
}

// Build produces the summary for one record. title is the already-chosen
// title guess, used to avoid repeating it inside the intent clause.
func Build(docType constants.DocType, text, title string, opts Options) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	var s string
	switch docType {
	case constants.DocTypeLaw:
		s = lawSummary(text, opts)
	case constants.DocTypeManual:
		s = manualSummary(text, opts)
	default:
		s = noticeSummary(text, title, opts)
	}
	if strings.TrimSpace(s) == "" {
		s = plainSummary(text, opts)
	}
	return jptext.Truncate(strings.TrimSpace(s), opts.BudgetChars)
}

// plainSummary is the last-resort formatter: normalized, non-garbage
// lines joined into one run of text.
func plainSummary(text string, opts Options) string {
	var parts []string
	for _, line := range strings.Split(text, "\n") {
		s := jptext.CollapseSpaces(line)
		if s == "" || ocrscore.IsGarbageLine(s) {
			continue
		}
		parts = append(parts, s)
	}
	return jptext.Truncate(strings.Join(parts, " "), opts.BudgetChars)
}

// appendEnforcement adds the labeled enforcement clause when one was
// found and is not already part of the composed summary.
func appendEnforcement(composed, text string, budget int) string {
	clause := FindEnforcement(text)
	if clause == "" || strings.Contains(composed, clause) {
		return composed
	}
	addition := "\n【施行日】" + clause
	if len([]rune(composed))+len([]rune(addition)) > budget {
		return composed
	}
	return composed + addition
}
