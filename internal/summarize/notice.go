package summarize

import (
	"regexp"
	"strings"

	"github.com/noticekit/noticeforge/internal/classify"
	"github.com/noticekit/noticeforge/internal/jptext"
	"github.com/noticekit/noticeforge/internal/ocrscore"
)

// itemsMarker is the fixed token that separates a notice's intent from
// its enumerated body in official letters.
const itemsMarker = "記"

// intentEnders close the intent clause of a notice.
var intentEnders = []string{
	"通知する", "通知します", "通知いたします",
	"依頼する", "依頼します",
	"お願いする", "お願いします", "お願い申し上げます",
	"求める", "求めます",
	"送付する", "送付します",
	"照会します", "回答します",
}

// terminators mean "nothing follows"; body collection stops there.
var terminators = []string{"以上", "以下余白", "以下、余白", "（以下余白）", "(以下余白)"}

var enforcementRe = regexp.MustCompile(
	`((令和|平成|昭和)\s*([0-9]{1,2}|元)\s*年\s*[0-9]{1,2}\s*月\s*[0-9]{1,2}\s*日|[12][0-9]{3}\s*年\s*[0-9]{1,2}\s*月\s*[0-9]{1,2}\s*日)\s*(から|より)?\s*(施行|適用)`)

// FindEnforcement returns the enforcement/applicability clause, or "".
func FindEnforcement(text string) string {
	return enforcementRe.FindString(text)
}

func noticeSummary(text, title string, opts Options) string {
	intentRegion, bodyRegion, found := splitAtMarker(text)
	if !found {
		bodyRegion = text
		intentRegion = ""
	}

	intent := collectIntent(intentRegion, title, opts.IntentCapChars)
	body := collectBody(bodyRegion, opts)

	composed := intent
	if body != "" {
		if composed != "" {
			composed += "\n"
		}
		composed += body
	}
	composed = jptext.Truncate(composed, opts.BudgetChars)
	return appendEnforcement(composed, text, opts.BudgetChars)
}

// splitAtMarker splits at the 記 line standing alone.
func splitAtMarker(text string) (before, after string, found bool) {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) == itemsMarker {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i+1:], "\n"), true
		}
	}
	return "", "", false
}

// collectIntent accumulates normalized lines until an intent-ending verb
// or terminal punctuation, skipping any prefix that repeats the title.
func collectIntent(region, title string, capChars int) string {
	if region == "" || capChars <= 0 {
		return ""
	}
	titleKey := jptext.StripForCompare(title)
	var b strings.Builder
	for _, line := range strings.Split(region, "\n") {
		s := jptext.CollapseSpaces(line)
		if s == "" || ocrscore.IsGarbageLine(s) || classify.IsHeaderFooter(s) {
			continue
		}
		// the already-chosen title repeated as a 標記 line adds nothing
		if titleKey != "" && b.Len() == 0 &&
			strings.Contains(titleKey, jptext.StripForCompare(s)) {
			continue
		}
		b.WriteString(s)
		if endsIntent(s) || len([]rune(b.String())) >= capChars {
			break
		}
	}
	return jptext.Truncate(b.String(), capChars)
}

func endsIntent(s string) bool {
	trimmed := strings.TrimRight(s, "。 　")
	for _, e := range intentEnders {
		if strings.HasSuffix(trimmed, e) {
			return true
		}
	}
	return strings.HasSuffix(s, "。")
}

// collectBody normalizes the enumerated body: run-on spaces stripped,
// short lines merged forward, blank runs collapsed, stop at the first
// terminator.
func collectBody(region string, opts Options) string {
	lines := strings.Split(region, "\n")
	var out []string
	var carry string
	blank := false
	for _, line := range lines {
		s := jptext.CollapseSpaces(line)
		if s == "" {
			blank = true
			continue
		}
		if isTerminator(s) {
			break
		}
		if ocrscore.IsGarbageLine(s) {
			continue
		}
		if blank && len(out) > 0 && carry == "" {
			out = append(out, "")
		}
		blank = false
		if carry != "" {
			s = carry + s
			carry = ""
		}
		// a short fragment usually belongs to the next line, unless it
		// is a list item of its own
		if len([]rune(s)) < opts.ShortLineMergeLen && !classify.IsEnumMarker(s) {
			carry = s
			continue
		}
		out = append(out, s)
	}
	if carry != "" {
		out = append(out, carry)
	}
	return jptext.Truncate(strings.TrimSpace(strings.Join(out, "\n")), opts.BudgetChars)
}

func isTerminator(s string) bool {
	for _, t := range terminators {
		if s == t {
			return true
		}
	}
	return false
}
