package classify

import (
	"strings"
	"unicode/utf8"
)

// attachMinLeadRunes guards the split: a marker inside the opening
// lines belongs to the letter itself (a 参考 citation, a 別紙のとおり
// phrase), not to an attachment boundary.
const attachMinLeadRunes = 200

// SplitAttachments divides extracted text at the earliest attachment
// marker. Official letters append 別添/別紙/参考 material after the main
// body; the heuristics downstream (title, tags, summary) read the main
// body only. No marker, or a marker too close to the top, keeps the
// whole text as the main body.
func SplitAttachments(text string, keywords []string) (main, attach string) {
	cut := -1
	for _, k := range keywords {
		if k == "" {
			continue
		}
		if i := strings.Index(text, k); i >= 0 && (cut < 0 || i < cut) {
			cut = i
		}
	}
	if cut < 0 || utf8.RuneCountInString(text[:cut]) <= attachMinLeadRunes {
		return strings.TrimSpace(text), ""
	}
	return strings.TrimSpace(text[:cut]), strings.TrimSpace(text[cut:])
}
