package lawref

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noticekit/noticeforge/constants"
	"github.com/noticekit/noticeforge/internal/entity"
)

// categoryKeywords is the small vocabulary used to decide whether a
// citation plausibly resolves to a law present in the corpus.
var categoryKeywords = []string{
	"消防法施行令", "消防法施行規則", "消防法", "政令", "規則", "条例", "告示",
}

// RefLink is one citation in the forward map.
type RefLink struct {
	Ref     string
	Matched bool // a Law record in this corpus plausibly is the target
}

// ForwardEntry lists the citations of one notice or manual.
type ForwardEntry struct {
	RelPath string
	Title   string
	Refs    []RefLink
}

// CrossReference is the two-way citation map across one run's records.
type CrossReference struct {
	Forward []ForwardEntry
	// Reverse maps each distinct reference string to the relpaths of
	// the records citing it, in record order.
	Reverse map[string][]string
}

// Build assembles the cross-reference purely from already-extracted
// fields; no text is re-scanned.
func Build(records []*entity.Record) CrossReference {
	var lawTitles []string
	for _, r := range records {
		if r.DocType == constants.DocTypeLaw && r.Title != "" {
			lawTitles = append(lawTitles, r.Title)
		}
	}

	xref := CrossReference{Reverse: map[string][]string{}}
	for _, r := range records {
		if r.DocType == constants.DocTypeLaw || len(r.LawRefs) == 0 {
			continue
		}
		entry := ForwardEntry{RelPath: r.RelPath, Title: r.Title}
		for _, ref := range r.LawRefs {
			entry.Refs = append(entry.Refs, RefLink{
				Ref:     ref,
				Matched: refMatchesAnyLaw(ref, lawTitles),
			})
			xref.Reverse[ref] = append(xref.Reverse[ref], r.RelPath)
		}
		xref.Forward = append(xref.Forward, entry)
	}
	return xref
}

// refMatchesAnyLaw: the citation and some law title share a category
// keyword. Longer keywords are tried first so 消防法施行令 does not
// degrade to a bare 消防法 match.
func refMatchesAnyLaw(ref string, lawTitles []string) bool {
	for _, kw := range categoryKeywords {
		if !strings.Contains(ref, kw) {
			continue
		}
		for _, title := range lawTitles {
			if strings.Contains(title, kw) {
				return true
			}
		}
	}
	return false
}

// Render produces the cross-reference text artifact.
func (x CrossReference) Render() string {
	var b strings.Builder
	b.WriteString("# 法令相互参照(機械推定)\n")
	b.WriteString("※この対応付けは機械推定です。利用前に必ず人の確認を経てください。\n\n")

	b.WriteString("## 通知・マニュアル → 引用法令\n")
	for _, e := range x.Forward {
		title := e.Title
		if title == "" {
			title = e.RelPath
		}
		b.WriteString(fmt.Sprintf("- %s (%s)\n", title, e.RelPath))
		for _, l := range e.Refs {
			mark := "未収録"
			if l.Matched {
				mark = "収録あり"
			}
			b.WriteString(fmt.Sprintf("  - %s [%s]\n", l.Ref, mark))
		}
	}

	b.WriteString("\n## 引用法令 → 引用元\n")
	refs := make([]string, 0, len(x.Reverse))
	for ref := range x.Reverse {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	for _, ref := range refs {
		b.WriteString(fmt.Sprintf("- %s\n", ref))
		for _, rel := range x.Reverse[ref] {
			b.WriteString(fmt.Sprintf("  - %s\n", rel))
		}
	}
	return b.String()
}
