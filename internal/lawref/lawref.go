// Package lawref extracts law/ordinance citations and amendment phrases
// from notices and manuals, and maps them against the laws in the same
// corpus. Everything produced here is machine-estimated and must be
// confirmed by a human before being trusted.
package lawref

import (
	"regexp"
)

const numerals = `[0-9一二三四五六七八九十百千]`

// namedLawRe cites a law by name, optionally down to 条/項/号.
var namedLawRe = regexp.MustCompile(
	`(危険物の規制に関する政令|危険物の規制に関する規則|石油コンビナート等災害防止法|消防法施行令|消防法施行規則|消防法|火災予防条例)` +
		`(第` + numerals + `+条(の` + numerals + `+)?(第` + numerals + `+項)?(第` + numerals + `+号)?)?`)

// genericRefRe cites by category noun; an article number is required so
// prose mentions of 政令/規則 alone do not fire.
var genericRefRe = regexp.MustCompile(
	`(政令|省令|規則|条例|告示)第` + numerals + `+条(の` + numerals + `+)?(第` + numerals + `+項)?(第` + numerals + `+号)?`)

var amendmentRes = []*regexp.Regexp{
	regexp.MustCompile(`「[^「」]{2,60}」の?(一部|全部)?を?(改正|廃止|制定)(する|した)?`),
	regexp.MustCompile(`(一部|全部)改正`),
	regexp.MustCompile(`を廃止する`),
	regexp.MustCompile(`新たに制定`),
}

// ExtractRefs returns the law references in the first windowChars
// characters, deduplicated in order of first appearance, capped at max.
func ExtractRefs(text string, windowChars, max int) []string {
	target := headRunes(text, windowChars)
	var refs []string
	for _, re := range []*regexp.Regexp{namedLawRe, genericRefRe} {
		refs = append(refs, re.FindAllString(target, -1)...)
	}
	return dedupeCap(refs, max)
}

// ExtractAmendments returns the amendment phrases in the window,
// deduplicated, capped at max.
func ExtractAmendments(text string, windowChars, max int) []string {
	target := headRunes(text, windowChars)
	var hits []string
	for _, re := range amendmentRes {
		hits = append(hits, re.FindAllString(target, -1)...)
	}
	return dedupeCap(hits, max)
}

func dedupeCap(in []string, max int) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

func headRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
