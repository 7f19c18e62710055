package classify

import (
	"regexp"
	"strings"

	"github.com/noticekit/noticeforge/constants"
)

// Vocabulary of folder-path segments that decide the type outright.
var (
	lawFolderWords    = []string{"法令", "例規", "条例", "告示", "政省令", "法規"}
	manualFolderWords = []string{"マニュアル", "手引", "要領", "運用基準", "実務資料"}
)

var (
	articleRe = regexp.MustCompile(`第[0-9一二三四五六七八九十百千]+条`)
	notifyRe  = regexp.MustCompile(`(通知|依頼|照会|送付|お願い)(する|します|いたします|申し上げます)`)
)

// TypeInput is everything the classifier looks at.
type TypeInput struct {
	RelPath           string
	Text              string
	TypeWindowChars   int // article counting window
	NotifyWindowChars int // notify-phrase veto window
	MinArticleCount   int
}

// typeRule pairs a predicate with the type it assigns. Rules are
// evaluated in fixed priority order; the first hit wins.
type typeRule struct {
	name  string
	match func(in TypeInput) bool
	typ   constants.DocType
}

var typeRules = []typeRule{
	{
		name:  "law-folder",
		match: func(in TypeInput) bool { return pathSegmentHasAny(in.RelPath, lawFolderWords) },
		typ:   constants.DocTypeLaw,
	},
	{
		name:  "manual-folder",
		match: func(in TypeInput) bool { return pathSegmentHasAny(in.RelPath, manualFolderWords) },
		typ:   constants.DocTypeManual,
	},
	{
		name:  "article-density",
		match: articleDensity,
		typ:   constants.DocTypeLaw,
	},
}

// DetectDocType classifies a document. Default is Notice: in this corpus
// everything that is not recognizably a statute or a manual is official
// correspondence.
func DetectDocType(in TypeInput) constants.DocType {
	for _, r := range typeRules {
		if r.match(in) {
			return r.typ
		}
	}
	return constants.DocTypeNotice
}

// articleDensity: a body with many 「第N条」 markers and no notifying
// phrase near the top reads like statute text, not a cover letter
// quoting one.
func articleDensity(in TypeInput) bool {
	window := headRunes(in.Text, in.TypeWindowChars)
	if len(articleRe.FindAllStringIndex(window, in.MinArticleCount)) < in.MinArticleCount {
		return false
	}
	return !notifyRe.MatchString(headRunes(in.Text, in.NotifyWindowChars))
}

func pathSegmentHasAny(relpath string, words []string) bool {
	segments := strings.FieldsFunc(relpath, func(r rune) bool { return r == '/' || r == '\\' })
	if len(segments) > 0 {
		segments = segments[:len(segments)-1] // folder segments only
	}
	for _, seg := range segments {
		for _, w := range words {
			if strings.Contains(seg, w) {
				return true
			}
		}
	}
	return false
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
