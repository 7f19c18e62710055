package classify

import "regexp"

// tagVocab is one named tag with its trigger patterns.
type tagVocab struct {
	tag      string
	patterns []*regexp.Regexp
}

func vocab(tag string, patterns ...string) tagVocab {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return tagVocab{tag: tag, patterns: compiled}
}

// Facility-type vocabulary: the statutory hazardous-material facility
// classes plus their characteristic equipment terms.
var facilityVocab = []tagVocab{
	vocab("製造所", `製造所`),
	vocab("屋外タンク貯蔵所", `屋外タンク貯蔵所`, `浮屋根`, `固定屋根`, `アニュラ`, `タンク底`, `泡放射`, `防油堤`),
	vocab("屋内貯蔵所", `屋内貯蔵所`),
	vocab("地下タンク貯蔵所", `地下タンク貯蔵所`, `FRPタンク`, `漏えい検知`),
	vocab("簡易タンク貯蔵所", `簡易タンク貯蔵所`),
	vocab("移動タンク貯蔵所", `移動タンク貯蔵所`, `タンクローリー`),
	vocab("給油取扱所", `給油取扱所`, `計量機`, `ノズル`, `\bSS\b`, `サービスステーション`),
	vocab("販売取扱所", `販売取扱所`),
	vocab("移送取扱所", `移送取扱所`, `荷卸し`, `荷積み`),
	vocab("一般取扱所", `一般取扱所`, `塗装`, `洗浄`, `混合`, `充填`, `乾燥`),
	vocab("共通", `危険物`, `消防法`, `政令`, `規則`, `運用`, `取扱い`, `質疑`, `Q&A`, `解釈`),
}

// Administrative-task vocabulary.
var workVocab = []tagVocab{
	vocab("申請・届出", `許可`, `届出`, `申請`, `変更`, `仮使用`, `完成検査`, `予防規程`, `承認`, `届書`, `様式`),
	vocab("技術基準・設備", `技術基準`, `基準`, `構造`, `設備`, `配管`, `タンク`, `保有空地`, `耐震`, `腐食`, `漏えい検知`),
	vocab("運用解釈・Q&A", `取扱い`, `運用`, `解釈`, `質疑`, `照会`, `回答`, `Q&A`),
	vocab("事故・漏えい・火災", `事故`, `漏えい`, `流出`, `火災`, `爆発`, `災害`, `原因`, `再発防止`),
	vocab("消火・防災", `泡消火`, `消火`, `固定消火`, `警報`, `緊急遮断`, `避難`, `防災`, `消火設備`),
	vocab("立入検査・指導", `立入`, `検査`, `指導`, `是正`, `改善`, `点検`, `報告`),
	vocab("教育・体制", `保安監督`, `危険物保安監督者`, `保安統括`, `教育`, `訓練`, `体制`, `責任者`),
}

// TagResult carries the fired tags and up to maxEvidence matched trigger
// phrases per tag. Untagged is a valid state: no catch-all is applied.
type TagResult struct {
	Facility []string
	Work     []string
	Evidence map[string][]string
}

// Tag scans the first windowChars characters for both vocabularies.
func Tag(text string, windowChars, maxEvidence int) TagResult {
	target := headRunes(text, windowChars)
	res := TagResult{Evidence: map[string][]string{}}
	for _, v := range facilityVocab {
		if hits := matchVocab(v, target, maxEvidence); len(hits) > 0 {
			res.Facility = append(res.Facility, v.tag)
			res.Evidence[v.tag] = hits
		}
	}
	for _, v := range workVocab {
		if hits := matchVocab(v, target, maxEvidence); len(hits) > 0 {
			res.Work = append(res.Work, v.tag)
			res.Evidence[v.tag] = hits
		}
	}
	if len(res.Evidence) == 0 {
		res.Evidence = nil
	}
	return res
}

func matchVocab(v tagVocab, target string, maxEvidence int) []string {
	var hits []string
	for _, p := range v.patterns {
		if m := p.FindString(target); m != "" {
			hits = append(hits, m)
			if len(hits) >= maxEvidence {
				break
			}
		}
	}
	return hits
}
