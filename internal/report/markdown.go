package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/noticekit/noticeforge/constants"
	"github.com/noticekit/noticeforge/internal/common"
	"github.com/noticekit/noticeforge/internal/entity"
)

// WriteMarkdownTOC writes the grouped table of contents. Records arrive
// already sorted, so within each group they appear in date order.
func WriteMarkdownTOC(outDir string, records []*entity.Record) error {
	var b strings.Builder
	b.WriteString("# 統合目次（概要付き）\n\n")

	for _, typ := range constants.AllDocTypes() {
		var group []*entity.Record
		for _, r := range records {
			if r.DocType == typ {
				group = append(group, r)
			}
		}
		if len(group) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("## %s (%d件)\n\n", typ.Label(), len(group)))
		for _, r := range group {
			b.WriteString(mdEntry(r))
		}
	}

	path := filepath.Join(outDir, MarkdownFileName)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return common.ArtifactError(MarkdownFileName, err)
	}
	return nil
}

func mdEntry(r *entity.Record) string {
	title := r.Title
	if title == "" {
		title = "(タイトル不明)"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("- **%s**\n", title))
	b.WriteString(fmt.Sprintf("  - 日付(推定): %s / 発出者(推定): %s\n", orDash(r.Date), orDash(r.Issuer)))
	b.WriteString(fmt.Sprintf("  - タグ: 施設=[%s] / 業務=[%s]\n",
		strings.Join(r.FacilityTags, " / "), strings.Join(r.WorkTags, " / ")))
	if r.NeedsReview {
		b.WriteString(fmt.Sprintf("  - needs_review: True / 理由: %s\n", r.Reason))
	}
	if r.Summary != "" {
		b.WriteString(fmt.Sprintf("  - 概要: %s\n", firstLine(r.Summary)))
	}
	b.WriteString(fmt.Sprintf("  - 元: `%s`\n\n", r.RelPath))
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
