package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/noticekit/noticeforge/internal/common"
	"github.com/noticekit/noticeforge/internal/entity"
)

// WriteReviewCSV writes the flagged records as a flat CSV for triage.
func WriteReviewCSV(outDir string, records []*entity.Record) error {
	path := filepath.Join(outDir, ReviewCSVFileName)
	f, err := os.Create(path)
	if err != nil {
		return common.ArtifactError(ReviewCSVFileName, err)
	}
	defer f.Close()

	// BOM so spreadsheet software opens it as UTF-8
	if _, err := f.WriteString("\uFEFF"); err != nil {
		return common.ArtifactError(ReviewCSVFileName, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"relpath", "理由", "抽出方式", "OCR品質", "タイトル(推定)"}); err != nil {
		return common.ArtifactError(ReviewCSVFileName, err)
	}
	for _, r := range records {
		if !r.NeedsReview {
			continue
		}
		row := []string{r.RelPath, r.Reason, r.Method, fmt.Sprintf("%.2f", r.OCRScore), r.Title}
		if err := w.Write(row); err != nil {
			return common.ArtifactError(ReviewCSVFileName, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return common.ArtifactError(ReviewCSVFileName, err)
	}
	return nil
}
