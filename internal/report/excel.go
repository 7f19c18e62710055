// Package report renders read-only views over finished records: the
// spreadsheet index, the Markdown table of contents, the HTML dashboard
// and the review CSV. Nothing here feeds back into processing.
package report

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/noticekit/noticeforge/internal/common"
	"github.com/noticekit/noticeforge/internal/entity"
	"github.com/noticekit/noticeforge/internal/jptext"
)

// Artifact file names inside the output directory.
const (
	ExcelFileName     = "00_統合目次.xlsx"
	MarkdownFileName  = "00_統合目次.md"
	DashboardFileName = "dashboard.html"
	ReviewCSVFileName = "needs_review.csv"
)

var indexHeaders = []string{
	"タイトル(推定)", "日付(推定)", "発出者(推定)", "種別",
	"施設タグ", "業務タグ", "needs_review", "理由", "概要(先頭)",
	"OCR品質", "元ファイル(relpath)",
}

// WriteExcelIndex writes the workbook with an Index sheet over every
// record and a NeedsReview sheet restricted to the flagged ones.
func WriteExcelIndex(outDir string, records []*entity.Record, logger *slog.Logger) error {
	start := time.Now()
	f := excelize.NewFile()

	const sheet = "Index"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	writeSheet(f, sheet, records)

	const reviewSheet = "NeedsReview"
	if _, err := f.NewSheet(reviewSheet); err != nil {
		return fmt.Errorf("create review sheet: %w", err)
	}
	var flagged []*entity.Record
	for _, r := range records {
		if r.NeedsReview {
			flagged = append(flagged, r)
		}
	}
	writeSheet(f, reviewSheet, flagged)

	path := filepath.Join(outDir, ExcelFileName)
	if err := f.SaveAs(path); err != nil {
		return common.ArtifactError(ExcelFileName, err)
	}
	logger.Info("excel index written",
		"rows", len(records),
		"flagged", len(flagged),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func writeSheet(f *excelize.File, sheet string, records []*entity.Record) {
	for i, h := range indexHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range records {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.Title)
		write(2, r.Date)
		write(3, r.Issuer)
		write(4, r.DocType.Label())
		write(5, strings.Join(r.FacilityTags, " / "))
		write(6, strings.Join(r.WorkTags, " / "))
		if r.NeedsReview {
			write(7, "TRUE")
		} else {
			write(7, "FALSE")
		}
		write(8, r.Reason)
		write(9, jptext.TruncateWidth(r.Summary, 160))
		write(10, fmt.Sprintf("%.2f", r.OCRScore))
		write(11, r.RelPath)
		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 40) // title
	_ = f.SetColWidth(sheet, "B", "C", 16) // date, issuer
	_ = f.SetColWidth(sheet, "D", "D", 10) // type
	_ = f.SetColWidth(sheet, "E", "F", 24) // tags
	_ = f.SetColWidth(sheet, "G", "H", 16) // review, reason
	_ = f.SetColWidth(sheet, "I", "I", 80) // summary
	_ = f.SetColWidth(sheet, "J", "J", 10) // score
	_ = f.SetColWidth(sheet, "K", "K", 50) // path
}
