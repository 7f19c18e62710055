package report

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/noticekit/noticeforge/constants"
	"github.com/noticekit/noticeforge/internal/entity"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func sampleRecords() []*entity.Record {
	flagged := &entity.Record{
		RelPath:  "通知/scan.pdf",
		DocType:  constants.DocTypeNotice,
		Title:    "危険物施設の査察について",
		Date:     "令和5年6月1日",
		DateKey:  "20230601",
		Method:   constants.MethodOCR,
		OCRScore: 0.31,
	}
	flagged.Flag("low_ocr_score")
	return []*entity.Record{
		{
			RelPath:      "法令/施行令.pdf",
			DocType:      constants.DocTypeLaw,
			Title:        "消防法施行令",
			DateKey:      entity.UnknownDateKey,
			Method:       constants.MethodNativeText,
			OCRScore:     1.0,
			FacilityTags: []string{"共通"},
			Summary:      "【目的】この政令は…",
		},
		{
			RelPath:  "通知/a.pdf",
			DocType:  constants.DocTypeNotice,
			Title:    "泡消火設備の点検について",
			Date:     "令和6年4月1日",
			DateKey:  "20240401",
			Issuer:   "消防庁",
			Method:   constants.MethodNativeText,
			OCRScore: 1.0,
			WorkTags: []string{"立入検査・指導"},
			Summary:  "下記のとおり通知する。",
		},
		flagged,
	}
}

func TestWriteExcelIndex(t *testing.T) {
	dir := t.TempDir()
	records := sampleRecords()
	if err := WriteExcelIndex(dir, records, testLogger()); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(filepath.Join(dir, ExcelFileName))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("Index")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(records)+1 {
		t.Fatalf("index rows = %d, want header + %d records", len(rows), len(records))
	}
	if rows[0][0] != "タイトル(推定)" {
		t.Errorf("header = %q", rows[0][0])
	}

	review, err := f.GetRows("NeedsReview")
	if err != nil {
		t.Fatal(err)
	}
	if len(review) != 2 {
		t.Fatalf("review rows = %d, want header + 1 flagged record", len(review))
	}
	if !strings.Contains(review[1][7], "low_ocr_score") {
		t.Errorf("review reason = %q", review[1][7])
	}
}

func TestWriteMarkdownTOC(t *testing.T) {
	dir := t.TempDir()
	if err := WriteMarkdownTOC(dir, sampleRecords()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, MarkdownFileName))
	if err != nil {
		t.Fatal(err)
	}
	md := string(data)

	lawAt := strings.Index(md, "## 法令")
	noticeAt := strings.Index(md, "## 通知")
	if lawAt < 0 || noticeAt < 0 || lawAt > noticeAt {
		t.Errorf("groups missing or misordered:\n%s", md)
	}
	if !strings.Contains(md, "泡消火設備の点検について") {
		t.Error("notice title missing from TOC")
	}
	if !strings.Contains(md, "needs_review: True") {
		t.Error("flagged record not marked in TOC")
	}
}

func TestWriteDashboard(t *testing.T) {
	dir := t.TempDir()
	if err := WriteDashboard(dir, sampleRecords()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, DashboardFileName))
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	if !strings.Contains(html, "総件数: 3") || !strings.Contains(html, "要確認: 1") {
		t.Errorf("stats missing:\n%s", html)
	}
	if !strings.Contains(html, `class="review"`) {
		t.Error("flagged row not highlighted")
	}
}

func TestWriteReviewCSV(t *testing.T) {
	dir := t.TempDir()
	if err := WriteReviewCSV(dir, sampleRecords()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, ReviewCSVFileName))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "\uFEFF") {
		t.Error("csv missing BOM")
	}
	if !strings.Contains(content, "通知/scan.pdf") || !strings.Contains(content, "low_ocr_score") {
		t.Errorf("flagged record missing:\n%s", content)
	}
	if strings.Contains(content, "法令/施行令.pdf") {
		t.Error("clean record leaked into review csv")
	}
}
