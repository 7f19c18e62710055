package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/noticekit/noticeforge/internal/common"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// testConfig drops the short-body threshold so the few-line fixtures
// here are not all review-flagged; the default is exercised separately.
func testConfig() *common.Config {
	cfg := common.DefaultConfig()
	cfg.Heuristics.MinMainBodyChars = 10
	return cfg
}

func writeInput(t *testing.T, dir, rel, content string) {
	t.Helper()
	abs := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const noticeText = `消防危第12号
泡消火設備の点検について
下記のとおり通知します。
記
1 点検は毎年実施すること。
以上
`

func TestProcess_DuplicateContentCountedOnce(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeInput(t, inDir, "通知/a.txt", noticeText)
	writeInput(t, inDir, "通知/copy_of_a.txt", noticeText)

	stats, err := Process(context.Background(), inDir, outDir, testConfig(), nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 1 {
		t.Errorf("Total = %d, want identical bytes collapsed to one record", stats.Total)
	}
	if stats.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", stats.Duplicates)
	}
}

func TestProcess_SecondRunHitsCache(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeInput(t, inDir, "通知/a.txt", noticeText)
	writeInput(t, inDir, "法令/rei.txt", "消防法施行令\n第1条 この政令は必要な事項を定める。\n")

	cfg := testConfig()
	first, err := Process(context.Background(), inDir, outDir, cfg, nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHits != 0 {
		t.Errorf("first run CacheHits = %d", first.CacheHits)
	}

	second, err := Process(context.Background(), inDir, outDir, cfg, nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if second.Total != first.Total {
		t.Errorf("Total changed across runs: %d vs %d", first.Total, second.Total)
	}
	if second.CacheHits != first.Total {
		t.Errorf("second run CacheHits = %d, want every record reused", second.CacheHits)
	}
}

func TestProcess_ReviewRecordsAlwaysRecomputed(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeInput(t, inDir, "資料/archive.zip", "not really a zip")

	cfg := testConfig()
	first, err := Process(context.Background(), inDir, outDir, cfg, nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if first.NeedsReview != 1 {
		t.Fatalf("NeedsReview = %d, want unsupported extension flagged", first.NeedsReview)
	}

	second, err := Process(context.Background(), inDir, outDir, cfg, nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if second.CacheHits != 0 {
		t.Errorf("flagged record must not be served from cache, CacheHits = %d", second.CacheHits)
	}
	if second.NeedsReview != 1 {
		t.Errorf("NeedsReview = %d on rerun", second.NeedsReview)
	}
}

func TestProcess_ArtifactsWritten(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeInput(t, inDir, "通知/a.txt", noticeText)

	stats, err := Process(context.Background(), inDir, outDir, testConfig(), nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Bundles != 1 {
		t.Errorf("Bundles = %d", stats.Bundles)
	}
	for _, name := range []string{
		"bundle_001.txt", "preamble.txt", "upload_guide.txt",
		"law_crossref.txt", "00_統合目次.xlsx", "00_統合目次.md",
		"dashboard.html", "needs_review.csv", LogFileName, "manifest_cache.json",
	} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("artifact %s missing: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "docs_txt", "通知_a.txt")); err != nil {
		t.Errorf("payload text missing: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "bundle_001.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "点検は毎年実施") {
		t.Errorf("bundle missing payload:\n%s", data)
	}
	// guessed metadata stays out of the payload block
	if strings.Contains(string(data), "タイトル(推定)") {
		t.Error("bundle embeds guessed metadata")
	}
}

func TestProcess_ShortBodyFlagged(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeInput(t, inDir, "通知/a.txt", noticeText)

	stats, err := Process(context.Background(), inDir, outDir, common.DefaultConfig(), nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if stats.NeedsReview != 1 {
		t.Fatalf("NeedsReview = %d, want body under the default threshold flagged", stats.NeedsReview)
	}
	if stats.ReviewReasons["本文が短い(要確認)"] != 1 {
		t.Errorf("ReviewReasons = %v", stats.ReviewReasons)
	}
}

func TestProcess_AttachmentSplitShapesPayload(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	body := noticeText + strings.Repeat("点検結果は所轄消防署へ報告すること。\n", 15)
	writeInput(t, inDir, "通知/a.txt", body+"別紙\n様式第1号の記載例\n")

	if _, err := Process(context.Background(), inDir, outDir, testConfig(), nil, testLogger()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "docs_txt", "通知_a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	payload := string(data)
	if !strings.Contains(payload, "【別添・別紙・参考】") {
		t.Errorf("attachment section missing from payload:\n%s", payload)
	}
	if !strings.Contains(payload, "様式第1号") {
		t.Error("attachment text dropped from payload")
	}
	main := payload[:strings.Index(payload, "【別添・別紙・参考】")]
	if strings.Contains(main, "様式第1号") {
		t.Error("attachment text leaked into the main body")
	}
}

func TestProcess_MissingInputDirRejected(t *testing.T) {
	_, err := Process(context.Background(), filepath.Join(t.TempDir(), "absent"), t.TempDir(), testConfig(), nil, testLogger())
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("err = %v, want invalid-input sentinel", err)
	}
}

func TestProcess_CancelledBeforeStartReturnsPartial(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeInput(t, inDir, "a.txt", noticeText)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := Process(ctx, inDir, outDir, testConfig(), nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if !stats.Cancelled {
		t.Error("Cancelled flag not set")
	}
	if stats.Total != 0 {
		t.Errorf("Total = %d before any file was processed", stats.Total)
	}
	// partial artifacts are still persisted
	if _, err := os.Stat(filepath.Join(outDir, LogFileName)); err != nil {
		t.Errorf("processing log missing after cancellation: %v", err)
	}
}

func TestProcess_OutputSubtreeExcluded(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(inDir, "out")
	writeInput(t, inDir, "a.txt", noticeText)

	first, err := Process(context.Background(), inDir, outDir, testConfig(), nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Process(context.Background(), inDir, outDir, testConfig(), nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if second.Total != first.Total {
		t.Errorf("output artifacts leaked into the scan: %d vs %d records", second.Total, first.Total)
	}
}

func TestProcess_ProgressCheckpoints(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeInput(t, inDir, "a.txt", noticeText)

	var statuses []string
	progress := func(curr, total int, rel, status string) {
		if curr != 1 || total != 1 || rel != "a.txt" {
			t.Errorf("unexpected progress args: %d/%d %s", curr, total, rel)
		}
		statuses = append(statuses, status)
	}
	if _, err := Process(context.Background(), inDir, outDir, testConfig(), progress, testLogger()); err != nil {
		t.Fatal(err)
	}
	if len(statuses) < 2 {
		t.Fatalf("statuses = %v, want pre-hash and pre-extract checkpoints", statuses)
	}
}

func TestSortRecordsOrder(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeInput(t, inDir, "通知/b.txt", noticeText)
	writeInput(t, inDir, "法令/rei.txt", "消防法施行令\n第1条 この政令は必要な事項を定める。\n")

	if _, err := Process(context.Background(), inDir, outDir, testConfig(), nil, testLogger()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "00_統合目次.md"))
	if err != nil {
		t.Fatal(err)
	}
	md := string(data)
	if strings.Index(md, "法令") > strings.Index(md, "通知") {
		t.Error("law group should precede notices in the TOC")
	}
}
