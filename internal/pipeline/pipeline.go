// Package pipeline drives one full run: walk, hash, cache, extract,
// classify, summarize, annotate, then package everything for upload.
// Processing is strictly sequential; one file completes before the next
// begins, so no locking is needed anywhere downstream.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/noticekit/noticeforge/constants"
	"github.com/noticekit/noticeforge/internal/bundle"
	"github.com/noticekit/noticeforge/internal/cache"
	"github.com/noticekit/noticeforge/internal/classify"
	"github.com/noticekit/noticeforge/internal/common"
	"github.com/noticekit/noticeforge/internal/entity"
	"github.com/noticekit/noticeforge/internal/extract"
	"github.com/noticekit/noticeforge/internal/jptext"
	"github.com/noticekit/noticeforge/internal/lawref"
	"github.com/noticekit/noticeforge/internal/ocrscore"
	"github.com/noticekit/noticeforge/internal/report"
	"github.com/noticekit/noticeforge/internal/summarize"
)

// LogFileName of the plain-text processing log in the output directory.
const LogFileName = "processing_log.txt"

// Progress is invoked at fixed checkpoints: before hashing, before
// extraction, and per OCR page. Callers running the pipeline on a
// background goroutine marshal invocations to their own loop; the
// pipeline assumes the callback is cheap and non-blocking.
type Progress func(current, total int, relPath, status string)

// Stats is the run outcome handed back to the caller.
type Stats struct {
	Total            int // distinct records produced
	Duplicates       int
	CacheHits        int
	NeedsReview      int
	ReviewReasons    map[string]int
	Bundles          int
	Batches          int
	SkippedOriginals int
	Cancelled        bool
}

// Process runs the pipeline over inputDir and writes every artifact
// below outputDir. Cancellation via ctx is cooperative: it is polled
// once per file, the file in flight always completes, and partial
// results are still persisted and returned.
func Process(ctx context.Context, inputDir, outputDir string, cfg *common.Config, progress Progress, logger *slog.Logger) (*Stats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if progress == nil {
		progress = func(int, int, string, string) {}
	}
	start := time.Now()

	if info, err := os.Stat(inputDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: input directory %s", common.ErrInvalidInput, inputDir)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, common.WrapError(err, "creating output directory")
	}

	caps := extract.ResolveCapabilities(cfg, nil, logger)
	c := cache.Load(outputDir, logger)

	targets, err := collectTargets(inputDir, outputDir, cfg.Scan, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("scan complete", "files", len(targets), "cache_entries", c.Len())

	stats := &Stats{ReviewReasons: map[string]int{}}
	var records []*entity.Record
	seen := map[string]struct{}{}

	extractor := extract.New(cfg, caps, nil, logger)
	total := len(targets)
	for i, rel := range targets {
		extractor.OnOCRPage = func(relPath string, page, pages int) {
			progress(i+1, total, relPath, fmt.Sprintf("OCR %d/%d頁", page, pages))
		}
		if ctx.Err() != nil {
			logger.Info("cancellation requested, stopping after current file", "processed", i)
			stats.Cancelled = true
			break
		}

		progress(i+1, total, rel, "ハッシュ計算")
		abs := filepath.Join(inputDir, filepath.FromSlash(rel))
		hash, size, modTime, err := hashFile(abs)
		if err != nil {
			logger.Warn("cannot hash file, skipping", "path", rel, "error", err)
			continue
		}
		if _, dup := seen[hash]; dup {
			stats.Duplicates++
			logger.Debug("duplicate content", "path", rel)
			continue
		}
		seen[hash] = struct{}{}

		rec := &entity.Record{
			RelPath:     rel,
			Ext:         constants.NormalizeExt(filepath.Ext(rel)),
			Size:        size,
			ModTime:     modTime,
			ContentHash: hash,
		}

		if cached, ok := c.Get(hash); ok {
			rec.RehydrateFrom(cached)
			stats.CacheHits++
			records = append(records, rec)
			continue
		}

		progress(i+1, total, rel, "本文抽出")
		processOne(ctx, extractor, cfg, rec, abs, logger)
		records = append(records, rec)
	}

	annotate(records, cfg)
	sortRecords(records)

	for _, r := range records {
		if r.NeedsReview {
			stats.NeedsReview++
			stats.ReviewReasons[r.Reason]++
		}
	}
	stats.Total = len(records)

	if err := c.Save(records); err != nil {
		return stats, err
	}
	if err := writeArtifacts(inputDir, outputDir, cfg, records, stats, logger); err != nil {
		return stats, err
	}
	if err := writeLog(outputDir, records, stats, time.Since(start)); err != nil {
		return stats, err
	}

	logger.Info("run complete",
		"records", stats.Total,
		"duplicates", stats.Duplicates,
		"cache_hits", stats.CacheHits,
		"needs_review", stats.NeedsReview,
		"cancelled", stats.Cancelled,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return stats, nil
}

// processOne fills in everything derived for a fresh (non-cached) file.
func processOne(ctx context.Context, extractor *extract.Extractor, cfg *common.Config, rec *entity.Record, abs string, logger *slog.Logger) {
	res, err := extractor.Extract(ctx, abs, rec.RelPath, rec.Ext)
	rec.Method = res.Method
	rec.Pages = res.Pages
	if err != nil {
		logger.Warn("extraction failed", "path", rec.RelPath, "error", err)
		rec.Flag("抽出エラー")
	}
	switch rec.Method {
	case constants.MethodUnsupported:
		rec.Flag("未対応拡張子: " + rec.Ext)
	case constants.MethodMissing:
		rec.Flag("DocuWorks変換ツールなし(原本確認が必要)")
	case constants.MethodEmpty:
		rec.Flag("本文が空(抽出方式=" + rec.Method + ")")
	}

	text := jptext.Normalize(res.Text)
	rec.TextChars = len([]rune(text))

	// title, tag and summary heuristics read the main body only;
	// appended 別添/別紙/参考 material goes into the payload section
	body, attach := classify.SplitAttachments(text, cfg.Heuristics.MainAttachKeywords)
	if body == "" {
		body = text
	}
	rec.Payload = body
	if attach != "" {
		rec.Payload = body + "\n\n【別添・別紙・参考】\n" + attach
	}

	if !rec.NeedsReview && len([]rune(body)) < cfg.Heuristics.MinMainBodyChars {
		rec.Flag("本文が短い(要確認)")
	}

	rec.DocType = classify.DetectDocType(classify.TypeInput{
		RelPath:           rec.RelPath,
		Text:              text,
		TypeWindowChars:   cfg.Heuristics.TypeWindowChars,
		NotifyWindowChars: cfg.Heuristics.NotifyWindowChars,
		MinArticleCount:   cfg.Heuristics.MinArticleCount,
	})
	rec.Title = classify.GuessTitle(rec.DocType, body, cfg.Heuristics.TitleMaxChars)
	rec.Date = classify.GuessDate(text)
	rec.DateKey = classify.DateKey(rec.Date)
	rec.Issuer = classify.GuessIssuer(text)

	tags := classify.Tag(body, cfg.Heuristics.TagWindowChars, cfg.Heuristics.MaxTagEvidence)
	rec.FacilityTags = tags.Facility
	rec.WorkTags = tags.Work
	rec.TagEvidence = tags.Evidence

	// recognized text gets scored; native text is implicitly trusted
	rec.OCRScore = 1.0
	if constants.UsedOCR(rec.Method) {
		rec.OCRScore = ocrscore.Score(text, cfg.OCR.MaxLineLenNorm)
		if rec.OCRScore < cfg.OCR.ReviewBelow {
			rec.Flag(fmt.Sprintf("OCR品質低(スコア=%.2f)", rec.OCRScore))
		}
	}

	if rec.OCRScore < cfg.OCR.SuppressBelow {
		rec.Summary = summarize.SuppressedMessage
	} else if body != "" {
		rec.Summary = summarize.Build(rec.DocType, body, rec.Title, summarize.Options{
			BudgetChars:       cfg.Summary.BudgetChars,
			IntentCapChars:    cfg.Summary.IntentCapChars,
			PurposeCapChars:   cfg.Summary.PurposeCapChars,
			ShortLineMergeLen: cfg.Summary.ShortLineMergeLen,
		})
	}
}

// annotate runs law-reference extraction over every non-law record,
// including cache hits from earlier logic versions that predate it.
func annotate(records []*entity.Record, cfg *common.Config) {
	for _, r := range records {
		if r.DocType == constants.DocTypeLaw || r.Payload == "" {
			continue
		}
		if r.LawRefs == nil {
			r.LawRefs = lawref.ExtractRefs(r.Payload, cfg.Heuristics.LawRefWindowChars, cfg.Heuristics.MaxLawRefs)
		}
		if r.Amendments == nil {
			r.Amendments = lawref.ExtractAmendments(r.Payload, cfg.Heuristics.LawRefWindowChars, cfg.Heuristics.MaxAmendments)
		}
	}
}

func sortRecords(records []*entity.Record) {
	typeOrder := map[constants.DocType]int{}
	for i, t := range constants.AllDocTypes() {
		typeOrder[t] = i
	}
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if typeOrder[a.DocType] != typeOrder[b.DocType] {
			return typeOrder[a.DocType] < typeOrder[b.DocType]
		}
		if a.DateKey != b.DateKey {
			return a.DateKey < b.DateKey
		}
		return a.Title < b.Title
	})
}

// writeArtifacts produces every upload and report artifact. A failure
// is fatal for the run but never rolls back computed records.
func writeArtifacts(inputDir, outputDir string, cfg *common.Config, records []*entity.Record, stats *Stats, logger *slog.Logger) error {
	if _, err := bundle.WritePayloadTexts(outputDir, records); err != nil {
		return err
	}
	bundles, err := bundle.WriteBundles(outputDir, records, cfg.Export.BundleMaxBytes, logger)
	if err != nil {
		return err
	}
	stats.Bundles = len(bundles)

	if err := bundle.WritePreamble(outputDir); err != nil {
		return err
	}
	batches, skipped, err := bundle.BatchOriginals(inputDir, outputDir, records, cfg.Export, len(bundles), logger)
	if err != nil {
		return err
	}
	stats.Batches = len(batches)
	stats.SkippedOriginals = len(skipped)

	if err := bundle.WriteGuide(outputDir, bundles, batches, skipped); err != nil {
		return err
	}

	xref := lawref.Build(records)
	xrefPath := filepath.Join(outputDir, "law_crossref.txt")
	if err := os.WriteFile(xrefPath, []byte(xref.Render()), 0o644); err != nil {
		return common.ArtifactError("law_crossref.txt", err)
	}

	if err := report.WriteExcelIndex(outputDir, records, logger); err != nil {
		return err
	}
	if err := report.WriteMarkdownTOC(outputDir, records); err != nil {
		return err
	}
	if err := report.WriteDashboard(outputDir, records); err != nil {
		return err
	}
	return report.WriteReviewCSV(outputDir, records)
}

func writeLog(outputDir string, records []*entity.Record, stats *Stats, elapsed time.Duration) error {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("処理完了 %s (所要 %s)\n", time.Now().Format("2006-01-02 15:04:05"), elapsed.Round(time.Second)))
	b.WriteString(fmt.Sprintf("件数=%d 重複=%d キャッシュ再利用=%d 要確認=%d 中断=%v\n\n",
		stats.Total, stats.Duplicates, stats.CacheHits, stats.NeedsReview, stats.Cancelled))
	for _, r := range records {
		b.WriteString(fmt.Sprintf("[%s] %s method=%s", r.DocType, r.RelPath, r.Method))
		if r.NeedsReview {
			b.WriteString(" 要確認: " + r.Reason)
		}
		b.WriteString("\n")
	}
	if len(stats.ReviewReasons) > 0 {
		b.WriteString("\n要確認の内訳:\n")
		reasons := make([]string, 0, len(stats.ReviewReasons))
		for reason := range stats.ReviewReasons {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			b.WriteString(fmt.Sprintf("  %s: %d\n", reason, stats.ReviewReasons[reason]))
		}
	}
	if err := os.WriteFile(filepath.Join(outputDir, LogFileName), []byte(b.String()), 0o644); err != nil {
		return common.ArtifactError(LogFileName, err)
	}
	return nil
}

// collectTargets walks the input tree in directory order, bounded by
// max depth, skipping system names and the output subtree.
func collectTargets(inputDir, outputDir string, cfg common.ScanConfig, logger *slog.Logger) ([]string, error) {
	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, err
	}
	skip := map[string]struct{}{}
	for _, n := range cfg.SkipNames {
		skip[n] = struct{}{}
	}

	var targets []string
	err = filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("walk error, skipping", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if _, skipName := skip[d.Name()]; skipName {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if abs, err := filepath.Abs(path); err == nil && abs == absOut {
				return fs.SkipDir
			}
			if rel != "." && strings.Count(rel, string(filepath.Separator)) >= cfg.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}
		targets = append(targets, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, common.WrapError(err, "walking input directory")
	}
	return targets, nil
}

// hashFile computes the chunked whole-file digest plus the stat fields
// carried on the record.
func hashFile(path string) (hash string, size int64, modTime time.Time, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, time.Time{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", 0, time.Time{}, err
	}

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", 0, time.Time{}, err
	}
	return hex.EncodeToString(h.Sum(nil)), info.Size(), info.ModTime(), nil
}
