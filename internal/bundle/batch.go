package bundle

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/noticekit/noticeforge/internal/common"
	"github.com/noticekit/noticeforge/internal/entity"
)

// BatchInfo describes one written batch folder.
type BatchInfo struct {
	Dir   string
	Files []string
	Bytes int64
}

// Skipped records an original excluded from batching, with the reason.
type Skipped struct {
	RelPath string
	Size    int64
	Reason  string
}

// BatchOriginals copies the eligible original files into numbered batch
// folders. Each batch is bounded two ways: a slot count (the platform's
// per-collection ceiling minus one slot for the preamble and one per
// text bundle, which accompany every batch) and a cumulative byte
// limit. Files over the per-file limit are never copied; they come back
// in the skipped list instead.
func BatchOriginals(inDir, outDir string, records []*entity.Record, cfg common.ExportConfig, bundleCount int, logger *slog.Logger) ([]BatchInfo, []Skipped, error) {
	slots := cfg.SlotCeiling - 1 - bundleCount
	if slots < 1 {
		return nil, nil, common.NewAppError("EXPORT_SLOTS",
			fmt.Sprintf("slot ceiling %d leaves no room for originals next to the preamble and %d bundles", cfg.SlotCeiling, bundleCount), nil)
	}

	var (
		batches []BatchInfo
		skipped []Skipped
		cur     *BatchInfo
	)

	openBatch := func() error {
		dir := fmt.Sprintf("batch_%02d", len(batches)+1)
		if err := os.MkdirAll(filepath.Join(outDir, dir), 0o755); err != nil {
			return common.ArtifactError(dir, err)
		}
		batches = append(batches, BatchInfo{Dir: dir})
		cur = &batches[len(batches)-1]
		return nil
	}

	for _, r := range eligibleOriginals(records) {
		if r.Size > cfg.OriginalMaxBytes {
			skipped = append(skipped, Skipped{
				RelPath: r.RelPath,
				Size:    r.Size,
				Reason:  fmt.Sprintf("ファイルサイズ %d バイトが上限 %d バイトを超過", r.Size, cfg.OriginalMaxBytes),
			})
			logger.Info("original excluded from batching", "path", r.RelPath, "size", r.Size)
			continue
		}

		if cur == nil || len(cur.Files) >= slots || cur.Bytes+r.Size > cfg.BatchMaxBytes {
			if err := openBatch(); err != nil {
				return nil, nil, err
			}
		}

		name := flattenName(r.RelPath, cur.Files)
		dst := filepath.Join(outDir, cur.Dir, name)
		if err := copyFile(filepath.Join(inDir, filepath.FromSlash(r.RelPath)), dst); err != nil {
			return nil, nil, common.ArtifactError(filepath.Join(cur.Dir, name), err)
		}
		cur.Files = append(cur.Files, name)
		cur.Bytes += r.Size
	}
	return batches, skipped, nil
}

// flattenName turns a relative path into a single collision-safe file
// name within the batch folder.
func flattenName(relPath string, existing []string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(relPath)
	if !contains(existing, name) {
		return name
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		cand := fmt.Sprintf("%s_%d%s", base, i, ext)
		if !contains(existing, cand) {
			return cand
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
