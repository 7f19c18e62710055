// Package bundle packages processed records for upload to the
// destination platform: size-bounded text bundles, batch folders of
// original files, and the guide tying them together.
package bundle

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/noticekit/noticeforge/constants"
	"github.com/noticekit/noticeforge/internal/common"
	"github.com/noticekit/noticeforge/internal/entity"
)

// Info describes one written bundle file.
type Info struct {
	Name  string
	Count int
	Bytes int64
}

const bundleSeparator = "========================================\n"

// WriteBundles packs each record's payload block into numbered text
// files, first fit with flush. Records arrive already sorted by type,
// date key and title, so bundles stay grouped by document type without
// extra work here. The byte limit bounds the payload blocks; the small
// embedded table of contents rides on top.
func WriteBundles(outDir string, records []*entity.Record, maxBytes int64, logger *slog.Logger) ([]Info, error) {
	var (
		infos   []Info
		blocks  []string
		toc     []string
		curSize int64
	)

	flush := func() error {
		if len(blocks) == 0 {
			return nil
		}
		name := fmt.Sprintf("bundle_%03d.txt", len(infos)+1)
		var b strings.Builder
		b.WriteString("【収録文書】\n")
		for i, t := range toc {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, t))
		}
		b.WriteString("\n")
		for _, blk := range blocks {
			b.WriteString(blk)
		}
		if err := os.WriteFile(filepath.Join(outDir, name), []byte(b.String()), 0o644); err != nil {
			return common.ArtifactError(name, err)
		}
		logger.Debug("bundle written", "name", name, "records", len(blocks), "bytes", curSize)
		infos = append(infos, Info{Name: name, Count: len(blocks), Bytes: curSize})
		blocks, toc, curSize = nil, nil, 0
		return nil
	}

	for _, r := range records {
		if r.Payload == "" {
			continue
		}
		blk := recordBlock(r)
		size := int64(len(blk))
		if curSize > 0 && curSize+size > maxBytes {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		blocks = append(blocks, blk)
		toc = append(toc, fmt.Sprintf("[%s] %s", r.DocType.Label(), r.RelPath))
		curSize += size
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return infos, nil
}

// recordBlock renders one record's payload. Only the path and body go
// in; guessed title/date/issuer stay out so retrieval never treats an
// estimate as source fact.
func recordBlock(r *entity.Record) string {
	var b strings.Builder
	b.WriteString(bundleSeparator)
	b.WriteString("《" + r.RelPath + "》\n")
	b.WriteString(r.Payload)
	if !strings.HasSuffix(r.Payload, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// eligibleOriginals filters records down to the binary format family
// worth uploading as-is.
func eligibleOriginals(records []*entity.Record) []*entity.Record {
	var out []*entity.Record
	for _, r := range records {
		if constants.IsDocuWorksExt(r.Ext) {
			out = append(out, r)
		}
	}
	return out
}
