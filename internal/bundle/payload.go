package bundle

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/noticekit/noticeforge/internal/common"
	"github.com/noticekit/noticeforge/internal/entity"
)

// PayloadDirName holds one plain-text file per record, for spot checks
// and for tools that want single documents instead of bundles.
const PayloadDirName = "docs_txt"

// WritePayloadTexts writes each non-empty payload to its own file under
// docs_txt/, named by the flattened relative path.
func WritePayloadTexts(outDir string, records []*entity.Record) (int, error) {
	dir := filepath.Join(outDir, PayloadDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, common.ArtifactError(PayloadDirName, err)
	}

	var written []string
	for _, r := range records {
		if r.Payload == "" {
			continue
		}
		base := strings.TrimSuffix(r.RelPath, filepath.Ext(r.RelPath))
		name := flattenName(base+".txt", written)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(r.Payload), 0o644); err != nil {
			return len(written), common.ArtifactError(filepath.Join(PayloadDirName, name), err)
		}
		written = append(written, name)
	}
	return len(written), nil
}
