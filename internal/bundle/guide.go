package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/noticekit/noticeforge/internal/common"
)

// Artifact file names inside the output directory.
const (
	PreambleFileName = "preamble.txt"
	GuideFileName    = "upload_guide.txt"
)

const preambleText = `このコレクションは消防・危険物関係の法令、通知、マニュアルを収録したものです。

回答時の注意:
- 回答には必ず根拠となる文書のファイルパスを添えてください。
- 文書のタイトル・日付・発信者は機械推定のため本文を優先してください。
- 収録外の事項については「収録文書に該当なし」と回答してください。
- 法令の適用判断は必ず原本と最新の改正状況を確認してください。
`

// WritePreamble writes the fixed instructions file that accompanies
// every upload batch.
func WritePreamble(outDir string) error {
	path := filepath.Join(outDir, PreambleFileName)
	if err := os.WriteFile(path, []byte(preambleText), 0o644); err != nil {
		return common.ArtifactError(PreambleFileName, err)
	}
	return nil
}

// WriteGuide renders the upload guide: per batch, the exact file set to
// upload together, then the size-excluded originals with reasons.
func WriteGuide(outDir string, bundles []Info, batches []BatchInfo, skipped []Skipped) error {
	var b strings.Builder
	b.WriteString("# アップロード手順\n\n")
	b.WriteString("各バッチごとに、以下のファイル一式を同一コレクションへアップロードしてください。\n\n")

	if len(batches) == 0 {
		b.WriteString("## アップロード一式(原本バッチなし)\n")
		writeCommonSet(&b, bundles)
		b.WriteString("\n")
	}
	for i, batch := range batches {
		b.WriteString(fmt.Sprintf("## バッチ %d (%s)\n", i+1, batch.Dir))
		writeCommonSet(&b, bundles)
		for _, f := range batch.Files {
			b.WriteString(fmt.Sprintf("- %s/%s\n", batch.Dir, f))
		}
		b.WriteString(fmt.Sprintf("計 %d ファイル, 原本 %d バイト\n\n", 1+len(bundles)+len(batch.Files), batch.Bytes))
	}

	if len(skipped) > 0 {
		b.WriteString("## サイズ超過のため除外した原本\n")
		for _, s := range skipped {
			b.WriteString(fmt.Sprintf("- %s (%d バイト): %s\n", s.RelPath, s.Size, s.Reason))
		}
	}

	path := filepath.Join(outDir, GuideFileName)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return common.ArtifactError(GuideFileName, err)
	}
	return nil
}

func writeCommonSet(b *strings.Builder, bundles []Info) {
	b.WriteString("- " + PreambleFileName + "\n")
	for _, bd := range bundles {
		b.WriteString("- " + bd.Name + "\n")
	}
}
