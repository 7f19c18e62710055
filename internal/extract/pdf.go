package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tsawler/tabula"

	"github.com/noticekit/noticeforge/constants"
)

// extractPDF reads the embedded text layer page by page. Pages whose
// native text falls under ocr.min_page_chars are retried once through
// the OCR chain when it resolved; a page that fails OCR keeps whatever
// native text it had.
func (e *Extractor) extractPDF(ctx context.Context, absPath, relPath string) (Result, error) {
	doc := tabula.Open(absPath)
	total, err := doc.PageCount()
	if err != nil {
		doc.Close()
		return Result{Method: constants.MethodError}, fmt.Errorf("pdf page count: %w", err)
	}
	doc.Close()

	pageTexts := make([]string, 0, total)
	for p := 1; p <= total; p++ {
		txt, warns, err := tabula.Open(absPath).Pages(p).Text()
		if err != nil {
			return Result{Method: constants.MethodError}, fmt.Errorf("pdf page %d: %w", p, err)
		}
		if len(warns) > 0 {
			e.logger.Debug("pdf extraction warnings", "path", relPath, "page", p, "count", len(warns))
		}
		pageTexts = append(pageTexts, txt)
	}

	ocrPages := 0
	if e.cfg.OCR.Enabled && e.caps.OCRAvailable() {
		ocrPages = e.ocrFallback(ctx, absPath, relPath, pageTexts)
	}

	return Result{
		Text:     joinPages(pageTexts),
		Pages:    total,
		Method:   pdfMethod(total, ocrPages),
		OCRPages: ocrPages,
	}, nil
}

// ocrFallback retries thin pages through the OCR chain, replacing their
// text in place. A page that fails recognition keeps its native text.
// Returns the number of pages replaced.
func (e *Extractor) ocrFallback(ctx context.Context, absPath, relPath string, pageTexts []string) int {
	total := len(pageTexts)
	ocrPages := 0
	for i, txt := range pageTexts {
		if !needsOCR(txt, e.cfg.OCR.MinPageChars) {
			continue
		}
		if e.OnOCRPage != nil {
			e.OnOCRPage(relPath, i+1, total)
		}
		recognized, err := e.ocrPage(ctx, absPath, i+1)
		if err != nil {
			e.logger.Warn("page ocr failed, keeping native text", "path", relPath, "page", i+1, "error", err)
			continue
		}
		pageTexts[i] = recognized
		ocrPages++
	}
	return ocrPages
}

// needsOCR: a page whose embedded text layer is this thin is either a
// scan or an image-only page.
func needsOCR(pageText string, minChars int) bool {
	return len([]rune(strings.TrimSpace(pageText))) < minChars
}

func pdfMethod(total, ocrPages int) string {
	switch {
	case ocrPages == 0:
		return constants.MethodNativeText
	case ocrPages == total:
		return constants.MethodOCR
	default:
		return constants.MethodOCRPartial
	}
}

func joinPages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // keep a clear page break marker
		}
		b.WriteString(p)
	}
	return b.String()
}

// ocrPage rasterizes one page and recognizes it. One attempt per page.
func (e *Extractor) ocrPage(ctx context.Context, absPath string, page int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(e.cfg.OCR.TimeoutSec)*time.Second)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "nf-ocr-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove temp dir", "path", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -f N -l N -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.caps.Pdftoppm, e.logger,
		"-f", fmt.Sprintf("%d", page), "-l", fmt.Sprintf("%d", page),
		"-r", fmt.Sprintf("%d", e.cfg.OCR.DPI), "-png", absPath, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no image for page %d", page)
	}

	// tesseract <img> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.caps.Tesseract, e.logger,
		matches[0], "stdout", "-l", e.cfg.OCR.Language)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
