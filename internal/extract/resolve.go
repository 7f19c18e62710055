package extract

import (
	"log/slog"
	"os/exec"

	"github.com/noticekit/noticeforge/internal/common"
)

// Capabilities records which external tools resolved at startup. An
// empty path means the tool is unavailable; backends check here once
// instead of probing PATH per file.
type Capabilities struct {
	Pdftoppm  string
	Tesseract string
	DocuWorks string // first tool from the configured priority list that resolved
}

// OCRAvailable reports whether the full rasterize-then-recognize chain
// is present.
func (c Capabilities) OCRAvailable() bool {
	return c.Pdftoppm != "" && c.Tesseract != ""
}

// ResolveCapabilities probes PATH for every configured external tool.
// lookPath may be nil outside tests.
func ResolveCapabilities(cfg *common.Config, lookPath func(string) (string, error), logger *slog.Logger) Capabilities {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if logger == nil {
		logger = slog.Default()
	}

	var caps Capabilities
	if cfg.OCR.Enabled {
		if p, err := lookPath(cfg.OCR.Pdftoppm); err == nil {
			caps.Pdftoppm = p
		} else {
			logger.Warn("pdftoppm not found, OCR fallback disabled", "tool", cfg.OCR.Pdftoppm)
		}
		if p, err := lookPath(cfg.OCR.Tesseract); err == nil {
			caps.Tesseract = p
		} else {
			logger.Warn("tesseract not found, OCR fallback disabled", "tool", cfg.OCR.Tesseract)
		}
	}

	for _, tool := range cfg.Extraction.DocuWorksTools {
		if p, err := lookPath(tool); err == nil {
			caps.DocuWorks = p
			logger.Debug("docuworks tool resolved", "tool", tool, "path", p)
			break
		}
	}
	if caps.DocuWorks == "" {
		logger.Info("no docuworks tool available, xdw/xbd files will be recorded as missing")
	}
	return caps
}
