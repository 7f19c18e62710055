package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/noticekit/noticeforge/constants"
	"github.com/noticekit/noticeforge/internal/common"
)

// Extractor dispatches files to a backend by extension.
type Extractor struct {
	cfg    *common.Config
	caps   Capabilities
	runner Runner
	logger *slog.Logger

	// OnOCRPage is invoked before each page is sent to the OCR engine,
	// so long scans surface progress. May be nil.
	OnOCRPage func(relPath string, page, total int)
}

// New builds an Extractor. runner may be nil outside tests.
func New(cfg *common.Config, caps Capabilities, runner Runner, logger *slog.Logger) *Extractor {
	if runner == nil {
		runner = execRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, caps: caps, runner: runner, logger: logger}
}

// Extract picks a backend based on the (already normalized) extension.
// A non-nil error always comes with a failure method tag in the Result;
// callers record the tag and keep going.
func (e *Extractor) Extract(ctx context.Context, absPath, relPath, ext string) (Result, error) {
	if !constants.IsKnownExt(ext) {
		return Result{Method: constants.MethodUnsupported}, nil
	}
	var (
		res Result
		err error
	)
	switch {
	case ext == "pdf":
		res, err = e.extractPDF(ctx, absPath, relPath)
	case ext == "docx":
		res, err = e.extractDocx(absPath)
	case ext == "xlsx" || ext == "xlsm":
		res, err = e.extractXlsx(absPath)
	case ext == "odt":
		res, err = e.extractOdt(absPath)
	case ext == "txt" || ext == "md" || ext == "csv":
		res, err = e.extractPlainText(absPath)
	case constants.IsDocuWorksExt(ext):
		res, err = e.extractDocuWorks(ctx, absPath)
	default:
		return Result{Method: constants.MethodUnsupported}, nil
	}
	if err != nil {
		if res.Method == "" {
			res.Method = constants.MethodError
		}
		return res, err
	}
	if strings.TrimSpace(res.Text) == "" && res.Method != constants.MethodMissing {
		res.Text = ""
		res.Method = constants.MethodEmpty
	}
	return res, nil
}
