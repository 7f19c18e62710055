package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/noticekit/noticeforge/constants"
)

// extractDocuWorks converts an .xdw/.xbd file with whichever converter
// resolved at startup. With no converter on PATH the file is recorded
// as missing, not errored, since that is an environment gap rather than
// a broken file.
func (e *Extractor) extractDocuWorks(ctx context.Context, absPath string) (Result, error) {
	if e.caps.DocuWorks == "" {
		return Result{Method: constants.MethodMissing}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(e.cfg.Extraction.ToolTimeoutSec)*time.Second)
	defer cancel()

	out, errb, err := e.runner.Run(ctx, e.caps.DocuWorks, e.logger, absPath)
	if err != nil {
		return Result{Method: constants.MethodError},
			fmt.Errorf("docuworks convert: %w (%s)", err, truncate(string(errb), 512))
	}
	// converters on Windows commonly emit CP932
	return Result{Text: decodeText(out), Method: constants.MethodPlainText}, nil
}
