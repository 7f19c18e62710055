// Package extract turns source files into plain text. Each backend is
// selected by extension; the rest of the pipeline only ever sees the
// resulting text and a method tag.
package extract

import (
	"context"
	"log/slog"
)

// Result is one file's extraction outcome. Method is always set, even
// when extraction produced nothing.
type Result struct {
	Text     string
	Pages    int
	Method   string // constants.Method*
	OCRPages int    // pages that went through the OCR engine
}

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, logger *slog.Logger, args ...string) (stdout, stderr []byte, err error)
}
