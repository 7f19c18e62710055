package extract

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/noticekit/noticeforge/constants"
)

func (e *Extractor) extractPlainText(absPath string) (Result, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return Result{Method: constants.MethodError}, fmt.Errorf("read text file: %w", err)
	}
	return Result{Text: decodeText(data), Method: constants.MethodPlainText}, nil
}

// decodeText interprets bytes as UTF-8 when valid, otherwise as CP932
// (the usual encoding of Japanese office exports). When even that fails
// the bytes are kept with invalid sequences replaced, so the file still
// yields a record rather than an error.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
	if err == nil && utf8.Valid(decoded) {
		return string(decoded)
	}
	return strings.ToValidUTF8(string(data), "�")
}
