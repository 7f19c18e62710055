package constants

// Extraction method tags. The pipeline only ever consumes these values;
// the concrete extraction backend behind them is invisible to the core.
const (
	MethodNativeText  = "native-text" // embedded PDF text layer
	MethodDocxText    = "docx-text"
	MethodXlsxText    = "xlsx-text"
	MethodOdtText     = "odt-text"
	MethodPlainText   = "text"
	MethodOCR         = "ocr"         // every page recognized
	MethodOCRPartial  = "ocr-partial" // mixed native/recognized pages
	MethodMissing     = "missing"     // no capable backend resolved
	MethodEmpty       = "empty"       // extraction ran but produced nothing
	MethodError       = "error"
	MethodUnsupported = "unsupported"
)

// UsedOCR reports whether the method tag means the text came (at least
// partly) out of an OCR engine and therefore needs quality scoring.
func UsedOCR(method string) bool {
	return method == MethodOCR || method == MethodOCRPartial
}

// MethodFailed reports whether the tag represents a non-result. Records
// carrying these are flagged for review and kept out of the cache.
func MethodFailed(method string) bool {
	switch method {
	case MethodMissing, MethodEmpty, MethodError, MethodUnsupported:
		return true
	}
	return false
}
