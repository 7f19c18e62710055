package constants

import "strings"

// KnownExtensions holds the extensions the pipeline attempts to extract.
// Everything else is recorded as unsupported and flagged for review.
var KnownExtensions = map[string]struct{}{
	"pdf":  {},
	"docx": {},
	"xlsx": {},
	"xlsm": {},
	"odt":  {},
	"txt":  {},
	"md":   {},
	"csv":  {},
	"xdw":  {},
	"xbd":  {},
}

// DocuWorksExtensions is the proprietary office format family. These are
// also the only originals eligible for binary batching.
var DocuWorksExtensions = map[string]struct{}{
	"xdw": {},
	"xbd": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsKnownExt checks if a file extension is in the known set.
func IsKnownExt(ext string) bool {
	_, ok := KnownExtensions[NormalizeExt(ext)]
	return ok
}

// IsDocuWorksExt checks for the DocuWorks family (.xdw/.xbd).
func IsDocuWorksExt(ext string) bool {
	_, ok := DocuWorksExtensions[NormalizeExt(ext)]
	return ok
}
