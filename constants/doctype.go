package constants

// DocType is the canonical document classification.
type DocType string

// Stable values (store these exact strings in the cache).
const (
	DocTypeLaw    DocType = "LAW"    // 法令・条例・告示
	DocTypeNotice DocType = "NOTICE" // 通知・通達・事務連絡
	DocTypeManual DocType = "MANUAL" // マニュアル・手引・要領
)

var allDocTypes = []DocType{DocTypeLaw, DocTypeNotice, DocTypeManual}

// AllDocTypes returns the classification vocabulary in export order:
// laws first, then notices, then manuals.
func AllDocTypes() []DocType {
	out := make([]DocType, len(allDocTypes))
	copy(out, allDocTypes)
	return out
}

// Label returns the Japanese display label used in reports.
func (t DocType) Label() string {
	switch t {
	case DocTypeLaw:
		return "法令"
	case DocTypeNotice:
		return "通知"
	case DocTypeManual:
		return "マニュアル"
	default:
		return string(t)
	}
}
