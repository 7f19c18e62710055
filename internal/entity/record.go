package entity

import (
	"time"

	"github.com/noticekit/noticeforge/constants"
)

// UnknownDateKey sorts unparsable dates last.
const UnknownDateKey = "99999999"

// Record is the per-file processing outcome. One Record exists per
// distinct file content per run; byte-identical files are deduplicated on
// ContentHash. All derived fields are best-effort estimates and may
// require human review.
type Record struct {
	// identity
	RelPath     string    `json:"relpath"`
	Ext         string    `json:"ext"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mtime"`
	ContentHash string    `json:"content_hash"`

	// extraction
	Method    string `json:"method"`
	Pages     int    `json:"pages,omitempty"`
	TextChars int    `json:"text_chars"`

	// derived
	DocType      constants.DocType   `json:"doc_type"`
	Title        string              `json:"title"`
	Date         string              `json:"date"`
	DateKey      string              `json:"date_key"`
	Issuer       string              `json:"issuer"`
	FacilityTags []string            `json:"facility_tags,omitempty"`
	WorkTags     []string            `json:"work_tags,omitempty"`
	TagEvidence  map[string][]string `json:"tag_evidence,omitempty"`
	Summary      string              `json:"summary"`
	OCRScore     float64             `json:"ocr_score"`
	LawRefs      []string            `json:"law_refs,omitempty"`
	Amendments   []string            `json:"amendments,omitempty"`

	// review
	NeedsReview bool   `json:"needs_review"`
	Reason      string `json:"reason,omitempty"`

	// export payload: body text only. Guessed title/date/issuer are kept
	// out so downstream retrieval never treats estimates as source fact.
	Payload string `json:"payload"`
}

// Flag marks the record for review, keeping the first reason.
func (r *Record) Flag(reason string) {
	r.NeedsReview = true
	if r.Reason == "" {
		r.Reason = reason
	}
}

// RehydrateFrom copies every cached field except the caller-owned
// identity (relpath and hash stay as computed for this run).
func (r *Record) RehydrateFrom(cached *Record) {
	relpath, hash := r.RelPath, r.ContentHash
	*r = *cached
	r.RelPath = relpath
	r.ContentHash = hash
}
