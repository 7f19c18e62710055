package common

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidMaxDepth      = errors.New("scan.max_depth must be at least 1")
	ErrInvalidBudget        = errors.New("summary.budget_chars must be at least 100")
	ErrInvalidScoreCutoff   = errors.New("ocr score cutoffs must be within [0,1] and review >= suppress")
	ErrInvalidBundleBytes   = errors.New("export.bundle_max_bytes must be positive")
	ErrInvalidSlotCeiling   = errors.New("export.slot_ceiling must leave room for the preamble and at least one original")
	ErrInvalidBatchBytes    = errors.New("export.batch_max_bytes must be >= export.original_max_bytes")
	ErrInvalidOriginalBytes = errors.New("export.original_max_bytes must be positive")
)

// Config holds all pipeline configuration. Every empirically tuned
// threshold lives here as a named parameter rather than a literal.
type Config struct {
	Scan       ScanConfig       `yaml:"scan"`
	Heuristics HeuristicsConfig `yaml:"heuristics"`
	Summary    SummaryConfig    `yaml:"summary"`
	OCR        OCRConfig        `yaml:"ocr"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Export     ExportConfig     `yaml:"export"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ScanConfig controls the directory walk.
type ScanConfig struct {
	MaxDepth  int      `yaml:"max_depth"`
	SkipNames []string `yaml:"skip_names"`
}

// HeuristicsConfig holds the classification and extraction windows.
type HeuristicsConfig struct {
	TypeWindowChars   int `yaml:"type_window_chars"`   // article counting window
	NotifyWindowChars int `yaml:"notify_window_chars"` // notify-phrase veto window
	MinArticleCount   int `yaml:"min_article_count"`   // articles needed to call it a law
	TagWindowChars    int `yaml:"tag_window_chars"`
	MaxTagEvidence    int `yaml:"max_tag_evidence"`
	TitleMaxChars     int `yaml:"title_max_chars"`
	LawRefWindowChars int `yaml:"lawref_window_chars"`
	MaxLawRefs        int `yaml:"max_law_refs"`
	MaxAmendments     int `yaml:"max_amendments"`

	// MainAttachKeywords mark where attachments (別添/別紙/参考) begin;
	// title, tag and summary heuristics read the main body only.
	MainAttachKeywords []string `yaml:"main_attach_keywords"`
	// MinMainBodyChars flags a record whose main body is shorter than
	// this, unless it is already flagged for a harder reason.
	MinMainBodyChars int `yaml:"min_mainbody_chars"`
}

// SummaryConfig bounds the generated summaries.
type SummaryConfig struct {
	BudgetChars       int `yaml:"budget_chars"`
	IntentCapChars    int `yaml:"intent_cap_chars"`
	PurposeCapChars   int `yaml:"purpose_cap_chars"`
	ShortLineMergeLen int `yaml:"short_line_merge_len"`
}

// OCRConfig controls the OCR fallback and quality policy.
type OCRConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Pdftoppm       string  `yaml:"pdftoppm"`
	Tesseract      string  `yaml:"tesseract"`
	Language       string  `yaml:"language"`
	DPI            int     `yaml:"dpi"`
	MinPageChars   int     `yaml:"min_page_chars"` // embedded text below this triggers OCR for the page
	TimeoutSec     int     `yaml:"timeout_sec"`
	ReviewBelow    float64 `yaml:"review_below_score"`   // < this forces needs_review
	SuppressBelow  float64 `yaml:"suppress_below_score"` // < this suppresses summarization
	MaxLineLenNorm int     `yaml:"max_line_len_norm"`    // line-length cap in the quality score
}

// ExtractionConfig configures the external extraction backends.
type ExtractionConfig struct {
	// DocuWorksTools is tried in order; the ordering is empirical, not a
	// correctness requirement.
	DocuWorksTools []string `yaml:"docuworks_tools"`
	ToolTimeoutSec int      `yaml:"tool_timeout_sec"`
}

// ExportConfig bounds the destination-platform packaging.
type ExportConfig struct {
	BundleMaxBytes   int64 `yaml:"bundle_max_bytes"`
	SlotCeiling      int   `yaml:"slot_ceiling"` // per-collection item limit of the destination platform
	BatchMaxBytes    int64 `yaml:"batch_max_bytes"`
	OriginalMaxBytes int64 `yaml:"original_max_bytes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			MaxDepth:  30,
			SkipNames: []string{"Thumbs.db", "desktop.ini", ".DS_Store", "$RECYCLE.BIN", "System Volume Information"},
		},
		Heuristics: HeuristicsConfig{
			TypeWindowChars:   10000,
			NotifyWindowChars: 3000,
			MinArticleCount:   5,
			TagWindowChars:    8000,
			MaxTagEvidence:    3,
			TitleMaxChars:     120,
			LawRefWindowChars: 6000,
			MaxLawRefs:        10,
			MaxAmendments:     5,
			MainAttachKeywords: []string{
				"別添", "別紙", "参考", "添付",
				"（写）", "(写)", "【別添】", "【別紙】", "【参考】",
			},
			MinMainBodyChars: 800,
		},
		Summary: SummaryConfig{
			BudgetChars:       900,
			IntentCapChars:    200,
			PurposeCapChars:   300,
			ShortLineMergeLen: 10,
		},
		OCR: OCRConfig{
			Enabled:        false,
			Pdftoppm:       "pdftoppm",
			Tesseract:      "tesseract",
			Language:       "jpn",
			DPI:            300,
			MinPageChars:   40,
			TimeoutSec:     120,
			ReviewBelow:    0.35,
			SuppressBelow:  0.25,
			MaxLineLenNorm: 25,
		},
		Extraction: ExtractionConfig{
			DocuWorksTools: []string{"xdw2text", "dwviewer"},
			ToolTimeoutSec: 60,
		},
		Export: ExportConfig{
			BundleMaxBytes:   2 << 20,
			SlotCeiling:      20,
			BatchMaxBytes:    200 << 20,
			OriginalMaxBytes: 30 << 20,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty or
// missing path returns the defaults unchanged; a present but unreadable
// or invalid file is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if c.Scan.MaxDepth < 1 {
		return ErrInvalidMaxDepth
	}
	if c.Summary.BudgetChars < 100 {
		return ErrInvalidBudget
	}
	if c.OCR.ReviewBelow < 0 || c.OCR.ReviewBelow > 1 ||
		c.OCR.SuppressBelow < 0 || c.OCR.SuppressBelow > 1 ||
		c.OCR.ReviewBelow < c.OCR.SuppressBelow {
		return ErrInvalidScoreCutoff
	}
	if c.Export.BundleMaxBytes <= 0 {
		return ErrInvalidBundleBytes
	}
	if c.Export.SlotCeiling < 3 {
		return ErrInvalidSlotCeiling
	}
	if c.Export.OriginalMaxBytes <= 0 {
		return ErrInvalidOriginalBytes
	}
	if c.Export.BatchMaxBytes < c.Export.OriginalMaxBytes {
		return ErrInvalidBatchBytes
	}
	return nil
}
