package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_EmptyAndMissingPathUseDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "absent.yaml")} {
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig(%q) error: %v", path, err)
		}
		if cfg.Summary.BudgetChars != 900 || cfg.Heuristics.MinMainBodyChars != 800 {
			t.Errorf("LoadConfig(%q) did not return defaults: %+v", path, cfg)
		}
	}
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nf.yaml")
	data := "heuristics:\n  min_mainbody_chars: 50\n  title_max_chars: 60\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Heuristics.MinMainBodyChars != 50 || cfg.Heuristics.TitleMaxChars != 60 {
		t.Errorf("overrides not applied: %+v", cfg.Heuristics)
	}
	// untouched sections keep their defaults
	if cfg.Heuristics.TagWindowChars != 8000 || cfg.Export.SlotCeiling != 20 {
		t.Errorf("defaults lost under partial file: %+v", cfg)
	}
}

func TestLoadConfig_InvalidFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nf.yaml")
	if err := os.WriteFile(path, []byte("scan:\n  max_depth: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidMaxDepth) {
		t.Errorf("err = %v, want max-depth validation failure", err)
	}
}
