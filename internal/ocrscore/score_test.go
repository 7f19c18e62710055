package ocrscore

import (
	"math"
	"strings"
	"testing"
)

func TestIsGarbageLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"short no script", "a)", true},
		{"short with script", "記", false},
		{"ruled line", "――――――――", true},
		{"page number", "- 3 -", true},
		{"latin only long", "kQxZpWvT", true},
		{"mostly latin", "XXXXXXXXXX危", true},
		{"uppercase run dominates", "ABCDEFG規", true},
		{"normal sentence", "危険物の貯蔵及び取扱いの基準について", false},
		{"blank", "   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGarbageLine(tt.line); got != tt.want {
				t.Errorf("IsGarbageLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestScoreBounds(t *testing.T) {
	clean := strings.Repeat("危険物の貯蔵及び取扱いの技術上の基準について通知します。\n", 10)
	s := Score(clean, 0)
	if s <= 0.7 || s > 1.0 {
		t.Errorf("clean text score = %v, want (0.7, 1.0]", s)
	}
	if got := Score("", 0); got != 0 {
		t.Errorf("empty text score = %v, want 0", got)
	}
}

// Score must be non-increasing as the garbage-line proportion grows,
// all else held constant.
func TestScoreMonotonicInGarbage(t *testing.T) {
	const cleanLine = "危険物施設の保安検査の基準について"
	const garbageLine = "||||====||||"
	prev := 2.0
	for garbage := 0; garbage <= 10; garbage += 2 {
		var b strings.Builder
		for i := 0; i < 10-garbage; i++ {
			b.WriteString(cleanLine + "\n")
		}
		for i := 0; i < garbage; i++ {
			b.WriteString(garbageLine + "\n")
		}
		s := Score(b.String(), 0)
		if s > prev {
			t.Fatalf("score increased with more garbage: %v -> %v at garbage=%d", prev, s, garbage)
		}
		prev = s
	}
}

func TestScoreRounding(t *testing.T) {
	s := Score("危険物の基準\n設備の検査\n", 0)
	if math.Abs(s*100-math.Round(s*100)) > 1e-9 {
		t.Errorf("score not rounded to 2 decimals: %v", s)
	}
}
