package extract

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/noticekit/noticeforge/constants"
	"github.com/noticekit/noticeforge/internal/common"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// stubRunner records invocations and plays back canned output.
type stubRunner struct {
	calls  [][]string
	stdout []byte
	err    error
}

func (s *stubRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	return s.stdout, nil, s.err
}

func TestResolveCapabilities(t *testing.T) {
	cfg := common.DefaultConfig()
	cfg.OCR.Enabled = true
	cfg.Extraction.DocuWorksTools = []string{"xdw2text", "dwviewer"}

	lookPath := func(name string) (string, error) {
		switch name {
		case "pdftoppm", "tesseract":
			return "/usr/bin/" + name, nil
		case "dwviewer":
			return "/opt/dw/dwviewer", nil
		}
		return "", errors.New("not found")
	}

	caps := ResolveCapabilities(cfg, lookPath, testLogger())
	if !caps.OCRAvailable() {
		t.Error("ocr chain should resolve")
	}
	if caps.DocuWorks != "/opt/dw/dwviewer" {
		t.Errorf("DocuWorks = %q, want second-priority tool after first misses", caps.DocuWorks)
	}
}

func TestResolveCapabilities_OCRDisabledSkipsProbe(t *testing.T) {
	cfg := common.DefaultConfig()
	cfg.OCR.Enabled = false
	cfg.Extraction.DocuWorksTools = nil

	probed := map[string]bool{}
	lookPath := func(name string) (string, error) {
		probed[name] = true
		return "", errors.New("not found")
	}
	caps := ResolveCapabilities(cfg, lookPath, testLogger())
	if probed["pdftoppm"] || probed["tesseract"] {
		t.Error("ocr tools must not be probed when ocr is disabled")
	}
	if caps.OCRAvailable() {
		t.Error("ocr must not resolve when disabled")
	}
}

func TestDecodeText(t *testing.T) {
	utf8Text := "消防法の運用について"
	if got := decodeText([]byte(utf8Text)); got != utf8Text {
		t.Errorf("utf-8 passthrough = %q", got)
	}

	// CP932 bytes of the same string
	cp932 := []byte{
		0x8f, 0xc1, 0x96, 0x68, 0x96, 0x40, 0x82, 0xcc, 0x89, 0x5e,
		0x97, 0x70, 0x82, 0xc9, 0x82, 0xc2, 0x82, 0xa2, 0x82, 0xc4,
	}
	if got := decodeText(cp932); got != utf8Text {
		t.Errorf("cp932 decode = %q, want %q", got, utf8Text)
	}
}

func TestPDFMethodTag(t *testing.T) {
	tests := []struct {
		total, ocr int
		want       string
	}{
		{3, 0, constants.MethodNativeText},
		{3, 3, constants.MethodOCR},
		{3, 1, constants.MethodOCRPartial},
	}
	for _, tt := range tests {
		if got := pdfMethod(tt.total, tt.ocr); got != tt.want {
			t.Errorf("pdfMethod(%d, %d) = %q, want %q", tt.total, tt.ocr, got, tt.want)
		}
	}
}

func TestNeedsOCR(t *testing.T) {
	tests := []struct {
		text string
		min  int
		want bool
	}{
		{"第１条　火災の予防について定める。通知本文が十分にある頁。", 10, false},
		{"頁 1", 40, true},
		{"   \n\t  ", 1, true},
	}
	for _, tt := range tests {
		if got := needsOCR(tt.text, tt.min); got != tt.want {
			t.Errorf("needsOCR(%q, %d) = %v, want %v", tt.text, tt.min, got, tt.want)
		}
	}
}

// ocrChainRunner simulates the rasterize-then-recognize chain: the
// first call drops a png where the real pdftoppm would, the second
// returns recognized text.
type ocrChainRunner struct {
	t     *testing.T
	calls [][]string
}

func (s *ocrChainRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	if name == "pdftoppm" {
		prefix := args[len(args)-1]
		if err := os.WriteFile(prefix+"-1.png", []byte("png"), 0o644); err != nil {
			s.t.Fatal(err)
		}
		return nil, nil, nil
	}
	return []byte("認識された本文\n"), nil, nil
}

func TestOCRPage(t *testing.T) {
	cfg := common.DefaultConfig()
	cfg.OCR.Enabled = true
	runner := &ocrChainRunner{t: t}
	e := New(cfg, Capabilities{Pdftoppm: "pdftoppm", Tesseract: "tesseract"}, runner, testLogger())

	got, err := e.ocrPage(context.Background(), "/in/scan.pdf", 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != "認識された本文\n" {
		t.Errorf("ocrPage text = %q", got)
	}
	if len(runner.calls) != 2 {
		t.Fatalf("calls = %v, want pdftoppm then tesseract", runner.calls)
	}
	ppm := runner.calls[0]
	for _, flag := range []string{"-f", "-l", "-png"} {
		found := false
		for _, a := range ppm {
			if a == flag {
				found = true
			}
		}
		if !found {
			t.Errorf("pdftoppm args missing %s: %v", flag, ppm)
		}
	}
	tess := runner.calls[1]
	if tess[0] != "tesseract" || tess[2] != "stdout" {
		t.Errorf("tesseract call = %v", tess)
	}
}

func TestOCRFallback_ReplacesThinPagesOnly(t *testing.T) {
	cfg := common.DefaultConfig()
	cfg.OCR.Enabled = true
	runner := &ocrChainRunner{t: t}
	e := New(cfg, Capabilities{Pdftoppm: "pdftoppm", Tesseract: "tesseract"}, runner, testLogger())

	var hookPages []int
	e.OnOCRPage = func(rel string, page, total int) {
		if rel != "scan.pdf" || total != 2 {
			t.Errorf("hook args: %s %d/%d", rel, page, total)
		}
		hookPages = append(hookPages, page)
	}

	native := strings.Repeat("危険物の規制に関する運用基準を定める。", 3)
	pages := []string{native, "頁 2"}
	n := e.ocrFallback(context.Background(), "/in/scan.pdf", "scan.pdf", pages)
	if n != 1 {
		t.Fatalf("replaced pages = %d, want 1", n)
	}
	if pages[0] != native {
		t.Errorf("page with enough embedded text was replaced: %q", pages[0])
	}
	if pages[1] != "認識された本文\n" {
		t.Errorf("thin page not replaced: %q", pages[1])
	}
	if len(hookPages) != 1 || hookPages[0] != 2 {
		t.Errorf("hook pages = %v, want just the thin page", hookPages)
	}
	if got := pdfMethod(len(pages), n); got != constants.MethodOCRPartial {
		t.Errorf("method = %q, want partial tag for a mixed document", got)
	}
}

func TestOCRFallback_FailureKeepsNativeText(t *testing.T) {
	cfg := common.DefaultConfig()
	cfg.OCR.Enabled = true
	runner := &stubRunner{err: errors.New("exit status 1")}
	e := New(cfg, Capabilities{Pdftoppm: "pdftoppm", Tesseract: "tesseract"}, runner, testLogger())

	pages := []string{"頁 1"}
	n := e.ocrFallback(context.Background(), "/in/scan.pdf", "scan.pdf", pages)
	if n != 0 {
		t.Errorf("replaced pages = %d, want none on tool failure", n)
	}
	if pages[0] != "頁 1" {
		t.Errorf("native text lost: %q", pages[0])
	}
	if got := pdfMethod(len(pages), n); got != constants.MethodNativeText {
		t.Errorf("method = %q", got)
	}
}

func TestJoinPages(t *testing.T) {
	got := joinPages([]string{"一頁", "  ", "二頁"})
	want := "一頁\n\f\n二頁"
	if got != want {
		t.Errorf("joinPages = %q, want %q", got, want)
	}
}

func TestExtract_PlainTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memo.txt")
	if err := os.WriteFile(path, []byte("貯蔵所の点検基準"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := New(common.DefaultConfig(), Capabilities{}, nil, testLogger())
	res, err := e.Extract(context.Background(), path, "memo.txt", "txt")
	if err != nil {
		t.Fatal(err)
	}
	if res.Method != constants.MethodPlainText || res.Text != "貯蔵所の点検基準" {
		t.Errorf("result = %+v", res)
	}
}

func TestExtract_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blank.txt")
	if err := os.WriteFile(path, []byte("   \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := New(common.DefaultConfig(), Capabilities{}, nil, testLogger())
	res, err := e.Extract(context.Background(), path, "blank.txt", "txt")
	if err != nil {
		t.Fatal(err)
	}
	if res.Method != constants.MethodEmpty {
		t.Errorf("method = %q, want empty tag", res.Method)
	}
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	e := New(common.DefaultConfig(), Capabilities{}, nil, testLogger())
	res, err := e.Extract(context.Background(), "/nonexistent/a.zip", "a.zip", "zip")
	if err != nil {
		t.Fatal(err)
	}
	if res.Method != constants.MethodUnsupported {
		t.Errorf("method = %q, want unsupported", res.Method)
	}
}

func TestExtract_DocuWorksMissingTool(t *testing.T) {
	e := New(common.DefaultConfig(), Capabilities{}, nil, testLogger())
	res, err := e.Extract(context.Background(), "/nonexistent/a.xdw", "a.xdw", "xdw")
	if err != nil {
		t.Fatal(err)
	}
	if res.Method != constants.MethodMissing {
		t.Errorf("method = %q, want missing", res.Method)
	}
}

func TestExtract_DocuWorksViaRunner(t *testing.T) {
	runner := &stubRunner{stdout: []byte("変換済み本文")}
	e := New(common.DefaultConfig(), Capabilities{DocuWorks: "/opt/dw/xdw2text"}, runner, testLogger())

	res, err := e.Extract(context.Background(), "/in/a.xdw", "a.xdw", "xdw")
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "変換済み本文" || res.Method != constants.MethodPlainText {
		t.Errorf("result = %+v", res)
	}
	if len(runner.calls) != 1 || runner.calls[0][0] != "/opt/dw/xdw2text" {
		t.Errorf("runner calls = %v", runner.calls)
	}
}

func TestExtract_DocuWorksToolFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("exit status 1")}
	e := New(common.DefaultConfig(), Capabilities{DocuWorks: "/opt/dw/xdw2text"}, runner, testLogger())

	res, err := e.Extract(context.Background(), "/in/a.xdw", "a.xdw", "xdw")
	if err == nil {
		t.Fatal("want error from failing converter")
	}
	if res.Method != constants.MethodError {
		t.Errorf("method = %q, want error tag", res.Method)
	}
}
