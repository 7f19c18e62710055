package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/noticekit/noticeforge/internal/common"
	"github.com/noticekit/noticeforge/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		in       = flag.String("in", "", "input directory of source documents (required)")
		out      = flag.String("out", "", "output directory for bundles, batches and reports (required)")
		cfgPath  = flag.String("config", "", "YAML config file (optional, defaults are built in)")
		logLevel = flag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
		quiet    = flag.Bool("quiet", false, "suppress per-file progress on stdout")
	)
	flag.Parse()

	if *in == "" || *out == "" {
		printError("Error: --in and --out are required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := common.LoadConfig(*cfgPath)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(logger)

	// Ctrl-C requests cooperative cancellation; the file in flight
	// finishes and partial results are persisted.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var progress pipeline.Progress
	if !*quiet {
		progress = func(current, total int, relPath, status string) {
			fmt.Printf("[%d/%d] %s %s\n", current, total, status, relPath)
		}
	}

	logger.Info("starting run", "in", *in, "out", *out)
	stats, err := pipeline.Process(ctx, *in, *out, cfg, progress, logger)
	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("処理完了\n")
	fmt.Printf("- 文書数: %d (重複 %d, キャッシュ再利用 %d)\n", stats.Total, stats.Duplicates, stats.CacheHits)
	fmt.Printf("- 要確認: %d\n", stats.NeedsReview)
	for reason, n := range stats.ReviewReasons {
		fmt.Printf("    %s: %d\n", reason, n)
	}
	fmt.Printf("- バンドル: %d / 原本バッチ: %d (サイズ超過 %d)\n", stats.Bundles, stats.Batches, stats.SkippedOriginals)
	if stats.Cancelled {
		fmt.Printf("- 中断されたため部分的な結果です\n")
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
