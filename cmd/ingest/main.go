// Command ingest builds the combined long-format panel from the GDD
// country-level source files.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gddpanel/internal/app"
	"gddpanel/internal/config"
	apierrors "gddpanel/internal/errors"
	"gddpanel/internal/infrastructure"
	"gddpanel/internal/operations"
	"gddpanel/pkg/contracts"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inDir := fs.String("in", "", "input directory of country-level source files (default from config)")
	regions := fs.String("regions", "", "comma-separated ISO3 codes to keep (default: configured or the EU27 + EEA set)")
	strict := fs.Bool("strict", false, "fail a file when it contains unmapped category codes")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintln(stderr, contracts.GetFullVersionString("ingest"))
		return exitOK
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return exitUsage
	}
	if *inDir != "" {
		cfg.Paths.InputDir = *inDir
	}
	if *regions != "" {
		cfg.Pipeline.Regions = splitList(*regions)
	}
	if *strict {
		cfg.Pipeline.StrictCodes = true
	}

	rt, err := app.Bootstrap(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "startup error: %v\n", err)
		return exitFailure
	}
	defer rt.Close(context.WithoutCancel(ctx))

	logger := rt.Logger.With(slog.String("component", "ingest"))
	rt.Paths.LogPathResolution(logger)

	metrics, err := infrastructure.NewPipelineMetrics(rt.OTel.Meter)
	if err != nil {
		logger.ErrorContext(ctx, "failed to create pipeline metrics", slog.String("error", err.Error()))
		return exitFailure
	}

	pipeline := operations.NewPipeline(rt.Paths, operations.NewPipelineConfig(cfg.Pipeline), rt.Logger,
		operations.WithTracer(rt.OTel.Tracer),
		operations.WithMetrics(metrics),
	)

	start := time.Now()
	manifest, err := pipeline.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "ingestion failed",
			slog.String("error", err.Error()),
			slog.Bool("not_found", apierrors.IsType(err, apierrors.ErrTypeNotFound)),
			slog.String("manifest", rt.Paths.ManifestJSON))
		fmt.Fprintf(stderr, "ingestion failed: %v\n", err)
		return exitFailure
	}

	logger.InfoContext(ctx, "panel written",
		slog.String("run_id", manifest.ID),
		slog.String("panel", manifest.PanelPath),
		slog.String("digest", manifest.PanelDigest),
		slog.Int("rows", manifest.Totals.RowsWritten),
		slog.Int("files_processed", manifest.Totals.FilesProcessed),
		slog.Int("files_failed", manifest.Totals.FilesFailed),
		slog.Duration("duration", time.Since(start)))

	return exitOK
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
