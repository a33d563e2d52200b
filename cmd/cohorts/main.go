// Command cohorts writes the cohort-by-education mean table for one
// variable from the ingested panel.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gddpanel/internal/app"
	"gddpanel/internal/config"
	"gddpanel/internal/exporter"
	"gddpanel/internal/services"
	"gddpanel/pkg/contracts"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("cohorts", flag.ContinueOnError)
	fs.SetOutput(stderr)
	variable := fs.String("variable", "", "dietary variable to aggregate (default from config, \"Red meat\")")
	out := fs.String("out", "", "output CSV path (default data/processed/red_meat_cohort_education.csv)")
	withXLSX := fs.Bool("xlsx", false, "also write an .xlsx workbook next to the CSV")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintln(stderr, contracts.GetFullVersionString("cohorts"))
		return exitOK
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return exitUsage
	}

	rt, err := app.Bootstrap(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "startup error: %v\n", err)
		return exitFailure
	}
	defer rt.Close(ctx)

	logger := rt.Logger.With(slog.String("component", "cohorts"))
	if err := rt.Paths.EnsureDirectories(); err != nil {
		logger.ErrorContext(ctx, "failed to create output directories", slog.String("error", err.Error()))
		return exitFailure
	}

	svc := services.NewReportService(rt.Paths, cfg.Analysis, rt.Logger)
	if *variable == "" {
		*variable = svc.Defaults().CohortVariable
	}

	summaries, err := svc.EducationCohorts(ctx, *variable)
	if err != nil {
		logger.ErrorContext(ctx, "cohort aggregation failed", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "cohorts: %v\n", err)
		return exitFailure
	}

	path := rt.Paths.CohortEducationCSV
	if *out != "" {
		path = *out
	}

	writer := exporter.NewCSVWriter(rt.Paths, rt.Logger)
	records := exporter.CohortEducationRecords(summaries)
	if err := writer.WriteSummaryCSV(path, exporter.CohortEducationHeader, records); err != nil {
		logger.ErrorContext(ctx, "failed to write cohort table", slog.String("error", err.Error()))
		return exitFailure
	}

	if *withXLSX {
		xlsxPath := strings.TrimSuffix(path, ".csv") + ".xlsx"
		if err := writer.WriteSummaryXLSX(xlsxPath, "cohorts", exporter.CohortEducationHeader, records); err != nil {
			logger.ErrorContext(ctx, "failed to write cohort workbook", slog.String("error", err.Error()))
			return exitFailure
		}
	}

	logger.InfoContext(ctx, "cohort table written",
		slog.String("variable", *variable),
		slog.Int("groups", len(summaries)),
		slog.String("path", path),
		slog.Bool("xlsx", *withXLSX))

	return exitOK
}
