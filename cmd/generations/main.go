// Command generations writes the age-aligned generational comparison for
// one region and its plot hand-off series.
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
	"gddpanel/internal/dataprocessing"
	"gddpanel/internal/exporter"
	"gddpanel/internal/services"
	"gddpanel/pkg/contracts"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	var variables stringList

	fs := flag.NewFlagSet("generations", flag.ContinueOnError)
	fs.SetOutput(stderr)
	region := fs.String("region", "", "region name or ISO3 code (default from config, \"Norway\")")
	fs.Var(&variables, "variable", "variable to compare; repeat for several (default from config)")
	withXLSX := fs.Bool("xlsx", false, "also write .xlsx workbooks next to the CSVs")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintln(stderr, contracts.GetFullVersionString("generations"))
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

	logger := rt.Logger.With(slog.String("component", "generations"))
	if err := rt.Paths.EnsureDirectories(); err != nil {
		logger.ErrorContext(ctx, "failed to create output directories", slog.String("error", err.Error()))
		return exitFailure
	}

	svc := services.NewReportService(rt.Paths, cfg.Analysis, rt.Logger)
	defaults := svc.Defaults()
	if *region == "" {
		*region = defaults.TrendRegion
	}
	if len(variables) == 0 {
		variables = defaults.TrendVariables
	}

	summaries, err := svc.GenerationalTrend(ctx, *region, variables)
	if err != nil {
		logger.ErrorContext(ctx, "generational aggregation failed", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "generations: %v\n", err)
		return exitFailure
	}
	series := dataprocessing.TrendSeries(summaries)

	writer := exporter.NewCSVWriter(rt.Paths, rt.Logger)
	tables := []struct {
		path    string
		sheet   string
		header  []string
		records [][]string
	}{
		{rt.Paths.TrendCSV, "generations", exporter.GenerationHeader, exporter.GenerationRecords(summaries)},
		{rt.Paths.TrendSeriesCSV, "trend", exporter.TrendSeriesHeader, exporter.TrendSeriesRecords(series)},
	}

	for _, table := range tables {
		if err := writer.WriteSummaryCSV(table.path, table.header, table.records); err != nil {
			logger.ErrorContext(ctx, "failed to write table",
				slog.String("path", table.path),
				slog.String("error", err.Error()))
			return exitFailure
		}
		if *withXLSX {
			xlsxPath := strings.TrimSuffix(table.path, ".csv") + ".xlsx"
			if err := writer.WriteSummaryXLSX(xlsxPath, table.sheet, table.header, table.records); err != nil {
				logger.ErrorContext(ctx, "failed to write workbook",
					slog.String("path", xlsxPath),
					slog.String("error", err.Error()))
				return exitFailure
			}
		}
	}

	logger.InfoContext(ctx, "generational tables written",
		slog.String("region", *region),
		slog.Any("variables", []string(variables)),
		slog.Int("groups", len(summaries)),
		slog.Int("points", len(series)),
		slog.String("trend", rt.Paths.TrendCSV),
		slog.String("series", rt.Paths.TrendSeriesCSV))

	return exitOK
}
