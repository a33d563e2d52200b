package services

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"gddpanel/internal/config"
	"gddpanel/internal/dataprocessing"
	"gddpanel/pkg/contracts/domain"
)

// ReportService serves aggregates computed from the panel artifact. It
// never writes artifacts.
type ReportService struct {
	paths      *config.Paths
	analysis   config.AnalysisConfig
	summarizer *dataprocessing.Summarizer
	logger     *slog.Logger

	mu    sync.RWMutex
	cache panelCache
}

// panelCache holds the last loaded panel, keyed by file size and mtime.
type panelCache struct {
	rows    []domain.PanelRow
	size    int64
	modTime time.Time
}

// NewReportService creates a report service reading paths.PanelCSV.
func NewReportService(paths *config.Paths, analysis config.AnalysisConfig, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		paths:      paths,
		analysis:   analysis,
		summarizer: dataprocessing.NewSummarizer(logger, dataprocessing.SummarizerConfig{}),
		logger:     logger.With(slog.String("component", "report_service")),
	}
}

// Defaults returns the configured analysis selection.
func (s *ReportService) Defaults() config.AnalysisConfig {
	return s.analysis
}

// Panel returns the panel rows, reloading only when the artifact changed.
func (s *ReportService) Panel(ctx context.Context) ([]domain.PanelRow, error) {
	info, statErr := os.Stat(s.paths.PanelCSV)

	if statErr == nil {
		s.mu.RLock()
		c := s.cache
		s.mu.RUnlock()
		if c.rows != nil && c.size == info.Size() && c.modTime.Equal(info.ModTime()) {
			return c.rows, nil
		}
	}

	rows, err := dataprocessing.LoadPanel(s.paths.PanelCSV)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.PanelRow{}
	}

	if statErr == nil {
		s.mu.Lock()
		s.cache = panelCache{rows: rows, size: info.Size(), modTime: info.ModTime()}
		s.mu.Unlock()
	}

	s.logger.InfoContext(ctx, "loaded panel",
		slog.String("path", s.paths.PanelCSV),
		slog.Int("rows", len(rows)))

	return rows, nil
}

// Sample returns the documentation sample written by the last run.
func (s *ReportService) Sample(ctx context.Context) ([]domain.PanelRow, error) {
	rows, err := dataprocessing.LoadPanel(s.paths.SampleCSV)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.PanelRow{}
	}
	return rows, nil
}

// EducationCohorts aggregates variable by cohort and education. An empty
// variable means the configured default.
func (s *ReportService) EducationCohorts(ctx context.Context, variable string) ([]domain.CohortEducationSummary, error) {
	if variable == "" {
		variable = s.analysis.CohortVariable
	}
	rows, err := s.Panel(ctx)
	if err != nil {
		return nil, err
	}
	return s.summarizer.EducationCohorts(ctx, rows, variable), nil
}

// GenerationalTrend aggregates variables for region by age group, cohort
// and generation. Empty arguments fall back to the configured defaults.
func (s *ReportService) GenerationalTrend(ctx context.Context, region string, variables []string) ([]domain.GenerationSummary, error) {
	region, variables = s.trendSelection(region, variables)
	rows, err := s.Panel(ctx)
	if err != nil {
		return nil, err
	}
	return s.summarizer.GenerationalTrend(ctx, rows, region, variables), nil
}

// TrendSeries is GenerationalTrend reduced to plot hand-off points.
func (s *ReportService) TrendSeries(ctx context.Context, region string, variables []string) ([]domain.TrendPoint, error) {
	summaries, err := s.GenerationalTrend(ctx, region, variables)
	if err != nil {
		return nil, err
	}
	return dataprocessing.TrendSeries(summaries), nil
}

func (s *ReportService) trendSelection(region string, variables []string) (string, []string) {
	if region == "" {
		region = s.analysis.TrendRegion
	}
	if len(variables) == 0 {
		variables = s.analysis.TrendVariables
	}
	return region, variables
}
