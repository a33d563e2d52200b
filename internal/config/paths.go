package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for every artifact location.
type Paths struct {
	BaseDir      string
	InputDir     string
	ProcessedDir string
	TablesDir    string
	LogsDir      string

	// Ingestion artifacts
	PanelCSV     string
	SampleCSV    string
	ManifestJSON string

	// Aggregation artifacts
	CohortEducationCSV string
	TrendCSV           string
	TrendSeriesCSV     string
}

// NewPaths resolves every artifact path of pc against its base directory.
// An empty BaseDir means the current working directory.
func NewPaths(pc PathsConfig) (*Paths, error) {
	base := pc.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %s: %w", base, err)
	}

	resolve := func(p, fallback string) string {
		if p == "" {
			p = fallback
		}
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(abs, p)
	}

	processed := resolve(pc.ProcessedDir, DefaultProcessedDir)
	tables := resolve(pc.TablesDir, DefaultTablesDir)

	return &Paths{
		BaseDir:      abs,
		InputDir:     resolve(pc.InputDir, DefaultInputDir),
		ProcessedDir: processed,
		TablesDir:    tables,
		LogsDir:      resolve(pc.LogsDir, DefaultLogsDir),

		PanelCSV:     filepath.Join(processed, PanelFileName),
		SampleCSV:    resolve(pc.SampleFile, DefaultSampleFile),
		ManifestJSON: filepath.Join(processed, ManifestFileName),

		CohortEducationCSV: filepath.Join(processed, CohortTableFileName),
		TrendCSV:           filepath.Join(tables, TrendTableFileName),
		TrendSeriesCSV:     filepath.Join(tables, TrendSeriesFileName),
	}, nil
}

// EnsureDirectories creates all output directories if they don't exist.
// The input directory is never created; its absence is a run precondition.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.ProcessedDir,
		filepath.Dir(p.SampleCSV),
		p.TablesDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// IngestionArtifacts lists the files a fresh ingestion run replaces.
func (p *Paths) IngestionArtifacts() []string {
	return []string{p.PanelCSV, p.SampleCSV, p.ManifestJSON}
}

// GetRelativePath returns a path relative to the base directory
func (p *Paths) GetRelativePath(subpath string) string {
	return filepath.Join(p.BaseDir, subpath)
}

// LogPathResolution logs path resolution information for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("input", p.InputDir),
			slog.String("processed", p.ProcessedDir),
			slog.String("tables", p.TablesDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("artifacts",
			slog.String("panel_csv", p.PanelCSV),
			slog.String("sample_csv", p.SampleCSV),
			slog.String("manifest_json", p.ManifestJSON),
			slog.String("cohort_education_csv", p.CohortEducationCSV),
			slog.String("trend_csv", p.TrendCSV),
			slog.String("trend_series_csv", p.TrendSeriesCSV),
		))
}
