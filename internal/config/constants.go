package config

// Application constants
const (
	AppName = "gddpanel"

	// EnvPrefix namespaces every environment variable (GDD_PATHS_INPUT_DIR, ...).
	EnvPrefix = "GDD"

	// File Paths (relative to the base directory)
	DefaultInputDir     = "data/raw/GDD/Country-level estimates"
	DefaultProcessedDir = "data/processed"
	DefaultSampleFile   = "data/sample.csv"
	DefaultTablesDir    = "outputs/tables"
	DefaultLogsDir      = "logs"
	DefaultLogFile      = "logs/gddpanel.log"

	// Well-known artifact names
	PanelFileName       = "gdd_cleaned_panel.csv"
	ManifestFileName    = "gdd_run_manifest.json"
	CohortTableFileName = "red_meat_cohort_education.csv"
	TrendTableFileName  = "norway_generational_trend.csv"
	TrendSeriesFileName = "norway_generational_trend_series.csv"

	// Ingestion
	DefaultSampleSize = 5
	DefaultSampleSeed = 42

	// Analysis
	DefaultCohortVariable = "Red meat"
	DefaultTrendRegion    = "Norway"

	DefaultLogLevel = "info"
)
