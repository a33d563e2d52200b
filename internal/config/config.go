package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/gddpanel.log"`
}

// PathsConfig contains file system paths. Relative entries are resolved
// against BaseDir, which defaults to the working directory.
type PathsConfig struct {
	BaseDir      string `yaml:"base_dir" envconfig:"BASE_DIR"`
	InputDir     string `yaml:"input_dir" envconfig:"INPUT_DIR" default:"data/raw/GDD/Country-level estimates"`
	ProcessedDir string `yaml:"processed_dir" envconfig:"PROCESSED_DIR" default:"data/processed"`
	SampleFile   string `yaml:"sample_file" envconfig:"SAMPLE_FILE" default:"data/sample.csv"`
	TablesDir    string `yaml:"tables_dir" envconfig:"TABLES_DIR" default:"outputs/tables"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// PipelineConfig controls ingestion.
type PipelineConfig struct {
	Regions     []string `yaml:"regions" envconfig:"REGIONS"`
	SampleSize  int      `yaml:"sample_size" envconfig:"SAMPLE_SIZE" default:"5" validate:"gte=0"`
	SampleSeed  int64    `yaml:"sample_seed" envconfig:"SAMPLE_SEED" default:"42"`
	StrictCodes bool     `yaml:"strict_codes" envconfig:"STRICT_CODES" default:"false"`
}

// AnalysisConfig selects the variables and region used by the aggregations.
type AnalysisConfig struct {
	CohortVariable string   `yaml:"cohort_variable" envconfig:"COHORT_VARIABLE" default:"Red meat" validate:"required"`
	TrendRegion    string   `yaml:"trend_region" envconfig:"TREND_REGION" default:"Norway" validate:"required"`
	TrendVariables []string `yaml:"trend_variables" envconfig:"TREND_VARIABLES" default:"Red meat,Vegetables" validate:"min=1,dive,required"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s" validate:"gt=0"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// TelemetryConfig controls tracing and metrics export.
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"gddpanel"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none" validate:"oneof=stdout none"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED" default:"true"`
}

var configValidator = validator.New()

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Environment first; file values only fill what env left unset.
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg, envOverrides())
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envOverrides reports which settings were explicitly set in the environment.
func envOverrides() map[string]bool {
	keys := []string{
		"PATHS_BASE_DIR", "PATHS_INPUT_DIR", "PATHS_PROCESSED_DIR", "PATHS_SAMPLE_FILE", "PATHS_TABLES_DIR",
		"LOGGING_LEVEL", "LOGGING_OUTPUT", "LOGGING_FILE_PATH",
		"PIPELINE_REGIONS", "PIPELINE_SAMPLE_SIZE", "PIPELINE_SAMPLE_SEED", "PIPELINE_STRICT_CODES",
		"ANALYSIS_COHORT_VARIABLE", "ANALYSIS_TREND_REGION", "ANALYSIS_TREND_VARIABLES",
		"SERVER_PORT", "TELEMETRY_TRACE_EXPORTER",
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		if _, ok := os.LookupEnv(EnvPrefix + "_" + k); ok {
			set[k] = true
		}
	}
	return set
}

// mergeConfigs merges file config with env config (env takes precedence).
// envConfig already carries defaults, so a field is only taken from the file
// when the file sets it and the environment did not.
func mergeConfigs(fileConfig, envConfig Config, fromEnv map[string]bool) Config {
	str := func(key string, dst *string, src string) {
		if !fromEnv[key] && src != "" {
			*dst = src
		}
	}

	str("PATHS_BASE_DIR", &envConfig.Paths.BaseDir, fileConfig.Paths.BaseDir)
	str("PATHS_INPUT_DIR", &envConfig.Paths.InputDir, fileConfig.Paths.InputDir)
	str("PATHS_PROCESSED_DIR", &envConfig.Paths.ProcessedDir, fileConfig.Paths.ProcessedDir)
	str("PATHS_SAMPLE_FILE", &envConfig.Paths.SampleFile, fileConfig.Paths.SampleFile)
	str("PATHS_TABLES_DIR", &envConfig.Paths.TablesDir, fileConfig.Paths.TablesDir)
	str("LOGGING_LEVEL", &envConfig.Logging.Level, fileConfig.Logging.Level)
	str("LOGGING_OUTPUT", &envConfig.Logging.Output, fileConfig.Logging.Output)
	str("LOGGING_FILE_PATH", &envConfig.Logging.FilePath, fileConfig.Logging.FilePath)
	str("ANALYSIS_COHORT_VARIABLE", &envConfig.Analysis.CohortVariable, fileConfig.Analysis.CohortVariable)
	str("ANALYSIS_TREND_REGION", &envConfig.Analysis.TrendRegion, fileConfig.Analysis.TrendRegion)
	str("TELEMETRY_TRACE_EXPORTER", &envConfig.Telemetry.TraceExporter, fileConfig.Telemetry.TraceExporter)

	if !fromEnv["PIPELINE_REGIONS"] && len(fileConfig.Pipeline.Regions) > 0 {
		envConfig.Pipeline.Regions = fileConfig.Pipeline.Regions
	}
	if !fromEnv["ANALYSIS_TREND_VARIABLES"] && len(fileConfig.Analysis.TrendVariables) > 0 {
		envConfig.Analysis.TrendVariables = fileConfig.Analysis.TrendVariables
	}
	if !fromEnv["PIPELINE_SAMPLE_SIZE"] && fileConfig.Pipeline.SampleSize != 0 {
		envConfig.Pipeline.SampleSize = fileConfig.Pipeline.SampleSize
	}
	if !fromEnv["PIPELINE_SAMPLE_SEED"] && fileConfig.Pipeline.SampleSeed != 0 {
		envConfig.Pipeline.SampleSeed = fileConfig.Pipeline.SampleSeed
	}
	if !fromEnv["PIPELINE_STRICT_CODES"] && fileConfig.Pipeline.StrictCodes {
		envConfig.Pipeline.StrictCodes = true
	}
	if !fromEnv["SERVER_PORT"] && fileConfig.Server.Port != 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	if err := configValidator.Struct(c); err != nil {
		return err
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Output:   "both",
			FilePath: DefaultLogFile,
		},
		Paths: PathsConfig{
			InputDir:     DefaultInputDir,
			ProcessedDir: DefaultProcessedDir,
			SampleFile:   DefaultSampleFile,
			TablesDir:    DefaultTablesDir,
			LogsDir:      DefaultLogsDir,
		},
		Pipeline: PipelineConfig{
			SampleSize: DefaultSampleSize,
			SampleSeed: DefaultSampleSeed,
		},
		Analysis: AnalysisConfig{
			CohortVariable: DefaultCohortVariable,
			TrendRegion:    DefaultTrendRegion,
			TrendVariables: []string{"Red meat", "Vegetables"},
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			TraceExporter:  "none",
			MetricsEnabled: true,
		},
	}
}
