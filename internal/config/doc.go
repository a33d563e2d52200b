// Package config provides centralized configuration management for the panel
// pipeline. It loads configuration from the environment and an optional YAML
// file, validates it, and resolves every artifact path in one place.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. config.yaml or configs/config.yaml (or the file named by GDD_CONFIG_FILE)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern GDD_<SECTION>_<FIELD>:
//
//	GDD_PATHS_INPUT_DIR="data/raw/GDD/Country-level estimates"
//	GDD_PIPELINE_REGIONS=NOR,SWE,DNK
//	GDD_PIPELINE_STRICT_CODES=true
//	GDD_ANALYSIS_TREND_REGION=Norway
//	GDD_SERVER_PORT=8080
//
// # Path Management
//
// Paths resolves every input and output location against the base directory:
//
//	paths, err := config.NewPaths(cfg.Paths)
//	panel := paths.PanelCSV
//	_ = paths.EnsureDirectories()
package config
