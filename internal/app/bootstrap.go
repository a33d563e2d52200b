package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"gddpanel/internal/config"
	"gddpanel/internal/infrastructure"
)

// Runtime is what every binary initializes before doing work.
type Runtime struct {
	Config *config.Config
	Paths  *config.Paths
	Logger *slog.Logger
	OTel   *infrastructure.OTelProviders
}

// Bootstrap resolves paths, opens the log file under the base directory and
// starts telemetry for cfg.
func Bootstrap(cfg *config.Config) (*Runtime, error) {
	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if cfg.Logging.FilePath != "" && !filepath.IsAbs(cfg.Logging.FilePath) {
		cfg.Logging.FilePath = paths.GetRelativePath(cfg.Logging.FilePath)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	return &Runtime{
		Config: cfg,
		Paths:  paths,
		Logger: logger,
		OTel:   providers,
	}, nil
}

// Close flushes telemetry and closes the log file.
func (rt *Runtime) Close(ctx context.Context) {
	if rt.OTel != nil {
		if err := rt.OTel.Shutdown(ctx); err != nil {
			rt.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}
	_ = infrastructure.CloseLogFile()
}
