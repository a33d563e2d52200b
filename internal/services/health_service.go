package services

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"gddpanel/internal/config"
	"gddpanel/internal/operations"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	paths     *config.Paths
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// PanelHealth describes the panel artifact the server reads.
type PanelHealth struct {
	Exists      bool      `json:"exists"`
	Path        string    `json:"path"`
	SizeBytes   int64     `json:"size_bytes,omitempty"`
	ModTime     time.Time `json:"mod_time,omitempty"`
	LastRunID   string    `json:"last_run_id,omitempty"`
	LastStatus  string    `json:"last_run_status,omitempty"`
	RowsWritten int       `json:"rows_written,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, paths *config.Paths, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthService{
		version:   version,
		paths:     paths,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status. The service is "ok" even
// without a panel; the panel entry says whether ingestion has run.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	panel := hs.Panel(ctx)

	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
		},
		Services: map[string]interface{}{
			"panel": panel,
		},
	}

	hs.logger.DebugContext(ctx, "HealthCheck: completed",
		slog.String("status", status.Status),
		slog.Bool("panel_exists", panel.Exists))

	return status
}

// ReadinessCheck reports ready only when the panel artifact exists.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	if hs.Panel(ctx).Exists {
		status.Services["panel"] = ServiceHealth{Status: "ready"}
	} else {
		status.Status = "not_ready"
		status.Services["panel"] = ServiceHealth{Status: "not_ready", Message: "panel artifact not found; run ingestion first"}
	}

	return status
}

// Panel inspects the panel artifact and the manifest of the run that wrote it.
func (hs *HealthService) Panel(ctx context.Context) PanelHealth {
	ph := PanelHealth{Path: hs.paths.PanelCSV}

	info, err := os.Stat(hs.paths.PanelCSV)
	if err != nil {
		return ph
	}
	ph.Exists = true
	ph.SizeBytes = info.Size()
	ph.ModTime = info.ModTime()

	manifest, err := operations.LoadManifestFromFile(hs.paths.ManifestJSON)
	if err != nil {
		hs.logger.DebugContext(ctx, "no run manifest next to panel",
			slog.String("path", hs.paths.ManifestJSON),
			slog.String("error", err.Error()))
		return ph
	}
	ph.LastRunID = manifest.ID
	ph.LastStatus = manifest.Status
	ph.RowsWritten = manifest.Totals.RowsWritten
	return ph
}
