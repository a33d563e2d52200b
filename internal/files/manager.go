package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gddpanel/internal/config"
)

// Manager provides file management operations
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{paths: paths, logger: logger.With(slog.String("component", "file_manager"))}
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	fullPath := m.resolvePath(path)
	_, err := os.Stat(fullPath)
	exists := err == nil

	m.logger.Debug("FileExists check",
		slog.String("path", path),
		slog.String("full_path", fullPath),
		slog.Bool("exists", exists))

	return exists
}

// ClearIngestionArtifacts removes the panel, sample and manifest left by a
// previous run so the next run never appends to stale output.
func (m *Manager) ClearIngestionArtifacts() error {
	for _, path := range m.paths.IngestionArtifacts() {
		if err := m.DeleteFile(path); err != nil {
			return err
		}
	}
	return nil
}

// DeleteFile deletes a file. A file that is already gone is not an error.
func (m *Manager) DeleteFile(path string) error {
	fullPath := m.resolvePath(path)

	err := os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", fullPath, err)
	}
	if err == nil {
		m.logger.Info("Deleted previous artifact", slog.String("path", fullPath))
	}
	return nil
}

// resolvePath resolves relative paths against the base directory
func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.paths.BaseDir, path)
}
