package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"gddpanel/internal/operations"
)

func TestHealthService(t *testing.T) {
	t.Run("without panel", func(t *testing.T) {
		_, paths := setupReportService(t, false)
		hs := NewHealthService("test", paths, nil)

		status := hs.HealthCheck(context.Background())
		assert.Equal(t, "ok", status.Status)
		assert.False(t, status.Services["panel"].(PanelHealth).Exists)

		ready := hs.ReadinessCheck(context.Background())
		assert.Equal(t, "not_ready", ready.Status)
	})

	t.Run("with panel and manifest", func(t *testing.T) {
		_, paths := setupReportService(t, true)
		m := operations.NewRunManifest(paths.InputDir, nil)
		m.RecordFile(operations.FileOutcome{Name: "NOR.csv", Status: operations.FileProcessed, RowsKept: 5})
		assert.NoError(t, m.Complete(paths.PanelCSV))
		assert.NoError(t, m.SaveToFile(paths.ManifestJSON))

		hs := NewHealthService("test", paths, nil)
		panel := hs.Panel(context.Background())

		assert.True(t, panel.Exists)
		assert.Greater(t, panel.SizeBytes, int64(0))
		assert.Equal(t, m.ID, panel.LastRunID)
		assert.Equal(t, operations.StatusCompleted, panel.LastStatus)
		assert.Equal(t, 5, panel.RowsWritten)

		assert.Equal(t, "ready", hs.ReadinessCheck(context.Background()).Status)
	})
}
