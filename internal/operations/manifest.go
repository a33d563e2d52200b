package operations

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"gddpanel/internal/dataprocessing"
)

// Run and file statuses recorded in the manifest.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	FileProcessed = "processed"
	FileSkipped   = "skipped"
	FileFailed    = "failed"
)

// RunManifest records what one ingestion run read, dropped and wrote. It is
// saved next to the panel and is not covered by the byte-identical rerun
// guarantee.
type RunManifest struct {
	mu sync.RWMutex `json:"-"`

	// Identity
	ID        string    `json:"id"`
	TraceID   string    `json:"trace_id,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time,omitempty"`
	Duration  string    `json:"duration,omitempty"`

	// Inputs
	InputDir string   `json:"input_dir"`
	Regions  []string `json:"regions"`

	// Per-file outcomes in processing order
	Files []FileOutcome `json:"files"`

	Totals        RunTotals                     `json:"totals"`
	UnmappedCodes dataprocessing.UnmappedCounts `json:"unmapped_codes,omitempty"`

	// Outputs
	PanelPath   string `json:"panel_path,omitempty"`
	PanelDigest string `json:"panel_digest,omitempty"`
	SamplePath  string `json:"sample_path,omitempty"`
	SampleRows  int    `json:"sample_rows"`

	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// FileOutcome is the result of processing one source file.
type FileOutcome struct {
	Name           string `json:"name"`
	Status         string `json:"status"`
	RowsRead       int    `json:"rows_read"`
	RowsKept       int    `json:"rows_kept"`
	DroppedInvalid int    `json:"dropped_invalid"`
	DroppedRegion  int    `json:"dropped_region"`
	Error          string `json:"error,omitempty"`
}

// RunTotals aggregates the file outcomes.
type RunTotals struct {
	FilesDiscovered int `json:"files_discovered"`
	FilesSelected   int `json:"files_selected"`
	FilesProcessed  int `json:"files_processed"`
	FilesSkipped    int `json:"files_skipped"`
	FilesFailed     int `json:"files_failed"`
	RowsRead        int `json:"rows_read"`
	RowsWritten     int `json:"rows_written"`
	DroppedInvalid  int `json:"dropped_invalid"`
	DroppedRegion   int `json:"dropped_region"`
}

// NewRunManifest creates a manifest for a run reading inputDir.
func NewRunManifest(inputDir string, regions []string) *RunManifest {
	return &RunManifest{
		ID:            uuid.New().String(),
		StartTime:     time.Now().UTC(),
		InputDir:      inputDir,
		Regions:       regions,
		Files:         []FileOutcome{},
		UnmappedCodes: make(dataprocessing.UnmappedCounts),
		Status:        StatusRunning,
	}
}

// SetDiscovery records how many files were found and how many were selected.
func (m *RunManifest) SetDiscovery(discovered, selected int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Totals.FilesDiscovered = discovered
	m.Totals.FilesSelected = selected
}

// RecordFile appends a file outcome and folds it into the totals.
func (m *RunManifest) RecordFile(outcome FileOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Files = append(m.Files, outcome)

	switch outcome.Status {
	case FileProcessed:
		m.Totals.FilesProcessed++
		m.Totals.RowsWritten += outcome.RowsKept
	case FileSkipped:
		m.Totals.FilesSkipped++
	case FileFailed:
		m.Totals.FilesFailed++
	}
	m.Totals.RowsRead += outcome.RowsRead
	m.Totals.DroppedInvalid += outcome.DroppedInvalid
	m.Totals.DroppedRegion += outcome.DroppedRegion
}

// AddUnmapped merges unmapped code counts keyed by field then code.
func (m *RunManifest) AddUnmapped(counts dataprocessing.UnmappedCounts) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UnmappedCodes.Merge(counts)
}

// SetSample records where the sample went and how many rows it has.
func (m *RunManifest) SetSample(path string, rows int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SamplePath = path
	m.SampleRows = rows
}

// Succeeded is the number of files that parsed and normalized without
// error, including those skipped for having no rows left.
func (m *RunManifest) Succeeded() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.Totals.FilesProcessed + m.Totals.FilesSkipped
}

// Complete marks the run completed and records the panel digest.
func (m *RunManifest) Complete(panelPath string) error {
	digest, err := FileDigest(panelPath)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.PanelPath = panelPath
	m.PanelDigest = digest
	m.Status = StatusCompleted
	m.finish()
	return nil
}

// Fail marks the run failed.
func (m *RunManifest) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Status = StatusFailed
	if err != nil {
		m.Error = err.Error()
	}
	m.finish()
}

func (m *RunManifest) finish() {
	m.EndTime = time.Now().UTC()
	m.Duration = m.EndTime.Sub(m.StartTime).String()
}

// SaveToFile saves the manifest to a JSON file
func (m *RunManifest) SaveToFile(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}

	return nil
}

// LoadManifestFromFile loads a manifest from a JSON file
func LoadManifestFromFile(path string) (*RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var manifest RunManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	return &manifest, nil
}

// FileDigest returns the hex BLAKE2b-256 digest of a file's contents.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s for digest: %w", path, err)
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to digest %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
