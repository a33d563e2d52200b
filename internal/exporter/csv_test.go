package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gddpanel/internal/config"
	"gddpanel/internal/shared/testutil"
	"gddpanel/pkg/contracts/domain"
)

func setupTestEnv(t *testing.T) (*CSVWriter, *config.Paths) {
	t.Helper()
	paths, err := config.NewPaths(config.PathsConfig{BaseDir: t.TempDir()})
	require.NoError(t, err)
	logger, _ := testutil.NewTestLogger(t)
	return NewCSVWriter(paths, logger), paths
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	tests := []struct {
		name        string
		description string
		options     WriteOptions
		wantBOM     bool
		wantRecords [][]string
	}{
		{
			name:        "headers_and_records",
			description: "writes header then records",
			options: WriteOptions{
				Headers: []string{"a", "b"},
				Records: [][]string{{"1", "2"}, {"3", "4"}},
			},
			wantRecords: [][]string{{"a", "b"}, {"1", "2"}, {"3", "4"}},
		},
		{
			name:        "bom_prefix",
			description: "adds UTF-8 BOM when requested",
			options: WriteOptions{
				Headers:   []string{"a"},
				Records:   [][]string{{"x"}},
				BOMPrefix: true,
			},
			wantBOM: true,
		},
		{
			name:        "headers_only",
			description: "empty record set still writes the header",
			options:     WriteOptions{Headers: []string{"a", "b"}},
			wantRecords: [][]string{{"a", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, paths := setupTestEnv(t)
			require.NoError(t, w.WriteCSV("out/test.csv", tt.options), tt.description)

			full := filepath.Join(paths.BaseDir, "out", "test.csv")
			raw, err := os.ReadFile(full)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBOM, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))

			if tt.wantRecords != nil {
				assert.Equal(t, tt.wantRecords, readCSV(t, full))
			}
		})
	}
}

func TestCSVWriter_AppendMode(t *testing.T) {
	w, paths := setupTestEnv(t)
	full := filepath.Join(paths.BaseDir, "append.csv")

	require.NoError(t, w.WriteCSV(full, WriteOptions{Headers: []string{"h"}, Records: [][]string{{"1"}}}))
	require.NoError(t, w.WriteCSV(full, WriteOptions{Headers: []string{"h"}, Records: [][]string{{"2"}}, Append: true}))

	assert.Equal(t, [][]string{{"h"}, {"1"}, {"2"}}, readCSV(t, full))
}

func TestStreamWriter(t *testing.T) {
	w, paths := setupTestEnv(t)
	full := filepath.Join(paths.BaseDir, "stream.csv")

	sw, err := w.CreateStreamWriter(full, []string{"k", "v"})
	require.NoError(t, err)
	for _, rec := range [][]string{{"a", "1"}, {"b", "2"}} {
		require.NoError(t, sw.WriteRecord(rec))
	}
	require.NoError(t, sw.Close())

	raw, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.False(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "stream writer must not emit a BOM")
	assert.Equal(t, [][]string{{"k", "v"}, {"a", "1"}, {"b", "2"}}, readCSV(t, full))
}

func TestPanelRecord(t *testing.T) {
	row := domain.PanelRow{
		RegionName: "Norway",
		RegionCode: "NOR",
		SurveyYear: domain.IntPtr(2015),
		Sex:        "Female",
		Education:  "Secondary",
		Age:        "34",
		Variable:   "Red meat",
		Value:      domain.FloatPtr(120.5),
	}
	assert.Equal(t,
		[]string{"Norway", "NOR", "2015", "Female", "Secondary", "34", "Red meat", "120.5"},
		PanelRecord(row))

	row.SurveyYear = nil
	row.Value = nil
	rec := PanelRecord(row)
	assert.Equal(t, "", rec[2])
	assert.Equal(t, "", rec[7])
}
