package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gddpanel/internal/config"
	"gddpanel/internal/infrastructure"
)

const panelFixture = `region_name,region_code,survey_year,sex,education,age,variable,value
Norway,NOR,2015,Female,Primary,34,Red meat,100
Norway,NOR,2015,Male,Primary,34,Red meat,50
Norway,NOR,2015,Female,Tertiary,34,Red meat,30
Norway,NOR,2015,Female,Tertiary,34,Fish,20
`

func setupEnv(t *testing.T, withPanel bool) *config.Paths {
	t.Helper()

	base := t.TempDir()
	t.Setenv("GDD_CONFIG_FILE", "")
	t.Setenv("GDD_PATHS_BASE_DIR", base)
	t.Setenv("GDD_LOGGING_OUTPUT", "console")
	t.Setenv("GDD_LOGGING_LEVEL", "error")
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	paths, err := config.NewPaths(config.PathsConfig{BaseDir: base})
	require.NoError(t, err)
	if withPanel {
		require.NoError(t, paths.EnsureDirectories())
		require.NoError(t, os.WriteFile(paths.PanelCSV, []byte(panelFixture), 0644))
	}
	return paths
}

func readTable(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestRun(t *testing.T) {
	t.Run("default variable with workbook", func(t *testing.T) {
		paths := setupEnv(t, true)

		var stderr bytes.Buffer
		require.Equal(t, exitOK, run(context.Background(), []string{"-xlsx"}, &stderr), stderr.String())

		records := readTable(t, paths.CohortEducationCSV)
		assert.Equal(t, []string{"cohort", "education", "mean_intake", "count"}, records[0])
		assert.Equal(t, [][]string{
			{"1980", "Primary", "75", "2"},
			{"1980", "Tertiary", "30", "1"},
		}, records[1:])

		f, err := excelize.OpenFile(paths.CohortEducationCSV[:len(paths.CohortEducationCSV)-len(".csv")] + ".xlsx")
		require.NoError(t, err)
		defer f.Close()
		v, err := f.GetCellValue("cohorts", "C2")
		require.NoError(t, err)
		assert.Equal(t, "75", v)
	})

	t.Run("explicit variable", func(t *testing.T) {
		paths := setupEnv(t, true)

		var stderr bytes.Buffer
		require.Equal(t, exitOK, run(context.Background(), []string{"-variable", "Fish"}, &stderr), stderr.String())

		records := readTable(t, paths.CohortEducationCSV)
		require.Len(t, records, 2)
		assert.Equal(t, []string{"1980", "Tertiary", "20", "1"}, records[1])
	})

	t.Run("missing panel", func(t *testing.T) {
		setupEnv(t, false)

		var stderr bytes.Buffer
		assert.Equal(t, exitFailure, run(context.Background(), nil, &stderr))
		assert.Contains(t, stderr.String(), "run ingestion first")
	})
}
