package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gddpanel/internal/config"
	"gddpanel/internal/infrastructure"
)

// Survey year 2015: age 40 is Gen X (born 1975), age 25 is Millennial (born 1990).
const panelFixture = `region_name,region_code,survey_year,sex,education,age,variable,value
Norway,NOR,2015,Female,Primary,40,Red meat,80
Norway,NOR,2015,Male,Primary,40,Red meat,60
Norway,NOR,2015,Female,Primary,25,Red meat,90
Norway,NOR,2015,Female,Primary,25,Vegetables,150
Sweden,SWE,2015,Female,Primary,25,Red meat,10
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
	t.Run("defaults", func(t *testing.T) {
		paths := setupEnv(t, true)

		var stderr bytes.Buffer
		require.Equal(t, exitOK, run(context.Background(), nil, &stderr), stderr.String())

		trend := readTable(t, paths.TrendCSV)
		assert.Equal(t, []string{"age_group", "age_mid", "cohort", "variable", "generation", "mean_value", "count"}, trend[0])
		assert.Len(t, trend, 4, "Norway only: Gen X red meat, Millennial red meat, Millennial vegetables")

		series := readTable(t, paths.TrendSeriesCSV)
		assert.Equal(t, []string{"age_mid", "generation", "variable", "mean_value"}, series[0])
		assert.Contains(t, series, []string{"40", "Gen X", "Red meat", "70"})
		assert.Contains(t, series, []string{"25", "Millennials", "Vegetables", "150"})
	})

	t.Run("region and variable flags", func(t *testing.T) {
		paths := setupEnv(t, true)

		var stderr bytes.Buffer
		code := run(context.Background(), []string{"-region", "Sweden", "-variable", "Red meat"}, &stderr)
		require.Equal(t, exitOK, code, stderr.String())

		series := readTable(t, paths.TrendSeriesCSV)
		assert.Equal(t, [][]string{{"25", "Millennials", "Red meat", "10"}}, series[1:])
	})

	t.Run("missing panel", func(t *testing.T) {
		setupEnv(t, false)

		var stderr bytes.Buffer
		assert.Equal(t, exitFailure, run(context.Background(), nil, &stderr))
		assert.Contains(t, stderr.String(), "run ingestion first")
	})
}

func TestStringList(t *testing.T) {
	var s stringList
	require.NoError(t, s.Set("Red meat"))
	require.NoError(t, s.Set("Fish"))
	assert.Equal(t, "Red meat,Fish", s.String())
}
