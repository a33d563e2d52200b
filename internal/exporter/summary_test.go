package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gddpanel/pkg/contracts/domain"
)

func TestSummaryRecords(t *testing.T) {
	cohorts := CohortEducationRecords([]domain.CohortEducationSummary{
		{Cohort: 1980, Education: "Secondary", MeanValue: 120.5, Count: 2},
	})
	assert.Equal(t, [][]string{{"1980", "Secondary", "120.5", "2"}}, cohorts)

	gens := GenerationRecords([]domain.GenerationSummary{
		{AgeGroup: "30-39", AgeMidpoint: domain.FloatPtr(34.5), Cohort: 1980, Variable: "Red meat", Generation: "Millennials", MeanValue: 99, Count: 4},
		{AgeGroup: "unknown", Cohort: 1970, Variable: "Fish", Generation: "Gen X", MeanValue: 1.5, Count: 1},
	})
	assert.Equal(t, []string{"30-39", "34.5", "1980", "Red meat", "Millennials", "99", "4"}, gens[0])
	assert.Equal(t, "", gens[1][1])

	points := TrendSeriesRecords([]domain.TrendPoint{{AgeMidpoint: 25, Generation: "Gen X", Variable: "Vegetables", MeanValue: 210.25}})
	assert.Equal(t, [][]string{{"25", "Gen X", "Vegetables", "210.25"}}, points)
}

func TestCSVWriter_WriteSummaryXLSX(t *testing.T) {
	w, paths := setupTestEnv(t)
	out := filepath.Join(paths.ProcessedDir, "cohorts.xlsx")

	records := [][]string{{"1980", "Secondary", "120.5", "2"}}
	require.NoError(t, w.WriteSummaryXLSX(out, "cohorts", CohortEducationHeader, records))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("cohorts")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, CohortEducationHeader, rows[0])
	assert.Equal(t, "Secondary", rows[1][1])
	assert.Equal(t, "120.5", rows[1][2])
}
