package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gddpanel/internal/shared/testutil"
	"gddpanel/pkg/contracts/domain"
)

func panelRow(region, code, education, age, variable string, year int, value float64) domain.PanelRow {
	return domain.PanelRow{
		RegionName: region,
		RegionCode: code,
		SurveyYear: domain.IntPtr(year),
		Sex:        "Female",
		Education:  education,
		Age:        age,
		Variable:   variable,
		Value:      domain.FloatPtr(value),
	}
}

func TestGenerationFor_Boundaries(t *testing.T) {
	tests := []struct {
		birthYear float64
		want      string
		ok        bool
	}{
		{1950, "", false},
		{1965, "", false},
		{1965.5, "Gen X", true},
		{1966, "Gen X", true},
		{1980, "Gen X", true},
		{1980.5, "Millennials", true},
		{1981, "Millennials", true},
		{1996, "Millennials", true},
		{1996.5, "", false},
		{2001, "", false},
	}

	for _, tt := range tests {
		got, ok := GenerationFor(tt.birthYear)
		assert.Equal(t, tt.ok, ok, "birth year %v", tt.birthYear)
		assert.Equal(t, tt.want, got, "birth year %v", tt.birthYear)
	}
}

func TestAgeMidpoint(t *testing.T) {
	tests := []struct {
		label string
		want  *float64
	}{
		{"34", domain.FloatPtr(34)},
		{"22.5", domain.FloatPtr(22.5)},
		{"25-29", domain.FloatPtr(27)},
		{"20 to 24 years", domain.FloatPtr(22)},
		{"80+", domain.FloatPtr(80)},
		{"unknown", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeMidpoint(tt.label))
		})
	}
}

func TestDeriveCohort(t *testing.T) {
	row := panelRow("Norway", "NOR", "Secondary", "34", "Red meat", 2015, 120.5)

	rec, ok := DeriveCohort(row)
	require.True(t, ok)
	assert.Equal(t, 1981.0, rec.BirthYear)
	assert.Equal(t, 1980, rec.Cohort)
	assert.Equal(t, "Millennials", rec.Generation)

	row.SurveyYear = nil
	_, ok = DeriveCohort(row)
	assert.False(t, ok, "survey year is required")

	row = panelRow("Norway", "NOR", "Secondary", "n/a", "Red meat", 2015, 1)
	_, ok = DeriveCohort(row)
	assert.False(t, ok, "age is required")
}

func TestCohortOf(t *testing.T) {
	assert.Equal(t, 1980, CohortOf(1981))
	assert.Equal(t, 1980, CohortOf(1980))
	assert.Equal(t, 1970, CohortOf(1979.5))
	assert.Equal(t, 2000, CohortOf(2000))
}

func TestEducationCohorts(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	s := NewSummarizer(logger, SummarizerConfig{})

	noYear := panelRow("Norway", "NOR", "Primary", "30", "Red meat", 2015, 999)
	noYear.SurveyYear = nil
	noValue := panelRow("Norway", "NOR", "Primary", "30", "Red meat", 2015, 0)
	noValue.Value = nil

	rows := []domain.PanelRow{
		panelRow("Norway", "NOR", "Secondary", "34", "Red meat", 2015, 120),
		panelRow("Sweden", "SWE", "Secondary", "35", "Red meat", 2015, 80),
		panelRow("Norway", "NOR", "Primary", "34", "Red meat", 2015, 50),
		panelRow("Norway", "NOR", "Primary", "50", "Red meat", 2015, 70),
		panelRow("Norway", "NOR", "Primary", "50", "Vegetables", 2015, 500),
		panelRow("Norway", "NOR", "", "50", "Red meat", 2015, 500),
		noYear,
		noValue,
	}

	got := s.EducationCohorts(context.Background(), rows, "Red meat")

	assert.Equal(t, []domain.CohortEducationSummary{
		{Cohort: 1960, Education: "Primary", MeanValue: 70, Count: 1},
		{Cohort: 1980, Education: "Primary", MeanValue: 50, Count: 1},
		{Cohort: 1980, Education: "Secondary", MeanValue: 100, Count: 2},
	}, got)
}

func TestGenerationalTrend(t *testing.T) {
	s := NewSummarizer(nil, SummarizerConfig{})

	rows := []domain.PanelRow{
		panelRow("Norway", "NOR", "Primary", "34", "Red meat", 2015, 100),
		panelRow("Norway", "NOR", "Tertiary", "34", "Red meat", 2015, 200),
		panelRow("Norway", "NOR", "Primary", "40", "Red meat", 2015, 90),
		panelRow("Norway", "NOR", "Primary", "34", "Vegetables", 2015, 300),
		panelRow("Norway", "NOR", "Primary", "70", "Red meat", 2015, 10),
		panelRow("Norway", "NOR", "Primary", "34", "Fish", 2015, 10),
		panelRow("Sweden", "SWE", "Primary", "34", "Red meat", 2015, 1000),
	}

	got := s.GenerationalTrend(context.Background(), rows, "norway", []string{"Red meat", "Vegetables"})

	require.Len(t, got, 3)
	assert.Equal(t, domain.GenerationSummary{
		AgeGroup: "34", AgeMidpoint: domain.FloatPtr(34), Cohort: 1980,
		Variable: "Red meat", Generation: "Millennials", MeanValue: 150, Count: 2,
	}, got[0])
	assert.Equal(t, "Vegetables", got[1].Variable)
	assert.Equal(t, "40", got[2].AgeGroup)
	assert.Equal(t, "Gen X", got[2].Generation)

	byCode := s.GenerationalTrend(context.Background(), rows, "NOR", []string{"Red meat", "Vegetables"})
	assert.Equal(t, got, byCode, "region matches by code too")
}

func TestTrendSeries(t *testing.T) {
	summaries := []domain.GenerationSummary{
		{AgeGroup: "40-44", AgeMidpoint: domain.FloatPtr(42), Generation: "Gen X", Variable: "Red meat", MeanValue: 3},
		{AgeGroup: "unknown", Generation: "Gen X", Variable: "Red meat", MeanValue: 9},
		{AgeGroup: "30-34", AgeMidpoint: domain.FloatPtr(32), Generation: "Millennials", Variable: "Red meat", MeanValue: 2},
		{AgeGroup: "35-39", AgeMidpoint: domain.FloatPtr(37), Generation: "Gen X", Variable: "Red meat", MeanValue: 1},
		{AgeGroup: "35-39", AgeMidpoint: domain.FloatPtr(37), Generation: "Gen X", Variable: "Fish", MeanValue: 4},
	}

	assert.Equal(t, []domain.TrendPoint{
		{AgeMidpoint: 37, Generation: "Gen X", Variable: "Fish", MeanValue: 4},
		{AgeMidpoint: 37, Generation: "Gen X", Variable: "Red meat", MeanValue: 1},
		{AgeMidpoint: 42, Generation: "Gen X", Variable: "Red meat", MeanValue: 3},
		{AgeMidpoint: 32, Generation: "Millennials", Variable: "Red meat", MeanValue: 2},
	}, TrendSeries(summaries))
}
