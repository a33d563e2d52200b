package exporter

import (
	"strconv"

	"gddpanel/pkg/contracts/domain"
)

// Column layouts of the aggregation tables.
var (
	CohortEducationHeader = []string{"cohort", "education", "mean_intake", "count"}
	GenerationHeader      = []string{"age_group", "age_mid", "cohort", "variable", "generation", "mean_value", "count"}
	TrendSeriesHeader     = []string{"age_mid", "generation", "variable", "mean_value"}
)

// CohortEducationRecords renders cohort/education summaries as CSV records.
func CohortEducationRecords(summaries []domain.CohortEducationSummary) [][]string {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			strconv.Itoa(s.Cohort),
			s.Education,
			formatFloat(s.MeanValue),
			strconv.Itoa(s.Count),
		})
	}
	return records
}

// GenerationRecords renders grouped generational summaries as CSV records.
func GenerationRecords(summaries []domain.GenerationSummary) [][]string {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.AgeGroup,
			formatOptionalFloat(s.AgeMidpoint),
			strconv.Itoa(s.Cohort),
			s.Variable,
			s.Generation,
			formatFloat(s.MeanValue),
			strconv.Itoa(s.Count),
		})
	}
	return records
}

// TrendSeriesRecords renders plot hand-off points as CSV records.
func TrendSeriesRecords(points []domain.TrendPoint) [][]string {
	records := make([][]string, 0, len(points))
	for _, p := range points {
		records = append(records, []string{
			formatFloat(p.AgeMidpoint),
			p.Generation,
			p.Variable,
			formatFloat(p.MeanValue),
		})
	}
	return records
}
