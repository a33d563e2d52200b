package exporter

import (
	"strconv"

	"gddpanel/pkg/contracts/domain"
)

// formatFloat formats a float with the shortest exact representation so
// values round-trip unchanged.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatOptionalFloat writes a missing value as an empty cell.
func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func formatOptionalInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

// PanelRecord renders a row in domain.PanelHeader column order.
func PanelRecord(row domain.PanelRow) []string {
	return []string{
		row.RegionName,
		row.RegionCode,
		formatOptionalInt(row.SurveyYear),
		row.Sex,
		row.Education,
		row.Age,
		row.Variable,
		formatOptionalFloat(row.Value),
	}
}
