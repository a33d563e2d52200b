package dataprocessing

import (
	"fmt"

	"gddpanel/pkg/contracts/domain"
)

// Reshaper turns normalized records into long-format panel rows. The six
// identifying columns are carried through, the resolved variable label
// becomes the variable column and the measured value the value column.
type Reshaper struct{}

// NewReshaper creates a new Reshaper.
func NewReshaper() *Reshaper {
	return &Reshaper{}
}

// Reshape emits exactly one panel row per record, in input order.
func (r *Reshaper) Reshape(records []domain.NormalizedRecord) ([]domain.PanelRow, error) {
	rows := make([]domain.PanelRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, domain.PanelRow{
			RegionName: rec.RegionName,
			RegionCode: rec.RegionCode,
			SurveyYear: rec.SurveyYear,
			Sex:        rec.Sex,
			Education:  rec.Education,
			Age:        rec.AgeLabel,
			Variable:   rec.Variable,
			Value:      rec.Value,
		})
	}

	if len(rows) != len(records) {
		return nil, fmt.Errorf("reshape produced %d rows from %d records", len(rows), len(records))
	}
	return rows, nil
}
