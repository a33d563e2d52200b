package domain

// CohortRecord is a PanelRow with derived birth-year fields. It only lives
// in memory for the duration of an aggregation.
type CohortRecord struct {
	PanelRow
	BirthYear  float64 `json:"birth_year"`
	Cohort     int     `json:"cohort"`
	Generation string  `json:"generation,omitempty"`
}

// CohortEducationSummary is the mean value of one variable for a
// (cohort, education) group.
type CohortEducationSummary struct {
	Cohort    int     `json:"cohort"`
	Education string  `json:"education"`
	MeanValue float64 `json:"mean_intake"`
	Count     int     `json:"count"`
}

// GenerationSummary is the mean value for an
// (age_group, cohort, variable, generation) group.
type GenerationSummary struct {
	AgeGroup    string   `json:"age_group"`
	AgeMidpoint *float64 `json:"age_mid,omitempty"`
	Cohort      int      `json:"cohort"`
	Variable    string   `json:"variable"`
	Generation  string   `json:"generation"`
	MeanValue   float64  `json:"mean_value"`
	Count       int      `json:"count"`
}

// TrendPoint is one point of a generational line comparison, the shape the
// plotting consumer expects.
type TrendPoint struct {
	AgeMidpoint float64 `json:"age_mid"`
	Generation  string  `json:"generation"`
	Variable    string  `json:"variable"`
	MeanValue   float64 `json:"mean_value"`
}
