// Package api contains the report API contract definitions.
// Version v1 represents the current stable API version.
package api

import (
	"gddpanel/pkg/contracts/domain"
)

// Query parameters. Fields carry `query` tags naming the URL parameter and
// validator tags checked by the server before the request reaches a service.
// Empty values fall back to the server's analysis defaults.

// CohortQuery selects the variable for the cohort-by-education table.
type CohortQuery struct {
	Variable string `json:"variable" query:"variable" validate:"omitempty,max=64,label"`
}

// GenerationQuery selects the region and variables for the generational
// comparison and its trend series.
type GenerationQuery struct {
	Region    string   `json:"region" query:"region" validate:"omitempty,max=64,label"`
	Variables []string `json:"variables" query:"variable" validate:"omitempty,max=16,dive,required,max=64,label"`
}

// Responses

// PanelSampleResponse is the reproducible sample of the latest panel.
type PanelSampleResponse struct {
	Rows  []domain.PanelRow `json:"rows"`
	Count int               `json:"count"`
}

// CohortEducationResponse is the cohort-by-education mean table for one variable.
type CohortEducationResponse struct {
	Variable string                          `json:"variable"`
	Groups   []domain.CohortEducationSummary `json:"groups"`
	Count    int                             `json:"count"`
}

// GenerationResponse is the age-aligned generational comparison for one region.
type GenerationResponse struct {
	Region    string                     `json:"region"`
	Variables []string                   `json:"variables"`
	Groups    []domain.GenerationSummary `json:"groups"`
	Count     int                        `json:"count"`
}

// TrendSeriesResponse holds the line-plot series derived from the comparison.
type TrendSeriesResponse struct {
	Region    string              `json:"region"`
	Variables []string            `json:"variables"`
	Points    []domain.TrendPoint `json:"points"`
	Count     int                 `json:"count"`
}
