package http

import (
	"context"

	"gddpanel/internal/config"
	"gddpanel/pkg/contracts/domain"
)

// ReportServiceInterface defines the read-only panel operations the report
// API exposes.
type ReportServiceInterface interface {
	Defaults() config.AnalysisConfig
	Sample(ctx context.Context) ([]domain.PanelRow, error)
	EducationCohorts(ctx context.Context, variable string) ([]domain.CohortEducationSummary, error)
	GenerationalTrend(ctx context.Context, region string, variables []string) ([]domain.GenerationSummary, error)
	TrendSeries(ctx context.Context, region string, variables []string) ([]domain.TrendPoint, error)
}
