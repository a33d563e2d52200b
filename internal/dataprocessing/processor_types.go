package dataprocessing

import (
	"context"

	"gddpanel/pkg/contracts/domain"
)

// RecordNormalizer is the normalization step of the ingestion pipeline.
type RecordNormalizer interface {
	Normalize(ctx context.Context, file string, records []domain.SourceRecord) (NormalizeResult, error)
}

// PanelReshaper is the reshape step of the ingestion pipeline.
type PanelReshaper interface {
	Reshape(records []domain.NormalizedRecord) ([]domain.PanelRow, error)
}

// SourceParser reads one raw extract.
type SourceParser func(path string) ([]domain.SourceRecord, error)
