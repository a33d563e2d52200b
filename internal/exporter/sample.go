package exporter

import (
	"math/rand"

	"gddpanel/pkg/contracts/domain"
)

// Sampler draws a fixed-size, seeded random sample of panel rows.
type Sampler struct {
	size int
	seed int64
}

// NewSampler creates a sampler. Two samplers with the same size and seed
// pick the same rows from the same input.
func NewSampler(size int, seed int64) *Sampler {
	return &Sampler{size: size, seed: seed}
}

// Sample returns size rows drawn without replacement in draw order. When
// rows has no more than size entries, all of them are returned in input
// order.
func (s *Sampler) Sample(rows []domain.PanelRow) []domain.PanelRow {
	if len(rows) <= s.size {
		out := make([]domain.PanelRow, len(rows))
		copy(out, rows)
		return out
	}

	rng := rand.New(rand.NewSource(s.seed))
	perm := rng.Perm(len(rows))

	out := make([]domain.PanelRow, 0, s.size)
	for _, idx := range perm[:s.size] {
		out = append(out, rows[idx])
	}
	return out
}

// WriteSample writes the sample with the panel header to filePath.
func (w *CSVWriter) WriteSample(filePath string, rows []domain.PanelRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, PanelRecord(row))
	}
	return w.WriteSummaryCSV(filePath, domain.PanelHeader, records)
}
