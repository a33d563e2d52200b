package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"gddpanel/internal/errors"
	"gddpanel/internal/reference"
	"gddpanel/pkg/contracts/domain"
)

// UnmappedCounts counts codes that had no reference label, by field then code.
type UnmappedCounts map[string]map[string]int

// Add records one occurrence of code for field.
func (u UnmappedCounts) Add(field, code string) {
	if u[field] == nil {
		u[field] = make(map[string]int)
	}
	u[field][code]++
}

// Merge adds every count of other into u.
func (u UnmappedCounts) Merge(other UnmappedCounts) {
	for field, codes := range other {
		for code, n := range codes {
			if u[field] == nil {
				u[field] = make(map[string]int)
			}
			u[field][code] += n
		}
	}
}

// Total returns the number of unmapped occurrences across all fields.
func (u UnmappedCounts) Total() int {
	total := 0
	for _, codes := range u {
		for _, n := range codes {
			total += n
		}
	}
	return total
}

// String renders the counts in a stable order, e.g. "variable=99:3,NA:1".
func (u UnmappedCounts) String() string {
	fields := make([]string, 0, len(u))
	for f := range u {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		codes := make([]string, 0, len(u[f]))
		for c := range u[f] {
			codes = append(codes, c)
		}
		sort.Strings(codes)
		pairs := make([]string, 0, len(codes))
		for _, c := range codes {
			pairs = append(pairs, fmt.Sprintf("%s:%d", c, u[f][c]))
		}
		parts = append(parts, f+"="+strings.Join(pairs, ","))
	}
	return strings.Join(parts, " ")
}

// NormalizeStats describes what happened to one file's rows.
type NormalizeStats struct {
	RowsRead       int            `json:"rows_read"`
	RowsKept       int            `json:"rows_kept"`
	DroppedInvalid int            `json:"dropped_invalid"`
	DroppedRegion  int            `json:"dropped_region"`
	Unmapped       UnmappedCounts `json:"unmapped,omitempty"`
}

// NormalizeResult is the output of Normalizer.Normalize. An empty Records
// slice means the file contributes nothing.
type NormalizeResult struct {
	Records []domain.NormalizedRecord
	Stats   NormalizeStats
}

// NormalizerConfig configures a Normalizer.
type NormalizerConfig struct {
	// Regions is the membership set re-applied to each row. Nil means the
	// EU27 + EEA set.
	Regions reference.RegionSet
	// StrictCodes fails the whole file when any code has no label.
	StrictCodes bool
}

// Normalizer applies the validity mask, re-filters rows by region and maps
// coded fields to labels.
type Normalizer struct {
	logger   *slog.Logger
	regions  reference.RegionSet
	strict   bool
	validate *validator.Validate
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(logger *slog.Logger, cfg NormalizerConfig) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Regions == nil {
		cfg.Regions = reference.DefaultRegionSet()
	}
	return &Normalizer{
		logger:   logger.With(slog.String("component", "normalizer")),
		regions:  cfg.Regions,
		strict:   cfg.StrictCodes,
		validate: validator.New(),
	}
}

// IsValid reports whether rec passes the validity mask: sex in {0,1},
// education in {1,2,3} and age present and below 100.
func (n *Normalizer) IsValid(rec domain.SourceRecord) bool {
	return n.validate.Struct(rec) == nil
}

// Normalize turns one file's source rows into normalized records. Rows
// failing the mask are dropped before anything else looks at them.
func (n *Normalizer) Normalize(ctx context.Context, file string, records []domain.SourceRecord) (NormalizeResult, error) {
	stats := NormalizeStats{
		RowsRead: len(records),
		Unmapped: make(UnmappedCounts),
	}
	out := make([]domain.NormalizedRecord, 0, len(records))

	for _, rec := range records {
		if !n.IsValid(rec) {
			stats.DroppedInvalid++
			continue
		}

		region := reference.CanonicalRegionCode(rec.RegionCode)
		if !n.regions.Contains(region) {
			stats.DroppedRegion++
			continue
		}

		out = append(out, n.label(rec, region, stats.Unmapped))
	}
	stats.RowsKept = len(out)

	if total := stats.Unmapped.Total(); total > 0 {
		n.logger.WarnContext(ctx, "unmapped codes in file",
			slog.String("file", file),
			slog.Int("count", total),
			slog.String("codes", stats.Unmapped.String()))

		if n.strict {
			return NormalizeResult{Stats: stats}, errors.NewAppError(errors.ErrTypeValidation,
				fmt.Sprintf("%s: %d unmapped codes (%s)", file, total, stats.Unmapped.String()), nil).
				WithContext("file", file)
		}
	}

	n.logger.DebugContext(ctx, "normalized file",
		slog.String("file", file),
		slog.Int("rows_read", stats.RowsRead),
		slog.Int("rows_kept", stats.RowsKept),
		slog.Int("dropped_invalid", stats.DroppedInvalid),
		slog.Int("dropped_region", stats.DroppedRegion))

	return NormalizeResult{Records: out, Stats: stats}, nil
}

// label maps the coded fields of a valid record. The mask guarantees sex,
// education and age are present.
func (n *Normalizer) label(rec domain.SourceRecord, region string, unmapped UnmappedCounts) domain.NormalizedRecord {
	sex := reference.SexLabel(*rec.Sex)
	if !sex.Mapped {
		unmapped.Add(reference.FieldSex, sex.Code)
	}

	edu := reference.EducationLabel(*rec.Education)
	if !edu.Mapped {
		unmapped.Add(reference.FieldEducation, edu.Code)
	}

	var variable reference.Label
	if rec.VariableCode != nil {
		variable = reference.VariableLabel(*rec.VariableCode)
	} else {
		variable = reference.Label{Code: "NA"}
	}
	if !variable.Mapped {
		unmapped.Add(reference.FieldVariable, variable.Code)
	}

	name := reference.RegionName(region)
	if !name.Mapped {
		unmapped.Add(reference.FieldRegion, name.Code)
	}

	return domain.NormalizedRecord{
		RegionName: name.Text,
		RegionCode: region,
		SurveyYear: rec.SurveyYear,
		Sex:        sex.Text,
		Education:  edu.Text,
		Age:        rec.Age,
		AgeLabel:   rec.AgeLabel,
		Variable:   variable.Text,
		Value:      rec.Value,
	}
}
