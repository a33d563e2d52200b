package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gddpanel/pkg/contracts/domain"
)

// Generation is a named birth-year interval, open below and closed above.
type Generation struct {
	Label string
	After float64 // exclusive lower bound
	Until float64 // inclusive upper bound
}

// Contains reports whether birthYear falls in (After, Until].
func (g Generation) Contains(birthYear float64) bool {
	return birthYear > g.After && birthYear <= g.Until
}

// DefaultGenerations are the buckets used for generational comparison.
var DefaultGenerations = []Generation{
	{Label: "Gen X", After: 1965, Until: 1980},
	{Label: "Millennials", After: 1980, Until: 1996},
}

// GenerationFor returns the label of the first default generation that
// contains birthYear.
func GenerationFor(birthYear float64) (string, bool) {
	return generationIn(DefaultGenerations, birthYear)
}

func generationIn(gens []Generation, birthYear float64) (string, bool) {
	for _, g := range gens {
		if g.Contains(birthYear) {
			return g.Label, true
		}
	}
	return "", false
}

var integerPattern = regexp.MustCompile(`\d+`)

// AgeMidpoint returns the midpoint of an age label. A plain number is its
// own midpoint; a range label such as "25-29" yields the mean of every
// integer in it. Nil when the label holds no digits.
func AgeMidpoint(label string) *float64 {
	label = strings.TrimSpace(label)
	if v, err := strconv.ParseFloat(label, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return &v
	}

	matches := integerPattern.FindAllString(label, -1)
	if len(matches) == 0 {
		return nil
	}
	sum := 0.0
	for _, m := range matches {
		n, err := strconv.Atoi(m)
		if err != nil {
			return nil
		}
		sum += float64(n)
	}
	mid := sum / float64(len(matches))
	return &mid
}

// DeriveCohort computes birth year, decade cohort and generation for a
// panel row. The second result is false when age or survey year is absent.
func DeriveCohort(row domain.PanelRow) (domain.CohortRecord, bool) {
	age := AgeMidpoint(row.Age)
	if age == nil || row.SurveyYear == nil {
		return domain.CohortRecord{}, false
	}

	birthYear := float64(*row.SurveyYear) - *age
	gen, _ := GenerationFor(birthYear)

	return domain.CohortRecord{
		PanelRow:   row,
		BirthYear:  birthYear,
		Cohort:     CohortOf(birthYear),
		Generation: gen,
	}, true
}

// CohortOf returns the decade containing birthYear.
func CohortOf(birthYear float64) int {
	return int(math.Floor(birthYear/10)) * 10
}

// Summarizer aggregates panel rows by cohort and generation.
type Summarizer struct {
	logger      *slog.Logger
	generations []Generation
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	// Generations overrides DefaultGenerations when non-empty.
	Generations []Generation
}

// NewSummarizer creates a new summarizer with the given configuration.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if len(config.Generations) == 0 {
		config.Generations = DefaultGenerations
	}
	return &Summarizer{
		logger:      logger.With(slog.String("component", "summarizer")),
		generations: config.Generations,
	}
}

type meanAcc struct {
	sum   float64
	count int
}

func (m *meanAcc) add(v float64) {
	m.sum += v
	m.count++
}

func (m meanAcc) mean() float64 {
	return m.sum / float64(m.count)
}

// EducationCohorts returns the mean value of variable by (cohort,
// education). Rows missing age, survey year, education or value are
// dropped first.
func (s *Summarizer) EducationCohorts(ctx context.Context, rows []domain.PanelRow, variable string) []domain.CohortEducationSummary {
	type key struct {
		cohort    int
		education string
	}
	groups := make(map[key]*meanAcc)
	used := 0

	for _, row := range rows {
		if row.Variable != variable || row.Education == "" || row.Value == nil {
			continue
		}
		rec, ok := DeriveCohort(row)
		if !ok {
			continue
		}
		k := key{cohort: rec.Cohort, education: row.Education}
		if groups[k] == nil {
			groups[k] = &meanAcc{}
		}
		groups[k].add(*row.Value)
		used++
	}

	out := make([]domain.CohortEducationSummary, 0, len(groups))
	for k, acc := range groups {
		out = append(out, domain.CohortEducationSummary{
			Cohort:    k.cohort,
			Education: k.education,
			MeanValue: acc.mean(),
			Count:     acc.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cohort != out[j].Cohort {
			return out[i].Cohort < out[j].Cohort
		}
		return out[i].Education < out[j].Education
	})

	s.logger.InfoContext(ctx, "aggregated cohorts by education",
		slog.String("variable", variable),
		slog.Int("rows_used", used),
		slog.Int("groups", len(out)))

	return out
}

// GenerationalTrend returns the mean value by (age group, cohort, variable,
// generation) for one region and a set of variables. Region matches either
// the region name or code, ignoring case. Rows outside every generation are
// excluded.
func (s *Summarizer) GenerationalTrend(ctx context.Context, rows []domain.PanelRow, region string, variables []string) []domain.GenerationSummary {
	wanted := make(map[string]bool, len(variables))
	for _, v := range variables {
		wanted[v] = true
	}

	type key struct {
		ageGroup   string
		cohort     int
		variable   string
		generation string
	}
	groups := make(map[key]*meanAcc)
	outside := 0

	for _, row := range rows {
		if !matchesRegion(row, region) || !wanted[row.Variable] || row.Value == nil {
			continue
		}
		rec, ok := DeriveCohort(row)
		if !ok {
			continue
		}
		gen, ok := generationIn(s.generations, rec.BirthYear)
		if !ok {
			outside++
			continue
		}
		k := key{ageGroup: row.Age, cohort: rec.Cohort, variable: row.Variable, generation: gen}
		if groups[k] == nil {
			groups[k] = &meanAcc{}
		}
		groups[k].add(*row.Value)
	}

	out := make([]domain.GenerationSummary, 0, len(groups))
	for k, acc := range groups {
		out = append(out, domain.GenerationSummary{
			AgeGroup:    k.ageGroup,
			AgeMidpoint: AgeMidpoint(k.ageGroup),
			Cohort:      k.cohort,
			Variable:    k.variable,
			Generation:  k.generation,
			MeanValue:   acc.mean(),
			Count:       acc.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.AgeGroup != b.AgeGroup {
			return a.AgeGroup < b.AgeGroup
		}
		if a.Cohort != b.Cohort {
			return a.Cohort < b.Cohort
		}
		if a.Variable != b.Variable {
			return a.Variable < b.Variable
		}
		return a.Generation < b.Generation
	})

	s.logger.InfoContext(ctx, "aggregated generational trend",
		slog.String("region", region),
		slog.Any("variables", variables),
		slog.Int("outside_generations", outside),
		slog.Int("groups", len(out)))

	return out
}

func matchesRegion(row domain.PanelRow, region string) bool {
	return strings.EqualFold(row.RegionName, region) || strings.EqualFold(row.RegionCode, region)
}

// TrendSeries converts grouped summaries into plot hand-off points. Groups
// without an age midpoint are left out. Output is ordered by generation,
// variable, then midpoint.
func TrendSeries(summaries []domain.GenerationSummary) []domain.TrendPoint {
	points := make([]domain.TrendPoint, 0, len(summaries))
	for _, s := range summaries {
		if s.AgeMidpoint == nil {
			continue
		}
		points = append(points, domain.TrendPoint{
			AgeMidpoint: *s.AgeMidpoint,
			Generation:  s.Generation,
			Variable:    s.Variable,
			MeanValue:   s.MeanValue,
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if a.Generation != b.Generation {
			return a.Generation < b.Generation
		}
		if a.Variable != b.Variable {
			return a.Variable < b.Variable
		}
		return a.AgeMidpoint < b.AgeMidpoint
	})
	return points
}
