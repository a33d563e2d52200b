package operations

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gddpanel/internal/config"
	"gddpanel/internal/dataprocessing"
	"gddpanel/internal/errors"
	"gddpanel/internal/exporter"
	"gddpanel/internal/files"
	"gddpanel/internal/infrastructure"
	"gddpanel/internal/reference"
	"gddpanel/pkg/contracts/domain"
)

// TracerName names the tracer used for ingestion spans.
const TracerName = "gddpanel.pipeline"

// PipelineConfig configures an ingestion run.
type PipelineConfig struct {
	Regions     reference.RegionSet
	SampleSize  int
	SampleSeed  int64
	StrictCodes bool
}

// NewPipelineConfig converts the loaded configuration. An empty region list
// means the EU27 + EEA set.
func NewPipelineConfig(pc config.PipelineConfig) PipelineConfig {
	regions := reference.NewRegionSet(pc.Regions...)
	if regions.Len() == 0 {
		regions = reference.DefaultRegionSet()
	}
	return PipelineConfig{
		Regions:     regions,
		SampleSize:  pc.SampleSize,
		SampleSeed:  pc.SampleSeed,
		StrictCodes: pc.StrictCodes,
	}
}

// Pipeline is the ingestion run: discover, select, then per file parse,
// normalize, reshape and append to the single panel artifact.
type Pipeline struct {
	paths      *config.Paths
	cfg        PipelineConfig
	logger     *slog.Logger
	discovery  *files.Discovery
	manager    *files.Manager
	writer     *exporter.CSVWriter
	parse      dataprocessing.SourceParser
	normalizer dataprocessing.RecordNormalizer
	reshaper   dataprocessing.PanelReshaper
	tracer     trace.Tracer
	metrics    *infrastructure.PipelineMetrics
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithTracer sets the tracer for pipeline spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = tracer }
}

// WithMetrics sets the pipeline instruments.
func WithMetrics(m *infrastructure.PipelineMetrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithParser replaces the source file parser.
func WithParser(parse dataprocessing.SourceParser) Option {
	return func(p *Pipeline) { p.parse = parse }
}

// NewPipeline creates a pipeline writing under paths.
func NewPipeline(paths *config.Paths, cfg PipelineConfig, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Regions == nil {
		cfg.Regions = reference.DefaultRegionSet()
	}

	p := &Pipeline{
		paths:     paths,
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "pipeline")),
		discovery: files.NewDiscovery(paths.BaseDir),
		manager:   files.NewManager(paths, logger),
		writer:    exporter.NewCSVWriter(paths, logger),
		parse:     dataprocessing.ParseFile,
		normalizer: dataprocessing.NewNormalizer(logger, dataprocessing.NormalizerConfig{
			Regions:     cfg.Regions,
			StrictCodes: cfg.StrictCodes,
		}),
		reshaper: dataprocessing.NewReshaper(),
		tracer:   otel.Tracer(TracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one ingestion run. Previous artifacts are removed first so
// reruns never accumulate. File-scoped failures are logged and recorded in
// the manifest; the run fails only when nothing was discovered or every
// selected file failed. The manifest is returned and saved in both cases.
func (p *Pipeline) Run(ctx context.Context) (*RunManifest, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	start := time.Now()

	ctx, span := p.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			attribute.String("pipeline.input_dir", p.paths.InputDir),
			attribute.Int("pipeline.regions", p.cfg.Regions.Len()),
		))
	defer span.End()

	manifest := NewRunManifest(p.paths.InputDir, p.cfg.Regions.Codes())
	manifest.TraceID = infrastructure.GetTraceID(ctx)

	err := p.run(ctx, manifest)

	if err != nil {
		manifest.Fail(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.ErrorContext(ctx, "ingestion run failed", slog.String("error", err.Error()))
	} else {
		p.logger.InfoContext(ctx, "ingestion run completed",
			slog.Int("files_processed", manifest.Totals.FilesProcessed),
			slog.Int("files_skipped", manifest.Totals.FilesSkipped),
			slog.Int("files_failed", manifest.Totals.FilesFailed),
			slog.Int("rows_written", manifest.Totals.RowsWritten),
			slog.String("panel", p.paths.PanelCSV))
	}
	p.metrics.RecordRun(ctx, time.Since(start), err == nil)

	if saveErr := manifest.SaveToFile(p.paths.ManifestJSON); saveErr != nil {
		p.logger.ErrorContext(ctx, "failed to save run manifest",
			slog.String("path", p.paths.ManifestJSON),
			slog.String("error", saveErr.Error()))
		if err == nil {
			err = errors.NewStorageError("failed to save run manifest", saveErr)
		}
	}

	return manifest, err
}

func (p *Pipeline) run(ctx context.Context, manifest *RunManifest) error {
	if err := p.paths.EnsureDirectories(); err != nil {
		return errors.NewStorageError("failed to create output directories", err)
	}
	if err := p.manager.ClearIngestionArtifacts(); err != nil {
		return errors.NewStorageError("failed to clear previous artifacts", err)
	}

	discovered, err := p.discovery.FindSourceFiles(p.paths.InputDir)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return errors.NewAppError(errors.ErrTypeNotFound,
				fmt.Sprintf("input directory %s not found", p.paths.InputDir), err).
				WithContext("path", p.paths.InputDir)
		}
		return errors.NewStorageError(fmt.Sprintf("failed to list %s", p.paths.InputDir), err)
	}
	if len(discovered) == 0 {
		return errors.NewAppError(errors.ErrTypeNotFound,
			fmt.Sprintf("no source files discovered in %s", p.paths.InputDir), nil).
			WithContext("path", p.paths.InputDir)
	}

	selected := files.FilterByRegion(discovered, p.cfg.Regions)
	manifest.SetDiscovery(len(discovered), len(selected))

	p.logger.InfoContext(ctx, "selected source files",
		slog.Int("discovered", len(discovered)),
		slog.Int("selected", len(selected)))
	if len(selected) == 0 {
		p.logger.WarnContext(ctx, "no source file matches the region set",
			slog.String("input_dir", p.paths.InputDir))
	}

	panel, err := p.writer.NewPanelWriter(p.paths.PanelCSV)
	if err != nil {
		return errors.NewStorageError("failed to create panel artifact", err)
	}

	sampled := false
	for _, file := range selected {
		rows, outcome := p.processFile(ctx, file, manifest)

		if len(rows) > 0 {
			if err := panel.Append(rows); err != nil {
				panel.Close()
				return errors.NewStorageError(fmt.Sprintf("failed to append %s to panel", file.Name), err)
			}
			p.metrics.RecordRowsWritten(ctx, len(rows))

			if !sampled {
				if err := p.writeSample(ctx, rows, manifest); err != nil {
					panel.Close()
					return err
				}
				sampled = true
			}
		}

		manifest.RecordFile(outcome)
	}

	if err := panel.Close(); err != nil {
		return errors.NewStorageError("failed to close panel artifact", err)
	}
	p.logger.DebugContext(ctx, "panel artifact closed",
		slog.String("path", p.paths.PanelCSV),
		slog.Int("rows", panel.Rows()))

	if len(selected) > 0 && manifest.Succeeded() == 0 {
		return errors.NewAppError(errors.ErrTypeParsing,
			fmt.Sprintf("none of the %d selected files in %s could be processed", len(selected), p.paths.InputDir), nil)
	}

	if err := manifest.Complete(p.paths.PanelCSV); err != nil {
		return errors.NewStorageError("failed to digest panel artifact", err)
	}
	return nil
}

// processFile runs one file through parse, normalize and reshape. Failures
// are file-scoped: they are logged with the file name and returned as a
// failed outcome with no rows.
func (p *Pipeline) processFile(ctx context.Context, file files.FileInfo, manifest *RunManifest) ([]domain.PanelRow, FileOutcome) {
	ctx, span := p.tracer.Start(ctx, "pipeline.file",
		trace.WithAttributes(attribute.String("pipeline.file", file.Name)))
	defer span.End()

	outcome := FileOutcome{Name: file.Name}

	fail := func(err error) ([]domain.PanelRow, FileOutcome) {
		outcome.Status = FileFailed
		outcome.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.ErrorContext(ctx, "failed to process source file",
			slog.String("file", file.Name),
			slog.String("error", err.Error()))
		p.metrics.RecordFile(ctx, FileFailed, outcome.RowsRead, outcome.DroppedInvalid, outcome.DroppedRegion)
		return nil, outcome
	}

	records, err := p.parse(file.Path)
	if err != nil {
		return fail(err)
	}

	result, err := p.normalizer.Normalize(ctx, file.Name, records)
	outcome.RowsRead = result.Stats.RowsRead
	outcome.RowsKept = result.Stats.RowsKept
	outcome.DroppedInvalid = result.Stats.DroppedInvalid
	outcome.DroppedRegion = result.Stats.DroppedRegion

	manifest.AddUnmapped(result.Stats.Unmapped)
	for field, counts := range result.Stats.Unmapped {
		n := 0
		for _, c := range counts {
			n += c
		}
		p.metrics.RecordUnmapped(ctx, field, n)
	}

	if err != nil {
		outcome.RowsKept = 0
		return fail(err)
	}

	if len(result.Records) == 0 {
		outcome.Status = FileSkipped
		p.logger.InfoContext(ctx, "skipping source file with no rows after filtering",
			slog.String("file", file.Name),
			slog.Int("rows_read", outcome.RowsRead))
		p.metrics.RecordFile(ctx, FileSkipped, outcome.RowsRead, outcome.DroppedInvalid, outcome.DroppedRegion)
		return nil, outcome
	}

	rows, err := p.reshaper.Reshape(result.Records)
	if err != nil {
		outcome.RowsKept = 0
		return fail(err)
	}

	outcome.Status = FileProcessed
	span.SetAttributes(attribute.Int("pipeline.rows", len(rows)))
	p.logger.InfoContext(ctx, "processed source file",
		slog.String("file", file.Name),
		slog.Int("rows_read", outcome.RowsRead),
		slog.Int("rows_kept", outcome.RowsKept))
	p.metrics.RecordFile(ctx, FileProcessed, outcome.RowsRead, outcome.DroppedInvalid, outcome.DroppedRegion)

	return rows, outcome
}

func (p *Pipeline) writeSample(ctx context.Context, rows []domain.PanelRow, manifest *RunManifest) error {
	sample := exporter.NewSampler(p.cfg.SampleSize, p.cfg.SampleSeed).Sample(rows)
	if err := p.writer.WriteSample(p.paths.SampleCSV, sample); err != nil {
		return errors.NewStorageError("failed to write sample", err)
	}
	manifest.SetSample(p.paths.SampleCSV, len(sample))

	p.logger.InfoContext(ctx, "wrote panel sample",
		slog.String("path", p.paths.SampleCSV),
		slog.Int("rows", len(sample)))
	return nil
}
