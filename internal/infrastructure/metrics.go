package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the ingestion run instruments.
type PipelineMetrics struct {
	FilesTotal       metric.Int64Counter
	RowsRead         metric.Int64Counter
	RowsDropped      metric.Int64Counter
	UnmappedCodes    metric.Int64Counter
	PanelRowsWritten metric.Int64Counter
	RunDuration      metric.Float64Histogram
}

// NewPipelineMetrics creates the pipeline instruments on meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	filesTotal, err := meter.Int64Counter(
		"pipeline_files_total",
		metric.WithDescription("Source files handled, by outcome"),
	)
	if err != nil {
		return nil, err
	}

	rowsRead, err := meter.Int64Counter(
		"pipeline_rows_read_total",
		metric.WithDescription("Source rows read"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"pipeline_rows_dropped_total",
		metric.WithDescription("Source rows dropped, by reason"),
	)
	if err != nil {
		return nil, err
	}

	unmapped, err := meter.Int64Counter(
		"pipeline_unmapped_codes_total",
		metric.WithDescription("Codes without a reference label, by field"),
	)
	if err != nil {
		return nil, err
	}

	written, err := meter.Int64Counter(
		"pipeline_panel_rows_written_total",
		metric.WithDescription("Rows appended to the combined panel"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"pipeline_run_duration_seconds",
		metric.WithDescription("Ingestion run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		FilesTotal:       filesTotal,
		RowsRead:         rowsRead,
		RowsDropped:      rowsDropped,
		UnmappedCodes:    unmapped,
		PanelRowsWritten: written,
		RunDuration:      duration,
	}, nil
}

// RecordFile records the outcome of one source file.
func (m *PipelineMetrics) RecordFile(ctx context.Context, status string, rowsRead, droppedInvalid, droppedRegion int) {
	if m == nil {
		return
	}
	m.FilesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	m.RowsRead.Add(ctx, int64(rowsRead))
	if droppedInvalid > 0 {
		m.RowsDropped.Add(ctx, int64(droppedInvalid), metric.WithAttributes(attribute.String("reason", "invalid")))
	}
	if droppedRegion > 0 {
		m.RowsDropped.Add(ctx, int64(droppedRegion), metric.WithAttributes(attribute.String("reason", "region")))
	}
}

// RecordUnmapped records n unmapped codes for field.
func (m *PipelineMetrics) RecordUnmapped(ctx context.Context, field string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.UnmappedCodes.Add(ctx, int64(n), metric.WithAttributes(attribute.String("field", field)))
}

// RecordRowsWritten records rows appended to the panel.
func (m *PipelineMetrics) RecordRowsWritten(ctx context.Context, n int) {
	if m == nil || n == 0 {
		return
	}
	m.PanelRowsWritten.Add(ctx, int64(n))
}

// RecordRun records the duration of a finished run.
func (m *PipelineMetrics) RecordRun(ctx context.Context, duration time.Duration, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	m.RunDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("status", status)))
}

// HTTPMetrics holds the report server instruments.
type HTTPMetrics struct {
	RequestsTotal   metric.Int64Counter
	RequestDuration metric.Float64Histogram
	ActiveRequests  metric.Int64UpDownCounter
}

// NewHTTPMetrics creates the report server instruments on meter.
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	active, err := meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		RequestsTotal:   requestsTotal,
		RequestDuration: requestDuration,
		ActiveRequests:  active,
	}, nil
}
