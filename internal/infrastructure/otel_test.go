package infrastructure

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestInitializeOTel(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *OTelConfig
		wantTracer  bool
		wantMetrics bool
		wantErr     bool
	}{
		{
			name:        "defaults",
			cfg:         nil,
			wantMetrics: true,
		},
		{
			name:        "stdout tracing",
			cfg:         &OTelConfig{ServiceName: "test", TraceExporter: "stdout", EnableMetrics: true, SampleRatio: 1},
			wantTracer:  true,
			wantMetrics: true,
		},
		{
			name: "everything off",
			cfg:  &OTelConfig{ServiceName: "test", TraceExporter: "none"},
		},
		{
			name:    "unknown exporter",
			cfg:     &OTelConfig{ServiceName: "test", TraceExporter: "jaeger"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := InitializeOTel(tt.cfg, discardLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, providers.Tracer)
			require.NotNil(t, providers.Meter)

			assert.Equal(t, tt.wantTracer, providers.TracerProvider != nil)
			assert.Equal(t, tt.wantMetrics, providers.MeterProvider != nil)
			assert.Equal(t, tt.wantMetrics, providers.PrometheusHTTP != nil)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			assert.NoError(t, providers.Shutdown(ctx))
		})
	}
}

func TestPipelineMetricsExposition(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	m, err := NewPipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordFile(ctx, "processed", 10, 2, 1)
	m.RecordUnmapped(ctx, "variable", 3)
	m.RecordRowsWritten(ctx, 7)
	m.RecordRun(ctx, time.Second, true)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "pipeline_files_total")
	assert.Contains(t, body, "pipeline_rows_dropped_total")
	assert.Contains(t, body, `reason="invalid"`)
	assert.Contains(t, body, "pipeline_unmapped_codes_total")
	assert.Contains(t, body, "pipeline_panel_rows_written_total")
}

func TestPipelineMetricsNoop(t *testing.T) {
	m, err := NewPipelineMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		m.RecordFile(context.Background(), "failed", 0, 0, 0)
	})

	var nilMetrics *PipelineMetrics
	assert.NotPanics(t, func() {
		nilMetrics.RecordRowsWritten(context.Background(), 5)
	})
}

func TestNewHTTPMetrics(t *testing.T) {
	m, err := NewHTTPMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	assert.NotNil(t, m.RequestsTotal)
	assert.NotNil(t, m.RequestDuration)
	assert.NotNil(t, m.ActiveRequests)
}
