package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gddpanel/internal/shared/testutil"
)

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantCode   string
	}{
		{
			name:       "missing panel",
			err:        fmt.Errorf("load: %w", NewNotFoundError("panel artifact; run ingestion first")),
			wantStatus: http.StatusNotFound,
			wantType:   TypePanelNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "validation app error",
			err:        NewAppValidationError("variable is required"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantCode:   "VALIDATION",
		},
		{
			name:       "parsing app error",
			err:        NewParsingError("panel row 3", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataCorrupted,
			wantCode:   "PARSING",
		},
		{
			name:       "api error",
			err:        ErrValidation("variable", "required"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "rate limit api error",
			err:        ErrRateLimitExceeded,
			wantStatus: http.StatusTooManyRequests,
			wantType:   TypeRateLimit,
			wantCode:   "RATE_LIMIT_EXCEEDED",
		},
		{
			name:       "context cancelled",
			err:        context.Canceled,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "unknown error",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			h := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/cohorts/education", nil)
			rec := httptest.NewRecorder()

			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/v1/cohorts/education", body["instance"])
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["error_code"])
			}
			assert.NotContains(t, body, "stack")

			testutil.AssertLogContains(t, logs, slog.LevelError, "request failed")
		})
	}
}

func TestErrorHandler_NilError(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, logs.Count())
	assert.Empty(t, rec.Body.String())
}

func TestErrorHandler_IncludeStack(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)

	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), fmt.Errorf("boom"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "stack")
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "DELETE")
}

func TestHandlePanic(t *testing.T) {
	tests := []struct {
		name         string
		includeStack bool
	}{
		{name: "stack hidden", includeStack: false},
		{name: "stack exposed in development", includeStack: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			h := NewErrorHandler(logger, tt.includeStack)

			rec := httptest.NewRecorder()
			h.HandlePanic(rec, httptest.NewRequest(http.MethodGet, "/api/v1/panel/sample", nil), "unexpected")

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			testutil.AssertLogContains(t, logs, slog.LevelError, "panic recovered")

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, TypeInternal, body["type"])
			if tt.includeStack {
				assert.Equal(t, "unexpected", body["panic"])
				assert.NotEmpty(t, body["stack"])
			} else {
				assert.NotContains(t, body, "panic")
			}
		})
	}
}
