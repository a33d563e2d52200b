package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gddpanel/internal/config"
	apierrors "gddpanel/internal/errors"
	api "gddpanel/pkg/contracts/api/v1"
	"gddpanel/pkg/contracts/domain"
)

// MockReportService is a mock implementation of ReportServiceInterface
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Defaults() config.AnalysisConfig {
	return config.AnalysisConfig{
		CohortVariable: "Red meat",
		TrendRegion:    "Norway",
		TrendVariables: []string{"Red meat", "Vegetables"},
	}
}

func (m *MockReportService) Sample(ctx context.Context) ([]domain.PanelRow, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PanelRow), args.Error(1)
}

func (m *MockReportService) EducationCohorts(ctx context.Context, variable string) ([]domain.CohortEducationSummary, error) {
	args := m.Called(variable)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CohortEducationSummary), args.Error(1)
}

func (m *MockReportService) GenerationalTrend(ctx context.Context, region string, variables []string) ([]domain.GenerationSummary, error) {
	args := m.Called(region, variables)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GenerationSummary), args.Error(1)
}

func (m *MockReportService) TrendSeries(ctx context.Context, region string, variables []string) ([]domain.TrendPoint, error) {
	args := m.Called(region, variables)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrendPoint), args.Error(1)
}

func newTestReportHandler(svc ReportServiceInterface) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewReportHandler(svc, logger, apierrors.NewErrorHandler(logger, false)).Routes()
}

func panelMissing() error {
	return apierrors.NewAppError(apierrors.ErrTypeNotFound, "panel artifact data/processed/gdd_cleaned_panel.csv not found; run ingestion first", nil)
}

func TestReportHandler_GetEducationCohorts(t *testing.T) {
	groups := []domain.CohortEducationSummary{
		{Cohort: 1981, Education: "High", MeanValue: 60, Count: 3},
		{Cohort: 1981, Education: "Low", MeanValue: 40, Count: 2},
	}

	tests := []struct {
		name           string
		description    string
		query          string
		setupMock      func(*MockReportService)
		expectedStatus int
		verify         func(*testing.T, []byte)
	}{
		{
			name:        "default variable",
			description: "blank variable falls back to the configured cohort variable",
			setupMock: func(m *MockReportService) {
				m.On("EducationCohorts", "Red meat").Return(groups, nil)
			},
			expectedStatus: http.StatusOK,
			verify: func(t *testing.T, body []byte) {
				var resp api.CohortEducationResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "Red meat", resp.Variable)
				assert.Equal(t, 2, resp.Count)
				assert.Equal(t, groups, resp.Groups)
			},
		},
		{
			name:        "explicit variable",
			description: "variable parameter is passed through",
			query:       "?variable=Fish",
			setupMock: func(m *MockReportService) {
				m.On("EducationCohorts", "Fish").Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			verify: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"variable":"Fish","groups":[],"count":0}`, string(body))
			},
		},
		{
			name:           "invalid variable",
			description:    "characters outside the label set are rejected before the service runs",
			query:          "?variable=%3Cscript%3E",
			setupMock:      func(m *MockReportService) {},
			expectedStatus: http.StatusBadRequest,
			verify: func(t *testing.T, body []byte) {
				assert.Contains(t, string(body), "VALIDATION_FAILED")
				assert.Contains(t, string(body), "variable")
			},
		},
		{
			name:        "panel missing",
			description: "a missing panel is a 404 telling the caller to ingest first",
			setupMock: func(m *MockReportService) {
				m.On("EducationCohorts", "Red meat").Return(nil, panelMissing())
			},
			expectedStatus: http.StatusNotFound,
			verify: func(t *testing.T, body []byte) {
				var problem map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &problem))
				assert.Equal(t, "/errors/panel/not-found", problem["type"])
				assert.Equal(t, "NOT_FOUND", problem["error_code"])
				assert.Contains(t, problem["detail"], "run ingestion first")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReportService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/cohorts/education"+tt.query, nil)
			rec := httptest.NewRecorder()
			newTestReportHandler(svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code, tt.description)
			tt.verify(t, rec.Body.Bytes())
			svc.AssertExpectations(t)
		})
	}
}

func TestReportHandler_Generations(t *testing.T) {
	mid := 37.0
	summaries := []domain.GenerationSummary{
		{AgeGroup: "35-39", AgeMidpoint: &mid, Cohort: 1983, Variable: "Red meat", Generation: "Millennials", MeanValue: 90, Count: 4},
	}
	points := []domain.TrendPoint{
		{AgeMidpoint: 37, Generation: "Millennials", Variable: "Red meat", MeanValue: 90},
	}

	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockReportService)
		expectedStatus int
		verify         func(*testing.T, []byte)
	}{
		{
			name: "comparison with defaults",
			path: "/generations",
			setupMock: func(m *MockReportService) {
				m.On("GenerationalTrend", "Norway", []string{"Red meat", "Vegetables"}).Return(summaries, nil)
			},
			expectedStatus: http.StatusOK,
			verify: func(t *testing.T, body []byte) {
				var resp api.GenerationResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "Norway", resp.Region)
				assert.Equal(t, []string{"Red meat", "Vegetables"}, resp.Variables)
				assert.Equal(t, summaries, resp.Groups)
			},
		},
		{
			name: "repeated variable parameters",
			path: "/generations?region=Sweden&variable=Fish&variable=Red+meat",
			setupMock: func(m *MockReportService) {
				m.On("GenerationalTrend", "Sweden", []string{"Fish", "Red meat"}).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			verify: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"region":"Sweden","variables":["Fish","Red meat"],"groups":[],"count":0}`, string(body))
			},
		},
		{
			name: "trend series",
			path: "/generations/trend?region=Norway&variable=Red+meat",
			setupMock: func(m *MockReportService) {
				m.On("TrendSeries", "Norway", []string{"Red meat"}).Return(points, nil)
			},
			expectedStatus: http.StatusOK,
			verify: func(t *testing.T, body []byte) {
				var resp api.TrendSeriesResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, 1, resp.Count)
				assert.Equal(t, points, resp.Points)
			},
		},
		{
			name:           "region too long",
			path:           "/generations/trend?region=" + longLabel(65),
			setupMock:      func(m *MockReportService) {},
			expectedStatus: http.StatusBadRequest,
			verify: func(t *testing.T, body []byte) {
				assert.Contains(t, string(body), "region must be at most 64")
			},
		},
		{
			name: "panel missing",
			path: "/generations",
			setupMock: func(m *MockReportService) {
				m.On("GenerationalTrend", "Norway", []string{"Red meat", "Vegetables"}).Return(nil, panelMissing())
			},
			expectedStatus: http.StatusNotFound,
			verify: func(t *testing.T, body []byte) {
				assert.Contains(t, string(body), "run ingestion first")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReportService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			newTestReportHandler(svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			tt.verify(t, rec.Body.Bytes())
			svc.AssertExpectations(t)
		})
	}
}

func TestReportHandler_GetSample(t *testing.T) {
	year := 2018
	value := 42.5
	rows := []domain.PanelRow{
		{RegionName: "Norway", RegionCode: "NOR", SurveyYear: &year, Sex: "Female", Education: "Low", Age: "34", Variable: "Red meat", Value: &value},
	}

	t.Run("rows", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("Sample").Return(rows, nil)

		rec := httptest.NewRecorder()
		newTestReportHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panel/sample", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

		var resp api.PanelSampleResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Count)
		assert.Equal(t, rows, resp.Rows)
	})

	t.Run("sample missing", func(t *testing.T) {
		svc := new(MockReportService)
		svc.On("Sample").Return(nil, panelMissing())

		rec := httptest.NewRecorder()
		newTestReportHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panel/sample", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func longLabel(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
