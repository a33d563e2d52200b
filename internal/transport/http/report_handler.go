package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "gddpanel/internal/errors"
	"gddpanel/internal/middleware"
	api "gddpanel/pkg/contracts/api/v1"
)

// ReportHandler serves the panel sample and the cohort aggregations.
type ReportHandler struct {
	service      ReportServiceInterface
	validator    *middleware.QueryValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a new report handler with RFC 7807 error handling
func NewReportHandler(service ReportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:      service,
		validator:    middleware.NewQueryValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/panel/sample", h.GetSample)
	r.Get("/cohorts/education", h.GetEducationCohorts)
	r.Route("/generations", func(r chi.Router) {
		r.Get("/", h.GetGenerationalTrend)
		r.Get("/trend", h.GetTrendSeries)
	})

	return r
}

// GetSample handles GET /panel/sample
func (h *ReportHandler) GetSample(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Sample(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.PanelSampleResponse{Rows: orEmpty(rows), Count: len(rows)})
}

// GetEducationCohorts handles GET /cohorts/education?variable=
func (h *ReportHandler) GetEducationCohorts(w http.ResponseWriter, r *http.Request) {
	q := api.CohortQuery{Variable: strings.TrimSpace(r.URL.Query().Get("variable"))}
	if !h.validator.Validate(w, r, q) {
		return
	}
	if q.Variable == "" {
		q.Variable = h.service.Defaults().CohortVariable
	}

	groups, err := h.service.EducationCohorts(r.Context(), q.Variable)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "education cohorts served",
		slog.String("variable", q.Variable),
		slog.Int("groups", len(groups)))

	render.JSON(w, r, api.CohortEducationResponse{Variable: q.Variable, Groups: orEmpty(groups), Count: len(groups)})
}

// GetGenerationalTrend handles GET /generations?region=&variable=
func (h *ReportHandler) GetGenerationalTrend(w http.ResponseWriter, r *http.Request) {
	q, ok := h.generationQuery(w, r)
	if !ok {
		return
	}

	groups, err := h.service.GenerationalTrend(r.Context(), q.Region, q.Variables)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.GenerationResponse{
		Region:    q.Region,
		Variables: q.Variables,
		Groups:    orEmpty(groups),
		Count:     len(groups),
	})
}

// GetTrendSeries handles GET /generations/trend?region=&variable=
func (h *ReportHandler) GetTrendSeries(w http.ResponseWriter, r *http.Request) {
	q, ok := h.generationQuery(w, r)
	if !ok {
		return
	}

	points, err := h.service.TrendSeries(r.Context(), q.Region, q.Variables)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.TrendSeriesResponse{
		Region:    q.Region,
		Variables: q.Variables,
		Points:    orEmpty(points),
		Count:     len(points),
	})
}

// generationQuery decodes and validates the region and repeated variable
// parameters, filling blanks from the analysis defaults.
func (h *ReportHandler) generationQuery(w http.ResponseWriter, r *http.Request) (api.GenerationQuery, bool) {
	values := r.URL.Query()

	q := api.GenerationQuery{Region: strings.TrimSpace(values.Get("region"))}
	for _, v := range values["variable"] {
		if v = strings.TrimSpace(v); v != "" {
			q.Variables = append(q.Variables, v)
		}
	}

	if !h.validator.Validate(w, r, q) {
		return q, false
	}

	defaults := h.service.Defaults()
	if q.Region == "" {
		q.Region = defaults.TrendRegion
	}
	if len(q.Variables) == 0 {
		q.Variables = defaults.TrendVariables
	}
	return q, true
}

// orEmpty keeps empty result sets encoded as [] rather than null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
