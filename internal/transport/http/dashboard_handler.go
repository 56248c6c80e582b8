package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "salescli/internal/errors"
	"salescli/internal/services"
	"salescli/pkg/contracts/domain"
)

// queryDateLayout is the wire format for filter dates.
const queryDateLayout = "2006-01-02"

// DashboardHandler serves the dashboard snapshot and the export surfaces.
type DashboardHandler struct {
	service  *services.DashboardService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewDashboardHandler creates the dashboard handler.
func NewDashboardHandler(service *services.DashboardService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "dashboard_handler")),
	}
}

// Routes returns the dashboard routes. All of them assume the session
// middleware already ran.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/bounds", h.GetBounds)
	r.Get("/regions", h.GetRegions)
	r.Get("/dashboard", h.GetDashboard)
	r.Get("/export/pdf", h.ExportPDF)
	r.Get("/export/xlsx", h.ExportXLSX)
	return r
}

// filterQuery is the raw filter selection from the query string.
type filterQuery struct {
	From string `validate:"required,datetime=2006-01-02"`
	To   string `validate:"required,datetime=2006-01-02"`
}

// parseFilter validates and converts the query string into a domain filter.
// An incomplete or malformed range is a warning-level validation error; the
// caller corrects it and retries.
func (h *DashboardHandler) parseFilter(r *http.Request) (domain.Filter, *apierrors.APIError) {
	q := r.URL.Query()
	fq := filterQuery{From: q.Get("from"), To: q.Get("to")}

	if err := h.validate.Struct(fq); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := strings.ToLower(verrs[0].Field())
			return domain.Filter{}, apierrors.ErrValidation(field,
				fmt.Sprintf("expected a %s date", queryDateLayout))
		}
		return domain.Filter{}, apierrors.ErrValidationFailed
	}

	from, _ := time.Parse(queryDateLayout, fq.From)
	to, _ := time.Parse(queryDateLayout, fq.To)

	var regions []string
	for _, raw := range q["regions"] {
		for _, region := range strings.Split(raw, ",") {
			if region = strings.TrimSpace(region); region != "" {
				regions = append(regions, region)
			}
		}
	}

	return domain.Filter{
		Range:   domain.DateRange{From: from, To: to},
		Regions: regions,
	}, nil
}

// GetBounds handles GET /api/bounds: dataset extent for the filter UI.
func (h *DashboardHandler) GetBounds(w http.ResponseWriter, r *http.Request) {
	bounds, err := h.service.Bounds(r.Context())
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   bounds,
	})
}

// GetRegions handles GET /api/regions: the distinct regions selectable in
// the filter UI.
func (h *DashboardHandler) GetRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.service.Regions(r.Context())
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   regions,
	})
}

// GetDashboard handles GET /api/dashboard: the snapshot for one filter
// selection.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := h.parseFilter(r)
	if apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}

	snapshot, err := h.service.Dashboard(r.Context(), filter)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   snapshot,
	})
}

// ExportPDF handles GET /api/export/pdf: the downloadable report document.
func (h *DashboardHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := h.parseFilter(r)
	if apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}

	pdf, filename, err := h.service.BuildPDF(r.Context(), filter)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "pdf report exported",
		slog.String("filename", filename),
		slog.Int("bytes", len(pdf)))

	serveAttachment(w, pdf, filename, "application/pdf")
}

// ExportXLSX handles GET /api/export/xlsx: the filtered orders workbook.
func (h *DashboardHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	filter, apiErr := h.parseFilter(r)
	if apiErr != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}

	workbook, filename, err := h.service.ExportXLSX(r.Context(), filter)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	serveAttachment(w, workbook, filename,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

// renderServiceError maps service sentinels onto the API error taxonomy.
func (h *DashboardHandler) renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyResult):
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrEmptyResult))
	case errors.Is(err, services.ErrInvalidDateRange):
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.ErrValidation("range", err.Error())))
	case errors.Is(err, services.ErrSourceUnavailable):
		h.logger.ErrorContext(r.Context(), "data source unavailable",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.SourceFetchError(err)))
	case errors.Is(err, services.ErrReportFailed):
		h.logger.ErrorContext(r.Context(), "report generation failed",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ReportError(err)))
	default:
		h.logger.ErrorContext(r.Context(), "unhandled service error",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrInternalServer))
	}
}

func serveAttachment(w http.ResponseWriter, data []byte, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
