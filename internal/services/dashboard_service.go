// Package services orchestrates the dashboard pipelines: cached dataset in,
// KPIs, grouped summaries and export documents out.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"salescli/internal/cache"
	"salescli/internal/dataprocessing"
	"salescli/internal/exporter"
	"salescli/internal/metrics"
	"salescli/internal/report"
	"salescli/pkg/contracts/domain"
)

// reportFilePrefix names downloaded PDF reports; the current date is
// appended.
const reportFilePrefix = "Relatorio_Papello_"

// Snapshot is the dashboard payload for one filter selection. Everything in
// it is derived and discarded after rendering; nothing here is cached.
type Snapshot struct {
	Period         domain.DateRange      `json:"period"`
	KPIs           domain.KPISet         `json:"kpis"`
	CustomerTypes  domain.GroupedSummary `json:"customer_types"`
	Payments       domain.GroupedSummary `json:"payments"`
	RegionsRevenue domain.GroupedSummary `json:"regions_revenue"`
	RegionsCount   domain.GroupedSummary `json:"regions_count"`
	LoadedRows     int                   `json:"loaded_rows"`
	DroppedRows    int                   `json:"dropped_rows"`
}

// Bounds describes the dataset extent the filter UI can offer: full date
// range, the default six-month window, and the selectable regions.
type Bounds struct {
	MinDate     time.Time `json:"min_date"`
	MaxDate     time.Time `json:"max_date"`
	DefaultFrom time.Time `json:"default_from"`
	Regions     []string  `json:"regions"`
}

// DashboardService wires the dataset cache, the aggregator and the export
// builders together behind the interaction endpoints.
type DashboardService struct {
	cache   *cache.DatasetCache
	key     cache.Key
	builder *report.Builder
	xlsx    *exporter.XLSXWriter
	logger  *slog.Logger
	now     func() time.Time
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(c *cache.DatasetCache, key cache.Key, builder *report.Builder, xlsx *exporter.XLSXWriter, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		cache:   c,
		key:     key,
		builder: builder,
		xlsx:    xlsx,
		logger:  logger.With(slog.String("component", "dashboard_service")),
		now:     time.Now,
	}
}

// Bounds returns the dataset extent for the filter UI. The default window is
// the last six months, clamped to the earliest record.
func (s *DashboardService) Bounds(ctx context.Context) (Bounds, error) {
	dataset, err := s.dataset(ctx)
	if err != nil {
		return Bounds{}, err
	}
	if dataset.IsEmpty() {
		return Bounds{}, ErrEmptyResult
	}

	min, max := dataset.Bounds()
	defaultFrom := max.AddDate(0, -6, 0)
	if defaultFrom.Before(min) {
		defaultFrom = min
	}

	return Bounds{
		MinDate:     min,
		MaxDate:     max,
		DefaultFrom: defaultFrom,
		Regions:     dataset.Regions(),
	}, nil
}

// Regions returns the distinct regions available to the filter UI, in
// dataset order.
func (s *DashboardService) Regions(ctx context.Context) ([]string, error) {
	dataset, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	if dataset.IsEmpty() {
		return nil, ErrEmptyResult
	}
	return dataset.Regions(), nil
}

// Dashboard computes the snapshot for one filter selection.
func (s *DashboardService) Dashboard(ctx context.Context, filter domain.Filter) (*Snapshot, error) {
	slice, dataset, err := s.filteredSlice(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Period:         filter.Range,
		KPIs:           dataprocessing.KPIs(slice),
		CustomerTypes:  dataprocessing.GroupByCustomerType(slice),
		Payments:       dataprocessing.GroupByPayment(slice),
		RegionsRevenue: dataprocessing.GroupByRegionRevenue(slice),
		RegionsCount:   dataprocessing.GroupByRegionCount(slice),
		LoadedRows:     dataset.LoadedRows,
		DroppedRows:    dataset.DroppedRows,
	}, nil
}

// BuildPDF produces the report document for the filter selection and the
// download filename it should be served under.
func (s *DashboardService) BuildPDF(ctx context.Context, filter domain.Filter) ([]byte, string, error) {
	slice, _, err := s.filteredSlice(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	input := report.Input{
		KPIs:     dataprocessing.KPIs(slice),
		Payments: dataprocessing.GroupByPayment(slice),
		Regions:  dataprocessing.GroupByRegionRevenue(slice),
		Range:    filter.Range,
	}

	pdf, err := s.builder.Build(ctx, input)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrReportFailed, err)
	}

	metrics.ReportsGenerated.WithLabelValues("pdf").Inc()
	filename := reportFilePrefix + s.now().Format("2006-01-02") + ".pdf"
	return pdf, filename, nil
}

// ExportXLSX produces a workbook of the filtered orders and its download
// filename.
func (s *DashboardService) ExportXLSX(ctx context.Context, filter domain.Filter) ([]byte, string, error) {
	slice, _, err := s.filteredSlice(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	workbook, err := s.xlsx.WriteOrders(slice)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrReportFailed, err)
	}

	metrics.ReportsGenerated.WithLabelValues("xlsx").Inc()
	filename := "Pedidos_Papello_" + s.now().Format("2006-01-02") + ".xlsx"
	return workbook, filename, nil
}

// filteredSlice validates the filter, loads the dataset and derives the
// matching slice. Zero matches yield ErrEmptyResult, never a zero-value
// success.
func (s *DashboardService) filteredSlice(ctx context.Context, filter domain.Filter) ([]domain.OrderRecord, domain.Dataset, error) {
	if err := validateRange(filter.Range); err != nil {
		return nil, domain.Dataset{}, err
	}

	dataset, err := s.dataset(ctx)
	if err != nil {
		return nil, domain.Dataset{}, err
	}

	slice := filter.Apply(dataset.Orders)
	if len(slice) == 0 {
		return nil, domain.Dataset{}, ErrEmptyResult
	}
	return slice, dataset, nil
}

func (s *DashboardService) dataset(ctx context.Context) (domain.Dataset, error) {
	dataset, err := s.cache.Get(ctx, s.key)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return dataset, nil
}

// validateRange enforces the complete-range rule: both ends present and not
// inverted.
func validateRange(r domain.DateRange) error {
	if r.From.IsZero() || r.To.IsZero() {
		return fmt.Errorf("%w: both start and end dates are required", ErrInvalidDateRange)
	}
	if r.To.Before(r.From) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidDateRange)
	}
	return nil
}
