package services

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/cache"
	"salescli/internal/exporter"
	"salescli/internal/report"
	"salescli/pkg/contracts/domain"
)

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("offline")
}

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func testDataset() domain.Dataset {
	return domain.Dataset{
		Orders: []domain.OrderRecord{
			{Date: day(1), Amount: 100, CustomerType: domain.CustomerNew, PaymentMethod: domain.PaymentPix, Region: "SP", City: "São Paulo"},
			{Date: day(5), Amount: 200.50, CustomerType: domain.CustomerRecurring, PaymentMethod: domain.PaymentCreditCard, Region: "RJ", City: "Niterói"},
			{Date: day(10), Amount: 300, CustomerType: domain.CustomerNew, PaymentMethod: domain.PaymentPix, Region: "SP", City: "Santos"},
		},
		LoadedRows:  4,
		DroppedRows: 1,
	}
}

func newTestService(t *testing.T, dataset domain.Dataset, loadErr error) *DashboardService {
	t.Helper()

	datasetCache := cache.NewDatasetCache(func(ctx context.Context, key cache.Key) (domain.Dataset, error) {
		if loadErr != nil {
			return domain.Dataset{}, loadErr
		}
		return dataset, nil
	}, time.Minute, nil)

	assets := report.NewAssets(
		filepath.Join(t.TempDir(), "missing.png"),
		filepath.Join(t.TempDir(), "fonts"),
		nil,
		report.WithHTTPClient(&http.Client{Transport: failingTransport{}}),
	)
	builder := report.NewBuilder(report.DefaultBranding(), assets, nil)

	key := cache.Key{SheetID: "sheet", TabName: "Pedidos Individuais"}
	return NewDashboardService(datasetCache, key, builder, exporter.NewXLSXWriter(nil), nil)
}

func TestDashboardService_Bounds(t *testing.T) {
	service := newTestService(t, testDataset(), nil)

	bounds, err := service.Bounds(context.Background())
	require.NoError(t, err)

	assert.Equal(t, day(1), bounds.MinDate)
	assert.Equal(t, day(10), bounds.MaxDate)
	// Six months before the latest order falls before the earliest record,
	// so the default window is clamped to it.
	assert.Equal(t, day(1), bounds.DefaultFrom)
	assert.Equal(t, []string{"SP", "RJ"}, bounds.Regions)
}

func TestDashboardService_BoundsEmptyDataset(t *testing.T) {
	service := newTestService(t, domain.Dataset{LoadedRows: 2, DroppedRows: 2}, nil)

	_, err := service.Bounds(context.Background())
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestDashboardService_Regions(t *testing.T) {
	service := newTestService(t, testDataset(), nil)

	regions, err := service.Regions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"SP", "RJ"}, regions)
}

func TestDashboardService_RegionsEmptyDataset(t *testing.T) {
	service := newTestService(t, domain.Dataset{}, nil)

	_, err := service.Regions(context.Background())
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestDashboardService_Dashboard(t *testing.T) {
	service := newTestService(t, testDataset(), nil)

	filter := domain.Filter{Range: domain.DateRange{From: day(1), To: day(31)}}
	snapshot, err := service.Dashboard(context.Background(), filter)
	require.NoError(t, err)

	assert.InDelta(t, 600.50, snapshot.KPIs.TotalRevenue, 0.001)
	assert.Equal(t, 3, snapshot.KPIs.OrderCount)
	assert.InDelta(t, 200.1666, snapshot.KPIs.AverageOrderValue, 0.001)
	assert.Equal(t, 4, snapshot.LoadedRows)
	assert.Equal(t, 1, snapshot.DroppedRows)

	require.NotEmpty(t, snapshot.Payments)
	assert.Equal(t, string(domain.PaymentPix), snapshot.Payments[0].Key)
	require.NotEmpty(t, snapshot.RegionsRevenue)
	assert.Equal(t, "SP", snapshot.RegionsRevenue[0].Key)
}

func TestDashboardService_DashboardRegionFilter(t *testing.T) {
	service := newTestService(t, testDataset(), nil)

	filter := domain.Filter{
		Range:   domain.DateRange{From: day(1), To: day(31)},
		Regions: []string{"RJ"},
	}
	snapshot, err := service.Dashboard(context.Background(), filter)
	require.NoError(t, err)

	assert.Equal(t, 1, snapshot.KPIs.OrderCount)
	assert.InDelta(t, 200.50, snapshot.KPIs.TotalRevenue, 0.001)
}

func TestDashboardService_DashboardValidation(t *testing.T) {
	service := newTestService(t, testDataset(), nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		filter  domain.Filter
		wantErr error
	}{
		{
			name:    "missing start date",
			filter:  domain.Filter{Range: domain.DateRange{To: day(10)}},
			wantErr: ErrInvalidDateRange,
		},
		{
			name:    "missing end date",
			filter:  domain.Filter{Range: domain.DateRange{From: day(1)}},
			wantErr: ErrInvalidDateRange,
		},
		{
			name:    "inverted range",
			filter:  domain.Filter{Range: domain.DateRange{From: day(10), To: day(1)}},
			wantErr: ErrInvalidDateRange,
		},
		{
			name:    "no matching orders",
			filter:  domain.Filter{Range: domain.DateRange{From: day(20), To: day(31)}},
			wantErr: ErrEmptyResult,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Dashboard(ctx, tt.filter)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDashboardService_SourceUnavailable(t *testing.T) {
	service := newTestService(t, domain.Dataset{}, errors.New("export endpoint down"))

	filter := domain.Filter{Range: domain.DateRange{From: day(1), To: day(31)}}
	_, err := service.Dashboard(context.Background(), filter)
	assert.ErrorIs(t, err, ErrSourceUnavailable)

	_, err = service.Bounds(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestDashboardService_BuildPDF(t *testing.T) {
	service := newTestService(t, testDataset(), nil)
	service.now = func() time.Time {
		return time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	}

	filter := domain.Filter{Range: domain.DateRange{From: day(1), To: day(31)}}
	pdf, filename, err := service.BuildPDF(context.Background(), filter)
	require.NoError(t, err)

	assert.Equal(t, "Relatorio_Papello_2025-06-15.pdf", filename)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestDashboardService_ExportXLSX(t *testing.T) {
	service := newTestService(t, testDataset(), nil)
	service.now = func() time.Time {
		return time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	}

	filter := domain.Filter{Range: domain.DateRange{From: day(1), To: day(31)}}
	workbook, filename, err := service.ExportXLSX(context.Background(), filter)
	require.NoError(t, err)

	assert.Equal(t, "Pedidos_Papello_2025-06-15.xlsx", filename)
	assert.NotEmpty(t, workbook)
}
