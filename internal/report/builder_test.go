package report

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/pkg/contracts/domain"
)

// roundTripFunc lets tests stub HTTP transport without a server.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// offlineAssets resolves nothing: missing logo, no network for fonts. The
// builder must fall back to the built-in typeface.
func offlineAssets(t *testing.T) *Assets {
	t.Helper()
	return NewAssets(
		filepath.Join(t.TempDir(), "missing.png"),
		filepath.Join(t.TempDir(), "fonts"),
		nil,
		WithHTTPClient(&http.Client{
			Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
				return nil, errors.New("offline")
			}),
		}),
	)
}

func sampleInput() Input {
	return Input{
		KPIs: domain.KPISet{TotalRevenue: 600.50, OrderCount: 3, AverageOrderValue: 200.17},
		Payments: domain.GroupedSummary{
			{Key: "Pix", Sum: 400.50, Count: 2, Percent: 66.69},
			{Key: "Boleto", Sum: 200, Count: 1, Percent: 33.31},
		},
		Regions: domain.GroupedSummary{
			{Key: "SP", Sum: 500, Count: 2},
			{Key: "RJ", Sum: 100.50, Count: 1},
		},
		Range: domain.DateRange{
			From: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestBuilder_Build(t *testing.T) {
	builder := NewBuilder(DefaultBranding(), offlineAssets(t), nil)

	pdf, err := builder.Build(context.Background(), sampleInput())
	require.NoError(t, err)

	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestBuilder_BuildEmptySummaries(t *testing.T) {
	builder := NewBuilder(DefaultBranding(), offlineAssets(t), nil)

	input := Input{
		Range: domain.DateRange{
			From: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	pdf, err := builder.Build(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestBuilder_BuildIsDeterministicPerDay(t *testing.T) {
	assets := offlineAssets(t)
	builder := NewBuilder(DefaultBranding(), assets, nil)
	fixed := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	builder.now = func() time.Time { return fixed }

	first, err := builder.Build(context.Background(), sampleInput())
	require.NoError(t, err)
	second, err := builder.Build(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAssets_LogoMissing(t *testing.T) {
	assets := offlineAssets(t)
	assert.Nil(t, assets.Logo())
}

func TestAssets_LogoCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0o644))

	assets := NewAssets(path, dir, nil,
		WithHTTPClient(&http.Client{
			Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
				return nil, errors.New("offline")
			}),
		}))
	assert.Nil(t, assets.Logo())
}

// corruptFontDir seeds the font dir with files that are not TrueType fonts.
func corruptFontDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"Montserrat-Regular.ttf", "Montserrat-Bold.ttf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("garbage"), 0o644))
	}
	return dir
}

func TestAssets_CorruptDiskFontIsNotServed(t *testing.T) {
	dir := corruptFontDir(t)
	assets := NewAssets(filepath.Join(dir, "logo.png"), dir, nil,
		WithHTTPClient(&http.Client{
			Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
				return nil, errors.New("offline")
			}),
		}))

	regular, bold := assets.Fonts(context.Background())
	assert.Nil(t, regular)
	assert.Nil(t, bold)
}

func TestAssets_CorruptDownloadIsNotCached(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fonts")
	assets := NewAssets("missing.png", dir, nil,
		WithHTTPClient(&http.Client{
			Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(strings.NewReader("garbage")),
					Header:     make(http.Header),
				}, nil
			}),
		}))

	regular, bold := assets.Fonts(context.Background())
	assert.Nil(t, regular)
	assert.Nil(t, bold)

	// Nothing unusable made it onto disk to poison later processes.
	entries, err := os.ReadDir(dir)
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestBuilder_BuildCorruptFontFallsBack(t *testing.T) {
	dir := corruptFontDir(t)
	assets := NewAssets(filepath.Join(dir, "logo.png"), dir, nil,
		WithHTTPClient(&http.Client{
			Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
				return nil, errors.New("offline")
			}),
		}))
	builder := NewBuilder(DefaultBranding(), assets, nil)

	pdf, err := builder.Build(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
