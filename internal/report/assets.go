package report

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-pdf/fpdf"
)

// Default download locations for the report typeface. Fetched once and kept
// for the process lifetime when the files are absent locally.
const (
	fontRegularURL = "https://github.com/google/fonts/raw/main/ofl/montserrat/Montserrat-Regular.ttf"
	fontBoldURL    = "https://github.com/google/fonts/raw/main/ofl/montserrat/Montserrat-Bold.ttf"
)

// Assets resolves the optional branding inputs of the report: the local logo
// image and the remote-fetched typeface pair. Every accessor degrades to
// "asset unavailable" instead of failing; the builder substitutes defaults.
type Assets struct {
	logoPath   string
	fontDir    string
	httpClient *http.Client
	logger     *slog.Logger

	logoOnce  sync.Once
	logoBytes []byte

	fontOnce    sync.Once
	fontRegular []byte
	fontBold    []byte
}

// AssetOption configures Assets.
type AssetOption func(*Assets)

// WithHTTPClient overrides the client used for typeface downloads.
func WithHTTPClient(hc *http.Client) AssetOption {
	return func(a *Assets) { a.httpClient = hc }
}

// NewAssets creates an asset resolver. logoPath and fontDir may point at
// files that do not exist; that is a degraded state, not an error.
func NewAssets(logoPath, fontDir string, logger *slog.Logger, opts ...AssetOption) *Assets {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Assets{
		logoPath:   logoPath,
		fontDir:    fontDir,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With(slog.String("component", "report_assets")),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Logo returns the logo image bytes, reading the file once per process.
// Returns nil when the file is missing or unreadable.
func (a *Assets) Logo() []byte {
	a.logoOnce.Do(func() {
		data, err := os.ReadFile(a.logoPath)
		if err != nil {
			a.logger.Warn("logo unavailable, report will render without it",
				slog.String("path", a.logoPath),
				slog.String("error", err.Error()))
			return
		}
		// A corrupt logo must not poison document generation.
		if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
			a.logger.Warn("logo is not a valid PNG, report will render without it",
				slog.String("path", a.logoPath),
				slog.String("error", err.Error()))
			return
		}
		a.logoBytes = data
	})
	return a.logoBytes
}

// Fonts returns the regular and bold typeface bytes, fetching them from the
// remote source on first use when absent locally. Either slice is nil when
// the face could not be obtained; the builder then falls back to the
// built-in typeface.
func (a *Assets) Fonts(ctx context.Context) (regular, bold []byte) {
	a.fontOnce.Do(func() {
		a.fontRegular = a.ensureFont(ctx, "Montserrat-Regular.ttf", fontRegularURL)
		a.fontBold = a.ensureFont(ctx, "Montserrat-Bold.ttf", fontBoldURL)
	})
	return a.fontRegular, a.fontBold
}

// ensureFont loads a typeface from disk, downloading it when missing or
// unusable. Bytes that do not register as a font are discarded and never
// cached; the builder then uses the default typeface. No retries.
func (a *Assets) ensureFont(ctx context.Context, name, url string) []byte {
	path := filepath.Join(a.fontDir, name)
	if data, err := os.ReadFile(path); err == nil {
		if usableFont(data) {
			return data
		}
		a.logger.Warn("cached typeface is not a usable font, refetching",
			slog.String("path", path))
	}

	data, err := a.download(ctx, url)
	if err != nil {
		a.logger.Warn("typeface unavailable, falling back to built-in font",
			slog.String("font", name),
			slog.String("error", err.Error()))
		return nil
	}
	if !usableFont(data) {
		a.logger.Warn("downloaded typeface is not a usable font, falling back to built-in font",
			slog.String("font", name),
			slog.Int("bytes", len(data)))
		return nil
	}

	if err := os.MkdirAll(a.fontDir, 0o755); err == nil {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			a.logger.Warn("could not cache typeface on disk",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}
	return data
}

// usableFont reports whether the bytes register cleanly as an embedded
// UTF-8 typeface. Registration runs against a scratch document so a bad
// file cannot stick an error onto a real report.
func usableFont(data []byte) bool {
	scratch := fpdf.New("P", "pt", "Letter", "")
	scratch.AddUTF8FontFromBytes("check", "", data)
	return scratch.Ok()
}

func (a *Assets) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
