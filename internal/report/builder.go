// Package report lays out the performance report as a fixed multi-page PDF
// document from aggregated summaries and KPIs.
package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"salescli/pkg/contracts/domain"
)

// Letter page geometry in points.
const (
	pageWidth    = 612.0
	marginX      = 36.0
	marginTop    = 72.0
	marginBottom = 72.0
	bandHeight   = 50.4 // 0.7 inch brand band
)

// RGB is a color triple for branding.
type RGB struct {
	R, G, B int
}

// Branding carries the visual identity applied to every page.
type Branding struct {
	CompanyName string
	HeaderTitle string
	Primary     RGB
	Secondary   RGB
	Highlight   RGB
	Text        RGB
}

// DefaultBranding is the company identity used by the dashboard.
func DefaultBranding() Branding {
	return Branding{
		CompanyName: "Papello Embalagens",
		HeaderTitle: "Relatório de Desempenho",
		Primary:     RGB{150, 202, 0},  // #96CA00
		Secondary:   RGB{132, 168, 2},  // #84A802
		Highlight:   RGB{197, 223, 86}, // #C5DF56
		Text:        RGB{51, 51, 51},   // #333333
	}
}

// Input is everything the builder needs to lay out one report.
type Input struct {
	KPIs     domain.KPISet
	Payments domain.GroupedSummary
	Regions  domain.GroupedSummary
	Range    domain.DateRange
}

// PageRenderer draws page decoration on the current page. Header and footer
// are explicit strategies handed to the layout engine rather than methods on
// a document subclass.
type PageRenderer func()

// Builder produces the report PDF as an in-memory buffer. Missing branding
// assets degrade to the built-in typeface and no logo; Build never fails
// because of them.
type Builder struct {
	branding Branding
	assets   *Assets
	logger   *slog.Logger
	now      func() time.Time
}

// NewBuilder creates a report builder around the given branding and assets.
func NewBuilder(branding Branding, assets *Assets, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		branding: branding,
		assets:   assets,
		logger:   logger.With(slog.String("component", "report_builder")),
		now:      time.Now,
	}
}

// Build lays out the document and returns the finished PDF bytes. The buffer
// starts with the standard "%PDF" signature.
func (b *Builder) Build(ctx context.Context, input Input) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCreationDate(b.now())
	pdf.SetModificationDate(b.now())

	family, tr := b.setupFonts(ctx, pdf)
	logo := b.assets.Logo()
	if logo != nil {
		pdf.RegisterImageOptionsReader("logo", fpdf.ImageOptions{ImageType: "png"}, bytes.NewReader(logo))
	}

	pdf.SetHeaderFuncMode(b.headerRenderer(pdf, logo != nil, tr), true)
	pdf.SetFooterFunc(b.footerRenderer(pdf, tr))
	pdf.SetMargins(marginX, marginTop, marginX)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.AddPage()

	b.writeTitle(pdf, family, tr, input.Range)
	b.writeKPITable(pdf, family, tr, input.KPIs)
	b.writeSummaryTable(pdf, family, tr, "Faturamento por Forma de Pagamento",
		[]string{"Forma de Pagamento", "Faturamento", "% do Total"},
		[]float64{216, 144, 108},
		paymentRows(input.Payments))
	b.writeSummaryTable(pdf, family, tr, "Top 10 Estados por Faturamento",
		[]string{"Estado", "Faturamento"},
		[]float64{216, 144},
		regionRows(input.Regions))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report pdf: %w", err)
	}

	b.logger.Info("report built",
		slog.Int("bytes", buf.Len()),
		slog.Int("pages", pdf.PageCount()))

	return buf.Bytes(), nil
}

// setupFonts registers the brand typeface when available and returns the
// family name to use plus a text translator. With the built-in fallback the
// translator maps UTF-8 to the core font code page; with an embedded UTF-8
// font it is the identity.
func (b *Builder) setupFonts(ctx context.Context, pdf *fpdf.Fpdf) (string, func(string) string) {
	regular, bold := b.assets.Fonts(ctx)
	if regular != nil && bold != nil {
		pdf.AddUTF8FontFromBytes("Montserrat", "", regular)
		pdf.AddUTF8FontFromBytes("Montserrat", "B", bold)
		return "Montserrat", func(s string) string { return s }
	}
	return "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
}

// headerRenderer returns the strategy that paints the brand band on every
// page: primary color fill, optional logo, right-aligned report title.
func (b *Builder) headerRenderer(pdf *fpdf.Fpdf, hasLogo bool, tr func(string) string) PageRenderer {
	return func() {
		pdf.SetFillColor(b.branding.Primary.R, b.branding.Primary.G, b.branding.Primary.B)
		pdf.Rect(0, 0, pageWidth, bandHeight, "F")

		if hasLogo {
			pdf.ImageOptions("logo", marginX, 10.8, 108, 28.8, false, fpdf.ImageOptions{}, 0, "")
		}

		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetXY(marginX, 16)
		pdf.CellFormat(pageWidth-2*marginX, 20, tr(b.branding.HeaderTitle), "", 0, "R", false, 0, "")
	}
}

// footerRenderer returns the strategy that writes the generation stamp and
// page number at the bottom of every page.
func (b *Builder) footerRenderer(pdf *fpdf.Fpdf, tr func(string) string) PageRenderer {
	return func() {
		pdf.SetY(-marginBottom + 22)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(128, 128, 128)

		stamp := fmt.Sprintf("%s - Gerado em %s", b.branding.CompanyName, b.now().Format("02/01/2006"))
		half := (pageWidth - 2*marginX) / 2
		pdf.CellFormat(half, 12, tr(stamp), "", 0, "L", false, 0, "")
		pdf.CellFormat(half, 12, tr(fmt.Sprintf("Página %d", pdf.PageNo())), "", 0, "R", false, 0, "")
	}
}

func (b *Builder) writeTitle(pdf *fpdf.Fpdf, family string, tr func(string) string, period domain.DateRange) {
	pdf.SetFont(family, "B", 22)
	pdf.SetTextColor(b.branding.Secondary.R, b.branding.Secondary.G, b.branding.Secondary.B)
	pdf.CellFormat(0, 28, tr("Visão Geral do Período"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	caption := fmt.Sprintf("Período de Análise: %s a %s",
		period.From.Format("02/01/2006"), period.To.Format("02/01/2006"))
	pdf.SetFont(family, "", 11)
	pdf.SetTextColor(b.branding.Text.R, b.branding.Text.G, b.branding.Text.B)
	pdf.CellFormat(0, 14, tr(caption), "", 1, "L", false, 0, "")
	pdf.Ln(18)
}

// writeKPITable writes the two-column key/value table of headline metrics.
func (b *Builder) writeKPITable(pdf *fpdf.Fpdf, family string, tr func(string) string, kpis domain.KPISet) {
	rows := [][2]string{
		{"Faturamento Total", FormatBRL(kpis.TotalRevenue)},
		{"Total de Pedidos", strconv.Itoa(kpis.OrderCount)},
		{"Ticket Médio", FormatBRL(kpis.AverageOrderValue)},
	}

	pdf.SetDrawColor(b.branding.Highlight.R, b.branding.Highlight.G, b.branding.Highlight.B)
	pdf.SetLineWidth(1)
	for _, row := range rows {
		pdf.SetFont(family, "B", 11)
		pdf.SetTextColor(b.branding.Text.R, b.branding.Text.G, b.branding.Text.B)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(180, 24, tr(row[0]), "1", 0, "L", true, 0, "")

		pdf.SetFont(family, "", 11)
		pdf.CellFormat(288, 24, tr(row[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(22)
}

// writeSummaryTable writes one branded breakdown table: colored header row,
// centered body cells on a whitesmoke fill.
func (b *Builder) writeSummaryTable(pdf *fpdf.Fpdf, family string, tr func(string) string, subtitle string, headers []string, widths []float64, rows [][]string) {
	pdf.SetFont(family, "B", 14)
	pdf.SetTextColor(b.branding.Text.R, b.branding.Text.G, b.branding.Text.B)
	pdf.CellFormat(0, 18, tr(subtitle), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetDrawColor(128, 128, 128)
	pdf.SetLineWidth(1)

	pdf.SetFont(family, "B", 10)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFillColor(b.branding.Secondary.R, b.branding.Secondary.G, b.branding.Secondary.B)
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 22, tr(h), "1", ln, "C", true, 0, "")
	}

	pdf.SetFont(family, "", 10)
	pdf.SetTextColor(b.branding.Text.R, b.branding.Text.G, b.branding.Text.B)
	pdf.SetFillColor(245, 245, 245)
	for _, row := range rows {
		for i, cell := range row {
			ln := 0
			if i == len(row)-1 {
				ln = 1
			}
			pdf.CellFormat(widths[i], 20, tr(cell), "1", ln, "C", true, 0, "")
		}
	}
	pdf.Ln(22)
}

func paymentRows(summary domain.GroupedSummary) [][]string {
	rows := make([][]string, 0, len(summary))
	for _, g := range summary {
		rows = append(rows, []string{g.Key, FormatBRL(g.Sum), FormatPercent(g.Percent)})
	}
	return rows
}

func regionRows(summary domain.GroupedSummary) [][]string {
	rows := make([][]string, 0, len(summary))
	for _, g := range summary {
		rows = append(rows, []string{g.Key, FormatBRL(g.Sum)})
	}
	return rows
}
