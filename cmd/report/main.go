// Command report is the headless export path: it fetches the sheet,
// normalizes it, aggregates the selected period and writes the PDF report
// to a file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"salescli/internal/cache"
	"salescli/internal/config"
	"salescli/internal/dataprocessing"
	"salescli/internal/exporter"
	"salescli/internal/infrastructure"
	"salescli/internal/report"
	"salescli/internal/services"
	"salescli/internal/sheets"
	"salescli/pkg/contracts/domain"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to optional YAML config overlay")
	from := flag.String("from", "", "period start (YYYY-MM-DD); defaults to six months before the latest order")
	to := flag.String("to", "", "period end (YYYY-MM-DD); defaults to the latest order date")
	regions := flag.String("regions", "", "comma-separated region filter; empty means all")
	out := flag.String("out", "", "output file; defaults to the standard report name")
	flag.Parse()

	if err := run(*configPath, *from, *to, *regions, *out); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, from, to, regionList, out string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	slog.SetDefault(logger)

	client := sheets.NewClient(logger)
	normalizer := dataprocessing.NewNormalizer(logger)
	datasetCache := cache.NewDatasetCache(func(ctx context.Context, key cache.Key) (domain.Dataset, error) {
		raw, err := client.Fetch(ctx, key.SheetID, key.TabName)
		if err != nil {
			return domain.Dataset{}, err
		}
		return normalizer.Normalize(raw)
	}, cfg.Cache.TTL, logger)

	assets := report.NewAssets(cfg.Branding.LogoPath, cfg.Branding.FontDir, logger)
	builder := report.NewBuilder(report.DefaultBranding(), assets, logger)
	key := cache.Key{SheetID: cfg.Source.SheetID, TabName: cfg.Source.TabName}
	dashboard := services.NewDashboardService(datasetCache, key, builder, exporter.NewXLSXWriter(logger), logger)

	ctx := context.Background()

	filter, err := resolveFilter(ctx, dashboard, from, to, regionList)
	if err != nil {
		return err
	}

	pdf, filename, err := dashboard.BuildPDF(ctx, filter)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	if out == "" {
		out = filename
	}
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}

	logger.Info("report written",
		slog.String("path", out),
		slog.Int("bytes", len(pdf)))
	return nil
}

// resolveFilter turns the flags into a complete filter, defaulting to the
// last six months of the dataset when no period is given.
func resolveFilter(ctx context.Context, dashboard *services.DashboardService, from, to, regionList string) (domain.Filter, error) {
	var filter domain.Filter

	if from == "" || to == "" {
		bounds, err := dashboard.Bounds(ctx)
		if err != nil {
			return domain.Filter{}, fmt.Errorf("resolve dataset bounds: %w", err)
		}
		filter.Range = domain.DateRange{From: bounds.DefaultFrom, To: bounds.MaxDate}
	}

	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return domain.Filter{}, fmt.Errorf("invalid -from date: %w", err)
		}
		filter.Range.From = t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return domain.Filter{}, fmt.Errorf("invalid -to date: %w", err)
		}
		filter.Range.To = t
	}

	if regionList != "" {
		for _, region := range strings.Split(regionList, ",") {
			if region = strings.TrimSpace(region); region != "" {
				filter.Regions = append(filter.Regions, region)
			}
		}
	}
	return filter, nil
}
