// Package metrics exposes the pipeline counters published at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsLoaded counts raw rows read from the sheet export.
	RowsLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "salesdash_rows_loaded_total",
		Help: "Raw rows read from the sheet export.",
	})

	// RowsDropped counts rows rejected during parsing and normalization.
	RowsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "salesdash_rows_dropped_total",
		Help: "Rows rejected during parsing and normalization.",
	})

	// DatasetRefreshes counts cache refreshes by outcome.
	DatasetRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesdash_dataset_refreshes_total",
		Help: "Dataset cache refreshes by outcome.",
	}, []string{"outcome"})

	// ReportsGenerated counts export documents by format.
	ReportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesdash_reports_generated_total",
		Help: "Export documents generated by format.",
	}, []string{"format"})
)
