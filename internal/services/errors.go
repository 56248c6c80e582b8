package services

import "errors"

// Sentinel errors the transport layer maps onto API error codes.
var (
	// ErrEmptyResult means the filter selection matched zero records. It is
	// informational: it halts rendering for the cycle, not the session.
	ErrEmptyResult = errors.New("no records match the selected filters")

	// ErrInvalidDateRange means the date range selection is incomplete or
	// inverted and processing is halted until corrected.
	ErrInvalidDateRange = errors.New("invalid date range selection")

	// ErrSourceUnavailable means the data source could not be fetched or
	// parsed this cycle; the dataset for the cycle is empty.
	ErrSourceUnavailable = errors.New("data source unavailable")

	// ErrReportFailed means an export document could not be generated from
	// an otherwise valid selection.
	ErrReportFailed = errors.New("report generation failed")
)
