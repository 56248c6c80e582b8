package dataprocessing

import (
	"encoding/csv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column names expected in the sheet export. The parser addresses fields by
// header name, never by position.
const (
	ColStatus     = "Status_do_Pedido"
	ColDate       = "Data_Pedido_Realizado"
	ColAmount     = "Valor_do_Pedido"
	ColRecurrence = "Status_recorrencia"
	ColPayment    = "forma_pagamento"
	ColRegion     = "Estado"
	ColCity       = "Cidade"
)

// orderDateLayout is the day/month/year format used by the sheet.
const orderDateLayout = "02/01/2006"

// RawRow is one data row keyed by header name, with the two typed columns
// derived during parsing.
type RawRow struct {
	Fields map[string]string
	Date   time.Time
	Amount float64
}

// ParseResult carries the parsed rows plus load diagnostics. Per-row
// failures are silent; callers only see the aggregate counts.
type ParseResult struct {
	Rows        []RawRow
	LoadedRows  int
	DroppedRows int
}

// ParseRows reads comma-separated text with a header row and returns typed
// rows. A row missing the status field, with an unparseable date, or with an
// unparseable or negative amount is dropped without error.
func ParseRows(raw string) (ParseResult, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return ParseResult{}, err
	}
	if len(records) == 0 {
		return ParseResult{}, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	result := ParseResult{Rows: make([]RawRow, 0, len(records)-1)}
	for _, record := range records[1:] {
		result.LoadedRows++

		fields := make(map[string]string, len(header))
		for i, cell := range record {
			if i < len(header) {
				fields[header[i]] = strings.TrimSpace(cell)
			}
		}

		if fields[ColStatus] == "" {
			result.DroppedRows++
			continue
		}

		date, err := time.Parse(orderDateLayout, fields[ColDate])
		if err != nil {
			result.DroppedRows++
			continue
		}

		amount, err := parseCurrency(fields[ColAmount])
		if err != nil || amount < 0 {
			result.DroppedRows++
			continue
		}

		result.Rows = append(result.Rows, RawRow{
			Fields: fields,
			Date:   date,
			Amount: amount,
		})
	}

	return result, nil
}

// parseCurrency converts a BRL-formatted string like "R$ 1.234,56" to its
// numeric value. The locale uses "." for thousands and "," for decimals.
func parseCurrency(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "R$", ""))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}
