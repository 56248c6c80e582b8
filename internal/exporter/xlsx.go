// Package exporter writes filtered order slices to downloadable spreadsheet
// workbooks.
package exporter

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"salescli/pkg/contracts/domain"
)

const ordersSheet = "Pedidos"

// XLSXWriter renders order slices as Excel workbooks in memory.
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates an XLSX writer.
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger.With(slog.String("component", "xlsx_writer"))}
}

// WriteOrders produces a workbook with one row per order, dates in the sheet
// locale and amounts as numbers so spreadsheet formulas work on them.
func (w *XLSXWriter) WriteOrders(orders []domain.OrderRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Data", "Valor", "Tipo de Cliente", "Forma de Pagamento", "Estado", "Cidade"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(ordersSheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header %q: %w", h, err)
		}
	}

	for i, order := range orders {
		row := i + 2
		values := []interface{}{
			order.Date.Format("02/01/2006"),
			order.Amount,
			string(order.CustomerType),
			string(order.PaymentMethod),
			order.Region,
			order.City,
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, row)
			if err != nil {
				return nil, fmt.Errorf("cell name row %d: %w", row, err)
			}
			if err := f.SetCellValue(ordersSheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	w.logger.Debug("orders workbook written",
		slog.Int("order_count", len(orders)),
		slog.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}
