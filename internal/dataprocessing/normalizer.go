package dataprocessing

import (
	"log/slog"
	"strings"
	"time"

	"salescli/pkg/contracts/domain"
)

// activeStatuses is the lifecycle allow-list: only orders in one of these
// states count toward revenue. Canceled and pending orders are excluded as a
// business rule, not a data-quality rule.
var activeStatuses = map[string]bool{
	"Aprovado":    true,
	"Em Produção": true,
	"Despachado":  true,
	"Concluído":   true,
	"Tracking":    true,
}

// recurrenceMap translates the raw recurrence tag into a customer type.
// Anything unmapped falls through to CustomerUndefined.
var recurrenceMap = map[string]domain.CustomerType{
	"Nuvem Novo":       domain.CustomerNew,
	"Nuvem Recorrente": domain.CustomerRecurring,
}

// paymentMap translates lower-cased, trimmed gateway codes into display
// categories. Anything unmapped falls through to PaymentOther.
var paymentMap = map[string]domain.PaymentMethod{
	"credit_card": domain.PaymentCreditCard,
	"pix":         domain.PaymentPix,
	"boleto":      domain.PaymentBankSlip,
	"free":        domain.PaymentCustom,
	"custon":      domain.PaymentCustom,
	"custom":      domain.PaymentCustom,
	"offline":     domain.PaymentCustom,
}

// Normalizer turns raw sheet text into a cleaned Dataset. It is pure given
// its input: the only state it carries is the fixed mapping tables and a
// logger.
type Normalizer struct {
	logger *slog.Logger
	epoch  time.Time
}

// NewNormalizer creates a normalizer with the standard dataset epoch.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		logger: logger.With(slog.String("component", "normalizer")),
		epoch:  domain.DatasetEpoch,
	}
}

// Normalize parses the raw CSV text and applies the inclusion rules: status
// allow-list, date floor, and the categorical mappings. Rows that fail to
// parse or fall outside the rules are dropped silently; the dataset carries
// aggregate counts for diagnostics.
func (n *Normalizer) Normalize(raw string) (domain.Dataset, error) {
	parsed, err := ParseRows(raw)
	if err != nil {
		return domain.Dataset{}, err
	}

	// FetchedAt is stamped by the cache on publish; Normalize stays a pure
	// function of its input text.
	dataset := domain.Dataset{
		Orders:      make([]domain.OrderRecord, 0, len(parsed.Rows)),
		LoadedRows:  parsed.LoadedRows,
		DroppedRows: parsed.DroppedRows,
	}

	for _, row := range parsed.Rows {
		if !activeStatuses[row.Fields[ColStatus]] {
			continue
		}
		if row.Date.Before(n.epoch) {
			continue
		}

		customerType, ok := recurrenceMap[row.Fields[ColRecurrence]]
		if !ok {
			customerType = domain.CustomerUndefined
		}

		code := strings.TrimSpace(strings.ToLower(row.Fields[ColPayment]))
		paymentMethod, ok := paymentMap[code]
		if !ok {
			paymentMethod = domain.PaymentOther
		}

		dataset.Orders = append(dataset.Orders, domain.OrderRecord{
			Date:          row.Date,
			Amount:        row.Amount,
			CustomerType:  customerType,
			PaymentMethod: paymentMethod,
			Region:        row.Fields[ColRegion],
			City:          row.Fields[ColCity],
		})
	}

	n.logger.Debug("normalized sheet data",
		slog.Int("loaded_rows", dataset.LoadedRows),
		slog.Int("dropped_rows", dataset.DroppedRows),
		slog.Int("order_count", len(dataset.Orders)))

	return dataset, nil
}
