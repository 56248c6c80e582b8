package domain

import (
	"time"
)

// OrderRecord represents a single cleaned order from the sales sheet.
// Amount is always >= 0 and Date is always on or after the dataset epoch;
// rows that cannot satisfy either are dropped during normalization.
type OrderRecord struct {
	Date          time.Time     `json:"date"`
	Amount        float64       `json:"amount"`
	CustomerType  CustomerType  `json:"customer_type"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Region        string        `json:"region"`
	City          string        `json:"city"`
}

// CustomerType classifies an order by the recurrence tag on the raw row.
type CustomerType string

const (
	CustomerNew       CustomerType = "Cliente Novo"
	CustomerRecurring CustomerType = "Cliente Recorrente"
	CustomerUndefined CustomerType = "Não Definido"
)

// PaymentMethod is the display category a raw gateway code maps to.
// Unrecognized codes resolve to PaymentOther, never an error.
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "Cartão de Crédito"
	PaymentPix        PaymentMethod = "Pix"
	PaymentBankSlip   PaymentMethod = "Boleto"
	PaymentCustom     PaymentMethod = "Personalizado"
	PaymentOther      PaymentMethod = "Outros"
)

// DatasetEpoch is the floor applied to order dates: records dated before it
// are permanently excluded from every dataset.
var DatasetEpoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// Dataset is the normalized order collection produced by one fetch cycle.
// It is immutable once published; filters derive slices and never mutate it.
type Dataset struct {
	Orders      []OrderRecord `json:"orders"`
	LoadedRows  int           `json:"loaded_rows"`
	DroppedRows int           `json:"dropped_rows"`
	FetchedAt   time.Time     `json:"fetched_at"`
}

// IsEmpty reports whether the dataset holds no orders.
func (d Dataset) IsEmpty() bool {
	return len(d.Orders) == 0
}

// Bounds returns the earliest and latest order dates in the dataset.
// Both are zero when the dataset is empty.
func (d Dataset) Bounds() (min, max time.Time) {
	for _, o := range d.Orders {
		if min.IsZero() || o.Date.Before(min) {
			min = o.Date
		}
		if max.IsZero() || o.Date.After(max) {
			max = o.Date
		}
	}
	return min, max
}

// Regions returns the distinct regions present in the dataset, sorted by
// first appearance.
func (d Dataset) Regions() []string {
	seen := make(map[string]bool, 32)
	regions := make([]string, 0, 32)
	for _, o := range d.Orders {
		if o.Region == "" || seen[o.Region] {
			continue
		}
		seen[o.Region] = true
		regions = append(regions, o.Region)
	}
	return regions
}
