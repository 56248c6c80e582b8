package domain

import (
	"time"
)

// KPISet holds the headline metrics for a filtered slice of orders.
// It is recomputed per filter selection and never cached.
type KPISet struct {
	TotalRevenue      float64 `json:"total_revenue"`
	OrderCount        int     `json:"order_count"`
	AverageOrderValue float64 `json:"average_order_value"`
}

// GroupTotal is one row of a grouped summary: a category key with its
// aggregated amount, order count and share of the slice total.
type GroupTotal struct {
	Key     string  `json:"key"`
	Sum     float64 `json:"sum"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// GroupedSummary is a per-category aggregation ranked for presentation,
// ordered descending by the ranked measure.
type GroupedSummary []GroupTotal

// DateRange is an inclusive calendar interval selected by the caller.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the range, inclusive on both ends.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// Filter selects the slice of a dataset that aggregations run over.
// An empty Regions set means all regions.
type Filter struct {
	Range   DateRange `json:"range"`
	Regions []string  `json:"regions,omitempty"`
}

// Apply returns the orders matching the filter, preserving input order.
func (f Filter) Apply(orders []OrderRecord) []OrderRecord {
	var regionSet map[string]bool
	if len(f.Regions) > 0 {
		regionSet = make(map[string]bool, len(f.Regions))
		for _, r := range f.Regions {
			regionSet[r] = true
		}
	}

	matched := make([]OrderRecord, 0, len(orders))
	for _, o := range orders {
		if !f.Range.Contains(o.Date) {
			continue
		}
		if regionSet != nil && !regionSet[o.Region] {
			continue
		}
		matched = append(matched, o)
	}
	return matched
}
