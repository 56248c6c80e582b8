package dataprocessing

import (
	"sort"

	"salescli/pkg/contracts/domain"
)

// topRegions caps the regional breakdowns for presentation.
const topRegions = 10

// KPIs computes the headline metrics for a filtered slice. An empty slice
// yields all zeros, never an error.
func KPIs(orders []domain.OrderRecord) domain.KPISet {
	kpis := domain.KPISet{OrderCount: len(orders)}
	for _, o := range orders {
		kpis.TotalRevenue += o.Amount
	}
	if kpis.OrderCount > 0 {
		kpis.AverageOrderValue = kpis.TotalRevenue / float64(kpis.OrderCount)
	}
	return kpis
}

// GroupByPayment sums revenue per payment method, sorted descending by sum.
// Percent is each group's share of slice revenue, or 0 when revenue is 0.
func GroupByPayment(orders []domain.OrderRecord) domain.GroupedSummary {
	summary := groupByKey(orders, func(o domain.OrderRecord) string {
		return string(o.PaymentMethod)
	})
	sortBySum(summary)

	var total float64
	for _, g := range summary {
		total += g.Sum
	}
	if total > 0 {
		for i := range summary {
			summary[i].Percent = summary[i].Sum / total * 100
		}
	}
	return summary
}

// GroupByCustomerType counts orders per customer type, sorted descending by
// count. Feeds the new-vs-recurring distribution chart.
func GroupByCustomerType(orders []domain.OrderRecord) domain.GroupedSummary {
	summary := groupByKey(orders, func(o domain.OrderRecord) string {
		return string(o.CustomerType)
	})
	sortByCount(summary)
	return summary
}

// GroupByRegionRevenue returns the top 10 regions by summed revenue,
// descending. Ties keep the first-seen region first.
func GroupByRegionRevenue(orders []domain.OrderRecord) domain.GroupedSummary {
	summary := groupByKey(orders, func(o domain.OrderRecord) string {
		return o.Region
	})
	sortBySum(summary)
	return truncate(summary, topRegions)
}

// GroupByRegionCount returns the top 10 regions by order count, descending.
func GroupByRegionCount(orders []domain.OrderRecord) domain.GroupedSummary {
	summary := groupByKey(orders, func(o domain.OrderRecord) string {
		return o.Region
	})
	sortByCount(summary)
	return truncate(summary, topRegions)
}

// groupByKey accumulates sum and count per key, preserving first-seen order
// so the stable sorts below break ties deterministically.
func groupByKey(orders []domain.OrderRecord, key func(domain.OrderRecord) string) domain.GroupedSummary {
	index := make(map[string]int, 16)
	summary := make(domain.GroupedSummary, 0, 16)
	for _, o := range orders {
		k := key(o)
		i, ok := index[k]
		if !ok {
			i = len(summary)
			index[k] = i
			summary = append(summary, domain.GroupTotal{Key: k})
		}
		summary[i].Sum += o.Amount
		summary[i].Count++
	}
	return summary
}

func sortBySum(summary domain.GroupedSummary) {
	sort.SliceStable(summary, func(i, j int) bool {
		return summary[i].Sum > summary[j].Sum
	})
}

func sortByCount(summary domain.GroupedSummary) {
	sort.SliceStable(summary, func(i, j int) bool {
		return summary[i].Count > summary[j].Count
	})
}

func truncate(summary domain.GroupedSummary, n int) domain.GroupedSummary {
	if len(summary) > n {
		return summary[:n]
	}
	return summary
}
