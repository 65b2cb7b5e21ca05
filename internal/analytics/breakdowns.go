package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CategorySpend is one row of the spend-by-category report.
type CategorySpend struct {
	Category         string  `json:"category"`
	TransactionCount int     `json:"transaction_count"`
	TotalSpend       float64 `json:"total_spend"`
	AvgTransaction   float64 `json:"avg_transaction"`
	SpendPercentage  float64 `json:"spend_percentage"`
}

// SpendByCategory groups every transaction by category, largest spend first.
func (e *Engine) SpendByCategory() []CategorySpend {
	groups := e.groupBy(func(r *record) string { return string(r.Category) }, nil)
	sortBySpend(groups)

	var total decimal.Decimal
	for _, g := range groups {
		total = total.Add(g.sum)
	}

	out := make([]CategorySpend, 0, len(groups))
	for _, g := range groups {
		share := decimal.Zero
		if total.IsPositive() {
			share = g.sum.Div(total).Mul(decimal.NewFromInt(100))
		}
		out = append(out, CategorySpend{
			Category:         g.key,
			TransactionCount: g.count,
			TotalSpend:       money(g.sum),
			AvgTransaction:   money(g.mean()),
			SpendPercentage:  money(share),
		})
	}
	return out
}

// RegionSpend is one row of the spend-by-region report.
type RegionSpend struct {
	Region           string  `json:"region"`
	UniqueCustomers  int     `json:"unique_customers"`
	TransactionCount int     `json:"transaction_count"`
	TotalSpend       float64 `json:"total_spend"`
	AvgTransaction   float64 `json:"avg_transaction"`
	SpendPerCustomer float64 `json:"spend_per_customer"`
}

// SpendByRegion groups every transaction by the customer's region, largest
// spend first.
func (e *Engine) SpendByRegion() []RegionSpend {
	groups := e.groupBy(func(r *record) string { return string(r.Region) }, nil)
	sortBySpend(groups)

	out := make([]RegionSpend, 0, len(groups))
	for _, g := range groups {
		out = append(out, RegionSpend{
			Region:           g.key,
			UniqueCustomers:  len(g.customers),
			TransactionCount: g.count,
			TotalSpend:       money(g.sum),
			AvgTransaction:   money(g.mean()),
			SpendPerCustomer: money(mean(g.sum, len(g.customers))),
		})
	}
	return out
}

// MonthlyTrend is the spend of one category in one calendar month.
type MonthlyTrend struct {
	Month            string  `json:"month"`
	Category         string  `json:"category"`
	TransactionCount int     `json:"transaction_count"`
	TotalSpend       float64 `json:"total_spend"`
}

// MonthlyTrends groups by (year-month, category) in chronological order,
// categories alphabetically within a month.
func (e *Engine) MonthlyTrends() []MonthlyTrend {
	groups := e.groupByMonthCategory()
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].month != groups[j].month {
			return groups[i].month < groups[j].month
		}
		return groups[i].category < groups[j].category
	})

	out := make([]MonthlyTrend, 0, len(groups))
	for _, g := range groups {
		out = append(out, MonthlyTrend{
			Month:            g.month,
			Category:         g.category,
			TransactionCount: g.count,
			TotalSpend:       money(g.sum),
		})
	}
	return out
}

// PeriodSpend is the count, sum and mean spend of one time bucket.
type PeriodSpend struct {
	TransactionCount int     `json:"transaction_count"`
	TotalSpend       float64 `json:"total_spend"`
	AvgTransaction   float64 `json:"avg_transaction"`
}

func periodSpend(g *group) PeriodSpend {
	return PeriodSpend{
		TransactionCount: g.count,
		TotalSpend:       money(g.sum),
		AvgTransaction:   money(g.mean()),
	}
}

// WeekdaySpend is the spend on one day of the week.
type WeekdaySpend struct {
	DayOfWeek string `json:"day_of_week"`
	PeriodSpend
}

// weekdayOrder puts Monday first.
func weekdayOrder(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// SpendByWeekday groups by day of week, Monday through Sunday. Days with
// no transactions are omitted.
func (e *Engine) SpendByWeekday() []WeekdaySpend {
	groups := e.groupBy(func(r *record) string { return r.weekday.String() }, nil)
	order := make(map[string]int, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		order[d.String()] = weekdayOrder(d)
	}
	sort.Slice(groups, func(i, j int) bool { return order[groups[i].key] < order[groups[j].key] })

	out := make([]WeekdaySpend, 0, len(groups))
	for _, g := range groups {
		out = append(out, WeekdaySpend{DayOfWeek: g.key, PeriodSpend: periodSpend(g)})
	}
	return out
}

// QuarterSpend is the spend in one calendar quarter, e.g. "2024-Q3".
type QuarterSpend struct {
	Quarter string `json:"quarter"`
	PeriodSpend
}

// SpendByQuarter groups by calendar quarter in chronological order.
func (e *Engine) SpendByQuarter() []QuarterSpend {
	groups := e.groupBy(func(r *record) string { return r.quarter }, nil)
	sort.Slice(groups, func(i, j int) bool { return groups[i].key < groups[j].key })

	out := make([]QuarterSpend, 0, len(groups))
	for _, g := range groups {
		out = append(out, QuarterSpend{Quarter: g.key, PeriodSpend: periodSpend(g)})
	}
	return out
}
